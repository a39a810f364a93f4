package database

import (
	"context"

	"gorm.io/gorm"
)

// Sessions hands out one session per unit of work. Each session is
// pinned to a single pooled connection that goes back to the pool as
// soon as the callback returns.
type Sessions struct {
	db *gorm.DB
}

func NewSessions(db *gorm.DB) Sessions {
	return Sessions{db: db}
}

func (s Sessions) WithSession(ctx context.Context, fn func(tx *gorm.DB) error) error {
	return s.db.WithContext(ctx).Connection(func(tx *gorm.DB) error {
		return fn(tx.Session(&gorm.Session{NewDB: true}))
	})
}

// SharedSession yields the same session to every caller. Used to point
// the HTTP layer at a session owned by the caller, e.g. a test fixture.
type SharedSession struct {
	tx *gorm.DB
}

func NewSharedSession(tx *gorm.DB) SharedSession {
	return SharedSession{tx: tx}
}

func (s SharedSession) WithSession(ctx context.Context, fn func(tx *gorm.DB) error) error {
	return fn(s.tx.Session(&gorm.Session{NewDB: true, Context: ctx}))
}
