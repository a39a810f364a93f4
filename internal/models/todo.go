package models

import (
	"fmt"
	"unicode/utf8"
)

const (
	TodoContentMinLength = 3
	TodoContentMaxLength = 54
)

var ErrTodoContentLength = fmt.Errorf(
	"content must be between %d and %d characters",
	TodoContentMinLength, TodoContentMaxLength,
)

// Todo is a single row of the todo table. ID is zero until the
// database assigns one.
type Todo struct {
	ID          int64  `json:"id" gorm:"primaryKey;autoIncrement"`
	Content     string `json:"content" gorm:"size:54;not null;index;check:chk_todo_content_length,length(content) BETWEEN 3 AND 54"`
	IsCompleted bool   `json:"is_completed" gorm:"not null;default:false"`
}

func (Todo) TableName() string {
	return "todo"
}

func (t *Todo) Validate() error {
	n := utf8.RuneCountInString(t.Content)
	if n < TodoContentMinLength || n > TodoContentMaxLength {
		return ErrTodoContentLength
	}
	return nil
}
