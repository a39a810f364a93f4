package services

import (
	"context"
	"errors"

	"github.com/adanyl0v/todo-app/internal/models"
)

var (
	ErrTodoNotFound = errors.New("todo not found")
	ErrInvalidTodo  = errors.New("invalid todo")
)

type TodoService interface {
	// CreateTodo inserts a new todo and returns it with the
	// id assigned by the database.
	//
	// It returns ErrInvalidTodo if the content length is out of range.
	CreateTodo(ctx context.Context, params TodoParams) (*models.Todo, error)

	// GetTodos returns every todo ordered by id.
	//
	// It returns ErrTodoNotFound if there are none.
	GetTodos(ctx context.Context) ([]*models.Todo, error)

	// GetTodoByID returns ErrTodoNotFound if no todo has the given id.
	GetTodoByID(ctx context.Context, id int64) (*models.Todo, error)

	// UpdateTodo overwrites both the content and the completion flag
	// of an existing todo. Fields are never merged with the old row.
	//
	// It returns ErrTodoNotFound if no todo has the given id or
	// ErrInvalidTodo if the content length is out of range.
	UpdateTodo(ctx context.Context, id int64, params TodoParams) (*models.Todo, error)

	// DeleteTodo returns ErrTodoNotFound if no todo has the given id.
	DeleteTodo(ctx context.Context, id int64) error
}

type TodoParams struct {
	Content     string
	IsCompleted bool
}
