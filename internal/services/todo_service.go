package services

import (
	"context"
	"errors"

	"github.com/jackc/pgerrcode"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/rs/zerolog"
	"gorm.io/gorm"

	"github.com/adanyl0v/todo-app/internal/models"
)

type todoServiceImpl struct {
	logger zerolog.Logger
	tx     *gorm.DB
}

// NewTodoService binds the service to one session. It is cheap and
// meant to be built per request.
func NewTodoService(
	logger zerolog.Logger,
	tx *gorm.DB,
) TodoService {
	return &todoServiceImpl{
		logger: logger,
		tx:     tx,
	}
}

func (s *todoServiceImpl) CreateTodo(ctx context.Context, params TodoParams) (*models.Todo, error) {
	todo := &models.Todo{
		Content:     params.Content,
		IsCompleted: params.IsCompleted,
	}

	err := todo.Validate()
	if err != nil {
		s.logger.Error().
			Err(err).
			Int("length", len(todo.Content)).
			Msg("invalid todo")
		return nil, errors.Join(ErrInvalidTodo, err)
	}

	err = s.tx.WithContext(ctx).Create(todo).Error
	if err != nil {
		s.logger.Error().
			Err(err).
			Msg("failed to insert todo")
		return nil, translateError(err)
	}
	s.logger.Debug().
		Int64("todo_id", todo.ID).
		Msg("inserted todo")

	s.logger.Info().
		Int64("todo_id", todo.ID).
		Msg("created todo")
	return todo, nil
}

func (s *todoServiceImpl) GetTodos(ctx context.Context) ([]*models.Todo, error) {
	var todos []*models.Todo
	err := s.tx.WithContext(ctx).
		Order("id").
		Find(&todos).Error
	if err != nil {
		s.logger.Error().
			Err(err).
			Msg("failed to select todos")
		return nil, err
	}

	if len(todos) == 0 {
		s.logger.Info().Msg("no todos found")
		return nil, ErrTodoNotFound
	}
	s.logger.Debug().
		Int("count", len(todos)).
		Msg("selected todos")

	s.logger.Info().
		Int("count", len(todos)).
		Msg("todos found")
	return todos, nil
}

func (s *todoServiceImpl) GetTodoByID(ctx context.Context, id int64) (*models.Todo, error) {
	todo := new(models.Todo)
	err := s.tx.WithContext(ctx).
		Where("id = ?", id).
		First(todo).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			s.logger.Error().
				Int64("todo_id", id).
				Msg("todo not found")
			return nil, ErrTodoNotFound
		}

		s.logger.Error().
			Err(err).
			Int64("todo_id", id).
			Msg("failed to select todo by id")
		return nil, err
	}

	s.logger.Info().
		Int64("todo_id", id).
		Msg("todo found")
	return todo, nil
}

func (s *todoServiceImpl) UpdateTodo(ctx context.Context, id int64, params TodoParams) (*models.Todo, error) {
	todo := &models.Todo{
		ID:          id,
		Content:     params.Content,
		IsCompleted: params.IsCompleted,
	}

	err := todo.Validate()
	if err != nil {
		s.logger.Error().
			Err(err).
			Int64("todo_id", id).
			Msg("invalid todo")
		return nil, errors.Join(ErrInvalidTodo, err)
	}

	// Both columns are always written, so false and the old content
	// never survive an update.
	result := s.tx.WithContext(ctx).
		Model(&models.Todo{}).
		Where("id = ?", id).
		Select("content", "is_completed").
		Updates(map[string]any{
			"content":      todo.Content,
			"is_completed": todo.IsCompleted,
		})
	if result.Error != nil {
		s.logger.Error().
			Err(result.Error).
			Int64("todo_id", id).
			Msg("failed to update todo")
		return nil, translateError(result.Error)
	}
	if result.RowsAffected == 0 {
		s.logger.Error().
			Int64("todo_id", id).
			Msg("todo not found")
		return nil, ErrTodoNotFound
	}
	s.logger.Debug().
		Int64("todo_id", id).
		Msg("updated todo")

	// Read the row back so the response reflects what was stored.
	err = s.tx.WithContext(ctx).
		Where("id = ?", id).
		First(todo).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			s.logger.Error().
				Int64("todo_id", id).
				Msg("todo deleted during update")
			return nil, ErrTodoNotFound
		}

		s.logger.Error().
			Err(err).
			Int64("todo_id", id).
			Msg("failed to select updated todo")
		return nil, err
	}

	s.logger.Info().
		Int64("todo_id", id).
		Msg("updated todo")
	return todo, nil
}

func (s *todoServiceImpl) DeleteTodo(ctx context.Context, id int64) error {
	result := s.tx.WithContext(ctx).
		Where("id = ?", id).
		Delete(&models.Todo{})
	if result.Error != nil {
		s.logger.Error().
			Err(result.Error).
			Int64("todo_id", id).
			Msg("failed to delete todo")
		return result.Error
	}
	if result.RowsAffected == 0 {
		s.logger.Error().
			Int64("todo_id", id).
			Msg("todo not found")
		return ErrTodoNotFound
	}

	s.logger.Info().
		Int64("todo_id", id).
		Msg("deleted todo")
	return nil
}

// translateError maps constraint violations reported by PostgreSQL to
// ErrInvalidTodo. Other errors are returned unchanged.
func translateError(err error) error {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		switch pgErr.Code {
		case pgerrcode.CheckViolation, pgerrcode.StringDataRightTruncationDataException:
			return errors.Join(ErrInvalidTodo, err)
		}
	}
	return err
}
