package v1

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/adanyl0v/todo-app/internal/models"
	"github.com/adanyl0v/todo-app/internal/services"
)

const welcomeMessage = "Welcome to todo-app"

type getTodoResponse struct {
	ID          int64  `json:"id"`
	Content     string `json:"content"`
	IsCompleted bool   `json:"is_completed"`
}

func newGetTodoResponse(todo *models.Todo) getTodoResponse {
	return getTodoResponse{
		ID:          todo.ID,
		Content:     todo.Content,
		IsCompleted: todo.IsCompleted,
	}
}

type messageResponse struct {
	Message string `json:"message"`
}

// todoRequest is the body of both create and update. A client-sent id
// is ignored; ids are assigned by the database.
type todoRequest struct {
	Content     string `json:"content" binding:"required,min=3,max=54"`
	IsCompleted bool   `json:"is_completed"`
}

func (r todoRequest) params() services.TodoParams {
	return services.TodoParams{
		Content:     r.Content,
		IsCompleted: r.IsCompleted,
	}
}

func (h *handlerImpl) HandleRoot(c *gin.Context) {
	c.JSON(http.StatusOK, messageResponse{Message: welcomeMessage})
}

func (h *handlerImpl) HandleCreateTodo(c *gin.Context) {
	var req todoRequest
	err := c.ShouldBindJSON(&req)
	if err != nil {
		logger := h.requestLogger(c)
		logger.Error().
			Err(err).
			Msg("failed to bind json")
		abortValidation(c, bindingErrorDetails(err)...)
		return
	}

	h.withTodoService(c, func(todos services.TodoService) {
		todo, err := todos.CreateTodo(c, req.params())
		if err != nil {
			h.abortTodoError(c, err, "")
			return
		}
		c.JSON(http.StatusOK, newGetTodoResponse(todo))
	})
}

func (h *handlerImpl) HandleGetTodos(c *gin.Context) {
	h.withTodoService(c, func(todos services.TodoService) {
		list, err := todos.GetTodos(c)
		if err != nil {
			h.abortTodoError(c, err, msgGetNotFound)
			return
		}

		response := make([]getTodoResponse, len(list))
		for i, todo := range list {
			response[i] = newGetTodoResponse(todo)
		}
		c.JSON(http.StatusOK, response)
	})
}

func (h *handlerImpl) HandleGetTodo(c *gin.Context) {
	id, ok := h.bindTodoID(c)
	if !ok {
		return
	}

	h.withTodoService(c, func(todos services.TodoService) {
		todo, err := todos.GetTodoByID(c, id)
		if err != nil {
			h.abortTodoError(c, err, msgGetNotFound)
			return
		}
		c.JSON(http.StatusOK, newGetTodoResponse(todo))
	})
}

func (h *handlerImpl) HandleUpdateTodo(c *gin.Context) {
	id, ok := h.bindTodoID(c)
	if !ok {
		return
	}

	var req todoRequest
	err := c.ShouldBindJSON(&req)
	if err != nil {
		logger := h.requestLogger(c)
		logger.Error().
			Err(err).
			Msg("failed to bind json")
		abortValidation(c, bindingErrorDetails(err)...)
		return
	}

	h.withTodoService(c, func(todos services.TodoService) {
		todo, err := todos.UpdateTodo(c, id, req.params())
		if err != nil {
			h.abortTodoError(c, err, msgUpdateNotFound)
			return
		}
		c.JSON(http.StatusOK, newGetTodoResponse(todo))
	})
}

func (h *handlerImpl) HandleDeleteTodo(c *gin.Context) {
	id, ok := h.bindTodoID(c)
	if !ok {
		return
	}

	h.withTodoService(c, func(todos services.TodoService) {
		err := todos.DeleteTodo(c, id)
		if err != nil {
			h.abortTodoError(c, err, msgDeleteNotFound)
			return
		}
		c.JSON(http.StatusOK, messageResponse{Message: "Task Successfully Deleted!"})
	})
}

// withTodoService runs fn with a todo service bound to a fresh session.
// The session is released when fn returns.
func (h *handlerImpl) withTodoService(c *gin.Context, fn func(todos services.TodoService)) {
	err := h.sessions.WithSession(c, func(tx *gorm.DB) error {
		fn(services.NewTodoService(h.requestLogger(c), tx))
		return nil
	})
	if err != nil {
		logger := h.requestLogger(c)
		logger.Error().
			Err(err).
			Msg("failed to open session")
		abort(c, newStatusTextError(http.StatusInternalServerError))
	}
}

func (h *handlerImpl) bindTodoID(c *gin.Context) (int64, bool) {
	raw := c.Param("id")
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil {
		logger := h.requestLogger(c)
		logger.Error().
			Err(err).
			Str("id", raw).
			Msg("invalid todo id")
		abortValidation(c, validationDetail{
			Loc:  []string{"path", "id"},
			Msg:  "value is not a valid integer",
			Type: "int_parsing",
		})
		return 0, false
	}
	return id, true
}

func (h *handlerImpl) abortTodoError(c *gin.Context, err error, notFoundMessage string) {
	switch {
	case errors.Is(err, services.ErrTodoNotFound) && notFoundMessage != "":
		abort(c, newNotFoundError(notFoundMessage))
	case errors.Is(err, services.ErrInvalidTodo):
		abortValidation(c, validationDetail{
			Loc:  []string{"body", "content"},
			Msg:  models.ErrTodoContentLength.Error(),
			Type: "value_error",
		})
	default:
		abort(c, newStatusTextError(http.StatusInternalServerError))
	}
}
