package v1

import (
	"context"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
	"gorm.io/gorm"
)

type Handler interface {
	HandleRoot(c *gin.Context)

	HandleCreateTodo(c *gin.Context)
	HandleGetTodos(c *gin.Context)
	HandleGetTodo(c *gin.Context)
	HandleUpdateTodo(c *gin.Context)
	HandleDeleteTodo(c *gin.Context)

	HandleRequestLogger(c *gin.Context)
}

// SessionProvider opens a database session for the duration of fn and
// releases it afterwards, whatever fn returns.
type SessionProvider interface {
	WithSession(ctx context.Context, fn func(tx *gorm.DB) error) error
}

type handlerImpl struct {
	logger   zerolog.Logger
	sessions SessionProvider
}

func New(
	logger zerolog.Logger,
	sessions SessionProvider,
) Handler {
	return &handlerImpl{
		logger:   logger,
		sessions: sessions,
	}
}

func RegisterRoutes(router gin.IRouter, h Handler) {
	router.GET("/", h.HandleRoot)

	todosRouter := router.Group("/todos")
	todosRouter.POST("/", h.HandleCreateTodo)
	todosRouter.GET("/", h.HandleGetTodos)
	todosRouter.GET("/:id", h.HandleGetTodo)
	todosRouter.PUT("/:id", h.HandleUpdateTodo)
	todosRouter.DELETE("/:id", h.HandleDeleteTodo)
}
