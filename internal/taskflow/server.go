package taskflow

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
	"gorm.io/gorm"

	"github.com/vanshdigitals/edutrack/internal/api"
	"github.com/vanshdigitals/edutrack/internal/api/middleware"
	"github.com/vanshdigitals/edutrack/internal/config"
	"github.com/vanshdigitals/edutrack/internal/realtime"
	"github.com/vanshdigitals/edutrack/internal/utils/logger"
)

var log = logger.New("TaskFlow")

// Server is the TaskFlow project collaboration API.
type Server struct {
	echo     *echo.Echo
	config   *config.Config
	db       *gorm.DB
	hub      *realtime.Hub
	notifier Notifier
}

func NewServer(cfg *config.Config, db *gorm.DB, notifier Notifier) *Server {
	e := api.NewEcho()

	s := &Server{
		echo:     e,
		config:   cfg,
		db:       db,
		notifier: notifier,
	}
	s.hub = realtime.NewHub(s.resolveProject)
	s.hub.AttachBus()
	s.registerRoutes()
	return s
}

// resolveProject maps a task id to its project so inbound realtime messages
// can be scoped to the right subscribers.
func (s *Server) resolveProject(taskID uint) (uint, bool) {
	var task Task
	if err := s.db.Select("project_id").First(&task, "task_id = ?", taskID).Error; err != nil {
		return 0, false
	}
	return task.ProjectID, true
}

func (s *Server) registerRoutes() {
	s.echo.GET("/", func(c echo.Context) error {
		return c.JSON(http.StatusOK, map[string]interface{}{
			"message": "TaskFlow Backend API is running!",
			"time":    time.Now().Format(time.RFC3339),
		})
	})

	authmw := middleware.NewAuthMiddleware(s.config.JWT.Secret)

	s.echo.GET("/ws", realtime.Handler(s.hub, authmw))

	g := s.echo.Group("/api")

	// Public auth routes.
	authHandler := NewAuthHandler(s.db, s.config)
	authGroup := g.Group("/auth")
	authGroup.POST("/register", authHandler.Register)
	authGroup.POST("/login", authHandler.Login)

	// Everything else carries the authentication gate. There is no role
	// gate; per-record ownership checks live in the handlers.
	projectHandler := NewProjectHandler(s.db)
	projects := g.Group("/projects", authmw.Middleware())
	projects.GET("", projectHandler.List)
	projects.GET("/:id", projectHandler.Get)
	projects.POST("", projectHandler.Create)
	projects.PUT("/:id", projectHandler.Update)
	projects.DELETE("/:id", projectHandler.Delete)

	taskHandler := NewTaskHandler(s.db, s.notifier)
	tasks := g.Group("/tasks", authmw.Middleware())
	tasks.GET("", taskHandler.List)
	tasks.GET("/:id", taskHandler.Get)
	tasks.POST("", taskHandler.Create)
	tasks.PUT("/:id", taskHandler.Update)
	tasks.DELETE("/:id", taskHandler.Delete)

	commentHandler := NewCommentHandler(s.db)
	comments := g.Group("/comments", authmw.Middleware())
	comments.GET("/task/:taskId", commentHandler.ListByTask)
	comments.POST("", commentHandler.Create)
	comments.PUT("/:id", commentHandler.Update)
	comments.DELETE("/:id", commentHandler.Delete)

	notificationHandler := NewNotificationHandler(s.db)
	notifications := g.Group("/notifications", authmw.Middleware())
	notifications.GET("/user/:userId", notificationHandler.ListByUser)
	notifications.PUT("/mark-read/:id", notificationHandler.MarkRead)
	notifications.DELETE("/:id", notificationHandler.Delete)
}

// Echo exposes the underlying router; tests drive it through httptest.
func (s *Server) Echo() *echo.Echo {
	return s.echo
}

// Hub exposes the realtime hub so main can attach the Redis bridge.
func (s *Server) Hub() *realtime.Hub {
	return s.hub
}

func (s *Server) Start() error {
	log.Info("TaskFlow server listening on %s:%d", s.config.Server.Host, s.config.Server.Port)
	return s.echo.Start(fmt.Sprintf("%s:%d", s.config.Server.Host, s.config.Server.Port))
}

func (s *Server) Shutdown(ctx context.Context) error {
	return s.echo.Shutdown(ctx)
}
