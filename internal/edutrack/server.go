package edutrack

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
	"github.com/vanshdigitals/edutrack/internal/utils/logger"
)

var log = logger.New("EduTrack")

// Server is the EduTrack Learning Management System API.
type Server struct {
	echo   *echo.Echo
	config *config.Config
	db     *gorm.DB
}

func NewServer(cfg *config.Config, db *gorm.DB) *Server {
	e := api.NewEcho()

	s := &Server{
		echo:   e,
		config: cfg,
		db:     db,
	}
	s.registerRoutes()
	return s
}

func (s *Server) registerRoutes() {
	s.echo.GET("/", func(c echo.Context) error {
		return c.JSON(http.StatusOK, map[string]interface{}{
			"message": "EduTrack LMS Backend API is running!",
			"time":    time.Now().Format(time.RFC3339),
		})
	})

	authmw := middleware.NewAuthMiddleware(s.config.JWT.Secret)

	g := s.echo.Group("/api")

	// Public auth routes.
	authHandler := NewAuthHandler(s.db, s.config)
	authGroup := g.Group("/auth")
	authGroup.POST("/register", authHandler.Register)
	authGroup.POST("/login", authHandler.Login)

	// Every route below carries the authentication gate plus a fixed role
	// allow-list. The lists are flat: Administrator is listed explicitly
	// wherever it is admitted.
	userHandler := NewUserHandler(s.db)
	users := g.Group("/users", authmw.Middleware())
	users.GET("", userHandler.List, middleware.RequireRoles(RoleAdministrator))
	users.GET("/:id", userHandler.Get, middleware.RequireRoles(RoleAdministrator, RoleFaculty, RoleStudent))
	users.PUT("/:id", userHandler.Update, middleware.RequireRoles(RoleAdministrator))
	users.DELETE("/:id", userHandler.Delete, middleware.RequireRoles(RoleAdministrator))

	courseHandler := NewCourseHandler(s.db)
	courses := g.Group("/courses", authmw.Middleware())
	courses.GET("", courseHandler.List, middleware.RequireRoles(RoleAdministrator, RoleFaculty, RoleStudent))
	courses.GET("/:id", courseHandler.Get, middleware.RequireRoles(RoleAdministrator, RoleFaculty, RoleStudent))
	courses.POST("", courseHandler.Create, middleware.RequireRoles(RoleAdministrator, RoleFaculty))
	courses.PUT("/:id", courseHandler.Update, middleware.RequireRoles(RoleAdministrator, RoleFaculty))
	courses.DELETE("/:id", courseHandler.Delete, middleware.RequireRoles(RoleAdministrator))

	enrollmentHandler := NewEnrollmentHandler(s.db)
	enrollments := g.Group("/enrollments", authmw.Middleware())
	enrollments.GET("", enrollmentHandler.List, middleware.RequireRoles(RoleAdministrator, RoleFaculty))
	enrollments.GET("/:id", enrollmentHandler.Get, middleware.RequireRoles(RoleAdministrator, RoleFaculty, RoleStudent))
	enrollments.POST("", enrollmentHandler.Create, middleware.RequireRoles(RoleAdministrator))
	enrollments.PUT("/:id", enrollmentHandler.Update, middleware.RequireRoles(RoleAdministrator))
	enrollments.DELETE("/:id", enrollmentHandler.Delete, middleware.RequireRoles(RoleAdministrator))

	gradeHandler := NewGradeHandler(s.db)
	grades := g.Group("/grades", authmw.Middleware())
	grades.GET("", gradeHandler.List, middleware.RequireRoles(RoleAdministrator, RoleFaculty))
	grades.GET("/:id", gradeHandler.Get, middleware.RequireRoles(RoleAdministrator, RoleFaculty, RoleStudent))
	grades.POST("", gradeHandler.Create, middleware.RequireRoles(RoleAdministrator, RoleFaculty))
	grades.PUT("/:id", gradeHandler.Update, middleware.RequireRoles(RoleAdministrator, RoleFaculty))
	grades.DELETE("/:id", gradeHandler.Delete, middleware.RequireRoles(RoleAdministrator))

	attendanceHandler := NewAttendanceHandler(s.db)
	attendance := g.Group("/attendance", authmw.Middleware())
	attendance.GET("", attendanceHandler.List, middleware.RequireRoles(RoleAdministrator, RoleFaculty))
	attendance.GET("/:id", attendanceHandler.Get, middleware.RequireRoles(RoleAdministrator, RoleFaculty, RoleStudent))
	attendance.POST("", attendanceHandler.Create, middleware.RequireRoles(RoleAdministrator, RoleFaculty))
	attendance.PUT("/:id", attendanceHandler.Update, middleware.RequireRoles(RoleAdministrator, RoleFaculty))
	attendance.DELETE("/:id", attendanceHandler.Delete, middleware.RequireRoles(RoleAdministrator))

	reportHandler := NewReportHandler(s.db)
	reports := g.Group("/reports", authmw.Middleware())
	reports.GET("/student-performance/:student_id", reportHandler.StudentPerformance,
		middleware.RequireRoles(RoleAdministrator, RoleFaculty, RoleStudent))
	reports.GET("/course-analytics/:course_id", reportHandler.CourseAnalytics,
		middleware.RequireRoles(RoleAdministrator, RoleFaculty))
	reports.GET("/student-attendance/:student_id/:course_id", reportHandler.StudentCourseAttendance,
		middleware.RequireRoles(RoleAdministrator, RoleFaculty, RoleStudent))
}

// Echo exposes the underlying router; tests drive it through httptest.
func (s *Server) Echo() *echo.Echo {
	return s.echo
}

func (s *Server) Start() error {
	log.Info("EduTrack server listening on %s:%d", s.config.Server.Host, s.config.Server.Port)
	return s.echo.Start(fmt.Sprintf("%s:%d", s.config.Server.Host, s.config.Server.Port))
}

func (s *Server) Shutdown(ctx context.Context) error {
	return s.echo.Shutdown(ctx)
}
