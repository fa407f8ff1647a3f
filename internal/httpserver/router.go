package httpserver

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"gorm.io/gorm"

	"github.com/Skotchmaster/task_service/internal/authz"
	"github.com/Skotchmaster/task_service/internal/domain"
	pkgdb "github.com/Skotchmaster/task_service/pkg/db"
	"github.com/Skotchmaster/task_service/pkg/logging"
)

type Deps struct {
	TasksHandler *TasksHTTP
	Authorizer   *authz.Authorizer
	// DB is pinged by /health/ready when set.
	DB *gorm.DB
	// SearchEnabled registers GET /tasks/search.
	SearchEnabled bool
}

func Register(e *echo.Echo, d *Deps) {
	e.GET("/", func(c echo.Context) error { return c.String(http.StatusOK, "Tasks service running!") })
	e.GET("/health/live", func(c echo.Context) error { return c.NoContent(http.StatusOK) })
	e.GET("/health/ready", func(c echo.Context) error {
		if d.DB == nil {
			return c.NoContent(http.StatusOK)
		}
		if err := pkgdb.Ping(c.Request().Context(), d.DB); err != nil {
			logging.FromContext(c.Request().Context()).Error("readiness_failed", "status", 503, "error", err)
			return c.NoContent(http.StatusServiceUnavailable)
		}
		return c.NoContent(http.StatusOK)
	})

	h := d.TasksHandler
	anyone := d.Authorizer.Require(domain.AdminOrUser)
	adminOnly := d.Authorizer.Require(domain.AdminOnly)

	if d.SearchEnabled {
		e.GET("/tasks/search", h.SearchTasks, anyone)
	}
	e.GET("/tasks", h.GetTasks, anyone)
	e.POST("/add-tasks", h.AddTask, anyone)
	e.PATCH("/tasks/:taskId", h.UpdateTaskStatus, anyone)
	e.POST("/createGroupTasks", h.CreateGroupTask, adminOnly)
	e.GET("/groups/:groupId/tasks", h.GetGroupTasks, anyone)
	e.PATCH("/dropTasks/:taskId", h.DropTask, anyone)
}
