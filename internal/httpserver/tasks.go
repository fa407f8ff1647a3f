package httpserver

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/Skotchmaster/task_service/internal/authz"
	"github.com/Skotchmaster/task_service/internal/domain"
	"github.com/Skotchmaster/task_service/internal/service"
	"github.com/Skotchmaster/task_service/internal/transport"
	"github.com/Skotchmaster/task_service/internal/util"
	"github.com/Skotchmaster/task_service/pkg/logging"
)

type TasksHTTP struct {
	Svc *service.TaskService
}

func identity(c echo.Context) (domain.Identity, error) {
	id, ok := authz.FromContext(c.Request().Context())
	if !ok {
		return domain.Identity{}, echo.NewHTTPError(http.StatusUnauthorized, "access denied: token not provided")
	}
	return id, nil
}

// serviceError converts a TaskService error into the response for the
// client and logs it under event.
func serviceError(l *slog.Logger, event string, err error) error {
	switch {
	case errors.Is(err, service.ErrValidation):
		l.Warn(event, "status", 400, "reason", "invalid body", "error", err)
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	case errors.Is(err, service.ErrNoTasks):
		l.Warn(event, "status", 404, "reason", "no tasks found")
		return echo.NewHTTPError(http.StatusNotFound, "no tasks found")
	case errors.Is(err, service.ErrTaskNotFound):
		l.Warn(event, "status", 404, "reason", "task not found")
		return echo.NewHTTPError(http.StatusNotFound, "task not found")
	case errors.Is(err, service.ErrForbidden):
		l.Warn(event, "status", 403, "reason", "not owner")
		return echo.NewHTTPError(http.StatusForbidden, "you do not have permission to update this task")
	case errors.Is(err, service.ErrSearchUnavailable):
		l.Warn(event, "status", 503, "reason", "search disabled")
		return echo.NewHTTPError(http.StatusServiceUnavailable, "search is not configured")
	default:
		l.Error(event, "status", 500, "reason", "server error", "error", err)
		return echo.NewHTTPError(http.StatusInternalServerError, "server error").SetInternal(err)
	}
}

func (h *TasksHTTP) GetTasks(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "tasks.get_tasks")

	who, err := identity(c)
	if err != nil {
		return err
	}

	tasks, err := h.Svc.ListOwn(ctx, who)
	if err != nil {
		return serviceError(l, "get_tasks_failed", err)
	}

	l.Info("get_tasks_success", "count", len(tasks))
	return c.JSON(http.StatusOK, transport.TasksResponse{Tasks: transport.NewTaskViews(tasks)})
}

func (h *TasksHTTP) AddTask(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "tasks.add_task")

	who, err := identity(c)
	if err != nil {
		return err
	}

	var req transport.CreateTaskRequest
	if err := c.Bind(&req); err != nil {
		l.Warn("add_task_failed", "status", 400, "reason", "invalid body", "error", err)
		return echo.NewHTTPError(http.StatusBadRequest, "invalid body")
	}

	task, err := h.Svc.Create(ctx, who, req)
	if err != nil {
		return serviceError(l, "add_task_failed", err)
	}

	l.Info("add_task_success", "task_id", task.ID)
	return c.JSON(http.StatusCreated, transport.TaskResponse{
		Message: "task added",
		Task:    transport.NewTaskView(task),
	})
}

func (h *TasksHTTP) UpdateTaskStatus(c echo.Context) error {
	ctx := c.Request().Context()
	taskID := c.Param("taskId")
	l := logging.FromContext(ctx).With("handler", "tasks.update_status", "task_id", taskID)

	who, err := identity(c)
	if err != nil {
		return err
	}

	var req transport.UpdateStatusRequest
	if err := c.Bind(&req); err != nil {
		l.Warn("update_status_failed", "status", 400, "reason", "invalid body", "error", err)
		return echo.NewHTTPError(http.StatusBadRequest, "invalid body")
	}

	if err := h.Svc.UpdateStatus(ctx, who, taskID, req.Status); err != nil {
		return serviceError(l, "update_status_failed", err)
	}

	l.Info("update_status_success", "new_status", req.Status)
	return c.JSON(http.StatusOK, transport.MessageResponse{Message: "task status updated"})
}

func (h *TasksHTTP) CreateGroupTask(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "tasks.create_group_task")

	who, err := identity(c)
	if err != nil {
		return err
	}

	var req transport.CreateGroupTaskRequest
	if err := c.Bind(&req); err != nil {
		l.Warn("create_group_task_failed", "status", 400, "reason", "invalid body", "error", err)
		return echo.NewHTTPError(http.StatusBadRequest, "invalid body")
	}

	task, err := h.Svc.CreateGroupTask(ctx, who, req)
	if err != nil {
		return serviceError(l, "create_group_task_failed", err)
	}

	l.Info("create_group_task_success", "task_id", task.ID, "group_id", req.GroupID)
	return c.JSON(http.StatusCreated, transport.TaskResponse{Task: transport.NewTaskView(task)})
}

func (h *TasksHTTP) GetGroupTasks(c echo.Context) error {
	ctx := c.Request().Context()
	groupID := c.Param("groupId")
	l := logging.FromContext(ctx).With("handler", "tasks.get_group_tasks", "group_id", groupID)

	who, err := identity(c)
	if err != nil {
		return err
	}

	tasks, err := h.Svc.ListGroup(ctx, groupID)
	if err != nil {
		return serviceError(l, "get_group_tasks_failed", err)
	}

	l.Info("get_group_tasks_success", "count", len(tasks))
	return c.JSON(http.StatusOK, transport.GroupTasksResponse{
		Tasks:    transport.NewTaskViews(tasks),
		UserRole: who.Role.String(),
		UserID:   who.ID,
	})
}

func (h *TasksHTTP) DropTask(c echo.Context) error {
	ctx := c.Request().Context()
	taskID := c.Param("taskId")
	l := logging.FromContext(ctx).With("handler", "tasks.drop_task", "task_id", taskID)

	who, err := identity(c)
	if err != nil {
		return err
	}

	var req transport.UpdateStatusRequest
	if err := c.Bind(&req); err != nil {
		l.Warn("drop_task_failed", "status", 400, "reason", "invalid body", "error", err)
		return echo.NewHTTPError(http.StatusBadRequest, "invalid body")
	}

	if err := h.Svc.Drop(ctx, who, taskID, req.Status); err != nil {
		return serviceError(l, "drop_task_failed", err)
	}

	l.Info("drop_task_success", "new_status", req.Status)
	return c.JSON(http.StatusOK, transport.MessageResponse{Message: "task updated"})
}

func (h *TasksHTTP) SearchTasks(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "tasks.search")

	who, err := identity(c)
	if err != nil {
		return err
	}

	page := util.ParseIntDefault(c.QueryParam("page"), 1)
	size := util.ParseIntDefault(c.QueryParam("size"), util.DefaultPageSize)
	from, limit := util.Calculate(page, size)

	total, tasks, err := h.Svc.Search(ctx, who, c.QueryParam("q"), from, limit)
	if err != nil {
		return serviceError(l, "search_failed", err)
	}
	if tasks == nil {
		tasks = []transport.TaskView{}
	}

	l.Info("search_success", "total", total)
	return c.JSON(http.StatusOK, transport.SearchResponse{Total: total, Tasks: tasks})
}
