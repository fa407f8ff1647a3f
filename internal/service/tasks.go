package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/Skotchmaster/task_service/internal/domain"
	"github.com/Skotchmaster/task_service/internal/events"
	"github.com/Skotchmaster/task_service/internal/store"
	"github.com/Skotchmaster/task_service/internal/transport"
	"github.com/Skotchmaster/task_service/pkg/logging"
)

var (
	ErrValidation        = errors.New("validation error")
	ErrTaskNotFound      = errors.New("task not found")
	ErrNoTasks           = errors.New("no tasks found")
	ErrForbidden         = errors.New("not allowed to update this task")
	ErrSearchUnavailable = errors.New("search is not configured")
)

const (
	// sideEffectTimeout bounds each Kafka publish and search index call.
	sideEffectTimeout = 5 * time.Second
	// maxSearchWindow is the Elasticsearch default index.max_result_window.
	maxSearchWindow = 10000
)

// Indexer mirrors tasks into a search index.
type Indexer interface {
	IndexTask(ctx context.Context, t domain.Task) error
	UpdateStatus(ctx context.Context, id, status string) error
	Search(ctx context.Context, who domain.Identity, q string, from, size int) (int64, []transport.TaskView, error)
}

type TaskService struct {
	Store    store.TaskStore
	Producer events.Publisher
	Indexer  Indexer
	Now      func() time.Time
}

func (s *TaskService) now() time.Time {
	if s.Now != nil {
		return s.Now()
	}
	return time.Now().UTC()
}

// ListOwn returns the caller's personal tasks. An empty result is
// ErrNoTasks, unlike ListGroup.
func (s *TaskService) ListOwn(ctx context.Context, who domain.Identity) ([]domain.Task, error) {
	tasks, err := s.Store.QueryTasks(ctx, store.TaskFieldUserID, who.ID)
	if err != nil {
		return nil, fmt.Errorf("query tasks by user: %w", err)
	}
	if len(tasks) == 0 {
		return nil, ErrNoTasks
	}
	return tasks, nil
}

func (s *TaskService) Create(ctx context.Context, who domain.Identity, req transport.CreateTaskRequest) (domain.Task, error) {
	t := domain.Task{
		Name:        req.Name,
		Description: req.Description,
		DueDate:     req.DueDate,
		Status:      req.Status,
		Category:    req.Category,
		Owner:       domain.Personal{Owner: who.ID},
		CreatedAt:   s.now(),
	}
	if _, err := s.Store.AddTask(ctx, &t); err != nil {
		return domain.Task{}, fmt.Errorf("add task: %w", err)
	}

	s.publish(ctx, t.ID, map[string]any{
		"type":   events.TypeTaskCreated,
		"taskId": t.ID,
		"userId": who.ID,
		"status": t.Status,
	})
	s.index(ctx, t)
	return t, nil
}

func (s *TaskService) CreateGroupTask(ctx context.Context, who domain.Identity, req transport.CreateGroupTaskRequest) (domain.Task, error) {
	if strings.TrimSpace(req.AssignedTo) == "" || strings.TrimSpace(req.GroupID) == "" {
		return domain.Task{}, fmt.Errorf("%w: assignedTo and groupId are required", ErrValidation)
	}

	t := domain.Task{
		Name:        req.Name,
		Description: req.Description,
		Status:      req.Status,
		Category:    req.Category,
		Owner: domain.GroupAssigned{
			Creator:  who.ID,
			Assignee: req.AssignedTo,
			Group:    req.GroupID,
		},
		CreatedAt: s.now(),
	}
	if _, err := s.Store.AddTask(ctx, &t); err != nil {
		return domain.Task{}, fmt.Errorf("add group task: %w", err)
	}

	s.publish(ctx, t.ID, map[string]any{
		"type":       events.TypeGroupTaskCreated,
		"taskId":     t.ID,
		"userId":     who.ID,
		"assignedTo": req.AssignedTo,
		"groupId":    req.GroupID,
	})
	s.index(ctx, t)
	return t, nil
}

// ListGroup returns the tasks of a group; an empty group is not an error.
func (s *TaskService) ListGroup(ctx context.Context, groupID string) ([]domain.Task, error) {
	tasks, err := s.Store.QueryTasks(ctx, store.TaskFieldGroupID, groupID)
	if err != nil {
		return nil, fmt.Errorf("query tasks by group: %w", err)
	}
	return tasks, nil
}

// UpdateStatus sets the status of a task through the personal path: the
// owner or an admin.
func (s *TaskService) UpdateStatus(ctx context.Context, who domain.Identity, id, status string) error {
	return s.setStatus(ctx, who, id, status, domain.Task.CanUpdateStatus)
}

// Drop sets the status of a task through the group path: the assignee or an
// admin.
func (s *TaskService) Drop(ctx context.Context, who domain.Identity, id, status string) error {
	return s.setStatus(ctx, who, id, status, domain.Task.CanDrop)
}

func (s *TaskService) setStatus(ctx context.Context, who domain.Identity, id, status string, allowed func(domain.Task, domain.Identity) bool) error {
	l := logging.FromContext(ctx).With("svc", "tasks.set_status", "task_id", id)

	if strings.TrimSpace(status) == "" {
		return fmt.Errorf("%w: status is required", ErrValidation)
	}

	t, err := s.Store.GetTask(ctx, id)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return ErrTaskNotFound
		}
		return fmt.Errorf("get task: %w", err)
	}

	if !allowed(*t, who) {
		l.Warn("set_status_denied", "status", 403, "role", who.Role.String())
		return ErrForbidden
	}

	if err := s.Store.UpdateTaskStatus(ctx, id, status); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return ErrTaskNotFound
		}
		return fmt.Errorf("update task status: %w", err)
	}

	s.publish(ctx, id, map[string]any{
		"type":      events.TypeTaskStatusUpdated,
		"taskId":    id,
		"userId":    who.ID,
		"oldStatus": t.Status,
		"status":    status,
	})
	s.indexStatus(ctx, id, status)
	return nil
}

func (s *TaskService) Search(ctx context.Context, who domain.Identity, q string, from, size int) (int64, []transport.TaskView, error) {
	if s.Indexer == nil {
		return 0, nil, ErrSearchUnavailable
	}
	if strings.TrimSpace(q) == "" {
		return 0, nil, fmt.Errorf("%w: q is required", ErrValidation)
	}
	if from < 0 || size < 1 || from > maxSearchWindow-size {
		return 0, nil, fmt.Errorf("%w: page out of range", ErrValidation)
	}
	return s.Indexer.Search(ctx, who, q, from, size)
}

func (s *TaskService) publish(ctx context.Context, key string, event map[string]any) {
	if s.Producer == nil {
		return
	}
	ctx, cancel := context.WithTimeout(ctx, sideEffectTimeout)
	defer cancel()
	if err := s.Producer.PublishEvent(ctx, key, event); err != nil {
		logging.FromContext(ctx).Error("kafka_publish_failed", "type", event["type"], "error", err)
	}
}

func (s *TaskService) index(ctx context.Context, t domain.Task) {
	if s.Indexer == nil {
		return
	}
	ctx, cancel := context.WithTimeout(ctx, sideEffectTimeout)
	defer cancel()
	if err := s.Indexer.IndexTask(ctx, t); err != nil {
		logging.FromContext(ctx).Error("search_index_failed", "task_id", t.ID, "error", err)
	}
}

func (s *TaskService) indexStatus(ctx context.Context, id, status string) {
	if s.Indexer == nil {
		return
	}
	ctx, cancel := context.WithTimeout(ctx, sideEffectTimeout)
	defer cancel()
	if err := s.Indexer.UpdateStatus(ctx, id, status); err != nil {
		logging.FromContext(ctx).Error("search_update_failed", "task_id", id, "error", err)
	}
}
