// Package store defines the document store the service reads and writes.
// Every operation is atomic at single-document granularity; nothing spans
// documents.
package store

import (
	"context"
	"errors"

	"github.com/Skotchmaster/task_service/internal/domain"
)

var ErrNotFound = errors.New("document not found")

// TaskField is a field tasks can be queried by with an equality filter.
type TaskField string

const (
	TaskFieldUserID  TaskField = "userId"
	TaskFieldGroupID TaskField = "groupId"
)

type TokenStore interface {
	// FindToken returns the token record whose token string equals token.
	FindToken(ctx context.Context, token string) (*domain.Token, error)
}

type UserStore interface {
	GetUser(ctx context.Context, id string) (*domain.User, error)
}

type TaskStore interface {
	GetTask(ctx context.Context, id string) (*domain.Task, error)
	QueryTasks(ctx context.Context, field TaskField, value string) ([]domain.Task, error)
	// AddTask stores t and returns its id. An empty t.ID is assigned by the store.
	AddTask(ctx context.Context, t *domain.Task) (string, error)
	// UpdateTaskStatus writes only the status field.
	UpdateTaskStatus(ctx context.Context, id, status string) error
}
