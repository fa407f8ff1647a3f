// Package memstore is an in-memory document store.
package memstore

import (
	"context"
	"fmt"
	"sort"
	"sync"

	"github.com/google/uuid"

	"github.com/Skotchmaster/task_service/internal/domain"
	"github.com/Skotchmaster/task_service/internal/store"
)

type Store struct {
	mu     sync.RWMutex
	tokens map[string]domain.Token
	users  map[string]domain.User
	tasks  map[string]domain.Task
	order  []string

	// Err, when set, is returned by every operation.
	Err error

	reads  int
	writes int
}

func New() *Store {
	return &Store{
		tokens: make(map[string]domain.Token),
		users:  make(map[string]domain.User),
		tasks:  make(map[string]domain.Task),
	}
}

func (s *Store) PutToken(t domain.Token) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.tokens[t.Token] = t
}

func (s *Store) PutUser(u domain.User) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.users[u.ID] = u
}

// PutTask stores t as-is, bypassing write accounting.
func (s *Store) PutTask(t domain.Task) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.tasks[t.ID]; !ok {
		s.order = append(s.order, t.ID)
	}
	s.tasks[t.ID] = t
}

// Reads returns how many read operations reached the store.
func (s *Store) Reads() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.reads
}

// Writes returns how many write operations reached the store.
func (s *Store) Writes() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.writes
}

func (s *Store) FindToken(ctx context.Context, token string) (*domain.Token, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.reads++
	if s.Err != nil {
		return nil, s.Err
	}
	t, ok := s.tokens[token]
	if !ok {
		return nil, store.ErrNotFound
	}
	return &t, nil
}

func (s *Store) GetUser(ctx context.Context, id string) (*domain.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.reads++
	if s.Err != nil {
		return nil, s.Err
	}
	u, ok := s.users[id]
	if !ok {
		return nil, store.ErrNotFound
	}
	return &u, nil
}

func (s *Store) GetTask(ctx context.Context, id string) (*domain.Task, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.reads++
	if s.Err != nil {
		return nil, s.Err
	}
	t, ok := s.tasks[id]
	if !ok {
		return nil, store.ErrNotFound
	}
	return &t, nil
}

func (s *Store) QueryTasks(ctx context.Context, field store.TaskField, value string) ([]domain.Task, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.reads++
	if s.Err != nil {
		return nil, s.Err
	}

	out := []domain.Task{}
	for _, id := range s.order {
		t := s.tasks[id]
		if matches(t, field, value) {
			out = append(out, t)
		}
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].CreatedAt.Before(out[j].CreatedAt) })
	return out, nil
}

func matches(t domain.Task, field store.TaskField, value string) bool {
	switch o := t.Owner.(type) {
	case domain.Personal:
		return field == store.TaskFieldUserID && o.Owner == value
	case domain.GroupAssigned:
		return field == store.TaskFieldGroupID && o.Group == value
	}
	return false
}

func (s *Store) AddTask(ctx context.Context, t *domain.Task) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.writes++
	if s.Err != nil {
		return "", s.Err
	}
	if t.Owner == nil {
		return "", fmt.Errorf("memstore: task without ownership")
	}
	if t.ID == "" {
		t.ID = uuid.NewString()
	}
	if _, ok := s.tasks[t.ID]; !ok {
		s.order = append(s.order, t.ID)
	}
	s.tasks[t.ID] = *t
	return t.ID, nil
}

func (s *Store) UpdateTaskStatus(ctx context.Context, id, status string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.writes++
	if s.Err != nil {
		return s.Err
	}
	t, ok := s.tasks[id]
	if !ok {
		return store.ErrNotFound
	}
	t.Status = status
	s.tasks[id] = t
	return nil
}

var (
	_ store.TokenStore = (*Store)(nil)
	_ store.UserStore  = (*Store)(nil)
	_ store.TaskStore  = (*Store)(nil)
)
