// Package gormstore implements the document store on top of gorm.
package gormstore

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/Skotchmaster/task_service/internal/domain"
	"github.com/Skotchmaster/task_service/internal/store"
)

type GormRepo struct {
	DB *gorm.DB
}

func (r *GormRepo) Migrate(ctx context.Context) error {
	if err := r.DB.WithContext(ctx).AutoMigrate(Models()...); err != nil {
		return fmt.Errorf("migrate: %w", err)
	}
	return nil
}

func notFound(err error) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return store.ErrNotFound
	}
	return err
}

func (r *GormRepo) FindToken(ctx context.Context, token string) (*domain.Token, error) {
	var rec TokenRecord
	if err := r.DB.WithContext(ctx).Where("token = ?", token).First(&rec).Error; err != nil {
		return nil, notFound(err)
	}
	return &domain.Token{
		Token:     rec.Token,
		UserID:    rec.UserID,
		ExpiresAt: rec.ExpiresAt,
	}, nil
}

func (r *GormRepo) CreateToken(ctx context.Context, t domain.Token) error {
	rec := TokenRecord{
		Token:     t.Token,
		UserID:    t.UserID,
		ExpiresAt: t.ExpiresAt.UTC(),
	}
	return r.DB.WithContext(ctx).Create(&rec).Error
}

// GetUser returns the user with id. A stored role outside the known set
// yields a user with the zero Role, which no RoleSet contains.
func (r *GormRepo) GetUser(ctx context.Context, id string) (*domain.User, error) {
	var rec UserRecord
	if err := r.DB.WithContext(ctx).Where("id = ?", id).First(&rec).Error; err != nil {
		return nil, notFound(err)
	}
	role, _ := domain.ParseRole(rec.Role)
	return &domain.User{ID: rec.ID, Role: role, CreatedAt: rec.CreatedAt}, nil
}

func (r *GormRepo) CreateUser(ctx context.Context, u domain.User) error {
	if !u.Role.Valid() {
		return fmt.Errorf("create user %q: invalid role", u.ID)
	}
	rec := UserRecord{ID: u.ID, Role: u.Role.String()}
	return r.DB.WithContext(ctx).Create(&rec).Error
}

func (r *GormRepo) GetTask(ctx context.Context, id string) (*domain.Task, error) {
	var rec TaskRecord
	if err := r.DB.WithContext(ctx).Where("id = ?", id).First(&rec).Error; err != nil {
		return nil, notFound(err)
	}
	t, err := rec.toDomain()
	if err != nil {
		return nil, err
	}
	return &t, nil
}

type taskColumn string

func (c taskColumn) valid() bool { return c != "" }

func columnFor(field store.TaskField) taskColumn {
	switch field {
	case store.TaskFieldUserID:
		return "user_id"
	case store.TaskFieldGroupID:
		return "group_id"
	default:
		return ""
	}
}

func (r *GormRepo) QueryTasks(ctx context.Context, field store.TaskField, value string) ([]domain.Task, error) {
	col := columnFor(field)
	if !col.valid() {
		return nil, fmt.Errorf("query tasks: unsupported field %q", field)
	}

	var recs []TaskRecord
	if err := r.DB.WithContext(ctx).
		Where(string(col)+" = ?", value).
		Order("created_at ASC").
		Order("id ASC").
		Find(&recs).Error; err != nil {
		return nil, err
	}

	out := make([]domain.Task, 0, len(recs))
	for _, rec := range recs {
		t, err := rec.toDomain()
		if err != nil {
			return nil, err
		}
		out = append(out, t)
	}
	return out, nil
}

func (r *GormRepo) AddTask(ctx context.Context, t *domain.Task) (string, error) {
	if t.ID == "" {
		t.ID = uuid.NewString()
	}
	rec, err := fromDomain(*t)
	if err != nil {
		return "", err
	}
	if err := r.DB.WithContext(ctx).Create(&rec).Error; err != nil {
		return "", err
	}
	return rec.ID, nil
}

func (r *GormRepo) UpdateTaskStatus(ctx context.Context, id, status string) error {
	res := r.DB.WithContext(ctx).
		Model(&TaskRecord{}).
		Where("id = ?", id).
		Update("status", status)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return store.ErrNotFound
	}
	return nil
}

func fromDomain(t domain.Task) (TaskRecord, error) {
	rec := TaskRecord{
		ID:          t.ID,
		Name:        t.Name,
		Description: t.Description,
		DueDate:     t.DueDate,
		Status:      t.Status,
		Category:    t.Category,
		CreatedAt:   t.CreatedAt.UTC(),
	}
	switch o := t.Owner.(type) {
	case domain.Personal:
		rec.UserID = &o.Owner
	case domain.GroupAssigned:
		rec.CreatedBy = &o.Creator
		rec.AssignedTo = &o.Assignee
		rec.GroupID = &o.Group
	default:
		return TaskRecord{}, fmt.Errorf("task %q: missing ownership", t.ID)
	}
	return rec, nil
}

func (rec TaskRecord) toDomain() (domain.Task, error) {
	t := domain.Task{
		ID:          rec.ID,
		Name:        rec.Name,
		Description: rec.Description,
		DueDate:     rec.DueDate,
		Status:      rec.Status,
		Category:    rec.Category,
		CreatedAt:   rec.CreatedAt,
	}
	switch {
	case rec.UserID != nil:
		t.Owner = domain.Personal{Owner: *rec.UserID}
	case rec.GroupID != nil:
		t.Owner = domain.GroupAssigned{
			Creator:  deref(rec.CreatedBy),
			Assignee: deref(rec.AssignedTo),
			Group:    *rec.GroupID,
		}
	default:
		return domain.Task{}, fmt.Errorf("task %q: stored without owner or group", rec.ID)
	}
	return t, nil
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}

var (
	_ store.TokenStore = (*GormRepo)(nil)
	_ store.UserStore  = (*GormRepo)(nil)
	_ store.TaskStore  = (*GormRepo)(nil)
)
