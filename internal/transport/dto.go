package transport

import (
	"time"

	"github.com/Skotchmaster/task_service/internal/domain"
)

type CreateTaskRequest struct {
	Name        string `json:"name"`
	Description string `json:"description"`
	DueDate     string `json:"dueDate"`
	Status      string `json:"status"`
	Category    string `json:"category"`
}

type CreateGroupTaskRequest struct {
	Name        string `json:"name"`
	Description string `json:"description"`
	Category    string `json:"category"`
	Status      string `json:"status"`
	AssignedTo  string `json:"assignedTo"`
	GroupID     string `json:"groupId"`
}

type UpdateStatusRequest struct {
	Status string `json:"status"`
}

// TaskView is the JSON shape of a task. Exactly one of UserID or the
// CreatedBy/AssignedTo/GroupID triple is set.
type TaskView struct {
	ID          string    `json:"id"`
	Name        string    `json:"name"`
	Description string    `json:"description"`
	DueDate     string    `json:"dueDate,omitempty"`
	Status      string    `json:"status"`
	Category    string    `json:"category"`
	UserID      string    `json:"userId,omitempty"`
	CreatedBy   string    `json:"createdBy,omitempty"`
	AssignedTo  string    `json:"assignedTo,omitempty"`
	GroupID     string    `json:"groupId,omitempty"`
	CreatedAt   time.Time `json:"createdAt"`
}

func NewTaskView(t domain.Task) TaskView {
	v := TaskView{
		ID:          t.ID,
		Name:        t.Name,
		Description: t.Description,
		DueDate:     t.DueDate,
		Status:      t.Status,
		Category:    t.Category,
		CreatedAt:   t.CreatedAt,
	}
	switch o := t.Owner.(type) {
	case domain.Personal:
		v.UserID = o.Owner
	case domain.GroupAssigned:
		v.CreatedBy = o.Creator
		v.AssignedTo = o.Assignee
		v.GroupID = o.Group
	}
	return v
}

func NewTaskViews(ts []domain.Task) []TaskView {
	out := make([]TaskView, 0, len(ts))
	for _, t := range ts {
		out = append(out, NewTaskView(t))
	}
	return out
}

type MessageResponse struct {
	Message string `json:"message"`
}

type TaskResponse struct {
	Message string   `json:"message,omitempty"`
	Task    TaskView `json:"task"`
}

type TasksResponse struct {
	Tasks []TaskView `json:"tasks"`
}

type GroupTasksResponse struct {
	Tasks    []TaskView `json:"tasks"`
	UserRole string     `json:"userRole"`
	UserID   string     `json:"userId"`
}

type SearchResponse struct {
	Total int64      `json:"total"`
	Tasks []TaskView `json:"tasks"`
}

type ErrorResponse struct {
	Message string `json:"message"`
	Error   string `json:"error,omitempty"`
}
