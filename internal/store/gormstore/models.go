package gormstore

import "time"

type TokenRecord struct {
	ID        uint      `gorm:"primaryKey"            json:"id"`
	Token     string    `gorm:"uniqueIndex;not null"  json:"token"`
	UserID    string    `gorm:"index;not null"        json:"userId"`
	ExpiresAt time.Time `gorm:"not null"              json:"expiresAt"`
}

func (TokenRecord) TableName() string { return "verification_tokens" }

type UserRecord struct {
	ID        string    `gorm:"primaryKey;size:128" json:"id"`
	Role      string    `gorm:"not null"            json:"role"`
	CreatedAt time.Time `                           json:"createdAt"`
}

func (UserRecord) TableName() string { return "users" }

type TaskRecord struct {
	ID          string    `gorm:"primaryKey;size:36" json:"id"`
	Name        string    `                          json:"name"`
	Description string    `                          json:"description"`
	DueDate     string    `                          json:"dueDate"`
	Status      string    `                          json:"status"`
	Category    string    `                          json:"category"`
	UserID      *string   `gorm:"index"              json:"userId,omitempty"`
	CreatedBy   *string   `                          json:"createdBy,omitempty"`
	AssignedTo  *string   `gorm:"index"              json:"assignedTo,omitempty"`
	GroupID     *string   `gorm:"index"              json:"groupId,omitempty"`
	CreatedAt   time.Time `gorm:"index"              json:"createdAt"`
}

func (TaskRecord) TableName() string { return "tasks" }

func Models() []any {
	return []any{&TokenRecord{}, &UserRecord{}, &TaskRecord{}}
}
