package model

import "time"

// Task represents a single to-do item owned by a user.
// ID is zero until the store assigns one on insert.
type Task struct {
	ID       int        `gorm:"primaryKey;autoIncrement" json:"id"`
	UserID   int        `gorm:"index;not null" json:"userId"`
	TypeID   int        `gorm:"index;not null" json:"typeId"`
	Title    string     `gorm:"not null" json:"title"`
	Detail   string     `json:"detail"`
	Deadline *time.Time `json:"deadline,omitempty"`

	// Read-only; filled by Preload on queries.
	TaskType *TaskType `gorm:"foreignKey:TypeID" json:"taskType,omitempty"`
}

func (Task) TableName() string {
	return "task"
}
