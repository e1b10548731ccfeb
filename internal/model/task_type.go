package model

// TaskType groups tasks by urgency (urgent, important, etc.).
type TaskType struct {
	ID      int    `gorm:"primaryKey" json:"id"`
	Type    string `gorm:"uniqueIndex;not null" json:"type"`
	Comment string `json:"comment"`
}

func (TaskType) TableName() string {
	return "task_type"
}

// DefaultTaskTypes are seeded into an empty task_type table.
var DefaultTaskTypes = []TaskType{
	{ID: 1, Type: "Urgent", Comment: "Tasks to tackle first"},
	{ID: 2, Type: "Important", Comment: "Tasks to finish before their deadline"},
	{ID: 3, Type: "If possible", Comment: "Tasks to pick up when there is time"},
}
