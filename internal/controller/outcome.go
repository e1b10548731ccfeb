package controller

import (
	"task-tracker/internal/model"
	"task-tracker/internal/taskform"
)

const (
	titleList           = "Task list"
	titleListValidation = "Task list (validation)"
	titleUpdate         = "Update form"

	noticeUpdated = "Update complete"

	targetList = "/task"
)

// Outcome is either a View to render or a Redirect to follow.
type Outcome struct {
	View     *View
	Redirect *Redirect
}

// View is everything a page needs to render the task screen.
type View struct {
	Title  string            `json:"title"`
	Tasks  []model.Task      `json:"tasks"`
	Form   taskform.TaskForm `json:"form"`
	TaskID int               `json:"taskId,omitempty"`
	Types  []model.TaskType  `json:"types"`
	Notice string            `json:"notice,omitempty"`
}

type Redirect struct {
	Target string
	Notice string
}

func redirect(target, notice string) Outcome {
	return Outcome{Redirect: &Redirect{Target: target, Notice: notice}}
}
