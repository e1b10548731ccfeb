// Package controller sequences task service calls for each kind of user
// request and decides what to show next.
package controller

import (
	"context"
	"errors"
	"fmt"

	"task-tracker/internal/model"
	"task-tracker/internal/service"
	"task-tracker/internal/taskform"
)

// TaskService is the subset of service.TaskService used here.
type TaskService interface {
	FindAll(ctx context.Context) ([]model.Task, error)
	FindByType(ctx context.Context, typeID int) ([]model.Task, error)
	GetTask(ctx context.Context, id int) (*model.Task, error)
	Insert(ctx context.Context, task *model.Task) error
	Update(ctx context.Context, task *model.Task) error
	DeleteByID(ctx context.Context, id int) error
}

type TypeLister interface {
	List(ctx context.Context) ([]model.TaskType, error)
}

type TaskController struct {
	tasks  TaskService
	types  TypeLister
	mapper taskform.Mapper
}

func New(tasks TaskService, types TypeLister, mapper taskform.Mapper) *TaskController {
	return &TaskController{tasks: tasks, types: types, mapper: mapper}
}

// List shows every task with an empty creation form.
func (c *TaskController) List(ctx context.Context, form taskform.TaskForm) (Outcome, error) {
	form.IsNewTask = true
	return c.listView(ctx, titleList, form, 0)
}

// Create inserts the form when valid. An invalid form is shown again with
// the full list so the user can correct it.
func (c *TaskController) Create(ctx context.Context, form taskform.TaskForm, valid bool) (Outcome, error) {
	if !valid {
		form.IsNewTask = true
		return c.listView(ctx, titleListValidation, form, 0)
	}
	task := c.mapper.ToEntity(form, 0)
	if err := c.tasks.Insert(ctx, &task); err != nil {
		return Outcome{}, fmt.Errorf("insert task: %w", err)
	}
	return redirect(targetList, ""), nil
}

// ShowUpdate loads a task into the edit form. A task that no longer exists
// leaves the caller's form untouched.
func (c *TaskController) ShowUpdate(ctx context.Context, form taskform.TaskForm, id int, notice string) (Outcome, error) {
	loaded, err := c.load(ctx, form, id)
	if err != nil {
		return Outcome{}, err
	}
	out, err := c.listView(ctx, titleUpdate, loaded, id)
	if err != nil {
		return Outcome{}, err
	}
	out.View.Notice = notice
	return out, nil
}

func (c *TaskController) Update(ctx context.Context, form taskform.TaskForm, valid bool, id int) (Outcome, error) {
	if !valid {
		return c.listView(ctx, titleList, form, id)
	}
	task := c.mapper.ToEntity(form, id)
	if err := c.tasks.Update(ctx, &task); err != nil {
		return Outcome{}, fmt.Errorf("update task %d: %w", id, err)
	}
	return redirect(fmt.Sprintf("%s/%d", targetList, id), noticeUpdated), nil
}

// Duplicate prefills a creation form from an existing task.
func (c *TaskController) Duplicate(ctx context.Context, form taskform.TaskForm, id int) (Outcome, error) {
	loaded, err := c.load(ctx, form, id)
	if err != nil {
		return Outcome{}, err
	}
	loaded.IsNewTask = true
	return c.listView(ctx, titleList, loaded, 0)
}

// Delete removes a task. A missing task is reported as service.ErrNotFound.
func (c *TaskController) Delete(ctx context.Context, id int) (Outcome, error) {
	if err := c.tasks.DeleteByID(ctx, id); err != nil {
		return Outcome{}, err
	}
	return redirect(targetList, ""), nil
}

func (c *TaskController) SelectType(ctx context.Context, form taskform.TaskForm, typeID int) (Outcome, error) {
	form.IsNewTask = true
	tasks, err := c.tasks.FindByType(ctx, typeID)
	if err != nil {
		return Outcome{}, fmt.Errorf("find tasks by type %d: %w", typeID, err)
	}
	return c.view(ctx, titleList, tasks, form, 0)
}

// load returns the stored task as a form, or the given form when the task
// is absent. Only not-found is swallowed.
func (c *TaskController) load(ctx context.Context, form taskform.TaskForm, id int) (taskform.TaskForm, error) {
	task, err := c.tasks.GetTask(ctx, id)
	if err != nil {
		if errors.Is(err, service.ErrNotFound) {
			return form, nil
		}
		return form, fmt.Errorf("get task %d: %w", id, err)
	}
	if task == nil {
		return form, nil
	}
	return c.mapper.ToForm(*task), nil
}

func (c *TaskController) listView(ctx context.Context, title string, form taskform.TaskForm, id int) (Outcome, error) {
	tasks, err := c.tasks.FindAll(ctx)
	if err != nil {
		return Outcome{}, fmt.Errorf("find tasks: %w", err)
	}
	return c.view(ctx, title, tasks, form, id)
}

func (c *TaskController) view(ctx context.Context, title string, tasks []model.Task, form taskform.TaskForm, id int) (Outcome, error) {
	types, err := c.types.List(ctx)
	if err != nil {
		return Outcome{}, fmt.Errorf("list task types: %w", err)
	}
	if tasks == nil {
		tasks = []model.Task{}
	}
	return Outcome{View: &View{
		Title:  title,
		Tasks:  tasks,
		Form:   form,
		TaskID: id,
		Types:  types,
	}}, nil
}
