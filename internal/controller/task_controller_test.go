package controller

import (
	"context"
	"errors"
	"testing"

	"task-tracker/internal/model"
	"task-tracker/internal/service"
	"task-tracker/internal/taskform"
)

// memTasks behaves like service.TaskService over an in-memory table.
type memTasks struct {
	rows   []model.Task
	nextID int

	getErr error
	calls  []string
}

func newMemTasks(rows ...model.Task) *memTasks {
	m := &memTasks{nextID: 1}
	for _, r := range rows {
		r.ID = m.nextID
		m.nextID++
		m.rows = append(m.rows, r)
	}
	return m
}

func (m *memTasks) FindAll(ctx context.Context) ([]model.Task, error) {
	m.calls = append(m.calls, "FindAll")
	return append([]model.Task{}, m.rows...), nil
}

func (m *memTasks) FindByType(ctx context.Context, typeID int) ([]model.Task, error) {
	m.calls = append(m.calls, "FindByType")
	out := []model.Task{}
	for _, r := range m.rows {
		if r.TypeID == typeID {
			out = append(out, r)
		}
	}
	return out, nil
}

func (m *memTasks) GetTask(ctx context.Context, id int) (*model.Task, error) {
	m.calls = append(m.calls, "GetTask")
	if m.getErr != nil {
		return nil, m.getErr
	}
	for _, r := range m.rows {
		if r.ID == id {
			r := r
			return &r, nil
		}
	}
	return nil, nil
}

func (m *memTasks) Insert(ctx context.Context, task *model.Task) error {
	m.calls = append(m.calls, "Insert")
	task.ID = m.nextID
	m.nextID++
	m.rows = append(m.rows, *task)
	return nil
}

func (m *memTasks) Update(ctx context.Context, task *model.Task) error {
	m.calls = append(m.calls, "Update")
	for i, r := range m.rows {
		if r.ID == task.ID {
			m.rows[i] = *task
		}
	}
	return nil
}

func (m *memTasks) DeleteByID(ctx context.Context, id int) error {
	m.calls = append(m.calls, "DeleteByID")
	for i, r := range m.rows {
		if r.ID == id {
			m.rows = append(m.rows[:i], m.rows[i+1:]...)
			return nil
		}
	}
	return &service.TaskNotFoundError{ID: id}
}

type staticTypes []model.TaskType

func (s staticTypes) List(ctx context.Context) ([]model.TaskType, error) { return s, nil }

func newController(tasks *memTasks) *TaskController {
	return New(tasks, staticTypes(model.DefaultTaskTypes), taskform.Mapper{OwnerID: 1})
}

func seeded() *memTasks {
	return newMemTasks(
		model.Task{UserID: 1, TypeID: 1, Title: "first", Detail: "one"},
		model.Task{UserID: 1, TypeID: 2, Title: "second", Detail: "two"},
	)
}

func TestTaskController_List(t *testing.T) {
	c := newController(seeded())

	out, err := c.List(context.Background(), taskform.TaskForm{})
	if err != nil {
		t.Fatalf("List() err=%v", err)
	}
	v := out.View
	if v == nil || out.Redirect != nil {
		t.Fatalf("List() = %+v, want view", out)
	}
	if v.Title != "Task list" || len(v.Tasks) != 2 || !v.Form.IsNewTask || len(v.Types) != 3 {
		t.Fatalf("List() view = %+v", v)
	}
}

func TestTaskController_List_Empty(t *testing.T) {
	c := newController(newMemTasks())

	out, err := c.List(context.Background(), taskform.TaskForm{})
	if err != nil {
		t.Fatalf("List() err=%v", err)
	}
	if out.View.Tasks == nil || len(out.View.Tasks) != 0 {
		t.Fatalf("List() tasks = %#v, want empty", out.View.Tasks)
	}
}

func TestTaskController_Create(t *testing.T) {
	tasks := seeded()
	c := newController(tasks)
	form := taskform.TaskForm{TypeID: 3, Title: "third", Detail: "three"}

	out, err := c.Create(context.Background(), form, true)
	if err != nil {
		t.Fatalf("Create() err=%v", err)
	}
	if out.Redirect == nil || out.Redirect.Target != "/task" || out.Redirect.Notice != "" {
		t.Fatalf("Create() = %+v, want redirect /task", out)
	}
	if len(tasks.rows) != 3 || tasks.rows[2].ID != 3 || tasks.rows[2].UserID != 1 || tasks.rows[2].Title != "third" {
		t.Fatalf("rows after Create() = %+v", tasks.rows)
	}
}

func TestTaskController_Create_Invalid(t *testing.T) {
	tasks := seeded()
	c := newController(tasks)
	form := taskform.TaskForm{Title: "", Detail: "keep me"}

	out, err := c.Create(context.Background(), form, false)
	if err != nil {
		t.Fatalf("Create() err=%v", err)
	}
	v := out.View
	if v == nil || v.Title != "Task list (validation)" || !v.Form.IsNewTask || v.Form.Detail != "keep me" || len(v.Tasks) != 2 {
		t.Fatalf("Create(invalid) = %+v", out)
	}
	for _, call := range tasks.calls {
		if call == "Insert" {
			t.Fatalf("Create(invalid) called Insert")
		}
	}
}

func TestTaskController_ShowUpdate(t *testing.T) {
	c := newController(seeded())

	out, err := c.ShowUpdate(context.Background(), taskform.TaskForm{}, 2, "Update complete")
	if err != nil {
		t.Fatalf("ShowUpdate() err=%v", err)
	}
	v := out.View
	if v.Title != "Update form" || v.TaskID != 2 || v.Notice != "Update complete" {
		t.Fatalf("ShowUpdate() view = %+v", v)
	}
	if v.Form.Title != "second" || v.Form.TypeID != 2 || v.Form.IsNewTask {
		t.Fatalf("ShowUpdate() form = %+v", v.Form)
	}
}

func TestTaskController_ShowUpdate_Absent(t *testing.T) {
	c := newController(seeded())
	form := taskform.TaskForm{Title: "mine"}

	out, err := c.ShowUpdate(context.Background(), form, 99, "")
	if err != nil {
		t.Fatalf("ShowUpdate(99) err=%v", err)
	}
	if out.View.Form != form || out.View.TaskID != 99 || len(out.View.Tasks) != 2 {
		t.Fatalf("ShowUpdate(99) view = %+v", out.View)
	}
}

func TestTaskController_ShowUpdate_NotFoundFault(t *testing.T) {
	tasks := seeded()
	tasks.getErr = &service.TaskNotFoundError{ID: 5}
	c := newController(tasks)

	out, err := c.ShowUpdate(context.Background(), taskform.TaskForm{Title: "kept"}, 5, "")
	if err != nil {
		t.Fatalf("ShowUpdate() err=%v, want swallowed", err)
	}
	if out.View.Form.Title != "kept" {
		t.Fatalf("ShowUpdate() form = %+v", out.View.Form)
	}
}

func TestTaskController_ShowUpdate_StoreFault(t *testing.T) {
	tasks := seeded()
	tasks.getErr = errors.New("db down")
	c := newController(tasks)

	if _, err := c.ShowUpdate(context.Background(), taskform.TaskForm{}, 1, ""); !errors.Is(err, tasks.getErr) {
		t.Fatalf("ShowUpdate() err=%v, want %v", err, tasks.getErr)
	}
}

func TestTaskController_Update(t *testing.T) {
	tasks := seeded()
	c := newController(tasks)

	out, err := c.Update(context.Background(), taskform.TaskForm{TypeID: 3, Title: "renamed"}, true, 1)
	if err != nil {
		t.Fatalf("Update() err=%v", err)
	}
	if out.Redirect == nil || out.Redirect.Target != "/task/1" || out.Redirect.Notice != "Update complete" {
		t.Fatalf("Update() = %+v", out)
	}
	if tasks.rows[0].Title != "renamed" || tasks.rows[0].TypeID != 3 || tasks.rows[0].UserID != 1 {
		t.Fatalf("row after Update() = %+v", tasks.rows[0])
	}
}

func TestTaskController_Update_Invalid(t *testing.T) {
	tasks := seeded()
	c := newController(tasks)
	form := taskform.TaskForm{Title: "way too long for the title field"}

	out, err := c.Update(context.Background(), form, false, 1)
	if err != nil {
		t.Fatalf("Update() err=%v", err)
	}
	v := out.View
	if v == nil || v.Title != "Task list" || v.TaskID != 1 || v.Form != form {
		t.Fatalf("Update(invalid) = %+v", out)
	}
	if tasks.rows[0].Title != "first" {
		t.Fatalf("Update(invalid) changed row: %+v", tasks.rows[0])
	}
}

func TestTaskController_DuplicateThenCreate(t *testing.T) {
	tasks := seeded()
	c := newController(tasks)
	ctx := context.Background()

	out, err := c.Duplicate(ctx, taskform.TaskForm{}, 1)
	if err != nil {
		t.Fatalf("Duplicate() err=%v", err)
	}
	v := out.View
	if v.Title != "Task list" || !v.Form.IsNewTask || v.Form.Title != "first" || v.TaskID != 0 {
		t.Fatalf("Duplicate() view = %+v", v)
	}

	if _, err := c.Create(ctx, v.Form, true); err != nil {
		t.Fatalf("Create() err=%v", err)
	}
	if len(tasks.rows) != 3 {
		t.Fatalf("rows = %d, want 3", len(tasks.rows))
	}
	dup := tasks.rows[2]
	if dup.ID != 3 || dup.Title != "first" || dup.Detail != "one" || dup.TypeID != 1 {
		t.Fatalf("duplicate = %+v", dup)
	}
}

func TestTaskController_Duplicate_Absent(t *testing.T) {
	c := newController(seeded())

	out, err := c.Duplicate(context.Background(), taskform.TaskForm{Title: "x"}, 42)
	if err != nil {
		t.Fatalf("Duplicate(42) err=%v", err)
	}
	if out.View.Form.Title != "x" || !out.View.Form.IsNewTask {
		t.Fatalf("Duplicate(42) form = %+v", out.View.Form)
	}
}

func TestTaskController_Delete(t *testing.T) {
	tasks := seeded()
	c := newController(tasks)

	out, err := c.Delete(context.Background(), 1)
	if err != nil {
		t.Fatalf("Delete(1) err=%v", err)
	}
	if out.Redirect == nil || out.Redirect.Target != "/task" {
		t.Fatalf("Delete(1) = %+v", out)
	}
	if len(tasks.rows) != 1 || tasks.rows[0].ID != 2 {
		t.Fatalf("rows after Delete() = %+v", tasks.rows)
	}

	if _, err := c.Delete(context.Background(), 1); !errors.Is(err, service.ErrNotFound) {
		t.Fatalf("Delete(1) again err=%v, want ErrNotFound", err)
	}
}

func TestTaskController_SelectType(t *testing.T) {
	tasks := seeded()
	c := newController(tasks)

	out, err := c.SelectType(context.Background(), taskform.TaskForm{}, 2)
	if err != nil {
		t.Fatalf("SelectType(2) err=%v", err)
	}
	v := out.View
	if len(v.Tasks) != 1 || v.Tasks[0].Title != "second" || !v.Form.IsNewTask {
		t.Fatalf("SelectType(2) view = %+v", v)
	}
	for _, call := range tasks.calls {
		if call == "FindAll" {
			t.Fatalf("SelectType() called FindAll")
		}
	}

	out, _ = c.SelectType(context.Background(), taskform.TaskForm{}, 9)
	if len(out.View.Tasks) != 0 {
		t.Fatalf("SelectType(9) tasks = %+v", out.View.Tasks)
	}
}
