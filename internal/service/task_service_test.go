package service

import (
	"context"
	"errors"
	"testing"

	"gorm.io/gorm"

	"task-tracker/internal/model"
)

type fakeStore struct {
	findAllFn    func(ctx context.Context) ([]model.Task, error)
	findByIDFn   func(ctx context.Context, id int) (*model.Task, error)
	findByTypeFn func(ctx context.Context, typeID int) ([]model.Task, error)
	insertFn     func(ctx context.Context, task *model.Task) error
	updateFn     func(ctx context.Context, task *model.Task) (int64, error)
	deleteFn     func(ctx context.Context, id int) (int64, error)
}

func (f *fakeStore) FindAll(ctx context.Context) ([]model.Task, error) {
	if f.findAllFn != nil {
		return f.findAllFn(ctx)
	}
	return []model.Task{}, nil
}

func (f *fakeStore) FindByID(ctx context.Context, id int) (*model.Task, error) {
	if f.findByIDFn != nil {
		return f.findByIDFn(ctx, id)
	}
	return nil, nil
}

func (f *fakeStore) FindByType(ctx context.Context, typeID int) ([]model.Task, error) {
	if f.findByTypeFn != nil {
		return f.findByTypeFn(ctx, typeID)
	}
	return []model.Task{}, nil
}

func (f *fakeStore) Insert(ctx context.Context, task *model.Task) error {
	if f.insertFn != nil {
		return f.insertFn(ctx, task)
	}
	return nil
}

func (f *fakeStore) Update(ctx context.Context, task *model.Task) (int64, error) {
	if f.updateFn != nil {
		return f.updateFn(ctx, task)
	}
	return 0, nil
}

func (f *fakeStore) DeleteByID(ctx context.Context, id int) (int64, error) {
	if f.deleteFn != nil {
		return f.deleteFn(ctx, id)
	}
	return 0, nil
}

// memStore keeps tasks in a map and assigns ids on insert.
type memStore struct {
	tasks  map[int]model.Task
	nextID int
}

func newMemStore() *memStore {
	return &memStore{tasks: map[int]model.Task{}, nextID: 1}
}

func (m *memStore) FindAll(ctx context.Context) ([]model.Task, error) {
	out := []model.Task{}
	for id := 1; id < m.nextID; id++ {
		if t, ok := m.tasks[id]; ok {
			out = append(out, t)
		}
	}
	return out, nil
}

func (m *memStore) FindByID(ctx context.Context, id int) (*model.Task, error) {
	t, ok := m.tasks[id]
	if !ok {
		return nil, nil
	}
	return &t, nil
}

func (m *memStore) FindByType(ctx context.Context, typeID int) ([]model.Task, error) {
	all, _ := m.FindAll(ctx)
	out := []model.Task{}
	for _, t := range all {
		if t.TypeID == typeID {
			out = append(out, t)
		}
	}
	return out, nil
}

func (m *memStore) Insert(ctx context.Context, task *model.Task) error {
	task.ID = m.nextID
	m.nextID++
	m.tasks[task.ID] = *task
	return nil
}

func (m *memStore) Update(ctx context.Context, task *model.Task) (int64, error) {
	if _, ok := m.tasks[task.ID]; !ok {
		return 0, nil
	}
	m.tasks[task.ID] = *task
	return 1, nil
}

func (m *memStore) DeleteByID(ctx context.Context, id int) (int64, error) {
	if _, ok := m.tasks[id]; !ok {
		return 0, nil
	}
	delete(m.tasks, id)
	return 1, nil
}

func TestNew_NilStore(t *testing.T) {
	if _, err := New(nil); !errors.Is(err, ErrStoreNil) {
		t.Fatalf("New(nil) err=%v, want %v", err, ErrStoreNil)
	}
}

func TestTaskService_FindAll_Empty(t *testing.T) {
	svc, _ := New(&fakeStore{})

	tasks, err := svc.FindAll(context.Background())
	if err != nil {
		t.Fatalf("FindAll() err=%v", err)
	}
	if tasks == nil || len(tasks) != 0 {
		t.Fatalf("FindAll() = %#v, want empty slice", tasks)
	}
}

func TestTaskService_GetTask_Absent(t *testing.T) {
	svc, _ := New(&fakeStore{})

	task, err := svc.GetTask(context.Background(), 99)
	if err != nil || task != nil {
		t.Fatalf("GetTask(99) = %v, %v, want nil nil", task, err)
	}
}

func TestTaskService_GetTask_StoreNotFound(t *testing.T) {
	svc, _ := New(&fakeStore{
		findByIDFn: func(ctx context.Context, id int) (*model.Task, error) {
			return nil, gorm.ErrRecordNotFound
		},
	})

	_, err := svc.GetTask(context.Background(), 7)
	if !errors.Is(err, ErrNotFound) {
		t.Fatalf("GetTask(7) err=%v, want ErrNotFound", err)
	}
	if err.Error() != "the specified task does not exist" {
		t.Fatalf("GetTask(7) msg=%q", err.Error())
	}
	var nf *TaskNotFoundError
	if !errors.As(err, &nf) || nf.ID != 7 {
		t.Fatalf("GetTask(7) err=%#v, want TaskNotFoundError{ID:7}", err)
	}
}

func TestTaskService_GetTask_ZeroID(t *testing.T) {
	ctx := context.Background()

	svc, _ := New(newMemStore())
	task, err := svc.GetTask(ctx, 0)
	if err != nil || task != nil {
		t.Fatalf("GetTask(0) = %v, %v, want nil nil", task, err)
	}

	strict, _ := New(&fakeStore{
		findByIDFn: func(ctx context.Context, id int) (*model.Task, error) {
			return nil, gorm.ErrRecordNotFound
		},
	})
	_, err = strict.GetTask(ctx, 0)
	if !errors.Is(err, ErrNotFound) || err.Error() != "the specified task does not exist" {
		t.Fatalf("GetTask(0) err=%v, want the specified task does not exist", err)
	}
}

func TestTaskService_GetTask_OtherError(t *testing.T) {
	boom := errors.New("disk on fire")
	svc, _ := New(&fakeStore{
		findByIDFn: func(ctx context.Context, id int) (*model.Task, error) {
			return nil, boom
		},
	})

	_, err := svc.GetTask(context.Background(), 1)
	if !errors.Is(err, boom) || errors.Is(err, ErrNotFound) {
		t.Fatalf("GetTask(1) err=%v, want %v", err, boom)
	}
}

func TestTaskService_Update_NoMatch(t *testing.T) {
	svc, _ := New(newMemStore())

	if err := svc.Update(context.Background(), &model.Task{ID: 0, Title: "ghost"}); err != nil {
		t.Fatalf("Update(no match) err=%v, want nil", err)
	}
}

func TestTaskService_Update_StoreError(t *testing.T) {
	boom := errors.New("locked")
	svc, _ := New(&fakeStore{
		updateFn: func(ctx context.Context, task *model.Task) (int64, error) { return 0, boom },
	})

	if err := svc.Update(context.Background(), &model.Task{ID: 1}); !errors.Is(err, boom) {
		t.Fatalf("Update() err=%v, want %v", err, boom)
	}
}

func TestTaskService_DeleteByID_Missing(t *testing.T) {
	svc, _ := New(newMemStore())

	err := svc.DeleteByID(context.Background(), 0)
	if !errors.Is(err, ErrNotFound) {
		t.Fatalf("DeleteByID(0) err=%v, want ErrNotFound", err)
	}
	if err.Error() != "the task to delete does not exist" {
		t.Fatalf("DeleteByID(0) msg=%q", err.Error())
	}
}

func TestTaskService_RoundTrip(t *testing.T) {
	ctx := context.Background()
	svc, _ := New(newMemStore())

	task := &model.Task{UserID: 1, TypeID: 1, Title: "JUnit", Detail: "Test"}
	if err := svc.Insert(ctx, task); err != nil {
		t.Fatalf("Insert() err=%v", err)
	}
	if task.ID != 1 {
		t.Fatalf("Insert() id=%d, want 1", task.ID)
	}

	got, err := svc.GetTask(ctx, 1)
	if err != nil || got == nil {
		t.Fatalf("GetTask(1) = %v, %v", got, err)
	}
	if got.Title != "JUnit" || got.Detail != "Test" || got.TypeID != 1 || got.UserID != 1 {
		t.Fatalf("GetTask(1) = %+v", got)
	}

	got.Title = "JUnit2"
	if err := svc.Update(ctx, got); err != nil {
		t.Fatalf("Update() err=%v", err)
	}
	again, _ := svc.GetTask(ctx, 1)
	if again.Title != "JUnit2" {
		t.Fatalf("after Update() title=%q", again.Title)
	}

	if err := svc.DeleteByID(ctx, 1); err != nil {
		t.Fatalf("DeleteByID(1) err=%v", err)
	}
	if gone, err := svc.GetTask(ctx, 1); gone != nil || err != nil {
		t.Fatalf("GetTask(1) after delete = %v, %v", gone, err)
	}
}

func TestTaskService_FindByType(t *testing.T) {
	ctx := context.Background()
	store := newMemStore()
	svc, _ := New(store)
	for _, typeID := range []int{1, 2, 1} {
		_ = svc.Insert(ctx, &model.Task{UserID: 1, TypeID: typeID, Title: "t"})
	}

	tasks, err := svc.FindByType(ctx, 1)
	if err != nil {
		t.Fatalf("FindByType(1) err=%v", err)
	}
	if len(tasks) != 2 || tasks[0].ID != 1 || tasks[1].ID != 3 {
		t.Fatalf("FindByType(1) = %+v", tasks)
	}
}
