// Package testutil provides testing utilities.
package testutil

import (
	"context"
	"strconv"
	"sync"
	"time"

	"yudai-tasks-backend/internal/tasks"
)

// FakeStore is an in-memory implementation of tasks.Store for testing.
type FakeStore struct {
	mu     sync.RWMutex
	nextID int
	Tasks  map[int]tasks.Task // id -> task
	lists  []tasks.TaskList
	tags   []tasks.Tag
	cats   []tasks.Category

	// Error injection for testing
	CreateTaskErr  error
	BatchItemErr   map[string]error // task name -> error for that write
	TaskByIDErr    error
	TasksByListErr error
	UpdateTaskErr  error
	SetFlagErr     error
	DeleteTaskErr  error
	CreateListErr  error
}

func NewFakeStore() *FakeStore {
	return &FakeStore{
		Tasks:        make(map[int]tasks.Task),
		BatchItemErr: make(map[string]error),
	}
}

// AddList registers a named list and returns its id as the string the API
// uses for list_id values.
func (f *FakeStore) AddList(name string) string {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.nextID++
	l := tasks.TaskList{ID: f.nextID, Name: name, CreatedAt: time.Now().UTC()}
	f.lists = append(f.lists, l)
	return strconv.Itoa(l.ID)
}

func (f *FakeStore) checkList(listID string) error {
	if listID == "" || listID == tasks.DefaultListID {
		return nil
	}
	id, err := strconv.Atoi(listID)
	if err != nil {
		return tasks.ErrListNotFound
	}
	for _, l := range f.lists {
		if l.ID == id {
			return nil
		}
	}
	return tasks.ErrListNotFound
}

func (f *FakeStore) CreateTask(ctx context.Context, userID int, listID string, nt tasks.NewTask, createdAt time.Time) (tasks.Task, error) {
	if f.CreateTaskErr != nil {
		return tasks.Task{}, f.CreateTaskErr
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	if err := f.checkList(listID); err != nil {
		return tasks.Task{}, err
	}
	if listID == "" {
		listID = tasks.DefaultListID
	}

	f.nextID++
	t := tasks.Task{
		ID:             f.nextID,
		ListID:         listID,
		Name:           nt.Name,
		Completed:      false,
		Starred:        false,
		Priority:       nt.Priority,
		Category:       nt.Category,
		Tags:           nt.Tags,
		Duration:       nt.Duration,
		StartTime:      nt.StartTime,
		EndTime:        nt.EndTime,
		Recurring:      nt.Recurring,
		RecurrenceRule: nt.RecurrenceRule,
		CreatedAt:      createdAt,
	}
	f.Tasks[t.ID] = t
	return t, nil
}

func (f *FakeStore) CreateTaskBatch(ctx context.Context, userID int, listID string, names []string, createdAt time.Time) (tasks.BatchReport, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if err := f.checkList(listID); err != nil {
		return tasks.BatchReport{}, err
	}
	if listID == "" {
		listID = tasks.DefaultListID
	}

	var report tasks.BatchReport
	for _, name := range names {
		if err := f.BatchItemErr[name]; err != nil {
			report.Failed = append(report.Failed, tasks.BatchFailure{Name: name, Err: err})
			continue
		}
		f.nextID++
		t := tasks.Task{
			ID:        f.nextID,
			ListID:    listID,
			Name:      name,
			Completed: false,
			Starred:   false,
			CreatedAt: createdAt,
		}
		f.Tasks[t.ID] = t
		report.Created = append(report.Created, t)
	}
	return report, nil
}

func (f *FakeStore) TaskByID(ctx context.Context, userID, taskID int) (tasks.Task, error) {
	if f.TaskByIDErr != nil {
		return tasks.Task{}, f.TaskByIDErr
	}
	f.mu.RLock()
	defer f.mu.RUnlock()
	t, ok := f.Tasks[taskID]
	if !ok {
		return tasks.Task{}, tasks.ErrNotFound
	}
	return t, nil
}

func (f *FakeStore) TasksByList(ctx context.Context, userID int, listID string, filter tasks.Filter) ([]tasks.Task, error) {
	if f.TasksByListErr != nil {
		return nil, f.TasksByListErr
	}
	f.mu.RLock()
	defer f.mu.RUnlock()
	if err := f.checkList(listID); err != nil {
		return nil, err
	}
	if listID == "" {
		listID = tasks.DefaultListID
	}

	var result []tasks.Task
	for id := 1; id <= f.nextID; id++ {
		t, ok := f.Tasks[id]
		if !ok || t.ListID != listID {
			continue
		}
		switch filter {
		case tasks.FilterCompleted:
			if !t.Completed {
				continue
			}
		case tasks.FilterIncomplete:
			if t.Completed {
				continue
			}
		case tasks.FilterStarred:
			if !t.Starred {
				continue
			}
		}
		result = append(result, t)
	}
	return result, nil
}

func (f *FakeStore) StarredTasks(ctx context.Context, userID int) ([]tasks.Task, error) {
	f.mu.RLock()
	defer f.mu.RUnlock()
	var result []tasks.Task
	for id := 1; id <= f.nextID; id++ {
		if t, ok := f.Tasks[id]; ok && t.Starred {
			result = append(result, t)
		}
	}
	return result, nil
}

func (f *FakeStore) UpdateTask(ctx context.Context, userID, taskID int, upd tasks.TaskUpdate) (tasks.Task, error) {
	if f.UpdateTaskErr != nil {
		return tasks.Task{}, f.UpdateTaskErr
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	t, ok := f.Tasks[taskID]
	if !ok {
		return tasks.Task{}, tasks.ErrNotFound
	}

	if upd.Name != nil {
		t.Name = *upd.Name
	}
	if upd.Priority != nil {
		t.Priority = *upd.Priority
	}
	if upd.Category != nil {
		t.Category = *upd.Category
	}
	if upd.Tags != nil {
		t.Tags = *upd.Tags
	}
	if upd.Duration != nil {
		t.Duration = *upd.Duration
	}
	if upd.StartTime != nil {
		t.StartTime = upd.StartTime
	}
	if upd.EndTime != nil {
		t.EndTime = upd.EndTime
	}
	if upd.Recurring != nil {
		t.Recurring = *upd.Recurring
	}
	if upd.RecurrenceRule != nil {
		t.RecurrenceRule = *upd.RecurrenceRule
	}

	f.Tasks[taskID] = t
	return t, nil
}

func (f *FakeStore) SetCompleted(ctx context.Context, userID, taskID int, completed bool) (tasks.Task, error) {
	if f.SetFlagErr != nil {
		return tasks.Task{}, f.SetFlagErr
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	t, ok := f.Tasks[taskID]
	if !ok {
		return tasks.Task{}, tasks.ErrNotFound
	}
	t.Completed = completed
	f.Tasks[taskID] = t
	return t, nil
}

func (f *FakeStore) SetStarred(ctx context.Context, userID, taskID int, starred bool) (tasks.Task, error) {
	if f.SetFlagErr != nil {
		return tasks.Task{}, f.SetFlagErr
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	t, ok := f.Tasks[taskID]
	if !ok {
		return tasks.Task{}, tasks.ErrNotFound
	}
	t.Starred = starred
	f.Tasks[taskID] = t
	return t, nil
}

func (f *FakeStore) DeleteTask(ctx context.Context, userID, taskID int) error {
	if f.DeleteTaskErr != nil {
		return f.DeleteTaskErr
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	if _, ok := f.Tasks[taskID]; !ok {
		return tasks.ErrNotFound
	}
	delete(f.Tasks, taskID)
	return nil
}

func (f *FakeStore) CreateList(ctx context.Context, userID int, name string) (tasks.TaskList, error) {
	if f.CreateListErr != nil {
		return tasks.TaskList{}, f.CreateListErr
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	f.nextID++
	l := tasks.TaskList{ID: f.nextID, Name: name, CreatedAt: time.Now().UTC()}
	f.lists = append(f.lists, l)
	return l, nil
}

func (f *FakeStore) Lists(ctx context.Context, userID int) ([]tasks.TaskList, error) {
	f.mu.RLock()
	defer f.mu.RUnlock()
	result := make([]tasks.TaskList, len(f.lists))
	copy(result, f.lists)
	return result, nil
}

func (f *FakeStore) CreateTag(ctx context.Context, userID int, name string) (tasks.Tag, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.nextID++
	t := tasks.Tag{ID: f.nextID, Name: name}
	f.tags = append(f.tags, t)
	return t, nil
}

func (f *FakeStore) Tags(ctx context.Context, userID int) ([]tasks.Tag, error) {
	f.mu.RLock()
	defer f.mu.RUnlock()
	result := make([]tasks.Tag, len(f.tags))
	copy(result, f.tags)
	return result, nil
}

func (f *FakeStore) CreateCategory(ctx context.Context, userID int, name string) (tasks.Category, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.nextID++
	c := tasks.Category{ID: f.nextID, Name: name}
	f.cats = append(f.cats, c)
	return c, nil
}

func (f *FakeStore) Categories(ctx context.Context, userID int) ([]tasks.Category, error) {
	f.mu.RLock()
	defer f.mu.RUnlock()
	result := make([]tasks.Category, len(f.cats))
	copy(result, f.cats)
	return result, nil
}
