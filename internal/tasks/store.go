package tasks

import (
	"context"
	"errors"
	"time"
)

var (
	ErrNotFound     = errors.New("task not found")
	ErrListNotFound = errors.New("task list not found")
)

// Store is the document-store surface the handlers and the voice pipeline
// depend on. Handlers never touch the database directly so tests can run
// against an in-memory fake.
type Store interface {
	CreateTask(ctx context.Context, userID int, listID string, nt NewTask, createdAt time.Time) (Task, error)
	CreateTaskBatch(ctx context.Context, userID int, listID string, names []string, createdAt time.Time) (BatchReport, error)
	TaskByID(ctx context.Context, userID, taskID int) (Task, error)
	TasksByList(ctx context.Context, userID int, listID string, f Filter) ([]Task, error)
	StarredTasks(ctx context.Context, userID int) ([]Task, error)
	UpdateTask(ctx context.Context, userID, taskID int, upd TaskUpdate) (Task, error)
	SetCompleted(ctx context.Context, userID, taskID int, completed bool) (Task, error)
	SetStarred(ctx context.Context, userID, taskID int, starred bool) (Task, error)
	DeleteTask(ctx context.Context, userID, taskID int) error

	CreateList(ctx context.Context, userID int, name string) (TaskList, error)
	Lists(ctx context.Context, userID int) ([]TaskList, error)

	CreateTag(ctx context.Context, userID int, name string) (Tag, error)
	Tags(ctx context.Context, userID int) ([]Tag, error)

	CreateCategory(ctx context.Context, userID int, name string) (Category, error)
	Categories(ctx context.Context, userID int) ([]Category, error)
}
