package tasks

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/lib/pq"
)

// SQLStore implements Store on top of Postgres. Tasks in the "default"
// pseudo-list are rows with list_id IS NULL.
type SQLStore struct {
	DB *sql.DB
}

func NewSQLStore(db *sql.DB) *SQLStore {
	return &SQLStore{DB: db}
}

// listRef resolves a list id string to the list_id column value; the
// default sentinel resolves to NULL.
func (s *SQLStore) listRef(ctx context.Context, userID int, listID string) (sql.NullInt64, error) {
	if listID == "" || listID == DefaultListID {
		return sql.NullInt64{}, nil
	}

	id, err := strconv.Atoi(listID)
	if err != nil {
		return sql.NullInt64{}, ErrListNotFound
	}

	var exists int
	err = s.DB.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM task_lists WHERE id=$1 AND user_id=$2`,
		id, userID,
	).Scan(&exists)
	if err != nil {
		return sql.NullInt64{}, err
	}
	if exists == 0 {
		return sql.NullInt64{}, ErrListNotFound
	}

	return sql.NullInt64{Int64: int64(id), Valid: true}, nil
}

const taskColumns = `
	id, list_id, name, completed, starred,
	priority, COALESCE(category, ''), tags, duration,
	start_time, end_time, recurring, COALESCE(recurrence_rule, ''),
	created_at`

type rowScanner interface {
	Scan(dest ...any) error
}

func scanTask(row rowScanner) (Task, error) {
	var (
		t              Task
		listID         sql.NullInt64
		startAt, endAt sql.NullTime
	)
	err := row.Scan(
		&t.ID, &listID, &t.Name, &t.Completed, &t.Starred,
		&t.Priority, &t.Category, pq.Array(&t.Tags), &t.Duration,
		&startAt, &endAt, &t.Recurring, &t.RecurrenceRule,
		&t.CreatedAt,
	)
	if err != nil {
		return Task{}, err
	}

	t.ListID = DefaultListID
	if listID.Valid {
		t.ListID = strconv.FormatInt(listID.Int64, 10)
	}
	if startAt.Valid {
		v := startAt.Time
		t.StartTime = &v
	}
	if endAt.Valid {
		v := endAt.Time
		t.EndTime = &v
	}
	return t, nil
}

func (s *SQLStore) CreateTask(ctx context.Context, userID int, listID string, nt NewTask, createdAt time.Time) (Task, error) {
	ref, err := s.listRef(ctx, userID, listID)
	if err != nil {
		return Task{}, err
	}

	tags := nt.Tags
	if tags == nil {
		tags = []string{}
	}

	var id int
	err = s.DB.QueryRowContext(ctx, `
		INSERT INTO tasks (
			user_id, list_id, name, completed, starred,
			priority, category, tags, duration,
			start_time, end_time, recurring, recurrence_rule,
			created_at
		)
		VALUES ($1, $2, $3, FALSE, FALSE, $4, $5, $6, $7, $8, $9, $10, $11, $12)
		RETURNING id
	`,
		userID, ref, nt.Name,
		nt.Priority, nt.Category, pq.Array(tags), nt.Duration,
		nt.StartTime, nt.EndTime, nt.Recurring, nt.RecurrenceRule,
		createdAt,
	).Scan(&id)
	if err != nil {
		return Task{}, err
	}

	return s.TaskByID(ctx, userID, id)
}

func (s *SQLStore) CreateTaskBatch(ctx context.Context, userID int, listID string, names []string, createdAt time.Time) (BatchReport, error) {
	ref, err := s.listRef(ctx, userID, listID)
	if err != nil {
		return BatchReport{}, err
	}

	var report BatchReport
	for _, name := range names {
		var id int
		err := s.DB.QueryRowContext(ctx, `
			INSERT INTO tasks (user_id, list_id, name, completed, starred, tags, created_at)
			VALUES ($1, $2, $3, FALSE, FALSE, '{}', $4)
			RETURNING id
		`, userID, ref, name, createdAt).Scan(&id)
		if err != nil {
			report.Failed = append(report.Failed, BatchFailure{Name: name, Err: err})
			continue
		}

		t, err := s.TaskByID(ctx, userID, id)
		if err != nil {
			report.Failed = append(report.Failed, BatchFailure{Name: name, Err: err})
			continue
		}
		report.Created = append(report.Created, t)
	}

	return report, nil
}

func (s *SQLStore) TaskByID(ctx context.Context, userID, taskID int) (Task, error) {
	row := s.DB.QueryRowContext(ctx,
		`SELECT `+taskColumns+` FROM tasks WHERE id=$1 AND user_id=$2`,
		taskID, userID,
	)
	t, err := scanTask(row)
	if errors.Is(err, sql.ErrNoRows) {
		return Task{}, ErrNotFound
	}
	if err != nil {
		return Task{}, err
	}
	return t, nil
}

func (s *SQLStore) TasksByList(ctx context.Context, userID int, listID string, f Filter) ([]Task, error) {
	ref, err := s.listRef(ctx, userID, listID)
	if err != nil {
		return nil, err
	}

	query := `SELECT ` + taskColumns + ` FROM tasks WHERE user_id=$1`
	args := []any{userID}
	if ref.Valid {
		args = append(args, ref.Int64)
		query += fmt.Sprintf(" AND list_id=$%d", len(args))
	} else {
		query += " AND list_id IS NULL"
	}

	switch f {
	case FilterCompleted:
		query += " AND completed=TRUE"
	case FilterIncomplete:
		query += " AND completed=FALSE"
	case FilterStarred:
		query += " AND starred=TRUE"
	}
	query += " ORDER BY created_at, id"

	return s.queryTasks(ctx, query, args...)
}

func (s *SQLStore) StarredTasks(ctx context.Context, userID int) ([]Task, error) {
	return s.queryTasks(ctx,
		`SELECT `+taskColumns+` FROM tasks WHERE user_id=$1 AND starred=TRUE ORDER BY created_at, id`,
		userID,
	)
}

func (s *SQLStore) queryTasks(ctx context.Context, query string, args ...any) ([]Task, error) {
	rows, err := s.DB.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []Task
	for rows.Next() {
		t, err := scanTask(rows)
		if err != nil {
			return nil, err
		}
		result = append(result, t)
	}
	return result, rows.Err()
}

func (s *SQLStore) UpdateTask(ctx context.Context, userID, taskID int, upd TaskUpdate) (Task, error) {
	var (
		set  []string
		args []any
	)
	add := func(col string, v any) {
		args = append(args, v)
		set = append(set, fmt.Sprintf("%s=$%d", col, len(args)))
	}

	if upd.Name != nil {
		add("name", *upd.Name)
	}
	if upd.Priority != nil {
		add("priority", *upd.Priority)
	}
	if upd.Category != nil {
		add("category", *upd.Category)
	}
	if upd.Tags != nil {
		add("tags", pq.Array(*upd.Tags))
	}
	if upd.Duration != nil {
		add("duration", *upd.Duration)
	}
	if upd.StartTime != nil {
		add("start_time", *upd.StartTime)
	}
	if upd.EndTime != nil {
		add("end_time", *upd.EndTime)
	}
	if upd.Recurring != nil {
		add("recurring", *upd.Recurring)
	}
	if upd.RecurrenceRule != nil {
		add("recurrence_rule", *upd.RecurrenceRule)
	}

	if len(set) == 0 {
		return s.TaskByID(ctx, userID, taskID)
	}

	args = append(args, taskID, userID)
	query := fmt.Sprintf(
		"UPDATE tasks SET %s WHERE id=$%d AND user_id=$%d",
		joinSet(set), len(args)-1, len(args),
	)

	res, err := s.DB.ExecContext(ctx, query, args...)
	if err != nil {
		return Task{}, err
	}
	affected, _ := res.RowsAffected()
	if affected == 0 {
		return Task{}, ErrNotFound
	}

	return s.TaskByID(ctx, userID, taskID)
}

func joinSet(set []string) string {
	out := set[0]
	for _, s := range set[1:] {
		out += ", " + s
	}
	return out
}

func (s *SQLStore) SetCompleted(ctx context.Context, userID, taskID int, completed bool) (Task, error) {
	return s.setFlag(ctx, userID, taskID, "completed", completed)
}

func (s *SQLStore) SetStarred(ctx context.Context, userID, taskID int, starred bool) (Task, error) {
	return s.setFlag(ctx, userID, taskID, "starred", starred)
}

func (s *SQLStore) setFlag(ctx context.Context, userID, taskID int, col string, v bool) (Task, error) {
	res, err := s.DB.ExecContext(ctx,
		fmt.Sprintf("UPDATE tasks SET %s=$1 WHERE id=$2 AND user_id=$3", col),
		v, taskID, userID,
	)
	if err != nil {
		return Task{}, err
	}
	affected, _ := res.RowsAffected()
	if affected == 0 {
		return Task{}, ErrNotFound
	}
	return s.TaskByID(ctx, userID, taskID)
}

func (s *SQLStore) DeleteTask(ctx context.Context, userID, taskID int) error {
	res, err := s.DB.ExecContext(ctx,
		`DELETE FROM tasks WHERE id=$1 AND user_id=$2`, taskID, userID,
	)
	if err != nil {
		return err
	}
	affected, _ := res.RowsAffected()
	if affected == 0 {
		return ErrNotFound
	}
	return nil
}

func (s *SQLStore) CreateList(ctx context.Context, userID int, name string) (TaskList, error) {
	var l TaskList
	l.Name = name
	err := s.DB.QueryRowContext(ctx, `
		INSERT INTO task_lists (user_id, name) VALUES ($1, $2)
		RETURNING id, created_at
	`, userID, name).Scan(&l.ID, &l.CreatedAt)
	if err != nil {
		return TaskList{}, err
	}
	return l, nil
}

func (s *SQLStore) Lists(ctx context.Context, userID int) ([]TaskList, error) {
	rows, err := s.DB.QueryContext(ctx,
		`SELECT id, name, created_at FROM task_lists WHERE user_id=$1 ORDER BY id`,
		userID,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var lists []TaskList
	for rows.Next() {
		var l TaskList
		if err := rows.Scan(&l.ID, &l.Name, &l.CreatedAt); err != nil {
			return nil, err
		}
		lists = append(lists, l)
	}
	return lists, rows.Err()
}

func (s *SQLStore) CreateTag(ctx context.Context, userID int, name string) (Tag, error) {
	var t Tag
	t.Name = name
	err := s.DB.QueryRowContext(ctx,
		`INSERT INTO task_tags (user_id, name) VALUES ($1, $2) RETURNING id`,
		userID, name,
	).Scan(&t.ID)
	if err != nil {
		return Tag{}, err
	}
	return t, nil
}

func (s *SQLStore) Tags(ctx context.Context, userID int) ([]Tag, error) {
	rows, err := s.DB.QueryContext(ctx,
		`SELECT id, name FROM task_tags WHERE user_id=$1 ORDER BY id`, userID,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var tags []Tag
	for rows.Next() {
		var t Tag
		if err := rows.Scan(&t.ID, &t.Name); err != nil {
			return nil, err
		}
		tags = append(tags, t)
	}
	return tags, rows.Err()
}

func (s *SQLStore) CreateCategory(ctx context.Context, userID int, name string) (Category, error) {
	var c Category
	c.Name = name
	err := s.DB.QueryRowContext(ctx,
		`INSERT INTO task_categories (user_id, name) VALUES ($1, $2) RETURNING id`,
		userID, name,
	).Scan(&c.ID)
	if err != nil {
		return Category{}, err
	}
	return c, nil
}

func (s *SQLStore) Categories(ctx context.Context, userID int) ([]Category, error) {
	rows, err := s.DB.QueryContext(ctx,
		`SELECT id, name FROM task_categories WHERE user_id=$1 ORDER BY id`, userID,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var cats []Category
	for rows.Next() {
		var c Category
		if err := rows.Scan(&c.ID, &c.Name); err != nil {
			return nil, err
		}
		cats = append(cats, c)
	}
	return cats, rows.Err()
}
