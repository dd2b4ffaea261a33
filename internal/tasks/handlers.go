package tasks

import (
	"database/sql"
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"time"

	"yudai-tasks-backend/internal/analytics"
	"yudai-tasks-backend/internal/auth"
)

func writeStoreErr(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, ErrNotFound):
		http.Error(w, "task not found", http.StatusNotFound)
	case errors.Is(err, ErrListNotFound):
		http.Error(w, "task list not found", http.StatusNotFound)
	default:
		http.Error(w, "db error: "+err.Error(), http.StatusInternalServerError)
	}
}

func taskIDFromRequest(r *http.Request) (int, bool) {
	id, err := strconv.Atoi(r.URL.Query().Get("task_id"))
	if err != nil || id <= 0 {
		return 0, false
	}
	return id, true
}

// -------------------------------
// TASK HANDLERS
// -------------------------------

// TasksHandler serves GET /tasks?list_id=&filter=all|completed|incomplete|starred.
func TasksHandler(store Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		uid, ok := auth.UserIDFromContext(r.Context())
		if !ok {
			http.Error(w, "unauthorized", http.StatusUnauthorized)
			return
		}

		listID := r.URL.Query().Get("list_id")
		if listID == "" {
			listID = DefaultListID
		}
		filter, ok := ParseFilter(r.URL.Query().Get("filter"))
		if !ok {
			http.Error(w, "invalid filter", http.StatusBadRequest)
			return
		}

		result, err := store.TasksByList(r.Context(), uid, listID, filter)
		if err != nil {
			writeStoreErr(w, err)
			return
		}
		if result == nil {
			result = []Task{}
		}

		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(result)
	}
}

// StarredTasksHandler serves GET /tasks/starred across the default list and
// every named list.
func StarredTasksHandler(store Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		uid, ok := auth.UserIDFromContext(r.Context())
		if !ok {
			http.Error(w, "unauthorized", http.StatusUnauthorized)
			return
		}

		result, err := store.StarredTasks(r.Context(), uid)
		if err != nil {
			writeStoreErr(w, err)
			return
		}
		if result == nil {
			result = []Task{}
		}

		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(result)
	}
}

func GetTaskHandler(store Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		uid, ok := auth.UserIDFromContext(r.Context())
		if !ok {
			http.Error(w, "unauthorized", http.StatusUnauthorized)
			return
		}

		taskID, ok := taskIDFromRequest(r)
		if !ok {
			http.Error(w, "task_id required", http.StatusBadRequest)
			return
		}

		t, err := store.TaskByID(r.Context(), uid, taskID)
		if err != nil {
			writeStoreErr(w, err)
			return
		}

		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(t)
	}
}

func CreateTaskHandler(store Store, dbx *sql.DB) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		uid, ok := auth.UserIDFromContext(r.Context())
		if !ok {
			http.Error(w, "unauthorized", http.StatusUnauthorized)
			return
		}

		var body struct {
			ListID string `json:"list_id"`
			NewTask
		}
		if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
			http.Error(w, "invalid json", http.StatusBadRequest)
			return
		}
		if body.Name == "" {
			http.Error(w, "name is required", http.StatusBadRequest)
			return
		}
		if body.ListID == "" {
			body.ListID = DefaultListID
		}

		t, err := store.CreateTask(r.Context(), uid, body.ListID, body.NewTask, time.Now().UTC())
		if err != nil {
			writeStoreErr(w, err)
			return
		}

		// analytics: task_created
		{
			env := analytics.FromRequest(r)
			env.UserID = uid

			props := map[string]any{
				"task_id":      t.ID,
				"list_id":      t.ListID,
				"input_method": "text",
				"name_len":     len(t.Name),
			}
			_ = analytics.Log(r.Context(), dbx, env, "task_created", props, analytics.SourceEventKeyFromRequest(r))
		}

		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(t)
	}
}

func UpdateTaskHandler(store Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		uid, ok := auth.UserIDFromContext(r.Context())
		if !ok {
			http.Error(w, "unauthorized", http.StatusUnauthorized)
			return
		}

		var body struct {
			TaskID int `json:"task_id"`
			TaskUpdate
		}
		if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
			http.Error(w, "invalid json", http.StatusBadRequest)
			return
		}
		if body.TaskID == 0 {
			http.Error(w, "task_id required", http.StatusBadRequest)
			return
		}
		if body.Name != nil && *body.Name == "" {
			http.Error(w, "name must not be empty", http.StatusBadRequest)
			return
		}

		t, err := store.UpdateTask(r.Context(), uid, body.TaskID, body.TaskUpdate)
		if err != nil {
			writeStoreErr(w, err)
			return
		}

		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(t)
	}
}

// RenameTaskHandler serves PUT /task/name, kept as its own endpoint because
// renaming is the single most common edit from the mobile client.
func RenameTaskHandler(store Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		uid, ok := auth.UserIDFromContext(r.Context())
		if !ok {
			http.Error(w, "unauthorized", http.StatusUnauthorized)
			return
		}

		var body struct {
			TaskID int    `json:"task_id"`
			Name   string `json:"name"`
		}
		if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
			http.Error(w, "invalid json", http.StatusBadRequest)
			return
		}
		if body.TaskID == 0 {
			http.Error(w, "task_id required", http.StatusBadRequest)
			return
		}
		if body.Name == "" {
			http.Error(w, "name is required", http.StatusBadRequest)
			return
		}

		t, err := store.UpdateTask(r.Context(), uid, body.TaskID, TaskUpdate{Name: &body.Name})
		if err != nil {
			writeStoreErr(w, err)
			return
		}

		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(t)
	}
}

func DeleteTaskHandler(store Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		uid, ok := auth.UserIDFromContext(r.Context())
		if !ok {
			http.Error(w, "unauthorized", http.StatusUnauthorized)
			return
		}

		taskID, ok := taskIDFromRequest(r)
		if !ok {
			http.Error(w, "task_id required", http.StatusBadRequest)
			return
		}

		if err := store.DeleteTask(r.Context(), uid, taskID); err != nil {
			writeStoreErr(w, err)
			return
		}

		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(map[string]any{"message": "task removed"})
	}
}

// SetCompletedHandler serves POST /task/complete and /task/incomplete.
func SetCompletedHandler(store Store, dbx *sql.DB, completed bool) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		uid, ok := auth.UserIDFromContext(r.Context())
		if !ok {
			http.Error(w, "unauthorized", http.StatusUnauthorized)
			return
		}

		var body struct {
			TaskID int `json:"task_id"`
		}
		if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
			http.Error(w, "invalid json", http.StatusBadRequest)
			return
		}
		if body.TaskID == 0 {
			http.Error(w, "task_id required", http.StatusBadRequest)
			return
		}

		t, err := store.SetCompleted(r.Context(), uid, body.TaskID, completed)
		if err != nil {
			writeStoreErr(w, err)
			return
		}

		event := "task_uncompleted"
		if completed {
			event = "task_completed"
		}
		env := analytics.FromRequest(r)
		env.UserID = uid
		props := map[string]any{
			"task_id":                t.ID,
			"list_id":                t.ListID,
			"time_since_created_sec": int(time.Now().UTC().Sub(t.CreatedAt).Seconds()),
		}
		_ = analytics.Log(r.Context(), dbx, env, event, props, analytics.SourceEventKeyFromRequest(r))

		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(t)
	}
}

// SetStarredHandler serves POST /task/star and /task/unstar.
func SetStarredHandler(store Store, dbx *sql.DB, starred bool) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		uid, ok := auth.UserIDFromContext(r.Context())
		if !ok {
			http.Error(w, "unauthorized", http.StatusUnauthorized)
			return
		}

		var body struct {
			TaskID int `json:"task_id"`
		}
		if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
			http.Error(w, "invalid json", http.StatusBadRequest)
			return
		}
		if body.TaskID == 0 {
			http.Error(w, "task_id required", http.StatusBadRequest)
			return
		}

		t, err := store.SetStarred(r.Context(), uid, body.TaskID, starred)
		if err != nil {
			writeStoreErr(w, err)
			return
		}

		event := "task_unstarred"
		if starred {
			event = "task_starred"
		}
		env := analytics.FromRequest(r)
		env.UserID = uid
		props := map[string]any{
			"task_id": t.ID,
			"list_id": t.ListID,
		}
		_ = analytics.Log(r.Context(), dbx, env, event, props, analytics.SourceEventKeyFromRequest(r))

		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(t)
	}
}

// -------------------------------
// LIST / TAG / CATEGORY HANDLERS
// -------------------------------

func CreateListHandler(store Store, dbx *sql.DB) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		uid, ok := auth.UserIDFromContext(r.Context())
		if !ok {
			http.Error(w, "unauthorized", http.StatusUnauthorized)
			return
		}

		var body struct {
			Name string `json:"name"`
		}
		if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
			http.Error(w, "invalid json", http.StatusBadRequest)
			return
		}
		if body.Name == "" {
			http.Error(w, "name is required", http.StatusBadRequest)
			return
		}

		l, err := store.CreateList(r.Context(), uid, body.Name)
		if err != nil {
			writeStoreErr(w, err)
			return
		}

		env := analytics.FromRequest(r)
		env.UserID = uid
		_ = analytics.Log(r.Context(), dbx, env, "list_created",
			map[string]any{"list_id": l.ID, "name_len": len(l.Name)},
			analytics.SourceEventKeyFromRequest(r))

		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(l)
	}
}

func ListsHandler(store Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		uid, ok := auth.UserIDFromContext(r.Context())
		if !ok {
			http.Error(w, "unauthorized", http.StatusUnauthorized)
			return
		}

		lists, err := store.Lists(r.Context(), uid)
		if err != nil {
			writeStoreErr(w, err)
			return
		}
		if lists == nil {
			lists = []TaskList{}
		}

		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(lists)
	}
}

func CreateTagHandler(store Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		uid, ok := auth.UserIDFromContext(r.Context())
		if !ok {
			http.Error(w, "unauthorized", http.StatusUnauthorized)
			return
		}

		var body struct {
			Name string `json:"name"`
		}
		if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
			http.Error(w, "invalid json", http.StatusBadRequest)
			return
		}
		if body.Name == "" {
			http.Error(w, "name is required", http.StatusBadRequest)
			return
		}

		t, err := store.CreateTag(r.Context(), uid, body.Name)
		if err != nil {
			writeStoreErr(w, err)
			return
		}

		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(t)
	}
}

func TagsHandler(store Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		uid, ok := auth.UserIDFromContext(r.Context())
		if !ok {
			http.Error(w, "unauthorized", http.StatusUnauthorized)
			return
		}

		tags, err := store.Tags(r.Context(), uid)
		if err != nil {
			writeStoreErr(w, err)
			return
		}
		if tags == nil {
			tags = []Tag{}
		}

		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(tags)
	}
}

func CreateCategoryHandler(store Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		uid, ok := auth.UserIDFromContext(r.Context())
		if !ok {
			http.Error(w, "unauthorized", http.StatusUnauthorized)
			return
		}

		var body struct {
			Name string `json:"name"`
		}
		if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
			http.Error(w, "invalid json", http.StatusBadRequest)
			return
		}
		if body.Name == "" {
			http.Error(w, "name is required", http.StatusBadRequest)
			return
		}

		c, err := store.CreateCategory(r.Context(), uid, body.Name)
		if err != nil {
			writeStoreErr(w, err)
			return
		}

		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(c)
	}
}

func CategoriesHandler(store Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		uid, ok := auth.UserIDFromContext(r.Context())
		if !ok {
			http.Error(w, "unauthorized", http.StatusUnauthorized)
			return
		}

		cats, err := store.Categories(r.Context(), uid)
		if err != nil {
			writeStoreErr(w, err)
			return
		}
		if cats == nil {
			cats = []Category{}
		}

		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(cats)
	}
}
