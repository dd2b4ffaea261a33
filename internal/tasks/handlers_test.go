package tasks_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"yudai-tasks-backend/internal/auth"
	"yudai-tasks-backend/internal/tasks"
	"yudai-tasks-backend/internal/testutil"
)

var testSecret = []byte("test-secret")

const testUserID = 3

func serve(t *testing.T, h http.HandlerFunc, method, target, body string) *httptest.ResponseRecorder {
	t.Helper()

	var req *http.Request
	if body == "" {
		req = httptest.NewRequest(method, target, nil)
	} else {
		req = httptest.NewRequest(method, target, strings.NewReader(body))
	}

	token, err := auth.GenerateToken(testSecret, testUserID)
	if err != nil {
		t.Fatalf("generate token: %v", err)
	}
	req.Header.Set("Authorization", "Bearer "+token)

	rec := httptest.NewRecorder()
	auth.New(testSecret).Wrap(h)(rec, req)
	return rec
}

func decodeTask(t *testing.T, rec *httptest.ResponseRecorder) tasks.Task {
	t.Helper()
	var task tasks.Task
	if err := json.Unmarshal(rec.Body.Bytes(), &task); err != nil {
		t.Fatalf("decode task: %v (body=%q)", err, rec.Body.String())
	}
	return task
}

func seedTask(t *testing.T, store *testutil.FakeStore, name string) tasks.Task {
	t.Helper()
	task, err := store.CreateTask(context.Background(), testUserID, tasks.DefaultListID,
		tasks.NewTask{Name: name}, time.Now().UTC())
	if err != nil {
		t.Fatalf("seed task: %v", err)
	}
	return task
}

func TestCreateTaskHandler(t *testing.T) {
	store := testutil.NewFakeStore()
	rec := serve(t, tasks.CreateTaskHandler(store, nil), http.MethodPost, "/task",
		`{"name":"Buy milk"}`)
	if rec.Code != http.StatusOK {
		t.Fatalf("status=%d body=%q, want 200", rec.Code, rec.Body.String())
	}

	task := decodeTask(t, rec)
	if task.Name != "Buy milk" {
		t.Fatalf("name=%q, want Buy milk", task.Name)
	}
	if task.Completed || task.Starred {
		t.Fatal("new task must default completed=false starred=false")
	}
	if task.ListID != tasks.DefaultListID {
		t.Fatalf("list_id=%q, want default", task.ListID)
	}
}

func TestCreateTaskValidation(t *testing.T) {
	store := testutil.NewFakeStore()

	rec := serve(t, tasks.CreateTaskHandler(store, nil), http.MethodPost, "/task", `{"name":""}`)
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("empty name: status=%d, want 400", rec.Code)
	}

	rec = serve(t, tasks.CreateTaskHandler(store, nil), http.MethodPost, "/task", `{bad json`)
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("bad json: status=%d, want 400", rec.Code)
	}

	rec = serve(t, tasks.CreateTaskHandler(store, nil), http.MethodPost, "/task",
		`{"name":"x","list_id":"999"}`)
	if rec.Code != http.StatusNotFound {
		t.Fatalf("unknown list: status=%d, want 404", rec.Code)
	}
}

func TestStarUnstarRoundTrip(t *testing.T) {
	store := testutil.NewFakeStore()
	seeded := seedTask(t, store, "Buy milk")

	rec := serve(t, tasks.SetStarredHandler(store, nil, true), http.MethodPost, "/task/star",
		`{"task_id":1}`)
	if rec.Code != http.StatusOK {
		t.Fatalf("star: status=%d, want 200", rec.Code)
	}
	if task := decodeTask(t, rec); !task.Starred {
		t.Fatal("star: starred=false, want true")
	}

	rec = serve(t, tasks.SetStarredHandler(store, nil, false), http.MethodPost, "/task/unstar",
		`{"task_id":1}`)
	if rec.Code != http.StatusOK {
		t.Fatalf("unstar: status=%d, want 200", rec.Code)
	}

	task := decodeTask(t, rec)
	if task.Starred {
		t.Fatal("unstar: starred=true, want false")
	}
	// everything else untouched by the round trip
	if task.Name != seeded.Name || task.Completed != seeded.Completed ||
		task.ListID != seeded.ListID || !task.CreatedAt.Equal(seeded.CreatedAt) {
		t.Fatalf("round trip changed other fields: %+v vs %+v", task, seeded)
	}
}

func TestCompleteIncomplete(t *testing.T) {
	store := testutil.NewFakeStore()
	seedTask(t, store, "Buy milk")

	rec := serve(t, tasks.SetCompletedHandler(store, nil, true), http.MethodPost, "/task/complete",
		`{"task_id":1}`)
	if rec.Code != http.StatusOK {
		t.Fatalf("complete: status=%d, want 200", rec.Code)
	}
	if task := decodeTask(t, rec); !task.Completed {
		t.Fatal("complete: completed=false, want true")
	}

	rec = serve(t, tasks.SetCompletedHandler(store, nil, false), http.MethodPost, "/task/incomplete",
		`{"task_id":1}`)
	if task := decodeTask(t, rec); task.Completed {
		t.Fatal("incomplete: completed=true, want false")
	}
}

func TestTasksHandlerFilters(t *testing.T) {
	store := testutil.NewFakeStore()
	seedTask(t, store, "done one")
	seedTask(t, store, "open one")
	if _, err := store.SetCompleted(context.Background(), testUserID, 1, true); err != nil {
		t.Fatalf("complete seed: %v", err)
	}

	cases := []struct {
		filter string
		want   int
	}{
		{"", 2},
		{"all", 2},
		{"completed", 1},
		{"incomplete", 1},
		{"starred", 0},
	}
	for _, tc := range cases {
		rec := serve(t, tasks.TasksHandler(store), http.MethodGet, "/tasks?filter="+tc.filter, "")
		if rec.Code != http.StatusOK {
			t.Fatalf("filter %q: status=%d, want 200", tc.filter, rec.Code)
		}
		var result []tasks.Task
		if err := json.Unmarshal(rec.Body.Bytes(), &result); err != nil {
			t.Fatalf("filter %q: decode: %v", tc.filter, err)
		}
		if len(result) != tc.want {
			t.Fatalf("filter %q: got %d tasks, want %d", tc.filter, len(result), tc.want)
		}
	}

	rec := serve(t, tasks.TasksHandler(store), http.MethodGet, "/tasks?filter=bogus", "")
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("bogus filter: status=%d, want 400", rec.Code)
	}
}

func TestRenameTaskHandler(t *testing.T) {
	store := testutil.NewFakeStore()
	seedTask(t, store, "old name")

	rec := serve(t, tasks.RenameTaskHandler(store), http.MethodPut, "/task/name",
		`{"task_id":1,"name":"new name"}`)
	if rec.Code != http.StatusOK {
		t.Fatalf("status=%d, want 200", rec.Code)
	}
	if task := decodeTask(t, rec); task.Name != "new name" {
		t.Fatalf("name=%q, want new name", task.Name)
	}
}

func TestUpdateTaskPartial(t *testing.T) {
	store := testutil.NewFakeStore()
	seedTask(t, store, "Buy milk")

	rec := serve(t, tasks.UpdateTaskHandler(store), http.MethodPut, "/task",
		`{"task_id":1,"priority":5,"tags":["errand","home"]}`)
	if rec.Code != http.StatusOK {
		t.Fatalf("status=%d body=%q, want 200", rec.Code, rec.Body.String())
	}

	task := decodeTask(t, rec)
	if task.Priority != 5 || len(task.Tags) != 2 {
		t.Fatalf("update not applied: %+v", task)
	}
	if task.Name != "Buy milk" {
		t.Fatalf("untouched field changed: name=%q", task.Name)
	}
}

func TestDeleteTaskHandler(t *testing.T) {
	store := testutil.NewFakeStore()
	seedTask(t, store, "Buy milk")

	rec := serve(t, tasks.DeleteTaskHandler(store), http.MethodDelete, "/task?task_id=1", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("status=%d, want 200", rec.Code)
	}

	rec = serve(t, tasks.GetTaskHandler(store), http.MethodGet, "/task?task_id=1", "")
	if rec.Code != http.StatusNotFound {
		t.Fatalf("status after delete=%d, want 404", rec.Code)
	}
}

func TestListsTagsCategories(t *testing.T) {
	store := testutil.NewFakeStore()

	rec := serve(t, tasks.CreateListHandler(store, nil), http.MethodPost, "/task-list",
		`{"name":"errands"}`)
	if rec.Code != http.StatusOK {
		t.Fatalf("create list: status=%d, want 200", rec.Code)
	}

	rec = serve(t, tasks.ListsHandler(store), http.MethodGet, "/task-lists", "")
	var lists []tasks.TaskList
	if err := json.Unmarshal(rec.Body.Bytes(), &lists); err != nil {
		t.Fatalf("decode lists: %v", err)
	}
	if len(lists) != 1 || lists[0].Name != "errands" {
		t.Fatalf("lists=%+v, want one list named errands", lists)
	}

	rec = serve(t, tasks.CreateTagHandler(store), http.MethodPost, "/tag", `{"name":"urgent"}`)
	if rec.Code != http.StatusOK {
		t.Fatalf("create tag: status=%d, want 200", rec.Code)
	}
	rec = serve(t, tasks.CreateCategoryHandler(store), http.MethodPost, "/category", `{"name":"work"}`)
	if rec.Code != http.StatusOK {
		t.Fatalf("create category: status=%d, want 200", rec.Code)
	}
}

func TestUnauthorizedWithoutToken(t *testing.T) {
	store := testutil.NewFakeStore()

	req := httptest.NewRequest(http.MethodGet, "/tasks", nil)
	rec := httptest.NewRecorder()
	auth.New(testSecret).Wrap(tasks.TasksHandler(store))(rec, req)
	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("status=%d, want 401", rec.Code)
	}
}
