package tasks_test

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"sort"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/Lali182k5/TaskHub/internal/auth"
	"github.com/Lali182k5/TaskHub/internal/router"
	"github.com/Lali182k5/TaskHub/internal/tasks"
)

// fakeStore is an in-memory tasks.Store. Its List mirrors the repository's
// documented ordering: missing due dates sort first ascending and last
// descending, ties broken by descending creation time.
type fakeStore struct {
	items []tasks.Task
}

func (f *fakeStore) add(t tasks.Task) tasks.Task {
	if t.ID.IsZero() {
		t.ID = primitive.NewObjectID()
	}
	f.items = append(f.items, t)
	return t
}

func (f *fakeStore) List(_ context.Context, owner primitive.ObjectID, q tasks.ListQuery) ([]tasks.Task, error) {
	out := make([]tasks.Task, 0)
	for _, t := range f.items {
		if t.Owner != owner {
			continue
		}
		if q.Status != "" && t.Status != q.Status {
			continue
		}
		if q.Priority != "" && t.Priority != q.Priority {
			continue
		}
		if q.DueAfter != nil && (t.DueDate == nil || t.DueDate.Before(*q.DueAfter)) {
			continue
		}
		if q.DueBefore != nil && (t.DueDate == nil || t.DueDate.After(*q.DueBefore)) {
			continue
		}
		out = append(out, t)
	}

	sort.SliceStable(out, func(i, j int) bool {
		a, b := out[i], out[j]
		switch q.Sort {
		case tasks.SortDueAsc:
			if c := compareDue(a.DueDate, b.DueDate); c != 0 {
				return c < 0
			}
		case tasks.SortDueDesc:
			if c := compareDue(a.DueDate, b.DueDate); c != 0 {
				return c > 0
			}
		}
		return a.CreatedAt.After(b.CreatedAt)
	})
	return out, nil
}

// compareDue orders nil (missing) before any concrete date, like a missing
// field in an ascending Mongo sort.
func compareDue(a, b *time.Time) int {
	switch {
	case a == nil && b == nil:
		return 0
	case a == nil:
		return -1
	case b == nil:
		return 1
	case a.Before(*b):
		return -1
	case a.After(*b):
		return 1
	}
	return 0
}

func (f *fakeStore) Create(_ context.Context, t *tasks.Task) error {
	t.ID = primitive.NewObjectID()
	now := time.Now().UTC()
	t.CreatedAt = now
	t.UpdatedAt = now
	f.items = append(f.items, *t)
	return nil
}

func (f *fakeStore) Get(_ context.Context, owner, id primitive.ObjectID) (*tasks.Task, error) {
	for _, t := range f.items {
		if t.ID == id && t.Owner == owner {
			out := t
			return &out, nil
		}
	}
	return nil, tasks.ErrNotFound
}

func (f *fakeStore) Update(_ context.Context, owner, id primitive.ObjectID, patch tasks.Patch) (*tasks.Task, error) {
	for i := range f.items {
		t := &f.items[i]
		if t.ID != id || t.Owner != owner {
			continue
		}
		if patch.Title != nil {
			t.Title = *patch.Title
		}
		if patch.Description != nil {
			t.Description = *patch.Description
		}
		if patch.Status != nil {
			t.Status = *patch.Status
		}
		if patch.Priority != nil {
			t.Priority = *patch.Priority
		}
		if patch.ClearDue {
			t.DueDate = nil
		} else if patch.DueDate != nil {
			t.DueDate = patch.DueDate
		}
		t.UpdatedAt = time.Now().UTC()
		out := *t
		return &out, nil
	}
	return nil, tasks.ErrNotFound
}

func (f *fakeStore) Delete(_ context.Context, owner, id primitive.ObjectID) error {
	for i, t := range f.items {
		if t.ID == id && t.Owner == owner {
			f.items = append(f.items[:i], f.items[i+1:]...)
			return nil
		}
	}
	return tasks.ErrNotFound
}

type taskEnv struct {
	app    *fiber.App
	store  *fakeStore
	tokens *auth.TokenManager
}

func newTaskEnv(t *testing.T) *taskEnv {
	t.Helper()
	store := &fakeStore{}
	tokens := auth.NewTokenManager([]byte("test-secret"), time.Hour)

	app := fiber.New(fiber.Config{ErrorHandler: router.ErrorHandler(false)})
	handler := tasks.NewHandler(store)
	mw := auth.Middleware(tokens)
	app.Get("/api/tasks", mw, handler.List)
	app.Post("/api/tasks", mw, handler.Create)
	app.Get("/api/tasks/:id", mw, handler.Get)
	app.Put("/api/tasks/:id", mw, handler.Update)
	app.Delete("/api/tasks/:id", mw, handler.Delete)

	return &taskEnv{app: app, store: store, tokens: tokens}
}

func (e *taskEnv) token(t *testing.T, owner primitive.ObjectID) string {
	t.Helper()
	tok, err := e.tokens.Sign(owner.Hex())
	require.NoError(t, err)
	return tok
}

func (e *taskEnv) do(t *testing.T, method, path, token string, body any) (*http.Response, []byte) {
	t.Helper()
	var reader io.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(raw)
	}

	req := httptest.NewRequest(method, path, reader)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := e.app.Test(req, -1)
	require.NoError(t, err)
	data, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	return resp, data
}

func decodeTask(t *testing.T, body []byte) tasks.Task {
	t.Helper()
	var out struct {
		Task tasks.Task `json:"task"`
	}
	require.NoError(t, json.Unmarshal(body, &out))
	return out.Task
}

func decodeList(t *testing.T, body []byte) []tasks.Task {
	t.Helper()
	var out struct {
		Tasks []tasks.Task `json:"tasks"`
	}
	require.NoError(t, json.Unmarshal(body, &out))
	return out.Tasks
}

func TestCreateAndGetRoundTrip(t *testing.T) {
	env := newTaskEnv(t)
	owner := primitive.NewObjectID()
	tok := env.token(t, owner)

	resp, body := env.do(t, http.MethodPost, "/api/tasks", tok, fiber.Map{
		"title":    "  Write spec  ",
		"priority": "high",
		"dueDate":  "2024-06-01",
	})
	require.Equal(t, http.StatusCreated, resp.StatusCode)

	created := decodeTask(t, body)
	assert.Equal(t, "Write spec", created.Title)
	assert.Equal(t, tasks.StatusTodo, created.Status, "status defaults to todo")
	assert.Equal(t, tasks.PriorityHigh, created.Priority)
	require.NotNil(t, created.DueDate)
	assert.Equal(t, time.Date(2024, 6, 1, 0, 0, 0, 0, time.UTC), created.DueDate.UTC())
	assert.False(t, created.ID.IsZero())
	assert.False(t, created.CreatedAt.IsZero())

	resp, body = env.do(t, http.MethodGet, "/api/tasks/"+created.ID.Hex(), tok, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	fetched := decodeTask(t, body)
	assert.Equal(t, created.ID, fetched.ID)
	assert.Equal(t, created.Title, fetched.Title)
	assert.Equal(t, created.Priority, fetched.Priority)
}

func TestCreate_Validation(t *testing.T) {
	env := newTaskEnv(t)
	tok := env.token(t, primitive.NewObjectID())

	tests := []struct {
		name    string
		payload fiber.Map
		names   string
	}{
		{"missing title", fiber.Map{"priority": "low"}, "Title"},
		{"whitespace title", fiber.Map{"title": "   "}, "Title"},
		{"unknown status", fiber.Map{"title": "x", "status": "archived"}, "status"},
		{"unknown priority", fiber.Map{"title": "x", "priority": "urgent"}, "priority"},
		{"bad dueDate", fiber.Map{"title": "x", "dueDate": "June 1st"}, "dueDate"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			resp, body := env.do(t, http.MethodPost, "/api/tasks", tok, tt.payload)
			assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
			assert.Contains(t, string(body), tt.names)
		})
	}

	assert.Empty(t, env.store.items, "no task should be stored on validation failure")
}

func TestOwnershipIsolation(t *testing.T) {
	env := newTaskEnv(t)
	alice := primitive.NewObjectID()
	bob := primitive.NewObjectID()
	aliceTok := env.token(t, alice)
	bobTok := env.token(t, bob)

	resp, body := env.do(t, http.MethodPost, "/api/tasks", aliceTok, fiber.Map{
		"title": "Write spec", "priority": "high", "dueDate": "2024-06-01",
	})
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	created := decodeTask(t, body)
	path := "/api/tasks/" + created.ID.Hex()

	// Bob sees not-found everywhere, never forbidden.
	resp, _ = env.do(t, http.MethodGet, path, bobTok, nil)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
	resp, _ = env.do(t, http.MethodPut, path, bobTok, fiber.Map{"title": "hijacked"})
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
	resp, _ = env.do(t, http.MethodDelete, path, bobTok, nil)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)

	resp, body = env.do(t, http.MethodGet, "/api/tasks?priority=high", aliceTok, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	require.Len(t, decodeList(t, body), 1)

	resp, body = env.do(t, http.MethodGet, "/api/tasks?priority=high", bobTok, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Empty(t, decodeList(t, body))

	// Alice's task is untouched.
	resp, body = env.do(t, http.MethodGet, path, aliceTok, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "Write spec", decodeTask(t, body).Title)
}

func TestList_Unauthorized(t *testing.T) {
	env := newTaskEnv(t)

	resp, _ := env.do(t, http.MethodGet, "/api/tasks", "", nil)
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
}

func due(y int, m time.Month, d int) *time.Time {
	t := time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
	return &t
}

func seedForSorting(env *taskEnv, owner primitive.ObjectID) (a, b, c, d tasks.Task) {
	base := time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)
	a = env.store.add(tasks.Task{
		Owner: owner, Title: "no due, newest", Status: tasks.StatusTodo,
		Priority: tasks.PriorityMedium, CreatedAt: base.Add(3 * time.Hour),
	})
	b = env.store.add(tasks.Task{
		Owner: owner, Title: "no due, oldest", Status: tasks.StatusTodo,
		Priority: tasks.PriorityMedium, CreatedAt: base,
	})
	c = env.store.add(tasks.Task{
		Owner: owner, Title: "due june, older", Status: tasks.StatusTodo,
		Priority: tasks.PriorityMedium, DueDate: due(2024, 6, 1), CreatedAt: base.Add(time.Hour),
	})
	d = env.store.add(tasks.Task{
		Owner: owner, Title: "due june, newer", Status: tasks.StatusTodo,
		Priority: tasks.PriorityMedium, DueDate: due(2024, 6, 1), CreatedAt: base.Add(2 * time.Hour),
	})
	return a, b, c, d
}

func idsOf(list []tasks.Task) []primitive.ObjectID {
	out := make([]primitive.ObjectID, len(list))
	for i, t := range list {
		out[i] = t.ID
	}
	return out
}

func TestList_SortOrders(t *testing.T) {
	env := newTaskEnv(t)
	owner := primitive.NewObjectID()
	tok := env.token(t, owner)
	a, b, c, d := seedForSorting(env, owner)

	// Ascending: unset due dates first, then by due date; equal due dates
	// newest-created first.
	resp, body := env.do(t, http.MethodGet, "/api/tasks?sort=dueDate:asc", tok, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t,
		[]primitive.ObjectID{a.ID, b.ID, d.ID, c.ID},
		idsOf(decodeList(t, body)))

	resp, body = env.do(t, http.MethodGet, "/api/tasks?sort=dueDate:desc", tok, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t,
		[]primitive.ObjectID{d.ID, c.ID, a.ID, b.ID},
		idsOf(decodeList(t, body)))

	// Default: creation time descending.
	resp, body = env.do(t, http.MethodGet, "/api/tasks", tok, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t,
		[]primitive.ObjectID{a.ID, d.ID, c.ID, b.ID},
		idsOf(decodeList(t, body)))

	resp, _ = env.do(t, http.MethodGet, "/api/tasks?sort=priority:asc", tok, nil)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestList_DueRangeInclusive(t *testing.T) {
	env := newTaskEnv(t)
	owner := primitive.NewObjectID()
	tok := env.token(t, owner)

	inside := env.store.add(tasks.Task{
		Owner: owner, Title: "mid january", Status: tasks.StatusTodo,
		Priority: tasks.PriorityMedium, DueDate: due(2024, 1, 15),
	})
	onLower := env.store.add(tasks.Task{
		Owner: owner, Title: "new year", Status: tasks.StatusTodo,
		Priority: tasks.PriorityMedium, DueDate: due(2024, 1, 1),
	})
	onUpper := env.store.add(tasks.Task{
		Owner: owner, Title: "month end", Status: tasks.StatusTodo,
		Priority: tasks.PriorityMedium, DueDate: due(2024, 1, 31),
	})
	env.store.add(tasks.Task{
		Owner: owner, Title: "february", Status: tasks.StatusTodo,
		Priority: tasks.PriorityMedium, DueDate: due(2024, 2, 1),
	})
	env.store.add(tasks.Task{
		Owner: owner, Title: "no due date", Status: tasks.StatusTodo,
		Priority: tasks.PriorityMedium,
	})

	resp, body := env.do(t, http.MethodGet, "/api/tasks?dueAfter=2024-01-01&dueBefore=2024-01-31", tok, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	got := idsOf(decodeList(t, body))
	assert.ElementsMatch(t, []primitive.ObjectID{inside.ID, onLower.ID, onUpper.ID}, got)
}

func TestUpdate_PartialFields(t *testing.T) {
	env := newTaskEnv(t)
	owner := primitive.NewObjectID()
	tok := env.token(t, owner)

	_, body := env.do(t, http.MethodPost, "/api/tasks", tok, fiber.Map{
		"title": "Write spec", "description": "first draft", "dueDate": "2024-06-01",
	})
	created := decodeTask(t, body)
	path := "/api/tasks/" + created.ID.Hex()

	// Only status is present; everything else must survive.
	resp, body := env.do(t, http.MethodPut, path, tok, fiber.Map{"status": "in_progress"})
	require.Equal(t, http.StatusOK, resp.StatusCode)
	updated := decodeTask(t, body)
	assert.Equal(t, tasks.StatusInProgress, updated.Status)
	assert.Equal(t, "Write spec", updated.Title)
	assert.Equal(t, "first draft", updated.Description)
	require.NotNil(t, updated.DueDate)

	// Explicit null clears the due date.
	resp, body = env.do(t, http.MethodPut, path, tok, json.RawMessage(`{"dueDate":null}`))
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Nil(t, decodeTask(t, body).DueDate)

	// A value sets it again; empty string clears it again.
	resp, body = env.do(t, http.MethodPut, path, tok, fiber.Map{"dueDate": "2024-07-01"})
	require.Equal(t, http.StatusOK, resp.StatusCode)
	require.NotNil(t, decodeTask(t, body).DueDate)

	resp, body = env.do(t, http.MethodPut, path, tok, fiber.Map{"dueDate": ""})
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Nil(t, decodeTask(t, body).DueDate)
}

func TestUpdate_Validation(t *testing.T) {
	env := newTaskEnv(t)
	owner := primitive.NewObjectID()
	tok := env.token(t, owner)

	_, body := env.do(t, http.MethodPost, "/api/tasks", tok, fiber.Map{"title": "Write spec"})
	created := decodeTask(t, body)
	path := "/api/tasks/" + created.ID.Hex()

	// Title cannot be cleared on update any more than on create.
	resp, _ := env.do(t, http.MethodPut, path, tok, fiber.Map{"title": "   "})
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)

	resp, body = env.do(t, http.MethodPut, path, tok, fiber.Map{"dueDate": "tomorrow"})
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	assert.Contains(t, string(body), "dueDate")

	resp, _ = env.do(t, http.MethodPut, path, tok, fiber.Map{"status": "paused"})
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)

	// The stored task is untouched by the failed updates.
	resp, body = env.do(t, http.MethodGet, path, tok, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "Write spec", decodeTask(t, body).Title)
}

func TestDelete_Idempotence(t *testing.T) {
	env := newTaskEnv(t)
	owner := primitive.NewObjectID()
	tok := env.token(t, owner)

	_, body := env.do(t, http.MethodPost, "/api/tasks", tok, fiber.Map{"title": "Write spec"})
	created := decodeTask(t, body)
	path := "/api/tasks/" + created.ID.Hex()

	resp, data := env.do(t, http.MethodDelete, path, tok, nil)
	assert.Equal(t, http.StatusNoContent, resp.StatusCode)
	assert.Empty(t, data)

	// Deleting again, and deleting ids that never existed, is NotFound each
	// time, never a server error.
	resp, _ = env.do(t, http.MethodDelete, path, tok, nil)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
	resp, _ = env.do(t, http.MethodDelete, path, tok, nil)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
	resp, _ = env.do(t, http.MethodDelete, "/api/tasks/"+primitive.NewObjectID().Hex(), tok, nil)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
	resp, _ = env.do(t, http.MethodDelete, "/api/tasks/not-a-hex-id", tok, nil)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}
