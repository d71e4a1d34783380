package web

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"
	"time"

	"github.com/pathakanu/memoryjournal/internal/assistant"
	"github.com/pathakanu/memoryjournal/internal/database"
	"github.com/pathakanu/memoryjournal/internal/model"
	"github.com/pathakanu/memoryjournal/internal/store"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

type stubGenerator struct {
	reply   string
	err     error
	calls   int
	prompts []string
}

func (g *stubGenerator) Generate(_ context.Context, prompt string) (string, error) {
	g.calls++
	g.prompts = append(g.prompts, prompt)
	return g.reply, g.err
}

type testEnv struct {
	store   *store.Store
	gen     *stubGenerator
	handler http.Handler
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()

	name := strings.ReplaceAll(t.Name(), "/", "_")
	dsn := fmt.Sprintf("file:%s_%d?mode=memory&cache=shared", name, time.Now().UnixNano())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	if err != nil {
		t.Fatalf("open sqlite memory: %v", err)
	}
	if err := database.Migrate(db); err != nil {
		t.Fatalf("migrate: %v", err)
	}
	t.Cleanup(func() { _ = database.Close(db) })

	logger := log.New(io.Discard, "", 0)
	st := store.New(db)
	gen := &stubGenerator{}
	asst := assistant.New(st, gen, 10, assistant.RetryPolicy{MaxAttempts: 3}, logger)

	srv, err := NewServer(st, asst, logger)
	if err != nil {
		t.Fatalf("NewServer: %v", err)
	}
	return &testEnv{store: st, gen: gen, handler: srv.Router()}
}

func (e *testEnv) do(method, target string, form url.Values) *httptest.ResponseRecorder {
	var body io.Reader
	if form != nil {
		body = strings.NewReader(form.Encode())
	}
	req := httptest.NewRequest(method, target, body)
	if form != nil {
		req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	}
	rec := httptest.NewRecorder()
	e.handler.ServeHTTP(rec, req)
	return rec
}

func expectRedirect(t *testing.T, rec *httptest.ResponseRecorder, location string) {
	t.Helper()
	if rec.Code != http.StatusSeeOther {
		t.Fatalf("status = %d, want 303; body: %s", rec.Code, rec.Body.String())
	}
	if got := rec.Header().Get("Location"); got != location {
		t.Fatalf("Location = %q, want %q", got, location)
	}
}

func TestStaticPages(t *testing.T) {
	t.Parallel()
	env := newTestEnv(t)

	for _, path := range []string{"/", "/log", "/search", "/todo", "/ideas"} {
		rec := env.do(http.MethodGet, path, nil)
		if rec.Code != http.StatusOK {
			t.Fatalf("GET %s = %d", path, rec.Code)
		}
		if !strings.Contains(rec.Body.String(), "Memory Journal") {
			t.Fatalf("GET %s did not render the layout", path)
		}
	}

	if rec := env.do(http.MethodGet, "/missing", nil); rec.Code != http.StatusNotFound {
		t.Fatalf("GET /missing = %d, want 404", rec.Code)
	}
}

func TestHealth(t *testing.T) {
	t.Parallel()
	env := newTestEnv(t)

	rec := env.do(http.MethodGet, "/healthz", nil)
	if rec.Code != http.StatusOK || rec.Body.String() != "ok" {
		t.Fatalf("GET /healthz = %d %q", rec.Code, rec.Body.String())
	}
}

func TestLogAndSearchMemory(t *testing.T) {
	t.Parallel()
	env := newTestEnv(t)

	rec := env.do(http.MethodPost, "/log", url.Values{
		"person":  {"me"},
		"date":    {"2024-01-01"},
		"event":   {"Trip"},
		"details": {"Went to the beach"},
		"tags":    {"fun,family"},
	})
	expectRedirect(t, rec, "/")

	rec = env.do(http.MethodPost, "/search", url.Values{"query": {"beach"}})
	if rec.Code != http.StatusOK || !strings.Contains(rec.Body.String(), "Went to the beach") {
		t.Fatalf("search did not find memory: %d %s", rec.Code, rec.Body.String())
	}

	rec = env.do(http.MethodGet, "/search?query=family", nil)
	if !strings.Contains(rec.Body.String(), "2024-01-01 - Trip") {
		t.Fatalf("GET search did not find memory: %s", rec.Body.String())
	}

	rec = env.do(http.MethodPost, "/search", url.Values{"query": {"skiing"}})
	if !strings.Contains(rec.Body.String(), "noResultsMsg") {
		t.Fatalf("expected no-results message: %s", rec.Body.String())
	}
}

func TestLogMemoryValidation(t *testing.T) {
	t.Parallel()
	env := newTestEnv(t)

	rec := env.do(http.MethodPost, "/log", url.Values{
		"date":    {"2024-01-01"},
		"event":   {"Trip"},
		"details": {"short"},
	})
	if rec.Code != http.StatusUnprocessableEntity {
		t.Fatalf("status = %d, want 422", rec.Code)
	}
	if !strings.Contains(rec.Body.String(), "at least 10 characters") {
		t.Fatalf("missing validation message: %s", rec.Body.String())
	}

	memories, _ := env.store.RecentMemories(context.Background(), 10)
	if len(memories) != 0 {
		t.Fatalf("invalid memory was stored: %+v", memories)
	}
}

func TestRandomMemory(t *testing.T) {
	t.Parallel()
	env := newTestEnv(t)

	var payload map[string]string
	rec := env.do(http.MethodGet, "/random_memory", nil)
	if err := json.Unmarshal(rec.Body.Bytes(), &payload); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if payload["memory"] != "No memories logged yet." {
		t.Fatalf("unexpected empty payload: %v", payload)
	}

	if err := env.store.CreateMemory(context.Background(), &model.Memory{Date: "2024-01-01", Event: "Trip", Details: "Went to the beach"}); err != nil {
		t.Fatalf("seed: %v", err)
	}
	rec = env.do(http.MethodGet, "/random_memory", nil)
	if err := json.Unmarshal(rec.Body.Bytes(), &payload); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if payload["memory"] != "2024-01-01 - Trip: Went to the beach" {
		t.Fatalf("unexpected payload: %v", payload)
	}
}

func TestTodoLifecycle(t *testing.T) {
	t.Parallel()
	env := newTestEnv(t)
	ctx := context.Background()

	expectRedirect(t, env.do(http.MethodPost, "/todo", url.Values{"task": {"buy milk"}}), "/todo")
	expectRedirect(t, env.do(http.MethodPost, "/todo", url.Values{"task": {"pay rent"}, "priority": {"high"}, "due_date": {"2024-02-01"}}), "/todo")

	todos, err := env.store.ListTodos(ctx)
	if err != nil {
		t.Fatalf("ListTodos: %v", err)
	}
	if len(todos) != 2 || todos[0].Task != "pay rent" || todos[0].Priority != model.PriorityHigh || todos[1].Priority != model.PriorityLow {
		t.Fatalf("unexpected todos: %+v", todos)
	}

	rec := env.do(http.MethodGet, "/todo", nil)
	if !strings.Contains(rec.Body.String(), "[High] pay rent") {
		t.Fatalf("todo page missing task: %s", rec.Body.String())
	}

	expectRedirect(t, env.do(http.MethodGet, fmt.Sprintf("/todo/done/%d", todos[0].ID), nil), "/todo")
	expectRedirect(t, env.do(http.MethodPost, fmt.Sprintf("/todo/delete/%d", todos[1].ID), nil), "/todo")

	todos, _ = env.store.ListTodos(ctx)
	if len(todos) != 1 || !todos[0].IsDone {
		t.Fatalf("unexpected todos after done/delete: %+v", todos)
	}

	if rec := env.do(http.MethodGet, "/todo/done/9999", nil); rec.Code != http.StatusNotFound {
		t.Fatalf("done on unknown id = %d, want 404", rec.Code)
	}
	if rec := env.do(http.MethodPost, "/todo/delete/abc", nil); rec.Code != http.StatusBadRequest {
		t.Fatalf("delete with bad id = %d, want 400", rec.Code)
	}
}

func TestTodoValidation(t *testing.T) {
	t.Parallel()
	env := newTestEnv(t)

	if rec := env.do(http.MethodPost, "/todo", url.Values{"task": {"  "}}); rec.Code != http.StatusUnprocessableEntity {
		t.Fatalf("blank task = %d, want 422", rec.Code)
	}
	rec := env.do(http.MethodPost, "/todo", url.Values{"task": {"x"}, "priority": {"urgent"}})
	if rec.Code != http.StatusUnprocessableEntity || !strings.Contains(rec.Body.String(), "Priority must be") {
		t.Fatalf("bad priority = %d %s", rec.Code, rec.Body.String())
	}
}

func TestIdeaLifecycle(t *testing.T) {
	t.Parallel()
	env := newTestEnv(t)

	expectRedirect(t, env.do(http.MethodPost, "/ideas", url.Values{"title": {"Garden"}, "description": {"Grow tomatoes"}, "tags": {"home"}}), "/ideas")
	if rec := env.do(http.MethodPost, "/ideas", url.Values{"description": {"no title"}}); rec.Code != http.StatusUnprocessableEntity {
		t.Fatalf("idea without title = %d, want 422", rec.Code)
	}

	rec := env.do(http.MethodGet, "/ideas", nil)
	if !strings.Contains(rec.Body.String(), "Grow tomatoes") {
		t.Fatalf("ideas page missing idea: %s", rec.Body.String())
	}

	ideas, _ := env.store.ListIdeas(context.Background())
	expectRedirect(t, env.do(http.MethodPost, fmt.Sprintf("/delete/%d", ideas[0].ID), nil), "/ideas")
	if rec := env.do(http.MethodPost, fmt.Sprintf("/delete/%d", ideas[0].ID), nil); rec.Code != http.StatusNotFound {
		t.Fatalf("second delete = %d, want 404", rec.Code)
	}
}

func TestAIQuery(t *testing.T) {
	t.Parallel()
	env := newTestEnv(t)

	if err := env.store.CreateMemory(context.Background(), &model.Memory{
		Person: "me", Date: "2024-01-01", Event: "Trip", Details: "Went to the beach", Tags: "fun,family",
	}); err != nil {
		t.Fatalf("seed: %v", err)
	}
	env.gen.reply = "You went to the beach."

	rec := env.do(http.MethodPost, "/ai-query", url.Values{"question": {"What did I do in January?"}})
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}
	body := rec.Body.String()
	if !strings.Contains(body, "You went to the beach.") || !strings.Contains(body, "What did I do in January?") {
		t.Fatalf("unexpected results page: %s", body)
	}
	if env.gen.calls != 1 || !strings.Contains(env.gen.prompts[0], "2024-01-01 - Trip: Went to the beach") {
		t.Fatalf("unexpected generator use: calls=%d prompts=%v", env.gen.calls, env.gen.prompts)
	}
}

func TestAIQueryDegradesToWarning(t *testing.T) {
	t.Parallel()
	env := newTestEnv(t)
	env.gen.err = errors.New("quota exceeded")

	rec := env.do(http.MethodPost, "/ai-query", url.Values{"question": {"Anything?"}})
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}
	if !strings.Contains(rec.Body.String(), "failed to process your question") {
		t.Fatalf("missing fallback warning: %s", rec.Body.String())
	}
	if env.gen.calls != 3 {
		t.Fatalf("generator calls = %d, want 3", env.gen.calls)
	}

	rec = env.do(http.MethodPost, "/ai-query", url.Values{"question": {"   "}})
	if rec.Code != http.StatusOK || !strings.Contains(rec.Body.String(), "Please type a question") {
		t.Fatalf("blank question = %d %s", rec.Code, rec.Body.String())
	}
	if env.gen.calls != 3 {
		t.Fatalf("blank question reached the generator")
	}
}
