package v1

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"os"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/google/go-cmp/cmp"
	"github.com/rs/zerolog"
	"gorm.io/gorm"

	"github.com/adanyl0v/todo-app/internal/database"
	"github.com/adanyl0v/todo-app/internal/testutil"
)

func TestMain(m *testing.M) {
	gin.SetMode(gin.TestMode)
	os.Exit(m.Run())
}

// newTestRouter wires the routes to a single session shared by every
// request, the way the application would be pointed at a test fixture.
func newTestRouter(t *testing.T) *gin.Engine {
	t.Helper()

	db := testutil.NewSQLiteDB(t)
	h := New(zerolog.Nop(), database.NewSharedSession(db))

	router := gin.New()
	router.Use(h.HandleRequestLogger)
	RegisterRoutes(router, h)
	return router
}

func doRequest(t *testing.T, router http.Handler, method, path string, body any) *httptest.ResponseRecorder {
	t.Helper()

	var reader *bytes.Reader
	switch b := body.(type) {
	case nil:
		reader = bytes.NewReader(nil)
	case string:
		reader = bytes.NewReader([]byte(b))
	default:
		raw, err := json.Marshal(b)
		if err != nil {
			t.Fatalf("failed to marshal body: %v", err)
		}
		reader = bytes.NewReader(raw)
	}

	req := httptest.NewRequest(method, path, reader)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	return rec
}

func decode[T any](t *testing.T, rec *httptest.ResponseRecorder) T {
	t.Helper()

	var v T
	err := json.Unmarshal(rec.Body.Bytes(), &v)
	if err != nil {
		t.Fatalf("failed to decode %q: %v", rec.Body.String(), err)
	}
	return v
}

type detailResponse struct {
	Detail string `json:"detail"`
}

type validationResponse struct {
	Detail []validationDetail `json:"detail"`
}

func TestHandleRoot(t *testing.T) {
	router := newTestRouter(t)

	rec := doRequest(t, router, http.MethodGet, "/", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}
	got := decode[map[string]string](t, rec)
	if diff := cmp.Diff(map[string]string{"message": "Welcome to todo-app"}, got); diff != "" {
		t.Errorf("body mismatch (-want +got):\n%s", diff)
	}
}

func TestTodoLifecycle(t *testing.T) {
	router := newTestRouter(t)

	rec := doRequest(t, router, http.MethodPost, "/todos/", map[string]any{
		"content":      "buy milk",
		"is_completed": false,
	})
	if rec.Code != http.StatusOK {
		t.Fatalf("create status = %d, body %s", rec.Code, rec.Body.String())
	}
	created := decode[getTodoResponse](t, rec)
	if created.ID == 0 {
		t.Fatal("create did not assign an id")
	}
	if diff := cmp.Diff(getTodoResponse{ID: created.ID, Content: "buy milk"}, created); diff != "" {
		t.Errorf("create body mismatch (-want +got):\n%s", diff)
	}

	todoPath := fmt.Sprintf("/todos/%d", created.ID)

	rec = doRequest(t, router, http.MethodPut, todoPath, map[string]any{
		"content":      "buy milk and eggs",
		"is_completed": true,
	})
	if rec.Code != http.StatusOK {
		t.Fatalf("update status = %d, body %s", rec.Code, rec.Body.String())
	}
	expected := getTodoResponse{ID: created.ID, Content: "buy milk and eggs", IsCompleted: true}
	if diff := cmp.Diff(expected, decode[getTodoResponse](t, rec)); diff != "" {
		t.Errorf("update body mismatch (-want +got):\n%s", diff)
	}

	rec = doRequest(t, router, http.MethodGet, todoPath, nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("get status = %d, body %s", rec.Code, rec.Body.String())
	}
	if diff := cmp.Diff(expected, decode[getTodoResponse](t, rec)); diff != "" {
		t.Errorf("get body mismatch (-want +got):\n%s", diff)
	}

	rec = doRequest(t, router, http.MethodDelete, todoPath, nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("delete status = %d, body %s", rec.Code, rec.Body.String())
	}
	if diff := cmp.Diff(map[string]string{"message": "Task Successfully Deleted!"}, decode[map[string]string](t, rec)); diff != "" {
		t.Errorf("delete body mismatch (-want +got):\n%s", diff)
	}

	rec = doRequest(t, router, http.MethodGet, todoPath, nil)
	if rec.Code != http.StatusNotFound {
		t.Fatalf("get after delete status = %d, want 404", rec.Code)
	}
	if got := decode[detailResponse](t, rec).Detail; got != "NO task found" {
		t.Errorf("detail = %q", got)
	}
}

func TestGetTodosListsCreated(t *testing.T) {
	router := newTestRouter(t)

	var expected []getTodoResponse
	for _, content := range []string{"create todo test", "get all todos test"} {
		rec := doRequest(t, router, http.MethodPost, "/todos/", map[string]any{"content": content})
		if rec.Code != http.StatusOK {
			t.Fatalf("create status = %d, body %s", rec.Code, rec.Body.String())
		}
		expected = append(expected, decode[getTodoResponse](t, rec))
	}

	rec := doRequest(t, router, http.MethodGet, "/todos/", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("list status = %d, body %s", rec.Code, rec.Body.String())
	}
	got := decode[[]getTodoResponse](t, rec)
	if diff := cmp.Diff(expected, got); diff != "" {
		t.Errorf("list mismatch (-want +got):\n%s", diff)
	}
	if last := got[len(got)-1]; last.Content != "get all todos test" {
		t.Errorf("newest todo is not last: %+v", last)
	}
}

func TestGetTodosEmptyReturnsNotFound(t *testing.T) {
	router := newTestRouter(t)

	rec := doRequest(t, router, http.MethodGet, "/todos/", nil)
	if rec.Code != http.StatusNotFound {
		t.Fatalf("status = %d, want 404", rec.Code)
	}
	if got := decode[detailResponse](t, rec).Detail; got != "NO task found" {
		t.Errorf("detail = %q", got)
	}
}

func TestNotFoundMessages(t *testing.T) {
	router := newTestRouter(t)

	testCases := []struct {
		method  string
		body    any
		message string
	}{
		{method: http.MethodGet, message: "NO task found"},
		{method: http.MethodPut, body: map[string]any{"content": "nothing here"}, message: "No task Found"},
		{method: http.MethodDelete, message: "No Task Found"},
	}

	for _, tc := range testCases {
		t.Run(tc.method, func(t *testing.T) {
			rec := doRequest(t, router, tc.method, "/todos/999", tc.body)
			if rec.Code != http.StatusNotFound {
				t.Fatalf("status = %d, want 404", rec.Code)
			}
			if got := decode[detailResponse](t, rec).Detail; got != tc.message {
				t.Errorf("detail = %q, want %q", got, tc.message)
			}
		})
	}
}

func TestCreateTodoValidation(t *testing.T) {
	router := newTestRouter(t)

	testCases := []struct {
		name  string
		body  any
		field string
	}{
		{name: "too short", body: map[string]any{"content": "ab"}, field: "content"},
		{name: "too long", body: map[string]any{"content": strings.Repeat("x", 55)}, field: "content"},
		{name: "missing content", body: map[string]any{"is_completed": true}, field: "content"},
		{name: "wrong type", body: map[string]any{"content": "fine", "is_completed": "yes"}, field: "is_completed"},
		{name: "malformed json", body: `{"content": `},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			rec := doRequest(t, router, http.MethodPost, "/todos/", tc.body)
			if rec.Code != http.StatusUnprocessableEntity {
				t.Fatalf("status = %d, want 422, body %s", rec.Code, rec.Body.String())
			}
			details := decode[validationResponse](t, rec).Detail
			if len(details) == 0 {
				t.Fatal("expected validation details")
			}
			if tc.field != "" {
				loc := details[0].Loc
				if loc[len(loc)-1] != tc.field {
					t.Errorf("loc = %v, want field %q", loc, tc.field)
				}
			}
		})
	}

	rec := doRequest(t, router, http.MethodGet, "/todos/", nil)
	if rec.Code != http.StatusNotFound {
		t.Errorf("invalid payloads were persisted, list status = %d", rec.Code)
	}
}

func TestUpdateTodoValidation(t *testing.T) {
	router := newTestRouter(t)

	rec := doRequest(t, router, http.MethodPost, "/todos/", map[string]any{
		"content":      "keep me as is",
		"is_completed": true,
	})
	if rec.Code != http.StatusOK {
		t.Fatalf("create status = %d, body %s", rec.Code, rec.Body.String())
	}
	created := decode[getTodoResponse](t, rec)
	todoPath := fmt.Sprintf("/todos/%d", created.ID)

	testCases := []struct {
		name string
		body any
	}{
		{name: "too short", body: map[string]any{"content": "ab"}},
		{name: "too long", body: map[string]any{"content": strings.Repeat("x", 55), "is_completed": false}},
		{name: "missing content", body: map[string]any{"is_completed": false}},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			rec := doRequest(t, router, http.MethodPut, todoPath, tc.body)
			if rec.Code != http.StatusUnprocessableEntity {
				t.Fatalf("status = %d, want 422, body %s", rec.Code, rec.Body.String())
			}
			loc := decode[validationResponse](t, rec).Detail[0].Loc
			if loc[len(loc)-1] != "content" {
				t.Errorf("loc = %v, want field content", loc)
			}
		})
	}

	rec = doRequest(t, router, http.MethodGet, todoPath, nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("get status = %d, body %s", rec.Code, rec.Body.String())
	}
	if diff := cmp.Diff(created, decode[getTodoResponse](t, rec)); diff != "" {
		t.Errorf("rejected update changed the todo (-want +got):\n%s", diff)
	}
}

func TestInvalidTodoID(t *testing.T) {
	router := newTestRouter(t)

	for _, method := range []string{http.MethodGet, http.MethodPut, http.MethodDelete} {
		rec := doRequest(t, router, method, "/todos/abc", nil)
		if rec.Code != http.StatusUnprocessableEntity {
			t.Errorf("%s status = %d, want 422", method, rec.Code)
		}
	}
}

func TestUpdateTodoIsNotPartial(t *testing.T) {
	router := newTestRouter(t)

	rec := doRequest(t, router, http.MethodPost, "/todos/", map[string]any{
		"content":      "water plants",
		"is_completed": true,
	})
	created := decode[getTodoResponse](t, rec)

	// is_completed is omitted and must fall back to false, not keep true.
	rec = doRequest(t, router, http.MethodPut, fmt.Sprintf("/todos/%d", created.ID), map[string]any{
		"content": "water the plants",
	})
	if rec.Code != http.StatusOK {
		t.Fatalf("update status = %d, body %s", rec.Code, rec.Body.String())
	}
	expected := getTodoResponse{ID: created.ID, Content: "water the plants"}
	if diff := cmp.Diff(expected, decode[getTodoResponse](t, rec)); diff != "" {
		t.Errorf("update body mismatch (-want +got):\n%s", diff)
	}
}

func TestRequestIDHeader(t *testing.T) {
	router := newTestRouter(t)

	rec := doRequest(t, router, http.MethodGet, "/", nil)
	if rec.Header().Get(requestIDHeader) == "" {
		t.Error("expected a generated request id")
	}

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set(requestIDHeader, "req-123")
	rec = httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	if got := rec.Header().Get(requestIDHeader); got != "req-123" {
		t.Errorf("request id = %q, want req-123", got)
	}
}

type failingSessions struct{}

func (failingSessions) WithSession(context.Context, func(tx *gorm.DB) error) error {
	return errors.New("connection refused")
}

func TestSessionFailureIsServerError(t *testing.T) {
	h := New(zerolog.Nop(), failingSessions{})
	router := gin.New()
	RegisterRoutes(router, h)

	rec := doRequest(t, router, http.MethodGet, "/todos/", nil)
	if rec.Code != http.StatusInternalServerError {
		t.Fatalf("status = %d, want 500", rec.Code)
	}
	if got := decode[detailResponse](t, rec).Detail; got != "Internal Server Error" {
		t.Errorf("detail = %q", got)
	}
}

func TestFailureLogsCarryRequestID(t *testing.T) {
	testCases := []struct {
		name    string
		method  string
		path    string
		body    string
		message string
	}{
		{name: "bad body", method: http.MethodPost, path: "/todos/", body: `{"content": "ab"}`, message: "failed to bind json"},
		{name: "bad id", method: http.MethodGet, path: "/todos/abc", message: "invalid todo id"},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			var buf bytes.Buffer
			h := New(zerolog.New(&buf), database.NewSharedSession(testutil.NewSQLiteDB(t)))
			router := gin.New()
			router.Use(h.HandleRequestLogger)
			RegisterRoutes(router, h)

			req := httptest.NewRequest(tc.method, tc.path, strings.NewReader(tc.body))
			req.Header.Set("Content-Type", "application/json")
			req.Header.Set(requestIDHeader, "req-42")
			router.ServeHTTP(httptest.NewRecorder(), req)

			found := false
			for _, line := range bytes.Split(bytes.TrimSpace(buf.Bytes()), []byte("\n")) {
				var entry map[string]any
				if err := json.Unmarshal(line, &entry); err != nil {
					t.Fatalf("failed to decode log line %q: %v", line, err)
				}
				if entry["message"] != tc.message {
					continue
				}
				found = true
				if entry["request_id"] != "req-42" {
					t.Errorf("log line %q has no request id", line)
				}
			}
			if !found {
				t.Fatalf("no %q log line in %q", tc.message, buf.String())
			}
		})
	}
}
