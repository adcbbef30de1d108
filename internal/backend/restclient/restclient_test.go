package restclient

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"promptdeck/internal/backend"
	"promptdeck/internal/models"
)

func checkAuth(t *testing.T, r *http.Request) {
	t.Helper()
	if r.Header.Get("apikey") != "anon-key" {
		t.Errorf("missing or wrong apikey header: %q", r.Header.Get("apikey"))
	}
	if r.Header.Get("Authorization") != "Bearer anon-key" {
		t.Errorf("missing or wrong Authorization header: %q", r.Header.Get("Authorization"))
	}
}

func TestSelect_Success(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		checkAuth(t, r)
		if r.Method != http.MethodGet {
			t.Errorf("expected GET, got %s", r.Method)
		}
		if r.URL.Path != "/rest/v1/categories" {
			t.Errorf("unexpected path: %s", r.URL.Path)
		}
		if got := r.URL.Query().Get("select"); got != "*" {
			t.Errorf("expected select=*, got %q", got)
		}
		if got := r.URL.Query().Get("order"); got != "name.asc" {
			t.Errorf("expected order=name.asc, got %q", got)
		}

		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode([]map[string]any{
			{"id": 2, "name": "Art"},
			{"id": 1, "name": "Coding"},
		})
	}))
	defer server.Close()

	c := New(server.URL+"/rest/v1/", "anon-key", server.Client())
	var got []models.Category
	err := c.Select(context.Background(), backend.Query{
		Table: models.TableCategories,
		Order: []backend.Order{backend.Asc("name")},
	}, &got)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(got) != 2 {
		t.Fatalf("expected 2 categories, got %d", len(got))
	}
	if got[0].ID != 2 || got[0].Name != "Art" {
		t.Errorf("first category mismatch: %+v", got[0])
	}
}

func TestSelect_ProjectionAndFilters(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		q := r.URL.Query()
		if got := q.Get("select"); got != "id,title,prompt_text,category_id" {
			t.Errorf("unexpected select %q", got)
		}
		if got := q.Get("category_id"); got != "eq.7" {
			t.Errorf("expected category_id=eq.7, got %q", got)
		}
		if got := q.Get("order"); got != "id.desc" {
			t.Errorf("expected order=id.desc, got %q", got)
		}
		_, _ = io.WriteString(w, `[]`)
	}))
	defer server.Close()

	c := New(server.URL, "anon-key", server.Client())
	var got []models.Prompt
	err := c.Select(context.Background(), backend.Query{
		Table:   models.TablePrompts,
		Columns: models.PromptColumns(models.DescriptionOmitted),
		Filters: []backend.Filter{backend.Eq("category_id", int64(7))},
		Order:   []backend.Order{{Column: "id", Descending: true}},
	}, &got)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(got) != 0 {
		t.Errorf("expected no prompts, got %d", len(got))
	}
}

func TestSelect_Range(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		q := r.URL.Query()
		if got := q.Get("limit"); got != "5" {
			t.Errorf("expected limit=5, got %q", got)
		}
		if got := q.Get("offset"); got != "10" {
			t.Errorf("expected offset=10, got %q", got)
		}
		_, _ = io.WriteString(w, `[]`)
	}))
	defer server.Close()

	c := New(server.URL, "anon-key", server.Client())
	var got []models.Prompt
	err := c.Select(context.Background(), backend.Query{Table: models.TablePrompts, Limit: 5, Offset: 10}, &got)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestInsert_Success(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		checkAuth(t, r)
		if r.Method != http.MethodPost {
			t.Errorf("expected POST, got %s", r.Method)
		}
		if r.Header.Get("Prefer") != "return=representation" {
			t.Errorf("missing Prefer header")
		}
		if r.Header.Get("Accept") != mediaObject {
			t.Errorf("expected single-object Accept header, got %q", r.Header.Get("Accept"))
		}
		if r.Header.Get("Content-Type") != "application/json" {
			t.Errorf("expected JSON content type, got %q", r.Header.Get("Content-Type"))
		}

		var body map[string]any
		if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
			t.Fatalf("decoding body: %v", err)
		}
		if _, ok := body["id"]; ok {
			t.Error("insert payload must not carry an id")
		}
		if body["title"] != "Refactor" || body["category_id"] != float64(1) {
			t.Errorf("unexpected body: %v", body)
		}

		w.WriteHeader(http.StatusCreated)
		_ = json.NewEncoder(w).Encode(map[string]any{
			"id": 10, "title": "Refactor", "prompt_text": "Refactor this function", "category_id": 1,
			"created_at": "2024-05-01T10:00:00Z",
		})
	}))
	defer server.Close()

	c := New(server.URL, "anon-key", server.Client())
	var created models.Prompt
	err := c.Insert(context.Background(), models.TablePrompts, models.PromptDraft{
		Title:      "Refactor",
		PromptText: "Refactor this function",
		CategoryID: 1,
	}, &created)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if created.ID != 10 || created.CategoryID != 1 {
		t.Errorf("unexpected row: %+v", created)
	}
	if created.CreatedAt.IsZero() {
		t.Error("expected created_at to be decoded")
	}
}

func TestUpdate_NoRows(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPatch {
			t.Errorf("expected PATCH, got %s", r.Method)
		}
		if got := r.URL.Query().Get("id"); got != "eq.99" {
			t.Errorf("expected id=eq.99, got %q", got)
		}
		w.WriteHeader(http.StatusNotAcceptable)
		_ = json.NewEncoder(w).Encode(map[string]string{
			"code":    "PGRST116",
			"message": "JSON object requested, multiple (or no) rows returned",
			"details": "The result contains 0 rows",
		})
	}))
	defer server.Close()

	c := New(server.URL, "anon-key", server.Client())
	var updated models.Prompt
	err := c.Update(context.Background(), models.TablePrompts,
		map[string]any{"title": "New"}, []backend.Filter{backend.Eq("id", 99)}, &updated)

	var beErr *backend.Error
	if !errors.As(err, &beErr) {
		t.Fatalf("expected *backend.Error, got %T: %v", err, err)
	}
	if beErr.Code != backend.CodeNoRows || beErr.Status != http.StatusNotAcceptable {
		t.Errorf("unexpected error: %+v", beErr)
	}
	if beErr.Details != "The result contains 0 rows" {
		t.Errorf("details not preserved: %q", beErr.Details)
	}
}

func TestUpdate_Success(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var patch map[string]any
		_ = json.NewDecoder(r.Body).Decode(&patch)
		if len(patch) != 1 || patch["prompt_text"] != "Updated" {
			t.Errorf("unexpected patch: %v", patch)
		}
		_ = json.NewEncoder(w).Encode(map[string]any{
			"id": 3, "title": "T", "prompt_text": "Updated", "category_id": 1,
		})
	}))
	defer server.Close()

	c := New(server.URL, "anon-key", server.Client())
	var updated models.Prompt
	err := c.Update(context.Background(), models.TablePrompts,
		map[string]any{"prompt_text": "Updated"}, []backend.Filter{backend.Eq("id", 3)}, &updated)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if updated.PromptText != "Updated" {
		t.Errorf("expected updated text, got %q", updated.PromptText)
	}
}

func TestDelete_Success(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodDelete {
			t.Errorf("expected DELETE, got %s", r.Method)
		}
		if got := r.URL.Query().Get("id"); got != "eq.5" {
			t.Errorf("expected id=eq.5, got %q", got)
		}
		w.WriteHeader(http.StatusNoContent)
	}))
	defer server.Close()

	c := New(server.URL, "anon-key", server.Client())
	if err := c.Delete(context.Background(), models.TablePrompts, []backend.Filter{backend.Eq("id", 5)}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestUnauthorized(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
		_ = json.NewEncoder(w).Encode(map[string]string{"error": "unauthorized"})
	}))
	defer server.Close()

	c := New(server.URL, "bad-key", server.Client())
	var got []models.Category
	err := c.Select(context.Background(), backend.Query{Table: models.TableCategories}, &got)
	if err == nil {
		t.Fatal("expected error, got nil")
	}
	var beErr *backend.Error
	if !errors.As(err, &beErr) || beErr.Status != http.StatusUnauthorized {
		t.Fatalf("expected 401 backend error, got %v", err)
	}
	if want := "unexpected status 401"; beErr.Message != want {
		t.Errorf("expected message %q, got %q", want, beErr.Message)
	}
}

func TestPlainTextError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
		_, _ = io.WriteString(w, "upstream unavailable")
	}))
	defer server.Close()

	c := New(server.URL, "anon-key", server.Client())
	err := c.Delete(context.Background(), models.TablePrompts, []backend.Filter{backend.Eq("id", 1)})
	var beErr *backend.Error
	if !errors.As(err, &beErr) {
		t.Fatalf("expected *backend.Error, got %T", err)
	}
	if beErr.Details != "upstream unavailable" {
		t.Errorf("expected body in details, got %q", beErr.Details)
	}
}

func TestContextCancelled(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		_, _ = io.WriteString(w, `[]`)
	}))
	defer server.Close()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	c := New(server.URL, "anon-key", server.Client())
	var got []models.Category
	err := c.Select(ctx, backend.Query{Table: models.TableCategories}, &got)
	if !errors.Is(err, context.Canceled) {
		t.Errorf("expected context.Canceled, got %v", err)
	}
}

func TestMalformedResponse(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		_, _ = io.WriteString(w, `{not json`)
	}))
	defer server.Close()

	c := New(server.URL, "anon-key", server.Client())
	var got []models.Category
	if err := c.Select(context.Background(), backend.Query{Table: models.TableCategories}, &got); err == nil {
		t.Fatal("expected decode error")
	}
}
