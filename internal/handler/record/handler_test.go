package record

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"

	"github.com/zhouzirui/talk-agent/backend/internal/model/record"
	"github.com/zhouzirui/talk-agent/backend/internal/model/talk"
)

func setupRouter() (*chi.Mux, *record.MemoryStore[talk.Talk]) {
	store := record.NewMemoryStore(talk.Seed(), nil)
	r := chi.NewRouter()
	New[talk.Talk](store, "talks").RegisterRoutes(r)
	return r, store
}

func serve(r http.Handler, method, path string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, nil)
	resp := httptest.NewRecorder()
	r.ServeHTTP(resp, req)
	return resp
}

func TestListOnBothMounts(t *testing.T) {
	r, _ := setupRouter()

	for _, path := range []string{"/records", "/talks"} {
		resp := serve(r, http.MethodGet, path)
		if resp.Code != http.StatusOK {
			t.Fatalf("%s: expected 200, got %d", path, resp.Code)
		}
		var talks []talk.Talk
		if err := json.Unmarshal(resp.Body.Bytes(), &talks); err != nil {
			t.Fatalf("%s: decode err: %v", path, err)
		}
		if len(talks) != 1 || talks[0].ID != "1" {
			t.Fatalf("%s: unexpected talks %+v", path, talks)
		}
	}
}

func TestGetRecord(t *testing.T) {
	r, _ := setupRouter()

	resp := serve(r, http.MethodGet, "/talks/1")
	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", resp.Code)
	}
	var got talk.Talk
	if err := json.Unmarshal(resp.Body.Bytes(), &got); err != nil {
		t.Fatalf("decode err: %v", err)
	}
	if got.Title != "AI Ethics and Responsibility" {
		t.Fatalf("unexpected talk %+v", got)
	}

	if resp := serve(r, http.MethodGet, "/records/missing"); resp.Code != http.StatusNotFound {
		t.Fatalf("expected 404, got %d", resp.Code)
	}
}

func TestDeleteAlwaysNoContent(t *testing.T) {
	r, store := setupRouter()

	if resp := serve(r, http.MethodDelete, "/records/1"); resp.Code != http.StatusNoContent {
		t.Fatalf("expected 204, got %d", resp.Code)
	}
	if _, ok := store.Get("1"); ok {
		t.Fatal("expected talk 1 removed")
	}
	if resp := serve(r, http.MethodDelete, "/talks/1"); resp.Code != http.StatusNoContent {
		t.Fatalf("expected 204 for missing record, got %d", resp.Code)
	}

	resp := serve(r, http.MethodGet, "/talks")
	if body := resp.Body.String(); body != "[]\n" {
		t.Fatalf("expected empty array, got %q", body)
	}
}
