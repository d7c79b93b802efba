package swaggerkit

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	phttp "dialdesk/internal/platform/net/http"

	"github.com/go-chi/chi/v5"
)

func TestDocument_EmbeddedDocIsValidAndDecorated(t *testing.T) {
	t.Parallel()

	out, err := Document(openapiDoc)
	if err != nil {
		t.Fatalf("embedded openapi doc does not parse: %v", err)
	}
	var doc map[string]any
	if err := json.Unmarshal(out, &doc); err != nil {
		t.Fatal(err)
	}
	paths, _ := doc["paths"].(map[string]any)
	for _, p := range []string{"/bulk/contacts/import", "/bulk/orders", "/bulk/{entity}/delete", "/bulk/{entity}/template"} {
		if _, ok := paths[p]; !ok {
			t.Fatalf("path %s missing from doc", p)
		}
	}
	imp := paths["/bulk/contacts/import"].(map[string]any)["post"].(map[string]any)
	responses := imp["responses"].(map[string]any)
	if _, ok := responses["500"]; !ok {
		t.Fatalf("default 500 not injected")
	}
	schemas := doc["components"].(map[string]any)["schemas"].(map[string]any)
	if _, ok := schemas["ErrorResponse"]; !ok {
		t.Fatalf("ErrorResponse schema missing")
	}
}

func TestDocument_AddsServersAndRejectsGarbage(t *testing.T) {
	t.Parallel()

	out, err := Document([]byte(`{"openapi":"3.0.3","paths":{"/x":{"get":{}}}}`))
	if err != nil {
		t.Fatal(err)
	}
	var doc map[string]any
	_ = json.Unmarshal(out, &doc)
	if _, ok := doc["servers"]; !ok {
		t.Fatalf("servers not added")
	}
	if _, err := Document([]byte("{")); err == nil {
		t.Fatalf("expected parse error")
	}
}

func TestMount(t *testing.T) {
	t.Parallel()

	mux := chi.NewRouter()
	Mount(phttp.AdaptChi(mux), true)

	rec := httptest.NewRecorder()
	mux.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/docs/doc.json", nil))
	if rec.Code != http.StatusOK || rec.Header().Get("Content-Type") != "application/json; charset=utf-8" {
		t.Fatalf("doc.json = %d %q", rec.Code, rec.Header().Get("Content-Type"))
	}

	rec = httptest.NewRecorder()
	mux.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/docs", nil))
	if rec.Code != http.StatusPermanentRedirect {
		t.Fatalf("redirect = %d", rec.Code)
	}

	off := chi.NewRouter()
	Mount(phttp.AdaptChi(off), false)
	rec = httptest.NewRecorder()
	off.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/docs/doc.json", nil))
	if rec.Code != http.StatusNotFound {
		t.Fatalf("disabled mount served %d", rec.Code)
	}
}
