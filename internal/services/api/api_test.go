package api

import (
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"dialdesk/internal/platform/config"
	"dialdesk/internal/platform/metrics"
	phttp "dialdesk/internal/platform/net/http"
	"dialdesk/internal/platform/store"
	kit "dialdesk/internal/platform/testkit"
	"dialdesk/internal/services/api/authn"

	"github.com/go-chi/chi/v5"
)

// idlePG satisfies the TxRunner seam, routes under test never reach it
type idlePG struct{ store.TxRunner }

const (
	user = "0b8e2c44-6a1f-4f3e-9b7a-2d5c8e1f3a90"
	team = "6f1c2b7e-0a3d-4c55-9d1e-2b8f7a6c5d40"
)

func mount(t *testing.T, opt Options) (http.Handler, *authn.Signer) {
	t.Helper()
	signer, err := authn.New("test-secret")
	if err != nil {
		t.Fatalf("signer: %v", err)
	}
	opt.Store = &store.Store{PG: idlePG{}}
	opt.Auth = signer.Port()
	mux := chi.NewRouter()
	mods := Mount(phttp.AdaptChi(mux), opt)
	if len(mods) != 2 {
		t.Fatalf("modules = %d", len(mods))
	}
	return mux, signer
}

func call(h http.Handler, method, path, token string) (int, string) {
	req := httptest.NewRequest(method, path, nil)
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	b, _ := io.ReadAll(rec.Result().Body)
	return rec.Code, string(b)
}

func TestMount_PublicAndProtectedRoutes(t *testing.T) {
	reg := metrics.New()
	h, signer := mount(t, Options{Config: config.New(), Metrics: reg, EnableMetrics: true, EnableSwagger: true})

	if code, body := call(h, http.MethodGet, "/api/v1/meta/health", ""); code != http.StatusOK {
		t.Fatalf("health = %d %s", code, body)
	}
	if code, _ := call(h, http.MethodGet, "/api/v1/bulk/contacts/template", ""); code != http.StatusUnauthorized {
		t.Fatalf("anonymous template = %d", code)
	}
	tok, err := signer.Sign(user, team, time.Hour)
	if err != nil {
		t.Fatalf("sign: %v", err)
	}
	code, body := call(h, http.MethodGet, "/api/v1/bulk/contacts/template", tok)
	if code != http.StatusOK {
		t.Fatalf("template = %d %s", code, body)
	}
	kit.MustContain(t, body, "phone,name,email")

	if code, _ := call(h, http.MethodGet, "/api/docs/doc.json", ""); code != http.StatusOK {
		t.Fatalf("swagger doc = %d", code)
	}

	code, body = call(h, http.MethodGet, "/metrics", "")
	if code != http.StatusOK {
		t.Fatalf("metrics = %d", code)
	}
	kit.MustContain(t, body, `dialdesk_http_requests_total{class="2xx",method="GET",route="/api/v1/meta/health"} 1`)
	kit.MustContain(t, body, `class="4xx"`)
}

func TestMount_OptionalSurfacesOff(t *testing.T) {
	h, _ := mount(t, Options{Config: config.New()})
	for _, p := range []string{"/metrics", "/api/docs/doc.json", "/debug/pprof/"} {
		if code, _ := call(h, http.MethodGet, p, ""); code != http.StatusNotFound {
			t.Fatalf("%s should be off, got %d", p, code)
		}
	}
}

func TestOptionsFromConfig(t *testing.T) {
	t.Setenv("CORE_API_CORS_ORIGINS", "https://a.example, https://b.example")
	t.Setenv("CORE_API_PROFILER", "true")
	t.Setenv("CORE_API_SLOW_REQUEST", "750ms")
	o := OptionsFromConfig(config.New())
	if len(o.CORSOrigins) != 2 || !o.EnableProfiler || !o.EnableSwagger || o.SlowRequest != 750*time.Millisecond {
		t.Fatalf("options = %+v", o)
	}
}
