package httpkit

import (
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	phttp "dialdesk/internal/platform/net/http"

	"github.com/go-chi/chi/v5"
)

// newRouter returns a chi-backed Router and its handler for httptest
func newRouter() (Router, http.Handler) {
	mux := chi.NewRouter()
	return phttp.AdaptChi(mux), mux
}

// do sends a request through h and returns status and body
func do(t *testing.T, h http.Handler, method, path string, body io.Reader, hdr map[string]string) (int, []byte) {
	t.Helper()
	req := httptest.NewRequest(method, path, body)
	for k, v := range hdr {
		req.Header.Set(k, v)
	}
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	b, _ := io.ReadAll(rec.Result().Body)
	return rec.Code, b
}
