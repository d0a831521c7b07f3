package http_test

import (
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	phttp "replyguard/internal/platform/net/http"

	"github.com/go-chi/chi/v5"
)

func TestAdaptChi_Routing(t *testing.T) {
	r := phttp.AdaptChi(chi.NewRouter())
	r.Use(func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, req *http.Request) {
			w.Header().Set("X-MW", "yes")
			next.ServeHTTP(w, req)
		})
	})
	write := func(s string) phttp.Handler {
		return func(w http.ResponseWriter, _ *http.Request) { _, _ = io.WriteString(w, s) }
	}

	r.Get("/stats", write("stats"))
	r.Group(func(g phttp.Router) {
		g.Post("/items", write("items"))
	})
	r.Route("/thread", func(sub phttp.Router) {
		sub.Get("/", write("thread"))
		sub.Post("/toggle", write("toggle"))
		sub.Route("/show", func(inner phttp.Router) {
			inner.Post("/", write("show"))
		})
	})
	r.Handle("/raw", http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) { _, _ = io.WriteString(w, "raw") }))

	cases := []struct {
		method, path string
		want         int
		body         string
	}{
		{http.MethodGet, "/stats", 200, "stats"},
		{http.MethodPost, "/items", 200, "items"},
		{http.MethodGet, "/thread/", 200, "thread"},
		{http.MethodPost, "/thread/toggle", 200, "toggle"},
		{http.MethodPost, "/thread/show/", 200, "show"},
		{http.MethodPut, "/raw", 200, "raw"},
		{http.MethodPost, "/stats", http.StatusMethodNotAllowed, ""},
	}
	for _, tc := range cases {
		rec := httptest.NewRecorder()
		r.Mux().ServeHTTP(rec, httptest.NewRequest(tc.method, tc.path, nil))
		if rec.Code != tc.want {
			t.Fatalf("%s %s: status %d want %d", tc.method, tc.path, rec.Code, tc.want)
		}
		if tc.body != "" && rec.Body.String() != tc.body {
			t.Fatalf("%s %s: body %q", tc.method, tc.path, rec.Body.String())
		}
		if rec.Header().Get("X-MW") != "yes" {
			t.Fatalf("%s %s: middleware skipped", tc.method, tc.path)
		}
	}
}
