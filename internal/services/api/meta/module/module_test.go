package module

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog"

	modkit "replyguard/internal/modkit"
	phttp "replyguard/internal/platform/net/http"
	"replyguard/internal/platform/store"
)

func serve(t *testing.T, m modkit.Module, path string) (*httptest.ResponseRecorder, map[string]any) {
	t.Helper()
	mux := chi.NewRouter()
	m.MountRoutes(phttp.AdaptChi(mux))
	rr := httptest.NewRecorder()
	mux.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, path, nil))
	var env struct {
		Data map[string]any `json:"data"`
	}
	if err := json.Unmarshal(rr.Body.Bytes(), &env); err != nil {
		t.Fatalf("bad body %q: %v", rr.Body.String(), err)
	}
	return rr, env.Data
}

func TestModule(t *testing.T) {
	cases := []struct {
		name string
		kv   store.KV
		want string
	}{
		{"memory kv", store.NewMemory(zerolog.Nop()), "ok"},
		{"no kv", nil, "degraded"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			m := New(modkit.Deps{KV: tc.kv})
			if m.Name() != "meta" || m.Ports() != nil {
				t.Fatalf("name=%q ports=%v", m.Name(), m.Ports())
			}
			rr, data := serve(t, m, "/meta/ready")
			if rr.Code != http.StatusOK || data["status"] != tc.want {
				t.Fatalf("ready = %d %v", rr.Code, data)
			}
		})
	}
}

func TestModule_Middlewares(t *testing.T) {
	tag := func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.Header().Set("X-Meta", "1")
			next.ServeHTTP(w, r)
		})
	}
	m := New(modkit.Deps{}, modkit.WithPrefix("/status"), modkit.WithMiddlewares(tag))
	rr, data := serve(t, m, "/status/health")
	if rr.Header().Get("X-Meta") != "1" || data["ok"] != true {
		t.Fatalf("health = %v %v", rr.Header(), data)
	}
}
