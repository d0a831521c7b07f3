package api

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog"

	"replyguard/internal/adapters/render"
	"replyguard/internal/platform/config"
	phttp "replyguard/internal/platform/net/http"
	"replyguard/internal/platform/store"
)

func call(t *testing.T, h http.Handler, method, path, body string) map[string]any {
	t.Helper()
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	rr := httptest.NewRecorder()
	h.ServeHTTP(rr, req)
	if rr.Code != http.StatusOK {
		t.Fatalf("%s %s: status %d body=%s", method, path, rr.Code, rr.Body.String())
	}
	var env struct {
		Data map[string]any `json:"data"`
	}
	if err := json.Unmarshal(rr.Body.Bytes(), &env); err != nil {
		t.Fatalf("%s %s: %v", method, path, err)
	}
	return env.Data
}

func TestMount_EndToEnd(t *testing.T) {
	t.Setenv("CORE_API_TOKEN", "")
	kv := store.NewMemory(zerolog.Nop())
	t.Cleanup(func() { _ = kv.Close() })

	rec := render.NewRecorder()
	mux := chi.NewRouter()
	eng := Mount(phttp.AdaptChi(mux), Options{
		Config:   config.New(),
		Store:    &store.Store{KV: kv},
		Renderer: rec,
	})
	if eng == nil {
		t.Fatalf("no session returned")
	}

	ctx, cancel := context.WithCancel(context.Background())
	eng.Load(ctx)
	done := make(chan error, 1)
	go func() { done <- eng.Run(ctx) }()
	defer func() { cancel(); <-done }()

	if got := call(t, mux, http.MethodGet, "/api/v1/meta/ready", ""); got["status"] != "ok" {
		t.Fatalf("ready = %v", got)
	}

	call(t, mux, http.MethodPost, "/api/v1/navigate", `{"thread_key":"/a/status/1","is_thread":true,"root_author":"a"}`)
	got := call(t, mux, http.MethodPost, "/api/v1/items",
		`{"items":[{"id":"1","author":"b","text":"#crypto #nft #web3 #moon"},{"id":"2","author":"a","text":"#x #y #z"}]}`)
	if got["accepted"] != float64(2) {
		t.Fatalf("items = %v", got)
	}

	stats := call(t, mux, http.MethodGet, "/api/v1/stats", "")
	if stats["hiddenToday"] != float64(1) || stats["hiddenInThread"] != float64(1) {
		t.Fatalf("stats = %v", stats)
	}
	if rec.Marker("1") != render.OpHidden {
		t.Fatalf("marker = %q", rec.Marker("1"))
	}
}
