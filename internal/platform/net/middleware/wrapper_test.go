package middleware_test

import (
	"compress/flate"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"replyguard/internal/platform/net/middleware"
)

func TestWrappers_ReturnHandlers(t *testing.T) {
	if middleware.RequestID == nil ||
		middleware.RealIP == nil ||
		middleware.Timeout(time.Second) == nil ||
		middleware.NoCache == nil ||
		middleware.RedirectSlashes == nil ||
		middleware.StripSlashes == nil ||
		middleware.Heartbeat("/health") == nil {
		t.Fatal("expected non nil handlers from wrappers")
	}
}

func TestCompress_LargeThreadSnapshot(t *testing.T) {
	h := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/plain")
		_, _ = io.WriteString(w, strings.Repeat(`{"state":"hidden"}`, 256))
	})

	req := httptest.NewRequest(http.MethodGet, "/thread", nil)
	req.Header.Set("Accept-Encoding", "gzip")
	rr := httptest.NewRecorder()
	middleware.Compress(flate.BestSpeed)(h).ServeHTTP(rr, req)

	if rr.Result().Header.Get("Content-Encoding") == "" {
		t.Fatalf("expected Content-Encoding to be set")
	}
}

func TestCORS_PreflightAllowsViewHeader(t *testing.T) {
	cors := middleware.CORS("chrome-extension://abc")
	h := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) { w.WriteHeader(200) })

	req := httptest.NewRequest(http.MethodOptions, "/items", nil)
	req.Header.Set("Origin", "chrome-extension://abc")
	req.Header.Set("Access-Control-Request-Method", "POST")
	req.Header.Set("Access-Control-Request-Headers", "X-View-ID")
	rr := httptest.NewRecorder()
	cors(h).ServeHTTP(rr, req)

	if rr.Code != 200 && rr.Code != 204 {
		t.Fatalf("expected 200 or 204 got %d", rr.Code)
	}
	if !strings.Contains(strings.ToLower(rr.Header().Get("Access-Control-Allow-Headers")), "x-view-id") {
		t.Fatalf("allow headers = %q", rr.Header().Get("Access-Control-Allow-Headers"))
	}
}

func TestAllowContentType(t *testing.T) {
	ok := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) { w.WriteHeader(200) })
	h := middleware.AllowContentType("application/json")(ok)

	cases := []struct {
		name string
		ct   string
		body string
		want int
	}{
		{"json", "application/json", `{}`, 200},
		{"form", "application/x-www-form-urlencoded", "a=b", http.StatusUnsupportedMediaType},
		{"no body", "", "", 200},
	}
	for _, tc := range cases {
		req := httptest.NewRequest(http.MethodPost, "/control/reset", strings.NewReader(tc.body))
		if tc.ct != "" {
			req.Header.Set("Content-Type", tc.ct)
		}
		rr := httptest.NewRecorder()
		h.ServeHTTP(rr, req)
		if rr.Code != tc.want {
			t.Fatalf("%s: status %d want %d", tc.name, rr.Code, tc.want)
		}
	}
}

func TestThrottle_RejectsOverLimit(t *testing.T) {
	release := make(chan struct{})
	entered := make(chan struct{})
	slow := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		close(entered)
		<-release
		w.WriteHeader(200)
	})
	h := middleware.Throttle(1)(slow)

	done := make(chan int)
	go func() {
		rr := httptest.NewRecorder()
		h.ServeHTTP(rr, httptest.NewRequest(http.MethodPost, "/items", nil))
		done <- rr.Code
	}()
	<-entered

	rr := httptest.NewRecorder()
	h.ServeHTTP(rr, httptest.NewRequest(http.MethodPost, "/items", nil))
	if rr.Code != http.StatusTooManyRequests {
		t.Fatalf("second request status %d", rr.Code)
	}
	close(release)
	if code := <-done; code != 200 {
		t.Fatalf("first request status %d", code)
	}
}
