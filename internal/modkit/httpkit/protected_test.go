package httpkit

import (
	"net/http"
	"testing"

	"replyguard/internal/modkit/swaggerkit"
)

func TestProtected_RequiresTokenAndMarksSwagger(t *testing.T) {
	m, r := newRouter()
	swaggerkit.Document(swaggerkit.Operation{Method: http.MethodPost, Path: "/guarded/thread/toggle", Tag: "Thread", Summary: "toggle"})

	Protected(r, NewPortFunc(SharedToken("s3cret", "extension")), func(pr Router) {
		pr.Route("/guarded", func(g Router) {
			g.Group(func(tr Router) {
				Post(tr, "/thread/toggle", func(*http.Request) (any, error) { return "ok", nil })
			})
		})
	})

	if code, _ := call(m, http.MethodPost, "/guarded/thread/toggle", ""); code != http.StatusUnauthorized {
		t.Fatalf("no token status = %d", code)
	}

	req, _ := http.NewRequest(http.MethodPost, "/guarded/thread/toggle", nil)
	req.Header.Set("Authorization", "Bearer s3cret")
	rec := newRecorder()
	m.ServeHTTP(rec, req)
	if rec.Code != http.StatusOK {
		t.Fatalf("with token status = %d", rec.Code)
	}

	doc := swaggerkit.Spec()
	op := doc["paths"].(map[string]any)["/guarded/thread/toggle"].(map[string]any)["post"].(map[string]any)
	if _, ok := op["security"]; !ok {
		t.Fatalf("operation not marked secure: %v", op)
	}
}

func TestJoinPath(t *testing.T) {
	cases := []struct{ a, b, want string }{
		{"", "/x", "/x"},
		{"", "x", "/x"},
		{"/a/", "/b", "/a/b"},
		{"/a/", "b", "/a/b"},
		{"/a", "/b", "/a/b"},
		{"/a", "b", "/a/b"},
	}
	for _, c := range cases {
		if got := joinPath(c.a, c.b); got != c.want {
			t.Fatalf("joinPath(%q, %q) = %q want %q", c.a, c.b, got, c.want)
		}
	}
}
