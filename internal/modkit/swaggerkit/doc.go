package swaggerkit

import (
	"cmp"
	"encoding/json"
	"net/http"
	"slices"
	"strings"
	"sync"

	"replyguard/internal/core/version"
	"replyguard/internal/platform/config"
	perr "replyguard/internal/platform/errors"
)

// Operation documents one route under /api/v1
type Operation struct {
	Method  string
	Path    string
	Tag     string
	Summary string
	// Body and Reply are example payloads; nil omits them
	Body  any
	Reply any
}

type opKey struct{ method, path string }

func keyOf(method, path string) opKey { return opKey{strings.ToLower(method), path} }

// registry collects what modules document at construction time
type registry struct {
	mu     sync.RWMutex
	ops    map[opKey]Operation
	secure map[opKey]bool
}

var reg = &registry{ops: map[opKey]Operation{}, secure: map[opKey]bool{}}

// Document records ops; a repeated method and path replaces the earlier entry
func Document(ops ...Operation) {
	reg.mu.Lock()
	defer reg.mu.Unlock()
	for _, op := range ops {
		reg.ops[keyOf(op.Method, op.Path)] = op
	}
}

// MarkSecure flags method and path as requiring the bearer token.
// Undocumented routes stay out of the document
func MarkSecure(method, path string) {
	reg.mu.Lock()
	reg.secure[keyOf(method, path)] = true
	reg.mu.Unlock()
}

// Spec renders the OpenAPI 3.0 document for everything documented so far
func Spec() map[string]any {
	info := version.Info()
	title := info.Service + " API"
	if sfx := config.New().Prefix("CORE_API_").MayString("DOCS_TITLE_SUFFIX", ""); sfx != "" {
		title += " " + sfx
	}

	reg.mu.RLock()
	defer reg.mu.RUnlock()

	keys := make([]opKey, 0, len(reg.ops))
	for k := range reg.ops {
		keys = append(keys, k)
	}
	slices.SortFunc(keys, func(a, b opKey) int {
		return cmp.Or(cmp.Compare(a.path, b.path), cmp.Compare(a.method, b.method))
	})

	paths := map[string]any{}
	anySecure := false
	for _, k := range keys {
		node, ok := paths[k.path].(map[string]any)
		if !ok {
			node = map[string]any{}
			paths[k.path] = node
		}
		node[k.method] = operation(reg.ops[k], reg.secure[k])
		anySecure = anySecure || reg.secure[k]
	}

	components := map[string]any{"schemas": map[string]any{"ErrorResponse": errorSchema}}
	if anySecure {
		components["securitySchemes"] = map[string]any{
			"bearerAuth": map[string]any{"type": "http", "scheme": "bearer"},
		}
	}
	return map[string]any{
		"openapi": "3.0.3",
		"info": map[string]any{
			"title":       title,
			"version":     info.Version,
			"description": "Control surface for the reply spam filter",
		},
		"servers":    []any{map[string]any{"url": "/api/v1"}},
		"paths":      paths,
		"components": components,
	}
}

func operation(op Operation, secure bool) map[string]any {
	responses := map[string]any{
		"200": jsonContent("OK", op.Reply),
		"400": errorResponse(http.StatusBadRequest, perr.ErrorCodeValidation, "sensitivity must be one of low medium high"),
		"500": errorResponse(http.StatusInternalServerError, perr.ErrorCodePanic, "panic recovered"),
	}
	out := map[string]any{"summary": op.Summary, "responses": responses}
	if op.Tag != "" {
		out["tags"] = []any{op.Tag}
	}
	if op.Body != nil {
		out["requestBody"] = jsonContent("", op.Body)
	}
	if secure {
		responses["401"] = errorResponse(http.StatusUnauthorized, perr.ErrorCodeUnauthorized, "invalid bearer token")
		out["security"] = []any{map[string]any{"bearerAuth": []any{}}}
	}
	return out
}

func jsonContent(desc string, example any) map[string]any {
	media := map[string]any{}
	if example != nil {
		media["example"] = example
	}
	out := map[string]any{"content": map[string]any{"application/json": media}}
	if desc != "" {
		out["description"] = desc
	}
	return out
}

// errorSchema mirrors the failure form of the response envelope
var errorSchema = map[string]any{
	"type": "object",
	"properties": map[string]any{
		"status_code": map[string]any{"type": "integer"},
		"status":      map[string]any{"type": "string"},
		"code":        map[string]any{"type": "integer"},
		"error":       map[string]any{"type": "string"},
		"field":       map[string]any{"type": "string"},
		"request_id":  map[string]any{"type": "string"},
	},
	"required": []any{"status_code", "status", "code", "error"},
}

func errorResponse(status int, code perr.ErrorCode, msg string) map[string]any {
	text := http.StatusText(status)
	return map[string]any{
		"description": text,
		"content": map[string]any{
			"application/json": map[string]any{
				"schema": map[string]any{"$ref": "#/components/schemas/ErrorResponse"},
				"example": map[string]any{
					"status_code": status,
					"status":      text,
					"code":        code,
					"error":       msg,
					"request_id":  "host/abc-000001",
				},
			},
		},
	}
}

func serveDocJSON(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.Header().Set("Cache-Control", "no-store")
	_ = json.NewEncoder(w).Encode(Spec())
}
