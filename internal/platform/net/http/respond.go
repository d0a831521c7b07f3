// Package http writes enveloped JSON replies and adapts chi to the platform router
package http

import (
	"encoding/json"
	stdhttp "net/http"

	pnet "replyguard/internal/platform/net"
)

// Envelope is the transport envelope shared with middleware
type Envelope = pnet.Envelope

// JSON writes v as application/json with the given status
func JSON(w stdhttp.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

// Response is what return-style handlers hand back
type Response struct {
	Status int
	Body   any
	Header stdhttp.Header
}

// Handle adapts a Response-returning handler to net/http
func Handle(h func(r *stdhttp.Request) Response) Handler {
	return func(w stdhttp.ResponseWriter, r *stdhttp.Request) {
		resp := h(r)
		for k, vv := range resp.Header {
			for _, v := range vv {
				w.Header().Add(k, v)
			}
		}
		if resp.Status == stdhttp.StatusNoContent {
			w.WriteHeader(stdhttp.StatusNoContent)
			return
		}
		err, _ := resp.Body.(error)
		var data any
		if err == nil {
			data = resp.Body
		}
		status, env := pnet.Reply(resp.Status, data, err, pnet.RequestID(r.Context()))
		JSON(w, status, env)
	}
}

// OK returns a 200 response
func OK(data any) Response { return Response{Status: stdhttp.StatusOK, Body: data} }

// Error returns a response whose status follows the error code
func Error(err error) Response { return Response{Body: err} }
