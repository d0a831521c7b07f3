// Package httpkit is what modules mount routes with. Handlers return
// (value, error); the kit binds bodies and writes the envelope
package httpkit

import (
	"net/http"

	pnet "replyguard/internal/platform/net"
	phttp "replyguard/internal/platform/net/http"
	"replyguard/internal/platform/net/http/bind"
	"replyguard/internal/platform/net/middleware"
)

type (
	Envelope = phttp.Envelope
	// Response lets a handler pick a status or headers; return it as the value
	Response = phttp.Response
	Router   = phttp.Router
)

func respond(out any, err error) Response {
	if err != nil {
		return phttp.Error(err)
	}
	if resp, ok := out.(Response); ok {
		return resp
	}
	return phttp.OK(out)
}

func plain(fn func(*http.Request) (any, error)) phttp.Handler {
	return phttp.Handle(func(r *http.Request) Response { return respond(fn(r)) })
}

// Get mounts fn under GET
func Get(r Router, path string, fn func(*http.Request) (any, error)) { r.Get(path, plain(fn)) }

// Post mounts a body-less fn under POST
func Post(r Router, path string, fn func(*http.Request) (any, error)) { r.Post(path, plain(fn)) }

// PostJSON mounts fn under POST with the body bound and validated into T.
// Bind failures answer 400 before fn runs
func PostJSON[T any](r Router, path string, fn func(*http.Request, T) (any, error)) {
	r.Post(path, phttp.Handle(func(req *http.Request) Response {
		in, err := bind.ParseJSON[T](req)
		if err != nil {
			return phttp.Error(err)
		}
		return respond(fn(req, in))
	}))
}

// View returns the thread view id the caller declared, if any
func View(r *http.Request) string {
	if v := pnet.ViewID(r.Context()); v != "" {
		return v
	}
	return r.Header.Get(middleware.ViewHeader)
}
