// Package net provides utilities for working with request contexts
package net

import (
	"context"

	chimw "github.com/go-chi/chi/v5/middleware"
)

// ctxKey is an unexported key type for context values
type ctxKey string

const (
	keyViewID   ctxKey = "view_id"
	keyClientID ctxKey = "client_id"
)

// WithRequest annotates context with the request id and the thread view it targets
func WithRequest(ctx context.Context, reqID, viewID string) context.Context {
	if reqID != "" {
		// set chi RequestID so chimw.GetReqID can retrieve it
		ctx = context.WithValue(ctx, chimw.RequestIDKey, reqID)
	}
	if viewID != "" {
		ctx = context.WithValue(ctx, keyViewID, viewID)
	}
	return ctx
}

// WithClient annotates context with the authenticated client id
func WithClient(ctx context.Context, clientID string) context.Context {
	if clientID != "" {
		ctx = context.WithValue(ctx, keyClientID, clientID)
	}
	return ctx
}

// RequestID returns the request id on the context if present
func RequestID(ctx context.Context) string {
	return chimw.GetReqID(ctx)
}

// ViewID returns the thread view id on the context if present
func ViewID(ctx context.Context) string {
	if v, ok := ctx.Value(keyViewID).(string); ok {
		return v
	}
	return ""
}

// ClientID returns the client id on the context if present
func ClientID(ctx context.Context) string {
	if v, ok := ctx.Value(keyClientID).(string); ok {
		return v
	}
	return ""
}
