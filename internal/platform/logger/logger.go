// Package logger owns the process zerolog root. Services take component
// children with Named; request handlers use C(ctx) to pick up the request and
// thread-view ids placed on the context by the HTTP middleware.
package logger

import (
	"context"
	"io"
	"os"
	"runtime"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"replyguard/internal/platform/config/raw"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/pkgerrors"
)

// Logger is zerolog's logger under the project name
type Logger = zerolog.Logger

// Options configures the root logger
type Options struct {
	Level       string // trace..panic; unknown values mean info
	Format      string // console or json
	Service     string
	Component   string
	Writer      io.Writer // stdout when nil
	WithCaller  bool
	SampleEvery int
}

// FromEnv reads LOG_* through raw config, which itself never logs
func FromEnv() Options {
	rc := raw.New().Prefix("LOG_")
	return Options{
		Level:       rc.Get("LEVEL", "info"),
		Format:      strings.ToLower(rc.Get("FORMAT", "console")),
		Service:     rc.Get("SERVICE", "replyguard"),
		Component:   rc.Get("COMPONENT", ""),
		WithCaller:  rc.GetBool("CALLER", false),
		SampleEvery: rc.GetInt("SAMPLE_EVERY", 0),
	}
}

var (
	initOnce sync.Once
	root     atomic.Pointer[Logger]
)

// Init builds the root logger. Only the first call has any effect
func Init(opt Options) {
	initOnce.Do(func() {
		l := build(opt)
		root.Store(&l)
	})
}

// Get returns the root logger, building it from the environment on first use
func Get() *Logger {
	if l := root.Load(); l != nil {
		return l
	}
	Init(FromEnv())
	return root.Load()
}

func build(opt Options) Logger {
	zerolog.ErrorStackMarshaler = pkgerrors.MarshalStack
	zerolog.TimeFieldFormat = time.RFC3339Nano

	w := opt.Writer
	if w == nil {
		w = os.Stdout
	}
	if opt.Format == "console" {
		w = zerolog.ConsoleWriter{Out: w, TimeFormat: time.RFC3339}
	}

	c := zerolog.New(w).Level(level(opt.Level)).With().Timestamp().Str("go_version", runtime.Version())
	if opt.Service != "" {
		c = c.Str("service", opt.Service)
	}
	if opt.Component != "" {
		c = c.Str("component", opt.Component)
	}
	if opt.WithCaller {
		c = c.Caller()
	}
	l := c.Logger()
	if opt.SampleEvery > 1 {
		l = l.Sample(&zerolog.BasicSampler{N: uint32(opt.SampleEvery)})
	}
	return l
}

func level(s string) zerolog.Level {
	s = strings.ToLower(strings.TrimSpace(s))
	if s == "warning" {
		s = "warn"
	}
	lvl, err := zerolog.ParseLevel(s)
	if err != nil || lvl == zerolog.NoLevel {
		return zerolog.InfoLevel
	}
	return lvl
}

type scope struct{ request, view string }

type scopeKey struct{}

// WithRequest records the request id and the thread view on ctx. Empty values
// leave what an outer middleware already recorded
func WithRequest(ctx context.Context, reqID, viewID string) context.Context {
	if reqID == "" && viewID == "" {
		return ctx
	}
	s, _ := ctx.Value(scopeKey{}).(scope)
	if reqID != "" {
		s.request = reqID
	}
	if viewID != "" {
		s.view = viewID
	}
	return context.WithValue(ctx, scopeKey{}, s)
}

// C returns the root logger with request_id and view_id from ctx
func C(ctx context.Context) *Logger {
	s, ok := ctx.Value(scopeKey{}).(scope)
	if !ok {
		return Get()
	}
	c := Get().With()
	if s.request != "" {
		c = c.Str("request_id", s.request)
	}
	if s.view != "" {
		c = c.Str("view_id", s.view)
	}
	l := c.Logger()
	return &l
}

// Named returns a child logger tagged with component
func Named(component string) *Logger {
	if component == "" {
		return Get()
	}
	l := Get().With().Str("component", component).Logger()
	return &l
}
