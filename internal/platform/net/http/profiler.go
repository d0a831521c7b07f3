package http

import mw "github.com/go-chi/chi/v5/middleware"

// MountProfiler serves chi's pprof bundle under prefix, e.g. /debug/pprof/heap
func MountProfiler(r Router, prefix string, enabled bool) {
	if enabled {
		r.Mount(prefix, mw.Profiler())
	}
}
