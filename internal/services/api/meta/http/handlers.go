// Package http serves liveness, readiness and build details for the companion
package http

import (
	stdctx "context"
	"net/http"
	"time"

	"replyguard/internal/core/classifier"
	"replyguard/internal/core/policy"
	"replyguard/internal/core/version"
	"replyguard/internal/modkit/httpkit"
	"replyguard/internal/platform/store"
)

// Probe is one readiness dependency. Targets that are not a store.Pinger
// report "unknown"; a nil target is "skipped"
type Probe struct {
	Name   string
	Target any
}

// Deps are the handler dependencies
type Deps struct {
	ServiceName string
	StartedAt   time.Time
	Probes      []Probe
	// ReadyTimeout bounds all probes together; 2s when zero
	ReadyTimeout time.Duration
	Now          func() time.Time
}

type handlers struct {
	d Deps
}

// Register mounts the meta routes on r
func Register(r httpkit.Router, d Deps) {
	if d.Now == nil {
		d.Now = time.Now
	}
	if d.ReadyTimeout <= 0 {
		d.ReadyTimeout = 2 * time.Second
	}
	h := handlers{d: d}
	httpkit.Get(r, "/health", h.health)
	httpkit.Get(r, "/ready", h.ready)
	httpkit.Get(r, "/version", func(*http.Request) (any, error) { return version.Info(), nil })
	httpkit.Get(r, "/service", h.service)
	httpkit.Get(r, "/classifier", h.classifier)
}

// HealthResponse is the liveness payload
type HealthResponse struct {
	OK      bool   `json:"ok"      example:"true"`
	Service string `json:"service" example:"replyguard-api"`
	Now     string `json:"now"     example:"2026-10-17T09:05:00Z"`
}

// ReadyCheck is the outcome of one probe
type ReadyCheck struct {
	Name    string `json:"name"    example:"kv"`
	Status  string `json:"status"  example:"ok"` // ok fail skipped unknown
	Error   string `json:"error,omitempty" example:"kv store closed"`
	Elapsed string `json:"elapsed" example:"120µs"`
}

// ReadyResponse rolls probes up: any fail is fail, anything not ok is degraded
type ReadyResponse struct {
	Status string            `json:"status" example:"ok"`
	Checks []ReadyCheck      `json:"checks"`
	Build  version.BuildInfo `json:"build"`
}

// ServiceResponse reports process start and uptime in seconds
type ServiceResponse struct {
	Name    string `json:"name"    example:"replyguard-api"`
	Started string `json:"started" example:"2026-10-17T09:00:00Z"`
	Uptime  int64  `json:"uptime"  example:"300"`
}

// ClassifierResponse describes the scoring table and the hide thresholds
type ClassifierResponse struct {
	Rules         []classifier.Weight  `json:"rules"`
	Sensitivities []policy.Sensitivity `json:"sensitivities"`
	Default       policy.Sensitivity   `json:"default" example:"medium"`
}

// @Summary Liveness
// @Tags Meta
// @Produce json
// @Success 200 {object} HealthResponse
// @Router /meta/health [get]
func (h handlers) health(*http.Request) (any, error) {
	return HealthResponse{OK: true, Service: h.d.ServiceName, Now: h.stamp(h.d.Now())}, nil
}

// @Summary Readiness with dependency probes
// @Tags Meta
// @Produce json
// @Success 200 {object} ReadyResponse
// @Router /meta/ready [get]
func (h handlers) ready(r *http.Request) (any, error) {
	ctx, cancel := stdctx.WithTimeout(r.Context(), h.d.ReadyTimeout)
	defer cancel()

	res := ReadyResponse{Status: "ok", Checks: make([]ReadyCheck, 0, len(h.d.Probes)), Build: version.Info()}
	if len(h.d.Probes) == 0 {
		res.Status = "degraded"
	}
	for _, p := range h.d.Probes {
		c := probe(ctx, p)
		switch {
		case c.Status == "fail":
			res.Status = "fail"
		case c.Status != "ok" && res.Status == "ok":
			res.Status = "degraded"
		}
		res.Checks = append(res.Checks, c)
	}
	return res, nil
}

func probe(ctx stdctx.Context, p Probe) ReadyCheck {
	c := ReadyCheck{Name: p.Name, Status: "unknown"}
	if p.Target == nil {
		c.Status = "skipped"
		return c
	}
	pg, ok := p.Target.(store.Pinger)
	if !ok {
		return c
	}
	start := time.Now()
	err := pg.Ping(ctx)
	c.Elapsed = time.Since(start).String()
	if err != nil {
		c.Status, c.Error = "fail", err.Error()
		return c
	}
	c.Status = "ok"
	return c
}

// @Summary Service uptime
// @Tags Meta
// @Produce json
// @Success 200 {object} ServiceResponse
// @Router /meta/service [get]
func (h handlers) service(*http.Request) (any, error) {
	return ServiceResponse{
		Name:    h.d.ServiceName,
		Started: h.stamp(h.d.StartedAt),
		Uptime:  int64(h.d.Now().Sub(h.d.StartedAt) / time.Second),
	}, nil
}

// @Summary Rule weights and sensitivity levels
// @Tags Meta
// @Produce json
// @Success 200 {object} ClassifierResponse
// @Router /meta/classifier [get]
func (h handlers) classifier(*http.Request) (any, error) {
	return ClassifierResponse{
		Rules:         classifier.Weights(),
		Sensitivities: policy.Values(),
		Default:       policy.Default,
	}, nil
}

func (handlers) stamp(t time.Time) string { return t.UTC().Format(time.RFC3339) }
