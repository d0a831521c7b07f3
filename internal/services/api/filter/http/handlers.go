// Package http provides http transport for the filter session
package http

import (
	stdhttp "net/http"

	"replyguard/internal/core/policy"
	"replyguard/internal/modkit/httpkit"
	perr "replyguard/internal/platform/errors"
	"replyguard/internal/platform/logger"
	"replyguard/internal/services/api/filter/domain"
	fdom "replyguard/internal/services/filter/domain"
	vdom "replyguard/internal/services/visibility/domain"
)

// Deps are the handler dependencies
type Deps struct {
	Engine   fdom.EnginePort
	MaxBatch int
}

type handlers struct{ deps Deps }

// Register mounts the filter endpoints on the given router
func Register(r httpkit.Router, d Deps) {
	h := &handlers{deps: d}

	// ingestion
	httpkit.PostJSON[domain.ItemsInput](r, "/items", h.items)
	httpkit.PostJSON[domain.NavigateInput](r, "/navigate", h.navigate)
	httpkit.PostJSON[domain.RootAuthorInput](r, "/navigate/root-author", h.rootAuthor)

	// control messages
	httpkit.PostJSON[domain.EnabledInput](r, "/control/enabled", h.enabled)
	httpkit.PostJSON[domain.SensitivityInput](r, "/control/sensitivity", h.sensitivity)
	httpkit.Post(r, "/control/reset", h.reset)
	httpkit.Get(r, "/stats", h.stats)

	// thread view
	httpkit.Get(r, "/thread", h.thread)
	httpkit.Post(r, "/thread/toggle", h.toggle)
	httpkit.PostJSON[domain.ShowInput](r, "/thread/show", h.show)

	// diagnostics
	httpkit.PostJSON[domain.ClassifyInput](r, "/classify", h.classify)
}

// swagger:route POST /items Filter filterItems
// @Summary Ingest observed replies
// @Tags Filter
// @Accept json
// @Produce json
// @Param payload body domain.ItemsInput true "Batch"
// @Success 200 {object} domain.ItemsReply "ok"
// @Router /items [post]
func (h *handlers) items(r *stdhttp.Request, in domain.ItemsInput) (any, error) {
	if h.deps.MaxBatch > 0 && len(in.Items) > h.deps.MaxBatch {
		return nil, perr.Newf(perr.ErrorCodeValidation, "items must contain at most %d entries", h.deps.MaxBatch)
	}
	items := make([]vdom.Item, len(in.Items))
	for i, d := range in.Items {
		items[i] = d.Item()
	}
	n, err := h.deps.Engine.ItemsAppearedIn(r.Context(), httpkit.View(r), items)
	if err != nil {
		return nil, err
	}
	logger.C(r.Context()).Debug().Int("accepted", n).Msg("items ingested")
	return domain.ItemsReply{Accepted: n}, nil
}

// swagger:route POST /navigate Filter filterNavigate
// @Summary Start a new view
// @Tags Filter
// @Accept json
// @Produce json
// @Param payload body domain.NavigateInput true "Page"
// @Success 200 {object} domain.NavigateReply "ok"
// @Router /navigate [post]
func (h *handlers) navigate(r *stdhttp.Request, in domain.NavigateInput) (any, error) {
	id, err := h.deps.Engine.Navigate(r.Context(), vdom.Nav{
		ThreadKey:  in.ThreadKey,
		IsThread:   in.IsThread,
		RootAuthor: in.RootAuthor,
	})
	if err != nil {
		return nil, err
	}
	return domain.NavigateReply{ViewID: id}, nil
}

// swagger:route POST /navigate/root-author Filter filterRootAuthor
// @Summary Resolve the thread author after navigation
// @Tags Filter
// @Accept json
// @Produce json
// @Param payload body domain.RootAuthorInput true "Author"
// @Success 200 {object} domain.Ack "ok"
// @Router /navigate/root-author [post]
func (h *handlers) rootAuthor(r *stdhttp.Request, in domain.RootAuthorInput) (any, error) {
	return ack(h.deps.Engine.ResolveRootAuthor(r.Context(), in.Author))
}

// swagger:route POST /control/enabled Control controlEnabled
// @Summary Turn the filter on or off
// @Tags Control
// @Accept json
// @Produce json
// @Param payload body domain.EnabledInput true "Switch"
// @Success 200 {object} domain.Ack "ok"
// @Router /control/enabled [post]
func (h *handlers) enabled(r *stdhttp.Request, in domain.EnabledInput) (any, error) {
	return ack(h.deps.Engine.ToggleEnabled(r.Context(), *in.Enabled))
}

// swagger:route POST /control/sensitivity Control controlSensitivity
// @Summary Change the hide threshold
// @Tags Control
// @Accept json
// @Produce json
// @Param payload body domain.SensitivityInput true "Sensitivity"
// @Success 200 {object} domain.Ack "ok"
// @Router /control/sensitivity [post]
func (h *handlers) sensitivity(r *stdhttp.Request, in domain.SensitivityInput) (any, error) {
	s, _ := policy.Parse(in.Sensitivity)
	return ack(h.deps.Engine.SensitivityChanged(r.Context(), s))
}

// swagger:route POST /control/reset Control controlReset
// @Summary Zero today's hidden counter
// @Tags Control
// @Produce json
// @Success 200 {object} domain.Ack "ok"
// @Router /control/reset [post]
func (h *handlers) reset(r *stdhttp.Request) (any, error) {
	return ack(h.deps.Engine.ResetCounter(r.Context()))
}

// swagger:route GET /stats Control controlStats
// @Summary Daily and thread counters
// @Tags Control
// @Produce json
// @Success 200 {object} fdom.Stats "ok"
// @Router /stats [get]
func (h *handlers) stats(r *stdhttp.Request) (any, error) {
	return h.deps.Engine.GetStats(r.Context())
}

// swagger:route GET /thread Thread threadSnapshot
// @Summary Current view with per-reply state
// @Tags Thread
// @Produce json
// @Success 200 {object} fdom.Status "ok"
// @Router /thread [get]
func (h *handlers) thread(r *stdhttp.Request) (any, error) {
	return h.deps.Engine.Status(r.Context())
}

// swagger:route POST /thread/toggle Thread threadToggle
// @Summary Reveal hidden replies, or hide revealed ones
// @Tags Thread
// @Produce json
// @Success 200 {object} domain.Ack "ok"
// @Router /thread/toggle [post]
func (h *handlers) toggle(r *stdhttp.Request) (any, error) {
	return ack(h.deps.Engine.ToggleThread(r.Context()))
}

// swagger:route POST /thread/show Thread threadShow
// @Summary Set revealed mode
// @Tags Thread
// @Accept json
// @Produce json
// @Param payload body domain.ShowInput true "Mode"
// @Success 200 {object} domain.Ack "ok"
// @Router /thread/show [post]
func (h *handlers) show(r *stdhttp.Request, in domain.ShowInput) (any, error) {
	return ack(h.deps.Engine.ShowSpam(r.Context(), *in.Show))
}

// swagger:route POST /classify Diagnostics classify
// @Summary Score text without changing the session
// @Tags Diagnostics
// @Accept json
// @Produce json
// @Param payload body domain.ClassifyInput true "Text"
// @Success 200 {object} fdom.Verdict "ok"
// @Router /classify [post]
func (h *handlers) classify(r *stdhttp.Request, in domain.ClassifyInput) (any, error) {
	var s policy.Sensitivity
	if in.Sensitivity != "" {
		s, _ = policy.Parse(in.Sensitivity)
	}
	return h.deps.Engine.Classify(r.Context(), in.Text, s)
}

func ack(err error) (any, error) {
	if err != nil {
		return nil, err
	}
	return domain.Ack{OK: true}, nil
}
