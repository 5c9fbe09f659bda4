package router

import (
	"context"
	"time"

	"github.com/notiuneoffiicial/LibreChat-sub002/pkg/classification"
	"github.com/notiuneoffiicial/LibreChat-sub002/pkg/config"
	"github.com/notiuneoffiicial/LibreChat-sub002/pkg/decision"
	"github.com/notiuneoffiicial/LibreChat-sub002/pkg/gauge"
	"github.com/notiuneoffiicial/LibreChat-sub002/pkg/observability/logging"
	"github.com/notiuneoffiicial/LibreChat-sub002/pkg/observability/metrics"
	"github.com/notiuneoffiicial/LibreChat-sub002/pkg/observability/tracing"
)

// PayloadParser is the external conversation-payload parser/validator,
// invoked both before and after request mutation.
type PayloadParser interface {
	Parse(req map[string]interface{}) (map[string]interface{}, error)
}

// NopParser accepts every payload unchanged.
type NopParser struct{}

func (NopParser) Parse(req map[string]interface{}) (map[string]interface{}, error) {
	return req, nil
}

// Decision is the outcome of one routing attempt. A nil Decision means no
// routing was applied and the caller proceeds with its original request.
type Decision struct {
	Spec          string
	Model         string
	Intent        string
	Intensity     float64
	Switched      bool
	AutoWebSearch bool
	TogglesUsed   []string
	Reasons       []string
	KeywordHits   []string
	SearchReason  string
	TokenBudget   int
}

// Router runs the full classification pipeline for one inbound chat request:
// extract signals, build a candidate, smooth it through the per-conversation
// gauge, resolve a spec, and mutate the request. Synchronous and CPU-bound;
// safe for concurrent use.
type Router struct {
	cfg     *config.Config
	gauge   *gauge.Gauge
	catalog SpecCatalog
	parser  PayloadParser
}

// New wires a Router. A nil store gets a fresh in-memory sharded store; a
// nil parser accepts everything.
func New(cfg *config.Config, store gauge.Store, catalog SpecCatalog, parser PayloadParser) *Router {
	if store == nil {
		store = gauge.NewStore()
	}
	if parser == nil {
		parser = NopParser{}
	}
	return &Router{
		cfg:     cfg,
		gauge:   gauge.New(store, cfg.Gauge),
		catalog: catalog,
		parser:  parser,
	}
}

// Gauge exposes the underlying gauge, mainly for tests and diagnostics.
func (r *Router) Gauge() *gauge.Gauge { return r.gauge }

// Route classifies one request and applies the resolved spec onto it.
// Returns (nil, nil) when the request is not eligible for routing; a non-nil error
// means routing was aborted and the request was left untouched.
func (r *Router) Route(ctx context.Context, req map[string]interface{}, userID string) (*Decision, error) {
	start := time.Now()
	defer func() {
		metrics.RecordRoutingLatency(time.Since(start).Seconds())
	}()

	_, span := tracing.StartRouteSpan(ctx)
	defer span.End()

	// Agent-backed conversations route themselves; an explicit spec only
	// suppresses routing when paired with the opt-out flag.
	if id := agentID(req); id != "" {
		logging.Debugf("auto-route skipped: agent %q owns the conversation", id)
		metrics.RecordRoutingSkipped("agent_id")
		return nil, nil
	}
	if explicitSpec(req) != "" && optedOut(req) {
		logging.Debugf("auto-route skipped: explicit spec %q with opt-out", explicitSpec(req))
		metrics.RecordRoutingSkipped("opt_out")
		return nil, nil
	}

	snapshot, err := r.parser.Parse(req)
	if err != nil {
		logging.Warnf("auto-route aborted: conversation payload rejected before routing: %v", err)
		metrics.RecordRoutingSkipped("parse_failure")
		return nil, err
	}

	text := requestText(req)
	tog := requestToggles(req)
	search := classification.DetectSearchIntent(text)
	cctx := classification.BuildContext(text, gatherAttachments(req))

	key := gaugeKey(req, userID)
	prior := r.gauge.Peek(key)
	cand := decision.Build(r.cfg, cctx, search, tog, decision.Prior{
		Intent:    prior.Intent,
		Intensity: prior.Intensity,
	})

	res := r.gauge.Apply(key, gauge.Observation{
		Intent:    cand.Intent,
		Intensity: cand.Intensity,
		Forced:    cand.ForcedSwitch,
	})

	spec, err := resolveSpec(res.State.Intent, r.cfg.Gauge.DefaultIntent, r.catalog)
	if err != nil {
		logging.Errorf("auto-route aborted for %s: %v", key, err)
		metrics.RecordRoutingSkipped("spec_unavailable")
		return nil, err
	}

	webSearchActive := tog.WebSearch || cand.AutoWebSearch

	// Outbound mutation: preset fields first (only non-null values
	// overwrite), then the resolved spec and the web-search enforcement.
	for k, v := range spec.Preset {
		if v == nil {
			continue
		}
		req[k] = v
	}
	req[fieldSpec] = spec.Name
	if webSearchActive {
		req[fieldWebSearch] = true
	}

	// Re-validate the mutated payload. A failure here is best-effort: the
	// preset fields stay applied.
	if sanitized, perr := r.parser.Parse(req); perr != nil {
		logging.Warnf("post-route payload parse failed for %s (preset fields kept): %v", key, perr)
		req[fieldSnapshotKey] = snapshot
	} else {
		req[fieldSnapshotKey] = sanitized
	}

	model, _ := spec.Preset["model"].(string)
	d := &Decision{
		Spec:          spec.Name,
		Model:         model,
		Intent:        res.State.Intent,
		Intensity:     res.State.Intensity,
		Switched:      res.Switched,
		AutoWebSearch: cand.AutoWebSearch,
		TogglesUsed:   cand.TogglesUsed,
		Reasons:       cand.Reasons,
		KeywordHits:   cand.KeywordHits,
		SearchReason:  cand.Search.Reason,
		TokenBudget:   tog.TokenBudget,
	}

	tracing.SetDecisionAttributes(span, d.Intent, d.Spec, d.Intensity, d.Switched)
	metrics.RecordRoutingDecision(d.Intent, d.Spec, d.Switched)

	// The audit line: why this turn was routed where it was.
	logging.LogEvent("route_decision", map[string]interface{}{
		"key":             key,
		"spec":            d.Spec,
		"model":           d.Model,
		"intent":          d.Intent,
		"intensity":       d.Intensity,
		"switched":        d.Switched,
		"prev_intent":     res.PrevIntent,
		"toggles":         d.TogglesUsed,
		"auto_web_search": d.AutoWebSearch,
		"token_budget":    d.TokenBudget,
		"keyword_hits":    d.KeywordHits,
		"search_reason":   d.SearchReason,
		"reasons":         d.Reasons,
	})
	return d, nil
}
