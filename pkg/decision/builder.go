package decision

import (
	"sort"
	"time"

	"github.com/notiuneoffiicial/LibreChat-sub002/pkg/classification"
	"github.com/notiuneoffiicial/LibreChat-sub002/pkg/config"
	"github.com/notiuneoffiicial/LibreChat-sub002/pkg/observability/metrics"
)

// Intents the toggle ladder and heuristics can force. Keyword groups may
// argue for any configured intent; these are the ones with hardwired
// override semantics.
const (
	IntentStrategy      = "strategy"
	IntentResearch      = "research"
	IntentDeepReasoning = "deep_reasoning"
	IntentQuick         = "quick"
	IntentSupport       = "support"
)

// Tunable combination constants. The margins were carried over unchanged
// from the previous implementation for behavioral compatibility; none of
// them is load-bearing beyond tie-breaking feel.
const (
	// carryForwardFloor is the minimum intensity the prior gauge state
	// contributes as the default candidate.
	carryForwardFloor = 0.35
	// nearTieMargin lets the strongest keyword signal beat the carried
	// default when it comes within this distance of it.
	nearTieMargin = 0.05
	// supportWindow is how far below the current candidate the support
	// heuristic may sit and still take over.
	supportWindow = 0.08
	// detailMargin is how far above the current candidate the detail
	// heuristic must be to escalate.
	detailMargin = 0.05
	// carryOverFactor discounts a carried-over intent's prior intensity.
	carryOverFactor = 0.92
)

// Intensity floors applied by the toggle ladder.
const (
	strategyFloor      = 0.86
	researchFloor      = 0.74
	deepReasoningFloor = 0.82
)

// Toggles are the explicit per-request switches after boolean coercion,
// plus the resolved token budget.
type Toggles struct {
	Thinking    bool
	WebSearch   bool
	TokenBudget int
}

// Prior is the gauge state carried into candidate building.
type Prior struct {
	Intent    string
	Intensity float64
}

// KeywordSignal is one intent's aggregated keyword evidence.
type KeywordSignal struct {
	Intent    string
	Intensity float64
	Hits      []string
}

// Candidate is the single best-guess classification for one request, before
// gauge smoothing. Built fresh per request, never persisted.
type Candidate struct {
	Intent         string
	Intensity      float64
	KeywordHits    []string
	Reasons        []string
	TogglesUsed    []string
	ForcedSwitch   bool
	AutoWebSearch  bool
	Search         classification.SearchSignals
	KeywordSignals []KeywordSignal
}

// Build combines keyword evidence, toggles, and heuristics into one ranked
// candidate. Deterministic, no external calls.
func Build(cfg *config.Config, ctx *classification.Context, search classification.SearchSignals, tog Toggles, prior Prior) Candidate {
	start := time.Now()
	defer func() {
		metrics.RecordCandidateBuild(time.Since(start).Seconds())
	}()

	signals := keywordSignals(cfg, ctx)

	// Default carry-forward: the conversation keeps its prior mode unless
	// something below argues otherwise.
	c := Candidate{
		Intent:         prior.Intent,
		Intensity:      maxFloat(prior.Intensity, carryForwardFloor),
		Search:         search,
		KeywordSignals: signals,
	}

	keywordFired := false
	if len(signals) > 0 && signals[0].Intensity >= c.Intensity-nearTieMargin {
		// Keywords beat a stale default unless the default is clearly stronger.
		c.Intent = signals[0].Intent
		c.Intensity = signals[0].Intensity
		c.KeywordHits = append(c.KeywordHits, signals[0].Hits...)
		c.Reasons = append(c.Reasons, "keyword:"+signals[0].Intent)
		keywordFired = true
	}

	// Toggle overrides, strict priority order, each forcing the switch.
	webSearchActive := tog.WebSearch || search.Detected
	c.AutoWebSearch = search.Detected && !tog.WebSearch
	if search.Detected {
		c.Reasons = append(c.Reasons, "search:"+search.Reason)
	}

	switch {
	case webSearchActive && tog.Thinking:
		c.Intent = IntentStrategy
		c.Intensity = maxFloat(c.Intensity, maxFloat(strategyFloor, search.Confidence))
		c.ForcedSwitch = true
		c.TogglesUsed = append(c.TogglesUsed, "web_search", "thinking")

	case webSearchActive:
		floor := researchFloor
		if c.AutoWebSearch && search.Confidence > 0 {
			floor = maxFloat(researchFloor, search.Confidence)
		}
		c.Intent = IntentResearch
		c.Intensity = maxFloat(c.Intensity, floor)
		c.ForcedSwitch = true
		c.TogglesUsed = append(c.TogglesUsed, "web_search")

	case tog.Thinking:
		c.Intent = IntentDeepReasoning
		c.Intensity = maxFloat(c.Intensity, deepReasoningFloor)
		c.ForcedSwitch = true
		c.TogglesUsed = append(c.TogglesUsed, "thinking")
	}

	heuristicFired := false

	// Quick heuristic: a tight token budget or an explicit brevity phrase,
	// but never over an explicit thinking request.
	if !tog.Thinking {
		budgetQuick := tog.TokenBudget > 0 && cfg.Quick.TokenBudgetThreshold > 0 &&
			tog.TokenBudget <= cfg.Quick.TokenBudgetThreshold
		if budgetQuick || cfg.Quick.Matches(ctx.NormalizedText) {
			c.Intent = IntentQuick
			c.Intensity = maxFloat(c.Intensity, cfg.Quick.Intensity)
			c.ForcedSwitch = true
			c.Reasons = append(c.Reasons, "quick")
			heuristicFired = true
		}
	}

	// Support heuristic: weak, non-forced override on emotional language.
	if !tog.Thinking && c.Intent != IntentSupport &&
		cfg.Support.Matches(ctx.NormalizedText) &&
		cfg.Support.Intensity >= c.Intensity-supportWindow {
		c.Intent = IntentSupport
		c.Intensity = cfg.Support.Intensity
		c.Reasons = append(c.Reasons, "support")
		heuristicFired = true
	}

	// Detail heuristic: escalates to deep reasoning only on a clear win.
	if !tog.Thinking && c.Intent != IntentDeepReasoning &&
		cfg.Detail.Matches(ctx.NormalizedText) &&
		cfg.Detail.Intensity > c.Intensity+detailMargin {
		c.Intent = IntentDeepReasoning
		c.Intensity = cfg.Detail.Intensity
		c.Reasons = append(c.Reasons, "detail")
		heuristicFired = true
	}

	// Carry-over: nothing fired and the conversation already had a
	// non-default mode: keep it, slightly discounted, so topic-neutral
	// follow-ups don't snap back to the default.
	if !keywordFired && !heuristicFired && len(c.TogglesUsed) == 0 &&
		prior.Intent != cfg.Gauge.DefaultIntent {
		c.Intent = prior.Intent
		c.Intensity = prior.Intensity * carryOverFactor
		c.Reasons = append(c.Reasons, "carryover")
	}

	c.Intensity = clamp01(c.Intensity)
	c.KeywordHits = dedupe(c.KeywordHits)
	c.TogglesUsed = dedupe(c.TogglesUsed)
	c.Reasons = dedupe(c.Reasons)
	return c
}

// keywordSignals aggregates every configured group's matched pattern weights
// into per-intent intensities, sorted strongest first. Ties keep group
// configuration order.
func keywordSignals(cfg *config.Config, ctx *classification.Context) []KeywordSignal {
	var signals []KeywordSignal
	for i := range cfg.Groups {
		g := &cfg.Groups[i]
		boost := 0.0
		var hits []string
		for j := range g.Patterns {
			matched, contributions := classification.Evaluate(&g.Patterns[j], ctx)
			if matched {
				boost += g.Patterns[j].Weight
				hits = append(hits, contributions...)
			}
		}
		if len(hits) == 0 {
			continue
		}
		if boost > g.MaxBoost {
			boost = g.MaxBoost
		}
		intensity := g.BaseIntensity + boost
		if intensity > g.MaxIntensity {
			intensity = g.MaxIntensity
		}
		if intensity < g.BaseIntensity {
			intensity = g.BaseIntensity
		}
		signals = append(signals, KeywordSignal{Intent: g.Intent, Intensity: intensity, Hits: hits})
	}
	sort.SliceStable(signals, func(i, j int) bool {
		return signals[i].Intensity > signals[j].Intensity
	})
	return signals
}

func dedupe(in []string) []string {
	if len(in) == 0 {
		return nil
	}
	seen := make(map[string]struct{}, len(in))
	out := in[:0]
	for _, s := range in {
		if _, ok := seen[s]; ok {
			continue
		}
		seen[s] = struct{}{}
		out = append(out, s)
	}
	return out
}

func maxFloat(a, b float64) float64 {
	if a > b {
		return a
	}
	return b
}

func clamp01(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}
