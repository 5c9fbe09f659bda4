package gauge

import (
	"time"

	"github.com/notiuneoffiicial/LibreChat-sub002/pkg/config"
	"github.com/notiuneoffiicial/LibreChat-sub002/pkg/observability/logging"
)

// Observation is one candidate reading fed into the gauge.
type Observation struct {
	Intent    string
	Intensity float64
	Forced    bool
}

// Result is the stable state after applying an observation.
type Result struct {
	State      State
	PrevIntent string
	Switched   bool
	Decayed    float64 // intensity lost to decay on this access
}

// nudgeFactor scales a non-forced, non-switching candidate's pull on the
// stored intensity. The conversation's mode stays sticky against weak signals.
const nudgeFactor = 0.75

// Gauge is the per-conversation decaying-confidence state machine. Intensity
// decays linearly over time; switches need force, a clear intensity win, or a
// strong candidate past the cooldown, which keeps the mode from oscillating.
type Gauge struct {
	store Store
	cfg   config.GaugeSettings

	// Now is the clock; replaceable in tests.
	Now func() time.Time
}

// New creates a gauge over the given store.
func New(store Store, cfg config.GaugeSettings) *Gauge {
	return &Gauge{store: store, cfg: cfg, Now: time.Now}
}

// Peek returns the current state for key without mutating it. Fresh keys get
// the configured default intent and intensity.
func (g *Gauge) Peek(key string) State {
	if st, ok := g.store.Peek(key); ok {
		return st
	}
	now := g.Now()
	return State{
		Intent:      g.cfg.DefaultIntent,
		Intensity:   g.cfg.DefaultIntensity,
		LastUpdated: now,
		LastSwitch:  now,
	}
}

// Apply decays the stored state and decides whether to switch to the
// observed intent. The whole read-modify-write runs under the store's
// per-key critical section.
func (g *Gauge) Apply(key string, obs Observation) Result {
	now := g.Now()
	var res Result

	res.State = g.store.Update(key, func(prev State, found bool) State {
		if !found {
			prev = State{
				Intent:      g.cfg.DefaultIntent,
				Intensity:   g.cfg.DefaultIntensity,
				LastUpdated: now,
				LastSwitch:  now,
			}
		}
		res.PrevIntent = prev.Intent

		st := g.decay(prev, now)
		res.Decayed = prev.Intensity - st.Intensity

		candidate := clamp01(obs.Intensity)
		switch {
		case obs.Forced,
			obs.Intent == st.Intent,
			candidate >= st.Intensity+g.cfg.SwitchMargin,
			candidate >= g.cfg.SwitchThreshold && now.Sub(st.LastSwitch) > g.cfg.Cooldown:

			if obs.Intent != st.Intent {
				st.LastSwitch = now
				res.Switched = true
			}
			st.Intent = obs.Intent
			st.Intensity = candidate

		default:
			// Not convincing enough to switch: let the candidate nudge the
			// stored intensity upward only partially.
			if nudged := candidate * nudgeFactor; nudged > st.Intensity {
				st.Intensity = nudged
			}
		}

		// Fully decayed confidence snaps back to the default intent.
		if st.Intensity <= g.cfg.Epsilon {
			if st.Intent != g.cfg.DefaultIntent {
				logging.Debugf("gauge %s: intensity %.3f below epsilon, resetting to %s", key, st.Intensity, g.cfg.DefaultIntent)
			}
			st.Intent = g.cfg.DefaultIntent
			st.Intensity = g.cfg.DefaultIntensity
		}

		st.Intensity = clamp01(st.Intensity)
		return st
	})
	return res
}

// decay applies linear decay for the time elapsed since the last update.
// LastUpdated is bumped to now even when no intensity was lost.
func (g *Gauge) decay(st State, now time.Time) State {
	elapsed := now.Sub(st.LastUpdated)
	if elapsed > 0 && g.cfg.DecayInterval > 0 {
		intervals := float64(elapsed) / float64(g.cfg.DecayInterval)
		st.Intensity = clamp01(st.Intensity - g.cfg.DecayRate*intervals)
	}
	st.LastUpdated = now
	return st
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
