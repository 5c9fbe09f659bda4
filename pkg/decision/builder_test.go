package decision

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/notiuneoffiicial/LibreChat-sub002/pkg/classification"
	"github.com/notiuneoffiicial/LibreChat-sub002/pkg/config"
)

func buildWith(t *testing.T, text string, search classification.SearchSignals, tog Toggles, prior Prior) Candidate {
	t.Helper()
	cfg := config.Default()
	ctx := classification.BuildContext(text, nil)
	return Build(cfg, ctx, search, tog, prior)
}

func defaultPrior() Prior {
	g := config.Default().Gauge
	return Prior{Intent: g.DefaultIntent, Intensity: g.DefaultIntensity}
}

func TestBuildCarriesDefaultWhenNothingFires(t *testing.T) {
	c := buildWith(t, "hello there, how is your day going", classification.SearchSignals{}, Toggles{}, defaultPrior())

	assert.Equal(t, "chat", c.Intent)
	assert.InDelta(t, 0.4, c.Intensity, 1e-9)
	assert.Empty(t, c.Reasons)
	assert.False(t, c.ForcedSwitch)
	assert.False(t, c.AutoWebSearch)
}

func TestBuildKeywordSignalWins(t *testing.T) {
	c := buildWith(t, "can you debug this python function", classification.SearchSignals{}, Toggles{}, defaultPrior())

	assert.Equal(t, "coding", c.Intent)
	assert.InDelta(t, 0.75, c.Intensity, 1e-9)
	assert.Contains(t, c.Reasons, "keyword:coding")
	assert.Contains(t, c.KeywordHits, "programming vocabulary")
	assert.False(t, c.ForcedSwitch)
}

func TestBuildNearTieAdoption(t *testing.T) {
	// A 0.75 coding signal against a 0.78 prior sits inside the near-tie
	// margin, so the fresh evidence wins.
	c := buildWith(t, "debug this python issue", classification.SearchSignals{}, Toggles{},
		Prior{Intent: "writing", Intensity: 0.78})
	assert.Equal(t, "coding", c.Intent)
	assert.InDelta(t, 0.75, c.Intensity, 1e-9)

	// Against a 0.9 prior the same signal loses and the conversation keeps
	// its mode, discounted.
	c = buildWith(t, "debug this python issue", classification.SearchSignals{}, Toggles{},
		Prior{Intent: "writing", Intensity: 0.9})
	assert.Equal(t, "writing", c.Intent)
	assert.InDelta(t, 0.9*carryOverFactor, c.Intensity, 1e-9)
	assert.Contains(t, c.Reasons, "carryover")
}

func TestBuildToggleLadder(t *testing.T) {
	tests := []struct {
		name          string
		search        classification.SearchSignals
		tog           Toggles
		wantIntent    string
		wantIntensity float64
		wantToggles   []string
		wantAuto      bool
	}{
		{
			name:          "thinking alone forces deep reasoning",
			tog:           Toggles{Thinking: true},
			wantIntent:    IntentDeepReasoning,
			wantIntensity: deepReasoningFloor,
			wantToggles:   []string{"thinking"},
		},
		{
			name:          "web search toggle forces research",
			tog:           Toggles{WebSearch: true},
			wantIntent:    IntentResearch,
			wantIntensity: researchFloor,
			wantToggles:   []string{"web_search"},
		},
		{
			name:          "web search plus thinking forces strategy",
			tog:           Toggles{WebSearch: true, Thinking: true},
			wantIntent:    IntentStrategy,
			wantIntensity: strategyFloor,
			wantToggles:   []string{"web_search", "thinking"},
		},
		{
			name:          "implicit search forces research at its confidence",
			search:        classification.SearchSignals{Detected: true, Confidence: 0.8, Reason: "mixed"},
			wantIntent:    IntentResearch,
			wantIntensity: 0.8,
			wantToggles:   []string{"web_search"},
			wantAuto:      true,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := buildWith(t, "hello there", tt.search, tt.tog, defaultPrior())

			require.Equal(t, tt.wantIntent, c.Intent)
			assert.InDelta(t, tt.wantIntensity, c.Intensity, 1e-9)
			assert.Equal(t, tt.wantToggles, c.TogglesUsed)
			assert.Equal(t, tt.wantAuto, c.AutoWebSearch)
			assert.True(t, c.ForcedSwitch)
		})
	}
}

func TestBuildQuickHeuristic(t *testing.T) {
	t.Run("tight token budget", func(t *testing.T) {
		c := buildWith(t, "summarize this for me", classification.SearchSignals{},
			Toggles{TokenBudget: 512}, defaultPrior())
		assert.Equal(t, IntentQuick, c.Intent)
		assert.InDelta(t, 0.68, c.Intensity, 1e-9)
		assert.Contains(t, c.Reasons, "quick")
		assert.True(t, c.ForcedSwitch)
	})

	t.Run("brevity phrase", func(t *testing.T) {
		c := buildWith(t, "real quick, what is the capital of France",
			classification.SearchSignals{}, Toggles{}, defaultPrior())
		assert.Equal(t, IntentQuick, c.Intent)
		assert.Contains(t, c.Reasons, "quick")
	})

	t.Run("thinking toggle suppresses quick", func(t *testing.T) {
		c := buildWith(t, "summarize this for me", classification.SearchSignals{},
			Toggles{Thinking: true, TokenBudget: 512}, defaultPrior())
		assert.Equal(t, IntentDeepReasoning, c.Intent)
		assert.NotContains(t, c.Reasons, "quick")
	})
}

func TestBuildSupportHeuristic(t *testing.T) {
	// Coding evidence lands at 0.7, within the support window of the 0.66
	// support heuristic, so the emotional framing takes over.
	c := buildWith(t, "i am struggling with an error in this function",
		classification.SearchSignals{}, Toggles{}, defaultPrior())
	assert.Equal(t, IntentSupport, c.Intent)
	assert.InDelta(t, 0.66, c.Intensity, 1e-9)
	assert.Contains(t, c.Reasons, "support")

	// Strong coding evidence (0.85) is outside the window; coding holds.
	c = buildWith(t, "struggling to debug this python code:\n```go\nx := 1\n```",
		classification.SearchSignals{}, Toggles{}, defaultPrior())
	assert.Equal(t, "coding", c.Intent)
	assert.NotContains(t, c.Reasons, "support")
}

func TestBuildDetailHeuristic(t *testing.T) {
	// Writing evidence at 0.7 loses to the 0.8 detail heuristic by more
	// than the escalation margin.
	c := buildWith(t, "write a thorough, comprehensive review of my essay",
		classification.SearchSignals{}, Toggles{}, defaultPrior())
	assert.Equal(t, IntentDeepReasoning, c.Intent)
	assert.InDelta(t, 0.8, c.Intensity, 1e-9)
	assert.Contains(t, c.Reasons, "detail")

	// A 0.78 prior leaves the 0.8 heuristic inside the margin: no
	// escalation, and the carried mode survives discounted.
	c = buildWith(t, "please be thorough", classification.SearchSignals{}, Toggles{},
		Prior{Intent: "coding", Intensity: 0.78})
	assert.Equal(t, "coding", c.Intent)
	assert.InDelta(t, 0.78*carryOverFactor, c.Intensity, 1e-9)
	assert.Contains(t, c.Reasons, "carryover")
}

func TestBuildCarryOverSkipsDefaultIntent(t *testing.T) {
	// A default-intent prior never carries over: the candidate simply stays
	// at the carry-forward floor with no carryover reason.
	c := buildWith(t, "okay", classification.SearchSignals{}, Toggles{}, defaultPrior())
	assert.Equal(t, "chat", c.Intent)
	assert.NotContains(t, c.Reasons, "carryover")
}

func TestKeywordSignalsCapsAndOrder(t *testing.T) {
	cfg := config.Default()
	// Three coding patterns fire (vocabulary, generic block, tagged block):
	// raw boost 0.3+0.35+0.15 = 0.8, capped at maxBoost 0.4.
	ctx := classification.BuildContext("debug this python snippet:\n```python\nprint(1)\n```", nil)

	signals := keywordSignals(cfg, ctx)
	require.NotEmpty(t, signals)
	assert.Equal(t, "coding", signals[0].Intent)
	assert.InDelta(t, 0.85, signals[0].Intensity, 1e-9)
	for i := 1; i < len(signals); i++ {
		assert.LessOrEqual(t, signals[i].Intensity, signals[i-1].Intensity)
	}
}

func TestDedupe(t *testing.T) {
	assert.Nil(t, dedupe(nil))
	assert.Equal(t, []string{"a", "b"}, dedupe([]string{"a", "b", "a", "b"}))
}
