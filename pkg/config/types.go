package config

import (
	"encoding/json"
	"regexp"
	"time"

	"gopkg.in/yaml.v3"
)

// RouterConfig is the wire-level pattern configuration document. It is what
// operators author (JSON by default, YAML accepted); the router itself only
// ever sees the compiled, immutable Config produced from it.
type RouterConfig struct {
	DefaultPatternWeight float64         `json:"defaultPatternWeight,omitempty" yaml:"defaultPatternWeight,omitempty"`
	KeywordGroups        []KeywordGroup  `json:"keywordGroups,omitempty" yaml:"keywordGroups,omitempty"`
	QuickIntent          HeuristicConfig `json:"quickIntent,omitempty" yaml:"quickIntent,omitempty"`
	DetailIntent         HeuristicConfig `json:"detailIntent,omitempty" yaml:"detailIntent,omitempty"`
	SupportIntent        HeuristicConfig `json:"supportIntent,omitempty" yaml:"supportIntent,omitempty"`
	Gauge                GaugeConfig     `json:"gauge,omitempty" yaml:"gauge,omitempty"`
}

// KeywordGroup bundles the weighted patterns that argue for one intent.
type KeywordGroup struct {
	Intent        string    `json:"intent" yaml:"intent"`
	BaseIntensity float64   `json:"baseIntensity" yaml:"baseIntensity"`
	MaxBoost      float64   `json:"maxBoost" yaml:"maxBoost"`
	MaxIntensity  float64   `json:"maxIntensity" yaml:"maxIntensity"`
	Patterns      []Pattern `json:"patterns,omitempty" yaml:"patterns,omitempty"`
}

// Pattern is one classification pattern. The Type field discriminates the
// variant (regex, language, codeblock, attachment); the remaining fields are
// variant-specific. Match is either the language match mode (a string) or the
// attachment descriptor list (an array) depending on the variant, so it stays
// untyped at the wire level and is resolved during compilation.
type Pattern struct {
	Type            string      `json:"type" yaml:"type"`
	Regex           string      `json:"regex,omitempty" yaml:"regex,omitempty"`
	Codes           []string    `json:"codes,omitempty" yaml:"codes,omitempty"`
	Match           interface{} `json:"match,omitempty" yaml:"match,omitempty"`
	Languages       []string    `json:"languages,omitempty" yaml:"languages,omitempty"`
	RequireLanguage bool        `json:"requireLanguage,omitempty" yaml:"requireLanguage,omitempty"`
	MatchAny        *bool       `json:"matchAny,omitempty" yaml:"matchAny,omitempty"`
	Weight          *float64    `json:"weight,omitempty" yaml:"weight,omitempty"`
	Description     string      `json:"description,omitempty" yaml:"description,omitempty"`
}

// HeuristicConfig configures one of the quick/detail/support heuristics.
type HeuristicConfig struct {
	Patterns             []PatternSpec `json:"patterns,omitempty" yaml:"patterns,omitempty"`
	Intensity            float64       `json:"intensity,omitempty" yaml:"intensity,omitempty"`
	TokenBudgetThreshold int           `json:"tokenBudgetThreshold,omitempty" yaml:"tokenBudgetThreshold,omitempty"`
}

// PatternSpec is a heuristic pattern entry: either a bare regex string or an
// object carrying explicit flags.
type PatternSpec struct {
	Pattern string `json:"pattern" yaml:"pattern"`
	Flags   string `json:"flags,omitempty" yaml:"flags,omitempty"`
}

// UnmarshalJSON accepts both the bare-string and the object form.
func (p *PatternSpec) UnmarshalJSON(data []byte) error {
	if len(data) > 0 && data[0] == '"' {
		return json.Unmarshal(data, &p.Pattern)
	}
	type plain PatternSpec
	var v plain
	if err := json.Unmarshal(data, &v); err != nil {
		return err
	}
	*p = PatternSpec(v)
	return nil
}

// UnmarshalYAML accepts both the bare-string and the object form.
func (p *PatternSpec) UnmarshalYAML(value *yaml.Node) error {
	if value.Kind == yaml.ScalarNode {
		return value.Decode(&p.Pattern)
	}
	type plain PatternSpec
	var v plain
	if err := value.Decode(&v); err != nil {
		return err
	}
	*p = PatternSpec(v)
	return nil
}

// GaugeConfig tunes the per-conversation intent gauge.
type GaugeConfig struct {
	DefaultIntent        string  `json:"defaultIntent,omitempty" yaml:"defaultIntent,omitempty"`
	DefaultIntensity     float64 `json:"defaultIntensity,omitempty" yaml:"defaultIntensity,omitempty"`
	DecayRate            float64 `json:"decayRate,omitempty" yaml:"decayRate,omitempty"`
	DecayIntervalSeconds float64 `json:"decayIntervalSeconds,omitempty" yaml:"decayIntervalSeconds,omitempty"`
	SwitchMargin         float64 `json:"switchMargin,omitempty" yaml:"switchMargin,omitempty"`
	SwitchThreshold      float64 `json:"switchThreshold,omitempty" yaml:"switchThreshold,omitempty"`
	CooldownSeconds      float64 `json:"cooldownSeconds,omitempty" yaml:"cooldownSeconds,omitempty"`
	Epsilon              float64 `json:"epsilon,omitempty" yaml:"epsilon,omitempty"`
}

// PatternType identifies a compiled pattern variant.
type PatternType string

const (
	PatternRegex      PatternType = "regex"
	PatternLanguage   PatternType = "language"
	PatternCodeblock  PatternType = "codeblock"
	PatternAttachment PatternType = "attachment"
)

// Language match modes.
const (
	MatchNonEnglish      = "nonEnglish"
	MatchMultiple        = "multiple"
	MatchExplicitMention = "explicitMention"
	MatchAnyLanguage     = "any"
)

// CompiledPattern is the immutable, request-path form of a Pattern. Regexes
// are compiled once at load time; set fields are materialized as maps so the
// evaluator never walks slices looking for membership.
type CompiledPattern struct {
	Type        PatternType
	Weight      float64
	Description string

	// regex variant
	Regex *regexp.Regexp

	// language variant
	Codes map[string]struct{}
	Mode  string

	// codeblock variant
	Languages       map[string]struct{}
	RequireLanguage bool

	// attachment variant
	Match    map[string]struct{}
	MatchAny bool
}

// CompiledGroup is the request-path form of a KeywordGroup.
type CompiledGroup struct {
	Intent        string
	BaseIntensity float64
	MaxBoost      float64
	MaxIntensity  float64
	Patterns      []CompiledPattern
}

// CompiledHeuristic is the request-path form of a HeuristicConfig.
type CompiledHeuristic struct {
	Patterns             []*regexp.Regexp
	Intensity            float64
	TokenBudgetThreshold int
}

// GaugeSettings is the request-path form of GaugeConfig with durations resolved.
type GaugeSettings struct {
	DefaultIntent    string
	DefaultIntensity float64
	DecayRate        float64
	DecayInterval    time.Duration
	SwitchMargin     float64
	SwitchThreshold  float64
	Cooldown         time.Duration
	Epsilon          float64
}

// Config is the fully validated, immutable runtime configuration. It must
// never be mutated after Compile returns it; the request path reads it
// without locking.
type Config struct {
	Groups  []CompiledGroup
	Quick   CompiledHeuristic
	Detail  CompiledHeuristic
	Support CompiledHeuristic
	Gauge   GaugeSettings

	// Source is the normalized wire document this Config was compiled from.
	Source *RouterConfig
}

// Matches runs a heuristic's patterns against text and reports whether any hit.
func (h CompiledHeuristic) Matches(text string) bool {
	for _, re := range h.Patterns {
		if re.MatchString(text) {
			return true
		}
	}
	return false
}
