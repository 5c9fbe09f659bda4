package config

import (
	"fmt"
	"regexp"
	"strings"
	"time"
)

// Normalize fills omitted fields of a candidate document from the bundled
// default: a keyword group with no patterns inherits the default group's
// patterns by intent name, heuristic blocks inherit their missing pieces, and
// unset gauge fields take the default tuning. Normalizing the default
// document itself is a no-op.
func Normalize(rc *RouterConfig) *RouterConfig {
	def := defaultDocument()

	out := *rc
	if out.DefaultPatternWeight == 0 {
		out.DefaultPatternWeight = def.DefaultPatternWeight
	}

	out.KeywordGroups = make([]KeywordGroup, len(rc.KeywordGroups))
	copy(out.KeywordGroups, rc.KeywordGroups)
	for i := range out.KeywordGroups {
		g := &out.KeywordGroups[i]
		if len(g.Patterns) == 0 {
			if dg := findGroup(def.KeywordGroups, g.Intent); dg != nil {
				g.Patterns = dg.Patterns
			}
		}
	}

	out.QuickIntent = normalizeHeuristic(rc.QuickIntent, def.QuickIntent)
	out.DetailIntent = normalizeHeuristic(rc.DetailIntent, def.DetailIntent)
	out.SupportIntent = normalizeHeuristic(rc.SupportIntent, def.SupportIntent)
	out.Gauge = normalizeGauge(rc.Gauge, def.Gauge)
	return &out
}

func normalizeHeuristic(h, def HeuristicConfig) HeuristicConfig {
	if len(h.Patterns) == 0 {
		h.Patterns = def.Patterns
	}
	if h.Intensity == 0 {
		h.Intensity = def.Intensity
	}
	if h.TokenBudgetThreshold == 0 {
		h.TokenBudgetThreshold = def.TokenBudgetThreshold
	}
	return h
}

func normalizeGauge(g, def GaugeConfig) GaugeConfig {
	if g.DefaultIntent == "" {
		g.DefaultIntent = def.DefaultIntent
	}
	if g.DefaultIntensity == 0 {
		g.DefaultIntensity = def.DefaultIntensity
	}
	if g.DecayRate == 0 {
		g.DecayRate = def.DecayRate
	}
	if g.DecayIntervalSeconds == 0 {
		g.DecayIntervalSeconds = def.DecayIntervalSeconds
	}
	if g.SwitchMargin == 0 {
		g.SwitchMargin = def.SwitchMargin
	}
	if g.SwitchThreshold == 0 {
		g.SwitchThreshold = def.SwitchThreshold
	}
	if g.CooldownSeconds == 0 {
		g.CooldownSeconds = def.CooldownSeconds
	}
	if g.Epsilon == 0 {
		g.Epsilon = def.Epsilon
	}
	return g
}

func findGroup(groups []KeywordGroup, intent string) *KeywordGroup {
	for i := range groups {
		if groups[i].Intent == intent {
			return &groups[i]
		}
	}
	return nil
}

// Compile normalizes, validates, and compiles a wire document into the
// immutable runtime Config. Any validation failure rejects the document
// wholesale; regex syntax errors surface here, at load time, never on the
// request path.
func Compile(rc *RouterConfig) (*Config, error) {
	doc := Normalize(rc)

	if err := checkRange("defaultPatternWeight", doc.DefaultPatternWeight, 0, 1); err != nil {
		return nil, err
	}

	cfg := &Config{Source: doc}

	seen := make(map[string]struct{}, len(doc.KeywordGroups))
	for i := range doc.KeywordGroups {
		g := &doc.KeywordGroups[i]
		if g.Intent == "" {
			return nil, fmt.Errorf("keywordGroups[%d]: intent cannot be empty", i)
		}
		if _, dup := seen[g.Intent]; dup {
			return nil, fmt.Errorf("keywordGroups[%d]: duplicate group for intent %q", i, g.Intent)
		}
		seen[g.Intent] = struct{}{}

		field := fmt.Sprintf("keywordGroups[%s]", g.Intent)
		if err := checkRange(field+".baseIntensity", g.BaseIntensity, 0, 1); err != nil {
			return nil, err
		}
		if err := checkRange(field+".maxBoost", g.MaxBoost, 0, 1); err != nil {
			return nil, err
		}
		if err := checkRange(field+".maxIntensity", g.MaxIntensity, g.BaseIntensity, 1); err != nil {
			return nil, err
		}
		if len(g.Patterns) == 0 {
			return nil, fmt.Errorf("%s: no patterns resolved (none configured and no default group to inherit from)", field)
		}

		cg := CompiledGroup{
			Intent:        g.Intent,
			BaseIntensity: g.BaseIntensity,
			MaxBoost:      g.MaxBoost,
			MaxIntensity:  g.MaxIntensity,
			Patterns:      make([]CompiledPattern, 0, len(g.Patterns)),
		}
		for j := range g.Patterns {
			cp, err := compilePattern(&g.Patterns[j], doc.DefaultPatternWeight, fmt.Sprintf("%s.patterns[%d]", field, j))
			if err != nil {
				return nil, err
			}
			cg.Patterns = append(cg.Patterns, cp)
		}
		cfg.Groups = append(cfg.Groups, cg)
	}

	var err error
	if cfg.Quick, err = compileHeuristic(doc.QuickIntent, "quickIntent"); err != nil {
		return nil, err
	}
	if cfg.Detail, err = compileHeuristic(doc.DetailIntent, "detailIntent"); err != nil {
		return nil, err
	}
	if cfg.Support, err = compileHeuristic(doc.SupportIntent, "supportIntent"); err != nil {
		return nil, err
	}
	if cfg.Gauge, err = compileGauge(doc.Gauge); err != nil {
		return nil, err
	}
	return cfg, nil
}

func compilePattern(p *Pattern, defaultWeight float64, field string) (CompiledPattern, error) {
	cp := CompiledPattern{
		Type:        PatternType(p.Type),
		Weight:      defaultWeight,
		Description: strings.TrimSpace(p.Description),
	}
	if p.Weight != nil {
		cp.Weight = *p.Weight
	}
	if err := checkRange(field+".weight", cp.Weight, 0, 1); err != nil {
		return CompiledPattern{}, err
	}
	if cp.Description == "" {
		return CompiledPattern{}, fmt.Errorf("%s: description cannot be empty (required for decision audit logs)", field)
	}

	switch cp.Type {
	case PatternRegex:
		if p.Regex == "" {
			return CompiledPattern{}, fmt.Errorf("%s: regex pattern requires a regex field", field)
		}
		re, err := regexp.Compile("(?i)" + p.Regex)
		if err != nil {
			return CompiledPattern{}, fmt.Errorf("%s: invalid regex %q: %w", field, p.Regex, err)
		}
		cp.Regex = re

	case PatternLanguage:
		mode, err := languageMode(p.Match)
		if err != nil {
			return CompiledPattern{}, fmt.Errorf("%s: %w", field, err)
		}
		cp.Mode = mode
		cp.Codes = toLowerSet(p.Codes)

	case PatternCodeblock:
		cp.Languages = toLowerSet(p.Languages)
		cp.RequireLanguage = p.RequireLanguage

	case PatternAttachment:
		values, ok := toStringSlice(p.Match)
		if !ok || len(values) == 0 {
			return CompiledPattern{}, fmt.Errorf("%s: attachment pattern requires a non-empty match list", field)
		}
		cp.Match = toLowerSet(values)
		// matchAny defaults to true; matchAny=false demands every listed value.
		cp.MatchAny = p.MatchAny == nil || *p.MatchAny

	default:
		return CompiledPattern{}, fmt.Errorf("%s: unknown pattern type %q", field, p.Type)
	}
	return cp, nil
}

func languageMode(v interface{}) (string, error) {
	if v == nil {
		return "", nil
	}
	mode, ok := v.(string)
	if !ok {
		return "", fmt.Errorf("language pattern match must be a string mode, got %T", v)
	}
	switch mode {
	case "", MatchNonEnglish, MatchMultiple, MatchExplicitMention, MatchAnyLanguage:
		return mode, nil
	default:
		return "", fmt.Errorf("unknown language match mode %q", mode)
	}
}

var validRegexFlags = regexp.MustCompile(`^[imsU]+$`)

func compileHeuristic(h HeuristicConfig, field string) (CompiledHeuristic, error) {
	if err := checkRange(field+".intensity", h.Intensity, 0, 1); err != nil {
		return CompiledHeuristic{}, err
	}
	if err := checkRange(field+".tokenBudgetThreshold", float64(h.TokenBudgetThreshold), 0, 1<<21); err != nil {
		return CompiledHeuristic{}, err
	}

	ch := CompiledHeuristic{
		Intensity:            h.Intensity,
		TokenBudgetThreshold: h.TokenBudgetThreshold,
		Patterns:             make([]*regexp.Regexp, 0, len(h.Patterns)),
	}
	for i, spec := range h.Patterns {
		flags := spec.Flags
		if flags == "" {
			flags = "i"
		}
		if !validRegexFlags.MatchString(flags) {
			return CompiledHeuristic{}, fmt.Errorf("%s.patterns[%d]: invalid regex flags %q", field, i, spec.Flags)
		}
		re, err := regexp.Compile("(?" + flags + ")" + spec.Pattern)
		if err != nil {
			return CompiledHeuristic{}, fmt.Errorf("%s.patterns[%d]: invalid regex %q: %w", field, i, spec.Pattern, err)
		}
		ch.Patterns = append(ch.Patterns, re)
	}
	return ch, nil
}

func compileGauge(g GaugeConfig) (GaugeSettings, error) {
	if g.DefaultIntent == "" {
		return GaugeSettings{}, fmt.Errorf("gauge.defaultIntent cannot be empty")
	}
	checks := []struct {
		field    string
		v        float64
		min, max float64
	}{
		{"gauge.defaultIntensity", g.DefaultIntensity, 0, 1},
		{"gauge.decayRate", g.DecayRate, 0, 1},
		{"gauge.decayIntervalSeconds", g.DecayIntervalSeconds, 1, 86400},
		{"gauge.switchMargin", g.SwitchMargin, 0, 1},
		{"gauge.switchThreshold", g.SwitchThreshold, 0, 1},
		{"gauge.cooldownSeconds", g.CooldownSeconds, 0, 86400},
		{"gauge.epsilon", g.Epsilon, 0, 0.5},
	}
	for _, c := range checks {
		if err := checkRange(c.field, c.v, c.min, c.max); err != nil {
			return GaugeSettings{}, err
		}
	}
	return GaugeSettings{
		DefaultIntent:    g.DefaultIntent,
		DefaultIntensity: g.DefaultIntensity,
		DecayRate:        g.DecayRate,
		DecayInterval:    time.Duration(g.DecayIntervalSeconds * float64(time.Second)),
		SwitchMargin:     g.SwitchMargin,
		SwitchThreshold:  g.SwitchThreshold,
		Cooldown:         time.Duration(g.CooldownSeconds * float64(time.Second)),
		Epsilon:          g.Epsilon,
	}, nil
}

func toLowerSet(values []string) map[string]struct{} {
	if len(values) == 0 {
		return nil
	}
	set := make(map[string]struct{}, len(values))
	for _, v := range values {
		v = strings.ToLower(strings.TrimSpace(v))
		if v != "" {
			set[v] = struct{}{}
		}
	}
	return set
}

func toStringSlice(v interface{}) ([]string, bool) {
	switch vv := v.(type) {
	case nil:
		return nil, false
	case []string:
		return vv, true
	case []interface{}:
		out := make([]string, 0, len(vv))
		for _, item := range vv {
			s, ok := item.(string)
			if !ok {
				return nil, false
			}
			out = append(out, s)
		}
		return out, true
	default:
		return nil, false
	}
}
