package classification

import (
	"regexp"
	"sort"
)

// SearchSignals is the derived likelihood that the turn needs a live web
// search, with the phrases that argued for it.
type SearchSignals struct {
	Detected   bool
	Confidence float64
	Reason     string // "explicit", "implicit", or "mixed"
	Matches    []string
}

// Confidence caps: explicit requests top out higher than inferred ones.
const (
	maxExplicitConfidence = 0.9
	maxImplicitConfidence = 0.85
)

// Explicit search requests: the user literally asks for the web.
var explicitSearchRes = []*regexp.Regexp{
	regexp.MustCompile(`(?i)\bsearch (the )?(web|internet|net|online)\b`),
	regexp.MustCompile(`(?i)\blook (it|this|that|him|her|them) up( online)?\b`),
	regexp.MustCompile(`(?i)\bgoogle (this|that|it|for)\b`),
	regexp.MustCompile(`(?i)\b(find|check|verify) (this |that |it )?online\b`),
	regexp.MustCompile(`(?i)\b(do a|run a|perform a) web search\b`),
	regexp.MustCompile(`(?i)\bbrowse the (web|internet)\b`),
}

// Implicit search: a recency phrase plus a live-data topic phrase. Both sets
// must fire for the signal to count; a same-sentence hit counts for more.
var (
	recencyRe = regexp.MustCompile(`(?i)\b(latest|breaking|most recent|newest|today'?s?|right now|currently|as of (today|now)|this (week|month|year)|up[- ]to[- ]date)\b`)
	topicRe   = regexp.MustCompile(`(?i)\b(news|headlines|stock price|share price|market cap|exchange rate|weather|forecast|scores?|standings|results|election|release date|price of)\b`)

	sentenceSplitRe = regexp.MustCompile(`[.!?\n]+`)
)

// DetectSearchIntent scans text for explicit and implicit search intent.
// Confidence grows monotonically with match count, capped per kind; when
// both kinds fire the result is tagged "mixed".
func DetectSearchIntent(text string) SearchSignals {
	var matches []string

	explicit := 0
	for _, re := range explicitSearchRes {
		if m := re.FindString(text); m != "" {
			explicit++
			matches = append(matches, m)
		}
	}

	recency := recencyRe.FindAllString(text, -1)
	topics := topicRe.FindAllString(text, -1)
	implicit := len(recency) > 0 && len(topics) > 0
	if implicit {
		matches = append(matches, recency...)
		matches = append(matches, topics...)
	}

	sameSentence := false
	if implicit {
		for _, sentence := range sentenceSplitRe.Split(text, -1) {
			if recencyRe.MatchString(sentence) && topicRe.MatchString(sentence) {
				sameSentence = true
				break
			}
		}
	}

	var out SearchSignals
	var explicitConf, implicitConf float64
	if explicit > 0 {
		explicitConf = capConf(0.75+0.05*float64(explicit-1), maxExplicitConfidence)
	}
	if implicit {
		base := 0.6
		if sameSentence {
			base = 0.7
		}
		extra := float64(len(recency)+len(topics)-2) * 0.05
		implicitConf = capConf(base+extra, maxImplicitConfidence)
	}

	switch {
	case explicit > 0 && implicit:
		out.Detected = true
		out.Reason = "mixed"
		out.Confidence = capConf(maxFloat(explicitConf, implicitConf)+0.05, maxExplicitConfidence)
	case explicit > 0:
		out.Detected = true
		out.Reason = "explicit"
		out.Confidence = explicitConf
	case implicit:
		out.Detected = true
		out.Reason = "implicit"
		out.Confidence = implicitConf
	}
	out.Matches = dedupeStrings(matches)
	return out
}

func capConf(v, limit float64) float64 {
	if v > limit {
		return limit
	}
	return v
}

func maxFloat(a, b float64) float64 {
	if a > b {
		return a
	}
	return b
}

func dedupeStrings(in []string) []string {
	if len(in) == 0 {
		return nil
	}
	seen := make(map[string]struct{}, len(in))
	out := make([]string, 0, len(in))
	for _, s := range in {
		if _, ok := seen[s]; ok {
			continue
		}
		seen[s] = struct{}{}
		out = append(out, s)
	}
	sort.Strings(out)
	return out
}
