package classification

import (
	"regexp"
	"strings"
)

var (
	// Non-greedy bodies keep an unterminated opening fence from swallowing
	// the rest of the message and false-positiving.
	fencedBacktickRe = regexp.MustCompile("(?s)```([A-Za-z0-9+#_.-]*)[ \t]*\r?\n(.*?)```")
	fencedTildeRe    = regexp.MustCompile("(?s)~~~([A-Za-z0-9+#_.-]*)[ \t]*\r?\n(.*?)~~~")
	inlineBacktickRe = regexp.MustCompile("```([A-Za-z0-9+#_.-]*)[ \t]*(.*?)```")
	htmlCodeTagRe    = regexp.MustCompile(`(?i)<code([^>]*)>`)
	langClassRe      = regexp.MustCompile(`(?i)language-([A-Za-z0-9+#_.-]+)`)
)

// DetectCode scans for fenced code blocks (triple backtick and triple tilde,
// with an optional language tag) and HTML <code> blocks (extracting a
// language-xxx class when present).
func DetectCode(text string) CodeInfo {
	info := CodeInfo{Languages: make(map[string]struct{})}

	collect := func(matches [][]string) {
		for _, m := range matches {
			info.HasCodeBlock = true
			if tag := strings.ToLower(strings.TrimSpace(m[1])); tag != "" {
				info.Languages[tag] = struct{}{}
			}
		}
	}
	collect(fencedBacktickRe.FindAllStringSubmatch(text, -1))
	collect(fencedTildeRe.FindAllStringSubmatch(text, -1))
	if !info.HasCodeBlock {
		// Single-line form: ```json {"a":1}```
		collect(inlineBacktickRe.FindAllStringSubmatch(text, -1))
	}

	for _, m := range htmlCodeTagRe.FindAllStringSubmatch(text, -1) {
		info.HasCodeBlock = true
		if cls := langClassRe.FindStringSubmatch(m[1]); cls != nil {
			info.Languages[strings.ToLower(cls[1])] = struct{}{}
		}
	}
	return info
}
