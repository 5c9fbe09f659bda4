package classification

import (
	"fmt"
	"sort"
	"strings"

	"github.com/notiuneoffiicial/LibreChat-sub002/pkg/config"
)

// Evaluate interprets one compiled pattern against the extraction context and
// returns whether it matched plus the human-readable contribution labels that
// end up in the routing audit log.
func Evaluate(p *config.CompiledPattern, ctx *Context) (bool, []string) {
	switch p.Type {
	case config.PatternRegex:
		return evalRegex(p, ctx)
	case config.PatternLanguage:
		return evalLanguage(p, ctx)
	case config.PatternCodeblock:
		return evalCodeblock(p, ctx)
	case config.PatternAttachment:
		return evalAttachment(p, ctx)
	default:
		return false, nil
	}
}

func evalRegex(p *config.CompiledPattern, ctx *Context) (bool, []string) {
	if !p.Regex.MatchString(ctx.NormalizedText) {
		return false, nil
	}
	return true, []string{p.Description}
}

func evalLanguage(p *config.CompiledPattern, ctx *Context) (bool, []string) {
	var codes []string

	switch p.Mode {
	case config.MatchNonEnglish:
		for code := range ctx.Languages {
			if code != "en" {
				codes = append(codes, code)
			}
		}

	case config.MatchMultiple:
		distinct := make(map[string]struct{}, len(ctx.Languages)+len(ctx.LanguageMentions))
		for code := range ctx.Languages {
			distinct[code] = struct{}{}
		}
		for code := range ctx.LanguageMentions {
			distinct[code] = struct{}{}
		}
		if len(distinct) > 1 {
			for code := range distinct {
				codes = append(codes, code)
			}
		}

	case config.MatchExplicitMention:
		// An empty allow-list means any mentioned language counts.
		for code := range ctx.LanguageMentions {
			if len(p.Codes) == 0 {
				codes = append(codes, code)
				continue
			}
			if _, ok := p.Codes[code]; ok {
				codes = append(codes, code)
			}
		}

	case config.MatchAnyLanguage:
		for code := range ctx.Languages {
			codes = append(codes, code)
		}
		for code := range ctx.LanguageMentions {
			if _, dup := ctx.Languages[code]; !dup {
				codes = append(codes, code)
			}
		}

	default:
		// Intersect the configured codes with everything detected or mentioned.
		for code := range p.Codes {
			_, inLangs := ctx.Languages[code]
			_, inMentions := ctx.LanguageMentions[code]
			if inLangs || inMentions {
				codes = append(codes, code)
			}
		}
	}

	if len(codes) == 0 {
		return false, nil
	}
	sort.Strings(codes)

	contributions := make([]string, 0, len(codes))
	for _, code := range codes {
		contributions = append(contributions, formatContribution(p.Description, code))
	}
	return true, contributions
}

func evalCodeblock(p *config.CompiledPattern, ctx *Context) (bool, []string) {
	if !ctx.Code.HasCodeBlock {
		return false, nil
	}
	if len(p.Languages) == 0 {
		return true, []string{p.Description}
	}

	var overlap []string
	for lang := range p.Languages {
		if _, ok := ctx.Code.Languages[lang]; ok {
			overlap = append(overlap, lang)
		}
	}
	if len(overlap) == 0 {
		// Unlabeled (or off-list) code block: still a generic match unless
		// the pattern insists on a recognized language.
		if p.RequireLanguage {
			return false, nil
		}
		return true, []string{p.Description}
	}

	sort.Strings(overlap)
	contributions := make([]string, 0, len(overlap))
	for _, lang := range overlap {
		contributions = append(contributions, formatContribution(p.Description, lang))
	}
	return true, contributions
}

func evalAttachment(p *config.CompiledPattern, ctx *Context) (bool, []string) {
	var hits []string
	for want := range p.Match {
		if _, ok := ctx.AttachmentDescriptors[want]; ok {
			hits = append(hits, want)
		} else if !p.MatchAny {
			// matchAny=false demands every listed descriptor.
			return false, nil
		}
	}
	if len(hits) == 0 {
		return false, nil
	}

	sort.Strings(hits)
	contributions := make([]string, 0, len(hits))
	for _, hit := range hits {
		contributions = append(contributions, formatContribution(p.Description, hit))
	}
	return true, contributions
}

// formatContribution substitutes a matched value into the description, or
// suffixes it when the description has no placeholder.
func formatContribution(description, value string) string {
	if strings.Contains(description, "%s") {
		return fmt.Sprintf(description, value)
	}
	return description + ":" + value
}
