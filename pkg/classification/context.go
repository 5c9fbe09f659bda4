package classification

import "strings"

// CodeInfo describes code blocks detected in the request text.
type CodeInfo struct {
	HasCodeBlock bool
	Languages    map[string]struct{}
}

// Context is the immutable per-request extraction context every pattern is
// evaluated against. It is built exactly once per request; nothing on the
// request path mutates it afterwards.
type Context struct {
	NormalizedText        string
	Languages             map[string]struct{}
	LanguageMentions      map[string]struct{}
	Code                  CodeInfo
	AttachmentDescriptors map[string]struct{}
}

// BuildContext derives the classification context from raw request content.
func BuildContext(text string, attachments []interface{}) *Context {
	normalized := normalizeText(text)
	langs, mentions := DetectLanguages(text)
	return &Context{
		NormalizedText:        normalized,
		Languages:             langs,
		LanguageMentions:      mentions,
		Code:                  DetectCode(text),
		AttachmentDescriptors: DescribeAttachments(attachments),
	}
}

// HasNonEnglish reports whether any detected content language is not English.
func (c *Context) HasNonEnglish() bool {
	for code := range c.Languages {
		if code != "en" {
			return true
		}
	}
	return false
}

func normalizeText(text string) string {
	return strings.ToLower(strings.Join(strings.Fields(text), " "))
}
