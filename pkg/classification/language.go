package classification

import (
	"regexp"
	"unicode"
)

// scriptLanguages maps non-Latin Unicode scripts to the language code their
// presence implies. Hiragana/Katakana disambiguate Japanese from Chinese, so
// they are checked before Han.
var scriptLanguages = []struct {
	table *unicode.RangeTable
	code  string
}{
	{unicode.Hiragana, "ja"},
	{unicode.Katakana, "ja"},
	{unicode.Hangul, "ko"},
	{unicode.Han, "zh"},
	{unicode.Cyrillic, "ru"},
	{unicode.Arabic, "ar"},
	{unicode.Hebrew, "he"},
	{unicode.Greek, "el"},
	{unicode.Devanagari, "hi"},
	{unicode.Thai, "th"},
}

// minScriptRunes is how many runes of a script must appear before the text is
// considered to be in that language; a single stray character is not enough.
const minScriptRunes = 2

// latinKeywords holds distinctive words/greetings for Latin-script languages
// we detect without script evidence. Keyword lists are kept disjoint across
// languages so one phrase never implies two of them.
var latinKeywords = map[string][]string{
	"es": {"hola", "gracias", "buenos días", "por favor", "cómo estás"},
	"fr": {"bonjour", "merci", "s'il vous plaît", "très bien"},
	"de": {"guten tag", "danke schön", "bitte schön", "ich möchte"},
	"it": {"ciao", "grazie", "per favore", "buongiorno"},
	"pt": {"olá", "obrigado", "obrigada", "bom dia"},
	"nl": {"goedemorgen", "dank je wel", "alstublieft"},
}

// languageNames maps English language names to codes for explicit-mention
// detection ("translate this to Spanish").
var languageNames = map[string]string{
	"english":    "en",
	"spanish":    "es",
	"french":     "fr",
	"german":     "de",
	"italian":    "it",
	"portuguese": "pt",
	"dutch":      "nl",
	"chinese":    "zh",
	"mandarin":   "zh",
	"japanese":   "ja",
	"korean":     "ko",
	"russian":    "ru",
	"arabic":     "ar",
	"hebrew":     "he",
	"greek":      "el",
	"hindi":      "hi",
	"thai":       "th",
}

var (
	latinKeywordRes map[string]*regexp.Regexp
	languageNameRes map[string]*regexp.Regexp
)

func init() {
	latinKeywordRes = make(map[string]*regexp.Regexp, len(latinKeywords))
	for code, words := range latinKeywords {
		pattern := `(?i)(^|[^\p{L}])(`
		for i, w := range words {
			if i > 0 {
				pattern += "|"
			}
			pattern += regexp.QuoteMeta(w)
		}
		pattern += `)($|[^\p{L}])`
		latinKeywordRes[code] = regexp.MustCompile(pattern)
	}

	languageNameRes = make(map[string]*regexp.Regexp, len(languageNames))
	for name := range languageNames {
		languageNameRes[name] = regexp.MustCompile(`(?i)\b` + regexp.QuoteMeta(name) + `\b`)
	}
}

// DetectLanguages derives content languages and explicit language-name
// mentions from raw text. Languages means the text appears to be (partly)
// written in that language; mentions means the language is merely referenced
// by name. English is the implicit default and is only reported when
// mentioned by name.
func DetectLanguages(text string) (languages, mentions map[string]struct{}) {
	languages = make(map[string]struct{})
	mentions = make(map[string]struct{})

	counts := make(map[string]int)
	for _, r := range text {
		for _, s := range scriptLanguages {
			if unicode.Is(s.table, r) {
				counts[s.code]++
				break
			}
		}
	}
	for code, n := range counts {
		if n >= minScriptRunes {
			languages[code] = struct{}{}
		}
	}

	for code, re := range latinKeywordRes {
		if re.MatchString(text) {
			languages[code] = struct{}{}
		}
	}

	for name, re := range languageNameRes {
		if re.MatchString(text) {
			mentions[languageNames[name]] = struct{}{}
		}
	}
	return languages, mentions
}
