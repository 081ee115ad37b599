package cleaner

import (
	"strings"
	"time"

	"github.com/araddon/dateparse"
	"github.com/pemistahl/lingua-go"
)

// languageDetector is shared across documents. Building one is expensive
// (it loads n-gram models), so it is package-level and goroutine-safe.
var languageDetector = lingua.NewLanguageDetectorBuilder().
	FromLanguages(
		lingua.English, lingua.Spanish, lingua.French, lingua.German,
		lingua.Portuguese, lingua.Italian, lingua.Dutch, lingua.Russian,
		lingua.Chinese, lingua.Japanese, lingua.Korean, lingua.Arabic,
	).
	WithLowAccuracyMode().
	Build()

// DetectLanguage returns the ISO 639-1 code of the dominant language in the
// text, or "" when detection is inconclusive. Short fragments detect poorly,
// so anything under 40 characters is skipped.
func DetectLanguage(text string) string {
	if len(text) < 40 {
		return ""
	}
	sample := text
	if len(sample) > 2000 {
		sample = sample[:2000]
	}
	lang, ok := languageDetector.DetectLanguageOf(sample)
	if !ok {
		return ""
	}
	return strings.ToLower(lang.IsoCode639_1().String())
}

// NormalizeDate parses a date string in any common format and returns it as
// YYYY-MM-DD. Unparseable input returns "".
func NormalizeDate(raw string) string {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return ""
	}
	t, err := dateparse.ParseAny(raw)
	if err != nil || t.IsZero() || t.Year() < 1995 || t.After(time.Now().AddDate(1, 0, 0)) {
		return ""
	}
	return t.Format("2006-01-02")
}

// BuildFrontmatter renders document metadata as a YAML frontmatter block.
// Only populated fields are emitted; an entirely empty Extraction yields "".
func BuildFrontmatter(ex Extraction, sourceURL string) string {
	var b strings.Builder

	writeField := func(key, val string) {
		val = strings.TrimSpace(val)
		if val == "" {
			return
		}
		b.WriteString(key)
		b.WriteString(": ")
		b.WriteString(yamlQuote(val))
		b.WriteString("\n")
	}

	writeField("title", ex.Title)
	writeField("source", sourceURL)
	writeField("author", ex.Byline)
	writeField("site", ex.SiteName)

	lang := ex.Language
	if lang == "" {
		lang = DetectLanguage(ex.TextContent)
	}
	writeField("language", lang)
	writeField("published", NormalizeDate(ex.Published))
	writeField("description", truncateRunes(ex.Excerpt, 200))

	if b.Len() == 0 {
		return ""
	}
	return "---\n" + b.String() + "---\n\n"
}

// yamlQuote wraps values that would break YAML scalars in double quotes,
// escaping embedded quotes and newlines.
func yamlQuote(val string) string {
	if !strings.ContainsAny(val, ":#\"'\n{}[]&*!|>%@`") {
		return val
	}
	val = strings.ReplaceAll(val, `\`, `\\`)
	val = strings.ReplaceAll(val, `"`, `\"`)
	val = strings.ReplaceAll(val, "\n", " ")
	return `"` + val + `"`
}

func truncateRunes(s string, max int) string {
	runes := []rune(strings.TrimSpace(s))
	if len(runes) <= max {
		return string(runes)
	}
	return string(runes[:max]) + "..."
}
