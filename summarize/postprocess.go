package summarize

import (
	"regexp"
	"strings"
)

// fillerRe strips the framing phrases chat models prepend to summaries.
var fillerRe = regexp.MustCompile(`(?i)^(in (summary|conclusion|short|brief),?\s*|to summarize,?\s*|overall,?\s*|this (section|article|text) (discusses|describes|covers)\s*)`)

// compactions shorten common verbose numeric phrasings.
var compactions = []struct {
	re   *regexp.Regexp
	repl string
}{
	{regexp.MustCompile(`(?i)\bmore than (\d)`), ">$1"},
	{regexp.MustCompile(`(?i)\bless than (\d)`), "<$1"},
	{regexp.MustCompile(`(?i)(\d) million\b`), "${1}M"},
	{regexp.MustCompile(`(?i)(\d) billion\b`), "${1}B"},
	{regexp.MustCompile(`(?i)(\d+(?:\.\d+)?) percent\b`), "$1%"},
}

var spaceRunRe = regexp.MustCompile(`[ \t]{2,}`)

// Postprocess tightens raw backend output: framing filler comes off the
// front and verbose numeric phrases compact to their symbolic forms.
func Postprocess(summary string) string {
	summary = strings.TrimSpace(summary)
	summary = fillerRe.ReplaceAllString(summary, "")
	for _, c := range compactions {
		summary = c.re.ReplaceAllString(summary, c.repl)
	}
	summary = spaceRunRe.ReplaceAllString(summary, " ")
	return strings.TrimSpace(summary)
}
