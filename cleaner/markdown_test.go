package cleaner

import (
	"strings"
	"testing"
)

func TestToMarkdown_BasicConversion(t *testing.T) {
	conv := newMarkdownConverter()
	html := `<article><h1>The Launch</h1><p>The rocket lifted off at dawn.</p></article>`

	md, err := ToMarkdown(conv, html, "https://example.com")
	if err != nil {
		t.Fatalf("ToMarkdown returned error: %v", err)
	}
	if !strings.Contains(md, "# The Launch") {
		t.Errorf("expected heading in output, got: %q", md)
	}
	if !strings.Contains(md, "The rocket lifted off at dawn.") {
		t.Errorf("expected paragraph text in output, got: %q", md)
	}
}

func TestToMarkdown_HeadingSeparator(t *testing.T) {
	conv := newMarkdownConverter()
	html := `<article><p>Intro paragraph here.</p><h2>Second Section</h2><p>More text follows.</p></article>`

	md, err := ToMarkdown(conv, html, "https://example.com")
	if err != nil {
		t.Fatalf("ToMarkdown returned error: %v", err)
	}
	if !strings.Contains(md, "---\n\n## Second Section") {
		t.Errorf("expected heading preceded by horizontal rule, got: %q", md)
	}
}

func TestToMarkdown_ShortHeadingDropped(t *testing.T) {
	conv := newMarkdownConverter()
	html := `<article><h2>Hi</h2><p>Body text that should survive the heading drop.</p></article>`

	md, err := ToMarkdown(conv, html, "https://example.com")
	if err != nil {
		t.Fatalf("ToMarkdown returned error: %v", err)
	}
	if strings.Contains(md, "## Hi") {
		t.Errorf("two-character heading should be dropped, got: %q", md)
	}
	if !strings.Contains(md, "Body text that should survive") {
		t.Errorf("body text lost: %q", md)
	}
}

func TestValidLinkHref(t *testing.T) {
	tests := []struct {
		href string
		want bool
	}{
		{"https://example.com/article/123", true},
		{"/docs/getting-started", true},
		{"https://example.com", false},
		{"https://example.com/", false},
		{"javascript:void(0)", false},
		{"mailto:someone@example.com", false},
		{"#", false},
		{"", false},
		{"/a", false},
		{"https://example.com/path with space", false},
	}
	for _, tt := range tests {
		if got := validLinkHref(tt.href); got != tt.want {
			t.Errorf("validLinkHref(%q) = %v, want %v", tt.href, got, tt.want)
		}
	}
}

func TestToMarkdown_InvalidLinkBecomesText(t *testing.T) {
	conv := newMarkdownConverter()
	html := `<article><p>See <a href="javascript:void(0)">the details</a> for more. Padding sentence to keep the paragraph.</p></article>`

	md, err := ToMarkdown(conv, html, "https://example.com")
	if err != nil {
		t.Fatalf("ToMarkdown returned error: %v", err)
	}
	if strings.Contains(md, "javascript:") {
		t.Errorf("javascript href leaked into markdown: %q", md)
	}
	if !strings.Contains(md, "the details") {
		t.Errorf("anchor text lost when link degraded: %q", md)
	}
}

func TestToMarkdown_LongHrefDegrades(t *testing.T) {
	conv := newMarkdownConverter()
	longHref := "https://example.com/path?" + strings.Repeat("x=1&", 60)
	html := `<article><p>Read <a href="` + longHref + `">the report</a> today.</p></article>`

	md, err := ToMarkdown(conv, html, "https://example.com")
	if err != nil {
		t.Fatalf("ToMarkdown returned error: %v", err)
	}
	if strings.Contains(md, longHref) {
		t.Errorf("overlong href should not appear in output: %q", md)
	}
	if !strings.Contains(md, "the report") {
		t.Errorf("anchor text lost: %q", md)
	}
}

func TestToMarkdown_SelfReferentialLinkRelabeled(t *testing.T) {
	conv := newMarkdownConverter()
	html := `<article><p>Source: <a href="https://www.example.com/report">https://www.example.com/report</a></p></article>`

	md, err := ToMarkdown(conv, html, "https://example.com")
	if err != nil {
		t.Fatalf("ToMarkdown returned error: %v", err)
	}
	if !strings.Contains(md, "[example.com]") {
		t.Errorf("self-referential link should be relabeled with hostname, got: %q", md)
	}
}

func TestToMarkdown_SimpleTablePreserved(t *testing.T) {
	conv := newMarkdownConverter()
	html := `<article><table>
		<tr><th>Name</th><th>Score</th></tr>
		<tr><td>Alice</td><td>91</td></tr>
		<tr><td>Bob</td><td>84</td></tr>
	</table></article>`

	md, err := ToMarkdown(conv, html, "https://example.com")
	if err != nil {
		t.Fatalf("ToMarkdown returned error: %v", err)
	}
	if !strings.Contains(md, "|") {
		t.Errorf("simple table should render as markdown table: %q", md)
	}
	if !strings.Contains(md, "Alice") {
		t.Errorf("table cell content lost: %q", md)
	}
}

func TestToMarkdown_ComplexTableSummarized(t *testing.T) {
	conv := newMarkdownConverter()
	var b strings.Builder
	b.WriteString("<article><table><tr>")
	for _, h := range []string{"A", "B", "C", "D", "E", "F", "G"} {
		b.WriteString("<th>" + h + "</th>")
	}
	b.WriteString("</tr>")
	for i := 0; i < 12; i++ {
		b.WriteString("<tr><td>1</td><td>2</td><td>3</td><td>4</td><td>5</td><td>6</td><td>7</td></tr>")
	}
	b.WriteString("</table></article>")

	md, err := ToMarkdown(conv, b.String(), "https://example.com")
	if err != nil {
		t.Fatalf("ToMarkdown returned error: %v", err)
	}
	if !strings.Contains(md, "**Table Data**") {
		t.Errorf("complex table should be replaced with summary, got: %q", md)
	}
	if strings.Count(md, "|") > 2 {
		t.Errorf("complex table rows should not survive, got: %q", md)
	}
}

func TestSummarizeComplexTable_Thresholds(t *testing.T) {
	tests := []struct {
		name    string
		rows    int
		cols    int
		complex bool
	}{
		{"small", 3, 3, false},
		{"at row limit", 10, 3, false},
		{"over row limit", 11, 3, true},
		{"over col limit", 3, 6, true},
	}
	for _, tt := range tests {
		var b strings.Builder
		b.WriteString("<table>")
		for r := 0; r < tt.rows; r++ {
			b.WriteString("<tr>")
			for c := 0; c < tt.cols; c++ {
				b.WriteString("<td>x</td>")
			}
			b.WriteString("</tr>")
		}
		b.WriteString("</table>")

		doc := mustParse(t, b.String())
		_, complex := summarizeComplexTable(doc.Find("table").First())
		if complex != tt.complex {
			t.Errorf("%s: complex = %v, want %v", tt.name, complex, tt.complex)
		}
	}
}

func TestSummarizeComplexTable_CaptionAndSample(t *testing.T) {
	var b strings.Builder
	b.WriteString("<table><caption>League Standings</caption><tr>")
	for _, h := range []string{"Team", "Wins", "Losses", "Pct", "Streak", "Home", "Away"} {
		b.WriteString("<th>" + h + "</th>")
	}
	b.WriteString("</tr><tr><td>Lakers</td><td>52</td><td>30</td><td>0.634</td><td>W4</td><td>31-10</td><td>21-20</td></tr>")
	b.WriteString("</table>")

	doc := mustParse(t, b.String())
	summary, complex := summarizeComplexTable(doc.Find("table").First())
	if !complex {
		t.Fatal("7-column table should be summarized")
	}
	if !strings.Contains(summary, "League Standings") {
		t.Errorf("summary missing caption: %q", summary)
	}
	if !strings.Contains(summary, "Columns: Team, Wins, Losses, Pct") {
		t.Errorf("summary missing column headers: %q", summary)
	}
	if !strings.Contains(summary, "2 rows of data") {
		t.Errorf("summary missing row count: %q", summary)
	}
	if !strings.Contains(summary, "Sample: Lakers, 52, 30") {
		t.Errorf("summary missing sample cells: %q", summary)
	}
}

func TestSummarizeComplexTable_LongCellsSkipSample(t *testing.T) {
	long := strings.Repeat("x", 60)
	html := "<table><tr><th>A</th><th>B</th><th>C</th><th>D</th><th>E</th><th>F</th></tr>" +
		"<tr><td>" + long + "</td><td>2</td><td>3</td><td>4</td><td>5</td><td>6</td></tr></table>"

	doc := mustParse(t, html)
	summary, complex := summarizeComplexTable(doc.Find("table").First())
	if !complex {
		t.Fatal("6-column table should be summarized")
	}
	if strings.Contains(summary, "Sample:") {
		t.Errorf("oversized cells should suppress the sample: %q", summary)
	}
}
