package cleaner

import (
	"strings"
	"testing"
)

func TestNormalizeDate(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"2024-03-15", "2024-03-15"},
		{"March 15, 2024", "2024-03-15"},
		{"15 Mar 2024 10:30:00 UTC", "2024-03-15"},
		{"2024-03-15T10:30:00Z", "2024-03-15"},
		{"not a date", ""},
		{"", ""},
		{"1970-01-01", ""},
	}
	for _, tt := range tests {
		if got := NormalizeDate(tt.in); got != tt.want {
			t.Errorf("NormalizeDate(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestDetectLanguage_English(t *testing.T) {
	text := "The committee published its findings after a long review of the evidence gathered during the investigation."
	if got := DetectLanguage(text); got != "en" {
		t.Errorf("DetectLanguage = %q, want en", got)
	}
}

func TestDetectLanguage_TooShort(t *testing.T) {
	if got := DetectLanguage("hello"); got != "" {
		t.Errorf("short input should not be detected, got %q", got)
	}
}

func TestBuildFrontmatter_AllFields(t *testing.T) {
	ex := Extraction{
		Title:     "Quarterly Results",
		Byline:    "Jane Reporter",
		SiteName:  "Example News",
		Excerpt:   "Revenue rose in the third quarter.",
		Language:  "en",
		Published: "March 15, 2024",
	}
	fm := BuildFrontmatter(ex, "https://example.com/q3")

	if !strings.HasPrefix(fm, "---\n") || !strings.Contains(fm, "\n---\n") {
		t.Fatalf("frontmatter not delimited: %q", fm)
	}
	for _, want := range []string{
		"title: Quarterly Results",
		"source: https",
		"author: Jane Reporter",
		"site: Example News",
		"language: en",
		"published: 2024-03-15",
	} {
		if !strings.Contains(fm, want) {
			t.Errorf("frontmatter missing %q: %q", want, fm)
		}
	}
}

func TestBuildFrontmatter_SkipsEmptyFields(t *testing.T) {
	fm := BuildFrontmatter(Extraction{Title: "Only Title Here"}, "")
	if strings.Contains(fm, "author:") || strings.Contains(fm, "published:") {
		t.Errorf("empty fields should be omitted: %q", fm)
	}
}

func TestBuildFrontmatter_EmptyExtraction(t *testing.T) {
	if fm := BuildFrontmatter(Extraction{}, ""); fm != "" {
		t.Errorf("empty extraction should yield no frontmatter, got %q", fm)
	}
}

func TestBuildFrontmatter_QuotesSpecialCharacters(t *testing.T) {
	fm := BuildFrontmatter(Extraction{Title: `Breaking: "Crisis" averted`}, "")
	if !strings.Contains(fm, `title: "Breaking: \"Crisis\" averted"`) {
		t.Errorf("title with YAML-significant characters not quoted: %q", fm)
	}
}
