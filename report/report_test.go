package report

import (
	"bytes"
	"strings"
	"testing"

	"github.com/seo-optimizer/page-analyzer/analyzer"
)

func TestRating(t *testing.T) {
	tests := []struct {
		score int
		want  string
	}{
		{100, "Excellent"},
		{80, "Excellent"},
		{79, "Good"},
		{60, "Good"},
		{59, "Needs Improvement"},
		{0, "Needs Improvement"},
	}

	for _, tt := range tests {
		if got := Rating(tt.score); got != tt.want {
			t.Errorf("Rating(%d) = %q, want %q", tt.score, got, tt.want)
		}
	}
}

func sampleRecord() *analyzer.AnalysisRecord {
	return &analyzer.AnalysisRecord{
		URL: "https://example.com",
		Meta: analyzer.MetaInfo{
			Title:       "Example Domain",
			Description: "An example page",
			HasViewport: true,
		},
		Headings: analyzer.HeadingMap{
			"h1": {"Welcome"},
			"h2": {},
			"h3": {"Part one", "Part two"},
			"h4": {}, "h5": {}, "h6": {},
		},
		Keywords:                 []string{"example domain", "illustrative examples"},
		Links:                    analyzer.LinkStats{Total: 3, Internal: 2, External: 1},
		Images:                   analyzer.ImageStats{Total: 4, WithAlt: 1, WithoutAlt: 3},
		LoadTime:                 1.234,
		StatusCode:               200,
		PageSize:                 1536,
		SEOScore:                 65,
		PerformanceScore:         85,
		MobileScore:              30,
		Suggestions:              []string{"Add alt text to 3 images"},
		DeveloperRecommendations: []string{"Ensure proper use of semantic HTML5 elements"},
	}
}

func TestOverview(t *testing.T) {
	var b bytes.Buffer
	Overview(&b, sampleRecord())
	out := b.String()

	for _, want := range []string{
		"SEO Score:          65/100  Good",
		"Performance Score:  85/100  Excellent",
		"Mobile Score:       30/100  Needs Improvement",
		"1. example domain\n2. illustrative examples\n",
		"1. Add alt text to 3 images\n",
	} {
		if !strings.Contains(out, want) {
			t.Errorf("Overview() missing %q in:\n%s", want, out)
		}
	}
}

func TestDetails(t *testing.T) {
	var b bytes.Buffer
	Details(&b, sampleRecord())
	out := b.String()

	if !strings.Contains(out, "Title: Example Domain\nDescription: An example page\n") {
		t.Errorf("Details() meta block wrong:\n%s", out)
	}
	if !strings.Contains(out, "H1:\n- Welcome\nH3:\n- Part one\n- Part two\n") {
		t.Errorf("Details() headings wrong:\n%s", out)
	}
	if strings.Contains(out, "H2:") {
		t.Error("empty heading levels must be skipped")
	}
}

func TestTechnical(t *testing.T) {
	var b bytes.Buffer
	Technical(&b, sampleRecord())
	out := b.String()

	for _, want := range []string{
		"Page Load Time: 1.23 seconds",
		"Images: 4 total\n - With alt text: 1\n - Without alt text: 3\n",
		"Links: 2 internal, 1 external",
		"Viewport: Present",
		"Page Size: 1.5 KB",
	} {
		if !strings.Contains(out, want) {
			t.Errorf("Technical() missing %q in:\n%s", want, out)
		}
	}

	r := sampleRecord()
	r.Meta.HasViewport = false
	b.Reset()
	Technical(&b, r)
	if !strings.Contains(b.String(), "Viewport: Missing") {
		t.Error("Technical() should report a missing viewport")
	}
}

func TestWrite(t *testing.T) {
	r := sampleRecord()
	r.Suggestions = []string{}

	var b bytes.Buffer
	if err := Write(&b, r); err != nil {
		t.Fatalf("Write() error = %v", err)
	}
	out := b.String()

	if !strings.HasPrefix(out, "SEO analysis for https://example.com\n") {
		t.Errorf("Write() header wrong:\n%s", out)
	}
	last := -1
	for _, panel := range []string{"Overview\n", "Details\n", "Technical\n", "Developer\n"} {
		idx := strings.Index(out, panel)
		if idx <= last {
			t.Errorf("panel %q out of order", panel)
		}
		last = idx
	}
	if !strings.Contains(out, "SEO Suggestions\n  (none)\n") {
		t.Error("empty suggestions should render as (none)")
	}
}

func TestFormatSize(t *testing.T) {
	tests := []struct {
		in   int
		want string
	}{
		{0, "0 B"},
		{1023, "1023 B"},
		{1024, "1.0 KB"},
		{5 << 20, "5.0 MB"},
		{3 << 30, "3.0 GB"},
	}
	for _, tt := range tests {
		if got := FormatSize(tt.in); got != tt.want {
			t.Errorf("FormatSize(%d) = %q, want %q", tt.in, got, tt.want)
		}
	}
}
