package analyzer

import (
	"fmt"
	"strings"
	"testing"
	"time"
)

type staticKeywords []string

func (s staticKeywords) Extract(string) []string {
	return append([]string(nil), s...)
}

func newTestAnalyzer(keywords []string) *Analyzer {
	return New(Options{
		Fetcher:  &stubFetcher{},
		Keywords: staticKeywords(keywords),
	})
}

// wellOptimizedPage satisfies every on-page signal.
func wellOptimizedPage() string {
	var b strings.Builder
	b.WriteString("<html><head>")
	fmt.Fprintf(&b, "<title>%s</title>", strings.Repeat("t", 55))
	fmt.Fprintf(&b, `<meta name="description" content="%s">`, strings.Repeat("d", 140))
	b.WriteString(`<meta name="keywords" content="seo, audit">`)
	b.WriteString(`<meta name="viewport" content="width=device-width, initial-scale=1">`)
	b.WriteString("</head><body><h1>Main</h1><h2>Sub</h2>")
	for i := 0; i < 10; i++ {
		fmt.Fprintf(&b, `<img src="%d.png" alt="picture %d">`, i, i)
	}
	for i := 0; i < 6; i++ {
		fmt.Fprintf(&b, `<a href="/page%d">p</a>`, i)
	}
	for i := 0; i < 3; i++ {
		fmt.Fprintf(&b, `<a href="https://other%d.example.com">o</a>`, i)
	}
	b.WriteString("</body></html>")
	return b.String()
}

func buildRecord(t *testing.T, markup string, loadTime time.Duration, keywords []string) *AnalysisRecord {
	t.Helper()
	a := newTestAnalyzer(keywords)
	return a.BuildRecord("https://example.com", &PageFetchResult{
		Markup:         markup,
		Elapsed:        loadTime,
		StatusCode:     200,
		MobileFriendly: IsMobileFriendly(markup),
	})
}

func TestSEOScoreAllSignals(t *testing.T) {
	record := buildRecord(t, wellOptimizedPage(), 1500*time.Millisecond,
		[]string{"a", "b", "c", "d", "e", "f"})

	// The point table tops out at 95 when every signal is present.
	if record.SEOScore != 95 {
		t.Errorf("SEOScore = %d, want 95", record.SEOScore)
	}
	if record.PerformanceScore != 85 {
		t.Errorf("PerformanceScore = %d, want 85", record.PerformanceScore)
	}
	if record.MobileScore != 100 {
		t.Errorf("MobileScore = %d, want 100", record.MobileScore)
	}
	if record.Links != (LinkStats{Total: 9, Internal: 6, External: 3}) {
		t.Errorf("Links = %+v", record.Links)
	}
	if record.Images != (ImageStats{Total: 10, WithAlt: 10}) {
		t.Errorf("Images = %+v", record.Images)
	}
	if len(record.Suggestions) != 0 {
		t.Errorf("Suggestions = %q, want none", record.Suggestions)
	}
}

func TestSEOScoreEmptyPage(t *testing.T) {
	record := buildRecord(t, "", 5*time.Second, nil)

	if record.SEOScore != 0 {
		t.Errorf("SEOScore = %d, want 0", record.SEOScore)
	}
	if record.PerformanceScore != 30 {
		t.Errorf("PerformanceScore = %d, want 30", record.PerformanceScore)
	}
	if record.MobileScore != 0 {
		t.Errorf("MobileScore = %d, want 0", record.MobileScore)
	}
	if len(record.Keywords) != 0 {
		t.Errorf("Keywords = %q, want empty", record.Keywords)
	}

	want := []string{
		"Add a title tag with primary keywords (50-60 characters)",
		"Add a meta description (120-160 characters)",
	}
	for i, s := range want {
		if i >= len(record.Suggestions) || record.Suggestions[i] != s {
			t.Errorf("Suggestions[%d] missing %q; got %q", i, s, record.Suggestions)
		}
	}
}

func TestSEOScoreSignals(t *testing.T) {
	base := func() *AnalysisRecord {
		return &AnalysisRecord{Headings: HeadingMap{}, LoadTime: 10}
	}

	tests := []struct {
		name   string
		mutate func(r *AnalysisRecord)
		want   int
	}{
		{"nothing", func(r *AnalysisRecord) {}, 0},
		{"short title", func(r *AnalysisRecord) { r.Meta.Title = "Hi" }, 5},
		{"title 50", func(r *AnalysisRecord) { r.Meta.Title = strings.Repeat("x", 50) }, 10},
		{"title 60", func(r *AnalysisRecord) { r.Meta.Title = strings.Repeat("x", 60) }, 10},
		{"title 61", func(r *AnalysisRecord) { r.Meta.Title = strings.Repeat("x", 61) }, 5},
		{"title counts characters", func(r *AnalysisRecord) { r.Meta.Title = strings.Repeat("é", 55) }, 10},
		{"description 120", func(r *AnalysisRecord) { r.Meta.Description = strings.Repeat("x", 120) }, 10},
		{"description 161", func(r *AnalysisRecord) { r.Meta.Description = strings.Repeat("x", 161) }, 5},
		{"keywords meta", func(r *AnalysisRecord) { r.Meta.Keywords = []string{""} }, 5},
		{"two h1", func(r *AnalysisRecord) { r.Headings["h1"] = []string{"a", "b"} }, 5},
		{"one h1", func(r *AnalysisRecord) { r.Headings["h1"] = []string{"a"} }, 10},
		{"h6 only", func(r *AnalysisRecord) { r.Headings["h6"] = []string{"a"} }, 5},
		{"alt ratio 0.8 not enough", func(r *AnalysisRecord) { r.Images = ImageStats{Total: 5, WithAlt: 4, WithoutAlt: 1} }, 5},
		{"alt ratio 0.9", func(r *AnalysisRecord) { r.Images = ImageStats{Total: 10, WithAlt: 9, WithoutAlt: 1} }, 10},
		{"5 internal", func(r *AnalysisRecord) { r.Links = LinkStats{Total: 5, Internal: 5} }, 0},
		{"6 internal", func(r *AnalysisRecord) { r.Links = LinkStats{Total: 6, Internal: 6} }, 5},
		{"3 external", func(r *AnalysisRecord) { r.Links = LinkStats{Total: 3, External: 3} }, 5},
		{"viewport", func(r *AnalysisRecord) { r.Meta.HasViewport = true }, 5},
		{"4 keywords", func(r *AnalysisRecord) { r.Keywords = []string{"a", "b", "c", "d"} }, 0},
		{"5 keywords", func(r *AnalysisRecord) { r.Keywords = []string{"a", "b", "c", "d", "e"} }, 15},
		{"load 1.99", func(r *AnalysisRecord) { r.LoadTime = 1.99 }, 15},
		{"load 2.0", func(r *AnalysisRecord) { r.LoadTime = 2.0 }, 10},
		{"load 3.99", func(r *AnalysisRecord) { r.LoadTime = 3.99 }, 10},
		{"load 4.0", func(r *AnalysisRecord) { r.LoadTime = 4.0 }, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := base()
			tt.mutate(r)
			if got := SEOScore(r); got != tt.want {
				t.Errorf("SEOScore() = %d, want %d", got, tt.want)
			}
		})
	}
}

func TestPerformanceScore(t *testing.T) {
	tests := []struct {
		load float64
		want int
	}{
		{0, 95},
		{0.99, 95},
		{1, 85},
		{1.99, 85},
		{2, 70},
		{2.5, 70},
		{3, 50},
		{3.99, 50},
		{4, 30},
		{60, 30},
	}

	for _, tt := range tests {
		if got := PerformanceScore(&AnalysisRecord{LoadTime: tt.load}); got != tt.want {
			t.Errorf("PerformanceScore(%v) = %d, want %d", tt.load, got, tt.want)
		}
	}
}

func TestMobileScore(t *testing.T) {
	tests := []struct {
		viewport, friendly bool
		want               int
	}{
		{false, false, 0},
		{true, false, 30},
		{false, true, 70},
		{true, true, 100},
	}

	for _, tt := range tests {
		r := &AnalysisRecord{Meta: MetaInfo{HasViewport: tt.viewport}, MobileFriendly: tt.friendly}
		if got := MobileScore(r); got != tt.want {
			t.Errorf("MobileScore(viewport=%v, friendly=%v) = %d, want %d", tt.viewport, tt.friendly, got, tt.want)
		}
	}
}

func TestScoresStayInRange(t *testing.T) {
	pages := []string{"", wellOptimizedPage(), "<h1>a</h1><h1>b</h1><img><a href='http://x'>x</a>"}
	loads := []time.Duration{0, 900 * time.Millisecond, 2 * time.Second, 3500 * time.Millisecond, time.Minute}
	keywordSets := [][]string{nil, {"a"}, {"a", "b", "c", "d", "e", "f", "g"}}

	for _, page := range pages {
		for _, load := range loads {
			for _, kws := range keywordSets {
				r := buildRecord(t, page, load, kws)
				for name, score := range map[string]int{
					"seo":         r.SEOScore,
					"performance": r.PerformanceScore,
					"mobile":      r.MobileScore,
				} {
					if score < 0 || score > 100 {
						t.Errorf("%s score %d out of range (load %v)", name, score, load)
					}
				}
			}
		}
	}
}
