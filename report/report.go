// Package report renders an analysis record as a plain-text report made of
// four panels: Overview, Details, Technical and Developer.
package report

import (
	"bufio"
	"fmt"
	"io"
	"strings"

	"github.com/seo-optimizer/page-analyzer/analyzer"
)

const (
	RatingExcellent = "Excellent"
	RatingGood      = "Good"
	RatingPoor      = "Needs Improvement"
)

// Rating buckets a 0-100 score.
func Rating(score int) string {
	switch {
	case score >= 80:
		return RatingExcellent
	case score >= 60:
		return RatingGood
	default:
		return RatingPoor
	}
}

// Write renders every panel of r to w.
func Write(w io.Writer, r *analyzer.AnalysisRecord) error {
	bw := bufio.NewWriter(w)

	fmt.Fprintf(bw, "SEO analysis for %s\n\n", r.URL)
	for i, panel := range []func(io.Writer, *analyzer.AnalysisRecord){Overview, Details, Technical, Developer} {
		if i > 0 {
			bw.WriteString("\n")
		}
		panel(bw, r)
	}
	return bw.Flush()
}

func heading(w io.Writer, title string) {
	fmt.Fprintf(w, "%s\n%s\n", title, strings.Repeat("=", len(title)))
}

func numbered(w io.Writer, items []string) {
	if len(items) == 0 {
		fmt.Fprintln(w, "  (none)")
		return
	}
	for i, item := range items {
		fmt.Fprintf(w, "%d. %s\n", i+1, item)
	}
}

// Overview shows the three scores, the keywords and the suggestions.
func Overview(w io.Writer, r *analyzer.AnalysisRecord) {
	heading(w, "Overview")
	for _, s := range []struct {
		label string
		score int
	}{
		{"SEO Score", r.SEOScore},
		{"Performance Score", r.PerformanceScore},
		{"Mobile Score", r.MobileScore},
	} {
		fmt.Fprintf(w, "%-18s %3d/100  %s\n", s.label+":", s.score, Rating(s.score))
	}

	fmt.Fprintln(w, "\nTop Keywords")
	numbered(w, r.Keywords)

	fmt.Fprintln(w, "\nSEO Suggestions")
	numbered(w, r.Suggestions)
}

// Details shows the title, the description and the non-empty heading levels.
func Details(w io.Writer, r *analyzer.AnalysisRecord) {
	heading(w, "Details")
	fmt.Fprintf(w, "Title: %s\n", r.Meta.Title)
	fmt.Fprintf(w, "Description: %s\n", r.Meta.Description)

	fmt.Fprintln(w, "\nHeadings Structure:")
	for i, level := range analyzer.HeadingLevels {
		headings := r.Headings[level]
		if len(headings) == 0 {
			continue
		}
		fmt.Fprintf(w, "H%d:\n", i+1)
		for _, h := range headings {
			fmt.Fprintf(w, "- %s\n", h)
		}
	}
}

// Technical shows load time, image and link counts, viewport and page size.
func Technical(w io.Writer, r *analyzer.AnalysisRecord) {
	heading(w, "Technical")
	fmt.Fprintf(w, "Page Load Time: %.2f seconds\n\n", r.LoadTime)
	fmt.Fprintf(w, "Images: %d total\n", r.Images.Total)
	fmt.Fprintf(w, " - With alt text: %d\n", r.Images.WithAlt)
	fmt.Fprintf(w, " - Without alt text: %d\n\n", r.Images.WithoutAlt)
	fmt.Fprintf(w, "Links: %d internal, %d external\n\n", r.Links.Internal, r.Links.External)

	viewport := "Missing"
	if r.Meta.HasViewport {
		viewport = "Present"
	}
	fmt.Fprintf(w, "Viewport: %s\n", viewport)
	fmt.Fprintf(w, "Status Code: %d\n", r.StatusCode)
	fmt.Fprintf(w, "Page Size: %s\n", FormatSize(r.PageSize))
}

// Developer lists the developer recommendations.
func Developer(w io.Writer, r *analyzer.AnalysisRecord) {
	heading(w, "Developer")
	numbered(w, r.DeveloperRecommendations)
}

// FormatSize renders a byte count with a binary unit.
func FormatSize(bytes int) string {
	const unit = 1024
	if bytes < unit {
		return fmt.Sprintf("%d B", bytes)
	}
	size := float64(bytes) / unit
	for _, suffix := range []string{"KB", "MB"} {
		if size < unit {
			return fmt.Sprintf("%.1f %s", size, suffix)
		}
		size /= unit
	}
	return fmt.Sprintf("%.1f GB", size)
}
