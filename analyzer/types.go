package analyzer

import (
	"time"

	"github.com/PuerkitoBio/goquery"
)

// PageFetchResult is the raw outcome of fetching a page. Document is the
// parsed Markup when the fetcher already built it; a nil Document makes
// BuildRecord parse Markup itself.
type PageFetchResult struct {
	Markup         string
	Elapsed        time.Duration
	StatusCode     int
	MobileFriendly bool
	PageSize       int
	Document       *goquery.Document
}

// MetaInfo holds the head metadata relevant to SEO.
type MetaInfo struct {
	Title       string   `json:"title"`
	Description string   `json:"description"`
	Keywords    []string `json:"keywords"`
	HasViewport bool     `json:"has_viewport"`
}

// HeadingMap maps h1..h6 to heading texts in document order. Every level is
// present, possibly with an empty slice.
type HeadingMap map[string][]string

// SubHeadings reports whether any h2..h6 heading exists.
func (h HeadingMap) SubHeadings() bool {
	for _, level := range HeadingLevels[1:] {
		if len(h[level]) > 0 {
			return true
		}
	}
	return false
}

// HeadingLevels lists the heading keys in order.
var HeadingLevels = []string{"h1", "h2", "h3", "h4", "h5", "h6"}

// LinkStats counts anchors that carry an href attribute.
type LinkStats struct {
	Total    int `json:"total"`
	Internal int `json:"internal"`
	External int `json:"external"`
}

// ImageStats counts img tags by alt text coverage.
type ImageStats struct {
	Total      int `json:"total"`
	WithAlt    int `json:"with_alt"`
	WithoutAlt int `json:"without_alt"`
}

// AnalysisRecord is the complete result of analyzing one page.
type AnalysisRecord struct {
	URL                      string     `json:"url"`
	Meta                     MetaInfo   `json:"meta"`
	Headings                 HeadingMap `json:"headings"`
	Keywords                 []string   `json:"keywords"`
	Links                    LinkStats  `json:"links"`
	Images                   ImageStats `json:"images"`
	LoadTime                 float64    `json:"load_time"`
	StatusCode               int        `json:"status_code"`
	PageSize                 int        `json:"page_size"`
	MobileFriendly           bool       `json:"mobile_friendly"`
	SEOScore                 int        `json:"seo_score"`
	PerformanceScore         int        `json:"performance_score"`
	MobileScore              int        `json:"mobile_score"`
	Suggestions              []string   `json:"suggestions"`
	DeveloperRecommendations []string   `json:"developer_recommendations"`
}
