package analyzer

import "fmt"

// Suggestions lists user-facing fixes, one per failed check, in a fixed order.
func Suggestions(r *AnalysisRecord) []string {
	suggestions := []string{}

	if r.Meta.Title == "" {
		suggestions = append(suggestions, "Add a title tag with primary keywords (50-60 characters)")
	} else if textLen(r.Meta.Title) > titleMaxLen {
		suggestions = append(suggestions, "Shorten your title tag (currently too long)")
	}

	if r.Meta.Description == "" {
		suggestions = append(suggestions, "Add a meta description (120-160 characters)")
	} else if textLen(r.Meta.Description) > descriptionMaxLen {
		suggestions = append(suggestions, "Shorten your meta description (currently too long)")
	}

	if h1 := len(r.Headings["h1"]); h1 == 0 {
		suggestions = append(suggestions, "Add exactly one H1 heading with your main keyword")
	} else if h1 > 1 {
		suggestions = append(suggestions, "Reduce to one H1 heading per page")
	}

	if r.Images.WithoutAlt > 0 {
		suggestions = append(suggestions, fmt.Sprintf("Add alt text to %d images", r.Images.WithoutAlt))
	}

	if len(r.Keywords) < minKeywords {
		suggestions = append(suggestions, "Add more content with relevant keywords")
	}

	if r.LoadTime > slowLoadSeconds {
		suggestions = append(suggestions, "Optimize page speed by compressing images and minimizing resources")
	}

	if !r.MobileFriendly {
		suggestions = append(suggestions, "Improve mobile responsiveness with proper viewport settings")
	}

	return suggestions
}

// DeveloperRecommendations lists implementation advice. The semantic markup
// and HTTPS/security header items are always present.
func DeveloperRecommendations(r *AnalysisRecord) []string {
	recs := []string{"Ensure proper use of semantic HTML5 elements"}

	if r.LoadTime > slowLoadSeconds {
		recs = append(recs,
			"Implement lazy loading for images",
			"Minify CSS and JavaScript files",
			"Enable browser caching",
			"Consider using a CDN for static assets",
		)
	}

	if !r.Meta.HasViewport {
		recs = append(recs, "Add responsive viewport meta tag: <meta name='viewport' content='width=device-width, initial-scale=1'>")
	}

	if !r.MobileFriendly {
		recs = append(recs, "Test mobile responsiveness using Google's Mobile-Friendly Test")
	}

	if r.Images.WithoutAlt > 0 {
		recs = append(recs, "Add alt attributes to all images for accessibility")
	}

	recs = append(recs,
		"Ensure site uses HTTPS for all pages",
		"Implement security headers (CSP, X-Frame-Options, etc.)",
	)
	return recs
}
