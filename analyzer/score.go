package analyzer

import "unicode/utf8"

const (
	titleMinLen       = 50
	titleMaxLen       = 60
	descriptionMinLen = 120
	descriptionMaxLen = 160
	minKeywords       = 5
	minInternalLinks  = 5
	minExternalLinks  = 2
	altRatioThreshold = 0.8
	slowLoadSeconds   = 2.0
)

// textLen counts characters rather than bytes.
func textLen(s string) int {
	return utf8.RuneCountInString(s)
}

// SEOScore adds up on-page signal points and caps the total at 100.
//
//	title present +5, 50-60 chars +5
//	description present +5, 120-160 chars +5
//	keywords meta +5
//	h1 present +5, exactly one +5, any h2-h6 +5
//	images present +5, more than 80% with alt +5
//	more than 5 internal links +5, more than 2 external +5
//	viewport +5
//	at least 5 extracted keywords +15
//	load under 2s +15, under 4s +10
func SEOScore(r *AnalysisRecord) int {
	score := 0

	if title := r.Meta.Title; title != "" {
		score += 5
		if n := textLen(title); n >= titleMinLen && n <= titleMaxLen {
			score += 5
		}
	}

	if desc := r.Meta.Description; desc != "" {
		score += 5
		if n := textLen(desc); n >= descriptionMinLen && n <= descriptionMaxLen {
			score += 5
		}
	}

	if len(r.Meta.Keywords) > 0 {
		score += 5
	}

	if h1 := len(r.Headings["h1"]); h1 > 0 {
		score += 5
		if h1 == 1 {
			score += 5
		}
	}
	if r.Headings.SubHeadings() {
		score += 5
	}

	if r.Images.Total > 0 {
		score += 5
		if float64(r.Images.WithAlt)/float64(r.Images.Total) > altRatioThreshold {
			score += 5
		}
	}

	if r.Links.Internal > minInternalLinks {
		score += 5
	}
	if r.Links.External > minExternalLinks {
		score += 5
	}

	if r.Meta.HasViewport {
		score += 5
	}

	if len(r.Keywords) >= minKeywords {
		score += 15
	}

	switch {
	case r.LoadTime < 2:
		score += 15
	case r.LoadTime < 4:
		score += 10
	}

	return min(score, 100)
}

// PerformanceScore maps load time in seconds onto a fixed step scale.
func PerformanceScore(r *AnalysisRecord) int {
	switch {
	case r.LoadTime < 1:
		return 95
	case r.LoadTime < 2:
		return 85
	case r.LoadTime < 3:
		return 70
	case r.LoadTime < 4:
		return 50
	default:
		return 30
	}
}

// MobileScore gives 30 points for a viewport tag and 70 for a responsive one.
func MobileScore(r *AnalysisRecord) int {
	score := 0
	if r.Meta.HasViewport {
		score += 30
	}
	if r.MobileFriendly {
		score += 70
	}
	return score
}
