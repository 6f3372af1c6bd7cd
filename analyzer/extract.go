package analyzer

import (
	"regexp"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"golang.org/x/net/html"
)

// nonContentSelector matches elements whose text never counts as page content.
const nonContentSelector = "script, style, nav, footer, iframe, noscript"

var lineBreak = regexp.MustCompile("\r\n|[\n\r\v\f\x1c\x1d\x1e\u0085\u2028\u2029]")

// parseDocument parses markup, returning an empty document if parsing fails
// so extraction always has something to walk.
func parseDocument(markup string) *goquery.Document {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(markup))
	if err != nil {
		return goquery.NewDocumentFromNode(&html.Node{Type: html.DocumentNode})
	}
	return doc
}

// ExtractMeta reads the title and the description, keywords and viewport
// meta tags. Missing elements yield empty values.
func ExtractMeta(doc *goquery.Document) MetaInfo {
	meta := MetaInfo{
		Title:       strings.TrimSpace(doc.Find("title").First().Text()),
		Description: doc.Find("meta[name='description']").First().AttrOr("content", ""),
		Keywords:    []string{},
		HasViewport: doc.Find("meta[name='viewport']").Length() > 0,
	}

	// A present tag is split literally, so empty content still gives one
	// empty keyword.
	if kw := doc.Find("meta[name='keywords']").First(); kw.Length() > 0 {
		meta.Keywords = strings.Split(kw.AttrOr("content", ""), ",")
	}

	return meta
}

// ExtractHeadings collects the trimmed text of every h1..h6 in document order.
func ExtractHeadings(doc *goquery.Document) HeadingMap {
	headings := make(HeadingMap, len(HeadingLevels))
	for _, level := range HeadingLevels {
		texts := []string{}
		doc.Find(level).Each(func(_ int, s *goquery.Selection) {
			texts = append(texts, strings.TrimSpace(s.Text()))
		})
		headings[level] = texts
	}
	return headings
}

// IsExternalHref reports whether an href counts as an external link. Only
// the literal "http" prefix matters: protocol-relative URLs and other
// schemes are counted as internal.
func IsExternalHref(href string) bool {
	return strings.HasPrefix(href, "http")
}

// ExtractLinks counts anchors that have an href attribute, even an empty one.
func ExtractLinks(doc *goquery.Document) LinkStats {
	var links LinkStats
	doc.Find("a[href]").Each(func(_ int, s *goquery.Selection) {
		href, _ := s.Attr("href")
		links.Total++
		if IsExternalHref(href) {
			links.External++
		} else {
			links.Internal++
		}
	})
	return links
}

// ExtractImages counts img tags and whether each has non-blank alt text.
func ExtractImages(doc *goquery.Document) ImageStats {
	var images ImageStats
	doc.Find("img").Each(func(_ int, s *goquery.Selection) {
		images.Total++
		if strings.TrimSpace(s.AttrOr("alt", "")) != "" {
			images.WithAlt++
		} else {
			images.WithoutAlt++
		}
	})
	return images
}

// CleanText returns the readable text of markup with non-content elements
// removed. Each line is trimmed and split on double spaces; the non-empty
// pieces are joined with newlines.
func CleanText(markup string) string {
	if markup == "" {
		return ""
	}
	return cleanText(parseDocument(markup))
}

// cleanText works on a deep copy of doc, so the caller's tree keeps its
// scripts and navigation.
func cleanText(doc *goquery.Document) (text string) {
	defer func() {
		if r := recover(); r != nil {
			text = ""
		}
	}()

	root := doc.Selection.Clone()
	root.Find(nonContentSelector).Remove()

	var chunks []string
	for _, line := range lineBreak.Split(root.Text(), -1) {
		for _, phrase := range strings.Split(strings.TrimSpace(line), "  ") {
			if phrase = strings.TrimSpace(phrase); phrase != "" {
				chunks = append(chunks, phrase)
			}
		}
	}
	return strings.Join(chunks, "\n")
}
