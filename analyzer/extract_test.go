package analyzer

import (
	"reflect"
	"strings"
	"testing"
)

func TestExtractMeta(t *testing.T) {
	tests := []struct {
		name     string
		html     string
		expected MetaInfo
	}{
		{
			name: "all tags",
			html: `<html><head><title>  My Page  </title>
				<meta name="description" content="A page about things">
				<meta name="keywords" content="seo,tools, audit">
				<meta name="viewport" content="width=device-width">
				</head><body></body></html>`,
			expected: MetaInfo{
				Title:       "My Page",
				Description: "A page about things",
				Keywords:    []string{"seo", "tools", " audit"},
				HasViewport: true,
			},
		},
		{
			name:     "no tags",
			html:     `<html><head></head><body><p>hi</p></body></html>`,
			expected: MetaInfo{Keywords: []string{}},
		},
		{
			name:     "empty keywords content still splits",
			html:     `<html><head><meta name="keywords" content=""></head></html>`,
			expected: MetaInfo{Keywords: []string{""}},
		},
		{
			name:     "first title wins",
			html:     `<html><head><title>One</title><title>Two</title></head></html>`,
			expected: MetaInfo{Title: "One", Keywords: []string{}},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ExtractMeta(parseDocument(tt.html))
			if !reflect.DeepEqual(got, tt.expected) {
				t.Errorf("ExtractMeta() = %+v, want %+v", got, tt.expected)
			}
		})
	}
}

func TestExtractHeadings(t *testing.T) {
	html := `<html><body>
		<h1> Main </h1>
		<div><h2>First</h2><section><h2>Second</h2></section></div>
		<h4>Deep</h4>
	</body></html>`

	got := ExtractHeadings(parseDocument(html))
	want := HeadingMap{
		"h1": {"Main"},
		"h2": {"First", "Second"},
		"h3": {},
		"h4": {"Deep"},
		"h5": {},
		"h6": {},
	}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("ExtractHeadings() = %v, want %v", got, want)
	}
	if !got.SubHeadings() {
		t.Error("SubHeadings() = false, want true")
	}

	empty := ExtractHeadings(parseDocument(""))
	for _, level := range HeadingLevels {
		if h, ok := empty[level]; !ok || len(h) != 0 {
			t.Errorf("empty document level %s = %v, %v; want present and empty", level, h, ok)
		}
	}
	if empty.SubHeadings() {
		t.Error("SubHeadings() on empty map = true")
	}
}

func TestExtractLinks(t *testing.T) {
	tests := []struct {
		name     string
		html     string
		expected LinkStats
	}{
		{
			name: "literal prefix rule",
			html: `<a href="/about">a</a><a href="http://x.com">b</a>
				<a href="">c</a><a href="mailto:a@b.com">d</a>`,
			expected: LinkStats{Total: 4, Internal: 3, External: 1},
		},
		{
			name: "protocol relative and https",
			html: `<a href="//cdn.example.com/x">a</a><a href="https://example.com">b</a>
				<a href="javascript:void(0)">c</a><a name="top">no href</a>`,
			expected: LinkStats{Total: 3, Internal: 2, External: 1},
		},
		{
			name:     "no anchors",
			html:     `<p>plain</p>`,
			expected: LinkStats{},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ExtractLinks(parseDocument(tt.html))
			if got != tt.expected {
				t.Errorf("ExtractLinks() = %+v, want %+v", got, tt.expected)
			}
		})
	}
}

func TestExtractImages(t *testing.T) {
	html := `<img src="a.png" alt="Logo">
		<img src="b.png" alt="">
		<img src="c.png" alt="   ">
		<img src="d.png">`

	got := ExtractImages(parseDocument(html))
	want := ImageStats{Total: 4, WithAlt: 1, WithoutAlt: 3}
	if got != want {
		t.Errorf("ExtractImages() = %+v, want %+v", got, want)
	}

	record := &AnalysisRecord{Images: got, Headings: HeadingMap{}, LoadTime: 5}
	if score := SEOScore(record); score != 5 {
		t.Errorf("SEOScore() with 1/4 alt coverage = %d, want 5 (no ratio bonus)", score)
	}
}

func TestCleanText(t *testing.T) {
	html := `<html><head><title>Page Title</title><style>body{color:red}</style></head>
<body>
  <nav>Home | About</nav>
  <script>var x = 1;</script>
  <h1>  Welcome   to   the site  </h1>
  <p>First line.</p>


  <noscript>enable js</noscript>
  <iframe src="x"></iframe>
  <footer>Copyright</footer>
  <p>Second  line</p>
</body></html>`

	got := CleanText(html)
	want := strings.Join([]string{
		"Page Title",
		"Welcome",
		"to",
		"the site",
		"First line.",
		"Second",
		"line",
	}, "\n")
	if got != want {
		t.Errorf("CleanText() = %q, want %q", got, want)
	}
}

func TestCleanTextEmpty(t *testing.T) {
	for _, in := range []string{"", "<script>only()</script>", "<nav>menu</nav><footer>f</footer>"} {
		if got := CleanText(in); got != "" {
			t.Errorf("CleanText(%q) = %q, want empty", in, got)
		}
	}
}
