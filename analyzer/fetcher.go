package analyzer

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/PuerkitoBio/goquery"
	"go.uber.org/zap"
	"golang.org/x/net/html/charset"
)

const (
	// DefaultFetchTimeout bounds the whole GET, body included.
	DefaultFetchTimeout = 10 * time.Second

	// BrowserUserAgent is sent so sites serve the same markup a desktop
	// browser would get.
	BrowserUserAgent = "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/91.0.4472.124 Safari/537.36"

	// DefaultMaxBody caps how many body bytes are read. Longer pages are
	// analysed from the first DefaultMaxBody bytes and a warning is logged.
	DefaultMaxBody = 10 << 20
)

// mobileIndicators are viewport content fragments that signal a
// responsive layout.
var mobileIndicators = []string{
	"width=device-width",
	"initial-scale=1",
	"maximum-scale=1",
	"user-scalable=no",
}

var bufferPool = sync.Pool{
	New: func() interface{} {
		return new(bytes.Buffer)
	},
}

// Fetcher retrieves a single page.
type Fetcher interface {
	Fetch(ctx context.Context, url string) (*PageFetchResult, error)
}

// HTTPFetcher fetches pages with one GET request and no retries.
type HTTPFetcher struct {
	client    *http.Client
	userAgent string
	maxBody   int
	logger    *zap.Logger
}

// NewHTTPFetcher returns a fetcher with the given overall timeout. A
// non-positive timeout selects DefaultFetchTimeout.
func NewHTTPFetcher(timeout time.Duration, logger *zap.Logger) *HTTPFetcher {
	if timeout <= 0 {
		timeout = DefaultFetchTimeout
	}
	if logger == nil {
		logger = zap.NewNop()
	}

	transport := &http.Transport{
		Proxy:               http.ProxyFromEnvironment,
		MaxIdleConns:        100,
		MaxIdleConnsPerHost: 10,
		IdleConnTimeout:     90 * time.Second,
		TLSHandshakeTimeout: 10 * time.Second,
	}

	return &HTTPFetcher{
		client: &http.Client{
			Timeout:   timeout,
			Transport: transport,
		},
		userAgent: BrowserUserAgent,
		maxBody:   DefaultMaxBody,
		logger:    logger,
	}
}

// Fetch performs the GET. Elapsed covers sending the request until the
// response headers arrive; reading the body is not timed. Any transport
// error, timeout or status of 400 and above yields a *FetchError.
func (f *HTTPFetcher) Fetch(ctx context.Context, url string) (*PageFetchResult, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, &FetchError{URL: url, Cause: err}
	}
	req.Header.Set("User-Agent", f.userAgent)

	start := time.Now()
	resp, err := f.client.Do(req)
	if err != nil {
		f.logger.Warn("failed to fetch URL", zap.String("url", url), zap.Error(err))
		return nil, &FetchError{URL: url, Cause: err}
	}
	elapsed := time.Since(start)
	defer func() {
		if cerr := resp.Body.Close(); cerr != nil {
			f.logger.Debug("failed to close response body", zap.Error(cerr))
		}
	}()

	if resp.StatusCode >= http.StatusBadRequest {
		f.logger.Warn("unexpected status code",
			zap.String("url", url),
			zap.Int("status_code", resp.StatusCode),
		)
		return nil, &FetchError{
			URL:        url,
			StatusCode: resp.StatusCode,
			Cause:      fmt.Errorf("unexpected status code: %d", resp.StatusCode),
		}
	}

	buf := bufferPool.Get().(*bytes.Buffer)
	buf.Reset()
	defer bufferPool.Put(buf)

	if _, err := io.Copy(buf, io.LimitReader(resp.Body, int64(f.maxBody)+1)); err != nil {
		f.logger.Warn("failed to read response body", zap.String("url", url), zap.Error(err))
		return nil, &FetchError{URL: url, StatusCode: resp.StatusCode, Cause: err}
	}
	if buf.Len() > f.maxBody {
		buf.Truncate(f.maxBody)
		f.logger.Warn("response body truncated",
			zap.String("url", url),
			zap.Int("limit_bytes", f.maxBody),
		)
	}

	pageSize := 0
	if contentLength := resp.Header.Get("Content-Length"); contentLength != "" {
		if size, err := strconv.Atoi(contentLength); err == nil {
			pageSize = size
		}
	}
	if pageSize == 0 {
		pageSize = buf.Len()
	}

	markup := decodeBody(buf.Bytes(), resp.Header.Get("Content-Type"))
	doc := parseDocument(markup)

	f.logger.Debug("fetched page",
		zap.String("url", url),
		zap.Int("status_code", resp.StatusCode),
		zap.Int("page_size", pageSize),
		zap.Duration("elapsed", elapsed),
	)

	return &PageFetchResult{
		Markup:         markup,
		Elapsed:        elapsed,
		StatusCode:     resp.StatusCode,
		MobileFriendly: mobileFriendly(doc),
		PageSize:       pageSize,
		Document:       doc,
	}, nil
}

// decodeBody converts the body to UTF-8 using the declared or sniffed
// charset, falling back to the raw bytes.
func decodeBody(body []byte, contentType string) string {
	r, err := charset.NewReader(bytes.NewReader(body), contentType)
	if err != nil {
		return string(body)
	}
	decoded, err := io.ReadAll(r)
	if err != nil {
		return string(body)
	}
	return string(decoded)
}

// IsMobileFriendly reports whether the first viewport meta tag declares a
// responsive layout.
func IsMobileFriendly(markup string) bool {
	return mobileFriendly(parseDocument(markup))
}

func mobileFriendly(doc *goquery.Document) bool {
	viewport := doc.Find("meta[name='viewport']").First()
	if viewport.Length() == 0 {
		return false
	}

	content := strings.ToLower(viewport.AttrOr("content", ""))
	for _, indicator := range mobileIndicators {
		if strings.Contains(content, indicator) {
			return true
		}
	}
	return false
}
