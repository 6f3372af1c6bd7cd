package analyzer

import (
	"context"
	"crypto/md5"
	"encoding/hex"
	"errors"
	"strings"
	"time"

	gocache "github.com/patrickmn/go-cache"
	"go.uber.org/zap"
)

// Recorder observes analyses for metrics. Implementations must be safe for
// concurrent use.
type Recorder interface {
	CacheHit()
	CacheMiss()
	ObserveAnalysis(record *AnalysisRecord, err error, duration time.Duration)
}

type nopRecorder struct{}

func (nopRecorder) CacheHit()                                             {}
func (nopRecorder) CacheMiss()                                            {}
func (nopRecorder) ObserveAnalysis(*AnalysisRecord, error, time.Duration) {}

// Options configures an Analyzer. Zero values select defaults.
type Options struct {
	// FetchTimeout bounds the page GET. Defaults to DefaultFetchTimeout.
	FetchTimeout time.Duration
	// CacheTTL keeps finished records in memory keyed by URL. Zero disables
	// caching, so every call fetches the page again.
	CacheTTL time.Duration

	Fetcher  Fetcher
	Keywords KeywordExtractor
	Recorder Recorder
	Logger   *zap.Logger
}

// Analyzer runs the fetch, extract, score and advise pipeline for one URL
// at a time. It is safe for concurrent use.
type Analyzer struct {
	fetcher  Fetcher
	keywords KeywordExtractor
	recorder Recorder
	logger   *zap.Logger
	cache    *gocache.Cache
}

// New creates an Analyzer from opts.
func New(opts Options) *Analyzer {
	logger := opts.Logger
	if logger == nil {
		logger = zap.NewNop()
	}

	a := &Analyzer{
		fetcher:  opts.Fetcher,
		keywords: opts.Keywords,
		recorder: opts.Recorder,
		logger:   logger,
	}
	if a.fetcher == nil {
		a.fetcher = NewHTTPFetcher(opts.FetchTimeout, logger)
	}
	if a.keywords == nil {
		a.keywords = NewKeywordExtractor(nil, logger)
	}
	if a.recorder == nil {
		a.recorder = nopRecorder{}
	}
	if opts.CacheTTL > 0 {
		a.cache = gocache.New(opts.CacheTTL, 2*opts.CacheTTL)
	}

	return a
}

// NormalizeURL trims raw and prepends https:// when no http(s) scheme is given.
func NormalizeURL(raw string) (string, error) {
	url := strings.TrimSpace(raw)
	if url == "" {
		return "", ErrEmptyURL
	}
	if !strings.HasPrefix(url, "http://") && !strings.HasPrefix(url, "https://") {
		url = "https://" + url
	}
	return url, nil
}

// generateCacheKey creates a unique key for the URL
func generateCacheKey(url string) string {
	hash := md5.Sum([]byte(url))
	return hex.EncodeToString(hash[:])
}

// IsCached reports whether a fresh record for the URL is held in memory.
func (a *Analyzer) IsCached(rawURL string) bool {
	if a.cache == nil {
		return false
	}
	url, err := NormalizeURL(rawURL)
	if err != nil {
		return false
	}
	_, found := a.cache.Get(generateCacheKey(url))
	return found
}

// Analyze fetches the page at rawURL and returns its record. A failed fetch
// returns a *FetchError; extraction problems only blank the affected fields.
// The returned record must be treated as read-only.
func (a *Analyzer) Analyze(ctx context.Context, rawURL string) (*AnalysisRecord, error) {
	url, err := NormalizeURL(rawURL)
	if err != nil {
		return nil, err
	}

	var key string
	if a.cache != nil {
		key = generateCacheKey(url)
		if cached, found := a.cache.Get(key); found {
			a.recorder.CacheHit()
			return cached.(*AnalysisRecord), nil
		}
		a.recorder.CacheMiss()
	}

	start := time.Now()
	a.logger.Info("analyzing page", zap.String("url", url))

	fetched, err := a.fetcher.Fetch(ctx, url)
	if err != nil {
		var fetchErr *FetchError
		if !errors.As(err, &fetchErr) {
			err = &FetchError{URL: url, Cause: err}
		}
		a.recorder.ObserveAnalysis(nil, err, time.Since(start))
		a.logger.Warn("could not fetch page", zap.String("url", url), zap.Error(errors.Unwrap(err)))
		return nil, err
	}

	record := a.BuildRecord(url, fetched)
	a.recorder.ObserveAnalysis(record, nil, time.Since(start))
	a.logger.Info("analysis complete",
		zap.String("url", url),
		zap.Int("seo_score", record.SEOScore),
		zap.Int("performance_score", record.PerformanceScore),
		zap.Int("mobile_score", record.MobileScore),
		zap.Float64("load_time", record.LoadTime),
	)

	if a.cache != nil {
		a.cache.Set(key, record, gocache.DefaultExpiration)
	}
	return record, nil
}

// BuildRecord runs extraction, scoring and advice over an already fetched
// page. It performs no I/O.
func (a *Analyzer) BuildRecord(url string, fetched *PageFetchResult) *AnalysisRecord {
	doc := fetched.Document
	if doc == nil {
		doc = parseDocument(fetched.Markup)
	}

	record := &AnalysisRecord{
		URL:            url,
		Meta:           ExtractMeta(doc),
		Headings:       ExtractHeadings(doc),
		Keywords:       a.keywords.Extract(cleanText(doc)),
		Links:          ExtractLinks(doc),
		Images:         ExtractImages(doc),
		LoadTime:       fetched.Elapsed.Seconds(),
		StatusCode:     fetched.StatusCode,
		PageSize:       fetched.PageSize,
		MobileFriendly: fetched.MobileFriendly,
	}
	if record.Keywords == nil {
		record.Keywords = []string{}
	}
	if len(record.Keywords) > MaxKeywords {
		record.Keywords = record.Keywords[:MaxKeywords]
	}

	record.SEOScore = SEOScore(record)
	record.PerformanceScore = PerformanceScore(record)
	record.MobileScore = MobileScore(record)

	record.Suggestions = Suggestions(record)
	record.DeveloperRecommendations = DeveloperRecommendations(record)

	return record
}

// ClearCache drops all cached records.
func (a *Analyzer) ClearCache() {
	if a.cache != nil {
		a.cache.Flush()
	}
}

// Shutdown releases cached records.
func (a *Analyzer) Shutdown() error {
	if a == nil {
		return nil
	}
	a.ClearCache()
	return nil
}
