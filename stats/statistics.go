package stats

import (
	"context"
	"net/url"
	"sort"
	"strings"
	"sync"
	"time"
)

const (
	visitorWindow   = 24 * time.Hour
	popularURLLimit = 5
	retainMonths    = 12
)

// Statistics is the in-memory request summary served by the statistics
// endpoint. Nothing is persisted.
type Statistics struct {
	mutex            sync.RWMutex
	uniqueVisitors   map[string]time.Time // IP -> last visit
	analysisRequests int
	errorCount       int
	popularURLs      map[string]int
	totalLoadTime    float64
	loadTimeSamples  int
	monthly          *Monthly
	now              func() time.Time
}

// URLCount is one entry of the popular URL ranking.
type URLCount struct {
	URL   string `json:"url"`
	Count int    `json:"count"`
}

// NewStatistics creates an empty summary.
func NewStatistics() *Statistics {
	return &Statistics{
		uniqueVisitors: make(map[string]time.Time),
		popularURLs:    make(map[string]int),
		monthly:        NewMonthly(),
		now:            time.Now,
	}
}

// Monthly exposes the per-month counters.
func (s *Statistics) Monthly() *Monthly {
	return s.monthly
}

// TrackVisitor records a visit from ip.
func (s *Statistics) TrackVisitor(ip string) {
	if ip == "" {
		return
	}
	s.mutex.Lock()
	defer s.mutex.Unlock()

	s.uniqueVisitors[ip] = s.now()
}

// cleanURL reduces a URL to scheme, host and path. Local addresses and API
// paths are not ranked and yield "".
func cleanURL(urlStr string) string {
	u, err := url.Parse(urlStr)
	if err != nil || u.Host == "" {
		return ""
	}

	if strings.Contains(u.Host, "localhost") ||
		strings.Contains(u.Host, "127.0.0.1") ||
		strings.Contains(strings.ToLower(u.Path), "/api/") {
		return ""
	}

	cleaned := u.Scheme + "://" + u.Host
	if u.Path != "" && u.Path != "/" {
		cleaned += u.Path
	}
	return strings.TrimSuffix(cleaned, "/")
}

// TrackAnalysis records one analysis of url. loadTime is the page load time
// in seconds and is only averaged for successful analyses.
func (s *Statistics) TrackAnalysis(url string, loadTime float64, hasError bool) {
	s.mutex.Lock()
	defer s.mutex.Unlock()

	s.analysisRequests++

	if cleaned := cleanURL(url); cleaned != "" {
		s.popularURLs[cleaned]++
	}

	if hasError {
		s.errorCount++
		s.monthly.Increment(1, 1, 0, 0)
		return
	}

	s.totalLoadTime += loadTime
	s.loadTimeSamples++
	s.monthly.Increment(1, 0, 0, 0)
}

// TrackCache records a result cache lookup.
func (s *Statistics) TrackCache(hit bool) {
	if hit {
		s.monthly.Increment(0, 0, 1, 0)
		return
	}
	s.monthly.Increment(0, 0, 0, 1)
}

// UniqueVisitors returns the number of distinct IPs seen in the last 24 hours.
func (s *Statistics) UniqueVisitors() int {
	s.mutex.RLock()
	defer s.mutex.RUnlock()

	return s.uniqueVisitorsLocked()
}

func (s *Statistics) uniqueVisitorsLocked() int {
	cutoff := s.now().Add(-visitorWindow)
	count := 0
	for _, lastVisit := range s.uniqueVisitors {
		if lastVisit.After(cutoff) {
			count++
		}
	}
	return count
}

// PruneVisitors forgets visitors not seen in the last 24 hours.
func (s *Statistics) PruneVisitors() {
	s.mutex.Lock()
	defer s.mutex.Unlock()

	cutoff := s.now().Add(-visitorWindow)
	for ip, lastVisit := range s.uniqueVisitors {
		if !lastVisit.After(cutoff) {
			delete(s.uniqueVisitors, ip)
		}
	}
}

// Run prunes stale visitors and old monthly counters every interval until
// ctx is done.
func (s *Statistics) Run(ctx context.Context, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			s.PruneVisitors()
			s.monthly.Cleanup(retainMonths)
		}
	}
}

// PopularURLs returns the n most analysed URLs, most frequent first. Equal
// counts are ordered by URL.
func (s *Statistics) PopularURLs(n int) []URLCount {
	s.mutex.RLock()
	defer s.mutex.RUnlock()

	return s.popularURLsLocked(n)
}

func (s *Statistics) popularURLsLocked(n int) []URLCount {
	ranked := make([]URLCount, 0, len(s.popularURLs))
	for u, c := range s.popularURLs {
		ranked = append(ranked, URLCount{URL: u, Count: c})
	}
	sort.Slice(ranked, func(i, j int) bool {
		if ranked[i].Count != ranked[j].Count {
			return ranked[i].Count > ranked[j].Count
		}
		return ranked[i].URL < ranked[j].URL
	})
	if len(ranked) > n {
		ranked = ranked[:n]
	}
	return ranked
}

// ErrorRate returns failed analyses as a percentage of all analyses.
func (s *Statistics) ErrorRate() float64 {
	s.mutex.RLock()
	defer s.mutex.RUnlock()

	return s.errorRateLocked()
}

func (s *Statistics) errorRateLocked() float64 {
	if s.analysisRequests == 0 {
		return 0
	}
	return float64(s.errorCount) / float64(s.analysisRequests) * 100
}

// Snapshot returns the summary for the statistics endpoint. Popular URLs and
// the monthly counters are only included in development mode.
func (s *Statistics) Snapshot(devMode bool) map[string]interface{} {
	s.mutex.RLock()
	defer s.mutex.RUnlock()

	averageLoadTime := 0.0
	if s.loadTimeSamples > 0 {
		averageLoadTime = s.totalLoadTime / float64(s.loadTimeSamples)
	}

	out := map[string]interface{}{
		"uniqueVisitors24h": s.uniqueVisitorsLocked(),
		"totalRequests":     s.analysisRequests,
		"errorRate":         s.errorRateLocked(),
		"averageLoadTime":   averageLoadTime,
	}
	if devMode {
		out["popularUrls"] = s.popularURLsLocked(popularURLLimit)
		out["currentMonth"] = s.monthly.Current()
	}
	return out
}
