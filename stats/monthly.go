package stats

import (
	"sort"
	"sync"
	"time"
)

const monthLayout = "2006-01"

// MonthlyStats holds analysis counters for one calendar month.
type MonthlyStats struct {
	Analyses    int       `json:"analyses"`
	Failures    int       `json:"failures"`
	CacheHits   int       `json:"cache_hits"`
	CacheMisses int       `json:"cache_misses"`
	LastUpdated time.Time `json:"last_updated"`
}

// Monthly keeps MonthlyStats keyed by "YYYY-MM". It lives in memory only and
// is reset when the process exits.
type Monthly struct {
	mutex sync.RWMutex
	stats map[string]*MonthlyStats
	now   func() time.Time
}

// NewMonthly creates an empty set of monthly counters.
func NewMonthly() *Monthly {
	return &Monthly{
		stats: make(map[string]*MonthlyStats),
		now:   time.Now,
	}
}

func (m *Monthly) currentMonth() string {
	return m.now().Format(monthLayout)
}

// Increment adds the given deltas to the current month.
func (m *Monthly) Increment(analyses, failures, cacheHits, cacheMisses int) {
	month := m.currentMonth()

	m.mutex.Lock()
	defer m.mutex.Unlock()

	stats, exists := m.stats[month]
	if !exists {
		stats = &MonthlyStats{}
		m.stats[month] = stats
	}

	stats.Analyses += analyses
	stats.Failures += failures
	stats.CacheHits += cacheHits
	stats.CacheMisses += cacheMisses
	stats.LastUpdated = m.now()
}

// Current returns the counters for the current month.
func (m *Monthly) Current() MonthlyStats {
	stats, _ := m.Month(m.currentMonth())
	return stats
}

// Month returns the counters for yearMonth ("YYYY-MM").
func (m *Monthly) Month(yearMonth string) (MonthlyStats, bool) {
	m.mutex.RLock()
	defer m.mutex.RUnlock()

	if stats, exists := m.stats[yearMonth]; exists {
		return *stats, true
	}
	return MonthlyStats{}, false
}

// Months returns all months with counters, newest first.
func (m *Monthly) Months() []string {
	m.mutex.RLock()
	defer m.mutex.RUnlock()

	months := make([]string, 0, len(m.stats))
	for month := range m.stats {
		months = append(months, month)
	}
	sort.Sort(sort.Reverse(sort.StringSlice(months)))
	return months
}

// Cleanup drops every month older than the newest retainMonths months,
// counting back from the current one.
func (m *Monthly) Cleanup(retainMonths int) {
	if retainMonths < 1 {
		retainMonths = 1
	}
	now := m.now()
	first := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, now.Location())
	keep := make(map[string]struct{}, retainMonths)
	for i := 0; i < retainMonths; i++ {
		keep[first.AddDate(0, -i, 0).Format(monthLayout)] = struct{}{}
	}

	m.mutex.Lock()
	defer m.mutex.Unlock()

	for month := range m.stats {
		if _, ok := keep[month]; !ok {
			delete(m.stats, month)
		}
	}
}
