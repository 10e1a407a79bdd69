package report

import (
	"math"

	"github.com/cityfix/cityfix-go/internal/errors"
	"github.com/cityfix/cityfix-go/internal/querynum"
)

// Read-only views over the store's current snapshot. These take no part
// in record identity or status transitions.

// FindByQueryNumber looks a report up by its query number. The match is
// whitespace-trimmed and case-insensitive.
func (s *Store) FindByQueryNumber(code string) (*Report, error) {
	// An empty code matches nothing; it is a miss, not a malformed request.
	normalized := querynum.Normalize(code)
	if normalized == "" {
		return nil, errors.Newf("empty query number").
			Category(errors.CategoryNotFound).
			Component("report-query").
			Build()
	}

	s.mu.RLock()
	defer s.mu.RUnlock()
	for i := range s.reports {
		if querynum.Normalize(s.reports[i].QueryNumber) == normalized {
			found := s.reports[i]
			return &found, nil
		}
	}
	return nil, errors.Newf("query number %s not found", normalized).
		Category(errors.CategoryNotFound).
		Component("report-query").
		Context("query_number", normalized).
		Build()
}

// ResolvedReports returns all resolved reports in store order.
func (s *Store) ResolvedReports() []Report {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var out []Report
	for i := range s.reports {
		if s.reports[i].Status == StatusResolved {
			out = append(out, s.reports[i])
		}
	}
	return out
}

// GetStatistics counts the collection by status.
func (s *Store) GetStatistics() Statistics {
	s.mu.RLock()
	defer s.mu.RUnlock()

	stats := Statistics{Total: len(s.reports)}
	for i := range s.reports {
		switch s.reports[i].Status {
		case StatusPending:
			stats.Pending++
		case StatusInProgress:
			stats.InProgress++
		case StatusResolved:
			stats.Resolved++
		}
	}
	if stats.Total > 0 {
		stats.ResolvedPercentage = int(math.Round(float64(stats.Resolved) / float64(stats.Total) * 100))
	}
	return stats
}
