// Package scoring implements the hard candidate filter, the weighted
// multi-factor scoring engine, embedding similarity, and the ranker.
package scoring

import (
	"sort"
	"strings"
	"time"

	"github.com/fairyhunter13/job-match-engine/internal/domain"
)

// Filter defaults. The pool cap bounds worst-case per-request scoring cost
// under a fixed worker budget.
const (
	DefaultFreshnessWindow = 30 * 24 * time.Hour
	DefaultMaxPoolSize     = 1000
)

// FilterStats counts postings dropped per rule, for logs and metrics.
type FilterStats struct {
	Stale          int
	MissingFields  int
	BlockedCompany int
	Location       int
	Salary         int
	Seen           int
	Capped         int
}

// Filter applies the ordered hard exclusion rules to a job pool before any
// scoring happens.
type Filter struct {
	FreshnessWindow time.Duration
	MaxPoolSize     int
}

// NewFilter returns a Filter with the documented defaults.
func NewFilter() Filter {
	return Filter{FreshnessWindow: DefaultFreshnessWindow, MaxPoolSize: DefaultMaxPoolSize}
}

// Apply filters postings for the profile: freshness and required fields,
// blocked companies, location policy, salary floor, optionally already-seen
// postings, then caps the survivors most-recent-first.
func (f Filter) Apply(profile domain.CandidateProfile, postings []domain.JobPosting, seen map[string]struct{}, now time.Time) ([]domain.JobPosting, FilterStats) {
	var stats FilterStats
	kept := make([]domain.JobPosting, 0, len(postings))

	for _, p := range postings {
		switch {
		case p.Title == "" || p.Company == "" || p.URL == "":
			stats.MissingFields++
		case p.PostedAt != nil && now.Sub(*p.PostedAt) > f.freshness():
			stats.Stale++
		case companyListed(p.Company, profile.BlockedCompanies):
			stats.BlockedCompany++
		case !locationAllowed(profile, p):
			stats.Location++
		case !salaryAllowed(profile, p):
			stats.Salary++
		default:
			if seen != nil {
				if _, ok := seen[p.ExternalID]; ok {
					stats.Seen++
					continue
				}
			}
			kept = append(kept, p)
		}
	}

	if f.maxPool() > 0 && len(kept) > f.maxPool() {
		sort.SliceStable(kept, func(i, j int) bool {
			return postedAfter(kept[i].PostedAt, kept[j].PostedAt)
		})
		stats.Capped = len(kept) - f.maxPool()
		kept = kept[:f.maxPool()]
	}
	return kept, stats
}

func (f Filter) freshness() time.Duration {
	if f.FreshnessWindow <= 0 {
		return DefaultFreshnessWindow
	}
	return f.FreshnessWindow
}

func (f Filter) maxPool() int {
	if f.MaxPoolSize <= 0 {
		return DefaultMaxPoolSize
	}
	return f.MaxPoolSize
}

// companyListed reports whether company case-insensitively contains any
// entry of the list.
func companyListed(company string, list []string) bool {
	c := strings.ToLower(company)
	for _, entry := range list {
		e := strings.ToLower(strings.TrimSpace(entry))
		if e != "" && strings.Contains(c, e) {
			return true
		}
	}
	return false
}

// locationAllowed implements the location policy matrix: with a preference
// set, remote-ok keeps location matches and remote postings, on-site-only
// requires a location match; without a preference nothing is filtered.
func locationAllowed(profile domain.CandidateProfile, p domain.JobPosting) bool {
	pref := strings.TrimSpace(profile.LocationPreference)
	if pref == "" {
		return true
	}
	matches := locationMatches(pref, p.Location)
	if profile.RemoteOK {
		return matches || p.Remote
	}
	return matches
}

func locationMatches(pref, location string) bool {
	if location == "" {
		return false
	}
	l, p := strings.ToLower(location), strings.ToLower(pref)
	return strings.Contains(l, p) || strings.Contains(p, l)
}

// salaryAllowed keeps postings with unknown salary (unknown is never
// excluded) or whose best-known salary clears the candidate's floor.
func salaryAllowed(profile domain.CandidateProfile, p domain.JobPosting) bool {
	if profile.SalaryMin == nil {
		return true
	}
	best, known := bestSalary(p)
	if !known {
		return true
	}
	return best >= *profile.SalaryMin
}

// bestSalary returns the posting's max salary, falling back to min.
func bestSalary(p domain.JobPosting) (float64, bool) {
	if p.SalaryMax != nil {
		return *p.SalaryMax, true
	}
	if p.SalaryMin != nil {
		return *p.SalaryMin, true
	}
	return 0, false
}

// postedAfter orders timestamps descending with unknown dates last.
func postedAfter(a, b *time.Time) bool {
	switch {
	case a == nil:
		return false
	case b == nil:
		return true
	default:
		return a.After(*b)
	}
}
