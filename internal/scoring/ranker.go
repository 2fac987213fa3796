package scoring

import (
	"sort"

	"github.com/fairyhunter13/job-match-engine/internal/domain"
)

// Rank sorts results by descending total score and truncates to limit.
// Equal scores tie-break on ascending posting ID so output is reproducible
// across runs. A negative limit means unlimited.
func Rank(results []domain.MatchResult, limit int) []domain.MatchResult {
	sort.SliceStable(results, func(i, j int) bool {
		if results[i].Score != results[j].Score {
			return results[i].Score > results[j].Score
		}
		return results[i].PostingID < results[j].PostingID
	})
	if limit >= 0 && len(results) > limit {
		results = results[:limit]
	}
	return results
}
