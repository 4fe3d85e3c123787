// Package selector drafts a bounded, category-diverse subset of candidates.
//
// Candidates are bucketed by normalized category, each bucket is ranked by
// EdgeScore, and buckets are drawn round-robin in a fixed order. Slots left
// after the round-robin are backfilled from the remaining pool by score.
package selector

import (
	"sort"

	"github.com/XavierBriggs/Titanium/pkg/models"
)

// Bucket names in draft order
const (
	BucketSpread     = "Spread"
	BucketMoneyline  = "Moneyline"
	BucketTotalOver  = "Total-Over"
	BucketTotalUnder = "Total-Under"
	BucketProp       = "Prop"
)

// Order is the fixed round-robin order
var Order = []string{BucketSpread, BucketMoneyline, BucketTotalOver, BucketTotalUnder, BucketProp}

// Options tunes the draft
type Options struct {
	Cap int

	// PerBucketLimit caps picks per bucket during the round-robin; 0 is unlimited
	PerBucketLimit int
}

// Bucket maps a candidate's category onto its draft bucket
func Bucket(c models.CandidateBet) string {
	switch c.Category {
	case models.CategorySpread, models.CategoryPuckLine, models.CategoryRunLine:
		return BucketSpread
	case models.CategoryMoneyline, models.CategoryThreeWay:
		return BucketMoneyline
	case models.CategoryTotal:
		if c.Side == models.OutcomeUnder {
			return BucketTotalUnder
		}
		return BucketTotalOver
	default:
		return BucketProp
	}
}

// Select drafts up to limit candidates
func Select(candidates []models.CandidateBet, limit int) []models.CandidateBet {
	return SelectWithOptions(candidates, Options{Cap: limit})
}

// SelectWithOptions drafts candidates round-robin across buckets, then
// backfills by score. The input slice is not modified.
func SelectWithOptions(candidates []models.CandidateBet, opts Options) []models.CandidateBet {
	if len(candidates) == 0 || opts.Cap <= 0 {
		return []models.CandidateBet{}
	}

	// Indices keep ties in input order through the stable sorts
	buckets := make(map[string][]int, len(Order))
	for i, c := range candidates {
		b := Bucket(c)
		buckets[b] = append(buckets[b], i)
	}
	for _, idx := range buckets {
		byScore(candidates, idx)
	}

	limit := opts.Cap
	if limit > len(candidates) {
		limit = len(candidates)
	}

	selected := make([]models.CandidateBet, 0, limit)
	taken := make([]bool, len(candidates))
	picks := make(map[string]int, len(Order))

	for len(selected) < limit {
		progressed := false
		for _, b := range Order {
			if len(selected) >= limit {
				break
			}
			if picks[b] >= len(buckets[b]) {
				continue
			}
			if opts.PerBucketLimit > 0 && picks[b] >= opts.PerBucketLimit {
				continue
			}
			i := buckets[b][picks[b]]
			picks[b]++
			taken[i] = true
			selected = append(selected, candidates[i])
			progressed = true
		}
		if !progressed {
			break
		}
	}

	if len(selected) < limit {
		rest := make([]int, 0, len(candidates)-len(selected))
		for i := range candidates {
			if !taken[i] {
				rest = append(rest, i)
			}
		}
		byScore(candidates, rest)
		for _, i := range rest[:limit-len(selected)] {
			selected = append(selected, candidates[i])
		}
	}

	return selected
}

func byScore(candidates []models.CandidateBet, idx []int) {
	sort.SliceStable(idx, func(a, b int) bool {
		return candidates[idx[a]].EdgeScore > candidates[idx[b]].EdgeScore
	})
}
