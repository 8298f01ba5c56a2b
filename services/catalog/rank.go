package catalog

import (
	"math/rand"
	"sort"

	"phimstream/models"
)

// Curated feeds score items as
//
//	score = viewWeight*views + ratingWeight*rating
//
// with feed-specific weights, a minimum rating floor and a fixed page size.
// The upstream does not reliably report view counts, so a bounded random
// jitter stands in when views are missing — ordering stays varied instead of
// freezing into upstream order. The jitter source is injected so tests can
// pin it; see rank_test.go for the determinism note.

// JitterFunc returns a pseudo-view-count in [0, n).
type JitterFunc func(n int) int

func defaultJitter(n int) int {
	return rand.Intn(n)
}

const jitterViewCap = 5000

// curatedSpec is the per-feed ranking configuration.
type curatedSpec struct {
	minRating     float64
	viewWeight    float64
	ratingWeight  float64
	neutralRating float64
	pageSize      int
	sourcePages   int                          // how many upstream pages to aggregate
	keep          func(models.ContentItem) bool // extra filter, nil = all
	enrichDetails bool                         // hero feeds get per-item detail
}

var curatedSpecs = map[CuratedKind]curatedSpec{
	CuratedTrending: {
		minRating:     6.5,
		viewWeight:    0.7,
		ratingWeight:  0.3,
		neutralRating: 6.5,
		pageSize:      10,
		sourcePages:   2,
		enrichDetails: true,
	},
	CuratedHot: {
		minRating:     6.0,
		viewWeight:    0.8,
		ratingWeight:  0.2,
		neutralRating: 6.0,
		pageSize:      20,
		sourcePages:   2,
	},
	CuratedRecentlyCompleted: {
		minRating:     6.0,
		viewWeight:    0.5,
		ratingWeight:  0.5,
		neutralRating: 6.0,
		pageSize:      15,
		sourcePages:   3,
		keep:          func(it models.ContentItem) bool { return it.IsCompleted },
	},
	CuratedPopularMovies: {
		minRating:     6.5,
		viewWeight:    0.6,
		ratingWeight:  0.4,
		neutralRating: 6.5,
		pageSize:      6,
		sourcePages:   2,
		keep:          func(it models.ContentItem) bool { return it.Kind == models.KindMovie },
	},
	CuratedPopularSeries: {
		minRating:     6.5,
		viewWeight:    0.6,
		ratingWeight:  0.4,
		neutralRating: 6.5,
		pageSize:      6,
		sourcePages:   2,
		keep:          func(it models.ContentItem) bool { return it.Kind == models.KindSeries },
	},
	CuratedPopularAnime: {
		minRating:     6.0,
		viewWeight:    0.6,
		ratingWeight:  0.4,
		neutralRating: 6.0,
		pageSize:      6,
		sourcePages:   2,
		keep:          func(it models.ContentItem) bool { return it.Kind == models.KindAnimation },
	},
}

// effectiveRating picks the first present rating signal, falling back to the
// feed's neutral default so unrated items are not buried.
func effectiveRating(it models.ContentItem, neutral float64) float64 {
	if it.RatingPrimary > 0 {
		return it.RatingPrimary
	}
	if it.RatingAlt > 0 {
		return it.RatingAlt
	}
	return neutral
}

// rankItems filters to the rating floor, scores, sorts descending and
// truncates to the page size. The sort is stable: equal scores keep their
// aggregation order.
func rankItems(items []models.ContentItem, spec curatedSpec, jitter JitterFunc) []models.ContentItem {
	if jitter == nil {
		jitter = defaultJitter
	}

	type scored struct {
		item  models.ContentItem
		score float64
	}
	ranked := make([]scored, 0, len(items))
	for _, it := range items {
		if spec.keep != nil && !spec.keep(it) {
			continue
		}
		rating := effectiveRating(it, spec.neutralRating)
		if rating < spec.minRating {
			continue
		}
		views := float64(it.ViewCount)
		if it.ViewCount <= 0 {
			views = float64(jitter(jitterViewCap))
		}
		ranked = append(ranked, scored{item: it, score: spec.viewWeight*views + spec.ratingWeight*rating})
	}

	sort.SliceStable(ranked, func(i, j int) bool { return ranked[i].score > ranked[j].score })

	if len(ranked) > spec.pageSize {
		ranked = ranked[:spec.pageSize]
	}
	out := make([]models.ContentItem, len(ranked))
	for i, s := range ranked {
		out[i] = s.item
	}
	return out
}
