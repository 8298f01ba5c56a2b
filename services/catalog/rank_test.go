package catalog

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"phimstream/models"
)

// NOTE: production ranking is intentionally NOT deterministic — when the
// upstream omits view counts a bounded random jitter stands in, so repeated
// calls reorder the same feed. That behavior is part of the observable
// contract (the UI leans on the variety); these tests pin the jitter source
// instead of asserting any particular production ordering.

func fixedJitter(v int) JitterFunc {
	return func(int) int { return v }
}

func mkItem(id string, rating float64, views int) models.ContentItem {
	return models.ContentItem{
		ID:            id,
		Title:         id,
		Slug:          id,
		RatingPrimary: rating,
		ViewCount:     views,
		Kind:          models.KindMovie,
	}
}

func TestRankItemsOrdersByScore(t *testing.T) {
	spec := curatedSpec{
		minRating:     6.0,
		viewWeight:    1.0,
		ratingWeight:  0.0,
		neutralRating: 6.0,
		pageSize:      10,
	}
	items := []models.ContentItem{
		mkItem("low", 7.0, 100),
		mkItem("high", 7.0, 900),
		mkItem("mid", 7.0, 500),
	}

	got := rankItems(items, spec, fixedJitter(0))
	require.Len(t, got, 3)
	assert.Equal(t, "high", got[0].ID)
	assert.Equal(t, "mid", got[1].ID)
	assert.Equal(t, "low", got[2].ID)
}

func TestRankItemsRatingFloor(t *testing.T) {
	spec := curatedSpec{
		minRating:     6.5,
		viewWeight:    0.7,
		ratingWeight:  0.3,
		neutralRating: 6.5,
		pageSize:      10,
	}
	items := []models.ContentItem{
		mkItem("keep", 8.0, 10),
		mkItem("drop", 5.0, 9999),
		mkItem("unrated", 0, 10), // neutral default = floor, passes
	}

	got := rankItems(items, spec, fixedJitter(0))
	require.Len(t, got, 2)
	for _, it := range got {
		assert.NotEqual(t, "drop", it.ID)
	}
}

func TestRankItemsJitterSubstitutesMissingViews(t *testing.T) {
	spec := curatedSpec{
		minRating:     0,
		viewWeight:    1.0,
		ratingWeight:  0.0,
		neutralRating: 6.0,
		pageSize:      10,
	}
	items := []models.ContentItem{
		mkItem("no-views", 7.0, 0),
		mkItem("some-views", 7.0, 50),
	}

	// Jitter far above the real view count pushes the unviewed item first.
	got := rankItems(items, spec, fixedJitter(4000))
	require.Len(t, got, 2)
	assert.Equal(t, "no-views", got[0].ID)

	// Jitter of zero keeps the real view count on top.
	got = rankItems(items, spec, fixedJitter(0))
	assert.Equal(t, "some-views", got[0].ID)
}

func TestRankItemsTruncatesToPageSize(t *testing.T) {
	spec := curatedSpec{
		minRating:     0,
		viewWeight:    1.0,
		ratingWeight:  0.0,
		neutralRating: 6.0,
		pageSize:      6,
	}
	var items []models.ContentItem
	for i := 0; i < 30; i++ {
		items = append(items, mkItem(fmt.Sprintf("it-%d", i), 7.0, 1000-i))
	}

	got := rankItems(items, spec, fixedJitter(0))
	assert.Len(t, got, 6)
	assert.Equal(t, "it-0", got[0].ID)
}

func TestRankItemsStableOnTies(t *testing.T) {
	spec := curatedSpec{
		minRating:     0,
		viewWeight:    1.0,
		ratingWeight:  0.0,
		neutralRating: 6.0,
		pageSize:      10,
	}
	items := []models.ContentItem{
		mkItem("first", 7.0, 100),
		mkItem("second", 7.0, 100),
		mkItem("third", 7.0, 100),
	}

	got := rankItems(items, spec, fixedJitter(0))
	require.Len(t, got, 3)
	assert.Equal(t, "first", got[0].ID)
	assert.Equal(t, "second", got[1].ID)
	assert.Equal(t, "third", got[2].ID)
}

func TestRankItemsKeepFilter(t *testing.T) {
	spec := curatedSpecs[CuratedPopularAnime]
	items := []models.ContentItem{
		mkItem("movie", 8.0, 100),
		{ID: "anime", Title: "anime", Slug: "anime", RatingPrimary: 8.0, ViewCount: 100, Kind: models.KindAnimation},
	}

	got := rankItems(items, spec, fixedJitter(0))
	require.Len(t, got, 1)
	assert.Equal(t, "anime", got[0].ID)
}

func TestEffectiveRating(t *testing.T) {
	assert.Equal(t, 7.5, effectiveRating(models.ContentItem{RatingPrimary: 7.5, RatingAlt: 6.0}, 5.0))
	assert.Equal(t, 6.0, effectiveRating(models.ContentItem{RatingAlt: 6.0}, 5.0))
	assert.Equal(t, 5.0, effectiveRating(models.ContentItem{}, 5.0))
}
