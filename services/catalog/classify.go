package catalog

import (
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"

	"phimstream/models"
)

// Classification runs as an ordered rule list rather than nested
// conditionals. Two independent predicates (animation keyword, multi-episode
// signal) and a fixed kind-hint table are combined by one precedence
// function, with the animation signal always winning over a plain series
// signal: a 1000-episode anime classifies as animation.

var kindHints = map[string]models.ContentKind{
	"single":   models.KindMovie,
	"movie":    models.KindMovie,
	"series":   models.KindSeries,
	"tvshows":  models.KindSeries,
	"hoathinh": models.KindAnimation,
}

// animationTerms are matched case- and diacritic-insensitively against
// title, synopsis and genre names. Terms are stored pre-folded.
var animationTerms = []string{
	"anime",
	"hoat hinh",
	"animation",
	"cartoon",
	"donghua",
}

var foldDiacritics = transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)

// foldText lowercases and strips combining marks so "Hoạt Hình" matches
// "hoat hinh".
func foldText(s string) string {
	out, _, err := transform.String(foldDiacritics, s)
	if err != nil {
		out = s
	}
	return strings.ToLower(out)
}

// isSeriesSignal is the episode-count predicate: more than one known episode
// or any populated server episode list marks the record as multi-episode.
func isSeriesSignal(totalEpisodes int, hasServerEpisodes bool) bool {
	return totalEpisodes > 1 || hasServerEpisodes
}

// isAnimationSignal is the keyword predicate over the record's textual
// fields.
func isAnimationSignal(title, synopsis string, genres []string) bool {
	haystack := foldText(title) + "\n" + foldText(synopsis) + "\n" + foldText(strings.Join(genres, " "))
	for _, term := range animationTerms {
		if strings.Contains(haystack, term) {
			return true
		}
	}
	return false
}

// classifyKind assigns the canonical content kind for one upstream record.
// The animation check runs before any other signal is honored: a record
// hinted "series" whose genres carry "Hoạt Hình" is animation, not series.
// Unrecognized kind hints fall through to the heuristics instead of being
// trusted.
func classifyKind(rawKind, title, synopsis string, genres []string, totalEpisodes int, hasServerEpisodes bool) models.ContentKind {
	hint, hintKnown := kindHints[strings.ToLower(strings.TrimSpace(rawKind))]

	if hintKnown && hint == models.KindAnimation {
		return models.KindAnimation
	}
	if isAnimationSignal(title, synopsis, genres) {
		return models.KindAnimation
	}
	if hintKnown {
		return hint
	}
	if isSeriesSignal(totalEpisodes, hasServerEpisodes) {
		return models.KindSeries
	}
	return models.KindMovie
}
