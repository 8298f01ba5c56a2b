package catalog

import (
	"regexp"
	"strconv"
	"strings"
)

// Episode progress arrives as free-form Vietnamese display strings:
// "Tập 12" (currently at episode 12), "Hoàn Tất (16/16)" (completed, 16 of
// 16) or "Full" for single-episode titles. The completed form is checked
// first; when both patterns could match, the (a/b) total wins.

var (
	completedRe = regexp.MustCompile(`(?i)Hoàn\s*Tất\s*\((\d+)\s*/\s*(\d+)\)`)
	episodeRe   = regexp.MustCompile(`(?i)Tập\s*(\d+)`)
	durationRe  = regexp.MustCompile(`(\d+)\s*(?i:phút)`)
	firstIntRe  = regexp.MustCompile(`\d+`)
)

const defaultDurationMinutes = 120

// extractCurrentEpisode parses the current-episode display string. Returns 0
// when the string carries no episode information.
func extractCurrentEpisode(raw string) int {
	if m := completedRe.FindStringSubmatch(raw); m != nil {
		// Completed series report (current/total); total stands in as the
		// current episode.
		n, _ := strconv.Atoi(m[2])
		return n
	}
	if m := episodeRe.FindStringSubmatch(raw); m != nil {
		n, _ := strconv.Atoi(m[1])
		return n
	}
	return 0
}

// extractTotalEpisodes derives the episode total, preferring the explicit
// upstream total field when it parses to a positive number. The display
// string is the fallback: the (a/b) total first, then the bare "Tập n" value
// as a lower bound. Returns 0 when nothing usable is present.
func extractTotalEpisodes(raw, totalField string) int {
	if n := leadingInt(totalField); n > 0 {
		return n
	}
	if m := completedRe.FindStringSubmatch(raw); m != nil {
		n, _ := strconv.Atoi(m[2])
		return n
	}
	if m := episodeRe.FindStringSubmatch(raw); m != nil {
		n, _ := strconv.Atoi(m[1])
		return n
	}
	return 0
}

// parseDurationMinutes parses the localized "117 Phút" runtime string,
// defaulting to 120 minutes when absent or unparseable.
func parseDurationMinutes(raw string) int {
	if m := durationRe.FindStringSubmatch(raw); m != nil {
		if n, err := strconv.Atoi(m[1]); err == nil && n > 0 {
			return n
		}
	}
	return defaultDurationMinutes
}

// firstInt extracts the first integer substring, or def when none exists.
// Used for episode numbers in display names like "Tập 03" or "03".
func firstInt(s string, def int) int {
	if m := firstIntRe.FindString(s); m != "" {
		if n, err := strconv.Atoi(m); err == nil {
			return n
		}
	}
	return def
}

// leadingInt parses a field that should be numeric but is frequently a
// quoted number with stray whitespace.
func leadingInt(s string) int {
	s = strings.TrimSpace(s)
	if m := firstIntRe.FindString(s); m != "" && strings.HasPrefix(s, m) {
		n, _ := strconv.Atoi(m)
		return n
	}
	return 0
}
