package catalog

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestExtractCurrentEpisode(t *testing.T) {
	assert.Equal(t, 34, extractCurrentEpisode("Tập 34"))
	assert.Equal(t, 5, extractCurrentEpisode("tập 5"))
	assert.Equal(t, 6, extractCurrentEpisode("Hoàn Tất (6/6)"))
	assert.Equal(t, 16, extractCurrentEpisode("Hoàn Tất (16/16)"))
	assert.Equal(t, 0, extractCurrentEpisode("Full"))
	assert.Equal(t, 0, extractCurrentEpisode(""))
}

// The (a/b) completed form is checked before the bare "Tập n" form; a string
// carrying both yields the completed total.
func TestExtractCurrentEpisodePrecedence(t *testing.T) {
	assert.Equal(t, 12, extractCurrentEpisode("Tập 11 - Hoàn Tất (12/12)"))
}

func TestExtractTotalEpisodes(t *testing.T) {
	// Explicit numeric total field wins.
	assert.Equal(t, 16, extractTotalEpisodes("Tập 3", "16"))
	assert.Equal(t, 16, extractTotalEpisodes("", "16 Tập"))

	// Fallback to the display string.
	assert.Equal(t, 6, extractTotalEpisodes("Hoàn Tất (6/6)", ""))
	assert.Equal(t, 34, extractTotalEpisodes("Tập 34", ""))
	assert.Equal(t, 34, extractTotalEpisodes("Tập 34", "0"))

	// Nothing usable.
	assert.Equal(t, 0, extractTotalEpisodes("Full", ""))
	assert.Equal(t, 0, extractTotalEpisodes("", ""))
}

func TestParseDurationMinutes(t *testing.T) {
	assert.Equal(t, 117, parseDurationMinutes("117 Phút"))
	assert.Equal(t, 45, parseDurationMinutes("45 phút/tập"))
	assert.Equal(t, defaultDurationMinutes, parseDurationMinutes(""))
	assert.Equal(t, defaultDurationMinutes, parseDurationMinutes("Đang cập nhật"))
}

func TestFirstInt(t *testing.T) {
	assert.Equal(t, 3, firstInt("Tập 03", 1))
	assert.Equal(t, 1100, firstInt("1100", 1))
	assert.Equal(t, 1, firstInt("Special", 1))
}
