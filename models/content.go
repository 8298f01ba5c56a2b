package models

// ContentKind is the canonical classification of a catalog item.
type ContentKind string

const (
	KindMovie     ContentKind = "movie"
	KindSeries    ContentKind = "series"
	KindAnimation ContentKind = "animation"
)

// Category is a genre entry normalized from the upstream genre list.
type Category struct {
	ID   string `json:"id"`
	Name string `json:"name"`
	Slug string `json:"slug"`
}

// Episode is a single playable episode inside a server group.
type Episode struct {
	ID              string `json:"id"`
	EpisodeNumber   int    `json:"episodeNumber"`
	Title           string `json:"title"`
	DurationSeconds int    `json:"durationSeconds"`
	VideoURL        string `json:"videoUrl"`
	ThumbnailURL    string `json:"thumbnailUrl"`
}

// ServerGroup bundles the episodes hosted by one upstream playback source.
type ServerGroup struct {
	ServerName string    `json:"serverName"`
	Episodes   []Episode `json:"episodes"`
}

// ContentItem is the normalized catalog unit returned to all consumers.
// It is built fresh from every upstream response and treated as a value
// once returned; nothing mutates it afterwards.
type ContentItem struct {
	ID            string  `json:"id"`
	Title         string  `json:"title"`
	OriginalTitle string  `json:"originalTitle,omitempty"`
	Slug          string  `json:"slug"`
	Synopsis      string  `json:"synopsis"` // never empty, placeholder when upstream has none
	PosterURL     string  `json:"posterUrl"`
	ThumbnailURL  string  `json:"thumbnailUrl"`
	BackdropURL   string  `json:"backdropUrl"`
	RatingPrimary float64 `json:"ratingPrimary"`
	RatingAlt     float64 `json:"ratingAlt,omitempty"`
	VoteAverage   float64 `json:"voteAverage,omitempty"`
	VoteCount     int     `json:"voteCount,omitempty"`
	ReleaseYear   int     `json:"releaseYear"`
	CountryName   string  `json:"countryName"` // "N/A" when upstream omits it

	GenreNames []string   `json:"genreNames"` // upstream order preserved
	Categories []Category `json:"categories"` // deduplicated by slug

	DurationMinutes int    `json:"durationMinutes"` // defaults to 120
	QualityLabel    string `json:"qualityLabel"`    // defaults to "HD"

	IsCompleted    bool `json:"isCompleted"`
	TotalEpisodes  int  `json:"totalEpisodes,omitempty"`
	CurrentEpisode int  `json:"currentEpisode,omitempty"`

	Servers []ServerGroup `json:"servers"`

	ViewCount int `json:"viewCount"`

	Kind            ContentKind `json:"kind"`
	RawUpstreamKind string      `json:"rawUpstreamKind,omitempty"` // diagnostics only

	TrailerURL string   `json:"trailerUrl,omitempty"`
	Director   string   `json:"director,omitempty"`
	Cast       []string `json:"cast,omitempty"`
}

// IsMultiEpisode reports whether the item carries episode structure.
func (c ContentItem) IsMultiEpisode() bool {
	return c.Kind != KindMovie || c.TotalEpisodes > 1
}
