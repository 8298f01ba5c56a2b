package catalog

// Logical feeds and their fallback chains. Every feed is an ordered list of
// source descriptors walked by one chain executor in service.go — the tiered
// retry control flow exists exactly once, the feeds differ only in data.

// FeedKind names one logical listing feed.
type FeedKind string

const (
	FeedNew     FeedKind = "new"
	FeedMovies  FeedKind = "movies"
	FeedSeries  FeedKind = "series"
	FeedTVShows FeedKind = "tvshows"
	FeedAnime   FeedKind = "anime"
	FeedCinema  FeedKind = "cinema"
)

// ParseFeedKind maps a request path segment to a feed kind.
func ParseFeedKind(s string) (FeedKind, bool) {
	switch FeedKind(s) {
	case FeedNew, FeedMovies, FeedSeries, FeedTVShows, FeedAnime, FeedCinema:
		return FeedKind(s), true
	}
	return "", false
}

// CuratedKind names one ranked, truncated view over the raw feeds.
type CuratedKind string

const (
	CuratedTrending          CuratedKind = "trending"
	CuratedHot               CuratedKind = "hot"
	CuratedRecentlyCompleted CuratedKind = "recently-completed"
	CuratedPopularMovies     CuratedKind = "popular-movies"
	CuratedPopularSeries     CuratedKind = "popular-series"
	CuratedPopularAnime      CuratedKind = "popular-anime"
)

// ParseCuratedKind maps a request path segment to a curated feed kind.
func ParseCuratedKind(s string) (CuratedKind, bool) {
	switch CuratedKind(s) {
	case CuratedTrending, CuratedHot, CuratedRecentlyCompleted,
		CuratedPopularMovies, CuratedPopularSeries, CuratedPopularAnime:
		return CuratedKind(s), true
	}
	return "", false
}

type sourceKind int

const (
	srcLegacy sourceKind = iota // legacy envelope, top-level items
	srcV1                      // v1 envelope, data.items
	srcSearch                  // keyword search, v1 envelope
)

// feedSource is one fallback tier: which endpoint shape to hit and, for
// legacy scans, an optional record filter applied before transformation.
type feedSource struct {
	label   string
	kind    sourceKind
	path    string // v1 path after /v1/api
	keyword string // search keyword
	filter  func(upstreamItem) bool
}

var feedChains = map[FeedKind][]feedSource{
	FeedNew: {
		{label: "new-releases", kind: srcLegacy},
		{label: "search-phim-moi", kind: srcSearch, keyword: "phim mới"},
	},
	FeedMovies: {
		{label: "list-phim-le", kind: srcV1, path: "/danh-sach/phim-le"},
		{label: "search-phim-le", kind: srcSearch, keyword: "phim lẻ"},
	},
	FeedSeries: {
		{label: "list-phim-bo", kind: srcV1, path: "/danh-sach/phim-bo"},
		{label: "search-phim-bo", kind: srcSearch, keyword: "phim bộ"},
	},
	FeedTVShows: {
		{label: "list-tv-shows", kind: srcV1, path: "/danh-sach/tv-shows"},
		{label: "search-tv-shows", kind: srcSearch, keyword: "tv show"},
	},
	FeedAnime: {
		{label: "list-hoat-hinh", kind: srcV1, path: "/danh-sach/hoat-hinh"},
		{label: "genre-hoat-hinh", kind: srcV1, path: "/the-loai/hoat-hinh"},
		{label: "search-anime", kind: srcSearch, keyword: "anime"},
	},
	FeedCinema: {
		{label: "list-chieu-rap", kind: srcV1, path: "/danh-sach/phim-chieu-rap"},
		{label: "scan-new-cinema", kind: srcLegacy, filter: func(it upstreamItem) bool { return it.Cinema }},
	},
}

// countryNames maps the country slugs the UI links to onto the display names
// used for the keyword-search half of the by-country union.
var countryNames = map[string]string{
	"han-quoc":    "Hàn Quốc",
	"trung-quoc":  "Trung Quốc",
	"nhat-ban":    "Nhật Bản",
	"thai-lan":    "Thái Lan",
	"au-my":       "Âu Mỹ",
	"viet-nam":    "Việt Nam",
	"hong-kong":   "Hồng Kông",
	"dai-loan":    "Đài Loan",
	"an-do":       "Ấn Độ",
	"philippines": "Philippines",
}
