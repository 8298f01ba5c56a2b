package catalog

import (
	"regexp"
	"strings"

	"github.com/mozillazg/go-unidecode"

	"phimstream/models"
)

const placeholderSynopsis = "Nội dung đang được cập nhật."

// transformItem builds one canonical content item from one raw upstream
// record. It returns nil for structurally unusable records (no id, slug or
// title to hang anything on); callers drop those from the batch and keep the
// siblings. Defaults are always filled in — an item is either nil or fully
// formed.
func transformItem(n *imageNormalizer, raw upstreamItem) *models.ContentItem {
	id := strings.TrimSpace(raw.ID)
	slug := strings.TrimSpace(raw.Slug)
	if id == "" {
		id = slug
	}
	if id == "" || strings.TrimSpace(raw.Name) == "" {
		return nil
	}

	synopsis := strings.TrimSpace(stripTags(raw.Content))
	if synopsis == "" {
		synopsis = placeholderSynopsis
	}

	country := "N/A"
	if len(raw.Country) > 0 && strings.TrimSpace(raw.Country[0].Name) != "" {
		country = raw.Country[0].Name
	}

	genres := make([]string, 0, len(raw.Category))
	categories := make([]models.Category, 0, len(raw.Category))
	seenSlugs := make(map[string]bool, len(raw.Category))
	for _, cat := range raw.Category {
		if strings.TrimSpace(cat.Name) == "" {
			continue
		}
		genres = append(genres, cat.Name)
		catSlug := cat.Slug
		if catSlug == "" {
			catSlug = slugify(cat.Name)
		}
		if seenSlugs[catSlug] {
			continue
		}
		seenSlugs[catSlug] = true
		categories = append(categories, models.Category{ID: cat.ID, Name: cat.Name, Slug: catSlug})
	}

	duration := parseDurationMinutes(raw.Time)
	current := extractCurrentEpisode(raw.EpisodeCurrent)
	total := extractTotalEpisodes(raw.EpisodeCurrent, raw.EpisodeTotal)
	if current > total {
		total = current
	}

	quality := strings.TrimSpace(raw.Quality)
	if quality == "" {
		quality = "HD"
	}

	kind := classifyKind(raw.Type, raw.Name, synopsis, genres, total, hasServerEpisodes(raw.Episodes))

	item := &models.ContentItem{
		ID:              id,
		Title:           raw.Name,
		OriginalTitle:   raw.OriginName,
		Slug:            slug,
		Synopsis:        synopsis,
		PosterURL:       toWebpURL(n.normalize(raw.PosterURL)),
		ThumbnailURL:    toWebpURL(n.normalize(raw.ThumbURL)),
		BackdropURL:     toWebpURL(n.normalize(raw.ThumbURL)),
		RatingPrimary:   float64(raw.Rating),
		ReleaseYear:     int(raw.Year),
		CountryName:     country,
		GenreNames:      genres,
		Categories:      categories,
		DurationMinutes: duration,
		QualityLabel:    quality,
		IsCompleted:     strings.EqualFold(strings.TrimSpace(raw.Status), "completed") || completedRe.MatchString(raw.EpisodeCurrent),
		TotalEpisodes:   total,
		CurrentEpisode:  current,
		Servers:         transformServers(n, raw.Episodes, raw.ThumbURL, duration),
		ViewCount:       int(raw.View),
		Kind:            kind,
		RawUpstreamKind: raw.Type,
		TrailerURL:      raw.TrailerURL,
		Cast:            []string(raw.Actor),
	}
	if len(raw.Director) > 0 {
		item.Director = strings.Join(raw.Director, ", ")
	}
	if raw.TMDB != nil {
		item.VoteAverage = float64(raw.TMDB.VoteAverage)
		item.VoteCount = int(raw.TMDB.VoteCount)
		if item.RatingAlt == 0 {
			item.RatingAlt = float64(raw.TMDB.VoteAverage)
		}
	}
	return item
}

// transformDetailItem builds the detail variant: the full-detail synopsis
// wins over the summary one, and the standalone episodes array from the
// detail envelope replaces whatever the record carried inline.
func transformDetailItem(n *imageNormalizer, raw upstreamItem, servers []upstreamServer) *models.ContentItem {
	if len(servers) > 0 {
		raw.Episodes = servers
	}
	return transformItem(n, raw)
}

var tagRe = regexp.MustCompile(`<[^>]*>`)

// stripTags removes the HTML markup the upstream embeds in synopsis text.
func stripTags(s string) string {
	if !strings.Contains(s, "<") {
		return s
	}
	return tagRe.ReplaceAllString(s, "")
}

var nonSlugRe = regexp.MustCompile(`[^a-z0-9]+`)

// slugify derives an ASCII slug from a (usually Vietnamese) display name,
// used when upstream genre entries arrive without one.
func slugify(name string) string {
	s := strings.ToLower(unidecode.Unidecode(name))
	s = nonSlugRe.ReplaceAllString(s, "-")
	return strings.Trim(s, "-")
}
