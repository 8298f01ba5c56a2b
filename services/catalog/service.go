package catalog

import (
	"context"
	"crypto/sha1"
	"encoding/hex"
	"fmt"
	"log"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/sourcegraph/conc/pool"
	"github.com/spf13/afero"

	"phimstream/models"
)

// Service is the catalog aggregation engine: it walks per-feed fallback
// chains against the upstream catalog, normalizes every record into a
// models.ContentItem, ranks curated feeds and enriches hero items with full
// detail. All methods are safe for concurrent use; the service holds no
// mutable state beyond the response cache.
type Service struct {
	client  *upstreamClient
	images  *imageNormalizer
	cache   *fileCache
	jitter  JitterFunc
	timeout time.Duration
}

// Options configures a Service. Zero values select production defaults;
// tests inject fake transports, MemMapFs caches and deterministic jitter.
type Options struct {
	BaseURL        string
	HTTPClient     *http.Client
	ImageOrigin    string
	ImageUpload    string
	DefaultBanner  string
	CacheFS        afero.Fs
	CacheDir       string
	CacheTTL       time.Duration
	Jitter         JitterFunc
	RequestTimeout time.Duration
}

// Detail-enrichment bounds: only the first enrichCap items of a page get a
// detail fetch, at most enrichWorkers at a time.
const (
	enrichCap     = 5
	enrichWorkers = 5
)

func NewService(opts Options) *Service {
	timeout := opts.RequestTimeout
	if timeout <= 0 {
		timeout = 15 * time.Second
	}
	cacheDir := opts.CacheDir
	if cacheDir == "" {
		cacheDir = "cache/catalog"
	}
	cacheTTL := opts.CacheTTL
	if cacheTTL <= 0 {
		cacheTTL = 30 * time.Minute
	}
	jitter := opts.Jitter
	if jitter == nil {
		jitter = defaultJitter
	}
	return &Service{
		client:  newUpstreamClient(opts.BaseURL, opts.HTTPClient),
		images:  newImageNormalizer(opts.ImageOrigin, opts.ImageUpload, opts.DefaultBanner),
		cache:   newFileCache(opts.CacheFS, cacheDir, cacheTTL),
		jitter:  jitter,
		timeout: timeout,
	}
}

// ClearCache drops every cached feed response.
func (s *Service) ClearCache() error {
	return s.cache.clear()
}

func cacheKey(parts ...string) string {
	h := sha1.Sum([]byte(strings.Join(parts, ":")))
	return hex.EncodeToString(h[:])
}

// fetchSource executes one fallback tier against the upstream.
func (s *Service) fetchSource(ctx context.Context, src feedSource, page int) ([]upstreamItem, error) {
	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	var (
		items []upstreamItem
		err   error
	)
	switch src.kind {
	case srcLegacy:
		items, err = s.client.listNewReleases(ctx, page)
	case srcV1:
		items, err = s.client.listV1(ctx, src.path, page)
	case srcSearch:
		items, err = s.client.search(ctx, src.keyword, page)
	default:
		return nil, fmt.Errorf("unknown source kind %d", src.kind)
	}
	if err != nil {
		return nil, err
	}
	if src.filter != nil {
		kept := items[:0]
		for _, it := range items {
			if src.filter(it) {
				kept = append(kept, it)
			}
		}
		items = kept
	}
	return items, nil
}

// transformBatch normalizes a raw batch, dropping unusable records without
// failing the siblings. Upstream order is preserved.
func (s *Service) transformBatch(raw []upstreamItem) []models.ContentItem {
	out := make([]models.ContentItem, 0, len(raw))
	for _, r := range raw {
		if item := transformItem(s.images, r); item != nil {
			out = append(out, *item)
		}
	}
	return out
}

// runChain walks the fallback tiers in order: a failed or empty tier is
// logged and the next one attempted; the first tier yielding usable items
// wins. Exhaustion returns an empty slice, never an error, so callers can
// render an empty state.
func (s *Service) runChain(ctx context.Context, feed string, chain []feedSource, page int) []models.ContentItem {
	for _, src := range chain {
		raw, err := s.fetchSource(ctx, src, page)
		if err != nil {
			log.Printf("[catalog] feed=%s tier=%s page=%d failed: %v", feed, src.label, page, err)
			continue
		}
		if len(raw) == 0 {
			log.Printf("[catalog] feed=%s tier=%s page=%d empty; trying next tier", feed, src.label, page)
			continue
		}
		if items := s.transformBatch(raw); len(items) > 0 {
			return items
		}
		log.Printf("[catalog] feed=%s tier=%s page=%d yielded no usable records", feed, src.label, page)
	}
	return []models.ContentItem{}
}

// ListFeed returns one page of a logical feed. A total upstream outage
// yields an empty slice.
func (s *Service) ListFeed(ctx context.Context, kind FeedKind, page int) []models.ContentItem {
	if page < 1 {
		page = 1
	}
	chain, ok := feedChains[kind]
	if !ok {
		log.Printf("[catalog] unknown feed kind %q", kind)
		return []models.ContentItem{}
	}

	key := cacheKey("feed", string(kind), strconv.Itoa(page))
	var cached []models.ContentItem
	if ok, _ := s.cache.get(key, &cached); ok && len(cached) > 0 {
		return cached
	}

	items := s.runChain(ctx, string(kind), chain, page)
	if len(items) > 0 {
		_ = s.cache.set(key, items)
	}
	return items
}

// ListByCountry returns one page of titles for a country. The dedicated
// country endpoint is tried first; when it fails or comes back empty the
// feed unions a keyword search on the country's display name with a scan of
// the general new-releases feed filtered to that country — breadth beats
// picking one fallback here. Search results order first in the union.
func (s *Service) ListByCountry(ctx context.Context, countrySlug string, page int) []models.ContentItem {
	if page < 1 {
		page = 1
	}
	countrySlug = strings.TrimSpace(strings.ToLower(countrySlug))
	if countrySlug == "" {
		return []models.ContentItem{}
	}

	key := cacheKey("country", countrySlug, strconv.Itoa(page))
	var cached []models.ContentItem
	if ok, _ := s.cache.get(key, &cached); ok && len(cached) > 0 {
		return cached
	}

	primary := feedSource{label: "country-" + countrySlug, kind: srcV1, path: "/quoc-gia/" + countrySlug}
	if raw, err := s.fetchSource(ctx, primary, page); err == nil && len(raw) > 0 {
		if items := s.transformBatch(raw); len(items) > 0 {
			_ = s.cache.set(key, items)
			return items
		}
	} else if err != nil {
		log.Printf("[catalog] country=%s primary failed: %v", countrySlug, err)
	} else {
		log.Printf("[catalog] country=%s primary empty; running union fallback", countrySlug)
	}

	// Union fallback: both halves fetched in parallel, individual failures
	// tolerated.
	name := countryNames[countrySlug]
	if name == "" {
		name = strings.ReplaceAll(countrySlug, "-", " ")
	}
	var searchRaw, scanRaw []upstreamItem
	p := pool.New().WithContext(ctx)
	p.Go(func(ctx context.Context) error {
		raw, err := s.fetchSource(ctx, feedSource{label: "country-search", kind: srcSearch, keyword: name}, page)
		if err != nil {
			log.Printf("[catalog] country=%s search fallback failed: %v", countrySlug, err)
			return nil
		}
		searchRaw = raw
		return nil
	})
	p.Go(func(ctx context.Context) error {
		raw, err := s.fetchSource(ctx, feedSource{
			label: "country-scan",
			kind:  srcLegacy,
			filter: func(it upstreamItem) bool {
				for _, c := range it.Country {
					if c.Slug == countrySlug {
						return true
					}
				}
				return false
			},
		}, page)
		if err != nil {
			log.Printf("[catalog] country=%s scan fallback failed: %v", countrySlug, err)
			return nil
		}
		scanRaw = raw
		return nil
	})
	_ = p.Wait()

	merged := mergeDedupe(s.transformBatch(searchRaw), s.transformBatch(scanRaw))
	if len(merged) > 0 {
		_ = s.cache.set(key, merged)
	}
	return merged
}

// mergeDedupe concatenates item slices, keeping the first occurrence per ID.
func mergeDedupe(groups ...[]models.ContentItem) []models.ContentItem {
	seen := make(map[string]bool)
	out := []models.ContentItem{}
	for _, group := range groups {
		for _, it := range group {
			if seen[it.ID] {
				continue
			}
			seen[it.ID] = true
			out = append(out, it)
		}
	}
	return out
}

// Search returns one page of keyword-search results. Empty on failure.
func (s *Service) Search(ctx context.Context, keyword string, page int) []models.ContentItem {
	keyword = strings.TrimSpace(keyword)
	if keyword == "" {
		return []models.ContentItem{}
	}
	if page < 1 {
		page = 1
	}
	raw, err := s.fetchSource(ctx, feedSource{label: "search", kind: srcSearch, keyword: keyword}, page)
	if err != nil {
		log.Printf("[catalog] search %q failed: %v", keyword, err)
		return []models.ContentItem{}
	}
	return s.transformBatch(raw)
}

// GetDetail fetches the full record for a slug. It returns nil on total
// failure; callers map that to a not-found presentation.
func (s *Service) GetDetail(ctx context.Context, slug string) *models.ContentItem {
	slug = strings.TrimSpace(slug)
	if slug == "" {
		return nil
	}

	key := cacheKey("detail", slug)
	var cached models.ContentItem
	if ok, _ := s.cache.get(key, &cached); ok && cached.ID != "" {
		return &cached
	}

	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()
	env, err := s.client.detail(ctx, slug)
	if err != nil {
		log.Printf("[catalog] detail %s failed: %v", slug, err)
		return nil
	}
	item := transformDetailItem(s.images, env.Movie, env.Episodes)
	if item == nil {
		log.Printf("[catalog] detail %s unusable", slug)
		return nil
	}
	_ = s.cache.set(key, *item)
	return item
}

// GetCuratedFeed aggregates source pages of the new-releases feed, ranks
// them per the curated spec and — for hero feeds — swaps the leading items
// for their full-detail versions.
func (s *Service) GetCuratedFeed(ctx context.Context, kind CuratedKind, page int) []models.ContentItem {
	spec, ok := curatedSpecs[kind]
	if !ok {
		log.Printf("[catalog] unknown curated kind %q", kind)
		return []models.ContentItem{}
	}
	if page < 1 {
		page = 1
	}

	// Aggregate enough raw pages to have something to rank. Ordering may
	// vary across calls when view counts are missing (jittered scores).
	var agg []models.ContentItem
	for i := 0; i < spec.sourcePages; i++ {
		agg = append(agg, s.ListFeed(ctx, FeedNew, page+i)...)
	}
	items := rankItems(mergeDedupe(agg), spec, s.jitter)

	if spec.enrichDetails {
		s.enrichWithDetails(ctx, items)
	}
	return items
}

// enrichWithDetails replaces up to the first enrichCap items with their
// full-detail records, fetched concurrently. A failed detail fetch keeps the
// summary item, so the returned count never shrinks.
func (s *Service) enrichWithDetails(ctx context.Context, items []models.ContentItem) {
	n := len(items)
	if n > enrichCap {
		n = enrichCap
	}
	p := pool.New().WithMaxGoroutines(enrichWorkers)
	for i := 0; i < n; i++ {
		p.Go(func() {
			if detail := s.GetDetail(ctx, items[i].Slug); detail != nil {
				items[i] = *detail
			}
		})
	}
	p.Wait()
}

// ResolveByIDs resolves content identifiers (slugs, as stored by watchlist
// consumers) into full records, concurrently and best-effort: unresolvable
// ids are omitted, never failing the batch. Input order is preserved for the
// ids that resolve.
func (s *Service) ResolveByIDs(ctx context.Context, ids []string) []models.ContentItem {
	resolved := make([]*models.ContentItem, len(ids))
	p := pool.New().WithMaxGoroutines(enrichWorkers)
	for i, id := range ids {
		p.Go(func() {
			resolved[i] = s.GetDetail(ctx, id)
		})
	}
	p.Wait()

	out := make([]models.ContentItem, 0, len(ids))
	for _, item := range resolved {
		if item != nil {
			out = append(out, *item)
		}
	}
	return out
}
