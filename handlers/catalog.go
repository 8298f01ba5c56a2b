package handlers

import (
	"context"
	"encoding/json"
	"net/http"
	"strconv"
	"strings"

	"github.com/gorilla/mux"

	"phimstream/models"
	"phimstream/services/catalog"
)

type catalogService interface {
	ListFeed(ctx context.Context, kind catalog.FeedKind, page int) []models.ContentItem
	ListByCountry(ctx context.Context, countrySlug string, page int) []models.ContentItem
	Search(ctx context.Context, keyword string, page int) []models.ContentItem
	GetDetail(ctx context.Context, slug string) *models.ContentItem
	GetCuratedFeed(ctx context.Context, kind catalog.CuratedKind, page int) []models.ContentItem
	ResolveByIDs(ctx context.Context, ids []string) []models.ContentItem
}

var _ catalogService = (*catalog.Service)(nil)

// CatalogHandler exposes the aggregation engine to page renderers. Feeds
// always answer 200 with an item array — an empty array is a legitimate
// "nothing to show" state, never an error page.
type CatalogHandler struct {
	Service catalogService
}

func NewCatalogHandler(s catalogService) *CatalogHandler {
	return &CatalogHandler{Service: s}
}

// FeedResponse wraps feed items for the JSON API.
type FeedResponse struct {
	Items []models.ContentItem `json:"items"`
	Page  int                  `json:"page"`
}

func pageParam(r *http.Request) int {
	page, err := strconv.Atoi(r.URL.Query().Get("page"))
	if err != nil || page < 1 {
		return 1
	}
	return page
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

// Feed handles GET /api/feeds/{kind}?page=N.
func (h *CatalogHandler) Feed(w http.ResponseWriter, r *http.Request) {
	kind, ok := catalog.ParseFeedKind(mux.Vars(r)["kind"])
	if !ok {
		writeJSON(w, http.StatusNotFound, map[string]string{"error": "unknown feed"})
		return
	}
	page := pageParam(r)
	items := h.Service.ListFeed(r.Context(), kind, page)
	writeJSON(w, http.StatusOK, FeedResponse{Items: items, Page: page})
}

// Country handles GET /api/feeds/country/{slug}?page=N.
func (h *CatalogHandler) Country(w http.ResponseWriter, r *http.Request) {
	slug := strings.TrimSpace(mux.Vars(r)["slug"])
	if slug == "" {
		writeJSON(w, http.StatusNotFound, map[string]string{"error": "unknown country"})
		return
	}
	page := pageParam(r)
	items := h.Service.ListByCountry(r.Context(), slug, page)
	writeJSON(w, http.StatusOK, FeedResponse{Items: items, Page: page})
}

// Curated handles GET /api/curated/{kind}?page=N.
func (h *CatalogHandler) Curated(w http.ResponseWriter, r *http.Request) {
	kind, ok := catalog.ParseCuratedKind(mux.Vars(r)["kind"])
	if !ok {
		writeJSON(w, http.StatusNotFound, map[string]string{"error": "unknown curated feed"})
		return
	}
	page := pageParam(r)
	items := h.Service.GetCuratedFeed(r.Context(), kind, page)
	writeJSON(w, http.StatusOK, FeedResponse{Items: items, Page: page})
}

// Search handles GET /api/search?keyword=K&page=N.
func (h *CatalogHandler) Search(w http.ResponseWriter, r *http.Request) {
	keyword := strings.TrimSpace(r.URL.Query().Get("keyword"))
	if keyword == "" {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "keyword is required"})
		return
	}
	page := pageParam(r)
	items := h.Service.Search(r.Context(), keyword, page)
	writeJSON(w, http.StatusOK, FeedResponse{Items: items, Page: page})
}

// Detail handles GET /api/content/{slug}.
func (h *CatalogHandler) Detail(w http.ResponseWriter, r *http.Request) {
	slug := strings.TrimSpace(mux.Vars(r)["slug"])
	item := h.Service.GetDetail(r.Context(), slug)
	if item == nil {
		writeJSON(w, http.StatusNotFound, map[string]string{"error": "content not found"})
		return
	}
	writeJSON(w, http.StatusOK, item)
}

// ResolveRequest is the body for POST /api/content/resolve — the surface
// watchlist resolvers use to turn stored identifiers into full records.
type ResolveRequest struct {
	IDs []string `json:"ids"`
}

// Resolve handles POST /api/content/resolve. Unresolvable ids are silently
// omitted from the response.
func (h *CatalogHandler) Resolve(w http.ResponseWriter, r *http.Request) {
	var body ResolveRequest
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	if err := dec.Decode(&body); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid request body"})
		return
	}
	if len(body.IDs) == 0 {
		writeJSON(w, http.StatusOK, FeedResponse{Items: []models.ContentItem{}})
		return
	}
	items := h.Service.ResolveByIDs(r.Context(), body.IDs)
	writeJSON(w, http.StatusOK, FeedResponse{Items: items})
}

// RegisterRoutes attaches the catalog endpoints to the router.
func (h *CatalogHandler) RegisterRoutes(r *mux.Router) {
	r.HandleFunc("/api/feeds/country/{slug}", h.Country).Methods(http.MethodGet)
	r.HandleFunc("/api/feeds/{kind}", h.Feed).Methods(http.MethodGet)
	r.HandleFunc("/api/curated/{kind}", h.Curated).Methods(http.MethodGet)
	r.HandleFunc("/api/search", h.Search).Methods(http.MethodGet)
	r.HandleFunc("/api/content/resolve", h.Resolve).Methods(http.MethodPost)
	r.HandleFunc("/api/content/{slug}", h.Detail).Methods(http.MethodGet)
}
