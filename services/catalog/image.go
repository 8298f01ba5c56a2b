package catalog

import (
	"strings"
)

// Upstream artwork arrives in every shape imaginable: absolute URLs on one of
// two CDN hosts, rootless filenames, rooted paths, empty strings and the
// literal text "null". Everything funnels through imageNormalizer so the rest
// of the pipeline only ever sees absolute, query-free HTTPS references.

const (
	defaultImageOrigin = "https://phimimg.com"
	defaultUploadPath  = "upload/vod/"
	defaultBannerURL   = "https://phimimg.com/upload/vod/default-banner.jpg"
	alternateImageHost = "img.phimapi.com"
	canonicalImageHost = "phimimg.com"
)

type imageNormalizer struct {
	origin     string // scheme+host prefixed onto rooted/relative paths
	uploadPath string // well-known upload segment, e.g. "upload/vod/"
	banner     string // fixed fallback for unusable input
	hosts      []string
}

func newImageNormalizer(origin, uploadPath, banner string) *imageNormalizer {
	if origin == "" {
		origin = defaultImageOrigin
	}
	if uploadPath == "" {
		uploadPath = defaultUploadPath
	}
	if banner == "" {
		banner = defaultBannerURL
	}
	return &imageNormalizer{
		origin:     strings.TrimRight(origin, "/"),
		uploadPath: strings.Trim(uploadPath, "/") + "/",
		banner:     banner,
		hosts:      []string{canonicalImageHost, alternateImageHost},
	}
}

// normalize rewrites an arbitrary upstream image reference into an absolute
// URL. It never returns an empty string; unusable input yields the fixed
// default banner.
func (n *imageNormalizer) normalize(ref string) string {
	ref = strings.TrimSpace(ref)
	switch strings.ToLower(ref) {
	case "", "null", "undefined":
		return n.banner
	}

	if host, ok := n.knownHost(ref); ok {
		// Already on a CDN host: strip query string, force https.
		if idx := strings.IndexByte(ref, '?'); idx >= 0 {
			ref = ref[:idx]
		}
		if i := strings.Index(ref, host); i >= 0 {
			ref = "https://" + ref[i:]
		}
		return ref
	}

	// Foreign absolute URLs are not rewritten onto our CDN; anything else
	// with a scheme that is not a known host is unusable.
	if strings.Contains(ref, "://") {
		return n.banner
	}

	if strings.HasPrefix(ref, "/") {
		return n.origin + ref
	}

	// Bare filename or relative path. Only prefix the upload segment when the
	// reference does not already carry it.
	if strings.Contains(ref, ".") {
		if strings.Contains(ref, n.uploadPath) {
			return n.origin + "/" + strings.TrimLeft(ref, "/")
		}
		return n.origin + "/" + n.uploadPath + ref
	}

	return n.banner
}

func (n *imageNormalizer) knownHost(ref string) (string, bool) {
	for _, h := range n.hosts {
		if strings.Contains(ref, h) {
			return h, true
		}
	}
	return "", false
}

// toWebpURL is a named pass-through kept for a future CDN re-encoding step.
// It must stay an identity until a real conversion endpoint exists.
func toWebpURL(u string) string {
	return u
}
