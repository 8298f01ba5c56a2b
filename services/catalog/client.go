package catalog

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/avast/retry-go/v4"
	"golang.org/x/time/rate"
)

const defaultUpstreamBaseURL = "https://phimapi.com"

// upstreamClient is a thin client for the third-party catalog API. Transient
// failures (network errors, 429, 5xx) are retried with backoff; everything
// else surfaces as an error for the fallback engine to log and step past.
type upstreamClient struct {
	baseURL string
	httpc   *http.Client
	limiter *rate.Limiter
}

func newUpstreamClient(baseURL string, httpc *http.Client) *upstreamClient {
	if baseURL == "" {
		baseURL = defaultUpstreamBaseURL
	}
	if httpc == nil {
		httpc = &http.Client{Timeout: 15 * time.Second}
	}
	return &upstreamClient{
		baseURL: strings.TrimRight(baseURL, "/"),
		httpc:   httpc,
		// The upstream bans aggressive callers; stay under 10 req/s.
		limiter: rate.NewLimiter(rate.Limit(10), 5),
	}
}

// transientStatusError marks HTTP statuses worth retrying.
type transientStatusError struct {
	status string
}

func (e *transientStatusError) Error() string {
	return "upstream transient status: " + e.status
}

func (c *upstreamClient) getJSON(ctx context.Context, path string, q url.Values, v any) error {
	u := c.baseURL + path
	if len(q) > 0 {
		u += "?" + q.Encode()
	}

	return retry.Do(
		func() error {
			if err := c.limiter.Wait(ctx); err != nil {
				return retry.Unrecoverable(err)
			}
			req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
			if err != nil {
				return retry.Unrecoverable(err)
			}
			req.Header.Set("Accept", "application/json")
			resp, err := c.httpc.Do(req)
			if err != nil {
				if ctx.Err() != nil {
					return retry.Unrecoverable(err)
				}
				return err
			}
			defer resp.Body.Close()
			if resp.StatusCode == http.StatusTooManyRequests || resp.StatusCode >= 500 {
				io.Copy(io.Discard, io.LimitReader(resp.Body, 2048))
				return &transientStatusError{status: resp.Status}
			}
			if resp.StatusCode >= 300 {
				body, _ := io.ReadAll(io.LimitReader(resp.Body, 2048))
				return retry.Unrecoverable(fmt.Errorf("upstream get %s failed: %s: %s", u, resp.Status, strings.TrimSpace(string(body))))
			}
			if err := json.NewDecoder(resp.Body).Decode(v); err != nil {
				return retry.Unrecoverable(fmt.Errorf("upstream decode %s: %w", u, err))
			}
			return nil
		},
		retry.Context(ctx),
		retry.Attempts(3),
		retry.Delay(300*time.Millisecond),
		retry.DelayType(retry.BackOffDelay),
		retry.LastErrorOnly(true),
		retry.OnRetry(func(n uint, err error) {
			log.Printf("[upstream] retry %d for %s: %v", n+1, u, err)
		}),
	)
}

// listNewReleases hits the legacy new-releases endpoint (top-level items
// envelope).
func (c *upstreamClient) listNewReleases(ctx context.Context, page int) ([]upstreamItem, error) {
	var env legacyEnvelope
	q := url.Values{"page": {strconv.Itoa(page)}}
	if err := c.getJSON(ctx, "/danh-sach/phim-moi-cap-nhat", q, &env); err != nil {
		return nil, err
	}
	return env.Items, nil
}

// listV1 hits a v1 listing endpoint (data.items envelope). path is the part
// after /v1/api, e.g. "/danh-sach/phim-le" or "/quoc-gia/han-quoc".
func (c *upstreamClient) listV1(ctx context.Context, path string, page int) ([]upstreamItem, error) {
	var env v1Envelope
	q := url.Values{"page": {strconv.Itoa(page)}}
	if err := c.getJSON(ctx, "/v1/api"+path, q, &env); err != nil {
		return nil, err
	}
	return env.Data.Items, nil
}

// search queries the keyword search endpoint.
func (c *upstreamClient) search(ctx context.Context, keyword string, page int) ([]upstreamItem, error) {
	var env v1Envelope
	q := url.Values{
		"keyword": {strings.TrimSpace(keyword)},
		"page":    {strconv.Itoa(page)},
	}
	if err := c.getJSON(ctx, "/v1/api/tim-kiem", q, &env); err != nil {
		return nil, err
	}
	return env.Data.Items, nil
}

// detail fetches the full record for one slug. A "status: false" body is the
// upstream's not-found shape and returns an error so fallbacks can run.
func (c *upstreamClient) detail(ctx context.Context, slug string) (*detailEnvelope, error) {
	slug = strings.TrimSpace(slug)
	if slug == "" {
		return nil, fmt.Errorf("empty slug")
	}
	var env detailEnvelope
	if err := c.getJSON(ctx, "/phim/"+url.PathEscape(slug), nil, &env); err != nil {
		return nil, err
	}
	if !env.Status {
		return nil, fmt.Errorf("upstream detail %s: %s", slug, env.Msg)
	}
	return &env, nil
}
