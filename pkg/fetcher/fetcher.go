// Package fetcher retrieves raw marketplace markup. It is the only
// component that touches the network: search result pages and listing
// detail pages both come through here, with politeness delays and a
// request-rate floor applied before every request.
package fetcher

import (
	"context"
	"errors"
	"fmt"
	"io"
	"math/rand"
	"net"
	"net/http"
	"net/url"
	"time"

	"golang.org/x/time/rate"
)

// defaultMinInterval is the hard floor between any two requests,
// underneath the randomized politeness delay.
const defaultMinInterval = time.Second

// Client fetches document markup sequentially. It is not safe for
// concurrent use; the ingestion pipeline is single-threaded by design.
type Client struct {
	httpClient *http.Client
	userAgent  string
	limiter    *rate.Limiter
}

// New creates a Client with the given per-request timeout and browser
// User-Agent.
func New(timeout time.Duration, userAgent string) *Client {
	return &Client{
		httpClient: &http.Client{Timeout: timeout},
		userAgent:  userAgent,
		limiter:    rate.NewLimiter(rate.Every(defaultMinInterval), 1),
	}
}

// Get fetches rawURL and returns the response body. Failures come back
// as *Error with a Kind the caller can branch on.
func (c *Client) Get(ctx context.Context, rawURL string) (string, error) {
	if err := c.limiter.Wait(ctx); err != nil {
		return "", &Error{Kind: KindNetwork, URL: rawURL, Err: err}
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return "", &Error{Kind: KindNetwork, URL: rawURL, Err: err}
	}
	req.Header.Set("User-Agent", c.userAgent)
	req.Header.Set("Accept", "text/html,application/xhtml+xml,application/xml;q=0.9,*/*;q=0.8")
	req.Header.Set("Accept-Language", "en-US,en;q=0.9")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", &Error{Kind: classifyTransportError(err), URL: rawURL, Err: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return "", &Error{Kind: KindStatus, StatusCode: resp.StatusCode, URL: rawURL, Err: fmt.Errorf("status %s", resp.Status)}
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", &Error{Kind: KindNetwork, URL: rawURL, Err: fmt.Errorf("read body: %w", err)}
	}
	return string(body), nil
}

func classifyTransportError(err error) Kind {
	var netErr net.Error
	if errors.As(err, &netErr) && netErr.Timeout() {
		return KindTimeout
	}
	if errors.Is(err, context.DeadlineExceeded) {
		return KindTimeout
	}
	return KindNetwork
}

// Politeness sleeps for a random duration in [minSeconds, maxSeconds],
// or returns early when ctx is cancelled.
func (c *Client) Politeness(ctx context.Context, minSeconds, maxSeconds float64) error {
	if maxSeconds < minSeconds {
		maxSeconds = minSeconds
	}
	seconds := minSeconds + rand.Float64()*(maxSeconds-minSeconds)
	if seconds <= 0 {
		return nil
	}

	timer := time.NewTimer(time.Duration(seconds * float64(time.Second)))
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}

// SearchURL builds a sold/completed search results URL for a series:
// quoted series name plus "manga english", the minimum price floor and
// the page index.
func SearchURL(origin, series string, minPrice float64, page int) string {
	query := url.QueryEscape(fmt.Sprintf(`"%s" manga english`, series))
	return fmt.Sprintf(
		"%s/sch/i.html?_from=R40&_nkw=%s&_sacat=0&rt=1&LH_Sold=1&LH_Complete=1&_udlo=%g&LH_PrefLoc=1&Language=English&_trksid=p2045573.m1684&_pgn=%d",
		origin, query, minPrice, page,
	)
}
