package fetch

import (
	"context"
	"net/http"
	"time"
)

// reachTimeout bounds a single reachability probe.
const reachTimeout = 10 * time.Second

// Reachable reports whether the URL resolves to a success response.
// It issues a HEAD request following redirects; a 2xx status means
// reachable, anything else (including transport errors) means not.
// It never returns an error: the caller only wants a trust signal for
// a discovered logo or website URL.
func (c *Client) Reachable(ctx context.Context, urlStr string) bool {
	req, err := http.NewRequestWithContext(ctx, http.MethodHead, urlStr, nil)
	if err != nil {
		return false
	}
	req.Header.Set("User-Agent", c.opts.UserAgent)

	client := &http.Client{Timeout: reachTimeout}
	resp, err := client.Do(req)
	if err != nil {
		return false
	}
	defer func() { _ = resp.Body.Close() }()

	return resp.StatusCode >= 200 && resp.StatusCode <= 299
}
