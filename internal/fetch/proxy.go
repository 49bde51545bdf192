// Proxy fallback for pages that block or fail the direct fetch path.
package fetch

import (
	"context"
	"fmt"
	"io"
	"log"
	"net/http"
	"net/url"
	"time"
)

// ErrProxyNotConfigured is returned when the fallback is needed but no
// scraping token is configured.
var ErrProxyNotConfigured = fmt.Errorf("scraping proxy not configured: missing access token")

// proxyTimeout bounds the fallback request. The proxy itself renders the
// target page, so it is given more room than the direct path.
const proxyTimeout = 60 * time.Second

// proxy fetches the target URL through the third-party scraping service.
// The service is treated as opaque: any 2xx body is accepted as page
// content. Errors here are fatal for the acquisition attempt.
func (c *Client) proxy(ctx context.Context, target string) (body, contentType string, err error) {
	if c.opts.ProxyToken == "" || c.opts.ProxyEndpoint == "" {
		return "", "", &Error{URL: target, Message: "scraping proxy unavailable", Cause: ErrProxyNotConfigured}
	}

	endpoint, err := url.Parse(c.opts.ProxyEndpoint)
	if err != nil {
		return "", "", &Error{URL: target, Message: "invalid proxy endpoint", Cause: err}
	}
	q := endpoint.Query()
	q.Set("token", c.opts.ProxyToken)
	q.Set("url", target)
	endpoint.RawQuery = q.Encode()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint.String(), nil)
	if err != nil {
		return "", "", &Error{URL: target, Message: "failed to create proxy request", Cause: err}
	}

	client := &http.Client{Timeout: proxyTimeout}
	resp, err := client.Do(req)
	if err != nil {
		return "", "", &Error{URL: target, Message: "scraping proxy request failed", Cause: err}
	}
	defer func() { _ = resp.Body.Close() }()

	bodyBytes, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", "", &Error{URL: target, Message: "failed to read proxy response", Cause: err}
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return "", "", &Error{URL: target, Message: fmt.Sprintf("scraping proxy HTTP status %d", resp.StatusCode)}
	}

	return string(bodyBytes), resp.Header.Get("Content-Type"), nil
}

func logf(format string, args ...any) {
	log.Printf("[fetch] "+format, args...)
}
