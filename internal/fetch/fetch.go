// Package fetch provides text acquisition for job posting pages: a direct
// HTTP fetch with HTML-to-text cleanup, a scraping-proxy fallback for
// blocked or failing sites, and lightweight URL reachability probes.
package fetch

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"
)

// DefaultTimeout bounds the direct fetch path. The proxy fallback and any
// browser rendering carry their own deadlines.
const DefaultTimeout = 15 * time.Second

// DefaultUserAgent is a browser-like user agent. Job boards routinely
// serve empty shells or 403s to obvious bot agents.
const DefaultUserAgent = "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/124.0.0.0 Safari/537.36"

// Error represents an error during page acquisition.
type Error struct {
	URL     string
	Message string
	Cause   error
}

func (e *Error) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("fetch error for %s: %s: %v", e.URL, e.Message, e.Cause)
	}
	return fmt.Sprintf("fetch error for %s: %s", e.URL, e.Message)
}

func (e *Error) Unwrap() error {
	return e.Cause
}

// Options configures a Client.
type Options struct {
	Timeout       time.Duration
	UserAgent     string
	ProxyEndpoint string // scraping proxy base URL; empty disables the fallback
	ProxyToken    string // scraping proxy access token
	UseBrowser    bool   // render with a headless browser when text looks like an SPA shell
	Verbose       bool
}

// DefaultOptions returns sensible defaults for fetching.
func DefaultOptions() *Options {
	return &Options{
		Timeout:   DefaultTimeout,
		UserAgent: DefaultUserAgent,
	}
}

// Client fetches pages and converts them to plain text.
type Client struct {
	opts *Options
	http *http.Client
}

// NewClient creates a Client with the given options. Nil options use defaults.
func NewClient(opts *Options) *Client {
	if opts == nil {
		opts = DefaultOptions()
	}
	if opts.Timeout <= 0 {
		opts.Timeout = DefaultTimeout
	}
	if opts.UserAgent == "" {
		opts.UserAgent = DefaultUserAgent
	}
	return &Client{
		opts: opts,
		http: &http.Client{Timeout: opts.Timeout},
	}
}

// PageText returns best-effort plain text content for the given URL.
// The direct fetch is tried first; on any non-2xx status, timeout, or
// transport error the scraping proxy takes over. Proxy failure (or a
// missing token) is fatal for the acquisition attempt. There are no
// retries beyond this single direct-to-proxy chain.
func (c *Client) PageText(ctx context.Context, urlStr string) (string, error) {
	parsed, err := url.Parse(urlStr)
	if err != nil || parsed.Scheme == "" || parsed.Host == "" {
		return "", &Error{URL: urlStr, Message: "invalid URL", Cause: err}
	}

	body, contentType, directErr := c.direct(ctx, urlStr)
	if directErr != nil {
		if c.opts.Verbose {
			logf("direct fetch failed for %s, trying scraping proxy: %v", urlStr, directErr)
		}
		body, contentType, err = c.proxy(ctx, urlStr)
		if err != nil {
			return "", err
		}
	}

	if !isHTML(contentType, body) {
		return strings.TrimSpace(body), nil
	}

	text, err := HTMLToText(body)
	if err != nil {
		return "", &Error{URL: urlStr, Message: "HTML text extraction failed", Cause: err}
	}

	// SPA shells render almost no text over plain HTTP. Re-render in a
	// headless browser when enabled.
	if c.opts.UseBrowser && ShouldUseBrowser(text) {
		if rendered, berr := c.renderBrowser(ctx, urlStr); berr == nil {
			if btext, terr := HTMLToText(rendered); terr == nil {
				text = btext
			}
		} else if c.opts.Verbose {
			logf("browser rendering failed for %s, keeping HTTP content: %v", urlStr, berr)
		}
	}

	return text, nil
}

// direct performs the primary GET with the browser-like user agent.
func (c *Client) direct(ctx context.Context, urlStr string) (body, contentType string, err error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, urlStr, nil)
	if err != nil {
		return "", "", &Error{URL: urlStr, Message: "failed to create request", Cause: err}
	}
	req.Header.Set("User-Agent", c.opts.UserAgent)
	req.Header.Set("Accept", "text/html,application/xhtml+xml,application/xml;q=0.9,*/*;q=0.8")
	req.Header.Set("Accept-Language", "en-US,en;q=0.9")

	resp, err := c.http.Do(req)
	if err != nil {
		return "", "", &Error{URL: urlStr, Message: "HTTP request failed", Cause: err}
	}
	defer func() { _ = resp.Body.Close() }()

	bodyBytes, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", "", &Error{URL: urlStr, Message: "failed to read response body", Cause: err}
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return "", "", &Error{URL: urlStr, Message: fmt.Sprintf("HTTP status %d", resp.StatusCode)}
	}

	return string(bodyBytes), resp.Header.Get("Content-Type"), nil
}

// isHTML reports whether the response should go through HTML cleanup.
// Falls back to sniffing the body when the content type is absent.
func isHTML(contentType, body string) bool {
	ct := strings.ToLower(contentType)
	if strings.Contains(ct, "text/html") || strings.Contains(ct, "application/xhtml") {
		return true
	}
	if ct != "" {
		return false
	}
	head := strings.ToLower(strings.TrimSpace(body))
	return strings.HasPrefix(head, "<!doctype html") || strings.HasPrefix(head, "<html")
}

// HTMLToText strips script/style/noscript/template blocks, removes all
// remaining tags, decodes entities, and normalizes whitespace so that
// runs of blank lines collapse to at most one.
func HTMLToText(html string) (string, error) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		return "", fmt.Errorf("failed to parse HTML: %w", err)
	}

	doc.Find("script, style, noscript, template").Remove()

	body := doc.Find("body")
	if body.Length() == 0 {
		body = doc.Selection
	}

	return collapseBlankLines(body.Text()), nil
}

// collapseBlankLines trims each line and reduces runs of blank lines to one.
func collapseBlankLines(text string) string {
	text = strings.ReplaceAll(text, "\r\n", "\n")
	text = strings.ReplaceAll(text, "\r", "\n")

	lines := strings.Split(text, "\n")
	cleaned := make([]string, 0, len(lines))
	blank := false
	for _, line := range lines {
		line = strings.TrimSpace(line)
		if line == "" {
			if !blank && len(cleaned) > 0 {
				cleaned = append(cleaned, "")
			}
			blank = true
			continue
		}
		blank = false
		cleaned = append(cleaned, line)
	}

	return strings.TrimSpace(strings.Join(cleaned, "\n"))
}
