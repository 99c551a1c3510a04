package market

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"golang.org/x/time/rate"

	"wfm-sync/pkg/logger"
)

const (
	DefaultURL       = "https://api.warframe.market"
	DefaultUserAgent = "wfm-sync/1.0"
	siteOrigin       = "https://warframe.market"
	requestTimeout   = 15 * time.Second
	errorBodyLimit   = 8 << 10
)

// Options configures a Client. Zero values fall back to defaults.
type Options struct {
	BaseURL           string
	Cookie            string
	Platform          string
	Crossplay         bool
	RequestsPerSecond float64
	UserAgent         string
	HTTPClient        *http.Client
}

// Client talks to the warframe.market v2 API. Every request, read or write,
// waits on a shared limiter.
type Client struct {
	baseURL    string
	cookie     string
	platform   string
	crossplay  bool
	userAgent  string
	httpClient *http.Client
	limiter    *rate.Limiter
	log        *logger.Logger
}

func NewClient(opts Options, log *logger.Logger) (*Client, error) {
	base := strings.TrimRight(strings.TrimSpace(opts.BaseURL), "/")
	if base == "" {
		base = DefaultURL
	}
	u, err := url.Parse(base)
	if err != nil {
		return nil, fmt.Errorf("market: parse url %q: %w", base, err)
	}
	if u.Scheme != "https" && u.Scheme != "http" {
		return nil, fmt.Errorf("market: url must be http(s), got %q", base)
	}

	limit := rate.Inf
	if opts.RequestsPerSecond > 0 {
		limit = rate.Limit(opts.RequestsPerSecond)
	}

	httpClient := opts.HTTPClient
	if httpClient == nil {
		httpClient = &http.Client{Timeout: requestTimeout}
	}

	platform := opts.Platform
	if platform == "" {
		platform = "pc"
	}
	userAgent := opts.UserAgent
	if userAgent == "" {
		userAgent = DefaultUserAgent
	}

	return &Client{
		baseURL:    base,
		cookie:     strings.TrimSpace(opts.Cookie),
		platform:   platform,
		crossplay:  opts.Crossplay,
		userAgent:  userAgent,
		httpClient: httpClient,
		limiter:    rate.NewLimiter(limit, 1),
		log:        log,
	}, nil
}

// Authenticated reports whether a cookie was configured.
func (c *Client) Authenticated() bool {
	return c.cookie != ""
}

func (c *Client) setHeaders(req *http.Request, auth bool) {
	req.Header.Set("Accept", "application/json, text/plain, */*")
	req.Header.Set("User-Agent", c.userAgent)
	if !auth {
		return
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Origin", siteOrigin)
	req.Header.Set("Referer", siteOrigin+"/")
	req.Header.Set("language", "en")
	req.Header.Set("platform", c.platform)
	req.Header.Set("crossplay", strconv.FormatBool(c.crossplay))
	if c.cookie != "" {
		req.Header.Set("Cookie", c.cookie)
	}
}

// do sends one request and decodes a JSON answer into out when out is not
// nil. Non-2xx answers come back as *APIError.
func (c *Client) do(ctx context.Context, method, path string, auth bool, body, out interface{}) error {
	if err := c.limiter.Wait(ctx); err != nil {
		return err
	}

	var reader io.Reader
	if body != nil {
		b, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("encode request: %w", err)
		}
		reader = bytes.NewReader(b)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return err
	}
	c.setHeaders(req, auth)

	start := time.Now()
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	c.log.Debug("Marketplace request",
		"method", method,
		"path", path,
		"status", resp.StatusCode,
		"duration", time.Since(start).String())

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return &APIError{
			Method: method,
			Path:   path,
			Status: resp.StatusCode,
			Body:   readBodyLimit(resp.Body, errorBodyLimit),
		}
	}

	if out == nil {
		_, _ = io.Copy(io.Discard, resp.Body)
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decode response: %w", err)
	}
	return nil
}

func readBodyLimit(r io.Reader, max int64) string {
	b, _ := io.ReadAll(&io.LimitedReader{R: r, N: max})
	return strings.TrimSpace(string(b))
}
