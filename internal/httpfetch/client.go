// Package httpfetch provides the injected HttpClient capability of
// spec §9: a pooled, timeout-bound client with identity-encoding and
// cache-buster retries for empty/gzipped-empty bodies, and an optional
// on-disk response cache. Grounded on config/http.go's client-builder
// pattern and original_source/beatport.py's request_html retry ladder
// (itself grounded on discogs/client.go's gzip-empty-body handling).
package httpfetch

import (
	"fmt"
	"io"
	"math/rand"
	"net/http"
	"strconv"
	"strings"
	"time"

	"catalogmatch/internal/config"
)

const userAgent = "Mozilla/5.0 (Macintosh; Intel Mac OS X 10_15_7) " +
	"AppleWebKit/605.1.15 (KHTML, like Gecko) Version/18.6 Safari/605.1.15"

// Cache is the optional on-disk response cache capability. Implemented
// by internal/httpcache.Store; nil means caching is disabled.
type Cache interface {
	Get(url string) (body []byte, ok bool)
	Set(url string, body []byte)
}

// Client is the shared HTTP capability injected into the Search
// Adapter and Page Parser.
type Client struct {
	http  *http.Client
	cache Cache
}

// New builds a Client from settings, matching config/http.go's
// timeout-from-settings construction.
func New(cfg config.Settings, cache Cache) *Client {
	return &Client{
		http: &http.Client{
			Timeout: cfg.ConnectTimeout + cfg.ReadTimeout,
		},
		cache: cache,
	}
}

func isEmptyBody(resp *http.Response, body []byte) bool {
	if resp == nil {
		return true
	}
	if resp.StatusCode == http.StatusNoContent || resp.StatusCode == http.StatusNotModified {
		return true
	}
	if len(body) > 0 {
		return false
	}
	if cl := resp.Header.Get("Content-Length"); cl != "" {
		if n, err := strconv.Atoi(cl); err == nil && n == 0 {
			return true
		}
	}
	enc := strings.ToLower(resp.Header.Get("Content-Encoding"))
	if strings.Contains(enc, "gzip") || strings.Contains(enc, "br") || strings.Contains(enc, "deflate") {
		return true
	}
	return false
}

// GetHTML fetches url following the spec §4.E fetch algorithm: a plain
// GET, one plain retry after a short pause, then an identity-encoding
// retry, then an identity-encoding cache-buster retry. Each retry runs
// when the attempt before it failed for any reason (transport error,
// non-200 or empty body); ("", false) is returned if all four fail.
func (c *Client) GetHTML(url string) (string, bool) {
	if c.cache != nil {
		if body, ok := c.cache.Get(url); ok {
			return string(body), true
		}
	}

	body, ok := c.fetchOnce(url, nil)
	if !ok {
		time.Sleep(100 * time.Millisecond)
		body, ok = c.fetchOnce(url, nil)
	}
	if !ok {
		headers := map[string]string{
			"Accept-Encoding": "identity",
			"Cache-Control":   "no-cache",
			"Pragma":          "no-cache",
		}
		time.Sleep(150*time.Millisecond + time.Duration(rand.Intn(200))*time.Millisecond)
		body, ok = c.fetchOnce(url, headers)
	}
	if !ok {
		sep := "?"
		if strings.Contains(url, "?") {
			sep = "&"
		}
		busted := fmt.Sprintf("%s%s_r=%d", url, sep, time.Now().UnixMilli())
		headers := map[string]string{
			"Accept-Encoding": "identity",
			"Cache-Control":   "no-cache",
			"Pragma":          "no-cache",
		}
		time.Sleep(150*time.Millisecond + time.Duration(rand.Intn(200))*time.Millisecond)
		body, ok = c.fetchOnce(busted, headers)
	}
	if !ok {
		return "", false
	}

	if c.cache != nil {
		c.cache.Set(url, []byte(body))
	}
	return body, true
}

func (c *Client) fetchOnce(url string, extraHeaders map[string]string) (string, bool) {
	req, err := http.NewRequest(http.MethodGet, url, nil)
	if err != nil {
		return "", false
	}
	req.Header.Set("User-Agent", userAgent)
	req.Header.Set("Accept-Language", "en-US,en;q=0.9")
	req.Header.Set("Accept", "text/html,application/xhtml+xml,application/xml;q=0.9,*/*;q=0.8")
	for k, v := range extraHeaders {
		req.Header.Set(k, v)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return "", false
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", false
	}

	if resp.StatusCode != http.StatusOK {
		return "", false
	}
	if isEmptyBody(resp, body) {
		return "", false
	}
	return string(body), true
}
