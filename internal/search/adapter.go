// Package search implements the Search Adapter (spec §4.D): turns a
// query string into a deduplicated, ordered list of catalog track
// URLs, trying direct search, an always-empty browser-automation slot,
// and a search-engine fallback in order. Grounded on
// original_source/beatport.py's track_urls/ddg_track_urls and on
// services/youtube_web_search.go's ordered-strategy-list shape (each
// strategy recovers its own errors and returns empty on failure).
package search

import (
	"fmt"
	"net/url"
	"regexp"
	"strings"

	"catalogmatch/internal/config"
	"catalogmatch/internal/httpfetch"
	"catalogmatch/internal/pageparser"
)

const baseURL = "https://www.beatport.com"

var trackURLPattern = regexp.MustCompile(`beatport\.com/track/[^/]+/\d+`)

// IsTrackURL reports whether u matches the catalog's track-page shape
// (spec §4.D / §6).
func IsTrackURL(u string) bool {
	return trackURLPattern.MatchString(u)
}

// Adapter is the Search Adapter capability.
type Adapter struct {
	client *httpfetch.Client
	cfg    config.Settings
}

func New(client *httpfetch.Client, cfg config.Settings) *Adapter {
	return &Adapter{client: client, cfg: cfg}
}

// strategy is one method in the fallback chain of spec §4.D: a pure
// function from (query, maxResults) to a possibly-empty URL list, per
// §9's "strategy list" design note. No strategy ever returns an error;
// failures collapse to an empty slice so the adapter can try the next.
type strategy func(query string, maxResults int) []string

// Search returns a deduplicated ordered list of catalog track URLs for
// query, trying each strategy until one returns a non-empty result.
func (ad *Adapter) Search(query string, urlsSeenSoFar int) []string {
	maxResults := ad.adaptiveMaxResults(query, urlsSeenSoFar)

	strategies := []strategy{
		ad.directSearch,
		ad.browserAutomation, // always a no-op; see SPEC_FULL.md Open Question 6
		ad.searchEngineFallback,
	}

	for _, s := range strategies {
		if urls := s(query, maxResults); len(urls) > 0 {
			return dedupTrackURLs(urls)
		}
	}
	return nil
}

// adaptiveMaxResults implements spec §4.D's MR_LOW/MED/HIGH shaping.
func (ad *Adapter) adaptiveMaxResults(query string, urlsSeenSoFar int) int {
	if !ad.cfg.AdaptiveMaxResults {
		return ad.cfg.MaxSearchResults
	}
	ql := strings.ToLower(query)
	hasRemixTokens := strings.Contains(ql, "remix") || strings.Contains(ql, "extended") ||
		strings.Contains(ql, "refire") || strings.Contains(ql, "(")

	var n int
	switch {
	case hasRemixTokens && urlsSeenSoFar < 5:
		n = ad.cfg.MRHigh
	case hasRemixTokens:
		n = ad.cfg.MRMed
	default:
		n = ad.cfg.MRLow
	}
	return n
}

// directSearch issues a GET to the catalog's search page and parses
// both anchor hrefs and an embedded __NEXT_DATA__ JSON tree (spec
// §4.D method 1).
func (ad *Adapter) directSearch(query string, maxResults int) []string {
	searchURL := fmt.Sprintf("%s/search?q=%s", baseURL, url.QueryEscape(query))
	html, ok := ad.client.GetHTML(searchURL)
	if !ok {
		return nil
	}

	var urls []string
	urls = append(urls, pageparser.ExtractTrackAnchors(html, baseURL)...)
	urls = append(urls, pageparser.ExtractNextDataTrackURLs(html, baseURL)...)

	urls = filterTrackURLs(urls)
	if len(urls) > maxResults {
		urls = urls[:maxResults]
	}
	return urls
}

// browserAutomation is the strategy-list slot for headless-browser
// rendering (spec §4.D method 2). Browser-automation fallback drivers
// are listed in spec §1 as a deliberately out-of-scope external
// collaborator, so this slot is permanently a no-op; it exists so the
// three-method strategy list (§9) is structurally complete.
func (ad *Adapter) browserAutomation(query string, maxResults int) []string {
	return nil
}

// searchEngineFallback issues site-restricted queries against a public
// search engine (spec §4.D method 3), falling back to broader queries
// when too few track URLs come back. Grounded on
// original_source/beatport.py's ddg_track_urls and
// services/youtube_web_search.go's searchDuckDuckGoHTML.
func (ad *Adapter) searchEngineFallback(query string, maxResults int) []string {
	queries := []string{
		fmt.Sprintf(`site:beatport.com/track "%s"`, query),
		fmt.Sprintf(`site:beatport.com/track %s`, query),
		fmt.Sprintf(`site:beatport.com %s`, query),
	}

	var out []string
	seen := make(map[string]bool)
	for _, q := range queries {
		urls := ad.duckDuckGoHTML(q)
		for _, u := range urls {
			if IsTrackURL(u) && !seen[u] {
				seen[u] = true
				out = append(out, u)
			}
		}
		if len(out) >= maxResults {
			break
		}
	}

	if len(out) < 4 {
		out = append(out, ad.broaderFallback(query, seen)...)
	}

	if len(out) > maxResults {
		out = out[:maxResults]
	}
	return out
}

var ddgHrefPattern = regexp.MustCompile(`href="(https?://www\.beatport\.com/track/[^"]+)"`)
var ddgRedirectHrefPattern = regexp.MustCompile(`uddg=([^&"]+)`)

func (ad *Adapter) duckDuckGoHTML(query string) []string {
	searchURL := fmt.Sprintf("https://html.duckduckgo.com/html/?q=%s", url.QueryEscape(query))
	html, ok := ad.client.GetHTML(searchURL)
	if !ok {
		return nil
	}

	var urls []string
	for _, m := range ddgHrefPattern.FindAllStringSubmatch(html, -1) {
		urls = append(urls, m[1])
	}
	for _, m := range ddgRedirectHrefPattern.FindAllStringSubmatch(html, -1) {
		if decoded, err := url.QueryUnescape(m[1]); err == nil && strings.Contains(decoded, "beatport.com/track/") {
			urls = append(urls, decoded)
		}
	}
	return urls
}

// broaderFallback retries with non-site-restricted queries and, for
// any non-track catalog page returned, extracts /track/ anchors from
// it (spec §4.D method 3's "broader searches" tail).
func (ad *Adapter) broaderFallback(query string, seen map[string]bool) []string {
	var extra []string
	for _, u := range ad.duckDuckGoHTML(fmt.Sprintf("beatport.com %s", query)) {
		if !strings.Contains(u, "beatport.com") {
			continue
		}
		if IsTrackURL(u) {
			if !seen[u] {
				seen[u] = true
				extra = append(extra, u)
			}
			continue
		}
		html, ok := ad.client.GetHTML(u)
		if !ok {
			continue
		}
		for _, anchor := range pageparser.ExtractTrackAnchors(html, baseURL) {
			if IsTrackURL(anchor) && !seen[anchor] {
				seen[anchor] = true
				extra = append(extra, anchor)
			}
		}
	}
	return extra
}

func filterTrackURLs(urls []string) []string {
	seen := make(map[string]bool)
	var out []string
	for _, u := range urls {
		if IsTrackURL(u) && !seen[u] {
			seen[u] = true
			out = append(out, u)
		}
	}
	return out
}

func dedupTrackURLs(urls []string) []string {
	seen := make(map[string]bool)
	var out []string
	for _, u := range urls {
		key := strings.ToLower(u)
		if seen[key] {
			continue
		}
		seen[key] = true
		out = append(out, u)
	}
	return out
}
