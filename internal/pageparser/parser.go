// Package pageparser implements the Page Parser (spec §4.E): turns an
// HTML track page into a catalog.ParsedCandidate, preferring embedded
// structured data (JSON-LD, __NEXT_DATA__) over DOM scraping. Grounded
// on original_source/beatport.py's _parse_structured_json_ld,
// _parse_next_data and parse_track_page, with the DOM fallback
// reimplemented on goquery (this pack's BeautifulSoup analogue) in
// place of bespoke string slicing.
package pageparser

import (
	"encoding/json"
	"net/url"
	"regexp"
	"strconv"
	"strings"

	"github.com/PuerkitoBio/goquery"

	"catalogmatch/catalog"
)

var trackAnchorPattern = regexp.MustCompile(`/track/[^/"'?#]+/\d+`)

// ExtractTrackAnchors returns every absolute track URL reachable from
// an <a href> on the page, resolved against base.
func ExtractTrackAnchors(html, base string) []string {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		return nil
	}
	baseURL, _ := url.Parse(base)

	var urls []string
	doc.Find("a[href]").Each(func(_ int, sel *goquery.Selection) {
		href, ok := sel.Attr("href")
		if !ok || !trackAnchorPattern.MatchString(href) {
			return
		}
		urls = append(urls, resolveURL(baseURL, href))
	})
	return urls
}

func resolveURL(base *url.URL, href string) string {
	u, err := url.Parse(href)
	if err != nil {
		return href
	}
	if base == nil {
		return u.String()
	}
	return base.ResolveReference(u).String()
}

// ExtractNextDataTrackURLs reconstructs track URLs from an embedded
// __NEXT_DATA__ JSON blob's id/slug pairs, the way
// original_source/beatport.py's _parse_next_data walks the search
// response's result list when no anchors are present.
func ExtractNextDataTrackURLs(html, base string) []string {
	raw := extractNextDataJSON(html)
	if raw == "" {
		return nil
	}
	var tree interface{}
	if err := json.Unmarshal([]byte(raw), &tree); err != nil {
		return nil
	}

	var urls []string
	walkTrackRefs(tree, func(slug string, id int64) {
		urls = append(urls, strings.TrimRight(base, "/")+"/track/"+slug+"/"+strconv.FormatInt(id, 10))
	})
	return urls
}

var nextDataPattern = regexp.MustCompile(`(?s)<script id="__NEXT_DATA__"[^>]*>(.*?)</script>`)

func extractNextDataJSON(html string) string {
	m := nextDataPattern.FindStringSubmatch(html)
	if len(m) != 2 {
		return ""
	}
	return strings.TrimSpace(m[1])
}

// walkTrackRefs is the explicit sum-type walker over the untyped JSON
// tree called out by spec §9 in place of ad hoc dict indexing: it
// recurses through maps and slices, calling fn for every object that
// looks like a track reference (has both a string "slug" and a
// numeric "id").
func walkTrackRefs(node interface{}, fn func(slug string, id int64)) {
	switch v := node.(type) {
	case map[string]interface{}:
		slug, hasSlug := v["slug"].(string)
		idNum, hasID := numberField(v, "id")
		if hasSlug && hasID && slug != "" {
			fn(slug, idNum)
		}
		for _, child := range v {
			walkTrackRefs(child, fn)
		}
	case []interface{}:
		for _, child := range v {
			walkTrackRefs(child, fn)
		}
	}
}

func numberField(m map[string]interface{}, key string) (int64, bool) {
	switch n := m[key].(type) {
	case float64:
		return int64(n), true
	case string:
		if v, err := strconv.ParseInt(n, 10, 64); err == nil {
			return v, true
		}
	}
	return 0, false
}

// ParseTrackPage parses one fetched track page into a ParsedCandidate.
// An unparseable page returns a ParsedCandidate with an empty Title,
// which callers treat as unscorable (spec §4.E edge case).
func ParseTrackPage(html string, trackURL catalog.CandidateURL) catalog.ParsedCandidate {
	c := catalog.ParsedCandidate{URL: trackURL}

	if ld := parseJSONLD(html); ld != nil {
		applyJSONLD(&c, ld)
	}
	if raw := extractNextDataJSON(html); raw != "" {
		var tree interface{}
		if err := json.Unmarshal([]byte(raw), &tree); err == nil {
			applyNextData(&c, tree, string(trackURL))
		}
	}
	if c.Title == "" {
		parseDOMFallback(&c, html)
	}

	if c.Key != "" {
		c.CamelotKey = Camelot(c.Key)
	}
	return c
}

// parseJSONLD walks every <script type="application/ld+json"> block
// looking for a MusicRecording node, mirroring
// _parse_structured_json_ld's single-pass scan.
func parseJSONLD(html string) map[string]interface{} {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		return nil
	}

	var found map[string]interface{}
	doc.Find(`script[type="application/ld+json"]`).EachWithBreak(func(_ int, sel *goquery.Selection) bool {
		var tree interface{}
		if err := json.Unmarshal([]byte(sel.Text()), &tree); err != nil {
			return true
		}
		if m := findMusicRecording(tree); m != nil {
			found = m
			return false
		}
		return true
	})
	return found
}

func findMusicRecording(node interface{}) map[string]interface{} {
	switch v := node.(type) {
	case map[string]interface{}:
		if t, _ := v["@type"].(string); strings.EqualFold(t, "MusicRecording") {
			return v
		}
		for _, child := range v {
			if m := findMusicRecording(child); m != nil {
				return m
			}
		}
	case []interface{}:
		for _, child := range v {
			if m := findMusicRecording(child); m != nil {
				return m
			}
		}
	}
	return nil
}

func applyJSONLD(c *catalog.ParsedCandidate, ld map[string]interface{}) {
	if name, ok := ld["name"].(string); ok {
		c.Title = name
	}
	c.Artists = joinArtistField(ld["byArtist"])
	if dp, ok := ld["datePublished"].(string); ok {
		c.ReleaseDate = dp
		if year := yearFromDateString(dp); year != nil {
			c.ReleaseYear = year
		}
	}
	if genre, ok := ld["genre"].(string); ok {
		c.Genres = genre
	}
}

func joinArtistField(v interface{}) string {
	switch a := v.(type) {
	case map[string]interface{}:
		if name, ok := a["name"].(string); ok {
			return name
		}
	case []interface{}:
		var names []string
		for _, item := range a {
			if m, ok := item.(map[string]interface{}); ok {
				if name, ok := m["name"].(string); ok {
					names = append(names, name)
				}
			}
		}
		return strings.Join(names, ", ")
	case string:
		return a
	}
	return ""
}

func yearFromDateString(s string) *int {
	if len(s) < 4 {
		return nil
	}
	year, err := strconv.Atoi(s[:4])
	if err != nil {
		return nil
	}
	return &year
}

// applyNextData fills in fields the JSON-LD block typically omits
// (key, BPM, label, release name) by locating the track object in the
// __NEXT_DATA__ tree whose own URL matches trackURL.
func applyNextData(c *catalog.ParsedCandidate, tree interface{}, trackURL string) {
	var match map[string]interface{}
	walkTrackObjects(tree, func(obj map[string]interface{}) {
		if match != nil {
			return
		}
		slug, _ := obj["slug"].(string)
		if slug != "" && strings.Contains(trackURL, slug) {
			match = obj
		}
	})
	if match == nil {
		return
	}

	if c.Title == "" {
		if name, ok := match["name"].(string); ok {
			c.Title = name
		}
	}
	if c.Artists == "" {
		c.Artists = joinArtistField(match["artists"])
	}
	if key, ok := match["key"].(map[string]interface{}); ok {
		if name, ok := key["name"].(string); ok {
			c.Key = name
		}
	} else if key, ok := match["key"].(string); ok {
		c.Key = key
	}
	if bpm, ok := numberField(match, "bpm"); ok {
		c.BPM = strconv.FormatInt(bpm, 10)
	}
	if rel, ok := match["release"].(map[string]interface{}); ok {
		if name, ok := rel["name"].(string); ok {
			c.ReleaseName = name
		}
		if label, ok := rel["label"].(map[string]interface{}); ok {
			if name, ok := label["name"].(string); ok {
				c.Label = name
			}
		}
	}
	if c.Genres == "" {
		c.Genres = joinArtistField(match["genre"])
	}
}

func walkTrackObjects(node interface{}, fn func(map[string]interface{})) {
	switch v := node.(type) {
	case map[string]interface{}:
		if _, hasName := v["name"]; hasName {
			if _, hasSlug := v["slug"]; hasSlug {
				fn(v)
			}
		}
		for _, child := range v {
			walkTrackObjects(child, fn)
		}
	case []interface{}:
		for _, child := range v {
			walkTrackObjects(child, fn)
		}
	}
}

// parseDOMFallback scrapes visible page text when neither embedded
// JSON format parsed, by label-sibling lookup (spec §4.E "reading
// labeled fields next to their values").
func parseDOMFallback(c *catalog.ParsedCandidate, html string) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		return
	}

	if title := strings.TrimSpace(doc.Find("h1").First().Text()); title != "" {
		c.Title = title
	}
	var artists []string
	doc.Find(`a[href*="/artist/"]`).Each(func(_ int, sel *goquery.Selection) {
		if name := strings.TrimSpace(sel.Text()); name != "" {
			artists = append(artists, name)
		}
	})
	if len(artists) > 0 {
		c.Artists = strings.Join(dedupeStrings(artists), ", ")
	}
	if label := strings.TrimSpace(doc.Find(`a[href*="/label/"]`).First().Text()); label != "" {
		c.Label = label
	}
	var genres []string
	doc.Find(`a[href*="/genre/"]`).Each(func(_ int, sel *goquery.Selection) {
		if g := strings.TrimSpace(sel.Text()); g != "" {
			genres = append(genres, g)
		}
	})
	if len(genres) > 0 {
		c.Genres = strings.Join(dedupeStrings(genres), ", ")
	}

	labelSiblingText(doc, "key", func(v string) { c.Key = v })
	labelSiblingText(doc, "bpm", func(v string) { c.BPM = v })
}

// labelSiblingText finds an element whose text equals label
// (case-insensitive) and applies the trimmed text of its next sibling.
func labelSiblingText(doc *goquery.Document, label string, apply func(string)) {
	doc.Find("*").EachWithBreak(func(_ int, sel *goquery.Selection) bool {
		text := strings.ToLower(strings.TrimSpace(sel.Text()))
		if text != label {
			return true
		}
		sibling := sel.Next()
		if val := strings.TrimSpace(sibling.Text()); val != "" {
			apply(val)
			return false
		}
		return true
	})
}

func dedupeStrings(in []string) []string {
	seen := make(map[string]bool)
	var out []string
	for _, s := range in {
		if seen[s] {
			continue
		}
		seen[s] = true
		out = append(out, s)
	}
	return out
}
