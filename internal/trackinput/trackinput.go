// Package trackinput loads the flat JSON track list the CLI accepts
// and applies the extract_artists_from_title fallback (spec
// supplement, not part of the core matcher) to rows whose artists
// field is empty but whose title looks like "Artist - Title".
// Grounded on original_source/rekordbox.py's extract_artists_from_title.
package trackinput

import (
	"encoding/json"
	"regexp"
	"strings"

	"catalogmatch/catalog"
)

type rawTrack struct {
	Title         string `json:"title"`
	Artists       string `json:"artists"`
	OriginalTitle string `json:"original_title"`
}

// Load parses a JSON array of {title, artists, original_title} rows
// into InputTracks, running the artist-extraction fallback on any row
// with a missing artists field.
func Load(data []byte) ([]catalog.InputTrack, error) {
	var raws []rawTrack
	if err := json.Unmarshal(data, &raws); err != nil {
		return nil, err
	}

	tracks := make([]catalog.InputTrack, 0, len(raws))
	for i, r := range raws {
		title, artists := r.Title, r.Artists
		originalTitle := r.OriginalTitle
		if originalTitle == "" {
			originalTitle = title
		}
		if artists == "" {
			if extractedArtists, extractedTitle, ok := ExtractArtistsFromTitle(title); ok {
				artists = extractedArtists
				title = extractedTitle
			}
		}
		tracks = append(tracks, catalog.InputTrack{
			Index:         i,
			Title:         title,
			Artists:       artists,
			OriginalTitle: originalTitle,
		})
	}
	return tracks, nil
}

var (
	leadingTrackNumberPattern = regexp.MustCompile(`(?i)^\s*(?:[\[(]?\d+[\])\.]?|\(F\))\s*[-\x{2013}\x{2014}:\s]\s*`)
	titleSplitPattern         = regexp.MustCompile(`\s*[-\x{2013}\x{2014}:]\s*`)
	featParenPattern          = regexp.MustCompile(`(?i)\s*\((?:feat\.?|ft\.?|featuring)\s+[^)]*\)`)
	featBracketPattern        = regexp.MustCompile(`(?i)\s*\[(?:feat\.?|ft\.?|featuring)\s+[^\]]*\]`)
	parenOrBracketPattern     = regexp.MustCompile(`\([^)]*\)|\[[^\]]*\]`)
	multiSpacePattern         = regexp.MustCompile(`\s{2,}`)
)

// ExtractArtistsFromTitle splits a "Artist - Title" style string into
// (artists, title), stripping a leading track number and any
// featured-artist decoration from the remaining title half.
func ExtractArtistsFromTitle(title string) (artists, rest string, ok bool) {
	t := strings.TrimSpace(title)
	if t == "" {
		return "", "", false
	}
	t = leadingTrackNumberPattern.ReplaceAllString(t, "")

	parts := titleSplitPattern.Split(t, 2)
	if len(parts) != 2 {
		return "", "", false
	}
	artists = strings.TrimSpace(parts[0])
	rest = strings.TrimSpace(parts[1])

	rest = featParenPattern.ReplaceAllString(rest, " ")
	rest = featBracketPattern.ReplaceAllString(rest, " ")
	rest = parenOrBracketPattern.ReplaceAllString(rest, " ")
	rest = strings.TrimSpace(multiSpacePattern.ReplaceAllString(rest, " "))

	if artists == "" || rest == "" {
		return "", "", false
	}
	return artists, rest, true
}
