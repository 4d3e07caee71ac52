// Package textnorm implements the Text Normalizer (spec §4.A): folding
// titles and artist strings into canonical forms for equality,
// containment, and fuzzy comparison. Grounded on
// original_source/text_processing.py's exact regex/stopword semantics
// and discogs/string_utils.go's normalization-helper idiom.
package textnorm

import (
	"regexp"
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

var mixSuffixTokens = []string{
	"original mix", "extended mix", "edit", "remix", "vip", "dub",
	"version", "radio edit", "club mix",
}

// mixSuffixPattern matches a trailing mix decoration, parenthesized or
// not, with or without internal spaces (e.g. "extendedmix").
var mixSuffixPattern = regexp.MustCompile(
	`(?i)[\[(]?\s*(?:original\s*mix|extended\s*mix|radio\s*edit|club\s*mix|remix|edit|vip|dub|version)\s*[\])]?\s*$`,
)

var featClausePattern = regexp.MustCompile(`(?i)\s*(?:feat\.?|ft\.?|featuring)\s+.*$`)

var dashPattern = regexp.MustCompile(`[\x{2012}-\x{2015}\x{2212}\-]`)

var nonAlnumAmpSlash = regexp.MustCompile(`[^a-z0-9&/\s]+`)

var whitespaceRun = regexp.MustCompile(`\s+`)

var urlLikeToken = regexp.MustCompile(`(?i)\bwww\S*`)

var bracketedContent = regexp.MustCompile(`[\[(][^\])]*[\])]`)

var numericPrefixBracket = regexp.MustCompile(`^\s*[\[(]\s*\d+(?:-\d+)?\s*[\])]\s*`)

var singleLetterBracket = regexp.MustCompile(`(?i)[\[(][a-z][\])]`)

var multiDashSplit = regexp.MustCompile(`\s-\s`)

// stopwords used by significant_tokens.
var stopwords = map[string]struct{}{
	"the": {}, "a": {}, "an": {}, "and": {}, "of": {}, "to": {}, "for": {},
	"in": {}, "on": {}, "with": {}, "vs": {}, "x": {}, "feat": {}, "ft": {},
	"featuring": {}, "mix": {}, "edit": {}, "remix": {}, "version": {},
	"club": {}, "radio": {}, "original": {}, "extended": {}, "vip": {},
	"dub": {}, "rework": {}, "refire": {}, "re-fire": {},
}

// artistSplitPattern splits an artist string on the separators listed
// in spec §4.A: comma, ampersand, slash, " x ", " vs ", " with ",
// " feat ", " ft ", " featuring " (case-insensitive, word-bounded where
// the separator is a word).
var artistSplitPattern = regexp.MustCompile(`(?i)\s*(?:,|&|/|\s+x\s+|\s+vs\s+|\s+with\s+|\s+feat\.?\s+|\s+ft\.?\s+|\s+featuring\s+)\s*`)

func stripDiacritics(s string) string {
	t := transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)
	out, _, err := transform.String(t, s)
	if err != nil {
		return s
	}
	return out
}

// Normalize produces the canonical comparison form of a title or
// artist string (spec §4.A `normalize`).
func Normalize(s string) string {
	s = stripDiacritics(s)
	s = strings.ToLower(s)
	s = dashPattern.ReplaceAllString(s, " ")
	s = mixSuffixPattern.ReplaceAllString(s, "")
	s = featClausePattern.ReplaceAllString(s, "")
	s = nonAlnumAmpSlash.ReplaceAllString(s, " ")
	s = whitespaceRun.ReplaceAllString(s, " ")
	return strings.TrimSpace(s)
}

// SanitizeTitleForSearch prepares a raw title for query synthesis
// (spec §4.A `sanitize_title_for_search`).
func SanitizeTitleForSearch(s string) string {
	s = urlLikeToken.ReplaceAllString(s, " ")

	if parts := multiDashSplit.Split(s, -1); len(parts) >= 3 {
		s = parts[len(parts)-1]
	}

	s = numericPrefixBracket.ReplaceAllString(s, "")
	s = singleLetterBracket.ReplaceAllString(s, "")
	s = bracketedContent.ReplaceAllString(s, " ")
	s = stripDiacritics(s)
	s = stripNonExtendedLatin(s)
	s = whitespaceRun.ReplaceAllString(s, " ")
	return strings.TrimSpace(s)
}

// stripNonExtendedLatin drops runes outside ASCII/Latin-1
// Supplement/Latin Extended-A/B, per spec §4.A.
func stripNonExtendedLatin(s string) string {
	var b strings.Builder
	for _, r := range s {
		switch {
		case r <= 0x024F: // Basic Latin .. Latin Extended-B
			b.WriteRune(r)
		case unicode.IsSpace(r):
			b.WriteRune(' ')
		}
	}
	return b.String()
}

// Tokens splits a normalized string on whitespace, discarding empties
// (spec §4.A `tokens`).
func Tokens(s string) []string {
	fields := strings.Fields(s)
	out := make([]string, 0, len(fields))
	out = append(out, fields...)
	return out
}

// SignificantTokens returns tokens of length >= 3 that are not in the
// fixed stopword set (spec §4.A `significant_tokens`).
func SignificantTokens(s string) []string {
	var out []string
	for _, tok := range Tokens(Normalize(s)) {
		if len(tok) < 3 {
			continue
		}
		if _, stop := stopwords[tok]; stop {
			continue
		}
		out = append(out, tok)
	}
	return out
}

// SplitArtists splits an artist string on the separators of spec
// §4.A, normalizing each resulting part.
func SplitArtists(s string) []string {
	if strings.TrimSpace(s) == "" {
		return nil
	}
	parts := artistSplitPattern.Split(s, -1)
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		p = Normalize(p)
		if p == "" {
			continue
		}
		out = append(out, p)
	}
	return out
}
