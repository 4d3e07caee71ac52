// Package mixparse implements the Mix/Phrase Parser (spec §4.B):
// purely string-driven extraction of mix flags, generic parenthetical
// phrases, remixer names, and bracketed artist hints from a raw title.
// Grounded on the mix-detection regexes embedded in
// original_source/matcher.py and query_generator.py; the standalone
// mix_parser.py both files import from is not present in the retrieved
// source tree, so this reconstructs its observable contract from its
// call sites (_parse_mix_flags, _extract_remixer_names_from_title,
// _extract_generic_parenthetical_phrases).
package mixparse

import (
	"regexp"
	"strings"
	"unicode"
)

// Flags mirrors spec §4.B's mix_flags struct.
type Flags struct {
	IsOriginal  bool
	IsExtended  bool
	IsRemix     bool
	IsRefire    bool
	IsRework    bool
	IsDub       bool
	IsVIP       bool
	IsEdit      bool
	IsRadioEdit bool
	IsClubMix   bool
	RemixerName string
}

var parenPattern = regexp.MustCompile(`[\[(]([^\])]+)[\])]`)

var (
	reOriginal  = regexp.MustCompile(`(?i)\boriginal\s*mix\b`)
	reExtended  = regexp.MustCompile(`(?i)\bextended\s*(?:mix|version)?\b`)
	reRemix     = regexp.MustCompile(`(?i)\bremix\b`)
	reRefire    = regexp.MustCompile(`(?i)\bre-?fire\b`)
	reRework    = regexp.MustCompile(`(?i)\brework\b`)
	reDub       = regexp.MustCompile(`(?i)\bdub\b`)
	reVIP       = regexp.MustCompile(`(?i)\bvip\b`)
	reRadioEdit = regexp.MustCompile(`(?i)\bradio\s*edit\b`)
	reClubMix   = regexp.MustCompile(`(?i)\bclub\s*mix\b`)
	reEdit      = regexp.MustCompile(`(?i)\bedit\b`)
)

// remixerPattern captures "X Remix" / "X Y Remix" inside a parenthetical.
var remixerPattern = regexp.MustCompile(`(?i)^(.+?)\s+remix$`)

var bracketArtistPattern = regexp.MustCompile(`\[([^\]]+)\]`)

// standardMixTokenPattern matches a parenthetical whose *entire*
// content is one of the standard mix decorations, used to distinguish
// "generic" phrases from ordinary mix suffixes.
var standardMixTokenPattern = regexp.MustCompile(
	`(?i)^\s*(?:original\s*mix|extended\s*(?:mix|version)?|radio\s*edit|club\s*mix|remix|edit|vip|dub|version)\s*$`,
)

// ParseFlags extracts mix flags and the named remixer from a raw
// title.
func ParseFlags(title string) Flags {
	f := Flags{
		IsOriginal:  reOriginal.MatchString(title),
		IsExtended:  reExtended.MatchString(title),
		IsRemix:     reRemix.MatchString(title),
		IsRefire:    reRefire.MatchString(title),
		IsRework:    reRework.MatchString(title),
		IsDub:       reDub.MatchString(title),
		IsVIP:       reVIP.MatchString(title),
		IsRadioEdit: reRadioEdit.MatchString(title),
		IsClubMix:   reClubMix.MatchString(title),
	}
	f.IsEdit = reEdit.MatchString(title) && !f.IsRadioEdit

	names := RemixerNamesFromTitle(title)
	if len(names) > 0 {
		f.RemixerName = names[0]
	}
	return f
}

// RemixerNamesFromTitle extracts names from "(X Remix)" / "(X Y Remix)"
// patterns (spec §4.B `remixer_names_from_title`).
func RemixerNamesFromTitle(title string) []string {
	var names []string
	for _, m := range parenPattern.FindAllStringSubmatch(title, -1) {
		content := strings.TrimSpace(m[1])
		if sub := remixerPattern.FindStringSubmatch(content); len(sub) == 2 {
			name := strings.TrimSpace(sub[1])
			if name != "" {
				names = append(names, name)
			}
		}
	}
	return names
}

// BracketArtistHints returns names found in square brackets (spec
// §4.B `bracket_artist_hints`).
func BracketArtistHints(title string) []string {
	var out []string
	for _, m := range bracketArtistPattern.FindAllStringSubmatch(title, -1) {
		v := strings.TrimSpace(m[1])
		if v != "" {
			out = append(out, v)
		}
	}
	return out
}

// GenericParentheticalPhrases returns parenthesized substrings that
// are not standard mix tokens (spec §4.B
// `generic_parenthetical_phrases`), e.g. "(Ivory Re-fire)".
func GenericParentheticalPhrases(title string) []string {
	var out []string
	for _, m := range parenPattern.FindAllStringSubmatch(title, -1) {
		content := strings.TrimSpace(m[1])
		if content == "" {
			continue
		}
		if standardMixTokenPattern.MatchString(content) {
			continue
		}
		out = append(out, content)
	}
	return out
}

// PhraseTokenSetInTitle reports whether phrase's token set (order-free)
// is contained in title's token set, the predicate used by the Scorer's
// generic-phrase bonus/guard and the Match Engine's early-exit check.
// Tokens are runs of letters, digits and hyphens, so brackets around a
// phrase in the title do not prevent a match.
func PhraseTokenSetInTitle(phrase, title string) bool {
	fields := func(s string) []string {
		return strings.FieldsFunc(strings.ToLower(s), func(r rune) bool {
			return !unicode.IsLetter(r) && !unicode.IsDigit(r) && r != '-'
		})
	}
	phraseTokens := fields(phrase)
	if len(phraseTokens) == 0 {
		return false
	}
	titleSet := make(map[string]bool)
	for _, tok := range fields(title) {
		titleSet[tok] = true
	}
	for _, tok := range phraseTokens {
		if !titleSet[tok] {
			return false
		}
	}
	return true
}
