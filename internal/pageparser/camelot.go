package pageparser

import "strings"

// camelotByKey maps a musical key name (as published on catalog track
// pages, e.g. "F# Minor", "Abm", "C") to its Camelot wheel notation.
// Supplemented feature: not present in spec.md, carried over from
// original_source/matcher.py's _camelot_key so downstream consumers
// can sort/filter by harmonic compatibility.
var camelotByKey = map[string]string{
	"c": "8B", "g": "9B", "d": "10B", "a": "11B", "e": "12B", "b": "1B",
	"fs": "2B", "gf": "2B", "df": "3B", "cs": "3B", "af": "4B", "gs": "4B",
	"ef": "5B", "ds": "5B", "bf": "6B", "as": "6B", "f": "7B",

	"am": "8A", "em": "9A", "bm": "10A", "fsm": "11A", "gfm": "11A",
	"csm": "12A", "dfm": "12A", "gsm": "1A", "afm": "1A", "dsm": "2A",
	"efm": "2A", "asm": "3A", "bfm": "3A", "fm": "4A", "cm": "5A",
	"gm": "6A", "dm": "7A",
}

// Camelot converts a raw key string into Camelot notation, or "" if it
// does not resolve to a known key.
func Camelot(rawKey string) string {
	norm := normalizeKeyName(rawKey)
	if norm == "" {
		return ""
	}
	return camelotByKey[norm]
}

func normalizeKeyName(raw string) string {
	s := strings.ToLower(strings.TrimSpace(raw))
	if s == "" {
		return ""
	}
	s = strings.ReplaceAll(s, "♯", "#")
	s = strings.ReplaceAll(s, "♭", "b")

	isMinor := strings.Contains(s, "minor")
	s = strings.NewReplacer("minor", "", "major", "", " ", "", "\t", "").Replace(s)
	if !isMinor && len(s) > 1 && strings.HasSuffix(s, "m") {
		isMinor = true
		s = strings.TrimSuffix(s, "m")
	}
	if s == "" {
		return ""
	}

	// Flat accidental is only a second-character "b" after a note
	// letter (e.g. "eb"); a lone "b" is the note B itself.
	if len(s) == 2 && s[1] == 'b' {
		s = s[:1] + "f"
	} else {
		s = strings.ReplaceAll(s, "#", "s")
	}

	if isMinor {
		s += "m"
	}
	return s
}
