// Package query implements the Query Synthesizer (spec §4.C): from a
// sanitized title, an artist string, and the original unsanitized
// title, produce an ordered, deduplicated list of search query
// strings. Grounded on original_source/query_generator.py's
// make_search_queries, stage for stage.
package query

import (
	"strings"

	"catalogmatch/catalog"
	"catalogmatch/internal/config"
	"catalogmatch/internal/mixparse"
	"catalogmatch/internal/textnorm"
)

// Synthesize implements spec §4.C in full: remixer-hint priority,
// full-title x one/two-artist, full-title x artist-variants, title
// n-grams x artists (gated by FullTitleWithArtistOnly), and bare title
// grams when artists are absent. The result is capped at
// cfg.MaxQueriesPerTrack.
func Synthesize(t, a, o string, cfg config.Settings) []catalog.Query {
	var out []catalog.Query
	seen := make(map[string]bool)

	add := func(text string, shape catalog.QueryShape) {
		key := strings.ToLower(strings.TrimSpace(text))
		if key == "" || seen[key] {
			return
		}
		if len(out) >= cfg.MaxQueriesPerTrack {
			return
		}
		seen[key] = true
		out = append(out, catalog.Query{Text: text, Shape: shape})
	}

	addWithReverse := func(base, suffix string, shape catalog.QueryShape, allowReverse bool) {
		add(base+" "+suffix, shape)
		if allowReverse {
			add(suffix+" "+base, catalog.ShapeReversed)
		}
	}

	artistTokens := textnorm.SplitArtists(a)
	titleBases := buildTitleBases(t, o)

	// Stage 1: remixer-hint priority. Bracketed artist hints (e.g.
	// "[Artist]") are folded in alongside parenthetical "(X Remix)"
	// hints since both name a likely remixer/collaborator to search
	// against every title base.
	remixerHints := append([]string{}, mixparse.RemixerNamesFromTitle(o)...)
	remixerHints = append(remixerHints, mixparse.BracketArtistHints(o)...)
	for _, remixer := range dedupStrings(remixerHints) {
		for _, base := range titleBases {
			addWithReverse(base, remixer+" remix", catalog.ShapeRemixHint, cfg.ReverseRemixHints)
			addWithReverse(base, remixer+" remix original mix", catalog.ShapeRemixHint, cfg.ReverseRemixHints)
			addWithReverse(base, remixer+" extended remix", catalog.ShapeRemixHint, cfg.ReverseRemixHints)
			addWithReverse(base, remixer+" extended mix", catalog.ShapeRemixHint, cfg.ReverseRemixHints)
		}
	}

	// Stage 2: full-title x one-artist. Reversed forms emitted because
	// PriorityReverseStage is set keep the full-title-one-artist shape so
	// they count toward the family-consensus early exit.
	reverseShape := catalog.ShapeReversed
	if cfg.PriorityReverseStage {
		reverseShape = catalog.ShapeFullTitleOneArtist
	}
	for _, base := range titleBases {
		for _, artist := range artistTokens {
			add(base+" "+artist, catalog.ShapeFullTitleOneArtist)
			if cfg.ReverseOrderQueries || cfg.PriorityReverseStage {
				add(artist+" "+base, reverseShape)
			}
		}
	}

	// Stage 3: full-title x two-artist subsets.
	for i := 0; i < len(artistTokens); i++ {
		for j := i + 1; j < len(artistTokens); j++ {
			a1, a2 := artistTokens[i], artistTokens[j]
			for _, base := range titleBases {
				add(base+" "+a1+" "+a2, catalog.ShapeFullTitleTwoArtists)
				add(base+" "+a1+" & "+a2, catalog.ShapeFullTitleTwoArtists)
			}
		}
	}

	// Stage 4: full-title x artist-variants.
	for _, variant := range artistVariants(a, cfg) {
		for _, base := range titleBases {
			add(base+" "+variant, catalog.ShapeFullTitleOneArtist)
		}
	}

	// Stage 5: title n-grams x artists, gated.
	if !cfg.FullTitleWithArtistOnly {
		titleTokens := textnorm.Tokens(t)
		for n := 1; n <= cfg.TitleGramMax && n <= len(titleTokens); n++ {
			prefix := strings.Join(titleTokens[:n], " ")
			if len(artistTokens) == 0 {
				add(prefix, catalog.ShapeGrammed)
				continue
			}
			if !cfg.CrossTitleGramsWithArtists {
				continue
			}
			if cfg.CrossSmallOnly && n > 2 {
				continue
			}
			for _, artist := range artistTokens {
				add(prefix+" "+artist, catalog.ShapeGrammed)
			}
		}
	}

	// Stage 6: bare title grams when artists are absent.
	if len(artistTokens) == 0 {
		titleTokens := textnorm.Tokens(t)
		for n := 1; n <= cfg.TitleGramMax && n <= len(titleTokens); n++ {
			add(strings.Join(titleTokens[:n], " "), catalog.ShapeTitlePrefix)
		}
		if len(titleTokens) > 0 {
			add(t, catalog.ShapeTitlePrefix)
		}
	}

	return out
}

// buildTitleBases returns the sanitized title, the original title,
// and the title re-decorated with standard-mix/generic-phrase
// suffixes (spec §4.C "title bases").
func buildTitleBases(t, o string) []string {
	bases := []string{t}
	if strings.TrimSpace(o) != "" && !strings.EqualFold(o, t) {
		bases = append(bases, o)
	}
	flags := mixparse.ParseFlags(o)
	for _, phrase := range mixparse.GenericParentheticalPhrases(o) {
		bases = append(bases, t+" ("+phrase+")")
	}
	if flags.IsExtended {
		bases = append(bases, t+" (Extended Mix)")
	}
	if flags.IsOriginal {
		bases = append(bases, t+" (Original Mix)")
	}
	return dedupStrings(bases)
}

func dedupStrings(in []string) []string {
	seen := make(map[string]bool, len(in))
	var out []string
	for _, s := range in {
		key := strings.ToLower(strings.TrimSpace(s))
		if key == "" || seen[key] {
			continue
		}
		seen[key] = true
		out = append(out, s)
	}
	return out
}

// artistVariants produces normalized-separator, "&"->"and", and
// separator-dropped variants of the artist string (spec §4.C stage 4).
func artistVariants(a string, cfg config.Settings) []string {
	if strings.TrimSpace(a) == "" {
		return nil
	}
	var out []string
	out = append(out, a)
	out = append(out, strings.ReplaceAll(a, "&", "and"))
	tokens := textnorm.SplitArtists(a)
	out = append(out, strings.Join(tokens, " "))
	if cfg.AllowGenericArtistRemixHints {
		for _, tok := range tokens {
			out = append(out, tok+" remix")
		}
	}
	return dedupStrings(out)
}
