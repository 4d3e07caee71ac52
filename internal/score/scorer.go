// Package score implements the Scorer (spec §4.F): turns a
// ParsedCandidate plus the query that found it into a ScoredCandidate,
// combining title/artist fuzzy similarity with year/key/mix/phrase
// bonuses and a set of reject guards. Grounded on
// original_source/matcher.py's scoring function, restated in detail by
// spec §4.F.
package score

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"catalogmatch/catalog"
	"catalogmatch/internal/config"
	"catalogmatch/internal/mixparse"
	"catalogmatch/internal/textnorm"
	"catalogmatch/internal/textsim"
)

// Input bundles everything the Scorer needs about the track being
// matched and the query that produced the candidate, beyond the
// ParsedCandidate itself.
type Input struct {
	TrackTitle         string
	TrackOriginalTitle string
	TrackArtists       string
	QueryShape         catalog.QueryShape
	SeenGenericMatch   bool
}

// Score evaluates one parsed candidate and returns a fully populated
// ScoredCandidate (GuardOK false implies RejectReason is set and
// FinalScore should not be treated as a match).
func Score(in Input, cand catalog.ParsedCandidate, cfg config.Settings) catalog.ScoredCandidate {
	sc := catalog.ScoredCandidate{ParsedCandidate: cand}

	if cand.Title == "" {
		sc.GuardOK = false
		sc.RejectReason = "unparseable_page"
		return sc
	}

	normTrackTitle := textnorm.Normalize(in.TrackTitle)
	normCandTitle := textnorm.Normalize(cand.Title)

	sc.TitleSim = textsim.TokenSetRatio(normTrackTitle, normCandTitle)
	sc.ArtistSim = artistSimilarity(in.TrackArtists, cand.Artists)

	sc.BaseScore = cfg.TitleWeight*float64(sc.TitleSim) + cfg.ArtistWeight*float64(sc.ArtistSim)

	trackFlags := mixparse.ParseFlags(in.TrackOriginalTitle)
	candFlags := mixparse.ParseFlags(cand.Title)

	sc.BonusMix = mixBonus(trackFlags, candFlags)
	sc.BonusYear = 0 // year bonus needs a reference year the caller doesn't supply; see ApplyYearBonus
	sc.BonusKey = 0  // key bonus requires a reference key; see ApplyKeyBonus
	genericBonus, phraseRequested, phraseMatched := genericPhraseAdjustment(in, cand.Title, cfg)
	sc.BonusGenericPhrase = genericBonus
	sc.SpecialBonus = specialRemixBonus(trackFlags, candFlags)
	sc.BonusArtistMatch = remixQueryBoost(trackFlags, candFlags, sc.ArtistSim, sc.TitleSim)
	sc.PenaltyWrongArtist = wrongArtistPenalty(in.TrackArtists, cand.Artists, sc.ArtistSim, sc.TitleSim)

	sc.FinalScore = sc.BaseScore + float64(sc.BonusMix+sc.BonusYear+sc.BonusKey+sc.BonusGenericPhrase+
		sc.SpecialBonus+sc.BonusArtistMatch+sc.PenaltyWrongArtist)

	if reason, ok := evaluateGuards(in, sc, trackFlags, normTrackTitle, normCandTitle, phraseRequested, phraseMatched, cfg); !ok {
		sc.GuardOK = false
		sc.RejectReason = reason
		return sc
	}

	sc.GuardOK = true
	sc.Confidence = confidenceLabel(sc.FinalScore, cfg)
	return sc
}

// artistSimilarity implements spec §4.F's artist_sim: the mean, over
// each individually-split input artist, of its best token_set_ratio
// against any individually-split candidate artist. Grounded on
// original_source/text_processing.py's artists_similarity.
func artistSimilarity(trackArtists, candArtists string) int {
	trackList := splitNormalizedArtists(trackArtists)
	candList := splitNormalizedArtists(candArtists)
	if len(trackList) == 0 || len(candList) == 0 {
		return 0
	}
	sum := 0
	for _, a := range trackList {
		best := 0
		for _, b := range candList {
			if r := textsim.TokenSetRatio(a, b); r > best {
				best = r
			}
		}
		sum += best
	}
	return sum / len(trackList)
}

func splitNormalizedArtists(s string) []string {
	var out []string
	for _, p := range textnorm.SplitArtists(s) {
		n := textnorm.Normalize(p)
		if n != "" {
			out = append(out, n)
		}
	}
	return out
}

// ApplyYearBonus adds the release-year proximity bonus once the
// caller knows the library's reference year for the track (spec §4.F:
// +2 if years are equal, +1 if within one year, else 0).
func ApplyYearBonus(sc *catalog.ScoredCandidate, refYear int) {
	if sc.ReleaseYear == nil || refYear == 0 {
		return
	}
	diff := *sc.ReleaseYear - refYear
	if diff < 0 {
		diff = -diff
	}
	switch {
	case diff == 0:
		sc.BonusYear = 2
	case diff == 1:
		sc.BonusYear = 1
	default:
		sc.BonusYear = 0
	}
	sc.FinalScore += float64(sc.BonusYear)
}

// ApplyKeyBonus adds the harmonic-compatibility bonus once the caller
// knows the library's reference Camelot key (spec §4.F: +2 if the
// normalized keys are equal, +1 if they are enharmonic/Camelot-wheel
// neighbours, else 0).
func ApplyKeyBonus(sc *catalog.ScoredCandidate, refCamelotKey string) {
	if sc.CamelotKey == "" || refCamelotKey == "" {
		return
	}
	switch {
	case sc.CamelotKey == refCamelotKey:
		sc.BonusKey = 2
	case nearKeys[refCamelotKey][sc.CamelotKey]:
		sc.BonusKey = 1
	default:
		sc.BonusKey = 0
	}
	sc.FinalScore += float64(sc.BonusKey)
}

// nearKeys is the Camelot-wheel adjacency table: for each key, the set
// of keys one step away (same number, other mode; or adjacent number,
// same mode). Grounded on standard harmonic-mixing adjacency rules,
// referenced by original_source/config.py's NEAR_KEYS table.
var nearKeys = buildNearKeys()

func buildNearKeys() map[string]map[string]bool {
	out := make(map[string]map[string]bool)
	for n := 1; n <= 12; n++ {
		for _, mode := range []string{"A", "B"} {
			key := fmt.Sprintf("%d%s", n, mode)
			neighbors := map[string]bool{}
			other := "B"
			if mode == "B" {
				other = "A"
			}
			neighbors[fmt.Sprintf("%d%s", n, other)] = true
			prev := n - 1
			if prev < 1 {
				prev = 12
			}
			next := n + 1
			if next > 12 {
				next = 1
			}
			neighbors[fmt.Sprintf("%d%s", prev, mode)] = true
			neighbors[fmt.Sprintf("%d%s", next, mode)] = true
			out[key] = neighbors
		}
	}
	return out
}

// mixBonus scores matching/mismatched mix classifications (spec
// §4.F's bonus_mix), including the large penalty for two differently
// named remixes noted in original_source/matcher.py: "we rely on the
// large penalty (-20) from mix_bonus for specific remixer mismatches
// instead of a strict guard".
func mixBonus(track, cand mixparse.Flags) int {
	switch {
	case track.IsOriginal && cand.IsOriginal:
		return 8
	case track.IsRemix && cand.IsRemix && track.RemixerName != "" && cand.RemixerName != "" &&
		strings.EqualFold(track.RemixerName, cand.RemixerName):
		return 10
	case track.IsRemix && cand.IsRemix && track.RemixerName != "" && cand.RemixerName != "" &&
		!strings.EqualFold(track.RemixerName, cand.RemixerName):
		return -20
	case track.IsExtended && cand.IsExtended:
		return 4
	case track.IsOriginal != cand.IsOriginal && (track.IsOriginal || cand.IsOriginal):
		return -6
	default:
		return 0
	}
}

func specialRemixBonus(track, cand mixparse.Flags) int {
	if track.IsRework && cand.IsRework {
		return 6
	}
	if track.IsVIP && cand.IsVIP {
		return 6
	}
	if track.IsRefire && cand.IsRefire {
		return 6
	}
	return 0
}

// remixQueryBoost implements spec §4.F's remix-query boost, grounded
// on original_source/matcher.py's two additive artist_sim-gated
// blocks (lines 286-336 of matcher.py): a remix-to-remix match with
// near-perfect artist identity is rewarded even when the title format
// differs a lot.
func remixQueryBoost(track, cand mixparse.Flags, artistSim, titleSim int) int {
	boost := 0
	if artistSim >= 95 {
		switch {
		case track.IsRemix && cand.IsRemix:
			boost += 25
		case track.IsRemix:
			boost += 15
		case titleSim >= 10:
			boost += 20
		}
	}
	if track.IsRemix && artistSim >= 80 && titleSim < 50 {
		if cand.IsRemix {
			boost += 15
		} else if titleSim >= 10 {
			boost += 10
		}
	}
	return boost
}

// wrongArtistPenalty implements spec §4.F's wrong-artist penalty,
// grounded on original_source/matcher.py's split_artists token-overlap
// check (lines 301-317 of matcher.py).
func wrongArtistPenalty(trackArtists, candArtists string, artistSim, titleSim int) int {
	inputTokens := artistTokenSet(trackArtists)
	candTokens := artistTokenSet(candArtists)
	if len(inputTokens) == 0 || len(candTokens) == 0 {
		return 0
	}
	overlap := 0
	for tok := range inputTokens {
		if candTokens[tok] {
			overlap++
		}
	}
	total := len(inputTokens)
	switch {
	case float64(overlap) < float64(total)*0.5 && artistSim < 50:
		return -30
	case titleSim >= 95 && overlap == 0 && artistSim < 30:
		return -15
	default:
		return 0
	}
}

func artistTokenSet(s string) map[string]bool {
	set := make(map[string]bool)
	for _, tok := range splitNormalizedArtists(s) {
		set[tok] = true
	}
	return set
}

// artistTokenOverlap reports whether any normalized whitespace-split
// word of trackArtists appears among candArtists's words, the looser
// word-bag check original_source/text_processing.py's
// _artist_token_overlap uses for the no-overlap guard (distinct from
// the entity-level split used by wrongArtistPenalty/artistSimilarity).
func artistTokenOverlap(trackArtists, candArtists string) bool {
	a := wordSet(trackArtists)
	b := wordSet(candArtists)
	if len(a) == 0 || len(b) == 0 {
		return false
	}
	for tok := range a {
		if b[tok] {
			return true
		}
	}
	return false
}

func wordSet(s string) map[string]bool {
	set := make(map[string]bool)
	for _, tok := range strings.Fields(textnorm.Normalize(s)) {
		set[tok] = true
	}
	return set
}

// titleMentionsInputArtistAsRemixer reports whether candTitle contains
// "<input-artist> remix", the guard_artist_sim_no_overlap escape
// clause (original_source/matcher.py's title_mentions_input_remix).
func titleMentionsInputArtistAsRemixer(candTitle, trackArtists string) bool {
	normTitle := textnorm.Normalize(candTitle)
	for _, artist := range textnorm.SplitArtists(trackArtists) {
		tok := textnorm.Normalize(artist)
		if tok == "" {
			continue
		}
		pattern := `\b` + regexp.QuoteMeta(tok) + `\s+remix\b`
		if matched, _ := regexp.MatchString(pattern, normTitle); matched {
			return true
		}
	}
	return false
}

// genericPhraseAdjustment implements spec §4.F's generic-phrase bonus
// and the Open Question 4 decision: a candidate whose title contains a
// requested phrase earns GenericPhraseMatchBonus; a plain original or
// extended candidate that does not loses GenericPhrasePlainPenalty, and
// additionally the orig/ext penalty once a generic phrase match has
// already been seen for this track (in.SeenGenericMatch), matching
// matcher.py's "seen_generic_match" state threaded across candidates.
// The two extra booleans tell the caller whether a phrase was
// requested at all and whether this candidate satisfied it, for the
// guard_generic_phrase_strict guard.
func genericPhraseAdjustment(in Input, candTitle string, cfg config.Settings) (bonus int, requested, matched bool) {
	phrases := mixparse.GenericParentheticalPhrases(in.TrackOriginalTitle)
	if len(phrases) == 0 {
		return 0, false, false
	}
	requested = true

	for _, phrase := range phrases {
		if mixparse.PhraseTokenSetInTitle(phrase, candTitle) {
			matched = true
			break
		}
	}
	if matched {
		return cfg.GenericPhraseMatchBonus, requested, true
	}

	flags := mixparse.ParseFlags(candTitle)
	if !flags.IsOriginal && !flags.IsExtended {
		return 0, requested, false
	}
	penalty := cfg.GenericPhrasePlainPenalty
	if in.SeenGenericMatch {
		switch {
		case flags.IsOriginal:
			penalty += cfg.GenericPhraseOrigPenalty
		case flags.IsExtended:
			penalty += cfg.GenericPhraseExtPenalty
		}
	}
	return -penalty, requested, false
}

// evaluateGuards runs the spec §4.F guard chain in the original's
// order: title-token coverage (always), then either the title-only-mode
// floor or the artist-overlap-plus-title-floor ladder, then the strict
// generic-phrase guard.
func evaluateGuards(in Input, sc catalog.ScoredCandidate, trackFlags mixparse.Flags, normTrackTitle, normCandTitle string, phraseRequested, phraseMatched bool, cfg config.Settings) (string, bool) {
	trackTokens := textnorm.SignificantTokens(normTrackTitle)
	if len(trackTokens) >= 2 {
		candSet := make(map[string]bool)
		for _, tok := range textnorm.SignificantTokens(normCandTitle) {
			candSet[tok] = true
		}
		covered := 0
		for _, tok := range trackTokens {
			if candSet[tok] {
				covered++
			}
		}
		coverage := float64(covered) / float64(len(trackTokens))
		if coverage < 0.3 && sc.TitleSim < 85 && sc.ArtistSim < 90 {
			return "title_token_coverage", false
		}
	}

	if in.TrackArtists == "" {
		if sc.TitleSim < 88 {
			return "title_only_mode", false
		}
	} else {
		overlap := artistTokenOverlap(in.TrackArtists, sc.Artists)
		remixImpliesOverlap := titleMentionsInputArtistAsRemixer(sc.Title, in.TrackArtists)
		if !overlap && !remixImpliesOverlap && sc.ArtistSim < 20 {
			return "artist_sim_no_overlap", false
		}

		floor := 60
		overlapOrSim := overlap || remixImpliesOverlap || sc.ArtistSim >= 50
		switch {
		case trackFlags.IsRemix:
			floor = 50
			switch {
			case sc.ArtistSim >= 85:
				floor = 35
			case sc.ArtistSim >= 70:
				floor = 40
			case overlapOrSim:
				floor = 45
			}
		case sc.ArtistSim >= 85:
			floor = 45
		case sc.ArtistSim >= 70:
			floor = 50
		case overlapOrSim:
			floor = 55
		}
		if sc.TitleSim < floor {
			return "title_sim_floor", false
		}
	}

	if phraseRequested && !phraseMatched && sc.TitleSim < cfg.GenericPhraseStrictRejectSim {
		return "generic_phrase_strict", false
	}

	return "", true
}

func confidenceLabel(finalScore float64, cfg config.Settings) string {
	switch {
	case finalScore >= cfg.EarlyExitScore:
		return "high"
	case finalScore >= cfg.MinAcceptScore:
		return "medium"
	default:
		return "low"
	}
}

// ParseBPM best-effort parses a candidate's raw BPM string for numeric
// comparisons the caller may want to layer on top of ApplyYearBonus
// and ApplyKeyBonus.
func ParseBPM(raw string) (float64, bool) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return 0, false
	}
	v, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		return 0, false
	}
	return v, true
}
