package score

import (
	"testing"

	"catalogmatch/catalog"
	"catalogmatch/internal/config"
)

func TestScoreUnparseableCandidateRejects(t *testing.T) {
	cfg := config.Default()
	in := Input{TrackTitle: "Night Tales", TrackArtists: "Tim Green"}
	sc := Score(in, catalog.ParsedCandidate{}, cfg)
	if sc.GuardOK {
		t.Fatal("expected guard failure for empty title")
	}
	if sc.RejectReason != "unparseable_page" {
		t.Errorf("RejectReason = %q", sc.RejectReason)
	}
}

func TestScoreCloseMatchPasses(t *testing.T) {
	cfg := config.Default()
	in := Input{
		TrackTitle:         "Night Tales",
		TrackOriginalTitle: "Night Tales (Original Mix)",
		TrackArtists:       "Tim Green",
	}
	cand := catalog.ParsedCandidate{
		Title:   "Night Tales (Original Mix)",
		Artists: "Tim Green",
	}
	sc := Score(in, cand, cfg)
	if !sc.GuardOK {
		t.Fatalf("expected guard pass, got reject reason %q", sc.RejectReason)
	}
	if sc.TitleSim < 90 {
		t.Errorf("TitleSim = %d, want high", sc.TitleSim)
	}
	if sc.FinalScore <= sc.BaseScore {
		t.Errorf("expected a positive original-mix bonus, FinalScore=%v BaseScore=%v", sc.FinalScore, sc.BaseScore)
	}
}

func TestScoreArtistMismatchRejects(t *testing.T) {
	cfg := config.Default()
	in := Input{
		TrackTitle:   "Night Tales",
		TrackArtists: "Tim Green",
	}
	cand := catalog.ParsedCandidate{
		Title:   "Night Tales",
		Artists: "Bubba Holly",
	}
	sc := Score(in, cand, cfg)
	if sc.GuardOK {
		t.Fatal("expected guard failure for zero artist overlap")
	}
	if sc.RejectReason != "artist_sim_no_overlap" {
		t.Errorf("RejectReason = %q", sc.RejectReason)
	}
}

func TestScoreUnrelatedTitleRejectsOnTitleSimFloor(t *testing.T) {
	cfg := config.Default()
	in := Input{
		TrackTitle:   "Night Tales",
		TrackArtists: "Tim Green",
	}
	cand := catalog.ParsedCandidate{
		Title:   "Completely Unrelated Song Name",
		Artists: "Tim Green",
	}
	sc := Score(in, cand, cfg)
	if sc.GuardOK {
		t.Fatal("expected guard failure for low title similarity")
	}
}

func TestApplyYearBonusExactYear(t *testing.T) {
	year := 2021
	sc := &catalog.ScoredCandidate{ParsedCandidate: catalog.ParsedCandidate{ReleaseYear: &year}}
	ApplyYearBonus(sc, 2021)
	if sc.BonusYear != 2 {
		t.Errorf("BonusYear = %d, want 2 for exact match", sc.BonusYear)
	}
}

func TestApplyKeyBonusNeighbor(t *testing.T) {
	sc := &catalog.ScoredCandidate{ParsedCandidate: catalog.ParsedCandidate{CamelotKey: "9A"}}
	ApplyKeyBonus(sc, "8A")
	if sc.BonusKey != 1 {
		t.Errorf("BonusKey = %d, want 1 for adjacent camelot key", sc.BonusKey)
	}
}

func TestScoreRemixQueryBoostOverridesLowTitleSim(t *testing.T) {
	cfg := config.Default()
	in := Input{
		TrackTitle:         "Night Tales",
		TrackOriginalTitle: "Night Tales (Tim Green Remix)",
		TrackArtists:       "Tim Green",
	}
	cand := catalog.ParsedCandidate{
		Title:   "Completely Different Phrasing (Tim Green Remix)",
		Artists: "Tim Green",
	}
	sc := Score(in, cand, cfg)
	if sc.BonusArtistMatch <= 0 {
		t.Errorf("expected a positive remix-query boost, got %d", sc.BonusArtistMatch)
	}
}

func TestScoreWrongArtistPenaltyOnLowOverlap(t *testing.T) {
	cfg := config.Default()
	in := Input{
		TrackTitle:   "Night Tales",
		TrackArtists: "Tim Green, Bubba, Holly",
	}
	cand := catalog.ParsedCandidate{
		Title:   "Night Tales",
		Artists: "Tim Green",
	}
	sc := Score(in, cand, cfg)
	if sc.PenaltyWrongArtist >= 0 {
		t.Errorf("expected a negative wrong-artist penalty for partial overlap, got %d", sc.PenaltyWrongArtist)
	}
}

func TestScoreMixBonusPenalizesDifferentNamedRemixers(t *testing.T) {
	cfg := config.Default()
	in := Input{
		TrackTitle:         "Night Tales",
		TrackOriginalTitle: "Night Tales (Tim Green Remix)",
		TrackArtists:       "Tim Green",
	}
	cand := catalog.ParsedCandidate{
		Title:   "Night Tales (DJ Other Remix)",
		Artists: "Tim Green",
	}
	sc := Score(in, cand, cfg)
	if sc.BonusMix != -20 {
		t.Errorf("BonusMix = %d, want -20 for mismatched named remixers", sc.BonusMix)
	}
}

func TestConfidenceLabel(t *testing.T) {
	cfg := config.Default()
	if got := confidenceLabel(cfg.EarlyExitScore+1, cfg); got != "high" {
		t.Errorf("got %q, want high", got)
	}
	if got := confidenceLabel(cfg.MinAcceptScore, cfg); got != "medium" {
		t.Errorf("got %q, want medium", got)
	}
	if got := confidenceLabel(0, cfg); got != "low" {
		t.Errorf("got %q, want low", got)
	}
}
