package driver

import (
	"context"
	"testing"

	"catalogmatch/catalog"
	"catalogmatch/internal/config"
)

type fakeRunner struct {
	winnerFor map[string]bool
}

func (f *fakeRunner) BestMatch(ctx context.Context, track catalog.InputTrack) catalog.MatchResult {
	res := catalog.MatchResult{Track: track}
	if f.winnerFor[track.Title] {
		res.Winner = &catalog.ScoredCandidate{}
	}
	return res
}

func tracksFixture() []catalog.InputTrack {
	return []catalog.InputTrack{
		{Index: 0, Title: "A"},
		{Index: 1, Title: "B"},
		{Index: 2, Title: "C"},
	}
}

func TestRunPreservesOrder(t *testing.T) {
	cfg := config.Default()
	cfg.TrackWorkers = 4
	d := New(&fakeRunner{winnerFor: map[string]bool{"B": true}}, cfg)

	results := d.Run(context.Background(), tracksFixture(), nil)
	if len(results) != 3 {
		t.Fatalf("got %d results, want 3", len(results))
	}
	for i, r := range results {
		if r.Track.Index != i {
			t.Errorf("results[%d].Track.Index = %d, want %d", i, r.Track.Index, i)
		}
	}
	if results[1].Winner == nil {
		t.Error("expected track B to have a winner")
	}
	if results[0].Winner != nil || results[2].Winner != nil {
		t.Error("expected tracks A and C to have no winner")
	}
}

func TestRunReportsProgress(t *testing.T) {
	cfg := config.Default()
	cfg.TrackWorkers = 2
	d := New(&fakeRunner{}, cfg)

	var calls int
	var lastCompleted int
	progress := func(info catalog.ProgressInfo) {
		calls++
		if info.CompletedTracks > lastCompleted {
			lastCompleted = info.CompletedTracks
		}
	}

	d.Run(context.Background(), tracksFixture(), progress)
	if calls != 3 {
		t.Errorf("got %d progress calls, want 3", calls)
	}
	if lastCompleted != 3 {
		t.Errorf("lastCompleted = %d, want 3", lastCompleted)
	}
}

func TestRunProgressPanicDoesNotAbort(t *testing.T) {
	cfg := config.Default()
	cfg.TrackWorkers = 1
	d := New(&fakeRunner{}, cfg)

	progress := func(info catalog.ProgressInfo) {
		panic("boom")
	}

	results := d.Run(context.Background(), tracksFixture(), progress)
	if len(results) != 3 {
		t.Fatalf("got %d results, want 3 despite panicking progress callback", len(results))
	}
}

func TestRunAutoResearchRecoversUnmatched(t *testing.T) {
	cfg := config.Default()
	cfg.TrackWorkers = 2
	primary := &fakeRunner{winnerFor: map[string]bool{"B": true}}
	research := &fakeRunner{winnerFor: map[string]bool{"A": true, "B": true, "C": true}}
	d := New(primary, cfg).WithAutoResearch(research)

	results := d.Run(context.Background(), tracksFixture(), nil)
	for i, r := range results {
		if r.Winner == nil {
			t.Errorf("results[%d] expected a winner after auto-research, got none", i)
		}
	}
}

func TestRunAutoResearchDisabledLeavesUnmatched(t *testing.T) {
	cfg := config.Default()
	cfg.TrackWorkers = 2
	cfg.AutoResearchEnabled = false
	primary := &fakeRunner{winnerFor: map[string]bool{"B": true}}
	research := &fakeRunner{winnerFor: map[string]bool{"A": true, "B": true, "C": true}}
	d := New(primary, cfg).WithAutoResearch(research)

	results := d.Run(context.Background(), tracksFixture(), nil)
	if results[0].Winner != nil || results[2].Winner != nil {
		t.Error("expected auto-research to be skipped when disabled")
	}
}

func TestRunCancelSkipsRemaining(t *testing.T) {
	cfg := config.Default()
	cfg.TrackWorkers = 1
	d := New(&fakeRunner{}, cfg)
	d.Cancel()

	results := d.Run(context.Background(), tracksFixture(), nil)
	for i, r := range results {
		if !r.Cancelled {
			t.Errorf("results[%d].Cancelled = false, want true after Cancel()", i)
		}
	}
}
