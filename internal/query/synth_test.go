package query

import (
	"strings"
	"testing"

	"catalogmatch/internal/config"
)

func TestSynthesizeDedupsCaseInsensitive(t *testing.T) {
	cfg := config.Default()
	qs := Synthesize("Night Tales", "Tim Green", "Night Tales", cfg)
	seen := make(map[string]bool)
	for _, q := range qs {
		key := strings.ToLower(q.Text)
		if seen[key] {
			t.Errorf("duplicate query %q", q.Text)
		}
		seen[key] = true
	}
}

func TestSynthesizeRemixerHintPriority(t *testing.T) {
	cfg := config.Default()
	qs := Synthesize("Never Sleep Again", "Some Artist", "Never Sleep Again (Keinemusik Remix)", cfg)
	if len(qs) == 0 {
		t.Fatal("expected at least one query")
	}
	if qs[0].Shape != "remix_hint" {
		t.Errorf("expected first query to be remix-hint shaped, got %v: %q", qs[0].Shape, qs[0].Text)
	}
}

func TestSynthesizeRespectsCap(t *testing.T) {
	cfg := config.Default()
	cfg.MaxQueriesPerTrack = 3
	qs := Synthesize("A B C D", "Artist One, Artist Two, Artist Three", "A B C D", cfg)
	if len(qs) > 3 {
		t.Errorf("got %d queries, want <= 3", len(qs))
	}
}

func TestSynthesizeBareTitleGramsWhenNoArtists(t *testing.T) {
	cfg := config.Default()
	qs := Synthesize("Night Tales", "", "Night Tales", cfg)
	if len(qs) == 0 {
		t.Fatal("expected queries for title-only input")
	}
}

func TestSynthesizeZeroCapYieldsEmpty(t *testing.T) {
	cfg := config.Default()
	cfg.MaxQueriesPerTrack = 0
	qs := Synthesize("Night Tales", "Tim Green", "Night Tales", cfg)
	if len(qs) != 0 {
		t.Errorf("got %d queries, want 0", len(qs))
	}
}
