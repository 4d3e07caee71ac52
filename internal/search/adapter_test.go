package search

import (
	"testing"

	"catalogmatch/internal/config"
)

func TestIsTrackURL(t *testing.T) {
	cases := []struct {
		url  string
		want bool
	}{
		{"https://www.beatport.com/track/night-tales/12345678", true},
		{"https://www.beatport.com/release/night-tales/987654", false},
		{"https://www.beatport.com/artist/tim-green/12345", false},
		{"not a url at all", false},
	}
	for _, c := range cases {
		if got := IsTrackURL(c.url); got != c.want {
			t.Errorf("IsTrackURL(%q) = %v, want %v", c.url, got, c.want)
		}
	}
}

func TestDedupTrackURLs(t *testing.T) {
	in := []string{
		"https://www.beatport.com/track/a/1",
		"HTTPS://WWW.BEATPORT.COM/TRACK/A/1",
		"https://www.beatport.com/track/b/2",
	}
	out := dedupTrackURLs(in)
	if len(out) != 2 {
		t.Fatalf("got %d urls, want 2: %v", len(out), out)
	}
}

func TestFilterTrackURLs(t *testing.T) {
	in := []string{
		"https://www.beatport.com/track/a/1",
		"https://www.beatport.com/release/a/1",
		"https://www.beatport.com/track/a/1",
	}
	out := filterTrackURLs(in)
	if len(out) != 1 {
		t.Fatalf("got %d urls, want 1: %v", len(out), out)
	}
}

func TestAdaptiveMaxResultsDisabled(t *testing.T) {
	cfg := config.Default()
	cfg.AdaptiveMaxResults = false
	cfg.MaxSearchResults = 30
	ad := &Adapter{cfg: cfg}
	if n := ad.adaptiveMaxResults("anything", 0); n != 30 {
		t.Errorf("got %d, want 30", n)
	}
}

func TestAdaptiveMaxResultsRemixHigh(t *testing.T) {
	cfg := config.Default()
	ad := &Adapter{cfg: cfg}
	if n := ad.adaptiveMaxResults("track name (Some Remix)", 0); n != cfg.MRHigh {
		t.Errorf("got %d, want %d (remix + few seen)", n, cfg.MRHigh)
	}
}

func TestAdaptiveMaxResultsPlainLow(t *testing.T) {
	cfg := config.Default()
	ad := &Adapter{cfg: cfg}
	if n := ad.adaptiveMaxResults("plain title artist", 0); n != cfg.MRLow {
		t.Errorf("got %d, want %d (plain query)", n, cfg.MRLow)
	}
}
