package textnorm

import "testing"

func TestNormalizeIdempotent(t *testing.T) {
	cases := []string{
		"Never Sleep Again (Keinemusik Remix)",
		"Café del Mar - Extended Mix",
		"  Multiple   Spaces  ",
		"",
	}
	for _, c := range cases {
		once := Normalize(c)
		twice := Normalize(once)
		if once != twice {
			t.Errorf("Normalize not idempotent for %q: once=%q twice=%q", c, once, twice)
		}
	}
}

func TestNormalizeStripsMixSuffix(t *testing.T) {
	got := Normalize("Never Sleep Again (Extended Mix)")
	if got != "never sleep again" {
		t.Errorf("got %q, want %q", got, "never sleep again")
	}
}

func TestNormalizeStripsDiacritics(t *testing.T) {
	got := Normalize("Café del Mar")
	if got != "cafe del mar" {
		t.Errorf("got %q, want %q", got, "cafe del mar")
	}
}

func TestSanitizeTitleForSearchIdempotent(t *testing.T) {
	cases := []string{
		"Never Sleep Again",
		"Some Title (Keinemusik Remix)",
	}
	for _, c := range cases {
		once := SanitizeTitleForSearch(c)
		twice := SanitizeTitleForSearch(once)
		if once != twice {
			t.Errorf("SanitizeTitleForSearch not idempotent for %q: once=%q twice=%q", c, once, twice)
		}
	}
}

func TestSanitizeTitleForSearchDropsParens(t *testing.T) {
	got := SanitizeTitleForSearch("X (Ivory Re-fire)")
	if got != "X" {
		t.Errorf("got %q, want %q", got, "X")
	}
}

func TestSignificantTokensFiltersStopwordsAndShort(t *testing.T) {
	toks := SignificantTokens("The Night is Blue (Original Mix)")
	want := map[string]bool{"night": true, "blue": true}
	for _, tok := range toks {
		if !want[tok] {
			t.Errorf("unexpected significant token %q", tok)
		}
	}
	if len(toks) != len(want) {
		t.Errorf("got %v, want tokens matching %v", toks, want)
	}
}

func TestSplitArtists(t *testing.T) {
	got := SplitArtists("Tim Green & Elenos Jeneral feat. Someone")
	want := []string{"tim green", "elenos jeneral", "someone"}
	if len(got) != len(want) {
		t.Fatalf("got %v, want %v", got, want)
	}
	for i := range got {
		if Normalize(got[i]) != want[i] {
			t.Errorf("got[%d]=%q normalized=%q, want %q", i, got[i], Normalize(got[i]), want[i])
		}
	}
}
