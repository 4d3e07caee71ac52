package mixparse

import "testing"

func TestParseFlagsRemix(t *testing.T) {
	f := ParseFlags("Never Sleep Again (Keinemusik Remix)")
	if !f.IsRemix {
		t.Error("expected IsRemix=true")
	}
	if f.RemixerName != "Keinemusik" {
		t.Errorf("got remixer %q, want Keinemusik", f.RemixerName)
	}
}

func TestParseFlagsOriginal(t *testing.T) {
	f := ParseFlags("Some Title (Original Mix)")
	if !f.IsOriginal {
		t.Error("expected IsOriginal=true")
	}
	if f.IsRemix {
		t.Error("expected IsRemix=false")
	}
}

func TestGenericParentheticalPhrases(t *testing.T) {
	phrases := GenericParentheticalPhrases("X (Ivory Re-fire)")
	if len(phrases) != 1 || phrases[0] != "Ivory Re-fire" {
		t.Errorf("got %v, want [Ivory Re-fire]", phrases)
	}
}

func TestGenericParentheticalPhrasesExcludesStandardMix(t *testing.T) {
	phrases := GenericParentheticalPhrases("X (Extended Mix)")
	if len(phrases) != 0 {
		t.Errorf("got %v, want none", phrases)
	}
}

func TestPhraseTokenSetInTitle(t *testing.T) {
	if !PhraseTokenSetInTitle("Ivory Re-fire", "X (Ivory Re-fire)") {
		t.Error("expected phrase to be contained")
	}
	if PhraseTokenSetInTitle("Ivory Re-fire", "X (Original Mix)") {
		t.Error("expected phrase not to be contained")
	}
}
