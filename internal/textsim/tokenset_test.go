package textsim

import "testing"

func TestTokenSetRatioIdentical(t *testing.T) {
	if got := TokenSetRatio("never sleep again", "never sleep again"); got != 100 {
		t.Errorf("got %d, want 100", got)
	}
}

func TestTokenSetRatioOrderIndependent(t *testing.T) {
	a := TokenSetRatio("never sleep again", "keinemusik remix never sleep again")
	b := TokenSetRatio("never sleep again", "never sleep again keinemusik remix")
	if a != b {
		t.Errorf("order should not matter: %d vs %d", a, b)
	}
	if a < 90 {
		t.Errorf("superset title should score high, got %d", a)
	}
}

func TestTokenSetRatioEmpty(t *testing.T) {
	if got := TokenSetRatio("", ""); got != 100 {
		t.Errorf("got %d, want 100", got)
	}
	if got := TokenSetRatio("x", ""); got != 0 {
		t.Errorf("got %d, want 0", got)
	}
}

func TestTokenSetRatioBounds(t *testing.T) {
	cases := [][2]string{
		{"the night is blue", "late night shopping"},
		{"a b c", "d e f"},
		{"x y z", "x y z w"},
	}
	for _, c := range cases {
		got := TokenSetRatio(c[0], c[1])
		if got < 0 || got > 100 {
			t.Errorf("TokenSetRatio(%q, %q) = %d, out of [0,100]", c[0], c[1], got)
		}
	}
}

func TestTokenSetRatioDisjoint(t *testing.T) {
	got := TokenSetRatio("night tales", "late night shopping")
	if got >= 80 {
		t.Errorf("disjoint-ish titles scored too high: %d", got)
	}
}
