package trackinput

import "testing"

func TestExtractArtistsFromTitle(t *testing.T) {
	cases := []struct {
		in          string
		wantArtists string
		wantRest    string
		wantOK      bool
	}{
		{"Tim Green - Night Tales", "Tim Green", "Night Tales", true},
		{"01. Tim Green - Night Tales", "Tim Green", "Night Tales", true},
		{"Tim Green - Night Tales (feat. Someone)", "Tim Green", "Night Tales", true},
		{"Just A Title", "", "", false},
		{"", "", "", false},
	}
	for _, c := range cases {
		artists, rest, ok := ExtractArtistsFromTitle(c.in)
		if ok != c.wantOK {
			t.Errorf("ExtractArtistsFromTitle(%q) ok = %v, want %v", c.in, ok, c.wantOK)
			continue
		}
		if !ok {
			continue
		}
		if artists != c.wantArtists || rest != c.wantRest {
			t.Errorf("ExtractArtistsFromTitle(%q) = (%q, %q), want (%q, %q)", c.in, artists, rest, c.wantArtists, c.wantRest)
		}
	}
}

func TestLoadAppliesFallbackOnlyWhenArtistsEmpty(t *testing.T) {
	data := []byte(`[
		{"title": "Tim Green - Night Tales"},
		{"title": "Day Tales", "artists": "Someone Else"}
	]`)
	tracks, err := Load(data)
	if err != nil {
		t.Fatal(err)
	}
	if len(tracks) != 2 {
		t.Fatalf("got %d tracks, want 2", len(tracks))
	}
	if tracks[0].Artists != "Tim Green" || tracks[0].Title != "Night Tales" {
		t.Errorf("track[0] = %+v", tracks[0])
	}
	if tracks[1].Artists != "Someone Else" || tracks[1].Title != "Day Tales" {
		t.Errorf("track[1] = %+v", tracks[1])
	}
}

func TestLoadDefaultsOriginalTitleToTitle(t *testing.T) {
	data := []byte(`[{"title": "Night Tales", "artists": "Tim Green"}]`)
	tracks, err := Load(data)
	if err != nil {
		t.Fatal(err)
	}
	if tracks[0].OriginalTitle != "Night Tales" {
		t.Errorf("OriginalTitle = %q", tracks[0].OriginalTitle)
	}
}
