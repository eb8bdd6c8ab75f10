package analysis

import "testing"

func TestNormalizeTracks(t *testing.T) {
	tracks := []Track{
		{
			Name:       "  Song  ",
			Artist:     "",
			DurationMs: -100,
			Popularity: 140,
			Genres:     []string{" Rock ", "rock", "", "Jazz"},
			Affect:     floatPtr(1.5),
		},
	}

	out := NormalizeTracks(tracks)
	if len(out) != 1 {
		t.Fatalf("Expected 1 track, got %d", len(out))
	}
	got := out[0]
	if got.Name != "Song" {
		t.Errorf("Expected trimmed name, got %q", got.Name)
	}
	if got.Artist != "(unknown)" {
		t.Errorf("Expected placeholder artist, got %q", got.Artist)
	}
	if got.DurationMs != 0 {
		t.Errorf("Expected negative duration zeroed, got %d", got.DurationMs)
	}
	if got.Popularity != 100 {
		t.Errorf("Expected popularity clamped to 100, got %d", got.Popularity)
	}
	if len(got.Genres) != 2 || got.Genres[0] != "rock" || got.Genres[1] != "jazz" {
		t.Errorf("Expected deduplicated lowercase genres, got %v", got.Genres)
	}
	if got.Affect == nil || *got.Affect != 1 {
		t.Errorf("Expected affect clamped to 1, got %v", got.Affect)
	}
}

func TestNormalizeArtists_dropsUnnamed(t *testing.T) {
	artists := []Artist{
		{Name: "  "},
		{Name: "Kept", Followers: -5, Popularity: -1},
	}

	out := NormalizeArtists(artists)
	if len(out) != 1 {
		t.Fatalf("Expected unnamed artist dropped, got %d artists", len(out))
	}
	if out[0].Followers != 0 || out[0].Popularity != 0 {
		t.Errorf("Expected negative counters zeroed, got %+v", out[0])
	}
}

func TestAffectFromTags(t *testing.T) {
	if a := AffectFromTags([]string{"shoegaze", "post-rock"}); a != nil {
		t.Errorf("Expected nil affect for non-mood tags, got %v", *a)
	}

	a := AffectFromTags([]string{"Happy", "sad", "instrumental"})
	if a == nil {
		t.Fatal("Expected affect for mood tags")
	}
	// (0.9 + 0.2) / 2
	if *a < 0.549 || *a > 0.551 {
		t.Errorf("Expected mean affect 0.55, got %v", *a)
	}
}
