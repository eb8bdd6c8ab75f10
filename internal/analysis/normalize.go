package analysis

import "strings"

// Provider field shapes drift; the rest of the package assumes strict
// records. NormalizeTracks and NormalizeArtists sit at the module boundary
// and map whatever arrived into that strict shape: nil slices become empty,
// out-of-range numbers are clamped or zeroed, blank names get placeholder
// values. Nothing here returns an error.

// NormalizeTracks returns a sanitized copy of tracks.
func NormalizeTracks(tracks []Track) []Track {
	out := make([]Track, 0, len(tracks))
	for _, t := range tracks {
		t.Name = strings.TrimSpace(t.Name)
		t.Artist = strings.TrimSpace(t.Artist)
		if t.Name == "" {
			t.Name = "(unknown)"
		}
		if t.Artist == "" {
			t.Artist = "(unknown)"
		}
		if t.DurationMs < 0 {
			t.DurationMs = 0
		}
		t.Popularity = clampPct(t.Popularity)
		t.Genres = cleanGenres(t.Genres)
		if t.Affect != nil {
			a := clamp01(*t.Affect)
			t.Affect = &a
		}
		out = append(out, t)
	}
	return out
}

// NormalizeArtists returns a sanitized copy of artists. Entries without a
// name are dropped since nothing downstream could join on them.
func NormalizeArtists(artists []Artist) []Artist {
	out := make([]Artist, 0, len(artists))
	for _, a := range artists {
		a.Name = strings.TrimSpace(a.Name)
		if a.Name == "" {
			continue
		}
		if a.Followers < 0 {
			a.Followers = 0
		}
		a.Popularity = clampPct(a.Popularity)
		a.Genres = cleanGenres(a.Genres)
		out = append(out, a)
	}
	return out
}

func cleanGenres(genres []string) []string {
	out := make([]string, 0, len(genres))
	seen := make(map[string]bool, len(genres))
	for _, g := range genres {
		g = strings.ToLower(strings.TrimSpace(g))
		if g == "" || seen[g] {
			continue
		}
		seen[g] = true
		out = append(out, g)
	}
	return out
}

func clampPct(v int) int {
	if v < 0 {
		return 0
	}
	if v > 100 {
		return 100
	}
	return v
}
