package profile

import (
	"math"
	"sort"
)

// MusicPlaylist is the aggregate playlist every configuration carries.
const MusicPlaylist = "Music"

// buildPlaylists parses playlist declarations (name → {index → song name}).
// When none is named Music, one is synthesized and placed first.
func buildPlaylists(decls []Entry) ([]Playlist, error) {
	playlists := make([]Playlist, 0, len(decls)+1)
	hasMusic := false
	for _, d := range decls {
		pl, err := buildPlaylist(d)
		if err != nil {
			return nil, err
		}
		if pl.Name == MusicPlaylist {
			hasMusic = true
		}
		playlists = append(playlists, pl)
	}
	if !hasMusic {
		playlists = append([]Playlist{synthesizeMusic(playlists)}, playlists...)
	}
	return playlists, nil
}

func buildPlaylist(d Entry) (Playlist, error) {
	field := FieldPlaylists + "." + d.Key
	pl := Playlist{Name: d.Key}

	entries, ok := d.Value.Entries()
	if !ok {
		// a bare "Name:" declares an empty playlist
		if s, isScalar := d.Value.Scalar(); isScalar && s == "" {
			return pl, nil
		}
		return Playlist{}, invalid(field, d.Value.String(), "expected a mapping of song index to name")
	}

	seen := make(map[int64]struct{}, len(entries))
	pl.Songs = make([]Song, 0, len(entries))
	for _, e := range entries {
		idx, err := parseValue(field, e.Key, 0, math.MaxInt64)
		if err != nil {
			return Playlist{}, err
		}
		if _, dup := seen[idx]; dup {
			return Playlist{}, &DuplicateSongIndexError{Playlist: d.Key, Index: idx}
		}
		seen[idx] = struct{}{}
		name, err := scalar(field, e.Value)
		if err != nil {
			return Playlist{}, err
		}
		pl.Songs = append(pl.Songs, Song{Index: idx, Name: name})
	}
	return pl, nil
}

// synthesizeMusic unions every declared song, keeping the first name seen for
// an index, sorted by index.
func synthesizeMusic(playlists []Playlist) Playlist {
	seen := make(map[int64]struct{})
	var songs []Song
	for _, pl := range playlists {
		for _, s := range pl.Songs {
			if _, ok := seen[s.Index]; ok {
				continue
			}
			seen[s.Index] = struct{}{}
			songs = append(songs, s)
		}
	}
	sort.SliceStable(songs, func(i, j int) bool { return songs[i].Index < songs[j].Index })
	return Playlist{Name: MusicPlaylist, Songs: songs}
}
