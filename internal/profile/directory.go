package profile

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// PSFExtension is the sequence file extension of PSX PSF rips.
const PSFExtension = ".psf"

// LoadDirectory builds a Config from the sequence files directly inside dir
// whose extension matches ext, case-insensitively. Files are ordered by name
// and become the songs of a single Music playlist.
func LoadDirectory(dir, ext string, opts ...Option) (*Config, error) {
	o := newOptions(opts)
	if ext != "" && !strings.HasPrefix(ext, ".") {
		ext = "." + ext
	}

	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, &ResolveError{Source: dir, Err: fmt.Errorf("read sequence directory: %w", err)}
	}

	var files []string
	for _, e := range entries {
		if !e.Type().IsRegular() {
			continue
		}
		if strings.EqualFold(filepath.Ext(e.Name()), ext) {
			files = append(files, filepath.Join(dir, e.Name()))
		}
	}
	if len(files) == 0 {
		return nil, &ResolveError{Source: dir, Err: fmt.Errorf("%w: no *%s files", ErrNoSequencesFound, ext)}
	}

	songs := make([]Song, len(files))
	for i, f := range files {
		// TODO: read the title from the PSF tag block when present
		base := filepath.Base(f)
		songs[i] = Song{Index: int64(i), Name: strings.TrimSuffix(base, filepath.Ext(base))}
	}
	o.log.Debug("scanned sequence directory", "dir", dir, "ext", ext, "files", len(files))

	return &Config{
		source:    dir,
		playlists: []Playlist{{Name: MusicPlaylist, Songs: songs}},
		freqs:     o.freqs,
		songNames: o.songNames,
		dir:       dir,
		files:     files,
	}, nil
}
