package profile

import (
	"io"
	"maps"
	"slices"
	"strconv"
	"sync"

	"github.com/hashicorp/go-hclog"

	"github.com/xtding233/vgmprofile/internal/rom"
)

type options struct {
	freqs     []int
	log       hclog.Logger
	songNames map[int64]string
}

type Option func(*options)

// WithFrequencies replaces DefaultFrequencies as the SampleRate table.
func WithFrequencies(freqs []int) Option {
	return func(o *options) { o.freqs = slices.Clone(freqs) }
}

func WithLogger(l hclog.Logger) Option {
	return func(o *options) {
		if l != nil {
			o.log = l
		}
	}
}

// WithSongNames registers display names used by Config.SongName.
func WithSongNames(names map[int64]string) Option {
	return func(o *options) { o.songNames = maps.Clone(names) }
}

func newOptions(opts []Option) options {
	o := options{freqs: slices.Clone(DefaultFrequencies), log: hclog.NewNullLogger()}
	for _, opt := range opts {
		opt(&o)
	}
	return o
}

// Config is the resolved configuration handed to the playback engine. It is
// read-only and safe for concurrent use; Close releases the backing resource.
type Config struct {
	source    string
	profile   *Profile // nil for directory configs
	playlists []Playlist
	freqs     []int
	songNames map[int64]string

	rom   *rom.ROM
	dir   string
	files []string

	closeOnce sync.Once
}

// Build resolves the profile for r's game key from store. On success the
// Config owns r and closes it in Close; on failure r is left to the caller and
// no Config is returned.
func Build(store *Store, r *rom.ROM, opts ...Option) (*Config, error) {
	o := newOptions(opts)
	key := r.Key().String()

	fields, err := NewResolver(store, o.log).Resolve(key)
	if err != nil {
		return nil, &ResolveError{Key: key, Source: store.Source(), Err: err}
	}
	p, err := validate(key, fields, r.Len(), o.freqs)
	if err != nil {
		return nil, &ResolveError{Key: key, Source: store.Source(), Err: err}
	}
	o.log.Debug("resolved profile", "game", key, "name", p.Name,
		"song_tables", len(p.SongTables), "playlists", len(p.Playlists))

	return &Config{
		source:    store.Source(),
		profile:   &p,
		playlists: p.Playlists,
		freqs:     o.freqs,
		songNames: o.songNames,
		rom:       r,
	}, nil
}

func (c *Config) Source() string { return c.source }

// Key is the game key, or "" for directory configs.
func (c *Config) Key() string {
	if c.profile == nil {
		return ""
	}
	return c.profile.Key
}

func (c *Config) Name() string {
	if c.profile == nil {
		return ""
	}
	return c.profile.Name
}

// Profile returns a copy of the validated record; ok is false for directory
// configs.
func (c *Config) Profile() (p Profile, ok bool) {
	if c.profile == nil {
		return Profile{}, false
	}
	return c.profile.clone(), true
}

func (c *Config) SongTables() []SongTableRegion {
	if c.profile == nil {
		return nil
	}
	return slices.Clone(c.profile.SongTables)
}

func (c *Config) SampleRate() int {
	if c.profile == nil {
		return 0
	}
	return c.profile.SampleRate
}

// Frequency returns the output rate in Hz selected by SampleRate.
func (c *Config) Frequency() int {
	if c.profile == nil {
		return 0
	}
	return c.freqs[c.profile.SampleRate]
}

func (c *Config) ReverbType() ReverbType {
	if c.profile == nil {
		return ReverbNone
	}
	return c.profile.ReverbType
}

func (c *Config) Reverb() uint8 {
	if c.profile == nil {
		return 0
	}
	return c.profile.Reverb
}

func (c *Config) Volume() uint8 {
	if c.profile == nil {
		return 0
	}
	return c.profile.Volume
}

func (c *Config) HasGoldenSunSynths() bool {
	return c.profile != nil && c.profile.HasGoldenSunSynths
}

func (c *Config) HasPokemonCompression() bool {
	return c.profile != nil && c.profile.HasPokemonCompression
}

func (c *Config) Playlists() []Playlist {
	return clonePlaylists(c.playlists)
}

// Playlist returns the named playlist.
func (c *Config) Playlist(name string) (Playlist, bool) {
	for _, p := range c.playlists {
		if p.Name == name {
			return p.clone(), true
		}
	}
	return Playlist{}, false
}

// SongName returns the registered name for index, or its decimal form.
func (c *Config) SongName(index int64) string {
	if name, ok := c.songNames[index]; ok {
		return name
	}
	return strconv.FormatInt(index, 10)
}

// Resource returns the ROM backing a profile config, or nil for directory
// configs.
func (c *Config) Resource() io.ReaderAt {
	if c.rom == nil {
		return nil
	}
	return c.rom
}

// Dir returns the scanned directory, or "" for profile configs.
func (c *Config) Dir() string { return c.dir }

// Files returns the sequence files of a directory config in playlist order.
func (c *Config) Files() []string { return slices.Clone(c.files) }

// Close releases the backing resource. Calling it again is a no-op.
func (c *Config) Close() error {
	var err error
	c.closeOnce.Do(func() {
		if c.rom != nil {
			err = c.rom.Close()
		}
	})
	return err
}

// Summary is a JSON view of a Config.
type Summary struct {
	Source      string     `json:"source"`
	Dir         string     `json:"dir,omitempty"`
	Files       []string   `json:"files,omitempty"`
	Profile     *Profile   `json:"profile,omitempty"`
	FrequencyHz int        `json:"frequencyHz,omitempty"`
	Playlists   []Playlist `json:"playlists"`
}

func (c *Config) Summary() Summary {
	s := Summary{
		Source:    c.source,
		Dir:       c.dir,
		Files:     c.Files(),
		Playlists: c.Playlists(),
	}
	if p, ok := c.Profile(); ok {
		p.Playlists = nil
		s.Profile = &p
		s.FrequencyHz = c.Frequency()
	}
	return s
}
