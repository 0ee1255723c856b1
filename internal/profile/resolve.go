// resolve.go
package profile

import (
	"fmt"
	"slices"

	"github.com/hashicorp/go-hclog"
)

// Document keys.
const (
	FieldCopy                  = "Copy"
	FieldName                  = "Name"
	FieldSongTableOffsets      = "SongTableOffsets"
	FieldSongTableSizes        = "SongTableSizes"
	FieldSampleRate            = "SampleRate"
	FieldReverbType            = "ReverbType"
	FieldReverb                = "Reverb"
	FieldVolume                = "Volume"
	FieldHasGoldenSunSynths    = "HasGoldenSunSynths"
	FieldHasPokemonCompression = "HasPokemonCompression"
	FieldPlaylists             = "Playlists"
)

// Fields is a game entry flattened over its Copy chain. Child values replace
// ancestor values; playlists are replaced by name.
type Fields struct {
	values    map[string]Node
	playlists []Entry
}

// Get returns the effective value of a scalar field.
func (f *Fields) Get(name string) (Node, bool) {
	n, ok := f.values[name]
	return n, ok
}

// Playlists returns the effective playlist declarations in order.
func (f *Fields) Playlists() []Entry {
	return slices.Clone(f.playlists)
}

// Resolver merges a game entry with the entries it copies from.
type Resolver struct {
	store *Store
	log   hclog.Logger
}

func NewResolver(store *Store, log hclog.Logger) *Resolver {
	if log == nil {
		log = hclog.NewNullLogger()
	}
	return &Resolver{store: store, log: log}
}

// Resolve flattens key. A Copy target that is missing fails with
// ErrConfigNotFound; a key met twice on one chain fails with
// ErrCyclicInheritance.
func (r *Resolver) Resolve(key string) (*Fields, error) {
	return r.resolve(key, nil)
}

func (r *Resolver) resolve(key string, chain []string) (*Fields, error) {
	if slices.Contains(chain, key) {
		cycle := append(slices.Clone(chain), key)
		return nil, &CyclicInheritanceError{Chain: cycle}
	}
	node, err := r.store.Lookup(key)
	if err != nil {
		if len(chain) > 0 {
			return nil, fmt.Errorf("%s of %q: %w", FieldCopy, chain[len(chain)-1], err)
		}
		return nil, err
	}
	chain = append(chain, key)

	out := &Fields{values: make(map[string]Node)}
	if parent, ok := node.Get(FieldCopy); ok {
		parentKey, ok := parent.Scalar()
		if !ok {
			return nil, invalid(FieldCopy, parent.String(), "expected a game key")
		}
		r.log.Trace("copying profile", "game", key, "from", parentKey)
		out, err = r.resolve(parentKey, chain)
		if err != nil {
			return nil, err
		}
	}

	entries, _ := node.Entries()
	for _, e := range entries {
		switch e.Key {
		case FieldCopy:
		case FieldPlaylists:
			declared, ok := e.Value.Entries()
			if !ok {
				return nil, invalid(FieldPlaylists, e.Value.String(), "expected a mapping of playlists")
			}
			for _, p := range declared {
				out.overlayPlaylist(p)
			}
		default:
			out.values[e.Key] = e.Value
		}
	}
	return out, nil
}

// overlayPlaylist replaces an inherited playlist of the same name in place, or
// appends a new one.
func (f *Fields) overlayPlaylist(p Entry) {
	for i := range f.playlists {
		if f.playlists[i].Key == p.Key {
			f.playlists[i] = p
			return
		}
	}
	f.playlists = append(f.playlists, p)
}
