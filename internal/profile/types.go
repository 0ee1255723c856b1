// types.go
package profile

import (
	"fmt"
	"slices"
)

// DefaultFrequencies are the MP2K engine output rates in Hz. SampleRate in a
// profile is an index into this table.
var DefaultFrequencies = []int{5734, 7884, 10512, 13379, 15768, 18157, 21024, 26758, 31536, 36314, 40137, 42048}

// ReverbType selects the reverb algorithm the engine applies.
type ReverbType uint8

const (
	ReverbNormal ReverbType = iota
	ReverbCamelot1
	ReverbCamelot2
	ReverbMGAT
	ReverbNone
)

var reverbTypeNames = [...]string{
	ReverbNormal:   "Normal",
	ReverbCamelot1: "Camelot1",
	ReverbCamelot2: "Camelot2",
	ReverbMGAT:     "MGAT",
	ReverbNone:     "None",
}

func (t ReverbType) String() string {
	if int(t) < len(reverbTypeNames) {
		return reverbTypeNames[t]
	}
	return fmt.Sprintf("ReverbType(%d)", uint8(t))
}

func (t ReverbType) MarshalText() ([]byte, error) {
	return []byte(t.String()), nil
}

func (t *ReverbType) UnmarshalText(b []byte) error {
	rt, ok := ParseReverbType(string(b))
	if !ok {
		return invalid(FieldReverbType, string(b), "unknown reverb type")
	}
	*t = rt
	return nil
}

// ParseReverbType accepts the exact enumeration names.
func ParseReverbType(s string) (ReverbType, bool) {
	for i, name := range reverbTypeNames {
		if name == s {
			return ReverbType(i), true
		}
	}
	return 0, false
}

// SongTableRegion locates one song table inside the ROM.
type SongTableRegion struct {
	Offset int64 `json:"offset"`
	Size   int64 `json:"size"`
}

type Song struct {
	Index int64  `json:"index"`
	Name  string `json:"name"`
}

type Playlist struct {
	Name  string `json:"name"`
	Songs []Song `json:"songs"`
}

func (p Playlist) clone() Playlist {
	return Playlist{Name: p.Name, Songs: slices.Clone(p.Songs)}
}

// Profile is the validated per-title record.
type Profile struct {
	Key                   string            `json:"key"`
	Name                  string            `json:"name"`
	SongTables            []SongTableRegion `json:"songTables"`
	SampleRate            int               `json:"sampleRate"`
	ReverbType            ReverbType        `json:"reverbType"`
	Reverb                uint8             `json:"reverb"`
	Volume                uint8             `json:"volume"`
	HasGoldenSunSynths    bool              `json:"hasGoldenSunSynths"`
	HasPokemonCompression bool              `json:"hasPokemonCompression"`
	Playlists             []Playlist        `json:"playlists,omitempty"`
}

func (p Profile) clone() Profile {
	out := p
	out.SongTables = slices.Clone(p.SongTables)
	out.Playlists = clonePlaylists(p.Playlists)
	return out
}

func clonePlaylists(pls []Playlist) []Playlist {
	if pls == nil {
		return nil
	}
	out := make([]Playlist, len(pls))
	for i, p := range pls {
		out[i] = p.clone()
	}
	return out
}
