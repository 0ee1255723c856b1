package profile

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/xtding233/vgmprofile/internal/rom"
)

const testImageSize = 0x1000

const baseDocument = `
BASE_00:
  Name: "Foo"
  SongTableOffsets: 0x100
  SongTableSizes: 10
  SampleRate: 3
  ReverbType: Normal
  Reverb: 0
  Volume: 12
  HasGoldenSunSynths: False
  HasPokemonCompression: False
  Playlists:
    Overworld:
      0: Title
      2: Route 1
    Battle:
      1: Wild Battle
      2: Route 1 (battle)
CHLD_00:
  Copy: BASE_00
  Volume: 5
`

func testROM(t *testing.T, code string, version byte) *rom.ROM {
	t.Helper()
	b := make([]byte, testImageSize)
	copy(b[rom.GameCodeOffset:], code)
	b[rom.VersionOffset] = version
	r, err := rom.New(b)
	require.NoError(t, err)
	return r
}

func mustStore(t *testing.T, doc string) *Store {
	t.Helper()
	s, err := ParseStore("MP2K.yaml", []byte(doc))
	require.NoError(t, err)
	return s
}

// completeFields returns resolved fields that pass validation.
func completeFields() map[string]Node {
	return map[string]Node{
		FieldName:                  NewScalar("Foo"),
		FieldSongTableOffsets:      NewScalar("0x100 0x200"),
		FieldSongTableSizes:        NewScalar("10 20"),
		FieldSampleRate:            NewScalar("3"),
		FieldReverbType:            NewScalar("Camelot1"),
		FieldReverb:                NewScalar("255"),
		FieldVolume:                NewScalar("15"),
		FieldHasGoldenSunSynths:    NewScalar("True"),
		FieldHasPokemonCompression: NewScalar("false"),
	}
}
