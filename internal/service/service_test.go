package service

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/xtding233/vgmprofile/internal/profile"
	"github.com/xtding233/vgmprofile/internal/rom"
)

const document = `
AXVE_00:
  Name: Pokemon Ruby
  SongTableOffsets: 0x200
  SongTableSizes: 0x10
  SampleRate: 4
  ReverbType: Normal
  Reverb: 0
  Volume: 15
  HasGoldenSunSynths: False
  HasPokemonCompression: True
  Playlists:
    Music:
      1: Littleroot Town
AXPE_00:
  Copy: AXVE_00
  Name: Pokemon Sapphire
LOOP_00:
  Copy: LOOP_00
`

func image(code string) []byte {
	b := make([]byte, 0x800)
	copy(b[rom.GameCodeOffset:], code)
	return b
}

func newService(t *testing.T) (*Service, string) {
	t.Helper()
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, profile.MP2KDocument), []byte(document), 0o644))
	return New(profile.NewLoader(dir), nil), dir
}

func TestResolve(t *testing.T) {
	svc, _ := newService(t)

	s, err := svc.Resolve(image("AXPE"), "test")
	require.NoError(t, err)
	require.NotNil(t, s.Profile)
	assert.Equal(t, "Pokemon Sapphire", s.Profile.Name)
	assert.Equal(t, 15768, s.FrequencyHz)
	assert.True(t, s.Profile.HasPokemonCompression)
	require.Len(t, s.Playlists, 1)
	assert.Equal(t, "Littleroot Town", s.Playlists[0].Songs[0].Name)
}

func TestResolveErrors(t *testing.T) {
	svc, _ := newService(t)

	_, err := svc.Resolve(make([]byte, 16), "test")
	assert.ErrorIs(t, err, rom.ErrTooSmall)

	_, err = svc.Resolve(image("NONE"), "test")
	assert.ErrorIs(t, err, profile.ErrConfigNotFound)

	_, err = svc.Resolve(image("LOOP"), "test")
	assert.ErrorIs(t, err, profile.ErrCyclicInheritance)
}

func TestScan(t *testing.T) {
	svc, dir := newService(t)
	bgm := filepath.Join(dir, "bgm")
	require.NoError(t, os.Mkdir(bgm, 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(bgm, "01 Opening.psf"), nil, 0o644))

	s, err := svc.Scan("bgm", "", "test")
	require.NoError(t, err)
	assert.Nil(t, s.Profile)
	require.Len(t, s.Playlists, 1)
	assert.Equal(t, "01 Opening", s.Playlists[0].Songs[0].Name)

	_, err = svc.Scan(bgm, ".minipsf", "test")
	assert.ErrorIs(t, err, profile.ErrNoSequencesFound)
}

func TestScanOutsideRoot(t *testing.T) {
	svc, _ := newService(t)

	for _, dir := range []string{"..", "../elsewhere", "/"} {
		_, err := svc.Scan(dir, "", "test")
		assert.ErrorIs(t, err, ErrOutsideRoot, dir)
	}
}

func TestGames(t *testing.T) {
	svc, _ := newService(t)

	games, err := svc.Games()
	require.NoError(t, err)
	require.Len(t, games, 3)
	assert.Equal(t, Game{Key: "AXVE_00", Name: "Pokemon Ruby"}, games[0])
	assert.Equal(t, Game{Key: "AXPE_00", Name: "Pokemon Sapphire"}, games[1])
	assert.Equal(t, "LOOP_00", games[2].Key)
	assert.Contains(t, games[2].Error, "cyclic inheritance")
}

func TestReload(t *testing.T) {
	svc, dir := newService(t)
	_, err := svc.Games()
	require.NoError(t, err)

	require.NoError(t, os.WriteFile(filepath.Join(dir, profile.MP2KDocument), []byte("ONLY_00:\n  Name: Only\n"), 0o644))
	svc.Reload()

	games, err := svc.Games()
	require.NoError(t, err)
	assert.Equal(t, []Game{{Key: "ONLY_00", Name: "Only"}}, games)
}
