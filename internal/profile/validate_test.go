package profile

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestValidateComplete(t *testing.T) {
	p, err := validate("BPEE_00", &Fields{values: completeFields()}, testImageSize, DefaultFrequencies)
	require.NoError(t, err)

	assert.Equal(t, "BPEE_00", p.Key)
	assert.Equal(t, "Foo", p.Name)
	assert.Equal(t, []SongTableRegion{{Offset: 0x100, Size: 10}, {Offset: 0x200, Size: 20}}, p.SongTables)
	assert.Equal(t, 3, p.SampleRate)
	assert.Equal(t, ReverbCamelot1, p.ReverbType)
	assert.Equal(t, uint8(255), p.Reverb)
	assert.Equal(t, uint8(15), p.Volume)
	assert.True(t, p.HasGoldenSunSynths)
	assert.False(t, p.HasPokemonCompression)

	require.Len(t, p.Playlists, 1)
	assert.Equal(t, MusicPlaylist, p.Playlists[0].Name)
	assert.Empty(t, p.Playlists[0].Songs)
}

func TestValidateMissingField(t *testing.T) {
	for _, field := range []string{
		FieldName,
		FieldSongTableOffsets,
		FieldSongTableSizes,
		FieldSampleRate,
		FieldReverbType,
		FieldReverb,
		FieldVolume,
		FieldHasGoldenSunSynths,
		FieldHasPokemonCompression,
	} {
		t.Run(field, func(t *testing.T) {
			values := completeFields()
			delete(values, field)

			_, err := validate("BPEE_00", &Fields{values: values}, testImageSize, DefaultFrequencies)
			require.ErrorIs(t, err, ErrMissingField)

			var me *MissingFieldError
			require.ErrorAs(t, err, &me)
			assert.Equal(t, field, me.Field)
		})
	}
}

func TestValidateInvalidValues(t *testing.T) {
	tests := []struct {
		field string
		value Node
	}{
		{FieldName, NewMapping()},
		{FieldSampleRate, NewScalar("12")},
		{FieldSampleRate, NewScalar("-1")},
		{FieldSampleRate, NewScalar("13379")},
		{FieldReverbType, NewScalar("Hall")},
		{FieldReverbType, NewScalar("normal")},
		{FieldReverb, NewScalar("256")},
		{FieldReverb, NewScalar("abc")},
		{FieldVolume, NewScalar("16")},
		{FieldVolume, NewSequence(NewScalar("1"))},
		{FieldHasGoldenSunSynths, NewScalar("yes")},
		{FieldHasPokemonCompression, NewScalar("1")},
		{FieldHasPokemonCompression, NewScalar("TRUE")},
	}
	for _, tt := range tests {
		t.Run(tt.field+"="+tt.value.String(), func(t *testing.T) {
			values := completeFields()
			values[tt.field] = tt.value

			_, err := validate("BPEE_00", &Fields{values: values}, testImageSize, DefaultFrequencies)
			require.ErrorIs(t, err, ErrInvalidValue)

			var ie *InvalidValueError
			require.ErrorAs(t, err, &ie)
			assert.Equal(t, tt.field, ie.Field)
			assert.Equal(t, tt.value.String(), ie.Value)
			assert.NotEmpty(t, ie.Reason)
		})
	}
}

func TestValidateSampleRateUsesSuppliedTable(t *testing.T) {
	values := completeFields()
	values[FieldSampleRate] = NewScalar("1")

	_, err := validate("BPEE_00", &Fields{values: values}, testImageSize, []int{22050, 44100})
	require.NoError(t, err)

	values[FieldSampleRate] = NewScalar("2")
	_, err = validate("BPEE_00", &Fields{values: values}, testImageSize, []int{22050, 44100})
	require.ErrorIs(t, err, ErrInvalidValue)
}

func TestValidateStopsAtFirstFailure(t *testing.T) {
	values := completeFields()
	values[FieldVolume] = NewScalar("99")
	delete(values, FieldHasPokemonCompression)

	_, err := validate("BPEE_00", &Fields{values: values}, testImageSize, DefaultFrequencies)
	require.ErrorIs(t, err, ErrInvalidValue)
	assert.NotErrorIs(t, err, ErrMissingField)
}

func TestValidateEmptyOffsetsBeforeMissingSizes(t *testing.T) {
	values := completeFields()
	values[FieldSongTableOffsets] = NewScalar("")
	delete(values, FieldSongTableSizes)

	_, err := validate("BPEE_00", &Fields{values: values}, testImageSize, DefaultFrequencies)
	require.ErrorIs(t, err, ErrInvalidValue)
	assert.NotErrorIs(t, err, ErrMissingField)

	var ie *InvalidValueError
	require.ErrorAs(t, err, &ie)
	assert.Equal(t, FieldSongTableOffsets, ie.Field)
	assert.Equal(t, "no entries", ie.Reason)
}

func TestParseValue(t *testing.T) {
	tests := []struct {
		raw     string
		want    int64
		wantErr bool
	}{
		{"0", 0, false},
		{"15", 15, false},
		{"0xF", 15, false},
		{"0X0f", 15, false},
		{" 7 ", 7, false},
		{"16", 0, true},
		{"-1", 0, true},
		{"0x", 0, true},
		{"010", 10, false},
		{"1_0", 0, true},
		{"", 0, true},
	}
	for _, tt := range tests {
		t.Run(tt.raw, func(t *testing.T) {
			got, err := parseValue(FieldVolume, tt.raw, 0, 15)
			if tt.wantErr {
				assert.ErrorIs(t, err, ErrInvalidValue)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestParseBool(t *testing.T) {
	for raw, want := range map[string]bool{"True": true, "true": true, "False": false, "false": false} {
		got, err := parseBool(FieldHasGoldenSunSynths, raw)
		require.NoError(t, err, raw)
		assert.Equal(t, want, got, raw)
	}
	for _, raw := range []string{"", "TRUE", "yes", "0", "on"} {
		_, err := parseBool(FieldHasGoldenSunSynths, raw)
		assert.ErrorIs(t, err, ErrInvalidValue, raw)
	}
}

func TestReverbType(t *testing.T) {
	for i, name := range []string{"Normal", "Camelot1", "Camelot2", "MGAT", "None"} {
		rt, ok := ParseReverbType(name)
		require.True(t, ok, name)
		assert.Equal(t, ReverbType(i), rt)
		assert.Equal(t, name, rt.String())
	}
	assert.Equal(t, "ReverbType(9)", ReverbType(9).String())
}

func TestReverbTypeText(t *testing.T) {
	b, err := ReverbMGAT.MarshalText()
	require.NoError(t, err)
	assert.Equal(t, "MGAT", string(b))

	var rt ReverbType
	require.NoError(t, rt.UnmarshalText([]byte("Camelot2")))
	assert.Equal(t, ReverbCamelot2, rt)
	assert.ErrorIs(t, rt.UnmarshalText([]byte("Hall")), ErrInvalidValue)
}
