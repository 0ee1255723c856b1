package profile

import (
	"fmt"
	"strconv"
	"strings"
)

// validate turns resolved fields into a Profile, stopping at the first
// problem. resourceLen bounds song table offsets and sizes; freqs bounds
// SampleRate.
func validate(key string, f *Fields, resourceLen int, freqs []int) (Profile, error) {
	p := Profile{Key: key}

	n, err := required(f, FieldName)
	if err != nil {
		return Profile{}, err
	}
	if p.Name, err = scalar(FieldName, n); err != nil {
		return Profile{}, err
	}

	offsets, err := required(f, FieldSongTableOffsets)
	if err != nil {
		return Profile{}, err
	}
	if _, err := offsetTokens(offsets); err != nil {
		return Profile{}, err
	}
	sizes, err := required(f, FieldSongTableSizes)
	if err != nil {
		return Profile{}, err
	}
	if p.SongTables, err = buildSongTables(offsets, sizes, resourceLen); err != nil {
		return Profile{}, err
	}

	rate, err := requiredValue(f, FieldSampleRate, 0, int64(len(freqs)-1))
	if err != nil {
		return Profile{}, err
	}
	p.SampleRate = int(rate)

	if n, err = required(f, FieldReverbType); err != nil {
		return Profile{}, err
	}
	raw, err := scalar(FieldReverbType, n)
	if err != nil {
		return Profile{}, err
	}
	rt, ok := ParseReverbType(strings.TrimSpace(raw))
	if !ok {
		return Profile{}, invalid(FieldReverbType, raw, "must be one of "+strings.Join(reverbTypeNames[:], ", "))
	}
	p.ReverbType = rt

	reverb, err := requiredValue(f, FieldReverb, 0, 255)
	if err != nil {
		return Profile{}, err
	}
	p.Reverb = uint8(reverb)

	volume, err := requiredValue(f, FieldVolume, 0, 15)
	if err != nil {
		return Profile{}, err
	}
	p.Volume = uint8(volume)

	if p.HasGoldenSunSynths, err = requiredBool(f, FieldHasGoldenSunSynths); err != nil {
		return Profile{}, err
	}
	if p.HasPokemonCompression, err = requiredBool(f, FieldHasPokemonCompression); err != nil {
		return Profile{}, err
	}

	if p.Playlists, err = buildPlaylists(f.Playlists()); err != nil {
		return Profile{}, err
	}
	return p, nil
}

func required(f *Fields, name string) (Node, error) {
	n, ok := f.Get(name)
	if !ok {
		return Node{}, &MissingFieldError{Field: name}
	}
	return n, nil
}

func scalar(name string, n Node) (string, error) {
	s, ok := n.Scalar()
	if !ok {
		return "", invalid(name, n.String(), "expected a scalar, got a "+n.Kind().String())
	}
	return s, nil
}

func requiredValue(f *Fields, name string, min, max int64) (int64, error) {
	n, err := required(f, name)
	if err != nil {
		return 0, err
	}
	raw, err := scalar(name, n)
	if err != nil {
		return 0, err
	}
	return parseValue(name, raw, min, max)
}

func requiredBool(f *Fields, name string) (bool, error) {
	n, err := required(f, name)
	if err != nil {
		return false, err
	}
	raw, err := scalar(name, n)
	if err != nil {
		return false, err
	}
	return parseBool(name, raw)
}

// parseValue parses a decimal or 0x-prefixed hexadecimal integer in [min, max].
func parseValue(name, raw string, min, max int64) (int64, error) {
	s := strings.TrimSpace(raw)
	var (
		v   int64
		err error
	)
	if strings.HasPrefix(s, "0x") || strings.HasPrefix(s, "0X") {
		v, err = strconv.ParseInt(s[2:], 16, 64)
	} else {
		v, err = strconv.ParseInt(s, 10, 64)
	}
	if err != nil || v < min || v > max {
		return 0, invalid(name, raw, fmt.Sprintf("must be an integer in [%d, %d]", min, max))
	}
	return v, nil
}

func parseBool(name, raw string) (bool, error) {
	switch strings.TrimSpace(raw) {
	case "True", "true":
		return true, nil
	case "False", "false":
		return false, nil
	}
	return false, invalid(name, raw, "must be True or False")
}
