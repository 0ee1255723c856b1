package profile

import (
	"fmt"
	"strings"
)

// buildSongTables pairs the offset and size token lists into regions that lie
// inside a resource of resourceLen bytes. Input order is kept.
func buildSongTables(offsets, sizes Node, resourceLen int) ([]SongTableRegion, error) {
	offTokens, err := offsetTokens(offsets)
	if err != nil {
		return nil, err
	}
	sizeTokens, err := tokens(FieldSongTableSizes, sizes)
	if err != nil {
		return nil, err
	}
	if len(sizeTokens) != len(offTokens) {
		return nil, fmt.Errorf("%w: %d %s but %d %s", ErrSongTableLengthMismatch,
			len(offTokens), FieldSongTableOffsets, len(sizeTokens), FieldSongTableSizes)
	}

	maxOffset := int64(resourceLen) - 1
	regions := make([]SongTableRegion, len(offTokens))
	for i := range offTokens {
		off, err := parseValue(FieldSongTableOffsets, offTokens[i], 0, maxOffset)
		if err != nil {
			return nil, err
		}
		size, err := parseValue(FieldSongTableSizes, sizeTokens[i], 1, maxOffset)
		if err != nil {
			return nil, err
		}
		regions[i] = SongTableRegion{Offset: off, Size: size}
	}
	return regions, nil
}

// offsetTokens returns the SongTableOffsets tokens, rejecting an empty list.
func offsetTokens(offsets Node) ([]string, error) {
	toks, err := tokens(FieldSongTableOffsets, offsets)
	if err != nil {
		return nil, err
	}
	if len(toks) == 0 {
		return nil, invalid(FieldSongTableOffsets, offsets.String(), "no entries")
	}
	return toks, nil
}

// tokens splits a whitespace-delimited scalar. A sequence of scalars is read
// as the concatenation of its items' tokens.
func tokens(name string, n Node) ([]string, error) {
	if s, ok := n.Scalar(); ok {
		return strings.Fields(s), nil
	}
	items, ok := n.Items()
	if !ok {
		return nil, invalid(name, n.String(), "expected a token list, got a "+n.Kind().String())
	}
	var out []string
	for _, it := range items {
		s, err := scalar(name, it)
		if err != nil {
			return nil, err
		}
		out = append(out, strings.Fields(s)...)
	}
	return out, nil
}
