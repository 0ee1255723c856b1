package profile

import (
	"errors"
	"fmt"
	"strings"
)

var (
	ErrConfigNotFound          = errors.New("config not found")
	ErrMissingField            = errors.New("missing field")
	ErrInvalidValue            = errors.New("invalid value")
	ErrDuplicateSongIndex      = errors.New("duplicate song index")
	ErrSongTableLengthMismatch = errors.New("song table length mismatch")
	ErrNoSequencesFound        = errors.New("no sequences found")
	ErrDocumentParse           = errors.New("document parse error")
	ErrCyclicInheritance       = errors.New("cyclic inheritance")
)

// ResolveError is the single error surfaced by Build and LoadDirectory. It
// names the game key (empty for directories) and the configuration source.
type ResolveError struct {
	Key    string
	Source string
	Err    error
}

func (e *ResolveError) Error() string {
	if e.Key == "" {
		return fmt.Sprintf("%s: %v", e.Source, e.Err)
	}
	return fmt.Sprintf("game %q in %s: %v", e.Key, e.Source, e.Err)
}

func (e *ResolveError) Unwrap() error { return e.Err }

type MissingFieldError struct {
	Field string
}

func (e *MissingFieldError) Error() string {
	return fmt.Sprintf("%v: %q", ErrMissingField, e.Field)
}

func (e *MissingFieldError) Is(target error) bool { return target == ErrMissingField }

type InvalidValueError struct {
	Field  string
	Value  string
	Reason string
}

func (e *InvalidValueError) Error() string {
	return fmt.Sprintf("%v for %q: %q (%s)", ErrInvalidValue, e.Field, e.Value, e.Reason)
}

func (e *InvalidValueError) Is(target error) bool { return target == ErrInvalidValue }

type DuplicateSongIndexError struct {
	Playlist string
	Index    int64
}

func (e *DuplicateSongIndexError) Error() string {
	return fmt.Sprintf("%v: playlist %q repeats song %d", ErrDuplicateSongIndex, e.Playlist, e.Index)
}

func (e *DuplicateSongIndexError) Is(target error) bool { return target == ErrDuplicateSongIndex }

// CyclicInheritanceError carries the Copy chain that led back to a key
// already being resolved; the last element repeats an earlier one.
type CyclicInheritanceError struct {
	Chain []string
}

func (e *CyclicInheritanceError) Error() string {
	return fmt.Sprintf("%v: %s", ErrCyclicInheritance, strings.Join(e.Chain, " -> "))
}

func (e *CyclicInheritanceError) Is(target error) bool { return target == ErrCyclicInheritance }

func invalid(field, value, reason string) error {
	return &InvalidValueError{Field: field, Value: value, Reason: reason}
}
