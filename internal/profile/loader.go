package profile

import (
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"gopkg.in/yaml.v3"
)

// Engine document names under a config directory.
const (
	MP2KDocument = "MP2K.yaml"
)

// Store is a parsed profile document. It is read-only after construction.
type Store struct {
	source string
	root   Node
}

// ParseStore parses data as a profile document. source names the document in
// error messages.
func ParseStore(source string, data []byte) (*Store, error) {
	var doc yaml.Node
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, &ResolveError{Source: source, Err: fmt.Errorf("%w: %v", ErrDocumentParse, err)}
	}
	root := NewMapping()
	if doc.Kind != 0 {
		n, err := fromYAML(&doc)
		if err != nil {
			return nil, &ResolveError{Source: source, Err: fmt.Errorf("%w: %v", ErrDocumentParse, err)}
		}
		root = n
	}
	entries, ok := root.Entries()
	if !ok {
		return nil, &ResolveError{Source: source, Err: fmt.Errorf("%w: root is a %s, want mapping", ErrDocumentParse, root.Kind())}
	}
	for _, e := range entries {
		if e.Value.Kind() != MappingKind {
			return nil, &ResolveError{Source: source, Err: fmt.Errorf("%w: line %d: entry %q is a %s, want mapping",
				ErrDocumentParse, e.Value.Line(), e.Key, e.Value.Kind())}
		}
	}
	return &Store{source: source, root: root}, nil
}

// LoadStore reads and parses the document at path.
func LoadStore(path string) (*Store, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read profile document: %w", err)
	}
	return ParseStore(filepath.Base(path), b)
}

func (s *Store) Source() string { return s.source }

// Lookup returns the mapping declared under key.
func (s *Store) Lookup(key string) (Node, error) {
	n, ok := s.root.Get(key)
	if !ok {
		return Node{}, fmt.Errorf("%w: %q", ErrConfigNotFound, key)
	}
	return n, nil
}

// Keys lists declared game keys in document order.
func (s *Store) Keys() []string {
	entries, _ := s.root.Entries()
	keys := make([]string, len(entries))
	for i, e := range entries {
		keys[i] = e.Key
	}
	return keys
}

// Paths helper for engine documents.
type Paths struct {
	BaseDir string // base directory, e.g., /opt/vgmprofile
}

func (p Paths) DocumentPath(name string) string {
	return filepath.Join(p.BaseDir, name)
}

// Loader reads profile documents and caches each parsed Store.
type Loader struct {
	paths Paths

	mu    sync.RWMutex
	cache map[string]*Store // key: document name
}

// NewLoader creates a document loader with the given base directory.
func NewLoader(baseDir string) *Loader {
	return &Loader{
		paths: Paths{BaseDir: baseDir},
		cache: make(map[string]*Store),
	}
}

func (l *Loader) Paths() Paths { return l.paths }

// Store returns the cached Store for the named document, loading it on first use.
func (l *Loader) Store(name string) (*Store, error) {
	l.mu.RLock()
	if s, ok := l.cache[name]; ok {
		l.mu.RUnlock()
		return s, nil
	}
	l.mu.RUnlock()

	s, err := LoadStore(l.paths.DocumentPath(name))
	if err != nil {
		return nil, err
	}

	l.mu.Lock()
	// another caller may have loaded it meanwhile; keep the first
	if cached, ok := l.cache[name]; ok {
		s = cached
	} else {
		l.cache[name] = s
	}
	l.mu.Unlock()
	return s, nil
}

// Invalidate clears loader's cache. Call after hot-reload detects changes.
func (l *Loader) Invalidate() {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.cache = make(map[string]*Store)
}
