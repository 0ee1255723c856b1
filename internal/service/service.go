// Package service answers profile queries for the gRPC and HTTP transports.
package service

import (
	"errors"
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"github.com/hashicorp/go-hclog"

	"github.com/xtding233/vgmprofile/internal/metrics"
	"github.com/xtding233/vgmprofile/internal/profile"
	"github.com/xtding233/vgmprofile/internal/rom"
)

// ErrOutsideRoot rejects scan directories that escape the service root.
var ErrOutsideRoot = errors.New("directory is outside the service root")

// Service resolves configurations from the loader's MP2K document. Each call
// builds and releases its own Config.
type Service struct {
	loader   *profile.Loader
	document string
	log      hclog.Logger
	opts     []profile.Option
}

func New(loader *profile.Loader, log hclog.Logger, opts ...profile.Option) *Service {
	if log == nil {
		log = hclog.NewNullLogger()
	}
	opts = append([]profile.Option{profile.WithLogger(log)}, opts...)
	return &Service{loader: loader, document: profile.MP2KDocument, log: log, opts: opts}
}

// Game is one entry of the profile document.
type Game struct {
	Key   string `json:"key"`
	Name  string `json:"name,omitempty"`
	Error string `json:"error,omitempty"`
}

// Resolve builds the configuration for a ROM image. The service owns image
// for the duration of the call.
func (s *Service) Resolve(image []byte, transport string) (summary profile.Summary, err error) {
	start := time.Now()
	defer func() { metrics.ObserveResolution(metrics.SourceProfile, transport, start, err) }()

	r, err := rom.New(image)
	if err != nil {
		return profile.Summary{}, err
	}
	defer r.Close()

	store, err := s.loader.Store(s.document)
	if err != nil {
		return profile.Summary{}, err
	}
	cfg, err := profile.Build(store, r, s.opts...)
	if err != nil {
		s.log.Warn("resolve failed", "game", r.Key().String(), "transport", transport, "error", err)
		return profile.Summary{}, err
	}
	defer cfg.Close()

	s.log.Info("resolved", "game", cfg.Key(), "name", cfg.Name(), "transport", transport)
	return cfg.Summary(), nil
}

// Scan builds a directory configuration. dir is taken relative to the
// loader's base directory and must stay inside it.
func (s *Service) Scan(dir, ext, transport string) (summary profile.Summary, err error) {
	start := time.Now()
	defer func() { metrics.ObserveResolution(metrics.SourceDirectory, transport, start, err) }()

	path, err := s.within(dir)
	if err != nil {
		return profile.Summary{}, err
	}
	if ext == "" {
		ext = profile.PSFExtension
	}
	cfg, err := profile.LoadDirectory(path, ext, s.opts...)
	if err != nil {
		s.log.Warn("scan failed", "dir", path, "transport", transport, "error", err)
		return profile.Summary{}, err
	}
	defer cfg.Close()

	s.log.Info("scanned", "dir", path, "files", len(cfg.Files()), "transport", transport)
	return cfg.Summary(), nil
}

// Games lists every key of the document with its inherited Name. Entries
// whose Copy chain cannot be resolved carry the error instead.
func (s *Service) Games() ([]Game, error) {
	store, err := s.loader.Store(s.document)
	if err != nil {
		return nil, err
	}
	resolver := profile.NewResolver(store, s.log)
	keys := store.Keys()
	games := make([]Game, 0, len(keys))
	for _, key := range keys {
		g := Game{Key: key}
		fields, err := resolver.Resolve(key)
		if err != nil {
			g.Error = err.Error()
		} else if n, ok := fields.Get(profile.FieldName); ok {
			g.Name, _ = n.Scalar()
		}
		games = append(games, g)
	}
	return games, nil
}

// Reload drops cached documents.
func (s *Service) Reload() {
	s.loader.Invalidate()
	metrics.DocumentReloadsTotal.Inc()
}

func (s *Service) within(dir string) (string, error) {
	base, err := filepath.Abs(s.loader.Paths().BaseDir)
	if err != nil {
		return "", fmt.Errorf("resolve service root: %w", err)
	}
	path := dir
	if !filepath.IsAbs(path) {
		path = filepath.Join(base, path)
	}
	path = filepath.Clean(path)
	rel, err := filepath.Rel(base, path)
	if err != nil || rel == ".." || strings.HasPrefix(rel, ".."+string(filepath.Separator)) {
		return "", fmt.Errorf("%w: %s", ErrOutsideRoot, dir)
	}
	return path, nil
}
