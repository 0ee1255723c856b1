// Package logging builds the hclog loggers used across vgmprofile.
package logging

import (
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/hashicorp/go-hclog"

	"github.com/xtding233/vgmprofile/internal/config"
)

const (
	EnvLevel = "VGMPROFILE_LOG_LEVEL"
	EnvJSON  = "VGMPROFILE_JSON_LOG"

	DefaultLevel = "info"
)

// Settings are the logging switches read from the environment.
type Settings struct {
	Level string `env:"VGMPROFILE_LOG_LEVEL" envDefault:"info"`
	JSON  bool   `env:"VGMPROFILE_JSON_LOG"`
}

// LoadSettings reads Settings. On a parse error the returned Settings still
// carry every value that did parse.
func LoadSettings() (Settings, error) {
	var s Settings
	err := config.ParseEnv(&s)
	if s.Level == "" {
		s.Level = DefaultLevel
	}
	return s, err
}

// ParseLevel maps a level name (trace, debug, info, warn, error, off) to its
// hclog level. An empty name selects DefaultLevel.
func ParseLevel(name string) (hclog.Level, error) {
	if strings.TrimSpace(name) == "" {
		name = DefaultLevel
	}
	l := hclog.LevelFromString(name)
	if l == hclog.NoLevel {
		return hclog.NoLevel, fmt.Errorf("unknown log level %q", name)
	}
	return l, nil
}

// NewLogger creates a named logger writing to output (stderr when nil). An
// empty level defers to VGMPROFILE_LOG_LEVEL. Bad settings fall back to info
// text output and are reported on the logger itself.
func NewLogger(name string, level string, output io.Writer) hclog.Logger {
	if output == nil {
		output = os.Stderr
	}
	settings, envErr := LoadSettings()
	if level != "" {
		settings.Level = level
	}
	lvl, levelErr := ParseLevel(settings.Level)
	if levelErr != nil {
		lvl = hclog.Info
	}

	log := hclog.New(&hclog.LoggerOptions{
		Name:       name,
		Level:      lvl,
		JSONFormat: settings.JSON,
		Output:     output,
		TimeFormat: "2006-01-02T15:04:05Z", // UTC ISO format
		TimeFn: func() time.Time {
			return time.Now().UTC()
		},
	})
	if envErr != nil {
		log.Warn("ignoring malformed logging environment", "error", envErr)
	}
	if levelErr != nil {
		log.Warn("falling back to info", "error", levelErr)
	}
	return log
}
