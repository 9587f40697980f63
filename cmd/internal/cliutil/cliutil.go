// Package cliutil provides shared helpers for the sfzlint command-line
// tools: config file loading, logger setup, and file discovery.
package cliutil

import (
	"fmt"
	"io"
	"io/fs"
	"log/slog"
	"os"
	"path"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"

	"github.com/gosfz/sfzlint/internal/logging"
	"github.com/gosfz/sfzlint/sfz"
)

// ConfigFileName is the per-project config file, looked up next to the
// linted path and then in the working directory.
const ConfigFileName = ".sfzlint.toml"

// Config mirrors the optional .sfzlint.toml file. Command-line flags
// override anything set here.
type Config struct {
	SpecVersions     []string `toml:"spec_versions"`
	NoIncludes       bool     `toml:"no_includes"`
	NoUndefined      bool     `toml:"no_undefined_warnings"`
	SingletonHeaders bool     `toml:"singleton_headers"`
	Jobs             int      `toml:"jobs"`
	// Ignore holds diagnostic-code globs to suppress, e.g. "sample-*".
	Ignore []string `toml:"ignore"`
}

// LoadConfig reads the first config file found in the given directories.
// Missing files are not an error; a malformed file is.
func LoadConfig(dirs ...string) (Config, error) {
	var cfg Config
	for _, dir := range dirs {
		if dir == "" {
			continue
		}
		path := filepath.Join(dir, ConfigFileName)
		if _, err := os.Stat(path); err != nil {
			continue
		}
		if _, err := toml.DecodeFile(path, &cfg); err != nil {
			return cfg, fmt.Errorf("reading %s: %w", path, err)
		}
		return cfg, nil
	}
	return cfg, nil
}

// NewLogger maps a -v count to a logger on stderr: 0 is silent, 1 enables
// debug, 2 and up enables trace.
func NewLogger(verbosity int) *slog.Logger {
	if verbosity <= 0 {
		return nil
	}
	level := slog.LevelDebug
	if verbosity > 1 {
		level = logging.LevelTrace
	}
	return slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))
}

// FindFiles returns path itself when it names a file, otherwise every .sfz
// file under it, sorted by path.
func FindFiles(path string) ([]string, error) {
	info, err := os.Stat(path)
	if err != nil {
		return nil, err
	}
	if !info.IsDir() {
		return []string{path}, nil
	}
	var files []string
	err = filepath.WalkDir(path, func(p string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if !d.IsDir() && strings.EqualFold(filepath.Ext(p), ".sfz") {
			files = append(files, p)
		}
		return nil
	})
	return files, err
}

// PrintDiagnostics writes diagnostics one per line, skipping codes matched
// by an ignore glob, and reports whether any printed diagnostic was an error.
func PrintDiagnostics(w io.Writer, diags []sfz.Diagnostic, ignore []string) bool {
	hadError := false
	for _, d := range diags {
		if Ignored(d.Code, ignore) {
			continue
		}
		fmt.Fprintln(w, d.String())
		if d.Severity == sfz.SeverityError {
			hadError = true
		}
	}
	return hadError
}

// Ignored reports whether code matches any of the ignore globs.
func Ignored(code string, globs []string) bool {
	for _, g := range globs {
		if ok, err := path.Match(g, code); err == nil && ok {
			return true
		}
	}
	return false
}
