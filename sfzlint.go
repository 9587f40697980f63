package sfzlint

import (
	"errors"
	"fmt"
	"log/slog"
	"slices"

	"github.com/gosfz/sfzlint/internal/builder"
	"github.com/gosfz/sfzlint/internal/engine"
	"github.com/gosfz/sfzlint/internal/logging"
	"github.com/gosfz/sfzlint/internal/parser"
	"github.com/gosfz/sfzlint/internal/spec"
	"github.com/gosfz/sfzlint/sfz"
)

// LevelTrace is a custom log level more verbose than Debug. Use for
// per-token iteration logging. Enable with:
// &slog.HandlerOptions{Level: slog.Level(-8)}
const LevelTrace = logging.LevelTrace

// Option configures LintFile and LintString.
type Option func(*config)

type config struct {
	logger            *slog.Logger
	fs                sfz.FileSystem
	table             *spec.Table
	syntaxSource      []byte
	versions          []string
	skipIncludes      bool
	quietUndefined    bool
	enforceSingletons bool
}

// WithLogger sets the logger for debug/trace output. If not set, no logging
// occurs (zero overhead).
func WithLogger(logger *slog.Logger) Option {
	return func(c *config) { c.logger = logger }
}

// WithFileSystem replaces the operating-system filesystem. Includes and
// sample-path checks go through it; tests pass in-memory fixtures.
func WithFileSystem(fs sfz.FileSystem) Option {
	return func(c *config) { c.fs = fs }
}

// WithSyntaxSource validates against a rule table compiled from the given
// declarative syntax source instead of the embedded one.
func WithSyntaxSource(src []byte) Option {
	return func(c *config) { c.syntaxSource = src }
}

// WithSpecVersions restricts validation to the given dialect tags (see
// KnownVersions). Requesting a dialect accepts its ancestors: "aria" accepts
// v1, v2, and aria opcodes. No filter accepts everything.
func WithSpecVersions(versions ...string) Option {
	return func(c *config) { c.versions = versions }
}

// WithoutIncludes records #include paths in the document without loading
// the files.
func WithoutIncludes() Option {
	return func(c *config) { c.skipIncludes = true }
}

// WithoutUndefinedWarnings silences diagnostics for $variables used with no
// preceding #define. The references stay literal either way.
func WithoutUndefinedWarnings() Option {
	return func(c *config) { c.quietUndefined = true }
}

// WithSingletonHeaders reports repeated headers the format intends to be
// unique, like a second <control>.
func WithSingletonHeaders() Option {
	return func(c *config) { c.enforceSingletons = true }
}

// KnownVersions lists the dialect tags WithSpecVersions accepts.
func KnownVersions() []string {
	return spec.KnownVersions()
}

// Result is the outcome of linting one instrument.
type Result struct {
	// Doc is the built document. Complete even when diagnostics were
	// emitted, as far as the input allowed.
	Doc *sfz.Document
	// Diagnostics holds every issue found, in source order (deferred
	// cross-reference checks come last).
	Diagnostics []sfz.Diagnostic
}

// Errors returns only the error-severity diagnostics.
func (r *Result) Errors() []sfz.Diagnostic {
	c := sfz.Collector{Diagnostics: r.Diagnostics}
	return c.Errors()
}

// LintFile parses, builds, and validates the instrument at path. Includes
// resolve relative to the file's directory. The error return covers I/O and
// configuration problems only; findings about the file itself come back as
// diagnostics.
func LintFile(path string, opts ...Option) (*Result, error) {
	cfg, err := newConfig(opts)
	if err != nil {
		return nil, err
	}
	data, err := cfg.fs.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading %s: %w", path, err)
	}
	return cfg.lint(path, data)
}

// LintString validates in-memory source. With no file identity, includes
// and sample-path checks are skipped.
func LintString(source string, opts ...Option) (*Result, error) {
	cfg, err := newConfig(opts)
	if err != nil {
		return nil, err
	}
	return cfg.lint("", []byte(source))
}

func newConfig(opts []Option) (*config, error) {
	cfg := &config{}
	for _, opt := range opts {
		opt(cfg)
	}
	if cfg.fs == nil {
		cfg.fs = sfz.OS()
	}
	if cfg.syntaxSource != nil {
		table, err := spec.Compile(cfg.syntaxSource)
		if err != nil {
			return nil, fmt.Errorf("compiling opcode table: %w", err)
		}
		cfg.table = table
	} else {
		table, err := spec.DefaultTable()
		if err != nil {
			return nil, fmt.Errorf("compiling opcode table: %w", err)
		}
		cfg.table = table
	}

	known := spec.KnownVersions()
	for _, v := range cfg.versions {
		if !slices.Contains(known, v) {
			return nil, fmt.Errorf("unknown spec version %q (known: %v)", v, known)
		}
	}
	return cfg, nil
}

func (c *config) lint(path string, data []byte) (*Result, error) {
	log := logging.Logger{L: c.logger}
	var collector sfz.Collector
	sink := collector.Add

	file, perr := parser.New(data, c.logger).ParseFile()
	if perr != nil {
		d := sfz.Diagnostic{Severity: sfz.SeverityError, Code: sfz.DiagParseError, Message: perr.Error(), File: path}
		var pe *parser.ParseError
		if errors.As(perr, &pe) {
			d.Message = pe.Message
			d.Token = sfz.Token{Line: pe.Line, Column: pe.Column}
		}
		sink(d)
	}

	accepted := spec.ExpandVersions(c.versions)
	eng := engine.New(c.table, accepted, c.fs, log)
	doc := builder.Build(file, builder.Options{
		File:              path,
		FS:                c.fs,
		Engine:            eng,
		Accepted:          accepted,
		FollowIncludes:    !c.skipIncludes,
		WarnUndefined:     !c.quietUndefined,
		EnforceSingletons: c.enforceSingletons,
		Logger:            log,
	}, sink)

	return &Result{Doc: doc, Diagnostics: collector.Diagnostics}, nil
}
