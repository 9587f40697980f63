// Package builder performs the semantic walk over a parsed file: sectioning
// opcodes under their headers, resolving macros, following includes, and
// feeding every assignment through the validation engine. All walk state is
// explicit in the Builder; nothing survives a Build call.
package builder

import (
	"errors"
	"fmt"
	"log/slog"
	"path/filepath"
	"regexp"
	"strings"

	"github.com/gosfz/sfzlint/internal/ast"
	"github.com/gosfz/sfzlint/internal/engine"
	"github.com/gosfz/sfzlint/internal/logging"
	"github.com/gosfz/sfzlint/internal/parser"
	"github.com/gosfz/sfzlint/sfz"
)

// Options configures a build.
type Options struct {
	// File is the path of the file being built. Empty means the source did
	// not come from disk; includes and sample-path checks are disabled.
	File string
	// FS loads included files and backs sample-path checks.
	FS sfz.FileSystem
	// Engine validates opcode assignments.
	Engine *engine.Engine
	// Accepted is the expanded version filter, for header version checks.
	// Nil means unrestricted.
	Accepted map[string]bool
	// FollowIncludes loads and walks #include files in place.
	FollowIncludes bool
	// WarnUndefined reports uses of variables with no preceding #define.
	WarnUndefined bool
	// EnforceSingletons reports repeated headers the format intends to be
	// unique, like a second <control>.
	EnforceSingletons bool
	// Logger for build tracing. Zero value is silent.
	Logger logging.Logger
}

// state is shared across a build and all of its nested includes.
type state struct {
	doc       *sfz.Document
	current   *sfz.Header
	counts    map[string]int
	deferred  []engine.Deferred
	visited   map[string]bool
	rootDir   string
	sampleDir string
}

// Builder walks one file. Nested includes get a derived Builder sharing the
// same state.
type Builder struct {
	opts  Options
	state *state
	file  string
	dir   string
	env   *engine.Env
	log   logging.Logger
}

// Build walks a parsed file into a Document, emitting diagnostics to sink.
// The returned document is complete even when diagnostics were emitted.
func Build(f *ast.File, opts Options, sink sfz.Sink) *sfz.Document {
	st := &state{
		doc:     sfz.NewDocument(),
		counts:  make(map[string]int),
		visited: make(map[string]bool),
	}
	if opts.File != "" {
		st.rootDir = filepath.Dir(opts.File)
		st.sampleDir = st.rootDir
		st.visited[filepath.Clean(opts.File)] = true
	}
	b := &Builder{
		opts:  opts,
		state: st,
		file:  opts.File,
		dir:   st.rootDir,
		log:   opts.Logger.Component("builder"),
	}
	b.env = b.newEnv()
	b.walk(f.Nodes, sink)

	for _, check := range st.deferred {
		check(st.doc, sink)
	}
	b.log.Debug("build complete",
		slog.Int("headers", len(st.doc.Headers)),
		slog.Int("includes", len(st.doc.Includes)))
	return st.doc
}

func (b *Builder) newEnv() *engine.Env {
	return &engine.Env{
		File:      b.file,
		SampleDir: b.state.sampleDir,
		Defer: func(d engine.Deferred) {
			b.state.deferred = append(b.state.deferred, d)
		},
	}
}

// forInclude derives a builder for an included file. Document, header
// cursor, defines, and the deferred queue are shared; only the file identity
// changes.
func (b *Builder) forInclude(path string) *Builder {
	sub := &Builder{
		opts:  b.opts,
		state: b.state,
		file:  path,
		dir:   filepath.Dir(path),
		log:   b.log,
	}
	sub.env = sub.newEnv()
	return sub
}

func (b *Builder) errorAt(sink sfz.Sink, code string, tok sfz.Token, msg string) {
	sink(sfz.Diagnostic{Severity: sfz.SeverityError, Code: code, Message: msg, Token: tok, File: b.file})
}

func (b *Builder) warnAt(sink sfz.Sink, code string, tok sfz.Token, msg string) {
	sink(sfz.Diagnostic{Severity: sfz.SeverityWarning, Code: code, Message: msg, Token: tok, File: b.file})
}

func posTok(t ast.Tok) sfz.Token {
	return sfz.Token{Raw: t.Text, Line: t.Line, Column: t.Column, Value: sfz.StringValue(t.Text)}
}

func (b *Builder) walk(nodes []ast.Node, sink sfz.Sink) {
	for _, node := range nodes {
		switch n := node.(type) {
		case *ast.Header:
			b.header(n, sink)
		case *ast.Define:
			b.define(n, sink)
		case *ast.Include:
			b.include(n, sink)
		case *ast.Opcode:
			b.opcode(n, sink)
		}
	}
}

func (b *Builder) header(n *ast.Header, sink sfz.Sink) {
	tag := strings.ToLower(n.Tag.Text)
	tok := posTok(n.Tag)

	meta, known := sfz.HeaderTags[tag]
	if !known {
		b.errorAt(sink, sfz.DiagParseError, tok, fmt.Sprintf("unknown header <%s>", tag))
	} else {
		if b.opts.Accepted != nil && !b.opts.Accepted[meta.MinVersion] {
			b.warnAt(sink, sfz.DiagHeaderVersion, tok,
				fmt.Sprintf("header <%s> requires spec %s", tag, meta.MinVersion))
		}
		if meta.Singleton && b.opts.EnforceSingletons && b.state.counts[tag] > 0 {
			b.warnAt(sink, sfz.DiagDuplicateHeader, tok,
				fmt.Sprintf("only one <%s> header allowed", tag))
		}
	}
	b.state.counts[tag]++

	h := sfz.NewHeader(tag, tok)
	b.state.doc.Headers = append(b.state.doc.Headers, h)
	b.state.current = h
}

func (b *Builder) define(n *ast.Define, sink sfz.Sink) {
	name := strings.TrimPrefix(n.Name.Text, "$")
	// defines may reference earlier defines
	b.state.doc.Defines[name] = b.resolveValue(n.Value, sink)
	b.log.Trace("define", slog.String("name", name))
}

func (b *Builder) opcode(n *ast.Opcode, sink sfz.Sink) {
	name := strings.ToLower(b.expand(n.Name.Text, posTok(n.Name), sink))
	nameTok := sfz.Token{Raw: name, Line: n.Name.Line, Column: n.Name.Column, Value: sfz.StringValue(name)}

	if b.state.current == nil {
		b.errorAt(sink, sfz.DiagOpcodeOutsideHeader, nameTok,
			fmt.Sprintf("opcode outside of header (%s)", name))
		return
	}

	valTok := b.resolveValue(n.Value, sink)
	if b.state.current.Set(name, valTok) {
		b.warnAt(sink, sfz.DiagDuplicateOpcode, nameTok, "duplicate opcode")
	}

	// default_path redirects sample resolution for everything after it
	if name == "default_path" {
		rel := strings.ReplaceAll(valTok.Value.String(), "\\", "/")
		b.state.sampleDir = filepath.Join(b.state.rootDir, filepath.FromSlash(rel))
		b.env.SampleDir = b.state.sampleDir
	}

	b.opts.Engine.ValidateOpcode(nameTok, valTok, b.env, sink)
}

func (b *Builder) include(n *ast.Include, sink sfz.Sink) {
	raw := strings.Trim(n.Path.Text, `"`)
	b.state.doc.Includes = append(b.state.doc.Includes, raw)
	if !b.opts.FollowIncludes || b.file == "" {
		return
	}

	tok := posTok(n.Path)
	rel := strings.ReplaceAll(raw, "\\", "/")
	full := filepath.Clean(filepath.Join(b.dir, filepath.FromSlash(rel)))
	if b.state.visited[full] {
		b.errorAt(sink, sfz.DiagIncludeLoad, tok,
			fmt.Sprintf("error loading include %s (include cycle)", raw))
		return
	}
	b.state.visited[full] = true

	data, err := b.opts.FS.ReadFile(full)
	if err != nil {
		b.errorAt(sink, sfz.DiagIncludeLoad, tok,
			fmt.Sprintf("error loading include %s", raw))
		return
	}
	b.log.Debug("following include", slog.String("path", full))

	sub := b.forInclude(full)
	file, perr := parser.New(data, b.opts.Logger.L).ParseFile()
	if perr != nil {
		msg := perr.Error()
		line, col := 0, 0
		var pe *parser.ParseError
		if errors.As(perr, &pe) {
			msg, line, col = pe.Message, pe.Line, pe.Column
		}
		sink(sfz.Diagnostic{
			Severity: sfz.SeverityError,
			Code:     sfz.DiagParseError,
			Message:  msg,
			Token:    sfz.Token{Line: line, Column: col},
			File:     full,
		})
	}
	sub.walk(file.Nodes, sink)

	// the include may have opened headers or changed the sample root
	b.env.SampleDir = b.state.sampleDir
}

var varRun = regexp.MustCompile(`\$[A-Za-z0-9_]+`)

// expand substitutes $variable references in text with their defined values.
// Undefined variables stay literal.
func (b *Builder) expand(text string, at sfz.Token, sink sfz.Sink) string {
	if !strings.Contains(text, "$") {
		return text
	}
	return varRun.ReplaceAllStringFunc(text, func(ref string) string {
		if def, ok := b.state.doc.Defines[ref[1:]]; ok {
			return def.Value.String()
		}
		if b.opts.WarnUndefined {
			b.warnAt(sink, sfz.DiagUndefinedVariable, at,
				fmt.Sprintf("undefined variable %s", ref))
		}
		return ref
	})
}

// resolveValue sanitizes an assignment value. A value that is exactly one
// variable reference keeps the defined token's type; partial references
// substitute textually and re-sanitize.
func (b *Builder) resolveValue(t ast.Tok, sink sfz.Sink) sfz.Token {
	text := t.Text
	if name, ok := wholeVar(text); ok {
		if def, found := b.state.doc.Defines[name]; found {
			return sfz.Token{Raw: text, Line: t.Line, Column: t.Column, Value: def.Value}
		}
	}
	expanded := b.expand(text, posTok(t), sink)
	return sfz.Token{Raw: expanded, Line: t.Line, Column: t.Column, Value: sfz.Sanitize(expanded)}
}

// wholeVar reports whether text is exactly one $variable reference.
func wholeVar(text string) (string, bool) {
	if len(text) < 2 || text[0] != '$' {
		return "", false
	}
	loc := varRun.FindString(text)
	if loc != text {
		return "", false
	}
	return text[1:], true
}
