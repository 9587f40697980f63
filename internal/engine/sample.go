package engine

import (
	"fmt"
	"log/slog"
	"path/filepath"
	"strings"

	"github.com/gosfz/sfzlint/sfz"
)

// checkSamplePath resolves a sample= value against the sample directory and
// verifies both existence and per-component case, since most sample
// libraries are authored on case-insensitive filesystems and break when
// moved to case-sensitive ones.
func (e *Engine) checkSamplePath(valTok sfz.Token, env *Env, sink sfz.Sink) {
	if valTok.Value.Kind != sfz.ValueString {
		e.warnAt(env, sink, sfz.DiagSampleNotFound, valTok,
			fmt.Sprintf("not a valid path %q", valTok.Value.String()))
		return
	}
	raw := valTok.Value.Str
	if raw == "" || raw[0] == '*' {
		// *sine, *square and friends are player built-ins
		return
	}
	if env.SampleDir == "" {
		return
	}

	rel := strings.ReplaceAll(raw, "\\", "/")
	full := filepath.Join(env.SampleDir, filepath.FromSlash(rel))
	if !e.fs.IsFile(full) {
		e.warnAt(env, sink, sfz.DiagSampleNotFound, valTok,
			fmt.Sprintf("file not found %q", full))
		return
	}

	// Walk the path components from the file upward, matching each against
	// its parent's directory listing. A ".." component stops the walk.
	parts := strings.Split(rel, "/")
	dir := full
	for i := len(parts) - 1; i >= 0; i-- {
		if parts[i] == ".." {
			break
		}
		dir = filepath.Dir(dir)
		names, err := e.fs.ListDir(dir)
		if err != nil {
			e.log.Debug("sample case check skipped",
				slog.String("dir", dir), slog.Any("err", err))
			break
		}
		if _, ok := names[parts[i]]; !ok {
			e.warnAt(env, sink, sfz.DiagSampleCaseMismatch, valTok,
				fmt.Sprintf("case does not match file for %q", raw))
			return
		}
	}
}
