// Command sfzlint validates SFZ instrument files against the published
// opcode syntax and prints findings one per line, compiler style:
//
//	path:line:col:SEV message
//
// A directory argument is searched recursively for .sfz files, which are
// linted in parallel.
package main

import (
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"sort"

	"github.com/urfave/cli/v2"
	"golang.org/x/sync/errgroup"

	"github.com/gosfz/sfzlint"
	"github.com/gosfz/sfzlint/cmd/internal/cliutil"
)

func main() {
	app := &cli.App{
		Name:      "sfzlint",
		Usage:     "linter/validator for sfz files",
		ArgsUsage: "path",
		Flags: []cli.Flag{
			&cli.StringSliceFlag{
				Name:    "spec-version",
				Aliases: []string{"V"},
				Usage:   fmt.Sprintf("sfz spec to validate against, one of %v", sfzlint.KnownVersions()),
			},
			&cli.BoolFlag{
				Name:  "no-include",
				Usage: "do not load #include files",
			},
			&cli.BoolFlag{
				Name:  "no-undefined-warnings",
				Usage: "do not warn about undefined $variables",
			},
			&cli.BoolFlag{
				Name:  "singleton-headers",
				Usage: "warn when a unique header like <control> repeats",
			},
			&cli.StringSliceFlag{
				Name:  "ignore",
				Usage: "diagnostic-code globs to suppress, e.g. sample-*",
			},
			&cli.IntFlag{
				Name:    "jobs",
				Aliases: []string{"j"},
				Usage:   "files to lint in parallel",
			},
			&cli.IntFlag{
				Name:    "verbose",
				Aliases: []string{"v"},
				Usage:   "log verbosity (1=debug, 2=trace)",
			},
		},
		Action: run,
	}
	if err := app.Run(os.Args); err != nil {
		cli.HandleExitCoder(err)
		fmt.Fprintln(os.Stderr, err)
		os.Exit(2)
	}
}

func run(c *cli.Context) error {
	path := c.Args().First()
	if path == "" {
		cli.ShowAppHelp(c)
		return cli.Exit("sfzlint: a file or directory argument is required", 2)
	}

	cfg, err := cliutil.LoadConfig(filepath.Dir(path), ".")
	if err != nil {
		return cli.Exit(err.Error(), 2)
	}
	if c.IsSet("spec-version") {
		cfg.SpecVersions = c.StringSlice("spec-version")
	}
	if c.IsSet("no-include") {
		cfg.NoIncludes = c.Bool("no-include")
	}
	if c.IsSet("no-undefined-warnings") {
		cfg.NoUndefined = c.Bool("no-undefined-warnings")
	}
	if c.IsSet("singleton-headers") {
		cfg.SingletonHeaders = c.Bool("singleton-headers")
	}
	if c.IsSet("ignore") {
		cfg.Ignore = c.StringSlice("ignore")
	}
	if c.IsSet("jobs") {
		cfg.Jobs = c.Int("jobs")
	}
	if cfg.Jobs <= 0 {
		cfg.Jobs = runtime.NumCPU()
	}

	opts := []sfzlint.Option{
		sfzlint.WithLogger(cliutil.NewLogger(c.Int("verbose"))),
		sfzlint.WithSpecVersions(cfg.SpecVersions...),
	}
	if cfg.NoIncludes {
		opts = append(opts, sfzlint.WithoutIncludes())
	}
	if cfg.NoUndefined {
		opts = append(opts, sfzlint.WithoutUndefinedWarnings())
	}
	if cfg.SingletonHeaders {
		opts = append(opts, sfzlint.WithSingletonHeaders())
	}

	files, err := cliutil.FindFiles(path)
	if err != nil {
		return cli.Exit(fmt.Sprintf("sfzlint: %v", err), 2)
	}
	sort.Strings(files)

	results := make([]*sfzlint.Result, len(files))
	var g errgroup.Group
	g.SetLimit(cfg.Jobs)
	for i, file := range files {
		i, file := i, file
		g.Go(func() error {
			res, err := sfzlint.LintFile(file, opts...)
			if err != nil {
				return err
			}
			results[i] = res
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return cli.Exit(fmt.Sprintf("sfzlint: %v", err), 2)
	}

	hadError := false
	for _, res := range results {
		if cliutil.PrintDiagnostics(os.Stdout, res.Diagnostics, cfg.Ignore) {
			hadError = true
		}
	}
	if hadError {
		return cli.Exit("", 1)
	}
	return nil
}
