// Command sfzlist prints the known opcodes with their dialect and value
// constraint, one per line. With --path it instead reports on the opcodes
// actually used by the .sfz files under a directory.
package main

import (
	"fmt"
	"os"
	"sort"
	"strings"

	"github.com/urfave/cli/v2"

	"github.com/gosfz/sfzlint"
	"github.com/gosfz/sfzlint/cmd/internal/cliutil"
)

func main() {
	app := &cli.App{
		Name:  "sfzlist",
		Usage: "list known opcodes and metadata",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "search",
				Aliases: []string{"s"},
				Usage:   "search opcode names by substring",
			},
			&cli.StringSliceFlag{
				Name:    "filter",
				Aliases: []string{"f"},
				Usage:   `filter fields by "key=value", e.g. ver=v2`,
			},
			&cli.StringFlag{
				Name:    "path",
				Aliases: []string{"p"},
				Usage:   "print only opcodes found in the sfz file(s) under PATH",
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
	filters, err := parseFilters(c.StringSlice("filter"))
	if err != nil {
		return cli.Exit(fmt.Sprintf("sfzlist: %v", err), 2)
	}

	rules, err := sfzlint.Rules()
	if err != nil {
		return cli.Exit(fmt.Sprintf("sfzlist: %v", err), 2)
	}

	if path := c.String("path"); path != "" {
		rules, err = observedRules(path, rules)
		if err != nil {
			return cli.Exit(fmt.Sprintf("sfzlist: %v", err), 2)
		}
	}

	search := c.String("search")
	for _, r := range rules {
		if search != "" && !strings.Contains(r.Name, search) {
			continue
		}
		if !matches(r, filters) {
			continue
		}
		printRule(r)
	}
	return nil
}

func parseFilters(raw []string) (map[string]string, error) {
	filters := make(map[string]string, len(raw))
	for _, f := range raw {
		key, value, ok := strings.Cut(f, "=")
		if !ok {
			return nil, fmt.Errorf("filter %q is not key=value", f)
		}
		filters[key] = value
	}
	return filters, nil
}

func matches(r sfzlint.RuleInfo, filters map[string]string) bool {
	for key, want := range filters {
		var got string
		switch key {
		case "name":
			got = r.Name
		case "ver":
			got = r.Ver
		case "modulates":
			got = r.Modulates
		case "validator":
			got = r.Validator
		}
		if got != want {
			return false
		}
	}
	return true
}

// observedRules lints every file under path and keeps only the rules whose
// canonical name was seen, adding placeholder entries for unknown opcodes.
func observedRules(path string, rules []sfzlint.RuleInfo) ([]sfzlint.RuleInfo, error) {
	files, err := cliutil.FindFiles(path)
	if err != nil {
		return nil, err
	}

	seen := make(map[string]bool)
	for _, file := range files {
		res, err := sfzlint.LintFile(file, sfzlint.WithoutUndefinedWarnings())
		if err != nil {
			fmt.Fprintf(os.Stderr, "error checking %s: %v\n", file, err)
			continue
		}
		for _, h := range res.Doc.Headers {
			for _, name := range h.Opcodes() {
				canonical, err := sfzlint.NormalizeOpcode(name)
				if err != nil {
					canonical = name
				}
				seen[canonical] = true
			}
		}
	}

	var out []sfzlint.RuleInfo
	for _, r := range rules {
		if seen[r.Name] {
			out = append(out, r)
			delete(seen, r.Name)
		}
	}
	unknown := make([]string, 0, len(seen))
	for name := range seen {
		unknown = append(unknown, name)
	}
	sort.Strings(unknown)
	for _, name := range unknown {
		out = append(out, sfzlint.RuleInfo{Name: name, Ver: "unknown"})
	}
	return out, nil
}

func printRule(r sfzlint.RuleInfo) {
	fields := []string{
		fmt.Sprintf("%-25s", r.Name),
		fmt.Sprintf("%-8s", r.Ver),
		fmt.Sprintf("%-25s", r.Validator),
	}
	if r.Modulates != "" {
		fields = append(fields, "modulates="+r.Modulates)
	}
	fmt.Println(strings.Join(fields, "\t"))
}
