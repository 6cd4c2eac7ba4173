// Package main provides the formcheck CLI.
//
// formcheck validates YAML form definitions and prints the field tree of
// each form with the full names and translation label keys the fields
// receive at runtime:
//
//	formcheck [flags] definition.yaml...
package main

import (
	"errors"
	"fmt"
	"io"
	"os"
	"slices"
	"strings"

	"github.com/spf13/pflag"

	"formbind/definition"
	"formbind/diagnostic"
	"formbind/options"
)

var version = "dev"

type config struct {
	Files       []string
	Forms       []string
	ConfigFile  string
	Quiet       bool
	Strict      bool
	NoTree      bool
	ShowVersion bool
}

var errUsage = errors.New("no definition files given")

func parseArgs(args []string, stderr io.Writer) (*config, error) {
	cfg := &config{}

	fs := pflag.NewFlagSet("formcheck", pflag.ContinueOnError)
	fs.SetOutput(stderr)
	fs.StringSliceVarP(&cfg.Forms, "form", "f", nil, "only print the named root forms")
	fs.StringVarP(&cfg.ConfigFile, "config", "c", "", "also check a standalone config file")
	fs.BoolVarP(&cfg.Quiet, "quiet", "q", false, "print diagnostics only")
	fs.BoolVarP(&cfg.Strict, "strict", "W", false, "treat warnings as errors")
	fs.BoolVar(&cfg.NoTree, "no-tree", false, "do not print field trees")
	fs.BoolVarP(&cfg.ShowVersion, "version", "v", false, "show version")

	if err := fs.Parse(args); err != nil {
		return nil, err
	}

	if cfg.ShowVersion {
		return cfg, nil
	}

	cfg.Files = fs.Args()
	if len(cfg.Files) == 0 && cfg.ConfigFile == "" {
		return nil, errUsage
	}

	return cfg, nil
}

func main() {
	os.Exit(run(os.Args[1:], os.Stdout, os.Stderr))
}

// run executes the CLI and returns the exit code.
func run(args []string, stdout, stderr io.Writer) int {
	cfg, err := parseArgs(args, stderr)
	if err != nil {
		if errors.Is(err, pflag.ErrHelp) {
			return 0
		}

		fmt.Fprintln(stderr, "formcheck:", err)

		return 2
	}

	if cfg.ShowVersion {
		fmt.Fprintln(stdout, version)
		return 0
	}

	failed := false

	if cfg.ConfigFile != "" {
		if _, err := options.LoadFile(cfg.ConfigFile); err != nil {
			fmt.Fprintf(stderr, "%s: %v\n", cfg.ConfigFile, err)

			failed = true
		} else if !cfg.Quiet {
			fmt.Fprintf(stdout, "%s: ok\n", cfg.ConfigFile)
		}
	}

	for _, path := range cfg.Files {
		if !check(path, cfg, stdout, stderr) {
			failed = true
		}
	}

	if failed {
		return 1
	}

	return 0
}

// check validates one definition file and reports whether it passed.
func check(path string, cfg *config, stdout, stderr io.Writer) bool {
	f, err := definition.LoadFile(path)
	if err != nil {
		fmt.Fprintln(stderr, err)
		return false
	}

	res := definition.Validate(f, nil)

	report(stderr, path, res.Errors)
	report(stderr, path, res.Warnings)

	ok := res.IsValid() && (!cfg.Strict || len(res.Warnings) == 0)

	if cfg.Quiet {
		return ok
	}

	status := "ok"
	if !ok {
		status = "failed"
	}

	fmt.Fprintf(stdout, "%s: %s (%d forms, %d errors, %d warnings)\n",
		path, status, len(f.Forms), len(res.Errors), len(res.Warnings))

	if cfg.NoTree || !res.IsValid() {
		return ok
	}

	for i := range f.Forms {
		def := &f.Forms[i]
		if len(cfg.Forms) > 0 && !slices.Contains(cfg.Forms, def.Path) {
			continue
		}

		printTree(stdout, definition.Outline(def))
	}

	return ok
}

func report(w io.Writer, path string, diags []diagnostic.Diagnostic) {
	for _, d := range diags {
		fmt.Fprintf(w, "%s: %s: %s\n", path, d.Severity, d)
	}
}

func printTree(w io.Writer, entries []definition.Entry) {
	for _, e := range entries {
		var b strings.Builder

		b.WriteString(strings.Repeat("  ", e.Depth))
		b.WriteString(e.Name)

		var notes []string
		if e.Kind != definition.EntryField {
			notes = append(notes, string(e.Kind))
		}

		if e.Type != "" {
			notes = append(notes, e.Type)
		}

		if e.Auto {
			notes = append(notes, "auto")
		}

		if len(notes) > 0 {
			b.WriteString(" [" + strings.Join(notes, ", ") + "]")
		}

		if e.LabelKey != e.Name {
			b.WriteString(" label=" + e.LabelKey)
		}

		fmt.Fprintln(w, b.String())
	}
}
