// Package cli wires flags, environment and configuration into the splitter
// and owns all user-visible failure behavior.
package cli

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"regexp"
	"strings"

	"github.com/charmbracelet/glamour"
	"github.com/joho/godotenv"

	"github.com/asynkron/spatch/internal/config"
	"github.com/asynkron/spatch/internal/splitter"
	"github.com/asynkron/spatch/internal/tui"
	"github.com/asynkron/spatch/pkg/diffsplit"
)

// Run executes spatch with the provided CLI arguments. It returns a
// POSIX-style exit code indicating whether execution succeeded.
func Run(ctx context.Context, args []string, stdout, stderr io.Writer) int {
	if stdout == nil {
		stdout = io.Discard
	}
	if stderr == nil {
		stderr = io.Discard
	}

	if err := godotenv.Load(); err != nil {
		// A missing .env file is fine, but other errors should be surfaced to help with debugging.
		var pathErr *os.PathError
		if !errors.As(err, &pathErr) {
			fmt.Fprintf(stderr, "failed to load .env: %v\n", err)
			return 1
		}
	}

	cfg, cfgPath, err := config.Load()
	if err != nil {
		fmt.Fprintf(stderr, "failed to load config %s: %v\n", cfgPath, err)
		return 1
	}

	defaultOutputDir := os.Getenv("SPATCH_OUTPUT_DIR")
	if defaultOutputDir == "" {
		defaultOutputDir = cfg.OutputDir
	}

	flagSet := flag.NewFlagSet("spatch", flag.ContinueOnError)
	flagSet.SetOutput(stderr)
	var (
		outputDir   string
		onlyNew     bool
		onlyRemoved bool
		extractFile bool
		regexStr    string
		globStr     string
		interactive bool
		report      bool
	)
	flagSet.StringVar(&outputDir, "output-dir", defaultOutputDir, "output directory for split patches (default: current directory)")
	flagSet.StringVar(&outputDir, "o", defaultOutputDir, "shorthand for -output-dir")
	flagSet.BoolVar(&onlyNew, "only-new", false, "only extract patches for newly added files")
	flagSet.BoolVar(&onlyNew, "n", false, "shorthand for -only-new")
	flagSet.BoolVar(&onlyRemoved, "only-removed", false, "only extract patches for removed files")
	flagSet.BoolVar(&onlyRemoved, "r", false, "shorthand for -only-removed")
	flagSet.BoolVar(&extractFile, "extract-file", false, "extract file contents rather than patches (requires -n or -r)")
	flagSet.BoolVar(&extractFile, "x", false, "shorthand for -extract-file")
	flagSet.StringVar(&regexStr, "regex", "", "filter patches by filename regex")
	flagSet.StringVar(&globStr, "glob", "", "filter patches by filename glob pattern")
	flagSet.BoolVar(&interactive, "interactive", false, "pick patches to write in an interactive terminal UI")
	flagSet.BoolVar(&interactive, "i", false, "shorthand for -interactive")
	flagSet.BoolVar(&report, "report", false, "print a rendered summary report after splitting")

	if err := flagSet.Parse(args); err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return 0
		}
		return 2
	}

	if onlyNew && onlyRemoved {
		fmt.Fprintln(stderr, "-only-new and -only-removed are mutually exclusive")
		return 2
	}
	if extractFile && !onlyNew && !onlyRemoved {
		fmt.Fprintln(stderr, "-extract-file requires -only-new or -only-removed")
		return 2
	}
	if regexStr != "" && globStr != "" {
		fmt.Fprintln(stderr, "-regex and -glob are mutually exclusive")
		return 2
	}

	filter, err := buildFilter(onlyNew, onlyRemoved, regexStr, globStr)
	if err != nil {
		fmt.Fprintf(stderr, "%v\n", err)
		return 2
	}

	if outputDir == "" {
		wd, err := os.Getwd()
		if err != nil {
			fmt.Fprintf(stderr, "failed to determine working directory: %v\n", err)
			return 1
		}
		outputDir = wd
	}
	if info, err := os.Stat(outputDir); err != nil || !info.IsDir() {
		fmt.Fprintf(stderr, "output path %s is not a directory\n", outputDir)
		return 1
	}

	opts := splitter.Options{
		OutputDir:       outputDir,
		Filter:          filter,
		ExtractContents: extractFile,
		NameSeparator:   cfg.NameSeparator,
		Extension:       cfg.PatchExtension,
	}

	files := flagSet.Args()
	for _, path := range files {
		if info, err := os.Stat(path); err != nil || info.IsDir() {
			fmt.Fprintf(stderr, "%s is not a file\n", path)
			return 1
		}
	}

	var summary splitter.Summary
	if interactive {
		summary, err = runInteractive(ctx, files, opts)
	} else {
		summary, err = runBatch(files, opts, stdout)
	}
	if err != nil {
		fmt.Fprintf(stderr, "%v\n", err)
		return 1
	}

	if report {
		printReport(summary, stdout)
	}
	return 0
}

func buildFilter(onlyNew, onlyRemoved bool, regexStr, globStr string) (splitter.Filter, error) {
	switch {
	case onlyNew:
		return splitter.OnlyNew(), nil
	case onlyRemoved:
		return splitter.OnlyRemoved(), nil
	case globStr != "":
		filter, err := splitter.Glob(globStr)
		if err != nil {
			return nil, fmt.Errorf("invalid glob pattern %q: %w", globStr, err)
		}
		return filter, nil
	case regexStr != "":
		expr, err := regexp.Compile(regexStr)
		if err != nil {
			return nil, fmt.Errorf("invalid regex %q: %w", regexStr, err)
		}
		return splitter.Regex(expr), nil
	default:
		return splitter.All(), nil
	}
}

// runBatch splits each input file (or stdin when none are given) directly to
// disk, streaming bodies as they are pulled from the parser.
func runBatch(files []string, opts splitter.Options, stdout io.Writer) (splitter.Summary, error) {
	if len(files) == 0 {
		return splitter.Split(diffsplit.NewParser(os.Stdin), opts)
	}

	var total splitter.Summary
	for _, path := range files {
		fmt.Fprintf(stdout, "Splitting %s\n", path)

		handle, err := os.Open(path)
		if err != nil {
			return total, fmt.Errorf("open %s: %w", path, err)
		}

		fileOpts := opts
		fileOpts.SourceStem = sourceStem(path)
		summary, err := splitter.Split(diffsplit.NewParser(handle), fileOpts)
		handle.Close()
		if err != nil {
			return total, err
		}
		total.Merge(summary)
	}
	return total, nil
}

// runInteractive materializes every kept patch up front and hands the set to
// the terminal UI, which writes whatever the user selects.
func runInteractive(ctx context.Context, files []string, opts splitter.Options) (splitter.Summary, error) {
	var (
		entries []splitter.Entry
		skipped int
	)

	collect := func(r io.Reader, stem string) error {
		fileOpts := opts
		fileOpts.SourceStem = stem
		collected, skippedHere, err := splitter.Collect(diffsplit.NewParser(r), fileOpts)
		if err != nil {
			return err
		}
		entries = append(entries, collected...)
		skipped += skippedHere
		return nil
	}

	if len(files) == 0 {
		if err := collect(os.Stdin, ""); err != nil {
			return splitter.Summary{}, err
		}
	} else {
		for _, path := range files {
			handle, err := os.Open(path)
			if err != nil {
				return splitter.Summary{}, fmt.Errorf("open %s: %w", path, err)
			}
			err = collect(handle, sourceStem(path))
			handle.Close()
			if err != nil {
				return splitter.Summary{}, err
			}
		}
	}

	summary, err := tui.Run(ctx, entries, opts)
	summary.Skipped += skipped
	return summary, err
}

func sourceStem(path string) string {
	base := filepath.Base(path)
	return strings.TrimSuffix(base, filepath.Ext(base))
}

// printReport renders the markdown summary for the terminal, falling back to
// the raw markdown when the renderer cannot be built.
func printReport(summary splitter.Summary, stdout io.Writer) {
	md := summary.Markdown()
	renderer, err := glamour.NewTermRenderer(
		glamour.WithStylePath("dark"), // fixed style to avoid OSC queries
		glamour.WithWordWrap(100),
	)
	if err == nil {
		if rendered, renderErr := renderer.Render(md); renderErr == nil {
			fmt.Fprint(stdout, rendered)
			return
		}
	}
	fmt.Fprint(stdout, md)
}
