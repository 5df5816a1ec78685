// Copyright Amazon.com, Inc. or its affiliates. All Rights Reserved.
// SPDX-License-Identifier: Apache-2.0

package main

import (
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"strconv"

	"pdfrange/internal/config"
	"pdfrange/internal/console"
	"pdfrange/internal/extract"
	"pdfrange/internal/observability"
	"pdfrange/internal/paths"
	"pdfrange/internal/runner"
	"pdfrange/internal/tokens"
	"pdfrange/internal/version"
)

// Exit codes
const (
	exitOK    = 0
	exitError = 1
	exitUsage = 2
)

// errUsage marks a command line that cannot be parsed
var errUsage = errors.New("usage error")

// cliFlags holds command line flag values
type cliFlags struct {
	configFile       string
	encoding         string
	fallbackEncoding string
	backend          string
	outputPath       string
	noColor          bool
	quiet            bool
	debug            bool
	metrics          bool
	showVersion      bool
	showHelp         bool
}

// invocation is a fully parsed command line
type invocation struct {
	flags     cliFlags
	set       map[string]bool
	inputPath string
	pageRange extract.PageRange
}

func main() {
	os.Exit(run(os.Args[1:], os.Stdout, os.Stderr))
}

func run(args []string, stdout, stderr io.Writer) int {
	inv, err := parseArgs(args, stderr)
	if err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return exitOK
		}
		return exitUsage
	}

	if inv.flags.showVersion {
		fmt.Fprintln(stdout, version.Info())
		return exitOK
	}

	cfg, err := config.LoadConfigOrDefault(inv.flags.configFile)
	if err != nil {
		fmt.Fprintf(stderr, "Warning: Error loading config file: %v\n", err)
		fmt.Fprintf(stderr, "Using default configuration\n")
	}
	resolveConfiguration(cfg, inv)

	backend, err := extract.ParseBackend(cfg.Backend)
	if err != nil {
		fmt.Fprintf(stderr, "Error: %v\n", err)
		return exitUsage
	}

	reporter := console.NewReporter(stdout, cfg.NoColor)
	reporter.Title("PDF Text Extractor")
	reporter.Plain("This tool extracts text from a specified range of pages in a PDF file.")
	reporter.Plain("")

	observer := observability.NewStandardObserver(observabilityLevel(cfg), stderr)

	showProgress := !cfg.Quiet && !cfg.Debug && !cfg.Metrics && isTerminal(stderr)
	progress := console.NewProgress(stderr, "Extracting text...", showProgress)

	counter := tokens.NewCounter(cfg.Encoding, cfg.FallbackEncoding, func(msg string) {
		reporter.Warn("%s", msg)
	})

	r := runner.New(reporter, counter,
		runner.WithObserver(observer),
		runner.WithProgress(progress),
	)

	result, err := r.Run(runner.Options{
		InputPath:  inv.inputPath,
		Range:      inv.pageRange,
		Backend:    backend,
		OutputPath: inv.flags.outputPath,
		OutputDir:  cfg.OutputDir,
		Inspect:    cfg.Debug,
	})
	logSummary(observer, result)
	if err != nil {
		observer.LogDetail("main", err.Error())
		return exitError
	}
	return exitOK
}

// observabilityLevel picks the observer mode; debug output wins over metrics
func observabilityLevel(cfg *config.Config) observability.ObservabilityLevel {
	switch {
	case cfg.Debug:
		return observability.ObservabilityDebug
	case cfg.Metrics:
		return observability.ObservabilityMetrics
	default:
		return observability.ObservabilityOff
	}
}

// logSummary reports the run's counters in debug mode
func logSummary(observer *observability.StandardObserver, result *runner.Result) {
	if result == nil {
		return
	}
	observer.LogDetail("main", fmt.Sprintf("%d of %d page(s) extracted, failed pages: %v, %d characters, %d tokens (%s)",
		result.PagesExtracted, result.PageCount, result.FailedPages, result.CharCount,
		result.Tokens.Tokens, result.Tokens.Encoding))
}

// parseArgs parses flags and the three positional arguments. Usage is
// printed to stderr for every error it returns.
func parseArgs(args []string, stderr io.Writer) (*invocation, error) {
	inv := &invocation{set: make(map[string]bool)}
	f := &inv.flags

	fs := flag.NewFlagSet("pdfrange", flag.ContinueOnError)
	fs.SetOutput(stderr)
	fs.Usage = func() { printUsage(stderr) }

	fs.StringVar(&f.configFile, "config", "", "Path to configuration file")
	fs.StringVar(&f.encoding, "encoding", "", "Token encoding or model name (default o200k_base)")
	fs.StringVar(&f.fallbackEncoding, "fallback-encoding", "", "Encoding used when -encoding is not recognized (default cl100k_base)")
	fs.StringVar(&f.backend, "backend", "", "PDF extraction backend: ledongthuc or pdfcpu")
	fs.StringVar(&f.outputPath, "output", "", "Write the extracted text to this path")
	fs.BoolVar(&f.noColor, "no-color", false, "Disable colored output")
	fs.BoolVar(&f.quiet, "quiet", false, "Hide the progress bar")
	fs.BoolVar(&f.debug, "debug", false, "Print step timings and document info to stderr")
	fs.BoolVar(&f.metrics, "metrics", false, "Print one JSON timing record per step to stderr")
	fs.BoolVar(&f.showVersion, "version", false, "Show version information")
	fs.BoolVar(&f.showHelp, "help", false, "Show help")

	if err := fs.Parse(args); err != nil {
		return nil, err
	}
	fs.Visit(func(fl *flag.Flag) { inv.set[fl.Name] = true })

	if f.showHelp {
		printUsage(stderr)
		return nil, flag.ErrHelp
	}
	if f.showVersion {
		return inv, nil
	}

	if fs.NArg() != 3 {
		fmt.Fprintf(stderr, "Error: expected 3 arguments, got %d\n\n", fs.NArg())
		printUsage(stderr)
		return nil, errUsage
	}

	start, err := strconv.Atoi(fs.Arg(1))
	if err != nil {
		fmt.Fprintf(stderr, "Error: start_page must be an integer, got %q\n\n", fs.Arg(1))
		printUsage(stderr)
		return nil, errUsage
	}
	end, err := strconv.Atoi(fs.Arg(2))
	if err != nil {
		fmt.Fprintf(stderr, "Error: end_page must be an integer, got %q\n\n", fs.Arg(2))
		printUsage(stderr)
		return nil, errUsage
	}

	inv.inputPath = fs.Arg(0)
	inv.pageRange = extract.PageRange{Start: start, End: end}
	return inv, nil
}

// resolveConfiguration applies explicitly set flags over the loaded configuration
func resolveConfiguration(cfg *config.Config, inv *invocation) {
	f := inv.flags
	if inv.set["encoding"] && f.encoding != "" {
		cfg.Encoding = f.encoding
	}
	if inv.set["fallback-encoding"] && f.fallbackEncoding != "" {
		cfg.FallbackEncoding = f.fallbackEncoding
	}
	if inv.set["backend"] && f.backend != "" {
		cfg.Backend = f.backend
	}
	if inv.set["no-color"] {
		cfg.NoColor = f.noColor
	}
	if inv.set["quiet"] {
		cfg.Quiet = f.quiet
	}
	if inv.set["debug"] {
		cfg.Debug = f.debug
	}
	if inv.set["metrics"] {
		cfg.Metrics = f.metrics
	}
}

func isTerminal(w io.Writer) bool {
	file, ok := w.(*os.File)
	return ok && console.IsInteractive(file)
}

func printUsage(w io.Writer) {
	fmt.Fprintf(w, `Usage: pdfrange [flags] <pdf_path> <start_page> <end_page>

Extracts the text of pages start_page..end_page (1-based, inclusive) from a
PDF, saves it next to the input as <name>_SSS-EEE.txt and prints its token
count.

Flags:
  -config <file>              Configuration file (default: pdfrange.yaml or %s)
  -encoding <name>            Token encoding or model name (default %s)
  -fallback-encoding <name>   Encoding used when -encoding is unknown (default %s)
  -backend <name>             ledongthuc or pdfcpu (default %s)
  -output <path>              Write the extracted text to this path
  -no-color                   Disable colored output
  -quiet                      Hide the progress bar
  -debug                      Print step timings and document info to stderr
  -metrics                    Print one JSON timing record per step to stderr
  -version                    Show version information
  -help                       Show this help

Examples:
  pdfrange report.pdf 2 5
  pdfrange -encoding cl100k_base -backend pdfcpu book.pdf 10 12
`, paths.GetConfigFile(), config.DefaultEncoding, config.DefaultFallbackEncoding, config.DefaultBackend)
}
