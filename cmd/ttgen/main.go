package main

import (
	"errors"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/joho/godotenv"
	"github.com/systemstart/ttgen/pkg/api"
	"github.com/systemstart/ttgen/pkg/logging"
	"github.com/systemstart/ttgen/pkg/processing"
)

var version = "dev"

const (
	_ = iota
	exitArgumentError
	exitDotenvError
	exitLoadContextFailed
	exitLoadManifestFailed
	exitMissingFiles
	exitToolErrors
	exitOutOfDate
)

type options struct {
	manifestFile   string
	inputDirectory string
	maxDepth       int
	contextFile    string
	selectPatterns string
	force          bool
	dryRun         bool
	check          bool
	status         bool
	loggingType    string
	logLevel       string
	showVersion    bool
}

func parseFlags(args []string, stderr io.Writer) (*options, error) {
	var o options
	fs := flag.NewFlagSet("ttgen", flag.ContinueOnError)
	fs.SetOutput(stderr)

	fs.StringVar(
		&o.manifestFile,
		"manifest",
		"",
		"manifest file to run (.json, .yaml, .yml or .toml)")
	fs.StringVar(
		&o.inputDirectory,
		"input-directory",
		"",
		"discover .ttgen.* manifests below this directory")
	fs.IntVar(
		&o.maxDepth,
		"max-depth",
		-1,
		"max directory recursion depth (-1 = unlimited, 0 = root only)")
	fs.StringVar(
		&o.contextFile,
		"context-file",
		"",
		"global context YAML file")
	fs.StringVar(
		&o.selectPatterns,
		"select",
		"",
		"comma separated glob patterns matched against spec names")
	fs.BoolVar(
		&o.force,
		"force",
		false,
		"render every selected spec even when up to date")
	fs.BoolVar(
		&o.dryRun,
		"dry-run",
		false,
		"report what would be built without rendering")
	fs.BoolVar(
		&o.check,
		"check",
		false,
		"like -dry-run, but exit non-zero when anything would be built")
	fs.BoolVar(
		&o.status,
		"status",
		false,
		"print a status table after the run")
	fs.StringVar(
		&o.loggingType,
		"logging-type",
		"tint",
		"logging type: json, text or tint")
	fs.StringVar(
		&o.logLevel,
		"log-level",
		"info",
		"logging level: debug, info, warn, error")
	fs.BoolVar(
		&o.showVersion,
		"version",
		false,
		"print version and exit")

	if err := fs.Parse(args); err != nil {
		return nil, api.ArgumentError(err)
	}
	if fs.NArg() > 0 {
		return nil, api.ArgumentError(fmt.Errorf("unexpected arguments: %v", fs.Args()))
	}
	if o.showVersion {
		return &o, nil
	}

	switch {
	case o.manifestFile == "" && o.inputDirectory == "":
		return nil, api.ArgumentError(errors.New("one of -manifest or -input-directory is required"))
	case o.manifestFile != "" && o.inputDirectory != "":
		return nil, api.ArgumentError(errors.New("-manifest and -input-directory are mutually exclusive"))
	}

	return &o, nil
}

func (o *options) selection() []string {
	var patterns []string
	for _, p := range strings.Split(o.selectPatterns, ",") {
		if p = strings.TrimSpace(p); p != "" {
			patterns = append(patterns, p)
		}
	}
	return patterns
}

func main() {
	os.Exit(run(os.Args[1:], os.Stdout, os.Stderr))
}

func run(args []string, stdout, stderr io.Writer) int {
	o, err := parseFlags(args, stderr)
	if err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return 0
		}
		fmt.Fprintln(stderr, err)
		return exitArgumentError
	}

	if o.showVersion {
		fmt.Fprintln(stdout, version)
		return 0
	}

	if err := logging.Initialize(stderr, o.loggingType, o.logLevel); err != nil {
		fmt.Fprintln(stderr, err)
		return exitArgumentError
	}
	slog.SetDefault(slog.Default().With("run", uuid.NewString()))

	if code := includeEnv(); code != 0 {
		return code
	}

	globalContext, err := loadGlobalContext(o.contextFile)
	if err != nil {
		slog.Error("failed to load context file", "filename", o.contextFile, "error", err)
		return exitLoadContextFailed
	}

	runOpts := processing.Options{
		Force:         o.force,
		DryRun:        o.dryRun || o.check,
		Select:        o.selection(),
		GlobalContext: globalContext,
		Stdout:        stdout,
	}

	var summaries []*processing.Summary
	if o.manifestFile != "" {
		m, err := api.LoadManifest(o.manifestFile)
		if err != nil {
			slog.Error("failed to load manifest", "filename", o.manifestFile, "error", err)
			return exitLoadManifestFailed
		}
		var summary *processing.Summary
		summary, err = processing.Run(m, runOpts)
		if summary != nil {
			summaries = append(summaries, summary)
		}
		if err != nil {
			printStatus(o, stdout, summaries)
			slog.Error("processing failed", "error", err)
			return exitCodeFor(summaries, err)
		}
	} else {
		summaries, err = processing.RunAll(o.inputDirectory, o.maxDepth, runOpts)
		if err != nil {
			printStatus(o, stdout, summaries)
			slog.Error("processing failed", "error", err)
			return exitCodeFor(summaries, err)
		}
	}

	printStatus(o, stdout, summaries)

	if o.check {
		var pending []string
		for _, s := range summaries {
			pending = append(pending, s.Pending()...)
		}
		if len(pending) > 0 {
			slog.Warn("outputs are not up to date", "specs", pending)
			return exitOutOfDate
		}
	}

	slog.Info("done")
	return 0
}

func printStatus(o *options, w io.Writer, summaries []*processing.Summary) {
	if !o.status {
		return
	}
	var results []processing.Result
	for _, s := range summaries {
		results = append(results, s.Results...)
	}
	fmt.Fprintln(w, processing.StatusTable(results, time.Now()))
}

// exitCodeFor maps the first failing result's error kind to an exit code.
func exitCodeFor(summaries []*processing.Summary, err error) int {
	if kind, ok := api.KindOf(err); ok && kind == api.KindArgument {
		return exitArgumentError
	}
	for _, s := range summaries {
		for _, r := range s.Results {
			if r.Action != processing.ActionFailed {
				continue
			}
			if kind, _ := api.KindOf(r.Err); kind == api.KindMissing {
				return exitMissingFiles
			}
			return exitToolErrors
		}
	}
	return exitToolErrors
}

func loadGlobalContext(contextFile string) (map[string]any, error) {
	if contextFile == "" {
		return nil, nil
	}
	return processing.LoadContextFile(contextFile)
}

func includeEnv() int {
	err := godotenv.Load()
	if err != nil {
		if !os.IsNotExist(err) {
			slog.Error("failed to load .env", "error", err)
			return exitDotenvError
		}
		slog.Debug("no .env file found")
	} else {
		slog.Info("using .env file")
	}
	return 0
}
