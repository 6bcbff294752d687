// Package main provides the isoviz command-line tool.
package main

import (
	"flag"
	"fmt"
	"os"

	"go.uber.org/zap"
)

// Exit codes
const (
	ExitSuccess = 0
	ExitError   = 1
	ExitUsage   = 2
)

// Version information (set at build time)
var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

func main() {
	os.Exit(run())
}

func run() int {
	// Global flags
	var showVersion bool
	flag.BoolVar(&showVersion, "version", false, "Show version information")

	flag.Parse()

	if showVersion {
		fmt.Printf("isoviz version %s (%s) built %s\n", version, commit, date)
		return ExitSuccess
	}

	args := flag.Args()
	if len(args) < 1 {
		printUsage()
		return ExitUsage
	}

	switch args[0] {
	case "extract":
		return runExtract(args[1:])
	case "aggregate":
		return runAggregate(args[1:])
	case "serve":
		return runServe(args[1:])
	case "config":
		return runConfig(args[1:])
	case "help":
		printUsage()
		return ExitSuccess
	default:
		fmt.Fprintf(os.Stderr, "Error: unknown command %q\n\n", args[0])
		printUsage()
		return ExitUsage
	}
}

func printUsage() {
	fmt.Fprintf(os.Stderr, `isoviz - Isoform Expression Visualization

Usage:
  isoviz [options] <command> [arguments]

Commands:
  extract     Extract exon+CDS segments from a GTF annotation file
  aggregate   Build transcript expression tables from Salmon quant.sf files
  serve       Serve the isoform dashboard API from the prepared tables
  config      Manage isoviz configuration
  help        Show this help message

Global Options:
  --version   Show version information

Examples:
  # Prepare the segment table (one-time per annotation release)
  isoviz extract --gtf annotation/atRTD3.gtf --out annotation/segments.csv

  # Aggregate Salmon quantifications into mean TPM per condition
  isoviz aggregate --base-dir quant/ --out-dir expression/

  # Serve the dashboard API
  isoviz serve --genes annotation/gene_names.csv \
    --segments annotation/segments.csv \
    --expr expression/transcript_expression_mean.csv

For more information on a command, use:
  isoviz <command> --help
`)
}

// newLogger builds the stderr logger used by the batch commands.
func newLogger() *zap.Logger {
	logger, err := zap.NewProduction()
	if err != nil {
		return zap.NewNop()
	}
	return logger
}
