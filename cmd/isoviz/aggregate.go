package main

import (
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/plantlab/isoviz/internal/expr"
	"github.com/plantlab/isoviz/internal/store"
)

func runAggregate(args []string) int {
	fs := flag.NewFlagSet("aggregate", flag.ExitOnError)

	var (
		baseDir    string
		outDir     string
		duckdbPath string
	)

	initConfig()
	fs.StringVar(&baseDir, "base-dir", configDefault("paths.quant", ""), "Directory containing sample folders with quant.sf files (required)")
	fs.StringVar(&outDir, "out-dir", configDefault("paths.expression", "expression"), "Output directory")
	fs.StringVar(&duckdbPath, "duckdb", configDefault("paths.duckdb", ""), "Also persist the mean table into a DuckDB file (optional)")

	fs.Usage = func() {
		fmt.Fprintf(os.Stderr, `Build transcript-level TPM tables from Salmon quant.sf files.

Expected folder structure:
  BASE_DIR/
    7ko_LL18_1/quant.sf
    7ko_LL18_2/quant.sf
    wt_LL18_1/quant.sf
    ...

Folder naming pattern: <genotype>_<timepoint>_<replicate>

Usage:
  isoviz aggregate [options]

Options:
`)
		fs.PrintDefaults()
		fmt.Fprintf(os.Stderr, `
Examples:
  isoviz aggregate --base-dir quant/
  isoviz aggregate --base-dir quant/ --out-dir expression/ --duckdb isoviz.duckdb
`)
	}

	if err := fs.Parse(args); err != nil {
		return ExitUsage
	}

	if baseDir == "" {
		fmt.Fprintf(os.Stderr, "Error: --base-dir is required (or set paths.quant via isoviz config)\n\n")
		fs.Usage()
		return ExitUsage
	}

	logger := newLogger()
	defer logger.Sync()

	fmt.Fprintf(os.Stderr, "Base directory: %s\n", baseDir)
	fmt.Fprintf(os.Stderr, "Output directory: %s\n", outDir)

	agg := expr.NewAggregator(baseDir)
	agg.SetLogger(logger)

	samples, err := agg.Collect()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		if errors.Is(err, expr.ErrNoSamples) {
			fmt.Fprintf(os.Stderr, "Hint: Check sample folder names match <genotype>_<timepoint>_<replicate>\n")
		}
		return ExitError
	}

	outExpr := filepath.Join(outDir, "transcript_expression.csv")
	outMean := filepath.Join(outDir, "transcript_expression_mean.csv")

	if err := writeFileAtomic(outExpr, func(w io.Writer) error {
		return expr.WriteSamplesCSV(w, samples)
	}); err != nil {
		fmt.Fprintf(os.Stderr, "Error writing expression table: %v\n", err)
		return ExitError
	}

	fmt.Printf("Saved: %s\n", outExpr)
	fmt.Printf("  Rows: %d\n", len(samples))
	fmt.Printf("  Unique transcripts: %d\n", expr.UniqueTranscripts(samples))
	fmt.Printf("  Unique samples: %d\n", expr.UniqueSamples(samples))

	means := expr.ComputeMeans(samples)

	if err := writeFileAtomic(outMean, func(w io.Writer) error {
		return expr.WriteMeansCSV(w, means)
	}); err != nil {
		fmt.Fprintf(os.Stderr, "Error writing mean table: %v\n", err)
		return ExitError
	}

	fmt.Printf("Saved: %s\n", outMean)
	fmt.Printf("  Rows: %d\n", len(means))
	fmt.Printf("  Conditions: %d\n", len(expr.Conditions(means)))

	if duckdbPath != "" {
		db, err := store.Open(duckdbPath)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error opening DuckDB: %v\n", err)
			return ExitError
		}
		defer db.Close()

		if err := db.ReplaceMeans(means); err != nil {
			fmt.Fprintf(os.Stderr, "Error writing means to DuckDB: %v\n", err)
			return ExitError
		}
		fmt.Printf("Saved: %s (expression_mean table)\n", duckdbPath)
	}

	return ExitSuccess
}
