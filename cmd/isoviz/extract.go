package main

import (
	"errors"
	"flag"
	"fmt"
	"io"
	iofs "io/fs"
	"os"
	"strings"

	"github.com/plantlab/isoviz/internal/gtf"
	"github.com/plantlab/isoviz/internal/segments"
	"github.com/plantlab/isoviz/internal/store"
)

func runExtract(args []string) int {
	fs := flag.NewFlagSet("extract", flag.ExitOnError)

	var (
		gtfPath    string
		outPath    string
		duckdbPath string
	)

	initConfig()
	fs.StringVar(&gtfPath, "gtf", configDefault("paths.gtf", "annotation/atRTD3_TS_21Feb22_transfix.gtf"), "Input GTF path")
	fs.StringVar(&outPath, "out", configDefault("paths.segments", "annotation/segments_atrtd3.csv"), "Output CSV path")
	fs.StringVar(&duckdbPath, "duckdb", configDefault("paths.duckdb", ""), "Also persist segments into a DuckDB file (optional)")

	fs.Usage = func() {
		fmt.Fprintf(os.Stderr, `Extract exon+CDS segments from a GTF annotation file.

Keeps only exon and CDS rows, extracts gene_id / transcript_id /
exon_number from the attribute column, and writes a tidy segments CSV
sorted for reproducible diffs.

Usage:
  isoviz extract [options]

Options:
`)
		fs.PrintDefaults()
		fmt.Fprintf(os.Stderr, `
Examples:
  isoviz extract --gtf annotation/atRTD3.gtf --out annotation/segments.csv
  isoviz extract --gtf annotation/atRTD3.gtf.gz --out segments.csv --duckdb isoviz.duckdb
`)
	}

	if err := fs.Parse(args); err != nil {
		return ExitUsage
	}

	logger := newLogger()
	defer logger.Sync()

	extractor := gtf.NewExtractor(gtfPath)
	extractor.SetLogger(logger)

	segs, err := extractor.Extract()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		if errors.Is(err, iofs.ErrNotExist) {
			fmt.Fprintf(os.Stderr, "Hint: Check that the GTF path is correct\n")
		}
		return ExitError
	}

	if err := writeFileAtomic(outPath, func(w io.Writer) error {
		return segments.WriteCSV(w, segs)
	}); err != nil {
		fmt.Fprintf(os.Stderr, "Error writing segments: %v\n", err)
		return ExitError
	}

	fmt.Printf("Saved: %s\n", outPath)
	fmt.Printf("Rows: %d\n", len(segs))
	fmt.Printf("Columns: [%s]\n", strings.Join(segments.Columns, ", "))

	if duckdbPath != "" {
		db, err := store.Open(duckdbPath)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error opening DuckDB: %v\n", err)
			return ExitError
		}
		defer db.Close()

		if err := db.ReplaceSegments(segs); err != nil {
			fmt.Fprintf(os.Stderr, "Error writing segments to DuckDB: %v\n", err)
			return ExitError
		}
		fmt.Printf("Saved: %s (segments table)\n", duckdbPath)
	}

	return ExitSuccess
}
