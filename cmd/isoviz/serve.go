package main

import (
	"encoding/json"
	"flag"
	"fmt"
	"net/http"
	"os"

	"github.com/plantlab/isoviz/internal/app"
	"github.com/plantlab/isoviz/internal/store"
)

func runServe(args []string) int {
	fs := flag.NewFlagSet("serve", flag.ExitOnError)

	var (
		genesPath    string
		segmentsPath string
		exprPath     string
		dbPath       string
		addr         string
	)

	initConfig()
	fs.StringVar(&genesPath, "genes", configDefault("paths.genes", "annotation/testdata/Thalemine_gene_names_demo.csv"), "Gene annotation CSV (semicolon-delimited, AGI;Name)")
	fs.StringVar(&segmentsPath, "segments", configDefault("paths.segments", "annotation/testdata/segments_demo.csv"), "Segments CSV path")
	fs.StringVar(&exprPath, "expr", configDefault("paths.expr", "annotation/testdata/transcript_expression_mean_demo.csv"), "Mean-expression CSV path")
	fs.StringVar(&dbPath, "db", configDefault("paths.duckdb", ""), "Load segments and expression from a DuckDB file instead of CSVs")
	fs.StringVar(&addr, "addr", configDefault("serve.addr", ":8050"), "Listen address")

	fs.Usage = func() {
		fmt.Fprintf(os.Stderr, `Serve the isoform dashboard API.

Loads the three source tables once at startup and answers selection
requests from the in-memory state. Endpoints:

  GET /api/genes                        gene dropdown options
  GET /api/conditions                   condition dropdown options
  GET /api/view?gene=<AGI>&condition=<genotype_timepoint>

Usage:
  isoviz serve [options]

Options:
`)
		fs.PrintDefaults()
	}

	if err := fs.Parse(args); err != nil {
		return ExitUsage
	}

	logger := newLogger()
	defer logger.Sync()

	var state *app.State
	if dbPath != "" {
		db, err := store.Open(dbPath)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error opening DuckDB: %v\n", err)
			return ExitError
		}
		segs, err := db.LoadSegments()
		if err != nil {
			db.Close()
			fmt.Fprintf(os.Stderr, "Error loading segments from DuckDB: %v\n", err)
			return ExitError
		}
		means, err := db.LoadMeans()
		if err != nil {
			db.Close()
			fmt.Fprintf(os.Stderr, "Error loading expression from DuckDB: %v\n", err)
			return ExitError
		}
		db.Close()

		genes, err := app.ReadGenesCSV(genesPath)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			return ExitError
		}
		state = app.New(genes, segs, means)
	} else {
		var err error
		state, err = app.Load(genesPath, segmentsPath, exprPath)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			return ExitError
		}
	}
	state.SetLogger(logger)

	fmt.Fprintf(os.Stderr, "Loaded %d genes, default condition %q\n",
		len(state.GeneOptions()), state.DefaultCondition())
	fmt.Fprintf(os.Stderr, "Listening on %s\n", addr)

	mux := http.NewServeMux()
	mux.HandleFunc("/api/genes", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, state.GeneOptions())
	})
	mux.HandleFunc("/api/conditions", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, state.ConditionOptions())
	})
	mux.HandleFunc("/api/view", func(w http.ResponseWriter, r *http.Request) {
		geneID := r.URL.Query().Get("gene")
		conditionID := r.URL.Query().Get("condition")
		if geneID == "" {
			http.Error(w, `{"error":"gene parameter required"}`, http.StatusBadRequest)
			return
		}

		view, err := state.View(geneID, conditionID)
		if err != nil {
			http.Error(w, fmt.Sprintf(`{"error":%q}`, err.Error()), http.StatusNotFound)
			return
		}
		writeJSON(w, view)
	})

	if err := http.ListenAndServe(addr, mux); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return ExitError
	}

	return ExitSuccess
}

func writeJSON(w http.ResponseWriter, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(v); err != nil {
		http.Error(w, `{"error":"encode response"}`, http.StatusInternalServerError)
	}
}
