// Package expr builds transcript-level expression tables from per-sample
// quantification files and reduces them to per-condition means.
package expr

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"sort"
	"strconv"

	"go.uber.org/zap"

	"github.com/plantlab/isoviz/internal/quant"
)

// QuantFileName is the quantification file expected inside each sample folder.
const QuantFileName = "quant.sf"

// sampleDirPattern matches sample folder names: <genotype>_<timepoint>_<replicate>.
// The genotype enumeration is fixed; matching is case-insensitive.
var sampleDirPattern = regexp.MustCompile(`(?i)^(7ko|7ox|8ox|wt)_([A-Za-z0-9]+)_(\d+)$`)

// ErrNoSamples is returned when no sample folder could be parsed.
var ErrNoSamples = errors.New("no quant.sf files found or parsed")

// Sample is one transcript abundance observation from one sample folder.
type Sample struct {
	TranscriptID string
	TPM          float64
	Sample       string // Literal sample folder name
	Genotype     string
	Timepoint    string
	Replicate    int
}

// Aggregator scans a base directory of sample folders and collects
// transcript abundances.
type Aggregator struct {
	baseDir string
	logger  *zap.Logger
}

// NewAggregator creates an aggregator for the given base directory.
func NewAggregator(baseDir string) *Aggregator {
	return &Aggregator{
		baseDir: baseDir,
		logger:  zap.NewNop(),
	}
}

// SetLogger sets the logger for warning messages.
func (a *Aggregator) SetLogger(l *zap.Logger) {
	a.logger = l
}

// Collect parses every sample folder under the base directory and returns
// the long per-replicate table.
//
// Folders whose names do not match <genotype>_<timepoint>_<replicate> are
// skipped with a warning; folders without a quant.sf are skipped silently.
// Zero parsed samples is an error: there is nothing to aggregate.
func (a *Aggregator) Collect() ([]Sample, error) {
	entries, err := os.ReadDir(a.baseDir)
	if err != nil {
		return nil, fmt.Errorf("read base directory: %w", err)
	}

	// os.ReadDir returns entries sorted by name; sort again so the output
	// order never depends on the platform.
	sort.Slice(entries, func(i, j int) bool { return entries[i].Name() < entries[j].Name() })

	var samples []Sample
	parsedDirs := 0

	for _, entry := range entries {
		if !entry.IsDir() {
			continue
		}
		folder := entry.Name()

		quantPath := filepath.Join(a.baseDir, folder, QuantFileName)
		if _, err := os.Stat(quantPath); err != nil {
			continue
		}

		m := sampleDirPattern.FindStringSubmatch(folder)
		if m == nil {
			a.logger.Warn("skipping folder (name mismatch)", zap.String("folder", folder))
			continue
		}

		genotype, timepoint := m[1], m[2]
		replicate, err := strconv.Atoi(m[3])
		if err != nil {
			// Unreachable given the \d+ group, but be explicit
			a.logger.Warn("skipping folder (bad replicate)", zap.String("folder", folder))
			continue
		}

		rows, err := a.parseQuantFile(quantPath)
		if err != nil {
			return nil, fmt.Errorf("parse %s: %w", quantPath, err)
		}

		for _, r := range rows {
			samples = append(samples, Sample{
				TranscriptID: r.Name,
				TPM:          r.TPM,
				Sample:       folder,
				Genotype:     genotype,
				Timepoint:    timepoint,
				Replicate:    replicate,
			})
		}
		parsedDirs++
	}

	if parsedDirs == 0 || len(samples) == 0 {
		return nil, ErrNoSamples
	}

	return samples, nil
}

func (a *Aggregator) parseQuantFile(path string) ([]quant.Record, error) {
	p, err := quant.NewParser(path)
	if err != nil {
		return nil, err
	}
	defer p.Close()

	var rows []quant.Record
	for {
		r, err := p.Next()
		if err != nil {
			return nil, err
		}
		if r == nil {
			return rows, nil
		}
		rows = append(rows, *r)
	}
}

// UniqueTranscripts returns the number of distinct transcript IDs in the table.
func UniqueTranscripts(samples []Sample) int {
	seen := make(map[string]bool)
	for _, s := range samples {
		seen[s.TranscriptID] = true
	}
	return len(seen)
}

// UniqueSamples returns the number of distinct sample folders in the table.
func UniqueSamples(samples []Sample) int {
	seen := make(map[string]bool)
	for _, s := range samples {
		seen[s.Sample] = true
	}
	return len(seen)
}
