// Package app holds the immutable application state behind the interactive
// surface: the gene annotation, segment, and mean-expression tables, loaded
// once at startup, plus the selection-driven view computation.
package app

import (
	"fmt"
	"strings"

	"go.uber.org/zap"

	"github.com/plantlab/isoviz/internal/expr"
	"github.com/plantlab/isoviz/internal/layout"
	"github.com/plantlab/isoviz/internal/segments"
)

// Option is one selectable entry of a dropdown.
type Option struct {
	Label string `json:"label"`
	Value string `json:"value"`
}

// State is the read-only application state. Construct it once with Load or
// New; it is never mutated while serving requests.
type State struct {
	genes      []Gene
	geneByAGI  map[string]Gene
	segs       *segments.Table
	means      []expr.Mean
	conditions []string
	logger     *zap.Logger
}

// New builds state from already-loaded tables.
func New(genes []Gene, segs []segments.Segment, means []expr.Mean) *State {
	byAGI := make(map[string]Gene, len(genes))
	for _, g := range genes {
		byAGI[g.AGI] = g
	}
	return &State{
		genes:      genes,
		geneByAGI:  byAGI,
		segs:       segments.NewTable(segs),
		means:      means,
		conditions: expr.Conditions(means),
		logger:     zap.NewNop(),
	}
}

// Load reads the three source files and builds the state. Any missing or
// malformed file is fatal: without all three tables the process cannot
// serve requests.
func Load(genesPath, segmentsPath, exprMeanPath string) (*State, error) {
	genes, err := ReadGenesCSV(genesPath)
	if err != nil {
		return nil, fmt.Errorf("load gene annotation: %w", err)
	}

	segs, err := segments.ReadCSV(segmentsPath)
	if err != nil {
		return nil, fmt.Errorf("load segments: %w", err)
	}

	means, err := expr.ReadMeansCSV(exprMeanPath)
	if err != nil {
		return nil, fmt.Errorf("load mean expression: %w", err)
	}

	return New(genes, segs, means), nil
}

// SetLogger sets the logger for request-time messages.
func (s *State) SetLogger(l *zap.Logger) {
	s.logger = l
}

// GeneOptions returns the gene dropdown options in annotation-file order.
func (s *State) GeneOptions() []Option {
	opts := make([]Option, 0, len(s.genes))
	for _, g := range s.genes {
		opts = append(opts, Option{
			Label: fmt.Sprintf("%s – %s", g.AGI, g.Name),
			Value: g.AGI,
		})
	}
	return opts
}

// ConditionOptions returns the condition dropdown options, sorted
// lexicographically by "genotype_timepoint" key.
func (s *State) ConditionOptions() []Option {
	opts := make([]Option, 0, len(s.conditions))
	for _, c := range s.conditions {
		opts = append(opts, Option{Label: ConditionLabel(c), Value: c})
	}
	return opts
}

// DefaultCondition returns the first condition key, or "" when the mean
// table is empty.
func (s *State) DefaultCondition() string {
	if len(s.conditions) == 0 {
		return ""
	}
	return s.conditions[0]
}

// GeneView is the result of one (gene, condition) selection. Either Plot is
// set, or Message explains why there is nothing to draw.
type GeneView struct {
	GeneID    string       `json:"gene_id"`
	GeneName  string       `json:"gene_name"`
	Condition string       `json:"condition"`
	Message   string       `json:"message,omitempty"`
	Plot      *layout.Plot `json:"plot,omitempty"`
}

// View computes the isoform plot for a gene under a condition. It is a pure
// function of the loaded tables and the selection.
//
// An empty conditionID falls back to the default condition. A gene with no
// exon/CDS segments yields a view carrying a message instead of a plot.
func (s *State) View(geneID, conditionID string) (*GeneView, error) {
	if conditionID == "" {
		conditionID = s.DefaultCondition()
	}

	gene, ok := s.geneByAGI[geneID]
	if !ok {
		return nil, fmt.Errorf("unknown gene %q", geneID)
	}

	genotype, timepoint, err := SplitCondition(conditionID)
	if err != nil {
		return nil, err
	}

	view := &GeneView{
		GeneID:    gene.AGI,
		GeneName:  gene.Name,
		Condition: conditionID,
	}

	segs := s.segs.ForGene(geneID)
	if len(segs) == 0 {
		view.Message = "No exon/CDS segments found for this gene."
		return view, nil
	}

	transcripts := s.segs.TranscriptIDs(geneID)
	inGene := make(map[string]bool, len(transcripts))
	for _, tid := range transcripts {
		inGene[tid] = true
	}

	// log1p(mean TPM) for better dynamic range. Expression rows for
	// transcripts outside this gene's segment set are ignored.
	exprMap := make(map[string]float64)
	exprMax := 0.0
	for _, m := range s.means {
		if m.Genotype != genotype || m.Timepoint != timepoint || !inGene[m.TranscriptID] {
			continue
		}
		v := layout.Log1p(m.MeanTPM)
		exprMap[m.TranscriptID] = v
		if v > exprMax {
			exprMax = v
		}
	}

	plot, err := layout.Build(segs, gene.AGI, exprMap, exprMax, ConditionLabel(conditionID))
	if err != nil {
		if err == layout.ErrNoSegments {
			view.Message = "No exon/CDS segments found for this gene."
			return view, nil
		}
		return nil, err
	}

	view.Plot = plot
	return view, nil
}

// SplitCondition splits a "genotype_timepoint" key at the first underscore.
func SplitCondition(conditionID string) (genotype, timepoint string, err error) {
	idx := strings.Index(conditionID, "_")
	if idx <= 0 || idx == len(conditionID)-1 {
		return "", "", fmt.Errorf("invalid condition %q: expected genotype_timepoint", conditionID)
	}
	return conditionID[:idx], conditionID[idx+1:], nil
}

// ConditionLabel renders a condition key for display, "7ko_LL18" -> "7ko • LL18".
func ConditionLabel(conditionID string) string {
	return strings.ReplaceAll(conditionID, "_", " • ")
}
