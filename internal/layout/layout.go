// Package layout computes drawable isoform block models: one row per
// transcript, thin exon boxes, thick CDS boxes, and intron connector lines,
// filled by a color ramp over normalized expression.
package layout

import (
	"errors"
	"fmt"
	"sort"

	"github.com/plantlab/isoviz/internal/segments"
)

// Geometry constants of the block model.
const (
	exonHalfHeight = 0.10
	cdsHalfHeight  = 0.18
	xPadding       = 50

	outlineColor = "black"
	intronColor  = "rgba(0,0,0,0.55)"
	shapeOpacity = 0.95
)

// ErrNoSegments reports a gene with no exon/CDS segments. Callers surface
// this as a "no data" message, not a crash.
var ErrNoSegments = errors.New("no exon/CDS segments for gene")

// Shape kinds emitted by the layout engine.
const (
	ShapeRect = "rect"
	ShapeLine = "line"
)

// Shape is one drawable primitive in genomic x / row y coordinates.
type Shape struct {
	Type      string  `json:"type"` // "rect" or "line"
	X0        int64   `json:"x0"`
	X1        int64   `json:"x1"`
	Y0        float64 `json:"y0"`
	Y1        float64 `json:"y1"`
	FillColor string  `json:"fillcolor,omitempty"`
	LineColor string  `json:"linecolor"`
	LineWidth float64 `json:"linewidth"`
	Opacity   float64 `json:"opacity,omitempty"`
}

// Tick is one y-axis tick: a transcript row and its label.
type Tick struct {
	Value int    `json:"value"`
	Label string `json:"label"`
}

// Colorbar describes the legend scale for the expression ramp.
type Colorbar struct {
	Min   float64 `json:"min"`
	Max   float64 `json:"max"`
	Title string  `json:"title"`
}

// Plot is the full geometry set for one gene under one condition, consumed
// by an external rendering surface.
type Plot struct {
	Title    string     `json:"title"`
	GeneID   string     `json:"gene_id"`
	Shapes   []Shape    `json:"shapes"`
	XRange   [2]int64   `json:"x_range"`
	YRange   [2]float64 `json:"y_range"`
	YTicks   []Tick     `json:"y_ticks"`
	Colorbar Colorbar   `json:"colorbar"`
	Height   int        `json:"height"`
}

// Rows returns the number of transcript rows in the plot.
func (p *Plot) Rows() int {
	return len(p.YTicks)
}

// Build lays out all transcripts of one gene.
//
// expr maps transcript_id to an already log1p-transformed expression value;
// exprMax is the maximum of those values for the selected condition.
// Transcripts absent from expr are drawn with value 0; keys in expr that
// match no segment are ignored. The row assignment is the lexicographic
// order of transcript IDs and is part of the output contract.
func Build(segs []segments.Segment, geneID string, expr map[string]float64, exprMax float64, conditionLabel string) (*Plot, error) {
	var kept []segments.Segment
	for _, s := range segs {
		if s.Feature == segments.FeatureExon || s.Feature == segments.FeatureCDS {
			kept = append(kept, s)
		}
	}
	if len(kept) == 0 {
		return nil, ErrNoSegments
	}

	transcripts := transcriptIDs(kept)

	xMin, xMax := kept[0].Start, kept[0].End
	for _, s := range kept[1:] {
		if s.Start < xMin {
			xMin = s.Start
		}
		if s.End > xMax {
			xMax = s.End
		}
	}

	byTranscript := make(map[string][]segments.Segment)
	for _, s := range kept {
		byTranscript[s.TranscriptID] = append(byTranscript[s.TranscriptID], s)
	}

	var shapes []Shape
	ticks := make([]Tick, 0, len(transcripts))

	for row, tid := range transcripts {
		ticks = append(ticks, Tick{Value: row, Label: tid})

		fill := SampleColor(Normalize(expr[tid], exprMax))

		exons := filterFeature(byTranscript[tid], segments.FeatureExon)
		sortByStart(exons)

		for _, e := range exons {
			shapes = append(shapes, rect(e.Start, e.End, float64(row), exonHalfHeight, fill))
		}

		// Intron connectors span the gaps between consecutive exons.
		for i := 0; i+1 < len(exons); i++ {
			shapes = append(shapes, Shape{
				Type:      ShapeLine,
				X0:        exons[i].End,
				X1:        exons[i+1].Start,
				Y0:        float64(row),
				Y1:        float64(row),
				LineColor: intronColor,
				LineWidth: 2,
			})
		}

		cds := filterFeature(byTranscript[tid], segments.FeatureCDS)
		sortByStart(cds)

		for _, c := range cds {
			shapes = append(shapes, rect(c.Start, c.End, float64(row), cdsHalfHeight, fill))
		}
	}

	barMax := exprMax
	if barMax < 1e-9 {
		barMax = 1e-9
	}

	return &Plot{
		Title:  fmt.Sprintf("Isoform block model: %s", geneID),
		GeneID: geneID,
		Shapes: shapes,
		XRange: [2]int64{xMin - xPadding, xMax + xPadding},
		YRange: [2]float64{-1, float64(len(transcripts))},
		YTicks: ticks,
		Colorbar: Colorbar{
			Min:   0,
			Max:   barMax,
			Title: fmt.Sprintf("log1p(mean TPM)\n(%s)", conditionLabel),
		},
		Height: 280 + 60*len(transcripts),
	}, nil
}

func rect(x0, x1 int64, row, halfHeight float64, fill string) Shape {
	return Shape{
		Type:      ShapeRect,
		X0:        x0,
		X1:        x1,
		Y0:        row - halfHeight,
		Y1:        row + halfHeight,
		FillColor: fill,
		LineColor: outlineColor,
		LineWidth: 1,
		Opacity:   shapeOpacity,
	}
}

// transcriptIDs returns the distinct transcript IDs sorted lexicographically.
func transcriptIDs(segs []segments.Segment) []string {
	seen := make(map[string]bool)
	var ids []string
	for _, s := range segs {
		if s.TranscriptID == "" || seen[s.TranscriptID] {
			continue
		}
		seen[s.TranscriptID] = true
		ids = append(ids, s.TranscriptID)
	}
	sort.Strings(ids)
	return ids
}

func filterFeature(segs []segments.Segment, feature string) []segments.Segment {
	var out []segments.Segment
	for _, s := range segs {
		if s.Feature == feature {
			out = append(out, s)
		}
	}
	return out
}

func sortByStart(segs []segments.Segment) {
	sort.SliceStable(segs, func(i, j int) bool {
		return segs[i].Start < segs[j].Start
	})
}
