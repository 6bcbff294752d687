package layout

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/plantlab/isoviz/internal/segments"
)

func exon(tid string, start, end int64) segments.Segment {
	return segments.Segment{GeneID: "G", TranscriptID: tid, Feature: segments.FeatureExon, Start: start, End: end}
}

func cds(tid string, start, end int64) segments.Segment {
	return segments.Segment{GeneID: "G", TranscriptID: tid, Feature: segments.FeatureCDS, Start: start, End: end}
}

func shapesOfType(p *Plot, typ string) []Shape {
	var out []Shape
	for _, s := range p.Shapes {
		if s.Type == typ {
			out = append(out, s)
		}
	}
	return out
}

func TestBuild_RowAssignmentLexicographic(t *testing.T) {
	// Input row order must not affect row assignment.
	segs := []segments.Segment{
		exon("T2", 300, 400),
		exon("T1", 100, 200),
	}

	p, err := Build(segs, "G", nil, 0, "7ko • LL18")
	require.NoError(t, err)

	require.Len(t, p.YTicks, 2)
	assert.Equal(t, Tick{Value: 0, Label: "T1"}, p.YTicks[0])
	assert.Equal(t, Tick{Value: 1, Label: "T2"}, p.YTicks[1])
}

func TestBuild_IntronInference(t *testing.T) {
	segs := []segments.Segment{
		exon("T1", 100, 200),
		exon("T1", 300, 400),
	}

	p, err := Build(segs, "G", nil, 0, "cond")
	require.NoError(t, err)

	introns := shapesOfType(p, ShapeLine)
	require.Len(t, introns, 1)
	assert.Equal(t, int64(200), introns[0].X0)
	assert.Equal(t, int64(300), introns[0].X1)
	assert.Equal(t, 0.0, introns[0].Y0)
	assert.Equal(t, 0.0, introns[0].Y1)
}

func TestBuild_SingleExonNoIntrons(t *testing.T) {
	p, err := Build([]segments.Segment{exon("T1", 100, 200)}, "G", nil, 0, "cond")
	require.NoError(t, err)
	assert.Empty(t, shapesOfType(p, ShapeLine))
}

func TestBuild_ExonAndCDSBands(t *testing.T) {
	segs := []segments.Segment{
		exon("T1", 100, 400),
		cds("T1", 150, 350),
	}

	p, err := Build(segs, "G", nil, 0, "cond")
	require.NoError(t, err)

	rects := shapesOfType(p, ShapeRect)
	require.Len(t, rects, 2)

	// Thin exon band, then thick CDS band nested inside it visually.
	assert.Equal(t, -0.10, rects[0].Y0)
	assert.Equal(t, 0.10, rects[0].Y1)
	assert.Equal(t, -0.18, rects[1].Y0)
	assert.Equal(t, 0.18, rects[1].Y1)
	assert.Equal(t, rects[0].FillColor, rects[1].FillColor)
	assert.Equal(t, "black", rects[0].LineColor)
}

func TestBuild_ColorFromExpression(t *testing.T) {
	segs := []segments.Segment{
		exon("A", 100, 200),
		exon("B", 300, 400),
	}
	expr := map[string]float64{"A": 2.0, "B": 0.0}

	p, err := Build(segs, "G", expr, 2.0, "cond")
	require.NoError(t, err)

	rects := shapesOfType(p, ShapeRect)
	require.Len(t, rects, 2)
	assert.Equal(t, SampleColor(1), rects[0].FillColor)
	assert.Equal(t, SampleColor(0), rects[1].FillColor)
}

func TestBuild_ZeroMaxAllBaseline(t *testing.T) {
	segs := []segments.Segment{
		exon("A", 100, 200),
		exon("B", 300, 400),
	}

	p, err := Build(segs, "G", map[string]float64{"A": 0, "B": 0}, 0, "cond")
	require.NoError(t, err)

	for _, r := range shapesOfType(p, ShapeRect) {
		assert.Equal(t, SampleColor(0), r.FillColor)
	}
}

func TestBuild_IgnoresExpressionForUnknownTranscripts(t *testing.T) {
	segs := []segments.Segment{exon("A", 100, 200)}
	expr := map[string]float64{"A": 1.0, "Z": 99.0}

	p, err := Build(segs, "G", expr, 1.0, "cond")
	require.NoError(t, err)

	require.Len(t, p.YTicks, 1)
	assert.Equal(t, "A", p.YTicks[0].Label)
}

func TestBuild_AxisMetadata(t *testing.T) {
	segs := []segments.Segment{
		exon("T1", 100, 200),
		exon("T2", 150, 500),
	}

	p, err := Build(segs, "AT1G01010", nil, 1.5, "7ko • LL18")
	require.NoError(t, err)

	assert.Equal(t, [2]int64{50, 550}, p.XRange)
	assert.Equal(t, [2]float64{-1, 2}, p.YRange)
	assert.Equal(t, "Isoform block model: AT1G01010", p.Title)
	assert.Equal(t, 280+60*2, p.Height)
	assert.Equal(t, 0.0, p.Colorbar.Min)
	assert.Equal(t, 1.5, p.Colorbar.Max)
	assert.Contains(t, p.Colorbar.Title, "7ko • LL18")
	assert.Equal(t, 2, p.Rows())
}

func TestBuild_NoSegments(t *testing.T) {
	_, err := Build(nil, "G", nil, 0, "cond")
	require.ErrorIs(t, err, ErrNoSegments)

	// Non-exon/CDS features alone also count as no data.
	other := []segments.Segment{{GeneID: "G", TranscriptID: "T", Feature: "five_prime_utr", Start: 1, End: 10}}
	_, err = Build(other, "G", nil, 0, "cond")
	require.ErrorIs(t, err, ErrNoSegments)
}

func TestBuild_UnsortedExonsStillYieldOrderedIntrons(t *testing.T) {
	segs := []segments.Segment{
		exon("T1", 500, 600),
		exon("T1", 100, 200),
		exon("T1", 300, 400),
	}

	p, err := Build(segs, "G", nil, 0, "cond")
	require.NoError(t, err)

	introns := shapesOfType(p, ShapeLine)
	require.Len(t, introns, 2)
	assert.Equal(t, int64(200), introns[0].X0)
	assert.Equal(t, int64(300), introns[0].X1)
	assert.Equal(t, int64(400), introns[1].X0)
	assert.Equal(t, int64(500), introns[1].X1)
}
