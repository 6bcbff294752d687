package store

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/plantlab/isoviz/internal/expr"
	"github.com/plantlab/isoviz/internal/segments"
)

func openInMemory(t *testing.T) *Store {
	t.Helper()
	s, err := Open("")
	require.NoError(t, err)
	t.Cleanup(func() { s.Close() })
	return s
}

func TestOpenClose(t *testing.T) {
	s := openInMemory(t)
	assert.NotNil(t, s.DB())
}

func TestSegmentsRoundTrip(t *testing.T) {
	s := openInMemory(t)

	n := 2
	segs := []segments.Segment{
		{GeneID: "AT1G01010", TranscriptID: "AT1G01010.1", Feature: "exon",
			Start: 3631, End: 3913, Strand: "+", Chrom: "Chr1", ExonNumber: &n},
		{GeneID: "AT1G01010", TranscriptID: "AT1G01010.1", Feature: "CDS",
			Start: 3760, End: 3913, Strand: "+", Chrom: "Chr1"},
	}

	require.NoError(t, s.ReplaceSegments(segs))

	count, err := s.SegmentCount()
	require.NoError(t, err)
	assert.Equal(t, 2, count)

	got, err := s.LoadSegments()
	require.NoError(t, err)
	require.Len(t, got, 2)

	// CDS sorts before exon at equal coordinates
	assert.Equal(t, "CDS", got[0].Feature)
	assert.Nil(t, got[0].ExonNumber)
	assert.Equal(t, "exon", got[1].Feature)
	require.NotNil(t, got[1].ExonNumber)
	assert.Equal(t, 2, *got[1].ExonNumber)
}

func TestReplaceSegmentsClearsPrevious(t *testing.T) {
	s := openInMemory(t)

	first := []segments.Segment{
		{GeneID: "A", TranscriptID: "A.1", Feature: "exon", Start: 1, End: 10, Strand: "+", Chrom: "Chr1"},
	}
	require.NoError(t, s.ReplaceSegments(first))

	second := []segments.Segment{
		{GeneID: "B", TranscriptID: "B.1", Feature: "exon", Start: 5, End: 15, Strand: "-", Chrom: "Chr2"},
	}
	require.NoError(t, s.ReplaceSegments(second))

	got, err := s.LoadSegments()
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, "B", got[0].GeneID)
}

func TestMeansRoundTrip(t *testing.T) {
	s := openInMemory(t)

	means := []expr.Mean{
		{TranscriptID: "T1", Genotype: "7ko", Timepoint: "LL18", MeanTPM: 2.5},
		{TranscriptID: "T1", Genotype: "WT", Timepoint: "LL18", MeanTPM: 0},
	}
	require.NoError(t, s.ReplaceMeans(means))

	count, err := s.MeanCount()
	require.NoError(t, err)
	assert.Equal(t, 2, count)

	got, err := s.LoadMeans()
	require.NoError(t, err)
	assert.Equal(t, means, got)
}

func TestEmptyStore(t *testing.T) {
	s := openInMemory(t)

	segs, err := s.LoadSegments()
	require.NoError(t, err)
	assert.Empty(t, segs)

	means, err := s.LoadMeans()
	require.NoError(t, err)
	assert.Empty(t, means)
}
