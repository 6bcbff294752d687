// Package segments provides the exon/CDS segment table shared by the
// extractor and the layout engine.
package segments

import (
	"sort"
)

// Feature names kept in the segment table.
const (
	FeatureExon = "exon"
	FeatureCDS  = "CDS"
)

// Segment is one exon or CDS row of a transcript.
type Segment struct {
	GeneID       string
	TranscriptID string
	Feature      string // "exon" or "CDS"
	Start        int64  // Genomic start (1-based)
	End          int64  // Genomic end (1-based, inclusive)
	Strand       string // "+" or "-"
	Chrom        string
	ExonNumber   *int // nil when the source row carried no exon_number
}

// Table indexes segments by gene for the gene-at-a-time layout pipeline.
// It is immutable after construction.
type Table struct {
	byGene map[string][]Segment
}

// NewTable builds a gene-indexed table from a segment slice.
func NewTable(segs []Segment) *Table {
	byGene := make(map[string][]Segment)
	for _, s := range segs {
		byGene[s.GeneID] = append(byGene[s.GeneID], s)
	}
	return &Table{byGene: byGene}
}

// ForGene returns all segments for a gene, or nil if the gene is unknown.
func (t *Table) ForGene(geneID string) []Segment {
	return t.byGene[geneID]
}

// Genes returns a sorted list of gene IDs present in the table.
func (t *Table) Genes() []string {
	genes := make([]string, 0, len(t.byGene))
	for g := range t.byGene {
		genes = append(genes, g)
	}
	sort.Strings(genes)
	return genes
}

// TranscriptIDs returns the distinct transcript IDs of a gene, sorted
// lexicographically. This ordering matches the layout engine's row order.
func (t *Table) TranscriptIDs(geneID string) []string {
	seen := make(map[string]bool)
	var ids []string
	for _, s := range t.byGene[geneID] {
		if s.TranscriptID == "" || seen[s.TranscriptID] {
			continue
		}
		seen[s.TranscriptID] = true
		ids = append(ids, s.TranscriptID)
	}
	sort.Strings(ids)
	return ids
}

// SegmentCount returns the total number of segments in the table.
func (t *Table) SegmentCount() int {
	count := 0
	for _, segs := range t.byGene {
		count += len(segs)
	}
	return count
}

// Sort orders segments by (gene_id, transcript_id, start, end, feature)
// using a stable sort, so repeated runs produce byte-identical output.
func Sort(segs []Segment) {
	sort.SliceStable(segs, func(i, j int) bool {
		a, b := segs[i], segs[j]
		if a.GeneID != b.GeneID {
			return a.GeneID < b.GeneID
		}
		if a.TranscriptID != b.TranscriptID {
			return a.TranscriptID < b.TranscriptID
		}
		if a.Start != b.Start {
			return a.Start < b.Start
		}
		if a.End != b.End {
			return a.End < b.End
		}
		return a.Feature < b.Feature
	})
}
