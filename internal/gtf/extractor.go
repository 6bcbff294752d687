// Package gtf extracts exon and CDS segments from GTF annotation files.
package gtf

import (
	"bufio"
	"compress/gzip"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"go.uber.org/zap"

	"github.com/plantlab/isoviz/internal/segments"
)

// DefaultKeepFeatures is the feature filter used when none is configured.
var DefaultKeepFeatures = []string{segments.FeatureExon, segments.FeatureCDS}

// Extractor parses a GTF file into a tidy segment table.
type Extractor struct {
	path         string
	keepFeatures map[string]bool
	logger       *zap.Logger
}

// NewExtractor creates an extractor for the given GTF path with the
// default exon+CDS feature filter.
func NewExtractor(path string) *Extractor {
	return NewExtractorFeatures(path, DefaultKeepFeatures)
}

// NewExtractorFeatures creates an extractor keeping only the given features.
func NewExtractorFeatures(path string, keep []string) *Extractor {
	keepSet := make(map[string]bool, len(keep))
	for _, f := range keep {
		keepSet[f] = true
	}
	return &Extractor{
		path:         path,
		keepFeatures: keepSet,
		logger:       zap.NewNop(),
	}
}

// SetLogger sets the logger for progress and warning messages.
func (e *Extractor) SetLogger(l *zap.Logger) {
	e.logger = l
}

// Extract parses the GTF file and returns all kept segments, stable-sorted
// by (gene_id, transcript_id, start, end, feature).
//
// Rows missing gene_id or transcript_id are dropped. A non-integer start or
// end coordinate aborts the whole extraction: partial coordinate output
// would corrupt downstream geometry.
func (e *Extractor) Extract() ([]segments.Segment, error) {
	f, err := os.Open(e.path)
	if err != nil {
		return nil, fmt.Errorf("open GTF file: %w", err)
	}
	defer f.Close()

	var reader io.Reader = f
	if strings.HasSuffix(e.path, ".gz") {
		gz, err := gzip.NewReader(f)
		if err != nil {
			return nil, fmt.Errorf("open gzip reader: %w", err)
		}
		defer gz.Close()
		reader = gz
	}

	return e.parse(reader)
}

func (e *Extractor) parse(reader io.Reader) ([]segments.Segment, error) {
	scanner := bufio.NewScanner(reader)
	// Increase buffer size for long attribute columns
	buf := make([]byte, 0, 64*1024)
	scanner.Buffer(buf, 1024*1024)

	var segs []segments.Segment
	dropped := 0

	lineNum := 0
	for scanner.Scan() {
		lineNum++
		line := scanner.Text()

		if strings.HasPrefix(line, "#") || line == "" {
			continue
		}

		fields := strings.Split(line, "\t")
		if len(fields) < 9 {
			return nil, fmt.Errorf("gtf line %d: expected 9 fields, got %d", lineNum, len(fields))
		}

		feature := fields[2]
		if !e.keepFeatures[feature] {
			continue
		}

		start, err := strconv.ParseInt(fields[3], 10, 64)
		if err != nil {
			return nil, fmt.Errorf("gtf line %d: invalid start coordinate %q", lineNum, fields[3])
		}
		end, err := strconv.ParseInt(fields[4], 10, 64)
		if err != nil {
			return nil, fmt.Errorf("gtf line %d: invalid end coordinate %q", lineNum, fields[4])
		}

		attrs := ParseAttributes(fields[8])
		geneID := attrs["gene_id"]
		transcriptID := attrs["transcript_id"]
		if geneID == "" || transcriptID == "" {
			dropped++
			continue
		}

		s := segments.Segment{
			GeneID:       geneID,
			TranscriptID: transcriptID,
			Feature:      feature,
			Start:        start,
			End:          end,
			Strand:       fields[6],
			Chrom:        fields[0],
		}
		// exon_number is optional; CDS rows may not carry it
		if raw, ok := attrs["exon_number"]; ok {
			if n, err := strconv.Atoi(raw); err == nil {
				s.ExonNumber = &n
			}
		}

		segs = append(segs, s)
	}

	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("scan GTF: %w", err)
	}

	if dropped > 0 {
		e.logger.Warn("dropped rows missing gene_id or transcript_id",
			zap.Int("rows", dropped))
	}

	segments.Sort(segs)
	return segs, nil
}

// ParseAttributes parses a GTF attribute column in a single pass.
// Format: key "value"; key "value"; ... Last value wins for repeated keys.
func ParseAttributes(attrStr string) map[string]string {
	attrs := make(map[string]string)

	parts := strings.Split(attrStr, ";")
	for _, part := range parts {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}

		idx := strings.Index(part, " ")
		if idx == -1 {
			continue
		}

		key := part[:idx]
		value := strings.TrimSpace(part[idx+1:])
		value = strings.Trim(value, "\"")

		attrs[key] = value
	}

	return attrs
}
