package segments

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"strconv"
)

// Columns is the header of the segments CSV file.
var Columns = []string{"gene_id", "transcript_id", "feature", "start", "end", "strand", "chrom", "exon_number"}

// ReadCSV loads a segments file written by WriteCSV.
func ReadCSV(path string) ([]Segment, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open segments file: %w", err)
	}
	defer f.Close()

	return parseCSV(f)
}

func parseCSV(r io.Reader) ([]Segment, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = len(Columns)

	header, err := cr.Read()
	if err != nil {
		return nil, fmt.Errorf("read segments header: %w", err)
	}
	for i, want := range Columns {
		if header[i] != want {
			return nil, fmt.Errorf("segments header: expected column %q at position %d, got %q", want, i, header[i])
		}
	}

	var segs []Segment
	lineNum := 1
	for {
		rec, err := cr.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("read segments row: %w", err)
		}
		lineNum++

		start, err := strconv.ParseInt(rec[3], 10, 64)
		if err != nil {
			return nil, fmt.Errorf("segments line %d: invalid start %q", lineNum, rec[3])
		}
		end, err := strconv.ParseInt(rec[4], 10, 64)
		if err != nil {
			return nil, fmt.Errorf("segments line %d: invalid end %q", lineNum, rec[4])
		}

		s := Segment{
			GeneID:       rec[0],
			TranscriptID: rec[1],
			Feature:      rec[2],
			Start:        start,
			End:          end,
			Strand:       rec[5],
			Chrom:        rec[6],
		}
		if rec[7] != "" {
			n, err := strconv.Atoi(rec[7])
			if err != nil {
				return nil, fmt.Errorf("segments line %d: invalid exon_number %q", lineNum, rec[7])
			}
			s.ExonNumber = &n
		}
		segs = append(segs, s)
	}

	return segs, nil
}

// WriteCSV writes segments to w in the column order of Columns.
func WriteCSV(w io.Writer, segs []Segment) error {
	cw := csv.NewWriter(w)

	if err := cw.Write(Columns); err != nil {
		return fmt.Errorf("write segments header: %w", err)
	}

	for _, s := range segs {
		exonNum := ""
		if s.ExonNumber != nil {
			exonNum = strconv.Itoa(*s.ExonNumber)
		}
		rec := []string{
			s.GeneID,
			s.TranscriptID,
			s.Feature,
			strconv.FormatInt(s.Start, 10),
			strconv.FormatInt(s.End, 10),
			s.Strand,
			s.Chrom,
			exonNum,
		}
		if err := cw.Write(rec); err != nil {
			return fmt.Errorf("write segment row: %w", err)
		}
	}

	cw.Flush()
	return cw.Error()
}
