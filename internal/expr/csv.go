package expr

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"strconv"
)

// SampleColumns is the header of the long per-replicate table.
var SampleColumns = []string{"transcript_id", "TPM", "sample", "genotype", "timepoint", "replicate"}

// MeanColumns is the header of the per-condition mean table.
var MeanColumns = []string{"transcript_id", "genotype", "timepoint", "mean_TPM"}

// WriteSamplesCSV writes the long per-replicate table to w.
func WriteSamplesCSV(w io.Writer, samples []Sample) error {
	cw := csv.NewWriter(w)

	if err := cw.Write(SampleColumns); err != nil {
		return fmt.Errorf("write samples header: %w", err)
	}
	for _, s := range samples {
		rec := []string{
			s.TranscriptID,
			formatTPM(s.TPM),
			s.Sample,
			s.Genotype,
			s.Timepoint,
			strconv.Itoa(s.Replicate),
		}
		if err := cw.Write(rec); err != nil {
			return fmt.Errorf("write sample row: %w", err)
		}
	}

	cw.Flush()
	return cw.Error()
}

// WriteMeansCSV writes the per-condition mean table to w.
func WriteMeansCSV(w io.Writer, means []Mean) error {
	cw := csv.NewWriter(w)

	if err := cw.Write(MeanColumns); err != nil {
		return fmt.Errorf("write means header: %w", err)
	}
	for _, m := range means {
		rec := []string{
			m.TranscriptID,
			m.Genotype,
			m.Timepoint,
			formatTPM(m.MeanTPM),
		}
		if err := cw.Write(rec); err != nil {
			return fmt.Errorf("write mean row: %w", err)
		}
	}

	cw.Flush()
	return cw.Error()
}

// ReadMeansCSV loads a mean-expression file written by WriteMeansCSV.
func ReadMeansCSV(path string) ([]Mean, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open mean-expression file: %w", err)
	}
	defer f.Close()

	return parseMeansCSV(f)
}

func parseMeansCSV(r io.Reader) ([]Mean, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = len(MeanColumns)

	header, err := cr.Read()
	if err != nil {
		return nil, fmt.Errorf("read means header: %w", err)
	}
	for i, want := range MeanColumns {
		if header[i] != want {
			return nil, fmt.Errorf("means header: expected column %q at position %d, got %q", want, i, header[i])
		}
	}

	var means []Mean
	lineNum := 1
	for {
		rec, err := cr.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("read means row: %w", err)
		}
		lineNum++

		tpm, err := strconv.ParseFloat(rec[3], 64)
		if err != nil {
			return nil, fmt.Errorf("means line %d: invalid mean_TPM %q", lineNum, rec[3])
		}

		means = append(means, Mean{
			TranscriptID: rec[0],
			Genotype:     rec[1],
			Timepoint:    rec[2],
			MeanTPM:      tpm,
		})
	}

	return means, nil
}

// formatTPM renders a TPM value without trailing zero noise.
func formatTPM(v float64) string {
	return strconv.FormatFloat(v, 'g', -1, 64)
}
