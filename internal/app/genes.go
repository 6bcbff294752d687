package app

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
)

// Gene is one row of the gene annotation file.
type Gene struct {
	AGI  string // Gene identifier
	Name string // Free-text name / description
}

// ReadGenesCSV loads the semicolon-delimited gene annotation file.
// Required columns: AGI, Name. Extra columns are ignored; file order is
// preserved so the gene dropdown matches the source.
func ReadGenesCSV(path string) ([]Gene, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open gene annotation file: %w", err)
	}
	defer f.Close()

	return parseGenesCSV(f)
}

func parseGenesCSV(r io.Reader) ([]Gene, error) {
	cr := csv.NewReader(r)
	cr.Comma = ';'
	cr.FieldsPerRecord = -1

	header, err := cr.Read()
	if err != nil {
		return nil, fmt.Errorf("read gene annotation header: %w", err)
	}

	agiCol, nameCol := -1, -1
	for i, col := range header {
		switch col {
		case "AGI":
			agiCol = i
		case "Name":
			nameCol = i
		}
	}
	if agiCol == -1 {
		return nil, fmt.Errorf("gene annotation header: required column 'AGI' not found")
	}
	if nameCol == -1 {
		return nil, fmt.Errorf("gene annotation header: required column 'Name' not found")
	}

	var genes []Gene
	for {
		rec, err := cr.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("read gene annotation row: %w", err)
		}
		if agiCol >= len(rec) || nameCol >= len(rec) {
			continue
		}
		genes = append(genes, Gene{AGI: rec[agiCol], Name: rec[nameCol]})
	}

	return genes, nil
}
