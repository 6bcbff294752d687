// Package quant provides Salmon quant.sf file parsing functionality.
package quant

import (
	"bufio"
	"compress/gzip"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
)

// Required quant.sf column names
const (
	ColName = "Name"
	ColTPM  = "TPM"
)

// Record is one transcript abundance row from a quant.sf file.
type Record struct {
	Name string  // Transcript ID
	TPM  float64 // Transcripts per million
}

// Parser reads transcript abundances from a quant.sf file.
type Parser struct {
	reader     *bufio.Reader
	file       *os.File
	gzipReader *gzip.Reader
	lineNumber int
	nameCol    int
	tpmCol     int
}

// NewParser creates a new parser for the given quant.sf file.
// Supports both plain and gzipped (.sf.gz) files.
func NewParser(path string) (*Parser, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open quant file: %w", err)
	}

	p := &Parser{file: file}

	// Check for gzip magic bytes
	buf := make([]byte, 2)
	_, err = file.Read(buf)
	if err != nil {
		file.Close()
		return nil, fmt.Errorf("read quant header: %w", err)
	}
	if _, err := file.Seek(0, 0); err != nil {
		file.Close()
		return nil, fmt.Errorf("seek quant file: %w", err)
	}

	if buf[0] == 0x1f && buf[1] == 0x8b {
		p.gzipReader, err = gzip.NewReader(file)
		if err != nil {
			file.Close()
			return nil, fmt.Errorf("create gzip reader: %w", err)
		}
		p.reader = bufio.NewReader(p.gzipReader)
	} else {
		p.reader = bufio.NewReader(file)
	}

	if err := p.parseHeader(); err != nil {
		p.Close()
		return nil, err
	}

	return p, nil
}

// NewParserFromReader creates a parser from an io.Reader.
func NewParserFromReader(r io.Reader) (*Parser, error) {
	p := &Parser{
		reader: bufio.NewReader(r),
	}

	if err := p.parseHeader(); err != nil {
		return nil, err
	}

	return p, nil
}

// parseHeader locates the Name and TPM columns in the header line.
func (p *Parser) parseHeader() error {
	line, err := p.reader.ReadString('\n')
	if err != nil && err != io.EOF {
		return fmt.Errorf("read header: %w", err)
	}
	line = strings.TrimRight(line, "\r\n")
	if line == "" {
		return &ParseError{Line: p.lineNumber, Message: "no header line found"}
	}
	p.lineNumber++
	columns := strings.Split(line, "\t")

	p.nameCol = -1
	p.tpmCol = -1
	for i, col := range columns {
		switch col {
		case ColName:
			p.nameCol = i
		case ColTPM:
			p.tpmCol = i
		}
	}

	if p.nameCol == -1 {
		return &ParseError{
			Line:    p.lineNumber,
			Message: "required column 'Name' not found in header",
		}
	}
	if p.tpmCol == -1 {
		return &ParseError{
			Line:    p.lineNumber,
			Message: "required column 'TPM' not found in header",
		}
	}

	return nil
}

// Next reads the next record from the file.
// Returns nil, nil when there are no more records.
func (p *Parser) Next() (*Record, error) {
	for {
		line, err := p.reader.ReadString('\n')
		if err != nil && err != io.EOF {
			return nil, fmt.Errorf("read quant line: %w", err)
		}
		atEOF := err == io.EOF

		// A final row without a trailing newline arrives together with
		// EOF; it is still a record.
		line = strings.TrimRight(line, "\r\n")
		if line == "" {
			if atEOF {
				return nil, nil
			}
			p.lineNumber++
			continue // Skip empty lines
		}

		p.lineNumber++
		return p.parseLine(line)
	}
}

func (p *Parser) parseLine(line string) (*Record, error) {
	fields := strings.Split(line, "\t")

	minCols := p.nameCol
	if p.tpmCol > minCols {
		minCols = p.tpmCol
	}
	if len(fields) <= minCols {
		return nil, &ParseError{
			Line:    p.lineNumber,
			Message: fmt.Sprintf("expected at least %d columns, found %d", minCols+1, len(fields)),
		}
	}

	tpm, err := strconv.ParseFloat(fields[p.tpmCol], 64)
	if err != nil {
		return nil, &ParseError{
			Line:    p.lineNumber,
			Message: fmt.Sprintf("invalid TPM value: %s", fields[p.tpmCol]),
		}
	}

	return &Record{
		Name: fields[p.nameCol],
		TPM:  tpm,
	}, nil
}

// LineNumber returns the current line number being processed.
func (p *Parser) LineNumber() int {
	return p.lineNumber
}

// Close closes the parser and underlying file.
func (p *Parser) Close() error {
	if p.gzipReader != nil {
		p.gzipReader.Close()
	}
	if p.file != nil {
		return p.file.Close()
	}
	return nil
}

// ParseError represents an error during quant.sf parsing with line context.
type ParseError struct {
	Line    int
	Message string
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("quant parse error at line %d: %s", e.Line, e.Message)
}
