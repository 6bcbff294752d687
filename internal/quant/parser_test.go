package quant

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParser_SalmonLayout(t *testing.T) {
	content := "Name\tLength\tEffectiveLength\tTPM\tNumReads\n" +
		"AT1G01010.1\t1688\t1450.0\t12.5\t100\n" +
		"AT1G01010.2\t1500\t1262.0\t0\t0\n"

	p, err := NewParserFromReader(strings.NewReader(content))
	require.NoError(t, err)

	r, err := p.Next()
	require.NoError(t, err)
	require.NotNil(t, r)
	assert.Equal(t, "AT1G01010.1", r.Name)
	assert.Equal(t, 12.5, r.TPM)

	r, err = p.Next()
	require.NoError(t, err)
	require.NotNil(t, r)
	assert.Equal(t, 0.0, r.TPM)

	r, err = p.Next()
	require.NoError(t, err)
	assert.Nil(t, r)
}

func TestParser_ColumnOrderIndependent(t *testing.T) {
	content := "TPM\tName\n3.5\tT1\n"

	p, err := NewParserFromReader(strings.NewReader(content))
	require.NoError(t, err)

	r, err := p.Next()
	require.NoError(t, err)
	require.NotNil(t, r)
	assert.Equal(t, "T1", r.Name)
	assert.Equal(t, 3.5, r.TPM)
}

func TestParser_MissingRequiredColumn(t *testing.T) {
	tests := []struct {
		name   string
		header string
		want   string
	}{
		{"no Name", "Length\tTPM\n", "'Name' not found"},
		{"no TPM", "Name\tLength\n", "'TPM' not found"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := NewParserFromReader(strings.NewReader(tt.header))
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.want)
		})
	}
}

func TestParser_InvalidTPM(t *testing.T) {
	content := "Name\tTPM\nT1\tnot-a-number\n"

	p, err := NewParserFromReader(strings.NewReader(content))
	require.NoError(t, err)

	_, err = p.Next()
	require.Error(t, err)

	var perr *ParseError
	require.ErrorAs(t, err, &perr)
	assert.Equal(t, 2, perr.Line)
}

func TestParser_NoTrailingNewline(t *testing.T) {
	// The last row must not be lost when the file does not end in '\n'.
	content := "Name\tTPM\nT1\t1.0\nT2\t2.0"

	p, err := NewParserFromReader(strings.NewReader(content))
	require.NoError(t, err)

	var names []string
	for {
		r, err := p.Next()
		require.NoError(t, err)
		if r == nil {
			break
		}
		names = append(names, r.Name)
	}

	assert.Equal(t, []string{"T1", "T2"}, names)
}

func TestParser_HeaderWithoutNewline(t *testing.T) {
	p, err := NewParserFromReader(strings.NewReader("Name\tTPM"))
	require.NoError(t, err)

	r, err := p.Next()
	require.NoError(t, err)
	assert.Nil(t, r)
}

func TestParser_SkipsEmptyLines(t *testing.T) {
	content := "Name\tTPM\n\nT1\t1.0\n"

	p, err := NewParserFromReader(strings.NewReader(content))
	require.NoError(t, err)

	r, err := p.Next()
	require.NoError(t, err)
	require.NotNil(t, r)
	assert.Equal(t, "T1", r.Name)
}

func TestParser_EmptyFile(t *testing.T) {
	_, err := NewParserFromReader(strings.NewReader(""))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "no header line")
}
