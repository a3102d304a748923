package output

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type goalRows [][]string

func (g goalRows) Headers() []string { return []string{"ID", "NAME"} }
func (g goalRows) Rows() [][]string  { return g }

func TestParseFormat(t *testing.T) {
	for input, want := range map[string]Format{"": FormatTable, "JSON": FormatJSON, "yml": FormatYAML} {
		got, err := ParseFormat(input)
		require.NoError(t, err)
		assert.Equal(t, want, got)
	}
	_, err := ParseFormat("xml")
	assert.Error(t, err)
}

func TestPrinterFormats(t *testing.T) {
	rows := goalRows{{"g-1", "Ship v2"}}

	var table bytes.Buffer
	require.NoError(t, NewPrinter(&table, FormatTable, false).Print(rows, false, "none"))
	assert.Contains(t, table.String(), "Ship v2")
	assert.Contains(t, table.String(), "NAME")

	var empty bytes.Buffer
	require.NoError(t, NewPrinter(&empty, FormatTable, false).Print(goalRows{}, true, "No goals found."))
	assert.Equal(t, "No goals found.\n", empty.String())

	var js bytes.Buffer
	require.NoError(t, NewPrinter(&js, FormatJSON, false).Print(map[string]int{"goals": 2}, false, ""))
	assert.JSONEq(t, `{"goals":2}`, js.String())

	var yml bytes.Buffer
	require.NoError(t, NewPrinter(&yml, FormatYAML, false).Print(map[string]int{"goals": 2}, false, ""))
	assert.Equal(t, "goals: 2\n", yml.String())
}

func TestStatusLinesOnlyInTableFormat(t *testing.T) {
	var js bytes.Buffer
	NewPrinter(&js, FormatJSON, true).Success("done")
	assert.Empty(t, js.String())

	var plain bytes.Buffer
	NewPrinter(&plain, FormatTable, false).Success("done")
	assert.Equal(t, "done\n", plain.String())
}
