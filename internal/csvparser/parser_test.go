package csvparser

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/ginjaninja78/crimechart/internal/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func defaultSettings() config.InputSettings {
	return config.Default().Input
}

func TestParse(t *testing.T) {
	input := "year,level_1,level_2,value\n" +
		"2011,Total,Theft,5\n" +
		"\n" +
		"2011,Total,\"Assault, serious\",2\n" +
		"2012,Total,Theft\n"

	table, err := Parse(strings.NewReader(input), defaultSettings())
	require.NoError(t, err)

	assert.Equal(t, []string{"year", "level_1", "level_2", "value"}, table.Headers)
	require.Equal(t, 3, table.Len())
	assert.Equal(t, "Theft", table.Rows[0]["level_2"])
	assert.Equal(t, "Assault, serious", table.Rows[1]["level_2"])
	assert.Equal(t, "", table.Rows[2]["value"])
	assert.Equal(t, []int{2, 3, 4}, table.Lines)
}

func TestParseHeaderOnly(t *testing.T) {
	table, err := Parse(strings.NewReader("year,level_2,value\n"), defaultSettings())
	require.NoError(t, err)
	assert.Equal(t, 0, table.Len())
	assert.NotNil(t, table.Rows)
}

func TestParseEmpty(t *testing.T) {
	_, err := Parse(strings.NewReader(""), defaultSettings())
	assert.Error(t, err)
}

func TestParseMultiLineHeaders(t *testing.T) {
	settings := defaultSettings()
	settings.HeaderRows = 2
	settings.DataStartRow = 3

	input := "Crime,,\nYear,Type,\n2011,Theft,5\n"
	table, err := Parse(strings.NewReader(input), settings)
	require.NoError(t, err)

	assert.Equal(t, []string{"Crime Year", "Type", "Column_3"}, table.Headers)
	require.Equal(t, 1, table.Len())
	assert.Equal(t, "5", table.Rows[0]["Column_3"])
}

func TestParseDelimiters(t *testing.T) {
	tests := []struct {
		name      string
		delimiter string
		input     string
	}{
		{name: "pipe", delimiter: "pipe", input: "year|level_2|value\n2011|Theft|5\n"},
		{name: "tab", delimiter: "tab", input: "year\tlevel_2\tvalue\n2011\tTheft\t5\n"},
		{name: "semicolon", delimiter: ";", input: "year;level_2;value\n2011;Theft;5\n"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			settings := defaultSettings()
			settings.Delimiter = tt.delimiter
			table, err := Parse(strings.NewReader(tt.input), settings)
			require.NoError(t, err)
			require.Equal(t, 1, table.Len())
			assert.Equal(t, "Theft", table.Rows[0]["level_2"])
		})
	}
}

func TestParseStripsByteOrderMark(t *testing.T) {
	table, err := Parse(strings.NewReader("\ufeffyear,level_2,value\n2011,Theft,5\n"), defaultSettings())
	require.NoError(t, err)
	assert.Equal(t, "year", table.Headers[0])
	assert.Equal(t, "2011", table.Rows[0]["year"])
}

func TestParseFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "data.csv")
	require.NoError(t, os.WriteFile(path, []byte("year,level_2,value\n2011,Theft,5\n"), 0o644))

	table, err := ParseFile(path, defaultSettings())
	require.NoError(t, err)
	assert.Equal(t, path, table.SourceFile)
	assert.Equal(t, 1, table.Len())

	_, err = ParseFile(filepath.Join(t.TempDir(), "missing.csv"), defaultSettings())
	assert.Error(t, err)
}
