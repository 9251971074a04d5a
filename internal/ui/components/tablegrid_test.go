package components

import (
	"strings"
	"testing"

	"github.com/charmbracelet/lipgloss"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTableGridFillsWidth(t *testing.T) {
	cols := []TableColumn{
		{Header: "Title", Width: 20},
		{Header: "Score", Width: 6, Align: lipgloss.Right},
		{Header: "Status", Width: 12},
	}
	rows := [][]string{
		{"a very long document title that will not fit", "0.93", "imported"},
		{"short", "0.10", "not imported"},
	}
	out := TableGrid(cols, rows, 60, 1)
	lines := strings.Split(out, "\n")
	require.Len(t, lines, 4)
	for _, line := range lines {
		assert.Equal(t, 60, lipgloss.Width(line))
	}
	clean := SanitizeText(out)
	assert.Contains(t, clean, "Title")
	assert.Contains(t, clean, "not imported")
}

func TestTableGridDegenerateInputs(t *testing.T) {
	assert.Empty(t, TableGrid([]TableColumn{{Header: "x"}}, nil, 0, -1))
	assert.Equal(t, 10, lipgloss.Width(TableGrid(nil, nil, 10, -1)))
}

func TestRenderGridCellAlignment(t *testing.T) {
	assert.Equal(t, "  ab", renderGridCell("ab", 4, lipgloss.Right))
	assert.Equal(t, " ab ", renderGridCell("ab", 4, lipgloss.Center))
	assert.Equal(t, "ab  ", renderGridCell("ab", 4, lipgloss.Left))
	assert.Equal(t, "abcd", renderGridCell("abcdef", 4, lipgloss.Left))
}
