package ui

import (
	"strings"
)

// Table accumulates rows of labeled fields and renders them with aligned
// columns. Columns appear in the order their labels are first seen, so
// every row contributes to the final column set even when rows carry
// different fields (a reachable device has more to say than a dead one).
type Table struct {
	order  []string
	widths map[string]int
	rows   []map[string]string
}

// NewTable returns an empty table.
func NewTable() *Table {
	return &Table{widths: make(map[string]int)}
}

// AddRow appends one row of (label, value) pairs. Pair order matters for
// labels not seen before.
func (t *Table) AddRow(pairs [][2]string) {
	row := make(map[string]string, len(pairs))
	for _, pair := range pairs {
		label, value := pair[0], pair[1]
		if _, seen := t.widths[label]; !seen {
			t.order = append(t.order, label)
			t.widths[label] = len(label)
		}
		if len(value) > t.widths[label] {
			t.widths[label] = len(value)
		}
		row[label] = value
	}
	t.rows = append(t.rows, row)
}

// Empty reports whether the table has no rows.
func (t *Table) Empty() bool {
	return len(t.rows) == 0
}

// Render returns the table as aligned text: a styled header row, a
// separator rule, and one line per row.
func (t *Table) Render() string {
	if t.Empty() {
		return ""
	}

	var lines []string

	headers := make([]string, len(t.order))
	for i, label := range t.order {
		headers[i] = HeaderStyle.Render(pad(label, t.widths[label]))
	}
	lines = append(lines, " "+strings.Join(headers, " | ")+" ")

	rules := make([]string, len(t.order))
	for i, label := range t.order {
		rules[i] = strings.Repeat("-", t.widths[label])
	}
	lines = append(lines, SeparatorStyle.Render("-"+strings.Join(rules, "-+-")+"-"))

	for _, row := range t.rows {
		cells := make([]string, len(t.order))
		for i, label := range t.order {
			cells[i] = pad(row[label], t.widths[label])
		}
		lines = append(lines, " "+strings.Join(cells, " | ")+" ")
	}

	return strings.Join(lines, "\n")
}

func pad(value string, width int) string {
	if len(value) >= width {
		return value
	}
	return value + strings.Repeat(" ", width-len(value))
}
