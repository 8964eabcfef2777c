package sheet

// Row is one spreadsheet line: an ordered mapping from column name to cell
// text. Column names are kept exactly as the header spells them, trailing
// whitespace included.
type Row struct {
	// Line is the 1-based line (or worksheet row) the values came from.
	Line int

	values map[string]string
}

// NewRow pairs header names with cells. Cells missing at the end of a short
// record read as empty; surplus cells are dropped.
func NewRow(line int, header, cells []string) Row {
	values := make(map[string]string, len(header))

	for i, name := range header {
		if i < len(cells) {
			values[name] = cells[i]
		} else {
			values[name] = ""
		}
	}

	return Row{Line: line, values: values}
}

// Get returns the cell for column, or "" when the column does not exist.
func (r Row) Get(column string) string {
	return r.values[column]
}
