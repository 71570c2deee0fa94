package domain

// Frame is a raw table of string cells addressed by column name, as read from the source.
type Frame struct {
	columns []string
	index   map[string]int
	records [][]string
}

// NewFrame builds a frame from a header and its records. Records shorter than the
// header read as empty cells for the missing columns.
func NewFrame(columns []string, records [][]string) *Frame {
	index := make(map[string]int, len(columns))
	for i, c := range columns {
		if _, dup := index[c]; !dup {
			index[c] = i
		}
	}
	return &Frame{columns: columns, index: index, records: records}
}

// Columns returns the header in source order.
func (f *Frame) Columns() []string {
	out := make([]string, len(f.columns))
	copy(out, f.columns)
	return out
}

// HasColumn reports whether the header contains name.
func (f *Frame) HasColumn(name string) bool {
	_, ok := f.index[name]
	return ok
}

// Len returns the number of data rows.
func (f *Frame) Len() int {
	return len(f.records)
}

// Cell returns the value of column name in row i, or "" if the column or cell is absent.
func (f *Frame) Cell(i int, name string) string {
	col, ok := f.index[name]
	if !ok {
		return ""
	}
	rec := f.records[i]
	if col >= len(rec) {
		return ""
	}
	return rec[col]
}
