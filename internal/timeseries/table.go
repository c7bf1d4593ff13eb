package timeseries

import "time"

// Column names used by query results and their normalized form.
const (
	ColumnResult    = "result"
	ColumnTable     = "table"
	ColumnTime      = "_time"
	ColumnUnixEpoch = "unix_epoch_s"
)

// Table is a tabular query result. Every row has one cell per column.
type Table struct {
	Columns []string
	Rows    [][]any
}

// ColumnIndex returns the position of the named column, or -1.
func (t Table) ColumnIndex(name string) int {
	for i, c := range t.Columns {
		if c == name {
			return i
		}
	}
	return -1
}

// NormalizeQueryResult drops store bookkeeping columns and rewrites the time
// column as unix seconds.
//
// The result and table columns are removed when present. If a _time column
// exists, it is replaced by an int64 unix_epoch_s column moved to the front.
// Cells that hold neither a time.Time nor an RFC3339 string become nil.
// The input table is not modified.
func NormalizeQueryResult(t Table) Table {
	timeIdx := t.ColumnIndex(ColumnTime)

	keep := make([]int, 0, len(t.Columns))
	for i, name := range t.Columns {
		if name == ColumnResult || name == ColumnTable || name == ColumnTime {
			continue
		}
		keep = append(keep, i)
	}

	out := Table{
		Columns: make([]string, 0, len(keep)+1),
		Rows:    make([][]any, 0, len(t.Rows)),
	}
	if timeIdx >= 0 {
		out.Columns = append(out.Columns, ColumnUnixEpoch)
	}
	for _, i := range keep {
		out.Columns = append(out.Columns, t.Columns[i])
	}

	for _, row := range t.Rows {
		newRow := make([]any, 0, len(out.Columns))
		if timeIdx >= 0 {
			newRow = append(newRow, unixSeconds(cell(row, timeIdx)))
		}
		for _, i := range keep {
			newRow = append(newRow, cell(row, i))
		}
		out.Rows = append(out.Rows, newRow)
	}
	return out
}

// cell returns row[i], or nil for short rows.
func cell(row []any, i int) any {
	if i < len(row) {
		return row[i]
	}
	return nil
}

func unixSeconds(v any) any {
	switch t := v.(type) {
	case time.Time:
		return t.Unix()
	case *time.Time:
		if t == nil {
			return nil
		}
		return t.Unix()
	case string:
		parsed, err := time.Parse(time.RFC3339Nano, t)
		if err != nil {
			return nil
		}
		return parsed.Unix()
	default:
		return nil
	}
}
