package extract

import (
	"strconv"
	"time"
)

// TimeColumnNames are the derived columns appended after the requested
// fields when time columns are enabled.
var TimeColumnNames = []string{"Year", "Month", "Day", "Hour", "Minute", "Seconds"}

// Projector turns decoded records into output rows for one fixed field
// configuration. It is built once at startup and shared read-only across
// the whole run; Project never mutates the record it is given.
type Projector struct {
	paths       []FieldPath
	createdPath FieldPath
	timeColumns bool
	loc         *time.Location
}

// NewProjector builds a projector over the given field paths. createdAt is
// the path of the canonical creation timestamp used for the derived time
// columns; it is fixed configuration, not a per-record choice.
func NewProjector(paths []FieldPath, createdAt FieldPath, timeColumns bool) *Projector {
	return &Projector{
		paths:       paths,
		createdPath: createdAt,
		timeColumns: timeColumns,
		loc:         time.Local,
	}
}

// SetLocation overrides the timezone the time columns are rendered in.
// The default is the process-local zone.
func (p *Projector) SetLocation(loc *time.Location) {
	p.loc = loc
}

// Width returns the number of cells in the header and in every data row.
func (p *Projector) Width() int {
	if p.timeColumns {
		return len(p.paths) + len(TimeColumnNames)
	}
	return len(p.paths)
}

// Header returns the column names: each field path with its delimiter
// shown as a dash, plus the time column names when enabled.
func (p *Projector) Header() []string {
	cells := make([]string, 0, p.Width())
	for _, path := range p.paths {
		cells = append(cells, path.Header())
	}
	if p.timeColumns {
		cells = append(cells, TimeColumnNames...)
	}
	return cells
}

// Project produces one output row: one formatted cell per configured field
// in order, plus the six time cells when enabled. Every row is exactly
// Width cells; sparsity and per-field type mismatches yield empty cells,
// never shorter rows or aborted records.
func (p *Projector) Project(record any) []string {
	row := make([]string, 0, p.Width())
	for _, path := range p.paths {
		result, _ := Resolve(record, path) // a type mismatch ranks as absent for this field
		row = append(row, FormatCell(result))
	}
	if p.timeColumns {
		row = append(row, p.timeCells(record)...)
	}
	return row
}

// timeCells derives Year through Seconds from the canonical created-at
// field. A record without a parseable timestamp gets six empty cells; the
// time columns are a convenience and never abort a row.
func (p *Projector) timeCells(record any) []string {
	result, err := Resolve(record, p.createdPath)
	if err != nil || !result.OK {
		return make([]string, len(TimeColumnNames))
	}
	raw, ok := result.Value.(string)
	if !ok {
		return make([]string, len(TimeColumnNames))
	}
	parts, err := DecomposeIn(raw, p.loc)
	if err != nil {
		return make([]string, len(TimeColumnNames))
	}
	return []string{
		strconv.Itoa(parts.Year),
		strconv.Itoa(parts.Month),
		strconv.Itoa(parts.Day),
		strconv.Itoa(parts.Hour),
		strconv.Itoa(parts.Minute),
		strconv.Itoa(parts.Second),
	}
}
