// Package extract implements the field-path extraction and row
// serialization engine: resolving dotted field paths against decoded JSON
// records, formatting the results as CSV cells, and deriving local-time
// calendar columns from the tweet creation timestamp.
package extract

import (
	"fmt"
	"strconv"
	"strings"
)

// PathDelimiter separates the segments of a field spec, e.g. "geo,coordinates,0".
const PathDelimiter = ","

// headerSeparator stands in for the delimiter in header cells, since a
// comma inside a column name would break the header row.
const headerSeparator = "-"

// segment is one step of a field path: a map key, and additionally an
// array index when the text parses as a non-negative integer. The raw text
// is always kept so that numeric-looking object keys still resolve.
type segment struct {
	key     string
	index   int
	isIndex bool
}

// FieldPath locates one value inside a nested record. It is parsed once at
// startup and shared read-only across every record of the run.
type FieldPath struct {
	spec     string
	segments []segment
}

// ParseFieldPath validates a comma-delimited field spec and returns the
// parsed path. An empty spec, an empty segment, or a negative numeric
// segment is a configuration error, rejected here once rather than on
// every record.
func ParseFieldPath(spec string) (FieldPath, error) {
	if spec == "" {
		return FieldPath{}, fmt.Errorf("field spec is empty")
	}
	parts := strings.Split(spec, PathDelimiter)
	segments := make([]segment, 0, len(parts))
	for _, part := range parts {
		if part == "" {
			return FieldPath{}, fmt.Errorf("field spec %q has an empty segment", spec)
		}
		seg := segment{key: part}
		if n, err := strconv.Atoi(part); err == nil {
			if n < 0 {
				return FieldPath{}, fmt.Errorf("field spec %q has a negative index %d", spec, n)
			}
			seg.index = n
			seg.isIndex = true
		}
		segments = append(segments, seg)
	}
	return FieldPath{spec: spec, segments: segments}, nil
}

// ParseFieldPaths parses every spec in order, stopping at the first bad one.
func ParseFieldPaths(specs []string) ([]FieldPath, error) {
	paths := make([]FieldPath, 0, len(specs))
	for _, spec := range specs {
		path, err := ParseFieldPath(spec)
		if err != nil {
			return nil, err
		}
		paths = append(paths, path)
	}
	return paths, nil
}

// Header returns the display form of the path used in the CSV header row.
func (p FieldPath) Header() string {
	return strings.ReplaceAll(p.spec, PathDelimiter, headerSeparator)
}

// String returns the spec text the path was parsed from.
func (p FieldPath) String() string {
	return p.spec
}
