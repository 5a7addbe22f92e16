package extract

import (
	"fmt"
	"reflect"
)

// Result is the outcome of resolving one field path against one record:
// either a value was found (possibly JSON null) or some segment of the
// path was absent. Absent is ordinary data sparsity, not an error; most
// tweets carry no geo coordinates, for example.
type Result struct {
	Value any
	OK    bool
}

// Found wraps a resolved value, which may be nil for an explicit JSON null.
func Found(v any) Result {
	return Result{Value: v, OK: true}
}

// Absent is the result for a path that did not resolve in this record.
var Absent = Result{}

// PathTypeError reports a path segment applied to a value of the wrong
// kind, e.g. a non-numeric segment against an array, or any segment
// against a scalar. It is fatal for the field only, never for the record:
// the caller writes an empty cell and the other fields are unaffected.
type PathTypeError struct {
	Path    string
	Segment string
	Value   any
}

func (e *PathTypeError) Error() string {
	return fmt.Sprintf("field %q: segment %q cannot index a value of type %T", e.Path, e.Segment, e.Value)
}

var (
	objectType = reflect.TypeOf(map[string]any(nil))
	arrayType  = reflect.TypeOf([]any(nil))
)

// underlying strips defined map and slice types down to the plain shapes
// the JSON decoder produces. Callers hand records over under their own
// named types, and a type switch matches dynamic types exactly, so the
// name has to come off before the walk can see the container.
func underlying(v any) any {
	switch v.(type) {
	case nil, map[string]any, []any:
		return v
	}
	rv := reflect.ValueOf(v)
	switch {
	case rv.Kind() == reflect.Map && rv.Type().ConvertibleTo(objectType):
		return rv.Convert(objectType).Interface()
	case rv.Kind() == reflect.Slice && rv.Type().ConvertibleTo(arrayType):
		return rv.Convert(arrayType).Interface()
	}
	return v
}

// Resolve walks path through record one segment at a time. A nil value, a
// missing object key, or an out-of-range array index anywhere along the
// walk resolves Absent. The container's kind is inspected before indexing;
// only a true container/segment mismatch returns a PathTypeError, and even
// then the Result is Absent so the caller can use it directly. Containers
// are recognized by underlying shape, so a record under a defined map type
// resolves the same as a plain map[string]any.
func Resolve(record any, path FieldPath) (Result, error) {
	value := record
	for _, seg := range path.segments {
		value = underlying(value)
		if value == nil {
			return Absent, nil
		}
		switch container := value.(type) {
		case map[string]any:
			next, ok := container[seg.key]
			if !ok {
				return Absent, nil
			}
			value = next
		case []any:
			if !seg.isIndex {
				return Absent, &PathTypeError{Path: path.spec, Segment: seg.key, Value: value}
			}
			if seg.index >= len(container) {
				return Absent, nil
			}
			value = container[seg.index]
		default:
			return Absent, &PathTypeError{Path: path.spec, Segment: seg.key, Value: value}
		}
	}
	return Found(value), nil
}
