package tweets

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
)

// Field names with special meaning in the tweet JSON layout.
const (
	// CreatedAtField holds the tweet timestamp, e.g.
	// "Wed Oct 02 08:00:00 +0000 2002".
	CreatedAtField = "created_at"
	// IDStrField is the string form of the tweet id. Preferred for
	// identity because it survives decoding untouched.
	IDStrField = "id_str"
	// IDField is the numeric tweet id, kept as json.Number so the
	// 64-bit values are not rounded.
	IDField = "id"
)

// Record is one decoded tweet object. Nested objects decode to
// map[string]any, arrays to []any, and numbers to json.Number.
type Record map[string]any

// DefaultFieldSpecs returns the column set used when the caller does not
// ask for specific fields: identity, author, location, time and text.
// The returned slice is fresh on every call so callers may append to it.
func DefaultFieldSpecs() []string {
	return []string{
		"id",
		"user,id",
		"user,screen_name",
		"geo,coordinates,0",
		"geo,coordinates,1",
		"place,full_name",
		"created_at",
		"text",
	}
}

// ParseRecord decodes a single line of tweet JSON into a Record.
// Numbers are kept as json.Number because tweet ids exceed the range
// float64 can represent exactly. A line that is not a single JSON
// object is an error; callers decide whether to skip or abort.
func ParseRecord(line []byte) (Record, error) {
	dec := json.NewDecoder(bytes.NewReader(line))
	dec.UseNumber()

	var rec Record
	if err := dec.Decode(&rec); err != nil {
		return nil, fmt.Errorf("failed to decode tweet JSON: %w", err)
	}
	if rec == nil {
		return nil, errors.New("tweet line is not a JSON object")
	}
	// A tweet line must hold exactly one object.
	if _, err := dec.Token(); !errors.Is(err, io.EOF) {
		return nil, errors.New("trailing data after tweet JSON object")
	}
	return rec, nil
}

// DedupeKey returns the identity string used for duplicate suppression.
// It prefers id_str and falls back to the numeric id. The second return
// is false when the record carries neither, in which case the record
// cannot be deduplicated and should pass through.
func (r Record) DedupeKey() (string, bool) {
	if v, ok := r[IDStrField].(string); ok && v != "" {
		return v, true
	}
	if v, ok := r[IDField].(json.Number); ok {
		return v.String(), true
	}
	return "", false
}
