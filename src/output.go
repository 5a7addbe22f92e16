package main

import (
	"bufio"
	"io"
	"strings"
)

// cellSeparator joins the cells of a row. The space after the comma is
// part of the file format, so downstream consumers split on ", ".
const cellSeparator = ", "

// joinRow flattens one projected row into its output line.
func joinRow(cells []string) string {
	return strings.Join(cells, cellSeparator)
}

// rowWriter buffers CSV lines on their way to the output file and keeps
// count of the data rows written.
type rowWriter struct {
	w    *bufio.Writer
	rows int
}

func newRowWriter(w io.Writer) *rowWriter {
	return &rowWriter{w: bufio.NewWriter(w)}
}

// WriteHeader writes the column-name row. It is not counted in Rows.
func (rw *rowWriter) WriteHeader(cells []string) error {
	if _, err := rw.w.WriteString(joinRow(cells)); err != nil {
		return err
	}
	return rw.w.WriteByte('\n')
}

// WriteLine appends one data row line to the output.
func (rw *rowWriter) WriteLine(line string) error {
	if _, err := rw.w.WriteString(line); err != nil {
		return err
	}
	if err := rw.w.WriteByte('\n'); err != nil {
		return err
	}
	rw.rows++
	return nil
}

// Flush pushes everything buffered so far to the underlying writer.
func (rw *rowWriter) Flush() error {
	return rw.w.Flush()
}

// Rows returns the number of data rows written, header excluded.
func (rw *rowWriter) Rows() int {
	return rw.rows
}
