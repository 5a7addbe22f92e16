// Package input opens tweet files for line-oriented reading. Compressed
// inputs are decoded transparently based on the file extension; anything
// unrecognized is read as plain text.
package input

import (
	"bufio"
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/klauspost/compress/gzip"
	"github.com/klauspost/compress/zstd"
	"github.com/pierrec/lz4/v4"
)

// MaxLineBytes caps how long a single tweet line may grow. Tweets with
// long entity lists run to tens of kilobytes; 4 MiB leaves generous
// headroom without letting a corrupt file exhaust memory.
const MaxLineBytes = 4 * 1024 * 1024

// initialBufBytes is the reader's starting buffer size. Most tweet
// lines fit well within it, so the buffer rarely regrows.
const initialBufBytes = 64 * 1024

// ErrLineTooLong reports a line longer than MaxLineBytes. The line has
// been consumed when it is returned, so the caller can skip it and read
// on.
var ErrLineTooLong = errors.New("line exceeds the maximum line length")

// decodedFile pairs a decompressing reader with the file underneath it
// so one Close releases both.
type decodedFile struct {
	io.Reader
	codec io.Closer // nil when the codec holds nothing to release
	file  *os.File
}

func (d *decodedFile) Close() error {
	if d.codec != nil {
		if err := d.codec.Close(); err != nil {
			d.file.Close()
			return err
		}
	}
	return d.file.Close()
}

// Open opens path for reading, wrapping it in the decompressor its
// extension calls for: .gz, .zst/.zstd or .lz4. Any other extension is
// returned as-is.
func Open(path string) (io.ReadCloser, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open input: %w", err)
	}

	switch strings.ToLower(filepath.Ext(path)) {
	case ".gz":
		gz, err := gzip.NewReader(f)
		if err != nil {
			f.Close()
			return nil, fmt.Errorf("failed to open gzip stream in %s: %w", path, err)
		}
		return &decodedFile{Reader: gz, codec: gz, file: f}, nil
	case ".zst", ".zstd":
		zr, err := zstd.NewReader(f)
		if err != nil {
			f.Close()
			return nil, fmt.Errorf("failed to open zstd stream in %s: %w", path, err)
		}
		rc := zr.IOReadCloser()
		return &decodedFile{Reader: rc, codec: rc, file: f}, nil
	case ".lz4":
		// lz4 readers hold no resources of their own.
		return &decodedFile{Reader: lz4.NewReader(f), file: f}, nil
	default:
		return f, nil
	}
}

// LineReader steps through newline-delimited input. The default bufio
// token limit of 64K is too small for the occasional oversized tweet,
// so lines up to MaxLineBytes come back whole; a line beyond even that
// is consumed and reported as ErrLineTooLong, leaving the reader
// positioned on the next line.
type LineReader struct {
	br  *bufio.Reader
	buf []byte
}

// NewLineReader returns a line reader sized for tweet JSON.
func NewLineReader(r io.Reader) *LineReader {
	return &LineReader{
		br:  bufio.NewReaderSize(r, initialBufBytes),
		buf: make([]byte, 0, initialBufBytes),
	}
}

// ReadLine returns the next line without its line ending. The slice is
// reused and only valid until the next call. io.EOF marks a clean end
// of input; ErrLineTooLong marks an oversized line that has already
// been skipped past.
func (lr *LineReader) ReadLine() ([]byte, error) {
	lr.buf = lr.buf[:0]
	for {
		chunk, err := lr.br.ReadSlice('\n')
		lr.buf = append(lr.buf, chunk...)

		if err == bufio.ErrBufferFull {
			if len(lr.buf) > MaxLineBytes {
				if derr := lr.discardLine(); derr != nil {
					return nil, derr
				}
				return nil, ErrLineTooLong
			}
			continue
		}
		if err != nil && err != io.EOF {
			return nil, err
		}

		line := trimLineEnding(lr.buf)
		if len(line) == 0 && err == io.EOF {
			return nil, io.EOF
		}
		if len(line) > MaxLineBytes {
			return nil, ErrLineTooLong
		}
		return line, nil
	}
}

// discardLine consumes input up to and including the next newline, or
// to the end of the stream.
func (lr *LineReader) discardLine() error {
	for {
		_, err := lr.br.ReadSlice('\n')
		switch err {
		case nil, io.EOF:
			return nil
		case bufio.ErrBufferFull:
			continue
		default:
			return err
		}
	}
}

func trimLineEnding(line []byte) []byte {
	line = bytes.TrimSuffix(line, []byte("\n"))
	return bytes.TrimSuffix(line, []byte("\r"))
}
