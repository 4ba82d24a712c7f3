package jsonl

import (
	"bufio"
	"bytes"
	"compress/gzip"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/tidwall/gjson"
	"github.com/ulikunitz/xz"
	"github.com/zeebo/blake3"
	"golang.org/x/text/encoding/unicode"
	"golang.org/x/text/transform"
)

// DefaultMaxLineBytes is the largest line accepted unless overridden.
const DefaultMaxLineBytes = 16 << 20

var (
	xzMagic   = []byte{0xFD, '7', 'z', 'X', 'Z', 0x00}
	gzipMagic = []byte{0x1F, 0x8B}
)

// Line is one non-blank line of input.
type Line struct {
	// Number is the 1-based line number in the decompressed input.
	Number int

	// Raw holds the line without its terminator.
	Raw []byte

	// Value is the decoded JSON value. Nil when Err is set.
	Value any

	// Err wraps ErrInvalidJSON when the line did not decode.
	Err error
}

// Locator returns the line's "id" value when one can be found, even in a
// line that failed to decode. It returns "" otherwise.
func (l Line) Locator() string {
	id := gjson.GetBytes(l.Raw, "id")
	if !id.Exists() {
		return ""
	}
	return id.String()
}

// Option configures a Reader.
type Option func(*Reader)

// WithMaxLineBytes sets the maximum line size. Values <= 0 are ignored.
func WithMaxLineBytes(n int) Option {
	return func(r *Reader) {
		if n > 0 {
			r.maxLineBytes = n
		}
	}
}

// Reader reads JSONL records.
type Reader struct {
	source  *bufio.Reader
	counter *countingReader
	hasher  *blake3.Hasher
	scanner *bufio.Scanner
	closers []io.Closer

	maxLineBytes int
	lineNo       int
	done         bool
	err          error
}

// Open opens the file at path for reading. The caller must Close it.
func Open(path string, opts ...Option) (*Reader, error) {
	f, err := os.Open(path) //nolint:gosec // path comes from the command line
	if err != nil {
		return nil, fmt.Errorf("failed to open %s: %w", path, err)
	}

	r, err := NewReader(f, opts...)
	if err != nil {
		_ = f.Close()
		return nil, fmt.Errorf("failed to read %s: %w", path, err)
	}
	r.closers = append(r.closers, f)
	return r, nil
}

// NewReader wraps an arbitrary stream. Compression is detected from the
// first bytes of src.
func NewReader(src io.Reader, opts ...Option) (*Reader, error) {
	r := &Reader{
		counter:      &countingReader{r: src},
		hasher:       blake3.New(),
		maxLineBytes: DefaultMaxLineBytes,
	}
	for _, opt := range opts {
		opt(r)
	}

	r.source = bufio.NewReader(io.TeeReader(r.counter, r.hasher))

	decompressed, err := r.decompress()
	if err != nil {
		return nil, err
	}

	text := transform.NewReader(decompressed, unicode.BOMOverride(unicode.UTF8.NewDecoder()))

	r.scanner = bufio.NewScanner(text)
	r.scanner.Buffer(make([]byte, 0, min(64*1024, r.maxLineBytes)), r.maxLineBytes)
	return r, nil
}

func (r *Reader) decompress() (io.Reader, error) {
	head, err := r.source.Peek(len(xzMagic))
	if err != nil && !errors.Is(err, io.EOF) {
		return nil, err
	}

	switch {
	case bytes.HasPrefix(head, xzMagic):
		zr, err := xz.NewReader(r.source)
		if err != nil {
			return nil, fmt.Errorf("failed to open xz stream: %w", err)
		}
		return zr, nil
	case bytes.HasPrefix(head, gzipMagic):
		zr, err := gzip.NewReader(r.source)
		if err != nil {
			return nil, fmt.Errorf("failed to open gzip stream: %w", err)
		}
		r.closers = append(r.closers, zr)
		return zr, nil
	default:
		return r.source, nil
	}
}

// Next returns the next non-blank line. It returns false at the end of
// input or on a read error; check Err afterwards.
func (r *Reader) Next() (Line, bool) {
	if r.done {
		return Line{}, false
	}

	for r.scanner.Scan() {
		r.lineNo++
		raw := bytes.TrimRight(r.scanner.Bytes(), "\r")
		if len(bytes.TrimSpace(raw)) == 0 {
			continue
		}

		line := Line{
			Number: r.lineNo,
			Raw:    bytes.Clone(raw),
		}
		line.Value, line.Err = decode(line.Raw)
		return line, true
	}

	r.finish()
	return Line{}, false
}

func (r *Reader) finish() {
	r.done = true
	if err := r.scanner.Err(); err != nil {
		if errors.Is(err, bufio.ErrTooLong) {
			r.err = fmt.Errorf("line %d: %w (max %d bytes)", r.lineNo+1, ErrLineTooLong, r.maxLineBytes)
		} else {
			r.err = err
		}
		return
	}
	// Compressed streams may end before the file does; hash the rest too.
	if _, err := io.Copy(io.Discard, r.source); err != nil {
		r.err = err
	}
}

// Err returns the error that stopped scanning, if any.
// Lines that merely failed to decode do not set it.
func (r *Reader) Err() error {
	return r.err
}

// Lines returns the number of lines scanned so far, blank ones included.
func (r *Reader) Lines() int {
	return r.lineNo
}

// Size returns the number of on-disk bytes consumed so far. After Next
// has returned false without error it is the full file size.
func (r *Reader) Size() int64 {
	return r.counter.n
}

// Digest returns the hex BLAKE3 digest of the on-disk bytes consumed so
// far. After Next has returned false without error it covers the whole file.
func (r *Reader) Digest() string {
	return hex.EncodeToString(r.hasher.Sum(nil))
}

// Close releases the decompressor and the underlying file, if any.
func (r *Reader) Close() error {
	var errs []error
	for i := len(r.closers) - 1; i >= 0; i-- {
		if err := r.closers[i].Close(); err != nil {
			errs = append(errs, err)
		}
	}
	r.closers = nil
	return errors.Join(errs...)
}

// ReadAll drains r and returns every line, including those with Err set.
func ReadAll(r *Reader) ([]Line, error) {
	var lines []Line
	for {
		line, ok := r.Next()
		if !ok {
			break
		}
		lines = append(lines, line)
	}
	return lines, r.Err()
}

// decode parses exactly one JSON value, keeping numbers as json.Number.
func decode(raw []byte) (any, error) {
	dec := json.NewDecoder(bytes.NewReader(raw))
	dec.UseNumber()

	var v any
	if err := dec.Decode(&v); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidJSON, err)
	}
	if _, err := dec.Token(); !errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("%w: trailing data after value", ErrInvalidJSON)
	}
	return v, nil
}

type countingReader struct {
	r io.Reader
	n int64
}

func (c *countingReader) Read(p []byte) (int, error) {
	n, err := c.r.Read(p)
	c.n += int64(n)
	return n, err
}
