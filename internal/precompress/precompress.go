// Package precompress writes gzip siblings of generated files so static
// hosts can serve them with Content-Encoding: gzip.
package precompress

import (
	"bytes"
	"errors"
	"fmt"

	"github.com/klauspost/compress/gzip"

	"github.com/alnah/go-md2site/internal/fileutil"
)

// Suffix is appended to the original file name.
const Suffix = ".gz"

// DefaultMinSize skips files too small to benefit from compression.
const DefaultMinSize = 256

// ErrInvalidLevel indicates a compression level gzip does not accept.
var ErrInvalidLevel = errors.New("invalid gzip level")

// Compressor writes .gz siblings.
type Compressor struct {
	level   int
	minSize int
}

// Option configures a Compressor.
type Option func(*Compressor)

// WithLevel sets the gzip level (gzip.HuffmanOnly to gzip.BestCompression).
func WithLevel(level int) Option {
	return func(c *Compressor) {
		c.level = level
	}
}

// WithMinSize sets the size below which files are left uncompressed.
func WithMinSize(n int) Option {
	return func(c *Compressor) {
		c.minSize = n
	}
}

// New creates a Compressor using best compression, since output is
// written once and served many times.
func New(opts ...Option) (*Compressor, error) {
	c := &Compressor{
		level:   gzip.BestCompression,
		minSize: DefaultMinSize,
	}
	for _, opt := range opts {
		opt(c)
	}
	if c.level < gzip.HuffmanOnly || c.level > gzip.BestCompression {
		return nil, fmt.Errorf("%w: %d", ErrInvalidLevel, c.level)
	}
	return c, nil
}

// Compress returns the gzip encoding of data.
func (c *Compressor) Compress(data []byte) ([]byte, error) {
	var buf bytes.Buffer
	zw, err := gzip.NewWriterLevel(&buf, c.level)
	if err != nil {
		return nil, fmt.Errorf("%w: %d", ErrInvalidLevel, c.level)
	}
	if _, err := zw.Write(data); err != nil {
		return nil, fmt.Errorf("compressing: %w", err)
	}
	if err := zw.Close(); err != nil {
		return nil, fmt.Errorf("compressing: %w", err)
	}
	return buf.Bytes(), nil
}

// WriteSibling writes path+".gz" holding the compressed data and returns
// its size. Data shorter than the minimum size is skipped and reports 0.
func (c *Compressor) WriteSibling(path string, data []byte) (int, error) {
	if len(data) < c.minSize {
		return 0, nil
	}
	gz, err := c.Compress(data)
	if err != nil {
		return 0, err
	}
	if err := fileutil.WriteFileAtomic(path+Suffix, gz); err != nil {
		return 0, err
	}
	return len(gz), nil
}
