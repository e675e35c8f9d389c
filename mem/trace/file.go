package trace

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/golang/snappy"
	"github.com/pierrec/lz4/v4"
	"github.com/sarchlab/vmsim/mem/vm"
)

// Compression identifies how a trace file is encoded on disk.
type Compression int

// Supported trace encodings.
const (
	NoCompression Compression = iota
	LZ4
	Snappy
)

func (c Compression) String() string {
	switch c {
	case LZ4:
		return "lz4"
	case Snappy:
		return "snappy"
	default:
		return "none"
	}
}

// CompressionOf picks the encoding from the file extension: ".lz4" for LZ4
// frames and ".sz" or ".snappy" for framed Snappy.
func CompressionOf(path string) Compression {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".lz4":
		return LZ4
	case ".sz", ".snappy":
		return Snappy
	default:
		return NoCompression
	}
}

type readCloser struct {
	io.Reader
	file *os.File
}

func (r readCloser) Close() error {
	return r.file.Close()
}

// Open opens a trace file and transparently decompresses it.
func Open(path string) (io.ReadCloser, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open trace: %w", err)
	}

	switch CompressionOf(path) {
	case LZ4:
		return readCloser{Reader: lz4.NewReader(f), file: f}, nil
	case Snappy:
		return readCloser{Reader: snappy.NewReader(f), file: f}, nil
	default:
		return f, nil
	}
}

// Load reads every access of the trace file at path.
func Load(path string) ([]vm.Access, error) {
	r, err := Open(path)
	if err != nil {
		return nil, err
	}
	defer r.Close()

	accesses, err := ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}

	return accesses, nil
}

type writeCloser struct {
	io.WriteCloser
	file *os.File
}

func (w writeCloser) Close() error {
	err := w.WriteCloser.Close()
	if err != nil {
		w.file.Close()
		return err
	}

	return w.file.Close()
}

// Create creates a trace file, compressing it according to its extension.
func Create(path string) (io.WriteCloser, error) {
	f, err := os.Create(path)
	if err != nil {
		return nil, fmt.Errorf("create trace: %w", err)
	}

	switch CompressionOf(path) {
	case LZ4:
		return writeCloser{WriteCloser: lz4.NewWriter(f), file: f}, nil
	case Snappy:
		return writeCloser{WriteCloser: snappy.NewBufferedWriter(f), file: f}, nil
	default:
		return f, nil
	}
}

// Save writes accesses into a trace file at path.
func Save(path string, accesses []vm.Access) error {
	w, err := Create(path)
	if err != nil {
		return err
	}

	err = Write(w, accesses)
	if err != nil {
		w.Close()
		return err
	}

	return w.Close()
}
