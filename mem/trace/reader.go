// Package trace reads and writes memory-access traces and records simulator
// events into a data recorder.
//
// A trace is a text file with one access per line:
//
//	<mode> <hex address> <cycles>
//
// where mode is "l" (load) or "s" (store), the address may carry a "0x"
// prefix, and cycles is the decimal number of cycles spent before the next
// access. Blank lines are ignored.
package trace

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/sarchlab/vmsim/mem/vm"
)

var (
	// ErrMalformedLine is returned when a line does not hold exactly three
	// fields.
	ErrMalformedLine = errors.New("expected <mode> <address> <cycles>")

	// ErrInvalidMode is returned when the mode is neither "l" nor "s".
	ErrInvalidMode = errors.New("mode must be l or s")
)

// A ParseError reports a trace line that cannot be decoded.
type ParseError struct {
	Line int
	Text string
	Err  error
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("trace line %d %q: %v", e.Line, e.Text, e.Err)
}

func (e *ParseError) Unwrap() error {
	return e.Err
}

// ParseLine decodes a single non-blank trace line.
func ParseLine(text string) (vm.Access, error) {
	fields := strings.Fields(text)
	if len(fields) != 3 {
		return vm.Access{}, ErrMalformedLine
	}

	var access vm.Access

	switch strings.ToLower(fields[0]) {
	case "l":
		access.Mode = vm.Load
	case "s":
		access.Mode = vm.Store
	default:
		return vm.Access{}, ErrInvalidMode
	}

	addr := strings.TrimPrefix(strings.ToLower(fields[1]), "0x")

	vAddr, err := strconv.ParseUint(addr, 16, 64)
	if err != nil {
		return vm.Access{}, fmt.Errorf("address: %w", err)
	}

	cycles, err := strconv.ParseUint(fields[2], 10, 64)
	if err != nil {
		return vm.Access{}, fmt.Errorf("cycles: %w", err)
	}

	access.VAddr = vAddr
	access.Cycles = cycles

	return access, nil
}

// A Reader decodes accesses one line at a time.
type Reader struct {
	scanner *bufio.Scanner
	line    int
}

// NewReader creates a Reader on top of r.
func NewReader(r io.Reader) *Reader {
	return &Reader{scanner: bufio.NewScanner(r)}
}

// Read returns the next access. It returns io.EOF once the input is
// exhausted.
func (r *Reader) Read() (vm.Access, error) {
	for r.scanner.Scan() {
		r.line++

		text := r.scanner.Text()
		if strings.TrimSpace(text) == "" {
			continue
		}

		access, err := ParseLine(text)
		if err != nil {
			return vm.Access{}, &ParseError{Line: r.line, Text: text, Err: err}
		}

		return access, nil
	}

	if err := r.scanner.Err(); err != nil {
		return vm.Access{}, err
	}

	return vm.Access{}, io.EOF
}

// ReadAll decodes every access in r. The first bad line aborts the read.
func ReadAll(r io.Reader) ([]vm.Access, error) {
	reader := NewReader(r)
	accesses := []vm.Access{}

	for {
		access, err := reader.Read()
		if err == io.EOF {
			return accesses, nil
		}

		if err != nil {
			return nil, err
		}

		accesses = append(accesses, access)
	}
}

// Write encodes accesses in the trace text format.
func Write(w io.Writer, accesses []vm.Access) error {
	bw := bufio.NewWriter(w)

	for _, a := range accesses {
		_, err := fmt.Fprintf(bw, "%s 0x%08x %d\n", a.Mode, a.VAddr, a.Cycles)
		if err != nil {
			return err
		}
	}

	return bw.Flush()
}
