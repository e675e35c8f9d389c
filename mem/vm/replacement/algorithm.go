package replacement

import (
	"errors"
	"fmt"
	"strings"
)

// ErrUnknownAlgorithm is returned when an algorithm name cannot be parsed.
var ErrUnknownAlgorithm = errors.New("unknown replacement algorithm")

// Algorithm enumerates the supported replacement policies.
type Algorithm int

// The supported replacement policies.
const (
	FIFO Algorithm = iota
	OPT
	Aging
)

func (a Algorithm) String() string {
	switch a {
	case FIFO:
		return "FIFO"
	case OPT:
		return "OPT"
	case Aging:
		return "AGING"
	default:
		return fmt.Sprintf("Algorithm(%d)", int(a))
	}
}

// ParseAlgorithm converts a case-insensitive algorithm name into an
// Algorithm.
func ParseAlgorithm(name string) (Algorithm, error) {
	switch strings.ToUpper(strings.TrimSpace(name)) {
	case "FIFO":
		return FIFO, nil
	case "OPT", "OPTIMAL":
		return OPT, nil
	case "AGING":
		return Aging, nil
	default:
		return 0, fmt.Errorf("%w: %q", ErrUnknownAlgorithm, name)
	}
}
