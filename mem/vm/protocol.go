package vm

import "fmt"

// AccessMode tells if an access reads or writes memory.
type AccessMode uint8

// The two kinds of memory access.
const (
	Load AccessMode = iota
	Store
)

func (m AccessMode) String() string {
	switch m {
	case Load:
		return "l"
	case Store:
		return "s"
	default:
		return fmt.Sprintf("AccessMode(%d)", uint8(m))
	}
}

// An Access is one record of a memory trace.
type Access struct {
	Mode   AccessMode
	VAddr  uint64
	Cycles uint64
}
