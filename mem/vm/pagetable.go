// Package vm models the flat page table and the physical frame pool that the
// page replacement simulator operates on.
package vm

// A PTE is a page table entry. One PTE exists for every virtual page that the
// trace has ever referenced.
type PTE struct {
	VPN uint64

	// Frame is the index of the frame that holds the page, or -1 if the page
	// is not resident.
	Frame int

	Present      bool
	Dirty        bool
	ReferenceBit bool
	AgingCounter uint8
}

// IsBound returns true if the entry points at a frame.
func (e *PTE) IsBound() bool {
	return e.Frame >= 0
}

// A PageTable maps virtual page numbers to page table entries. Entries are
// created on first reference and are never removed.
type PageTable interface {
	// LookupOrCreate returns the entry of the page, creating a non-present
	// one if the page has not been referenced before.
	LookupOrCreate(vpn uint64) *PTE

	// Find returns the entry of the page without creating it.
	Find(vpn uint64) (*PTE, bool)

	// NumEntries returns the number of pages ever referenced.
	NumEntries() int

	// PageNumber returns the virtual page number that contains the address.
	PageNumber(vAddr uint64) uint64

	// Log2PageSize returns the page size as a power of two.
	Log2PageSize() uint64
}

// NewPageTable creates a new PageTable.
func NewPageTable(log2PageSize uint64) PageTable {
	return &pageTableImpl{
		log2PageSize: log2PageSize,
		entries:      make(map[uint64]*PTE),
	}
}

// pageTableImpl is a sparse page table sized to the working set.
type pageTableImpl struct {
	log2PageSize uint64
	entries      map[uint64]*PTE
}

func (pt *pageTableImpl) LookupOrCreate(vpn uint64) *PTE {
	pte, found := pt.entries[vpn]
	if !found {
		pte = &PTE{
			VPN:   vpn,
			Frame: -1,
		}
		pt.entries[vpn] = pte
	}

	return pte
}

func (pt *pageTableImpl) Find(vpn uint64) (*PTE, bool) {
	pte, found := pt.entries[vpn]
	return pte, found
}

func (pt *pageTableImpl) NumEntries() int {
	return len(pt.entries)
}

func (pt *pageTableImpl) PageNumber(vAddr uint64) uint64 {
	return vAddr >> pt.log2PageSize
}

func (pt *pageTableImpl) Log2PageSize() uint64 {
	return pt.log2PageSize
}
