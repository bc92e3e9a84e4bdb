package machine

// RefMMU is a reference MMU: it binds a single page table at a time
// and translates against it and a fixed page size, the minimal
// behavior the original's MMU module provides (mmu_bind / mmu_usa /
// translation lookup) without any real TLB.
type RefMMU struct {
	pageSize int
	bound    PageTable
}

// NewMMU returns an MMU translating with the given page size.
func NewMMU(pageSize int) *RefMMU {
	return &RefMMU{pageSize: pageSize}
}

func (m *RefMMU) BindPageTable(pt PageTable) {
	m.bound = pt
}

func (m *RefMMU) Unbind() {
	m.bound = nil
}

func (m *RefMMU) Translate(virt int, mode AccessMode) (int, bool) {
	if m.bound == nil || virt < 0 {
		return 0, false
	}
	page := virt / m.pageSize
	offset := virt % m.pageSize
	if !m.bound.Valid(page) {
		return 0, false
	}
	m.bound.SetReferenced(page, true)
	if mode == AccessWrite {
		m.bound.SetModified(page, true)
	}
	return m.bound.Frame(page)*m.pageSize + offset, true
}
