package machine

// ByteMemory is a flat, range-checked byte array implementing
// Memory. The same type backs both main and secondary memory in the
// reference driver and in tests, the way the teacher's emu/memory
// package holds a single backing array behind GetWord/PutWord range
// checks (here trimmed from word-addressed S/370 storage with key
// bits down to plain bytes, since this kernel's pages are byte
// ranges, not S/370 storage-protect keys).
type ByteMemory struct {
	data []byte
}

// NewByteMemory returns a zeroed memory of the given size in bytes.
func NewByteMemory(size int) *ByteMemory {
	return &ByteMemory{data: make([]byte, size)}
}

func (m *ByteMemory) Size() int {
	return len(m.data)
}

func (m *ByteMemory) ReadByte(addr int) (byte, error) {
	if addr < 0 || addr >= len(m.data) {
		return 0, ErrOutOfRange
	}
	return m.data[addr], nil
}

func (m *ByteMemory) WriteByte(addr int, v byte) error {
	if addr < 0 || addr >= len(m.data) {
		return ErrOutOfRange
	}
	m.data[addr] = v
	return nil
}
