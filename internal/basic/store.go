package basic

// store is Component A: one contiguous buffer of MEM signed bytes shared
// by the program region [0, top) and the heap region (himem, MEM). It
// is grounded on emu/memory.go's mem struct — same shape (a flat byte
// array plus a couple of cursors, get/put primitives with no bounds
// checking beyond an explicit guard) — generalized from a fixed 4M word
// array with access-bit tracking to the spec's two-frontier byte
// buffer, and moved from a package-level global to a field of
// *Interpreter per spec.md §9's redesign note.
type store struct {
	mem   []int8
	top   uint16 // first free byte above the program
	himem uint16 // last byte belonging to the heap
}

func newStore(size int) *store {
	if size < 128 {
		size = 128
	}
	return &store{
		mem:   make([]int8, size),
		top:   0,
		himem: uint16(size - 1),
	}
}

func (s *store) memSize() uint16 { return uint16(len(s.mem)) }

// freeSpace is himem - top + 1, the size of the free region [top, himem]
// left for either frontier to grow into.
func (s *store) freeSpace() int {
	return int(s.himem) - int(s.top) + 1
}

func (s *store) read8(addr uint16) int8 {
	return s.mem[addr]
}

func (s *store) write8(addr uint16, v int8) {
	s.mem[addr] = v
}

// read_addr/write_addr — always 2 bytes, little-endian.
func (s *store) readAddr(addr uint16) uint16 {
	lo := uint16(uint8(s.mem[addr]))
	hi := uint16(uint8(s.mem[addr+1]))
	return lo | (hi << 8)
}

func (s *store) writeAddr(addr uint16, v uint16) {
	s.mem[addr] = int8(uint8(v))
	s.mem[addr+1] = int8(uint8(v >> 8))
}

// read_num/write_num — N bytes, little-endian, reinterpreted as Number.
func (s *store) readNum(addr uint16) Number {
	var bits uint32
	for i := 0; i < NumberSize; i++ {
		bits |= uint32(uint8(s.mem[addr+uint16(i)])) << (8 * i)
	}
	return numberFromBits(bits)
}

func (s *store) writeNum(addr uint16, n Number) {
	bits := numberToBits(n)
	for i := 0; i < NumberSize; i++ {
		s.mem[addr+uint16(i)] = int8(uint8(bits >> (8 * i)))
	}
}

// moveblock copies len bytes from src to dst, handling the overlapping
// case the line editor (program.go's splice) relies on: when src < dst
// the copy must run descending (high to low) so the tail doesn't
// clobber bytes not yet read, otherwise ascending.
func (s *store) moveblock(src uint16, length int, dst uint16) ErrorCode {
	if length == 0 {
		return ErrNone
	}
	if int(dst)+length > int(s.himem)+1 {
		return ErrOutOfMemory
	}
	if src < dst {
		for i := length - 1; i >= 0; i-- {
			s.mem[int(dst)+i] = s.mem[int(src)+i]
		}
	} else {
		for i := 0; i < length; i++ {
			s.mem[int(dst)+i] = s.mem[int(src)+i]
		}
	}
	return ErrNone
}

func (s *store) zeroblock(addr uint16, length int) {
	for i := 0; i < length; i++ {
		s.mem[int(addr)+i] = 0
	}
}
