package basic

// Component D: the heap allocator. Arrays (DIM'd numeric vectors) and
// string variables live in records that grow down from himem, the
// mirror image of the program store growing up from 0 — both frontiers
// share the same []int8 buffer (store.go), colliding at ErrOutOfMemory
// when top and himem meet. This is grounded on the same "two cursors,
// one backing array" shape as store.go itself; there is no separate
// teacher subsystem to ground a heap allocator on, so its record
// layout is this rewrite's own, built from the token/store primitives
// already established.
const (
	heapArray  byte = 'A'
	heapString byte = 'S'
	// heapScalar is a two-character static variable (A0, A1, ...) per
	// spec.md §3: these allocate on the heap instead of the 26-slot
	// static table, but (unlike arrays/strings) carry no size field.
	heapScalar byte = 'V'

	// heapHeaderLen is type + name1 + name2 + a 2-byte size field
	// (highest array index, or string capacity) — used by arrays and
	// strings only.
	heapHeaderLen = 5
	// scalarHeaderLen is type + name1 + name2, with no size field: a
	// heap scalar's payload size is always NumberSize.
	scalarHeaderLen = 3
)

// heapRecordLen reports the total size (header + payload) of the
// record whose header starts at addr.
func (in *Interpreter) heapRecordLen(addr uint16) int {
	kind := byte(in.store.read8(addr))
	switch kind {
	case heapArray:
		size := int(in.store.readAddr(addr + 3))
		return heapHeaderLen + (size+1)*NumberSize
	case heapString:
		size := int(in.store.readAddr(addr + 3))
		return heapHeaderLen + stringIndexSize + size
	case heapScalar:
		return scalarHeaderLen + NumberSize
	default:
		return heapHeaderLen
	}
}

// bfind performs the linear heap scan spec.md §4.D describes: walk
// records from himem+1 to the top of the buffer looking for a (kind,
// name1, name2) match. Returns 0, false if absent.
func (in *Interpreter) bfind(kind byte, name1, name2 byte) (uint16, bool) {
	addr := in.store.himem + 1
	for int(addr) < len(in.store.mem) {
		k := byte(in.store.read8(addr))
		n1 := byte(in.store.read8(addr + 1))
		n2 := byte(in.store.read8(addr + 2))
		length := in.heapRecordLen(addr)
		if k == kind && n1 == name1 && n2 == name2 {
			return addr, true
		}
		addr += uint16(length)
	}
	return 0, false
}

// bmalloc allocates a new record below himem, per spec.md §4.D:
// size is the highest array index (for arrays) or the string capacity
// (for strings) and is ignored for scalars, returning ErrOutOfMemory if the two frontiers would
// collide.
func (in *Interpreter) bmalloc(kind byte, name1, name2 byte, size int) (uint16, ErrorCode) {
	header := heapHeaderLen
	var payload int
	switch kind {
	case heapArray:
		payload = (size + 1) * NumberSize
	case heapString:
		payload = stringIndexSize + size
	case heapScalar:
		header = scalarHeaderLen
		payload = NumberSize
	}
	total := header + payload
	if int(in.store.himem)+1-total <= int(in.store.top) {
		return 0, in.raise(ErrOutOfMemory)
	}
	addr := in.store.himem - uint16(total) + 1
	in.store.write8(addr, int8(kind))
	in.store.write8(addr+1, int8(name1))
	in.store.write8(addr+2, int8(name2))
	if kind != heapScalar {
		in.store.writeAddr(addr+3, uint16(size))
	}
	in.store.zeroblock(addr+uint16(header), payload)
	in.store.himem = addr - 1
	in.nvars++
	return addr, ErrNone
}

// scalarAddr returns the backing record for a two-character static
// variable (A0, A1, ...), allocating it with a zero value on first
// use, per spec.md §3's "Two-character names... allocate on the heap
// instead".
func (in *Interpreter) scalarAddr(name1, name2 byte) (uint16, ErrorCode) {
	if addr, ok := in.bfind(heapScalar, name1, name2); ok {
		return addr, ErrNone
	}
	return in.bmalloc(heapScalar, name1, name2, 0)
}

func (in *Interpreter) getHeapScalar(addr uint16) Number {
	return in.store.readNum(addr + scalarHeaderLen)
}

func (in *Interpreter) setHeapScalar(addr uint16, v Number) {
	in.store.writeNum(addr+scalarHeaderLen, v)
}

// arrayDim returns an existing array's highest valid index (the N of
// DIM A(N)).
func (in *Interpreter) arrayDim(addr uint16) int {
	return int(in.store.readAddr(addr + 3))
}

// getArray implements A(I) read access, checking the bound per §4.D's
// range check.
func (in *Interpreter) getArray(addr uint16, index int) (Number, ErrorCode) {
	if index < 0 || index > in.arrayDim(addr) {
		return 0, in.raise(ErrRange)
	}
	return in.store.readNum(addr + heapHeaderLen + uint16(index*NumberSize)), ErrNone
}

// setArray implements A(I) = value.
func (in *Interpreter) setArray(addr uint16, index int, v Number) ErrorCode {
	if index < 0 || index > in.arrayDim(addr) {
		return in.raise(ErrRange)
	}
	in.store.writeNum(addr+heapHeaderLen+uint16(index*NumberSize), v)
	return ErrNone
}

// dimArray implements DIM A(N): it is an error to redimension an
// array that already exists (§4.D).
func (in *Interpreter) dimArray(name1, name2 byte, n int) ErrorCode {
	if _, ok := in.bfind(heapArray, name1, name2); ok {
		return in.raise(ErrDim)
	}
	_, err := in.bmalloc(heapArray, name1, name2, n)
	return err
}

// arrayAddr is the lookup eval.go's evaluator and LET (stmt_data.go)
// use, auto-vectoring into a default-sized array the first time a
// name is subscripted without a prior DIM, matching Palo Alto BASIC's
// implicit DIM(10) behavior.
const defaultArrayDim = 10

func (in *Interpreter) arrayAddr(name1, name2 byte) (uint16, ErrorCode) {
	if addr, ok := in.bfind(heapArray, name1, name2); ok {
		return addr, ErrNone
	}
	return in.bmalloc(heapArray, name1, name2, defaultArrayDim)
}

// stringAddr returns the backing record for a string variable,
// allocating it with capacity cap on first use.
func (in *Interpreter) stringAddr(name1, name2 byte, capHint int) (uint16, ErrorCode) {
	if addr, ok := in.bfind(heapString, name1, name2); ok {
		return addr, ErrNone
	}
	return in.bmalloc(heapString, name1, name2, capHint)
}

func (in *Interpreter) stringCapacity(addr uint16) int {
	return int(in.store.readAddr(addr + 3))
}

func (in *Interpreter) stringLength(addr uint16) int {
	return int(in.store.readAddr(addr + heapHeaderLen))
}

func (in *Interpreter) getString(addr uint16) string {
	n := in.stringLength(addr)
	buf := make([]byte, n)
	base := addr + heapHeaderLen + stringIndexSize
	for i := 0; i < n; i++ {
		buf[i] = byte(in.store.read8(base + uint16(i)))
	}
	return string(buf)
}

// setString writes s into the record at addr, growing the record (via
// a fresh bmalloc record that bfind finds before the orphaned old one)
// if s exceeds the current capacity. The bytes are written one by one
// from the Go string s, so no in-buffer overlapping copy is involved.
func (in *Interpreter) setString(name1, name2 byte, addr uint16, s string) (uint16, ErrorCode) {
	if len(s) > in.stringCapacity(addr) {
		newAddr, err := in.bmalloc(heapString, name1, name2, len(s))
		if err != ErrNone {
			return addr, err
		}
		addr = newAddr
	}
	in.store.writeAddr(addr+heapHeaderLen, uint16(len(s)))
	base := addr + heapHeaderLen + stringIndexSize
	for i := 0; i < len(s); i++ {
		in.store.write8(base+uint16(i), int8(s[i]))
	}
	return addr, ErrNone
}
