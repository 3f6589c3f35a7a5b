package basic

// Component C: the tokenized program store and its line editor. Lines
// are appended to [0, top) in ascending line-number order; storeLine
// is the editor that keeps that invariant across insert, replace and
// delete.

// appendByte writes one byte at top and advances it, failing
// ErrOutOfMemory if that would run into the heap.
func (in *Interpreter) appendByte(b byte) ErrorCode {
	if in.store.top > in.store.himem {
		return in.raise(ErrOutOfMemory)
	}
	in.store.write8(in.store.top, int8(b))
	in.store.top++
	return ErrNone
}

func (in *Interpreter) appendBytes(bs []byte) ErrorCode {
	for _, b := range bs {
		if err := in.appendByte(b); err != ErrNone {
			return err
		}
	}
	return ErrNone
}

// storeToken appends the current look-ahead token (in.token) to top,
// per spec.md §4.C: tag byte first, then the tag-specific payload.
func (in *Interpreter) storeToken() ErrorCode {
	tok := in.token
	tag := tagForCode(tok.code)
	if err := in.appendByte(tag); err != ErrNone {
		return err
	}
	switch tok.code {
	case codeLineNumber:
		return in.appendBytes([]byte{byte(tok.line), byte(tok.line >> 8)})
	case codeNumber:
		bits := numberToBits(tok.num)
		buf := make([]byte, NumberSize)
		for i := 0; i < NumberSize; i++ {
			buf[i] = byte(bits >> (8 * i))
		}
		return in.appendBytes(buf)
	case codeString:
		if len(tok.str) > 255 {
			return in.raise(ErrString)
		}
		buf := make([]byte, 1+len(tok.str))
		buf[0] = byte(len(tok.str))
		copy(buf[1:], tok.str)
		return in.appendBytes(buf)
	case codeVariable, codeArrayVar, codeStringVar:
		return in.appendBytes([]byte{tok.name1, tok.name2})
	default:
		return ErrNone // keyword / ASCII operator / EOL: tag only
	}
}

// tokenSize reports how many bytes a stored token beginning with tag
// occupies starting at addr (tag included), without decoding it.
func (in *Interpreter) tokenSize(addr uint16) int {
	tag := byte(in.store.read8(addr))
	switch tag {
	case tagLineNumber:
		return 3
	case tagNumber:
		return 1 + NumberSize
	case tagString:
		length := int(uint8(in.store.read8(addr + 1)))
		return 2 + length
	case tagVariable, tagArrayVar, tagStringVar:
		return 3
	default:
		return 1
	}
}

// lineLength returns the byte length of the line beginning at addr
// (a LINENUMBER tag), stopping at the next LINENUMBER tag or at limit.
func (in *Interpreter) lineLength(addr, limit uint16) int {
	pos := addr
	for pos < limit {
		size := in.tokenSize(pos)
		next := pos + uint16(size)
		if next >= limit || byte(in.store.read8(next)) == tagLineNumber {
			return int(next) - int(addr)
		}
		pos = next
	}
	return int(limit) - int(addr)
}

// lineNumberAt reads the 2-byte line number following the LINENUMBER
// tag at addr.
func (in *Interpreter) lineNumberAt(addr uint16) uint16 {
	return in.store.readAddr(addr + 1)
}

// walkLines calls fn(addr, number, length) for every line in
// [0, limit), in ascending address order, stopping early if fn returns
// false.
func (in *Interpreter) walkLines(limit uint16, fn func(addr, number uint16, length int) bool) {
	pos := uint16(0)
	for pos < limit {
		length := in.lineLength(pos, limit)
		number := in.lineNumberAt(pos)
		if !fn(pos, number, length) {
			return
		}
		pos += uint16(length)
	}
}

// findLineIn returns the start address and length of the line with the
// given number within [0, limit), per §4.C's findline; ok is false if
// it is absent (findLine turns that into ErrLineUnknown).
func (in *Interpreter) findLineIn(number, limit uint16) (addr uint16, length int, ok bool) {
	in.walkLines(limit, func(a, n uint16, l int) bool {
		if n == number {
			addr, length, ok = a, l, true
			return false
		}
		return true
	})
	return
}

// findLine is the public form used by GOTO/GOSUB/LIST against the
// live program.
func (in *Interpreter) findLine(number uint16) (uint16, ErrorCode) {
	addr, _, ok := in.findLineIn(number, in.store.top)
	if !ok {
		return 0, ErrLineUnknown
	}
	return addr, ErrNone
}

// firstLine/nextLine are the editor's forward-iteration primitives.
func (in *Interpreter) firstLine() (uint16, bool) {
	if in.store.top == 0 {
		return 0, false
	}
	return 0, true
}

func (in *Interpreter) nextLine(addr uint16) (uint16, bool) {
	length := in.lineLength(addr, in.store.top)
	next := addr + uint16(length)
	if next >= in.store.top {
		return 0, false
	}
	return next, true
}

// myLine returns the line number containing addr, used for error
// reports (§4.C).
func (in *Interpreter) myLine(addr uint16) (uint16, bool) {
	var found uint16
	var ok bool
	in.walkLines(in.store.top, func(a, n uint16, l int) bool {
		if addr >= a && addr < a+uint16(l) {
			found, ok = n, true
			return false
		}
		return true
	})
	return found, ok
}

// splice replaces the byte span [start, start+oldLen) — which must lie
// within [0, newline) — with replacement, then discards the scratch
// copy that was appended at newline. Every insert/replace/delete in
// storeLine reduces to one call of this: the tail between the spliced
// span and newline is shifted into place with moveblock (so aliasing
// inside the shared buffer is handled in one spot), and replacement
// was copied out of the store before any shifting started, so it can
// never be corrupted by its own tail shift — the hazard a literal
// shift-then-copy-in-place transcription of spec.md §4.C's algorithm
// would hit when the new line is longer than the old one it replaces
// (see DESIGN.md).
func (in *Interpreter) splice(start uint16, oldLen int, replacement []byte, newline uint16) ErrorCode {
	tailStart := start + uint16(oldLen)
	tailLen := int(newline) - int(tailStart)
	dst := start + uint16(len(replacement))
	if tailLen > 0 {
		if err := in.store.moveblock(tailStart, tailLen, dst); err != ErrNone {
			return err
		}
	}
	for i, b := range replacement {
		in.store.write8(start+uint16(i), int8(b))
	}
	in.store.top = dst + uint16(tailLen)
	return ErrNone
}

// storeLine is the editor: the most recently tokenized line sits at
// [newline, top) as a scratch copy; this decides whether it deletes,
// replaces or inserts a line, per spec.md §4.C.
func (in *Interpreter) storeLine(newline uint16) ErrorCode {
	l := int(in.store.top) - int(newline)

	// Capture the scratch copy before any shifting can alias it.
	scratch := make([]byte, l)
	for i := range scratch {
		scratch[i] = byte(in.store.read8(newline + uint16(i)))
	}
	number := in.lineNumberAt(newline)

	if l == 3 {
		// Bare delete: user typed just a line number.
		if addr, length, ok := in.findLineIn(number, newline); ok {
			return in.splice(addr, length, nil, newline)
		}
		in.store.top = newline
		return ErrNone
	}

	var eqAddr uint16
	var eqLen int
	haveEq := false
	var gtAddr uint16
	haveGt := false

	in.walkLines(newline, func(a, n uint16, length int) bool {
		switch {
		case n == number:
			eqAddr, eqLen, haveEq = a, length, true
			return false
		case n > number && !haveGt:
			gtAddr, haveGt = a, true
			return false
		}
		return true
	})

	switch {
	case haveEq:
		return in.splice(eqAddr, eqLen, scratch, newline)
	case haveGt:
		return in.splice(gtAddr, 0, scratch, newline)
	default:
		// Greater than every existing line number: the scratch copy
		// is already exactly where it belongs.
		return ErrNone
	}
}
