package basic

// Static scalar variables (A-Z) and the "@"-prefixed pseudo-variables
// and pseudo-arrays from spec.md §4.D: registers and I/O state exposed
// through the same variable syntax a user variable would use, so PRINT
// @S or LET @C = 0 needs no special-cased grammar in eval.go/exec.go —
// only special-cased routing here.
//
// name2 == 0 marks a plain single-letter variable (A-Z); '@' in name1
// marks a pseudo-variable, keyed by name2.

const (
	pseudoMarker byte = '@'

	pseudoInSel   byte = 'I' // @I: input sink mask
	pseudoOutSel  byte = 'O' // @O: output sink mask
	pseudoStatus  byte = 'S' // @S: last trappable error code
	pseudoForm    byte = 'C' // @C: the form field-width register (unused by PRINT)
	pseudoRand    byte = 'R' // @R: RND LCG seed, read/write
	pseudoDisplay byte = 'X' // @X: display cursor column
	pseudoRow     byte = 'Y' // @Y: display cursor row
)

func isPseudo(k variableKey) bool { return k.name1 == pseudoMarker }

// staticIndex returns a letter variable's slot in Interpreter.statics.
func staticIndex(name1 byte) int { return int(name1 - 'A') }

// getScalar reads a plain A-Z static, a two-character heap scalar
// (A0, A1, ...) or an @-pseudo-variable.
func (in *Interpreter) getScalar(k variableKey) (Number, ErrorCode) {
	if isPseudo(k) {
		return in.getPseudo(k.name2)
	}
	if k.name2 != 0 {
		addr, err := in.scalarAddr(k.name1, k.name2)
		if err != ErrNone {
			return 0, err
		}
		return in.getHeapScalar(addr), ErrNone
	}
	return in.statics[staticIndex(k.name1)], ErrNone
}

// setScalar writes a plain A-Z static, a two-character heap scalar
// (A0, A1, ...) or an @-pseudo-variable.
func (in *Interpreter) setScalar(k variableKey, v Number) ErrorCode {
	if isPseudo(k) {
		return in.setPseudo(k.name2, v)
	}
	if k.name2 != 0 {
		addr, err := in.scalarAddr(k.name1, k.name2)
		if err != ErrNone {
			return err
		}
		in.setHeapScalar(addr, v)
		return ErrNone
	}
	in.statics[staticIndex(k.name1)] = v
	return ErrNone
}

func (in *Interpreter) getPseudo(name2 byte) (Number, ErrorCode) {
	switch name2 {
	case pseudoInSel:
		return Number(in.inSel), ErrNone
	case pseudoOutSel:
		return Number(in.outSel), ErrNone
	case pseudoStatus:
		return Number(in.ert), ErrNone
	case pseudoForm:
		return Number(in.form), ErrNone
	case pseudoRand:
		return Number(in.rng), ErrNone
	case pseudoDisplay, pseudoRow:
		return 0, ErrNone // no real display driver in this core (§1)
	default:
		return 0, in.raise(ErrVariable)
	}
}

func (in *Interpreter) setPseudo(name2 byte, v Number) ErrorCode {
	switch name2 {
	case pseudoInSel:
		in.inSel = Sink(v)
	case pseudoOutSel:
		in.outSel = Sink(v)
	case pseudoStatus:
		in.ert = ErrorCode(v)
	case pseudoForm:
		in.form = int(v)
	case pseudoRand:
		in.rng = uint16(v)
	case pseudoDisplay, pseudoRow:
		// no real display driver in this core (§1): accepted, ignored
	default:
		return in.raise(ErrVariable)
	}
	return ErrNone
}

// Pseudo-array kinds, selected by the array's first name character
// when it is '@': @E is the EEPROM image window, @D is the display
// scratch buffer, and bare "@(" (name2 == 0) addresses the tail of the
// shared store above himem as a raw byte array, per spec.md §4.D.
const (
	pseudoArrayEEPROM  byte = 'E'
	pseudoArrayDisplay byte = 'D'
)

// displayBufferSize is the length of Interpreter.displayBuf, which backs
// the @D pseudo-array: out-of-scope hardware (§1) replaced with
// addressable memory, per SPEC_FULL.md.
const displayBufferSize = 256

// getPseudoArray implements @E(i), @D(i) and @(i) reads.
func (in *Interpreter) getPseudoArray(name2 byte, index int) (Number, ErrorCode) {
	switch name2 {
	case pseudoArrayEEPROM:
		if index < 0 || index >= in.eeprom.len() {
			return 0, in.raise(ErrRange)
		}
		return Number(in.eeprom.readByte(index)), ErrNone
	case pseudoArrayDisplay:
		if index < 0 || index >= len(in.displayBuf) {
			return 0, in.raise(ErrRange)
		}
		return Number(in.displayBuf[index]), ErrNone
	case 0:
		addr := int(in.store.memSize()) - 1 - index
		if addr < int(in.store.himem)+1 || addr >= int(in.store.memSize()) {
			return 0, in.raise(ErrRange)
		}
		return Number(in.store.read8(uint16(addr))), ErrNone
	default:
		return 0, in.raise(ErrVariable)
	}
}

// setPseudoArray implements @E(i)=, @D(i)= and @(i)= writes.
func (in *Interpreter) setPseudoArray(name2 byte, index int, v Number) ErrorCode {
	switch name2 {
	case pseudoArrayEEPROM:
		if index < 0 || index >= in.eeprom.len() {
			return in.raise(ErrRange)
		}
		in.eeprom.writeByte(index, int8(v))
		return ErrNone
	case pseudoArrayDisplay:
		if index < 0 || index >= len(in.displayBuf) {
			return in.raise(ErrRange)
		}
		in.displayBuf[index] = byte(v)
		return ErrNone
	case 0:
		addr := int(in.store.memSize()) - 1 - index
		if addr < int(in.store.himem)+1 || addr >= int(in.store.memSize()) {
			return in.raise(ErrRange)
		}
		in.store.write8(uint16(addr), int8(v))
		return ErrNone
	default:
		return in.raise(ErrVariable)
	}
}
