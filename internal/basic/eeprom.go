package basic

// eepromImage is the persistent boot image from spec.md §6: byte 0 is
// a flag (0 = stored but don't autorun, 1 = autorun, 255 = empty),
// bytes [1, 1+addrSize) hold the saved program's top, and the rest is
// the program bytes themselves, read directly by the tokenizer in
// ERUN mode without being copied into the live store.
type eepromImage struct {
	data []byte
}

const (
	eepromAddrSize = 2
	eepromHeader   = 1 + eepromAddrSize

	eepromEmpty      = 255
	eepromNoAutorun  = 0
	eepromAutorun    = 1
)

func newEEPROMImage(memSize int) *eepromImage {
	img := &eepromImage{data: make([]byte, eepromHeader+memSize)}
	img.data[0] = eepromEmpty
	return img
}

// flag reports the boot-mode byte.
func (e *eepromImage) flag() byte { return e.data[0] }

// top reports the stored program's length.
func (e *eepromImage) top() uint16 {
	return uint16(e.data[1]) | uint16(e.data[2])<<8
}

// store writes prog (the current program bytes) into the image with
// the given autorun flag, as EEPROM-backed SAVE would.
func (e *eepromImage) store(prog []byte, autorun bool) {
	if autorun {
		e.data[0] = eepromAutorun
	} else {
		e.data[0] = eepromNoAutorun
	}
	e.data[1] = byte(len(prog))
	e.data[2] = byte(len(prog) >> 8)
	copy(e.data[eepromHeader:], prog)
}

// readByte reads a byte at offset off within the program image region,
// used both by ERUN-mode tokenizing and by PEEK's negative-address
// EEPROM window (spec.md §4.E).
func (e *eepromImage) readByte(off int) int8 {
	return int8(e.data[eepromHeader+off])
}

func (e *eepromImage) writeByte(off int, v int8) {
	e.data[eepromHeader+off] = byte(v)
}

func (e *eepromImage) len() int { return len(e.data) - eepromHeader }

// bootMode reports whether the image asks to autorun directly from
// EEPROM (ModeERUN) on startup, per spec.md §6.
func (e *eepromImage) bootMode() (Mode, bool) {
	switch e.flag() {
	case eepromAutorun:
		return ModeERUN, true
	default:
		return ModeINT, false
	}
}

// EEPROMImage returns a copy of the raw image bytes, for cmd/pabasic
// to persist to the path named by the "eeprom" config/--eeprom knob —
// the environment-specific half of the §6 persistent-store port this
// core treats as an external collaborator (§1).
func (in *Interpreter) EEPROMImage() []byte {
	out := make([]byte, len(in.eeprom.data))
	copy(out, in.eeprom.data)
	return out
}

// LoadEEPROMImage replaces the interpreter's EEPROM image with bytes
// previously obtained from EEPROMImage (cmd/pabasic's --eeprom file,
// read at startup). A length mismatch means the image was built for a
// different MEM size and is rejected as malformed.
func (in *Interpreter) LoadEEPROMImage(data []byte) ErrorCode {
	if len(data) != len(in.eeprom.data) {
		return in.raise(ErrEEPROM)
	}
	copy(in.eeprom.data, data)
	return ErrNone
}

// Boot runs the EEPROM autorun path if the loaded image's flag byte
// asks for it, per spec.md §6: "On boot, if flag is 1, the interpreter
// runs directly from EEPROM... setting st := ERUN". ran reports
// whether autorun fired; when it didn't, the interpreter is left
// untouched for the normal REPL/--load startup path to take over.
func (in *Interpreter) Boot() (err ErrorCode, ran bool) {
	if _, autorun := in.eeprom.bootMode(); !autorun {
		return ErrNone, false
	}
	return in.runEEPROM(), true
}
