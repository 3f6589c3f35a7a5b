package basic

import "strings"

// Component B: the dual-mode tokenizer. In ModeINT the source is the
// character string ibuffer, cursored by bi — the same "line string
// plus pos cursor" shape as command/parser's cmdLine, generalized from
// a command dispatcher's word-at-a-time scan to full BASIC lexical
// analysis. In ModeRUN/ModeERUN the source is already-tokenized bytes
// (in the store, or the EEPROM image) deserialized via encode.go's tag
// scheme — a fundamentally different algorithm unified only by landing
// in the same Token look-ahead register (interp.go's in.token).

// nextToken refills in.token from whichever source the current mode
// reads from.
func (in *Interpreter) nextToken() ErrorCode {
	switch in.mode {
	case ModeINT:
		return in.scanInteractive()
	default:
		return in.scanStored()
	}
}

// --- interactive scanning -------------------------------------------------

func (in *Interpreter) peekByte() (byte, bool) {
	if in.bi >= len(in.ibuffer) {
		return 0, false
	}
	return in.ibuffer[in.bi], true
}

func (in *Interpreter) peekByteAt(off int) (byte, bool) {
	i := in.bi + off
	if i >= len(in.ibuffer) {
		return 0, false
	}
	return in.ibuffer[i], true
}

func isDigit(c byte) bool  { return c >= '0' && c <= '9' }
func isLetter(c byte) bool { return c >= 'A' && c <= 'Z' }

func (in *Interpreter) skipSpace() {
	for {
		c, ok := in.peekByte()
		if !ok || c != ' ' {
			return
		}
		in.bi++
	}
}

func (in *Interpreter) scanInteractive() ErrorCode {
	in.skipSpace()
	c, ok := in.peekByte()
	if !ok {
		in.token = Token{code: codeEOL}
		return ErrNone
	}

	switch {
	case isDigit(c):
		return in.scanNumberInteractive()
	case isLetter(c) || c == pseudoMarker:
		return in.scanIdentifierInteractive()
	case c == '"':
		return in.scanStringInteractive()
	default:
		return in.scanOperatorInteractive()
	}
}

// scanNumberInteractive reads a run of decimal digits (and one optional
// '.' followed by more digits) into a NUMBER token. The '.' is accepted
// in both builds; the integer build truncates the fraction.
func (in *Interpreter) scanNumberInteractive() ErrorCode {
	start := in.bi
	for {
		c, ok := in.peekByte()
		if !ok || !isDigit(c) {
			break
		}
		in.bi++
	}
	if c, ok := in.peekByte(); ok && c == '.' {
		in.bi++
		for {
			c, ok := in.peekByte()
			if !ok || !isDigit(c) {
				break
			}
			in.bi++
		}
	}
	text := in.ibuffer[start:in.bi]
	f, err := parseDecimal(text)
	if err != ErrNone {
		return in.raise(err)
	}
	in.token = Token{code: codeNumber, num: f}
	return ErrNone
}

// parseDecimal converts a scanned digit run to Number without pulling
// in strconv's float parsing machinery for the common integer path.
// Any character other than digits and one '.' yields ErrNumber.
func parseDecimal(text string) (Number, ErrorCode) {
	intPart := text
	fracPart := ""
	if i := strings.IndexByte(text, '.'); i >= 0 {
		intPart, fracPart = text[:i], text[i+1:]
	}
	var whole int64
	for i := 0; i < len(intPart); i++ {
		if !isDigit(intPart[i]) {
			return 0, ErrNumber
		}
		whole = whole*10 + int64(intPart[i]-'0')
	}
	if fracPart == "" {
		return Number(whole), ErrNone
	}
	var frac float64
	var scale float64 = 1
	for i := 0; i < len(fracPart); i++ {
		if !isDigit(fracPart[i]) {
			return 0, ErrNumber
		}
		scale /= 10
		frac += float64(fracPart[i]-'0') * scale
	}
	return numberFromFloat(float64(whole) + frac), ErrNone
}

// scanIdentifierInteractive reads an '@'-pseudo name or a run of
// letters, resolving it to a keyword, a scalar variable, an array
// variable or a string variable per the lookahead rule in keywords.go.
func (in *Interpreter) scanIdentifierInteractive() ErrorCode {
	start := in.bi
	if c, _ := in.peekByte(); c == pseudoMarker {
		in.bi++
		var name2 byte
		if c2, ok := in.peekByte(); ok && isLetter(c2) {
			name2 = c2
			in.bi++
		}
		return in.finishVariable(pseudoMarker, name2)
	}

	for {
		c, ok := in.peekByte()
		if !ok || !isLetter(c) {
			break
		}
		in.bi++
	}
	word := in.ibuffer[start:in.bi]

	for _, kw := range keywordTable {
		if kw.text == word {
			in.token = Token{code: kw.code}
			return ErrNone
		}
	}

	name1 := word[0]
	var name2 byte
	switch {
	case len(word) > 1:
		// Words longer than a single letter truncate to the first two
		// characters; variable names are at most two characters.
		name2 = word[1]
		in.bi = start + 2
	default:
		// A lone letter may be followed by one digit, naming a
		// two-character static variable (A0, A1, ...) that allocates
		// on the heap instead of the static table, per spec.md §3.
		if c, ok := in.peekByte(); ok && isDigit(c) {
			name2 = c
			in.bi++
		}
	}
	return in.finishVariable(name1, name2)
}

// finishVariable classifies a scanned name (name1, and an optional
// second character name2, 0 meaning none) as scalar, array or string,
// by looking at what immediately follows it.
func (in *Interpreter) finishVariable(name1, name2 byte) ErrorCode {
	isString := false
	if c, ok := in.peekByte(); ok && c == '$' {
		isString = true
		in.bi++
	}

	code := codeVariable
	switch {
	case isString:
		code = codeStringVar
	default:
		if c, ok := in.peekByte(); ok && c == '(' {
			code = codeArrayVar
		}
	}
	in.token = Token{code: code, name1: name1, name2: name2}
	return ErrNone
}

func (in *Interpreter) scanStringInteractive() ErrorCode {
	in.bi++ // opening quote
	start := in.bi
	for {
		c, ok := in.peekByte()
		if !ok {
			return in.raise(ErrString)
		}
		if c == '"' {
			break
		}
		in.bi++
	}
	text := in.ibuffer[start:in.bi]
	in.bi++ // closing quote
	if len(text) > 255 {
		return in.raise(ErrString)
	}
	in.token = Token{code: codeString, str: text}
	return ErrNone
}

func (in *Interpreter) scanOperatorInteractive() ErrorCode {
	c, _ := in.peekByte()
	c2, hasC2 := in.peekByteAt(1)
	switch {
	case c == '>' && hasC2 && c2 == '=':
		in.bi += 2
		in.token = Token{code: codeGreaterEqual}
	case c == '<' && hasC2 && c2 == '=':
		in.bi += 2
		in.token = Token{code: codeLessEqual}
	case c == '<' && hasC2 && c2 == '>':
		in.bi += 2
		in.token = Token{code: codeNotEqual}
	default:
		in.bi++
		in.token = Token{code: Code(c)}
	}
	return ErrNone
}

// --- stored (tokenized) scanning ------------------------------------------

// readStoredByte abstracts "the program store" vs "the EEPROM image" so
// ModeRUN and ModeERUN share one decode path.
func (in *Interpreter) readStoredByte(off uint16) byte {
	if in.mode == ModeERUN {
		return byte(in.eeprom.readByte(int(off)))
	}
	return byte(in.store.read8(off))
}

// storedLimit is the address one past the last valid token byte for
// the current mode: store.top in ModeRUN, the stored program's length
// (eeprom.top(), not the image's capacity) in ModeERUN. The store never persists an explicit EOL tag (program.go's
// storeLine relies on the next LINENUMBER, or this limit, to end a
// line), so scanStored synthesizes one here instead of reading past it.
func (in *Interpreter) storedLimit() uint16 {
	if in.mode == ModeERUN {
		return in.eeprom.top()
	}
	return in.store.top
}

// scanStored decodes the token beginning at in.here, per the tag
// scheme in encode.go, and advances in.here past it.
func (in *Interpreter) scanStored() ErrorCode {
	if in.here >= in.storedLimit() {
		in.token = Token{code: codeEOL}
		return ErrNone
	}
	tag := in.readStoredByte(in.here)
	code := codeForTag(tag)
	tok := Token{code: code}

	switch tag {
	case tagLineNumber:
		lo := uint16(in.readStoredByte(in.here + 1))
		hi := uint16(in.readStoredByte(in.here + 2))
		tok.line = lo | hi<<8
		in.here += 3
	case tagNumber:
		var bits uint32
		for i := 0; i < NumberSize; i++ {
			bits |= uint32(in.readStoredByte(in.here+1+uint16(i))) << (8 * i)
		}
		tok.num = numberFromBits(bits)
		in.here += 1 + NumberSize
	case tagString:
		length := int(in.readStoredByte(in.here + 1))
		buf := make([]byte, length)
		for i := 0; i < length; i++ {
			buf[i] = in.readStoredByte(in.here + 2 + uint16(i))
		}
		tok.str = string(buf)
		in.here += uint16(2 + length)
	case tagVariable, tagArrayVar, tagStringVar:
		tok.name1 = in.readStoredByte(in.here + 1)
		tok.name2 = in.readStoredByte(in.here + 2)
		in.here += 3
	default:
		in.here++
	}

	in.token = tok
	return ErrNone
}
