package basic

import (
	"fmt"
	"strings"
)

// PRINT, INPUT, LIST, SAVE and LOAD.

// stmtPrint implements PRINT [expr [,|; expr]...] [,|;], fanning
// output through the currently selected sinks (vars.go's @O), per
// spec.md §4.F/§4.G.
func (in *Interpreter) stmtPrint() ErrorCode {
	if err := in.nextToken(); err != ErrNone {
		return err
	}
	emit := func(s string) {
		for i := 0; i < len(s); i++ {
			in.chars.WriteChar(in.outSel, s[i])
		}
	}
	trailingSep := true
	for !in.token.isEOL() && in.token.code != Code(':') && in.token.code != codeLineNumber {
		trailingSep = false
		if in.token.code == Code(',') || in.token.code == Code(';') {
			sep := in.token.code
			if err := in.nextToken(); err != ErrNone {
				return err
			}
			if sep == Code(',') {
				emit("\t")
			}
			trailingSep = true
			continue
		}
		if err := in.evalExpression(); err != ErrNone {
			return err
		}
		v := in.pop()
		if v.isStr {
			emit(v.str)
		} else {
			emit(formatNumber(v.num))
		}
	}
	if !trailingSep {
		emit("\n")
	}
	return ErrNone
}

func formatNumber(n Number) string {
	return fmt.Sprintf("%v", n)
}

// stmtInput implements INPUT [prompt$,] var [, var]*, per spec.md §4.F:
// read one line from the current input sink and assign comma-separated
// fields positionally, re-prompting on a field-count mismatch.
func (in *Interpreter) stmtInput() ErrorCode {
	if err := in.nextToken(); err != ErrNone {
		return err
	}
	prompt := "? "
	if in.token.code == codeString {
		prompt = in.token.str
		if err := in.nextToken(); err != ErrNone {
			return err
		}
		if err := in.expectAndSkip(Code(',')); err != ErrNone {
			return err
		}
	}

	var targets []Token
	for {
		switch in.token.code {
		case codeVariable, codeStringVar:
			targets = append(targets, in.token)
		default:
			return in.raise(ErrUnknown)
		}
		if err := in.nextToken(); err != ErrNone {
			return err
		}
		if in.token.code != Code(',') {
			break
		}
		if err := in.nextToken(); err != ErrNone {
			return err
		}
	}

	for {
		fmt.Fprint(in.chars, prompt)
		line, _ := in.chars.ReadLine()
		fields := strings.Split(line, ",")
		if len(fields) != len(targets) {
			fmt.Fprint(in.chars, "?REENTER\n")
			continue
		}
		for i, tok := range targets {
			field := strings.TrimSpace(fields[i])
			if tok.code == codeStringVar {
				addr, err := in.stringAddr(tok.name1, tok.name2, len(field))
				if err != ErrNone {
					return err
				}
				if _, err := in.setString(tok.name1, tok.name2, addr, field); err != ErrNone {
					return err
				}
				continue
			}
			n, code := parseDecimal(field)
			if code != ErrNone {
				fmt.Fprint(in.chars, "?REENTER\n")
				return in.stmtInputRetry(targets)
			}
			if err := in.setScalar(tok.key(), n); err != ErrNone {
				return err
			}
		}
		break
	}
	return ErrNone
}

// stmtInputRetry re-runs the read loop for a bad numeric field without
// re-parsing the variable list from the token stream a second time.
func (in *Interpreter) stmtInputRetry(targets []Token) ErrorCode {
	for {
		fmt.Fprint(in.chars, "? ")
		line, _ := in.chars.ReadLine()
		fields := strings.Split(line, ",")
		if len(fields) != len(targets) {
			fmt.Fprint(in.chars, "?REENTER\n")
			continue
		}
		ok := true
		values := make([]Number, len(targets))
		for i, tok := range targets {
			if tok.code == codeStringVar {
				continue
			}
			n, code := parseDecimal(strings.TrimSpace(fields[i]))
			if code != ErrNone {
				ok = false
				break
			}
			values[i] = n
		}
		if !ok {
			fmt.Fprint(in.chars, "?REENTER\n")
			continue
		}
		for i, tok := range targets {
			if tok.code == codeStringVar {
				field := strings.TrimSpace(fields[i])
				addr, err := in.stringAddr(tok.name1, tok.name2, len(field))
				if err != ErrNone {
					return err
				}
				if _, err := in.setString(tok.name1, tok.name2, addr, field); err != ErrNone {
					return err
				}
				continue
			}
			if err := in.setScalar(tok.key(), values[i]); err != ErrNone {
				return err
			}
		}
		return ErrNone
	}
}

// renderLine decodes the tokenized line at addr back into listing
// text, without disturbing the interpreter's own look-ahead/cursor
// state (LIST must work mid-RUN under CONT).
func (in *Interpreter) renderLine(addr uint16, limit uint16) string {
	var b strings.Builder
	fmt.Fprintf(&b, "%d ", in.lineNumberAt(addr))
	pos := addr + 3
	for pos < limit {
		tag := byte(in.store.read8(pos))
		if tag == tagLineNumber {
			break
		}
		switch tag {
		case tagNumber:
			n := in.store.readNum(pos + 1)
			b.WriteString(formatNumber(n))
			pos += 1 + NumberSize
		case tagString:
			length := int(uint8(in.store.read8(pos + 1)))
			buf := make([]byte, length)
			for i := 0; i < length; i++ {
				buf[i] = byte(in.store.read8(pos + 2 + uint16(i)))
			}
			fmt.Fprintf(&b, "%q", string(buf))
			pos += uint16(2 + length)
		case tagVariable, tagArrayVar, tagStringVar:
			n1 := byte(in.store.read8(pos + 1))
			n2 := byte(in.store.read8(pos + 2))
			b.WriteByte(n1)
			if n2 != 0 {
				b.WriteByte(n2)
			}
			if tag == tagStringVar {
				b.WriteByte('$')
			}
			pos += 3
		case tagGreaterEqual:
			b.WriteString(">=")
			pos++
		case tagLessEqual:
			b.WriteString("<=")
			pos++
		case tagNotEqual:
			b.WriteString("<>")
			pos++
		default:
			if idx, ok := keywordIndexOf(codeForTag(tag)); ok {
				b.WriteByte(' ')
				b.WriteString(keywordTable[idx].text)
				b.WriteByte(' ')
			} else {
				b.WriteByte(tag)
			}
			pos++
		}
	}
	return b.String()
}

// stmtList implements LIST [start[,end]], per spec.md §4.F.
func (in *Interpreter) stmtList() ErrorCode {
	if err := in.nextToken(); err != ErrNone {
		return err
	}
	var from, to uint16 = 0, 65535
	if in.token.code == codeNumber {
		from = uint16(in.token.num)
		to = from
		if err := in.nextToken(); err != ErrNone {
			return err
		}
		if in.token.code == Code(',') {
			if err := in.nextToken(); err != ErrNone {
				return err
			}
			if in.token.code == codeNumber {
				to = uint16(in.token.num)
				if err := in.nextToken(); err != ErrNone {
					return err
				}
			} else {
				to = 65535
			}
		}
	}

	limit := in.store.top
	addr, ok := in.firstLine()
	for ok {
		n := in.lineNumberAt(addr)
		if n >= from && n <= to {
			fmt.Fprintln(in.chars, in.renderLine(addr, limit))
			if in.chars.WaitOnScroll() {
				break
			}
		}
		addr, ok = in.nextLine(addr)
	}
	return ErrNone
}

// listing renders the whole program as SAVE's text form.
func (in *Interpreter) listing() string {
	var lines []string
	limit := in.store.top
	addr, ok := in.firstLine()
	for ok {
		lines = append(lines, in.renderLine(addr, limit))
		addr, ok = in.nextLine(addr)
	}
	return strings.Join(lines, "\n")
}

// stmtSave implements SAVE ["name"[,autorun]]: "!" or no name targets
// the EEPROM image (§6); anything else goes through StorePort.
func (in *Interpreter) stmtSave() ErrorCode {
	if err := in.nextToken(); err != ErrNone {
		return err
	}
	name := "!"
	if in.token.code == codeString {
		name = in.token.str
		if err := in.nextToken(); err != ErrNone {
			return err
		}
	}
	autorun := false
	if in.token.code == Code(',') {
		if err := in.nextToken(); err != ErrNone {
			return err
		}
		if err := in.evalExpression(); err != ErrNone {
			return err
		}
		autorun = truthy(in.pop())
	}

	if name == "!" {
		prog := make([]byte, in.store.top)
		for i := range prog {
			prog[i] = byte(in.store.read8(uint16(i)))
		}
		in.eeprom.store(prog, autorun)
		return ErrNone
	}
	if in.files == nil {
		in.ert = ErrFile
		return ErrNone
	}
	if err := in.files.ProgSave(name, in.listing()); err != nil {
		in.ert = ErrFile
	}
	return ErrNone
}

// stmtLoad implements LOAD ["name"]: the counterpart of SAVE. It is
// one of the control-transferring handlers — a successful load
// replaces the whole program store, so it does not return through the
// ordinary execStatements loop.
func (in *Interpreter) stmtLoad() ErrorCode {
	if err := in.nextToken(); err != ErrNone {
		return err
	}
	name := "!"
	if in.token.code == codeString {
		name = in.token.str
	}
	in.token = Token{code: codeEOL}

	if name == "!" {
		in.newProgram()
		n := in.eeprom.top()
		for i := 0; i < int(n); i++ {
			in.store.write8(uint16(i), in.eeprom.readByte(i))
		}
		in.store.top = n
		return ErrNone
	}
	if in.files == nil {
		in.ert = ErrFile
		return ErrNone
	}
	text, err := in.files.ProgLoad(name)
	if err != nil {
		in.ert = ErrFile
		return ErrNone
	}
	return in.LoadListing(text)
}

// LoadListing tokenizes a multi-line program listing (as a file on
// disk would contain) and replaces the current program with it, per
// line, via the same editor storeProgramLine uses interactively.
// cmd/pabasic's --load flag and stmtLoad's named-file branch both call
// this.
func (in *Interpreter) LoadListing(text string) ErrorCode {
	in.newProgram()
	for _, ln := range strings.Split(text, "\n") {
		if strings.TrimSpace(ln) == "" {
			continue
		}
		in.ibuffer, in.bi, in.mode = ln, 0, ModeINT
		in.skipSpace()
		if ec := in.storeProgramLine(); ec != ErrNone {
			return ec
		}
	}
	return ErrNone
}
