package basic

import "fmt"

// Component F: the statement executor. statementTable is a flat
// dispatch keyed by the leading token's code, mirroring the teacher's
// CPU.table [256]func(*stepInfo) uint16 opcode dispatch (internal/cpu)
// generalized from a fixed byte-indexed array to a map over Code's
// wider keyword band. Every handler's last action is nextToken() to
// leave the look-ahead on the token following the statement, except
// END/STOP/NEW/RUN/LOAD/CONT, which hand control to a different
// resumption point entirely and so never return to the caller's loop
// in the ordinary way.
var statementTable map[Code]func(*Interpreter) ErrorCode

func init() {
	statementTable = map[Code]func(*Interpreter) ErrorCode{
		kwPRINT:  (*Interpreter).stmtPrint,
		kwLET:    (*Interpreter).stmtLet,
		kwINPUT:  (*Interpreter).stmtInput,
		kwGOTO:   (*Interpreter).stmtGoto,
		kwGOSUB:  (*Interpreter).stmtGosub,
		kwRETURN: (*Interpreter).stmtReturn,
		kwIF:     (*Interpreter).stmtIf,
		kwFOR:    (*Interpreter).stmtFor,
		kwNEXT:   (*Interpreter).stmtNext,
		kwBREAK:  (*Interpreter).stmtBreak,
		kwSTOP:   (*Interpreter).stmtStop,
		kwEND:    (*Interpreter).stmtEnd,
		kwLIST:   (*Interpreter).stmtList,
		kwNEW:    (*Interpreter).stmtNew,
		kwRUN:    (*Interpreter).stmtRun,
		kwCONT:   (*Interpreter).stmtCont,
		kwCLR:    (*Interpreter).stmtClr,
		kwDIM:    (*Interpreter).stmtDim,
		kwREM:    (*Interpreter).stmtRem,
		kwSAVE:   (*Interpreter).stmtSave,
		kwLOAD:   (*Interpreter).stmtLoad,
		kwPOKE:   (*Interpreter).stmtPoke,
	}
}

// execStatement dispatches one statement starting at the current
// look-ahead token.
func (in *Interpreter) execStatement() ErrorCode {
	tok := in.token
	if handler, ok := statementTable[tok.code]; ok {
		return handler(in)
	}
	switch tok.code {
	case codeVariable, codeArrayVar, codeStringVar:
		return in.stmtImplicitLet()
	default:
		return in.raise(ErrUnknown)
	}
}

// execStatements runs statements (separated by ':') starting at the
// current look-ahead token until EOL, chaining across LINENUMBER
// boundaries in ModeRUN/ModeERUN so one call drives an entire program,
// and GOTO/GOSUB simply repoint in.here before the next iteration.
func (in *Interpreter) execStatements() ErrorCode {
	for {
		if in.token.code == codeLineNumber {
			if err := in.nextToken(); err != ErrNone {
				return err
			}
			continue
		}
		if in.token.isEOL() {
			return ErrNone
		}
		if err := in.execStatement(); err != ErrNone {
			return err
		}
		if in.breakRequested {
			in.breakRequested = false
			return in.raise(ErrUnknown)
		}
		if in.token.code == Code(':') {
			if err := in.nextToken(); err != ErrNone {
				return err
			}
			continue
		}
	}
}

// SubmitLine is the REPL's entry point (internal/replio calls this for
// every line the user types): a leading line number stores or deletes
// a program line; anything else executes immediately, per spec.md §4.
func (in *Interpreter) SubmitLine(line string) {
	in.ibuffer = line
	in.bi = 0
	in.mode = ModeINT
	in.skipSpace()
	if c, ok := in.peekByte(); ok && isDigit(c) {
		if err := in.storeProgramLine(); err != ErrNone {
			in.reportError(err)
		}
		return
	}
	if err := in.runImmediate(); err != ErrNone {
		in.reportError(err)
	}
}

// storeProgramLine tokenizes ibuffer as LINENUMBER followed by a
// statement list and hands the result to storeLine (program.go).
func (in *Interpreter) storeProgramLine() ErrorCode {
	newline := in.store.top

	start := in.bi
	for {
		c, ok := in.peekByte()
		if !ok || !isDigit(c) {
			break
		}
		in.bi++
	}
	numText := in.ibuffer[start:in.bi]
	var n uint16
	for i := 0; i < len(numText); i++ {
		n = n*10 + uint16(numText[i]-'0')
	}
	in.token = Token{code: codeLineNumber, line: n}
	if err := in.storeToken(); err != ErrNone {
		in.store.top = newline
		return err
	}

	for {
		if err := in.nextToken(); err != ErrNone {
			in.store.top = newline
			return err
		}
		if in.token.isEOL() {
			break
		}
		if err := in.storeToken(); err != ErrNone {
			in.store.top = newline
			return err
		}
	}

	return in.storeLine(newline)
}

// runImmediate executes ibuffer directly (no line number), per §4.F.
func (in *Interpreter) runImmediate() ErrorCode {
	if err := in.nextToken(); err != ErrNone {
		return err
	}
	return in.execStatements()
}

// stmtRun implements RUN: CLR, then execute the whole program from its
// first line. It is one of the handlers that never returns through the
// ordinary execStatements loop — it drives its own to completion (or
// to an error, which unwinds back to SubmitLine/cmd/pabasic).
func (in *Interpreter) stmtRun() ErrorCode {
	in.clr()
	in.mode = ModeRUN
	in.here = 0
	in.runFrom = 0
	if err := in.nextToken(); err != ErrNone {
		in.mode = ModeINT
		return err
	}
	err := in.execStatements()
	if err == ErrNone {
		in.mode = ModeINT
	}
	// On error, mode is left at ModeRUN so reportError (called by
	// SubmitLine, which is the only caller of this path) can still
	// resolve in.here back to a line number.
	return err
}

// runEEPROM is ERUN's entry point (Boot in eeprom.go calls this when
// the image's autorun flag is set, per spec.md §6).
func (in *Interpreter) runEEPROM() ErrorCode {
	in.clr()
	in.mode = ModeERUN
	in.here = 0
	if err := in.nextToken(); err != ErrNone {
		in.mode = ModeINT
		return err
	}
	err := in.execStatements()
	if err == ErrNone {
		in.mode = ModeINT
	}
	return err
}

// stmtCont resumes a RUN stopped by STOP or BREAK, per spec.md §4.F.
func (in *Interpreter) stmtCont() ErrorCode {
	in.mode = ModeRUN
	if err := in.nextToken(); err != ErrNone {
		in.mode = ModeINT
		return err
	}
	if in.token.code == Code(':') {
		if err := in.nextToken(); err != ErrNone {
			in.mode = ModeINT
			return err
		}
	}
	err := in.execStatements()
	if err == ErrNone {
		in.mode = ModeINT
	}
	return err
}

// stmtEnd and stmtStop both halt a running program by replacing the
// look-ahead with EOL, so execStatements returns. END also moves
// in.here to the end of the program, leaving nothing for CONT; STOP
// leaves in.here just past the STOP keyword, so CONT resumes with the
// statement that follows it (§4.F).
func (in *Interpreter) stmtEnd() ErrorCode {
	in.here = in.storedLimit()
	in.token = Token{code: codeEOL}
	return ErrNone
}

func (in *Interpreter) stmtStop() ErrorCode {
	fmt.Fprintf(in.chars, "BREAK IN %d\n", in.currentLineOrZero())
	in.token = Token{code: codeEOL}
	return ErrNone
}

func (in *Interpreter) currentLineOrZero() uint16 {
	if line, ok := in.myLine(in.here); ok {
		return line
	}
	return 0
}

func (in *Interpreter) stmtRem() ErrorCode {
	// Skip to end of line: REM's argument is uninterpreted text, which
	// in run mode is still made of real tokens (numbers/operators/
	// keywords), so just fast-forward the look-ahead.
	return in.skipToEndOfLine()
}
