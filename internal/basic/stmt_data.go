package basic

// LET (explicit and implicit), DIM, CLR, NEW and POKE.

func (in *Interpreter) stmtLet() ErrorCode {
	if err := in.nextToken(); err != ErrNone {
		return err
	}
	return in.assignment()
}

func (in *Interpreter) stmtImplicitLet() ErrorCode {
	return in.assignment()
}

// assignment dispatches on the shape of the assignment target: plain
// scalar, array element, or string variable (whole or sliced), per
// spec.md §4.F.
func (in *Interpreter) assignment() ErrorCode {
	switch in.token.code {
	case codeVariable:
		return in.assignScalar()
	case codeArrayVar:
		return in.assignArray()
	case codeStringVar:
		return in.assignString()
	default:
		return in.raise(ErrUnknown)
	}
}

func (in *Interpreter) expectAndSkip(code Code) ErrorCode {
	if in.token.code != code {
		return in.raise(ErrUnknown)
	}
	return in.nextToken()
}

func (in *Interpreter) assignScalar() ErrorCode {
	key := in.token.key()
	if err := in.nextToken(); err != ErrNone {
		return err
	}
	if err := in.expectAndSkip(Code('=')); err != ErrNone {
		return err
	}
	if err := in.evalExpression(); err != ErrNone {
		return err
	}
	v := in.pop()
	if v.isStr {
		return in.raise(ErrNumber)
	}
	return in.setScalar(key, v.num)
}

func (in *Interpreter) assignArray() ErrorCode {
	tok := in.token
	if err := in.nextToken(); err != ErrNone {
		return err
	}
	if err := in.expectAndSkip(Code('(')); err != ErrNone {
		return err
	}
	if err := in.evalExpression(); err != ErrNone {
		return err
	}
	idx := in.pop()
	if idx.isStr {
		return in.raise(ErrRange)
	}
	if err := in.expectAndSkip(Code(')')); err != ErrNone {
		return err
	}
	if err := in.expectAndSkip(Code('=')); err != ErrNone {
		return err
	}
	if err := in.evalExpression(); err != ErrNone {
		return err
	}
	v := in.pop()
	if v.isStr {
		return in.raise(ErrNumber)
	}
	if tok.name1 == pseudoMarker {
		return in.setPseudoArray(tok.name2, int(idx.num), v.num)
	}
	addr, err := in.arrayAddr(tok.name1, tok.name2)
	if err != ErrNone {
		return err
	}
	return in.setArray(addr, int(idx.num), v.num)
}

// assignString implements STRINGVAR = expr and the Apple-1/Stefan
// substring form STRINGVAR(lo,hi) = expr, per spec.md §4.F and §8's
// extension-flag scenario.
func (in *Interpreter) assignString() ErrorCode {
	tok := in.token
	if err := in.nextToken(); err != ErrNone {
		return err
	}

	hasSlice := false
	var lo, hi int
	if in.token.code == Code('(') {
		hasSlice = true
		if err := in.nextToken(); err != ErrNone {
			return err
		}
		if err := in.evalExpression(); err != ErrNone {
			return err
		}
		loVal := in.pop()
		hiVal := loVal
		if in.token.code == Code(',') {
			if err := in.nextToken(); err != ErrNone {
				return err
			}
			if err := in.evalExpression(); err != ErrNone {
				return err
			}
			hiVal = in.pop()
		}
		if err := in.expectAndSkip(Code(')')); err != ErrNone {
			return err
		}
		lo, hi = int(loVal.num), int(hiVal.num)
	}

	if err := in.expectAndSkip(Code('=')); err != ErrNone {
		return err
	}
	if err := in.evalExpression(); err != ErrNone {
		return err
	}
	v := in.pop()
	if !v.isStr {
		return in.raise(ErrString)
	}

	addr, err := in.stringAddr(tok.name1, tok.name2, len(v.str))
	if err != ErrNone {
		return err
	}

	if !hasSlice {
		_, err := in.setString(tok.name1, tok.name2, addr, v.str)
		return err
	}

	full := in.getString(addr)
	if lo < 0 || hi < lo {
		return in.raise(ErrRange)
	}
	var next string
	if in.stefanExtension {
		// Grows or shrinks the string to fit v.str exactly into
		// [lo,hi], per spec.md §8's "Stefan extension" scenario.
		if lo > len(full) {
			lo = len(full)
		}
		end := hi + 1
		if end > len(full) {
			end = len(full)
		}
		next = full[:lo] + v.str + full[end:]
	} else {
		// Truncates: only overwrites within the existing length,
		// never growing the string.
		if lo >= len(full) {
			return in.raise(ErrRange)
		}
		end := hi + 1
		if end > len(full) {
			end = len(full)
		}
		fit := v.str
		if len(fit) > end-lo {
			fit = fit[:end-lo]
		}
		next = full[:lo] + fit + full[lo+len(fit):]
	}
	_, err = in.setString(tok.name1, tok.name2, addr, next)
	return err
}

// stmtDim implements DIM name(n) [, name(n)]*.
func (in *Interpreter) stmtDim() ErrorCode {
	if err := in.nextToken(); err != ErrNone {
		return err
	}
	for {
		if in.token.code != codeArrayVar {
			return in.raise(ErrUnknown)
		}
		name1, name2 := in.token.name1, in.token.name2
		if err := in.nextToken(); err != ErrNone {
			return err
		}
		if err := in.expectAndSkip(Code('(')); err != ErrNone {
			return err
		}
		if err := in.evalExpression(); err != ErrNone {
			return err
		}
		n := in.pop()
		if n.isStr || n.num < 0 {
			return in.raise(ErrRange)
		}
		if err := in.expectAndSkip(Code(')')); err != ErrNone {
			return err
		}
		if err := in.dimArray(name1, name2, int(n.num)); err != ErrNone {
			return err
		}
		if in.token.code != Code(',') {
			break
		}
		if err := in.nextToken(); err != ErrNone {
			return err
		}
	}
	return ErrNone
}

func (in *Interpreter) stmtClr() ErrorCode {
	in.clr()
	return in.nextToken()
}

// stmtNew is one of the control-transferring handlers: it resets the
// whole interpreter and does not return through the ordinary
// execStatements loop.
func (in *Interpreter) stmtNew() ErrorCode {
	in.newProgram()
	in.token = Token{code: codeEOL}
	return ErrNone
}

func (in *Interpreter) stmtPoke() ErrorCode {
	if err := in.nextToken(); err != ErrNone {
		return err
	}
	if err := in.evalExpression(); err != ErrNone {
		return err
	}
	addr := in.pop()
	if err := in.expectAndSkip(Code(',')); err != ErrNone {
		return err
	}
	if err := in.evalExpression(); err != ErrNone {
		return err
	}
	v := in.pop()
	if addr.isStr || v.isStr {
		return in.raise(ErrNumber)
	}
	in.poke(addr.num, v.num)
	return in.nextToken()
}
