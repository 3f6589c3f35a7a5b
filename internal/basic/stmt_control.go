package basic

// GOTO, GOSUB, RETURN, IF, FOR, NEXT and the BREAK statement.

func (in *Interpreter) gotoLine() ErrorCode {
	if err := in.nextToken(); err != ErrNone {
		return err
	}
	if err := in.evalExpression(); err != ErrNone {
		return err
	}
	v := in.pop()
	if v.isStr {
		return in.raise(ErrLineUnknown)
	}
	addr, err := in.findLine(uint16(v.num))
	if err != ErrNone {
		return err
	}
	in.here = addr
	in.mode = ModeRUN
	return in.nextToken()
}

func (in *Interpreter) stmtGoto() ErrorCode {
	return in.gotoLine()
}

func (in *Interpreter) stmtGosub() ErrorCode {
	if len(in.gosubSt) >= GosubDepth {
		return in.raise(ErrGosub)
	}
	if err := in.nextToken(); err != ErrNone {
		return err
	}
	if err := in.evalExpression(); err != ErrNone {
		return err
	}
	v := in.pop()
	if v.isStr {
		return in.raise(ErrLineUnknown)
	}
	target, err := in.findLine(uint16(v.num))
	if err != ErrNone {
		return err
	}
	if err := in.nextToken(); err != ErrNone {
		return err
	}
	in.gosubSt = append(in.gosubSt, in.capture())
	in.here = target
	in.mode = ModeRUN
	return in.nextToken()
}

func (in *Interpreter) stmtReturn() ErrorCode {
	if len(in.gosubSt) == 0 {
		return in.raise(ErrReturn)
	}
	r := in.gosubSt[len(in.gosubSt)-1]
	in.gosubSt = in.gosubSt[:len(in.gosubSt)-1]
	in.resume(r)
	return ErrNone
}

// stmtIf implements IF cond THEN stmts: the rest of the line runs only
// if cond is truthy, else the whole line is skipped (no ELSE in this
// dialect, per spec.md §4.F).
func (in *Interpreter) stmtIf() ErrorCode {
	if err := in.nextToken(); err != ErrNone {
		return err
	}
	if err := in.evalExpression(); err != ErrNone {
		return err
	}
	cond := in.pop()
	if in.token.code != kwTHEN {
		return in.raise(ErrUnknown)
	}
	if err := in.nextToken(); err != ErrNone {
		return err
	}
	if !truthy(cond) {
		return in.skipToEndOfLine()
	}
	// A bare line number after THEN is sugar for THEN GOTO line.
	if in.token.code == codeNumber {
		n := in.token.num
		addr, err := in.findLine(uint16(n))
		if err != ErrNone {
			return err
		}
		in.here = addr
		in.mode = ModeRUN
		return in.nextToken()
	}
	return ErrNone
}

// skipToEndOfLine discards look-ahead tokens without executing them,
// used by IF's false branch.
func (in *Interpreter) skipToEndOfLine() ErrorCode {
	for !in.token.isEOL() {
		if in.token.code == codeLineNumber {
			return ErrNone
		}
		if err := in.nextToken(); err != ErrNone {
			return err
		}
	}
	return ErrNone
}

// stmtFor implements FOR v = start TO limit [STEP step]. The loop
// variable is an ordinary static/pseudo scalar; forSt remembers the
// resumption point (the token right after the FOR header) the way
// gosubSt remembers GOSUB's, per spec.md §4.F.
func (in *Interpreter) stmtFor() ErrorCode {
	if len(in.forSt) >= ForDepth {
		return in.raise(ErrFor)
	}
	if err := in.nextToken(); err != ErrNone {
		return err
	}
	key, isVar := in.variableTarget()
	if !isVar {
		return in.raise(ErrUnknown)
	}
	if in.token.code != Code('=') {
		return in.raise(ErrUnknown)
	}
	if err := in.nextToken(); err != ErrNone {
		return err
	}
	if err := in.evalExpression(); err != ErrNone {
		return err
	}
	start := in.pop()
	if start.isStr {
		return in.raise(ErrNumber)
	}
	if err := in.setScalar(key, start.num); err != ErrNone {
		return err
	}

	if in.token.code != kwTO {
		return in.raise(ErrUnknown)
	}
	if err := in.nextToken(); err != ErrNone {
		return err
	}
	if err := in.evalExpression(); err != ErrNone {
		return err
	}
	limit := in.pop()
	if limit.isStr {
		return in.raise(ErrNumber)
	}

	step := Number(1)
	if in.token.code == kwSTEP {
		if err := in.nextToken(); err != ErrNone {
			return err
		}
		if err := in.evalExpression(); err != ErrNone {
			return err
		}
		sv := in.pop()
		if sv.isStr {
			return in.raise(ErrNumber)
		}
		step = sv.num
	}

	// Entry test, per spec.md §4.F: if the loop would never execute
	// (step>0 and v>limit, or step<0 and v<limit), the body is skipped
	// entirely by scanning forward for the matching NEXT rather than
	// running it once and relying on stmtNext to catch it.
	if (step > 0 && start.num > limit.num) || (step < 0 && start.num < limit.num) {
		return in.skipForBody()
	}

	ret := in.capture()
	in.forSt = append(in.forSt, forRecord{
		name1: key.name1, name2: key.name2,
		ret:   ret,
		limit: limit.num,
		step:  step,
	})
	return ErrNone
}

// skipForBody scans forward from the current look-ahead (the token
// right after a FOR header whose entry test failed, or the BREAK
// keyword) to the matching
// NEXT, tracking nested FOR/NEXT depth so an inner loop's NEXT doesn't
// satisfy the search, and leaves the look-ahead on the token following
// that NEXT (and its optional variable name) so execution resumes
// there without ever entering the loop body.
func (in *Interpreter) skipForBody() ErrorCode {
	depth := 0
	for {
		if in.token.isEOL() {
			return in.raise(ErrNext)
		}
		switch in.token.code {
		case kwFOR:
			depth++
		case kwNEXT:
			if depth == 0 {
				if err := in.nextToken(); err != ErrNone {
					return err
				}
				if in.token.code == codeVariable {
					return in.nextToken()
				}
				return ErrNone
			}
			depth--
		}
		if err := in.nextToken(); err != ErrNone {
			return err
		}
	}
}

// stmtNext implements NEXT [v]: advance the named (or innermost) loop
// by its step and either jump back to the loop body or pop the frame
// and fall through, per spec.md §4.F.
func (in *Interpreter) stmtNext() ErrorCode {
	if err := in.nextToken(); err != ErrNone {
		return err
	}
	var key variableKey
	hasName := false
	if in.token.code == codeVariable {
		key = in.token.key()
		hasName = true
		if err := in.nextToken(); err != ErrNone {
			return err
		}
	}

	if len(in.forSt) == 0 {
		return in.raise(ErrNext)
	}
	idx := len(in.forSt) - 1
	if hasName {
		found := false
		for i := len(in.forSt) - 1; i >= 0; i-- {
			if in.forSt[i].name1 == key.name1 && in.forSt[i].name2 == key.name2 {
				idx, found = i, true
				break
			}
		}
		if !found {
			return in.raise(ErrNext)
		}
	}
	frame := in.forSt[idx]
	in.forSt = in.forSt[:idx+1]

	cur, _ := in.getScalar(variableKey{frame.name1, frame.name2})
	cur += frame.step
	if err := in.setScalar(variableKey{frame.name1, frame.name2}, cur); err != ErrNone {
		return err
	}

	done := (frame.step >= 0 && cur > frame.limit) || (frame.step < 0 && cur < frame.limit)
	if done {
		in.forSt = in.forSt[:idx]
		return ErrNone
	}
	in.resume(frame.ret)
	return ErrNone
}

// stmtBreak drops out of exactly one level of FOR nesting (the
// simplest of the choices spec.md §9's open question considers,
// documented rather than made configurable — DESIGN.md): it pops the
// innermost FOR record and resumes after that loop's NEXT.
func (in *Interpreter) stmtBreak() ErrorCode {
	if len(in.forSt) > 0 {
		in.forSt = in.forSt[:len(in.forSt)-1]
	}
	return in.skipForBody()
}

// variableTarget reads a variable-shaped token (scalar only — FOR's
// loop control variable is never an array or string) as a key.
func (in *Interpreter) variableTarget() (variableKey, bool) {
	if in.token.code != codeVariable {
		return variableKey{}, false
	}
	k := in.token.key()
	if err := in.nextToken(); err != ErrNone {
		return k, false
	}
	return k, true
}
