package basic

import "strings"

// Component E: the recursive-descent expression evaluator, per
// spec.md §4.E's grammar:
//
//	expression := andTerm (OR andTerm)*
//	andTerm    := notTerm (AND notTerm)*
//	notTerm    := [NOT] compareTerm
//	compareTerm:= addExpr [relop addExpr]
//	addExpr    := [+|-] term ((+|-) term)*
//	term       := factor ((*|/|%) factor)*
//	factor     := NUMBER | STRING | variable | array(i) | stringvar(lo,hi)
//	              | (expression) | builtin(args)
//
// Each level pushes its result onto in.evalStack (StackSize deep, per
// interp.go) rather than returning it directly, so a mid-expression
// ErrStack can be raised the same way the statement executor raises
// errors — mirrored from the teacher's uniform ErrorCode-return
// convention (errors.go).

func (in *Interpreter) push(v stackValue) ErrorCode {
	if len(in.evalStack) >= StackSize {
		return in.raise(ErrStack)
	}
	in.evalStack = append(in.evalStack, v)
	return ErrNone
}

func (in *Interpreter) pop() stackValue {
	v := in.evalStack[len(in.evalStack)-1]
	in.evalStack = in.evalStack[:len(in.evalStack)-1]
	return v
}

// evalExpression parses one expression starting at the current
// look-ahead token and leaves its value on top of in.evalStack.
func (in *Interpreter) evalExpression() ErrorCode {
	if err := in.evalAnd(); err != ErrNone {
		return err
	}
	for in.token.code == kwOR {
		if err := in.nextToken(); err != ErrNone {
			return err
		}
		if err := in.evalAnd(); err != ErrNone {
			return err
		}
		rhs, lhs := in.pop(), in.pop()
		if err := in.push(boolValue(truthy(lhs) || truthy(rhs))); err != ErrNone {
			return err
		}
	}
	return ErrNone
}

func (in *Interpreter) evalAnd() ErrorCode {
	if err := in.evalNot(); err != ErrNone {
		return err
	}
	for in.token.code == kwAND {
		if err := in.nextToken(); err != ErrNone {
			return err
		}
		if err := in.evalNot(); err != ErrNone {
			return err
		}
		rhs, lhs := in.pop(), in.pop()
		if err := in.push(boolValue(truthy(lhs) && truthy(rhs))); err != ErrNone {
			return err
		}
	}
	return ErrNone
}

func (in *Interpreter) evalNot() ErrorCode {
	negate := false
	if in.token.code == kwNOT {
		negate = true
		if err := in.nextToken(); err != ErrNone {
			return err
		}
	}
	if err := in.evalCompare(); err != ErrNone {
		return err
	}
	if negate {
		v := in.pop()
		if err := in.push(boolValue(!truthy(v))); err != ErrNone {
			return err
		}
	}
	return ErrNone
}

func truthy(v stackValue) bool {
	if v.isStr {
		return v.str != ""
	}
	return v.num != 0
}

func boolValue(b bool) stackValue {
	if b {
		return stackValue{num: 1}
	}
	return stackValue{num: 0}
}

func (in *Interpreter) evalCompare() ErrorCode {
	if err := in.evalAddExpr(); err != ErrNone {
		return err
	}
	op := in.token.code
	switch op {
	case Code('='), Code('<'), Code('>'), codeGreaterEqual, codeLessEqual, codeNotEqual:
	default:
		return ErrNone
	}
	if err := in.nextToken(); err != ErrNone {
		return err
	}
	if err := in.evalAddExpr(); err != ErrNone {
		return err
	}
	rhs, lhs := in.pop(), in.pop()
	result, err := compareValues(lhs, rhs, op)
	if err != ErrNone {
		return in.raise(err)
	}
	return in.push(boolValue(result))
}

func compareValues(lhs, rhs stackValue, op Code) (bool, ErrorCode) {
	if lhs.isStr != rhs.isStr {
		return false, ErrString
	}
	var cmp int
	if lhs.isStr {
		cmp = strings.Compare(lhs.str, rhs.str)
	} else {
		switch {
		case lhs.num < rhs.num:
			cmp = -1
		case lhs.num > rhs.num:
			cmp = 1
		}
	}
	switch op {
	case Code('='):
		return cmp == 0, ErrNone
	case Code('<'):
		return cmp < 0, ErrNone
	case Code('>'):
		return cmp > 0, ErrNone
	case codeGreaterEqual:
		return cmp >= 0, ErrNone
	case codeLessEqual:
		return cmp <= 0, ErrNone
	case codeNotEqual:
		return cmp != 0, ErrNone
	}
	return false, ErrUnknown
}

func (in *Interpreter) evalAddExpr() ErrorCode {
	negate := false
	if in.token.code == Code('-') {
		negate = true
		if err := in.nextToken(); err != ErrNone {
			return err
		}
	} else if in.token.code == Code('+') {
		if err := in.nextToken(); err != ErrNone {
			return err
		}
	}
	if err := in.evalTerm(); err != ErrNone {
		return err
	}
	if negate {
		v := in.pop()
		if v.isStr {
			return in.raise(ErrString)
		}
		if err := in.push(stackValue{num: -v.num}); err != ErrNone {
			return err
		}
	}

	for in.token.code == Code('+') || in.token.code == Code('-') {
		op := in.token.code
		if err := in.nextToken(); err != ErrNone {
			return err
		}
		if err := in.evalTerm(); err != ErrNone {
			return err
		}
		rhs, lhs := in.pop(), in.pop()
		if op == Code('+') && (lhs.isStr || rhs.isStr) {
			if !lhs.isStr || !rhs.isStr {
				return in.raise(ErrString)
			}
			if err := in.push(stackValue{isStr: true, str: lhs.str + rhs.str}); err != ErrNone {
				return err
			}
			continue
		}
		if lhs.isStr || rhs.isStr {
			return in.raise(ErrString)
		}
		var result Number
		if op == Code('+') {
			result = lhs.num + rhs.num
		} else {
			result = lhs.num - rhs.num
		}
		if err := in.push(stackValue{num: result}); err != ErrNone {
			return err
		}
	}
	return ErrNone
}

func (in *Interpreter) evalTerm() ErrorCode {
	if err := in.evalFactor(); err != ErrNone {
		return err
	}
	for in.token.code == Code('*') || in.token.code == Code('/') || in.token.code == Code('%') {
		op := in.token.code
		if err := in.nextToken(); err != ErrNone {
			return err
		}
		if err := in.evalFactor(); err != ErrNone {
			return err
		}
		rhs, lhs := in.pop(), in.pop()
		if lhs.isStr || rhs.isStr {
			return in.raise(ErrString)
		}
		var result Number
		switch op {
		case Code('*'):
			result = lhs.num * rhs.num
		case Code('/'):
			if rhs.num == 0 {
				return in.raise(ErrDivByZero)
			}
			result = lhs.num / rhs.num
		case Code('%'):
			// §9 Open Question 3: truncate-then-modulus in float mode,
			// per spec.md §4.E's normative text rather than fmod.
			if rhs.num == 0 {
				return in.raise(ErrDivByZero)
			}
			result = truncNumber(lhs.num) - (truncNumber(lhs.num)/truncNumber(rhs.num))*truncNumber(rhs.num)
		}
		if err := in.push(stackValue{num: result}); err != ErrNone {
			return err
		}
	}
	return ErrNone
}

func (in *Interpreter) evalFactor() ErrorCode {
	tok := in.token
	switch tok.code {
	case codeNumber:
		if err := in.nextToken(); err != ErrNone {
			return err
		}
		return in.push(stackValue{num: tok.num})

	case codeString:
		if err := in.nextToken(); err != ErrNone {
			return err
		}
		return in.push(stackValue{isStr: true, str: tok.str})

	case Code('('):
		if err := in.nextToken(); err != ErrNone {
			return err
		}
		if err := in.evalExpression(); err != ErrNone {
			return err
		}
		if in.token.code != Code(')') {
			return in.raise(ErrUnknown)
		}
		return in.nextToken()

	case codeVariable:
		v, err := in.getScalar(tok.key())
		if err != ErrNone {
			return err
		}
		if err := in.nextToken(); err != ErrNone {
			return err
		}
		return in.push(stackValue{num: v})

	case codeArrayVar:
		return in.evalArrayRef(tok)

	case codeStringVar:
		return in.evalStringRef(tok)

	default:
		if arity, ok := builtinArity[tok.code]; ok {
			return in.evalBuiltin(tok.code, arity)
		}
		return in.raise(ErrUnknown)
	}
}

func (in *Interpreter) evalArrayRef(tok Token) ErrorCode {
	if err := in.nextToken(); err != ErrNone {
		return err
	}
	if in.token.code != Code('(') {
		return in.raise(ErrUnknown)
	}
	if err := in.nextToken(); err != ErrNone {
		return err
	}
	if err := in.evalExpression(); err != ErrNone {
		return err
	}
	idx := in.pop()
	if idx.isStr {
		return in.raise(ErrRange)
	}
	if in.token.code != Code(')') {
		return in.raise(ErrUnknown)
	}
	if err := in.nextToken(); err != ErrNone {
		return err
	}

	var v Number
	var err ErrorCode
	if tok.name1 == pseudoMarker {
		v, err = in.getPseudoArray(tok.name2, int(idx.num))
	} else {
		var addr uint16
		addr, err = in.arrayAddr(tok.name1, tok.name2)
		if err == ErrNone {
			v, err = in.getArray(addr, int(idx.num))
		}
	}
	if err != ErrNone {
		return err
	}
	return in.push(stackValue{num: v})
}

// evalStringRef reads a string variable, optionally sliced by
// STRINGVAR(lo,hi) — the Apple-1 substring extension, per spec.md §4.E.
func (in *Interpreter) evalStringRef(tok Token) ErrorCode {
	if err := in.nextToken(); err != ErrNone {
		return err
	}
	addr, err := in.stringAddr(tok.name1, tok.name2, 0)
	if err != ErrNone {
		return err
	}
	full := in.getString(addr)

	if in.token.code != Code('(') {
		return in.push(stackValue{isStr: true, str: full})
	}
	if err := in.nextToken(); err != ErrNone {
		return err
	}
	if err := in.evalExpression(); err != ErrNone {
		return err
	}
	lo := in.pop()
	hi := lo
	if in.token.code == Code(',') {
		if err := in.nextToken(); err != ErrNone {
			return err
		}
		if err := in.evalExpression(); err != ErrNone {
			return err
		}
		hi = in.pop()
	}
	if in.token.code != Code(')') {
		return in.raise(ErrUnknown)
	}
	if err := in.nextToken(); err != ErrNone {
		return err
	}
	start, end := int(lo.num), int(hi.num)
	if start < 0 || end < start || start >= len(full) {
		return in.raise(ErrRange)
	}
	if end >= len(full) {
		end = len(full) - 1
	}
	return in.push(stackValue{isStr: true, str: full[start : end+1]})
}

func (in *Interpreter) evalBuiltin(code Code, arity int) ErrorCode {
	if err := in.nextToken(); err != ErrNone {
		return err
	}
	args := make([]stackValue, 0, arity)
	if arity > 0 {
		if in.token.code != Code('(') {
			return in.raise(ErrArgs)
		}
		if err := in.nextToken(); err != ErrNone {
			return err
		}
		for {
			if err := in.evalExpression(); err != ErrNone {
				return err
			}
			args = append(args, in.pop())
			if in.token.code != Code(',') {
				break
			}
			if err := in.nextToken(); err != ErrNone {
				return err
			}
		}
		if len(args) != arity {
			return in.raise(ErrArgs)
		}
		if in.token.code != Code(')') {
			return in.raise(ErrUnknown)
		}
		if err := in.nextToken(); err != ErrNone {
			return err
		}
	}
	result, err := in.callBuiltin(code, args)
	if err != ErrNone {
		return err
	}
	return in.push(result)
}

// callBuiltin evaluates the hardware-flavored and math builtins from
// spec.md §4.E against ioport's CharPort/StorePort abstraction, with a
// software default where no real device exists in scope (§1).
func (in *Interpreter) callBuiltin(code Code, args []stackValue) (stackValue, ErrorCode) {
	arg := func(i int) Number {
		if i < len(args) {
			return args[i].num
		}
		return 0
	}
	switch code {
	case kwABS:
		n := arg(0)
		if n < 0 {
			n = -n
		}
		return stackValue{num: n}, ErrNone

	case kwSGN:
		n := arg(0)
		switch {
		case n > 0:
			return stackValue{num: 1}, ErrNone
		case n < 0:
			return stackValue{num: -1}, ErrNone
		default:
			return stackValue{num: 0}, ErrNone
		}

	case kwRND:
		return stackValue{num: in.rnd(arg(0))}, ErrNone

	case kwSQR:
		return stackValue{num: isqrt(arg(0))}, ErrNone

	case kwLEN:
		return stackValue{num: Number(len(args[0].str))}, ErrNone

	case kwFRE:
		return stackValue{num: Number(in.store.freeSpace())}, ErrNone

	case kwPEEK:
		return stackValue{num: Number(in.peek(arg(0)))}, ErrNone

	case kwUSR:
		// No real machine-code hook exists in this core (§1): returns
		// its first argument unchanged, a documented no-op default.
		return stackValue{num: arg(0)}, ErrNone

	case kwAREAD, kwDREAD, kwMILLIS, kwPULSEIN:
		return stackValue{num: 0}, ErrNone // no real GPIO/clock in scope (§1)

	case kwAZERO:
		return stackValue{num: 0}, ErrNone

	default:
		return stackValue{}, ErrFunction
	}
}

// rnd implements RND(n), per spec.md §4.E: 0 returns the last state
// again without advancing it; any other arg advances the internal
// 16-bit LCG — r <- (31421*r + 6927) mod 2^16 — (also readable and
// seedable as the @R pseudo-variable, vars.go) and returns
// floor(r*arg/2^16) for positive arg, floor(r*arg/2^16)+1 for
// negative. The arithmetic right shift by 16 on a signed int64 is
// exactly floor division by 2^16, including for negative products.
func (in *Interpreter) rnd(n Number) Number {
	if n == 0 {
		return Number(in.rng)
	}
	in.rng = uint16(31421*uint32(in.rng) + 6927)
	result := (int64(in.rng) * int64(n)) >> 16
	if n < 0 {
		result++
	}
	return Number(result)
}

func isqrt(n Number) Number {
	if n <= 0 {
		return 0
	}
	return numberFromFloat(sqrtFloat(numberToFloat(n)))
}

func sqrtFloat(x float64) float64 {
	if x == 0 {
		return 0
	}
	guess := x
	for i := 0; i < 40; i++ {
		guess = 0.5 * (guess + x/guess)
	}
	return guess
}

// peek implements PEEK, including the negative-address EEPROM window
// spec.md §4.E describes: non-negative addresses read the live store,
// negative addresses read the EEPROM image counting back from its end.
func (in *Interpreter) peek(addr Number) int8 {
	a := int(addr)
	if a < 0 {
		off := in.eeprom.len() + a
		if off < 0 || off >= in.eeprom.len() {
			return 0
		}
		return in.eeprom.readByte(off)
	}
	if a < 0 || a >= len(in.store.mem) {
		return 0
	}
	return in.store.read8(uint16(a))
}

// poke is PEEK's write-side counterpart, used by stmt_data.go's POKE
// statement.
func (in *Interpreter) poke(addr, v Number) {
	a := int(addr)
	if a < 0 {
		off := in.eeprom.len() + a
		if off >= 0 && off < in.eeprom.len() {
			in.eeprom.writeByte(off, int8(v))
		}
		return
	}
	if a >= 0 && a < len(in.store.mem) {
		in.store.write8(uint16(a), int8(v))
	}
}
