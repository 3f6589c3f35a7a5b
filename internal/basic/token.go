package basic

// Code identifies a token's kind. Single ASCII characters are their own
// code (Code('+') etc.); keyword codes and the handful of compound
// relational operators live in their own negative bands below -256 so
// they can never collide with a byte value; the five special codes
// (lineNumber, number, str, variable/arrayVar/stringVar, eol) occupy a
// third band. This is the token-code layout spec.md §3 describes as
// "three disjoint bands".
type Code int16

const (
	codeEOL Code = -4096 - iota
	codeLineNumber
	codeNumber
	codeString
	codeVariable
	codeArrayVar
	codeStringVar
)

const (
	codeGreaterEqual Code = -8192 - iota
	codeLessEqual
	codeNotEqual
)

// Token is a tagged value: a code plus whichever payload that code
// uses. It is deliberately one flat struct rather than a tagged union —
// the teacher favors flat structs with only the fields a given path
// touches (stepInfo in internal/cpu is the same shape of compromise).
type Token struct {
	code Code

	num Number // codeNumber

	str string // codeString: literal text (spec's "pointer + length" collapsed
	// into the string's own bytes)

	line uint16 // codeLineNumber: the line number payload

	name1 byte // codeVariable/codeArrayVar/codeStringVar
	name2 byte // second name character, 0 meaning "none"
}

func (t Token) isEOL() bool { return t.code == codeEOL }

// variableKey is the (name1, name2) identity used by heap lookups and
// the static-variable table.
type variableKey struct {
	name1, name2 byte
}

func (t Token) key() variableKey { return variableKey{t.name1, t.name2} }
