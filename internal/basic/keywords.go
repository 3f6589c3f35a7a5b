package basic

// Keyword codes occupy their own band, reserved per spec.md §3. The
// Palo Alto BASIC core is listed in the GLOSSARY; the rest are the
// Apple-1 extensions and the proprietary statements spec.md §1 names.
const (
	kwPRINT Code = -16384 - iota
	kwLET
	kwINPUT
	kwGOTO
	kwGOSUB
	kwRETURN
	kwIF
	kwTHEN
	kwFOR
	kwTO
	kwSTEP
	kwNEXT
	kwSTOP
	kwLIST
	kwNEW
	kwRUN
	kwEND
	kwCONT
	kwCLR
	kwDIM
	kwREM
	kwBREAK
	kwAND
	kwOR
	kwNOT
	kwABS
	kwRND
	kwSGN
	kwPEEK
	kwPOKE
	kwLEN
	kwSQR
	kwFRE
	kwUSR
	kwAREAD
	kwDREAD
	kwMILLIS
	kwPULSEIN
	kwAZERO
	kwSIZE
	kwLOMEM
	kwHIMEM
	kwSAVE
	kwLOAD
)

// keyword is one entry of the keyword table: its spelling and code.
// The scanner matches identifier runs against this table by exact
// string equality (see lexer.go's scanIdentifierInteractive) because variable
// names in this dialect are at most two characters, so any keyword
// that is a strict prefix of a longer letter run is always followed by
// another letter and therefore never matches — the "TOTAL doesn't
// match TO" rule in spec.md §4.B falls out of that for free.
type keyword struct {
	text string
	code Code
}

var keywordTable = []keyword{
	{"PRINT", kwPRINT},
	{"LET", kwLET},
	{"INPUT", kwINPUT},
	{"GOTO", kwGOTO},
	{"GOSUB", kwGOSUB},
	{"RETURN", kwRETURN},
	{"IF", kwIF},
	{"THEN", kwTHEN},
	{"FOR", kwFOR},
	{"TO", kwTO},
	{"STEP", kwSTEP},
	{"NEXT", kwNEXT},
	{"STOP", kwSTOP},
	{"LIST", kwLIST},
	{"NEW", kwNEW},
	{"RUN", kwRUN},
	{"END", kwEND},
	{"CONT", kwCONT},
	{"CLR", kwCLR},
	{"DIM", kwDIM},
	{"REM", kwREM},
	{"BREAK", kwBREAK},
	{"AND", kwAND},
	{"OR", kwOR},
	{"NOT", kwNOT},
	{"ABS", kwABS},
	{"RND", kwRND},
	{"SGN", kwSGN},
	{"PEEK", kwPEEK},
	{"POKE", kwPOKE},
	{"LEN", kwLEN},
	{"SQR", kwSQR},
	{"FRE", kwFRE},
	{"USR", kwUSR},
	{"AREAD", kwAREAD},
	{"DREAD", kwDREAD},
	{"MILLIS", kwMILLIS},
	{"PULSEIN", kwPULSEIN},
	{"AZERO", kwAZERO},
	{"SIZE", kwSIZE},
	{"LOMEM", kwLOMEM},
	{"HIMEM", kwHIMEM},
	{"SAVE", kwSAVE},
	{"LOAD", kwLOAD},
}

// KeywordNames lists every reserved word, for internal/replio's
// completer.
func KeywordNames() []string {
	names := make([]string, len(keywordTable))
	for i, kw := range keywordTable {
		names[i] = kw.text
	}
	return names
}

// builtinArity enforces the fixed arity spec.md §4.E requires for each
// function-like builtin. SIZE, LOMEM and HIMEM are reserved words with
// no entry here and no case in callBuiltin: evalFactor does not
// evaluate them, so an expression that uses one raises ErrUnknown.
var builtinArity = map[Code]int{
	kwABS:     1,
	kwRND:     1,
	kwSGN:     1,
	kwPEEK:    1,
	kwLEN:     1,
	kwSQR:     1,
	kwFRE:     1,
	kwUSR:     2,
	kwAREAD:   1,
	kwDREAD:   1,
	kwMILLIS:  1,
	kwPULSEIN: 3,
	kwAZERO:   0,
}
