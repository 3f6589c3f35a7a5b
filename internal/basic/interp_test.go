package basic

import (
	"bytes"
	"fmt"
	"strings"
	"testing"
)

// recorder is a minimal CharPort that captures everything written and
// feeds queued lines back for INPUT/ReadLine, the way a test harness
// stands in for a real terminal.
type recorder struct {
	bytes.Buffer
	lines []string
}

func (r *recorder) ReadChar() byte       { return 0 }
func (r *recorder) PeekChar() (byte, bool) { return 0, false }
func (r *recorder) WriteChar(mask Sink, c byte) { r.WriteByte(c) }
func (r *recorder) WaitOnScroll() bool   { return false }

func (r *recorder) ReadLine() (string, error) {
	if len(r.lines) == 0 {
		return "", nil
	}
	line := r.lines[0]
	r.lines = r.lines[1:]
	return line, nil
}

func newTestInterp() (*Interpreter, *recorder) {
	out := &recorder{}
	return New(4096, out, nil), out
}

func runProgram(t *testing.T, in *Interpreter, lines []string) string {
	t.Helper()
	rec := in.chars.(*recorder)
	for _, l := range lines {
		in.SubmitLine(l)
		if rec.String() != "" && strings.Contains(rec.String(), "ERROR") {
			t.Fatalf("unexpected error storing/running line %q: %s", l, rec.String())
		}
	}
	in.SubmitLine("RUN")
	return rec.String()
}

func TestForLoopPrints123(t *testing.T) {
	in, _ := newTestInterp()
	got := runProgram(t, in, []string{
		"10 FOR I = 1 TO 3",
		"20 PRINT I",
		"30 NEXT I",
	})
	want := "1\n2\n3\n"
	if got != want {
		t.Errorf("got %q, want %q", got, want)
	}
}

func TestGosubReturn(t *testing.T) {
	in, _ := newTestInterp()
	got := runProgram(t, in, []string{
		"10 GOSUB 100",
		"20 PRINT 99",
		"30 END",
		"100 PRINT 1",
		"110 RETURN",
	})
	want := "1\n99\n"
	if got != want {
		t.Errorf("got %q, want %q", got, want)
	}
}

func TestDimArrayGetSet(t *testing.T) {
	in, rec := newTestInterp()
	runProgram(t, in, []string{
		"10 DIM A(5)",
		"20 A(3) = 42",
		"30 PRINT A(3)",
	})
	if got, want := rec.String(), "42\n"; got != want {
		t.Errorf("got %q, want %q", got, want)
	}
}

func TestStringAssignmentStefanExtensionGrows(t *testing.T) {
	in, rec := newTestInterp()
	in.SetExtensions(true)
	runProgram(t, in, []string{
		`10 A$ = "HELLO"`,
		`20 A$(1,2) = "XYZ"`,
		`30 PRINT A$`,
	})
	if got, want := rec.String(), "HXYZLO\n"; got != want {
		t.Errorf("got %q, want %q", got, want)
	}
}

func TestStringAssignmentWithoutExtensionTruncates(t *testing.T) {
	in, rec := newTestInterp()
	in.SetExtensions(false)
	runProgram(t, in, []string{
		`10 A$ = "HELLO"`,
		`20 A$(1,2) = "XYZ"`,
		`30 PRINT A$`,
	})
	if got, want := rec.String(), "HXYLO\n"; got != want {
		t.Errorf("got %q, want %q", got, want)
	}
}

func TestClrZeroesStatics(t *testing.T) {
	in, rec := newTestInterp()
	runProgram(t, in, []string{
		"10 A = 5",
		"20 CLR",
		"30 PRINT A",
	})
	if got, want := rec.String(), "0\n"; got != want {
		t.Errorf("got %q, want %q", got, want)
	}
}

func TestLineReplacementKeepsTopConsistent(t *testing.T) {
	in, rec := newTestInterp()
	in.SubmitLine("10 PRINT 1")
	in.SubmitLine("20 PRINT 2")
	firstTop := in.store.top
	in.SubmitLine("10 PRINT 99")
	if in.store.top == 0 {
		t.Fatalf("top collapsed to zero after replace")
	}
	if in.store.top != firstTop {
		t.Errorf("top after same-length replace = %d, want %d", in.store.top, firstTop)
	}
	in.SubmitLine("RUN")
	if got, want := rec.String(), "99\n2\n"; got != want {
		t.Errorf("got %q, want %q", got, want)
	}
}

func TestBareLineNumberDeletesLine(t *testing.T) {
	in, rec := newTestInterp()
	in.SubmitLine("10 PRINT 1")
	in.SubmitLine("20 PRINT 2")
	in.SubmitLine("10")
	in.SubmitLine("RUN")
	if got, want := rec.String(), "2\n"; got != want {
		t.Errorf("got %q, want %q", got, want)
	}
}

func TestLineInsertionOrdering(t *testing.T) {
	in, rec := newTestInterp()
	in.SubmitLine("30 PRINT 3")
	in.SubmitLine("10 PRINT 1")
	in.SubmitLine("20 PRINT 2")
	in.SubmitLine("RUN")
	if got, want := rec.String(), "1\n2\n3\n"; got != want {
		t.Errorf("got %q, want %q", got, want)
	}
}

func TestDivideByZeroReportsError(t *testing.T) {
	in, rec := newTestInterp()
	in.SubmitLine("10 PRINT 1/0")
	in.SubmitLine("RUN")
	if !strings.Contains(rec.String(), "DIVIDE BY ZERO ERROR") {
		t.Errorf("expected divide-by-zero error, got %q", rec.String())
	}
}

func TestImplicitLetAssignment(t *testing.T) {
	in, rec := newTestInterp()
	runProgram(t, in, []string{
		"10 X = 7",
		"20 PRINT X",
	})
	if got, want := rec.String(), "7\n"; got != want {
		t.Errorf("got %q, want %q", got, want)
	}
}

func TestIfThenSkipsFalseBranch(t *testing.T) {
	in, rec := newTestInterp()
	runProgram(t, in, []string{
		"10 IF 1 = 2 THEN PRINT 1",
		"20 IF 1 = 1 THEN PRINT 2",
	})
	if got, want := rec.String(), "2\n"; got != want {
		t.Errorf("got %q, want %q", got, want)
	}
}

func TestForLoopSkipsBodyWhenEntryTestFails(t *testing.T) {
	in, rec := newTestInterp()
	runProgram(t, in, []string{
		"10 FOR I = 5 TO 1",
		"20 PRINT I",
		"30 NEXT I",
		`40 PRINT "DONE"`,
	})
	if got, want := rec.String(), "DONE\n"; got != want {
		t.Errorf("got %q, want %q", got, want)
	}
}

func TestForLoopSkipsBodyPastNestedFor(t *testing.T) {
	in, rec := newTestInterp()
	runProgram(t, in, []string{
		"10 FOR I = 5 TO 1",
		"20 FOR J = 1 TO 3",
		"30 PRINT J",
		"40 NEXT J",
		"50 NEXT I",
		`60 PRINT "DONE"`,
	})
	if got, want := rec.String(), "DONE\n"; got != want {
		t.Errorf("got %q, want %q", got, want)
	}
}

func TestTwoCharacterScalarsAreDistinctFromStatic(t *testing.T) {
	in, rec := newTestInterp()
	runProgram(t, in, []string{
		"10 A = 1",
		"20 A0 = 2",
		"30 A1 = 3",
		"40 PRINT A",
		"50 PRINT A0",
		"60 PRINT A1",
	})
	if got, want := rec.String(), "1\n2\n3\n"; got != want {
		t.Errorf("got %q, want %q", got, want)
	}
}

func TestRndFollowsDocumentedFloorFormula(t *testing.T) {
	in, rec := newTestInterp()
	runProgram(t, in, []string{
		"10 @R = 1",
		"20 PRINT RND(100)",
	})
	wantR := uint16(31421*uint32(1) + 6927)
	want := fmt.Sprintf("%d\n", (int64(wantR)*100)>>16)
	if got := rec.String(); got != want {
		t.Errorf("got %q, want %q", got, want)
	}
}

func TestRndNegativeArgAddsOne(t *testing.T) {
	in, rec := newTestInterp()
	runProgram(t, in, []string{
		"10 @R = 1",
		"20 PRINT RND(-100)",
	})
	wantR := uint16(31421*uint32(1) + 6927)
	want := fmt.Sprintf("%d\n", (int64(wantR)*-100)>>16+1)
	if got := rec.String(); got != want {
		t.Errorf("got %q, want %q", got, want)
	}
}

func TestEEPROMBootAutorunsStoredProgram(t *testing.T) {
	in, rec := newTestInterp()
	in.SubmitLine(`10 PRINT "BOOTED"`)
	in.SubmitLine(`SAVE "!",1`)
	image := in.EEPROMImage()

	in2, rec2 := newTestInterp()
	if code := in2.LoadEEPROMImage(image); code != ErrNone {
		t.Fatalf("LoadEEPROMImage: %v", code)
	}
	code, ran := in2.Boot()
	if !ran {
		t.Fatalf("Boot did not autorun a stored EEPROM image")
	}
	if code != ErrNone {
		t.Fatalf("Boot returned error: %v", code)
	}
	if got, want := rec2.String(), "BOOTED\n"; got != want {
		t.Errorf("got %q, want %q", got, want)
	}
	_ = rec
}
