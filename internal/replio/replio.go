/*
 * pabasic - REPL front end.
 *
 * Copyright 2026
 *
 * Permission is hereby granted, free of charge, to any person obtaining a copy
 * of this software and associated documentation files (the "Software"), to deal
 * in the Software without restriction, including without limitation the rights
 * to use, copy, modify, merge, publish, distribute, sublicense, and/or sell
 * copies of the Software, and to permit persons to whom the Software is
 * furnished to do so, subject to the following conditions:
 *
 * The above copyright notice and this permission notice shall be included in
 * all copies or substantial portions of the Software.
 *
 * THE SOFTWARE IS PROVIDED "AS IS", WITHOUT WARRANTY OF ANY KIND, EXPRESS OR
 * IMPLIED, INCLUDING BUT NOT LIMITED TO THE WARRANTIES OF MERCHANTABILITY,
 * FITNESS FOR A PARTICULAR PURPOSE AND NONINFRINGEMENT. IN NO EVENT SHALL THE
 * AUTHORS OR COPYRIGHT HOLDERS BE LIABLE FOR ANY CLAIM, DAMAGES OR OTHER
 * LIABILITY, WHETHER IN AN ACTION OF CONTRACT, TORT OR OTHERWISE, ARISING FROM,
 * OUT OF OR IN CONNECTION WITH THE SOFTWARE OR THE USE OR OTHER DEALINGS IN THE
 * SOFTWARE.
 *
 */

// Package replio is the liner-backed interactive front end: it owns
// line editing, history and keyword completion and feeds whole lines
// to an *basic.Interpreter, the same shape command/reader gave the
// S370 console (a liner.Liner wrapping a single dispatch call) applied
// to a BASIC REPL instead of a CP command line.
package replio

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"strings"

	"github.com/peterh/liner"

	"github.com/m4k3r-org/tinybasic/internal/basic"
)

// keywords lists the completer's candidates; it is populated by
// SetKeywords from the interpreter's own keyword table (KeywordNames) so the
// completer never drifts out of sync with the language it completes.
var keywords []string

// Run drives the REPL until Ctrl-D/Ctrl-C or the BASIC BYE-equivalent
// (there is none in this dialect; END/STOP only halt a running
// program, so the loop only exits on EOF or interrupt).
func Run(interp *basic.Interpreter) {
	line := liner.NewLiner()
	defer line.Close()

	line.SetCtrlCAborts(true)
	line.SetCompleter(func(partial string) []string {
		var out []string
		upper := strings.ToUpper(partial)
		for _, kw := range keywords {
			if strings.HasPrefix(kw, upper) {
				out = append(out, kw)
			}
		}
		return out
	})

	for {
		text, err := line.Prompt("> ")
		if err == nil {
			line.AppendHistory(text)
			interp.SubmitLine(text)
			continue
		}

		if errors.Is(err, liner.ErrPromptAborted) || errors.Is(err, io.EOF) {
			return
		}
		slog.Error("error reading line: " + err.Error())
		fmt.Println("Error: " + err.Error())
	}
}

// SetKeywords seeds the completer's candidate list (cmd/pabasic calls
// this once at startup with basic.KeywordNames()).
func SetKeywords(words []string) { keywords = words }
