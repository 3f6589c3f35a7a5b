/*
 * pabasic - configuration file parser
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

// Package config is a small line-oriented "key = value" parser,
// grounded on config/configparser's cursor-based line scanning
// (skipSpace/isEOL/getNext over a line+pos pair) but trimmed from a
// device-model registry down to this interpreter's handful of knobs:
// mem size, numeric build mode, the Stefan string extension flag, and
// the EEPROM image path.
//
//	mem = 4096
//	numeric = int
//	stefan = on
//	eeprom = /var/lib/pabasic/eeprom.img
package config

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
)

// Config holds the knobs cmd/pabasic wires into basic.New and its
// surrounding shell.
type Config struct {
	MemSize int
	Numeric string // "int" or "float"
	Stefan  bool
	EEPROM  string
}

// Default mirrors the interpreter's own defaults (interp.go).
func Default() Config {
	return Config{MemSize: 4096, Numeric: "int", Stefan: true, EEPROM: ""}
}

// line is the cursor over one configuration line: a string plus a
// position, the same shape cmdLine used in the teacher's parser.
type line struct {
	text string
	pos  int
}

func (l *line) skipSpace() {
	for l.pos < len(l.text) && l.text[l.pos] == ' ' {
		l.pos++
	}
}

func (l *line) isEOL() bool { return l.pos >= len(l.text) }

// Load reads key=value pairs from path, starting from defaults and
// overriding only the keys present in the file. '#' begins a
// comment that runs to end of line.
func Load(path string, base Config) (Config, error) {
	f, err := os.Open(path)
	if err != nil {
		return base, err
	}
	defer f.Close()
	return parse(f, base)
}

func parse(r io.Reader, cfg Config) (Config, error) {
	scanner := bufio.NewScanner(r)
	lineNumber := 0
	for scanner.Scan() {
		lineNumber++
		l := &line{text: scanner.Text()}
		if i := strings.IndexByte(l.text, '#'); i >= 0 {
			l.text = l.text[:i]
		}
		l.skipSpace()
		if l.isEOL() {
			continue
		}
		key, value, err := l.keyValue()
		if err != nil {
			return cfg, fmt.Errorf("line %d: %w", lineNumber, err)
		}
		if err := cfg.apply(key, value); err != nil {
			return cfg, fmt.Errorf("line %d: %w", lineNumber, err)
		}
	}
	return cfg, scanner.Err()
}

func (l *line) keyValue() (string, string, error) {
	start := l.pos
	for !l.isEOL() && l.text[l.pos] != '=' && l.text[l.pos] != ' ' {
		l.pos++
	}
	key := strings.ToLower(l.text[start:l.pos])
	l.skipSpace()
	if l.isEOL() || l.text[l.pos] != '=' {
		return "", "", fmt.Errorf("expected '=' after %q", key)
	}
	l.pos++
	l.skipSpace()
	return key, strings.TrimSpace(l.text[l.pos:]), nil
}

func (c *Config) apply(key, value string) error {
	switch key {
	case "mem":
		n, err := strconv.Atoi(value)
		if err != nil {
			return fmt.Errorf("mem: %w", err)
		}
		c.MemSize = n
	case "numeric":
		if value != "int" && value != "float" {
			return fmt.Errorf("numeric: must be int or float, got %q", value)
		}
		c.Numeric = value
	case "stefan":
		c.Stefan = value == "on" || value == "true" || value == "1"
	case "eeprom":
		c.EEPROM = value
	default:
		return fmt.Errorf("unknown option %q", key)
	}
	return nil
}
