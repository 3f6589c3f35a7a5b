/*
 * pabasic - main process.
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

package main

import (
	"log/slog"
	"os"

	getopt "github.com/pborman/getopt/v2"

	"github.com/m4k3r-org/tinybasic/internal/basic"
	"github.com/m4k3r-org/tinybasic/internal/config"
	"github.com/m4k3r-org/tinybasic/internal/logger"
	"github.com/m4k3r-org/tinybasic/internal/replio"
)

var Logger *slog.Logger

func main() {
	optConfig := getopt.StringLong("config", 'c', "", "Configuration file")
	optMem := getopt.IntLong("mem", 'm', 0, "Memory size in bytes (overrides config)")
	optLoad := getopt.StringLong("load", 0, "", "Program file to load at startup")
	optLogFile := getopt.StringLong("log", 'l', "", "Log file")
	optEEPROM := getopt.StringLong("eeprom", 0, "", "EEPROM image file (overrides config)")
	optHelp := getopt.BoolLong("help", 'h', "Help")
	getopt.Parse()

	if *optHelp {
		getopt.Usage()
		os.Exit(0)
	}

	var logFile *os.File
	if *optLogFile != "" {
		logFile, _ = os.Create(*optLogFile)
	}
	programLevel := new(slog.LevelVar)
	programLevel.Set(slog.LevelInfo)
	Logger = slog.New(logger.New(logFile, &slog.HandlerOptions{Level: programLevel}, false))
	slog.SetDefault(Logger)

	cfg := config.Default()
	if *optConfig != "" {
		var err error
		cfg, err = config.Load(*optConfig, cfg)
		if err != nil {
			Logger.Error(err.Error())
			os.Exit(1)
		}
	}
	if *optMem > 0 {
		cfg.MemSize = *optMem
	}
	if *optEEPROM != "" {
		cfg.EEPROM = *optEEPROM
	}

	Logger.Info("pabasic started", "mem", cfg.MemSize, "numeric", cfg.Numeric)

	chars := basic.NewStdioPort(os.Stdin, os.Stdout)
	interp := basic.New(cfg.MemSize, chars, nil)
	interp.SetExtensions(cfg.Stefan)

	if cfg.EEPROM != "" {
		if data, err := os.ReadFile(cfg.EEPROM); err == nil {
			if code := interp.LoadEEPROMImage(data); code != basic.ErrNone {
				Logger.Error("eeprom image rejected", "path", cfg.EEPROM, "error", code.String())
			}
		} else if !os.IsNotExist(err) {
			Logger.Error("loading eeprom image", "path", cfg.EEPROM, "error", err)
		}
	}

	if *optLoad != "" {
		data, err := os.ReadFile(*optLoad)
		if err != nil {
			Logger.Error("loading program", "path", *optLoad, "error", err)
			os.Exit(1)
		}
		if code := interp.LoadListing(string(data)); code != basic.ErrNone {
			Logger.Error("program has errors", "error", code.String())
			os.Exit(1)
		}
	} else if code, ran := interp.Boot(); ran && code != basic.ErrNone {
		Logger.Error("eeprom autorun failed", "error", code.String())
	}

	replio.SetKeywords(basic.KeywordNames())
	replio.Run(interp)

	if cfg.EEPROM != "" {
		if err := os.WriteFile(cfg.EEPROM, interp.EEPROMImage(), 0o644); err != nil {
			Logger.Error("saving eeprom image", "path", cfg.EEPROM, "error", err)
		}
	}
}
