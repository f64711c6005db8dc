// Copyright (c) 2026 The w10asm Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package asm

import (
	"bufio"
	"fmt"
	"io"
	"strings"
)

// Preprocess expands macro definitions in the ".as" stream read from r,
// writing the expanded ".am" text to w (spec.md §4.1). It is single-pass
// and non-recursive: a macro body is substituted exactly once, verbatim,
// with no nested expansion, and comments are not treated specially (they
// pass through unchanged, inside or outside a macro body).
//
// Line-level errors are accumulated on ctx (spec.md §7); Preprocess itself
// only returns an error for a genuine I/O failure reading r or writing w.
func Preprocess(ctx *Context, r io.Reader, w io.Writer) error {
	ctx.logSection("Preprocess")
	scanner := bufio.NewScanner(r)
	var (
		row           int
		inMacro       bool
		macroName     string
		macroBody     []string
		macroStartRow int
	)

	for scanner.Scan() {
		row++
		text := scanner.Text()
		line := newFstring(row, text)

		if len(text) > 80 {
			ctx.Fail(row, LineTooLong)
			continue
		}

		trimmed := line.consumeWhitespace()
		firstWord, _ := trimmed.consumeWhile(wordChar)

		switch {
		case inMacro && firstWord.str == "mcroend":
			rest := trimmed.consume(len(firstWord.str)).consumeWhitespace()
			if !rest.isEmpty() {
				ctx.Fail(row, MacroExtraText)
			}
			ctx.Macros[macroName] = macroBody
			ctx.log("line %d: macro %s (%d lines)", row, macroName, len(macroBody))
			inMacro = false
			macroBody = nil

		case inMacro:
			macroBody = append(macroBody, text)

		case firstWord.str == "mcro":
			rest := trimmed.consume(len(firstWord.str)).consumeWhitespace()
			name, rest := rest.consumeWhile(labelChar)
			if name.isEmpty() {
				ctx.Fail(row, MacroMissingName)
				continue
			}
			if tail := rest.consumeWhitespace(); !tail.isEmpty() {
				ctx.Fail(row, MacroExtraText)
				continue
			}
			if isReservedWord(name.str) {
				ctx.Fail(row, MacroReservedWord)
				continue
			}
			if _, exists := ctx.Macros[name.str]; exists {
				ctx.Fail(row, DuplicateLabel)
				continue
			}
			inMacro = true
			macroName = name.str
			macroStartRow = row
			macroBody = nil

		default:
			if body, known := ctx.Macros[firstWord.str]; known {
				for _, bodyLine := range body {
					if err := writeLine(w, bodyLine); err != nil {
						return err
					}
				}
				continue
			}
			if err := writeLine(w, text); err != nil {
				return err
			}
		}
	}
	if err := scanner.Err(); err != nil {
		return err
	}

	if inMacro {
		ctx.Fail(macroStartRow, MacroMissingEnd)
	}
	return nil
}

func writeLine(w io.Writer, s string) error {
	_, err := fmt.Fprintln(w, strings.TrimRight(s, "\r"))
	return err
}
