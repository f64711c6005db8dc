// Copyright (c) 2026 The w10asm Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package asm

import (
	"strconv"
	"strings"
)

// parseOperands splits the remainder of an instruction line into its
// source and target operands according to the opcode's operand form
// (spec.md §4.2.3), reporting TooManyOperands/TooFewOperands/MissingComma
// as appropriate, then parses each present token with parseOperandToken.
func (c *Context) parseOperands(line fstring, lineNo int, info opcodeInfo) (source, target *Operand, ok bool) {
	ok = true
	switch {
	case !info.hasSrc && !info.hasTgt:
		if !line.isEmpty() {
			c.Fail(lineNo, TooManyOperands)
			ok = false
		}
		return nil, nil, ok

	case !info.hasSrc && info.hasTgt:
		if line.isEmpty() {
			c.Fail(lineNo, TooFewOperands)
			return nil, nil, false
		}
		if strings.ContainsRune(line.str, ',') {
			c.Fail(lineNo, TooManyOperands)
			return nil, nil, false
		}
		tgt, kind, valid := parseOperandToken(strings.TrimSpace(line.str))
		if !valid {
			c.Fail(lineNo, kind)
			return nil, nil, false
		}
		return nil, tgt, true

	default: // both source and target required
		firstPart, rest := line.consumeUntilChar(',')
		if rest.isEmpty() {
			if hasBareWhitespace(strings.TrimSpace(firstPart.str)) {
				c.Fail(lineNo, MissingComma)
			} else {
				c.Fail(lineNo, TooFewOperands)
			}
			return nil, nil, false
		}
		rest = rest.consume(1).consumeWhitespace()
		secondPart, extra := rest.consumeUntilChar(',')
		if !extra.isEmpty() {
			c.Fail(lineNo, TooManyOperands)
			return nil, nil, false
		}
		srcText := strings.TrimSpace(firstPart.str)
		tgtText := strings.TrimSpace(secondPart.str)
		if srcText == "" || tgtText == "" {
			c.Fail(lineNo, TooFewOperands)
			return nil, nil, false
		}
		src, kind, valid := parseOperandToken(srcText)
		if !valid {
			c.Fail(lineNo, kind)
			return nil, nil, false
		}
		tgt, kind, valid := parseOperandToken(tgtText)
		if !valid {
			c.Fail(lineNo, kind)
			return nil, nil, false
		}
		return src, tgt, true
	}
}

// hasBareWhitespace reports whether s contains a space/tab outside of a
// [..] bracket pair, a sign that two operands were given without the
// required separating comma.
func hasBareWhitespace(s string) bool {
	depth := 0
	for i := 0; i < len(s); i++ {
		switch s[i] {
		case '[':
			depth++
		case ']':
			if depth > 0 {
				depth--
			}
		case ' ', '\t':
			if depth == 0 {
				return true
			}
		}
	}
	return false
}

// isRegisterToken reports whether s is exactly "r0".."r7".
func isRegisterToken(s string) (int, bool) {
	if len(s) == 2 && s[0] == 'r' && s[1] >= '0' && s[1] <= '7' {
		return int(s[1] - '0'), true
	}
	return 0, false
}

// isIdentifier reports whether s obeys label syntax (spec.md §3): 1..30
// printable characters, starting with a letter, followed by letters,
// digits, or underscores.
func isIdentifier(s string) bool {
	if len(s) < 1 || len(s) > 30 {
		return false
	}
	if !labelStartChar(s[0]) {
		return false
	}
	for i := 1; i < len(s); i++ {
		if !labelChar(s[i]) {
			return false
		}
	}
	return true
}

// parseOperandToken parses a single trimmed operand token into its
// Immediate/Direct/Matrix/Register form (spec.md §4.2.1, §3).
func parseOperandToken(tok string) (*Operand, Kind, bool) {
	switch {
	case strings.HasPrefix(tok, "#"):
		rest := tok[1:]
		if strings.ContainsRune(rest, '[') {
			return nil, MatrixImmediateNotAllowed, false
		}
		v, err := strconv.Atoi(rest)
		if err != nil || rest == "" {
			return nil, InvalidOperand, false
		}
		if v < wordMin || v > wordMax {
			return nil, InvalidImmediateValue, false
		}
		return &Operand{Kind: OperandImmediate, Value: v}, 0, true

	case func() bool { _, ok := isRegisterToken(tok); return ok }():
		reg, _ := isRegisterToken(tok)
		return &Operand{Kind: OperandRegister, Reg1: reg}, 0, true

	case strings.ContainsRune(tok, '['):
		return parseMatrixOperand(tok)

	default:
		if !isIdentifier(tok) {
			return nil, InvalidOperand, false
		}
		return &Operand{Kind: OperandDirect, Symbol: tok}, 0, true
	}
}

// parseMatrixOperand parses "SYMBOL[rX][rY]" (spec.md §3, §4.2.1).
func parseMatrixOperand(tok string) (*Operand, Kind, bool) {
	idx := strings.IndexByte(tok, '[')
	name := tok[:idx]
	if !isIdentifier(name) {
		return nil, InvalidMatrix, false
	}
	rest := tok[idx:]

	reg1, rest, kind, ok := consumeBracketedRegister(rest)
	if !ok {
		return nil, kind, false
	}
	reg2, rest, kind, ok := consumeBracketedRegister(rest)
	if !ok {
		return nil, kind, false
	}
	if rest != "" {
		return nil, InvalidMatrixAccess, false
	}
	return &Operand{Kind: OperandMatrix, Symbol: name, Reg1: reg1, Reg2: reg2}, 0, true
}

// consumeBracketedRegister parses a leading "[rN]" from s, returning the
// register index and the remaining string.
func consumeBracketedRegister(s string) (reg int, rest string, kind Kind, ok bool) {
	if !strings.HasPrefix(s, "[") {
		return 0, s, InvalidMatrixAccess, false
	}
	end := strings.IndexByte(s, ']')
	if end < 0 {
		return 0, s, InvalidMatrixAccess, false
	}
	inner := s[1:end]
	if inner == "" {
		return 0, s, MatrixMissingRegister, false
	}
	if len(inner) > 2 {
		return 0, s, MatrixRegisterTooLong, false
	}
	reg, ok2 := isRegisterToken(inner)
	if !ok2 {
		return 0, s, MatrixInvalidRegister, false
	}
	return reg, s[end+1:], 0, true
}
