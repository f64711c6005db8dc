// Copyright (c) 2026 The w10asm Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package asm

import (
	"bufio"
	"io"
	"strconv"
	"strings"
)

// FirstPass walks the ".am" stream, registering symbols, parsing
// directives into the data image, and pre-encoding instructions
// (spec.md §4.2). It advances ctx.IC/ctx.DC as it goes and leaves
// ctx.ICF/ctx.DCF set once the stream is exhausted.
func FirstPass(ctx *Context, r io.Reader) error {
	ctx.logSection("First pass")
	scanner := bufio.NewScanner(r)
	row := 0
	for scanner.Scan() {
		row++
		text := scanner.Text()
		if len(text) > 80 {
			ctx.Fail(row, LineTooLong)
			continue
		}
		line := newFstring(row, text).stripTrailingComment()
		if line.isEmpty() {
			continue
		}
		ctx.firstPassLine(row, line)
	}
	if err := scanner.Err(); err != nil {
		return err
	}
	ctx.ICF = ctx.IC
	ctx.DCF = ctx.DC
	ctx.log("icf=%d dcf=%d", ctx.ICF, ctx.DCF)
	if ctx.ICF+ctx.DCF > addressMax+1 {
		ctx.Fail(row, DataImageOverflow)
	}
	ctx.Symbols.RelocateData(ctx.ICF)
	return nil
}

// firstPassLine dispatches one non-empty, comment-stripped source line.
func (c *Context) firstPassLine(row int, line fstring) {
	label, hasLabel, rest := c.peelLabel(row, line)

	token, afterToken := rest.consumeWhile(directiveOrMnemonicChar)
	switch {
	case token.isEmpty():
		c.Fail(row, Syntax)

	case token.str == ".extern":
		if hasLabel {
			c.Fail(row, LabelOnExtern)
		}
		c.parseExtern(row, afterToken.consumeWhitespace())

	case token.str == ".entry":
		// Label discarded; entry resolution happens in the second pass.

	case token.str == ".data":
		if hasLabel {
			c.addLabel(row, label, c.DC, Data)
		}
		c.parseData(row, afterToken.consumeWhitespace())

	case token.str == ".string":
		if hasLabel {
			c.addLabel(row, label, c.DC, Data)
		}
		c.parseString(row, afterToken.consumeWhitespace())

	case token.str == ".mat":
		if hasLabel {
			c.addLabel(row, label, c.DC, Data)
		}
		c.parseMatrixData(row, afterToken.consumeWhitespace())

	case strings.HasPrefix(token.str, "."):
		c.Fail(row, InvalidDirective)

	default:
		info, known := lookupOpcode(token.str)
		if !known {
			c.Fail(row, UnknownInstruction)
			return
		}
		if hasLabel {
			c.addLabel(row, label, c.IC, Code)
		}
		c.parseInstructionLine(row, info, token.str, afterToken.consumeWhitespace())
	}
}

// directiveOrMnemonicChar matches the characters of a directive keyword
// (leading '.') or an instruction mnemonic.
func directiveOrMnemonicChar(ch byte) bool {
	return alpha(ch) || ch == '.'
}

// addLabel registers a label at the current counter value, reporting
// DuplicateLabel on collision.
func (c *Context) addLabel(row int, name string, addr int, kind SymbolKind) {
	if err := c.Symbols.Add(name, addr, kind); err != nil {
		c.Fail(row, DuplicateLabel)
		return
	}
	c.log("line %d: symbol %s=%d kind=%d", row, name, addr, kind)
}

// detectLabelToken looks for a leading "<name>:" token on line, without
// validating name. It is shared by both passes: the first pass validates
// and registers what it finds; the second pass only needs to skip past it
// to reach the directive/mnemonic token.
func detectLabelToken(line fstring) (name string, found bool, rest fstring) {
	token, afterToken := line.consumeUntil(whitespace)
	colon := strings.IndexByte(token.str, ':')
	if colon < 0 || colon != len(token.str)-1 {
		return "", false, line
	}
	return token.str[:colon], true, afterToken.consumeWhitespace()
}

// peelLabel optionally consumes a leading "<name>:" from line (spec.md
// §4.2 step 2). hasLabel is false both when no colon-terminated token is
// present and when one is present but invalid (in the latter case a
// diagnostic has already been recorded).
func (c *Context) peelLabel(row int, line fstring) (label string, hasLabel bool, rest fstring) {
	name, found, rest := detectLabelToken(line)
	if !found {
		return "", false, line
	}

	switch {
	case name == "":
		c.Fail(row, InvalidLabel)
	case len(name) > 30:
		c.Fail(row, InvalidLabel)
	case !labelStartChar(name[0]):
		c.Fail(row, InvalidLabel)
	case !isIdentifier(name):
		c.Fail(row, LabelSyntax)
	case isReservedWord(name):
		c.Fail(row, ReservedWord)
	default:
		return name, true, rest
	}
	return "", false, rest
}

// parseExtern handles ".extern name" (spec.md §4.2).
func (c *Context) parseExtern(row int, line fstring) {
	name := strings.TrimSpace(line.str)
	if !isIdentifier(name) {
		c.Fail(row, InvalidOperand)
		return
	}
	if isReservedWord(name) {
		c.Fail(row, ReservedWord)
		return
	}
	c.addLabel(row, name, 0, External)
}

// parseData handles ".data v1, v2, ..." (spec.md §4.2).
func (c *Context) parseData(row int, line fstring) {
	text := strings.TrimSpace(line.str)
	if text == "" {
		c.Fail(row, TooFewOperands)
		return
	}
	for _, tok := range strings.Split(text, ",") {
		tok = strings.TrimSpace(tok)
		if tok == "" {
			c.Fail(row, MissingComma)
			continue
		}
		v, err := strconv.Atoi(tok)
		if err != nil {
			c.Fail(row, InvalidOperand)
			continue
		}
		if v < wordMin || v > wordMax {
			c.Fail(row, DataOutOfRange)
			continue
		}
		c.Data.Append(Word(v))
		c.DC++
	}
}

// parseString handles '.string "..."' (spec.md §4.2): characters between
// the first and last '"' on the line are taken literally (inner quotes
// are literal characters, not escapes), each must be printable ASCII, and
// a 0 terminator word is appended.
func (c *Context) parseString(row int, line fstring) {
	text := strings.TrimSpace(line.str)
	first := strings.IndexByte(text, '"')
	last := strings.LastIndexByte(text, '"')
	if first < 0 || last <= first {
		c.Fail(row, StringMissingQuotes)
		return
	}
	body := text[first+1 : last]
	if strings.TrimSpace(text[last+1:]) != "" {
		c.Fail(row, StringUnclosed)
	}
	for i := 0; i < len(body); i++ {
		if !printableASCII(body[i]) {
			c.Fail(row, StringInvalidCharacter)
			continue
		}
		c.Data.Append(Word(body[i]))
		c.DC++
	}
	c.Data.Append(Word(0))
	c.DC++
}

// parseMatrixData handles ".mat [R][C] v1,v2,..." (spec.md §4.2, and the
// SPEC_FULL.md §4.2 open-question resolution: only the values are stored,
// not R and C).
func (c *Context) parseMatrixData(row int, line fstring) {
	text := strings.TrimSpace(line.str)
	if !strings.HasPrefix(text, "[") {
		c.Fail(row, InvalidMatrixDimensions)
		return
	}
	rows, text, kind, ok := consumeBracketedDimension(text)
	if !ok {
		c.Fail(row, kind)
		return
	}
	cols, text, kind, ok := consumeBracketedDimension(text)
	if !ok {
		c.Fail(row, kind)
		return
	}
	if rows <= 0 || cols <= 0 {
		c.Fail(row, InvalidMatrixDimensions)
		return
	}

	values := strings.TrimSpace(text)
	var parsed []int
	if values != "" {
		for _, tok := range strings.Split(values, ",") {
			tok = strings.TrimSpace(tok)
			if tok == "" {
				c.Fail(row, MissingComma)
				continue
			}
			v, err := strconv.Atoi(tok)
			if err != nil {
				c.Fail(row, InvalidOperand)
				continue
			}
			if v < wordMin || v > wordMax {
				c.Fail(row, DataOutOfRange)
				continue
			}
			parsed = append(parsed, v)
		}
	}

	capacity := rows * cols
	if len(parsed) > capacity {
		c.Fail(row, MatrixTooManyValues)
		parsed = parsed[:capacity]
	}
	for _, v := range parsed {
		c.Data.Append(Word(v))
		c.DC++
	}
	for i := len(parsed); i < capacity; i++ {
		c.Data.Append(Word(0))
		c.DC++
	}
}

// consumeBracketedDimension parses a leading "[N]" non-negative integer
// dimension from s.
func consumeBracketedDimension(s string) (n int, rest string, kind Kind, ok bool) {
	if !strings.HasPrefix(s, "[") {
		return 0, s, InvalidMatrixDimensions, false
	}
	end := strings.IndexByte(s, ']')
	if end < 0 {
		return 0, s, InvalidMatrixDimensions, false
	}
	inner := strings.TrimSpace(s[1:end])
	v, err := strconv.Atoi(inner)
	if err != nil || v < 0 {
		return 0, s, InvalidMatrixDimensions, false
	}
	return v, s[end+1:], 0, true
}

// parseInstructionLine parses operands, validates the addressing-mode
// combination, builds the first word and any immediate words, and
// records an InstructionRecord (spec.md §4.2, §4.2.1, §4.2.2, §4.2.3).
func (c *Context) parseInstructionLine(row int, info opcodeInfo, mnemonic string, line fstring) {
	source, target, ok := c.parseOperands(line, row, info)
	if !ok {
		return
	}

	sourceMode, targetMode := -1, -1
	if source != nil {
		sourceMode = source.Mode()
	}
	if target != nil {
		targetMode = target.Mode()
	}
	if kind, valid := validateAddressing(info, sourceMode, targetMode); !valid {
		c.Fail(row, kind)
		return
	}

	count := wordCount(source, target)
	rec := &InstructionRecord{
		ICAddress: Address(c.IC),
		WordCount: count,
		FirstWord: encodeFirstWord(info.value, sourceMode, targetMode),
		Source:    source,
		Target:    target,
	}
	if source != nil && target != nil && source.Kind == OperandRegister && target.Kind == OperandRegister {
		rec.Sharing = true
	} else {
		if source != nil && source.Kind == OperandImmediate {
			rec.Immediates[rec.ImmediateCount] = encodeImmediate(source.Value)
			rec.ImmediateCount++
		}
		if target != nil && target.Kind == OperandImmediate {
			rec.Immediates[rec.ImmediateCount] = encodeImmediate(target.Value)
			rec.ImmediateCount++
		}
	}

	c.Records = append(c.Records, rec)
	c.log("line %d: ic=%d mnemonic=%s opcode=%d words=%d", row, int(rec.ICAddress), mnemonic, info.value, count)
	c.IC += count
}
