// Copyright (c) 2026 The w10asm Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package asm

import (
	"bufio"
	"io"
	"strings"
)

// SecondPass rewinds the ".am" stream and walks it again with an
// independent instruction-record cursor, resolving Direct/Matrix operand
// symbols, emitting the remaining instruction words, and collecting
// entries and externals (spec.md §4.3). It consumes ctx.Records exactly
// once, in order.
func SecondPass(ctx *Context, r io.Reader) error {
	ctx.logSection("Second pass")
	ctx.IC = codeStart
	scanner := bufio.NewScanner(r)
	row := 0
	cursor := 0
	for scanner.Scan() {
		row++
		text := scanner.Text()
		if len(text) > 80 {
			continue // already reported by the first pass
		}
		line := newFstring(row, text).stripTrailingComment()
		if line.isEmpty() {
			continue
		}
		cursor = ctx.secondPassLine(row, line, cursor)
	}
	return scanner.Err()
}

// secondPassLine dispatches one non-empty, comment-stripped line, mirroring
// firstPassLine's label-peel-then-dispatch shape, and returns the advanced
// instruction-record cursor.
func (c *Context) secondPassLine(row int, line fstring, cursor int) int {
	_, _, rest := detectLabelToken(line)

	token, afterToken := rest.consumeWhile(directiveOrMnemonicChar)
	switch token.str {
	case ".extern", ".data", ".string", ".mat":
		return cursor

	case ".entry":
		c.resolveEntry(row, strings.TrimSpace(afterToken.consumeWhitespace().str))
		return cursor

	default:
		if _, known := lookupOpcode(token.str); !known {
			return cursor // already reported by the first pass
		}
		return c.emitInstruction(row, cursor)
	}
}

// resolveEntry handles ".entry name" (spec.md §4.3).
func (c *Context) resolveEntry(row int, name string) {
	sym, err := c.Symbols.Get(name)
	if err != nil {
		c.Fail(row, UndefinedSymbol)
		return
	}
	if sym.Kind == External {
		c.Fail(row, ExternalConflict)
		return
	}
	_ = c.Symbols.MarkEntry(name)
	c.Entries = append(c.Entries, EntryRef{Name: name, Address: sym.Address})
}

// emitInstruction replays the cursor'th InstructionRecord: it checks the
// ic_address cross-check (spec.md §4.3 step 1), emits the pre-built first
// word, then emits the shared register word or each present operand's
// word(s) in source-then-target order, resolving any Direct/Matrix symbol
// along the way. It returns the advanced cursor.
func (c *Context) emitInstruction(row int, cursor int) int {
	if cursor >= len(c.Records) {
		c.Fail(row, General)
		return cursor
	}
	rec := c.Records[cursor]
	cursor++

	if int(rec.ICAddress) != c.IC {
		c.Fail(row, General)
		return cursor
	}

	c.emit(row, rec.FirstWord)

	if rec.Sharing {
		c.emit(row, encodeSharedRegisters(rec.Source.Reg1, rec.Target.Reg1))
		return cursor
	}

	immIdx := 0
	if rec.Source != nil {
		immIdx = c.emitOperand(row, rec.Source, rec, immIdx, true)
	}
	if rec.Target != nil {
		c.emitOperand(row, rec.Target, rec, immIdx, false)
	}
	return cursor
}

// emit appends w to the instruction image and advances IC, recording an
// InstructionImageOverflow diagnostic instead of failing the pass outright.
func (c *Context) emit(row int, w Word) {
	if err := c.Instrs.Emit(w); err != nil {
		c.Fail(row, err.(*Error).Kind)
		return
	}
	c.IC++
}

// emitOperand emits the word(s) for one present, non-shared operand slot
// and returns the advanced immediate-word index.
func (c *Context) emitOperand(row int, op *Operand, rec *InstructionRecord, immIdx int, isSource bool) int {
	switch op.Kind {
	case OperandImmediate:
		if immIdx < rec.ImmediateCount {
			c.emit(row, rec.Immediates[immIdx])
			immIdx++
		}
	case OperandRegister:
		if isSource {
			c.emit(row, encodeRegisterSource(op.Reg1))
		} else {
			c.emit(row, encodeRegisterTarget(op.Reg1))
		}
	case OperandDirect:
		c.emitSymbolWord(row, op.Symbol)
	case OperandMatrix:
		c.emitSymbolWord(row, op.Symbol)
		c.emit(row, encodeMatrixRegisters(op.Reg1, op.Reg2))
	}
	return immIdx
}

// emitSymbolWord resolves name and emits its Direct-form word, recording
// an ExternalRef when the symbol is external (spec.md §4.3).
func (c *Context) emitSymbolWord(row int, name string) {
	sym, err := c.Symbols.Get(name)
	if err != nil {
		c.Fail(row, UndefinedSymbol)
		c.emit(row, 0) // keep the instruction image address-aligned
		return
	}
	addr := Address(c.IC)
	if sym.Kind == External {
		c.emit(row, externalMarkerWord)
		c.Externs = append(c.Externs, ExternalRef{Name: name, Usage: addr})
	} else {
		c.emit(row, encodeDirectResolved(sym.Address))
	}
}
