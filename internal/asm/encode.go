// Copyright (c) 2026 The w10asm Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package asm

// ARE field values (spec.md Glossary).
const (
	areAbsolute    = 0
	areExternal    = 1
	areRelocatable = 2
)

// externalMarkerWord is the fixed word emitted at a Direct/Matrix operand
// whose symbol is external: address field zero, ARE=01 (spec.md §4.2.1).
const externalMarkerWord Word = areExternal

// encodeFirstWord builds the first instruction word (spec.md §4.2.1):
// opcode[9:6] | source_mode[5:4] | target_mode[3:2] | ARE[1:0]=00.
// An absent operand's mode field is 0.
func encodeFirstWord(opcode, sourceMode, targetMode int) Word {
	if sourceMode < 0 {
		sourceMode = 0
	}
	if targetMode < 0 {
		targetMode = 0
	}
	return Word(opcode<<6 | sourceMode<<4 | targetMode<<2 | areAbsolute)
}

// encodeImmediate encodes an immediate operand word: the value occupies
// bits 9:2 (8 bits, sign preserved within that field) with ARE=00 at bits
// 1:0 (spec.md §4.2.1).
func encodeImmediate(value int) Word {
	return Word((value&0xff)<<2 | areAbsolute)
}

// encodeDirectResolved encodes a Direct (or the first word of a Matrix)
// operand whose symbol resolved to a non-external address:
// (address << 2) | ARE=10.
func encodeDirectResolved(address int) Word {
	return Word(address<<2 | areRelocatable)
}

// encodeMatrixRegisters encodes the second word of a Matrix operand:
// reg1[9:6] | reg2[5:2] | ARE=00.
func encodeMatrixRegisters(reg1, reg2 int) Word {
	return Word(reg1<<6 | reg2<<2 | areAbsolute)
}

// encodeRegisterSource encodes a standalone Register source operand:
// reg[9:6] | 0 | 0 | ARE=00.
func encodeRegisterSource(reg int) Word {
	return Word(reg<<6 | areAbsolute)
}

// encodeRegisterTarget encodes a standalone Register target operand:
// 0 | 0 | reg[5:2] | ARE=00.
func encodeRegisterTarget(reg int) Word {
	return Word(reg<<2 | areAbsolute)
}

// encodeSharedRegisters encodes the single shared word used when both
// operands are Register (spec.md §4.2.1 word-sharing rule):
// source_reg[9:6] | target_reg[5:2] | ARE=00.
func encodeSharedRegisters(sourceReg, targetReg int) Word {
	return Word(sourceReg<<6 | targetReg<<2 | areAbsolute)
}

// wordCount computes the total instruction length in words, including the
// first word, per spec.md §4.2.2's word-count rule.
func wordCount(source, target *Operand) int {
	if source != nil && target != nil &&
		source.Kind == OperandRegister && target.Kind == OperandRegister {
		return 2
	}
	count := 1
	if source != nil {
		count += source.wordCount()
	}
	if target != nil {
		count += target.wordCount()
	}
	return count
}
