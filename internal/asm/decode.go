// Copyright (c) 2026 The w10asm Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package asm

// This file exports the bit-layout and base-4 primitives the disasm
// package needs to decode a produced ".ob" file back into mnemonic form
// (SPEC_FULL.md §4.7), so that decoding stays driven by the exact same
// tables the encoder (encode.go, reserved.go) uses rather than a
// second, independently-maintained copy.

// DecodeBase4 parses a base-4 string (alphabet a/b/c/d, MSB first) into
// its unsigned integer value.
func DecodeBase4(s string) (int, error) {
	return decodeBase4(s)
}

// DecodeWord parses a 5-character base-4 string into a signed 10-bit Word.
func DecodeWord(s string) (Word, error) {
	return decodeWordBase4(s)
}

// mnemonicByOpcode is the reverse of the opcodes table (reserved.go),
// built once at init time.
var mnemonicByOpcode [16]string

func init() {
	for name, info := range opcodes {
		mnemonicByOpcode[info.value] = name
	}
}

// MnemonicFor returns the mnemonic for opcode, or "" if opcode is outside
// 0..15 or unassigned.
func MnemonicFor(opcode int) string {
	if opcode < 0 || opcode > 15 {
		return ""
	}
	return mnemonicByOpcode[opcode]
}

// DecodedFirstWord is the bit-field breakdown of an instruction's first
// word (spec.md §4.2.1).
type DecodedFirstWord struct {
	Opcode     int
	Mnemonic   string
	SourceMode int // -1 when the mnemonic takes no source operand
	TargetMode int // -1 when the mnemonic takes no target operand
}

// DecodeFirstWord splits w into its opcode and addressing-mode fields.
func DecodeFirstWord(w Word) DecodedFirstWord {
	bits := int(w) & 0x3ff
	opcode := (bits >> 6) & 0xf
	sourceMode := (bits >> 4) & 0x3
	targetMode := (bits >> 2) & 0x3

	mnemonic := MnemonicFor(opcode)
	info, known := opcodes[mnemonic]
	d := DecodedFirstWord{Opcode: opcode, Mnemonic: mnemonic, SourceMode: -1, TargetMode: -1}
	if !known {
		return d
	}
	if info.hasSrc {
		d.SourceMode = sourceMode
	}
	if info.hasTgt {
		d.TargetMode = targetMode
	}
	return d
}

// OperandWordCount returns how many additional words (beyond the first)
// an operand in the given addressing mode contributes, mirroring
// Operand.wordCount for a mode value rather than a parsed Operand.
func OperandWordCount(mode int) int {
	switch mode {
	case ModeImmediate, ModeDirect, ModeRegister:
		return 1
	case ModeMatrix:
		return 2
	default:
		return 0
	}
}

// DecodeImmediate extracts the signed value from an immediate operand
// word (inverse of encodeImmediate).
func DecodeImmediate(w Word) int {
	v := (int(w) >> 2) & 0xff
	if v&0x80 != 0 {
		v -= 0x100
	}
	return v
}

// DecodeAddress extracts the address field from a resolved Direct/Matrix
// operand word (inverse of encodeDirectResolved). ARE is returned
// separately so the caller can distinguish External (ARE=01) words.
func DecodeAddress(w Word) (address int, are int) {
	bits := int(w) & 0x3ff
	return bits >> 2, bits & 0x3
}

// DecodeRegisterPair extracts the two register fields from a shared or
// matrix-register word: reg1[9:6], reg2[5:2].
func DecodeRegisterPair(w Word) (reg1, reg2 int) {
	bits := int(w) & 0x3ff
	return (bits >> 6) & 0x7, (bits >> 2) & 0x7
}
