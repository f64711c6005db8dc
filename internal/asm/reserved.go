// Copyright (c) 2026 The w10asm Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package asm

import (
	"strings"
)

// Addressing modes (spec.md §3, §4.2.1).
const (
	ModeImmediate = 0
	ModeDirect    = 1
	ModeMatrix    = 2
	ModeRegister  = 3
)

// opcodeInfo describes one of the 16 opcodes: its numeric value and the
// sets of addressing modes its source and target operands may use
// (spec.md §4.2.3). A nil set means the operand is not permitted at all.
type opcodeInfo struct {
	value   int
	source  map[int]bool
	target  map[int]bool
	hasSrc  bool
	hasTgt  bool
}

func modeSet(modes ...int) map[int]bool {
	m := make(map[int]bool, len(modes))
	for _, mode := range modes {
		m[mode] = true
	}
	return m
}

var allModes = modeSet(ModeImmediate, ModeDirect, ModeMatrix, ModeRegister)
var noImmediate = modeSet(ModeDirect, ModeMatrix, ModeRegister)
var directOrMatrix = modeSet(ModeDirect, ModeMatrix)

// opcodes is the fixed 16-entry opcode table (spec.md §4.2.3).
var opcodes = map[string]opcodeInfo{
	"mov":  {0, allModes, noImmediate, true, true},
	"cmp":  {1, allModes, allModes, true, true},
	"add":  {2, allModes, noImmediate, true, true},
	"sub":  {3, allModes, noImmediate, true, true},
	"lea":  {4, directOrMatrix, noImmediate, true, true},
	"clr":  {5, nil, noImmediate, false, true},
	"not":  {6, nil, noImmediate, false, true},
	"inc":  {7, nil, noImmediate, false, true},
	"dec":  {8, nil, noImmediate, false, true},
	"jmp":  {9, nil, noImmediate, false, true},
	"bne":  {10, nil, noImmediate, false, true},
	"jsr":  {11, nil, noImmediate, false, true},
	"red":  {12, nil, noImmediate, false, true},
	"prn":  {13, nil, allModes, false, true},
	"rts":  {14, nil, nil, false, false},
	"stop": {15, nil, nil, false, false},
}

// directives recognized by the first and second passes.
var directives = map[string]bool{
	".data":   true,
	".string": true,
	".mat":    true,
	".extern": true,
	".entry":  true,
}

// reservedWords is the closed set of tokens that may never be used as a
// label or macro name (spec.md §6). Like the symbol table and the opcode
// table, this is a plain map rather than a prefix tree: a prefix tree's abbreviation semantics (a string that uniquely prefixes
// one stored key resolves to that key) are right for command dispatch
// but wrong here — "mo" must not be rejected as reserved merely because
// it uniquely prefixes "mov". Reserved-word membership needs exact
// equality only.
var reservedWords map[string]bool

func init() {
	reservedWords = make(map[string]bool)
	for name := range opcodes {
		reservedWords[name] = true
	}
	for name := range directives {
		reservedWords[name] = true
	}
	reservedWords["mcro"] = true
	reservedWords["mcroend"] = true
	for i := 0; i < 8; i++ {
		reservedWords["r"+string(rune('0'+i))] = true
	}
}

func isReservedWord(name string) bool {
	return reservedWords[strings.ToLower(name)]
}

// lookupOpcode returns the opcode table entry for a mnemonic, case
// sensitive per the reserved-word table (mnemonics are lower case).
func lookupOpcode(name string) (opcodeInfo, bool) {
	info, ok := opcodes[name]
	return info, ok
}

// validateAddressing checks a present source/target mode pair against an
// opcode's permitted addressing-mode sets (spec.md §4.2.3), returning the
// refined error kind when exactly one operand is at fault.
func validateAddressing(info opcodeInfo, sourceMode, targetMode int) (Kind, bool) {
	sourceBad := sourceMode >= 0 && !info.source[sourceMode]
	targetBad := targetMode >= 0 && !info.target[targetMode]
	switch {
	case sourceBad && targetBad:
		return InvalidAddressingMode, false
	case sourceBad:
		return InvalidSourceAddressing, false
	case targetBad:
		return InvalidTargetAddressing, false
	default:
		return 0, true
	}
}
