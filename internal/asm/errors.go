// Copyright (c) 2026 The w10asm Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package asm

import "fmt"

// Kind is a member of the closed vocabulary of diagnostic kinds this
// assembler can report. The vocabulary is closed: callers must not invent
// new kinds outside this list, and Kind.String handles every one of them.
type Kind int

const (
	// Label/syntax
	InvalidLabel Kind = iota
	LabelSyntax
	DuplicateLabel
	ReservedWord
	Syntax
	LineTooLong
	MissingWhitespace
	MissingComma

	// Instruction/directive
	UnknownInstruction
	InvalidDirective
	TooManyOperands
	TooFewOperands
	InvalidOperand

	// Immediate/register
	InvalidImmediateValue
	DataOutOfRange
	InvalidRegister
	InvalidAddressingMode
	InvalidSourceAddressing
	InvalidTargetAddressing

	// Matrix
	InvalidMatrix
	InvalidMatrixAccess
	MatrixMissingRegister
	MatrixInvalidRegister
	MatrixRegisterTooLong
	MatrixImmediateNotAllowed
	InvalidMatrixDimensions
	MatrixTooManyValues

	// String
	StringTooLong
	StringMissingQuotes
	StringUnclosed
	StringInvalidCharacter

	// Symbol/entry
	UndefinedSymbol
	EntryNotDefined
	LabelOnExtern
	ExternalConflict

	// Macro
	MacroReservedWord
	MacroExtraText
	MacroMissingEnd
	MacroMissingName

	// System
	MemoryAllocationFailed
	DataImageOverflow
	InstructionImageOverflow
	AddressOutOfBounds

	// General
	General
)

var kindText = map[Kind]string{
	InvalidLabel:              "invalid label",
	LabelSyntax:               "label syntax error",
	DuplicateLabel:            "duplicate label",
	ReservedWord:              "reserved word used as label",
	Syntax:                    "syntax error",
	LineTooLong:               "line too long",
	MissingWhitespace:         "missing whitespace",
	MissingComma:              "missing comma",
	UnknownInstruction:        "unknown instruction",
	InvalidDirective:          "invalid directive",
	TooManyOperands:           "too many operands",
	TooFewOperands:            "too few operands",
	InvalidOperand:            "invalid operand",
	InvalidImmediateValue:     "invalid immediate value",
	DataOutOfRange:            "data value out of range",
	InvalidRegister:           "invalid register",
	InvalidAddressingMode:     "invalid addressing mode",
	InvalidSourceAddressing:   "invalid source addressing mode",
	InvalidTargetAddressing:   "invalid target addressing mode",
	InvalidMatrix:             "invalid matrix operand",
	InvalidMatrixAccess:       "invalid matrix access",
	MatrixMissingRegister:     "matrix operand missing register",
	MatrixInvalidRegister:     "invalid matrix register",
	MatrixRegisterTooLong:     "matrix register token too long",
	MatrixImmediateNotAllowed: "immediate value not allowed in matrix operand",
	InvalidMatrixDimensions:   "invalid matrix dimensions",
	MatrixTooManyValues:       "too many values for matrix",
	StringTooLong:             "string too long",
	StringMissingQuotes:       "string missing quotes",
	StringUnclosed:            "unclosed string",
	StringInvalidCharacter:    "invalid character in string",
	UndefinedSymbol:           "undefined symbol",
	EntryNotDefined:           "entry symbol not defined",
	LabelOnExtern:             "label not allowed on .extern",
	ExternalConflict:          "symbol is both external and entry",
	MacroReservedWord:         "reserved word used as macro name",
	MacroExtraText:            "extra text after macro directive",
	MacroMissingEnd:           "macro definition missing mcroend",
	MacroMissingName:          "macro missing name",
	MemoryAllocationFailed:    "memory allocation failed",
	DataImageOverflow:         "data image overflow",
	InstructionImageOverflow:  "instruction image overflow",
	AddressOutOfBounds:        "address out of bounds",
	General:                   "general error",
}

// String renders the diagnostic text for a Kind. Unrecognized kinds
// surface as "Unknown error type <id>" per the user-visible contract.
func (k Kind) String() string {
	if s, ok := kindText[k]; ok {
		return s
	}
	return fmt.Sprintf("Unknown error type %d", int(k))
}

// Diagnostic is one accumulated error: its kind, the file it occurred in,
// and the 1-based source line number.
type Diagnostic struct {
	File string
	Line int
	Kind Kind
}

func (d Diagnostic) String() string {
	return fmt.Sprintf("%s at line %d: %s", d.File, d.Line, d.Kind)
}

// Error carries a single Kind and lets pass internals use normal Go error
// propagation before a Diagnostic is recorded against a line.
type Error struct {
	Kind Kind
}

func (e *Error) Error() string {
	return e.Kind.String()
}

func errKind(k Kind) error {
	return &Error{Kind: k}
}
