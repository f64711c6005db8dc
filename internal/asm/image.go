// Copyright (c) 2026 The w10asm Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package asm

// Word is a 10-bit two's-complement machine word, valid range -512..+511
// (spec.md §3).
type Word int

// Address is an 8-bit unsigned memory address, 0..255 (spec.md §3).
type Address int

const (
	// wordBits is the width of a machine word.
	wordBits = 10
	wordMin  = -512
	wordMax  = 511

	// codeStart is the first address instructions occupy (spec.md §3).
	codeStart = 100
	// addressMax is the highest address the 8-bit address space allows.
	addressMax = 255
)

// InstructionRecord is the per-instruction artifact built by the first
// pass and consumed exactly once by the second pass (spec.md §3). It
// carries the fully parsed Source/Target operands (rather than requiring
// the second pass to re-parse operand text) since both passes share the
// same in-memory Context for one file; only symbol *addresses* are
// unresolved at first-pass time, which is exactly what the second pass
// resolves via the Source/Target Symbol fields against the now-complete
// symbol table.
type InstructionRecord struct {
	ICAddress      Address
	WordCount      int
	FirstWord      Word
	Immediates     [2]Word
	ImmediateCount int
	// Sharing is true when both operands are registers and share one word.
	Sharing bool
	Source  *Operand
	Target  *Operand
}

// DataImage is the ordered sequence of Words appended during the first
// pass. Index is the Data Counter (DC) at the moment of insertion
// (spec.md §3).
type DataImage struct {
	words []Word
}

// Append adds w to the end of the image and returns its index (the DC
// value before the append).
func (d *DataImage) Append(w Word) int {
	index := len(d.words)
	d.words = append(d.words, w)
	return index
}

// Len returns the number of words in the image (the DC value).
func (d *DataImage) Len() int {
	return len(d.words)
}

// Words returns the underlying word sequence, in index order.
func (d *DataImage) Words() []Word {
	return d.words
}

// instructionWord is one (address, word) entry of the instruction image.
type instructionWord struct {
	Address Address
	Word    Word
}

// InstructionImage is the append-only, address-ordered sequence of
// instruction words produced by the second pass (spec.md §4.4). Addresses
// must increase by 1 and start at codeStart; size is bounded by
// addressMax+1-codeStart.
type InstructionImage struct {
	entries []instructionWord
	next    Address
}

// NewInstructionImage creates an image whose first emitted word must land
// at codeStart.
func NewInstructionImage() *InstructionImage {
	return &InstructionImage{next: codeStart}
}

// Emit appends w at the next expected address. It returns an
// InstructionImageOverflow error if doing so would exceed addressMax.
func (img *InstructionImage) Emit(w Word) error {
	if int(img.next) > addressMax {
		return errKind(InstructionImageOverflow)
	}
	img.entries = append(img.entries, instructionWord{Address: img.next, Word: w})
	img.next++
	return nil
}

// Len returns the number of words emitted so far.
func (img *InstructionImage) Len() int {
	return len(img.entries)
}

// Entries returns the (address, word) pairs in emission/address order.
func (img *InstructionImage) Entries() []instructionWord {
	return img.entries
}

// EntryRef records a resolved ".entry" symbol (spec.md §3).
type EntryRef struct {
	Name    string
	Address int
}

// ExternalRef records one use site of an externally declared symbol
// (spec.md §3). There is one record per use, not per symbol.
type ExternalRef struct {
	Name  string
	Usage Address
}
