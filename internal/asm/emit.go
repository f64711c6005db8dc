// Copyright (c) 2026 The w10asm Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package asm

import (
	"fmt"
	"io"
)

// base4Digits is the base-4 alphabet, most-significant digit first
// (spec.md §4.5): 0->'a', 1->'b', 2->'c', 3->'d'.
const base4Digits = "abcd"

// encodeBase4 renders v as exactly width base-4 characters, most
// significant digit first. v is treated as an unsigned bit pattern of
// width*2 bits (each base-4 digit holds 2 bits).
func encodeBase4(v int, width int) string {
	bits := uint(v) & ((1 << uint(width*2)) - 1)
	out := make([]byte, width)
	for i := width - 1; i >= 0; i-- {
		out[i] = base4Digits[bits&0x3]
		bits >>= 2
	}
	return string(out)
}

// encodeWordBase4 encodes a 10-bit machine word as 5 base-4 characters
// (spec.md §4.5). Negative values are represented via their two's-
// complement 10-bit bit pattern before conversion.
func encodeWordBase4(w Word) string {
	return encodeBase4(int(w), 5)
}

// encodeAddressBase4 encodes an 8-bit address as 4 base-4 characters
// (spec.md §4.5, SPEC_FULL.md §4.2 open-question resolution: 4 digits).
func encodeAddressBase4(a Address) string {
	return encodeBase4(int(a), 4)
}

// encodeCountBase4 encodes a non-negative count in base-4 with no
// leading-zero padding; zero is rendered as "a" (spec.md §4.5).
func encodeCountBase4(n int) string {
	if n == 0 {
		return "a"
	}
	var digits []byte
	for n > 0 {
		digits = append([]byte{base4Digits[n&0x3]}, digits...)
		n >>= 2
	}
	return string(digits)
}

// decodeBase4 parses a base-4 string (MSB first, alphabet a/b/c/d) into
// its unsigned integer value. It is the inverse of encodeBase4/
// encodeCountBase4 and is exercised by the round-trip property (spec.md
// §8) and by the disassembler.
func decodeBase4(s string) (int, error) {
	v := 0
	for i := 0; i < len(s); i++ {
		d := int(s[i] - 'a')
		if d < 0 || d > 3 {
			return 0, errKind(Syntax)
		}
		v = v<<2 | d
	}
	return v, nil
}

// decodeWordBase4 parses a 5-character base-4 word back into its signed
// 10-bit Word value (the inverse of encodeWordBase4).
func decodeWordBase4(s string) (Word, error) {
	v, err := decodeBase4(s)
	if err != nil {
		return 0, err
	}
	if v&0x200 != 0 { // sign bit of a 10-bit two's-complement value
		v -= 1 << wordBits
	}
	return Word(v), nil
}

// Emit serializes the assembled file's object, entry, and external output
// streams (spec.md §4.5). Callers are expected to have already confirmed
// ctx.Failed() is false: output files are never generated when the
// assembly has any accumulated error (spec.md §4.5, §7).
func Emit(ctx *Context, ob, ent, ext io.Writer) error {
	if err := emitObject(ctx, ob); err != nil {
		return err
	}
	if len(ctx.Entries) > 0 && ent != nil {
		if err := emitEntries(ctx, ent); err != nil {
			return err
		}
	}
	if len(ctx.Externs) > 0 && ext != nil {
		if err := emitExternals(ctx, ext); err != nil {
			return err
		}
	}
	return nil
}

// emitObject writes the ".ob" file: a header line of base-4 instruction
// and data counts, followed by one "<address> <word>" line per
// instruction-image entry and then per data-image word, starting at ICF
// (spec.md §4.5).
func emitObject(ctx *Context, w io.Writer) error {
	instCount := ctx.ICF - codeStart
	if _, err := fmt.Fprintf(w, "%s %s\n", encodeCountBase4(instCount), encodeCountBase4(ctx.DCF)); err != nil {
		return err
	}
	for _, e := range ctx.Instrs.Entries() {
		if _, err := fmt.Fprintf(w, "%s %s\n", encodeAddressBase4(e.Address), encodeWordBase4(e.Word)); err != nil {
			return err
		}
	}
	for i, word := range ctx.Data.Words() {
		addr := Address(ctx.ICF + i)
		if _, err := fmt.Fprintf(w, "%s %s\n", encodeAddressBase4(addr), encodeWordBase4(word)); err != nil {
			return err
		}
	}
	return nil
}

// emitEntries writes the ".ent" file: one "<name> <address>" line per
// collected EntryRef, base-4 encoded (spec.md §4.5).
func emitEntries(ctx *Context, w io.Writer) error {
	for _, e := range ctx.Entries {
		if _, err := fmt.Fprintf(w, "%s %s\n", e.Name, encodeAddressBase4(Address(e.Address))); err != nil {
			return err
		}
	}
	return nil
}

// emitExternals writes the ".ext" file: one "<name> <usage_address>" line
// per collected ExternalRef, base-4 encoded, duplicates per use site
// expected (spec.md §4.5).
func emitExternals(ctx *Context, w io.Writer) error {
	for _, e := range ctx.Externs {
		if _, err := fmt.Fprintf(w, "%s %s\n", e.Name, encodeAddressBase4(e.Usage)); err != nil {
			return err
		}
	}
	return nil
}
