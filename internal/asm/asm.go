// Copyright (c) 2026 The w10asm Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package asm implements a two-pass assembler for a pedagogical 16-opcode,
// 10-bit-word machine (spec.md). It turns a "name.as" source file into a
// base-4-encoded object file plus entry and external reference files.
package asm

import (
	"bytes"
	"fmt"
	"io"
	"os"
)

// Result bundles everything Assemble produced for one file: whether it
// succeeded, its accumulated diagnostics, and (on success) the object,
// entry, and external file bodies.
type Result struct {
	Diagnostics []Diagnostic
	Object      []byte
	Entries     []byte // nil when no .entry was declared and resolved
	Externals   []byte // nil when no external reference was emitted
}

// Failed reports whether the assembly failed (spec.md §4.5's "output
// files are suppressed if any pass reports errors").
func (r *Result) Failed() bool {
	return len(r.Diagnostics) > 0
}

// Assemble runs the full per-file pipeline (Preprocess -> FirstPass ->
// Relocate -> SecondPass -> Emit) against as, the ".as" source stream,
// producing a Result. amOut, if non-nil, additionally receives a copy of
// the expanded ".am" text (spec.md §6 requires this intermediate file to
// exist regardless of later-pass success). Assemble never returns an
// error for source-level mistakes — those surface as r.Diagnostics —
// only for a genuine I/O failure reading as or writing amOut (spec.md §7:
// "stage-fatal errors... stop the current file immediately").
func Assemble(file string, as io.Reader, amOut io.Writer, verbose bool, logWriter io.Writer) (*Result, error) {
	ctx := NewContext(file, verbose, logWriter)

	var am bytes.Buffer
	dest := io.Writer(&am)
	if amOut != nil {
		dest = io.MultiWriter(&am, amOut)
	}
	if err := Preprocess(ctx, as, dest); err != nil {
		return nil, err
	}
	amBytes := am.Bytes()

	if err := FirstPass(ctx, bytes.NewReader(amBytes)); err != nil {
		return nil, err
	}

	if err := SecondPass(ctx, bytes.NewReader(amBytes)); err != nil {
		return nil, err
	}

	result := &Result{Diagnostics: ctx.Diagnostics}
	if result.Failed() {
		ctx.log("assembly failed with %d diagnostic(s)", len(result.Diagnostics))
		return result, nil
	}

	var ob, ent, ext bytes.Buffer
	if err := Emit(ctx, &ob, &ent, &ext); err != nil {
		return nil, err
	}
	result.Object = ob.Bytes()
	if len(ctx.Entries) > 0 {
		result.Entries = ent.Bytes()
	}
	if len(ctx.Externs) > 0 {
		result.Externals = ext.Bytes()
	}
	return result, nil
}

// AssembleFile runs Assemble against "<base>.as" on disk, writing
// "<base>.am" always, and "<base>.ob"/"<base>.ent"/"<base>.ext" on
// success (spec.md §6). It is the thin filesystem collaborator spec.md §1
// calls out as deliberately out of the core's scope: the core logic lives
// entirely in Assemble, operating on byte streams.
func AssembleFile(base string, verbose bool, logWriter io.Writer) (*Result, error) {
	in, err := os.Open(base + ".as")
	if err != nil {
		return nil, err
	}
	defer in.Close()

	amFile, err := os.Create(base + ".am")
	if err != nil {
		return nil, err
	}
	defer amFile.Close()

	result, err := Assemble(base, in, amFile, verbose, logWriter)
	if err != nil {
		return nil, err
	}

	if result.Failed() {
		return result, nil
	}

	if err := writeFile(base+".ob", result.Object); err != nil {
		return nil, err
	}
	if result.Entries != nil {
		if err := writeFile(base+".ent", result.Entries); err != nil {
			return nil, err
		}
	}
	if result.Externals != nil {
		if err := writeFile(base+".ext", result.Externals); err != nil {
			return nil, err
		}
	}
	return result, nil
}

func writeFile(name string, data []byte) error {
	f, err := os.Create(name)
	if err != nil {
		return err
	}
	defer f.Close()
	_, err = f.Write(data)
	return err
}

// PrintDiagnostics renders each diagnostic as "file at line N: kind text"
// to w (spec.md §7's user-visible error format).
func PrintDiagnostics(w io.Writer, diags []Diagnostic) {
	for _, d := range diags {
		fmt.Fprintln(w, d.String())
	}
}
