// Copyright (c) 2026 The w10asm Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package disasm

import (
	"bytes"
	"strings"
	"testing"

	"github.com/w10asm/w10asm/internal/asm"
)

func assembleObject(t *testing.T, src string) []byte {
	t.Helper()
	r, err := asm.Assemble("test", strings.NewReader(src), nil, false, nil)
	if err != nil {
		t.Fatalf("Assemble I/O error: %v", err)
	}
	if r.Failed() {
		t.Fatalf("assembly failed: %v", r.Diagnostics)
	}
	return r.Object
}

func TestDisassembleStopOnly(t *testing.T) {
	obj := assembleObject(t, "stop\n")
	lines, err := Disassemble(bytes.NewReader(obj))
	if err != nil {
		t.Fatal(err)
	}
	if len(lines) != 1 {
		t.Fatalf("expected 1 decoded line, got %d", len(lines))
	}
	if lines[0].Err != nil {
		t.Fatalf("unexpected decode error: %v", lines[0].Err)
	}
	if lines[0].Text != "stop" {
		t.Errorf("text = %q, want %q", lines[0].Text, "stop")
	}
	if lines[0].Address != 100 {
		t.Errorf("address = %d, want 100", lines[0].Address)
	}
}

func TestDisassembleImmediateToRegister(t *testing.T) {
	obj := assembleObject(t, "mov #-1, r3\n")
	lines, err := Disassemble(bytes.NewReader(obj))
	if err != nil {
		t.Fatal(err)
	}
	if len(lines) != 1 {
		t.Fatalf("expected 1 decoded instruction, got %d: %+v", len(lines), lines)
	}
	if lines[0].Err != nil {
		t.Fatalf("unexpected decode error: %v", lines[0].Err)
	}
	if lines[0].Text != "mov #-1, r3" {
		t.Errorf("text = %q, want %q", lines[0].Text, "mov #-1, r3")
	}
}

func TestDisassembleSharedRegisterWord(t *testing.T) {
	obj := assembleObject(t, "add r1, r2\n")
	lines, err := Disassemble(bytes.NewReader(obj))
	if err != nil {
		t.Fatal(err)
	}
	if len(lines) != 1 {
		t.Fatalf("expected 1 decoded instruction, got %d", len(lines))
	}
	if lines[0].Text != "add r1, r2" {
		t.Errorf("text = %q, want %q", lines[0].Text, "add r1, r2")
	}
}

func TestDisassembleExternalReferenceShowsExtern(t *testing.T) {
	obj := assembleObject(t, ".extern FOO\njmp FOO\n")
	lines, err := Disassemble(bytes.NewReader(obj))
	if err != nil {
		t.Fatal(err)
	}
	if len(lines) != 1 {
		t.Fatalf("expected 1 decoded instruction, got %d", len(lines))
	}
	if lines[0].Text != "jmp @extern" {
		t.Errorf("text = %q, want %q", lines[0].Text, "jmp @extern")
	}
}

func TestDisassembleDataWords(t *testing.T) {
	obj := assembleObject(t, ".data 1, -2, 3\nstop\n")
	lines, err := Disassemble(bytes.NewReader(obj))
	if err != nil {
		t.Fatal(err)
	}
	// 1 instruction line (stop) + 3 data lines.
	if len(lines) != 4 {
		t.Fatalf("expected 4 decoded lines, got %d: %+v", len(lines), lines)
	}
	want := []string{"1", "-2", "3"}
	for i, w := range want {
		if lines[1+i].Text != w {
			t.Errorf("data line %d = %q, want %q", i, lines[1+i].Text, w)
		}
	}
}

func TestDisassembleRejectsEmptyFile(t *testing.T) {
	if _, err := Disassemble(bytes.NewReader(nil)); err == nil {
		t.Fatal("expected an error for an empty object file")
	}
}

func TestDisassembleRejectsMalformedHeader(t *testing.T) {
	if _, err := Disassemble(strings.NewReader("not-a-header\n")); err == nil {
		t.Fatal("expected an error for a malformed header")
	}
}
