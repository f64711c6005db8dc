// Copyright (c) 2026 The w10asm Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package disasm implements a static disassembler for the object files
// produced by internal/asm (SPEC_FULL.md §4.7): it reads a ".ob" file and
// renders its instruction image as a mnemonic listing, and its data image
// as raw decimal words. It is grounded on disasm/disasm.go in the teacher
// repo (github.com/beevik/go6502), a 6502 instruction decoder repurposed
// here to decode this machine's 10-bit word format rather than 6502
// opcode bytes.
package disasm

import (
	"bufio"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/w10asm/w10asm/internal/asm"
)

// Line is one decoded line of output: either an instruction (possibly
// spanning multiple words) or a data word.
type Line struct {
	Address int
	Text    string
	Err     error
}

// Disassemble reads an ".ob" stream and returns one Line per instruction
// and one Line per data word (SPEC_FULL.md §4.7). A malformed line is
// reported as a Line with Err set; disassembly of subsequent lines
// continues.
func Disassemble(r io.Reader) ([]Line, error) {
	scanner := bufio.NewScanner(r)
	if !scanner.Scan() {
		return nil, fmt.Errorf("disasm: empty object file")
	}
	header := strings.Fields(scanner.Text())
	if len(header) != 2 {
		return nil, fmt.Errorf("disasm: malformed header %q", scanner.Text())
	}
	instWords, err := asm.DecodeBase4(header[0])
	if err != nil {
		return nil, fmt.Errorf("disasm: malformed instruction count: %w", err)
	}
	dataWords, err := asm.DecodeBase4(header[1])
	if err != nil {
		return nil, fmt.Errorf("disasm: malformed data count: %w", err)
	}

	type rawWord struct {
		addr int
		word asm.Word
		err  error
	}
	var instrs []rawWord
	for i := 0; i < instWords && scanner.Scan(); i++ {
		addr, word, perr := parseBodyLine(scanner.Text())
		if perr != nil {
			instrs = append(instrs, rawWord{err: perr})
			continue
		}
		instrs = append(instrs, rawWord{addr: addr, word: word})
	}

	var lines []Line
	for i := 0; i < len(instrs); {
		if instrs[i].err != nil {
			lines = append(lines, Line{Err: instrs[i].err})
			i++
			continue
		}
		addr := instrs[i].addr
		d := asm.DecodeFirstWord(instrs[i].word)
		if d.Mnemonic == "" {
			lines = append(lines, Line{Address: addr, Err: fmt.Errorf("unknown opcode %d", d.Opcode)})
			i++
			continue
		}
		count := 1 + asm.OperandWordCount(d.SourceMode) + asm.OperandWordCount(d.TargetMode)
		if d.SourceMode == asm.ModeRegister && d.TargetMode == asm.ModeRegister {
			count = 2
		}
		if i+count > len(instrs) {
			lines = append(lines, Line{Address: addr, Err: fmt.Errorf("truncated instruction at %d", addr)})
			break
		}
		words := make([]asm.Word, count)
		var werr error
		for j := 0; j < count; j++ {
			words[j] = instrs[i+j].word
			if werr == nil {
				werr = instrs[i+j].err
			}
		}
		if werr != nil {
			lines = append(lines, Line{Address: addr, Err: werr})
		} else {
			lines = append(lines, Line{Address: addr, Text: formatInstruction(d, words)})
		}
		i += count
	}

	for i := 0; i < dataWords && scanner.Scan(); i++ {
		addr, word, perr := parseBodyLine(scanner.Text())
		if perr != nil {
			lines = append(lines, Line{Err: perr})
			continue
		}
		lines = append(lines, Line{Address: addr, Text: strconv.Itoa(int(word))})
	}

	return lines, scanner.Err()
}

// parseBodyLine parses one "<address> <word>" body line of a ".ob" file.
func parseBodyLine(text string) (addr int, word asm.Word, err error) {
	fields := strings.Fields(text)
	if len(fields) != 2 {
		return 0, 0, fmt.Errorf("disasm: malformed line %q", text)
	}
	addr, err = asm.DecodeBase4(fields[0])
	if err != nil {
		return 0, 0, err
	}
	word, err = asm.DecodeWord(fields[1])
	return addr, word, err
}

// formatInstruction renders a decoded instruction and its resolved
// operand word(s) as "<mnemonic> <source>, <target>", dropping absent
// operands. Direct/Matrix operands cannot recover their original symbol
// name (spec.md §8's disassembly round-trip property excludes names) and
// are rendered as a bare "@<address>".
func formatInstruction(d asm.DecodedFirstWord, words []asm.Word) string {
	rest := words[1:]
	var source, target string
	idx := 0

	if d.SourceMode == asm.ModeRegister && d.TargetMode == asm.ModeRegister {
		reg1, reg2 := asm.DecodeRegisterPair(rest[0])
		source = fmt.Sprintf("r%d", reg1)
		target = fmt.Sprintf("r%d", reg2)
	} else {
		if d.SourceMode >= 0 {
			source, idx = formatOperand(d.SourceMode, rest, idx, true)
		}
		if d.TargetMode >= 0 {
			target, idx = formatOperand(d.TargetMode, rest, idx, false)
		}
	}

	switch {
	case source != "" && target != "":
		return fmt.Sprintf("%s %s, %s", d.Mnemonic, source, target)
	case target != "":
		return fmt.Sprintf("%s %s", d.Mnemonic, target)
	case source != "":
		return fmt.Sprintf("%s %s", d.Mnemonic, source)
	default:
		return d.Mnemonic
	}
}

// formatOperand renders one present operand, returning the advanced
// index into the operand-word slice.
func formatOperand(mode int, words []asm.Word, idx int, isSource bool) (string, int) {
	switch mode {
	case asm.ModeImmediate:
		return fmt.Sprintf("#%d", asm.DecodeImmediate(words[idx])), idx + 1
	case asm.ModeDirect:
		addr, are := asm.DecodeAddress(words[idx])
		if are == 1 {
			return "@extern", idx + 1
		}
		return fmt.Sprintf("@%d", addr), idx + 1
	case asm.ModeMatrix:
		addr, _ := asm.DecodeAddress(words[idx])
		reg1, reg2 := asm.DecodeRegisterPair(words[idx+1])
		return fmt.Sprintf("@%d[r%d][r%d]", addr, reg1, reg2), idx + 2
	case asm.ModeRegister:
		if isSource {
			reg1, _ := asm.DecodeRegisterPair(words[idx])
			return fmt.Sprintf("r%d", reg1), idx + 1
		}
		_, reg2 := asm.DecodeRegisterPair(words[idx])
		return fmt.Sprintf("r%d", reg2), idx + 1
	default:
		return "", idx
	}
}
