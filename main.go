// Copyright (c) 2026 The w10asm Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Command w10asm is the two-pass assembler CLI for the machine described
// in spec.md (SPEC_FULL.md §4.8). Usage: w10asm file1 [file2 ...]. Each
// argument is assembled independently; per-file diagnostics are printed
// to stderr and do not stop subsequent files (spec.md §6).
//
// A second, separately dispatched form, "w10asm disasm <file.ob>",
// decodes a produced object file back into a mnemonic listing
// (SPEC_FULL.md §4.7).
package main

import (
	"flag"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/beevik/cmd"

	"github.com/w10asm/w10asm/disasm"
	"github.com/w10asm/w10asm/internal/asm"
)

var verbose bool

func init() {
	flag.BoolVar(&verbose, "v", false, "trace each pass's internal decisions")
	flag.CommandLine.Usage = func() {
		fmt.Fprintln(os.Stderr, "Usage: w10asm [-v] file1 [file2 ...]\n       w10asm disasm file.ob")
		flag.PrintDefaults()
	}
}

// tools is a small command tree (mirroring host/cmds.go's cmd.Tree
// pattern) used only for the one optional, separately-named sub-command.
// The primary per-file batch contract below remains flat positional
// arguments, exactly as spec.md §6 specifies.
var tools *cmd.Tree

func init() {
	tools = cmd.NewTree("w10asm")
	tools.AddCommand(cmd.Command{
		Name:        "disasm",
		Brief:       "Disassemble an assembled object file",
		Description: "Decode a produced \".ob\" file into a mnemonic listing.",
		Usage:       "disasm <file.ob>",
		Data:        cmdDisasm,
	})
}

func main() {
	flag.Parse()
	args := flag.Args()
	if len(args) == 0 {
		flag.Usage()
		os.Exit(1)
	}

	if args[0] == "disasm" {
		sel, err := tools.Lookup(strings.Join(args, " "))
		if err != nil {
			fmt.Fprintln(os.Stderr, err)
			os.Exit(1)
		}
		handler := sel.Command.Data.(func([]string) error)
		if err := handler(sel.Args); err != nil {
			fmt.Fprintln(os.Stderr, err)
			os.Exit(1)
		}
		return
	}

	os.Exit(assembleAll(args))
}

// assembleAll runs the core pipeline over every file argument, stripping
// any extension (spec.md §6: "the core is invoked with the bare base
// name"). It returns 0 if every file succeeded, 1 otherwise.
func assembleAll(args []string) int {
	exit := 0
	for _, name := range args {
		base := strings.TrimSuffix(name, filepath.Ext(name))
		result, err := asm.AssembleFile(base, verbose, os.Stdout)
		if err != nil {
			fmt.Fprintf(os.Stderr, "%s: %v\n", base, err)
			exit = 1
			continue
		}
		if result.Failed() {
			asm.PrintDiagnostics(os.Stderr, result.Diagnostics)
			exit = 1
		}
	}
	return exit
}

// cmdDisasm implements "w10asm disasm <file.ob>" (SPEC_FULL.md §4.7).
func cmdDisasm(args []string) error {
	if len(args) != 1 {
		return fmt.Errorf("usage: w10asm disasm <file.ob>")
	}
	f, err := os.Open(args[0])
	if err != nil {
		return err
	}
	defer f.Close()

	lines, err := disasm.Disassemble(f)
	if err != nil {
		return err
	}
	for _, line := range lines {
		if line.Err != nil {
			fmt.Fprintf(os.Stderr, "%s at %d: %v\n", args[0], line.Address, line.Err)
			continue
		}
		fmt.Printf("%3d  %s\n", line.Address, line.Text)
	}
	return nil
}
