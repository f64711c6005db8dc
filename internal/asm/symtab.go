// Copyright (c) 2026 The w10asm Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package asm

import (
	"errors"
)

// SymbolKind classifies a symbol (spec.md §3).
type SymbolKind int

const (
	Code SymbolKind = iota
	Data
	External
)

// Symbol is one entry of the symbol table.
type Symbol struct {
	Name    string
	Address int
	Kind    SymbolKind
	Entry   bool
}

// errSymbolNotFound is returned by SymbolTable.Get/MarkEntry when a name
// has never been added.
var errSymbolNotFound = errors.New("symbol not found")

// errDuplicateSymbol is returned by SymbolTable.Add when the name is
// already present.
var errDuplicateSymbol = errors.New("duplicate symbol")

// SymbolTable holds every symbol discovered for one input file. Name
// lookup is served by a plain map, not an abbreviation-matching prefix
// tree: spec.md §4.6 requires lookup by
// exact name equality, and a prefix tree would resolve a query that
// merely prefixes one stored name to that name (the same hazard
// reserved.go avoids for the reserved-word table). Index into an owned
// entries slice, rather than the source assembler's singly linked list,
// per spec.md §9's invitation to pick any representation semantically
// equivalent to "unique name -> one symbol"; the entries slice also gives
// deterministic iteration order for All(). Shape grounded on
// gmofishsauce-y4's SymbolTable (indexes map + entries slice).
type SymbolTable struct {
	index   map[string]int
	entries []*Symbol
}

// NewSymbolTable initializes an empty symbol table (spec.md §4.6 "init").
func NewSymbolTable() *SymbolTable {
	return &SymbolTable{index: make(map[string]int)}
}

// Add registers a new symbol. It rejects a name already present.
func (st *SymbolTable) Add(name string, addr int, kind SymbolKind) error {
	if st.IsDefined(name) {
		return errDuplicateSymbol
	}
	index := len(st.entries)
	st.entries = append(st.entries, &Symbol{Name: name, Address: addr, Kind: kind})
	st.index[name] = index
	return nil
}

// IsDefined reports whether name is already present in the table.
func (st *SymbolTable) IsDefined(name string) bool {
	_, ok := st.index[name]
	return ok
}

// Get returns the symbol registered under name.
func (st *SymbolTable) Get(name string) (*Symbol, error) {
	index, ok := st.index[name]
	if !ok {
		return nil, errSymbolNotFound
	}
	return st.entries[index], nil
}

// MarkEntry sets the entry flag on an existing symbol. It fails if the
// name has not been registered.
func (st *SymbolTable) MarkEntry(name string) error {
	sym, err := st.Get(name)
	if err != nil {
		return err
	}
	sym.Entry = true
	return nil
}

// RelocateData adds icf to the address of every Data-kind symbol, per
// spec.md §4.2 ("Relocate: for every Data-kind symbol, new_address =
// old_address + ICF").
func (st *SymbolTable) RelocateData(icf int) {
	for _, sym := range st.entries {
		if sym.Kind == Data {
			sym.Address += icf
		}
	}
}

// All returns every symbol in the table, in registration order.
func (st *SymbolTable) All() []*Symbol {
	return st.entries
}
