package asm

import "sort"

// SymbolKind records how a symbol entered the table.
type SymbolKind int

const (
	SymbolBuiltin SymbolKind = iota
	SymbolLabel
	SymbolVariable
)

func (k SymbolKind) String() string {
	switch k {
	case SymbolBuiltin:
		return "builtin"
	case SymbolLabel:
		return "label"
	}
	return "variable"
}

// Symbol is one table entry. A variable stays unresolved until pass 2
// allocates it.
type Symbol struct {
	Address  uint16
	Resolved bool
	Kind     SymbolKind
}

// SymbolTable maps case-sensitive names to addresses for a single run.
type SymbolTable struct {
	symbols map[string]*Symbol

	// Next RAM address handed out to a variable (monotonically increasing).
	nextVariable uint16
}

// NewSymbolTable returns a table seeded with the platform built-ins.
func NewSymbolTable() *SymbolTable {
	s := &SymbolTable{
		symbols:      make(map[string]*Symbol, len(builtinSymbols)),
		nextVariable: VariableBase,
	}
	for name, addr := range builtinSymbols {
		s.symbols[name] = &Symbol{Address: addr, Resolved: true, Kind: SymbolBuiltin}
	}
	return s
}

// Reference records a use of name, inserting an unresolved variable if the
// name is unknown.
func (s *SymbolTable) Reference(name string) {
	if _, ok := s.symbols[name]; !ok {
		s.symbols[name] = &Symbol{Kind: SymbolVariable}
	}
}

// DefineLabel binds name to addr. Built-ins and labels cannot be redefined;
// an unresolved reference is upgraded to a label.
func (s *SymbolTable) DefineLabel(name string, addr uint16) error {
	if sym, ok := s.symbols[name]; ok && sym.Kind != SymbolVariable {
		return &Error{Kind: DuplicateLabel, Token: name}
	}
	s.symbols[name] = &Symbol{Address: addr, Resolved: true, Kind: SymbolLabel}
	return nil
}

// Lookup returns the address bound to name. resolved is false for variables
// still waiting for allocation; ok is false if the name was never seen.
func (s *SymbolTable) Lookup(name string) (addr uint16, resolved bool, ok bool) {
	sym, ok := s.symbols[name]
	if !ok {
		return 0, false, false
	}
	return sym.Address, sym.Resolved, true
}

// Allocate gives name the next free variable address, unless it already
// has one.
func (s *SymbolTable) Allocate(name string) (uint16, error) {
	sym, ok := s.symbols[name]
	if ok && sym.Resolved {
		return sym.Address, nil
	}
	if s.nextVariable >= ScreenBase {
		return 0, &Error{Kind: VariableSpaceExhausted, Token: name}
	}

	if !ok {
		sym = &Symbol{Kind: SymbolVariable}
		s.symbols[name] = sym
	}
	sym.Address = s.nextVariable
	sym.Resolved = true
	s.nextVariable++
	return sym.Address, nil
}

// Kind reports how name was defined.
func (s *SymbolTable) Kind(name string) (SymbolKind, bool) {
	sym, ok := s.symbols[name]
	if !ok {
		return 0, false
	}
	return sym.Kind, true
}

// Names returns every known symbol, sorted.
func (s *SymbolTable) Names() []string {
	names := make([]string, 0, len(s.symbols))
	for name := range s.symbols {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Entries returns a copy of the table keyed by name.
func (s *SymbolTable) Entries() map[string]Symbol {
	out := make(map[string]Symbol, len(s.symbols))
	for name, sym := range s.symbols {
		out[name] = *sym
	}
	return out
}

func (s *SymbolTable) Len() int {
	return len(s.symbols)
}
