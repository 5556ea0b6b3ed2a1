package asm

import (
	"errors"
	"testing"
)

func TestSymbolTable(t *testing.T) {
	t.Run("SeededBuiltins", func(t *testing.T) {
		s := NewSymbolTable()
		if s.Len() != len(builtinSymbols) {
			t.Errorf("Len() = %d; want %d", s.Len(), len(builtinSymbols))
		}
		addr, resolved, ok := s.Lookup("KBD")
		if !ok || !resolved || addr != 24576 {
			t.Errorf("KBD = %d, %v, %v; want 24576", addr, resolved, ok)
		}
		if kind, _ := s.Kind("R7"); kind != SymbolBuiltin {
			t.Errorf("R7 kind = %v; want builtin", kind)
		}
	})

	t.Run("ReferenceIsUnresolved", func(t *testing.T) {
		s := NewSymbolTable()
		s.Reference("count")
		_, resolved, ok := s.Lookup("count")
		if !ok || resolved {
			t.Errorf("count: ok=%v resolved=%v; want ok and unresolved", ok, resolved)
		}
		s.Reference("SCREEN")
		if addr, resolved, _ := s.Lookup("SCREEN"); !resolved || addr != 16384 {
			t.Error("Reference must not disturb a resolved symbol")
		}
	})

	t.Run("AllocationOrder", func(t *testing.T) {
		s := NewSymbolTable()
		first, _ := s.Allocate("i")
		second, _ := s.Allocate("sum")
		again, _ := s.Allocate("i")
		if first != 16 || second != 17 || again != 16 {
			t.Errorf("allocations = %d, %d, %d; want 16, 17, 16", first, second, again)
		}
		if kind, _ := s.Kind("sum"); kind != SymbolVariable {
			t.Errorf("sum kind = %v; want variable", kind)
		}
	})

	t.Run("AllocateResolvedReturnsExisting", func(t *testing.T) {
		s := NewSymbolTable()
		if err := s.DefineLabel("LOOP", 7); err != nil {
			t.Fatal(err)
		}
		addr, _ := s.Allocate("LOOP")
		if addr != 7 {
			t.Errorf("Allocate(LOOP) = %d; want 7", addr)
		}
		if next, _ := s.Allocate("x"); next != 16 {
			t.Errorf("label lookup consumed a variable slot; x = %d", next)
		}
	})

	t.Run("Redefinition", func(t *testing.T) {
		s := NewSymbolTable()
		s.Reference("END")
		if err := s.DefineLabel("END", 4); err != nil {
			t.Fatalf("binding a pending reference failed: %v", err)
		}

		for _, name := range []string{"END", "R3", "SCREEN"} {
			err := s.DefineLabel(name, 9)
			var asmErr *Error
			if !errors.As(err, &asmErr) || asmErr.Kind != DuplicateLabel {
				t.Errorf("DefineLabel(%q) = %v; want DuplicateLabel", name, err)
			}
		}
		if addr, _, _ := s.Lookup("END"); addr != 4 {
			t.Errorf("END moved to %d after rejected redefinition", addr)
		}
	})

	t.Run("NamesSorted", func(t *testing.T) {
		s := NewSymbolTable()
		s.Reference("zeta")
		s.Reference("alpha")
		names := s.Names()
		for i := 1; i < len(names); i++ {
			if names[i-1] > names[i] {
				t.Fatalf("Names() not sorted: %v", names)
			}
		}
		if len(names) != len(builtinSymbols)+2 {
			t.Errorf("Names() has %d entries; want %d", len(names), len(builtinSymbols)+2)
		}
	})

	t.Run("EntriesAreCopies", func(t *testing.T) {
		s := NewSymbolTable()
		entries := s.Entries()
		sym := entries["SP"]
		sym.Address = 99
		entries["SP"] = sym
		if addr, _, _ := s.Lookup("SP"); addr != 0 {
			t.Errorf("mutating Entries() changed the table: SP = %d", addr)
		}
	})
}
