// Package asm translates Hack assembly into 16-bit machine instructions,
// rendered as strings of '0' and '1'.
//
// Assembly runs in two passes over a single instruction stream. Pass 1
// classifies the source, binds every label to the address of the
// instruction that follows it and registers each symbolic @ operand.
// Pass 2 allocates RAM (from address 16, in order of first reference) to
// the symbols still unresolved and emits one line per non-label instruction.
package asm

// Assembler holds the state of one assembly run.
type Assembler struct {
	symbols *SymbolTable
	program []Instruction
}

func NewAssembler() *Assembler {
	return &Assembler{
		symbols: NewSymbolTable(),
	}
}

// Assemble translates code in a fresh run. It returns the machine code and a
// map from instruction address to 1-based source line.
func Assemble(code string) ([]string, map[uint16]int, error) {
	return NewAssembler().Assemble(code)
}

func (a *Assembler) Assemble(code string) ([]string, map[uint16]int, error) {
	a.symbols = NewSymbolTable()
	a.program = nil

	if err := a.pass1(code); err != nil {
		return nil, nil, err
	}

	return a.pass2()
}

// Symbols returns the table left behind by the last run.
func (a *Assembler) Symbols() *SymbolTable {
	return a.symbols
}

// Instructions returns the stream classified by the last run.
func (a *Assembler) Instructions() []Instruction {
	return a.program
}

func (a *Assembler) pass1(code string) error {
	p := newParser(code)
	address := 0

	for {
		in, ok, err := p.next()
		if err != nil {
			return err
		}
		if !ok {
			return nil
		}

		switch in.Kind {
		case Label:
			if address > MaxAddress {
				return at(&Error{Kind: ProgramTooLarge, Token: in.Name}, in)
			}
			if err := a.symbols.DefineLabel(in.Name, uint16(address)); err != nil {
				return at(err, in)
			}
		case AddressVariable:
			a.symbols.Reference(in.Name)
		}

		a.program = append(a.program, in)

		if in.emits() {
			if address >= ROMSize {
				return at(&Error{Kind: ProgramTooLarge, Token: in.String()}, in)
			}
			address++
		}
	}
}

func (a *Assembler) pass2() ([]string, map[uint16]int, error) {
	machineCode := make([]string, 0, len(a.program))
	sourceMap := make(map[uint16]int)

	for _, in := range a.program {
		var bits string

		switch in.Kind {
		case Label:
			continue
		case AddressVariable:
			addr, err := a.symbols.Allocate(in.Name)
			if err != nil {
				return nil, nil, at(err, in)
			}
			bits = encodeAddress(addr)
		default:
			bits = in.Bits
		}

		sourceMap[uint16(len(machineCode))] = in.Line
		machineCode = append(machineCode, bits)
	}

	return machineCode, sourceMap, nil
}

// at stamps the position of in onto a table error.
func at(err error, in Instruction) error {
	if e, ok := err.(*Error); ok && e.Line == 0 {
		e.Line, e.Column = in.Line, in.Column
	}
	return err
}
