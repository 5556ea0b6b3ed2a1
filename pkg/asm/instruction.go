package asm

import "fmt"

// Kind identifies which variant an Instruction holds.
type Kind int

const (
	Constant        Kind = iota // @ with a literal operand; Bits is final
	AddressVariable             // @ with a symbolic operand; resolved in pass 2
	Label                       // (name); emits nothing
	Compute                     // dest=comp;jump; Bits is final
)

func (k Kind) String() string {
	switch k {
	case Constant:
		return "Constant"
	case AddressVariable:
		return "AddressVariable"
	case Label:
		return "Label"
	case Compute:
		return "Compute"
	}
	return fmt.Sprintf("Kind(%d)", int(k))
}

// Instruction is one syntactic unit of the source. Bits is set for
// Constant and Compute, Name for AddressVariable and Label.
type Instruction struct {
	Kind   Kind
	Bits   string
	Name   string
	Line   int
	Column int
}

// emits reports whether the instruction occupies a ROM address.
func (in Instruction) emits() bool {
	return in.Kind != Label
}

func (in Instruction) String() string {
	switch in.Kind {
	case AddressVariable:
		return "@" + in.Name
	case Label:
		return "(" + in.Name + ")"
	}
	return in.Bits
}

// encodeAddress renders an A-instruction loading value.
func encodeAddress(value uint16) string {
	return fmt.Sprintf("0%015b", value&MaxAddress)
}
