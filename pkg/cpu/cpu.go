package cpu

import (
	"fmt"
	"strconv"
	"strings"
)

// Memory map of the Hack platform.
const (
	ROMSize    = 32768
	RAMSize    = 32768
	ScreenBase = 0x4000 // 16384
	ScreenSize = 8192   // 256 rows × 32 words
	KBD        = 0x6000 // 24576

	ScreenWidth  = 512
	ScreenHeight = 256
	wordsPerRow  = ScreenWidth / 16
)

// Instruction field masks.
const (
	cInstruction uint16 = 1 << 15
	aBit         uint16 = 1 << 12

	destA uint16 = 1 << 5
	destD uint16 = 1 << 4
	destM uint16 = 1 << 3

	jumpLT uint16 = 1 << 2
	jumpEQ uint16 = 1 << 1
	jumpGT uint16 = 1 << 0
)

// CPU is a Hack computer: separate instruction and data memories, the A and
// D registers and a program counter.
type CPU struct {
	A  uint16
	D  uint16
	PC uint16

	ROM [ROMSize]uint16
	RAM [RAMSize]uint16

	// ProgramSize is the number of words loaded into ROM.
	ProgramSize int

	// Halted is set when the program enters the `@self; 0;JMP` idiom that
	// Hack programs use to stop, or runs off the end of the program.
	Halted bool

	Cycles uint64
}

func NewCPU() *CPU {
	return &CPU{}
}

// LoadProgram loads machine code written as 16-character binary lines.
// Blank lines are skipped.
func (c *CPU) LoadProgram(lines []string) error {
	words := make([]uint16, 0, len(lines))
	for i, raw := range lines {
		line := strings.TrimSpace(raw)
		if line == "" {
			continue
		}
		if len(line) != 16 {
			return fmt.Errorf("invalid instruction on line %d: %q is not 16 bits", i+1, line)
		}
		w, err := strconv.ParseUint(line, 2, 16)
		if err != nil {
			return fmt.Errorf("invalid instruction on line %d: %q", i+1, line)
		}
		words = append(words, uint16(w))
	}
	return c.LoadWords(words)
}

// LoadWords copies words into ROM starting at address 0 and resets the CPU.
func (c *CPU) LoadWords(words []uint16) error {
	if len(words) > ROMSize {
		return fmt.Errorf("program too large for ROM: %d words > %d words", len(words), ROMSize)
	}
	c.ROM = [ROMSize]uint16{}
	copy(c.ROM[:], words)
	c.ProgramSize = len(words)
	c.Reset()
	return nil
}

// Reset clears the registers but keeps ROM and RAM.
func (c *CPU) Reset() {
	c.A, c.D, c.PC = 0, 0, 0
	c.Halted = false
	c.Cycles = 0
}

// ReadMem returns RAM[addr]; addresses past the end of RAM read as zero.
func (c *CPU) ReadMem(addr uint16) uint16 {
	if int(addr) >= RAMSize {
		return 0
	}
	return c.RAM[addr]
}

// WriteMem stores val at addr. KBD is read-only to programs.
func (c *CPU) WriteMem(addr uint16, val uint16) {
	if int(addr) >= RAMSize || addr == KBD {
		return
	}
	c.RAM[addr] = val
}

// SetKey publishes the currently pressed key (0 for none) to KBD.
func (c *CPU) SetKey(code uint16) {
	c.RAM[KBD] = code
}

// Step executes one instruction.
func (c *CPU) Step() {
	if c.Halted {
		return
	}
	if int(c.PC) >= c.ProgramSize {
		c.Halted = true
		return
	}

	instr := c.ROM[c.PC]
	c.Cycles++

	if instr&cInstruction == 0 {
		c.A = instr
		c.PC++
		return
	}

	// M, the jump target and the write address all use A as it was before
	// this instruction.
	addr := c.A
	y := c.A
	if instr&aBit != 0 {
		y = c.ReadMem(addr)
	}
	out := alu(c.D, y, (instr>>6)&0x3F)

	if instr&destM != 0 {
		c.WriteMem(addr, out)
	}
	if instr&destA != 0 {
		c.A = out
	}
	if instr&destD != 0 {
		c.D = out
	}

	if jumps(out, instr) {
		if int(addr) < ROMSize && addr+1 == c.PC && c.ROM[addr] == addr {
			c.Halted = true
		}
		c.PC = addr
		return
	}
	c.PC++
}

// Run steps until the CPU halts or maxCycles instructions have executed.
// A zero budget runs without limit. It reports whether the CPU halted.
func (c *CPU) Run(maxCycles uint64) bool {
	for !c.Halted {
		if maxCycles != 0 && c.Cycles >= maxCycles {
			return false
		}
		c.Step()
	}
	return true
}

// alu implements the Hack ALU. control holds zx nx zy ny f no, high bit first.
func alu(x, y uint16, control uint16) uint16 {
	if control&0x20 != 0 { // zx
		x = 0
	}
	if control&0x10 != 0 { // nx
		x = ^x
	}
	if control&0x08 != 0 { // zy
		y = 0
	}
	if control&0x04 != 0 { // ny
		y = ^y
	}

	var out uint16
	if control&0x02 != 0 { // f
		out = x + y
	} else {
		out = x & y
	}

	if control&0x01 != 0 { // no
		out = ^out
	}
	return out
}

func jumps(out uint16, instr uint16) bool {
	negative := out&0x8000 != 0
	switch {
	case out == 0:
		return instr&jumpEQ != 0
	case negative:
		return instr&jumpLT != 0
	default:
		return instr&jumpGT != 0
	}
}
