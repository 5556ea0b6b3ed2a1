package asm

// compTable maps a computation mnemonic to its a-bit plus c1..c6 bits.
var compTable = map[string]string{
	// a=0
	"0":   "0101010",
	"1":   "0111111",
	"-1":  "0111010",
	"D":   "0001100",
	"A":   "0110000",
	"!D":  "0001101",
	"!A":  "0110001",
	"-D":  "0001111",
	"-A":  "0110011",
	"D+1": "0011111",
	"A+1": "0110111",
	"D-1": "0001110",
	"A-1": "0110010",
	"D+A": "0000010",
	"D-A": "0010011",
	"A-D": "0000111",
	"D&A": "0000000",
	"D|A": "0010101",

	// a=1
	"M":   "1110000",
	"!M":  "1110001",
	"-M":  "1110011",
	"M+1": "1110111",
	"M-1": "1110010",
	"D+M": "1000010",
	"D-M": "1010011",
	"M-D": "1000111",
	"D&M": "1000000",
	"D|M": "1010101",
}

var destTable = map[string]string{
	"":    "000",
	"M":   "001",
	"D":   "010",
	"DM":  "011",
	"A":   "100",
	"AM":  "101",
	"AD":  "110",
	"ADM": "111",
}

// legacyDest holds the first-edition spellings still found in older programs.
var legacyDest = map[string]string{
	"MD":  "DM",
	"AMD": "ADM",
}

var jumpTable = map[string]string{
	"":    "000",
	"JGT": "001",
	"JEQ": "010",
	"JGE": "011",
	"JLT": "100",
	"JNE": "101",
	"JLE": "110",
	"JMP": "111",
}

// Platform memory map.
const (
	ScreenBase   uint16 = 16384
	KeyboardAddr uint16 = 24576

	// VariableBase is the first RAM address handed out to variables.
	VariableBase uint16 = 16

	// MaxAddress is the largest value an A-instruction can load.
	MaxAddress = 1<<15 - 1

	// ROMSize is the number of instructions the platform can hold.
	ROMSize = 1 << 15
)

// builtinSymbols are seeded into every new SymbolTable.
var builtinSymbols = map[string]uint16{
	"SP":     0,
	"LCL":    1,
	"ARG":    2,
	"THIS":   3,
	"THAT":   4,
	"R0":     0,
	"R1":     1,
	"R2":     2,
	"R3":     3,
	"R4":     4,
	"R5":     5,
	"R6":     6,
	"R7":     7,
	"R8":     8,
	"R9":     9,
	"R10":    10,
	"R11":    11,
	"R12":    12,
	"R13":    13,
	"R14":    14,
	"R15":    15,
	"SCREEN": ScreenBase,
	"KBD":    KeyboardAddr,
}

func lookupDest(mnemonic string) (string, bool) {
	if canonical, ok := legacyDest[mnemonic]; ok {
		mnemonic = canonical
	}
	bits, ok := destTable[mnemonic]
	return bits, ok
}

func lookupComp(mnemonic string) (string, bool) {
	bits, ok := compTable[mnemonic]
	return bits, ok
}

func lookupJump(mnemonic string) (string, bool) {
	bits, ok := jumpTable[mnemonic]
	return bits, ok
}
