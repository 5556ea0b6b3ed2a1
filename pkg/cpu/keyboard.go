package cpu

// Hack keyboard codes for keys without a printable character. Printable
// keys use their ASCII value.
const (
	KeyNone      uint16 = 0
	KeyNewline   uint16 = 128
	KeyBackspace uint16 = 129
	KeyLeft      uint16 = 130
	KeyUp        uint16 = 131
	KeyRight     uint16 = 132
	KeyDown      uint16 = 133
	KeyHome      uint16 = 134
	KeyEnd       uint16 = 135
	KeyPageUp    uint16 = 136
	KeyPageDown  uint16 = 137
	KeyInsert    uint16 = 138
	KeyDelete    uint16 = 139
	KeyEscape    uint16 = 140
	KeyF1        uint16 = 141 // F2..F12 follow consecutively
)

// KeyFunction returns the code of function key Fn, n in 1..12.
func KeyFunction(n int) uint16 {
	if n < 1 || n > 12 {
		return KeyNone
	}
	return KeyF1 + uint16(n-1)
}

// KeyChar maps a typed character to its Hack code. Only printable ASCII
// is representable; anything else reads as no key.
func KeyChar(r rune) uint16 {
	switch {
	case r == '\n' || r == '\r':
		return KeyNewline
	case r >= 32 && r <= 126:
		return uint16(r)
	}
	return KeyNone
}
