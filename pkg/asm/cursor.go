package asm

// eof is returned by the cursor once the input is exhausted.
const eof rune = -1

type position struct {
	line   int
	column int
}

// cursor walks the source one rune at a time. It is a value type so a copy
// can be advanced speculatively and either assigned back or dropped.
type cursor struct {
	src    []rune
	pos    int // index of the next rune to consume
	line   int
	column int
}

func newCursor(src string) cursor {
	return cursor{src: []rune(src), line: 1, column: 1}
}

// peek returns the rune at the current position without advancing.
func (c *cursor) peek() rune {
	if c.pos >= len(c.src) {
		return eof
	}
	return c.src[c.pos]
}

// peekNext returns the rune one position ahead of the current position.
func (c *cursor) peekNext() rune {
	if c.pos+1 >= len(c.src) {
		return eof
	}
	return c.src[c.pos+1]
}

// advance consumes one rune and returns it.
func (c *cursor) advance() rune {
	if c.pos >= len(c.src) {
		return eof
	}
	r := c.src[c.pos]
	c.pos++
	if r == '\n' {
		c.line++
		c.column = 1
	} else {
		c.column++
	}
	return r
}

func (c *cursor) position() position {
	return position{line: c.line, column: c.column}
}

func (c *cursor) atEnd() bool {
	return c.pos >= len(c.src)
}

// skipWhitespace consumes whitespace and // comments up to the next token.
func (c *cursor) skipWhitespace() {
	for {
		switch r := c.peek(); {
		case isSpace(r):
			c.advance()
		case r == '/' && c.peekNext() == '/':
			c.skipLineComment()
		default:
			return
		}
	}
}

// skipBlanks consumes spaces and tabs but never a line break.
func (c *cursor) skipBlanks() {
	for r := c.peek(); r == ' ' || r == '\t'; r = c.peek() {
		c.advance()
	}
}

// skipLineComment discards everything from the current position to end-of-line.
func (c *cursor) skipLineComment() {
	for !c.atEnd() && c.peek() != '\n' {
		c.advance()
	}
}

// readWhile consumes runes accepted by keep and returns them.
func (c *cursor) readWhile(keep func(rune) bool) string {
	start := c.pos
	for !c.atEnd() && keep(c.peek()) {
		c.advance()
	}
	return string(c.src[start:c.pos])
}

func isSpace(r rune) bool {
	return r == ' ' || r == '\t' || r == '\r' || r == '\n'
}

// isSymbolChar accepts letters, digits, '_' and the '.', '$', ':' used by
// generated code.
func isSymbolChar(r rune) bool {
	switch {
	case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9':
		return true
	case r == '_', r == '.', r == '$', r == ':':
		return true
	}
	return false
}

func isDestChar(r rune) bool {
	return r == 'A' || r == 'D' || r == 'M'
}

func isCompChar(r rune) bool {
	switch r {
	case '0', '1', '-', '+', '!', '&', '|', 'A', 'D', 'M':
		return true
	}
	return false
}
