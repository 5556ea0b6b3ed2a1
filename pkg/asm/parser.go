package asm

import "strconv"

// parser classifies the source into instructions. It does not touch the
// symbol table; registration happens in pass 1.
type parser struct {
	cur cursor
}

func newParser(src string) *parser {
	return &parser{cur: newCursor(src)}
}

// Parse classifies code into its instruction stream without resolving
// any symbols.
func Parse(code string) ([]Instruction, error) {
	p := newParser(code)
	var program []Instruction
	for {
		in, ok, err := p.next()
		if err != nil {
			return nil, err
		}
		if !ok {
			return program, nil
		}
		program = append(program, in)
	}
}

// next returns the next instruction. ok is false once the input is exhausted.
func (p *parser) next() (in Instruction, ok bool, err error) {
	p.cur.skipWhitespace()
	start := p.cur.position()

	switch r := p.cur.peek(); {
	case r == eof:
		return Instruction{}, false, nil
	case r == '@':
		in, err = p.parseAddress()
	case r == '(':
		in, err = p.parseLabel(start)
	case isCompChar(r) || r == ';':
		in, err = p.parseCompute(start)
	default:
		return Instruction{}, false, p.unexpected()
	}
	if err != nil {
		return Instruction{}, false, err
	}
	if err := p.expectEnd(); err != nil {
		return Instruction{}, false, err
	}

	in.Line, in.Column = start.line, start.column
	return in, true, nil
}

func (p *parser) parseAddress() (Instruction, error) {
	p.cur.advance() // @
	operand := p.cur.position()
	name := p.cur.readWhile(isSymbolChar)
	if name == "" {
		return Instruction{}, p.unexpected()
	}

	if !isDecimal(name) {
		return Instruction{Kind: AddressVariable, Name: name}, nil
	}

	value, err := strconv.ParseUint(name, 10, 16)
	if err != nil || value > MaxAddress {
		return Instruction{}, newError(AddressOutOfRange, name, operand)
	}
	return Instruction{Kind: Constant, Bits: encodeAddress(uint16(value))}, nil
}

func (p *parser) parseLabel(start position) (Instruction, error) {
	p.cur.advance() // (
	p.cur.skipBlanks()
	name := p.cur.readWhile(isSymbolChar)
	p.cur.skipBlanks()

	if name == "" || p.cur.peek() != ')' {
		return Instruction{}, newError(MalformedLabel, "("+name, start)
	}
	p.cur.advance() // )

	return Instruction{Kind: Label, Name: name}, nil
}

// parseCompute reads [dest=]comp[;jump] and encodes it immediately.
func (p *parser) parseCompute(start position) (Instruction, error) {
	dest := p.parseDest()

	compPos := p.cur.position()
	comp := p.cur.readWhile(isCompChar)
	if comp == "" && p.cur.peek() != ';' {
		if err := p.expectEnd(); err != nil {
			return Instruction{}, err
		}
	}

	hasJump := false
	probe := p.cur
	probe.skipBlanks()
	if probe.peek() == ';' {
		probe.advance()
		probe.skipBlanks()
		p.cur = probe
		hasJump = true
	}

	if comp == "" {
		token := dest
		if hasJump {
			token = ";"
		}
		return Instruction{}, newError(EmptyComputation, token, compPos)
	}

	jumpPos := p.cur.position()
	jump := p.parseJump()
	if hasJump && jump == "" {
		return Instruction{}, newError(UnknownJump, p.tokenAtCursor(), jumpPos)
	}

	destBits, ok := lookupDest(dest)
	if !ok {
		return Instruction{}, newError(UnknownDestination, dest, start)
	}
	compBits, ok := lookupComp(comp)
	if !ok {
		return Instruction{}, newError(UnknownComputation, comp, compPos)
	}
	jumpBits, ok := lookupJump(jump)
	if !ok {
		return Instruction{}, newError(UnknownJump, jump, jumpPos)
	}

	return Instruction{Kind: Compute, Bits: "111" + compBits + destBits + jumpBits}, nil
}

// parseDest speculatively reads destination letters on a copy of the
// cursor. The copy is kept only when the letters are followed by '='.
func (p *parser) parseDest() string {
	probe := p.cur
	letters := probe.readWhile(isDestChar)
	if letters == "" {
		return ""
	}
	probe.skipBlanks()
	if probe.peek() != '=' {
		return ""
	}
	probe.advance()
	probe.skipBlanks()

	p.cur = probe
	return letters
}

// parseJump consumes a three character mnemonic starting with 'J'.
func (p *parser) parseJump() string {
	if p.cur.peek() != 'J' {
		return ""
	}
	var jump []rune
	for len(jump) < 3 {
		r := p.cur.peek()
		if r == eof || isSpace(r) {
			break
		}
		jump = append(jump, p.cur.advance())
	}
	return string(jump)
}

// expectEnd requires whitespace, a comment or end of input after an instruction.
func (p *parser) expectEnd() error {
	switch r := p.cur.peek(); {
	case r == eof, isSpace(r):
		return nil
	case r == '/' && p.cur.peekNext() == '/':
		return nil
	}
	return p.unexpected()
}

func (p *parser) unexpected() error {
	return newError(UnexpectedCharacter, p.tokenAtCursor(), p.cur.position())
}

func (p *parser) tokenAtCursor() string {
	r := p.cur.peek()
	switch {
	case r == eof:
		return "EOF"
	case r == '\n':
		return `\n`
	}
	return string(r)
}

func isDecimal(s string) bool {
	for _, r := range s {
		if r < '0' || r > '9' {
			return false
		}
	}
	return s != ""
}
