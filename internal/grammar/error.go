package grammar

import "fmt"

// ParseError describes a grammar violation at a particular offset of the input.
type ParseError struct {
	// What names the construct being parsed, e.g. "media type".
	What string
	// Input is the whole parsed text.
	Input string
	// Offset is the byte offset of the offending character.
	// Offset equal to len(Input) means the input ended prematurely.
	Offset int
}

func (e *ParseError) Error() string {
	if e.Offset >= len(e.Input) {
		return fmt.Sprintf("%s %s: unexpected end of input at offset %d in %q",
			ErrMalformedInput, e.What, e.Offset, e.Input)
	}
	return fmt.Sprintf("%s %s: unexpected character %q at offset %d in %q",
		ErrMalformedInput, e.What, e.Input[e.Offset], e.Offset, e.Input)
}

// Char returns the offending character or zero if the input ended prematurely.
func (e *ParseError) Char() byte {
	if e.Offset >= len(e.Input) {
		return 0
	}
	return e.Input[e.Offset]
}

func (*ParseError) Unwrap() error { return ErrMalformedInput }

func (*ParseError) Grammar() bool { return true }
