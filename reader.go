package noldor

import (
	"strconv"
	"strings"
)

// Read parses one datum from port (§6 "Reader"), grounded in the
// original port-based `read(value port)`: the reader never looks past
// the characters needed to decide where one datum ends, so a REPL can
// read one form from stdin at a time without blocking on more input
// than necessary. Returns the eof singleton at exhaustion rather than
// an error.
func (i *Interpreter) Read(port Value) (Value, error) {
	if err := i.skipAtmosphere(port); err != nil {
		return 0, err
	}
	r, isEOF, err := PeekChar(port)
	if err != nil {
		return 0, err
	}
	if isEOF {
		return i.atoms.eof, nil
	}

	switch {
	case r == '(':
		ReadChar(port)
		return i.readList(port)
	case r == ')':
		ReadChar(port)
		return 0, &ParseError{Message: "unexpected )"}
	case r == '\'':
		ReadChar(port)
		return i.readWrapped(port, i.kw.quote)
	case r == '`':
		ReadChar(port)
		return i.readWrapped(port, i.kw.quasiquote)
	case r == ',':
		ReadChar(port)
		nr, nEOF, _ := PeekChar(port)
		if !nEOF && nr == '@' {
			ReadChar(port)
			return i.readWrapped(port, i.kw.unquoteSplicing)
		}
		return i.readWrapped(port, i.kw.unquote)
	case r == '"':
		ReadChar(port)
		return i.readString(port)
	case r == '#':
		ReadChar(port)
		return i.readHash(port)
	default:
		tok, terr := i.readToken(port)
		if terr != nil {
			return 0, terr
		}
		return i.parseAtom(tok), nil
	}
}

func (i *Interpreter) readWrapped(port, tag Value) (Value, error) {
	inner, err := i.Read(port)
	if err != nil {
		return 0, err
	}
	if IsEOF(inner) {
		return 0, &ParseError{Message: "unexpected eof after quote-family prefix"}
	}
	return i.heap.List(i.atoms.null, tag, inner), nil
}

// skipAtmosphere consumes whitespace and ;-to-end-of-line comments.
func (i *Interpreter) skipAtmosphere(port Value) error {
	for {
		r, isEOF, err := PeekChar(port)
		if err != nil {
			return err
		}
		if isEOF {
			return nil
		}
		switch {
		case r == ';':
			for {
				rr, eof, _ := ReadChar(port)
				if eof || rr == '\n' {
					break
				}
			}
		case isSchemeWhitespace(r):
			ReadChar(port)
		default:
			return nil
		}
	}
}

func isSchemeWhitespace(r rune) bool {
	return r == ' ' || r == '\t' || r == '\n' || r == '\r' || r == '\f'
}

func isDelimiter(r rune) bool {
	return isSchemeWhitespace(r) || r == '(' || r == ')' || r == '"' || r == ';'
}

func (i *Interpreter) readToken(port Value) (string, error) {
	var b strings.Builder
	for {
		r, isEOF, err := PeekChar(port)
		if err != nil {
			return "", err
		}
		if isEOF || isDelimiter(r) {
			break
		}
		ReadChar(port)
		b.WriteRune(r)
	}
	return b.String(), nil
}

// parseAtom classifies a bare token as a number or a symbol — this
// interpreter has no `|...|`-delimited symbol syntax (§6 Non-goals).
func (i *Interpreter) parseAtom(tok string) Value {
	if n, err := strconv.ParseInt(tok, 10, 32); err == nil {
		return FromInt32(int32(n))
	}
	// decimals only: signs, digits and a point (no exponent, inf or nan)
	if strings.Trim(tok, "+-.0123456789") == "" && strings.ContainsAny(tok, "0123456789") {
		if f, err := strconv.ParseFloat(tok, 64); err == nil {
			return FromDouble(f)
		}
	}
	return i.symbols.Intern(tok)
}

func (i *Interpreter) readList(port Value) (Value, error) {
	if err := i.skipAtmosphere(port); err != nil {
		return 0, err
	}
	r, isEOF, err := PeekChar(port)
	if err != nil {
		return 0, err
	}
	if isEOF {
		return 0, &ParseError{Message: "unexpected eof in list"}
	}
	if r == ')' {
		ReadChar(port)
		return i.atoms.null, nil
	}

	// a lone `.` token introduces the final cdr of an improper list
	if r == '.' {
		tok, terr := i.peekToken(port)
		if terr != nil {
			return 0, terr
		}
		if tok == "." {
			i.readToken(port)
			tail, derr := i.Read(port)
			if derr != nil {
				return 0, derr
			}
			if err := i.skipAtmosphere(port); err != nil {
				return 0, err
			}
			cr, cEOF, _ := ReadChar(port)
			if cEOF || cr != ')' {
				return 0, &ParseError{Message: "malformed dotted list"}
			}
			return tail, nil
		}
	}

	head, herr := i.Read(port)
	if herr != nil {
		return 0, herr
	}
	rest, rerr := i.readList(port)
	if rerr != nil {
		return 0, rerr
	}
	return i.heap.Cons(head, rest), nil
}

// peekToken reads a token's text without consuming it from port, used
// only to disambiguate a leading `.` from a symbol like `...`.
func (i *Interpreter) peekToken(port Value) (string, error) {
	tok, err := i.readToken(port)
	if err != nil {
		return "", err
	}
	for j := len(tok) - 1; j >= 0; j-- {
		p := portOf(port)
		p.pushback = append(p.pushback, rune(tok[j]))
	}
	return tok, nil
}

func (i *Interpreter) readString(port Value) (Value, error) {
	var b strings.Builder
	for {
		r, isEOF, err := ReadChar(port)
		if err != nil {
			return 0, err
		}
		if isEOF {
			return 0, &ParseError{Message: "unterminated string literal"}
		}
		if r == '"' {
			break
		}
		if r == '\\' {
			er, eEOF, eerr := ReadChar(port)
			if eerr != nil {
				return 0, eerr
			}
			if eEOF {
				return 0, &ParseError{Message: "unterminated escape in string literal"}
			}
			switch er {
			case 'n':
				b.WriteRune('\n')
			case 't':
				b.WriteRune('\t')
			case 'r':
				b.WriteRune('\r')
			case '"', '\\':
				b.WriteRune(er)
			case 'x':
				var hex strings.Builder
				for {
					hr, hEOF, herr := ReadChar(port)
					if herr != nil || hEOF {
						return 0, &ParseError{Message: "unterminated \\x escape in string literal"}
					}
					if hr == ';' {
						break
					}
					hex.WriteRune(hr)
				}
				cp, perr := strconv.ParseUint(hex.String(), 16, 32)
				if perr != nil {
					return 0, &ParseError{Message: "bad \\x escape in string literal"}
				}
				b.WriteRune(rune(cp))
			case '\n':
				// line continuation: drop the newline and the next line's indentation
				for {
					wr, wEOF, _ := PeekChar(port)
					if wEOF || (wr != ' ' && wr != '\t') {
						break
					}
					ReadChar(port)
				}
			default:
				b.WriteRune(er)
			}
			continue
		}
		b.WriteRune(r)
	}
	return i.heap.MkString(b.String()), nil
}

var namedCharLiterals = map[string]rune{
	"space": ' ', "newline": '\n', "tab": '\t', "return": '\r',
	"alarm": '\a', "backspace": '\b', "delete": 127, "escape": 27, "null": 0,
}

func (i *Interpreter) readHash(port Value) (Value, error) {
	r, isEOF, err := ReadChar(port)
	if err != nil {
		return 0, err
	}
	if isEOF {
		return 0, &ParseError{Message: "unexpected eof after #"}
	}
	switch r {
	case 't', 'f':
		rest, terr := i.readToken(port)
		if terr != nil {
			return 0, terr
		}
		switch string(r) + rest {
		case "t", "true":
			return i.atoms.t, nil
		case "f", "false":
			return i.atoms.f, nil
		}
		return 0, &ParseError{Message: "unsupported # syntax"}
	case '(':
		elems, verr := i.readVectorElements(port)
		if verr != nil {
			return 0, verr
		}
		return i.heap.MkVector(elems), nil
	case '\\':
		return i.readCharLiteral(port)
	default:
		return 0, &ParseError{Message: "unsupported # syntax"}
	}
}

func (i *Interpreter) readVectorElements(port Value) ([]Value, error) {
	var elems []Value
	for {
		if err := i.skipAtmosphere(port); err != nil {
			return nil, err
		}
		r, isEOF, err := PeekChar(port)
		if err != nil {
			return nil, err
		}
		if isEOF {
			return nil, &ParseError{Message: "unexpected eof in vector literal"}
		}
		if r == ')' {
			ReadChar(port)
			return elems, nil
		}
		v, verr := i.Read(port)
		if verr != nil {
			return nil, verr
		}
		elems = append(elems, v)
	}
}

func (i *Interpreter) readCharLiteral(port Value) (Value, error) {
	first, isEOF, err := ReadChar(port)
	if err != nil {
		return 0, err
	}
	if isEOF {
		return 0, &ParseError{Message: "unexpected eof in character literal"}
	}
	if !isAlphaRune(first) {
		return i.heap.MkChar(first), nil
	}
	var b strings.Builder
	b.WriteRune(first)
	for {
		r, eof, err := PeekChar(port)
		if err != nil {
			return 0, err
		}
		if eof || isDelimiter(r) {
			break
		}
		ReadChar(port)
		b.WriteRune(r)
	}
	tok := b.String()
	if len(tok) == 1 {
		return i.heap.MkChar(rune(tok[0])), nil
	}
	if named, ok := namedCharLiterals[strings.ToLower(tok)]; ok {
		return i.heap.MkChar(named), nil
	}
	return 0, &ParseError{Message: "unknown character name #\\" + tok}
}

func isAlphaRune(r rune) bool {
	return (r >= 'a' && r <= 'z') || (r >= 'A' && r <= 'Z')
}
