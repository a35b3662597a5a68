// Package textio implements the bracketed, whitespace-insensitive text
// format shared by splines and numeric lists: a token scanner for reading
// and a sticky-error writer for printing.
package textio

import (
	"errors"
	"fmt"
	"io"
	"math"
	"strconv"
	"text/scanner"
)

// ErrSyntax is wrapped by every scan failure.
var ErrSyntax = errors.New("syntax error")

// Token kinds returned by Scanner.Next besides single punctuation runes.
const (
	EOF    = scanner.EOF
	Number = scanner.Float
	Word   = scanner.Ident
)

// Scanner splits input into numbers, words and punctuation. Signed numbers,
// NaN and Inf are returned as single Number tokens.
type Scanner struct {
	sc     scanner.Scanner
	tok    rune
	text   string
	num    float64
	pushed bool
	err    error
}

// NewScanner returns a Scanner reading from r. name appears in error
// positions.
func NewScanner(r io.Reader, name string) *Scanner {
	s := &Scanner{}
	s.sc.Init(r)
	s.sc.Filename = name
	s.sc.Mode = scanner.ScanIdents | scanner.ScanInts | scanner.ScanFloats
	s.sc.Error = func(_ *scanner.Scanner, msg string) {
		if s.err == nil {
			s.err = s.Errorf("%s", msg)
		}
	}
	return s
}

// Next advances to the next token and returns its kind: Number, Word, EOF
// or the punctuation rune itself.
func (s *Scanner) Next() rune {
	if s.pushed {
		s.pushed = false
		return s.tok
	}
	tok := s.sc.Scan()
	s.text = s.sc.TokenText()
	switch tok {
	case scanner.Int, scanner.Float:
		s.tok = Number
		s.num, _ = strconv.ParseFloat(s.text, 64)
	case scanner.Ident:
		s.tok = Word
		if v, ok := special(s.text); ok {
			s.tok = Number
			s.num = v
		}
	case '-', '+':
		s.tok = tok
		s.signed(tok)
	default:
		s.tok = tok
	}
	return s.tok
}

// signed folds a sign followed directly by a number into one token.
func (s *Scanner) signed(sign rune) {
	next := s.sc.Peek()
	if next != '.' && next != 'I' && next != 'N' && (next < '0' || next > '9') {
		return
	}
	tok := s.sc.Scan()
	text := s.sc.TokenText()
	var v float64
	switch tok {
	case scanner.Int, scanner.Float:
		v, _ = strconv.ParseFloat(text, 64)
	case scanner.Ident:
		sv, ok := special(text)
		if !ok {
			s.err = s.Errorf("number expected after %q, got %q", sign, text)
			return
		}
		v = sv
	default:
		s.err = s.Errorf("number expected after %q, got %q", sign, text)
		return
	}
	if sign == '-' {
		v = -v
	}
	s.tok = Number
	s.num = v
	s.text = string(sign) + text
}

func special(text string) (float64, bool) {
	switch text {
	case "NaN":
		return math.NaN(), true
	case "Inf":
		return math.Inf(1), true
	}
	return 0, false
}

// Unread pushes the current token back so the next call to Next returns it
// again. Only one token of lookahead is kept.
func (s *Scanner) Unread() {
	s.pushed = true
}

// Peek returns the kind of the next token without consuming it.
func (s *Scanner) Peek() rune {
	tok := s.Next()
	s.Unread()
	return tok
}

// Text returns the source text of the current token.
func (s *Scanner) Text() string {
	return s.text
}

// Err returns the first low-level scan error, if any.
func (s *Scanner) Err() error {
	return s.err
}

// Errorf returns an ErrSyntax wrapped with the current position.
func (s *Scanner) Errorf(format string, args ...any) error {
	return fmt.Errorf("%w: %s: %s", ErrSyntax, s.sc.Position, fmt.Sprintf(format, args...))
}

// Expect consumes the next token and fails unless it is ch.
func (s *Scanner) Expect(ch rune) error {
	if tok := s.Next(); tok != ch {
		return s.unexpected(strconv.QuoteRune(ch))
	}
	return nil
}

// Number consumes and returns a number token.
func (s *Scanner) Number() (float64, error) {
	if s.Next() != Number {
		return 0, s.unexpected("number")
	}
	return s.num, nil
}

// Int consumes a number token and requires it to be integral.
func (s *Scanner) Int() (int, error) {
	v, err := s.Number()
	if err != nil {
		return 0, err
	}
	if v != math.Trunc(v) || math.IsInf(v, 0) {
		return 0, s.Errorf("integer expected, got %s", s.text)
	}
	return int(v), nil
}

// Bool consumes a true/false word.
func (s *Scanner) Bool() (bool, error) {
	if s.Next() != Word {
		return false, s.unexpected("boolean")
	}
	b, err := strconv.ParseBool(s.text)
	if err != nil {
		return false, s.Errorf("boolean expected, got %q", s.text)
	}
	return b, nil
}

// Word consumes and returns a word token.
func (s *Scanner) Word() (string, error) {
	if s.Next() != Word {
		return "", s.unexpected("word")
	}
	return s.text, nil
}

// Field consumes `name =` and returns the name.
func (s *Scanner) Field() (string, error) {
	name, err := s.Word()
	if err != nil {
		return "", err
	}
	if err := s.Expect('='); err != nil {
		return "", err
	}
	return name, nil
}

// Vec3 reads three numbers, optionally enclosed in parentheses.
func (s *Scanner) Vec3() ([3]float64, error) {
	var v [3]float64
	paren := s.Peek() == '('
	if paren {
		s.Next()
	}
	for i := range v {
		x, err := s.Number()
		if err != nil {
			return v, err
		}
		v[i] = x
	}
	if paren {
		if err := s.Expect(')'); err != nil {
			return v, err
		}
	}
	return v, nil
}

func (s *Scanner) unexpected(want string) error {
	if s.err != nil {
		return s.err
	}
	if s.tok == EOF {
		return s.Errorf("%s expected, got end of input", want)
	}
	return s.Errorf("%s expected, got %q", want, s.text)
}
