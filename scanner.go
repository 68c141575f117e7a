package mincss

import (
	"io"
	"unicode/utf8"

	"github.com/sirupsen/logrus"
)

// eof is the sentinel rune returned once the input is exhausted. -1 can
// never appear in decoded UTF-8, mirroring the teacher lexer's EOF const.
const eof rune = -1

// Scanner is the input scanner (component A): it decodes a byte stream
// into code points up front, tracks the 1-based source line each code
// point begins on, and gives the Lexer peek/advance/pushback over that
// buffer. Buffering the whole decoded prefix keeps peek/pushback trivial
// at the cost of holding the full input in memory.
type Scanner struct {
	runes []rune
	lines []int
	pos   int
	log   logrus.FieldLogger
}

// NewScanner reads r to completion, replacing malformed UTF-8 with
// U+FFFD and logging each replacement at debug level. Invalid UTF-8 is
// also reported to diag (pass nil to discard); the line attributed is
// the line the bad byte occurred on.
func NewScanner(r io.Reader, diag *Diagnostics, log logrus.FieldLogger) (*Scanner, error) {
	if log == nil {
		log = discardLogger()
	}
	raw, err := io.ReadAll(r)
	if closer, ok := r.(io.Closer); ok {
		_ = closer.Close()
	}
	if err != nil {
		return nil, err
	}

	s := &Scanner{log: log}
	s.decode(raw, diag)
	return s, nil
}

// NewScannerFromString builds a Scanner directly over an in-memory
// string, skipping the io.Reader round-trip the test suite otherwise
// doesn't need.
func NewScannerFromString(src string, diag *Diagnostics, log logrus.FieldLogger) *Scanner {
	if log == nil {
		log = discardLogger()
	}
	s := &Scanner{log: log}
	s.decode([]byte(src), diag)
	return s
}

func (s *Scanner) decode(raw []byte, diag *Diagnostics) {
	s.runes = make([]rune, 0, len(raw))
	s.lines = make([]int, 0, len(raw))

	line := 1
	i := 0
	prevWasCR := false
	for i < len(raw) {
		r, w := utf8.DecodeRune(raw[i:])
		if r == utf8.RuneError && w <= 1 {
			s.log.WithField("offset", i).Debug("invalid UTF-8 sequence replaced with U+FFFD")
			if diag != nil {
				diag.Add(msgInvalidUTF8, line)
			}
			r = utf8.RuneError
			w = 1
		}

		switch r {
		case '\n':
			if prevWasCR {
				// already counted as part of the preceding CR
				prevWasCR = false
				s.runes = append(s.runes, r)
				s.lines = append(s.lines, line-1)
				i += w
				continue
			}
			s.runes = append(s.runes, r)
			s.lines = append(s.lines, line)
			line++
			i += w
			continue
		case '\r':
			s.runes = append(s.runes, r)
			s.lines = append(s.lines, line)
			line++
			prevWasCR = true
			i += w
			continue
		case '\f':
			s.runes = append(s.runes, r)
			s.lines = append(s.lines, line)
			line++
			prevWasCR = false
			i += w
			continue
		default:
			prevWasCR = false
			s.runes = append(s.runes, r)
			s.lines = append(s.lines, line)
			i += w
		}
	}
	// sentinel line for EOF == the line the input ends on (one past the
	// last line break, if the input ends with one)
	s.lines = append(s.lines, line)
}

// peek returns the k-th upcoming code point (k is 0-based) without
// consuming it. Peeking past the end of input yields eof.
func (s *Scanner) peek(k int) rune {
	i := s.pos + k
	if i < 0 || i >= len(s.runes) {
		return eof
	}
	return s.runes[i]
}

// advance consumes and returns the next code point, or eof.
func (s *Scanner) advance() rune {
	if s.pos >= len(s.runes) {
		return eof
	}
	r := s.runes[s.pos]
	s.pos++
	return r
}

// line reports the source line of the next not-yet-consumed code point
// (or, at end of input, the line the input ends on).
func (s *Scanner) line() int {
	if s.pos < len(s.lines) {
		return s.lines[s.pos]
	}
	return s.lines[len(s.lines)-1]
}

// lineAt reports the line of the code point at absolute buffer position p.
func (s *Scanner) lineAt(p int) int {
	if p < 0 {
		p = 0
	}
	if p >= len(s.lines) {
		p = len(s.lines) - 1
	}
	return s.lines[p]
}

// pushback returns n previously-consumed code points to the front of the
// stream. Callers only ever push back code points they just advanced
// past (for one-token-of-lookahead decisions like url( detection), so a
// plain position rewind is equivalent to a generalized pushback queue.
func (s *Scanner) pushback(n int) {
	s.pos -= n
	if s.pos < 0 {
		s.pos = 0
	}
}

// mark snapshots the current position so a speculative scan can be
// abandoned with reset.
func (s *Scanner) mark() int { return s.pos }

// reset rewinds to a position previously returned by mark.
func (s *Scanner) reset(p int) { s.pos = p }

// atEOF reports whether the next peek(0) would be eof.
func (s *Scanner) atEOF() bool { return s.pos >= len(s.runes) }

// textBetween renders the already-consumed code points between two
// positions returned by mark, verbatim. Used to recover raw whitespace
// spans (e.g. inside a url( argument) without re-decoding them.
func (s *Scanner) textBetween(a, b int) string {
	if a < 0 {
		a = 0
	}
	if b > len(s.runes) {
		b = len(s.runes)
	}
	if a >= b {
		return ""
	}
	return string(s.runes[a:b])
}
