package mincss

import (
	"strings"

	"github.com/sirupsen/logrus"
)

// This file is the tokenizer (component C): it turns the Scanner's code
// points into a stream of Tokens of the kinds listed in token.go, including
// the url( lookahead specialization. Errors are reported to the
// Diagnostics sink and recovered from locally — Lexer.Next never
// aborts; it always returns a token (possibly a partial one) and leaves
// the scanner positioned so the next call can resume cleanly.

// Lexer produces CSS tokens one at a time from a Scanner.
type Lexer struct {
	sc      *Scanner
	diag    *Diagnostics
	log     logrus.FieldLogger
	pending []Token
}

// NewLexer builds a Lexer over sc, reporting errors to diag (must not be
// nil) and tracing recovery decisions to log (nil selects a discard
// logger).
func NewLexer(sc *Scanner, diag *Diagnostics, log logrus.FieldLogger) *Lexer {
	if log == nil {
		log = discardLogger()
	}
	return &Lexer{sc: sc, diag: diag, log: log}
}

// Next returns the next token in the stream. Once the input is
// exhausted it returns an EOF token repeatedly.
func (l *Lexer) Next() Token {
	if len(l.pending) > 0 {
		t := l.pending[0]
		l.pending = l.pending[1:]
		return t
	}
	if l.sc.atEOF() {
		return Token{Kind: EOF, Line: l.sc.line()}
	}

	startLine := l.sc.line()
	c := l.sc.peek(0)

	switch {
	case isWhitespace(c):
		return l.scanSpace(startLine)

	case c == '/' && l.sc.peek(1) == '*':
		return l.scanComment(startLine)

	case c == '"' || c == '\'':
		text, _ := l.scanStringBody(c, startLine)
		return Token{Kind: String, Text: text, Line: startLine}

	case c == '@':
		l.sc.advance()
		if ident, ok := l.tryIdent(); ok {
			return Token{Kind: AtKeyword, Text: "@" + ident, Line: startLine}
		}
		return Token{Kind: Delim, Text: "@", Line: startLine}

	case c == '#':
		return l.scanHash(startLine)

	case isDigit(c) || (c == '.' && isDigit(l.sc.peek(1))):
		return l.scanNumber(startLine)

	case c == '<' && l.sc.peek(1) == '!' && l.sc.peek(2) == '-' && l.sc.peek(3) == '-':
		l.sc.advance()
		l.sc.advance()
		l.sc.advance()
		l.sc.advance()
		return Token{Kind: CDO, Text: "<!--", Line: startLine}

	case c == '-':
		if ident, ok := l.tryIdent(); ok {
			return l.afterIdent(ident, startLine)
		}
		if l.sc.peek(1) == '-' && l.sc.peek(2) == '>' {
			l.sc.advance()
			l.sc.advance()
			l.sc.advance()
			return Token{Kind: CDC, Text: "-->", Line: startLine}
		}
		l.sc.advance()
		return Token{Kind: Delim, Text: "-", Line: startLine}

	case l.isNameStartHere(c):
		ident, _ := l.tryIdent()
		return l.afterIdent(ident, startLine)

	case c == '~' && l.sc.peek(1) == '=':
		l.sc.advance()
		l.sc.advance()
		return Token{Kind: Includes, Text: "~=", Line: startLine}

	case c == '|' && l.sc.peek(1) == '=':
		l.sc.advance()
		l.sc.advance()
		return Token{Kind: DashMatch, Text: "|=", Line: startLine}

	case c == '{':
		l.sc.advance()
		return Token{Kind: LBrace, Text: "{", Line: startLine}
	case c == '}':
		l.sc.advance()
		return Token{Kind: RBrace, Text: "}", Line: startLine}
	case c == '[':
		l.sc.advance()
		return Token{Kind: LBracket, Text: "[", Line: startLine}
	case c == ']':
		l.sc.advance()
		return Token{Kind: RBracket, Text: "]", Line: startLine}
	case c == '(':
		l.sc.advance()
		return Token{Kind: LParen, Text: "(", Line: startLine}
	case c == ')':
		l.sc.advance()
		return Token{Kind: RParen, Text: ")", Line: startLine}
	case c == ';':
		l.sc.advance()
		return Token{Kind: Semicolon, Text: ";", Line: startLine}
	case c == ':':
		l.sc.advance()
		return Token{Kind: Colon, Text: ":", Line: startLine}

	default:
		l.sc.advance()
		return Token{Kind: Delim, Text: string(c), Line: startLine}
	}
}

// All drains the Lexer and returns every token before EOF; the EOF token
// itself is not included. Convenience for tests and the CLI's lex
// subcommand; large inputs that want streaming behavior should call Next
// directly instead.
func (l *Lexer) All() []Token {
	var toks []Token
	for {
		t := l.Next()
		if t.Kind == EOF {
			return toks
		}
		toks = append(toks, t)
	}
}

func (l *Lexer) scanSpace(startLine int) Token {
	var b strings.Builder
	for isWhitespace(l.sc.peek(0)) {
		b.WriteRune(l.sc.advance())
	}
	return Token{Kind: Space, Text: b.String(), Line: startLine}
}

func (l *Lexer) scanComment(startLine int) Token {
	l.sc.advance()
	l.sc.advance() // "/*"
	var b strings.Builder
	b.WriteString("/*")
	for {
		if l.sc.peek(0) == eof {
			l.diag.Add(msgUnterminatedComment, startLine)
			l.log.WithField("line", startLine).Debug("unterminated comment, emitting partial token")
			return Token{Kind: Comment, Text: b.String(), Line: startLine}
		}
		if l.sc.peek(0) == '*' && l.sc.peek(1) == '/' {
			l.sc.advance()
			l.sc.advance()
			b.WriteString("*/")
			return Token{Kind: Comment, Text: b.String(), Line: startLine}
		}
		b.WriteRune(l.sc.advance())
	}
}

// scanStringBody consumes a string literal; peek(0) must be the
// (not-yet-consumed) opening quote. It always returns text prefixed by
// that quote, suffixed by the closing quote only when terminated is true.
func (l *Lexer) scanStringBody(quote rune, startLine int) (text string, terminated bool) {
	l.sc.advance() // opening quote
	var b strings.Builder
	b.WriteRune(quote)
	for {
		c := l.sc.peek(0)
		switch {
		case c == quote:
			l.sc.advance()
			b.WriteRune(quote)
			return b.String(), true

		case c == eof:
			l.diag.Add(msgUnterminatedString, startLine)
			return b.String(), false

		case c == '\n' || c == '\r' || c == '\f':
			// the newline is left for the next token to consume
			l.diag.Add(msgUnterminatedString, startLine)
			return b.String(), false

		case c == '\\':
			l.sc.advance()
			res := decodeEscape(l.sc, true)
			if res.unterminated {
				l.diag.Add(msgUnterminatedStringBackslh, startLine)
				return b.String(), false
			}
			if res.lineContinuation {
				continue
			}
			b.WriteRune(res.r)

		default:
			b.WriteRune(l.sc.advance())
		}
	}
}

// scanURI attempts the url( specialization. Called with "url" already
// recognized as the identifier and peek(0) == '(' (not yet consumed). It
// queues its result(s) onto l.pending; the caller pops the first.
func (l *Lexer) scanURI(startLine int) {
	l.sc.advance() // consume '('
	afterParen := l.sc.mark()

	wsStart := l.sc.mark()
	for isWhitespace(l.sc.peek(0)) {
		l.sc.advance()
	}
	leadingWS := l.sc.textBetween(wsStart, l.sc.mark())

	if c := l.sc.peek(0); c == '"' || c == '\'' {
		strLine := l.sc.line()
		text, terminated := l.scanStringBody(c, strLine)
		if !terminated {
			l.log.WithField("line", startLine).Debug("url( quoted argument unterminated, falling back to Function")
			l.pending = append(l.pending,
				Token{Kind: Function, Text: "url(", Line: startLine},
				Token{Kind: String, Text: text, Line: strLine},
			)
			return
		}

		wsStart2 := l.sc.mark()
		for isWhitespace(l.sc.peek(0)) {
			l.sc.advance()
		}
		trailingWS := l.sc.textBetween(wsStart2, l.sc.mark())

		if l.sc.peek(0) == ')' {
			l.sc.advance()
			l.pending = append(l.pending, Token{
				Kind: URI,
				Text: "url(" + leadingWS + text + trailingWS + ")",
				Line: startLine,
			})
			return
		}

		l.log.WithField("line", startLine).Debug("url( missing close paren after quoted argument, falling back to Function")
		l.sc.reset(afterParen)
		l.pending = append(l.pending, Token{Kind: Function, Text: "url(", Line: startLine})
		return
	}

	var body strings.Builder
	for {
		c := l.sc.peek(0)
		if c == eof || isWhitespace(c) || c == '"' || c == '\'' || c == '(' || c == ')' || isNonPrintableControl(c) {
			break
		}
		if c == '\\' {
			if !isEscapeStart(l.sc, 0) {
				break
			}
			l.sc.advance()
			res := decodeEscape(l.sc, false)
			body.WriteRune(res.r)
			continue
		}
		body.WriteRune(l.sc.advance())
	}

	wsStart3 := l.sc.mark()
	for isWhitespace(l.sc.peek(0)) {
		l.sc.advance()
	}
	trailingWS := l.sc.textBetween(wsStart3, l.sc.mark())

	if body.Len() > 0 && l.sc.peek(0) == ')' {
		l.sc.advance()
		l.pending = append(l.pending, Token{
			Kind: URI,
			Text: "url(" + leadingWS + body.String() + trailingWS + ")",
			Line: startLine,
		})
		return
	}

	l.log.WithField("line", startLine).Debug("url( unquoted argument malformed, falling back to Function")
	l.sc.reset(afterParen)
	l.pending = append(l.pending, Token{Kind: Function, Text: "url(", Line: startLine})
}

func (l *Lexer) afterIdent(name string, startLine int) Token {
	if l.sc.peek(0) != '(' {
		return Token{Kind: Ident, Text: name, Line: startLine}
	}
	if strings.EqualFold(name, "url") {
		l.scanURI(startLine)
		t := l.pending[0]
		l.pending = l.pending[1:]
		return t
	}
	l.sc.advance()
	return Token{Kind: Function, Text: name + "(", Line: startLine}
}

func (l *Lexer) scanHash(startLine int) Token {
	l.sc.advance() // '#'
	var b strings.Builder
	any := false
	for {
		c := l.sc.peek(0)
		if isNameCharDirect(c) {
			b.WriteRune(l.sc.advance())
			any = true
			continue
		}
		if isEscapeStart(l.sc, 0) {
			l.sc.advance()
			res := decodeEscape(l.sc, false)
			b.WriteRune(res.r)
			any = true
			continue
		}
		break
	}
	if !any {
		return Token{Kind: Delim, Text: "#", Line: startLine}
	}
	return Token{Kind: Hash, Text: "#" + b.String(), Line: startLine}
}

func (l *Lexer) scanNumber(startLine int) Token {
	var b strings.Builder
	for isDigit(l.sc.peek(0)) {
		b.WriteRune(l.sc.advance())
	}
	if l.sc.peek(0) == '.' && isDigit(l.sc.peek(1)) {
		b.WriteRune(l.sc.advance()) // '.'
		for isDigit(l.sc.peek(0)) {
			b.WriteRune(l.sc.advance())
		}
	}
	numText := b.String()

	if l.sc.peek(0) == '%' {
		l.sc.advance()
		return Token{Kind: Percentage, Text: numText + "%", Line: startLine}
	}
	if ident, ok := l.tryIdent(); ok {
		return Token{Kind: Dimension, Text: numText + ident, Line: startLine}
	}
	return Token{Kind: Number, Text: numText, Line: startLine}
}

// --- identifier scanning shared by Ident, AtKeyword, Hash, Dimension
// units, and Function/URI names ---

func isDigit(r rune) bool { return r >= '0' && r <= '9' }

func isNameStartDirect(c rune) bool {
	return (c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z') || c == '_' || c >= 0xA0
}

func isNameCharDirect(c rune) bool {
	return isNameStartDirect(c) || isDigit(c) || c == '-'
}

func isNonPrintableControl(c rune) bool {
	switch {
	case c == eof:
		return false
	case c >= 0x00 && c <= 0x08:
		return true
	case c == 0x0B:
		return true
	case c >= 0x0E && c <= 0x1F:
		return true
	case c == 0x7F:
		return true
	default:
		return false
	}
}

func (l *Lexer) isNameStartHere(c rune) bool {
	return isNameStartDirect(c) || isEscapeStart(l.sc, 0)
}

// tryIdent scans an identifier at the current scanner position; a leading
// '-' starts one only when the code point after it does. It consumes
// nothing and returns ok=false if no identifier starts here.
func (l *Lexer) tryIdent() (string, bool) {
	c := l.sc.peek(0)
	if c == '-' {
		nxt := l.sc.peek(1)
		if !(isNameStartDirect(nxt) || isEscapeStart(l.sc, 1)) {
			return "", false
		}
		var b strings.Builder
		l.sc.advance()
		b.WriteRune('-')
		l.scanNameTail(&b)
		return b.String(), true
	}
	if !l.isNameStartHere(c) {
		return "", false
	}
	var b strings.Builder
	l.consumeNameStartInto(&b)
	l.scanNameTail(&b)
	return b.String(), true
}

func (l *Lexer) consumeNameStartInto(b *strings.Builder) {
	if isEscapeStart(l.sc, 0) {
		l.sc.advance()
		res := decodeEscape(l.sc, false)
		b.WriteRune(res.r)
		return
	}
	b.WriteRune(l.sc.advance())
}

func (l *Lexer) scanNameTail(b *strings.Builder) {
	for {
		c := l.sc.peek(0)
		if isNameCharDirect(c) {
			b.WriteRune(l.sc.advance())
			continue
		}
		if isEscapeStart(l.sc, 0) {
			l.sc.advance()
			res := decodeEscape(l.sc, false)
			b.WriteRune(res.r)
			continue
		}
		break
	}
}
