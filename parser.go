package mincss

import (
	"strings"

	"github.com/sirupsen/logrus"
)

// Parser is the tree builder (component D): a recursive-descent reader
// over the Lexer's token stream that groups tokens by balanced
// delimiter into the shallow Stylesheet/AtRule/TopLevel/Block/
// Brackets/Parens/Function tree, recovering from every malformed
// nesting the grammar admits instead of aborting. It mirrors the
// teacher's Parser in spirit (one token of lookahead, Consume/Peek
// style accessors) but is driven by token kind rather than a flat
// token/value pair, since the grouping grammar here is structural
// rather than tag-name dispatch.
type Parser struct {
	lex  *Lexer
	diag *Diagnostics
	log  logrus.FieldLogger
	cur  Token
}

// NewParser wraps lex. diag receives every tree-level diagnostic in
// addition to whatever the Lexer already reported during tokenizing. A
// nil log discards the trace channel, same default as NewLexer.
func NewParser(lex *Lexer, diag *Diagnostics, log logrus.FieldLogger) *Parser {
	if log == nil {
		log = discardLogger()
	}
	return &Parser{lex: lex, diag: diag, log: log}
}

// Parse consumes the entire token stream and returns the Stylesheet root.
func (p *Parser) Parse() *Node {
	p.cur = p.nextRaw()
	root := &Node{Kind: NodeStylesheet}
	for {
		switch p.cur.Kind {
		case EOF:
			return root
		case Space, CDO, CDC:
			p.advance()
		case AtKeyword:
			root.Children = append(root.Children, p.parseAtRule())
		case RBrace:
			p.diag.Add(msgUnexpectedCloseBrace, p.cur.Line)
			p.advance()
		case RBracket:
			p.diag.Add(msgUnexpectedCloseBracket, p.cur.Line)
			p.advance()
		case RParen:
			p.diag.Add(msgUnexpectedCloseParen, p.cur.Line)
			p.advance()
		default:
			root.Children = append(root.Children, p.parseTopLevel())
		}
	}
}

// nextRaw pulls the next non-Comment token from the Lexer: comments are
// elided before the tree builder ever sees them.
func (p *Parser) nextRaw() Token {
	for {
		t := p.lex.Next()
		if t.Kind == Comment {
			continue
		}
		return t
	}
}

func (p *Parser) advance() Token {
	t := p.cur
	p.cur = p.nextRaw()
	return t
}

func (p *Parser) leaf(t Token) *Node {
	tok := t
	return &Node{Kind: NodeLeaf, Leaf: &tok, Line: t.Line}
}

// htmlCommentLeaf replaces a stray CDO/CDC found inside a grouped
// context with a Space-equivalent leaf, preserving separator semantics
// without smuggling the disallowed delimiter into the tree.
func (p *Parser) htmlCommentLeaf(t Token) *Node {
	return p.leaf(Token{Kind: Space, Text: " ", Line: t.Line})
}

// parseTopLevel collects one contiguous run of top-level ruleset
// material: selector tokens and grouped nodes up to (and including) the
// Block(s) that terminate a ruleset, stopping at EOF or the next
// AtKeyword so the Stylesheet loop can start a fresh node there.
func (p *Parser) parseTopLevel() *Node {
	node := &Node{Kind: NodeTopLevel, Line: p.cur.Line}
	for {
		switch p.cur.Kind {
		case EOF, AtKeyword, CDO, CDC:
			// CDO/CDC end the run rather than being absorbed into it;
			// the enclosing Stylesheet loop discards them.
			return node
		case Semicolon:
			p.advance()
		case RBrace:
			p.diag.Add(msgUnexpectedCloseBrace, p.cur.Line)
			p.advance()
		case RBracket:
			p.diag.Add(msgUnexpectedCloseBracket, p.cur.Line)
			p.advance()
		case RParen:
			p.diag.Add(msgUnexpectedCloseParen, p.cur.Line)
			p.advance()
		case LBrace:
			node.Children = append(node.Children, p.parseGroup(NodeBlock, "block", LBrace, RBrace, ""))
		case LBracket:
			node.Children = append(node.Children, p.parseGroup(NodeBrackets, "brackets", LBracket, RBracket, ""))
		case LParen:
			node.Children = append(node.Children, p.parseGroup(NodeParens, "brackets", LParen, RParen, ""))
		case Function:
			node.Children = append(node.Children, p.parseFunction())
		default:
			node.Children = append(node.Children, p.leaf(p.advance()))
		}
	}
}

// parseAtRule builds one AtRule node: the prelude runs until a `;`
// (rule has no body), a `{` (opens the terminating Block), or EOF.
func (p *Parser) parseAtRule() *Node {
	tok := p.advance() // AtKeyword
	node := &Node{Kind: NodeAtRule, Name: strings.TrimPrefix(tok.Text, "@"), Line: tok.Line}
	const ctx = "@-rule"
	if p.cur.Kind == Space {
		// The whitespace directly after an at-keyword is the ATKEYWORD's
		// own separator (grammar: "ATKEYWORD S*"), not prelude content.
		p.advance()
	}
	for {
		switch p.cur.Kind {
		case Semicolon:
			p.advance()
			return node
		case LBrace:
			node.Children = append(node.Children, p.parseGroup(NodeBlock, "block", LBrace, RBrace, ""))
			return node
		case EOF:
			p.diag.Add(msgIncompleteAtRule, p.cur.Line)
			p.log.WithField("line", p.cur.Line).WithField("action", "unwind").Debug("@-rule never closed")
			return node
		case AtKeyword:
			p.diag.Add(msgUnexpectedAtKeywordIn(ctx), p.cur.Line)
			p.log.WithField("line", p.cur.Line).WithField("action", "drop").Debug("nested @-keyword in prelude")
			p.advance()
		case RBracket:
			p.diag.Add(msgUnexpectedCloseBracketIn(ctx), p.cur.Line)
			p.advance()
		case RParen:
			p.diag.Add(msgUnexpectedCloseParenIn(ctx), p.cur.Line)
			p.advance()
		case CDO, CDC:
			p.diag.Add(msgHTMLCommentIn(ctx), p.cur.Line)
			p.log.WithField("line", p.cur.Line).WithField("action", "substitute").Debug("HTML comment delimiter in prelude")
			node.Children = append(node.Children, p.htmlCommentLeaf(p.advance()))
		case LBracket:
			node.Children = append(node.Children, p.parseGroup(NodeBrackets, "brackets", LBracket, RBracket, ""))
		case LParen:
			node.Children = append(node.Children, p.parseGroup(NodeParens, "brackets", LParen, RParen, ""))
		case Function:
			node.Children = append(node.Children, p.parseFunction())
		default:
			node.Children = append(node.Children, p.leaf(p.advance()))
		}
	}
}

func (p *Parser) parseFunction() *Node {
	tok := p.advance() // Function, text "name("
	node := p.parseGroup(NodeFunction, "brackets", LParen, RParen, strings.TrimSuffix(tok.Text, "("))
	node.Line = tok.Line
	return node
}

// parseGroup reads the body of a Block/Brackets/Parens/Function. For
// Function the caller has already consumed the Function token, which
// carries the opening '('; for the other kinds parseGroup consumes the
// openKind delimiter itself. closeKind is the
// delimiter that properly ends the group. ctx names the group for
// "inside <ctx>" diagnostics: Parens and Function pass "brackets" here
// too, since `[...]` and `(...)` are the same restrictive diagnostic
// category (neither allows a bare semicolon or nested block; only
// Block and the @-rule prelude are their own categories) — brackets
// and parens get extra rules the shared switch below branches on
// explicitly.
func (p *Parser) parseGroup(kind NodeKind, ctx string, openKind, closeKind TokenKind, name string) *Node {
	var line int
	if kind != NodeFunction && p.cur.Kind == openKind {
		line = p.cur.Line
		p.advance()
	} else {
		line = p.cur.Line
	}
	node := &Node{Kind: kind, Name: name, Line: line}
	if ctx == "block" && p.cur.Kind == Space {
		// Grammar: "block: '{' S* ...", same boilerplate-whitespace
		// carve-out as the at-keyword's own "ATKEYWORD S*" — Brackets
		// and Parens have no equivalent production, so they keep it.
		p.advance()
	}

	for {
		if p.cur.Kind == closeKind {
			p.advance()
			return node
		}
		switch p.cur.Kind {
		case EOF:
			if ctx == "block" {
				p.diag.Add(msgUnexpectedEndOfBlock, p.cur.Line)
				p.log.WithField("line", p.cur.Line).WithField("action", "unwind").Debug("unclosed block at end of input")
			} else {
				p.diag.Add(msgMissingCloseDelimiter, p.cur.Line)
				p.log.WithField("line", p.cur.Line).WithField("action", "unwind").WithField("context", ctx).Debug("unclosed group at end of input")
			}
			return node

		case LBrace:
			blockLine := p.cur.Line
			block := p.parseGroup(NodeBlock, "block", LBrace, RBrace, "")
			if ctx == "brackets" {
				p.diag.Add(msgUnexpectedBlockIn(ctx), blockLine)
				p.log.WithField("line", blockLine).WithField("action", "drop").Debug("nested block inside brackets/parens")
			} else {
				node.Children = append(node.Children, block)
			}

		case LBracket:
			node.Children = append(node.Children, p.parseGroup(NodeBrackets, "brackets", LBracket, RBracket, ""))

		case LParen:
			node.Children = append(node.Children, p.parseGroup(NodeParens, "brackets", LParen, RParen, ""))

		case Function:
			node.Children = append(node.Children, p.parseFunction())

		case RBracket:
			p.diag.Add(msgUnexpectedCloseBracketIn(ctx), p.cur.Line)
			p.log.WithField("line", p.cur.Line).WithField("action", "drop").Debug("mismatched close-bracket")
			p.advance()

		case RParen:
			p.diag.Add(msgUnexpectedCloseParenIn(ctx), p.cur.Line)
			p.log.WithField("line", p.cur.Line).WithField("action", "drop").Debug("mismatched close-paren")
			p.advance()

		case RBrace:
			// No symmetric rule names close-brace mismatches inside
			// brackets/parens: kept as an ordinary leaf, not a close.
			node.Children = append(node.Children, p.leaf(p.advance()))

		case Semicolon:
			if ctx == "brackets" {
				p.diag.Add(msgUnexpectedSemicolonIn(ctx), p.cur.Line)
				p.log.WithField("line", p.cur.Line).WithField("action", "drop").Debug("semicolon inside brackets/parens")
				p.advance()
			} else {
				node.Children = append(node.Children, p.leaf(p.advance()))
			}

		case AtKeyword:
			p.diag.Add(msgUnexpectedAtKeywordIn(ctx), p.cur.Line)
			p.log.WithField("line", p.cur.Line).WithField("action", "drop").Debug("nested @-keyword")
			p.advance()

		case CDO, CDC:
			p.diag.Add(msgHTMLCommentIn(ctx), p.cur.Line)
			p.log.WithField("line", p.cur.Line).WithField("action", "substitute").Debug("HTML comment delimiter inside group")
			node.Children = append(node.Children, p.htmlCommentLeaf(p.advance()))

		default:
			node.Children = append(node.Children, p.leaf(p.advance()))
		}
	}
}
