package mincss

import (
	"fmt"
	"strconv"
	"strings"
)

// escapeControl applies the CLI's control-character convention to s: C0
// controls become "^" + (code point+0x40) per the usual caret notation
// (LF -> ^J, CR -> ^M, TAB -> ^I, FF -> ^L, NUL -> ^@), DEL becomes "^?",
// and every other code point (ASCII printable characters and all
// non-ASCII code points) is kept as-is. FormatToken and FormatTree then
// quote the result with strconv.Quote.
func escapeControl(s string) string {
	var b strings.Builder
	for _, r := range s {
		switch {
		case r < 0x20:
			b.WriteByte('^')
			b.WriteByte(byte(r) + 0x40)
		case r == 0x7f:
			b.WriteString("^?")
		default:
			b.WriteRune(r)
		}
	}
	return b.String()
}

// tokenHasText reports the kinds FormatToken prints with a quoted text
// operand; everything else (single-character punctuation
// with a fixed spelling, and EOF) is printed bare as "<Kind>".
func tokenHasText(k TokenKind) bool {
	switch k {
	case LBrace, RBrace, LBracket, RBracket, LParen, RParen, Colon, Semicolon, Includes, DashMatch, CDO, CDC, EOF:
		return false
	default:
		return true
	}
}

// FormatToken renders t the way `minicss lex` prints one line per token:
// `<Kind> "<printable-text>"`, or bare `<Kind>` for tokens whose text
// carries no information beyond their kind.
func FormatToken(t Token) string {
	if !tokenHasText(t.Kind) {
		return fmt.Sprintf("<%s>", t.Kind)
	}
	return fmt.Sprintf("%s %s", t.Kind, strconv.Quote(escapeControl(t.Text)))
}

// FormatTree renders the tree the way `minicss tree` prints it: one line
// per node, prefixed by "<line-number>:" and indented one ASCII space
// per depth level. Leaves render as "Token (<Kind>)" optionally followed
// by the quoted text; grouped nodes render by their kind name, with
// AtRule/Function additionally carrying a quoted name.
func FormatTree(root *Node) string {
	var b strings.Builder
	formatNode(&b, root, 0)
	return b.String()
}

func formatNode(b *strings.Builder, n *Node, depth int) {
	fmt.Fprintf(b, "%d:%s%s\n", n.Line, strings.Repeat(" ", depth), describeNode(n))
	for _, c := range n.Children {
		formatNode(b, c, depth+1)
	}
}

func describeNode(n *Node) string {
	switch n.Kind {
	case NodeLeaf:
		// Space carries no structural information in a tree dump (unlike
		// a lex dump, where the run's exact content matters), so it
		// renders bare like the punctuation kinds do.
		if tokenHasText(n.Leaf.Kind) && n.Leaf.Kind != Space {
			return fmt.Sprintf("Token (%s) %s", n.Leaf.Kind, strconv.Quote(escapeControl(n.Leaf.Text)))
		}
		return fmt.Sprintf("Token (%s)", n.Leaf.Kind)
	case NodeAtRule:
		return fmt.Sprintf("AtRule %s", strconv.Quote(n.Name))
	case NodeFunction:
		return fmt.Sprintf("Function %s", strconv.Quote(n.Name))
	default:
		return n.Kind.String()
	}
}
