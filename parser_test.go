package mincss

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func parseAll(t *testing.T, src string) (*Node, *Diagnostics) {
	t.Helper()
	diag := NewDiagnostics()
	sc := NewScannerFromString(src, diag, nil)
	lex := NewLexer(sc, diag, nil)
	p := NewParser(lex, diag, nil)
	return p.Parse(), diag
}

// findFirst returns the first descendant (pre-order, root included)
// matching pred, or nil.
func findFirst(n *Node, pred func(*Node) bool) *Node {
	var found *Node
	n.Walk(func(c *Node) {
		if found == nil && pred(c) {
			found = c
		}
	})
	return found
}

func TestParserWellFormedNesting(t *testing.T) {
	root, diag := parseAll(t, "@foo { y[x(z)] }")
	assert.Equal(t, 0, diag.Len())
	require.Equal(t, NodeStylesheet, root.Kind)
	require.Len(t, root.Children, 1)

	atRule := root.Children[0]
	require.Equal(t, NodeAtRule, atRule.Kind)
	assert.Equal(t, "foo", atRule.Name)
	require.Len(t, atRule.Children, 1)

	block := atRule.Children[0]
	require.Equal(t, NodeBlock, block.Kind)

	brackets := findFirst(block, func(n *Node) bool { return n.Kind == NodeBrackets })
	require.NotNil(t, brackets)
	fn := findFirst(brackets, func(n *Node) bool { return n.Kind == NodeFunction })
	require.NotNil(t, fn)
	assert.Equal(t, "x", fn.Name)
	require.Len(t, fn.Children, 1)
	assert.Equal(t, Ident, fn.Children[0].Leaf.Kind)
	assert.Equal(t, "z", fn.Children[0].Leaf.Text)
}

func TestParserUnclosedGroupsUnwind(t *testing.T) {
	_, diag := parseAll(t, "@foo { y[x(z] }")
	var messages []string
	for _, d := range diag.All() {
		messages = append(messages, d.Message)
	}
	require.Len(t, messages, 4)
	assert.Equal(t, msgUnexpectedCloseBracketIn("brackets"), messages[0])
	assert.Equal(t, msgMissingCloseDelimiter, messages[1])
	assert.Equal(t, msgMissingCloseDelimiter, messages[2])
	assert.Equal(t, msgUnexpectedEndOfBlock, messages[3])
}

// TestParserParensShareBracketsContext pins the ctx label Parens/Function
// diagnostics use: it is always "brackets" (the same label Brackets
// itself uses), never "parens" and never inherited from whatever group
// lexically encloses the Parens/Function — confirmed against
// erkyrath/mincss's own treetestlist corpus, which labels a mismatched
// `@` inside a Parens directly nested in Brackets as "inside brackets".
func TestParserParensShareBracketsContext(t *testing.T) {
	root, diag := parseAll(t, "{ [( @foo )] }")
	require.Len(t, diag.All(), 1)
	assert.Equal(t, msgUnexpectedAtKeywordIn("brackets"), diag.All()[0].Message)

	top := root.Children[0]
	block := findFirst(top, func(n *Node) bool { return n.Kind == NodeBlock })
	require.NotNil(t, block)
	brackets := findFirst(block, func(n *Node) bool { return n.Kind == NodeBrackets })
	require.NotNil(t, brackets)
	parens := findFirst(brackets, func(n *Node) bool { return n.Kind == NodeParens })
	require.NotNil(t, parens)
	require.Len(t, parens.Children, 2)
	assert.Equal(t, Space, parens.Children[0].Leaf.Kind)
	assert.Equal(t, Space, parens.Children[1].Leaf.Kind)
}

// TestParserParensSiblingOfBracketsStillUsesBracketsContext is the case
// that rules out "inherit the nearest enclosing group" as the rule: the
// Parens here is a direct child of a Block, yet the semicolon inside it
// is still diagnosed "inside brackets", not "inside block".
func TestParserParensSiblingOfBracketsStillUsesBracketsContext(t *testing.T) {
	root, diag := parseAll(t, "{ ( ; ) [ {} ] }")
	var messages []string
	for _, d := range diag.All() {
		messages = append(messages, d.Message)
	}
	require.Len(t, messages, 2)
	assert.Equal(t, msgUnexpectedSemicolonIn("brackets"), messages[0])
	assert.Equal(t, msgUnexpectedBlockIn("brackets"), messages[1])

	block := findFirst(root, func(n *Node) bool { return n.Kind == NodeBlock })
	require.NotNil(t, block)
	require.Len(t, block.Children, 4)
	parens := block.Children[0]
	require.Equal(t, NodeParens, parens.Kind)
	require.Len(t, parens.Children, 2, "the dropped semicolon leaves only the two surrounding spaces")
	assert.Equal(t, NodeLeaf, block.Children[1].Kind)
	brackets := block.Children[2]
	require.Equal(t, NodeBrackets, brackets.Kind)
	require.Len(t, brackets.Children, 2, "the dropped nested block leaves only the two surrounding spaces")
}

func TestParserTopLevelCloseDelimiterErrors(t *testing.T) {
	root, diag := parseAll(t, ")@foo;]@bar;")
	require.Len(t, root.Children, 2)
	assert.Equal(t, NodeAtRule, root.Children[0].Kind)
	assert.Equal(t, "foo", root.Children[0].Name)
	assert.Equal(t, NodeAtRule, root.Children[1].Kind)
	assert.Equal(t, "bar", root.Children[1].Name)

	require.Len(t, diag.All(), 2)
	assert.Equal(t, msgUnexpectedCloseParen, diag.All()[0].Message)
	assert.Equal(t, msgUnexpectedCloseBracket, diag.All()[1].Message)
}

func TestParserAtRuleWithoutBlock(t *testing.T) {
	root, diag := parseAll(t, "@import url(x.css);")
	assert.Equal(t, 0, diag.Len())
	require.Len(t, root.Children, 1)
	atRule := root.Children[0]
	assert.Equal(t, "import", atRule.Name)
	assert.Empty(t, findFirstBlock(atRule))
}

func findFirstBlock(n *Node) []*Node {
	b := findFirst(n, func(c *Node) bool { return c.Kind == NodeBlock })
	if b == nil {
		return nil
	}
	return b.Children
}

func TestParserIncompleteAtRule(t *testing.T) {
	_, diag := parseAll(t, "@media screen")
	require.Equal(t, 1, diag.Len())
	assert.Equal(t, msgIncompleteAtRule, diag.All()[0].Message)
}

// TestParserBlockDropsOnlyItsLeadingSpace checks the "'{' S*" grammar
// carve-out: the single whitespace run directly after the opening brace
// is boilerplate and isn't kept as a leaf, but any other whitespace in
// the block body is an ordinary, preserved leaf — confirmed against
// erkyrath/mincss's own treetestlist corpus.
func TestParserBlockDropsOnlyItsLeadingSpace(t *testing.T) {
	root, _ := parseAll(t, "a{ b c }")
	top := root.Children[0]
	block := findFirst(top, func(n *Node) bool { return n.Kind == NodeBlock })
	require.NotNil(t, block)
	var kinds []TokenKind
	for _, c := range block.Children {
		require.Equal(t, NodeLeaf, c.Kind)
		kinds = append(kinds, c.Leaf.Kind)
	}
	assert.Equal(t, []TokenKind{Ident, Space, Ident, Space}, kinds)
}

// TestParserBracketsAndParensKeepLeadingSpace confirms Brackets/Parens
// have no analogous grammar carve-out: unlike Block, their own leading
// whitespace is an ordinary leaf, not boilerplate.
func TestParserBracketsAndParensKeepLeadingSpace(t *testing.T) {
	root, _ := parseAll(t, "a[ b ](  )")
	top := root.Children[0]
	brackets := findFirst(top, func(n *Node) bool { return n.Kind == NodeBrackets })
	require.NotNil(t, brackets)
	require.Len(t, brackets.Children, 3)
	assert.Equal(t, Space, brackets.Children[0].Leaf.Kind)

	parens := findFirst(top, func(n *Node) bool { return n.Kind == NodeParens })
	require.NotNil(t, parens)
	require.Len(t, parens.Children, 1)
	assert.Equal(t, Space, parens.Children[0].Leaf.Kind)
}

// The following port a curated subset of erkyrath/mincss's own
// treetestlist corpus (original_source/runtest.py) as direct regression
// cases, beyond spec.md's own nine worked examples. A few corpus entries
// that exercise an undocumented whitespace/HTML-comment-delimiter
// coalescing behavior — not described anywhere in spec.md — are
// deliberately not ported; see DESIGN.md.

func TestParserCorpusEmptyInput(t *testing.T) {
	root, diag := parseAll(t, "\n")
	assert.Equal(t, 0, diag.Len())
	assert.Empty(t, root.Children)
}

func TestParserCorpusAdjacentEmptyBlocks(t *testing.T) {
	root, diag := parseAll(t, "{}{}")
	assert.Equal(t, 0, diag.Len())
	require.Len(t, root.Children, 1)
	top := root.Children[0]
	require.Equal(t, NodeTopLevel, top.Kind)
	require.Len(t, top.Children, 2)
	assert.Equal(t, NodeBlock, top.Children[0].Kind)
	assert.Equal(t, NodeBlock, top.Children[1].Kind)
}

// TestParserCorpusAtRulePreludeTokens pins the at-rule leading-space-drop
// rule across a run of sibling at-rules with varied preludes: an empty
// prelude, a block-terminated prelude, a multi-token prelude ending in a
// Block, and a multi-token prelude ending in a semicolon.
func TestParserCorpusAtRulePreludeTokens(t *testing.T) {
	root, diag := parseAll(t, " @foo; @bar {} @baz 1 2 3 {} @quux x ; ")
	assert.Equal(t, 0, diag.Len())
	require.Len(t, root.Children, 4)

	foo, bar, baz, quux := root.Children[0], root.Children[1], root.Children[2], root.Children[3]
	assert.Equal(t, "foo", foo.Name)
	assert.Empty(t, foo.Children)

	assert.Equal(t, "bar", bar.Name)
	require.Len(t, bar.Children, 1)
	assert.Equal(t, NodeBlock, bar.Children[0].Kind)

	assert.Equal(t, "baz", baz.Name)
	require.Len(t, baz.Children, 7)
	var bazKinds []TokenKind
	for _, c := range baz.Children[:6] {
		require.Equal(t, NodeLeaf, c.Kind)
		bazKinds = append(bazKinds, c.Leaf.Kind)
	}
	assert.Equal(t, []TokenKind{Number, Space, Number, Space, Number, Space}, bazKinds)
	assert.Equal(t, NodeBlock, baz.Children[6].Kind)

	assert.Equal(t, "quux", quux.Name)
	require.Len(t, quux.Children, 2)
	assert.Equal(t, Ident, quux.Children[0].Leaf.Kind)
	assert.Equal(t, Space, quux.Children[1].Leaf.Kind)
}

// TestParserCorpusAtRuleThenTopLevel confirms an at-rule's Stylesheet
// sibling whitespace is discarded (not attached to either side), and
// that a second ruleset's Block keeps its grammar-boilerplate leading
// space dropped the same way the first one does.
func TestParserCorpusAtRuleThenTopLevel(t *testing.T) {
	root, diag := parseAll(t, " @foo ; prop {} prop2 { 1 } @baz{}{}")
	assert.Equal(t, 0, diag.Len())
	require.Len(t, root.Children, 4)

	foo := root.Children[0]
	assert.Equal(t, NodeAtRule, foo.Kind)
	assert.Equal(t, "foo", foo.Name)
	assert.Empty(t, foo.Children)

	top := root.Children[1]
	require.Equal(t, NodeTopLevel, top.Kind)
	require.Len(t, top.Children, 8)
	assert.Equal(t, Ident, top.Children[0].Leaf.Kind)
	assert.Equal(t, "prop", top.Children[0].Leaf.Text)
	assert.Equal(t, Space, top.Children[1].Leaf.Kind)
	assert.Equal(t, NodeBlock, top.Children[2].Kind)
	assert.Empty(t, top.Children[2].Children)
	assert.Equal(t, NodeBlock, top.Children[6].Kind)

	prop2Block := top.Children[6]
	require.Len(t, prop2Block.Children, 2)
	assert.Equal(t, Number, prop2Block.Children[0].Leaf.Kind)
	assert.Equal(t, "1", prop2Block.Children[0].Leaf.Text)

	baz := root.Children[2]
	assert.Equal(t, NodeAtRule, baz.Kind)
	assert.Equal(t, "baz", baz.Name)
	require.Len(t, baz.Children, 1)
	assert.Equal(t, NodeBlock, baz.Children[0].Kind)
}

// TestParserCorpusUnclosedBlockAroundClosedBracketsAndFunction
// re-verifies the Block/at-rule leading-space-drop fixes don't disturb
// end-of-input unwinding: with no trailing close-brace at all, only the
// Block reports "Unexpected end of block" (the Brackets and Function
// inside it are closed, so they report nothing).
func TestParserCorpusUnclosedBlockAroundClosedBracketsAndFunction(t *testing.T) {
	root, diag := parseAll(t, "@foo { y[x(z)]")
	require.Len(t, diag.All(), 1)
	assert.Equal(t, msgUnexpectedEndOfBlock, diag.All()[0].Message)

	require.Len(t, root.Children, 1)
	atRule := root.Children[0]
	require.Len(t, atRule.Children, 1)
	block := atRule.Children[0]
	require.Equal(t, NodeBlock, block.Kind)
	require.Len(t, block.Children, 2)
	assert.Equal(t, Ident, block.Children[0].Leaf.Kind)
	brackets := block.Children[1]
	require.Equal(t, NodeBrackets, brackets.Kind)
	require.Len(t, brackets.Children, 1)
	fn := brackets.Children[0]
	require.Equal(t, NodeFunction, fn.Kind)
	assert.Equal(t, "x", fn.Name)
	require.Len(t, fn.Children, 1)
	assert.Equal(t, Ident, fn.Children[0].Leaf.Kind)
}

func TestParserCorpusIncompleteAtRuleLiteral(t *testing.T) {
	root, diag := parseAll(t, "@foo ")
	require.Len(t, root.Children, 1)
	assert.Equal(t, "foo", root.Children[0].Name)
	require.Len(t, diag.All(), 1)
	assert.Equal(t, msgIncompleteAtRule, diag.All()[0].Message)
}

func TestParserCorpusFunctionAndBracketsAtTopLevel(t *testing.T) {
	root, diag := parseAll(t, "x(1) z[2] ")
	assert.Equal(t, 0, diag.Len())
	require.Len(t, root.Children, 1)
	top := root.Children[0]
	require.Len(t, top.Children, 5)

	fn := top.Children[0]
	require.Equal(t, NodeFunction, fn.Kind)
	assert.Equal(t, "x", fn.Name)
	require.Len(t, fn.Children, 1)
	assert.Equal(t, "1", fn.Children[0].Leaf.Text)

	assert.Equal(t, Space, top.Children[1].Leaf.Kind)
	assert.Equal(t, Ident, top.Children[2].Leaf.Kind)

	brackets := top.Children[3]
	require.Equal(t, NodeBrackets, brackets.Kind)
	require.Len(t, brackets.Children, 1)
	assert.Equal(t, "2", brackets.Children[0].Leaf.Text)

	assert.Equal(t, Space, top.Children[4].Leaf.Kind)
}
