package mincss

import "fmt"

// NodeKind is the closed set of tree-node variants (component D's sum
// type): Stylesheet, AtRule, TopLevel, Block, Brackets, Parens,
// Function, and Token (a leaf wrapping a preserved token).
type NodeKind int

const (
	NodeStylesheet NodeKind = iota
	NodeAtRule
	NodeTopLevel
	NodeBlock
	NodeBrackets
	NodeParens
	NodeFunction
	NodeLeaf
)

func (k NodeKind) String() string {
	switch k {
	case NodeStylesheet:
		return "Stylesheet"
	case NodeAtRule:
		return "AtRule"
	case NodeTopLevel:
		return "TopLevel"
	case NodeBlock:
		return "Block"
	case NodeBrackets:
		return "Brackets"
	case NodeParens:
		return "Parens"
	case NodeFunction:
		return "Function"
	case NodeLeaf:
		return "Token"
	default:
		return fmt.Sprintf("NodeKind(%d)", int(k))
	}
}

// Node is one element of the shallow tree the Parser builds. Name holds
// the at-rule keyword (without '@') or function name (without the
// trailing '(') for NodeAtRule/NodeFunction; it is empty otherwise. Leaf
// is non-nil exactly when Kind == NodeLeaf. Children is empty for leaves.
// The tree owns its children: once appended, a child is never reparented
// or mutated.
type Node struct {
	Kind     NodeKind
	Name     string
	Line     int
	Children []*Node
	Leaf     *Token
}

// Walk visits n and every descendant, pre-order (n before its children).
// It's the visitor API on top of the plain tree, letting callers avoid
// hand-rolling recursion for simple sweeps.
func (n *Node) Walk(visit func(*Node)) {
	if n == nil {
		return
	}
	visit(n)
	for _, c := range n.Children {
		c.Walk(visit)
	}
}
