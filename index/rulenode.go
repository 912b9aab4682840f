package index

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/npillmayer/cssompatch/cssom"
	"github.com/npillmayer/cssompatch/split"
	"github.com/npillmayer/cssompatch/tree"
	"github.com/xlab/treeprint"
)

// RuleNode is a node of the address index, built on top of the general
// purpose tree.
type RuleNode struct {
	tree.Node[*RuleNode]
	name      string
	kind      cssom.RuleKind
	sibling   int             // position of the live rule within its parent's list
	occ       int             // 1-based occurrence of name among siblings
	rule      cssom.Rule      // nil for the root
	container cssom.Container // root only
	policy    Policy
}

func newRuleNode(r cssom.Rule, at int, p Policy) *RuleNode {
	rn := &RuleNode{
		name:    NameOf(r),
		kind:    r.Kind(),
		sibling: at,
		rule:    r,
		policy:  p,
	}
	rn.Payload = rn // Payload will always reference the node itself
	return rn
}

// Node gets the rule node from a generic tree node.
func Node(n *tree.Node[*RuleNode]) *RuleNode {
	if n == nil {
		return nil
	}
	return n.Payload
}

// Name is the normalized selector or synthesized at-rule name. The root is
// named "".
func (rn *RuleNode) Name() string {
	return rn.name
}

// Kind returns the rule kind, resolved at index time.
func (rn *RuleNode) Kind() cssom.RuleKind {
	return rn.kind
}

// SiblingIndex is the position of the live rule in its parent's rule list.
// For the root it is -1.
func (rn *RuleNode) SiblingIndex() int {
	return rn.sibling
}

// Occurrence is the 1-based count of same-named siblings in document order,
// up to and including this node.
func (rn *RuleNode) Occurrence() int {
	return rn.occ
}

// Rule returns the live rule of a node, or nil for the root.
func (rn *RuleNode) Rule() cssom.Rule {
	return rn.rule
}

// Container returns the live container of a node: the stylesheet for the root,
// the rule otherwise.
func (rn *RuleNode) Container() cssom.Container {
	if rn.rule == nil {
		return rn.container
	}
	return rn.rule
}

// RuleList returns the live rule list the children of rn index.
func (rn *RuleNode) RuleList() (cssom.RuleList, error) {
	c := rn.Container()
	if c == nil {
		return nil, cssom.ErrNoRuleList
	}
	return c.CSSRules()
}

// Policy returns the at-rule policy the index has been built with.
func (rn *RuleNode) Policy() Policy {
	return rn.policy
}

// IsRoot is true for the node representing the stylesheet.
func (rn *RuleNode) IsRoot() bool {
	return rn.rule == nil
}

// Parent returns the parent node, or nil for the root.
func (rn *RuleNode) Parent() *RuleNode {
	return Node(rn.Node.Parent())
}

// Children returns the indexed children of a node in document order.
func (rn *RuleNode) Children() []*RuleNode {
	chs := rn.Node.Children()
	r := make([]*RuleNode, len(chs))
	for i, ch := range chs {
		r[i] = ch.Payload
	}
	return r
}

// ChildrenNamed returns all children named name, in document order.
func (rn *RuleNode) ChildrenNamed(name string) []*RuleNode {
	var r []*RuleNode
	for _, ch := range rn.Children() {
		if ch.name == name {
			r = append(r, ch)
		}
	}
	return r
}

// Child returns the child with a given name and occurrence.
func (rn *RuleNode) Child(name string, occ int) *RuleNode {
	for _, ch := range rn.Children() {
		if ch.name == name && ch.occ == occ {
			return ch
		}
	}
	return nil
}

// TopLevel returns the ancestor of rn (or rn itself) whose parent is the root.
// For the root, TopLevel returns nil.
func (rn *RuleNode) TopLevel() *RuleNode {
	if rn.IsRoot() {
		return nil
	}
	n := rn
	for p := n.Parent(); p != nil && !p.IsRoot(); p = n.Parent() {
		n = p
	}
	return n
}

func (rn *RuleNode) String() string {
	if rn.IsRoot() {
		return "(root)"
	}
	return fmt.Sprintf("%q#%d@%d", rn.name, rn.occ, rn.sibling)
}

// Dump renders the index below rn as a tree, for debugging.
func (rn *RuleNode) Dump() string {
	printer := treeprint.New()
	dump(printer, rn)
	return printer.String()
}

func dump(printer treeprint.Tree, rn *RuleNode) {
	for _, ch := range rn.Children() {
		label := fmt.Sprintf("[%d] %s #%d (%s)", ch.sibling, ch.name, ch.occ, ch.kind)
		if ch.ChildCount() == 0 {
			printer.AddNode(label)
			continue
		}
		dump(printer.AddBranch(label), ch)
	}
}

// --- Names -----------------------------------------------------------------

// NameOf returns the index name of a live rule. The name is determined by the
// rule's kind: style rules use their selector, keyframe rules their key text,
// @media rules "@media <media text>". @charset, @import and @font-face are
// named by their keyword; any other at-rule by its serialized text up to the
// opening brace.
func NameOf(r cssom.Rule) string {
	switch r.Kind() {
	case cssom.StyleRule, cssom.KeyframeRule:
		return Normalize(r.SelectorText())
	case cssom.CharsetRule:
		return "@charset"
	case cssom.ImportRule:
		return "@import"
	case cssom.FontFaceRule:
		return "@font-face"
	case cssom.MediaRule:
		if m := strings.TrimSpace(r.ConditionText()); m != "" {
			return Normalize("@media " + m)
		}
		return "@media"
	}
	text := r.CSSText()
	if i := strings.IndexByte(text, '{'); i >= 0 {
		text = text[:i]
	}
	return Normalize(strings.TrimSuffix(strings.TrimSpace(text), ";"))
}

var pseudoElement = regexp.MustCompile(`:+(before|after)$`)

// Normalize brings selectors and at-rule names into canonical form. Selector
// lists are rejoined with ", " and a trailing ":before" or ":after" is written
// with a double colon.
//
//     Normalize("a:before,b:::after")  =>  "a::before, b::after"
//
func Normalize(name string) string {
	parts := split.SplitQuoted(name, ',')
	for i, part := range parts {
		parts[i] = pseudoElement.ReplaceAllString(strings.TrimSpace(part), "::$1")
	}
	return strings.Join(parts, ", ")
}
