package index

import (
	"errors"
	"fmt"

	"github.com/npillmayer/cssompatch/cssom"
)

// Build indexes the rules of c in document order, recursing into rules which
// expose a rule list. A container whose rules cannot be read (a foreign
// stylesheet, a leaf rule) yields a root without children.
//
// Build does not modify the live tree.
func Build(c cssom.Container, p Policy) *RuleNode {
	root := &RuleNode{sibling: -1, container: c, policy: p}
	root.Payload = root
	root.indexChildren()
	tracer().Debugf("indexed %d top-level rules", root.ChildCount())
	return root
}

// indexChildren appends nodes for all visible rules of the live rule list of
// rn. Occurrence counters are local to one call.
func (rn *RuleNode) indexChildren() {
	list, err := rn.RuleList()
	if err != nil {
		return
	}
	counts := make(map[string]int)
	for i := 0; i < list.Length(); i++ {
		r := list.Item(i)
		if rn.policy.hides(r.Kind()) {
			continue
		}
		ch := newRuleNode(r, i, rn.policy)
		counts[ch.name]++
		ch.occ = counts[ch.name]
		rn.AddChild(&ch.Node)
		ch.indexChildren()
	}
}

// Inserted updates the index after rule r has been inserted at live index at
// of rn's rule list. Later siblings are shifted and occurrences renumbered.
// The new node is returned, indexed recursively, or nil if the policy hides r.
func (rn *RuleNode) Inserted(at int, r cssom.Rule) *RuleNode {
	pos := 0
	for _, ch := range rn.Children() {
		if ch.sibling >= at {
			ch.sibling++
		} else {
			pos++
		}
	}
	if rn.policy.hides(r.Kind()) {
		tracer().Debugf("inserted hidden %s rule at %d", r.Kind(), at)
		return nil
	}
	ch := newRuleNode(r, at, rn.policy)
	rn.InsertChildAt(pos, &ch.Node)
	ch.indexChildren()
	rn.renumber()
	tracer().Debugf("inserted %v below %v", ch, rn)
	return ch
}

// Deleted updates the index after the rule at live index at of rn's rule list
// has been deleted. The node for it (if it has been indexed) is dropped and
// later siblings are shifted.
func (rn *RuleNode) Deleted(at int) {
	drop := -1
	for i, ch := range rn.Children() {
		switch {
		case ch.sibling == at:
			drop = i
		case ch.sibling > at:
			ch.sibling--
		}
	}
	if drop >= 0 {
		rn.RemoveChildAt(drop)
		rn.renumber()
	}
	tracer().Debugf("deleted rule %d below %v", at, rn)
}

func (rn *RuleNode) renumber() {
	counts := make(map[string]int)
	for _, ch := range rn.Children() {
		counts[ch.name]++
		ch.occ = counts[ch.name]
	}
}

// ErrOutOfSync is returned by Verify if an index does not match its live tree.
var ErrOutOfSync = errors.New("index out of sync with rule tree")

// Verify checks the index below rn against the live rule tree: every visible
// live rule has exactly one node, with correct sibling index, name and
// occurrence, and children appear in document order.
func (rn *RuleNode) Verify() error {
	children := rn.Children()
	list, err := rn.RuleList()
	if err != nil {
		if len(children) > 0 {
			return fmt.Errorf("%w: %v has %d children but no rule list", ErrOutOfSync, rn, len(children))
		}
		return nil
	}
	counts := make(map[string]int)
	k := 0
	for i := 0; i < list.Length(); i++ {
		r := list.Item(i)
		if rn.policy.hides(r.Kind()) {
			continue
		}
		if k >= len(children) {
			return fmt.Errorf("%w: live rule %d below %v not indexed", ErrOutOfSync, i, rn)
		}
		ch := children[k]
		k++
		name := NameOf(r)
		counts[name]++
		switch {
		case ch.rule != r:
			return fmt.Errorf("%w: %v does not reference live rule %d", ErrOutOfSync, ch, i)
		case ch.sibling != i:
			return fmt.Errorf("%w: %v has sibling index %d, live index is %d", ErrOutOfSync, ch, ch.sibling, i)
		case ch.name != name:
			return fmt.Errorf("%w: %v is named %q in the live tree", ErrOutOfSync, ch, name)
		case ch.occ != counts[name]:
			return fmt.Errorf("%w: %v should be occurrence %d", ErrOutOfSync, ch, counts[name])
		case ch.Parent() != rn:
			return fmt.Errorf("%w: %v is not linked to its parent", ErrOutOfSync, ch)
		}
		if err := ch.Verify(); err != nil {
			return err
		}
	}
	if k != len(children) {
		return fmt.Errorf("%w: %v has %d stale children", ErrOutOfSync, rn, len(children)-k)
	}
	return nil
}
