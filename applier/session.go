package applier

import (
	"errors"
	"fmt"
	"strings"

	"github.com/npillmayer/cssompatch/cssom"
	"github.com/npillmayer/cssompatch/index"
	"github.com/npillmayer/cssompatch/oplog"
	"github.com/npillmayer/cssompatch/patch"
	"github.com/npillmayer/cssompatch/pathfinder"
)

// ErrNotAddressable is returned if a patch creates a rule which the index
// does not track (e.g., an @import while at-rules are hidden).
var ErrNotAddressable = errors.New("rule is not addressable")

// Session applies patches to one stylesheet. A session is not safe for
// concurrent use.
type Session struct {
	sheet    cssom.StyleSheet
	policy   index.Policy
	root     *index.RuleNode
	log      oplog.Log
	warnings []error
}

// NewSession indexes sheet. It fails if the rules of sheet are not
// accessible.
func NewSession(sheet cssom.StyleSheet, policy index.Policy) (*Session, error) {
	if sheet == nil {
		return nil, cssom.ErrNoRuleList
	}
	if _, err := sheet.CSSRules(); err != nil {
		return nil, err
	}
	s := &Session{sheet: sheet, policy: policy}
	s.Resync()
	return s, nil
}

// Sheet returns the stylesheet of the session.
func (s *Session) Sheet() cssom.StyleSheet {
	return s.sheet
}

// Index returns the root of the rule index.
func (s *Session) Index() *index.RuleNode {
	return s.root
}

// Resync rebuilds the index. Clients have to call it after changing the
// stylesheet outside of the session.
func (s *Session) Resync() {
	s.root = index.Build(s.sheet, s.policy)
}

// Check verifies the index against the live rule tree.
func (s *Session) Check() error {
	return s.root.Verify()
}

// Warnings lists the patches abandoned so far, with the reason.
func (s *Session) Warnings() []error {
	return s.warnings
}

// Apply applies patches in order and returns the ops describing the changes.
func (s *Session) Apply(patches ...patch.Patch) []oplog.Op {
	s.log.Reset()
	for i, p := range patches {
		if err := s.apply(p); err != nil {
			err = fmt.Errorf("patch #%d %s %v abandoned: %w", i, p.Action, p.Path, err)
			tracer().Errorf("%v", err)
			s.warnings = append(s.warnings, err)
		}
	}
	ops := s.log.Ops()
	tracer().Infof("applied %d patches, %d ops", len(patches), len(ops))
	return ops
}

func (s *Session) apply(p patch.Patch) error {
	if err := p.Validate(); err != nil {
		return err
	}
	var loc pathfinder.Location
	if p.Action == patch.Add {
		loc = pathfinder.LocateAdd(s.root, p.Path, p.Hints)
	} else {
		loc = pathfinder.Locate(s.root, p.Path, p.Hints)
	}
	action := p.Action
	if loc.Kind != pathfinder.Partial && loc.Node.IsRoot() {
		action = patch.Update
	}
	tracer().Debugf("%s %v: %s match", action, p.Path, loc.Kind)
	var target *index.RuleNode
	var err error
	switch action {
	case patch.Remove:
		if loc.Kind == pathfinder.Partial {
			tracer().Debugf("nothing to remove at %v", p.Path)
			return nil
		}
		return s.remove(loc.Node)
	case patch.Update:
		if loc.Kind == pathfinder.Partial {
			target, err = s.synthesize(loc)
		} else {
			target = loc.Node
		}
	case patch.Add:
		if loc.Kind == pathfinder.Partial {
			target, err = s.synthesize(loc)
		} else {
			target, err = s.addSibling(loc, p)
		}
	}
	if err != nil {
		return err
	}
	return s.edit(target, p)
}

// remove deletes the rule of n.
func (s *Session) remove(n *index.RuleNode) error {
	parent := n.Parent()
	list, err := parent.RuleList()
	if err != nil {
		return err
	}
	at := n.SiblingIndex()
	top := n.TopLevel()
	if err := list.DeleteRule(at); err != nil {
		return err
	}
	parent.Deleted(at)
	if parent.IsRoot() {
		s.log.Delete(at)
	} else {
		s.log.Update(top.SiblingIndex(), top.Rule().CSSText())
	}
	return nil
}

// addSibling inserts an empty rule named like the last path component next to
// the matched node. Without a hint, the new rule takes the slot of an exact
// match, or follows a nearest match. A hint which does not resolve appends
// the new rule to the parent.
func (s *Session) addSibling(loc pathfinder.Location, p patch.Patch) (*index.RuleNode, error) {
	at := loc.Node.SiblingIndex()
	if loc.Kind == pathfinder.Nearest {
		at++
	}
	level := len(p.Path) - 1
	hint := hintAt(p.Hints, level)
	if !hint.IsEmpty() {
		at = liveLength(loc.Parent)
	}
	at = pathfinder.InsertionIndex(loc.Parent, hint, at)
	name := p.Path[level].Name
	return s.insert(loc.Parent, index.Normalize(name)+" {}", at)
}

// synthesize creates the chain of missing rules of a partial match and returns
// the innermost one.
func (s *Session) synthesize(loc pathfinder.Location) (*index.RuleNode, error) {
	body := ""
	for j := len(loc.Rest) - 1; j >= 0; j-- {
		body = index.Normalize(loc.Rest[j].Name) + " {" + body + "}"
	}
	n, err := s.insert(loc.Parent, body, loc.Index)
	if err != nil {
		return nil, err
	}
	for n.ChildCount() > 0 {
		n = n.Children()[0]
	}
	return n, nil
}

// insert inserts rule text into the live rule list of parent and indexes the
// new rule. Insertions at top level are logged.
func (s *Session) insert(parent *index.RuleNode, text string, at int) (*index.RuleNode, error) {
	list, err := parent.RuleList()
	if err != nil {
		return nil, fmt.Errorf("cannot insert %q into %v: %w", text, parent, err)
	}
	var ix int
	switch m := list.InsertRule(text, at).Match(); m {
	case m.Ok(&ix):
		tracer().Debugf("inserted %q at %d below %v", text, ix, parent)
	case m.Err(&err):
		return nil, err
	}
	r := list.Item(ix)
	n := parent.Inserted(ix, r)
	if parent.IsRoot() {
		s.log.Insert(ix, r.CSSText())
	}
	if n == nil {
		return nil, fmt.Errorf("%w: %q", ErrNotAddressable, text)
	}
	return n, nil
}

func hintAt(hints []pathfinder.Hint, i int) pathfinder.Hint {
	if i >= 0 && i < len(hints) {
		return hints[i]
	}
	return pathfinder.Hint{}
}

func liveLength(n *index.RuleNode) int {
	list, err := n.RuleList()
	if err != nil {
		return 0
	}
	return list.Length()
}

func isDescriptor(p patch.Property, keyword string) bool {
	return strings.EqualFold(p.Name, keyword)
}
