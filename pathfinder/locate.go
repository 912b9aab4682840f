package pathfinder

import (
	"github.com/npillmayer/cssompatch/index"
	"github.com/npillmayer/cssompatch/maybe"
)

// Kind classifies the outcome of Locate.
type Kind uint8

// Outcomes of a path lookup.
const (
	Exact Kind = iota
	Nearest
	Partial
)

func (k Kind) String() string {
	switch k {
	case Exact:
		return "exact"
	case Nearest:
		return "nearest"
	}
	return "partial"
}

// Location is the result of resolving a path.
//
// For Exact and Nearest, Node is the node found and Parent its parent.
// For Partial, Parent is the deepest node reached, Rest the unmatched
// components starting at Level, and Index the live position in Parent's
// rule list where the missing rules belong. Node then is the indexed sibling
// preceding Index, or nil.
type Location struct {
	Kind   Kind
	Node   *index.RuleNode
	Parent *index.RuleNode
	Rest   Path
	Index  int
	Level  int
}

// Locate resolves path against the index rooted at root. hints[i] applies to
// level i of path and places the missing rules of a partial match. The empty
// path locates the root.
func Locate(root *index.RuleNode, path Path, hints []Hint) Location {
	return locate(root, path, hints, false)
}

// LocateAdd is Locate for patches adding a rule. Hints additionally break ties
// between same-named candidates of a nearest match (see nearest).
func LocateAdd(root *index.RuleNode, path Path, hints []Hint) Location {
	return locate(root, path, hints, true)
}

func locate(root *index.RuleNode, path Path, hints []Hint, tieBreak bool) Location {
	loc := Location{Kind: Exact, Level: len(path)}
	n := root
	for i, pc := range path {
		pc = C(pc.Name, pc.Pos)
		candidates := n.ChildrenNamed(pc.Name)
		if len(candidates) == 0 {
			at := InsertionIndex(n, hintAt(hints, i), liveLength(n))
			tracer().Debugf("path %v unresolved at level %d, insertion index %d", path, i, at)
			return Location{
				Kind:   Partial,
				Node:   precedingSibling(n, at),
				Parent: n,
				Rest:   path[i:],
				Index:  at,
				Level:  i,
			}
		}
		if pc.Pos <= len(candidates) {
			n = candidates[pc.Pos-1]
			continue
		}
		loc.Kind = Nearest
		n = nearest(candidates, path, i, tieBreak && len(hints) > 0)
	}
	loc.Node = n
	loc.Parent = n.Parent()
	tracer().Debugf("path %v resolved %s to %v", path, loc.Kind, n)
	return loc
}

// nearest chooses among candidates at level i if the requested occurrence does
// not exist. With tieBreak and a next level, a candidate containing the next
// component is preferred. Otherwise the last candidate is chosen.
func nearest(candidates []*index.RuleNode, path Path, i int, tieBreak bool) *index.RuleNode {
	if tieBreak && i+1 < len(path) {
		next := index.Normalize(path[i+1].Name)
		for j := len(candidates) - 1; j >= 0; j-- {
			if len(candidates[j].ChildrenNamed(next)) > 0 {
				return candidates[j]
			}
		}
	}
	return candidates[len(candidates)-1]
}

// InsertionIndex resolves a hint to a position in the live rule list of
// parent: before the first Before sibling which exists, else after the last
// After sibling which exists, else fallback.
func InsertionIndex(parent *index.RuleNode, hint Hint, fallback int) int {
	var after []maybe.Maybe[int]
	for j := len(hint.After) - 1; j >= 0; j-- {
		after = append(after, slotOf(parent, hint.After[j]).Map(func(at int) int {
			return at + 1
		}))
	}
	return maybe.OneOf(
		maybe.OneOf(slotsOf(parent, hint.Before)...),
		maybe.OneOf(after...),
	).WithDefault(fallback)
}

func slotsOf(parent *index.RuleNode, cs []PathComponent) []maybe.Maybe[int] {
	slots := make([]maybe.Maybe[int], len(cs))
	for i, pc := range cs {
		slots[i] = slotOf(parent, pc)
	}
	return slots
}

// slotOf is the sibling index of the child of parent named by pc.
func slotOf(parent *index.RuleNode, pc PathComponent) maybe.Maybe[int] {
	return maybe.AndThen(func(sib *index.RuleNode) maybe.Maybe[int] {
		return maybe.Just(sib.SiblingIndex())
	}, sibling(parent, pc))
}

func sibling(parent *index.RuleNode, pc PathComponent) maybe.Maybe[*index.RuleNode] {
	pc = C(pc.Name, pc.Pos)
	if sib := parent.Child(pc.Name, pc.Pos); sib != nil {
		return maybe.Just(sib)
	}
	return maybe.Nothing[*index.RuleNode]()
}

// hintAt returns the hint for level i, or an empty hint.
func hintAt(hints []Hint, i int) Hint {
	if i < len(hints) {
		return hints[i]
	}
	return Hint{}
}

func liveLength(n *index.RuleNode) int {
	list, err := n.RuleList()
	if err != nil {
		return 0
	}
	return list.Length()
}

func precedingSibling(n *index.RuleNode, at int) *index.RuleNode {
	var prev *index.RuleNode
	for _, ch := range n.Children() {
		if ch.SiblingIndex() >= at {
			break
		}
		prev = ch
	}
	return prev
}
