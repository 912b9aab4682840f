package applier

import (
	"errors"
	"fmt"
	"strings"

	"github.com/npillmayer/cssompatch/cssom"
	"github.com/npillmayer/cssompatch/index"
	"github.com/npillmayer/cssompatch/patch"
	"github.com/npillmayer/cssompatch/split"
	"github.com/npillmayer/cssompatch/style"
)

// edit applies the property edits of p to the rule of n. Below the root,
// the top-level ancestor is reported as updated, even if an edit fails.
func (s *Session) edit(n *index.RuleNode, p patch.Patch) error {
	if !n.IsRoot() {
		defer func() {
			top := n.TopLevel()
			s.log.Update(top.SiblingIndex(), top.Rule().CSSText())
		}()
	}
	decls := s.declarations(n)
	for _, prop := range p.Remove {
		if prop.IsAtRule() {
			if err := s.removeDescriptor(n, prop); err != nil {
				return err
			}
		} else if decls != nil {
			decls.RemoveProperty(prop.Name)
		}
	}
	var charsets, imports, updates []patch.Property
	for _, prop := range p.Update {
		switch {
		case isDescriptor(prop, "@charset"):
			charsets = append(charsets, prop)
		case isDescriptor(prop, "@import"):
			imports = append(imports, prop)
		default:
			updates = append(updates, prop)
		}
	}
	if p.All != nil {
		updates = p.All
	}
	if decls != nil {
		for _, prop := range updates {
			value, prio := style.SplitPriority(prop.Value)
			for _, name := range style.NameVariations(prop.Name) {
				decls.SetProperty(name, value.String(), prio)
			}
		}
	}
	return s.insertPrologue(n, charsets, imports)
}

func (s *Session) declarations(n *index.RuleNode) cssom.Declarations {
	if n.IsRoot() {
		return nil
	}
	return n.Rule().Style()
}

// removeDescriptor deletes the first child rule of n matching an at-rule
// descriptor. Hidden at-rules are found as well.
func (s *Session) removeDescriptor(n *index.RuleNode, prop patch.Property) error {
	list, err := n.RuleList()
	if err != nil {
		return nil
	}
	for i := 0; i < list.Length(); i++ {
		if !matchesDescriptor(list.Item(i), prop) {
			continue
		}
		if err := list.DeleteRule(i); err != nil {
			return err
		}
		n.Deleted(i)
		if n.IsRoot() {
			s.log.Delete(i)
		}
		return nil
	}
	tracer().Debugf("no rule matching %v below %v", prop, n)
	return nil
}

func matchesDescriptor(r cssom.Rule, prop patch.Property) bool {
	switch {
	case isDescriptor(prop, "@charset"):
		return r.Kind() == cssom.CharsetRule && equalFold(r.Encoding(), style.Unquote(prop.Value))
	case isDescriptor(prop, "@import"):
		return r.Kind() == cssom.ImportRule && r.Href() == importHref(prop.Value)
	}
	name := prop.Name
	if prop.Value != "" {
		name += " " + prop.Value
	}
	return index.NameOf(r) == index.Normalize(name)
}

// insertPrologue inserts @charset rules at the start of n's rule list and
// @import rules right after the last @charset or @import rule. Both end up in
// patch order.
func (s *Session) insertPrologue(n *index.RuleNode, charsets, imports []patch.Property) error {
	if len(charsets) == 0 && len(imports) == 0 {
		return nil
	}
	list, err := n.RuleList()
	if err != nil {
		tracer().Debugf("%v has no rule list, skipping @charset/@import", n)
		return nil
	}
	for j := len(charsets) - 1; j >= 0; j-- {
		text := fmt.Sprintf("@charset %q", style.Unquote(charsets[j].Value))
		if _, err := s.insertHidden(n, text, 0); err != nil {
			return err
		}
	}
	at := 0
	for i := 0; i < list.Length(); i++ {
		if list.Item(i).Kind().IsPrologue() {
			at = i + 1
		}
	}
	for j := len(imports) - 1; j >= 0; j-- {
		if _, err := s.insertHidden(n, "@import "+importText(imports[j].Value), at); err != nil {
			return err
		}
	}
	return nil
}

// insertHidden inserts a rule which may be hidden from the index.
func (s *Session) insertHidden(n *index.RuleNode, text string, at int) (*index.RuleNode, error) {
	r, err := s.insert(n, text, at)
	if err == nil || errors.Is(err, ErrNotAddressable) {
		return r, nil
	}
	return nil, err
}

// importText brings the value of an @import descriptor into rule syntax:
// a bare URL is quoted, media queries are kept.
func importText(value string) string {
	fields := split.Fields(value)
	if len(fields) == 0 {
		return `""`
	}
	first := fields[0]
	if first[0] != '"' && first[0] != '\'' && !hasURLPrefix(first) {
		fields[0] = fmt.Sprintf("%q", first)
	}
	return strings.Join(fields, " ")
}

func importHref(value string) string {
	fields := split.Fields(value)
	if len(fields) == 0 {
		return ""
	}
	return style.UnquoteURL(fields[0])
}

func equalFold(a, b string) bool {
	return strings.EqualFold(strings.TrimSpace(a), strings.TrimSpace(b))
}

func hasURLPrefix(s string) bool {
	return len(s) >= 4 && strings.EqualFold(s[:4], "url(")
}
