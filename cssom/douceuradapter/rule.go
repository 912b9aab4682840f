package douceuradapter

import (
	"net/url"
	"strings"

	"github.com/aymerick/douceur/css"
	"github.com/npillmayer/cssompatch/cssom"
	"github.com/npillmayer/cssompatch/split"
	"github.com/npillmayer/cssompatch/style"
)

// Rule is an adapter for interface cssom.Rule.
type Rule struct {
	kind     cssom.RuleKind
	keyword  string // at-keyword including '@', lower case
	prelude  string // selector for style rules
	style    *Declarations
	rules    *ruleList
	sheet    *StyleSheet
	parent   *Rule
	imported *StyleSheet
}

func convert(r *css.Rule, sheet *StyleSheet, parent *Rule) *Rule {
	rule := &Rule{
		sheet:   sheet,
		parent:  parent,
		prelude: strings.TrimSpace(r.Prelude),
	}
	if r.Kind == css.QualifiedRule {
		rule.kind = cssom.StyleRule
		if parent != nil && parent.kind == cssom.KeyframesRule {
			rule.kind = cssom.KeyframeRule
		}
		rule.style = newDeclarations(r.Declarations)
		return rule
	}
	rule.keyword = strings.ToLower(r.Name)
	rule.kind = cssom.RuleKindForAtKeyword(rule.keyword)
	switch {
	case rule.kind.IsGrouping() || len(r.Rules) > 0:
		rule.rules = &ruleList{sheet: sheet, owner: rule}
		for _, child := range r.Rules {
			rule.rules.items = append(rule.rules.items, convert(child, sheet, rule))
		}
	case r.Declarations != nil || rule.kind == cssom.FontFaceRule || rule.kind == cssom.PageRule:
		rule.style = newDeclarations(r.Declarations)
	}
	return rule
}

// Kind returns the variant of the rule.
func (r *Rule) Kind() cssom.RuleKind {
	return r.kind
}

// CSSRules returns the nested rules of grouping rules.
//
// Interface cssom.Container
func (r *Rule) CSSRules() (cssom.RuleList, error) {
	if r.rules == nil {
		return nil, cssom.ErrNoRuleList
	}
	return r.rules, nil
}

// SelectorText returns the selector of a style rule or the key of a keyframe
// rule.
func (r *Rule) SelectorText() string {
	switch r.kind {
	case cssom.StyleRule, cssom.KeyframeRule:
		return r.prelude
	}
	return ""
}

// ConditionText returns the prelude of an at-rule, e.g. the media query of
// @media.
func (r *Rule) ConditionText() string {
	switch r.kind {
	case cssom.StyleRule, cssom.KeyframeRule, cssom.CharsetRule, cssom.ImportRule:
		return ""
	}
	return r.prelude
}

// Encoding returns the unquoted encoding of a @charset rule.
func (r *Rule) Encoding() string {
	if r.kind != cssom.CharsetRule {
		return ""
	}
	return style.Unquote(r.prelude)
}

// Href returns the unresolved target of an @import rule.
func (r *Rule) Href() string {
	if r.kind != cssom.ImportRule {
		return ""
	}
	fields := split.Fields(r.prelude)
	if len(fields) == 0 {
		return ""
	}
	return style.UnquoteURL(fields[0])
}

// ImportedStyleSheet returns the target of an @import rule, loading it on
// first access. It returns nil if no loader is configured or loading fails.
func (r *Rule) ImportedStyleSheet() cssom.StyleSheet {
	if r.kind != cssom.ImportRule {
		return nil
	}
	if r.imported == nil && r.sheet != nil && r.sheet.resolve != nil {
		target := resolveHref(r.sheet.href, r.Href())
		s, err := r.sheet.resolve(target)
		if err != nil {
			tracer().Infof("cannot load imported stylesheet %s: %v", target, err)
			return nil
		}
		r.imported = s
	}
	if r.imported == nil {
		return nil
	}
	return r.imported
}

// Style returns the declaration block of a rule, if any.
func (r *Rule) Style() cssom.Declarations {
	if r.style == nil {
		return nil
	}
	return r.style
}

// ParentRule returns the enclosing grouping rule of a nested rule.
func (r *Rule) ParentRule() cssom.Rule {
	if r.parent == nil {
		return nil
	}
	return r.parent
}

// ParentStyleSheet returns the stylesheet owning a rule.
func (r *Rule) ParentStyleSheet() cssom.StyleSheet {
	if r.sheet == nil {
		return nil
	}
	return r.sheet
}

// CSSText serializes a rule, including nested rules.
func (r *Rule) CSSText() string {
	switch r.kind {
	case cssom.StyleRule, cssom.KeyframeRule:
		return r.prelude + " {" + r.style.cssText() + "}"
	case cssom.CharsetRule, cssom.ImportRule, cssom.NamespaceRule:
		return r.keyword + " " + r.prelude + ";"
	}
	head := r.keyword
	if r.prelude != "" {
		head += " " + r.prelude
	}
	switch {
	case r.rules != nil:
		return head + " {" + r.rules.join(" ") + "}"
	case r.style != nil:
		return head + " {" + r.style.cssText() + "}"
	}
	return head + ";"
}

func (r *Rule) String() string {
	return r.CSSText()
}

var _ cssom.Rule = &Rule{}

// resolveHref resolves ref against base. If base is not an absolute URL, ref is
// returned unchanged.
func resolveHref(base, ref string) string {
	if base == "" {
		return ref
	}
	b, err := url.Parse(base)
	if err != nil || !b.IsAbs() {
		return ref
	}
	r, err := url.Parse(ref)
	if err != nil {
		return ref
	}
	return b.ResolveReference(r).String()
}

// sameOrigin is true if two absolute URLs share scheme and host.
func sameOrigin(a, b string) bool {
	ua, err := url.Parse(a)
	if err != nil {
		return false
	}
	ub, err := url.Parse(b)
	if err != nil {
		return false
	}
	return strings.EqualFold(ua.Scheme, ub.Scheme) && strings.EqualFold(ua.Host, ub.Host)
}
