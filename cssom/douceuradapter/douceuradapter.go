/*
Package douceuradapter is a concrete, in-memory implementation of the
interfaces of package cssom.

Stylesheets are parsed with the douceur CSS parser and kept as a mutable
tree of rules. Rule lists behave like a browser's: InsertRule parses exactly
one rule and refuses rules at positions where a browser would refuse them,
DeleteRule removes by index, and declaration blocks follow the shorthand
semantics of CSSStyleDeclaration.

Serialization is canonical:

    sel {p: v; q: w !important;}
    @media print {a {color: red;} b {}}
    @charset "utf-8";
    @import url("x.css") screen;

Stylesheets join their top-level rules with a newline.

License

Governed by a 3-Clause BSD license. License file may be found in the root
folder of this module.

Copyright © 2017–2022 Norbert Pillmayer <norbert@pillmayer.com>
*/
package douceuradapter

import (
	"errors"
	"fmt"
	"strings"

	"github.com/aymerick/douceur/css"
	"github.com/aymerick/douceur/parser"
	"github.com/npillmayer/cssompatch/cssom"
	"github.com/npillmayer/cssompatch/result"
	"github.com/npillmayer/schuko/tracing"
)

// tracer traces with key 'cssom.douceur'.
func tracer() tracing.Trace {
	return tracing.Select("cssom.douceur")
}

// StyleSheet is an adapter for interface cssom.StyleSheet.
type StyleSheet struct {
	href    string
	foreign bool
	resolve ImportResolver
	rules   *ruleList
}

// ImportResolver loads the stylesheet an @import rule refers to. It is called
// with the absolute URL of the target.
type ImportResolver func(href string) (*StyleSheet, error)

// Option configures a stylesheet at creation time.
type Option func(*StyleSheet)

// WithHref sets the (absolute) URL of a stylesheet.
func WithHref(href string) Option {
	return func(s *StyleSheet) {
		s.href = href
	}
}

// Foreign marks a stylesheet as loaded from a foreign origin. The rules of
// foreign stylesheets are not accessible.
func Foreign() Option {
	return func(s *StyleSheet) {
		s.foreign = true
	}
}

// WithImportResolver sets a loader for the targets of @import rules.
func WithImportResolver(r ImportResolver) Option {
	return func(s *StyleSheet) {
		s.resolve = r
	}
}

// Parse parses CSS text into a stylesheet.
func Parse(text string, opts ...Option) (*StyleSheet, error) {
	c, err := parser.Parse(text)
	if err != nil {
		return nil, fmt.Errorf("douceuradapter: %w", err)
	}
	return Wrap(c, opts...), nil
}

// Wrap a douceur.css.Stylesheet into a StyleSheet.
// The rules are copied; c is not referenced afterwards.
func Wrap(c *css.Stylesheet, opts ...Option) *StyleSheet {
	sheet := &StyleSheet{}
	for _, opt := range opts {
		opt(sheet)
	}
	sheet.rules = &ruleList{sheet: sheet}
	for _, r := range c.Rules {
		sheet.rules.items = append(sheet.rules.items, convert(r, sheet, nil))
	}
	return sheet
}

// Href returns the URL of the stylesheet, if any.
//
// Interface cssom.StyleSheet
func (sheet *StyleSheet) Href() string {
	return sheet.href
}

// CSSRules returns the top-level rules of the stylesheet.
//
// Interface cssom.Container
func (sheet *StyleSheet) CSSRules() (cssom.RuleList, error) {
	if sheet.foreign {
		return nil, cssom.ErrCrossOriginAccessDenied
	}
	return sheet.rules, nil
}

// CSSText serializes the stylesheet.
//
// Interface cssom.StyleSheet
func (sheet *StyleSheet) CSSText() string {
	return sheet.rules.join("\n")
}

func (sheet *StyleSheet) String() string {
	return sheet.CSSText()
}

var _ cssom.StyleSheet = &StyleSheet{}

// --- Rule lists ------------------------------------------------------------

// ruleList is a live list of rules, owned either by a stylesheet (owner is
// nil) or by a grouping rule.
type ruleList struct {
	sheet *StyleSheet
	owner *Rule
	items []*Rule
}

func (l *ruleList) Length() int {
	return len(l.items)
}

func (l *ruleList) Item(i int) cssom.Rule {
	if i < 0 || i >= len(l.items) {
		return nil
	}
	return l.items[i]
}

// InsertRule parses text as a single rule and inserts it at index.
//
// Interface cssom.RuleList
func (l *ruleList) InsertRule(text string, index int) result.Result[int] {
	if index < 0 || index > len(l.items) {
		return result.Err[int](fmt.Errorf("%w: %d not in [0…%d]", cssom.ErrIndexSize, index, len(l.items)))
	}
	r, err := parseRule(text, l.sheet, l.owner)
	if err == nil {
		err = l.checkHierarchy(r.kind, index)
	}
	if err != nil {
		tracer().Debugf("insert of %q at %d rejected: %v", text, index, err)
		return result.Err[int](fmt.Errorf("%w: %v", cssom.ErrInsertRejected, err))
	}
	l.items = append(l.items, nil)
	copy(l.items[index+1:], l.items[index:])
	l.items[index] = r
	return result.Ok(index)
}

// DeleteRule removes the rule at index.
//
// Interface cssom.RuleList
func (l *ruleList) DeleteRule(index int) error {
	if index < 0 || index >= len(l.items) {
		return fmt.Errorf("%w: %d not in [0…%d)", cssom.ErrIndexSize, index, len(l.items))
	}
	r := l.items[index]
	l.items = append(l.items[:index], l.items[index+1:]...)
	r.parent = nil
	return nil
}

var errHierarchy = errors.New("rule not allowed at this position")

// checkHierarchy enforces the position rules of @charset and @import: they are
// allowed at sheet level only, and no ordinary rule may precede them.
func (l *ruleList) checkHierarchy(kind cssom.RuleKind, index int) error {
	if kind.IsPrologue() {
		if l.owner != nil {
			return fmt.Errorf("%w: @%s inside @%s", errHierarchy, kind, l.owner.kind)
		}
		for _, r := range l.items[:index] {
			if !r.kind.IsPrologue() {
				return fmt.Errorf("%w: @%s after %s rule", errHierarchy, kind, r.kind)
			}
		}
		return nil
	}
	for _, r := range l.items[index:] {
		if r.kind.IsPrologue() {
			return fmt.Errorf("%w: %s rule before @%s", errHierarchy, kind, r.kind)
		}
	}
	return nil
}

func (l *ruleList) join(sep string) string {
	texts := make([]string, len(l.items))
	for i, r := range l.items {
		texts[i] = r.CSSText()
	}
	return strings.Join(texts, sep)
}

var _ cssom.RuleList = &ruleList{}

// parseRule parses text which has to contain exactly one rule.
func parseRule(text string, sheet *StyleSheet, owner *Rule) (*Rule, error) {
	text = strings.TrimSpace(text)
	if strings.HasPrefix(text, "@") {
		if !strings.Contains(text, "{") {
			if cssom.RuleKindForAtKeyword(atKeyword(text)).IsGrouping() {
				return nil, errors.New("grouping rule without block")
			}
			if !strings.HasSuffix(text, ";") {
				text += ";"
			}
		}
	} else if !strings.Contains(text, "{") {
		return nil, errors.New("rule without declaration block")
	}
	c, err := parser.Parse(text)
	if err != nil {
		return nil, err
	}
	if len(c.Rules) != 1 {
		return nil, fmt.Errorf("expected a single rule, found %d", len(c.Rules))
	}
	return convert(c.Rules[0], sheet, owner), nil
}

// atKeyword returns the leading at-keyword of rule text, e.g. "@media".
func atKeyword(text string) string {
	end := strings.IndexAny(text, " \t\n\r;{(\"'")
	if end < 0 {
		return strings.ToLower(text)
	}
	return strings.ToLower(text[:end])
}
