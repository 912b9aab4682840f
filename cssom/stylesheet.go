package cssom

import (
	"errors"

	"github.com/npillmayer/cssompatch/result"
)

// Errors a host CSS object model reports.
var (
	// ErrNoRuleList is returned by containers which do not hold nested rules
	// (style rules, font-face rules, …).
	ErrNoRuleList = errors.New("container exposes no rule list")

	// ErrCrossOriginAccessDenied is returned when reading the rules of a
	// stylesheet loaded from a foreign origin.
	ErrCrossOriginAccessDenied = errors.New("cross-origin stylesheet: access to rules denied")

	// ErrInsertRejected is returned if the host refuses rule text: a syntax
	// error, or a rule which is not allowed at the given position.
	ErrInsertRejected = errors.New("host rejected rule")

	// ErrIndexSize is returned for rule indices out of range.
	ErrIndexSize = errors.New("rule index out of range")
)

// StyleSheet is an interface to abstract away a stylesheet-implementation.
// In order to de-couple the patch engine from concrete CSS object models
// (a browser's CSSOM, an in-memory model, …) we introduce an interface for
// stylesheets and their rules. Clients will have to provide a concrete
// implementation of this interface (e.g., see package douceuradapter).
//
// See interfaces Container and Rule.
type StyleSheet interface {
	Container
	Href() string    // absolute URL of the stylesheet, "" for inline sheets
	CSSText() string // serialized stylesheet
}

// Container is anything holding an ordered rule list: stylesheets and
// grouping rules like @media.
type Container interface {
	// CSSRules returns the list of nested rules. It fails with ErrNoRuleList for
	// leaf rules and with ErrCrossOriginAccessDenied for foreign stylesheets.
	CSSRules() (RuleList, error)
}

// RuleList is a live, ordered list of rules.
type RuleList interface {
	Length() int
	Item(i int) Rule // nil if i is out of range
	// InsertRule parses text as exactly one rule and inserts it at index,
	// returning the index of the new rule. Errors wrap ErrInsertRejected or
	// ErrIndexSize.
	InsertRule(text string, index int) result.Result[int]
	DeleteRule(index int) error
}

// Rule is the type stylesheets consists of.
//
// The set of rule kinds is closed (see RuleKind); accessors which do not
// apply to a rule's kind return the empty string or nil.
type Rule interface {
	Container
	Kind() RuleKind
	SelectorText() string           // selector of style rules, key text of keyframe rules
	ConditionText() string          // media text, supports condition, keyframes name, page selector
	CSSText() string                // serialized rule including nested rules
	Style() Declarations            // declaration block, nil for rules without one
	Encoding() string               // @charset encoding, unquoted
	Href() string                   // @import target, unresolved
	ImportedStyleSheet() StyleSheet // @import target sheet, nil if not loaded
	ParentRule() Rule               // enclosing rule, nil for top-level rules
	ParentStyleSheet() StyleSheet   // owning sheet
}

// Declarations is a live declaration block.
type Declarations interface {
	Length() int
	Item(i int) string // property name at position i
	PropertyValue(name string) string
	PropertyPriority(name string) string
	// SetProperty sets or replaces a declaration. It returns false if the
	// host does not recognize name, in which case nothing changes.
	SetProperty(name, value, priority string) bool
	// RemoveProperty removes a declaration and returns its former value.
	RemoveProperty(name string) string
}

// RuleKind is a closed set of rule variants, mirroring the W3C CSSRule
// type constants.
type RuleKind uint8

// Kinds of CSS rules.
const (
	UnknownRule RuleKind = iota
	StyleRule
	CharsetRule
	ImportRule
	MediaRule
	FontFaceRule
	PageRule
	KeyframesRule
	KeyframeRule
	NamespaceRule
	SupportsRule
)

var kindNames = [...]string{
	UnknownRule:   "unknown",
	StyleRule:     "style",
	CharsetRule:   "charset",
	ImportRule:    "import",
	MediaRule:     "media",
	FontFaceRule:  "font-face",
	PageRule:      "page",
	KeyframesRule: "keyframes",
	KeyframeRule:  "keyframe",
	NamespaceRule: "namespace",
	SupportsRule:  "supports",
}

func (k RuleKind) String() string {
	if int(k) < len(kindNames) {
		return kindNames[k]
	}
	return "unknown"
}

// IsGrouping is true for kinds which hold a nested rule list.
func (k RuleKind) IsGrouping() bool {
	switch k {
	case MediaRule, KeyframesRule, SupportsRule:
		return true
	}
	return false
}

// IsPrologue is true for @charset and @import, which have to precede all
// other rules of a stylesheet.
func (k RuleKind) IsPrologue() bool {
	return k == CharsetRule || k == ImportRule
}

// RuleKindForAtKeyword maps an at-keyword (including the '@' and vendor
// prefixes) to a rule kind.
func RuleKindForAtKeyword(keyword string) RuleKind {
	switch stripVendor(keyword) {
	case "@charset":
		return CharsetRule
	case "@import":
		return ImportRule
	case "@media":
		return MediaRule
	case "@font-face":
		return FontFaceRule
	case "@page":
		return PageRule
	case "@keyframes":
		return KeyframesRule
	case "@namespace":
		return NamespaceRule
	case "@supports":
		return SupportsRule
	}
	return UnknownRule
}

func stripVendor(keyword string) string {
	if len(keyword) < 3 || keyword[0] != '@' || keyword[1] != '-' {
		return keyword
	}
	for i := 2; i < len(keyword); i++ {
		if keyword[i] == '-' {
			return "@" + keyword[i+1:]
		}
	}
	return keyword
}
