package style

/*
License

Governed by a 3-Clause BSD license. License file may be found in the root
folder of this module.

Copyright © 2017–2022 Norbert Pillmayer <norbert@pillmayer.com>

*/

import (
	"regexp"
	"strings"
)

// Property is a raw value for a CSS property. For example, with
//
//     color: black
//
// a property value of "black" is set.
type Property string

func (p Property) String() string {
	return string(p)
}

// IsEmpty checks wether a property is empty, i.e. the null-string.
func (p Property) IsEmpty() bool {
	return p == ""
}

// Important is the priority flag of a declaration marked with "!important".
const Important = "important"

// KeyValue is a container for a style property.
type KeyValue struct {
	Key      string
	Value    Property
	Priority string // "" or Important
}

func (kv KeyValue) String() string {
	if kv.Priority != "" {
		return kv.Key + ": " + kv.Value.String() + " !" + kv.Priority
	}
	return kv.Key + ": " + kv.Value.String()
}

var importantSuffix = regexp.MustCompile(`(?i)\s*!\s*important\s*$`)

// SplitPriority strips a trailing "!important" from a raw declaration value
// and returns it as a separate priority flag.
//
//     SplitPriority("red !important")  =>  "red", "important"
//     SplitPriority("red")             =>  "red", ""
//
func SplitPriority(value string) (Property, string) {
	if loc := importantSuffix.FindStringIndex(value); loc != nil {
		return Property(strings.TrimSpace(value[:loc[0]])), Important
	}
	return Property(strings.TrimSpace(value)), ""
}

// NameVariations returns the property name itself and, for hyphenated names,
// its camel-cased accessor variants. Some engines expose vendor-prefixed
// properties only through camelCase accessors, so a setter is tried with
// every variation.
//
//     NameVariations("-webkit-transform")
//         => "-webkit-transform", "WebkitTransform", "webkitTransform"
//
func NameVariations(name string) []string {
	out := []string{name}
	if !strings.Contains(name, "-") {
		return out
	}
	var b strings.Builder
	upper := false
	for _, r := range name {
		if r == '-' {
			upper = true
			continue
		}
		if upper && r >= 'a' && r <= 'z' {
			r = r - 'a' + 'A'
		}
		upper = false
		b.WriteRune(r)
	}
	camel := b.String()
	out = append(out, camel)
	if name[0] == '-' && camel != "" {
		out = append(out, strings.ToLower(camel[:1])+camel[1:])
	}
	return out
}

var propertyName = regexp.MustCompile(`^(--[A-Za-z0-9_-]+|-?[a-z][a-z0-9-]*)$`)

// IsPropertyName is a predicate for names a declaration block accepts:
// lower-case hyphenated CSS identifiers and custom properties ("--x").
// CamelCase accessor names are rejected.
func IsPropertyName(name string) bool {
	return propertyName.MatchString(name)
}

// --- Shorthands ------------------------------------------------------------

// Longhands returns the individual (fine grained) properties a shorthand
// property resets, or nil if key is not a known shorthand.
//
// Example:
//    Longhands("padding")
// will return
//    "padding-top", "padding-right", "padding-bottom", "padding-left"
//
// For the logic behind this, refer to e.g.
// https://www.w3schools.com/css/css_padding.asp .
func Longhands(key string) []string {
	switch key {
	case "margin":
		return compound4("margin", "", fourDirs)
	case "padding":
		return compound4("padding", "", fourDirs)
	case "border-color":
		return compound4("border", "color", fourDirs)
	case "border-width":
		return compound4("border", "width", fourDirs)
	case "border-style":
		return compound4("border", "style", fourDirs)
	case "border-radius":
		return compound4("border", "radius", fourCorners)
	case "border-top", "border-right", "border-bottom", "border-left":
		return []string{key + "-width", key + "-style", key + "-color"}
	case "border":
		var r []string
		for _, s := range []string{"width", "style", "color"} {
			r = append(r, compound4("border", s, fourDirs)...)
		}
		return r
	case "background":
		return prefixed("background", "color", "image", "position", "size",
			"repeat", "attachment", "origin", "clip")
	case "font":
		r := prefixed("font", "style", "variant", "weight", "stretch", "size", "family")
		return append(r, "line-height")
	case "list-style":
		return prefixed("list-style", "type", "position", "image")
	case "outline":
		return prefixed("outline", "color", "style", "width")
	case "overflow":
		return []string{"overflow-x", "overflow-y"}
	case "flex":
		return prefixed("flex", "grow", "shrink", "basis")
	case "transition":
		return prefixed("transition", "property", "duration", "timing-function", "delay")
	case "animation":
		return prefixed("animation", "name", "duration", "timing-function", "delay",
			"iteration-count", "direction", "fill-mode", "play-state")
	}
	return nil
}

// IsShorthand is a predicate for shorthand properties.
func IsShorthand(key string) bool {
	return Longhands(key) != nil
}

func compound4(pre string, suf string, dirs [4]string) []string {
	r := make([]string, 4)
	for i, d := range dirs {
		r[i] = p(pre, suf, d)
	}
	return r
}

func prefixed(pre string, tags ...string) []string {
	r := make([]string, len(tags))
	for i, t := range tags {
		r[i] = pre + "-" + t
	}
	return r
}

var fourDirs = [4]string{"top", "right", "bottom", "left"}
var fourCorners = [4]string{"top-right", "bottom-right", "bottom-left", "top-left"}

func p(prefix string, suffix string, tag string) string {
	if suffix == "" {
		return prefix + "-" + tag
	}
	if prefix == "" {
		return tag + "-" + suffix
	}
	return prefix + "-" + tag + "-" + suffix
}

// --- Values ----------------------------------------------------------------

// Unquote removes one pair of surrounding single or double quotes.
func Unquote(s string) string {
	s = strings.TrimSpace(s)
	if len(s) >= 2 && (s[0] == '"' || s[0] == '\'') && s[len(s)-1] == s[0] {
		return s[1 : len(s)-1]
	}
	return s
}

// UnquoteURL extracts the target of a url(…) token or a quoted string.
//
//     UnquoteURL(`url("a.css")`)  =>  a.css
//     UnquoteURL(`'a.css'`)       =>  a.css
//
func UnquoteURL(s string) string {
	s = strings.TrimSpace(s)
	if len(s) > 5 && strings.EqualFold(s[:4], "url(") && s[len(s)-1] == ')' {
		s = s[4 : len(s)-1]
	}
	return Unquote(s)
}
