package douceuradapter

import (
	"strings"

	"github.com/aymerick/douceur/css"
	"github.com/npillmayer/cssompatch/cssom"
	"github.com/npillmayer/cssompatch/style"
)

// Declarations is an adapter for interface cssom.Declarations.
//
// Setting a shorthand property removes its longhands, as browsers do. Setting
// an existing property replaces its value in place, new properties are
// appended.
type Declarations struct {
	decls []style.KeyValue
}

func newDeclarations(ds []*css.Declaration) *Declarations {
	d := &Declarations{decls: make([]style.KeyValue, 0, len(ds))}
	for _, decl := range ds {
		value, prio := style.SplitPriority(decl.Value)
		if decl.Important {
			prio = style.Important
		}
		name := strings.TrimSpace(decl.Property)
		if i := d.find(name); i >= 0 {
			d.decls = append(d.decls[:i], d.decls[i+1:]...)
		}
		d.decls = append(d.decls, style.KeyValue{Key: name, Value: value, Priority: prio})
	}
	return d
}

// Length returns the number of declarations.
func (d *Declarations) Length() int {
	return len(d.decls)
}

// Item returns the property name of declaration i.
func (d *Declarations) Item(i int) string {
	if i < 0 || i >= len(d.decls) {
		return ""
	}
	return d.decls[i].Key
}

// PropertyValue returns the value of a property, or "".
func (d *Declarations) PropertyValue(name string) string {
	if i := d.find(name); i >= 0 {
		return d.decls[i].Value.String()
	}
	return ""
}

// PropertyPriority returns "important" for properties marked as such.
func (d *Declarations) PropertyPriority(name string) string {
	if i := d.find(name); i >= 0 {
		return d.decls[i].Priority
	}
	return ""
}

// SetProperty sets a property. An empty value removes the property. Names
// which are not property names (e.g. camelCase accessors) are ignored.
func (d *Declarations) SetProperty(name, value, priority string) bool {
	if !style.IsPropertyName(name) {
		return false
	}
	v, prio := style.SplitPriority(value)
	if priority != "" {
		prio = strings.ToLower(priority)
	}
	if v.IsEmpty() {
		d.RemoveProperty(name)
		return true
	}
	d.set(name, v, prio)
	return true
}

// RemoveProperty removes a property and returns its former value.
func (d *Declarations) RemoveProperty(name string) string {
	i := d.find(name)
	if i < 0 {
		return ""
	}
	old := d.decls[i].Value.String()
	d.decls = append(d.decls[:i], d.decls[i+1:]...)
	return old
}

func (d *Declarations) set(name string, value style.Property, prio string) {
	for _, lh := range style.Longhands(name) {
		d.RemoveProperty(lh)
	}
	if i := d.find(name); i >= 0 {
		d.decls[i].Value = value
		d.decls[i].Priority = prio
		return
	}
	d.decls = append(d.decls, style.KeyValue{Key: name, Value: value, Priority: prio})
}

func (d *Declarations) find(name string) int {
	for i, kv := range d.decls {
		if kv.Key == name {
			return i
		}
	}
	return -1
}

func (d *Declarations) cssText() string {
	if d == nil {
		return ""
	}
	texts := make([]string, len(d.decls))
	for i, kv := range d.decls {
		texts[i] = kv.String() + ";"
	}
	return strings.Join(texts, " ")
}

var _ cssom.Declarations = &Declarations{}
