package sheets

import (
	"errors"

	"github.com/npillmayer/cssompatch/cssom"
	"github.com/npillmayer/cssompatch/result"
)

// Provider is a stylesheet-enumeration provider, mapping absolute URLs to live
// stylesheets.
type Provider interface {
	StyleSheets() map[string]cssom.StyleSheet
}

// Static is a Provider for a fixed list of stylesheets.
type Static []cssom.StyleSheet

// StyleSheets returns the sheets of s and their imports, keyed by URL.
func (s Static) StyleSheets() map[string]cssom.StyleSheet {
	return Find(s)
}

var _ Provider = Static{}

// Find maps the URLs of stylesheets in list, and of all stylesheets they
// (transitively) import, to the stylesheets. Sheets without an href are not
// keyed, but their imports are. If two sheets share a URL, the first one in
// document order wins.
func Find(list []cssom.StyleSheet) map[string]cssom.StyleSheet {
	found := make(map[string]cssom.StyleSheet)
	visited := make(map[cssom.StyleSheet]bool)
	var collect func(cssom.StyleSheet)
	collect = func(s cssom.StyleSheet) {
		if s == nil || visited[s] {
			return
		}
		visited[s] = true
		if href := s.Href(); href != "" {
			if _, ok := found[href]; ok {
				return
			}
			found[href] = s
		}
		var imports []cssom.StyleSheet
		switch m := EnumerateImports(s).Match(); m {
		case m.Ok(&imports):
			for _, imp := range imports {
				collect(imp)
			}
		case m.Err(nil):
			tracer().Debugf("no imports for %q", s.Href())
		}
	}
	for _, s := range list {
		collect(s)
	}
	tracer().Debugf("found %d stylesheets", len(found))
	return found
}

// EnumerateImports returns the loaded targets of the top-level @import rules
// of s. For a stylesheet of foreign origin it returns
// cssom.ErrCrossOriginAccessDenied.
func EnumerateImports(s cssom.StyleSheet) result.Result[[]cssom.StyleSheet] {
	rules, err := s.CSSRules()
	if err != nil {
		if !errors.Is(err, cssom.ErrCrossOriginAccessDenied) {
			tracer().Infof("cannot enumerate rules of %q: %v", s.Href(), err)
		}
		return result.Err[[]cssom.StyleSheet](err)
	}
	var imports []cssom.StyleSheet
	for i := 0; i < rules.Length(); i++ {
		r := rules.Item(i)
		if r.Kind() != cssom.ImportRule {
			continue
		}
		if imp := r.ImportedStyleSheet(); imp != nil {
			imports = append(imports, imp)
		}
	}
	return result.Ok(imports)
}
