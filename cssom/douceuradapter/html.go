package douceuradapter

import (
	"strings"

	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"
)

// Fetcher loads the text of a stylesheet, given its absolute URL.
type Fetcher func(href string) (string, error)

// ExtractStyleElements visits an HTML parse tree in document order and
// collects embedded <style>s and stylesheets referenced by
// <link rel="stylesheet">. base is the URL of the document; linked sheets
// are loaded with fetch, which may be nil to skip them. Linked sheets from a
// different origin than base are marked foreign.
//
// Style elements which fail to parse are skipped.
func ExtractStyleElements(htmldoc *html.Node, base string, fetch Fetcher) []*StyleSheet {
	var sheets []*StyleSheet
	var visit func(*html.Node)
	visit = func(h *html.Node) {
		if h.Type == html.ElementNode {
			if s := extractStyle(h, base, fetch); s != nil {
				sheets = append(sheets, s)
			}
		}
		for ch := h.FirstChild; ch != nil; ch = ch.NextSibling {
			visit(ch)
		}
	}
	if htmldoc != nil {
		visit(htmldoc)
	}
	return sheets
}

func extractStyle(h *html.Node, base string, fetch Fetcher) *StyleSheet {
	switch h.DataAtom {
	case atom.Style:
		var text strings.Builder
		for ch := h.FirstChild; ch != nil; ch = ch.NextSibling {
			if ch.Type == html.TextNode {
				text.WriteString(ch.Data)
			}
		}
		s, err := Parse(text.String(), WithImportResolver(importer(base, fetch)))
		if err != nil {
			tracer().Errorf("skipping <style>: %v", err)
			return nil
		}
		return s
	case atom.Link:
		if !isStylesheetLink(h) || fetch == nil {
			return nil
		}
		href := resolveHref(base, attr(h, "href"))
		s, err := load(href, base, fetch)
		if err != nil {
			tracer().Errorf("skipping stylesheet %s: %v", href, err)
			return nil
		}
		return s
	}
	return nil
}

func load(href, base string, fetch Fetcher) (*StyleSheet, error) {
	text, err := fetch(href)
	if err != nil {
		return nil, err
	}
	opts := []Option{WithHref(href), WithImportResolver(importer(base, fetch))}
	if base != "" && !sameOrigin(base, href) {
		opts = append(opts, Foreign())
	}
	return Parse(text, opts...)
}

// importer loads @import targets on behalf of the document at base.
func importer(base string, fetch Fetcher) ImportResolver {
	if fetch == nil {
		return nil
	}
	return func(href string) (*StyleSheet, error) {
		return load(resolveHref(base, href), base, fetch)
	}
}

func isStylesheetLink(h *html.Node) bool {
	for _, tok := range strings.Fields(attr(h, "rel")) {
		if strings.EqualFold(tok, "stylesheet") {
			return true
		}
	}
	return false
}

func attr(h *html.Node, key string) string {
	for _, a := range h.Attr {
		if a.Key == key {
			return a.Val
		}
	}
	return ""
}
