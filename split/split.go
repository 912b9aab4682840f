/*
Package split splits CSS source fragments while respecting quoted
substrings and backslash escapes.

Selectors like

    a[title="x,y"], b

must not be split inside the attribute value. Splitting operates on runes,
and every part keeps its original quoting.

Copyright © 2017–2022 Norbert Pillmayer <norbert@pillmayer.com>
*/
package split

// SplitQuoted splits text at every occurrence of sep which is neither inside
// a single- or double-quoted substring nor escaped by a backslash. Like
// strings.Split, it returns n+1 parts for n separators, so a trailing
// separator produces a trailing empty part.
func SplitQuoted(text string, sep rune) []string {
	var parts []string
	rs := []rune(text)
	start := 0
	for i := 0; i < len(rs); i++ {
		switch ch := rs[i]; ch {
		case '\\': // skip escaped character
			i++
		case '"', '\'': // skip quoted substring
			for i++; i < len(rs); i++ {
				if rs[i] == '\\' {
					i++
					continue
				}
				if rs[i] == ch {
					break
				}
			}
		case sep:
			parts = append(parts, string(rs[start:i]))
			start = i + 1
		}
	}
	if start > len(rs) {
		start = len(rs)
	}
	return append(parts, string(rs[start:]))
}

// Fields splits text at runs of unquoted whitespace, dropping empty parts.
func Fields(text string) []string {
	var fields []string
	for _, p := range SplitQuoted(normalizeSpace(text), ' ') {
		if p != "" {
			fields = append(fields, p)
		}
	}
	return fields
}

// normalizeSpace maps tabs and line breaks to blanks.
func normalizeSpace(text string) string {
	rs := []rune(text)
	for i, r := range rs {
		switch r {
		case '\t', '\n', '\r', '\f':
			rs[i] = ' '
		}
	}
	return string(rs)
}
