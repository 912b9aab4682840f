package main

import (
	"errors"
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"sort"

	"github.com/npillmayer/cssompatch/cssom"
	"github.com/npillmayer/cssompatch/cssom/douceuradapter"
	"github.com/npillmayer/cssompatch/sheets"
	"github.com/spf13/cobra"
	"golang.org/x/net/html"
)

func newSheetsCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "sheets <html>",
		Short: "List the stylesheets of an HTML document, imports included",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.runSheets(cmd, args[0])
		},
	}
}

func (a *app) runSheets(cmd *cobra.Command, file string) error {
	abs, err := filepath.Abs(file)
	if err != nil {
		return err
	}
	f, err := os.Open(abs)
	if err != nil {
		return err
	}
	defer f.Close()
	doc, err := html.Parse(f)
	if err != nil {
		return fmt.Errorf("%s: %w", file, err)
	}
	extracted := douceuradapter.ExtractStyleElements(doc, fileURL(abs), readFileURL)
	list := make([]cssom.StyleSheet, len(extracted))
	for i, s := range extracted {
		list[i] = s
	}
	out := cmd.OutOrStdout()
	for i, s := range extracted {
		if s.Href() == "" {
			fmt.Fprintf(out, "<style #%d>\t%s\n", i, describe(s))
		}
	}
	found := sheets.Find(list)
	urls := make([]string, 0, len(found))
	for u := range found {
		urls = append(urls, u)
	}
	sort.Strings(urls)
	for _, u := range urls {
		fmt.Fprintf(out, "%s\t%s\n", u, describe(found[u]))
	}
	return nil
}

func describe(s cssom.StyleSheet) string {
	list, err := s.CSSRules()
	if errors.Is(err, cssom.ErrCrossOriginAccessDenied) {
		return "foreign"
	} else if err != nil {
		return err.Error()
	}
	return fmt.Sprintf("%d rules", list.Length())
}

func fileURL(path string) string {
	u := url.URL{Scheme: "file", Path: filepath.ToSlash(path)}
	return u.String()
}

// readFileURL fetches file URLs from the local file system.
func readFileURL(href string) (string, error) {
	u, err := url.Parse(href)
	if err != nil {
		return "", err
	}
	if u.Scheme != "file" {
		return "", fmt.Errorf("cannot fetch %s", href)
	}
	data, err := os.ReadFile(filepath.FromSlash(u.Path))
	if err != nil {
		return "", err
	}
	return string(data), nil
}
