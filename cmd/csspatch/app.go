package main

import (
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/fatih/color"
	"github.com/mattn/go-isatty"
	"github.com/npillmayer/cssompatch"
	"github.com/npillmayer/cssompatch/cssom/douceuradapter"
	"github.com/npillmayer/cssompatch/index"
	"github.com/npillmayer/cssompatch/oplog"
	"github.com/spf13/cobra"
)

// app holds the state shared by all sub-commands.
type app struct {
	configFile string
	trace      string
	atRules    index.Policy
	colorMode  string

	config cssompatch.Config
	colors palette
}

func (a *app) setup(cmd *cobra.Command) error {
	a.config = cssompatch.DefaultConfig()
	if a.configFile != "" {
		c, err := cssompatch.LoadConfig(a.configFile)
		if err != nil {
			return err
		}
		a.config = c
	}
	if cmd.Flags().Changed("at-rules") {
		a.config.AtRules = a.atRules
	}
	if a.trace != "" {
		a.config.Trace = a.trace
	}
	if err := a.config.SetupTracing(); err != nil {
		return err
	}
	on, err := colorEnabled(a.colorMode, cmd.OutOrStdout())
	if err != nil {
		return err
	}
	a.colors = newPalette(on)
	return nil
}

func colorEnabled(mode string, w io.Writer) (bool, error) {
	switch mode {
	case "always":
		return true, nil
	case "never":
		return false, nil
	case "", "auto":
		f, ok := w.(*os.File)
		return ok && (isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd())), nil
	}
	return false, fmt.Errorf("unknown color mode %q", mode)
}

type palette struct {
	insert, delete, warn *color.Color
}

func newPalette(on bool) palette {
	p := palette{
		insert: color.New(color.FgGreen),
		delete: color.New(color.FgRed),
		warn:   color.New(color.FgYellow),
	}
	for _, c := range []*color.Color{p.insert, p.delete, p.warn} {
		if on {
			c.EnableColor()
		} else {
			c.DisableColor()
		}
	}
	return p
}

func (a *app) warn(w io.Writer, warnings []error) {
	for _, err := range warnings {
		fmt.Fprintf(w, "%s %v\n", a.colors.warn.Sprint("warning:"), err)
	}
}

func readSheet(path string) (*douceuradapter.StyleSheet, string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, "", err
	}
	text := string(data)
	sheet, err := douceuradapter.Parse(text)
	if err != nil {
		return nil, "", fmt.Errorf("%s: %w", path, err)
	}
	return sheet, text, nil
}

// writeText writes text to file, or to w if file is empty.
func writeText(w io.Writer, file, text string) error {
	if file == "" {
		_, err := fmt.Fprintln(w, text)
		return err
	}
	return os.WriteFile(file, []byte(text+"\n"), 0o644)
}

func writeOps(w io.Writer, ops []oplog.Op) error {
	if ops == nil {
		ops = []oplog.Op{}
	}
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(ops)
}

func readOps(path string) ([]oplog.Op, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var ops []oplog.Op
	if err := json.Unmarshal(data, &ops); err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return ops, nil
}
