package main

import (
	"fmt"
	"io"

	"github.com/npillmayer/cssompatch"
	"github.com/npillmayer/cssompatch/cssom/douceuradapter"
	"github.com/npillmayer/cssompatch/oplog"
	"github.com/npillmayer/cssompatch/patch"
	"github.com/sergi/go-diff/diffmatchpatch"
	"github.com/spf13/cobra"
)

type applyFlags struct {
	output string
	ops    bool
	diff   bool
	verify bool
}

func newApplyCmd(a *app) *cobra.Command {
	f := &applyFlags{}
	cmd := &cobra.Command{
		Use:   "apply <css> <patch>...",
		Short: "Apply patch files (JSON or YAML) to a stylesheet",
		Args:  cobra.MinimumNArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.runApply(cmd, f, args[0], args[1:])
		},
	}
	cmd.Flags().StringVarP(&f.output, "output", "o", "", "write the patched stylesheet to file")
	cmd.Flags().BoolVar(&f.ops, "ops", false, "print the op log as JSON")
	cmd.Flags().BoolVar(&f.diff, "diff", false, "print a diff of the stylesheet text")
	cmd.Flags().BoolVar(&f.verify, "verify", false, "replay the op log on a fresh parse and compare")
	return cmd
}

func (a *app) runApply(cmd *cobra.Command, f *applyFlags, css string, files []string) error {
	sheet, text, err := readSheet(css)
	if err != nil {
		return err
	}
	before := sheet.CSSText()
	var patches []patch.Patch
	for _, file := range files {
		ps, err := patch.Load(file)
		if err != nil {
			return fmt.Errorf("%s: %w", file, err)
		}
		patches = append(patches, ps...)
	}
	patcher := cssompatch.New(a.config, nil)
	ops, err := patcher.Patch(sheet, patches...)
	if err != nil {
		return err
	}
	a.warn(cmd.ErrOrStderr(), patcher.Warnings())
	after := sheet.CSSText()
	if f.verify {
		if err := verify(text, ops, after); err != nil {
			return err
		}
	}
	out := cmd.OutOrStdout()
	if f.output != "" || (!f.ops && !f.diff) {
		if err := writeText(out, f.output, after); err != nil {
			return err
		}
	}
	if f.diff {
		a.printDiff(out, before, after)
	}
	if f.ops {
		return writeOps(out, ops)
	}
	return nil
}

// verify replays ops on a fresh parse of text and compares the result to want.
func verify(text string, ops []oplog.Op, want string) error {
	mirror, err := douceuradapter.Parse(text)
	if err != nil {
		return err
	}
	list, err := mirror.CSSRules()
	if err != nil {
		return err
	}
	if err := oplog.Replay(list, ops); err != nil {
		return fmt.Errorf("verify: %w", err)
	}
	if got := mirror.CSSText(); got != want {
		return fmt.Errorf("verify: replayed stylesheet differs:\n%s\n---\n%s", got, want)
	}
	return nil
}

func (a *app) printDiff(w io.Writer, before, after string) {
	dmp := diffmatchpatch.New()
	diffs := dmp.DiffCleanupSemantic(dmp.DiffMain(before, after, true))
	for _, d := range diffs {
		switch d.Type {
		case diffmatchpatch.DiffInsert:
			a.colors.insert.Fprint(w, d.Text)
		case diffmatchpatch.DiffDelete:
			a.colors.delete.Fprint(w, d.Text)
		default:
			fmt.Fprint(w, d.Text)
		}
	}
	fmt.Fprintln(w)
}
