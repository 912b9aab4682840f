package main

import (
	"github.com/npillmayer/cssompatch/oplog"
	"github.com/spf13/cobra"
)

func newReplayCmd(a *app) *cobra.Command {
	var output string
	cmd := &cobra.Command{
		Use:   "replay <css> <ops.json>",
		Short: "Apply an op log to a stylesheet",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			sheet, _, err := readSheet(args[0])
			if err != nil {
				return err
			}
			ops, err := readOps(args[1])
			if err != nil {
				return err
			}
			list, err := sheet.CSSRules()
			if err != nil {
				return err
			}
			if err := oplog.Replay(list, ops); err != nil {
				return err
			}
			return writeText(cmd.OutOrStdout(), output, sheet.CSSText())
		},
	}
	cmd.Flags().StringVarP(&output, "output", "o", "", "write the stylesheet to file")
	return cmd
}
