/*
Command csspatch applies structural patches to CSS files.

	csspatch apply site.css fix.json -o site.patched.css --diff
	csspatch replay site.css ops.json
	csspatch watch site.css patches/
	csspatch sheets index.html

Patches address rules by path (see package patch); every run reports the
changes as an op log of top-level rule slots (see package oplog).

License

Governed by a 3-Clause BSD license. License file may be found in the root
folder of this module.

Copyright © 2017–2022 Norbert Pillmayer <norbert@pillmayer.com>
*/
package main

import (
	"os"

	"github.com/spf13/cobra"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	a := &app{}
	root := &cobra.Command{
		Use:           "csspatch",
		Short:         "Apply structural patches to CSS stylesheets",
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return a.setup(cmd)
		},
	}
	flags := root.PersistentFlags()
	flags.StringVar(&a.configFile, "config", "", "YAML configuration file")
	flags.StringVar(&a.trace, "trace", "", "trace level (error, info, debug)")
	flags.Var(&a.atRules, "at-rules", "@charset/@import rules: hidden or addressable")
	flags.StringVar(&a.colorMode, "color", "auto", "colored output: auto, always or never")
	root.AddCommand(
		newApplyCmd(a),
		newReplayCmd(a),
		newWatchCmd(a),
		newSheetsCmd(a),
	)
	return root
}

