package main

import "github.com/spf13/cobra"

func newRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:           "wisp",
		Short:         "Render Mustache-compatible templates",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	cmd.AddCommand(NewRenderCmd(NewRenderOptions()))
	cmd.AddCommand(NewWatchCmd(NewWatchOptions()))
	return cmd
}
