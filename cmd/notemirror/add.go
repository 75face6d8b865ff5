package main

import (
	"github.com/spf13/cobra"

	"github.com/notemirror/notemirror/pkg/core"
)

var addCmd = &cobra.Command{
	Use:   "add",
	Short: "Create a note on the remote service",
	Long: `Add creates a note remotely, then resynchronizes the local mirror with
the complete server-side collection in the background.`,
}

func init() {
	rootCmd.AddCommand(addCmd)
	addCmd.AddCommand(newTwitterMutationCmd(core.OpAdd))
	addCmd.AddCommand(newWalletMutationCmd(core.OpAdd))
}
