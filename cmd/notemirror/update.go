package main

import (
	"github.com/spf13/cobra"

	"github.com/notemirror/notemirror/pkg/core"
)

var updateCmd = &cobra.Command{
	Use:   "update",
	Short: "Update a note on the remote service",
}

func init() {
	rootCmd.AddCommand(updateCmd)
	updateCmd.AddCommand(newTwitterMutationCmd(core.OpUpdate))
	updateCmd.AddCommand(newWalletMutationCmd(core.OpUpdate))
}
