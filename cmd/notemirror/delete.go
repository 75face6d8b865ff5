package main

import (
	"github.com/spf13/cobra"

	"github.com/notemirror/notemirror/pkg/core"
)

var deleteCmd = &cobra.Command{
	Use:   "delete",
	Short: "Delete a note from the remote service",
}

var deleteTwitterCmd = &cobra.Command{
	Use:   "twitter [id]",
	Short: "Delete a social-account note",
	Args:  cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		runMutation(core.KindTwitter, core.OpDelete, core.TwitterNote{ID: args[0]})
	},
}

var deleteWalletCmd = &cobra.Command{
	Use:   "wallet [address] [network]",
	Short: "Delete a wallet note",
	Args:  cobra.ExactArgs(2),
	Run: func(cmd *cobra.Command, args []string) {
		runMutation(core.KindWallet, core.OpDelete, core.WalletNote{Address: args[0], Network: args[1]})
	},
}

func init() {
	rootCmd.AddCommand(deleteCmd)
	deleteCmd.AddCommand(deleteTwitterCmd)
	deleteCmd.AddCommand(deleteWalletCmd)
}
