package main

import (
	"context"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/notemirror/notemirror/pkg/core"
)

// runMutation executes one remote mutation and reports the immediate
// outcome. The mirror catches up in the background; WaitIdle gives the
// resync a chance to finish before the process exits.
func runMutation(kind core.Kind, op core.Op, note core.Note) {
	m, err := buildMirror()
	if err != nil {
		fatal("Failed to initialize mirror", err)
	}

	if err := m.Mutate(context.Background(), kind, op, note); err != nil {
		fatal(fmt.Sprintf("Failed to %s note", op), err)
	}
	fmt.Printf("Note %s: %s\n", pastTense(op), note.Key())

	m.WaitIdle(30 * time.Second)
}

func pastTense(op core.Op) string {
	switch op {
	case core.OpAdd:
		return "added"
	case core.OpUpdate:
		return "updated"
	case core.OpDelete:
		return "deleted"
	}
	return string(op)
}

// newTwitterMutationCmd builds the twitter subcommand for add/update.
func newTwitterMutationCmd(op core.Op) *cobra.Command {
	var note core.TwitterNote

	cmd := &cobra.Command{
		Use:   "twitter",
		Short: fmt.Sprintf("%s a note on a social account", op),
		Run: func(cmd *cobra.Command, args []string) {
			runMutation(core.KindTwitter, op, note)
		},
	}

	cmd.Flags().StringVar(&note.ID, "id", "", "Account identifier")
	cmd.Flags().StringVar(&note.Name, "name", "", "Display name")
	cmd.Flags().StringVar(&note.Handle, "handle", "", "Account handle")
	cmd.Flags().StringVar(&note.AvatarURL, "avatar", "", "Avatar URL")
	cmd.Flags().StringVar(&note.Note, "note", "", "Annotation text")
	cmd.Flags().StringSliceVar(&note.Tags, "tags", nil, "Tags")
	cmd.MarkFlagRequired("id")

	return cmd
}

// newWalletMutationCmd builds the wallet subcommand for add/update.
func newWalletMutationCmd(op core.Op) *cobra.Command {
	var note core.WalletNote

	cmd := &cobra.Command{
		Use:   "wallet",
		Short: fmt.Sprintf("%s a note on a wallet address", op),
		Run: func(cmd *cobra.Command, args []string) {
			runMutation(core.KindWallet, op, note)
		},
	}

	cmd.Flags().StringVar(&note.Address, "address", "", "Wallet address")
	cmd.Flags().StringVar(&note.Network, "network", "", "Blockchain network")
	cmd.Flags().StringVar(&note.Note, "note", "", "Annotation text")
	cmd.Flags().StringVar(&note.Source, "source", "", "Provenance tag")
	cmd.MarkFlagRequired("address")
	cmd.MarkFlagRequired("network")

	return cmd
}
