package main

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/notemirror/notemirror/pkg/core"
)

var syncCmd = &cobra.Command{
	Use:   "sync [kind]",
	Short: "Pull the complete remote collections into the local mirror",
	Long: `Sync fetches every page of the named collection (or all collections) and
replaces the local mirror with the fresh snapshot.`,
	Args: cobra.MaximumNArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		m, err := buildMirror()
		if err != nil {
			fatal("Failed to initialize mirror", err)
		}

		kinds := core.Kinds()
		if len(args) == 1 {
			kind := core.Kind(args[0])
			if !kind.Valid() {
				fatal("Unknown kind", fmt.Errorf("%q", args[0]))
			}
			kinds = []core.Kind{kind}
		}

		for _, kind := range kinds {
			if err := m.Refresh(context.Background(), kind); err != nil {
				fatal("Sync failed", err)
			}
			fmt.Printf("%s: %d notes\n", kind, len(m.Notes(kind)))
		}
	},
}

func init() {
	rootCmd.AddCommand(syncCmd)
}
