package main

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/notemirror/notemirror/pkg/core"
)

var listJSON bool

var listCmd = &cobra.Command{
	Use:   "list <kind>",
	Short: "List the locally mirrored notes of a collection",
	Args:  cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		kind := core.Kind(args[0])
		if !kind.Valid() {
			fatal("Unknown kind", fmt.Errorf("%q", args[0]))
		}

		m, err := buildMirror()
		if err != nil {
			fatal("Failed to initialize mirror", err)
		}

		notes := m.Notes(kind)

		if listJSON {
			enc := json.NewEncoder(os.Stdout)
			enc.SetIndent("", "  ")
			if err := enc.Encode(notes); err != nil {
				fatal("Failed to encode notes", err)
			}
			return
		}

		if len(notes) == 0 {
			fmt.Println("No notes mirrored. Run 'notemirror sync' first.")
			return
		}
		for _, n := range notes {
			switch note := n.(type) {
			case core.TwitterNote:
				fmt.Printf("%s\t@%s\t%s\n", note.ID, note.Handle, note.Note)
			case core.WalletNote:
				fmt.Printf("%s\t%s\t%s\n", note.Address, note.Network, note.Note)
			default:
				fmt.Printf("%s\n", n.Key())
			}
		}
	},
}

func init() {
	rootCmd.AddCommand(listCmd)
	listCmd.Flags().BoolVar(&listJSON, "json", false, "Output as JSON")
}
