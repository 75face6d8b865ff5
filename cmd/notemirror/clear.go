package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/notemirror/notemirror/pkg/core"
)

var clearCmd = &cobra.Command{
	Use:   "clear [kind]",
	Short: "Drop the local mirror (remote data is untouched)",
	Args:  cobra.MaximumNArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		m, err := buildMirror()
		if err != nil {
			fatal("Failed to initialize mirror", err)
		}

		if len(args) == 0 {
			m.ClearAllCache()
			fmt.Println("Local mirror cleared.")
			return
		}

		kind := core.Kind(args[0])
		if !kind.Valid() {
			fatal("Unknown kind", fmt.Errorf("%q", args[0]))
		}
		m.ClearCache(kind)
		fmt.Printf("Local mirror cleared: %s\n", kind)
	},
}

func init() {
	rootCmd.AddCommand(clearCmd)
}
