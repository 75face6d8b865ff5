package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/notemirror/notemirror"
)

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the version number of notemirror",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Printf("notemirror version %s\n", strings.TrimSpace(notemirror.Version))
	},
}

func init() {
	rootCmd.AddCommand(versionCmd)
}
