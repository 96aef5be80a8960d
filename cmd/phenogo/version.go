package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/phenogo/phenogo"
)

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the version number of phenogo",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Printf("phenogo version %s\n", strings.TrimSpace(phenogo.Version))
	},
}

func init() {
	rootCmd.AddCommand(versionCmd)
}
