package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var listCmd = &cobra.Command{
	Use:   "list",
	Short: "List the available phenotype definitions",
	Run: func(cmd *cobra.Command, args []string) {
		loader := newLoader(cmd)
		names, err := loader.List()
		if err != nil {
			fmt.Printf("Error listing phenotypes: %v\n", err)
			os.Exit(1)
		}
		for _, name := range names {
			fmt.Println(name)
		}
	},
}

func init() {
	rootCmd.AddCommand(listCmd)
}
