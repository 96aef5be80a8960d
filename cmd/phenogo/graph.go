package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/phenogo/phenogo/internal/presentation/graph"
)

// graphCmd represents the graph command
var graphCmd = &cobra.Command{
	Use:   "graph <phenotype>",
	Short: "Export a phenotype's phase graph",
	Long:  `Outputs a Mermaid diagram (graph TD) of a phenotype's phases and transitions.`,
	Args:  cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		loader := newLoader(cmd)
		spec, err := loader.Load(args[0])
		if err != nil {
			fmt.Printf("Error loading phenotype: %v\n", err)
			os.Exit(1)
		}
		fmt.Print(graph.GenerateMermaid(*spec, nil))
	},
}

func init() {
	rootCmd.AddCommand(graphCmd)
}
