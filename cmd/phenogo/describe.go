package main

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/phenogo/phenogo/internal/presentation/tui"
)

var describeCmd = &cobra.Command{
	Use:   "describe <phenotype>",
	Short: "Show a phenotype's description and phases",
	Args:  cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		loader := newLoader(cmd)
		spec, err := loader.Load(args[0])
		if err != nil {
			fmt.Printf("Error loading phenotype: %v\n", err)
			os.Exit(1)
		}

		var md strings.Builder
		if spec.Description != "" {
			md.WriteString(spec.Description)
			md.WriteString("\n\n")
		} else {
			fmt.Fprintf(&md, "# %s\n\n", spec.Name)
		}

		md.WriteString("## Phases\n\n")
		md.WriteString("| Phase | Transition | Next | On exit |\n")
		md.WriteString("|-------|------------|------|--------|\n")
		for _, p := range spec.Phases {
			next := p.Next
			if p.NextFunc != nil {
				next = "(resolved at runtime)"
			}
			exit := "-"
			switch {
			case p.DividesAtExit:
				exit = "divide"
			case p.RemovesAtExit:
				exit = "remove"
			}
			fmt.Fprintf(&md, "| %s | %s | %s | %s |\n", p.ID, p.Rule.Describe(), next, exit)
		}
		if q := spec.Quiescent; q != nil {
			fmt.Fprintf(&md, "\nQuiescent phase: `%s` (back to `%s`, %s)\n", q.ID, q.Next, q.Rule.Describe())
		}

		render := tui.NewRenderer()
		out, err := render(md.String())
		if err != nil {
			fmt.Print(md.String())
			return
		}
		fmt.Print(out)
	},
}

func init() {
	rootCmd.AddCommand(describeCmd)
}
