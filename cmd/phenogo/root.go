package main

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/phenogo/phenogo/internal/logging"
	"github.com/phenogo/phenogo/pkg/adapters/memory"
	"github.com/phenogo/phenogo/pkg/adapters/yamlspec"
	"github.com/phenogo/phenogo/pkg/catalog"
	"github.com/phenogo/phenogo/pkg/ports"
)

var rootCmd = &cobra.Command{
	Use:   "phenogo",
	Short: "phenogo simulates cell phenotypes as phase state machines",
	Long: `phenogo runs cell phenotype simulations: each cell steps through a cycle
of phases (growth, division, death) with stochastic or fixed durations,
while a multi-compartment volume model tracks its size.`,
}

// Execute adds all child commands to the root command and sets flags appropriately.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Println(err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().String("specs", "", "Directory of YAML phenotype definitions, layered over the built-in catalog")
	rootCmd.PersistentFlags().BoolP("verbose", "v", false, "Enable debug logging")
}

// newLoader assembles the definition source: the built-in catalog, with an
// optional YAML directory taking precedence on name clashes.
func newLoader(cmd *cobra.Command) ports.SpecLoader {
	dir, _ := cmd.Flags().GetString("specs")
	if dir == "" {
		return catalog.Loader{}
	}
	return memory.NewMultiLoader(yamlspec.NewLoader(dir), catalog.Loader{})
}

func newLogger(cmd *cobra.Command) *slog.Logger {
	verbose, _ := cmd.Flags().GetBool("verbose")
	level := slog.LevelInfo
	if verbose {
		level = slog.LevelDebug
	}
	return logging.New(level)
}
