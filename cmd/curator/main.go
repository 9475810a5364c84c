package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"github.com/zatekoja/learnplan/internal/infrastructure/observability"
)

func main() {
	if err := NewRoot().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// NewRoot builds the curator command tree
func NewRoot() *cobra.Command {
	var env string
	root := &cobra.Command{
		Use:           "curator",
		Short:         "Maintain the learning catalog and preview plans",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			observability.InitLogger("learnplan-curator", env)
		},
	}
	root.PersistentFlags().StringVar(&env, "env", "production", "Log format: development gives console output")
	root.AddCommand(
		SeedCmd(),
		PlanCmd(),
	)
	return root
}
