package main

import (
	"fmt"

	"github.com/spf13/cobra"
	"go.uber.org/multierr"
)

var verifyCmd = &cobra.Command{
	Use:   "verify FILE",
	Short: "Verify the integrity of the shard cache of a file",
	Long: `Verify that the shards of FILE are consistent.

This command checks:
- Shard ranges cover every line exactly once
- Each shard file holds as many lines as its name claims`,
	Args: cobra.ExactArgs(1),
	RunE: runVerify,
}

func init() {
	rootCmd.AddCommand(verifyCmd)
}

func runVerify(cmd *cobra.Command, args []string) error {
	ctx, cancel := commandContext()
	defer cancel()

	cache, cleanup, err := openCache(ctx, args[0])
	if err != nil {
		return err
	}
	defer cleanup()

	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "Verifying %d shards...\n", len(cache.Shards()))

	errs := multierr.Errors(cache.Verify(ctx))
	for _, err := range errs {
		fmt.Fprintf(out, "  ERROR: %v\n", err)
	}
	if len(errs) > 0 {
		return fmt.Errorf("%d problems found", len(errs))
	}

	fmt.Fprintln(out, "All shards verified successfully.")
	return nil
}
