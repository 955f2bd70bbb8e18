package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/discochess/linecache"
	"github.com/discochess/linecache/internal/builder"
)

var buildCmd = &cobra.Command{
	Use:   "build FILE",
	Short: "Rebuild the shard cache of a file",
	Long: `Discard any existing shards of FILE and split it again.

Progress is printed to stderr while the file is read.

Examples:
  linecache build ./access.log
  linecache build ./access.log --max-lines 50000`,
	Args: cobra.ExactArgs(1),
	RunE: runBuild,
}

func init() {
	rootCmd.AddCommand(buildCmd)
}

func runBuild(cmd *cobra.Command, args []string) error {
	ctx, cancel := commandContext()
	defer cancel()

	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "Building line cache\n")
	fmt.Fprintf(out, "  Source:     %s\n", args[0])
	fmt.Fprintf(out, "  Max lines:  %d per shard\n", maxShardLines)
	fmt.Fprintf(out, "  Block size: %s\n", builder.FormatBytes(int64(blockSize)))
	fmt.Fprintln(out)

	cache, cleanup, err := openCache(ctx, args[0],
		linecache.WithOverlay(true),
		linecache.WithProgress(builder.NewPrinter(os.Stderr)),
	)
	if err != nil {
		return err
	}
	defer cleanup()

	fmt.Fprintf(out, "Wrote %d shards covering %d lines\n", len(cache.Shards()), cache.LineCount())
	return nil
}
