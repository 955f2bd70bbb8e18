package main

import (
	"fmt"
	"os"
	"path/filepath"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/discochess/linecache/internal/builder"
)

var statsCmd = &cobra.Command{
	Use:   "stats FILE",
	Short: "Show statistics about the shard cache of a file",
	Long: `Display statistics about the shard cache including:
- Number of lines and shards
- Source and total shard size
- Whether the cache had to be rebuilt`,
	Args: cobra.ExactArgs(1),
	RunE: runStats,
}

var showShards bool

func init() {
	statsCmd.Flags().BoolVar(&showShards, "shards", false, "list every shard")
	rootCmd.AddCommand(statsCmd)
}

func runStats(cmd *cobra.Command, args []string) error {
	ctx, cancel := commandContext()
	defer cancel()

	cache, cleanup, err := openCache(ctx, args[0])
	if err != nil {
		return err
	}
	defer cleanup()

	info, err := os.Stat(cache.SourcePath())
	if err != nil {
		return err
	}

	dir := filepath.Dir(cache.SourcePath())
	shards := cache.Shards()
	sizes := make([]int64, len(shards))
	var total int64
	for i, s := range shards {
		fi, err := os.Stat(filepath.Join(dir, s.Name))
		if err != nil {
			return fmt.Errorf("stat shard: %w", err)
		}
		sizes[i] = fi.Size()
		total += fi.Size()
	}

	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "Source:      %s\n", cache.SourcePath())
	fmt.Fprintf(out, "Source size: %s\n", builder.FormatBytes(info.Size()))
	fmt.Fprintf(out, "Lines:       %d\n", cache.LineCount())
	fmt.Fprintf(out, "Shards:      %d\n", len(shards))
	fmt.Fprintf(out, "Shard size:  %s\n", builder.FormatBytes(total))
	fmt.Fprintf(out, "Rebuilt:     %t\n", cache.Rebuilt())

	if showShards && len(shards) > 0 {
		fmt.Fprintln(out)
		tw := tabwriter.NewWriter(out, 0, 4, 2, ' ', 0)
		fmt.Fprintln(tw, "NAME\tBEGIN\tEND\tSIZE")
		for i, s := range shards {
			fmt.Fprintf(tw, "%s\t%d\t%d\t%s\n", s.Name, s.Begin, s.End, builder.FormatBytes(sizes[i]))
		}
		tw.Flush()
	}
	return nil
}
