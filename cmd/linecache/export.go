package main

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/klauspost/compress/gzip"
	"github.com/pierrec/lz4/v4"
	"github.com/spf13/cobra"

	"github.com/discochess/linecache/internal/codec"
	"github.com/discochess/linecache/internal/codec/gzipcodec"
	"github.com/discochess/linecache/internal/codec/lz4codec"
	"github.com/discochess/linecache/internal/codec/noopcodec"
	"github.com/discochess/linecache/internal/codec/zstdcodec"
)

var exportCmd = &cobra.Command{
	Use:   "export FILE OUTPUT",
	Short: "Write a line range to a file, optionally compressed",
	Long: `Copy lines of FILE into OUTPUT. The compression is chosen from the
OUTPUT extension: ".zst" for zstd, ".gz" for gzip, ".lz4" for lz4,
anything else is written uncompressed.

Examples:
  linecache export ./access.log ./first-million.zst --end 1000000
  linecache export ./access.log ./tail.gz --begin 500000`,
	Args: cobra.ExactArgs(2),
	RunE: runExport,
}

var (
	exportBegin int64
	exportEnd   int64
)

func init() {
	exportCmd.Flags().Int64Var(&exportBegin, "begin", 1, "first line to export")
	exportCmd.Flags().Int64Var(&exportEnd, "end", 0, "last line to export (0 means the last line)")
	rootCmd.AddCommand(exportCmd)
}

// codecFor picks a codec from the extension of path.
func codecFor(path string) codec.Codec {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".zst":
		return zstdcodec.New()
	case ".gz":
		return gzipcodec.New(gzip.DefaultCompression)
	case ".lz4":
		return lz4codec.New(lz4.Fast)
	default:
		return noopcodec.Codec{}
	}
}

func runExport(cmd *cobra.Command, args []string) error {
	ctx, cancel := commandContext()
	defer cancel()

	cache, cleanup, err := openCache(ctx, args[0])
	if err != nil {
		return err
	}
	defer cleanup()

	end := exportEnd
	if end == 0 {
		end = cache.LineCount()
	}

	f, err := os.Create(args[1])
	if err != nil {
		return err
	}

	c := codecFor(args[1])
	n, err := codec.Export(ctx, f, c, cache.ReadLines(ctx, exportBegin, end+1))
	if cerr := f.Close(); err == nil {
		err = cerr
	}
	if err != nil {
		os.Remove(args[1])
		return fmt.Errorf("exporting lines: %w", err)
	}

	fmt.Fprintf(cmd.OutOrStdout(), "Exported %d lines to %s\n", n, args[1])
	return nil
}
