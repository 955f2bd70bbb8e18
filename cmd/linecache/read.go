package main

import (
	"bufio"
	"fmt"

	"github.com/spf13/cobra"
)

var countCmd = &cobra.Command{
	Use:   "count FILE",
	Short: "Print the number of lines in a file",
	Args:  cobra.ExactArgs(1),
	RunE:  runCount,
}

var lineCmd = &cobra.Command{
	Use:   "line FILE N",
	Short: "Print line N (1-based) of a file",
	Long: `Print line N of a file exactly as stored, including its line terminator.

Examples:
  linecache line ./access.log 1
  linecache line ./access.log 25000`,
	Args: cobra.ExactArgs(2),
	RunE: runLine,
}

var linesCmd = &cobra.Command{
	Use:   "lines FILE BEGIN [END]",
	Short: "Print lines BEGIN through END (inclusive)",
	Long: `Print a range of lines. END defaults to the last line of the file.

Examples:
  linecache lines ./access.log 100 120
  linecache lines ./access.log 24990`,
	Args: cobra.RangeArgs(2, 3),
	RunE: runLines,
}

func init() {
	rootCmd.AddCommand(countCmd, lineCmd, linesCmd)
}

func runCount(cmd *cobra.Command, args []string) error {
	ctx, cancel := commandContext()
	defer cancel()

	cache, cleanup, err := openCache(ctx, args[0])
	if err != nil {
		return err
	}
	defer cleanup()

	fmt.Fprintln(cmd.OutOrStdout(), cache.LineCount())
	return nil
}

func runLine(cmd *cobra.Command, args []string) error {
	n, err := parseLineNumber(args[1])
	if err != nil {
		return err
	}

	ctx, cancel := commandContext()
	defer cancel()

	cache, cleanup, err := openCache(ctx, args[0])
	if err != nil {
		return err
	}
	defer cleanup()

	line, err := cache.ReadLine(ctx, n)
	if err != nil {
		return err
	}
	fmt.Fprint(cmd.OutOrStdout(), line)
	return nil
}

func runLines(cmd *cobra.Command, args []string) error {
	begin, err := parseLineNumber(args[1])
	if err != nil {
		return err
	}

	ctx, cancel := commandContext()
	defer cancel()

	cache, cleanup, err := openCache(ctx, args[0])
	if err != nil {
		return err
	}
	defer cleanup()

	end := cache.LineCount()
	if len(args) == 3 {
		if end, err = parseLineNumber(args[2]); err != nil {
			return err
		}
	}

	w := bufio.NewWriter(cmd.OutOrStdout())
	defer w.Flush()
	for line, err := range cache.ReadLines(ctx, begin, end+1) {
		if err != nil {
			return err
		}
		if _, err := w.WriteString(line); err != nil {
			return err
		}
	}
	return nil
}
