// Package main provides the linecache CLI for reading lines out of large text
// files through the on-disk shard cache.
package main

import (
	"os"
)

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
