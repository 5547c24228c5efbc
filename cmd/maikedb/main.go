// Package main provides the maikedb CLI application.
// maikedb manages the mAIke back-office data layer: process
// resolution, snapshots and auto-heal across the PRIMARY, LEGACY and
// external sources.
package main

import (
	"os"
)

var (
	// Version is set by build flags
	Version = "dev"
)

func main() {
	if err := getRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}
