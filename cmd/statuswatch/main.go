// Package main is the entry point for the statuswatch CLI.
//
// statuswatch can be run either as a library (SDK) or as a standalone
// binary with YAML configuration. This CLI provides the standalone binary
// approach.
//
// Usage:
//
//	statuswatch serve -c config.yaml    # Start watching providers
//	statuswatch validate -c config.yaml # Validate configuration
//	statuswatch version                 # Show version info
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

// Version information - set by GoReleaser at build time via ldflags.
// Example: go build -ldflags "-X main.version=1.0.0"
var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

// rootCmd is the base command when called without subcommands.
// It just displays help - actual functionality is in subcommands.
var rootCmd = &cobra.Command{
	Use:   "statuswatch",
	Short: "Track status page incidents as a live event stream",
	Long: `statuswatch watches statuspage.io-compatible status pages and
republishes new incidents and component health transitions as a
deduplicated event stream: to the console, and to any number of live
subscribers over SSE or WebSocket, with replay for late joiners.

Quick start:
  1. Create a config file (statuswatch.yaml)
  2. Run: statuswatch serve -c statuswatch.yaml
  3. Open http://localhost:8080 in your browser

Example config:
  port: 8080
  poll_interval: 30s
  providers:
    - name: OpenAI API
      url: https://status.openai.com/api/v2`,
	// No Run/RunE means this just shows help when called without subcommands
}

// Execute runs the root command.
// This is the main entry point called from main().
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		// Cobra already prints the error, just exit with code 1
		os.Exit(1)
	}
}

func main() {
	Execute()
}

// versionCmd prints version information.
var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print version information",
	Long:  `Print the version, commit hash, and build date of this statuswatch binary.`,
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Printf("statuswatch %s\n", version)
		fmt.Printf("  commit: %s\n", commit)
		fmt.Printf("  built:  %s\n", date)
	},
}

func init() {
	// Register subcommands with root
	rootCmd.AddCommand(versionCmd)
}
