// =============================================================================
// Broker Helper - Root Command
// =============================================================================
//
// This file defines the root command for the Cobra CLI. The root command is
// the base command that all other commands are attached to.
//
// COBRA CLI STRUCTURE:
//   rootCmd (brokerhelper)
//   ├── splitCmd   (brokerhelper split)
//   ├── rejectsCmd (brokerhelper rejects)
//   ├── uploadCmd  (brokerhelper upload)
//   └── versionCmd (brokerhelper version)
//
// CONFIGURATION:
//   The root command is responsible for:
//   1. Setting up global flags (--config, --verbose)
//   2. Handing the configuration path to the subcommands
//
// =============================================================================

package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

// =============================================================================
// GLOBAL VARIABLES
// =============================================================================

// cfgFile holds the path to the main configuration file.
// This can be overridden using the --config flag.
var cfgFile string

// verbose enables verbose logging when set to true.
var verbose bool

// =============================================================================
// ROOT COMMAND DEFINITION
// =============================================================================

// rootCmd represents the base command when called without any subcommands.
var rootCmd = &cobra.Command{
	Use: "brokerhelper",

	Short: "Broker Helper - Customs brokerage back-office toolkit",

	Long: `Broker Helper is a CLI toolkit for the repetitive back-office work of a
customs brokerage: reshaping carrier manifests into canonical invoice
workbooks, scraping reject codes out of CBP reject PDFs, and pushing entry
payloads to the filing API.

Key Features:
  - Manifest splitting with column remapping and invoice numbering
  - Manufacturer ID repair from street addresses, with an audit report
  - Per-line value floor with an adjustment log of every touched row
  - Reject-code scraping across one PDF or a whole folder
  - Entry / line-item upload with payload and reply kept for support

Example Usage:
  brokerhelper split --file manifest.xlsx     # Split one manifest
  brokerhelper rejects --dir ./rejects        # Scrape every PDF in a folder
  brokerhelper upload --file GA_CI_X-A1.xlsx  # Upload line items`,

	Run: func(cmd *cobra.Command, args []string) {
		// If no subcommand is provided, print the help message.
		cmd.Help()
	},
}

// =============================================================================
// EXECUTE FUNCTION
// =============================================================================

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the rootCmd.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

// =============================================================================
// INITIALIZATION
// =============================================================================

// init sets up the global flags shared by every subcommand.
func init() {
	// Persistent flags are available to this command and all subcommands.

	// --config flag: Allows the user to specify a custom configuration file.
	rootCmd.PersistentFlags().StringVar(
		&cfgFile,
		"config",
		"config.yaml",
		"Path to the main configuration file (default is config.yaml)",
	)

	// --verbose flag: Enables verbose/debug logging.
	rootCmd.PersistentFlags().BoolVarP(
		&verbose,
		"verbose",
		"v",
		false,
		"Enable verbose output for debugging",
	)
}
