// Package cmd provides the CLI commands for the operations console.
package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/snapbook/opsconsole/internal/config"
)

var (
	cfgFile      string
	sessionPath  string
	outputFormat string
)

var rootCmd = &cobra.Command{
	Use:   "opsconsole",
	Short: "Operations console for the photography marketplace",
	Long: `opsconsole is the back-office console of the photography marketplace.

It serves a browser console on localhost and offers the same screens as
commands. Both share one operator session: log in once with "opsconsole login"
or through the browser and every surface uses it.

Quick start:
  1. Create a config file: opsconsole config init
  2. Log in:               opsconsole login --phone 13800000000
  3. Run:                  opsconsole serve

Configuration:
  Config is loaded from opsconsole.yaml in the current directory,
  $HOME/.opsconsole/, or /etc/opsconsole/.

  Environment variables can override config values with the OPSCONSOLE_ prefix.
  Example: OPSCONSOLE_BACKEND_BASE_URL=https://api.example.com

Commands:
  serve       Start the browser console
  stop        Stop the running console
  login       Log in with phone and verification code
  logout      Clear the stored session
  whoami      Show the current operator
  dashboard   Show platform metrics
  users       List users and review photographers
  orders      List, inspect, freeze and export orders
  disputes    List and resolve disputes
  content     Review portfolios
  audit       Read and append the audit log
  ops         Platform settings, merchant approvals and templates
  config      Write or show the configuration
  version     Print version information`,
	SilenceUsage: true,
}

// Execute runs the root command.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}

func init() {
	cobra.OnInitialize(initConfig)
	rootCmd.SilenceErrors = true
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default: ./opsconsole.yaml)")
	rootCmd.PersistentFlags().StringVar(&sessionPath, "session", "", "session file or database (default: ~/.opsconsole/session.json)")
	rootCmd.PersistentFlags().StringVarP(&outputFormat, "output", "o", formatTable, "output format: table, json or yaml")
}

func initConfig() {
	config.InitViper(cfgFile)
}
