package main

import (
	"fmt"
	"os"

	"github.com/aretw0/espalier/internal/config"
	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "espalier",
	Short: "Espalier trains interactive command-line programs",
	Long: `Espalier drives interactive programs through a pseudo-terminal with
expect/send scripts, executes guarded one-shot shell commands, and exposes
both over MCP and HTTP.`,
}

// Execute adds all child commands to the root command and sets flags appropriately.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Println(err)
		os.Exit(1)
	}
}

func init() {
	// Persistent flags (available to all commands)
	rootCmd.PersistentFlags().String("config", config.DefaultPath, "Path to the espalier config file")
	rootCmd.PersistentFlags().String("log-level", "info", "Log level: debug, info, warn or error")
	rootCmd.PersistentFlags().String("log-file", "", "Tee logs to this file in addition to stderr")
}
