package main

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/aretw0/espalier/internal/cli"
	"github.com/aretw0/espalier/pkg/shell"
	"github.com/spf13/cobra"
)

// execCmd represents the exec command
var execCmd = &cobra.Command{
	Use:   "exec <command>...",
	Short: "Run a one-shot shell command through the blocklist",
	Long: `Executes a non-interactive shell command with captured output. Commands
matching the configured blocklist are refused unless the override is enabled
in the config file. The process exits with the command's exit code.`,
	Args: cobra.MinimumNArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		configPath, _ := cmd.Flags().GetString("config")
		levelName, _ := cmd.Flags().GetString("log-level")
		logFile, _ := cmd.Flags().GetString("log-file")
		dir, _ := cmd.Flags().GetString("dir")
		stdin, _ := cmd.Flags().GetString("stdin")

		cfg := cli.LoadConfig(configPath, os.Stderr)

		logger, closeLogger, err := cli.NewLogger(levelName, logFile)
		if err != nil {
			fmt.Printf("Error: %v\n", err)
			os.Exit(1)
		}
		defer closeLogger()

		harness, closeStore, err := cli.BuildHarness(cfg, logger)
		if err != nil {
			fmt.Printf("Error: %v\n", err)
			os.Exit(1)
		}
		defer closeStore()

		var execOpts []shell.ExecOption
		if dir != "" {
			execOpts = append(execOpts, shell.WithDir(dir))
		}
		if stdin != "" {
			execOpts = append(execOpts, shell.WithStdin(stdin))
		}

		sigCtx := cli.NewSignalContext(cmd.Context())
		defer sigCtx.Cancel()

		command := strings.Join(args, " ")
		res, err := harness.ExecCommand(sigCtx, command, execOpts...)
		if err != nil {
			if errors.Is(err, shell.ErrCommandBlocked) {
				fmt.Fprintln(os.Stderr, res.Stderr)
				os.Exit(res.ExitCode)
			}
			fmt.Printf("Error: %v\n", err)
			os.Exit(1)
		}

		fmt.Print(res.Stdout)
		fmt.Fprint(os.Stderr, res.Stderr)
		if res.IsError() {
			os.Exit(res.ExitCode)
		}
	},
}

func init() {
	rootCmd.AddCommand(execCmd)

	execCmd.Flags().String("dir", "", "Working directory for the command")
	execCmd.Flags().String("stdin", "", "Text piped to the command's standard input")
}
