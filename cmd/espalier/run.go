package main

import (
	"fmt"
	"os"

	"github.com/aretw0/espalier/internal/cli"
	"github.com/aretw0/espalier/internal/presentation/tui"
	"github.com/aretw0/espalier/pkg/domain"
	"github.com/aretw0/espalier/pkg/expect"
	"github.com/aretw0/espalier/pkg/script"
	"github.com/spf13/cobra"
)

// runCmd represents the run command
var runCmd = &cobra.Command{
	Use:   "run <script-file>",
	Short: "Play an expect/send script against an interactive command",
	Long: `Spawns the script's command under a pseudo-terminal and plays its
expect/send actions against it. The transcript is persisted to the configured
store and rendered when the run ends, whatever its outcome.

Script files are YAML (or JSON) with a command and an actions list:

  command: python3 quiz.py
  actions:
    - action: expect
      text: "Length of side a: "
    - action: send
      text: "3"`,
	Args: cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		configPath, _ := cmd.Flags().GetString("config")
		levelName, _ := cmd.Flags().GetString("log-level")
		logFile, _ := cmd.Flags().GetString("log-file")
		plain, _ := cmd.Flags().GetBool("plain")
		dir, _ := cmd.Flags().GetString("dir")
		timeout, _ := cmd.Flags().GetDuration("timeout")

		f, err := script.LoadFile(args[0])
		if err != nil {
			fmt.Printf("Error: %v\n", err)
			os.Exit(1)
		}

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

		fancy := !plain && tui.IsTerminal()
		if fancy {
			tui.PrintBanner()
		}

		var extra []expect.Option
		if cmd.Flags().Changed("timeout") {
			extra = append(extra, expect.WithTimeout(timeout))
		}
		if dir != "" {
			extra = append(extra, expect.WithDir(dir))
		}

		sigCtx := cli.NewSignalContext(cmd.Context())
		defer sigCtx.Cancel()

		transcript, err := harness.RunScript(sigCtx, f.Command, f.Actions, extra...)
		if err != nil {
			fmt.Printf("Error: %v\n", err)
			os.Exit(1)
		}

		printTranscript(transcript, fancy)

		if sigCtx.Signal() != nil {
			fmt.Printf("\nInterrupted by %v.\n", sigCtx.Signal())
		}
		if transcript.Result.Status != domain.StatusCompleted {
			os.Exit(1)
		}
	},
}

// printTranscript renders the transcript with glamour on a terminal and
// falls back to the raw markdown elsewhere.
func printTranscript(t *domain.Transcript, fancy bool) {
	md := tui.TranscriptMarkdown(t)
	if fancy {
		render := tui.NewRenderer()
		if out, err := render(md); err == nil {
			fmt.Print(out)
			return
		}
	}
	fmt.Print(md)
}

func init() {
	rootCmd.AddCommand(runCmd)

	runCmd.Flags().Bool("plain", false, "Disable the banner and rich rendering")
	runCmd.Flags().String("dir", "", "Working directory for the spawned command")
	runCmd.Flags().Duration("timeout", expect.DefaultTimeout, "Per-expect timeout, e.g. 45s")
}
