package main

import (
	"fmt"
	"os"

	"github.com/aretw0/espalier/internal/presentation/graph"
	"github.com/aretw0/espalier/pkg/script"
	"github.com/spf13/cobra"
)

// graphCmd represents the graph command
var graphCmd = &cobra.Command{
	Use:   "graph [script-file]",
	Short: "Export a script as a Mermaid sequence diagram",
	Long: `Renders the expect/send conversation described by a script file as a
Mermaid sequenceDiagram. With --run, a stored transcript is rendered instead,
annotated with how far the run got before it ended.`,
	Args: cobra.MaximumNArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		runID, _ := cmd.Flags().GetString("run")

		if runID != "" {
			store, closer := openStore(cmd)
			defer closer()

			transcript, err := store.Load(cmd.Context(), runID)
			if err != nil {
				fmt.Printf("Error loading transcript '%s': %v\n", runID, err)
				os.Exit(1)
			}

			overlay := graph.OverlayFromResult(transcript.Result)
			fmt.Print(graph.GenerateMermaid(transcript.Command, transcript.Script, overlay))
			return
		}

		if len(args) == 0 {
			fmt.Println("Error: provide a script file or --run <transcript-id>")
			os.Exit(1)
		}

		f, err := script.LoadFile(args[0])
		if err != nil {
			fmt.Printf("Error: %v\n", err)
			os.Exit(1)
		}

		fmt.Print(graph.GenerateMermaid(f.Command, f.Actions, nil))
	},
}

func init() {
	rootCmd.AddCommand(graphCmd)

	graphCmd.Flags().String("run", "", "Render a stored transcript by ID instead of a script file")
}
