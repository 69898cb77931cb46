package main

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/aretw0/espalier/internal/cli"
	"github.com/aretw0/espalier/pkg/ports"
	"github.com/spf13/cobra"
)

var transcriptsCmd = &cobra.Command{
	Use:   "transcripts",
	Short: "Manage stored run transcripts",
	Long:  `List, inspect, and remove transcripts from the configured store.`,
}

var transcriptsLsCmd = &cobra.Command{
	Use:   "ls",
	Short: "List all stored transcripts",
	Run: func(cmd *cobra.Command, args []string) {
		store, closer := openStore(cmd)
		defer closer()

		ids, err := store.List(cmd.Context())
		if err != nil {
			fmt.Printf("Error listing transcripts: %v\n", err)
			os.Exit(1)
		}

		if len(ids) == 0 {
			fmt.Println("No transcripts found.")
			return
		}

		fmt.Println("Transcripts:")
		for _, id := range ids {
			fmt.Println("- " + id)
		}
	},
}

var transcriptsInspectCmd = &cobra.Command{
	Use:   "inspect <transcript-id>",
	Short: "Inspect a stored transcript",
	Args:  cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		id := args[0]
		store, closer := openStore(cmd)
		defer closer()

		transcript, err := store.Load(cmd.Context(), id)
		if err != nil {
			fmt.Printf("Error loading transcript '%s': %v\n", id, err)
			os.Exit(1)
		}

		// Pretty print JSON
		data, err := json.MarshalIndent(transcript, "", "  ")
		if err != nil {
			fmt.Printf("Error marshaling transcript: %v\n", err)
			os.Exit(1)
		}

		fmt.Println(string(data))
	},
}

var transcriptsRmCmd = &cobra.Command{
	Use:   "rm <transcript-id>...",
	Short: "Remove one or more transcripts",
	Args:  cobra.MinimumNArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		store, closer := openStore(cmd)
		defer closer()

		hasError := false
		for _, id := range args {
			if err := store.Delete(cmd.Context(), id); err != nil {
				fmt.Printf("Error removing '%s': %v\n", id, err)
				hasError = true
			} else {
				fmt.Printf("Removed transcript '%s'\n", id)
			}
		}

		if hasError {
			os.Exit(1)
		}
	},
}

func init() {
	rootCmd.AddCommand(transcriptsCmd)
	transcriptsCmd.AddCommand(transcriptsLsCmd)
	transcriptsCmd.AddCommand(transcriptsInspectCmd)
	transcriptsCmd.AddCommand(transcriptsRmCmd)
}

func openStore(cmd *cobra.Command) (ports.TranscriptStore, func()) {
	configPath, _ := cmd.Flags().GetString("config")
	cfg := cli.LoadConfig(configPath, os.Stderr)

	store, closer, err := cli.OpenStore(cfg)
	if err != nil {
		fmt.Printf("Error opening store: %v\n", err)
		os.Exit(1)
	}
	return store, closer
}
