package main

import (
	"fmt"
	"strings"

	"github.com/aretw0/espalier/pkg/adapters/mcp"
	"github.com/spf13/cobra"
)

var toolsCmd = &cobra.Command{
	Use:   "tools",
	Short: "List the tools and resources the MCP server exposes",
	Long: `Prints the catalog of MCP tools and resources, with their
arguments. Required arguments are marked with *.`,
	Run: func(cmd *cobra.Command, args []string) {
		tools := mcp.Tools()

		fmt.Println("### Available Tools Summary ###")
		for i, tool := range tools {
			fmt.Printf("\n--- Tool %d/%d ---\n", i+1, len(tools))
			fmt.Printf("* **Name:** %s\n", tool.Name)
			fmt.Printf("* **Purpose:** %s\n", tool.Description)
			fmt.Println("* **Inputs:**")
			if len(tool.Params) == 0 {
				fmt.Println("  (None)")
				continue
			}
			for _, p := range tool.Params {
				marker := ""
				if p.Required {
					marker = "*"
				}
				fmt.Printf("  - %s%s: <string> %s\n", p.Name, marker, p.Description)
			}
		}

		fmt.Println("\nResources:")
		for _, res := range mcp.Resources() {
			fmt.Printf("  - %s (%s): %s\n", res.URI, res.MIMEType, res.Name)
		}
		fmt.Println("\n" + strings.Repeat("#", 30))
	},
}

func init() {
	rootCmd.AddCommand(toolsCmd)
}
