package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

// rootCmd represents the base command for the planka-mcp application
var rootCmd = &cobra.Command{
	Use:   "planka-mcp",
	Short: "MCP server for Planka kanban boards",
	Long: `planka-mcp exposes a Planka kanban server to AI assistants through the
Model Context Protocol (MCP).

It authenticates against the Planka REST API with a service account and
provides tools for browsing the project/board/list structure, reading and
writing cards, managing checklists, labels and comments.`,
	SilenceUsage: true,
}

// version will be set by main
var version = "dev"

// SetVersion sets the version for the root command
func SetVersion(v string) {
	version = v
	rootCmd.Version = v
}

// Execute is the main entry point for the CLI application
func Execute() {
	rootCmd.SetVersionTemplate(`{{printf "planka-mcp version %s\n" .Version}}`)

	// If no subcommand is provided, run the serve command by default
	if len(os.Args) == 1 {
		os.Args = append(os.Args, "serve")
	}

	err := rootCmd.Execute()
	if err != nil {
		os.Exit(1)
	}
}

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print version information",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Printf("planka-mcp version %s\n", version)
		},
	}
}

func init() {
	rootCmd.AddCommand(newServeCmd())
	rootCmd.AddCommand(newVersionCmd())
	rootCmd.AddCommand(newGenerateDocsCmd())
}
