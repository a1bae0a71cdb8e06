package cmd

import (
	"os"

	"github.com/spf13/cobra"
)

// rootCmd represents the base command for the agendasync application
var rootCmd = &cobra.Command{
	Use:   "agendasync",
	Short: "Extracts agenda action items and syncs mail into Notion",
	Long: `agendasync is the glue between meeting agendas, a mailbox and a Notion
dashboard. It parses .docx agenda documents (locally or from a Google Drive
folder tree), extracts action items with an LLM, and upserts them into a
Notion database keyed by a stable external ID. It also syncs unread Outlook
mail into a Notion email database and drives the draft-reply review loop.`,
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
	rootCmd.SetVersionTemplate(`{{printf "agendasync version %s\n" .Version}}`)

	// If no subcommand is provided, run the extract command by default
	if len(os.Args) == 1 {
		os.Args = append(os.Args, "extract")
	}

	err := rootCmd.Execute()
	if err != nil {
		os.Exit(1)
	}
}

func init() {
	rootCmd.AddCommand(newExtractCmd())
	rootCmd.AddCommand(newDriveCmd())
	rootCmd.AddCommand(newSyncCmd())
	rootCmd.AddCommand(newDraftCmd())
	rootCmd.AddCommand(newReviseCmd())
	rootCmd.AddCommand(newSendCmd())
	rootCmd.AddCommand(newVersionCmd())
}
