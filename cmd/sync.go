package cmd

import (
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/designdesk/agendasync/internal/graph"
	"github.com/designdesk/agendasync/internal/logging"
	"github.com/designdesk/agendasync/internal/mailsync"
)

func newSyncCmd() *cobra.Command {
	var feedFile string

	cmd := &cobra.Command{
		Use:   "sync",
		Short: "Pull unread Outlook mail into Notion and the dashboard feed",
		Long: `Fetch unread messages via Microsoft Graph, classify each sender into a
category and priority, and record new messages in the Notion email database
with an LLM summary, an org-chart sender name and a response-effort tag.
Messages already in the database are skipped so manual edits survive.

Every fetched message is also written to a JSON feed for the dashboard.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, logger, err := setup()
			if err != nil {
				return err
			}
			if err := cfg.RequireGraph(); err != nil {
				return err
			}
			if err := cfg.RequireEmailDB(); err != nil {
				return err
			}
			logger = logging.WithOperation(logger, "sync")

			syncer := mailsync.NewSyncer(
				newGraphClient(cfg),
				newMailStore(cfg, logger),
				mailsync.NewSummarizer(newCompleter(cfg), logger),
				graph.NewClassifier(cfg.GraphUser),
				loadChart(cfg, logger),
				logger,
			)

			records, summary, err := syncer.Sync(cmd.Context())
			if err != nil {
				return err
			}

			path := filepath.Join(cfg.DataDir, feedFile)
			if err := mailsync.WriteFeed(path, records); err != nil {
				return err
			}
			logger.Info("feed written", logging.Document(path),
				logging.Status(summary.String()))
			return nil
		},
	}

	cmd.Flags().StringVar(&feedFile, "feed", "emails.json", "dashboard feed file name inside the data directory")
	return cmd
}
