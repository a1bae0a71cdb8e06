package cmd

import (
	"fmt"
	"path/filepath"

	"github.com/spf13/cobra"
	"golang.org/x/oauth2"

	"github.com/designdesk/agendasync/internal/agenda"
	"github.com/designdesk/agendasync/internal/drive"
	"github.com/designdesk/agendasync/internal/logging"
)

func newDriveCmd() *cobra.Command {
	var folderID string
	var resultsFile string
	var sync bool
	var localOnly bool

	cmd := &cobra.Command{
		Use:   "drive",
		Short: "Walk the Google Drive agendas folder and extract action items",
		Long: `Traverse the three-level agendas folder structure on Google Drive
(root → category folders → person/project folders → documents), read each
current-year document (native Google Docs are exported as text, uploaded
.docx files are downloaded and parsed), and extract action items with
provenance: source category, folder, document and link.

The by-folder results and a flat item list are written to a JSON file.
With --sync the items are also upserted into the configured store.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, logger, err := setup()
			if err != nil {
				return err
			}
			if folderID != "" {
				cfg.DriveAgendasFolderID = folderID
			}
			if err := cfg.RequireOpenAI(); err != nil {
				return err
			}
			if err := cfg.RequireDrive(); err != nil {
				return err
			}
			folderID = cfg.DriveAgendasFolderID
			logger = logging.WithOperation(logger, "drive")

			ctx := cmd.Context()
			tokens := oauth2.StaticTokenSource(&oauth2.Token{AccessToken: cfg.GoogleToken})
			client, err := drive.NewClient(ctx, tokens)
			if err != nil {
				return err
			}

			extractor := agenda.NewExtractor(newCompleter(cfg), logger)
			walker := drive.NewWalker(client, extractor, cfg.IncludeYear, cfg.ExcludeYear, logger)

			result, err := walker.Walk(ctx, folderID)
			if err != nil {
				return err
			}
			logger.Info("walk complete",
				logging.Items(len(result.AllItems)),
				logging.Status(fmt.Sprintf("%d folders, %d docs", result.Stats.CategoryFolders, result.Stats.DocsProcessed)))

			if sync {
				store := newActionStore(cfg, logger, localOnly)
				summary := agenda.UpsertAll(ctx, store, result.AllItems, "", logger)
				logger.Info("sync complete", logging.Status(summary.String()))
			}

			path := filepath.Join(cfg.ResultsFolder, resultsFile)
			if err := agenda.WriteFlat(path, result.AllItems); err != nil {
				return err
			}
			byFolderPath := filepath.Join(cfg.ResultsFolder, "drive_"+resultsFile)
			if err := drive.WriteResult(byFolderPath, result); err != nil {
				return err
			}
			logger.Info("results written", logging.Document(byFolderPath))
			return nil
		},
	}

	cmd.Flags().StringVar(&folderID, "folder-id", "", "Drive folder ID of the agendas root (default: GOOGLE_DRIVE_AGENDAS_FOLDER_ID)")
	cmd.Flags().StringVar(&resultsFile, "results", "agenda_items.json", "results file name inside the results folder")
	cmd.Flags().BoolVar(&sync, "sync", false, "also upsert extracted items into the configured store")
	cmd.Flags().BoolVar(&localOnly, "local", false, "store items in the local JSON store even when Notion is configured")
	return cmd
}
