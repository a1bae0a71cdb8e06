package cmd

import (
	"fmt"
	"log/slog"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/designdesk/agendasync/internal/agenda"
	"github.com/designdesk/agendasync/internal/logging"
)

func newExtractCmd() *cobra.Command {
	var folder string
	var resultsFile string
	var localOnly bool

	cmd := &cobra.Command{
		Use:   "extract [file.docx]",
		Short: "Extract action items from local .docx agendas and sync them",
		Long: `Parse every .docx agenda document in a folder (or a single file), extract
action items with an LLM, and upsert them into the configured store keyed by
a stable external ID. Results are also written to a JSON file, one entry per
document.

Items land in the Notion action items database when it is configured,
otherwise in a local JSON store under the data directory.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, logger, err := setup()
			if err != nil {
				return err
			}
			if err := cfg.RequireOpenAI(); err != nil {
				return err
			}
			logger = logging.WithOperation(logger, "extract")

			if folder == "" {
				folder = cfg.AgendaFolder
			}

			extractor := agenda.NewExtractor(newCompleter(cfg), logger)
			store := newActionStore(cfg, logger, localOnly)
			processor := agenda.NewProcessor(extractor, store, logger)
			ctx := cmd.Context()

			if len(args) == 1 {
				items, err := processor.ProcessDocument(ctx, args[0])
				if err != nil {
					return fmt.Errorf("failed to process %s: %w", args[0], err)
				}
				doc := filepath.Base(args[0])
				summary := agenda.UpsertAll(ctx, store, items, doc, logger)
				logger.Info("extraction complete", logging.Document(doc),
					logging.Status(summary.String()))
				results := map[string][]agenda.ActionItem{doc: items}
				return writeExtractResults(cfg.ResultsFolder, resultsFile, results, logger)
			}

			results, summary, err := processor.ProcessFolder(ctx, folder)
			if err != nil {
				return err
			}
			logger.Info("extraction complete", logging.Folder(folder),
				logging.Status(summary.String()))
			return writeExtractResults(cfg.ResultsFolder, resultsFile, results, logger)
		},
	}

	cmd.Flags().StringVar(&folder, "folder", "", "agenda folder to scan (default: AGENDA_FOLDER)")
	cmd.Flags().StringVar(&resultsFile, "results", "action_items.json", "results file name inside the results folder")
	cmd.Flags().BoolVar(&localOnly, "local", false, "store items in the local JSON store even when Notion is configured")
	return cmd
}

func writeExtractResults(folder, name string, results map[string][]agenda.ActionItem, logger *slog.Logger) error {
	path := filepath.Join(folder, name)
	if err := agenda.WriteResults(path, results); err != nil {
		return err
	}
	logger.Info("results written", logging.Document(path))
	return nil
}
