package cmd

import (
	"log/slog"

	"github.com/spf13/cobra"

	"github.com/designdesk/agendasync/internal/config"
	"github.com/designdesk/agendasync/internal/draft"
	"github.com/designdesk/agendasync/internal/logging"
)

// newReplyWorkflow wires the draft workflow shared by draft, revise and send.
func newReplyWorkflow(cfg *config.Config, logger *slog.Logger) *draft.Workflow {
	generator := draft.NewGenerator(newCompleter(cfg), replyPersona(cfg), logger)
	return draft.NewWorkflow(
		newMailStore(cfg, logger),
		newGraphClient(cfg),
		generator,
		loadChart(cfg, logger),
		logger,
	)
}

func requireReplyConfig(cfg *config.Config, needLLM bool) error {
	if err := cfg.RequireEmailDB(); err != nil {
		return err
	}
	if err := cfg.RequireGraph(); err != nil {
		return err
	}
	if !needLLM {
		return nil
	}
	if err := cfg.RequireOpenAI(); err != nil {
		return err
	}
	return cfg.RequirePersona()
}

func newDraftCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "draft",
		Short: "Generate reply drafts for pages with a reply instruction",
		Long: `Find Notion email pages marked for reply that have no draft under review
or approved yet, fetch the original message, generate an HTML reply draft in
the configured persona's voice, and save it back to Notion for review.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, logger, err := setup()
			if err != nil {
				return err
			}
			if err := requireReplyConfig(cfg, true); err != nil {
				return err
			}
			logger = logging.WithOperation(logger, "draft")

			count, err := newReplyWorkflow(cfg, logger).GenerateDrafts(cmd.Context())
			if err != nil {
				return err
			}
			logger.Info("draft generation complete", logging.Items(count))
			return nil
		},
	}
}

func newReviseCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "revise",
		Short: "Regenerate drafts the reviewer sent back with notes",
		Long: `Find drafts marked for revision, regenerate each one with the reviewer's
notes folded into the prompt, and save the new draft for another review.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, logger, err := setup()
			if err != nil {
				return err
			}
			if err := requireReplyConfig(cfg, true); err != nil {
				return err
			}
			logger = logging.WithOperation(logger, "revise")

			count, err := newReplyWorkflow(cfg, logger).ReviseDrafts(cmd.Context())
			if err != nil {
				return err
			}
			logger.Info("revision pass complete", logging.Items(count))
			return nil
		},
	}
}

func newSendCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "send",
		Short: "Send approved drafts as replies",
		Long: `Send every approved draft as a reply to its original message (reply
draft is created, its body replaced with the approved HTML, then sent) and
mark the Notion page as sent.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, logger, err := setup()
			if err != nil {
				return err
			}
			if err := requireReplyConfig(cfg, false); err != nil {
				return err
			}
			logger = logging.WithOperation(logger, "send")

			count, err := newReplyWorkflow(cfg, logger).SendApproved(cmd.Context())
			if err != nil {
				return err
			}
			logger.Info("send pass complete", logging.Items(count))
			return nil
		},
	}
}
