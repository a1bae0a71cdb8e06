package cmd

import (
	"log/slog"
	"path/filepath"

	"golang.org/x/oauth2"

	"github.com/designdesk/agendasync/internal/agenda"
	"github.com/designdesk/agendasync/internal/config"
	"github.com/designdesk/agendasync/internal/draft"
	"github.com/designdesk/agendasync/internal/graph"
	"github.com/designdesk/agendasync/internal/jsonstore"
	"github.com/designdesk/agendasync/internal/llm"
	"github.com/designdesk/agendasync/internal/logging"
	"github.com/designdesk/agendasync/internal/notion"
	"github.com/designdesk/agendasync/internal/orgchart"
)

// setup loads the environment configuration and builds the process logger.
func setup() (*config.Config, *slog.Logger, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, nil, err
	}
	return cfg, logging.New(), nil
}

func newCompleter(cfg *config.Config) *llm.Client {
	return llm.New(cfg.OpenAIAPIKey, cfg.OpenAIAPIBase, cfg.OpenAIModel)
}

// newActionStore picks the Notion action items database when configured,
// the local JSON store otherwise. localOnly forces the JSON store.
func newActionStore(cfg *config.Config, logger *slog.Logger, localOnly bool) agenda.Store {
	if !localOnly && cfg.HasActionItemsDB() {
		return notion.NewStore(cfg.NotionActionItemsAPIKey, cfg.NotionActionItemsDatabaseID, cfg.PersonToNotionID, logger)
	}
	return jsonstore.New(filepath.Join(cfg.DataDir, "action_items.json"))
}

func newMailStore(cfg *config.Config, logger *slog.Logger) *notion.MailStore {
	return notion.NewMailStore(cfg.NotionEmailAPIKey, cfg.NotionEmailDatabaseID, logger)
}

func newGraphClient(cfg *config.Config) *graph.Client {
	tokens := oauth2.StaticTokenSource(&oauth2.Token{AccessToken: cfg.GraphToken})
	return graph.NewClient(cfg.GraphUser, tokens)
}

// loadChart loads the org chart; a broken chart degrades to an empty one so
// mail commands still run.
func loadChart(cfg *config.Config, logger *slog.Logger) orgchart.Chart {
	chart, err := orgchart.Load(cfg.OrgChartPath)
	if err != nil {
		logger.Warn("failed to load org chart, continuing without it", logging.Err(err))
		return orgchart.Chart{}
	}
	return chart
}

func replyPersona(cfg *config.Config) draft.Persona {
	return draft.Persona{
		Name:  cfg.SenderName,
		Title: cfg.SenderTitle,
		Org:   cfg.SenderOrg,
	}
}
