// Package config builds the process configuration from the environment.
//
// All settings are read once at startup into an explicit Config value that is
// passed into each component constructor. Credentials that are only needed by
// some commands are validated lazily through the Require* methods so that, for
// example, a local JSON extraction run does not demand a Notion API key.
package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// MissingKeyError reports a required environment setting that is absent.
type MissingKeyError struct {
	Key string
}

func (e *MissingKeyError) Error() string {
	return fmt.Sprintf("required configuration %s is not set", e.Key)
}

// Config holds all environment-derived settings.
type Config struct {
	// OpenAI-compatible chat completion endpoint
	OpenAIAPIKey  string
	OpenAIAPIBase string
	OpenAIModel   string

	// Notion action items database
	NotionActionItemsAPIKey     string
	NotionActionItemsDatabaseID string

	// Notion email database
	NotionEmailAPIKey     string
	NotionEmailDatabaseID string

	// PersonToNotionID maps lower-cased owner names to Notion user IDs.
	PersonToNotionID map[string]string

	// Local agenda processing
	AgendaFolder  string
	ResultsFolder string
	DataDir       string

	// Google Drive agenda scanning
	DriveAgendasFolderID string
	GoogleToken          string

	// Year tokens for the Drive document filter.
	IncludeYear string
	ExcludeYear string

	// Microsoft Graph mail access
	GraphUser  string
	GraphToken string

	// Org chart and reply persona
	OrgChartPath string
	SenderName   string
	SenderTitle  string
	SenderOrg    string
}

// Load reads an optional .env file and the process environment into a Config.
// A missing .env file is not an error.
func Load() (*Config, error) {
	if err := godotenv.Load(); err != nil && !os.IsNotExist(err) {
		return nil, fmt.Errorf("failed to load .env: %w", err)
	}

	year := time.Now().Year()

	cfg := &Config{
		OpenAIAPIKey:  os.Getenv("OPENAI_API_KEY"),
		OpenAIAPIBase: getenvDefault("OPENAI_API_BASE", "https://api.openai.com/v1"),
		OpenAIModel:   getenvDefault("OPENAI_MODEL", "gpt-4o-mini"),

		NotionActionItemsAPIKey:     os.Getenv("NOTION_API_KEY_ACTION_ITEMS"),
		NotionActionItemsDatabaseID: os.Getenv("NOTION_DATABASE_ID_ACTION_ITEMS"),
		NotionEmailAPIKey:           os.Getenv("NOTION_API_KEY"),
		NotionEmailDatabaseID:       os.Getenv("NOTION_DATABASE_ID"),

		PersonToNotionID: parsePersonMap(os.Getenv("PERSON_TO_NOTION_ID")),

		AgendaFolder:  getenvDefault("AGENDA_FOLDER", "agenda_documents"),
		ResultsFolder: getenvDefault("RESULTS_FOLDER", "results"),
		DataDir:       getenvDefault("DATA_DIR", "data"),

		DriveAgendasFolderID: os.Getenv("GOOGLE_DRIVE_AGENDAS_FOLDER_ID"),
		GoogleToken:          os.Getenv("GOOGLE_OAUTH_TOKEN"),

		IncludeYear: getenvDefault("AGENDA_INCLUDE_YEAR", strconv.Itoa(year)),
		ExcludeYear: getenvDefault("AGENDA_EXCLUDE_YEAR", strconv.Itoa(year-1)),

		GraphUser:  os.Getenv("OUTLOOK_USER"),
		GraphToken: os.Getenv("OUTLOOK_ACCESS_TOKEN"),

		OrgChartPath: getenvDefault("ORG_CHART_PATH", "organization_chart.json"),
		SenderName:   os.Getenv("REPLY_SENDER_NAME"),
		SenderTitle:  os.Getenv("REPLY_SENDER_TITLE"),
		SenderOrg:    os.Getenv("REPLY_SENDER_ORG"),
	}

	return cfg, nil
}

// RequireOpenAI reports whether the LLM endpoint is usable.
func (c *Config) RequireOpenAI() error {
	if c.OpenAIAPIKey == "" {
		return &MissingKeyError{Key: "OPENAI_API_KEY"}
	}
	return nil
}

// RequireActionItemsDB reports whether the Notion action items database is configured.
func (c *Config) RequireActionItemsDB() error {
	if c.NotionActionItemsAPIKey == "" {
		return &MissingKeyError{Key: "NOTION_API_KEY_ACTION_ITEMS"}
	}
	if c.NotionActionItemsDatabaseID == "" {
		return &MissingKeyError{Key: "NOTION_DATABASE_ID_ACTION_ITEMS"}
	}
	return nil
}

// HasActionItemsDB reports whether Notion syncing of action items can be attempted.
func (c *Config) HasActionItemsDB() bool {
	return c.RequireActionItemsDB() == nil
}

// RequireEmailDB reports whether the Notion email database is configured.
func (c *Config) RequireEmailDB() error {
	if c.NotionEmailAPIKey == "" {
		return &MissingKeyError{Key: "NOTION_API_KEY"}
	}
	if c.NotionEmailDatabaseID == "" {
		return &MissingKeyError{Key: "NOTION_DATABASE_ID"}
	}
	return nil
}

// RequireDrive reports whether Drive agenda scanning is configured.
func (c *Config) RequireDrive() error {
	if c.DriveAgendasFolderID == "" {
		return &MissingKeyError{Key: "GOOGLE_DRIVE_AGENDAS_FOLDER_ID"}
	}
	if c.GoogleToken == "" {
		return &MissingKeyError{Key: "GOOGLE_OAUTH_TOKEN"}
	}
	return nil
}

// RequirePersona reports whether the reply persona is configured. The
// persona name anchors the signature check on generated drafts, so drafts
// cannot be produced without it.
func (c *Config) RequirePersona() error {
	if c.SenderName == "" {
		return &MissingKeyError{Key: "REPLY_SENDER_NAME"}
	}
	return nil
}

// RequireGraph reports whether Microsoft Graph mail access is configured.
func (c *Config) RequireGraph() error {
	if c.GraphUser == "" {
		return &MissingKeyError{Key: "OUTLOOK_USER"}
	}
	if c.GraphToken == "" {
		return &MissingKeyError{Key: "OUTLOOK_ACCESS_TOKEN"}
	}
	return nil
}

func getenvDefault(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

// parsePersonMap parses "Name:id,Other Name:id2" into a lookup table keyed by
// lower-cased name. Malformed pairs are skipped.
func parsePersonMap(raw string) map[string]string {
	m := make(map[string]string)
	if raw == "" {
		return m
	}
	for _, pair := range strings.Split(raw, ",") {
		name, id, ok := strings.Cut(pair, ":")
		if !ok {
			continue
		}
		name = strings.ToLower(strings.TrimSpace(name))
		id = strings.TrimSpace(id)
		if name != "" && id != "" {
			m[name] = id
		}
	}
	return m
}
