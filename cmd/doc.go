// Package cmd implements the command-line interface for agendasync.
//
// This package provides the following commands:
//   - extract: Extract action items from local .docx agendas and sync them
//   - drive: Walk a Google Drive agendas folder tree and extract from its documents
//   - sync: Pull unread Outlook mail into Notion and the dashboard feed
//   - draft: Generate LLM reply drafts for pages with a reply instruction
//   - revise: Regenerate drafts the reviewer sent back with notes
//   - send: Send approved drafts as replies via Microsoft Graph
//   - version: Display version information
//
// The extract command is the default command when no subcommand is specified.
package cmd
