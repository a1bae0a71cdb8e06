// Package notion syncs action items and email records into Notion databases.
package notion

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/jomei/notionapi"

	"github.com/designdesk/agendasync/internal/agenda"
)

// Action item database property names. Change these if the target database
// schema differs.
const (
	PropName           = "Name"
	PropStatus         = "Status"
	PropDue            = "Due"
	PropDueRaw         = "Due (raw)"
	PropAssignee       = "Assignee"
	PropContext        = "Context"
	PropSourceDoc      = "Source Document"
	PropParagraphIndex = "Paragraph Index"
	PropExternalID     = "External ID"
)

// Select values for the Status property.
const (
	statusSelectDone    = "Done"
	statusSelectDefault = "To do"
)

// UpsertError reports a create or update the destination store rejected.
type UpsertError struct {
	ExternalID string
	Err        error
}

func (e *UpsertError) Error() string {
	return fmt.Sprintf("upsert of item %s failed: %v", e.ExternalID, e.Err)
}

func (e *UpsertError) Unwrap() error { return e.Err }

// Store upserts action items into a Notion database keyed by the External ID
// rich text property.
type Store struct {
	client     *notionapi.Client
	databaseID notionapi.DatabaseID
	// people maps lower-cased owner names to Notion user IDs.
	people map[string]string
	logger *slog.Logger
}

// NewStore creates an action item store for the given database.
func NewStore(apiKey, databaseID string, people map[string]string, logger *slog.Logger) *Store {
	if logger == nil {
		logger = slog.Default()
	}
	return &Store{
		client:     notionapi.NewClient(notionapi.Token(apiKey)),
		databaseID: notionapi.DatabaseID(databaseID),
		people:     people,
		logger:     logger,
	}
}

// Upsert creates or updates the page for the item, keyed by its external ID.
// The update path overwrites the synced property set wholesale; manual edits
// to those properties are clobbered on re-sync.
func (s *Store) Upsert(ctx context.Context, item agenda.ActionItem, sourceDoc string) (string, bool, error) {
	externalID := agenda.ItemExternalID(item, sourceDoc)

	existing, err := s.findByExternalID(ctx, externalID)
	if err != nil {
		return "", false, &UpsertError{ExternalID: externalID, Err: err}
	}

	props := s.buildProperties(item, sourceDoc, externalID)

	if existing != "" {
		_, err := s.client.Page.Update(ctx, notionapi.PageID(existing), &notionapi.PageUpdateRequest{
			Properties: props,
		})
		if err != nil {
			return "", false, &UpsertError{ExternalID: externalID, Err: err}
		}
		return existing, false, nil
	}

	page, err := s.client.Page.Create(ctx, &notionapi.PageCreateRequest{
		Parent: notionapi.Parent{
			Type:       notionapi.ParentTypeDatabaseID,
			DatabaseID: s.databaseID,
		},
		Properties: props,
	})
	if err != nil {
		return "", false, &UpsertError{ExternalID: externalID, Err: err}
	}
	return string(page.ID), true, nil
}

// findByExternalID returns the page ID holding the external ID, or empty.
func (s *Store) findByExternalID(ctx context.Context, externalID string) (string, error) {
	resp, err := s.client.Database.Query(ctx, s.databaseID, &notionapi.DatabaseQueryRequest{
		Filter: notionapi.PropertyFilter{
			Property: PropExternalID,
			RichText: &notionapi.TextFilterCondition{Equals: externalID},
		},
		PageSize: 1,
	})
	if err != nil {
		return "", fmt.Errorf("failed to query by external id: %w", err)
	}
	if len(resp.Results) == 0 {
		return "", nil
	}
	return string(resp.Results[0].ID), nil
}

// buildProperties denormalizes the item into the database's typed fields.
func (s *Store) buildProperties(item agenda.ActionItem, sourceDoc, externalID string) notionapi.Properties {
	name := item.Text
	if name == "" {
		name = "Action item"
	}

	statusName := statusSelectDefault
	if item.Status == agenda.StatusDone {
		statusName = statusSelectDone
	}

	context := ""
	if item.Context != nil {
		context = *item.Context
	}

	props := notionapi.Properties{
		PropName: &notionapi.TitleProperty{
			Title: richText(name),
		},
		PropStatus: &notionapi.SelectProperty{
			Select: notionapi.Option{Name: statusName},
		},
		PropContext: &notionapi.RichTextProperty{
			RichText: richText(context),
		},
		PropSourceDoc: &notionapi.RichTextProperty{
			RichText: richText(sourceDoc),
		},
		PropExternalID: &notionapi.RichTextProperty{
			RichText: richText(externalID),
		},
	}

	if item.ParagraphIndex != nil {
		props[PropParagraphIndex] = &notionapi.NumberProperty{
			Number: float64(*item.ParagraphIndex),
		}
	}

	if item.DueDate != nil && *item.DueDate != "" {
		if due, ok := parseDueDate(*item.DueDate); ok {
			d := notionapi.Date(due)
			props[PropDue] = &notionapi.DateProperty{
				Date: &notionapi.DateObject{Start: &d},
			}
		} else {
			// The database's Due property is typed as a date, so an unparseable
			// value is kept in a companion rich text field instead of dropped.
			props[PropDueRaw] = &notionapi.RichTextProperty{
				RichText: richText(*item.DueDate),
			}
		}
	}

	if userID, ok := s.mapOwner(item.Owner); ok {
		props[PropAssignee] = &notionapi.PeopleProperty{
			People: []notionapi.User{{ID: notionapi.UserID(userID)}},
		}
	}

	return props
}

// mapOwner resolves a free-text owner name to a Notion user ID. Unmapped
// owners leave the assignee unset entirely.
func (s *Store) mapOwner(owner *string) (string, bool) {
	if owner == nil {
		return "", false
	}
	id, ok := s.people[strings.ToLower(strings.TrimSpace(*owner))]
	return id, ok
}

func richText(content string) []notionapi.RichText {
	return []notionapi.RichText{
		{Text: &notionapi.Text{Content: content}},
	}
}
