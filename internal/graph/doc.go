// Package graph provides a Microsoft Graph client for Outlook mail.
//
// The client covers the mail operations the sync and reply pipelines need:
// fetching unread messages, fetching a single message, sending a plain
// message, and the three-step reply flow (create a reply draft, replace its
// body with HTML, send it). Authentication comes from an oauth2.TokenSource
// so tokens can be static, refreshed, or faked in tests.
//
// The package also carries the sender classifier that buckets incoming
// mail into categories and priorities, and a small HTML-to-text converter
// for turning mail bodies into readable summaries.
package graph
