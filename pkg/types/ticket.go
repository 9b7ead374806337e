package types

import (
	"time"
)

// TicketSummary holds the fields of a Jira issue that are surfaced in
// editor context payloads.
type TicketSummary struct {
	Key         string    `json:"key"`
	Summary     string    `json:"summary"`
	Description string    `json:"description,omitempty"`
	Status      string    `json:"status,omitempty"`
	Priority    string    `json:"priority,omitempty"`
	Assignee    string    `json:"assignee,omitempty"`
	IssueType   string    `json:"issue_type,omitempty"`
	Labels      []string  `json:"labels,omitempty"`
	URL         string    `json:"url,omitempty"`
	FetchedAt   time.Time `json:"fetched_at"`
}
