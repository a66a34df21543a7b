package project

import (
	"time"

	"github.com/shopspring/decimal"
)

// ChangeType enum
type ChangeType string

const (
	ChangeTypeCreated       ChangeType = "CREATED"
	ChangeTypeUpdated       ChangeType = "UPDATED"
	ChangeTypeStatusChanged ChangeType = "STATUS_CHANGED"
	ChangeTypeTeamChanged   ChangeType = "TEAM_CHANGED"
	ChangeTypeClosed        ChangeType = "CLOSED"
	ChangeTypeReopened      ChangeType = "REOPENED"
)

// Change is a single field diff. Values are JSON-serializable.
type Change struct {
	Field       string      `json:"field"`
	OldValue    interface{} `json:"old_value"`
	NewValue    interface{} `json:"new_value"`
	Description string      `json:"description,omitempty"`
}

// Snapshot is the post-mutation state captured with every history entry.
type Snapshot struct {
	Name        string          `json:"name"`
	Status      Status          `json:"status"`
	TotalAmount decimal.Decimal `json:"total_amount"`
	Team        Team            `json:"team"`
}

func NewSnapshot(p Project) Snapshot {
	return Snapshot{
		Name:        p.Name,
		Status:      p.Status,
		TotalAmount: p.TotalAmount,
		Team:        p.Team,
	}
}

// Actor identifies who made a change.
type Actor struct {
	UserID string `json:"id"`
	Email  string `json:"email"`
}

// HistoryEntry is an append-only audit record. Sequence starts at 1 with the
// CREATED entry and increases by one per accepted mutation.
type HistoryEntry struct {
	ID         string
	ProjectID  string
	Sequence   int64
	ChangeType ChangeType
	Changes    []Change
	Snapshot   Snapshot
	ChangedBy  Actor
	Notes      *string
	CreatedAt  time.Time
}
