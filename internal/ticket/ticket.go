// Package ticket provides the ticket model and clients for helpdesk APIs.
package ticket

import (
	"context"
	"fmt"
	"time"
)

// Ticket represents a single support request.
type Ticket struct {
	ID          int64     // Unique ticket identifier
	Subject     string    // Short title/summary
	Description string    // Full description (may be markdown)
	Tags        []string  // Short text labels
	RequesterID int64     // Account that opened the ticket
	AssigneeID  int64     // Account the ticket is assigned to
	Status      string    // e.g., "open", "pending", "solved"
	Priority    string    // e.g., "normal", "urgent"
	URL         string    // API link to the ticket
	CreatedAt   time.Time
	UpdatedAt   time.Time

	// FetchedAt records when this ticket was pulled from the API, so the
	// viewer can show how stale local data is.
	FetchedAt time.Time
}

// Client defines the interface for fetching tickets.
type Client interface {
	// FetchTickets retrieves every ticket visible to the account.
	FetchTickets(ctx context.Context) ([]Ticket, error)

	// Name returns the name of the helpdesk system (e.g., "Zendesk").
	Name() string
}

// FetchError wraps any failure to retrieve tickets from the upstream API.
// Auth failures, network failures, and malformed responses all surface as
// a FetchError; the viewer never retries.
type FetchError struct {
	System string
	Err    error
}

func (e *FetchError) Error() string {
	return fmt.Sprintf("%s fetch failed: %v", e.System, e.Err)
}

func (e *FetchError) Unwrap() error {
	return e.Err
}


