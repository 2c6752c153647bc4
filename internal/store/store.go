// Package store holds fetched tickets in memory and answers filtered,
// paginated queries over them.
package store

import (
	"errors"
	"strings"
	"sync"

	"github.com/mzrithm/zenview/internal/ticket"
)

// DefaultPageSize is the number of tickets shown per page unless overridden.
const DefaultPageSize = 25

var (
	// ErrInvalidPageSize is returned when a non-positive page size is requested.
	ErrInvalidPageSize = errors.New("page size must be a positive integer")

	// ErrEmptyQuery is returned when a search term is empty or all whitespace.
	ErrEmptyQuery = errors.New("search term must not be empty")
)

// TicketStore owns a snapshot of tickets keyed by ID. Load replaces the
// snapshot wholesale; between loads the contents are immutable. Queries
// return tickets in the insertion order of the last Load.
type TicketStore struct {
	mu       sync.RWMutex
	byID     map[int64]ticket.Ticket
	order    []int64
	pageSize int
}

// New creates an empty TicketStore with the default page size.
func New() *TicketStore {
	return &TicketStore{
		byID:     make(map[int64]ticket.Ticket),
		pageSize: DefaultPageSize,
	}
}

// Load replaces the entire snapshot with the given tickets. Duplicate IDs
// keep the first occurrence so keys stay unique.
func (s *TicketStore) Load(tickets []ticket.Ticket) {
	byID := make(map[int64]ticket.Ticket, len(tickets))
	order := make([]int64, 0, len(tickets))
	for _, t := range tickets {
		if _, dup := byID[t.ID]; dup {
			continue
		}
		byID[t.ID] = t
		order = append(order, t.ID)
	}

	s.mu.Lock()
	s.byID = byID
	s.order = order
	s.mu.Unlock()
}

// Get returns the ticket with the given ID. A miss is reported via the
// boolean, not an error.
func (s *TicketStore) Get(id int64) (ticket.Ticket, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	t, ok := s.byID[id]
	return t, ok
}

// Len returns the number of stored tickets.
func (s *TicketStore) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.order)
}

// PageSize returns the current page size.
func (s *TicketStore) PageSize() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.pageSize
}

// SetPageSize updates the page size. Non-positive values are rejected with
// ErrInvalidPageSize and leave the store untouched.
func (s *TicketStore) SetPageSize(n int) error {
	if n <= 0 {
		return ErrInvalidPageSize
	}

	s.mu.Lock()
	s.pageSize = n
	s.mu.Unlock()
	return nil
}

// Pages returns how many pages a result of the given size spans.
func (s *TicketStore) Pages(total int) int {
	size := s.PageSize()
	if total <= 0 {
		return 0
	}
	return (total + size - 1) / size
}

// Page returns the nth page (1-indexed) of all tickets in insertion order.
// Pages past the end of the data are empty.
func (s *TicketStore) Page(n int) []ticket.Ticket {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return paginate(s.all(), n, s.pageSize)
}

// SearchSubject returns the nth page of tickets whose subject contains term,
// case-insensitively.
func (s *TicketStore) SearchSubject(term string, page int) ([]ticket.Ticket, error) {
	return s.search(term, page, func(t ticket.Ticket, needle string) bool {
		return strings.Contains(strings.ToLower(t.Subject), needle)
	})
}

// SearchDescription returns the nth page of tickets whose description
// contains term, case-insensitively.
func (s *TicketStore) SearchDescription(term string, page int) ([]ticket.Ticket, error) {
	return s.search(term, page, func(t ticket.Ticket, needle string) bool {
		return strings.Contains(strings.ToLower(t.Description), needle)
	})
}

// SearchTag returns the nth page of tickets carrying the exact tag.
func (s *TicketStore) SearchTag(tag string, page int) ([]ticket.Ticket, error) {
	return s.search(tag, page, func(t ticket.Ticket, needle string) bool {
		for _, tg := range t.Tags {
			if tg == needle {
				return true
			}
		}
		return false
	})
}

// Match returns every ticket satisfying pred, in insertion order. It backs
// the interactive browser's live filtering.
func (s *TicketStore) Match(pred func(ticket.Ticket) bool) []ticket.Ticket {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var out []ticket.Ticket
	for _, id := range s.order {
		if t := s.byID[id]; pred(t) {
			out = append(out, t)
		}
	}
	return out
}

// Tags returns the union of all tags across stored tickets with a count of
// how many times each tag is used.
func (s *TicketStore) Tags() map[string]int {
	s.mu.RLock()
	defer s.mu.RUnlock()

	counts := make(map[string]int)
	for _, id := range s.order {
		for _, tag := range s.byID[id].Tags {
			counts[tag]++
		}
	}
	return counts
}

func (s *TicketStore) search(term string, page int, match func(ticket.Ticket, string) bool) ([]ticket.Ticket, error) {
	needle := strings.ToLower(strings.TrimSpace(term))
	if needle == "" {
		return nil, ErrEmptyQuery
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	var hits []ticket.Ticket
	for _, id := range s.order {
		if t := s.byID[id]; match(t, needle) {
			hits = append(hits, t)
		}
	}
	return paginate(hits, page, s.pageSize), nil
}

// all must be called with the lock held.
func (s *TicketStore) all() []ticket.Ticket {
	out := make([]ticket.Ticket, 0, len(s.order))
	for _, id := range s.order {
		out = append(out, s.byID[id])
	}
	return out
}

func paginate(tickets []ticket.Ticket, page, size int) []ticket.Ticket {
	if page < 1 {
		return nil
	}
	start := (page - 1) * size
	if start >= len(tickets) {
		return nil
	}
	end := start + size
	if end > len(tickets) {
		end = len(tickets)
	}
	return tickets[start:end]
}


