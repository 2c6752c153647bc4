package main

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/mzrithm/zenview/internal/cache"
	"github.com/mzrithm/zenview/internal/config"
	"github.com/mzrithm/zenview/internal/logging"
	"github.com/mzrithm/zenview/internal/store"
	"github.com/mzrithm/zenview/internal/ticket"
	"github.com/mzrithm/zenview/internal/tui/browser"
)

type searchField int

const (
	fieldSubject searchField = iota
	fieldDescription
	fieldTag
)

func newClient(zc config.ZendeskConfig) ticket.Client {
	return ticket.NewZendeskClient(zc.Subdomain, zc.Email, zc.Password, zc.APIToken)
}

// loadTickets returns the working ticket set: the cached snapshot when it is
// fresh enough (or --offline), otherwise a live fetch that replaces the cache.
func loadTickets(ctx context.Context) ([]ticket.Ticket, time.Time, error) {
	c, err := cache.New(cfg.Viewer.CacheDB)
	if err != nil {
		return nil, time.Time{}, fmt.Errorf("open cache: %w", err)
	}
	defer c.Close()

	tickets, takenAt, err := c.Load()
	if err != nil && !errors.Is(err, cache.ErrNoSnapshot) {
		return nil, time.Time{}, fmt.Errorf("read cache: %w", err)
	}
	haveSnapshot := err == nil

	if flagOffline {
		if !haveSnapshot {
			return nil, time.Time{}, errors.New("no cached tickets; run 'zenview sync' first")
		}
		return tickets, takenAt, nil
	}

	maxAge := cfg.Viewer.CacheMaxAge.Std()
	if haveSnapshot && maxAge > 0 && time.Since(takenAt) < maxAge {
		logging.Debug("serving tickets from cache", "taken_at", takenAt, "count", len(tickets))
		return tickets, takenAt, nil
	}

	return fetchAndCache(ctx, c)
}

func fetchAndCache(ctx context.Context, c *cache.Cache) ([]ticket.Ticket, time.Time, error) {
	client := newClient(cfg.Zendesk)

	logging.Info("fetching tickets", "system", client.Name())
	tickets, err := client.FetchTickets(ctx)
	if err != nil {
		logging.Error("ticket fetch failed", "error", err)
		return nil, time.Time{}, err
	}

	if err := c.Save(tickets); err != nil {
		// A failed cache write should not hide a successful fetch.
		logging.Warn("failed to cache tickets", "error", err)
	} else if err := c.Prune(3); err != nil {
		logging.Warn("failed to prune cache", "error", err)
	}

	return tickets, time.Now(), nil
}

// openStore loads tickets into a fresh TicketStore with the effective page size.
func openStore(ctx context.Context) (*store.TicketStore, time.Time, error) {
	tickets, fetchedAt, err := loadTickets(ctx)
	if err != nil {
		return nil, time.Time{}, err
	}

	st := store.New()
	if flagPageSize != 0 {
		if err := st.SetPageSize(flagPageSize); err != nil {
			return nil, time.Time{}, fmt.Errorf("--page-size %d: %w", flagPageSize, err)
		}
	} else if cfg.Viewer.PageSize != 0 {
		if err := st.SetPageSize(cfg.Viewer.PageSize); err != nil {
			return nil, time.Time{}, fmt.Errorf("config page_size %d: %w", cfg.Viewer.PageSize, err)
		}
	}

	st.Load(tickets)
	return st, fetchedAt, nil
}

func runSync() error {
	c, err := cache.New(cfg.Viewer.CacheDB)
	if err != nil {
		return fmt.Errorf("open cache: %w", err)
	}
	defer c.Close()

	tickets, _, err := fetchAndCache(context.Background(), c)
	if err != nil {
		return err
	}

	printSuccess(fmt.Sprintf("Synced %d tickets from Zendesk", len(tickets)))
	return nil
}

func runList(page int) error {
	st, fetchedAt, err := openStore(context.Background())
	if err != nil {
		return err
	}

	batch := st.Page(page)
	printTicketTable(batch)
	printPageFooter(page, st.Pages(st.Len()), st.Len(), fetchedAt)
	return nil
}

func runGet(id int64) error {
	st, _, err := openStore(context.Background())
	if err != nil {
		return err
	}

	t, ok := st.Get(id)
	if !ok {
		return fmt.Errorf("ticket #%d cannot be found", id)
	}

	printTicketDetail(t)
	return nil
}

func runSearch(field searchField, term string, page int) error {
	st, fetchedAt, err := openStore(context.Background())
	if err != nil {
		return err
	}

	var batch []ticket.Ticket
	var total int
	switch field {
	case fieldSubject:
		batch, err = st.SearchSubject(term, page)
		total = len(st.Match(func(t ticket.Ticket) bool { return containsFold(t.Subject, term) }))
	case fieldDescription:
		batch, err = st.SearchDescription(term, page)
		total = len(st.Match(func(t ticket.Ticket) bool { return containsFold(t.Description, term) }))
	case fieldTag:
		batch, err = st.SearchTag(term, page)
		total = len(st.Match(func(t ticket.Ticket) bool { return hasTag(t, term) }))
	}
	if err != nil {
		return err
	}

	if total == 0 {
		fmt.Printf("No tickets match %q.\n", term)
		return nil
	}

	printTicketTable(batch)
	printPageFooter(page, st.Pages(total), total, fetchedAt)
	return nil
}

func runTags() error {
	st, _, err := openStore(context.Background())
	if err != nil {
		return err
	}

	counts := st.Tags()
	if len(counts) == 0 {
		fmt.Println("There are no tags associated with your tickets.")
		return nil
	}

	tags := make([]string, 0, len(counts))
	for tag := range counts {
		tags = append(tags, tag)
	}
	sort.Strings(tags)

	fmt.Printf("%d unique tags are applied to your tickets.\n\n", len(tags))
	printTagColumns(tags, counts)
	return nil
}

func runBrowse() error {
	st, fetchedAt, err := openStore(context.Background())
	if err != nil {
		return err
	}

	model := browser.New(st, newClient(cfg.Zendesk).Name(), fetchedAt)
	_, err = tea.NewProgram(model, tea.WithAltScreen()).Run()
	return err
}


