package ticket

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"time"
)

// ZendeskClient implements Client against the Zendesk v2 REST API.
// It authenticates with either email/password or email/api-token basic auth
// and walks the next_page links until every ticket has been retrieved.
type ZendeskClient struct {
	subdomain string
	email     string
	password  string
	apiToken  string
	baseURL   string
	http      *http.Client
}

// NewZendeskClient creates a client for the given account. Either password
// or apiToken must be set; when both are present the token wins.
func NewZendeskClient(subdomain, email, password, apiToken string) *ZendeskClient {
	return &ZendeskClient{
		subdomain: subdomain,
		email:     email,
		password:  password,
		apiToken:  apiToken,
		baseURL:   fmt.Sprintf("https://%s.zendesk.com", subdomain),
		http:      &http.Client{Timeout: 30 * time.Second},
	}
}

// Name returns "Zendesk".
func (c *ZendeskClient) Name() string {
	return "Zendesk"
}

// zendeskTicket is the wire shape of a ticket in the v2 API.
type zendeskTicket struct {
	ID          int64     `json:"id"`
	Subject     string    `json:"subject"`
	Description string    `json:"description"`
	Tags        []string  `json:"tags"`
	RequesterID int64     `json:"requester_id"`
	AssigneeID  int64     `json:"assignee_id"`
	Status      string    `json:"status"`
	Priority    string    `json:"priority"`
	URL         string    `json:"url"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// ticketsPage is one page of GET /api/v2/tickets.json. NextPage is a full
// URL or empty on the last page.
type ticketsPage struct {
	Tickets  []zendeskTicket `json:"tickets"`
	NextPage string          `json:"next_page"`
}

func (zt zendeskTicket) toTicket(fetchedAt time.Time) Ticket {
	return Ticket{
		ID:          zt.ID,
		Subject:     zt.Subject,
		Description: zt.Description,
		Tags:        zt.Tags,
		RequesterID: zt.RequesterID,
		AssigneeID:  zt.AssigneeID,
		Status:      zt.Status,
		Priority:    zt.Priority,
		URL:         zt.URL,
		CreatedAt:   zt.CreatedAt,
		UpdatedAt:   zt.UpdatedAt,
		FetchedAt:   fetchedAt,
	}
}

// FetchTickets retrieves all tickets on the account, following pagination
// links. Every ticket is stamped with the same FetchedAt time.
func (c *ZendeskClient) FetchTickets(ctx context.Context) ([]Ticket, error) {
	if c.subdomain == "" || c.email == "" {
		return nil, &FetchError{System: c.Name(), Err: errors.New("subdomain and email must be configured")}
	}
	if c.password == "" && c.apiToken == "" {
		return nil, &FetchError{System: c.Name(), Err: errors.New("either password or api_token must be configured")}
	}

	fetchedAt := time.Now()
	url := c.baseURL + "/api/v2/tickets.json"

	var out []Ticket
	for url != "" {
		page, err := c.getPage(ctx, url)
		if err != nil {
			return nil, &FetchError{System: c.Name(), Err: err}
		}
		for _, zt := range page.Tickets {
			out = append(out, zt.toTicket(fetchedAt))
		}
		url = page.NextPage
	}
	return out, nil
}

func (c *ZendeskClient) getPage(ctx context.Context, url string) (*ticketsPage, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, err
	}

	// Zendesk token auth uses "email/token" as the basic-auth username.
	if c.apiToken != "" {
		req.SetBasicAuth(c.email+"/token", c.apiToken)
	} else {
		req.SetBasicAuth(c.email, c.password)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusUnauthorized || resp.StatusCode == http.StatusForbidden {
		return nil, fmt.Errorf("authentication rejected (HTTP %d): check credentials and that password access is enabled on the account", resp.StatusCode)
	}
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("unexpected status %d from %s", resp.StatusCode, url)
	}

	var page ticketsPage
	if err := json.NewDecoder(resp.Body).Decode(&page); err != nil {
		return nil, fmt.Errorf("decode tickets page: %w", err)
	}
	return &page, nil
}


