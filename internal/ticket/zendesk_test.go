package ticket

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
)

func testServer(t *testing.T, handler http.HandlerFunc) (*httptest.Server, *ZendeskClient) {
	t.Helper()

	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)

	client := NewZendeskClient("example", "agent@example.com", "", "secret-token")
	client.baseURL = srv.URL
	return srv, client
}

func TestFetchTickets(t *testing.T) {
	t.Run("FollowsPagination", func(t *testing.T) {
		var srv *httptest.Server
		srv, client := testServer(t, func(w http.ResponseWriter, r *http.Request) {
			page := ticketsPage{
				Tickets: []zendeskTicket{
					{ID: 1, Subject: "z is for zen", Tags: []string{"a", "giraffe"}},
					{ID: 2, Subject: "a is for apple", Tags: []string{"b", "hippo"}},
				},
			}
			if r.URL.Query().Get("page") == "" {
				page.NextPage = srv.URL + "/api/v2/tickets.json?page=2"
			} else {
				page.Tickets = []zendeskTicket{{ID: 3, Subject: "m is for michelle"}}
			}
			json.NewEncoder(w).Encode(page)
		})

		tickets, err := client.FetchTickets(context.Background())
		if err != nil {
			t.Fatalf("FetchTickets failed: %v", err)
		}

		if len(tickets) != 3 {
			t.Fatalf("expected 3 tickets across pages, got %d", len(tickets))
		}
		if tickets[2].ID != 3 {
			t.Errorf("expected last ticket ID 3, got %d", tickets[2].ID)
		}
		if tickets[0].FetchedAt.IsZero() {
			t.Error("expected FetchedAt to be stamped on fetched tickets")
		}
		if tickets[0].FetchedAt != tickets[2].FetchedAt {
			t.Error("expected the same FetchedAt across one fetch")
		}
	})

	t.Run("SendsTokenAuth", func(t *testing.T) {
		_, client := testServer(t, func(w http.ResponseWriter, r *http.Request) {
			user, pass, ok := r.BasicAuth()
			if !ok || user != "agent@example.com/token" || pass != "secret-token" {
				w.WriteHeader(http.StatusUnauthorized)
				return
			}
			json.NewEncoder(w).Encode(ticketsPage{})
		})

		if _, err := client.FetchTickets(context.Background()); err != nil {
			t.Fatalf("expected token auth to be accepted, got %v", err)
		}
	})

	t.Run("AuthFailureIsFetchError", func(t *testing.T) {
		_, client := testServer(t, func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusUnauthorized)
		})

		_, err := client.FetchTickets(context.Background())
		if err == nil {
			t.Fatal("expected error for 401 response")
		}
		var fe *FetchError
		if !errors.As(err, &fe) {
			t.Fatalf("expected *FetchError, got %T", err)
		}
		if fe.System != "Zendesk" {
			t.Errorf("expected System Zendesk, got %q", fe.System)
		}
	})

	t.Run("ServerErrorIsFetchError", func(t *testing.T) {
		_, client := testServer(t, func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusInternalServerError)
		})

		_, err := client.FetchTickets(context.Background())
		var fe *FetchError
		if !errors.As(err, &fe) {
			t.Fatalf("expected *FetchError, got %v", err)
		}
	})

	t.Run("MissingCredentials", func(t *testing.T) {
		client := NewZendeskClient("", "", "", "")
		_, err := client.FetchTickets(context.Background())
		var fe *FetchError
		if !errors.As(err, &fe) {
			t.Fatalf("expected *FetchError for missing credentials, got %v", err)
		}
	})
}

func TestFetchErrorUnwrap(t *testing.T) {
	cause := fmt.Errorf("connection refused")
	err := &FetchError{System: "Zendesk", Err: cause}

	if !errors.Is(err, cause) {
		t.Error("expected FetchError to unwrap to its cause")
	}
}


