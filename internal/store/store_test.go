package store

import (
	"errors"
	"testing"

	"github.com/mzrithm/zenview/internal/ticket"
)

// fixture mirrors a small helpdesk account: three tickets sharing one tag.
func fixture() []ticket.Ticket {
	return []ticket.Ticket{
		{
			ID:          10,
			Subject:     "z is for zen",
			Description: "Discover the art of customer service maintenance.",
			Tags:        []string{"a", "giraffe", "rhino"},
		},
		{
			ID:          11,
			Subject:     "a is for apple",
			Description: "Watch this fruit fall to discover the laws of gravity.",
			Tags:        []string{"b", "giraffe", "hippo"},
		},
		{
			ID:          12,
			Subject:     "m is for michelle",
			Description: "Stellar student looking for an internship.",
			Tags:        []string{"c", "giraffe", "gazelle"},
		},
	}
}

func TestLoadAndGet(t *testing.T) {
	st := New()
	st.Load(fixture())

	t.Run("RoundTrip", func(t *testing.T) {
		for _, want := range fixture() {
			got, ok := st.Get(want.ID)
			if !ok {
				t.Fatalf("ticket %d not found after Load", want.ID)
			}
			if got.Subject != want.Subject {
				t.Errorf("ticket %d subject = %q, want %q", want.ID, got.Subject, want.Subject)
			}
		}
	})

	t.Run("MissIsNotAnError", func(t *testing.T) {
		if _, ok := st.Get(999); ok {
			t.Error("expected miss for unknown ID")
		}
	})

	t.Run("RefreshReplacesContents", func(t *testing.T) {
		st := New()
		st.Load(fixture())
		st.Load([]ticket.Ticket{{ID: 3, Subject: "only survivor"}})

		if _, ok := st.Get(10); ok {
			t.Error("expected ticket 10 gone after refresh")
		}
		if got := st.Len(); got != 1 {
			t.Errorf("Len = %d after refresh, want 1", got)
		}
	})

	t.Run("DuplicateIDsKeepFirst", func(t *testing.T) {
		st := New()
		st.Load([]ticket.Ticket{
			{ID: 1, Subject: "first"},
			{ID: 1, Subject: "second"},
		})

		got, _ := st.Get(1)
		if got.Subject != "first" {
			t.Errorf("expected first occurrence to win, got %q", got.Subject)
		}
		if st.Len() != 1 {
			t.Errorf("Len = %d, want 1", st.Len())
		}
	})
}

func TestPagination(t *testing.T) {
	var tickets []ticket.Ticket
	for i := int64(1); i <= 7; i++ {
		tickets = append(tickets, ticket.Ticket{ID: i})
	}

	st := New()
	st.Load(tickets)
	if err := st.SetPageSize(3); err != nil {
		t.Fatalf("SetPageSize failed: %v", err)
	}

	t.Run("PagesReproduceTheSetOnce", func(t *testing.T) {
		seen := make(map[int64]int)
		total := 0
		for page := 1; ; page++ {
			batch := st.Page(page)
			if len(batch) == 0 {
				break
			}
			for _, tk := range batch {
				seen[tk.ID]++
				total++
			}
		}

		if total != len(tickets) {
			t.Fatalf("pages yielded %d tickets, want %d", total, len(tickets))
		}
		for id, n := range seen {
			if n != 1 {
				t.Errorf("ticket %d appeared %d times across pages", id, n)
			}
		}
	})

	t.Run("InsertionOrderIsStable", func(t *testing.T) {
		page := st.Page(2)
		if len(page) != 3 || page[0].ID != 4 || page[2].ID != 6 {
			t.Errorf("page 2 = %v, want IDs 4..6 in order", page)
		}
	})

	t.Run("PastTheEndIsEmpty", func(t *testing.T) {
		if got := st.Page(4); len(got) != 0 {
			t.Errorf("expected empty page past the data, got %d tickets", len(got))
		}
	})

	t.Run("PageZeroIsEmpty", func(t *testing.T) {
		if got := st.Page(0); len(got) != 0 {
			t.Errorf("expected empty result for page 0, got %d tickets", len(got))
		}
	})

	t.Run("PagesCount", func(t *testing.T) {
		if got := st.Pages(7); got != 3 {
			t.Errorf("Pages(7) = %d with size 3, want 3", got)
		}
		if got := st.Pages(0); got != 0 {
			t.Errorf("Pages(0) = %d, want 0", got)
		}
	})
}

func TestSetPageSize(t *testing.T) {
	st := New()
	st.Load(fixture())

	if st.PageSize() != DefaultPageSize {
		t.Fatalf("default page size = %d, want %d", st.PageSize(), DefaultPageSize)
	}

	for _, bad := range []int{0, -5} {
		if err := st.SetPageSize(bad); !errors.Is(err, ErrInvalidPageSize) {
			t.Errorf("SetPageSize(%d) = %v, want ErrInvalidPageSize", bad, err)
		}
	}

	// Store is untouched after rejected updates.
	if st.PageSize() != DefaultPageSize {
		t.Errorf("page size changed to %d after rejected updates", st.PageSize())
	}
	if st.Len() != 3 {
		t.Errorf("Len = %d after rejected updates, want 3", st.Len())
	}

	if err := st.SetPageSize(10); err != nil {
		t.Fatalf("SetPageSize(10) failed: %v", err)
	}
	if st.PageSize() != 10 {
		t.Errorf("page size = %d, want 10", st.PageSize())
	}
}

func TestSearch(t *testing.T) {
	st := New()
	st.Load([]ticket.Ticket{
		{ID: 1, Subject: "Login issue", Tags: []string{"auth"}},
		{ID: 2, Subject: "Billing question", Tags: []string{"billing"}},
	})

	t.Run("SubjectCaseInsensitive", func(t *testing.T) {
		hits, err := st.SearchSubject("login", 1)
		if err != nil {
			t.Fatalf("SearchSubject failed: %v", err)
		}
		if len(hits) != 1 || hits[0].ID != 1 {
			t.Fatalf("SearchSubject(login) = %v, want just ticket 1", hits)
		}
	})

	t.Run("Description", func(t *testing.T) {
		st := New()
		st.Load(fixture())

		hits, err := st.SearchDescription("STELLAR", 1)
		if err != nil {
			t.Fatalf("SearchDescription failed: %v", err)
		}
		if len(hits) != 1 || hits[0].Subject != "m is for michelle" {
			t.Fatalf("SearchDescription(STELLAR) = %v, want the michelle ticket", hits)
		}
	})

	t.Run("TagExactMatch", func(t *testing.T) {
		st := New()
		st.Load(fixture())

		hits, err := st.SearchTag("hippo", 1)
		if err != nil {
			t.Fatalf("SearchTag failed: %v", err)
		}
		if len(hits) != 1 || hits[0].ID != 11 {
			t.Fatalf("SearchTag(hippo) = %v, want just ticket 11", hits)
		}

		// No substring matching on tags.
		if hits, _ := st.SearchTag("gir", 1); len(hits) != 0 {
			t.Errorf("SearchTag(gir) matched %d tickets, want 0", len(hits))
		}
	})

	t.Run("TagCompleteAcrossPages", func(t *testing.T) {
		var tickets []ticket.Ticket
		for i := int64(1); i <= 5; i++ {
			tickets = append(tickets, ticket.Ticket{ID: i, Tags: []string{"wanted"}})
		}
		tickets = append(tickets, ticket.Ticket{ID: 6, Tags: []string{"other"}})

		st := New()
		st.Load(tickets)
		st.SetPageSize(2)

		seen := make(map[int64]bool)
		for page := 1; ; page++ {
			batch, err := st.SearchTag("wanted", page)
			if err != nil {
				t.Fatalf("SearchTag failed: %v", err)
			}
			if len(batch) == 0 {
				break
			}
			for _, tk := range batch {
				if tk.ID == 6 {
					t.Fatal("ticket without the tag leaked into results")
				}
				seen[tk.ID] = true
			}
		}

		if len(seen) != 5 {
			t.Errorf("found %d tagged tickets across pages, want 5", len(seen))
		}
	})

	t.Run("EmptyTermRejected", func(t *testing.T) {
		for _, term := range []string{"", "   "} {
			if _, err := st.SearchSubject(term, 1); !errors.Is(err, ErrEmptyQuery) {
				t.Errorf("SearchSubject(%q) = %v, want ErrEmptyQuery", term, err)
			}
		}
	})

	t.Run("NoHitsIsEmptyNotError", func(t *testing.T) {
		hits, err := st.SearchSubject("nonexistent", 1)
		if err != nil {
			t.Fatalf("SearchSubject failed: %v", err)
		}
		if len(hits) != 0 {
			t.Errorf("expected no hits, got %d", len(hits))
		}
	})
}

func TestTags(t *testing.T) {
	t.Run("CountsAcrossTickets", func(t *testing.T) {
		st := New()
		st.Load(fixture())

		want := map[string]int{"a": 1, "b": 1, "c": 1, "gazelle": 1, "giraffe": 3, "hippo": 1, "rhino": 1}
		got := st.Tags()

		if len(got) != len(want) {
			t.Fatalf("Tags returned %d tags, want %d", len(got), len(want))
		}
		for tag, n := range want {
			if got[tag] != n {
				t.Errorf("Tags[%q] = %d, want %d", tag, got[tag], n)
			}
		}
	})

	t.Run("EmptyStore", func(t *testing.T) {
		st := New()
		if got := st.Tags(); len(got) != 0 {
			t.Errorf("expected no tags on empty store, got %v", got)
		}
	})
}

func TestMatch(t *testing.T) {
	st := New()
	st.Load(fixture())

	hits := st.Match(func(tk ticket.Ticket) bool { return tk.ID > 10 })
	if len(hits) != 2 || hits[0].ID != 11 || hits[1].ID != 12 {
		t.Errorf("Match = %v, want tickets 11 and 12 in order", hits)
	}
}


