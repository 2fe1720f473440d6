package services

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
)

// compareFixture sets up a store holding one dei row for "demo" and a
// stub whose pat search answers with a single alternative item.
func compareFixture(t *testing.T, patResponse any) (*Comparer, *Store, *stubUpstream) {
	t.Helper()
	stub := newStubUpstream(t, map[string]any{
		"/mistral_activity_categories": map[string]any{
			"it": []any{map[string]any{"Main Category": "c", "Description": "q"}},
		},
		"/search_pat": patResponse,
	})

	store := NewStore()
	original := item("main", "A1", SourceDEI)
	original.Activity = "demo"
	store.OverwriteSourceItems("demo", SourceDEI, []PriceLineItem{original})

	return NewComparer(store, stub.client()), store, stub
}

func openSession(t *testing.T, c *Comparer, store *Store) *ComparisonSession {
	t.Helper()
	original := store.Record("demo").DEIItems[0]
	s, err := c.Open(context.Background(), original, 0, SourcePAT)
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	return s
}

func TestCompare_KeepBoth(t *testing.T) {
	c, store, _ := compareFixture(t, map[string]any{"results": []any{map[string]any{"code": "A2"}}})
	openSession(t, c, store)

	outcome, err := c.KeepBoth()
	if err != nil {
		t.Fatalf("keep both: %v", err)
	}
	if outcome != ResolutionKeepBoth {
		t.Errorf("outcome = %q", outcome)
	}

	rec := store.Record("demo")
	codes := map[string]bool{}
	for _, it := range append(rec.DEIItems, rec.PATItems...) {
		codes[it.Code] = true
	}
	if !codes["A1"] || !codes["A2"] {
		t.Errorf("want both A1 and A2 present, got dei=%v pat=%v", rec.DEIItems, rec.PATItems)
	}
	if c.Session() != nil {
		t.Error("session must close after resolution")
	}
}

func TestCompare_ReplaceWithNew(t *testing.T) {
	c, store, _ := compareFixture(t, map[string]any{"results": []any{map[string]any{"code": "A2"}}})
	openSession(t, c, store)

	if err := c.Select("new"); err != nil {
		t.Fatalf("select: %v", err)
	}
	outcome, err := c.Resolve()
	if err != nil {
		t.Fatalf("resolve: %v", err)
	}
	if outcome != ResolutionReplace {
		t.Errorf("outcome = %q", outcome)
	}

	rec := store.Record("demo")
	for _, it := range rec.DEIItems {
		if it.Code == "A1" {
			t.Error("original row must be gone after replace")
		}
	}
	if len(rec.PATItems) != 1 || rec.PATItems[0].Code != "A2" {
		t.Errorf("pat items = %v, want only A2", rec.PATItems)
	}
}

func TestCompare_KeepCurrent(t *testing.T) {
	c, store, _ := compareFixture(t, map[string]any{"results": []any{map[string]any{"code": "A2"}}})
	openSession(t, c, store)

	if err := c.Select("original"); err != nil {
		t.Fatalf("select: %v", err)
	}
	outcome, err := c.Resolve()
	if err != nil {
		t.Fatalf("resolve: %v", err)
	}
	if outcome != ResolutionKeepCurrent {
		t.Errorf("outcome = %q", outcome)
	}

	rec := store.Record("demo")
	if len(rec.DEIItems) != 1 || rec.DEIItems[0].Code != "A1" {
		t.Errorf("dei items = %v, want untouched A1", rec.DEIItems)
	}
	if len(rec.PATItems) != 0 {
		t.Errorf("pat items = %v, want store unchanged", rec.PATItems)
	}
}

func TestCompare_ResolveRequiresSelection(t *testing.T) {
	c, store, _ := compareFixture(t, map[string]any{"results": []any{map[string]any{"code": "A2"}}})
	openSession(t, c, store)

	if _, err := c.Resolve(); !errors.Is(err, ErrNoSelection) {
		t.Errorf("resolve without selection: %v, want ErrNoSelection", err)
	}
	// KeepBoth needs no selection.
	if _, err := c.KeepBoth(); err != nil {
		t.Errorf("keep both without selection: %v", err)
	}
}

func TestCompare_SelectionIsModal(t *testing.T) {
	c, store, _ := compareFixture(t, map[string]any{"results": []any{map[string]any{"code": "A2"}}})
	openSession(t, c, store)

	c.Select("original")
	c.Select("new")
	if got := c.Session().Selection; got != "new" {
		t.Errorf("selection = %q, want the last pick to win", got)
	}
	if err := c.Select("both"); err == nil {
		t.Error("invalid column accepted")
	}
}

func TestCompare_ErroredFetchDiscardsSession(t *testing.T) {
	c, store, _ := compareFixture(t, map[string]any{"error": "pat service down"})

	original := store.Record("demo").DEIItems[0]
	_, err := c.Open(context.Background(), original, 0, SourcePAT)
	if err == nil {
		t.Fatal("expected open to fail on an errored fetch")
	}
	if c.Session() != nil {
		t.Error("errored session must auto-close, never exposing newData")
	}
	if _, rerr := c.Resolve(); !errors.Is(rerr, ErrNoSession) {
		t.Errorf("resolve after discard: %v, want ErrNoSession", rerr)
	}

	// Store untouched by the discarded comparison.
	rec := store.Record("demo")
	if len(rec.DEIItems) != 1 || len(rec.PATItems) != 0 {
		t.Errorf("store mutated by discarded session: %+v", rec)
	}
}

func TestCompare_CloseCancelsWithoutMutation(t *testing.T) {
	c, store, _ := compareFixture(t, map[string]any{"results": []any{map[string]any{"code": "A2"}}})
	openSession(t, c, store)

	c.Close()
	if c.Session() != nil {
		t.Error("session survives Close")
	}
	rec := store.Record("demo")
	if len(rec.PATItems) != 0 {
		t.Errorf("cancel must not touch the store: %v", rec.PATItems)
	}
}

func TestCompare_OpenClassifiesWhenCacheMissing(t *testing.T) {
	c, store, stub := compareFixture(t, map[string]any{"results": []any{map[string]any{"code": "A2"}}})
	openSession(t, c, store)

	// No classification was cached, so Open must fetch one first.
	reqs := stub.recorded()
	if len(reqs) == 0 || reqs[0] != "/mistral_activity_categories demo" {
		t.Errorf("requests = %v, want classification first", reqs)
	}
}

func TestCompare_ConcurrentHandlersSafe(t *testing.T) {
	// The comparer is shared by every HTTP handler of a wizard; opening,
	// inspecting and resolving from separate goroutines must not corrupt
	// the session.
	c, store, _ := compareFixture(t, map[string]any{"results": []any{map[string]any{"code": "A2"}}})
	original := store.Record("demo").DEIItems[0]

	var wg sync.WaitGroup
	wg.Add(2)
	go func() {
		defer wg.Done()
		for i := 0; i < 50; i++ {
			if _, err := c.Open(context.Background(), original, 0, SourcePAT); err != nil {
				t.Errorf("open: %v", err)
				return
			}
			c.Select("original")
			c.Resolve()
		}
	}()
	go func() {
		defer wg.Done()
		for i := 0; i < 50; i++ {
			c.Session()
			c.Close()
		}
	}()
	wg.Wait()

	if c.Session() != nil {
		t.Error("expected no session left open")
	}
}

func TestCompare_OpenReportsLoading(t *testing.T) {
	// While the alternative is in flight the store must report loading,
	// just as it does for a regular source fetch.
	entered := make(chan struct{})
	release := make(chan struct{})
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		close(entered)
		<-release
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"results":[{"code":"A2"}]}`))
	}))
	defer srv.Close()

	cfg := DefaultConfig()
	cfg.API.BaseURL = srv.URL

	store := NewStore()
	store.SetCategoryData("demo", CategoryClassification{
		Categories: []Category{{MainCategory: "c", Description: "q"}},
	})
	original := item("main", "A1", SourceDEI)
	original.Activity = "demo"
	store.OverwriteSourceItems("demo", SourceDEI, []PriceLineItem{original})

	c := NewComparer(store, NewPriceClient(cfg))
	done := make(chan error, 1)
	go func() {
		_, err := c.Open(context.Background(), original, 0, SourcePAT)
		done <- err
	}()

	<-entered
	if !store.Loading() {
		t.Error("store not loading while the alternative fetch is pending")
	}
	close(release)
	if err := <-done; err != nil {
		t.Fatalf("open: %v", err)
	}
	if store.Loading() {
		t.Error("store still loading after the fetch settled")
	}
}
