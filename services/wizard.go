package services

import (
	"context"
	"errors"
	"sync"
)

// ErrNoTimeline is returned when a refresh is requested before the
// activity list has been fetched.
var ErrNoTimeline = errors.New("no timeline fetched yet")

// Wizard holds the per-project quotation state: the aggregation store,
// the comparison workflow and the fetched site works. All of it lives
// in memory only; a restart starts the pricing step over.
type Wizard struct {
	mu        sync.Mutex
	ProjectID string
	Store     *Store
	comparer  *Comparer
	siteWorks *SiteWorks
}

// Registry hands out one Wizard per project.
type Registry struct {
	mu      sync.Mutex
	client  *PriceClient
	wizards map[string]*Wizard
}

// NewRegistry creates a registry backed by the given price client.
func NewRegistry(client *PriceClient) *Registry {
	return &Registry{
		client:  client,
		wizards: make(map[string]*Wizard),
	}
}

// Client returns the shared price client.
func (r *Registry) Client() *PriceClient { return r.client }

// Wizard returns the project's wizard, creating it on first use.
func (r *Registry) Wizard(projectID string) *Wizard {
	r.mu.Lock()
	defer r.mu.Unlock()
	w, ok := r.wizards[projectID]
	if !ok {
		w = &Wizard{
			ProjectID: projectID,
			Store:     NewStore(),
		}
		w.comparer = NewComparer(w.Store, r.client)
		r.wizards[projectID] = w
	}
	return w
}

// Drop discards a project's wizard state, usually after project delete.
func (r *Registry) Drop(projectID string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.wizards, projectID)
}

// Comparer returns the wizard's comparison workflow.
func (w *Wizard) Comparer() *Comparer { return w.comparer }

// SetSiteWorks caches the fetched activity list and timeline.
func (w *Wizard) SetSiteWorks(sw *SiteWorks) {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.siteWorks = sw
}

// SiteWorks returns the cached activity list, or nil before the fetch.
func (w *Wizard) SiteWorks() *SiteWorks {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.siteWorks
}

// Timeline returns the cached general timeline, or nil.
func (w *Wizard) Timeline() *GeneralTimeline {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.siteWorks == nil {
		return nil
	}
	return w.siteWorks.GeneralTimeline
}

// RefreshMissing runs the refresh-missing-prices pass for one source
// using the cached timeline.
func (w *Wizard) RefreshMissing(ctx context.Context, client *PriceClient, source PriceSource) error {
	tl := w.Timeline()
	if tl == nil {
		return ErrNoTimeline
	}
	return RefreshMissingPrices(ctx, client, w.Store, tl.Activities, source)
}
