package services

import (
	"context"
	"errors"
	"log"
	"sync"

	"github.com/google/uuid"
)

// Comparison resolution outcomes.
const (
	ResolutionKeepCurrent = "keep-current"
	ResolutionReplace     = "replace-with-new"
	ResolutionKeepBoth    = "keep-both"
)

// ErrNoSession is returned when a resolution is requested while no
// comparison is open.
var ErrNoSession = errors.New("no comparison session open")

// ErrNoSelection is returned when keep-current/replace is requested
// before a column has been selected.
var ErrNoSelection = errors.New("no column selected")

// ComparisonSession is the ephemeral state of one reconciliation: the
// snapshotted current row, the alternative fetched from the newly chosen
// source, and the modal radio selection. It exists only between Open and
// a resolution (or discard); a session whose NewData failed is never
// exposed.
type ComparisonSession struct {
	ID             string             `json:"id"`
	Original       PriceLineItem      `json:"original"`
	OriginalSource PriceSource        `json:"originalSource"`
	RowIndex       int                `json:"rowIndex"`
	PriceSource    PriceSource        `json:"priceSource"`
	NewData        *SourceFetchResult `json:"newData,omitempty"`
	Selection      string             `json:"selection,omitempty"`
}

func (s *ComparisonSession) clone() *ComparisonSession {
	if s == nil {
		return nil
	}
	cp := *s
	if s.NewData != nil {
		nd := *s.NewData
		nd.Items = append([]PriceLineItem(nil), s.NewData.Items...)
		cp.NewData = &nd
	}
	return &cp
}

// Comparer drives the comparison/reconciliation workflow for one wizard.
// At most one session is open at a time. The mutex serializes the HTTP
// handlers that share the comparer through the wizard registry.
type Comparer struct {
	mu      sync.Mutex
	store   *Store
	client  *PriceClient
	session *ComparisonSession
}

// NewComparer wires the workflow to its store and client.
func NewComparer(store *Store, client *PriceClient) *Comparer {
	return &Comparer{store: store, client: client}
}

// Open stages a session for the given row and fetches the alternative
// from newSource. When the fetch comes back with an error payload the
// session is discarded on the spot and the upstream message returned;
// an errored alternative must never be surfaced as comparable data.
func (c *Comparer) Open(ctx context.Context, original PriceLineItem, rowIndex int, newSource PriceSource) (*ComparisonSession, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.store.beginAuxFetch()
	defer c.store.endAuxFetch()

	session := &ComparisonSession{
		ID:             uuid.NewString(),
		Original:       original,
		OriginalSource: original.PriceSource,
		RowIndex:       rowIndex,
		PriceSource:    newSource,
	}

	if _, ok := c.store.Classification(original.Activity); !ok {
		cls := c.client.FetchCategoryData(ctx, original.Activity)
		c.store.SetCategoryData(original.Activity, cls)
	}

	res := c.client.FetchActivitySource(ctx, c.store, original.Activity, newSource)
	if res.Failed() {
		log.Printf("compare: discarding session for %q, %s fetch failed: %s%s",
			original.Activity, newSource, res.Error, res.RawAnswer)
		c.session = nil
		return nil, errors.New(res.Error + res.RawAnswer)
	}

	session.NewData = &res
	c.session = session
	return session.clone(), nil
}

// Session returns the open session, or nil when none is open.
func (c *Comparer) Session() *ComparisonSession {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.session.clone()
}

// Select stages the active column, radio-button style: exactly one of
// "original" or "new" at a time.
func (c *Comparer) Select(column string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.session == nil {
		return ErrNoSession
	}
	if column != "original" && column != "new" {
		return errors.New(`selection must be "original" or "new"`)
	}
	c.session.Selection = column
	return nil
}

// Resolve applies the selection-gated resolutions: keep current when
// "original" is selected (store untouched), replace when "new" is
// selected (original row removed from its source list, the chosen
// source's list overwritten with the fetched items). Either way the
// session is cleared.
func (c *Comparer) Resolve() (string, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	s := c.session
	if s == nil {
		return "", ErrNoSession
	}

	switch s.Selection {
	case "original":
		c.session = nil
		return ResolutionKeepCurrent, nil
	case "new":
		c.store.RemoveSourceItem(s.Original.Activity, s.OriginalSource, s.Original)
		c.store.OverwriteSourceItems(s.Original.Activity, s.PriceSource, s.NewData.Items)
		c.session = nil
		return ResolutionReplace, nil
	default:
		return "", ErrNoSelection
	}
}

// KeepBoth appends the fetched items next to the original instead of
// overwriting; it needs no selection. Both rows appear in subsequent
// table projections.
func (c *Comparer) KeepBoth() (string, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	s := c.session
	if s == nil {
		return "", ErrNoSession
	}
	c.store.AppendSourceItems(s.Original.Activity, s.PriceSource, s.NewData.Items)
	c.session = nil
	return ResolutionKeepBoth, nil
}

// Close cancels the session without touching the store.
func (c *Comparer) Close() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.session = nil
}
