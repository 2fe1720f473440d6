package services

import (
	"log"
	"sort"
	"sync"
)

type sourceKey struct {
	activity string
	source   PriceSource
}

// Store is the BOQ aggregation store: one ActivityPriceRecord per
// activity plus the category-classification cache, owned by a single
// coordinator and passed by handle to every caller. All mutation goes
// through command methods; there is no ambient global instance.
//
// Concurrent fetches for the same activity+source are disambiguated by a
// per-pair generation counter: a completion is applied only when it
// carries the latest issued generation, so a late stale response can no
// longer clobber fresher data.
type Store struct {
	mu              sync.Mutex
	records         map[string]*ActivityPriceRecord
	classifications map[string]CategoryClassification
	generations     map[sourceKey]uint64
	pending         int
}

// NewStore creates an empty aggregation store.
func NewStore() *Store {
	return &Store{
		records:         make(map[string]*ActivityPriceRecord),
		classifications: make(map[string]CategoryClassification),
		generations:     make(map[sourceKey]uint64),
	}
}

func (s *Store) record(activity string) *ActivityPriceRecord {
	rec, ok := s.records[activity]
	if !ok {
		rec = &ActivityPriceRecord{}
		s.records[activity] = rec
	}
	return rec
}

// SetCategoryData stores a classification result in the cache and on the
// aggregate record. A failed classification lands as the record's
// Error/RawAnswer; existing item lists are left untouched.
func (s *Store) SetCategoryData(activity string, cls CategoryClassification) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.classifications[activity] = cls
	rec := s.record(activity)
	clsCopy := cls
	rec.Category = &clsCopy
	rec.Error = cls.Error
	rec.RawAnswer = cls.RawAnswer
}

// Classification returns the cached classification for an activity.
func (s *Store) Classification(activity string) (CategoryClassification, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	cls, ok := s.classifications[activity]
	return cls, ok
}

// BeginSourceFetch registers a new in-flight fetch for the pair and
// returns its generation. The global loading flag stays up until the
// matching MergeSourceItems lands.
func (s *Store) BeginSourceFetch(activity string, source PriceSource) uint64 {
	s.mu.Lock()
	defer s.mu.Unlock()

	key := sourceKey{activity, source}
	s.generations[key]++
	s.pending++
	return s.generations[key]
}

// MergeSourceItems applies a completed source fetch: a shallow overwrite
// of that source's item list plus the record's Error/RawAnswer, with
// every other field preserved. Completions whose generation is no longer
// the latest issued for the pair are dropped.
func (s *Store) MergeSourceItems(activity string, source PriceSource, gen uint64, items []PriceLineItem, errMsg, rawAnswer string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.pending > 0 {
		s.pending--
	}
	if gen != s.generations[sourceKey{activity, source}] {
		log.Printf("store: dropping stale %s fetch for %q (gen %d)", source, activity, gen)
		return
	}

	rec := s.record(activity)
	rec.setSourceItems(source, items)
	rec.Error = errMsg
	rec.RawAnswer = rawAnswer
}

// OverwriteSourceItems replaces one source's item list outright, outside
// the generation protocol (used by comparison resolutions, which operate
// on settled data).
func (s *Store) OverwriteSourceItems(activity string, source PriceSource, items []PriceLineItem) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.record(activity).setSourceItems(source, items)
}

// AppendSourceItems adds items to one source's list, keeping what is
// already there.
func (s *Store) AppendSourceItems(activity string, source PriceSource, items []PriceLineItem) {
	s.mu.Lock()
	defer s.mu.Unlock()
	rec := s.record(activity)
	rec.setSourceItems(source, append(rec.SourceItems(source), items...))
}

// RemoveSourceItem deletes the first main item matching the snapshot's
// code and label from the given source list, together with the flattened
// resource copies that were emitted for it.
func (s *Store) RemoveSourceItem(activity string, source PriceSource, snapshot PriceLineItem) {
	s.mu.Lock()
	defer s.mu.Unlock()

	rec, ok := s.records[activity]
	if !ok {
		return
	}

	resCodes := make(map[string]bool, len(snapshot.Resources))
	for _, res := range snapshot.Resources {
		resCodes[res.Code] = true
	}

	items := rec.SourceItems(source)
	out := items[:0:0]
	removed := false
	for _, it := range items {
		if !removed && it.Type == "main" && it.Code == snapshot.Code && it.Label() == snapshot.Label() {
			removed = true
			continue
		}
		if removed && it.Type == "resource" && resCodes[it.Code] {
			delete(resCodes, it.Code)
			continue
		}
		out = append(out, it)
	}
	rec.setSourceItems(source, out)
}

// ClearCategoryError resets only the error state for an activity, on
// both the classification cache and the aggregate record. Item lists and
// categories stay as they are; errors are never cleared implicitly.
func (s *Store) ClearCategoryError(activity string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if cls, ok := s.classifications[activity]; ok {
		cls.Error = ""
		cls.RawAnswer = ""
		s.classifications[activity] = cls
	}
	if rec, ok := s.records[activity]; ok {
		rec.Error = ""
		rec.RawAnswer = ""
		if rec.Category != nil {
			rec.Category.Error = ""
			rec.Category.RawAnswer = ""
		}
	}
}

// Record returns a snapshot of one activity's aggregate, or nil when the
// activity has never been fetched.
func (s *Store) Record(activity string) *ActivityPriceRecord {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.records[activity].clone()
}

// Activities lists the known activities in stable (sorted) order.
func (s *Store) Activities() []string {
	s.mu.Lock()
	defer s.mu.Unlock()

	out := make([]string, 0, len(s.records))
	for a := range s.records {
		out = append(out, a)
	}
	sort.Strings(out)
	return out
}

// beginAuxFetch and endAuxFetch keep the loading flag honest for
// fetches that settle outside the merge protocol, like a comparison's
// alternative. Generations are not touched, so an in-flight regular
// fetch for the same pair is never invalidated.
func (s *Store) beginAuxFetch() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.pending++
}

func (s *Store) endAuxFetch() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.pending > 0 {
		s.pending--
	}
}

// Loading reports whether any source fetch is still in flight. The flag
// is shared across activities, so during a batch refresh it can flip
// false between items; callers are expected to tolerate that.
func (s *Store) Loading() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.pending > 0
}
