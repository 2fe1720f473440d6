// Package services contains the wizard's domain logic: the price source
// client, the per-activity aggregation store, table projections, the
// comparison workflow and document assembly.
package services

import "fmt"

// PriceSource identifies one of the regional price-list providers.
type PriceSource string

const (
	SourceDEI      PriceSource = "dei"
	SourcePAT      PriceSource = "pat"
	SourcePiemonte PriceSource = "piemonte"
)

// AllSources lists the providers in the fixed order used by table
// projections (dei, pat, piemonte).
var AllSources = []PriceSource{SourceDEI, SourcePAT, SourcePiemonte}

// DisplayName is the label used on exports and documents.
func (s PriceSource) DisplayName() string {
	switch s {
	case SourceDEI:
		return "DEI"
	case SourcePAT:
		return "PAT"
	case SourcePiemonte:
		return "Piemonte"
	}
	return string(s)
}

// ParseSource validates a source name coming from a request.
func ParseSource(s string) (PriceSource, error) {
	switch PriceSource(s) {
	case SourceDEI, SourcePAT, SourcePiemonte:
		return PriceSource(s), nil
	}
	return "", fmt.Errorf("unknown price source %q", s)
}

// PriceLineItem is one priced entry from a regional search. A "main"
// item may carry nested "resource" sub-items (material/labor breakdown);
// resources share the parent's source tag. Quantities, prices and totals
// are carried verbatim as the upstream services deliver them (strings or
// numbers, no normalization) and total == price*quantity is not enforced
// here.
type PriceLineItem struct {
	Type         string          `json:"type"`
	Activity     string          `json:"activity"`
	ActivityName string          `json:"activityName,omitempty"`
	MainCategory string          `json:"mainCategory"`
	PriceSource  PriceSource     `json:"priceSource"`
	Code         string          `json:"code"`
	Title        string          `json:"title,omitempty"`
	Description  string          `json:"description,omitempty"`
	Unit         string          `json:"unit,omitempty"`
	Quantity     string          `json:"quantity,omitempty"`
	Price        string          `json:"price,omitempty"`
	Total        string          `json:"total,omitempty"`
	Formula      string          `json:"formula,omitempty"`
	Summary      string          `json:"summary,omitempty"`
	Resources    []PriceLineItem `json:"resources,omitempty"`
}

// Label returns the item's display text, preferring Title over
// Description the way the upstream payloads mix the two.
func (it PriceLineItem) Label() string {
	if it.Title != "" {
		return it.Title
	}
	return it.Description
}

// Category is one classified sub-description of an activity, used as the
// search query against a price source.
type Category struct {
	MainCategory string `json:"mainCategory"`
	Description  string `json:"description"`
}

// CategoryClassification is the (cached) result of classifying an
// activity, or the error that classification produced. RawAnswer carries
// the model's unparseable raw output when the upstream reports one; it
// blocks source fetches the same way Error does.
type CategoryClassification struct {
	Categories []Category `json:"categories,omitempty"`
	Error      string     `json:"error,omitempty"`
	RawAnswer  string     `json:"raw_answer,omitempty"`
}

// Failed reports whether the classification is unusable as a fetch
// prerequisite.
func (c CategoryClassification) Failed() bool {
	return c.Error != "" || c.RawAnswer != ""
}

// ActivityPriceRecord is the per-activity aggregate: the classification
// plus the independently fetched item lists of each source. There is no
// cross-source deduplication; each list is the latest successful fetch
// for that source.
type ActivityPriceRecord struct {
	Category      *CategoryClassification `json:"category,omitempty"`
	DEIItems      []PriceLineItem         `json:"deiItems,omitempty"`
	PATItems      []PriceLineItem         `json:"patItems,omitempty"`
	PiemonteItems []PriceLineItem         `json:"piemonteItems,omitempty"`
	Error         string                  `json:"error,omitempty"`
	RawAnswer     string                  `json:"raw_answer,omitempty"`
}

// SourceItems returns the item list for one source.
func (r *ActivityPriceRecord) SourceItems(s PriceSource) []PriceLineItem {
	switch s {
	case SourceDEI:
		return r.DEIItems
	case SourcePAT:
		return r.PATItems
	case SourcePiemonte:
		return r.PiemonteItems
	}
	return nil
}

func (r *ActivityPriceRecord) setSourceItems(s PriceSource, items []PriceLineItem) {
	switch s {
	case SourceDEI:
		r.DEIItems = items
	case SourcePAT:
		r.PATItems = items
	case SourcePiemonte:
		r.PiemonteItems = items
	}
}

func (r *ActivityPriceRecord) clone() *ActivityPriceRecord {
	if r == nil {
		return nil
	}
	cp := *r
	cp.DEIItems = append([]PriceLineItem(nil), r.DEIItems...)
	cp.PATItems = append([]PriceLineItem(nil), r.PATItems...)
	cp.PiemonteItems = append([]PriceLineItem(nil), r.PiemonteItems...)
	if r.Category != nil {
		cat := *r.Category
		cat.Categories = append([]Category(nil), r.Category.Categories...)
		cp.Category = &cat
	}
	return &cp
}

// SourceFetchResult is what one source fetch for one activity produced.
type SourceFetchResult struct {
	Activity  string          `json:"activity"`
	Source    PriceSource     `json:"priceSource"`
	Items     []PriceLineItem `json:"items"`
	Error     string          `json:"error,omitempty"`
	RawAnswer string          `json:"raw_answer,omitempty"`
}

// Failed reports whether the fetch is unusable as comparison data.
func (r SourceFetchResult) Failed() bool {
	return r.Error != "" || r.RawAnswer != ""
}

// TimelineActivity is one entry of the general timeline returned by the
// activity-list service. Ordering of the slice, not Starting/Finishing,
// drives the sorted table projection.
type TimelineActivity struct {
	Activity  string  `json:"Activity"`
	Starting  float64 `json:"Starting"`
	Finishing float64 `json:"Finishing"`
}

// GeneralTimeline wraps the ordered activity list.
type GeneralTimeline struct {
	Activities []TimelineActivity `json:"Activities"`
}

// SiteWorkItem is one planned work row from the activity-list service.
type SiteWorkItem struct {
	Area     string  `json:"Area"`
	Subarea  string  `json:"Subarea"`
	Item     string  `json:"Item"`
	Unit     string  `json:"Unit"`
	Quantity float64 `json:"Quantity"`
	Work     string  `json:"Work"`
	Timeline string  `json:"Timeline"`
}

// MissingInfoItem flags information the activity-list service considered
// absent from the survey input.
type MissingInfoItem struct {
	Severity    string `json:"Severity"`
	Area        string `json:"Area"`
	Subarea     string `json:"Subarea"`
	Missing     string `json:"Missing"`
	Risks       string `json:"Risks"`
	Suggestions string `json:"Suggestions"`
}

// SiteWorks is the validated activity-list response.
type SiteWorks struct {
	Works           []SiteWorkItem    `json:"Works"`
	Missing         []MissingInfoItem `json:"Missing"`
	GeneralTimeline *GeneralTimeline  `json:"GeneralTimeline"`
}
