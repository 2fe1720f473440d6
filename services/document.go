package services

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
)

// WorksDescription flattens a fetched site-works list into the plain
// text query the quotation endpoint expects.
func WorksDescription(works *SiteWorks) string {
	if works == nil {
		return ""
	}
	var b strings.Builder
	for _, w := range works.Works {
		line := strings.TrimSpace(w.Work)
		if line == "" {
			line = strings.TrimSpace(w.Item)
		}
		if line == "" {
			continue
		}
		if w.Area != "" {
			fmt.Fprintf(&b, "[%s", w.Area)
			if w.Subarea != "" {
				fmt.Fprintf(&b, " / %s", w.Subarea)
			}
			b.WriteString("] ")
		}
		b.WriteString(line)
		if w.Quantity > 0 {
			fmt.Fprintf(&b, ", quantity %g", w.Quantity)
			if w.Unit != "" {
				b.WriteString(" ")
				b.WriteString(w.Unit)
			}
		}
		b.WriteString(".\n")
	}
	return strings.TrimSpace(b.String())
}

// SiteVisitDescription renders the surveyed areas and their subareas as
// a textual site description for quotation requests.
func SiteVisitDescription(areas []SiteArea, subareasByArea map[string][]SiteSubarea) string {
	var b strings.Builder
	for _, area := range areas {
		b.WriteString("Area: ")
		b.WriteString(area.Name)
		if area.TotalArea != "" {
			fmt.Fprintf(&b, " (%s sqm)", area.TotalArea)
		}
		b.WriteString("\n")
		for _, sub := range subareasByArea[area.ID] {
			b.WriteString("  - ")
			b.WriteString(sub.Name)
			if sub.Dimensions != "" {
				fmt.Fprintf(&b, ", %s", sub.Dimensions)
			}
			if sub.WorkRequired != "" {
				fmt.Fprintf(&b, ": %s", sub.WorkRequired)
			}
			b.WriteString("\n")
		}
	}
	return strings.TrimSpace(b.String())
}

// BOQDescription flattens manually entered BOQ rows into the plain text
// query used when a project starts from an uploaded bill of quantities.
func BOQDescription(items []ManualBOQItem) string {
	var b strings.Builder
	for _, item := range items {
		desc := strings.TrimSpace(item.Description)
		if desc == "" {
			continue
		}
		if item.Code != "" {
			fmt.Fprintf(&b, "[%s] ", item.Code)
		}
		b.WriteString(desc)
		if item.Quantity != "" {
			fmt.Fprintf(&b, ", quantity %s", item.Quantity)
			if item.Unit != "" {
				b.WriteString(" ")
				b.WriteString(item.Unit)
			}
		}
		b.WriteString(".\n")
	}
	return strings.TrimSpace(b.String())
}

// FetchPriceQuotation posts the composed description and returns the
// quotation payload as decoded JSON. Callers relay it to the browser
// and feed it back into document generation.
func (c *PriceClient) FetchPriceQuotation(ctx context.Context, payload string) (map[string]any, error) {
	res, err := c.PostForm(ctx, "/mistral_price_quotation", map[string]string{
		"query": payload,
	})
	if err != nil {
		return nil, fmt.Errorf("price quotation request: %w", err)
	}
	m, ok := res.(map[string]any)
	if !ok {
		return nil, fmt.Errorf("price quotation: unexpected response shape %T", res)
	}
	if errMsg, ok := m["error"].(string); ok && errMsg != "" {
		return nil, fmt.Errorf("price quotation: %s", errMsg)
	}
	return m, nil
}

// QuotationDocRequest is the body relayed to the docx endpoints: the
// client fields at the top level plus the quotation JSON under
// internalCosts.
type QuotationDocRequest struct {
	ClientData    map[string]any
	InternalCosts map[string]any
}

func (r QuotationDocRequest) MarshalJSON() ([]byte, error) {
	merged := make(map[string]any, len(r.ClientData)+1)
	for k, v := range r.ClientData {
		merged[k] = v
	}
	merged["internalCosts"] = r.InternalCosts
	return json.Marshal(merged)
}

// GenerateQuotationDocx asks the external service to render the client
// facing quotation document. Returns the raw document bytes and the
// content type to relay.
func (c *PriceClient) GenerateQuotationDocx(ctx context.Context, req QuotationDocRequest) ([]byte, string, error) {
	return c.PostJSON(ctx, "/generate_price_quotation_docx", req)
}

// GenerateInternalCostsDocx renders the internal costs report.
func (c *PriceClient) GenerateInternalCostsDocx(ctx context.Context, req QuotationDocRequest) ([]byte, string, error) {
	return c.PostJSON(ctx, "/generate_internal_costs_docx", req)
}
