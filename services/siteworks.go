package services

import (
	"context"
	"encoding/json"
	"fmt"
)

// FetchSiteWorks asks the activity-list service for the planned works
// and the general timeline derived from a survey or uploaded BOQ text.
// The response must carry Works, Missing and GeneralTimeline.Activities;
// anything else is rejected as an invalid format rather than silently
// coerced, since the timeline drives every downstream ordering.
func FetchSiteWorks(ctx context.Context, client *PriceClient, query string, isBOQ bool) (*SiteWorks, error) {
	fields := map[string]string{"query": query}
	if isBOQ {
		fields["is_boq"] = "true"
	}

	payload, err := client.PostForm(ctx, "/mistral_activity_list", fields)
	if err != nil {
		return nil, err
	}

	// Round-trip through JSON to apply the struct shape to the generic
	// decode.
	raw, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("re-encode activity list: %w", err)
	}
	var sw SiteWorks
	if err := json.Unmarshal(raw, &sw); err != nil {
		return nil, fmt.Errorf("decode activity list: %w", err)
	}

	if sw.Works == nil || sw.Missing == nil || sw.GeneralTimeline == nil || sw.GeneralTimeline.Activities == nil {
		return nil, fmt.Errorf("invalid activity list response format")
	}
	return &sw, nil
}
