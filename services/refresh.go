package services

import (
	"context"
	"log"
)

// MissingForSource reports which timeline activities still need data for
// a source: no record at all, a record in error state, or an empty item
// list for that source.
func MissingForSource(store *Store, timeline []TimelineActivity, source PriceSource) []string {
	var missing []string
	for _, ta := range timeline {
		if ta.Activity == "" {
			continue
		}
		rec := store.Record(ta.Activity)
		if rec == nil || rec.Error != "" || rec.RawAnswer != "" || len(rec.SourceItems(source)) == 0 {
			missing = append(missing, ta.Activity)
		}
	}
	return missing
}

// RefreshMissingPrices re-runs classification plus the source fetch for
// every missing activity, strictly one at a time in timeline order. The
// serialization is deliberate backpressure against the external
// services: a later activity never starts before the earlier one has
// fully settled, and within one activity the classification always
// completes before its dependent source fetch.
func RefreshMissingPrices(ctx context.Context, client *PriceClient, store *Store, timeline []TimelineActivity, source PriceSource) error {
	for _, activity := range MissingForSource(store, timeline, source) {
		if err := ctx.Err(); err != nil {
			return err
		}

		cls := client.FetchCategoryData(ctx, activity)
		store.SetCategoryData(activity, cls)
		if cls.Failed() {
			log.Printf("refresh: classification for %q failed: %s%s", activity, cls.Error, cls.RawAnswer)
			continue
		}

		gen := store.BeginSourceFetch(activity, source)
		res := client.FetchActivitySource(ctx, store, activity, source)
		store.MergeSourceItems(activity, source, gen, res.Items, res.Error, res.RawAnswer)
	}
	return nil
}
