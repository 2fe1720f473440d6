package services

// AllTableItems flattens the aggregation store into the unified table
// feed: for every activity, the dei, pat and piemonte lists concatenated
// in that fixed order, each item stamped with ActivityName. Resource
// rows stay nested on their main rows at the data level; the flattened
// type "resource" copies produced by normalization ride along as-is.
func AllTableItems(store *Store) []PriceLineItem {
	var all []PriceLineItem
	for _, activity := range store.Activities() {
		rec := store.Record(activity)
		if rec == nil {
			continue
		}
		for _, source := range AllSources {
			for _, it := range rec.SourceItems(source) {
				it.ActivityName = activity
				all = append(all, it)
			}
		}
	}
	return all
}

// SortedTableItems reorders the flattened feed to match the timeline's
// activity order. Each timeline activity pulls its matching subset (by
// Activity or ActivityName equality); activities missing from the
// timeline are dropped from this view only; the store itself is
// untouched. The scan is O(activities x items), fine at tens of
// activities.
func SortedTableItems(store *Store, timeline []TimelineActivity) []PriceLineItem {
	all := AllTableItems(store)

	var sorted []PriceLineItem
	for _, ta := range timeline {
		for _, it := range all {
			if it.Activity == ta.Activity || it.ActivityName == ta.Activity {
				sorted = append(sorted, it)
			}
		}
	}
	return sorted
}
