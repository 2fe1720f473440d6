package services

import "github.com/spf13/cast"

// ExtractResults pulls the item array out of a price-search response.
// The regional services are inconsistent, so the shapes are tried in a
// fixed fallback order: a "results" array, a "Results" array nested
// under "results", a top-level "Results" array, or the payload itself as
// an array. Anything else yields an empty slice rather than an error.
func ExtractResults(payload any) []map[string]any {
	switch v := payload.(type) {
	case map[string]any:
		if arr, ok := v["results"].([]any); ok {
			return toMaps(arr)
		}
		if inner, ok := v["results"].(map[string]any); ok {
			if arr, ok := inner["Results"].([]any); ok {
				return toMaps(arr)
			}
		}
		if arr, ok := v["Results"].([]any); ok {
			return toMaps(arr)
		}
	case []any:
		return toMaps(v)
	}
	return nil
}

func toMaps(arr []any) []map[string]any {
	out := make([]map[string]any, 0, len(arr))
	for _, el := range arr {
		if m, ok := el.(map[string]any); ok {
			out = append(out, m)
		}
	}
	return out
}

// NormalizeCategories coerces a classification payload into a flat
// category list. The classifier answers in one of three shapes: a
// language-tagged array ("it" preferred over "en"), a bare array, or a
// single object treated as a one-element list.
func NormalizeCategories(payload any) []Category {
	switch v := payload.(type) {
	case map[string]any:
		if arr, ok := v["it"].([]any); ok {
			return categoriesFrom(arr)
		}
		if arr, ok := v["en"].([]any); ok {
			return categoriesFrom(arr)
		}
		return categoriesFrom([]any{v})
	case []any:
		return categoriesFrom(v)
	}
	return nil
}

func categoriesFrom(arr []any) []Category {
	out := make([]Category, 0, len(arr))
	for _, el := range arr {
		m, ok := el.(map[string]any)
		if !ok {
			continue
		}
		out = append(out, Category{
			MainCategory: cast.ToString(m["Main Category"]),
			Description:  cast.ToString(m["Description"]),
		})
	}
	return out
}

// TagItems converts raw search hits into tagged line items. Each hit
// becomes a type "main" item stamped with the activity, category and
// source; every nested resource is kept on the parent AND appended again
// as a flattened type "resource" entry with the parent's tags. The
// duplication is the contract of the flattened table feed: downstream
// consumers rely on both representations, so it lives here and nowhere
// else.
func TagItems(hits []map[string]any, activity, mainCategory string, source PriceSource) []PriceLineItem {
	var items []PriceLineItem
	for _, hit := range hits {
		main := itemFromMap(hit, "main", activity, mainCategory, source)
		if raw, ok := hit["resources"].([]any); ok {
			for _, rr := range toMaps(raw) {
				main.Resources = append(main.Resources, itemFromMap(rr, "resource", activity, mainCategory, source))
			}
		}
		items = append(items, main)
		for _, res := range main.Resources {
			items = append(items, res)
		}
	}
	return items
}

// itemFromMap lifts one raw hit into a PriceLineItem. Numeric-ish fields
// arrive as strings or numbers depending on the source; cast keeps them
// as strings without guessing at precision.
func itemFromMap(m map[string]any, typ, activity, mainCategory string, source PriceSource) PriceLineItem {
	return PriceLineItem{
		Type:         typ,
		Activity:     activity,
		MainCategory: mainCategory,
		PriceSource:  source,
		Code:         cast.ToString(m["code"]),
		Title:        cast.ToString(m["title"]),
		Description:  cast.ToString(m["description"]),
		Unit:         cast.ToString(m["unit"]),
		Quantity:     cast.ToString(m["quantity"]),
		Price:        cast.ToString(m["price"]),
		Total:        cast.ToString(m["total"]),
		Formula:      cast.ToString(m["formula"]),
		Summary:      cast.ToString(m["summary"]),
	}
}
