package services

import (
	"strconv"
	"time"
)

// ExportRow represents a single row in the BOQ export (priced item or
// one of its resources).
type ExportRow struct {
	Level       int // 0 = priced item, 1 = resource
	Index       string
	Activity    string
	Code        string
	Description string
	Qty         float64
	Unit        string
	UnitPrice   float64
	Total       float64
	Source      string
}

// ExportData holds all data needed for export.
type ExportData struct {
	Title       string
	ProjectRef  string
	CreatedDate string
	Rows        []ExportRow
	SourceTotal map[PriceSource]float64
	GrandTotal  float64
}

// BuildExportData projects table rows into the flat export model. Items
// are numbered sequentially and each item's nested resources follow it
// as dotted sub-rows. Flattened resource duplicates are skipped so each
// resource appears once in the document.
func BuildExportData(title, projectRef string, items []PriceLineItem) ExportData {
	data := ExportData{
		Title:       title,
		ProjectRef:  projectRef,
		CreatedDate: time.Now().Format("2006-01-02"),
		SourceTotal: make(map[PriceSource]float64),
	}

	n := 0
	for _, item := range items {
		if item.Type == "resource" {
			continue
		}
		n++
		total := ParseAmount(item.Total)
		row := ExportRow{
			Level:       0,
			Index:       strconv.Itoa(n),
			Activity:    item.ActivityName,
			Code:        item.Code,
			Description: item.Label(),
			Qty:         ParseAmount(item.Quantity),
			Unit:        item.Unit,
			UnitPrice:   ParseAmount(item.Price),
			Total:       total,
			Source:      string(item.PriceSource),
		}
		data.Rows = append(data.Rows, row)
		data.SourceTotal[item.PriceSource] += total
		data.GrandTotal += total

		for i, res := range item.Resources {
			data.Rows = append(data.Rows, ExportRow{
				Level:       1,
				Index:       strconv.Itoa(n) + "." + strconv.Itoa(i+1),
				Activity:    item.ActivityName,
				Code:        res.Code,
				Description: res.Label(),
				Qty:         ParseAmount(res.Quantity),
				Unit:        res.Unit,
				UnitPrice:   ParseAmount(res.Price),
				Total:       ParseAmount(res.Total),
				Source:      string(item.PriceSource),
			})
		}
	}
	return data
}
