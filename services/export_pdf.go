package services

import (
	"fmt"
	"math"

	"github.com/johnfercher/maroto/v2"
	"github.com/johnfercher/maroto/v2/pkg/components/col"
	"github.com/johnfercher/maroto/v2/pkg/components/row"
	"github.com/johnfercher/maroto/v2/pkg/components/text"
	"github.com/johnfercher/maroto/v2/pkg/config"
	"github.com/johnfercher/maroto/v2/pkg/consts/align"
	"github.com/johnfercher/maroto/v2/pkg/consts/fontstyle"
	"github.com/johnfercher/maroto/v2/pkg/consts/orientation"
	"github.com/johnfercher/maroto/v2/pkg/consts/pagesize"
	"github.com/johnfercher/maroto/v2/pkg/core"
	"github.com/johnfercher/maroto/v2/pkg/props"
)

// GeneratePDF creates a PDF document from BOQ export data using maroto/v2.
// It returns the raw PDF bytes or an error.
func GeneratePDF(data ExportData) ([]byte, error) {
	cfg := config.NewBuilder().
		WithOrientation(orientation.Horizontal).
		WithPageSize(pagesize.A4).
		WithLeftMargin(10).
		WithTopMargin(10).
		WithRightMargin(10).
		WithPageNumber(props.PageNumber{
			Pattern: "Page {current} of {total}",
			Place:   props.RightBottom,
			Size:    7,
			Color:   &props.Color{Red: 120, Green: 120, Blue: 120},
		}).
		Build()

	m := maroto.New(cfg)

	// --- Header Section ---
	addHeader(m, data)

	// --- Table Header ---
	addTableHeader(m)

	// --- Table Body ---
	for _, r := range data.Rows {
		addTableRow(m, r)
	}

	// --- Summary Section ---
	addSummary(m, data)

	// --- Footer with generated date ---
	addFooter(m, data)

	// Generate PDF bytes
	doc, err := m.Generate()
	if err != nil {
		return nil, fmt.Errorf("failed to generate PDF: %w", err)
	}

	return doc.GetBytes(), nil
}

// addHeader adds the title, project reference, and date to the PDF.
func addHeader(m core.Maroto, data ExportData) {
	// Title row
	m.AddRows(
		row.New(12).Add(
			col.New(12).Add(
				text.New(data.Title, props.Text{
					Size:  16,
					Style: fontstyle.Bold,
					Align: align.Center,
				}),
			),
		),
	)

	// Project reference and date row
	m.AddRows(
		row.New(8).Add(
			col.New(6).Add(
				text.New(fmt.Sprintf("Project: %s", data.ProjectRef), props.Text{
					Size:  9,
					Align: align.Left,
					Color: &props.Color{Red: 80, Green: 80, Blue: 80},
				}),
			),
			col.New(6).Add(
				text.New(fmt.Sprintf("Date: %s", data.CreatedDate), props.Text{
					Size:  9,
					Align: align.Right,
					Color: &props.Color{Red: 80, Green: 80, Blue: 80},
				}),
			),
		),
	)

	// Spacer
	m.AddRows(row.New(4))
}

// addTableHeader adds the column header row for the BOQ table.
func addTableHeader(m core.Maroto) {
	headerBg := &props.Color{Red: 33, Green: 37, Blue: 41}
	headerText := props.Text{
		Size:  8,
		Style: fontstyle.Bold,
		Align: align.Center,
		Color: &props.Color{Red: 255, Green: 255, Blue: 255},
	}
	headerTextLeft := headerText
	headerTextLeft.Align = align.Left

	headerCell := props.Cell{BackgroundColor: headerBg}

	m.AddRows(
		row.New(8).Add(
			col.New(1).Add(
				text.New("#", headerText),
			).WithStyle(&headerCell),
			col.New(2).Add(
				text.New("Activity", headerTextLeft),
			).WithStyle(&headerCell),
			col.New(1).Add(
				text.New("Code", headerText),
			).WithStyle(&headerCell),
			col.New(3).Add(
				text.New("Description", headerTextLeft),
			).WithStyle(&headerCell),
			col.New(1).Add(
				text.New("Qty", headerText),
			).WithStyle(&headerCell),
			col.New(1).Add(
				text.New("Unit", headerText),
			).WithStyle(&headerCell),
			col.New(1).Add(
				text.New("Unit Price", headerText),
			).WithStyle(&headerCell),
			col.New(1).Add(
				text.New("Total", headerText),
			).WithStyle(&headerCell),
			col.New(1).Add(
				text.New("Source", headerText),
			).WithStyle(&headerCell),
		),
	)
}

// addTableRow adds a single data row to the BOQ table, styled by indent level.
func addTableRow(m core.Maroto, r ExportRow) {
	// Determine text style and background based on level.
	var cellStyle *props.Cell
	var textSize float64 = 7
	var textStyle fontstyle.Type = fontstyle.Normal
	descPrefix := ""

	switch r.Level {
	case 0:
		// Priced item: bold, white background (no cell style needed).
		textStyle = fontstyle.Bold
		textSize = 8
	case 1:
		// Resource: indented, light gray background.
		descPrefix = "  "
		bg := &props.Color{Red: 245, Green: 245, Blue: 245}
		cellStyle = &props.Cell{BackgroundColor: bg}
	}

	baseText := props.Text{
		Size:  textSize,
		Style: textStyle,
		Align: align.Center,
	}
	leftText := baseText
	leftText.Align = align.Left
	rightText := baseText
	rightText.Align = align.Right

	// Format quantity: whole number if no fractional part, otherwise 2 decimals.
	qtyStr := formatQty(r.Qty)

	activity := r.Activity
	if r.Level != 0 {
		activity = ""
	}

	// Build columns.
	colIndex := col.New(1).Add(text.New(r.Index, baseText))
	colActivity := col.New(2).Add(text.New(activity, leftText))
	colCode := col.New(1).Add(text.New(r.Code, baseText))
	colDesc := col.New(3).Add(text.New(descPrefix+r.Description, leftText))
	colQty := col.New(1).Add(text.New(qtyStr, rightText))
	colUnit := col.New(1).Add(text.New(r.Unit, baseText))
	colPrice := col.New(1).Add(text.New(FormatEUR(r.UnitPrice), rightText))
	colTotal := col.New(1).Add(text.New(FormatEUR(r.Total), rightText))
	colSource := col.New(1).Add(text.New(r.Source, baseText))

	// Apply background style if needed.
	if cellStyle != nil {
		colIndex = colIndex.WithStyle(cellStyle)
		colActivity = colActivity.WithStyle(cellStyle)
		colCode = colCode.WithStyle(cellStyle)
		colDesc = colDesc.WithStyle(cellStyle)
		colQty = colQty.WithStyle(cellStyle)
		colUnit = colUnit.WithStyle(cellStyle)
		colPrice = colPrice.WithStyle(cellStyle)
		colTotal = colTotal.WithStyle(cellStyle)
		colSource = colSource.WithStyle(cellStyle)
	}

	m.AddRows(
		row.New(7).Add(
			colIndex,
			colActivity,
			colCode,
			colDesc,
			colQty,
			colUnit,
			colPrice,
			colTotal,
			colSource,
		),
	)
}

// addSummary adds the per-source totals and grand total at the bottom of the PDF.
func addSummary(m core.Maroto, data ExportData) {
	// Spacer before summary
	m.AddRows(row.New(6))

	summaryBg := &props.Color{Red: 240, Green: 240, Blue: 240}
	summaryCell := &props.Cell{BackgroundColor: summaryBg}

	labelStyle := props.Text{
		Size:  9,
		Style: fontstyle.Bold,
		Align: align.Right,
	}
	valueStyle := props.Text{
		Size:  9,
		Style: fontstyle.Bold,
		Align: align.Right,
	}

	// Per-source totals in the fixed source order.
	for _, src := range AllSources {
		total, ok := data.SourceTotal[src]
		if !ok {
			continue
		}
		m.AddRows(
			row.New(8).Add(
				col.New(8).Add(
					text.New("Total "+src.DisplayName(), labelStyle),
				).WithStyle(summaryCell),
				col.New(4).Add(
					text.New(FormatEUR(total), valueStyle),
				).WithStyle(summaryCell),
			),
		)
	}

	// Grand total
	m.AddRows(
		row.New(8).Add(
			col.New(8).Add(
				text.New("Grand Total", labelStyle),
			).WithStyle(summaryCell),
			col.New(4).Add(
				text.New(FormatEUR(data.GrandTotal), valueStyle),
			).WithStyle(summaryCell),
		),
	)
}

// addFooter adds the generated-date line at the bottom.
func addFooter(m core.Maroto, data ExportData) {
	m.AddRows(row.New(6))
	m.AddRows(
		row.New(6).Add(
			col.New(12).Add(
				text.New(
					fmt.Sprintf("Generated on %s", data.CreatedDate),
					props.Text{
						Size:  7,
						Align: align.Left,
						Color: &props.Color{Red: 140, Green: 140, Blue: 140},
					},
				),
			),
		),
	)
}

// formatQty returns a string representation of the quantity value.
// Whole numbers are formatted without decimals; fractional values get 2 decimal places.
func formatQty(qty float64) string {
	if qty == math.Trunc(qty) {
		return fmt.Sprintf("%.0f", qty)
	}
	return fmt.Sprintf("%.2f", qty)
}
