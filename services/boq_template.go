package services

import (
	"bytes"
	"fmt"

	"github.com/xuri/excelize/v2"
)

// TemplateField describes one column in a bill-of-quantities import template.
type TemplateField struct {
	Key            string // internal name, matches the stored item field
	Label          string // human-readable header shown in Excel
	Description    string // shown on the Instructions sheet
	FormatRule     string // e.g. "decimal number", ""
	ExampleValue   string // shown on the Instructions sheet
	AlwaysRequired bool
}

// BOQTemplateFields returns the ordered list of columns for BOQ import templates.
func BOQTemplateFields() []TemplateField {
	return []TemplateField{
		{Key: "code", Label: "Code", Description: "Price list code for the item, if known", ExampleValue: "01.A02.B00.010"},
		{Key: "description", Label: "Description", Description: "Description of the work item", ExampleValue: "Demolizione di muratura in mattoni", AlwaysRequired: true},
		{Key: "length", Label: "Length", Description: "Length measurement in metres", FormatRule: "Decimal number", ExampleValue: "4.50"},
		{Key: "width", Label: "Width", Description: "Width measurement in metres", FormatRule: "Decimal number", ExampleValue: "2.80"},
		{Key: "factor", Label: "Factor", Description: "Multiplier applied to the measurement", FormatRule: "Decimal number", ExampleValue: "1"},
		{Key: "quantity", Label: "Quantity", Description: "Total quantity of the item", FormatRule: "Decimal number", ExampleValue: "12.60", AlwaysRequired: true},
		{Key: "unit", Label: "Unit", Description: "Unit of measure (select from dropdown)", ExampleValue: "mq", AlwaysRequired: true},
		{Key: "unitPrice", Label: "Unit Price", Description: "Price per unit in EUR, without currency symbol", FormatRule: "Decimal number", ExampleValue: "28.40"},
		{Key: "priceSource", Label: "Price List", Description: "Regional price list the code refers to (select from dropdown)", FormatRule: "dei, pat or piemonte", ExampleValue: "piemonte"},
	}
}

// boqUnits are the measurement units offered in the template dropdown.
var boqUnits = []string{"m", "mq", "mc", "kg", "t", "cad", "h", "corpo"}

// GenerateBOQTemplate creates a downloadable .xlsx template for bill-of-quantities
// uploads.
func GenerateBOQTemplate() ([]byte, error) {
	fields := BOQTemplateFields()

	f := excelize.NewFile()
	defer f.Close()

	sheetName := "BOQ"
	defaultSheet := f.GetSheetName(0)
	f.SetSheetName(defaultSheet, sheetName)

	// --- Styles ---
	requiredHeaderStyle, _ := f.NewStyle(&excelize.Style{
		Font:      &excelize.Font{Bold: true, Color: "#FFFFFF", Size: 11},
		Fill:      excelize.Fill{Type: "pattern", Color: []string{"#1D4ED8"}, Pattern: 1},
		Alignment: &excelize.Alignment{Horizontal: "center", Vertical: "center", WrapText: true},
		Border:    thinBorders(),
	})

	optionalHeaderStyle, _ := f.NewStyle(&excelize.Style{
		Font:      &excelize.Font{Bold: true, Color: "#FFFFFF", Size: 11},
		Fill:      excelize.Fill{Type: "pattern", Color: []string{"#6B7280"}, Pattern: 1},
		Alignment: &excelize.Alignment{Horizontal: "center", Vertical: "center", WrapText: true},
		Border:    thinBorders(),
	})

	// Write header row and set column widths
	columns := columnLetters(len(fields))
	for i, field := range fields {
		cell := fmt.Sprintf("%s1", columns[i])

		headerText := field.Label
		if field.AlwaysRequired {
			headerText += " *"
		}
		f.SetCellValue(sheetName, cell, headerText)

		if field.AlwaysRequired {
			f.SetCellStyle(sheetName, cell, cell, requiredHeaderStyle)
		} else {
			f.SetCellStyle(sheetName, cell, cell, optionalHeaderStyle)
		}

		width := float64(len(field.Label)) * 1.3
		if width < 12 {
			width = 12
		}
		if field.Key == "description" {
			width = 45
		}
		f.SetColWidth(sheetName, columns[i], columns[i], width)
	}

	// Data validation dropdowns for Unit and Price List
	for i, field := range fields {
		col := columns[i]
		rangeRef := fmt.Sprintf("%s2:%s1048576", col, col)

		switch field.Key {
		case "unit":
			dv := excelize.NewDataValidation(true)
			dv.Sqref = rangeRef
			dv.SetDropList(boqUnits)
			f.AddDataValidation(sheetName, dv)
		case "priceSource":
			sources := make([]string, len(AllSources))
			for j, src := range AllSources {
				sources[j] = string(src)
			}
			dv := excelize.NewDataValidation(true)
			dv.Sqref = rangeRef
			dv.SetDropList(sources)
			f.AddDataValidation(sheetName, dv)
		}
	}

	// Freeze header row
	f.SetPanes(sheetName, &excelize.Panes{
		Freeze:      true,
		Split:       false,
		XSplit:      0,
		YSplit:      1,
		TopLeftCell: "A2",
		ActivePane:  "bottomLeft",
	})

	addInstructionsSheet(f, fields)

	var buf bytes.Buffer
	if err := f.Write(&buf); err != nil {
		return nil, fmt.Errorf("write excel template: %w", err)
	}
	return buf.Bytes(), nil
}

// addInstructionsSheet creates a hidden sheet with field descriptions.
func addInstructionsSheet(f *excelize.File, fields []TemplateField) {
	instSheet := "Instructions"
	f.NewSheet(instSheet)

	titleStyle, _ := f.NewStyle(&excelize.Style{
		Font: &excelize.Font{Bold: true, Size: 14},
	})
	headerStyle, _ := f.NewStyle(&excelize.Style{
		Font: &excelize.Font{Bold: true, Size: 11},
		Fill: excelize.Fill{Type: "pattern", Color: []string{"#E5E7EB"}, Pattern: 1},
	})

	f.SetCellValue(instSheet, "A1", "Bill of Quantities Import - Instructions")
	f.SetCellStyle(instSheet, "A1", "A1", titleStyle)

	instructionHeaders := []string{"Field Name", "Required?", "Format Rule", "Description", "Example"}
	cols := columnLetters(5)
	for i, h := range instructionHeaders {
		cell := fmt.Sprintf("%s3", cols[i])
		f.SetCellValue(instSheet, cell, h)
		f.SetCellStyle(instSheet, cell, cell, headerStyle)
	}

	for i, field := range fields {
		row := fmt.Sprintf("%d", i+4)
		reqLabel := "Optional"
		if field.AlwaysRequired {
			reqLabel = "Required"
		}
		f.SetCellValue(instSheet, cols[0]+row, field.Label)
		f.SetCellValue(instSheet, cols[1]+row, reqLabel)
		f.SetCellValue(instSheet, cols[2]+row, field.FormatRule)
		f.SetCellValue(instSheet, cols[3]+row, field.Description)
		f.SetCellValue(instSheet, cols[4]+row, field.ExampleValue)
	}

	widths := []float64{20, 12, 30, 45, 25}
	for i, w := range widths {
		f.SetColWidth(instSheet, cols[i], cols[i], w)
	}

	f.SetSheetVisible(instSheet, false)
}

// columnLetters returns Excel column letters for n columns: A, B, ... Z, AA, AB ...
func columnLetters(n int) []string {
	cols := make([]string, n)
	for i := 0; i < n; i++ {
		name, _ := excelize.ColumnNumberToName(i + 1)
		cols[i] = name
	}
	return cols
}
