package handlers

import (
	"log"
	"net/http"
	"strings"

	"github.com/pocketbase/pocketbase"
	"github.com/pocketbase/pocketbase/core"

	"quotewizard/services"
)

// Spreadsheet and PDF exports of the aggregated price table.

func exportData(app *pocketbase.PocketBase, registry *services.Registry, e *core.RequestEvent) (*core.Record, services.ExportData, error) {
	rec, err := findProject(app, e)
	if rec == nil {
		return nil, services.ExportData{}, err
	}

	w := registry.Wizard(rec.Id)
	items := tableRows(w)
	if len(items) == 0 {
		return nil, services.ExportData{}, apiError(e, http.StatusConflict, "No price data to export")
	}

	title := strings.TrimSpace(rec.GetString("clientFirstName") + " " + rec.GetString("clientSurname"))
	if title == "" {
		title = "Price Quotation"
	}
	return rec, services.BuildExportData(title, rec.Id, items), nil
}

func HandleExportExcel(app *pocketbase.PocketBase, registry *services.Registry) func(*core.RequestEvent) error {
	return func(e *core.RequestEvent) error {
		rec, data, err := exportData(app, registry, e)
		if rec == nil {
			return err
		}

		file, err := services.GenerateExcel(data)
		if err != nil {
			log.Printf("export: excel for project %s failed: %v", rec.Id, err)
			return apiError(e, http.StatusInternalServerError, "Failed to generate Excel file")
		}
		return writeAttachment(e, file,
			"application/vnd.openxmlformats-officedocument.spreadsheetml.sheet",
			"quotation.xlsx")
	}
}

func HandleExportPDF(app *pocketbase.PocketBase, registry *services.Registry) func(*core.RequestEvent) error {
	return func(e *core.RequestEvent) error {
		rec, data, err := exportData(app, registry, e)
		if rec == nil {
			return err
		}

		file, err := services.GeneratePDF(data)
		if err != nil {
			log.Printf("export: pdf for project %s failed: %v", rec.Id, err)
			return apiError(e, http.StatusInternalServerError, "Failed to generate PDF file")
		}
		return writeAttachment(e, file, "application/pdf", "quotation.pdf")
	}
}
