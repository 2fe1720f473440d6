package handlers

import (
	"log"
	"net/http"
	"strings"

	"github.com/pocketbase/pocketbase"
	"github.com/pocketbase/pocketbase/core"

	"quotewizard/services"
)

// Manual bill-of-quantities rows, entered by hand or imported from a
// CSV/xlsx upload for upload_boq projects.

func HandleBOQItemCreate(app *pocketbase.PocketBase, storage *services.MemStorage) func(*core.RequestEvent) error {
	return func(e *core.RequestEvent) error {
		rec, err := findProject(app, e)
		if rec == nil {
			return err
		}

		var item services.ManualBOQItem
		if err := e.BindBody(&item); err != nil {
			return apiError(e, http.StatusBadRequest, "Invalid request body")
		}
		if strings.TrimSpace(item.Description) == "" {
			return apiError(e, http.StatusBadRequest, "Item description is required")
		}
		if !services.ValidatePriceSource(item.PriceSource) {
			return apiError(e, http.StatusBadRequest, "Price list must be one of dei, pat, piemonte")
		}

		item.ProjectID = rec.Id
		created := storage.CreateBOQItem(item)
		return e.JSON(http.StatusCreated, created)
	}
}

func HandleBOQItemList(app *pocketbase.PocketBase, storage *services.MemStorage) func(*core.RequestEvent) error {
	return func(e *core.RequestEvent) error {
		rec, err := findProject(app, e)
		if rec == nil {
			return err
		}
		return e.JSON(http.StatusOK, storage.BOQItemsByProject(rec.Id))
	}
}

func HandleBOQItemUpdate(storage *services.MemStorage) func(*core.RequestEvent) error {
	return func(e *core.RequestEvent) error {
		var updates services.ManualBOQItem
		if err := e.BindBody(&updates); err != nil {
			return apiError(e, http.StatusBadRequest, "Invalid request body")
		}

		item, ok := storage.UpdateBOQItem(e.Request.PathValue("id"), updates)
		if !ok {
			return apiError(e, http.StatusNotFound, "BOQ item not found")
		}
		return e.JSON(http.StatusOK, item)
	}
}

func HandleBOQItemDelete(storage *services.MemStorage) func(*core.RequestEvent) error {
	return func(e *core.RequestEvent) error {
		if !storage.DeleteBOQItem(e.Request.PathValue("id")) {
			return apiError(e, http.StatusNotFound, "BOQ item not found")
		}
		return e.JSON(http.StatusOK, map[string]bool{"deleted": true})
	}
}

// HandleBOQTemplate serves the empty import template.
func HandleBOQTemplate() func(*core.RequestEvent) error {
	return func(e *core.RequestEvent) error {
		data, err := services.GenerateBOQTemplate()
		if err != nil {
			log.Printf("boq_items: failed to generate template: %v", err)
			return apiError(e, http.StatusInternalServerError, "Failed to generate template")
		}
		return writeAttachment(e, data,
			"application/vnd.openxmlformats-officedocument.spreadsheetml.sheet",
			"boq_template.xlsx")
	}
}

// HandleBOQImport validates an uploaded BOQ file. Rows are only created
// when the whole file is clean; otherwise the validation errors are
// returned (or, with ?report=1, a downloadable error spreadsheet).
func HandleBOQImport(app *pocketbase.PocketBase, storage *services.MemStorage) func(*core.RequestEvent) error {
	return func(e *core.RequestEvent) error {
		rec, err := findProject(app, e)
		if rec == nil {
			return err
		}

		file, header, err := e.Request.FormFile("file")
		if err != nil {
			return apiError(e, http.StatusBadRequest, "Missing file upload")
		}
		defer file.Close()

		result, err := services.ValidateBOQFile(file, header.Filename)
		if err != nil {
			return apiError(e, http.StatusBadRequest, err.Error())
		}

		if len(result.Errors) > 0 {
			if e.Request.URL.Query().Get("report") == "1" {
				report, err := services.GenerateErrorReport(result.Errors)
				if err != nil {
					log.Printf("boq_items: failed to generate error report: %v", err)
					return apiError(e, http.StatusInternalServerError, "Failed to generate error report")
				}
				return writeAttachment(e, report,
					"application/vnd.openxmlformats-officedocument.spreadsheetml.sheet",
					"import_errors.xlsx")
			}
			return e.JSON(http.StatusUnprocessableEntity, result)
		}

		items := services.BOQItemsFromRows(rec.Id, result.ParsedRows)
		created := make([]services.ManualBOQItem, 0, len(items))
		for _, item := range items {
			created = append(created, storage.CreateBOQItem(item))
		}
		log.Printf("boq_items: imported %d items into project %s from %s",
			len(created), rec.Id, header.Filename)

		return e.JSON(http.StatusCreated, map[string]any{
			"imported": len(created),
			"items":    created,
		})
	}
}
