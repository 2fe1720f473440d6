package handlers

import (
	"log"
	"net/http"
	"strings"

	"github.com/pocketbase/pocketbase"
	"github.com/pocketbase/pocketbase/core"

	"quotewizard/services"
)

var ProjectStatusOptions = []string{"setup", "site_visit", "activities", "pricing", "documents", "completed"}
var ProjectTypeOptions = []string{"site_visit", "upload_boq"}

type projectPayload struct {
	ProjectType      string `json:"projectType"`
	ClientFirstName  string `json:"clientFirstName"`
	ClientSurname    string `json:"clientSurname"`
	ClientPhone      string `json:"clientPhone"`
	ClientEmail      string `json:"clientEmail"`
	SiteAddress      string `json:"siteAddress"`
	GeneralNotes     string `json:"generalNotes"`
	DigitalSignature bool   `json:"digitalSignature"`
	Status           string `json:"status"`
}

func projectResponse(rec *core.Record) map[string]any {
	return map[string]any{
		"id":               rec.Id,
		"projectType":      rec.GetString("projectType"),
		"clientFirstName":  rec.GetString("clientFirstName"),
		"clientSurname":    rec.GetString("clientSurname"),
		"clientPhone":      rec.GetString("clientPhone"),
		"clientEmail":      rec.GetString("clientEmail"),
		"siteAddress":      rec.GetString("siteAddress"),
		"generalNotes":     rec.GetString("generalNotes"),
		"digitalSignature": rec.GetBool("digitalSignature"),
		"status":           rec.GetString("status"),
		"created":          rec.GetString("created"),
		"updated":          rec.GetString("updated"),
	}
}

func validateProjectPayload(p projectPayload, requireIdentity bool) map[string]string {
	errors := services.ValidateClientContact(map[string]string{
		"clientPhone": p.ClientPhone,
		"clientEmail": p.ClientEmail,
	})

	if requireIdentity {
		if strings.TrimSpace(p.ClientFirstName) == "" {
			errors["clientFirstName"] = "Client first name is required"
		}
		if strings.TrimSpace(p.ClientSurname) == "" {
			errors["clientSurname"] = "Client surname is required"
		}
		validType := false
		for _, t := range ProjectTypeOptions {
			if p.ProjectType == t {
				validType = true
				break
			}
		}
		if !validType {
			errors["projectType"] = "Project type must be site_visit or upload_boq"
		}
	}

	if p.Status != "" {
		validStatus := false
		for _, s := range ProjectStatusOptions {
			if p.Status == s {
				validStatus = true
				break
			}
		}
		if !validStatus {
			errors["status"] = "Unknown project status"
		}
	}
	return errors
}

func HandleProjectCreate(app *pocketbase.PocketBase) func(*core.RequestEvent) error {
	return func(e *core.RequestEvent) error {
		var p projectPayload
		if err := e.BindBody(&p); err != nil {
			return apiError(e, http.StatusBadRequest, "Invalid request body")
		}

		if errors := validateProjectPayload(p, true); len(errors) > 0 {
			return e.JSON(http.StatusBadRequest, map[string]any{
				"error":  "Validation failed",
				"fields": errors,
			})
		}

		col, err := app.FindCollectionByNameOrId("projects")
		if err != nil {
			return apiError(e, http.StatusInternalServerError, "Projects collection unavailable")
		}

		rec := core.NewRecord(col)
		rec.Set("projectType", p.ProjectType)
		rec.Set("clientFirstName", strings.TrimSpace(p.ClientFirstName))
		rec.Set("clientSurname", strings.TrimSpace(p.ClientSurname))
		rec.Set("clientPhone", strings.TrimSpace(p.ClientPhone))
		rec.Set("clientEmail", strings.TrimSpace(p.ClientEmail))
		rec.Set("siteAddress", strings.TrimSpace(p.SiteAddress))
		rec.Set("generalNotes", p.GeneralNotes)
		rec.Set("digitalSignature", p.DigitalSignature)
		status := p.Status
		if status == "" {
			status = "setup"
		}
		rec.Set("status", status)

		if err := app.Save(rec); err != nil {
			log.Printf("projects: failed to create project: %v", err)
			return apiError(e, http.StatusInternalServerError, "Failed to create project")
		}

		return e.JSON(http.StatusCreated, projectResponse(rec))
	}
}

func HandleProjectList(app *pocketbase.PocketBase) func(*core.RequestEvent) error {
	return func(e *core.RequestEvent) error {
		records, err := app.FindRecordsByFilter("projects", "id != ''", "-created", 0, 0)
		if err != nil {
			log.Printf("projects: failed to list projects: %v", err)
			return apiError(e, http.StatusInternalServerError, "Failed to list projects")
		}

		out := make([]map[string]any, 0, len(records))
		for _, rec := range records {
			out = append(out, projectResponse(rec))
		}
		return e.JSON(http.StatusOK, out)
	}
}

func HandleProjectView(app *pocketbase.PocketBase) func(*core.RequestEvent) error {
	return func(e *core.RequestEvent) error {
		rec, err := findProject(app, e)
		if rec == nil {
			return err
		}
		return e.JSON(http.StatusOK, projectResponse(rec))
	}
}

func HandleProjectUpdate(app *pocketbase.PocketBase) func(*core.RequestEvent) error {
	return func(e *core.RequestEvent) error {
		rec, err := findProject(app, e)
		if rec == nil {
			return err
		}

		var p projectPayload
		if err := e.BindBody(&p); err != nil {
			return apiError(e, http.StatusBadRequest, "Invalid request body")
		}

		if errors := validateProjectPayload(p, false); len(errors) > 0 {
			return e.JSON(http.StatusBadRequest, map[string]any{
				"error":  "Validation failed",
				"fields": errors,
			})
		}

		// Only non-empty fields overwrite, same merge rule as the survey store.
		setIfPresent := func(field, value string) {
			if strings.TrimSpace(value) != "" {
				rec.Set(field, strings.TrimSpace(value))
			}
		}
		setIfPresent("clientFirstName", p.ClientFirstName)
		setIfPresent("clientSurname", p.ClientSurname)
		setIfPresent("clientPhone", p.ClientPhone)
		setIfPresent("clientEmail", p.ClientEmail)
		setIfPresent("siteAddress", p.SiteAddress)
		setIfPresent("status", p.Status)
		if p.GeneralNotes != "" {
			rec.Set("generalNotes", p.GeneralNotes)
		}
		rec.Set("digitalSignature", p.DigitalSignature)

		if err := app.Save(rec); err != nil {
			log.Printf("projects: failed to update project %s: %v", rec.Id, err)
			return apiError(e, http.StatusInternalServerError, "Failed to update project")
		}
		return e.JSON(http.StatusOK, projectResponse(rec))
	}
}

// HandleProjectDelete removes the record and discards any in-memory wizard
// state held for the project.
func HandleProjectDelete(app *pocketbase.PocketBase, registry *services.Registry) func(*core.RequestEvent) error {
	return func(e *core.RequestEvent) error {
		rec, err := findProject(app, e)
		if rec == nil {
			return err
		}

		if err := app.Delete(rec); err != nil {
			log.Printf("projects: failed to delete project %s: %v", rec.Id, err)
			return apiError(e, http.StatusInternalServerError, "Failed to delete project")
		}

		registry.Drop(rec.Id)
		log.Printf("projects: deleted project %s", rec.Id)
		return e.JSON(http.StatusOK, map[string]bool{"deleted": true})
	}
}
