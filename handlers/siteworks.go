package handlers

import (
	"log"
	"net/http"
	"strings"

	"github.com/pocketbase/pocketbase"
	"github.com/pocketbase/pocketbase/core"

	"quotewizard/services"
)

// HandleSiteWorksFetch asks the activity-list service for the planned
// works and timeline. The query is taken from the request body when
// given, otherwise composed from the project's survey or BOQ data
// depending on the project type.
func HandleSiteWorksFetch(app *pocketbase.PocketBase, registry *services.Registry, storage *services.MemStorage) func(*core.RequestEvent) error {
	return func(e *core.RequestEvent) error {
		rec, err := findProject(app, e)
		if rec == nil {
			return err
		}

		var body struct {
			Description string `json:"description"`
		}
		if err := e.BindBody(&body); err != nil {
			return apiError(e, http.StatusBadRequest, "Invalid request body")
		}

		isBOQ := rec.GetString("projectType") == "upload_boq"
		query := strings.TrimSpace(body.Description)
		if query == "" {
			if isBOQ {
				query = services.BOQDescription(storage.BOQItemsByProject(rec.Id))
			} else {
				areas := storage.SiteAreasByProject(rec.Id)
				subareasByArea := make(map[string][]services.SiteSubarea, len(areas))
				for _, a := range areas {
					subareasByArea[a.ID] = storage.SiteSubareasByArea(a.ID)
				}
				query = services.SiteVisitDescription(areas, subareasByArea)
			}
		}
		if query == "" {
			return apiError(e, http.StatusBadRequest, "No work description available for this project")
		}

		works, err := services.FetchSiteWorks(e.Request.Context(), registry.Client(), query, isBOQ)
		if err != nil {
			log.Printf("siteworks: fetch for project %s failed: %v", rec.Id, err)
			return apiError(e, http.StatusBadGateway, err.Error())
		}

		registry.Wizard(rec.Id).SetSiteWorks(works)
		return e.JSON(http.StatusOK, works)
	}
}

// HandleSiteWorksView returns the cached site-works list, if any.
func HandleSiteWorksView(app *pocketbase.PocketBase, registry *services.Registry) func(*core.RequestEvent) error {
	return func(e *core.RequestEvent) error {
		rec, err := findProject(app, e)
		if rec == nil {
			return err
		}

		works := registry.Wizard(rec.Id).SiteWorks()
		if works == nil {
			return apiError(e, http.StatusNotFound, "No site works fetched yet")
		}
		return e.JSON(http.StatusOK, works)
	}
}
