package handlers

import (
	"net/http"
	"strings"

	"github.com/pocketbase/pocketbase"
	"github.com/pocketbase/pocketbase/core"

	"quotewizard/services"
)

// Survey CRUD over the in-memory store. Areas hang off a project,
// subareas off an area. Nothing here touches PocketBase except the
// project existence check on creation.

func HandleAreaCreate(app *pocketbase.PocketBase, storage *services.MemStorage) func(*core.RequestEvent) error {
	return func(e *core.RequestEvent) error {
		rec, err := findProject(app, e)
		if rec == nil {
			return err
		}

		var area services.SiteArea
		if err := e.BindBody(&area); err != nil {
			return apiError(e, http.StatusBadRequest, "Invalid request body")
		}
		if strings.TrimSpace(area.Name) == "" {
			return apiError(e, http.StatusBadRequest, "Area name is required")
		}

		area.ProjectID = rec.Id
		created := storage.CreateSiteArea(area)
		return e.JSON(http.StatusCreated, created)
	}
}

func HandleAreaList(app *pocketbase.PocketBase, storage *services.MemStorage) func(*core.RequestEvent) error {
	return func(e *core.RequestEvent) error {
		rec, err := findProject(app, e)
		if rec == nil {
			return err
		}
		return e.JSON(http.StatusOK, storage.SiteAreasByProject(rec.Id))
	}
}

func HandleAreaUpdate(storage *services.MemStorage) func(*core.RequestEvent) error {
	return func(e *core.RequestEvent) error {
		var updates services.SiteArea
		if err := e.BindBody(&updates); err != nil {
			return apiError(e, http.StatusBadRequest, "Invalid request body")
		}

		area, ok := storage.UpdateSiteArea(e.Request.PathValue("id"), updates)
		if !ok {
			return apiError(e, http.StatusNotFound, "Area not found")
		}
		return e.JSON(http.StatusOK, area)
	}
}

// HandleAreaDelete removes the area and all of its subareas.
func HandleAreaDelete(storage *services.MemStorage) func(*core.RequestEvent) error {
	return func(e *core.RequestEvent) error {
		if !storage.DeleteSiteArea(e.Request.PathValue("id")) {
			return apiError(e, http.StatusNotFound, "Area not found")
		}
		return e.JSON(http.StatusOK, map[string]bool{"deleted": true})
	}
}

func HandleSubareaCreate(storage *services.MemStorage) func(*core.RequestEvent) error {
	return func(e *core.RequestEvent) error {
		var sub services.SiteSubarea
		if err := e.BindBody(&sub); err != nil {
			return apiError(e, http.StatusBadRequest, "Invalid request body")
		}
		if strings.TrimSpace(sub.Name) == "" {
			return apiError(e, http.StatusBadRequest, "Subarea name is required")
		}

		sub.AreaID = e.Request.PathValue("id")
		created := storage.CreateSiteSubarea(sub)
		return e.JSON(http.StatusCreated, created)
	}
}

func HandleSubareaList(storage *services.MemStorage) func(*core.RequestEvent) error {
	return func(e *core.RequestEvent) error {
		return e.JSON(http.StatusOK, storage.SiteSubareasByArea(e.Request.PathValue("id")))
	}
}

func HandleSubareaUpdate(storage *services.MemStorage) func(*core.RequestEvent) error {
	return func(e *core.RequestEvent) error {
		var updates services.SiteSubarea
		if err := e.BindBody(&updates); err != nil {
			return apiError(e, http.StatusBadRequest, "Invalid request body")
		}

		sub, ok := storage.UpdateSiteSubarea(e.Request.PathValue("id"), updates)
		if !ok {
			return apiError(e, http.StatusNotFound, "Subarea not found")
		}
		return e.JSON(http.StatusOK, sub)
	}
}

func HandleSubareaDelete(storage *services.MemStorage) func(*core.RequestEvent) error {
	return func(e *core.RequestEvent) error {
		if !storage.DeleteSiteSubarea(e.Request.PathValue("id")) {
			return apiError(e, http.StatusNotFound, "Subarea not found")
		}
		return e.JSON(http.StatusOK, map[string]bool{"deleted": true})
	}
}
