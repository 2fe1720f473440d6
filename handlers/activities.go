package handlers

import (
	"net/http"
	"strings"

	"github.com/pocketbase/pocketbase"
	"github.com/pocketbase/pocketbase/core"

	"quotewizard/services"
)

// Manual work categories and their activities, entered during the
// activities wizard step.

func HandleCategoryCreate(app *pocketbase.PocketBase, storage *services.MemStorage) func(*core.RequestEvent) error {
	return func(e *core.RequestEvent) error {
		rec, err := findProject(app, e)
		if rec == nil {
			return err
		}

		var cat services.WorkCategory
		if err := e.BindBody(&cat); err != nil {
			return apiError(e, http.StatusBadRequest, "Invalid request body")
		}
		if strings.TrimSpace(cat.Name) == "" {
			return apiError(e, http.StatusBadRequest, "Category name is required")
		}

		cat.ProjectID = rec.Id
		created := storage.CreateWorkCategory(cat)
		return e.JSON(http.StatusCreated, created)
	}
}

func HandleCategoryList(app *pocketbase.PocketBase, storage *services.MemStorage) func(*core.RequestEvent) error {
	return func(e *core.RequestEvent) error {
		rec, err := findProject(app, e)
		if rec == nil {
			return err
		}
		return e.JSON(http.StatusOK, storage.WorkCategoriesByProject(rec.Id))
	}
}

// HandleCategoryDelete removes the category and all of its activities.
func HandleCategoryDelete(storage *services.MemStorage) func(*core.RequestEvent) error {
	return func(e *core.RequestEvent) error {
		if !storage.DeleteWorkCategory(e.Request.PathValue("id")) {
			return apiError(e, http.StatusNotFound, "Category not found")
		}
		return e.JSON(http.StatusOK, map[string]bool{"deleted": true})
	}
}

func HandleActivityCreate(storage *services.MemStorage) func(*core.RequestEvent) error {
	return func(e *core.RequestEvent) error {
		var act services.WorkActivity
		if err := e.BindBody(&act); err != nil {
			return apiError(e, http.StatusBadRequest, "Invalid request body")
		}
		if strings.TrimSpace(act.Description) == "" {
			return apiError(e, http.StatusBadRequest, "Activity description is required")
		}

		act.CategoryID = e.Request.PathValue("id")
		created := storage.CreateWorkActivity(act)
		return e.JSON(http.StatusCreated, created)
	}
}

func HandleActivityList(storage *services.MemStorage) func(*core.RequestEvent) error {
	return func(e *core.RequestEvent) error {
		return e.JSON(http.StatusOK, storage.WorkActivitiesByCategory(e.Request.PathValue("id")))
	}
}

func HandleActivityDelete(storage *services.MemStorage) func(*core.RequestEvent) error {
	return func(e *core.RequestEvent) error {
		if !storage.DeleteWorkActivity(e.Request.PathValue("id")) {
			return apiError(e, http.StatusNotFound, "Activity not found")
		}
		return e.JSON(http.StatusOK, map[string]bool{"deleted": true})
	}
}
