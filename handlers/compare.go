package handlers

import (
	"net/http"

	"github.com/pocketbase/pocketbase"
	"github.com/pocketbase/pocketbase/core"

	"quotewizard/services"
)

// Comparison workflow: one modal session per wizard, opened against a
// row of the sorted table and resolved with keep-current, replace or
// keep-both.

// tableRows returns the projection the comparison row index refers to:
// timeline-sorted when a timeline exists, insertion order otherwise.
func tableRows(w *services.Wizard) []services.PriceLineItem {
	if tl := w.Timeline(); tl != nil {
		return services.SortedTableItems(w.Store, tl.Activities)
	}
	return services.AllTableItems(w.Store)
}

func HandleCompareOpen(app *pocketbase.PocketBase, registry *services.Registry) func(*core.RequestEvent) error {
	return func(e *core.RequestEvent) error {
		rec, err := findProject(app, e)
		if rec == nil {
			return err
		}

		var body struct {
			RowIndex int    `json:"rowIndex"`
			Source   string `json:"source"`
		}
		if err := e.BindBody(&body); err != nil {
			return apiError(e, http.StatusBadRequest, "Invalid request body")
		}
		source, err := services.ParseSource(body.Source)
		if err != nil {
			return apiError(e, http.StatusBadRequest, err.Error())
		}

		w := registry.Wizard(rec.Id)
		rows := tableRows(w)
		if body.RowIndex < 0 || body.RowIndex >= len(rows) {
			return apiError(e, http.StatusBadRequest, "Row index out of range")
		}

		session, err := w.Comparer().Open(e.Request.Context(), rows[body.RowIndex], body.RowIndex, source)
		if err != nil {
			return apiError(e, http.StatusBadGateway, err.Error())
		}
		return e.JSON(http.StatusOK, session)
	}
}

func HandleCompareView(app *pocketbase.PocketBase, registry *services.Registry) func(*core.RequestEvent) error {
	return func(e *core.RequestEvent) error {
		rec, err := findProject(app, e)
		if rec == nil {
			return err
		}

		session := registry.Wizard(rec.Id).Comparer().Session()
		if session == nil {
			return apiError(e, http.StatusNotFound, services.ErrNoSession.Error())
		}
		return e.JSON(http.StatusOK, session)
	}
}

func HandleCompareSelect(app *pocketbase.PocketBase, registry *services.Registry) func(*core.RequestEvent) error {
	return func(e *core.RequestEvent) error {
		rec, err := findProject(app, e)
		if rec == nil {
			return err
		}

		var body struct {
			Column string `json:"column"`
		}
		if err := e.BindBody(&body); err != nil {
			return apiError(e, http.StatusBadRequest, "Invalid request body")
		}

		comparer := registry.Wizard(rec.Id).Comparer()
		if err := comparer.Select(body.Column); err != nil {
			if err == services.ErrNoSession {
				return apiError(e, http.StatusNotFound, err.Error())
			}
			return apiError(e, http.StatusBadRequest, err.Error())
		}
		return e.JSON(http.StatusOK, comparer.Session())
	}
}

func HandleCompareResolve(app *pocketbase.PocketBase, registry *services.Registry) func(*core.RequestEvent) error {
	return func(e *core.RequestEvent) error {
		rec, err := findProject(app, e)
		if rec == nil {
			return err
		}

		resolution, err := registry.Wizard(rec.Id).Comparer().Resolve()
		if err != nil {
			switch err {
			case services.ErrNoSession:
				return apiError(e, http.StatusNotFound, err.Error())
			case services.ErrNoSelection:
				return apiError(e, http.StatusConflict, err.Error())
			}
			return apiError(e, http.StatusInternalServerError, err.Error())
		}
		return e.JSON(http.StatusOK, map[string]string{"resolution": resolution})
	}
}

func HandleCompareKeepBoth(app *pocketbase.PocketBase, registry *services.Registry) func(*core.RequestEvent) error {
	return func(e *core.RequestEvent) error {
		rec, err := findProject(app, e)
		if rec == nil {
			return err
		}

		resolution, err := registry.Wizard(rec.Id).Comparer().KeepBoth()
		if err != nil {
			return apiError(e, http.StatusNotFound, err.Error())
		}
		return e.JSON(http.StatusOK, map[string]string{"resolution": resolution})
	}
}

func HandleCompareClose(app *pocketbase.PocketBase, registry *services.Registry) func(*core.RequestEvent) error {
	return func(e *core.RequestEvent) error {
		rec, err := findProject(app, e)
		if rec == nil {
			return err
		}

		registry.Wizard(rec.Id).Comparer().Close()
		return e.JSON(http.StatusOK, map[string]bool{"closed": true})
	}
}
