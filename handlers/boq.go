package handlers

import (
	"log"
	"net/http"

	"github.com/pocketbase/pocketbase"
	"github.com/pocketbase/pocketbase/core"

	"quotewizard/services"
)

// Price aggregation endpoints: classification, per-source fetches and
// the table projections built from the wizard's store.

// HandleBOQClassify runs the category classification for one activity
// and caches the result, returning the stored record.
func HandleBOQClassify(app *pocketbase.PocketBase, registry *services.Registry) func(*core.RequestEvent) error {
	return func(e *core.RequestEvent) error {
		rec, err := findProject(app, e)
		if rec == nil {
			return err
		}
		activity := e.Request.PathValue("activity")
		if activity == "" {
			return apiError(e, http.StatusBadRequest, "Missing activity")
		}

		w := registry.Wizard(rec.Id)
		cls := registry.Client().FetchCategoryData(e.Request.Context(), activity)
		w.Store.SetCategoryData(activity, cls)
		if cls.Failed() {
			log.Printf("boq: classification for %q failed: %s%s", activity, cls.Error, cls.RawAnswer)
		}

		return e.JSON(http.StatusOK, w.Store.Record(activity))
	}
}

// HandleBOQFetch runs the price search for one activity against one
// source and merges the outcome into the store. Stale completions are
// dropped by the store's generation guard.
func HandleBOQFetch(app *pocketbase.PocketBase, registry *services.Registry) func(*core.RequestEvent) error {
	return func(e *core.RequestEvent) error {
		rec, err := findProject(app, e)
		if rec == nil {
			return err
		}
		activity := e.Request.PathValue("activity")
		if activity == "" {
			return apiError(e, http.StatusBadRequest, "Missing activity")
		}
		source, err := services.ParseSource(e.Request.URL.Query().Get("source"))
		if err != nil {
			return apiError(e, http.StatusBadRequest, err.Error())
		}

		w := registry.Wizard(rec.Id)
		gen := w.Store.BeginSourceFetch(activity, source)
		res := registry.Client().FetchActivitySource(e.Request.Context(), w.Store, activity, source)
		w.Store.MergeSourceItems(activity, source, gen, res.Items, res.Error, res.RawAnswer)

		return e.JSON(http.StatusOK, w.Store.Record(activity))
	}
}

// HandleBOQRefresh re-runs classification and fetch for every timeline
// activity still missing data for the source, in timeline order.
func HandleBOQRefresh(app *pocketbase.PocketBase, registry *services.Registry) func(*core.RequestEvent) error {
	return func(e *core.RequestEvent) error {
		rec, err := findProject(app, e)
		if rec == nil {
			return err
		}
		source, err := services.ParseSource(e.Request.URL.Query().Get("source"))
		if err != nil {
			return apiError(e, http.StatusBadRequest, err.Error())
		}

		w := registry.Wizard(rec.Id)
		if err := w.RefreshMissing(e.Request.Context(), registry.Client(), source); err != nil {
			if err == services.ErrNoTimeline {
				return apiError(e, http.StatusConflict, err.Error())
			}
			log.Printf("boq: refresh for project %s failed: %v", rec.Id, err)
			return apiError(e, http.StatusBadGateway, err.Error())
		}

		tl := w.Timeline()
		return e.JSON(http.StatusOK, map[string]any{
			"missing": services.MissingForSource(w.Store, tl.Activities, source),
			"loading": w.Store.Loading(),
		})
	}
}

// HandleBOQTable returns the flattened table projection. With ?sorted=1
// the rows follow the fetched timeline's activity order, which requires
// a timeline to be present.
func HandleBOQTable(app *pocketbase.PocketBase, registry *services.Registry) func(*core.RequestEvent) error {
	return func(e *core.RequestEvent) error {
		rec, err := findProject(app, e)
		if rec == nil {
			return err
		}

		w := registry.Wizard(rec.Id)
		var items []services.PriceLineItem
		if e.Request.URL.Query().Get("sorted") == "1" {
			tl := w.Timeline()
			if tl == nil {
				return apiError(e, http.StatusConflict, services.ErrNoTimeline.Error())
			}
			items = services.SortedTableItems(w.Store, tl.Activities)
		} else {
			items = services.AllTableItems(w.Store)
		}

		return e.JSON(http.StatusOK, map[string]any{
			"items":   items,
			"loading": w.Store.Loading(),
		})
	}
}

// HandleBOQClearError wipes a failed classification so the activity can
// be retried.
func HandleBOQClearError(app *pocketbase.PocketBase, registry *services.Registry) func(*core.RequestEvent) error {
	return func(e *core.RequestEvent) error {
		rec, err := findProject(app, e)
		if rec == nil {
			return err
		}
		activity := e.Request.PathValue("activity")
		if activity == "" {
			return apiError(e, http.StatusBadRequest, "Missing activity")
		}

		w := registry.Wizard(rec.Id)
		w.Store.ClearCategoryError(activity)
		return e.JSON(http.StatusOK, w.Store.Record(activity))
	}
}
