package main

import (
	"log"

	"github.com/pocketbase/pocketbase"
	"github.com/pocketbase/pocketbase/core"

	"quotewizard/collections"
	"quotewizard/handlers"
	"quotewizard/services"
)

func main() {
	app := pocketbase.New()

	cfg, err := services.LoadConfig("quotewizard.yml")
	if err != nil {
		log.Fatal(err)
	}
	registry := services.NewRegistry(services.NewPriceClient(cfg))
	storage := services.NewMemStorage()

	// Create collections and seed data on startup
	app.OnServe().BindFunc(func(se *core.ServeEvent) error {
		collections.Setup(app)
		if err := collections.Seed(app); err != nil {
			log.Printf("Warning: seed data failed: %v", err)
		}
		return se.Next()
	})

	app.OnServe().BindFunc(func(se *core.ServeEvent) error {
		// ── Project CRUD ─────────────────────────────────────────
		se.Router.POST("/api/projects", handlers.HandleProjectCreate(app))
		se.Router.GET("/api/projects", handlers.HandleProjectList(app))
		se.Router.GET("/api/projects/{id}", handlers.HandleProjectView(app))
		se.Router.PATCH("/api/projects/{id}", handlers.HandleProjectUpdate(app))
		se.Router.DELETE("/api/projects/{id}", handlers.HandleProjectDelete(app, registry))

		// ── Site survey ──────────────────────────────────────────
		se.Router.POST("/api/projects/{id}/areas", handlers.HandleAreaCreate(app, storage))
		se.Router.GET("/api/projects/{id}/areas", handlers.HandleAreaList(app, storage))
		se.Router.PUT("/api/areas/{id}", handlers.HandleAreaUpdate(storage))
		se.Router.DELETE("/api/areas/{id}", handlers.HandleAreaDelete(storage))
		se.Router.POST("/api/areas/{id}/subareas", handlers.HandleSubareaCreate(storage))
		se.Router.GET("/api/areas/{id}/subareas", handlers.HandleSubareaList(storage))
		se.Router.PUT("/api/subareas/{id}", handlers.HandleSubareaUpdate(storage))
		se.Router.DELETE("/api/subareas/{id}", handlers.HandleSubareaDelete(storage))

		// ── Work categories and activities ───────────────────────
		se.Router.POST("/api/projects/{id}/categories", handlers.HandleCategoryCreate(app, storage))
		se.Router.GET("/api/projects/{id}/categories", handlers.HandleCategoryList(app, storage))
		se.Router.DELETE("/api/categories/{id}", handlers.HandleCategoryDelete(storage))
		se.Router.POST("/api/categories/{id}/activities", handlers.HandleActivityCreate(storage))
		se.Router.GET("/api/categories/{id}/activities", handlers.HandleActivityList(storage))
		se.Router.DELETE("/api/activities/{id}", handlers.HandleActivityDelete(storage))

		// ── Manual BOQ items + file import ───────────────────────
		se.Router.GET("/api/projects/{id}/boq-items/template", handlers.HandleBOQTemplate())
		se.Router.POST("/api/projects/{id}/boq-items/import", handlers.HandleBOQImport(app, storage))
		se.Router.POST("/api/projects/{id}/boq-items", handlers.HandleBOQItemCreate(app, storage))
		se.Router.GET("/api/projects/{id}/boq-items", handlers.HandleBOQItemList(app, storage))
		se.Router.PUT("/api/boq-items/{id}", handlers.HandleBOQItemUpdate(storage))
		se.Router.DELETE("/api/boq-items/{id}", handlers.HandleBOQItemDelete(storage))

		// ── Site works / timeline ────────────────────────────────
		se.Router.POST("/api/projects/{id}/siteworks", handlers.HandleSiteWorksFetch(app, registry, storage))
		se.Router.GET("/api/projects/{id}/siteworks", handlers.HandleSiteWorksView(app, registry))

		// ── Price aggregation ────────────────────────────────────
		se.Router.POST("/api/projects/{id}/boq/{activity}/classify", handlers.HandleBOQClassify(app, registry))
		se.Router.POST("/api/projects/{id}/boq/{activity}/fetch", handlers.HandleBOQFetch(app, registry))
		se.Router.POST("/api/projects/{id}/boq/{activity}/clear-error", handlers.HandleBOQClearError(app, registry))
		se.Router.POST("/api/projects/{id}/boq/refresh", handlers.HandleBOQRefresh(app, registry))
		se.Router.GET("/api/projects/{id}/boq/table", handlers.HandleBOQTable(app, registry))

		// ── Comparison workflow ──────────────────────────────────
		se.Router.POST("/api/projects/{id}/compare", handlers.HandleCompareOpen(app, registry))
		se.Router.GET("/api/projects/{id}/compare", handlers.HandleCompareView(app, registry))
		se.Router.POST("/api/projects/{id}/compare/select", handlers.HandleCompareSelect(app, registry))
		se.Router.POST("/api/projects/{id}/compare/resolve", handlers.HandleCompareResolve(app, registry))
		se.Router.POST("/api/projects/{id}/compare/keep-both", handlers.HandleCompareKeepBoth(app, registry))
		se.Router.DELETE("/api/projects/{id}/compare", handlers.HandleCompareClose(app, registry))

		// ── Documents and exports ────────────────────────────────
		se.Router.POST("/api/projects/{id}/documents/quotation", handlers.HandleQuotationDocument(app, registry))
		se.Router.POST("/api/projects/{id}/documents/internal-costs", handlers.HandleInternalCostsDocument(app, registry))
		se.Router.GET("/api/projects/{id}/boq/export/excel", handlers.HandleExportExcel(app, registry))
		se.Router.GET("/api/projects/{id}/boq/export/pdf", handlers.HandleExportPDF(app, registry))

		return se.Next()
	})

	if err := app.Start(); err != nil {
		log.Fatal(err)
	}
}
