package main

import (
	"context"
	"log"

	"github.com/pocketbase/pocketbase"
	"github.com/pocketbase/pocketbase/apis"
	"github.com/pocketbase/pocketbase/core"

	"studyquote/collections"
	"studyquote/handlers"
	"studyquote/services"
)

func main() {
	app := pocketbase.New()
	cfg := services.LoadConfig()

	registry := services.NewCartRegistry(services.NewRecordCartRemote(app))
	generator := services.NewQuotationGenerator(app, cfg)

	// Create collections and seed reference data on startup
	app.OnServe().BindFunc(func(se *core.ServeEvent) error {
		collections.Setup(app)
		if err := collections.SeedReferenceStudies(app); err != nil {
			log.Printf("Warning: reference seed failed: %v", err)
		}
		if err := collections.MigrateCartConfigNumbers(app); err != nil {
			log.Printf("Warning: config number migration failed: %v", err)
		}
		if n, err := services.ReloadReferenceTables(app); err != nil {
			log.Printf("Warning: reference reload failed: %v", err)
		} else {
			log.Printf("reference: loaded %d studies", n)
		}
		return se.Next()
	})

	// Retry cart writes that did not reach the database
	app.Cron().MustAdd("cart_reconcile", cfg.ReconcileSchedule, func() {
		if n := registry.ReconcileAll(context.Background()); n > 0 {
			log.Printf("cart_reconcile: synced %d pending cart changes", n)
		}
	})

	app.OnServe().BindFunc(func(se *core.ServeEvent) error {
		api := se.Router.Group("/api")
		api.BindFunc(handlers.CartOwnerMiddleware())

		// ── Reference data ───────────────────────────────────────
		api.GET("/reference/options", handlers.HandleReferenceOptions())
		api.GET("/reference/{productType}/areas", handlers.HandleReferenceAreas())
		api.GET("/reference/{productType}/studies", handlers.HandleReferenceStudies(app))

		// ── Configurator ─────────────────────────────────────────
		api.POST("/configurator/add", handlers.HandleConfiguratorAdd(registry))
		api.GET("/configurator/edit", handlers.HandleConfiguratorEdit())
		api.POST("/configurator/transition", handlers.HandleConfiguratorTransition())

		// ── Cart (export must be before {id} routes) ─────────────
		api.GET("/cart/export/excel", handlers.HandleCartExportExcel(registry, generator))
		api.GET("/cart", handlers.HandleCartList(registry))
		api.PUT("/cart", handlers.HandleCartUpdate(registry))
		api.DELETE("/cart", handlers.HandleCartClear(registry))
		api.GET("/cart/{id}/edit", handlers.HandleCartEdit(registry))
		api.POST("/cart/{id}/save-for-later", handlers.HandleSaveForLater(registry))
		api.DELETE("/cart/{id}", handlers.HandleCartRemove(registry))

		// ── Saved for later ──────────────────────────────────────
		api.POST("/saved/{id}/add-to-order", handlers.HandleAddToOrder(registry))
		api.DELETE("/saved/{id}", handlers.HandleSavedRemove(registry))

		// ── Quotations ───────────────────────────────────────────
		api.POST("/quotations", handlers.HandleQuotationCreate(registry, generator))
		api.GET("/quotations/{number}/pdf", handlers.HandleQuotationPDF(app, cfg))
		api.GET("/quotations/{number}/excel", handlers.HandleQuotationExcel(app))

		// ── Price list administration ───────────────────────────
		admin := se.Router.Group("/api/admin/price-list")
		admin.Bind(apis.RequireSuperuserAuth())
		admin.GET("/template", handlers.HandlePriceListTemplate())
		admin.GET("/export", handlers.HandlePriceListExport())
		admin.POST("/validate", handlers.HandlePriceListValidate())
		admin.POST("/errors", handlers.HandlePriceListErrorReport())
		admin.POST("/import", handlers.HandlePriceListCommit(app))

		return se.Next()
	})

	if err := app.Start(); err != nil {
		log.Fatal(err)
	}
}
