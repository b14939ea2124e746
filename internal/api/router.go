// Package api wires the HTTP surface: routing, authentication, and the
// JSON handlers over the plot, catalog, and stage services.
package api

import (
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/rs/cors"

	"github.com/stageplot/stageplot-go/internal/config"
	"github.com/stageplot/stageplot-go/internal/services/catalog"
	"github.com/stageplot/stageplot-go/internal/services/plots"
	"github.com/stageplot/stageplot-go/internal/services/pubsub"
	"github.com/stageplot/stageplot-go/internal/services/stages"
)

// Deps carries everything the router needs.
type Deps struct {
	Config  *config.Config
	Plots   *plots.Service
	Catalog *catalog.Service
	Stages  *stages.Service
	Events  *pubsub.PubSub
}

// NewRouter builds the full route tree. All /api routes require a valid
// bearer token; mutations outside a user's own plots additionally require
// the admin role.
func NewRouter(deps Deps) *chi.Mux {
	router := chi.NewRouter()

	router.Use(middleware.RequestID)
	router.Use(middleware.RealIP)
	router.Use(middleware.Logger)
	router.Use(middleware.Recoverer)
	router.Use(middleware.Timeout(60 * time.Second))

	corsMiddleware := cors.New(cors.Options{
		AllowedOrigins:   []string{deps.Config.CORSOrigin, "http://localhost:3000", "http://localhost:4000"},
		AllowedMethods:   []string{"GET", "POST", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type", "X-CSRF-Token"},
		AllowCredentials: true,
		Debug:            deps.Config.IsDevelopment(),
	})
	router.Use(corsMiddleware.Handler)

	plotHandler := NewPlotHandler(deps.Plots, deps.Events)
	catalogHandler := NewCatalogHandler(deps.Catalog)
	stageHandler := NewStageHandler(deps.Stages)

	authed := Authenticator(deps.Config.JWTSecret)
	admin := func(r chi.Router) chi.Router {
		return r.With(authed, RequireAdmin)
	}

	router.Route("/api", func(r chi.Router) {
		// Plots are user-owned: every route needs an authenticated subject
		r.Route("/plots", func(r chi.Router) {
			r.Use(authed)
			r.Get("/", plotHandler.List)
			r.Post("/", plotHandler.Save)
			r.Get("/ws", plotHandler.Stream)
			r.Get("/{id}", plotHandler.Get)
			r.Delete("/{id}", plotHandler.Delete)
		})

		// Catalog, stage, and template reads are public; mutations are
		// admin-only
		r.Route("/fixtures", func(r chi.Router) {
			r.Get("/", catalogHandler.ListFixtureTypes)
			r.Get("/{id}", catalogHandler.GetFixtureType)
			admin(r).Post("/", catalogHandler.SaveFixtureType)
			admin(r).Delete("/{id}", catalogHandler.DeleteFixtureType)
		})

		r.Route("/categories", func(r chi.Router) {
			r.Get("/", catalogHandler.ListCategories)
			r.Get("/{id}", catalogHandler.GetCategory)
			r.Get("/{id}/root", catalogHandler.Root)
			r.Get("/{id}/ancestors", catalogHandler.Ancestors)
			r.Get("/{id}/descendants", catalogHandler.Descendants)
			r.Get("/{id}/siblings", catalogHandler.Siblings)
			admin(r).Post("/", catalogHandler.SaveCategory)
			admin(r).Delete("/{id}", catalogHandler.DeleteCategory)
		})

		r.Route("/stages", func(r chi.Router) {
			r.Get("/", stageHandler.ListStages)
			r.Get("/{id}", stageHandler.GetStage)
			admin(r).Post("/", stageHandler.SaveStage)
			admin(r).Delete("/{id}", stageHandler.DeleteStage)
		})

		r.Route("/templates", func(r chi.Router) {
			r.Get("/", stageHandler.ListTemplates)
			r.Get("/{id}", stageHandler.GetTemplate)
			admin(r).Post("/", stageHandler.CreateTemplate)
			admin(r).Delete("/{id}", stageHandler.DeleteTemplate)
		})
	})

	return router
}
