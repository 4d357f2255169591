package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	chiMiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/smartintruesdell/CubeCobra/internal/api/handlers"
	"github.com/smartintruesdell/CubeCobra/internal/api/middleware"
	"github.com/smartintruesdell/CubeCobra/internal/service"
	"github.com/smartintruesdell/CubeCobra/internal/websocket"
	"go.uber.org/zap"
)

func NewRouter(services *service.Services, hub *websocket.Hub, logger *zap.SugaredLogger) http.Handler {
	r := chi.NewRouter()

	// Global middleware
	r.Use(chiMiddleware.Logger)
	r.Use(chiMiddleware.Recoverer)
	r.Use(chiMiddleware.RequestID)
	r.Use(middleware.CORS)

	// Health check
	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("OK"))
	})

	requireAuth := middleware.Auth(services.Auth, logger)
	optionalAuth := middleware.OptionalAuth(services.Auth, logger)

	authHandler := handlers.NewAuthHandler(services.Auth, logger)
	cardHandler := handlers.NewCardHandler(services.Card, logger)
	cubeHandler := handlers.NewCubeHandler(services.Cube, services.Pack, services.Analytics, logger)
	draftHandler := handlers.NewDraftHandler(services.Draft, logger)
	featuredHandler := handlers.NewFeaturedHandler(services.Featured, logger)
	wsHandler := handlers.NewWebSocketHandler(hub, services.Auth, logger)

	r.Route("/api/v1", func(r chi.Router) {
		r.Route("/auth", func(r chi.Router) {
			r.Post("/register", authHandler.Register)
			r.Post("/login", authHandler.Login)
			r.Post("/refresh", authHandler.Refresh)

			r.Group(func(r chi.Router) {
				r.Use(requireAuth)
				r.Get("/me", authHandler.Me)
				r.Post("/logout", authHandler.Logout)
			})
		})

		r.Route("/cards", func(r chi.Router) {
			r.Get("/", cardHandler.Lookup)
			r.Get("/{id}", cardHandler.Get)
			r.Get("/{id}/versions", cardHandler.Versions)
			r.With(requireAuth).Post("/sync", cardHandler.Sync)
		})

		r.Route("/cubes", func(r chi.Router) {
			r.With(requireAuth).Get("/", cubeHandler.ListMine)
			r.With(requireAuth).Post("/", cubeHandler.Create)

			r.Route("/{cubeId}", func(r chi.Router) {
				r.Get("/", cubeHandler.Get)
				r.Get("/pack", cubeHandler.Pack)
				r.Get("/pack/{seed}", cubeHandler.ReplayPack)
				r.Get("/recommendations", cubeHandler.Recommendations)
				r.Get("/analytics", cubeHandler.Analytics)
				r.Get("/drafts", draftHandler.ListByCube)
				r.With(optionalAuth).Post("/drafts", draftHandler.Start)

				r.Group(func(r chi.Router) {
					r.Use(requireAuth)
					r.Post("/cards", cubeHandler.AddCards)
					r.Put("/cards/{entryId}", cubeHandler.UpdateCard)
					r.Delete("/cards/{entryId}", cubeHandler.RemoveCard)
					r.Put("/pack-template", cubeHandler.SetPackTemplate)
				})
			})
		})

		r.Route("/drafts/{draftId}", func(r chi.Router) {
			r.Use(optionalAuth)
			r.Get("/", draftHandler.Get)
			r.Post("/seats/{seat}", draftHandler.SubmitSeat)
			r.Post("/redraft/{seat}", draftHandler.Redraft)
		})

		r.Route("/featured", func(r chi.Router) {
			r.Get("/", featuredHandler.List)

			r.Group(func(r chi.Router) {
				r.Use(requireAuth)
				r.Post("/", featuredHandler.Add)
				r.Delete("/{cubeId}", featuredHandler.Remove)
				r.Post("/move", featuredHandler.Move)
				r.Post("/rotate", featuredHandler.Rotate)
			})
		})

		r.Get("/ws", wsHandler.Handle)
	})

	return r
}
