package rest

import (
	"context"
	"net/http"
	"time"

	core_port "listings-service/internal/core/port"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
)

type Server struct {
	httpServer *http.Server
	logger     core_port.LoggerPort
}

// NewRouter собирает маршруты API. Все маршруты объявлений требуют входа.
func NewRouter(
	listings *ListingsHandler,
	dictionaries *DictionariesHandler,
	auth *AuthMiddleware,
	allowedOrigins []string,
	baseLogger core_port.LoggerPort,
) http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.RealIP, LoggerMiddleware(baseLogger), middleware.Recoverer)

	if len(allowedOrigins) > 0 {
		r.Use(cors.Handler(cors.Options{
			AllowedOrigins:   allowedOrigins,
			AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
			AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type", "X-Trace-ID"},
			ExposedHeaders:   []string{"X-Trace-ID"},
			AllowCredentials: true,
			MaxAge:           300,
		}))
	}

	r.Route("/api/v1", func(r chi.Router) {
		r.Get("/health", Health)
		r.Get("/dictionaries", dictionaries.GetDictionaries)

		r.Group(func(r chi.Router) {
			r.Use(auth.Authenticate)

			r.Get("/listings", listings.FindListings)
			r.Post("/listings", listings.CreateListing)
			r.Get("/listings/{listingID}", listings.GetListing)
			r.Put("/listings/{listingID}", listings.UpdateListing)
			r.Delete("/listings/{listingID}", listings.DeleteListing)
			r.Post("/listings/{listingID}/images", listings.AddImage)
		})
	})

	return r
}

func NewServer(port string, handler http.Handler, baseLogger core_port.LoggerPort) *Server {
	return &Server{
		httpServer: &http.Server{
			Addr:              ":" + port,
			Handler:           handler,
			ReadHeaderTimeout: 10 * time.Second,
		},
		logger: baseLogger,
	}
}

func (s *Server) Start() error {
	s.logger.Info("Starting REST server", core_port.Fields{"address": s.httpServer.Addr})
	return s.httpServer.ListenAndServe()
}

func (s *Server) Stop(ctx context.Context) error {
	s.logger.Info("Stopping REST server...", nil)
	return s.httpServer.Shutdown(ctx)
}
