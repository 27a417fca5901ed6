package server

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/gorilla/sessions"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"movie-booking-platform/internal/config"
	"movie-booking-platform/internal/handlers"
	"movie-booking-platform/internal/middleware"
	"movie-booking-platform/internal/services"
	"movie-booking-platform/internal/utils"
)

// Dependencies are the backing stores and clients the API is built on.
// Payments, Hasher, Gatherer and DB are optional.
type Dependencies struct {
	Config   *config.Config
	Users    services.UserRepository
	Fetcher  services.PayloadFetcher
	Sessions sessions.Store
	Payments services.PaymentService
	Hasher   *utils.PasswordHasher
	Gatherer prometheus.Gatherer
	DB       handlers.Pinger
	Now      func() time.Time
}

// Server is the HTTP API.
type Server struct {
	router  chi.Router
	limiter *middleware.RateLimiter
}

func New(deps Dependencies) *Server {
	cfg := deps.Config
	if deps.Now == nil {
		deps.Now = time.Now
	}
	if deps.Payments == nil {
		deps.Payments = services.NewMockPaymentService(cfg.Checkout.PaymentDelay)
	}
	if deps.Gatherer == nil {
		deps.Gatherer = prometheus.DefaultGatherer
	}

	sessionManager := middleware.NewSessionManager(deps.Sessions)

	tmdb := services.NewTMDBClient(deps.Fetcher, cfg.TMDB)
	movieService := services.NewMovieService(tmdb, services.NewMovieMapper(cfg.TMDB.ImageBaseURL, deps.Now))
	bookingService := services.NewBookingService(movieService, cfg.Checkout.PricePerSeat)
	authService := services.NewAuthService(deps.Users, deps.Hasher)
	cartService := services.NewCartService()
	checkoutService := services.NewCheckoutService(authService, cartService, deps.Payments, cfg.Checkout)

	authMiddleware := middleware.NewAuthMiddleware(authService, sessionManager)
	limiter := middleware.NewRateLimiter(10, 15*time.Minute)

	movieHandler := handlers.NewMovieHandler(movieService, bookingService)
	authHandler := handlers.NewAuthHandler(authService, sessionManager)
	profileHandler := handlers.NewProfileHandler(authService, sessionManager)
	cartHandler := handlers.NewCartHandler(cartService, bookingService, sessionManager)
	checkoutHandler := handlers.NewCheckoutHandler(checkoutService, sessionManager)
	healthHandler := handlers.NewHealthHandler(deps.DB)

	r := chi.NewRouter()
	r.Use(chimiddleware.RequestID)
	if cfg.Server.TrustProxy {
		r.Use(chimiddleware.RealIP)
	}
	r.Use(middleware.LoggingMiddleware)
	r.Use(middleware.ErrorHandlingMiddleware)
	r.Use(middleware.SecurityHeadersMiddleware)
	r.Use(middleware.CORSMiddleware(middleware.DefaultCORSConfig()))
	r.Use(chimiddleware.Timeout(60 * time.Second))

	r.NotFound(middleware.NotFoundHandler().ServeHTTP)
	r.MethodNotAllowed(middleware.MethodNotAllowedHandler().ServeHTTP)

	r.Get("/health", healthHandler.Health)
	r.Handle("/metrics", promhttp.HandlerFor(deps.Gatherer, promhttp.HandlerOpts{}))

	r.Route("/api", func(r chi.Router) {
		r.Use(authMiddleware.LoadUser)

		r.Get("/movies", movieHandler.Movies)
		r.Get("/movies/{id}/seats", movieHandler.Seats)
		r.Get("/home", movieHandler.Home)

		r.Route("/auth", func(r chi.Router) {
			r.With(middleware.RateLimit(limiter)).Post("/register", authHandler.Register)
			r.With(middleware.RateLimit(limiter)).Post("/login", authHandler.Login)
			r.Post("/logout", authHandler.Logout)
			r.Get("/me", authHandler.Me)
		})

		r.Route("/cart", func(r chi.Router) {
			r.Get("/", cartHandler.Get)
			r.Delete("/", cartHandler.Clear)
			r.Post("/items", cartHandler.AddItem)
			r.Delete("/items/{id}", cartHandler.RemoveItem)
		})

		r.Group(func(r chi.Router) {
			r.Use(authMiddleware.RequireAuth)

			r.Route("/profile", func(r chi.Router) {
				r.Get("/", profileHandler.Get)
				r.Patch("/", profileHandler.Update)
				r.Get("/tickets", profileHandler.Tickets)
				r.Get("/favorites", profileHandler.Favorites)
				r.Get("/favorites/{movieId}", profileHandler.IsFavorite)
				r.Post("/favorites/{movieId}", profileHandler.AddFavorite)
				r.Delete("/favorites/{movieId}", profileHandler.RemoveFavorite)
			})

			r.Post("/checkout", checkoutHandler.Checkout)
		})
	})

	return &Server{router: r, limiter: limiter}
}

func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.router.ServeHTTP(w, r)
}

// Close stops background work started by New.
func (s *Server) Close() {
	s.limiter.Stop()
}
