package routes

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/shopopti/fulfillment-backend/api/controllers"
	fulfillmentcontrollers "github.com/shopopti/fulfillment-backend/api/controllers/fulfillment"
	"github.com/shopopti/fulfillment-backend/api/middleware"
	fulfillmentsvc "github.com/shopopti/fulfillment-backend/internal/fulfillment"
	"github.com/shopopti/fulfillment-backend/pkg/config"
	"github.com/shopopti/fulfillment-backend/pkg/db"
	"github.com/shopopti/fulfillment-backend/pkg/logger"
	"github.com/shopopti/fulfillment-backend/pkg/redis"
)

func NewRouter(
	cfg *config.Config,
	logg *logger.Logger,
	dbP db.Pinger,
	redisClient *redis.Client,
	fulfillmentService fulfillmentsvc.Service,
	metricsHandler http.Handler,
) http.Handler {
	r := chi.NewRouter()
	r.Use(
		middleware.Recoverer(logg),
		middleware.RequestID(logg),
		middleware.Logging(logg),
		middleware.CORS(),
	)

	// A typed nil *redis.Client must not reach the Pinger interface.
	var redisP redis.Pinger
	if redisClient != nil {
		redisP = redisClient
	}

	r.Route("/health", func(r chi.Router) {
		r.Get("/live", controllers.HealthLive(cfg))
		r.Get("/ready", controllers.HealthReady(cfg, logg, dbP, redisP))
	})

	if metricsHandler != nil {
		r.Method(http.MethodGet, "/metrics", metricsHandler)
	}

	rateLimit := int64(cfg.App.RateLimitPerMinute)
	if redisClient == nil {
		rateLimit = 0
	}

	r.Route("/api/v1/fulfillment", func(r chi.Router) {
		r.Use(middleware.Auth(cfg.JWT, logg))
		r.Use(middleware.RateLimit(rateLimit, time.Minute, redisClient, logg))
		r.Post("/", fulfillmentcontrollers.Process(fulfillmentService, logg))
	})

	return r
}
