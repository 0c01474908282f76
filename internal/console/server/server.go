package server

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/xela07ax/bizdash/internal/console/handler"
	"github.com/xela07ax/bizdash/internal/infra"
	"github.com/xela07ax/bizdash/internal/infra/auth"
	"go.uber.org/zap"
	"golang.org/x/time/rate"
)

type ConsoleServer struct {
	router *chi.Mux
	logger *zap.Logger
	cfg    *infra.Config

	// Проверка токенов источников (RS256). nil: приём открыт
	authValidator auth.TokenValidator
	gatherer      prometheus.Gatherer
	limiter       *rate.Limiter

	contractHandler *handler.ContractHandler // /api/v1/schemas, /api/v1/contracts
}

// NewConsoleServer инициализирует сервер со всеми зависимостями
func NewConsoleServer(
	cfg *infra.Config,
	logger *zap.Logger,
	validator auth.TokenValidator,
	gatherer prometheus.Gatherer,
	contractH *handler.ContractHandler,
) *ConsoleServer {
	limit := rate.Limit(cfg.Server.RateLimit)
	if cfg.Server.RateLimit <= 0 {
		limit = rate.Inf
	}

	s := &ConsoleServer{
		router:          chi.NewRouter(),
		logger:          logger.Named("console-api"),
		cfg:             cfg,
		authValidator:   validator,
		gatherer:        gatherer,
		limiter:         rate.NewLimiter(limit, cfg.Server.RateBurst),
		contractHandler: contractH,
	}

	s.routes()
	return s
}

func (s *ConsoleServer) routes() {
	r := s.router

	// --- 1. Глобальные инфраструктурные Middleware (для всех) ---
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(TracingMiddleware)
	r.Use(AccessLog(s.logger))
	r.Use(middleware.Recoverer)

	// --- 2. ПУБЛИЧНЫЕ РОУТЫ ---
	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})
	r.Handle("/metrics", promhttp.HandlerFor(s.gatherer, promhttp.HandlerOpts{}))

	// Чистая проверка контрактов (формы UI, CI источников данных)
	r.Route("/api/v1/schemas", func(r chi.Router) {
		r.Get("/", s.contractHandler.ListSchemas)
		r.Post("/{entity}/validate", s.contractHandler.Validate)
	})

	// --- 3. ПРИЁМ КОНТРАКТОВ (токен + лимит) ---
	r.Group(func(r chi.Router) {
		if s.authValidator != nil {
			r.Use(auth.NewMiddleware(s.authValidator, s.cfg.Auth.RequiredScope, s.logger))
		} else {
			s.logger.Warn("auth public key is not configured: contract ingestion is open")
		}
		r.Use(RateLimit(s.limiter))

		r.Post("/api/v1/contracts/{entity}", s.contractHandler.Submit)
	})
}

// ServeHTTP позволяет использовать ConsoleServer как стандартный http.Handler
func (s *ConsoleServer) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.router.ServeHTTP(w, r)
}
