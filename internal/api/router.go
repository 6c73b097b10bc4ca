package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"go.uber.org/zap"

	"github.com/ndewijer/Fund-Holdings-Backend/internal/api/handlers"
	custommiddleware "github.com/ndewijer/Fund-Holdings-Backend/internal/api/middleware"
	"github.com/ndewijer/Fund-Holdings-Backend/internal/config"
	"github.com/ndewijer/Fund-Holdings-Backend/internal/metrics"
	"github.com/ndewijer/Fund-Holdings-Backend/internal/service"
)

// Services are the application services the router dispatches to.
type Services struct {
	System      *service.SystemService
	Account     *service.AccountService
	Holding     *service.HoldingService
	Transaction *service.TransactionService
	Conversion  *service.ConversionService
	Settlement  *service.SettlementService
	Fund        *service.FundService
	Calendar    service.TradingCalendar
}

// NewRouter creates and configures the HTTP router
func NewRouter(s Services, cfg *config.Config, log *zap.Logger, m *metrics.Metrics) http.Handler {
	r := chi.NewRouter()

	// Global middleware
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(custommiddleware.Logger(log))
	r.Use(custommiddleware.Metrics(m))
	r.Use(middleware.Recoverer)

	// CORS middleware
	corsMiddleware := custommiddleware.NewCORS(cfg.CORS.AllowedOrigins)
	r.Use(corsMiddleware.Handler)

	r.Handle("/metrics", m.Handler())

	accountHandler := handlers.NewAccountHandler(s.Account)
	holdingHandler := handlers.NewHoldingHandler(s.Holding)
	transactionHandler := handlers.NewTransactionHandler(s.Transaction)
	conversionHandler := handlers.NewConversionHandler(s.Conversion)

	// API routes
	r.Route("/api", func(r chi.Router) {
		// System namespace
		r.Route("/system", func(r chi.Router) {
			systemHandler := handlers.NewSystemHandler(s.System)
			r.Get("/health", systemHandler.Health)
			r.Get("/version", systemHandler.Version)
		})

		r.Route("/account", func(r chi.Router) {
			r.Get("/", accountHandler.Accounts)
			r.Post("/", accountHandler.CreateAccount)

			r.Route("/{uuid}", func(r chi.Router) {
				r.Use(custommiddleware.ValidateUUIDMiddleware)
				r.Get("/", accountHandler.GetAccount)
				r.Put("/", accountHandler.UpdateAccount)
				r.Delete("/", accountHandler.DeleteAccount)
				r.Get("/summary", accountHandler.AccountSummary)
				r.Get("/holding", holdingHandler.HoldingsPerAccount)
				r.Get("/transaction", transactionHandler.TransactionsPerAccount)
				r.Get("/conversion", conversionHandler.ConversionsPerAccount)
			})
		})

		r.Route("/holding", func(r chi.Router) {
			r.Post("/", holdingHandler.CreateHolding)

			r.Route("/{uuid}", func(r chi.Router) {
				r.Use(custommiddleware.ValidateUUIDMiddleware)
				r.Get("/", holdingHandler.GetHolding)
				r.Put("/", holdingHandler.UpdateHolding)
				r.Delete("/", holdingHandler.DeleteHolding)
			})
		})

		r.Route("/transaction", func(r chi.Router) {
			r.Post("/", transactionHandler.CreateTransaction)
			r.With(custommiddleware.ValidateUUIDMiddleware).Get("/{uuid}", transactionHandler.GetTransaction)
		})

		r.Post("/conversion", conversionHandler.CreateConversion)

		r.Route("/settlement", func(r chi.Router) {
			settlementHandler := handlers.NewSettlementHandler(s.Settlement)
			r.Post("/run", settlementHandler.Run)
		})

		r.Route("/fund/{code}", func(r chi.Router) {
			fundHandler := handlers.NewFundHandler(s.Fund)
			r.Get("/nav", fundHandler.Nav)
			r.Post("/nav", fundHandler.ImportNav)
			r.Get("/estimate", fundHandler.Estimate)
		})

		r.Route("/calendar", func(r chi.Router) {
			calendarHandler := handlers.NewCalendarHandler(s.Calendar)
			r.Get("/resolve", calendarHandler.Resolve)
			r.Post("/reload", calendarHandler.Reload)
		})
	})

	return r
}
