package http

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"

	"github.com/MrJamesThe3rd/ledger/internal/app"
	"github.com/MrJamesThe3rd/ledger/internal/http/budget"
	"github.com/MrJamesThe3rd/ledger/internal/http/category"
	"github.com/MrJamesThe3rd/ledger/internal/http/export"
	"github.com/MrJamesThe3rd/ledger/internal/http/importcsv"
	"github.com/MrJamesThe3rd/ledger/internal/http/matching"
	ledgermw "github.com/MrJamesThe3rd/ledger/internal/http/middleware"
	"github.com/MrJamesThe3rd/ledger/internal/http/payment"
	"github.com/MrJamesThe3rd/ledger/internal/http/record"
	"github.com/MrJamesThe3rd/ledger/internal/http/stats"
)

type Options struct {
	// AuthSecret enables bearer token auth on /api/v1 when set.
	AuthSecret  string
	CORSOrigins []string
}

func New(a *app.App, opts Options) http.Handler {
	var (
		recordsV1    = record.NewHandler(a.Records)
		categoriesV1 = category.NewHandler(a.Categories)
		methodsV1    = payment.NewHandler(a.Methods)
		budgetsV1    = budget.NewHandler(a.Budgets, a.DefaultThreshold)
		statsV1      = stats.NewHandler(a.Stats)
		importV1     = importcsv.NewHandler(a.Importer)
		rulesV1      = matching.NewHandler(a.Rules)
		exportV1     = export.NewHandler(a.Exporter)
	)

	router := chi.NewRouter()

	router.Use(middleware.Logger)
	router.Use(middleware.Recoverer)

	if len(opts.CORSOrigins) > 0 {
		router.Use(cors.Handler(cors.Options{
			AllowedOrigins:   opts.CORSOrigins,
			AllowedMethods:   []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
			AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type"},
			AllowCredentials: true,
			MaxAge:           300,
		}))
	}

	router.Get("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusNoContent)
	})

	router.Route("/api/v1", func(r chi.Router) {
		if opts.AuthSecret != "" {
			r.Use(ledgermw.Auth(opts.AuthSecret))
		}

		r.Route("/records", func(r chi.Router) {
			r.Use(middleware.AllowContentType("application/json"))
			recordsV1.Routes(r)
		})

		r.Route("/categories", categoriesV1.Routes)
		r.Route("/payment-methods", methodsV1.Routes)
		r.Route("/budgets", budgetsV1.Routes)
		r.Route("/stats", statsV1.Routes)
		r.Route("/import", importV1.Routes)
		r.Route("/rules", rulesV1.Routes)
		r.Route("/export", exportV1.Routes)
	})

	return router
}
