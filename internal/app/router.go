package app

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"

	"github.com/iec-msi/quotation-backend/internal/auth"
	"github.com/iec-msi/quotation-backend/internal/gatesso"
	"github.com/iec-msi/quotation-backend/internal/masterdata/accessories"
	"github.com/iec-msi/quotation-backend/internal/masterdata/bankaccounts"
	"github.com/iec-msi/quotation-backend/internal/masterdata/products"
	"github.com/iec-msi/quotation-backend/internal/sales/customers"
	"github.com/iec-msi/quotation-backend/internal/sales/quotations"
)

// RouterParams groups dependencies for building the HTTP router.
type RouterParams struct {
	Logger *slog.Logger
	Config *Config

	Auth *auth.Middleware

	QuotationHandler   *quotations.Handler
	ProductHandler     *products.Handler
	AccessoryHandler   *accessories.Handler
	BankAccountHandler *bankaccounts.Handler
	CustomerHandler    *customers.Handler
	DirectoryHandler   *gatesso.Handler
}

// NewRouter constructs the chi.Router with the default stack.
func NewRouter(params RouterParams) http.Handler {
	r := chi.NewRouter()

	for _, mw := range MiddlewareStack(MiddlewareConfig{
		Logger: params.Logger,
		Config: params.Config,
	}) {
		r.Use(mw)
	}

	r.Use(chimw.Logger)

	r.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte(`{"status":"ok"}`))
	})

	r.Group(func(r chi.Router) {
		r.Use(params.Auth.RequireActor)

		r.Route("/api/v1", func(r chi.Router) {
			params.QuotationHandler.MountRoutes(r)
			if params.ProductHandler != nil {
				params.ProductHandler.MountRoutes(r)
			}
			if params.AccessoryHandler != nil {
				params.AccessoryHandler.MountRoutes(r)
			}
			if params.BankAccountHandler != nil {
				params.BankAccountHandler.MountRoutes(r)
			}
			if params.CustomerHandler != nil {
				params.CustomerHandler.MountRoutes(r)
			}
			if params.DirectoryHandler != nil {
				params.DirectoryHandler.MountRoutes(r)
			}
		})
	})

	return r
}
