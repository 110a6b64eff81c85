// Package service exposes the storefront core as a JSON API: one
// endpoint per engine operation, thin handlers over the cart, ledger
// and catalog.
package service

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/grillburger/backend/internal/auth"
	"github.com/grillburger/backend/internal/middleware"
)

// NewHandler assembles the API routes with their middleware. Catalog
// reads are public, cart mutation works with or without a session, and
// history/recommendations require one.
func NewHandler(authSvc *AuthService, store *StoreService, jwtManager *auth.JWTManager) http.Handler {
	optional := middleware.OptionalAuth(jwtManager)
	required := middleware.RequireAuth(jwtManager)

	mux := http.NewServeMux()

	mux.HandleFunc("POST /api/v1/auth/register", authSvc.Register)
	mux.HandleFunc("POST /api/v1/auth/login", authSvc.Login)
	mux.Handle("GET /api/v1/auth/me", required(http.HandlerFunc(authSvc.CurrentUser)))

	mux.HandleFunc("GET /api/v1/products", store.ListProducts)
	mux.HandleFunc("GET /api/v1/products/{id}", store.GetProduct)

	mux.Handle("GET /api/v1/cart", optional(http.HandlerFunc(store.GetCart)))
	mux.Handle("POST /api/v1/cart/add", optional(http.HandlerFunc(store.AddLine)))
	mux.Handle("POST /api/v1/cart/quantity", optional(http.HandlerFunc(store.UpdateQuantity)))
	mux.Handle("POST /api/v1/cart/portion", optional(http.HandlerFunc(store.UpdatePortion)))
	mux.Handle("POST /api/v1/cart/remove", optional(http.HandlerFunc(store.RemoveLine)))

	// Checkout is optional-auth on purpose: the ledger turns a missing
	// account into its own error, which maps to 401.
	mux.Handle("POST /api/v1/checkout", optional(http.HandlerFunc(store.Checkout)))

	mux.Handle("GET /api/v1/orders", required(http.HandlerFunc(store.ListOrders)))
	mux.Handle("GET /api/v1/orders/latest", required(http.HandlerFunc(store.LatestOrder)))
	mux.Handle("POST /api/v1/orders/reorder", required(http.HandlerFunc(store.Reorder)))

	mux.Handle("GET /api/v1/recommendations", required(http.HandlerFunc(store.Recommendations)))

	mux.Handle("GET /metrics", promhttp.Handler())

	return middleware.RequestLogger(middleware.CORS(middleware.Metrics(mux)))
}
