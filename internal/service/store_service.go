package service

import (
	"log/slog"
	"net/http"
	"strconv"
	"sync"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"github.com/grillburger/backend/internal/cart"
	"github.com/grillburger/backend/internal/catalog"
	"github.com/grillburger/backend/internal/ledger"
	"github.com/grillburger/backend/internal/middleware"
	"github.com/grillburger/backend/internal/models"
	"github.com/grillburger/backend/internal/pricing"
	"github.com/grillburger/backend/internal/recommend"
)

var (
	checkoutsTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "grillburger_checkouts_total",
		Help: "Successful checkouts.",
	})
	orderValue = promauto.NewHistogram(prometheus.HistogramOpts{
		Name:    "grillburger_order_value_pounds",
		Help:    "Order totals at checkout.",
		Buckets: prometheus.ExponentialBuckets(5, 2, 8),
	})
)

// StoreService exposes the catalog, the working cart, checkout, order
// history and recommendations. Carts live in memory, one per account;
// the anonymous browsing cart sits under the empty account ID. There is
// no cross-device merging: within one account the last write wins.
type StoreService struct {
	catalog *catalog.Catalog
	ledger  *ledger.Ledger

	mu    sync.Mutex
	carts map[string]*cart.Cart
}

// NewStoreService creates the storefront service over a catalog and a
// ledger.
func NewStoreService(cat *catalog.Catalog, led *ledger.Ledger) *StoreService {
	return &StoreService{
		catalog: cat,
		ledger:  led,
		carts:   make(map[string]*cart.Cart),
	}
}

func (s *StoreService) cartFor(accountID string) *cart.Cart {
	s.mu.Lock()
	defer s.mu.Unlock()
	c, ok := s.carts[accountID]
	if !ok {
		c = cart.New()
		s.carts[accountID] = c
	}
	return c
}

// ---------- views ----------

type lineView struct {
	ProductID string  `json:"product_id"`
	Name      string  `json:"name"`
	Pack      string  `json:"pack"`
	Portion   string  `json:"portion"`
	Quantity  int     `json:"quantity"`
	BasePrice float64 `json:"base_price"`
	LineTotal float64 `json:"line_total"`
}

type cartView struct {
	Lines    []lineView `json:"lines"`
	Subtotal float64    `json:"subtotal"`
}

type orderView struct {
	ID        string     `json:"id"`
	CreatedAt int64      `json:"created_at"`
	Total     float64    `json:"total"`
	Lines     []lineView `json:"lines"`
}

func toLineViews(lines []models.CartLine) []lineView {
	views := make([]lineView, len(lines))
	for i, l := range lines {
		views[i] = lineView{
			ProductID: l.ProductID,
			Name:      l.Name,
			Pack:      l.Pack,
			Portion:   string(l.Portion),
			Quantity:  l.Quantity,
			BasePrice: l.BasePrice,
			LineTotal: pricing.LineTotal(l),
		}
	}
	return views
}

func toCartView(c *cart.Cart) cartView {
	return cartView{Lines: toLineViews(c.Lines()), Subtotal: c.Subtotal()}
}

func toOrderView(o models.Order) orderView {
	return orderView{ID: o.ID, CreatedAt: o.CreatedAt, Total: o.Total, Lines: toLineViews(o.Lines)}
}

// ---------- catalog ----------

type productListResponse struct {
	Products   []models.Product `json:"products"`
	Categories []string         `json:"categories"`
}

// ListProducts returns the catalog, optionally narrowed by the
// category chip and search query.
func (s *StoreService) ListProducts(w http.ResponseWriter, r *http.Request) {
	products := s.catalog.Filter(r.URL.Query().Get("category"), r.URL.Query().Get("q"))
	writeJSON(w, http.StatusOK, productListResponse{
		Products:   products,
		Categories: s.catalog.Categories(),
	})
}

// GetProduct returns one product for the details sheet.
func (s *StoreService) GetProduct(w http.ResponseWriter, r *http.Request) {
	p, ok := s.catalog.Get(r.PathValue("id"))
	if !ok {
		writeJSON(w, http.StatusNotFound, errorResponse{Error: "product not found"})
		return
	}
	writeJSON(w, http.StatusOK, p)
}

// ---------- cart ----------

type addLineRequest struct {
	ProductID string `json:"product_id"`
	Portion   string `json:"portion"`
	Quantity  int    `json:"quantity"`
}

type quantityRequest struct {
	ProductID string `json:"product_id"`
	Portion   string `json:"portion"`
	Delta     int    `json:"delta"`
}

type portionRequest struct {
	ProductID  string `json:"product_id"`
	Portion    string `json:"portion"`
	NewPortion string `json:"new_portion"`
}

type removeLineRequest struct {
	ProductID string `json:"product_id"`
	Portion   string `json:"portion"`
}

// GetCart returns the working cart for the current session.
func (s *StoreService) GetCart(w http.ResponseWriter, r *http.Request) {
	c := s.cartFor(middleware.GetUserID(r.Context()))
	writeJSON(w, http.StatusOK, toCartView(c))
}

// AddLine adds a product to the cart, merging with an existing line of
// the same product and portion.
func (s *StoreService) AddLine(w http.ResponseWriter, r *http.Request) {
	var req addLineRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	if req.Quantity == 0 {
		req.Quantity = 1
	}

	product, ok := s.catalog.Get(req.ProductID)
	if !ok {
		writeJSON(w, http.StatusNotFound, errorResponse{Error: "product not found"})
		return
	}
	portion, err := pricing.ParsePortion(req.Portion)
	if err != nil {
		writeError(w, err)
		return
	}

	c := s.cartFor(middleware.GetUserID(r.Context()))
	if _, err := c.AddLine(product, portion, req.Quantity); err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, toCartView(c))
}

// UpdateQuantity adjusts a line's quantity by a delta, clamped at 1.
func (s *StoreService) UpdateQuantity(w http.ResponseWriter, r *http.Request) {
	var req quantityRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	portion, err := pricing.ParsePortion(req.Portion)
	if err != nil {
		writeError(w, err)
		return
	}

	c := s.cartFor(middleware.GetUserID(r.Context()))
	if err := c.SetQuantity(models.LineKey{ProductID: req.ProductID, Portion: portion}, req.Delta); err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, toCartView(c))
}

// UpdatePortion moves a line to a new portion, merging lines that
// collide on the new key.
func (s *StoreService) UpdatePortion(w http.ResponseWriter, r *http.Request) {
	var req portionRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	portion, err := pricing.ParsePortion(req.Portion)
	if err != nil {
		writeError(w, err)
		return
	}
	newPortion, err := pricing.ParsePortion(req.NewPortion)
	if err != nil {
		writeError(w, err)
		return
	}

	c := s.cartFor(middleware.GetUserID(r.Context()))
	if err := c.ChangePortion(models.LineKey{ProductID: req.ProductID, Portion: portion}, newPortion); err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, toCartView(c))
}

// RemoveLine deletes a line from the cart.
func (s *StoreService) RemoveLine(w http.ResponseWriter, r *http.Request) {
	var req removeLineRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	portion, err := pricing.ParsePortion(req.Portion)
	if err != nil {
		writeError(w, err)
		return
	}

	c := s.cartFor(middleware.GetUserID(r.Context()))
	if err := c.RemoveLine(models.LineKey{ProductID: req.ProductID, Portion: portion}); err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, toCartView(c))
}

// ---------- checkout & orders ----------

// Checkout freezes the cart into an order. Requires a signed-in
// account; anonymous carts get a 401 here rather than at browse time.
func (s *StoreService) Checkout(w http.ResponseWriter, r *http.Request) {
	accountID := middleware.GetUserID(r.Context())
	c := s.cartFor(accountID)

	order, err := s.ledger.Checkout(r.Context(), accountID, c)
	if err != nil {
		slog.Warn("Checkout failed", "account_id", accountID, "error", err)
		writeError(w, err)
		return
	}

	checkoutsTotal.Inc()
	orderValue.Observe(order.Total)
	writeJSON(w, http.StatusCreated, toOrderView(*order))
}

type orderListResponse struct {
	Orders []orderView `json:"orders"`
}

// ListOrders returns the account's order history, newest first.
func (s *StoreService) ListOrders(w http.ResponseWriter, r *http.Request) {
	history := s.ledger.History(r.Context(), middleware.GetUserID(r.Context()))
	views := make([]orderView, len(history))
	for i, o := range history {
		views[i] = toOrderView(o)
	}
	writeJSON(w, http.StatusOK, orderListResponse{Orders: views})
}

// LatestOrder returns the most recent order for the re-order shortcut.
func (s *StoreService) LatestOrder(w http.ResponseWriter, r *http.Request) {
	order, ok := s.ledger.Latest(r.Context(), middleware.GetUserID(r.Context()))
	if !ok {
		writeJSON(w, http.StatusNotFound, errorResponse{Error: "no orders yet"})
		return
	}
	writeJSON(w, http.StatusOK, toOrderView(order))
}

type reorderRequest struct {
	OrderID string `json:"order_id"`
}

// Reorder loads a past order's lines into the working cart, replacing
// its contents. Backs both "re-order" and "modify"; the ledger is
// untouched.
func (s *StoreService) Reorder(w http.ResponseWriter, r *http.Request) {
	var req reorderRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	accountID := middleware.GetUserID(r.Context())
	var found *models.Order
	for _, o := range s.ledger.History(r.Context(), accountID) {
		if o.ID == req.OrderID {
			found = &o
			break
		}
	}
	if found == nil {
		writeJSON(w, http.StatusNotFound, errorResponse{Error: "order not found"})
		return
	}

	c := s.cartFor(accountID)
	s.ledger.LoadIntoCart(*found, c)
	writeJSON(w, http.StatusOK, toCartView(c))
}

// ---------- recommendations ----------

type recommendationsResponse struct {
	Products []models.Product `json:"products"`
}

// Recommendations returns the account's frequently-bought products,
// re-derived from the order history on every call.
func (s *StoreService) Recommendations(w http.ResponseWriter, r *http.Request) {
	accountID := middleware.GetUserID(r.Context())
	limit := 0
	if raw := r.URL.Query().Get("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n < 0 {
			writeJSON(w, http.StatusBadRequest, errorResponse{Error: "invalid limit"})
			return
		}
		limit = n
	}

	history := s.ledger.History(r.Context(), accountID)
	products := recommend.FrequentlyBought(history, s.catalog, limit)
	writeJSON(w, http.StatusOK, recommendationsResponse{Products: products})
}
