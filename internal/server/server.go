// Package server wires the HTTP API: routing, request decoding, and the
// mapping from service errors to status codes.
package server

import (
	"log/slog"
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/gramkosh/gramkosh/internal/auth"
	"github.com/gramkosh/gramkosh/internal/middleware"
	"github.com/gramkosh/gramkosh/internal/policy"
	"github.com/gramkosh/gramkosh/internal/service"
	"github.com/gramkosh/gramkosh/internal/storage"
)

// Server holds the services behind the HTTP API.
type Server struct {
	auth       *service.AuthService
	villages   *service.VillageService
	budgets    *service.BudgetService
	categories *service.CategoryService
	expenses   *service.ExpenseService

	authenticator *middleware.Authenticator
	registry      *prometheus.Registry
	logger        *slog.Logger
}

// New assembles the full service stack on top of a store.
func New(store storage.Store, jwtManager *auth.JWTManager, adminEmail string, logger *slog.Logger) *Server {
	resolver := policy.NewResolver(store)

	registry := prometheus.NewRegistry()
	registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)

	return &Server{
		auth:       service.NewAuthService(store, jwtManager, adminEmail, logger),
		villages:   service.NewVillageService(store, logger),
		budgets:    service.NewBudgetService(store, logger),
		categories: service.NewCategoryService(store, resolver, logger),
		expenses:   service.NewExpenseService(store, resolver, logger),
		authenticator: middleware.NewAuthenticator(jwtManager, store, func(w http.ResponseWriter, r *http.Request, err error) {
			writeError(w, err)
		}),
		registry: registry,
		logger:   logger,
	}
}

// Handler builds the routing table. Everything except registration,
// login, the public village list, and the operational endpoints sits
// behind authentication.
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()

	// Public
	mux.HandleFunc("POST /auth/register", s.handleRegister)
	mux.HandleFunc("POST /auth/login", s.handleLogin)
	mux.HandleFunc("GET /villages", s.handleListVillagesPublic)
	mux.HandleFunc("GET /healthz", s.handleHealthz)
	mux.Handle("GET /metrics", promhttp.HandlerFor(s.registry, promhttp.HandlerOpts{}))

	// Protected
	protected := func(pattern string, h http.HandlerFunc) {
		mux.Handle(pattern, s.authenticator.RequireAuth(h))
	}

	protected("GET /auth/me", s.handleMe)

	protected("POST /villages", s.handleCreateVillage)
	protected("GET /villages/me", s.handleMyVillage)
	protected("GET /villages/{id}", s.handleGetVillage)
	protected("PATCH /villages/{id}", s.handleUpdateVillage)
	protected("DELETE /villages/{id}", s.handleDeleteVillage)

	// By-parent listings are query parameters on the collections
	// (?village_id=, ?budget_id=, ?category_id=): a
	// /categories/budget/{id} path would conflict with
	// /categories/{id}/remaining in the routing table.
	protected("GET /budgets", s.handleListBudgets)
	protected("POST /budgets", s.handleCreateBudget)
	protected("GET /budgets/{id}", s.handleGetBudget)
	protected("PATCH /budgets/{id}", s.handleUpdateBudget)
	protected("DELETE /budgets/{id}", s.handleDeleteBudget)

	protected("GET /categories", s.handleListCategories)
	protected("POST /categories", s.handleCreateCategory)
	protected("GET /categories/{id}", s.handleGetCategory)
	protected("PATCH /categories/{id}", s.handleUpdateCategory)
	protected("DELETE /categories/{id}", s.handleDeleteCategory)
	protected("GET /categories/{id}/remaining", s.handleCategoryRemaining)

	protected("GET /expenses", s.handleListExpenses)
	protected("POST /expenses", s.handleCreateExpense)
	protected("GET /expenses/{id}", s.handleGetExpense)
	protected("PATCH /expenses/{id}", s.handleUpdateExpense)
	protected("DELETE /expenses/{id}", s.handleDeleteExpense)

	metrics := middleware.NewMetrics(s.registry)
	return middleware.Logging(metrics.Instrument(middleware.CORS(mux)))
}

func (s *Server) handleHealthz(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// principal fetches the principal RequireAuth attached. Reaching a
// protected handler without one is a programming error in the routing
// table, reported as a 500.
func principal(w http.ResponseWriter, r *http.Request) (policy.Principal, bool) {
	p, ok := middleware.GetPrincipal(r.Context())
	if !ok {
		writeJSON(w, http.StatusInternalServerError, errorResponse{Code: "internal_error", Message: "internal server error"})
		return policy.Principal{}, false
	}
	return p, true
}
