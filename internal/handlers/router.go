package handlers

import (
	"net/http"
	"time"

	"github.com/itschristianpantilon/BarangayFinanceTrack/internal/config"
	"github.com/itschristianpantilon/BarangayFinanceTrack/internal/middleware"
	"github.com/itschristianpantilon/BarangayFinanceTrack/internal/review"
	"github.com/itschristianpantilon/BarangayFinanceTrack/internal/websocket"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	gorillaws "github.com/gorilla/websocket"
	"github.com/sirupsen/logrus"
)

// Deps collects everything the HTTP surface talks to.
type Deps struct {
	Users         UserStore
	Collections   CollectionStore
	Disbursements DisbursementStore
	DFUR          DFURStore
	Budget        BudgetStore
	Comments      CommentStore
	Audit         AuditStore
	Review        ReviewEngine
	Aggregates    Aggregator
	IDs           IDGenerator
	Hub           *websocket.Hub
	Metrics       MetricsHandler
	Logger        logrus.FieldLogger
}

// MetricsHandler is the subset of the metrics registry the router needs.
type MetricsHandler interface {
	Handler() http.Handler
	Instrument(next http.Handler) http.Handler
}

type Handler struct {
	cfg           config.Config
	users         UserStore
	collections   CollectionStore
	disbursements DisbursementStore
	dfur          DFURStore
	budget        BudgetStore
	comments      CommentStore
	audit         AuditStore
	review        ReviewEngine
	aggregates    Aggregator
	ids           IDGenerator
	hub           *websocket.Hub
	upgrader      gorillaws.Upgrader
	metrics       MetricsHandler
	loginLimiter  *middleware.RateLimiter
	log           logrus.FieldLogger
	now           func() time.Time
}

func New(cfg config.Config, deps Deps) *Handler {
	log := deps.Logger
	if log == nil {
		log = logrus.StandardLogger()
	}
	hub := deps.Hub
	if hub == nil {
		hub = websocket.NewHub()
	}
	return &Handler{
		cfg:           cfg,
		users:         deps.Users,
		collections:   deps.Collections,
		disbursements: deps.Disbursements,
		dfur:          deps.DFUR,
		budget:        deps.Budget,
		comments:      deps.Comments,
		audit:         deps.Audit,
		review:        deps.Review,
		aggregates:    deps.Aggregates,
		ids:           deps.IDs,
		hub:           hub,
		upgrader:      websocket.NewUpgrader(cfg.AllowedOrigins),
		metrics:       deps.Metrics,
		loginLimiter:  middleware.NewRateLimiter(cfg.LoginRatePerMinute),
		log:           log,
		now:           time.Now,
	}
}

func (h *Handler) Routes() http.Handler {
	router := chi.NewRouter()
	router.Use(chimiddleware.RequestID)
	router.Use(middleware.TrustedRealIP(h.cfg.TrustedProxies))
	router.Use(middleware.RequestLogger(h.log))
	router.Use(chimiddleware.Recoverer)
	if h.metrics != nil {
		router.Use(h.metrics.Instrument)
	}
	router.Use(cors.Handler(cors.Options{
		AllowedOrigins:   h.cfg.AllowedOrigins,
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type", "X-Request-ID"},
		AllowCredentials: true,
		MaxAge:           300,
	}))

	if h.metrics != nil {
		router.Method(http.MethodGet, "/metrics", h.metrics.Handler())
	}
	router.Get("/health", h.Health)

	router.Route("/api", func(api chi.Router) {
		api.Get("/health", h.Health)
		api.With(h.loginLimiter.Handler).Post("/login", h.Login)
		api.Post("/insert-comment", h.InsertComment)
		api.Get("/ws/reviews", h.WSReviews)

		api.Group(func(r chi.Router) {
			r.Use(middleware.Auth(h.cfg.JWTSecret))
			if h.cfg.QueryTimeout > 0 {
				r.Use(chimiddleware.Timeout(h.cfg.QueryTimeout))
			}

			r.Get("/get-collection", h.ListCollections)
			r.Get("/get-disbursement", h.ListDisbursements)
			r.Get("/get-dfur-project", h.ListDFUR)
			r.Post("/get-budget-entries", h.ListBudgetEntries)
			r.Get("/get-budget-allocations", h.ListBudgetAllocations)
			r.Get("/get-total-data-dfur-project", h.DFURSummary)
			r.Get("/get-total-amount-collection", h.TotalCollections)
			r.Get("/get-total-amount-disbursement", h.TotalDisbursements)
			r.Get("/get-total-amount-budget-allocation", h.TotalBudgetAllocation)
			r.Get("/dashboard/summary", h.Dashboard)
			r.Post("/get-data-range", h.DataRange)
			r.Get("/export/sre", h.ExportSRE)
			r.Get("/review-history", h.ReviewHistory)

			r.Group(func(r chi.Router) {
				r.Use(middleware.RequireAction(review.ActionCreate))
				r.Post("/insert-collection", h.InsertCollection)
				r.Put("/put-collection", h.UpdateCollection)
				r.Delete("/delete-collection", h.DeleteCollection)
				r.Post("/insert-disbursement", h.InsertDisbursement)
				r.Put("/put-disbursement", h.UpdateDisbursement)
				r.Delete("/delete-disbursement", h.DeleteDisbursement)
				r.Post("/insert-dfur-project", h.InsertDFUR)
				r.Put("/update-dfur-project", h.UpdateDFUR)
				r.Delete("/delete-dfur-project", h.DeleteDFUR)
				r.Post("/post-budget-entries", h.InsertBudgetEntry)
				r.Put("/put-budget-entries", h.UpdateBudgetEntry)
				r.Delete("/delete-budget-entries", h.DeleteBudgetEntry)
				r.Post("/insert-budget-allocation", h.InsertBudgetAllocation)
				r.Get("/{kind}/generate_id", h.GenerateID)
			})

			r.Group(func(r chi.Router) {
				r.Use(middleware.RequireAction(review.ActionFlag))
				r.Post("/put-flag-comment", h.FlagComment)
				r.Post("/insert-flag-comment-{kind}", h.FlagComment)
			})

			r.With(middleware.RequireAction(review.ActionApprove)).Post("/put-approval", h.Approval)

			r.Group(func(r chi.Router) {
				r.Use(middleware.RequireAdmin)
				r.Get("/get-all-users", h.ListUsers)
				r.Post("/add-user", h.AddUser)
				r.Put("/edit-user", h.EditUser)
				r.Delete("/delete-user", h.DeleteUser)
				r.Get("/get-comments", h.ListComments)
			})
		})
	})
	return router
}

func (h *Handler) Health(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}
