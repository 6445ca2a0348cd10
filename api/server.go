package api

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/mux"

	"zillow-wholesale/config"
	"zillow-wholesale/metrics"
	"zillow-wholesale/models"
	"zillow-wholesale/services"
	"zillow-wholesale/storage"
	"zillow-wholesale/utils"
)

// Server is the read-only HTTP API over presets, price ranges and stored
// call sheets.
type Server struct {
	router  *mux.Router
	logger  *utils.Logger
	metrics *metrics.Registry
	reader  storage.ListingReader
	base    config.SearchConfig
	http    *http.Server
}

// NewServer wires the routes. base is the search configuration used when a
// request names no preset. reg and reader may be nil; the matching routes
// then answer 503.
func NewServer(logger *utils.Logger, reg *metrics.Registry, reader storage.ListingReader, base config.SearchConfig) *Server {
	s := &Server{
		router:  mux.NewRouter(),
		logger:  logger,
		metrics: reg,
		reader:  reader,
		base:    base.Clone(),
	}
	s.setupRoutes()
	s.http = &http.Server{
		Handler:      s.router,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 10 * time.Second,
		IdleTimeout:  60 * time.Second,
	}
	return s
}

func (s *Server) setupRoutes() {
	s.router.Use(s.requestIDMiddleware)
	s.router.Use(s.requestLoggingMiddleware)

	s.router.HandleFunc("/healthz", s.handleHealth).Methods(http.MethodGet)
	s.router.Handle("/metrics", s.metricsHandler()).Methods(http.MethodGet)

	api := s.router.PathPrefix("/api").Subrouter()
	api.HandleFunc("/presets", s.handlePresets).Methods(http.MethodGet)
	api.HandleFunc("/price-range", s.handlePriceRange).Methods(http.MethodGet)
	api.HandleFunc("/listings", s.handleListings).Methods(http.MethodGet)

	s.router.NotFoundHandler = http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		writeError(w, http.StatusNotFound, "not found")
	})
}

// Router exposes the handler, mainly for tests.
func (s *Server) Router() http.Handler {
	return s.router
}

// Start listens on addr until Shutdown is called.
func (s *Server) Start(addr string) error {
	s.http.Addr = addr
	s.logger.Info("[api] Listening on %s", addr)
	if err := s.http.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

// Shutdown gracefully stops a started server.
func (s *Server) Shutdown(ctx context.Context) error {
	s.logger.Info("[api] Shutting down")
	return s.http.Shutdown(ctx)
}

type presetView struct {
	Name            string  `json:"name"`
	TargetROI       float64 `json:"target_roi"`
	FeeRate         float64 `json:"fee_rate"`
	DownPaymentRate float64 `json:"down_payment_rate"`
	CashPurchase    bool    `json:"cash_purchase"`
	LocationType    string  `json:"location_type"`
	RadiusMiles     int     `json:"radius_miles"`
	MinDaysOnMarket int     `json:"min_days_on_market"`
}

type priceRangeView struct {
	Preset         string              `json:"preset,omitempty"`
	AvgMonthlyRent float64             `json:"avg_monthly_rent"`
	TargetROI      float64             `json:"target_roi"`
	MinPrice       int64               `json:"min_price"`
	MaxPrice       int64               `json:"max_price"`
	Params         config.SearchParams `json:"params"`
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (s *Server) handlePresets(w http.ResponseWriter, r *http.Request) {
	names := config.PresetNames()
	views := make([]presetView, 0, len(names))
	for _, name := range names {
		cfg, err := config.Preset(name)
		if err != nil {
			writeError(w, http.StatusInternalServerError, err.Error())
			return
		}
		views = append(views, newPresetView(name, cfg))
	}
	writeJSON(w, http.StatusOK, views)
}

func (s *Server) handlePriceRange(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()

	rentParam := q.Get("avg_rent")
	if rentParam == "" {
		writeError(w, http.StatusBadRequest, "avg_rent is required")
		return
	}
	rent, err := strconv.ParseFloat(rentParam, 64)
	if err != nil {
		writeError(w, http.StatusBadRequest, "avg_rent must be a number")
		return
	}

	cfg := s.base.Clone()
	preset := q.Get("preset")
	if preset != "" {
		if cfg, err = config.Preset(preset); err != nil {
			writeError(w, http.StatusBadRequest, err.Error())
			return
		}
	}

	resolved, err := services.ResolvePriceRange(cfg, rent)
	s.observePriceRange(err)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	writeJSON(w, http.StatusOK, priceRangeView{
		Preset:         preset,
		AvgMonthlyRent: rent,
		TargetROI:      resolved.TargetROI,
		MinPrice:       resolved.PriceRange.Min,
		MaxPrice:       resolved.PriceRange.Max,
		Params:         resolved.ResolveSearchParameters(),
	})
}

func (s *Server) handleListings(w http.ResponseWriter, r *http.Request) {
	if s.reader == nil {
		writeError(w, http.StatusServiceUnavailable, "listing storage is not configured")
		return
	}

	var (
		listings []*models.Listing
		err      error
	)
	if session := r.URL.Query().Get("session"); session != "" {
		listings, err = s.reader.FetchSession(session)
	} else {
		listings, err = s.reader.FetchAll()
	}
	if err != nil {
		s.logger.Error("[api] Fetch listings failed: %v", err)
		writeError(w, http.StatusInternalServerError, "could not load listings")
		return
	}
	if listings == nil {
		listings = []*models.Listing{}
	}
	writeJSON(w, http.StatusOK, listings)
}

func (s *Server) metricsHandler() http.Handler {
	if s.metrics == nil {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			writeError(w, http.StatusServiceUnavailable, "metrics are not enabled")
		})
	}
	return s.metrics.Handler()
}

func (s *Server) observePriceRange(err error) {
	if s.metrics == nil {
		return
	}
	result := "ok"
	if err != nil {
		result = "invalid"
	}
	s.metrics.PriceRangeResults.WithLabelValues(result).Inc()
}

// requestIDMiddleware tags each response with a short request id.
func (s *Server) requestIDMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("X-Request-ID", uuid.New().String()[:8])
		next.ServeHTTP(w, r)
	})
}

func (s *Server) requestLoggingMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		wrapper := &responseWrapper{ResponseWriter: w, statusCode: http.StatusOK}
		next.ServeHTTP(wrapper, r)

		s.logger.Debug("[api] %s %s %s %d %v", w.Header().Get("X-Request-ID"),
			r.Method, r.URL.Path, wrapper.statusCode, time.Since(start))
	})
}

type responseWrapper struct {
	http.ResponseWriter
	statusCode int
}

func (rw *responseWrapper) WriteHeader(code int) {
	rw.statusCode = code
	rw.ResponseWriter.WriteHeader(code)
}

func newPresetView(name string, cfg config.SearchConfig) presetView {
	return presetView{
		Name:            name,
		TargetROI:       cfg.TargetROI,
		FeeRate:         cfg.Management.FeeRate(),
		DownPaymentRate: cfg.Investment.DownPaymentRate(),
		CashPurchase:    cfg.Investment.CashPurchase,
		LocationType:    cfg.Location.Type(),
		RadiusMiles:     cfg.Location.RadiusMiles(),
		MinDaysOnMarket: cfg.MinDaysOnMarket,
	}
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"error": msg})
}
