package server

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"regexp"
	"strconv"
	"strings"
	"time"

	"fortuneblock/application/dto"
	"fortuneblock/domain/entities"
	"fortuneblock/domain/interfaces"
	"fortuneblock/domain/services"
	"fortuneblock/infrastructure/observability"

	"github.com/ethereum/go-ethereum/common"
	"github.com/go-chi/chi"
	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/cors"
	log "github.com/sirupsen/logrus"
)

var txHashPattern = regexp.MustCompile(`^0x[0-9a-fA-F]{64}$`)

// Config holds HTTP server configuration
type Config struct {
	Addr           string
	AllowedOrigins []string
	CurrencySymbol string
	RequestTimeout time.Duration
}

// profileReader is implemented by application.ProfileLookup
type profileReader interface {
	Lookup(ctx context.Context, addr common.Address) (*entities.UserProfile, bool, error)
}

// historyReader is implemented by application.TransactionHistory
type historyReader interface {
	List(ctx context.Context, addr common.Address, limit int) ([]*entities.ContractTransaction, error)
	Get(ctx context.Context, hash common.Hash) (*entities.ContractTransaction, error)
}

// Response is the envelope for every JSON response
type Response struct {
	Success bool        `json:"success"`
	Message string      `json:"message,omitempty"`
	Error   string      `json:"error,omitempty"`
	Data    interface{} `json:"data,omitempty"`
}

// Server serves the read-only JSON API
type Server struct {
	config         Config
	lotteryService interfaces.LotteryService
	profiles       profileReader
	history        historyReader
	now            func() time.Time
	httpServer     *http.Server
}

// New creates a new API server
func New(config Config, lotteryService interfaces.LotteryService, profiles profileReader, history historyReader) *Server {
	if config.RequestTimeout <= 0 {
		config.RequestTimeout = 30 * time.Second
	}
	if len(config.AllowedOrigins) == 0 {
		config.AllowedOrigins = []string{"*"}
	}
	return &Server{
		config:         config,
		lotteryService: lotteryService,
		profiles:       profiles,
		history:        history,
		now:            time.Now,
	}
}

// Router builds the HTTP handler
func (s *Server) Router() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(requestLogger)
	r.Use(middleware.Recoverer)
	r.Use(middleware.Timeout(s.config.RequestTimeout))
	r.Use(cors.New(cors.Options{
		AllowedOrigins: s.config.AllowedOrigins,
		AllowedMethods: []string{http.MethodGet, http.MethodOptions},
		AllowedHeaders: []string{"Accept", "Content-Type"},
		MaxAge:         300,
	}).Handler)

	r.Get("/healthz", s.handleHealth)
	r.Route("/api", func(r chi.Router) {
		r.Get("/home", s.handleHome)
		r.Get("/lotteries", s.handleLotteries)
		r.Get("/lotteries/{id}", s.handleLottery)
		r.Get("/profiles/{address}", s.handleProfile)
		r.Get("/profiles/{address}/transactions", s.handleTransactions)
		r.Get("/transactions/{hash}", s.handleTransaction)
	})

	return r
}

// Start begins serving in the background
func (s *Server) Start() {
	s.httpServer = &http.Server{
		Addr:         s.config.Addr,
		Handler:      s.Router(),
		ReadTimeout:  10 * time.Second,
		WriteTimeout: s.config.RequestTimeout + 5*time.Second,
	}

	go func() {
		log.Infof("HTTP API listening on %s", s.config.Addr)
		if err := s.httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Errorf("HTTP API server error: %v", err)
		}
	}()
}

// Shutdown stops the server, waiting for in-flight requests until ctx is done
func (s *Server) Shutdown(ctx context.Context) error {
	if s.httpServer == nil {
		return nil
	}
	return s.httpServer.Shutdown(ctx)
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	respondWithData(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (s *Server) handleHome(w http.ResponseWriter, r *http.Request) {
	lotteries, err := s.lotteryService.ListActiveLotteries(r.Context())
	if err != nil {
		// The landing view renders without stats when the chain is down
		log.WithFields(log.Fields{
			"request_id": middleware.GetReqID(r.Context()),
			"error":      err,
		}).Warn("Failed to fetch lotteries for home, serving without stats")
		respondWithData(w, http.StatusOK, dto.NewStaticHomeDTO())
		return
	}
	respondWithData(w, http.StatusOK, dto.NewHomeDTO(lotteries, s.config.CurrencySymbol))
}

func (s *Server) handleLotteries(w http.ResponseWriter, r *http.Request) {
	participant, ok := participantParam(w, r)
	if !ok {
		return
	}

	lotteries, err := s.lotteryService.ListActiveLotteries(r.Context())
	if err != nil {
		logRequestError(r, err, "Failed to fetch lotteries")
		respondWithError(w, http.StatusBadGateway, services.MsgFetchLotteries)
		return
	}
	views := dto.NewLotteryDTOs(lotteries, s.now(), time.UTC, s.config.CurrencySymbol)
	if participant != nil {
		for i, lottery := range lotteries {
			views[i] = views[i].WithParticipant(lottery, *participant)
		}
	}
	respondWithData(w, http.StatusOK, views)
}

func (s *Server) handleLottery(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseUint(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		respondWithError(w, http.StatusBadRequest, "Invalid lottery ID")
		return
	}
	participant, ok := participantParam(w, r)
	if !ok {
		return
	}

	lottery, err := s.lotteryService.GetLottery(r.Context(), id)
	if err != nil {
		logRequestError(r, err, "Failed to fetch lottery")
		respondWithError(w, http.StatusBadGateway, services.MsgFetchLotteries)
		return
	}
	view := dto.NewLotteryDTO(lottery, s.now(), time.UTC, s.config.CurrencySymbol)
	if participant != nil {
		view = view.WithParticipant(lottery, *participant)
	}
	respondWithData(w, http.StatusOK, view)
}

func (s *Server) handleProfile(w http.ResponseWriter, r *http.Request) {
	addr, ok := addressParam(w, r)
	if !ok {
		return
	}

	profile, stale, err := s.profiles.Lookup(r.Context(), addr)
	switch {
	case errors.Is(err, services.ErrProfileNotFound):
		respondWithError(w, http.StatusNotFound, services.MsgProfileNotFound)
		return
	case err != nil:
		logRequestError(r, err, "Failed to fetch profile")
		respondWithError(w, http.StatusBadGateway, services.MsgFetchProfile)
		return
	}

	view := dto.NewProfileDTO(profile, s.config.CurrencySymbol)
	view.Stale = stale
	respondWithData(w, http.StatusOK, view)
}

func (s *Server) handleTransactions(w http.ResponseWriter, r *http.Request) {
	addr, ok := addressParam(w, r)
	if !ok {
		return
	}

	limit := 0
	if raw := r.URL.Query().Get("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n <= 0 {
			respondWithError(w, http.StatusBadRequest, "Invalid limit")
			return
		}
		limit = n
	}

	txs, err := s.history.List(r.Context(), addr, limit)
	if err != nil {
		logRequestError(r, err, "Failed to fetch transaction history")
		respondWithError(w, http.StatusInternalServerError, services.MsgFetchHistory)
		return
	}
	respondWithData(w, http.StatusOK, dto.NewTransactionDTOs(txs, s.config.CurrencySymbol))
}

func (s *Server) handleTransaction(w http.ResponseWriter, r *http.Request) {
	raw := strings.TrimSpace(chi.URLParam(r, "hash"))
	if !txHashPattern.MatchString(raw) {
		respondWithError(w, http.StatusBadRequest, "Invalid transaction hash")
		return
	}

	tx, err := s.history.Get(r.Context(), common.HexToHash(raw))
	switch {
	case errors.Is(err, services.ErrTransactionNotFound):
		respondWithError(w, http.StatusNotFound, services.MsgTransactionUnknown)
		return
	case err != nil:
		logRequestError(r, err, "Failed to fetch transaction")
		respondWithError(w, http.StatusInternalServerError, services.MsgFetchHistory)
		return
	}
	respondWithData(w, http.StatusOK, dto.NewTransactionDTO(tx, s.config.CurrencySymbol))
}

// addressParam reads the {address} URL parameter, answering 400 when it is malformed
func addressParam(w http.ResponseWriter, r *http.Request) (common.Address, bool) {
	raw := strings.TrimSpace(chi.URLParam(r, "address"))
	if !common.IsHexAddress(raw) {
		respondWithError(w, http.StatusBadRequest, "Invalid wallet address")
		return common.Address{}, false
	}
	return common.HexToAddress(raw), true
}

// participantParam reads the optional ?address= query used to mark joined lotteries
func participantParam(w http.ResponseWriter, r *http.Request) (*common.Address, bool) {
	raw := strings.TrimSpace(r.URL.Query().Get("address"))
	if raw == "" {
		return nil, true
	}
	if !common.IsHexAddress(raw) {
		respondWithError(w, http.StatusBadRequest, "Invalid wallet address")
		return nil, false
	}
	addr := common.HexToAddress(raw)
	return &addr, true
}

func respondWithData(w http.ResponseWriter, status int, data interface{}) {
	writeJSON(w, status, Response{Success: true, Data: data})
}

func respondWithError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, Response{Success: false, Error: message})
}

func writeJSON(w http.ResponseWriter, status int, body Response) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(body); err != nil {
		log.Errorf("Failed to encode response: %v", err)
	}
}

func logRequestError(r *http.Request, err error, message string) {
	log.WithFields(log.Fields{
		"request_id": middleware.GetReqID(r.Context()),
		"path":       r.URL.Path,
		"error":      err,
	}).Error(message)
}

// requestLogger logs each request through logrus
func requestLogger(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		next.ServeHTTP(ww, r)

		route := r.URL.Path
		if rctx := chi.RouteContext(r.Context()); rctx != nil && rctx.RoutePattern() != "" {
			route = rctx.RoutePattern()
		}
		observability.GetMetrics().RecordHTTPRequest(route, ww.Status(), time.Since(start))

		log.WithFields(log.Fields{
			"request_id":  middleware.GetReqID(r.Context()),
			"method":      r.Method,
			"path":        r.URL.Path,
			"status":      ww.Status(),
			"bytes":       ww.BytesWritten(),
			"duration_ms": time.Since(start).Milliseconds(),
		}).Debug("HTTP request")
	})
}
