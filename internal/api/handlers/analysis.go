package handlers

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/gorilla/mux"

	"github.com/dhkim/tessa/internal/analysis"
	"github.com/dhkim/tessa/internal/barsource"
	"github.com/dhkim/tessa/internal/market"
	"github.com/dhkim/tessa/internal/store"
	"github.com/dhkim/tessa/pkg/config"
	"github.com/dhkim/tessa/pkg/logger"
	"github.com/dhkim/tessa/pkg/redis"
)

// AnalysisHandler handles signal evaluation API endpoints
type AnalysisHandler struct {
	bars     *barsource.Client
	analyzer *analysis.Analyzer
	repo     *store.Repository
	cache    *redis.Cache
	cfg      *config.Config
	logger   *logger.Logger
}

// NewAnalysisHandler creates a new analysis handler. repo and cache may be
// nil, in which case history endpoints return 503 and results are not cached.
func NewAnalysisHandler(
	bars *barsource.Client,
	analyzer *analysis.Analyzer,
	repo *store.Repository,
	cache *redis.Cache,
	cfg *config.Config,
	log *logger.Logger,
) *AnalysisHandler {
	return &AnalysisHandler{
		bars:     bars,
		analyzer: analyzer,
		repo:     repo,
		cache:    cache,
		cfg:      cfg,
		logger:   log,
	}
}

// Analyze runs a full evaluation for one symbol
// GET /api/analyze/{symbol}?interval=daily&bars=250
func (h *AnalysisHandler) Analyze(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	symbol := mux.Vars(r)["symbol"]
	if symbol == "" {
		respondError(w, http.StatusBadRequest, "Missing symbol")
		return
	}

	interval := market.ParseInterval(r.URL.Query().Get("interval"))
	limit := h.cfg.Market.MaxBars
	if v := r.URL.Query().Get("bars"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n <= 0 {
			respondError(w, http.StatusBadRequest, "Invalid 'bars' parameter")
			return
		}
		if n < limit {
			limit = n
		}
	}

	result, err := h.runAnalysis(r, symbol, interval, limit)
	if err != nil {
		h.logger.WithError(err).WithFields(map[string]interface{}{
			"symbol": symbol,
		}).Error("Analysis failed")
		respondError(w, http.StatusBadGateway, "Analysis failed: "+err.Error())
		return
	}

	if h.repo != nil {
		if _, err := h.repo.SaveRun(ctx, result); err != nil {
			h.logger.WithError(err).Warn("Failed to persist analysis run")
		}
	}

	respondJSON(w, http.StatusOK, result)
}

func (h *AnalysisHandler) runAnalysis(r *http.Request, symbol string, iv market.Interval, limit int) (*analysis.Result, error) {
	ctx := r.Context()

	if h.cache != nil {
		var cached analysis.Result
		err := h.cache.GetOrSet(ctx, redis.AnalysisKey(symbol, string(iv)), &cached, h.cfg.Market.CacheTTL, func() (interface{}, error) {
			bars, err := h.bars.FetchBars(ctx, symbol, iv, limit)
			if err != nil {
				return nil, err
			}
			return h.analyzer.Run(symbol, iv, bars)
		})
		if err != nil {
			return nil, err
		}
		return &cached, nil
	}

	bars, err := h.bars.FetchBars(ctx, symbol, iv, limit)
	if err != nil {
		return nil, err
	}
	return h.analyzer.Run(symbol, iv, bars)
}

// GetRuns returns stored runs for a symbol, newest first
// GET /api/runs/{symbol}?limit=30
func (h *AnalysisHandler) GetRuns(w http.ResponseWriter, r *http.Request) {
	if h.repo == nil {
		respondError(w, http.StatusServiceUnavailable, "Run history storage not configured")
		return
	}

	symbol := mux.Vars(r)["symbol"]
	limit := 30
	if v := r.URL.Query().Get("limit"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n <= 0 {
			respondError(w, http.StatusBadRequest, "Invalid 'limit' parameter")
			return
		}
		limit = n
	}

	runs, err := h.repo.ListRuns(r.Context(), symbol, limit)
	if err != nil {
		h.logger.WithError(err).Error("Failed to list runs")
		respondError(w, http.StatusInternalServerError, "Failed to retrieve runs")
		return
	}

	respondJSON(w, http.StatusOK, map[string]interface{}{
		"symbol": symbol,
		"count":  len(runs),
		"runs":   runs,
	})
}

// GetLatestRun returns the most recent stored run for a symbol and interval
// GET /api/runs/{symbol}/latest?interval=daily
func (h *AnalysisHandler) GetLatestRun(w http.ResponseWriter, r *http.Request) {
	if h.repo == nil {
		respondError(w, http.StatusServiceUnavailable, "Run history storage not configured")
		return
	}

	symbol := mux.Vars(r)["symbol"]
	interval := market.ParseInterval(r.URL.Query().Get("interval"))

	run, err := h.repo.LatestRun(r.Context(), symbol, string(interval))
	if err != nil {
		respondError(w, http.StatusNotFound, err.Error())
		return
	}

	respondJSON(w, http.StatusOK, run)
}

// GetProfile returns descriptive information for a symbol
// GET /api/profile/{symbol}
func (h *AnalysisHandler) GetProfile(w http.ResponseWriter, r *http.Request) {
	symbol := mux.Vars(r)["symbol"]

	profile, err := h.bars.FetchProfile(r.Context(), symbol)
	if err != nil {
		h.logger.WithError(err).WithFields(map[string]interface{}{
			"symbol": symbol,
		}).Error("Failed to fetch profile")
		respondError(w, http.StatusBadGateway, "Failed to fetch profile")
		return
	}

	respondJSON(w, http.StatusOK, profile)
}

// Helper functions

func respondJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}

func respondError(w http.ResponseWriter, status int, message string) {
	respondJSON(w, status, map[string]string{
		"error": message,
	})
}
