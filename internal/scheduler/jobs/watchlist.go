package jobs

import (
	"context"
	"fmt"

	"github.com/dhkim/tessa/internal/analysis"
	"github.com/dhkim/tessa/internal/barsource"
	"github.com/dhkim/tessa/internal/market"
	"github.com/dhkim/tessa/internal/store"
	"github.com/dhkim/tessa/pkg/config"
	"github.com/dhkim/tessa/pkg/logger"
)

// WatchlistJob re-evaluates every watchlist symbol after the daily close
// and persists the resulting runs.
type WatchlistJob struct {
	bars     *barsource.Client
	analyzer *analysis.Analyzer
	repo     *store.Repository
	symbols  []string
	cfg      *config.Config
	logger   *logger.Logger
}

// NewWatchlistJob creates a new watchlist re-analysis job. repo may be nil,
// in which case results are evaluated but not persisted.
func NewWatchlistJob(bars *barsource.Client, analyzer *analysis.Analyzer, repo *store.Repository, cfg *config.Config, log *logger.Logger) *WatchlistJob {
	return &WatchlistJob{
		bars:     bars,
		analyzer: analyzer,
		repo:     repo,
		symbols:  cfg.WatchlistSymbols(),
		cfg:      cfg,
		logger:   log,
	}
}

// Name returns the job name
func (j *WatchlistJob) Name() string {
	return "watchlist_analysis"
}

// Schedule returns the cron schedule (4:30 PM daily, after market close)
func (j *WatchlistJob) Schedule() string {
	return "0 30 16 * * 1-5" // weekdays at 4:30 PM (with seconds)
}

// Run evaluates every watchlist symbol. One failing symbol does not stop
// the rest; the job fails only when every symbol failed.
func (j *WatchlistJob) Run(ctx context.Context) error {
	if len(j.symbols) == 0 {
		j.logger.Info("Watchlist empty, nothing to analyze")
		return nil
	}

	j.logger.WithField("symbols", len(j.symbols)).Info("Starting watchlist analysis")

	var failed int
	for _, symbol := range j.symbols {
		if err := j.analyzeSymbol(ctx, symbol); err != nil {
			failed++
			j.logger.WithError(err).WithFields(map[string]interface{}{
				"symbol": symbol,
			}).Warn("Watchlist symbol analysis failed")
		}
	}

	if failed == len(j.symbols) {
		return fmt.Errorf("all %d watchlist symbols failed", failed)
	}

	j.logger.WithFields(map[string]interface{}{
		"total":  len(j.symbols),
		"failed": failed,
	}).Info("Watchlist analysis completed")

	return nil
}

func (j *WatchlistJob) analyzeSymbol(ctx context.Context, symbol string) error {
	bars, err := j.bars.FetchBars(ctx, symbol, market.Daily, j.cfg.Market.MaxBars)
	if err != nil {
		return fmt.Errorf("fetch bars: %w", err)
	}

	result, err := j.analyzer.Run(symbol, market.Daily, bars)
	if err != nil {
		return fmt.Errorf("analyze: %w", err)
	}

	j.logger.WithFields(map[string]interface{}{
		"symbol":         symbol,
		"regime":         string(result.Regime),
		"score":          result.Composite.Score,
		"recommendation": string(result.Composite.Recommendation),
	}).Info("Watchlist symbol analyzed")

	if j.repo != nil {
		if _, err := j.repo.SaveRun(ctx, result); err != nil {
			return fmt.Errorf("save run: %w", err)
		}
	}

	return nil
}
