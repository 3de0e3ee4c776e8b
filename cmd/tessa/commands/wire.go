package commands

import (
	"fmt"

	"github.com/dhkim/tessa/internal/analysis"
	"github.com/dhkim/tessa/internal/barsource"
	"github.com/dhkim/tessa/internal/store"
	"github.com/dhkim/tessa/internal/taconfig"
	"github.com/dhkim/tessa/pkg/config"
	"github.com/dhkim/tessa/pkg/database"
	"github.com/dhkim/tessa/pkg/logger"
	"github.com/dhkim/tessa/pkg/redis"
)

// stack holds the shared wiring every command builds on. db, cache and repo
// are nil when the backing service is not configured.
type stack struct {
	cfg      *config.Config
	log      *logger.Logger
	redis    *redis.Client
	cache    *redis.Cache
	db       *database.DB
	repo     *store.Repository
	bars     *barsource.Client
	analyzer *analysis.Analyzer
}

// buildStack loads configuration and wires the analysis pipeline. Redis and
// PostgreSQL are optional, the engine degrades to uncached, unpersisted runs.
func buildStack(needDB bool) (*stack, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}

	if verbose {
		cfg.LogLevel = "debug"
	}
	log := logger.New(cfg)

	profile, err := loadProfile(cfg)
	if err != nil {
		return nil, fmt.Errorf("load parameter profile: %w", err)
	}

	s := &stack{
		cfg:      cfg,
		log:      log,
		analyzer: analysis.New(profile, log),
	}

	if cfg.Redis.Enabled {
		client, err := redis.New(cfg)
		if err != nil {
			log.WithError(err).Warn("Redis unavailable, caching disabled")
		} else {
			s.redis = client
			s.cache = redis.NewCache(client, "tessa")
		}
	}

	if cfg.Database.URL != "" {
		db, err := database.New(cfg)
		if err != nil {
			if needDB {
				return nil, fmt.Errorf("connect to database: %w", err)
			}
			log.WithError(err).Warn("Database unavailable, run history disabled")
		} else {
			s.db = db
			s.repo = store.NewRepository(db.Pool)
		}
	} else if needDB {
		return nil, fmt.Errorf("DATABASE_URL is required for this command")
	}

	s.bars = barsource.NewClient(cfg, log, s.cache)
	return s, nil
}

// loadProfile reads the YAML parameter profile, flag over env over defaults.
func loadProfile(cfg *config.Config) (*taconfig.Config, error) {
	path := profileFile
	if path == "" {
		path = cfg.ProfilePath
	}
	if path == "" {
		return taconfig.Default(), nil
	}
	return taconfig.Load(path)
}

// close releases the stack's connections.
func (s *stack) close() {
	if s.db != nil {
		s.db.Close()
	}
	if s.redis != nil {
		s.redis.Close()
	}
}
