package cmd

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"path/filepath"
	"sync"
	"time"

	historydb "github.com/bnema/homewatch-cli/internal/adapters/history/sqlite"
	"github.com/bnema/homewatch-cli/internal/adapters/homeassistant"
	statusadapter "github.com/bnema/homewatch-cli/internal/adapters/render/status"
	tomlrepo "github.com/bnema/homewatch-cli/internal/adapters/repo/toml"
	"github.com/bnema/homewatch-cli/internal/adapters/zoneminder"
	"github.com/bnema/homewatch-cli/internal/application"
	"github.com/bnema/homewatch-cli/internal/domain"
	"github.com/bnema/homewatch-cli/internal/ports"
	"github.com/spf13/viper"
)

type app struct {
	repo ports.ItemRepository
	// entities and monitors are nil when the matching integration is not
	// configured.
	entities        ports.EntitySource
	monitors        ports.MonitorSource
	thresholds      domain.Thresholds
	historyKeep     int
	historyPath     string
	streamCacheSize int
	statusRenderer  func([]application.ItemStatus, statusadapter.RenderOptions) (string, error)
	now             func() time.Time

	// The observation log is opened on first use so commands that never
	// touch history (version, stream) do not create the database file.
	historyOnce sync.Once
	history     *historydb.Store
	historyErr  error
}

func wireApp() (*app, error) {
	cfg := viper.New()

	repo, err := tomlrepo.NewRepository(cfg)
	if err != nil {
		return nil, fmt.Errorf("wire item repository: %w", err)
	}

	homeDir, err := os.UserHomeDir()
	if err != nil {
		return nil, fmt.Errorf("resolve home directory: %w", err)
	}

	cfg.SetDefault("history.path", filepath.Join(homeDir, ".homewatch", "history.db"))
	cfg.SetDefault("history.keep", application.DefaultHistoryKeep)
	cfg.SetDefault("stream.cache_size", 3)
	cfg.SetDefault("thresholds.active", "5m")
	cfg.SetDefault("thresholds.recent", "30m")
	cfg.SetDefault("thresholds.past", "2h")

	httpClient := &http.Client{Timeout: 10 * time.Second}

	var entities ports.EntitySource
	if baseURL := envOrDefault("HW_HA_URL", cfg.GetString("homeassistant.base_url")); baseURL != "" {
		token := envOrDefault("HW_HA_TOKEN", cfg.GetString("homeassistant.token"))
		entities = homeassistant.NewClient(baseURL, token, httpClient)
	}

	var monitors ports.MonitorSource
	if baseURL := envOrDefault("HW_ZM_URL", cfg.GetString("zoneminder.base_url")); baseURL != "" {
		token := envOrDefault("HW_ZM_TOKEN", cfg.GetString("zoneminder.token"))
		monitors = zoneminder.NewClient(baseURL, token, httpClient)
	}

	return &app{
		repo:     repo,
		entities: entities,
		monitors: monitors,
		thresholds: domain.Thresholds{
			Active: cfg.GetDuration("thresholds.active"),
			Recent: cfg.GetDuration("thresholds.recent"),
			Past:   cfg.GetDuration("thresholds.past"),
		},
		historyKeep:     cfg.GetInt("history.keep"),
		historyPath:     cfg.GetString("history.path"),
		streamCacheSize: cfg.GetInt("stream.cache_size"),
		statusRenderer:  statusadapter.Render,
		now:             time.Now,
	}, nil
}

func (a *app) observationLog(ctx context.Context) (ports.ObservationLog, error) {
	a.historyOnce.Do(func() {
		a.history, a.historyErr = historydb.Open(ctx, a.historyPath)
	})
	if a.historyErr != nil {
		return nil, fmt.Errorf("open observation log: %w", a.historyErr)
	}

	return a.history, nil
}

func (a *app) statusService(ctx context.Context) (*application.StatusService, error) {
	log, err := a.observationLog(ctx)
	if err != nil {
		return nil, err
	}

	return application.NewStatusService(a.repo, log, ports.SystemClock{}, a.thresholds, a.historyKeep)
}

func (a *app) syncService(ctx context.Context) (*application.SyncService, error) {
	log, err := a.observationLog(ctx)
	if err != nil {
		return nil, err
	}

	return application.NewSyncService(a.repo, log, a.entities, a.monitors, ports.SystemClock{}, a.historyKeep), nil
}

func (a *app) close() error {
	if a.history == nil {
		return nil
	}

	return a.history.Close()
}

func envOrDefault(key, fallback string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return fallback
}
