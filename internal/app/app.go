package app

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v4/pgxpool"

	"github.com/domora/kiosk-service/internal/config"
	"github.com/domora/kiosk-service/internal/utils"
)

const (
	maxRetries     = 5
	connectTimeout = 5 * time.Second
	initialBackoff = 500 * time.Millisecond
)

// App holds the config and the DB pool backing the display registry.
type App struct {
	Config *config.Config
	DB     *pgxpool.Pool
}

func NewApp(cfg *config.Config) (*App, error) {
	var (
		dbPool  *pgxpool.Pool
		err     error
		backoff = initialBackoff
	)

	for i := 1; i <= maxRetries; i++ {
		ctx, cancel := context.WithTimeout(context.Background(), connectTimeout)
		dbPool, err = pgxpool.Connect(ctx, cfg.DBUrl)
		cancel()
		if err == nil {
			utils.Logger.Infof("kiosk-service connected to DB on attempt %d", i)
			break
		}

		utils.Logger.WithError(err).Warnf(
			"Failed DB connect on attempt %d/%d. Retrying in %v...",
			i, maxRetries, backoff,
		)

		if i == maxRetries {
			return nil, fmt.Errorf("unable to connect after %d attempts: %w", maxRetries, err)
		}
		time.Sleep(backoff)
		backoff *= 2
	}

	app := &App{
		Config: cfg,
		DB:     dbPool,
	}

	if err := app.ensureSchema(context.Background()); err != nil {
		dbPool.Close()
		return nil, fmt.Errorf("schema bootstrap failed: %w", err)
	}

	return app, nil
}

// Ping probes the only local dependency.
func (a *App) Ping(ctx context.Context) error {
	return a.DB.Ping(ctx)
}

func (a *App) Close() {
	utils.Logger.Info("kiosk-service app shutting down.")
	if a.DB != nil {
		a.DB.Close()
	}
}

func (a *App) ensureSchema(ctx context.Context) error {
	_, err := a.DB.Exec(ctx, `
		CREATE TABLE IF NOT EXISTS kiosk_displays (
			id            UUID PRIMARY KEY,
			building_id   TEXT NOT NULL,
			name          TEXT NOT NULL,
			notify_email  TEXT NOT NULL DEFAULT '',
			notify_phone  TEXT NOT NULL DEFAULT '',
			created_at    TIMESTAMPTZ NOT NULL,
			last_seen_at  TIMESTAMPTZ NOT NULL,
			deleted_at    TIMESTAMPTZ
		);
		CREATE INDEX IF NOT EXISTS idx_kiosk_displays_building
			ON kiosk_displays (building_id) WHERE deleted_at IS NULL;
		CREATE INDEX IF NOT EXISTS idx_kiosk_displays_last_seen
			ON kiosk_displays (last_seen_at) WHERE deleted_at IS NULL;
	`)
	return err
}
