// Package server arma el BFF completo a partir de la config: store de
// borradores, registro de sesiones, router y ciclo de vida del http.Server.
package server

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"pet-adoption-web/internal/adapters/restapi"
	mem "pet-adoption-web/internal/adapters/storage/memory"
	pg "pet-adoption-web/internal/adapters/storage/postgres"
	rds "pet-adoption-web/internal/adapters/storage/redis"
	"pet-adoption-web/internal/domain/applications"
	"pet-adoption-web/internal/platform/config"
	"pet-adoption-web/internal/platform/logger"
	"pet-adoption-web/internal/router"
	"pet-adoption-web/internal/sessions"
)

const (
	shutdownTimeout = 10 * time.Second
	sweepEvery      = time.Minute
)

// OpenDrafts elige el store de borradores según DRAFT_STORE.
// El closer libera la conexión (no-op en memoria).
func OpenDrafts(ctx context.Context, cfg *config.Config) (applications.DraftRepository, func() error, error) {
	switch cfg.DraftStore {
	case config.DraftStorePostgres:
		db, err := pg.Open(cfg.DBDSN)
		if err != nil {
			return nil, nil, fmt.Errorf("open postgres: %w", err)
		}
		repo := pg.NewDraftsRepo(db, cfg.DraftTTL)
		if err := repo.EnsureSchema(ctx); err != nil {
			_ = db.Close()
			return nil, nil, fmt.Errorf("drafts schema: %w", err)
		}
		return repo, db.Close, nil

	case config.DraftStoreRedis:
		rdb, err := rds.Open(ctx, cfg.RedisAddr)
		if err != nil {
			return nil, nil, fmt.Errorf("open redis: %w", err)
		}
		return rds.NewDraftsRepo(rdb, cfg.DraftTTL), rdb.Close, nil

	default:
		return mem.NewDraftRepo(cfg.DraftTTL), func() error { return nil }, nil
	}
}

// Run levanta el BFF y bloquea hasta que ctx se cancele (o falle el listener).
func Run(ctx context.Context, cfg *config.Config, log logger.Logger) error {
	drafts, closeDrafts, err := OpenDrafts(ctx, cfg)
	if err != nil {
		return err
	}
	defer func() {
		if err := closeDrafts(); err != nil {
			log.Warn("drafts store close failed", map[string]any{"error": err})
		}
	}()

	reg := sessions.NewRegistry(sessions.Options{
		CookieName: cfg.SessionCookie,
		TTL:        cfg.SessionTTL,
		API:        restapi.Config{BaseURL: cfg.APIBaseURL, Timeout: cfg.APITimeout},
		Log:        log,
	})
	go reg.RunSweeper(ctx, sweepEvery)

	srv := &http.Server{
		Addr: cfg.Addr(),
		Handler: router.NewRouter(router.Options{
			Log:      log,
			Sessions: reg,
			Drafts:   drafts,
		}),
		ReadTimeout:  5 * time.Second,
		WriteTimeout: cfg.APITimeout + 5*time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		log.Info("starting server", map[string]any{
			"addr":        srv.Addr,
			"api":         cfg.APIBaseURL,
			"draft_store": string(cfg.DraftStore),
			"environment": config.Environment(),
		})
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	log.Info("shutting down", nil)
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	return srv.Shutdown(shutdownCtx)
}
