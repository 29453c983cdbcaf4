package cmd

import (
	"fmt"
	"os"
	"strings"

	"go.uber.org/zap"

	"voltrack/config"
	"voltrack/internal/logging"
	"voltrack/remote"
	"voltrack/storage"
	"voltrack/syncer"
	"voltrack/volunteer"
)

// app bundles what every data command needs: validated config, logger,
// the opened database and the registry loaded from it.
type app struct {
	cfg      *config.Config
	logger   *zap.Logger
	store    *storage.SQLiteStore
	registry *volunteer.Registry
	// sync is nil when remote.enabled is false.
	sync *syncer.Service
}

func openApp() (*app, error) {
	cfg, err := config.LoadAndValidate()
	if err != nil {
		return nil, err
	}

	logger, err := logging.New(logging.Options{Level: cfg.Logging.Level, File: cfg.Logging.File})
	if err != nil {
		return nil, err
	}

	store, err := storage.OpenSQLite(resolveDBPath(dbPath, cfg.Storage.DB))
	if err != nil {
		_ = logger.Sync()
		return nil, err
	}

	registry := volunteer.NewRegistry()
	if err := store.LoadRegistry(registry); err != nil {
		_ = store.Close()
		_ = logger.Sync()
		return nil, err
	}

	service, err := newSyncService(*cfg, logger)
	if err != nil {
		_ = store.Close()
		_ = logger.Sync()
		return nil, err
	}

	return &app{cfg: cfg, logger: logger, store: store, registry: registry, sync: service}, nil
}

func (a *app) Close() error {
	_ = a.logger.Sync()
	return a.store.Close()
}

func (a *app) persist() error {
	if err := a.store.SaveRegistry(a.registry); err != nil {
		return fmt.Errorf("save database: %w", err)
	}
	return nil
}

// requireSync fails when the command needs the remote but it is disabled.
func (a *app) requireSync() error {
	if a.sync == nil {
		return fmt.Errorf("remote sync is disabled; set %s and %s in the config", config.KeyRemoteEnabled, config.KeyRemoteURL)
	}
	return nil
}

func newSyncService(cfg config.Config, logger *zap.Logger) (*syncer.Service, error) {
	if !cfg.Remote.Enabled {
		return nil, nil
	}
	client, err := remote.NewClient(remote.ClientConfig{
		BaseURL: cfg.Remote.URL,
		APIKey:  cfg.Remote.APIKey,
		Timeout: cfg.RemoteTimeout(),
	})
	if err != nil {
		return nil, fmt.Errorf("create remote client: %w", err)
	}
	return syncer.NewService(client, syncer.WithLogger(logger)), nil
}

func resolveDBPath(flagValue, configValue string) string {
	if strings.TrimSpace(flagValue) != "" {
		return flagValue
	}
	if strings.TrimSpace(configValue) != "" {
		return configValue
	}
	return config.DefaultDBPath
}

// printMirrorWarning reports a failed remote mirror without failing the
// command; the local change is already saved.
func printMirrorWarning(err error) {
	if err != nil {
		fmt.Fprintf(os.Stderr, "Warning: remote not updated: %v\n", err)
	}
}

func printSyncReport(report syncer.Report) {
	fmt.Printf("Sync completed. Saved: %d, Unchanged: %d, Duplicates: %d, Overlaps: %d, Failed: %d\n",
		len(report.Succeeded),
		report.Unchanged,
		report.Duplicates,
		len(report.Overlaps),
		len(report.Failed),
	)
	for _, overlap := range report.Overlaps {
		fmt.Fprintf(os.Stderr, "Warning: hours %s on %s overlap remote entry %s; not pushed\n",
			overlap.Local.ID.String(), overlap.Local.Date.String(), overlap.Existing.ID.String())
	}
	for _, failure := range report.Failed {
		fmt.Fprintf(os.Stderr, "Warning: %v\n", failure)
	}
}
