// Command combimatch finds combinations of numbers that sum to a target.
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/custodia-labs/combimatch-cli/internal/adapters/driven/config/file"
	"github.com/custodia-labs/combimatch-cli/internal/adapters/driven/metrics"
	"github.com/custodia-labs/combimatch-cli/internal/adapters/driven/storage/memory"
	"github.com/custodia-labs/combimatch-cli/internal/adapters/driven/storage/sqlite"
	"github.com/custodia-labs/combimatch-cli/internal/adapters/driving/cli"
	"github.com/custodia-labs/combimatch-cli/internal/core/services"
	"github.com/custodia-labs/combimatch-cli/internal/logger"
)

// version is set at build time with -ldflags "-X main.version=...".
var version = "dev"

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	cli.SetVersion(version)
	cli.SetServiceFactory(newServices)

	if err := cli.Execute(ctx); err != nil {
		stop()
		os.Exit(1)
	}
}

// newServices wires the adapters into the core services.
func newServices(configDir string) (*cli.Services, error) {
	configStore, err := file.NewConfigStore(configDir)
	if err != nil {
		return nil, fmt.Errorf("open config: %w", err)
	}
	logger.Debug("Config: %s", configStore.Path())

	prom, err := metrics.NewPrometheus()
	if err != nil {
		return nil, fmt.Errorf("register metrics: %w", err)
	}

	pool := memory.NewNumberPool()
	groups := memory.NewGroupStore()
	engine := services.NewSearchEngine(prom)
	finalizer := services.NewFinalizationManager(pool, groups, prom)
	session := services.NewSession(pool, groups, engine, finalizer)

	return &cli.Services{
		Session:  session,
		Settings: services.NewSettingsService(configStore),
		Report:   services.NewReportService(session, sqlite.NewExporter()),
		Metrics:  prom.Handler(),
	}, nil
}
