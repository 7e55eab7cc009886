package cli

import (
	"context"
	"fmt"
	"net/http"

	"github.com/spf13/cobra"

	"github.com/custodia-labs/combimatch-cli/internal/core/ports/driving"
	"github.com/custodia-labs/combimatch-cli/internal/logger"
)

// version is set at build time via SetVersion.
var version = "dev"

var (
	verbose   bool
	logLevel  string
	configDir string
)

// Services injected by main.
var (
	sessionService  driving.SessionService
	settingsService driving.SettingsService
	reportService   driving.ReportService
	metricsHandler  http.Handler
)

// Services holds the driving ports the commands operate on.
type Services struct {
	Session  driving.SessionService
	Settings driving.SettingsService
	Report   driving.ReportService

	// Metrics is mounted on /metrics by `mcp serve --port`. Optional.
	Metrics http.Handler
}

// ServiceFactory builds services once flags are parsed, so that
// --config-dir is honoured.
type ServiceFactory func(configDir string) (*Services, error)

var serviceFactory ServiceFactory

var rootCmd = &cobra.Command{
	Use:   "combimatch",
	Short: "Find combinations of numbers that sum to a target",
	Long: `combimatch searches a list of numbers for subsets whose sum falls within
a tolerance of a target, and lets you commit chosen subsets into
colour-tagged groups that drop out of later searches.

Numbers can be given as arguments, read from a file (one per line,
comma separated, or CSV), or piped on stdin.`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
		logger.SetVerbose(verbose)
		if logLevel != "" {
			level, err := logger.ParseLevel(logLevel)
			if err != nil {
				return err
			}
			logger.SetLevel(level)
		}
		if serviceFactory == nil {
			return nil
		}
		s, err := serviceFactory(configDir)
		if err != nil {
			return fmt.Errorf("initialise: %w", err)
		}
		SetServices(s)
		return nil
	},
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable debug logging to stderr")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "", "log level: off, warn, info or debug (overrides --verbose)")
	rootCmd.PersistentFlags().StringVar(&configDir, "config-dir", "", "configuration directory (default ~/.combimatch)")
}

// SetVersion sets the version reported by `combimatch version`.
func SetVersion(v string) {
	version = v
}

// SetServices injects the services used by every command.
func SetServices(s *Services) {
	if s == nil {
		return
	}
	sessionService = s.Session
	settingsService = s.Settings
	reportService = s.Report
	metricsHandler = s.Metrics
}

// SetServiceFactory registers the builder run before any command.
func SetServiceFactory(f ServiceFactory) {
	serviceFactory = f
}

// Execute runs the root command with ctx.
func Execute(ctx context.Context) error {
	return rootCmd.ExecuteContext(ctx)
}
