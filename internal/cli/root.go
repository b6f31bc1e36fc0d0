package cli

import (
	"context"
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/2beens/fitcourses/internal/config"
	"github.com/2beens/fitcourses/internal/fitclient"
	"github.com/2beens/fitcourses/internal/logging"

	log "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
)

// ErrCommandFailed is returned after a failed result has been printed, so
// the process can exit non-zero without printing the failure twice.
var ErrCommandFailed = errors.New("command failed")

type app struct {
	env        string
	configPath string
	apiURL     string
	logLevel   string

	cfg    *config.Config
	client *fitclient.Client
	// ability to replace the client (for unit testing)
	newClient func(ctx context.Context, cfg *config.Config) (*fitclient.Client, error)
}

func newApp() *app {
	return &app{
		newClient: func(ctx context.Context, cfg *config.Config) (*fitclient.Client, error) {
			return fitclient.New(ctx, fitclient.Params{Config: cfg})
		},
	}
}

// Execute runs the command line in args and releases the client afterwards,
// whatever the outcome.
func Execute(ctx context.Context, version, buildDate string, args []string) error {
	a := newApp()
	defer a.teardown()

	root := newRootCmd(a, version, buildDate)
	root.SetArgs(args)
	return root.ExecuteContext(ctx)
}

func newRootCmd(a *app, version, buildDate string) *cobra.Command {
	root := &cobra.Command{
		Use:               "fitcourses",
		Short:             "Fitness courses API client",
		SilenceUsage:      true,
		SilenceErrors:     true,
		PersistentPreRunE: a.setup,
	}
	root.PersistentFlags().StringVar(&a.env, "env", "development", "environment [prod | production | dev | development]")
	root.PersistentFlags().StringVar(&a.configPath, "config", defaultConfigPath(), "path for the TOML config file")
	root.PersistentFlags().StringVar(&a.apiURL, "api", "", "API base URL, overrides the config file")
	root.PersistentFlags().StringVar(&a.logLevel, "log-level", "", "log level, overrides the config file")

	root.AddCommand(newVersionCmd(version, buildDate))
	root.AddCommand(newAuthCmd(a))
	root.AddCommand(newCoursesCmd(a))
	root.AddCommand(newWorkoutsCmd(a))
	root.AddCommand(newProgressCmd(a))
	root.AddCommand(newCacheCmd(a))
	return root
}

func (a *app) setup(cmd *cobra.Command, _ []string) error {
	cfg, err := config.Load(a.env, a.configPath)
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}
	if a.apiURL != "" {
		cfg.APIBaseURL = a.apiURL
	}
	if a.logLevel != "" {
		cfg.LogLevel = a.logLevel
	}

	logging.Setup(logging.LoggerSetupParams{
		LogFileName:      cfg.LogsPath,
		LogToConsole:     cfg.LogToConsole,
		LogLevel:         cfg.LogLevel,
		LogFormatJSON:    cfg.LogFormatJSON,
		Environment:      cfg.Environment,
		SentryEnabled:    cfg.SentryEnabled,
		SentryDSN:        cfg.SentryDSN,
		SentryServerName: fitclient.ServiceName,
		Console:          cmd.ErrOrStderr(),
	})
	log.Debugf("running [%s] in [%s] environment", cmd.CommandPath(), cfg.Environment)

	client, err := a.newClient(cmd.Context(), cfg)
	if err != nil {
		return fmt.Errorf("create client: %w", err)
	}
	a.cfg = cfg
	a.client = client
	return nil
}

func (a *app) teardown() {
	if a.client != nil {
		a.client.Close()
		a.client = nil
	}
	if a.cfg != nil && a.cfg.SentryEnabled {
		logging.Flush(2 * time.Second)
	}
}

func defaultConfigPath() string {
	if path := os.Getenv("FITCOURSES_CONFIG"); path != "" {
		return path
	}
	return "./config.toml"
}
