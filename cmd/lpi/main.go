package main

import (
	"context"
	"fmt"
	"os"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/robby/lpi/internal/auth"
	"github.com/robby/lpi/internal/config"
	"github.com/robby/lpi/internal/linear"
	"github.com/robby/lpi/internal/logging"
	"github.com/robby/lpi/internal/tui"
	"github.com/robby/lpi/internal/viewmodel"
)

var (
	// CLI flags
	configFlag        string
	projectFlag       string
	noCycleFilterFlag bool
	logFileFlag       string
	debugFlag         bool
)

func main() {
	rootCmd := &cobra.Command{
		Use:   "lpi",
		Short: "Terminal dashboard for Linear project issues",
		Long: `lpi is a terminal dashboard for the issues of a Linear project.

Filter by labels, states, cycles and milestones, search titles, sort any
column and follow estimate totals and milestone progress.

Authentication:
  1. Environment variable: Set LINEAR_API_KEY (preferred)
  2. Config file: api_key in ~/.config/lpi/config.yml`,
		SilenceUsage: true,
		RunE:         run,
	}

	rootCmd.PersistentFlags().StringVar(&configFlag, "config", "", "Path to config file (default ~/.config/lpi/config.yml)")
	rootCmd.PersistentFlags().StringVar(&projectFlag, "project", "", "Linear project ID. Skips the project picker.")
	rootCmd.PersistentFlags().BoolVar(&noCycleFilterFlag, "no-cycle-filter", false, "Disable the cycle filter")
	rootCmd.PersistentFlags().StringVar(&logFileFlag, "log-file", "", "Write logs to this file")
	rootCmd.PersistentFlags().BoolVar(&debugFlag, "debug", false, "Log at debug level")

	rootCmd.AddCommand(newExportCmd(), newProjectsCmd())

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

// env is everything a command needs after startup.
type env struct {
	cfg    *config.Config
	client *linear.Client
	log    *zap.Logger
}

// setup loads the config, applies flag overrides, resolves the API key and
// creates the logger and Linear client.
func setup() (*env, error) {
	path := configFlag
	if path == "" {
		var err error
		path, err = config.DefaultPath()
		if err != nil {
			return nil, err
		}
	}

	cfg, err := config.Load(path)
	if err != nil {
		return nil, err
	}
	if projectFlag != "" {
		cfg.Project = projectFlag
	}
	if noCycleFilterFlag {
		cfg.CycleFilter = false
	}
	if logFileFlag != "" {
		cfg.LogFile = logFileFlag
	}

	token, err := auth.GetToken(&auth.EnvProvider{}, &auth.StaticProvider{Token: cfg.APIKey})
	if err != nil {
		return nil, err
	}

	log, err := logging.New(cfg.LogFile, debugFlag)
	if err != nil {
		return nil, err
	}

	client, err := linear.New(cfg.APIURL, token,
		linear.WithPageSize(cfg.PageSize),
		linear.WithLogger(log),
	)
	if err != nil {
		_ = log.Sync()
		return nil, fmt.Errorf("failed to create Linear client: %w", err)
	}

	return &env{cfg: cfg, client: client, log: log}, nil
}

func run(cmd *cobra.Command, args []string) error {
	e, err := setup()
	if err != nil {
		return err
	}
	defer func() { _ = e.log.Sync() }()

	e.log.Info("starting",
		zap.String("project", e.cfg.Project),
		zap.Duration("debounce", e.cfg.Debounce),
		zap.Bool("cycle_filter", e.cfg.CycleFilter),
	)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	app := tui.NewAppModel(ctx, e.client, viewmodel.Config{
		Window:     e.cfg.Debounce,
		CycleAware: e.cfg.CycleFilter,
		Logger:     e.log,
	}, strings.TrimSpace(e.cfg.Project))

	p := tea.NewProgram(app, tea.WithAltScreen(), tea.WithMouseCellMotion())
	if _, err := p.Run(); err != nil {
		return fmt.Errorf("program error: %w", err)
	}

	return nil
}

// requestTimeout bounds the non-interactive commands.
const requestTimeout = 60 * time.Second
