package cli

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/gdg-londrina/gdg-meetup/internal/config"
	"github.com/gdg-londrina/gdg-meetup/internal/logger"
	"github.com/gdg-londrina/gdg-meetup/internal/meetup"
)

const (
	ExitSuccess = 0
	ExitError   = 1
)

var (
	flagEnvFile  string
	flagAPIKey   string
	flagLogLevel string

	// appConfig is populated by the root command before any subcommand runs
	appConfig *config.Config
)

// NewRootCmd creates the root command
func NewRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "gdg-meetup",
		Short: "Show and announce upcoming GDG Londrina Meetup events",
		Long: `A CLI tool that fetches the GDG Londrina group and its upcoming events from
the Meetup API and shows them, announces them on Telegram or Twitter, or exports
them as an iCalendar file.`,
		SilenceUsage:      true,
		SilenceErrors:     true,
		PersistentPreRunE: loadConfig,
	}

	cmd.PersistentFlags().StringVar(&flagEnvFile, "env-file", config.DefaultEnvFile, "Path to a .env file with settings")
	cmd.PersistentFlags().StringVar(&flagAPIKey, "api-key", "", "Meetup API key (or env: MEETUP_API_KEY)")
	cmd.PersistentFlags().StringVar(&flagLogLevel, "log-level", "", "Log level: debug, info, warn or error (or env: LOG_LEVEL)")

	cmd.AddCommand(
		newGroupCmd(),
		newEventsCmd(),
		newNotifyCmd(),
		newCalendarCmd(),
	)

	return cmd
}

// loadConfig reads settings and configures the default logger
func loadConfig(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load(flagEnvFile, cmd.Flags(), config.FlagBindings{
		config.KeyMeetupAPIKey: "api-key",
		config.KeyLogLevel:     "log-level",
	})
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}

	level, err := logger.ParseLevel(cfg.LogLevel)
	if err != nil {
		return err
	}
	logger.SetDefault(logger.New(level, cmd.ErrOrStderr()))

	appConfig = cfg
	return nil
}

// newMeetupClient builds a Meetup client from the loaded config
func newMeetupClient() (*meetup.Client, error) {
	client, err := meetup.NewClient(appConfig.MeetupClient())
	if err != nil {
		return nil, fmt.Errorf("initializing meetup client: %w (set MEETUP_API_KEY or --api-key)", err)
	}
	return client, nil
}

// fetchEvents fetches upcoming events, logging and timing the request
func fetchEvents(ctx context.Context, client *meetup.Client) ([]meetup.EventSummary, error) {
	start := time.Now()
	events, err := client.UpcomingEvents(ctx)
	logger.RecordTiming("meetup.fetch_events", time.Since(start))
	logger.IncrCounter("meetup.requests")

	if err != nil {
		logger.Error("Fetching upcoming events failed", logger.Fields{"group": appConfig.Meetup.Group}, err)
		return nil, fmt.Errorf("fetching events: %w", err)
	}

	logger.SetGauge("events.upcoming", float64(len(events)))
	logger.Debug("Fetched upcoming events", logger.Fields{
		"group": appConfig.Meetup.Group,
		"count": len(events),
	})
	return events, nil
}

// fetchDescription fetches the group description, logging and timing the request
func fetchDescription(ctx context.Context, client *meetup.Client) (string, error) {
	start := time.Now()
	desc, err := client.GroupDescription(ctx)
	logger.RecordTiming("meetup.fetch_group", time.Since(start))
	logger.IncrCounter("meetup.requests")

	if err != nil {
		logger.Error("Fetching group description failed", logger.Fields{"group": appConfig.Meetup.Group}, err)
		return "", fmt.Errorf("fetching group description: %w", err)
	}
	return desc, nil
}

// Execute runs the CLI
func Execute() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	err := NewRootCmd().ExecuteContext(ctx)
	logger.Debug("Run metrics", logger.Fields{"metrics": logger.GetMetricsSnapshot()})
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		stop()
		os.Exit(ExitError)
	}
}
