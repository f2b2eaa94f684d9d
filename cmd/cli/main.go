package main

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/communitykitchenhq/shiftdesk/cmd/cli/commands"
	"github.com/communitykitchenhq/shiftdesk/internal/config"
	"github.com/communitykitchenhq/shiftdesk/pkg/notify"
	"github.com/communitykitchenhq/shiftdesk/pkg/postgres"
	"github.com/communitykitchenhq/shiftdesk/pkg/utils/logging"
)

var (
	env        string
	app        = &commands.AppContext{}
	database   *postgres.DB
	dispatcher *notify.Dispatcher
)

func main() {
	rootCmd := &cobra.Command{
		Use:   "shiftdesk",
		Short: "ShiftDesk CLI - Coordinate volunteer shift signups",
		Long:  `A CLI tool for managing volunteer shift signups, auto-accept rules, waitlists and placements.`,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return initApp()
		},
		PersistentPostRun: func(cmd *cobra.Command, args []string) {
			if dispatcher != nil {
				dispatcher.Close()
			}
			if database != nil {
				database.Close()
			}
			if app.Logger != nil {
				app.Logger.Sync()
			}
		},
	}

	rootCmd.PersistentFlags().StringVarP(&env, "env", "e", "", "Environment (required: test, prod, etc.)")
	rootCmd.MarkPersistentFlagRequired("env")

	rootCmd.AddCommand(commands.ServeCmd(app))
	rootCmd.AddCommand(commands.SignupCmd(app))
	rootCmd.AddCommand(commands.CancelSignupCmd(app))
	rootCmd.AddCommand(commands.ApproveSignupCmd(app))
	rootCmd.AddCommand(commands.MoveCmd(app))
	rootCmd.AddCommand(commands.PlaceCmd(app))
	rootCmd.AddCommand(commands.MarkNoShowCmd(app))
	rootCmd.AddCommand(commands.RecordOutcomesCmd(app))
	rootCmd.AddCommand(commands.EvaluateRulesCmd(app))
	rootCmd.AddCommand(commands.CreateSeriesCmd(app))
	rootCmd.AddCommand(commands.ListShiftsCmd(app))
	rootCmd.AddCommand(commands.ListVolunteersCmd(app))
	rootCmd.AddCommand(commands.ListRulesCmd(app))

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

// initApp sets up logger, config, database and the notification dispatcher
func initApp() error {
	app.Ctx = context.Background()

	logger, err := logging.InitLogger(env)
	if err != nil {
		return fmt.Errorf("failed to initialize logger: %w", err)
	}
	app.Logger = logger

	logger.Info("Starting application", zap.String("environment", env))

	logger.Info("Loading configuration")
	cfg, err := config.LoadWithEnv(env)
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}
	app.Cfg = cfg
	logger.Debug("Configuration loaded successfully")

	logger.Info("Connecting to database")
	database, err = postgres.NewDB(app.Ctx, cfg.DatabaseURL)
	if err != nil {
		return fmt.Errorf("failed to connect to database: %w", err)
	}

	logger.Info("Running database migrations")
	if err := database.RunMigrations(app.Ctx); err != nil {
		return fmt.Errorf("failed to run migrations: %w", err)
	}
	app.Database = database
	logger.Debug("Database ready")

	dispatcher = notify.NewDispatcher(notify.NewLogSender(logger), cfg, logger)
	app.Sink = dispatcher

	return nil
}
