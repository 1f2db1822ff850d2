package cmd

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/jobtrack/backend/app/repository"
	"github.com/jobtrack/backend/app/service"
	"github.com/jobtrack/backend/config"

	_ "github.com/go-sql-driver/mysql"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
)

var sweepCmd = &cobra.Command{
	Use:       "sweep [ghosting|reminders|cleanup]",
	Short:     "Run one background sweep and exit",
	Long:      `Run a single background sweep (ghosting stale applications, interview reminders, or expiry cleanup) outside the scheduler, for operations and backfills.`,
	Args:      cobra.MatchAll(cobra.ExactArgs(1), cobra.OnlyValidArgs),
	ValidArgs: []string{"ghosting", "reminders", "cleanup"},
	RunE:      runSweep,
}

func init() {
	rootCmd.AddCommand(sweepCmd)
}

func runSweep(_ *cobra.Command, args []string) error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}
	if err := configureLogging(cfg); err != nil {
		return err
	}

	db, err := sql.Open("mysql", cfg.DSN())
	if err != nil {
		return err
	}
	defer db.Close()

	if err := db.Ping(); err != nil {
		return err
	}

	mailer, err := service.NewSMTPMailer(cfg.SMTP)
	if err != nil {
		return err
	}

	userRepo := repository.NewUserRepository(db)
	tokenService := service.NewTokenService(repository.NewActionTokenRepository(db))
	sessionService := service.NewSessionService(repository.NewSessionRepository(db), userRepo, cfg.SessionTTL)
	sweeps := service.NewSweepService(
		repository.NewApplicationRepository(db),
		repository.NewInterviewRepository(db),
		tokenService,
		sessionService,
		mailer,
		cfg,
	)

	ctx := context.Background()
	logrus.WithField("job", args[0]).Info("Running sweep")

	switch args[0] {
	case "ghosting":
		return sweeps.GhostStaleApplications(ctx)
	case "reminders":
		return sweeps.SendInterviewReminders(ctx)
	case "cleanup":
		return sweeps.PurgeExpired(ctx)
	default:
		return fmt.Errorf("unknown sweep %q", args[0])
	}
}
