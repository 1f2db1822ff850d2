package cmd

import (
	"context"
	"database/sql"
	"net"

	"github.com/jobtrack/backend/app/controller"
	appmiddleware "github.com/jobtrack/backend/app/middleware"
	"github.com/jobtrack/backend/app/repository"
	"github.com/jobtrack/backend/app/service"
	"github.com/jobtrack/backend/config"

	_ "github.com/go-sql-driver/mysql"
	"github.com/labstack/echo/v4"
	echomiddleware "github.com/labstack/echo/v4/middleware"
	"github.com/robfig/cron/v3"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the HTTP server and background sweeps",
	Long:  `Start the HTTP (Echo) server and the scheduled sweeps for ghosting, interview reminders and expiry cleanup.`,
	Run:   runServe,
}

func init() {
	rootCmd.AddCommand(serveCmd)
}

func runServe(_ *cobra.Command, _ []string) {
	cfg, err := config.Load()
	if err != nil {
		logrus.WithError(err).Fatal("Failed to load configuration")
	}
	if err := configureLogging(cfg); err != nil {
		logrus.WithError(err).Fatal("Failed to configure logging")
	}

	db, err := sql.Open("mysql", cfg.DSN())
	if err != nil {
		logrus.WithError(err).Fatal("Failed to connect to database")
	}
	defer db.Close()

	if err := db.Ping(); err != nil {
		logrus.WithError(err).Fatal("Failed to ping database")
	}

	mailer, err := service.NewSMTPMailer(cfg.SMTP)
	if err != nil {
		logrus.WithError(err).Fatal("Failed to initialize mailer")
	}

	userRepo := repository.NewUserRepository(db)
	tokenRepo := repository.NewActionTokenRepository(db)
	sessionRepo := repository.NewSessionRepository(db)
	applicationRepo := repository.NewApplicationRepository(db)
	interviewRepo := repository.NewInterviewRepository(db)

	credentials := service.NewCredentials(cfg.PasswordPolicy)
	tokenService := service.NewTokenService(tokenRepo)
	sessionService := service.NewSessionService(sessionRepo, userRepo, cfg.SessionTTL)
	accountService := service.NewAccountService(db, userRepo, tokenService, sessionService, credentials, mailer, cfg)
	trackerService := service.NewTrackerService(applicationRepo, interviewRepo)
	sweepService := service.NewSweepService(applicationRepo, interviewRepo, tokenService, sessionService, mailer, cfg)

	scheduler := startScheduler(cfg, sweepService)
	defer scheduler.Stop()

	startHTTPServer(cfg, accountService, sessionService, trackerService)
}

func startScheduler(cfg *config.Config, sweeps *service.SweepService) *cron.Cron {
	scheduler := cron.New(cron.WithLocation(cfg.Location()))

	schedules := map[string]struct {
		spec string
		run  func(context.Context) error
	}{
		"ghosting":  {cfg.GhostingSchedule, sweeps.GhostStaleApplications},
		"reminders": {cfg.ReminderSchedule, sweeps.SendInterviewReminders},
		"cleanup":   {cfg.CleanupSchedule, sweeps.PurgeExpired},
	}

	for name, job := range schedules {
		run := job.run
		if _, err := scheduler.AddFunc(job.spec, func() {
			_ = run(context.Background())
		}); err != nil {
			logrus.WithError(err).WithField("job", name).Fatal("Failed to schedule sweep")
		}
		logrus.WithFields(logrus.Fields{"job": name, "schedule": job.spec}).Info("Sweep scheduled")
	}

	scheduler.Start()
	return scheduler
}

func startHTTPServer(
	cfg *config.Config,
	accountService *service.AccountService,
	sessionService *service.SessionService,
	trackerService *service.TrackerService,
) {
	e := echo.New()
	defer e.Close()
	e.HideBanner = true

	e.Use(echomiddleware.RequestLoggerWithConfig(echomiddleware.RequestLoggerConfig{
		LogURI:       true,
		LogStatus:    true,
		LogMethod:    true,
		LogRemoteIP:  true,
		LogLatency:   true,
		LogUserAgent: true,
		LogError:     true,
		HandleError:  true,
		LogValuesFunc: func(c echo.Context, v echomiddleware.RequestLoggerValues) error {
			fields := logrus.Fields{
				"remote_ip":  v.RemoteIP,
				"host":       v.Host,
				"method":     v.Method,
				"uri":        v.URI,
				"status":     v.Status,
				"latency":    v.Latency.String(),
				"latency_ns": v.Latency.Nanoseconds(),
				"user_agent": v.UserAgent,
			}
			entry := logrus.WithFields(fields)
			if v.Error != nil {
				entry = entry.WithError(v.Error)
			}
			entry.Info("http_request")
			return nil
		},
	}))
	e.Use(echomiddleware.Recover())
	e.Use(echomiddleware.CORS())

	accountController := controller.NewAccountController(accountService, cfg.SessionTTL)
	applicationController := controller.NewApplicationController(trackerService)
	interviewController := controller.NewInterviewController(trackerService)
	sessionMiddleware := appmiddleware.NewSessionMiddleware(sessionService)

	auth := e.Group("/auth")
	auth.POST("/signup", accountController.Signup)
	auth.POST("/login", accountController.Login)
	auth.POST("/logout", accountController.Logout)
	auth.POST("/verify-email", accountController.VerifyEmail)
	auth.POST("/resend-verification", accountController.ResendVerification)
	auth.POST("/forgot-password", accountController.ForgotPassword)
	auth.POST("/reset-password", accountController.ResetPassword)
	auth.POST("/confirm-delete-account", accountController.ConfirmDeletion)

	protected := e.Group("", sessionMiddleware.RequireSession)
	protected.GET("/me", accountController.Me)
	protected.PATCH("/me", accountController.UpdateProfile)
	protected.POST("/me/delete-account", accountController.RequestDeletion)

	protected.POST("/applications", applicationController.Create)
	protected.GET("/applications", applicationController.List)
	protected.GET("/applications/:id", applicationController.Get)
	protected.PATCH("/applications/:id", applicationController.Update)
	protected.DELETE("/applications/:id", applicationController.Delete)

	protected.POST("/interviews", interviewController.Create)
	protected.GET("/interviews", interviewController.List)
	protected.PATCH("/interviews/:id", interviewController.Update)
	protected.DELETE("/interviews/:id", interviewController.Delete)

	httpAddr := net.JoinHostPort(cfg.HTTPHost, cfg.HTTPPort)
	logrus.WithField("addr", httpAddr).Info("Starting HTTP server")
	if err := e.Start(httpAddr); err != nil {
		logrus.WithError(err).Fatal("Failed to start HTTP server")
	}
}
