package service

import (
	"context"
	"time"

	"github.com/jobtrack/backend/app/repository"
	"github.com/jobtrack/backend/config"

	"github.com/sirupsen/logrus"
)

// SweepService hosts the periodic jobs: ghosting stale applications,
// interview reminders and expired token/session purging. Sweeps overlap
// safely with live traffic because every update is conditioned on current
// row state.
type SweepService struct {
	applications *repository.ApplicationRepository
	interviews   *repository.InterviewRepository
	tokens       *TokenService
	sessions     *SessionService
	mailer       Mailer
	cfg          *config.Config
}

func NewSweepService(
	applications *repository.ApplicationRepository,
	interviews *repository.InterviewRepository,
	tokens *TokenService,
	sessions *SessionService,
	mailer Mailer,
	cfg *config.Config,
) *SweepService {
	return &SweepService{
		applications: applications,
		interviews:   interviews,
		tokens:       tokens,
		sessions:     sessions,
		mailer:       mailer,
		cfg:          cfg,
	}
}

// GhostStaleApplications runs one set-based update over all opted-in users.
func (s *SweepService) GhostStaleApplications(ctx context.Context) error {
	now := time.Now()
	cutoff := now.Add(-s.cfg.GhostingThreshold)

	ghosted, err := s.applications.GhostStale(ctx, cutoff, now)
	if err != nil {
		logrus.WithError(err).Error("Ghosting sweep failed")
		return err
	}

	logrus.WithField("ghosted", ghosted).Info("Ghosting sweep complete")
	return nil
}

// SendInterviewReminders emails owners of interviews scheduled on the next
// calendar day. A row is marked sent only after a successful send, so a mail
// failure leaves it eligible for the next run.
func (s *SweepService) SendInterviewReminders(ctx context.Context) error {
	loc := s.cfg.Location()
	now := time.Now().In(loc)
	from := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, loc).AddDate(0, 0, 1)
	to := from.AddDate(0, 0, 1)

	due, err := s.interviews.FindDueReminders(ctx, from, to)
	if err != nil {
		logrus.WithError(err).Error("Reminder sweep failed to list interviews")
		return err
	}

	sent := 0
	for _, row := range due {
		if err := s.mailer.SendInterviewReminder(row.Email, row.FirstName, row.PositionName, row.EmployerName, row.ScheduledAt); err != nil {
			logrus.WithError(err).WithField("interview_id", row.InterviewID).Error("Failed to send interview reminder")
			continue
		}
		if err := s.interviews.MarkReminderSent(ctx, row.InterviewID); err != nil {
			logrus.WithError(err).WithField("interview_id", row.InterviewID).Error("Failed to mark reminder sent")
			continue
		}
		sent++
	}

	logrus.WithFields(logrus.Fields{"due": len(due), "sent": sent}).Info("Reminder sweep complete")
	return nil
}

// PurgeExpired removes expired action tokens and sessions.
func (s *SweepService) PurgeExpired(ctx context.Context) error {
	tokens, err := s.tokens.PurgeExpired(ctx)
	if err != nil {
		logrus.WithError(err).Error("Token purge failed")
		return err
	}

	sessions, err := s.sessions.PurgeExpired(ctx)
	if err != nil {
		logrus.WithError(err).Error("Session purge failed")
		return err
	}

	logrus.WithFields(logrus.Fields{"tokens": tokens, "sessions": sessions}).Info("Expiry purge complete")
	return nil
}
