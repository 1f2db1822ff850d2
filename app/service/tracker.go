package service

import (
	"context"
	"errors"
	"time"

	"github.com/jobtrack/backend/app/entity"
	"github.com/jobtrack/backend/app/repository"
)

var ErrRecordNotFound = errors.New("record not found")

// TrackerService is the CRUD surface over a user's applications and
// interviews. Every query is scoped to the owning user, so foreign ids
// simply come back not found.
type TrackerService struct {
	applications *repository.ApplicationRepository
	interviews   *repository.InterviewRepository
}

func NewTrackerService(applications *repository.ApplicationRepository, interviews *repository.InterviewRepository) *TrackerService {
	return &TrackerService{applications: applications, interviews: interviews}
}

type ApplicationInput struct {
	PositionName    string
	EmployerName    string
	ApplicationDate time.Time
	EmploymentType  string
	Source          string
	JobDescription  string
	JobLink         string
	WorkMode        string
	Status          string
	Notes           string
}

func (in ApplicationInput) apply(app *entity.JobApplication) {
	app.PositionName = in.PositionName
	app.EmployerName = in.EmployerName
	app.ApplicationDate = in.ApplicationDate
	app.EmploymentType = nullString(in.EmploymentType)
	app.Source = nullString(in.Source)
	app.JobDescription = nullString(in.JobDescription)
	app.JobLink = nullString(in.JobLink)
	app.WorkMode = nullString(in.WorkMode)
	app.Status = in.Status
	app.Notes = nullString(in.Notes)
}

func (s *TrackerService) CreateApplication(ctx context.Context, userID uint64, in ApplicationInput) (*entity.JobApplication, error) {
	now := time.Now()
	app := &entity.JobApplication{
		UserID:    userID,
		CreatedAt: now,
		UpdatedAt: now,
	}
	in.apply(app)
	if app.Status == "" {
		app.Status = entity.ApplicationStatusApplied
	}

	if err := s.applications.Create(ctx, app); err != nil {
		return nil, err
	}
	return app, nil
}

func (s *TrackerService) ListApplications(ctx context.Context, userID uint64, filter repository.ListFilter) ([]*entity.JobApplication, error) {
	return s.applications.ListByUser(ctx, userID, filter)
}

func (s *TrackerService) GetApplication(ctx context.Context, id, userID uint64) (*entity.JobApplication, error) {
	app, err := s.applications.FindByID(ctx, id, userID)
	if err != nil {
		return nil, err
	}
	if app == nil {
		return nil, ErrRecordNotFound
	}
	return app, nil
}

func (s *TrackerService) UpdateApplication(ctx context.Context, id, userID uint64, in ApplicationInput) (*entity.JobApplication, error) {
	app := &entity.JobApplication{ID: id, UserID: userID}
	in.apply(app)
	if app.Status == "" {
		app.Status = entity.ApplicationStatusApplied
	}

	affected, err := s.applications.Update(ctx, app)
	if err != nil {
		return nil, err
	}
	if affected == 0 {
		// Rows-affected zero can also mean an identical rewrite, so confirm
		// the row really is missing before reporting not found.
		existing, findErr := s.applications.FindByID(ctx, id, userID)
		if findErr != nil {
			return nil, findErr
		}
		if existing == nil {
			return nil, ErrRecordNotFound
		}
	}
	return app, nil
}

func (s *TrackerService) DeleteApplication(ctx context.Context, id, userID uint64) error {
	affected, err := s.applications.Delete(ctx, id, userID)
	if err != nil {
		return err
	}
	if affected == 0 {
		return ErrRecordNotFound
	}
	return nil
}

type InterviewInput struct {
	ApplicationID uint64
	ScheduledAt   time.Time
	Kind          string
	Location      string
	Notes         string
}

func (s *TrackerService) CreateInterview(ctx context.Context, userID uint64, in InterviewInput) (*entity.Interview, error) {
	app, err := s.applications.FindByID(ctx, in.ApplicationID, userID)
	if err != nil {
		return nil, err
	}
	if app == nil {
		return nil, ErrRecordNotFound
	}

	now := time.Now()
	iv := &entity.Interview{
		UserID:        userID,
		ApplicationID: in.ApplicationID,
		ScheduledAt:   in.ScheduledAt,
		Kind:          nullString(in.Kind),
		Location:      nullString(in.Location),
		Notes:         nullString(in.Notes),
		CreatedAt:     now,
		UpdatedAt:     now,
	}
	if err := s.interviews.Create(ctx, iv); err != nil {
		return nil, err
	}
	return iv, nil
}

func (s *TrackerService) ListInterviews(ctx context.Context, userID uint64) ([]*entity.Interview, error) {
	return s.interviews.ListByUser(ctx, userID)
}

func (s *TrackerService) UpdateInterview(ctx context.Context, id, userID uint64, in InterviewInput) (*entity.Interview, error) {
	iv := &entity.Interview{
		ID:            id,
		UserID:        userID,
		ApplicationID: in.ApplicationID,
		ScheduledAt:   in.ScheduledAt,
		Kind:          nullString(in.Kind),
		Location:      nullString(in.Location),
		Notes:         nullString(in.Notes),
	}

	affected, err := s.interviews.Update(ctx, iv)
	if err != nil {
		return nil, err
	}
	if affected == 0 {
		existing, findErr := s.interviews.FindByID(ctx, id, userID)
		if findErr != nil {
			return nil, findErr
		}
		if existing == nil {
			return nil, ErrRecordNotFound
		}
	}
	return iv, nil
}

func (s *TrackerService) DeleteInterview(ctx context.Context, id, userID uint64) error {
	affected, err := s.interviews.Delete(ctx, id, userID)
	if err != nil {
		return err
	}
	if affected == 0 {
		return ErrRecordNotFound
	}
	return nil
}
