package http

import (
	"time"

	"github.com/jobtrack/backend/app/entity"
)

type ErrorResponse struct {
	Error string `json:"error"`
}

type MessageResponse struct {
	Message string `json:"message"`
}

type SignupResponse struct {
	UserID  uint64 `json:"user_id"`
	Email   string `json:"email"`
	Message string `json:"message"`
}

type LoginResponse struct {
	UserID    uint64 `json:"user_id"`
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
	Message   string `json:"message"`
}

// VerificationRequiredResponse is the 403 login body for unverified
// accounts; user_id and email let the client offer a resend.
type VerificationRequiredResponse struct {
	Error  string `json:"error"`
	UserID uint64 `json:"user_id"`
	Email  string `json:"email"`
}

type MeResponse struct {
	UserID    uint64 `json:"user_id"`
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
	Gender    string `json:"gender,omitempty"`
}

func NewMeResponse(session *entity.Session) *MeResponse {
	return &MeResponse{
		UserID:    session.UserID,
		FirstName: session.FirstName,
		LastName:  session.LastName,
		Gender:    session.Gender.String,
	}
}

type UpdateProfileResponse struct {
	Message         string `json:"message"`
	PasswordChanged bool   `json:"password_changed"`
}

type ApplicationResponse struct {
	ID              uint64    `json:"id"`
	PositionName    string    `json:"position_name"`
	EmployerName    string    `json:"employer_name"`
	ApplicationDate string    `json:"application_date"`
	EmploymentType  string    `json:"employment_type,omitempty"`
	Source          string    `json:"source,omitempty"`
	JobDescription  string    `json:"job_description,omitempty"`
	JobLink         string    `json:"job_link,omitempty"`
	WorkMode        string    `json:"work_mode,omitempty"`
	Status          string    `json:"status"`
	Notes           string    `json:"notes,omitempty"`
	CreatedAt       time.Time `json:"created_at"`
	UpdatedAt       time.Time `json:"updated_at"`
}

func NewApplicationResponse(app *entity.JobApplication) *ApplicationResponse {
	return &ApplicationResponse{
		ID:              app.ID,
		PositionName:    app.PositionName,
		EmployerName:    app.EmployerName,
		ApplicationDate: app.ApplicationDate.Format("2006-01-02"),
		EmploymentType:  app.EmploymentType.String,
		Source:          app.Source.String,
		JobDescription:  app.JobDescription.String,
		JobLink:         app.JobLink.String,
		WorkMode:        app.WorkMode.String,
		Status:          app.Status,
		Notes:           app.Notes.String,
		CreatedAt:       app.CreatedAt,
		UpdatedAt:       app.UpdatedAt,
	}
}

type ApplicationListResponse struct {
	Applications []*ApplicationResponse `json:"applications"`
}

func NewApplicationListResponse(apps []*entity.JobApplication) *ApplicationListResponse {
	out := &ApplicationListResponse{Applications: make([]*ApplicationResponse, 0, len(apps))}
	for _, app := range apps {
		out.Applications = append(out.Applications, NewApplicationResponse(app))
	}
	return out
}

type InterviewResponse struct {
	ID            uint64    `json:"id"`
	ApplicationID uint64    `json:"application_id"`
	ScheduledAt   time.Time `json:"scheduled_at"`
	Kind          string    `json:"kind,omitempty"`
	Location      string    `json:"location,omitempty"`
	Notes         string    `json:"notes,omitempty"`
	ReminderSent  bool      `json:"reminder_sent"`
	CreatedAt     time.Time `json:"created_at"`
	UpdatedAt     time.Time `json:"updated_at"`
}

func NewInterviewResponse(iv *entity.Interview) *InterviewResponse {
	return &InterviewResponse{
		ID:            iv.ID,
		ApplicationID: iv.ApplicationID,
		ScheduledAt:   iv.ScheduledAt,
		Kind:          iv.Kind.String,
		Location:      iv.Location.String,
		Notes:         iv.Notes.String,
		ReminderSent:  iv.ReminderSent,
		CreatedAt:     iv.CreatedAt,
		UpdatedAt:     iv.UpdatedAt,
	}
}

type InterviewListResponse struct {
	Interviews []*InterviewResponse `json:"interviews"`
}

func NewInterviewListResponse(interviews []*entity.Interview) *InterviewListResponse {
	out := &InterviewListResponse{Interviews: make([]*InterviewResponse, 0, len(interviews))}
	for _, iv := range interviews {
		out.Interviews = append(out.Interviews, NewInterviewResponse(iv))
	}
	return out
}
