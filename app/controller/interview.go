package controller

import (
	"errors"
	"net/http"

	httpdto "github.com/jobtrack/backend/app/dto/http"
	"github.com/jobtrack/backend/app/service"

	"github.com/labstack/echo/v4"
	"github.com/sirupsen/logrus"
)

type InterviewController struct {
	tracker *service.TrackerService
}

func NewInterviewController(tracker *service.TrackerService) *InterviewController {
	return &InterviewController{tracker: tracker}
}

func (c *InterviewController) Create(ctx echo.Context) error {
	req, err := httpdto.NewInterviewRequestFromContext(ctx)
	if err != nil {
		logrus.WithError(err).Debug("Failed to bind interview request")
		return ctx.JSON(http.StatusBadRequest, httpdto.ErrorResponse{Error: "invalid request body"})
	}

	if err = req.Validate(); err != nil {
		logrus.Debug("Interview validation failed")
		return ctx.JSON(http.StatusBadRequest, httpdto.ErrorResponse{Error: err.Error()})
	}

	userID, ok := ctx.Get("user_id").(uint64)
	if !ok {
		return ctx.JSON(http.StatusUnauthorized, httpdto.ErrorResponse{Error: "not logged in"})
	}

	iv, err := c.tracker.CreateInterview(ctx.Request().Context(), userID, interviewInput(req))
	if err != nil {
		if errors.Is(err, service.ErrRecordNotFound) {
			return ctx.JSON(http.StatusNotFound, httpdto.ErrorResponse{Error: "application not found"})
		}
		logrus.WithError(err).WithField("user_id", userID).Error("Create interview failed")
		return ctx.JSON(http.StatusInternalServerError, httpdto.ErrorResponse{Error: "internal server error"})
	}

	logrus.WithFields(logrus.Fields{"user_id": userID, "interview_id": iv.ID}).Info("Interview created")
	return ctx.JSON(http.StatusCreated, httpdto.NewInterviewResponse(iv))
}

func (c *InterviewController) List(ctx echo.Context) error {
	userID, ok := ctx.Get("user_id").(uint64)
	if !ok {
		return ctx.JSON(http.StatusUnauthorized, httpdto.ErrorResponse{Error: "not logged in"})
	}

	interviews, err := c.tracker.ListInterviews(ctx.Request().Context(), userID)
	if err != nil {
		logrus.WithError(err).WithField("user_id", userID).Error("List interviews failed")
		return ctx.JSON(http.StatusInternalServerError, httpdto.ErrorResponse{Error: "internal server error"})
	}

	return ctx.JSON(http.StatusOK, httpdto.NewInterviewListResponse(interviews))
}

func (c *InterviewController) Update(ctx echo.Context) error {
	req, err := httpdto.NewInterviewRequestFromContext(ctx)
	if err != nil {
		logrus.WithError(err).Debug("Failed to bind interview request")
		return ctx.JSON(http.StatusBadRequest, httpdto.ErrorResponse{Error: "invalid request body"})
	}

	if err = req.Validate(); err != nil {
		logrus.Debug("Interview validation failed")
		return ctx.JSON(http.StatusBadRequest, httpdto.ErrorResponse{Error: err.Error()})
	}

	userID, ok := ctx.Get("user_id").(uint64)
	if !ok {
		return ctx.JSON(http.StatusUnauthorized, httpdto.ErrorResponse{Error: "not logged in"})
	}

	id, err := parseID(ctx)
	if err != nil {
		return ctx.JSON(http.StatusBadRequest, httpdto.ErrorResponse{Error: "invalid id"})
	}

	iv, err := c.tracker.UpdateInterview(ctx.Request().Context(), id, userID, interviewInput(req))
	if err != nil {
		if errors.Is(err, service.ErrRecordNotFound) {
			return ctx.JSON(http.StatusNotFound, httpdto.ErrorResponse{Error: "interview not found"})
		}
		logrus.WithError(err).WithField("user_id", userID).Error("Update interview failed")
		return ctx.JSON(http.StatusInternalServerError, httpdto.ErrorResponse{Error: "internal server error"})
	}

	logrus.WithFields(logrus.Fields{"user_id": userID, "interview_id": id}).Info("Interview updated")
	return ctx.JSON(http.StatusOK, httpdto.NewInterviewResponse(iv))
}

func (c *InterviewController) Delete(ctx echo.Context) error {
	userID, ok := ctx.Get("user_id").(uint64)
	if !ok {
		return ctx.JSON(http.StatusUnauthorized, httpdto.ErrorResponse{Error: "not logged in"})
	}

	id, err := parseID(ctx)
	if err != nil {
		return ctx.JSON(http.StatusBadRequest, httpdto.ErrorResponse{Error: "invalid id"})
	}

	if err := c.tracker.DeleteInterview(ctx.Request().Context(), id, userID); err != nil {
		if errors.Is(err, service.ErrRecordNotFound) {
			return ctx.JSON(http.StatusNotFound, httpdto.ErrorResponse{Error: "interview not found"})
		}
		logrus.WithError(err).WithField("user_id", userID).Error("Delete interview failed")
		return ctx.JSON(http.StatusInternalServerError, httpdto.ErrorResponse{Error: "internal server error"})
	}

	logrus.WithFields(logrus.Fields{"user_id": userID, "interview_id": id}).Info("Interview deleted")
	return ctx.JSON(http.StatusOK, httpdto.MessageResponse{Message: "interview deleted"})
}

func interviewInput(req *httpdto.InterviewRequest) service.InterviewInput {
	scheduledAt, _ := req.ParsedScheduledAt()
	return service.InterviewInput{
		ApplicationID: req.ApplicationID,
		ScheduledAt:   scheduledAt,
		Kind:          req.Kind,
		Location:      req.Location,
		Notes:         req.Notes,
	}
}
