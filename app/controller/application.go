package controller

import (
	"errors"
	"net/http"
	"strconv"

	httpdto "github.com/jobtrack/backend/app/dto/http"
	"github.com/jobtrack/backend/app/repository"
	"github.com/jobtrack/backend/app/service"

	"github.com/labstack/echo/v4"
	"github.com/sirupsen/logrus"
)

type ApplicationController struct {
	tracker *service.TrackerService
}

func NewApplicationController(tracker *service.TrackerService) *ApplicationController {
	return &ApplicationController{tracker: tracker}
}

func (c *ApplicationController) Create(ctx echo.Context) error {
	req, err := httpdto.NewApplicationRequestFromContext(ctx)
	if err != nil {
		logrus.WithError(err).Debug("Failed to bind application request")
		return ctx.JSON(http.StatusBadRequest, httpdto.ErrorResponse{Error: "invalid request body"})
	}

	if err = req.Validate(); err != nil {
		logrus.Debug("Application validation failed")
		return ctx.JSON(http.StatusBadRequest, httpdto.ErrorResponse{Error: err.Error()})
	}

	userID, ok := ctx.Get("user_id").(uint64)
	if !ok {
		return ctx.JSON(http.StatusUnauthorized, httpdto.ErrorResponse{Error: "not logged in"})
	}

	app, err := c.tracker.CreateApplication(ctx.Request().Context(), userID, applicationInput(req))
	if err != nil {
		logrus.WithError(err).WithField("user_id", userID).Error("Create application failed")
		return ctx.JSON(http.StatusInternalServerError, httpdto.ErrorResponse{Error: "internal server error"})
	}

	logrus.WithFields(logrus.Fields{"user_id": userID, "application_id": app.ID}).Info("Application created")
	return ctx.JSON(http.StatusCreated, httpdto.NewApplicationResponse(app))
}

func (c *ApplicationController) List(ctx echo.Context) error {
	userID, ok := ctx.Get("user_id").(uint64)
	if !ok {
		return ctx.JSON(http.StatusUnauthorized, httpdto.ErrorResponse{Error: "not logged in"})
	}

	filter := repository.ListFilter{
		Search:     ctx.QueryParam("search"),
		Status:     ctx.QueryParam("status"),
		Sort:       ctx.QueryParam("sort"),
		Descending: ctx.QueryParam("order") != "asc",
	}

	apps, err := c.tracker.ListApplications(ctx.Request().Context(), userID, filter)
	if err != nil {
		logrus.WithError(err).WithField("user_id", userID).Error("List applications failed")
		return ctx.JSON(http.StatusInternalServerError, httpdto.ErrorResponse{Error: "internal server error"})
	}

	return ctx.JSON(http.StatusOK, httpdto.NewApplicationListResponse(apps))
}

func (c *ApplicationController) Get(ctx echo.Context) error {
	userID, ok := ctx.Get("user_id").(uint64)
	if !ok {
		return ctx.JSON(http.StatusUnauthorized, httpdto.ErrorResponse{Error: "not logged in"})
	}

	id, err := parseID(ctx)
	if err != nil {
		return ctx.JSON(http.StatusBadRequest, httpdto.ErrorResponse{Error: "invalid id"})
	}

	app, err := c.tracker.GetApplication(ctx.Request().Context(), id, userID)
	if err != nil {
		if errors.Is(err, service.ErrRecordNotFound) {
			return ctx.JSON(http.StatusNotFound, httpdto.ErrorResponse{Error: "application not found"})
		}
		logrus.WithError(err).WithField("user_id", userID).Error("Get application failed")
		return ctx.JSON(http.StatusInternalServerError, httpdto.ErrorResponse{Error: "internal server error"})
	}

	return ctx.JSON(http.StatusOK, httpdto.NewApplicationResponse(app))
}

func (c *ApplicationController) Update(ctx echo.Context) error {
	req, err := httpdto.NewApplicationRequestFromContext(ctx)
	if err != nil {
		logrus.WithError(err).Debug("Failed to bind application request")
		return ctx.JSON(http.StatusBadRequest, httpdto.ErrorResponse{Error: "invalid request body"})
	}

	if err = req.Validate(); err != nil {
		logrus.Debug("Application validation failed")
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

	app, err := c.tracker.UpdateApplication(ctx.Request().Context(), id, userID, applicationInput(req))
	if err != nil {
		if errors.Is(err, service.ErrRecordNotFound) {
			return ctx.JSON(http.StatusNotFound, httpdto.ErrorResponse{Error: "application not found"})
		}
		logrus.WithError(err).WithField("user_id", userID).Error("Update application failed")
		return ctx.JSON(http.StatusInternalServerError, httpdto.ErrorResponse{Error: "internal server error"})
	}

	logrus.WithFields(logrus.Fields{"user_id": userID, "application_id": id}).Info("Application updated")
	return ctx.JSON(http.StatusOK, httpdto.NewApplicationResponse(app))
}

func (c *ApplicationController) Delete(ctx echo.Context) error {
	userID, ok := ctx.Get("user_id").(uint64)
	if !ok {
		return ctx.JSON(http.StatusUnauthorized, httpdto.ErrorResponse{Error: "not logged in"})
	}

	id, err := parseID(ctx)
	if err != nil {
		return ctx.JSON(http.StatusBadRequest, httpdto.ErrorResponse{Error: "invalid id"})
	}

	if err := c.tracker.DeleteApplication(ctx.Request().Context(), id, userID); err != nil {
		if errors.Is(err, service.ErrRecordNotFound) {
			return ctx.JSON(http.StatusNotFound, httpdto.ErrorResponse{Error: "application not found"})
		}
		logrus.WithError(err).WithField("user_id", userID).Error("Delete application failed")
		return ctx.JSON(http.StatusInternalServerError, httpdto.ErrorResponse{Error: "internal server error"})
	}

	logrus.WithFields(logrus.Fields{"user_id": userID, "application_id": id}).Info("Application deleted")
	return ctx.JSON(http.StatusOK, httpdto.MessageResponse{Message: "application deleted"})
}

func applicationInput(req *httpdto.ApplicationRequest) service.ApplicationInput {
	date, _ := req.ParsedDate()
	return service.ApplicationInput{
		PositionName:    req.PositionName,
		EmployerName:    req.EmployerName,
		ApplicationDate: date,
		EmploymentType:  req.EmploymentType,
		Source:          req.Source,
		JobDescription:  req.JobDescription,
		JobLink:         req.JobLink,
		WorkMode:        req.WorkMode,
		Status:          req.Status,
		Notes:           req.Notes,
	}
}

func parseID(ctx echo.Context) (uint64, error) {
	return strconv.ParseUint(ctx.Param("id"), 10, 64)
}
