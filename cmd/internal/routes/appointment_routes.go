package routes

import (
	"net/http"
	"strconv"

	"github.com/chereanbot/legalaid-server/cmd/internal/domain/entity"
	"github.com/chereanbot/legalaid-server/cmd/internal/service"
	"github.com/chereanbot/legalaid-server/cmd/internal/utils"
	"github.com/chereanbot/legalaid-server/cmd/internal/utils/apierror"
	"github.com/labstack/echo/v4"
)

type AppointmentService interface {
	CreateAppointment(req *service.CreateAppointmentRequest, subId string) (*service.AppointmentResponse, apierror.ErrorResponse)
	GetAppointments(subId string, filter service.AppointmentFilter) ([]*service.AppointmentResponse, apierror.ErrorResponse)
	UpdateStatus(id int, req *service.UpdateAppointmentStatusRequest, subId string) (*service.AppointmentResponse, apierror.ErrorResponse)
	DeleteAppointment(id int, subId string) apierror.ErrorResponse
}

type DefaultAppointmentRoute struct {
	AppointmentService AppointmentService
}

func NewAppointmentDefault(apptService AppointmentService) *DefaultAppointmentRoute {
	return &DefaultAppointmentRoute{AppointmentService: apptService}
}

func (a *DefaultAppointmentRoute) GetAppointments(c echo.Context) error {
	data, found := tokenData(c)
	if !found {
		return c.JSON(401, apierror.InvalidAuthTokenError)
	}

	filter, apierr := parseAppointmentFilter(c)
	if apierr != nil {
		return c.JSON(apierr.Code(), apierr)
	}

	appts, apierr := a.AppointmentService.GetAppointments(data.Sub, filter)
	if apierr != nil {
		return c.JSON(apierr.Code(), apierr)
	}
	return ok(c, http.StatusOK, echo.Map{"appointments": appts})
}

func (a *DefaultAppointmentRoute) CreateAppointment(c echo.Context) error {
	var req service.CreateAppointmentRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(400, apierror.MalformedBodyError)
	}

	data, found := tokenData(c)
	if !found {
		return c.JSON(401, apierror.InvalidAuthTokenError)
	}

	appt, apierr := a.AppointmentService.CreateAppointment(&req, data.Sub)
	if apierr != nil {
		return c.JSON(apierr.Code(), apierr)
	}
	return ok(c, http.StatusCreated, appt)
}

func (a *DefaultAppointmentRoute) UpdateAppointmentStatus(c echo.Context) error {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		errResp := apierror.NewInvalidParamTypeError("id", "int32")
		return c.JSON(errResp.Code(), errResp)
	}

	var req service.UpdateAppointmentStatusRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(400, apierror.MalformedBodyError)
	}

	data, found := tokenData(c)
	if !found {
		return c.JSON(401, apierror.InvalidAuthTokenError)
	}

	appt, apierr := a.AppointmentService.UpdateStatus(id, &req, data.Sub)
	if apierr != nil {
		return c.JSON(apierr.Code(), apierr)
	}
	return ok(c, http.StatusOK, appt)
}

func (a *DefaultAppointmentRoute) DeleteAppointment(c echo.Context) error {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		errResp := apierror.NewInvalidParamTypeError("id", "int32")
		return c.JSON(errResp.Code(), errResp)
	}

	data, found := tokenData(c)
	if !found {
		return c.JSON(401, apierror.InvalidAuthTokenError)
	}

	apierr := a.AppointmentService.DeleteAppointment(id, data.Sub)
	if apierr != nil {
		return c.JSON(apierr.Code(), apierr)
	}
	return c.NoContent(http.StatusOK)
}

func parseAppointmentFilter(c echo.Context) (service.AppointmentFilter, apierror.ErrorResponse) {
	var filter service.AppointmentFilter

	if status := c.QueryParam("status"); status != "" {
		filter.Status = entity.AppointmentStatus(status)
	}
	if from := c.QueryParam("from"); from != "" {
		millis, err := utils.FromEpoch(from)
		if err != nil {
			return filter, apierror.NewInvalidParamTypeError("from", "RFC3339 timestamp")
		}
		filter.From = millis
	}
	if to := c.QueryParam("to"); to != "" {
		millis, err := utils.FromEpoch(to)
		if err != nil {
			return filter, apierror.NewInvalidParamTypeError("to", "RFC3339 timestamp")
		}
		filter.To = millis
	}
	return filter, nil
}
