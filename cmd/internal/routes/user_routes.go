package routes

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/chereanbot/legalaid-server/cmd/internal/service"
	"github.com/chereanbot/legalaid-server/cmd/internal/utils/apierror"
	"github.com/labstack/echo/v4"
)

type UserService interface {
	CreateClient(req *service.CreateClientRequest) (*service.UserResponse, apierror.ErrorResponse)
	GetUser(rawId, subId string) (*service.UserResponse, apierror.ErrorResponse)
	GetLawyers(officeID int) ([]*service.UserResponse, apierror.ErrorResponse)
}

type OfficeService interface {
	GetOffices() ([]*service.OfficeResponse, apierror.ErrorResponse)
	CreateOffice(req *service.CreateOfficeRequest, subId string) (*service.OfficeResponse, apierror.ErrorResponse)
}

type DefaultUserRoute struct {
	UserService   UserService
	OfficeService OfficeService
}

func NewUserDefault(userService UserService, officeService OfficeService) *DefaultUserRoute {
	return &DefaultUserRoute{UserService: userService, OfficeService: officeService}
}

func (u *DefaultUserRoute) CreateClient(c echo.Context) error {
	var req service.CreateClientRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, apierror.MalformedBodyError)
	}

	client, apierr := u.UserService.CreateClient(&req)
	if apierr != nil {
		return c.JSON(apierr.Code(), apierr)
	}
	return ok(c, http.StatusCreated, client)
}

func (u *DefaultUserRoute) GetUser(c echo.Context) error {
	rawId := strings.TrimSpace(c.Param("id"))
	if rawId == "" {
		return c.JSON(http.StatusBadRequest, apierror.NewMissingParamError("id"))
	}

	data, found := tokenData(c)
	if !found {
		return c.JSON(401, apierror.InvalidAuthTokenError)
	}

	user, apierr := u.UserService.GetUser(rawId, data.Sub)
	if apierr != nil {
		return c.JSON(apierr.Code(), apierr)
	}
	return ok(c, http.StatusOK, user)
}

func (u *DefaultUserRoute) GetLawyers(c echo.Context) error {
	officeParam := c.QueryParam("office")
	if officeParam == "" {
		errResp := apierror.NewMissingParamError("office")
		return c.JSON(errResp.Code(), errResp)
	}
	officeID, err := strconv.Atoi(officeParam)
	if err != nil {
		errResp := apierror.NewInvalidParamTypeError("office", "int32")
		return c.JSON(errResp.Code(), errResp)
	}

	lawyers, apierr := u.UserService.GetLawyers(officeID)
	if apierr != nil {
		return c.JSON(apierr.Code(), apierr)
	}
	return ok(c, http.StatusOK, echo.Map{"lawyers": lawyers})
}

func (u *DefaultUserRoute) GetOffices(c echo.Context) error {
	offices, apierr := u.OfficeService.GetOffices()
	if apierr != nil {
		return c.JSON(apierr.Code(), apierr)
	}
	return ok(c, http.StatusOK, echo.Map{"offices": offices})
}

func (u *DefaultUserRoute) CreateOffice(c echo.Context) error {
	var req service.CreateOfficeRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, apierror.MalformedBodyError)
	}

	data, found := tokenData(c)
	if !found {
		return c.JSON(401, apierror.InvalidAuthTokenError)
	}

	office, apierr := u.OfficeService.CreateOffice(&req, data.Sub)
	if apierr != nil {
		return c.JSON(apierr.Code(), apierr)
	}
	return ok(c, http.StatusCreated, office)
}
