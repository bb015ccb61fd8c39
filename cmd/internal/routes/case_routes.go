package routes

import (
	"net/http"
	"strconv"

	"github.com/chereanbot/legalaid-server/cmd/internal/service"
	"github.com/chereanbot/legalaid-server/cmd/internal/utils/apierror"
	"github.com/labstack/echo/v4"
)

type CaseService interface {
	CreateCase(req *service.CreateCaseRequest, subId string) (*service.CaseResponse, apierror.ErrorResponse)
	GetCases(subId string) ([]*service.CaseResponse, apierror.ErrorResponse)
	GetCase(id int, subId string) (*service.CaseResponse, apierror.ErrorResponse)
	AssignLawyer(caseID, lawyerID int, subId string) (*service.CaseResponse, apierror.ErrorResponse)
	UpdateCaseStatus(id int, req *service.UpdateCaseStatusRequest, subId string) (*service.CaseResponse, apierror.ErrorResponse)
}

type AssignmentService interface {
	AutoAssign(subId string) (*service.AutoAssignResponse, apierror.ErrorResponse)
}

type DefaultCaseRoute struct {
	CaseService       CaseService
	AssignmentService AssignmentService
}

func NewCaseDefault(caseService CaseService, assignmentService AssignmentService) *DefaultCaseRoute {
	return &DefaultCaseRoute{CaseService: caseService, AssignmentService: assignmentService}
}

func (r *DefaultCaseRoute) CreateCase(c echo.Context) error {
	var req service.CreateCaseRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(400, apierror.MalformedBodyError)
	}

	data, found := tokenData(c)
	if !found {
		return c.JSON(401, apierror.InvalidAuthTokenError)
	}

	kase, apierr := r.CaseService.CreateCase(&req, data.Sub)
	if apierr != nil {
		return c.JSON(apierr.Code(), apierr)
	}
	return ok(c, http.StatusCreated, kase)
}

func (r *DefaultCaseRoute) GetCases(c echo.Context) error {
	data, found := tokenData(c)
	if !found {
		return c.JSON(401, apierror.InvalidAuthTokenError)
	}

	cases, apierr := r.CaseService.GetCases(data.Sub)
	if apierr != nil {
		return c.JSON(apierr.Code(), apierr)
	}
	return ok(c, http.StatusOK, echo.Map{"cases": cases})
}

func (r *DefaultCaseRoute) GetCase(c echo.Context) error {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		errResp := apierror.NewInvalidParamTypeError("id", "int32")
		return c.JSON(errResp.Code(), errResp)
	}

	data, found := tokenData(c)
	if !found {
		return c.JSON(401, apierror.InvalidAuthTokenError)
	}

	kase, apierr := r.CaseService.GetCase(id, data.Sub)
	if apierr != nil {
		return c.JSON(apierr.Code(), apierr)
	}
	return ok(c, http.StatusOK, kase)
}

type assignLawyerRequest struct {
	LawyerID int `json:"lawyer_id"`
}

func (r *DefaultCaseRoute) AssignLawyer(c echo.Context) error {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		errResp := apierror.NewInvalidParamTypeError("id", "int32")
		return c.JSON(errResp.Code(), errResp)
	}

	var req assignLawyerRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(400, apierror.MalformedBodyError)
	}
	if req.LawyerID == 0 {
		errResp := apierror.NewMissingParamError("lawyer_id")
		return c.JSON(errResp.Code(), errResp)
	}

	data, found := tokenData(c)
	if !found {
		return c.JSON(401, apierror.InvalidAuthTokenError)
	}

	kase, apierr := r.CaseService.AssignLawyer(id, req.LawyerID, data.Sub)
	if apierr != nil {
		return c.JSON(apierr.Code(), apierr)
	}
	return ok(c, http.StatusOK, kase)
}

func (r *DefaultCaseRoute) UpdateCaseStatus(c echo.Context) error {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		errResp := apierror.NewInvalidParamTypeError("id", "int32")
		return c.JSON(errResp.Code(), errResp)
	}

	var req service.UpdateCaseStatusRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(400, apierror.MalformedBodyError)
	}

	data, found := tokenData(c)
	if !found {
		return c.JSON(401, apierror.InvalidAuthTokenError)
	}

	kase, apierr := r.CaseService.UpdateCaseStatus(id, &req, data.Sub)
	if apierr != nil {
		return c.JSON(apierr.Code(), apierr)
	}
	return ok(c, http.StatusOK, kase)
}

func (r *DefaultCaseRoute) AutoAssign(c echo.Context) error {
	data, found := tokenData(c)
	if !found {
		return c.JSON(401, apierror.InvalidAuthTokenError)
	}

	result, apierr := r.AssignmentService.AutoAssign(data.Sub)
	if apierr != nil {
		return c.JSON(apierr.Code(), apierr)
	}
	return ok(c, http.StatusOK, result)
}
