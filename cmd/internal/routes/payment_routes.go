package routes

import (
	"net/http"
	"strconv"

	"github.com/chereanbot/legalaid-server/cmd/internal/service"
	"github.com/chereanbot/legalaid-server/cmd/internal/utils/apierror"
	"github.com/labstack/echo/v4"
)

type PaymentService interface {
	CreatePayment(req *service.CreatePaymentRequest, subId string) (*service.PaymentResponse, apierror.ErrorResponse)
	GetPayments(caseID int, subId string) ([]*service.PaymentResponse, apierror.ErrorResponse)
	ResolvePayment(id int, req *service.ResolvePaymentRequest, subId string) (*service.PaymentResponse, apierror.ErrorResponse)
}

type DefaultPaymentRoute struct {
	PaymentService PaymentService
}

func NewPaymentDefault(paymentService PaymentService) *DefaultPaymentRoute {
	return &DefaultPaymentRoute{PaymentService: paymentService}
}

func (p *DefaultPaymentRoute) CreatePayment(c echo.Context) error {
	var req service.CreatePaymentRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(400, apierror.MalformedBodyError)
	}

	data, found := tokenData(c)
	if !found {
		return c.JSON(401, apierror.InvalidAuthTokenError)
	}

	payment, apierr := p.PaymentService.CreatePayment(&req, data.Sub)
	if apierr != nil {
		return c.JSON(apierr.Code(), apierr)
	}
	return ok(c, http.StatusCreated, payment)
}

func (p *DefaultPaymentRoute) GetPayments(c echo.Context) error {
	caseParam := c.QueryParam("case")
	if caseParam == "" {
		errResp := apierror.NewMissingParamError("case")
		return c.JSON(errResp.Code(), errResp)
	}
	caseID, err := strconv.Atoi(caseParam)
	if err != nil {
		errResp := apierror.NewInvalidParamTypeError("case", "int32")
		return c.JSON(errResp.Code(), errResp)
	}

	data, found := tokenData(c)
	if !found {
		return c.JSON(401, apierror.InvalidAuthTokenError)
	}

	payments, apierr := p.PaymentService.GetPayments(caseID, data.Sub)
	if apierr != nil {
		return c.JSON(apierr.Code(), apierr)
	}
	return ok(c, http.StatusOK, echo.Map{"payments": payments})
}

func (p *DefaultPaymentRoute) ResolvePayment(c echo.Context) error {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		errResp := apierror.NewInvalidParamTypeError("id", "int32")
		return c.JSON(errResp.Code(), errResp)
	}

	var req service.ResolvePaymentRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(400, apierror.MalformedBodyError)
	}

	data, found := tokenData(c)
	if !found {
		return c.JSON(401, apierror.InvalidAuthTokenError)
	}

	payment, apierr := p.PaymentService.ResolvePayment(id, &req, data.Sub)
	if apierr != nil {
		return c.JSON(apierr.Code(), apierr)
	}
	return ok(c, http.StatusOK, payment)
}
