package routes

import (
	"net/http"
	"strconv"

	"github.com/chereanbot/legalaid-server/cmd/internal/service"
	"github.com/chereanbot/legalaid-server/cmd/internal/utils"
	"github.com/chereanbot/legalaid-server/cmd/internal/utils/apierror"
	"github.com/labstack/echo/v4"
)

type MessageService interface {
	SendMessage(req *service.SendMessageRequest, subId string) (*service.MessageResponse, apierror.ErrorResponse)
	GetMessages(caseID int, sinceMillis int64, subId string) ([]*service.MessageResponse, apierror.ErrorResponse)
}

type DefaultMessageRoute struct {
	MessageService MessageService
}

func NewMessageDefault(messageService MessageService) *DefaultMessageRoute {
	return &DefaultMessageRoute{MessageService: messageService}
}

func (m *DefaultMessageRoute) SendMessage(c echo.Context) error {
	var req service.SendMessageRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(400, apierror.MalformedBodyError)
	}

	data, found := tokenData(c)
	if !found {
		return c.JSON(401, apierror.InvalidAuthTokenError)
	}

	msg, apierr := m.MessageService.SendMessage(&req, data.Sub)
	if apierr != nil {
		return c.JSON(apierr.Code(), apierr)
	}
	return ok(c, http.StatusCreated, msg)
}

// GetMessages serves the polling contract: clients re-fetch with
// ?since=<sent_at of the newest message seen> on whatever interval suits
// them. Omitting since returns the whole thread.
func (m *DefaultMessageRoute) GetMessages(c echo.Context) error {
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

	var since int64
	if sinceParam := c.QueryParam("since"); sinceParam != "" {
		since, err = utils.FromEpoch(sinceParam)
		if err != nil {
			errResp := apierror.NewInvalidParamTypeError("since", "RFC3339 timestamp")
			return c.JSON(errResp.Code(), errResp)
		}
	}

	data, found := tokenData(c)
	if !found {
		return c.JSON(401, apierror.InvalidAuthTokenError)
	}

	msgs, apierr := m.MessageService.GetMessages(caseID, since, data.Sub)
	if apierr != nil {
		return c.JSON(apierr.Code(), apierr)
	}
	return ok(c, http.StatusOK, echo.Map{"messages": msgs})
}
