package service

import (
	"github.com/chereanbot/legalaid-server/cmd/internal/domain/entity"
	"github.com/chereanbot/legalaid-server/cmd/internal/utils"
	"github.com/chereanbot/legalaid-server/cmd/internal/utils/apierror"
	"github.com/go-playground/validator/v10"
	"github.com/labstack/gommon/log"
)

type MessageRepository interface {
	FindByCaseSince(caseID int, sinceMillis int64) ([]*entity.Message, error)
	Save(msg *entity.Message) error
}

type SendMessageRequest struct {
	CaseID      int    `json:"case_id" validate:"required"`
	RecipientID int    `json:"recipient_id" validate:"required"`
	Body        string `json:"body" validate:"required,max=4000"`
}

type MessageResponse struct {
	ID          int    `json:"id"`
	CaseID      int    `json:"case_id"`
	SenderID    int    `json:"sender_id"`
	RecipientID int    `json:"recipient_id"`
	Body        string `json:"body"`
	SentAt      string `json:"sent_at"`
}

type DefaultMessageService struct {
	MessageRepo MessageRepository
	CaseRepo    CaseRepository
	UserRepo    UserRepository
	Validate    *validator.Validate
}

func NewMessageService(messageRepo MessageRepository, caseRepo CaseRepository, userRepo UserRepository, validate *validator.Validate) *DefaultMessageService {
	return &DefaultMessageService{MessageRepo: messageRepo, CaseRepo: caseRepo, UserRepo: userRepo, Validate: validate}
}

func (m *DefaultMessageService) SendMessage(req *SendMessageRequest, subId string) (*MessageResponse, apierror.ErrorResponse) {
	utils.Sanitize(req)
	if err := m.Validate.Struct(req); err != nil {
		return nil, apierror.FromValidationError(err)
	}

	caller, kase, apierr := m.fetchParticipant(req.CaseID, subId)
	if apierr != nil {
		return nil, apierr
	}

	recipient, err := m.UserRepo.FindByID(req.RecipientID)
	if err != nil {
		log.Errorf("failed to fetch recipient %d: %v", req.RecipientID, err)
		return nil, apierror.InternalServerError
	}
	if recipient == nil || !canAccessCase(recipient, kase) {
		return nil, apierror.NotFoundError
	}

	msg := &entity.Message{
		CaseID:      kase.ID,
		SenderID:    caller.ID,
		RecipientID: recipient.ID,
		Body:        req.Body,
		SentAt:      utils.NowUTC(),
	}
	if err := m.MessageRepo.Save(msg); err != nil {
		log.Errorf("failed to save message on case %d: %v", kase.ID, err)
		return nil, apierror.InternalServerError
	}
	return toMessageResponse(msg), nil
}

// GetMessages is the poll endpoint behind the 3-second client refresh: the
// caller passes the sent-at of the newest message it has seen and gets
// everything after it, oldest first. Polling with an unchanged cursor returns
// the same answer.
func (m *DefaultMessageService) GetMessages(caseID int, sinceMillis int64, subId string) ([]*MessageResponse, apierror.ErrorResponse) {
	_, kase, apierr := m.fetchParticipant(caseID, subId)
	if apierr != nil {
		return nil, apierr
	}

	msgs, err := m.MessageRepo.FindByCaseSince(kase.ID, sinceMillis)
	if err != nil {
		log.Errorf("failed to fetch messages for case %d: %v", caseID, err)
		return nil, apierror.InternalServerError
	}

	resp := make([]*MessageResponse, len(msgs))
	for i, msg := range msgs {
		resp[i] = toMessageResponse(msg)
	}
	return resp, nil
}

func (m *DefaultMessageService) fetchParticipant(caseID int, subId string) (*entity.User, *entity.Case, apierror.ErrorResponse) {
	caller, err := m.UserRepo.FindBySub(subId)
	if err != nil {
		log.Errorf("failed to fetch user %s: %v", subId, err)
		return nil, nil, apierror.InternalServerError
	}
	if caller == nil {
		return nil, nil, apierror.NotFoundError
	}

	kase, err := m.CaseRepo.FindByID(caseID)
	if err != nil {
		log.Errorf("failed to fetch case %d: %v", caseID, err)
		return nil, nil, apierror.InternalServerError
	}
	if kase == nil {
		return nil, nil, apierror.NotFoundError
	}
	if !canAccessCase(caller, kase) {
		return nil, nil, apierror.ForbiddenError
	}
	return caller, kase, nil
}

func toMessageResponse(msg *entity.Message) *MessageResponse {
	return &MessageResponse{
		ID:          msg.ID,
		CaseID:      msg.CaseID,
		SenderID:    msg.SenderID,
		RecipientID: msg.RecipientID,
		Body:        msg.Body,
		SentAt:      utils.FormatEpoch(msg.SentAt),
	}
}
