package service

import (
	"github.com/chereanbot/legalaid-server/cmd/internal/domain/entity"
	"github.com/chereanbot/legalaid-server/cmd/internal/utils"
	"github.com/chereanbot/legalaid-server/cmd/internal/utils/apierror"
	"github.com/go-playground/validator/v10"
	"github.com/labstack/gommon/log"
)

type PaymentRepository interface {
	FindByID(id int) (*entity.Payment, error)
	FindByCase(caseID int) ([]*entity.Payment, error)
	Save(payment *entity.Payment) error
}

type CreatePaymentRequest struct {
	CaseID      int    `json:"case_id" validate:"required"`
	AmountCents int64  `json:"amount_cents" validate:"required,min=1"`
	Currency    string `json:"currency" validate:"required,len=3,nospaces"`
	Purpose     string `json:"purpose" validate:"max=255"`
}

type ResolvePaymentRequest struct {
	Status      string `json:"status" validate:"required,oneof=CONFIRMED REJECTED"`
	ExternalRef string `json:"external_ref" validate:"max=128"`
}

type PaymentResponse struct {
	ID          int    `json:"id"`
	CaseID      int    `json:"case_id"`
	ClientID    int    `json:"client_id"`
	AmountCents int64  `json:"amount_cents"`
	Currency    string `json:"currency"`
	Purpose     string `json:"purpose,omitempty"`
	Status      string `json:"status"`
	ExternalRef string `json:"external_ref,omitempty"`
	CreatedAt   string `json:"created_at"`
	UpdatedAt   string `json:"updated_at"`
}

type DefaultPaymentService struct {
	PaymentRepo PaymentRepository
	CaseRepo    CaseRepository
	UserRepo    UserRepository
	Validate    *validator.Validate
}

func NewPaymentService(paymentRepo PaymentRepository, caseRepo CaseRepository, userRepo UserRepository, validate *validator.Validate) *DefaultPaymentService {
	return &DefaultPaymentService{PaymentRepo: paymentRepo, CaseRepo: caseRepo, UserRepo: userRepo, Validate: validate}
}

// CreatePayment records a payment intent against a case. Money never moves
// here; reconciliation against the actual receipt is a manual coordinator
// step.
func (p *DefaultPaymentService) CreatePayment(req *CreatePaymentRequest, subId string) (*PaymentResponse, apierror.ErrorResponse) {
	caller, apierr := p.fetchCaller(subId)
	if apierr != nil {
		return nil, apierr
	}

	utils.Sanitize(req)
	if err := p.Validate.Struct(req); err != nil {
		return nil, apierror.FromValidationError(err)
	}

	kase, err := p.CaseRepo.FindByID(req.CaseID)
	if err != nil {
		log.Errorf("failed to fetch case %d: %v", req.CaseID, err)
		return nil, apierror.InternalServerError
	}
	if kase == nil {
		return nil, apierror.NotFoundError
	}
	if !canAccessCase(caller, kase) {
		return nil, apierror.ForbiddenError
	}

	now := utils.NowUTC()
	payment := &entity.Payment{
		CaseID:      kase.ID,
		ClientID:    kase.ClientID,
		AmountCents: req.AmountCents,
		Currency:    req.Currency,
		Purpose:     req.Purpose,
		Status:      entity.PaymentPending,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	if err := p.PaymentRepo.Save(payment); err != nil {
		log.Errorf("failed to save payment on case %d: %v", kase.ID, err)
		return nil, apierror.InternalServerError
	}
	return toPaymentResponse(payment), nil
}

func (p *DefaultPaymentService) GetPayments(caseID int, subId string) ([]*PaymentResponse, apierror.ErrorResponse) {
	caller, apierr := p.fetchCaller(subId)
	if apierr != nil {
		return nil, apierr
	}

	kase, err := p.CaseRepo.FindByID(caseID)
	if err != nil {
		log.Errorf("failed to fetch case %d: %v", caseID, err)
		return nil, apierror.InternalServerError
	}
	if kase == nil {
		return nil, apierror.NotFoundError
	}
	if !canAccessCase(caller, kase) {
		return nil, apierror.ForbiddenError
	}

	payments, err := p.PaymentRepo.FindByCase(caseID)
	if err != nil {
		log.Errorf("failed to fetch payments for case %d: %v", caseID, err)
		return nil, apierror.InternalServerError
	}

	resp := make([]*PaymentResponse, len(payments))
	for i, payment := range payments {
		resp[i] = toPaymentResponse(payment)
	}
	return resp, nil
}

// ResolvePayment settles a PENDING record as confirmed or rejected. Settled
// payments are immutable.
func (p *DefaultPaymentService) ResolvePayment(id int, req *ResolvePaymentRequest, subId string) (*PaymentResponse, apierror.ErrorResponse) {
	caller, apierr := p.fetchCaller(subId)
	if apierr != nil {
		return nil, apierr
	}
	if caller.Role != entity.RoleCoordinator && caller.Role != entity.RoleAdmin {
		return nil, apierror.ForbiddenError
	}

	utils.Sanitize(req)
	if err := p.Validate.Struct(req); err != nil {
		return nil, apierror.FromValidationError(err)
	}

	payment, err := p.PaymentRepo.FindByID(id)
	if err != nil {
		log.Errorf("failed to fetch payment %d: %v", id, err)
		return nil, apierror.InternalServerError
	}
	if payment == nil {
		return nil, apierror.NotFoundError
	}
	if payment.Status != entity.PaymentPending {
		return nil, apierror.InvalidTransitionError
	}

	payment.Status = entity.PaymentStatus(req.Status)
	payment.ExternalRef = req.ExternalRef
	payment.UpdatedAt = utils.NowUTC()

	if err := p.PaymentRepo.Save(payment); err != nil {
		log.Errorf("failed to resolve payment %d: %v", id, err)
		return nil, apierror.InternalServerError
	}
	return toPaymentResponse(payment), nil
}

func (p *DefaultPaymentService) fetchCaller(subId string) (*entity.User, apierror.ErrorResponse) {
	caller, err := p.UserRepo.FindBySub(subId)
	if err != nil {
		log.Errorf("failed to fetch user %s: %v", subId, err)
		return nil, apierror.InternalServerError
	}
	if caller == nil {
		return nil, apierror.NotFoundError
	}
	return caller, nil
}

func toPaymentResponse(payment *entity.Payment) *PaymentResponse {
	return &PaymentResponse{
		ID:          payment.ID,
		CaseID:      payment.CaseID,
		ClientID:    payment.ClientID,
		AmountCents: payment.AmountCents,
		Currency:    payment.Currency,
		Purpose:     payment.Purpose,
		Status:      string(payment.Status),
		ExternalRef: payment.ExternalRef,
		CreatedAt:   utils.FormatEpoch(payment.CreatedAt),
		UpdatedAt:   utils.FormatEpoch(payment.UpdatedAt),
	}
}
