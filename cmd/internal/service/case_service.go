package service

import (
	"github.com/chereanbot/legalaid-server/cmd/internal/domain/entity"
	"github.com/chereanbot/legalaid-server/cmd/internal/utils"
	"github.com/chereanbot/legalaid-server/cmd/internal/utils/apierror"
	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"github.com/labstack/gommon/log"
)

type CaseRepository interface {
	FindByID(id int) (*entity.Case, error)
	FindByOffice(officeID int) ([]*entity.Case, error)
	FindByClient(clientID int) ([]*entity.Case, error)
	FindByLawyer(lawyerID int) ([]*entity.Case, error)
	FindUnassignedByOffice(officeID int) ([]*entity.Case, error)
	CountOpenByLawyer(lawyerID int) (int64, error)
	Save(kase *entity.Case) error
}

var caseTransitions = map[entity.CaseStatus][]entity.CaseStatus{
	entity.CasePending:    {entity.CaseAssigned},
	entity.CaseAssigned:   {entity.CaseInProgress, entity.CaseClosed},
	entity.CaseInProgress: {entity.CaseClosed},
}

func canCaseTransition(from, to entity.CaseStatus) bool {
	for _, next := range caseTransitions[from] {
		if next == to {
			return true
		}
	}
	return false
}

type CreateCaseRequest struct {
	// Ignored when the caller is a client; clients always open their own
	// cases.
	ClientID    int    `json:"client_id"`
	Category    string `json:"category" validate:"required,max=64"`
	Description string `json:"description" validate:"max=4000"`
}

type UpdateCaseStatusRequest struct {
	Status string `json:"status" validate:"required,oneof=IN_PROGRESS CLOSED"`
}

type CaseResponse struct {
	ID              int    `json:"id"`
	ReferenceNumber string `json:"reference_number"`
	ClientID        int    `json:"client_id"`
	OfficeID        int    `json:"office_id"`
	Category        string `json:"category"`
	Description     string `json:"description,omitempty"`
	Status          string `json:"status"`
	LawyerID        *int   `json:"lawyer_id,omitempty"`
	CreatedAt       string `json:"created_at"`
	UpdatedAt       string `json:"updated_at"`
}

type DefaultCaseService struct {
	CaseRepo CaseRepository
	UserRepo UserRepository
	Validate *validator.Validate
}

func NewCaseService(caseRepo CaseRepository, userRepo UserRepository, validate *validator.Validate) *DefaultCaseService {
	return &DefaultCaseService{CaseRepo: caseRepo, UserRepo: userRepo, Validate: validate}
}

// CreateCase registers a new legal-aid case in the client's office. The case
// starts PENDING until a lawyer picks it up.
func (s *DefaultCaseService) CreateCase(req *CreateCaseRequest, subId string) (*CaseResponse, apierror.ErrorResponse) {
	caller, apierr := s.fetchCaller(subId)
	if apierr != nil {
		return nil, apierr
	}

	utils.Sanitize(req)
	if err := s.Validate.Struct(req); err != nil {
		return nil, apierror.FromValidationError(err)
	}

	client := caller
	if caller.Role != entity.RoleClient {
		if req.ClientID == 0 {
			return nil, apierror.NewMissingParamError("client_id")
		}
		var err error
		client, err = s.UserRepo.FindByID(req.ClientID)
		if err != nil {
			log.Errorf("failed to fetch client %d: %v", req.ClientID, err)
			return nil, apierror.InternalServerError
		}
		if client == nil || client.Role != entity.RoleClient {
			return nil, apierror.NotFoundError
		}
	}

	now := utils.NowUTC()
	kase := &entity.Case{
		ReferenceNumber: "LA-" + uuid.NewString(),
		ClientID:        client.ID,
		OfficeID:        client.OfficeID,
		Category:        req.Category,
		Description:     req.Description,
		Status:          entity.CasePending,
		CreatedAt:       now,
		UpdatedAt:       now,
	}

	if err := s.CaseRepo.Save(kase); err != nil {
		log.Errorf("failed to create case: %v", err)
		return nil, apierror.InternalServerError
	}
	return toCaseResponse(kase), nil
}

// GetCases lists what the caller is allowed to see: coordinators get their
// whole office, lawyers and clients only their own cases.
func (s *DefaultCaseService) GetCases(subId string) ([]*CaseResponse, apierror.ErrorResponse) {
	caller, apierr := s.fetchCaller(subId)
	if apierr != nil {
		return nil, apierr
	}

	var cases []*entity.Case
	var err error
	switch caller.Role {
	case entity.RoleCoordinator, entity.RoleAdmin:
		cases, err = s.CaseRepo.FindByOffice(caller.OfficeID)
	case entity.RoleLawyer:
		cases, err = s.CaseRepo.FindByLawyer(caller.ID)
	default:
		cases, err = s.CaseRepo.FindByClient(caller.ID)
	}
	if err != nil {
		log.Errorf("failed to list cases for user %d: %v", caller.ID, err)
		return nil, apierror.InternalServerError
	}

	resp := make([]*CaseResponse, len(cases))
	for i, kase := range cases {
		resp[i] = toCaseResponse(kase)
	}
	return resp, nil
}

func (s *DefaultCaseService) GetCase(id int, subId string) (*CaseResponse, apierror.ErrorResponse) {
	caller, apierr := s.fetchCaller(subId)
	if apierr != nil {
		return nil, apierr
	}

	kase, apierr := s.fetchCase(id)
	if apierr != nil {
		return nil, apierr
	}

	if !canAccessCase(caller, kase) {
		return nil, apierror.ForbiddenError
	}
	return toCaseResponse(kase), nil
}

// AssignLawyer pins a named lawyer onto a pending case. The lawyer must be an
// active member of the case's office.
func (s *DefaultCaseService) AssignLawyer(caseID, lawyerID int, subId string) (*CaseResponse, apierror.ErrorResponse) {
	caller, apierr := s.fetchCaller(subId)
	if apierr != nil {
		return nil, apierr
	}
	if caller.Role != entity.RoleCoordinator && caller.Role != entity.RoleAdmin {
		return nil, apierror.ForbiddenError
	}

	kase, apierr := s.fetchCase(caseID)
	if apierr != nil {
		return nil, apierr
	}
	if !canCaseTransition(kase.Status, entity.CaseAssigned) {
		return nil, apierror.InvalidTransitionError
	}

	lawyer, err := s.UserRepo.FindByID(lawyerID)
	if err != nil {
		log.Errorf("failed to fetch lawyer %d: %v", lawyerID, err)
		return nil, apierror.InternalServerError
	}
	if lawyer == nil || lawyer.Role != entity.RoleLawyer || !lawyer.Active {
		return nil, apierror.NotFoundError
	}
	if lawyer.OfficeID != kase.OfficeID {
		return nil, apierror.NewSimple(409, "The lawyer does not belong to the case's office")
	}

	kase.LawyerID = &lawyer.ID
	kase.Status = entity.CaseAssigned
	kase.UpdatedAt = utils.NowUTC()

	if err := s.CaseRepo.Save(kase); err != nil {
		log.Errorf("failed to assign case %d: %v", caseID, err)
		return nil, apierror.InternalServerError
	}
	return toCaseResponse(kase), nil
}

func (s *DefaultCaseService) UpdateCaseStatus(id int, req *UpdateCaseStatusRequest, subId string) (*CaseResponse, apierror.ErrorResponse) {
	caller, apierr := s.fetchCaller(subId)
	if apierr != nil {
		return nil, apierr
	}

	if err := s.Validate.Struct(req); err != nil {
		return nil, apierror.FromValidationError(err)
	}

	kase, apierr := s.fetchCase(id)
	if apierr != nil {
		return nil, apierr
	}

	assigned := kase.LawyerID != nil && *kase.LawyerID == caller.ID
	coordinates := (caller.Role == entity.RoleCoordinator || caller.Role == entity.RoleAdmin) && caller.OfficeID == kase.OfficeID
	if !assigned && !coordinates {
		return nil, apierror.ForbiddenError
	}

	target := entity.CaseStatus(req.Status)
	if !canCaseTransition(kase.Status, target) {
		return nil, apierror.InvalidTransitionError
	}

	kase.Status = target
	kase.UpdatedAt = utils.NowUTC()
	if err := s.CaseRepo.Save(kase); err != nil {
		log.Errorf("failed to update case %d: %v", id, err)
		return nil, apierror.InternalServerError
	}
	return toCaseResponse(kase), nil
}

func (s *DefaultCaseService) fetchCaller(subId string) (*entity.User, apierror.ErrorResponse) {
	caller, err := s.UserRepo.FindBySub(subId)
	if err != nil {
		log.Errorf("failed to fetch user %s: %v", subId, err)
		return nil, apierror.InternalServerError
	}
	if caller == nil {
		return nil, apierror.NotFoundError
	}
	return caller, nil
}

func (s *DefaultCaseService) fetchCase(id int) (*entity.Case, apierror.ErrorResponse) {
	kase, err := s.CaseRepo.FindByID(id)
	if err != nil {
		log.Errorf("failed to fetch case %d: %v", id, err)
		return nil, apierror.InternalServerError
	}
	if kase == nil {
		return nil, apierror.NotFoundError
	}
	return kase, nil
}

func canAccessCase(caller *entity.User, kase *entity.Case) bool {
	switch caller.Role {
	case entity.RoleAdmin:
		return true
	case entity.RoleCoordinator:
		return caller.OfficeID == kase.OfficeID
	case entity.RoleLawyer:
		return kase.LawyerID != nil && *kase.LawyerID == caller.ID
	default:
		return kase.ClientID == caller.ID
	}
}

func toCaseResponse(kase *entity.Case) *CaseResponse {
	return &CaseResponse{
		ID:              kase.ID,
		ReferenceNumber: kase.ReferenceNumber,
		ClientID:        kase.ClientID,
		OfficeID:        kase.OfficeID,
		Category:        kase.Category,
		Description:     kase.Description,
		Status:          string(kase.Status),
		LawyerID:        kase.LawyerID,
		CreatedAt:       utils.FormatEpoch(kase.CreatedAt),
		UpdatedAt:       utils.FormatEpoch(kase.UpdatedAt),
	}
}
