package service

import (
	"github.com/chereanbot/legalaid-server/cmd/internal/domain/entity"
	"github.com/chereanbot/legalaid-server/cmd/internal/utils"
	"github.com/chereanbot/legalaid-server/cmd/internal/utils/apierror"
	"github.com/go-playground/validator/v10"
	"github.com/labstack/gommon/log"
)

type OfficeRepository interface {
	FindByID(id int) (*entity.Office, error)
	FindAll() ([]*entity.Office, error)
	ExistsByName(name string) (bool, error)
	Save(office *entity.Office) error
}

type CreateOfficeRequest struct {
	Name  string `json:"name" validate:"required,min=2,max=80"`
	City  string `json:"city" validate:"required,max=80"`
	Phone string `json:"phone" validate:"omitempty,e164"`
}

type OfficeResponse struct {
	ID        int    `json:"id"`
	Name      string `json:"name"`
	City      string `json:"city"`
	Phone     string `json:"phone,omitempty"`
	CreatedAt string `json:"created_at"`
}

type DefaultOfficeService struct {
	OfficeRepo OfficeRepository
	UserRepo   UserRepository
	Validate   *validator.Validate
}

func NewOfficeService(officeRepo OfficeRepository, userRepo UserRepository, validate *validator.Validate) *DefaultOfficeService {
	return &DefaultOfficeService{OfficeRepo: officeRepo, UserRepo: userRepo, Validate: validate}
}

func (o *DefaultOfficeService) GetOffices() ([]*OfficeResponse, apierror.ErrorResponse) {
	offices, err := o.OfficeRepo.FindAll()
	if err != nil {
		log.Errorf("failed to fetch offices: %v", err)
		return nil, apierror.InternalServerError
	}

	resp := make([]*OfficeResponse, len(offices))
	for i, office := range offices {
		resp[i] = toOfficeResponse(office)
	}
	return resp, nil
}

func (o *DefaultOfficeService) CreateOffice(req *CreateOfficeRequest, subId string) (*OfficeResponse, apierror.ErrorResponse) {
	caller, err := o.UserRepo.FindBySub(subId)
	if err != nil {
		log.Errorf("failed to fetch user %s: %v", subId, err)
		return nil, apierror.InternalServerError
	}
	if caller == nil {
		return nil, apierror.NotFoundError
	}
	if caller.Role != entity.RoleAdmin {
		return nil, apierror.ForbiddenError
	}

	utils.Sanitize(req)
	if valerr := o.Validate.Struct(req); valerr != nil {
		return nil, apierror.FromValidationError(valerr)
	}

	found, err := o.OfficeRepo.ExistsByName(req.Name)
	if err != nil {
		log.Errorf("failed to check office name %q: %v", req.Name, err)
		return nil, apierror.InternalServerError
	}
	if found {
		return nil, apierror.NewSimple(409, "An office with this name already exists")
	}

	now := utils.NowUTC()
	office := &entity.Office{
		Name:      req.Name,
		City:      req.City,
		Phone:     req.Phone,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := o.OfficeRepo.Save(office); err != nil {
		log.Errorf("failed to create office: %v", err)
		return nil, apierror.InternalServerError
	}
	return toOfficeResponse(office), nil
}

func toOfficeResponse(office *entity.Office) *OfficeResponse {
	return &OfficeResponse{
		ID:        office.ID,
		Name:      office.Name,
		City:      office.City,
		Phone:     office.Phone,
		CreatedAt: utils.FormatEpoch(office.CreatedAt),
	}
}
