package service

import (
	"strconv"

	"github.com/chereanbot/legalaid-server/cmd/internal/domain/entity"
	"github.com/chereanbot/legalaid-server/cmd/internal/utils"
	"github.com/chereanbot/legalaid-server/cmd/internal/utils/apierror"
	"github.com/go-playground/validator/v10"
	"github.com/labstack/gommon/log"
)

type UserRepository interface {
	FindByID(id int) (*entity.User, error)
	FindBySub(sub string) (*entity.User, error)
	FindLawyersByOffice(officeID int) ([]*entity.User, error)
	ExistsByEmail(email string) (bool, error)
	Save(user *entity.User) error
}

type CreateClientRequest struct {
	Name     string `json:"name" validate:"required,min=2,max=80"`
	Email    string `json:"email" validate:"omitempty,email"`
	Phone    string `json:"phone" validate:"omitempty,e164"`
	OfficeID int    `json:"office_id" validate:"required"`
	// Subject the client authenticates as, issued by the external IdP.
	Sub string `json:"sub" validate:"required,nospaces,max=64"`
}

type UserResponse struct {
	ID              int    `json:"id"`
	Name            string `json:"name"`
	Email           string `json:"email,omitempty"`
	Phone           string `json:"phone,omitempty"`
	Role            string `json:"role"`
	OfficeID        int    `json:"office_id"`
	Specializations string `json:"specializations,omitempty"`
	Active          bool   `json:"active"`
	CreatedAt       string `json:"created_at"`
	UpdatedAt       string `json:"updated_at"`
}

type DefaultUserService struct {
	UserRepo   UserRepository
	OfficeRepo OfficeRepository
	Validate   *validator.Validate
}

func NewUserService(userRepo UserRepository, officeRepo OfficeRepository, validate *validator.Validate) *DefaultUserService {
	return &DefaultUserService{UserRepo: userRepo, OfficeRepo: officeRepo, Validate: validate}
}

// CreateClient registers a new client during intake. A contact channel is
// required so the scheduler can reach them later.
func (u *DefaultUserService) CreateClient(req *CreateClientRequest) (*UserResponse, apierror.ErrorResponse) {
	utils.Sanitize(req)
	if err := u.Validate.Struct(req); err != nil {
		return nil, apierror.FromValidationError(err)
	}

	if req.Email == "" && req.Phone == "" {
		return nil, apierror.NewSimple(400, "A phone number or email address is required")
	}

	office, err := u.OfficeRepo.FindByID(req.OfficeID)
	if err != nil {
		log.Errorf("failed to fetch office %d: %v", req.OfficeID, err)
		return nil, apierror.InternalServerError
	}
	if office == nil {
		return nil, apierror.NotFoundError
	}

	if req.Email != "" {
		found, err := u.UserRepo.ExistsByEmail(req.Email)
		if err != nil {
			log.Errorf("failed to check if client already exists: %v", err)
			return nil, apierror.InternalServerError
		}
		if found {
			return nil, apierror.NewSimple(409, "A client with this email already exists")
		}
	}

	now := utils.NowUTC()
	client := &entity.User{
		Sub:       req.Sub,
		Name:      req.Name,
		Email:     req.Email,
		Phone:     req.Phone,
		Role:      entity.RoleClient,
		OfficeID:  req.OfficeID,
		Active:    true,
		CreatedAt: now,
		UpdatedAt: now,
	}

	if err := u.UserRepo.Save(client); err != nil {
		log.Errorf("failed to create client: %v", err)
		return nil, apierror.InternalServerError
	}
	return toUserResponse(client), nil
}

func (u *DefaultUserService) GetUser(rawId, subId string) (*UserResponse, apierror.ErrorResponse) {
	var user *entity.User
	var err error

	if rawId == "@me" {
		user, err = u.UserRepo.FindBySub(subId)
	} else {
		var userId int
		userId, err = strconv.Atoi(rawId)
		if err != nil {
			return nil, apierror.NewInvalidParamTypeError("id", "int32")
		}
		user, err = u.UserRepo.FindByID(userId)
	}

	if err != nil {
		log.Errorf("failed to find user (%s): %v", rawId, err)
		return nil, apierror.InternalServerError
	}
	if user == nil {
		return nil, apierror.NotFoundError
	}
	return toUserResponse(user), nil
}

func (u *DefaultUserService) GetLawyers(officeID int) ([]*UserResponse, apierror.ErrorResponse) {
	lawyers, err := u.UserRepo.FindLawyersByOffice(officeID)
	if err != nil {
		log.Errorf("failed to fetch lawyers for office %d: %v", officeID, err)
		return nil, apierror.InternalServerError
	}

	resp := make([]*UserResponse, len(lawyers))
	for i, lawyer := range lawyers {
		resp[i] = toUserResponse(lawyer)
	}
	return resp, nil
}

func toUserResponse(user *entity.User) *UserResponse {
	return &UserResponse{
		ID:              user.ID,
		Name:            user.Name,
		Email:           user.Email,
		Phone:           user.Phone,
		Role:            string(user.Role),
		OfficeID:        user.OfficeID,
		Specializations: user.Specializations,
		Active:          user.Active,
		CreatedAt:       utils.FormatEpoch(user.CreatedAt),
		UpdatedAt:       utils.FormatEpoch(user.UpdatedAt),
	}
}
