package repository

import (
	"errors"

	"github.com/chereanbot/legalaid-server/cmd/internal/domain/entity"
	"gorm.io/gorm"
)

type DefaultCaseRepository struct {
	db *gorm.DB
}

func NewCaseRepository(db *gorm.DB) *DefaultCaseRepository {
	return &DefaultCaseRepository{db: db}
}

func (c *DefaultCaseRepository) FindByID(id int) (*entity.Case, error) {
	var kase entity.Case
	err := c.db.First(&kase, id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	return &kase, err
}

func (c *DefaultCaseRepository) FindByOffice(officeID int) ([]*entity.Case, error) {
	var cases []*entity.Case
	err := c.db.Where("office_id = ?", officeID).Order("created_at desc").Find(&cases).Error
	return cases, err
}

func (c *DefaultCaseRepository) FindByClient(clientID int) ([]*entity.Case, error) {
	var cases []*entity.Case
	err := c.db.Where("client_id = ?", clientID).Order("created_at desc").Find(&cases).Error
	return cases, err
}

func (c *DefaultCaseRepository) FindByLawyer(lawyerID int) ([]*entity.Case, error) {
	var cases []*entity.Case
	err := c.db.Where("lawyer_id = ?", lawyerID).Order("created_at desc").Find(&cases).Error
	return cases, err
}

func (c *DefaultCaseRepository) FindUnassignedByOffice(officeID int) ([]*entity.Case, error) {
	var cases []*entity.Case
	err := c.db.
		Where("office_id = ?", officeID).
		Where("status = ?", entity.CasePending).
		Where("lawyer_id IS NULL").
		Order("created_at asc").
		Find(&cases).Error
	return cases, err
}

// CountOpenByLawyer is the lawyer's current caseload: everything assigned to
// them that has not been closed yet.
func (c *DefaultCaseRepository) CountOpenByLawyer(lawyerID int) (int64, error) {
	var count int64
	err := c.db.Model(&entity.Case{}).
		Where("lawyer_id = ?", lawyerID).
		Where("status != ?", entity.CaseClosed).
		Count(&count).Error
	return count, err
}

func (c *DefaultCaseRepository) Save(kase *entity.Case) error {
	return c.db.Save(kase).Error
}
