package repository

import (
	"errors"

	"github.com/chereanbot/legalaid-server/cmd/internal/domain/entity"
	"gorm.io/gorm"
)

type DefaultPaymentRepository struct {
	db *gorm.DB
}

func NewPaymentRepository(db *gorm.DB) *DefaultPaymentRepository {
	return &DefaultPaymentRepository{db: db}
}

func (p *DefaultPaymentRepository) FindByID(id int) (*entity.Payment, error) {
	var payment entity.Payment
	err := p.db.First(&payment, id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	return &payment, err
}

func (p *DefaultPaymentRepository) FindByCase(caseID int) ([]*entity.Payment, error) {
	var payments []*entity.Payment
	err := p.db.Where("case_id = ?", caseID).Order("created_at desc").Find(&payments).Error
	return payments, err
}

func (p *DefaultPaymentRepository) Save(payment *entity.Payment) error {
	return p.db.Save(payment).Error
}
