package repository

import (
	"errors"

	"github.com/chereanbot/legalaid-server/cmd/internal/domain/entity"
	"gorm.io/gorm"
)

type DefaultOfficeRepository struct {
	db *gorm.DB
}

func NewOfficeRepository(db *gorm.DB) *DefaultOfficeRepository {
	return &DefaultOfficeRepository{db: db}
}

func (o *DefaultOfficeRepository) FindByID(id int) (*entity.Office, error) {
	var office entity.Office
	err := o.db.First(&office, id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	return &office, err
}

func (o *DefaultOfficeRepository) FindAll() ([]*entity.Office, error) {
	var offices []*entity.Office
	err := o.db.Order("name asc").Find(&offices).Error
	return offices, err
}

func (o *DefaultOfficeRepository) ExistsByName(name string) (bool, error) {
	var count int64
	err := o.db.Model(&entity.Office{}).Where("name = ?", name).Count(&count).Error
	return count > 0, err
}

func (o *DefaultOfficeRepository) Save(office *entity.Office) error {
	return o.db.Save(office).Error
}
