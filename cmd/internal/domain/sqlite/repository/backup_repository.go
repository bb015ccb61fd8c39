package repository

import (
	"errors"

	"github.com/chereanbot/legalaid-server/cmd/internal/domain/entity"
	"gorm.io/gorm"
)

type DefaultBackupRepository struct {
	db *gorm.DB
}

func NewBackupRepository(db *gorm.DB) *DefaultBackupRepository {
	return &DefaultBackupRepository{db: db}
}

func (b *DefaultBackupRepository) FindByID(id int) (*entity.Backup, error) {
	var backup entity.Backup
	err := b.db.First(&backup, id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	return &backup, err
}

func (b *DefaultBackupRepository) FindAll() ([]*entity.Backup, error) {
	var backups []*entity.Backup
	err := b.db.Order("created_at desc").Find(&backups).Error
	return backups, err
}

func (b *DefaultBackupRepository) Save(backup *entity.Backup) error {
	return b.db.Save(backup).Error
}

func (b *DefaultBackupRepository) Delete(backup *entity.Backup) error {
	return b.db.Delete(backup).Error
}
