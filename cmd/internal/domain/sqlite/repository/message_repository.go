package repository

import (
	"github.com/chereanbot/legalaid-server/cmd/internal/domain/entity"
	"gorm.io/gorm"
)

type DefaultMessageRepository struct {
	db *gorm.DB
}

func NewMessageRepository(db *gorm.DB) *DefaultMessageRepository {
	return &DefaultMessageRepository{db: db}
}

// FindByCaseSince returns case-thread messages sent strictly after the given
// moment, oldest first. Re-fetching with the same cursor is idempotent, which
// is what the polling clients rely on.
func (m *DefaultMessageRepository) FindByCaseSince(caseID int, sinceMillis int64) ([]*entity.Message, error) {
	var msgs []*entity.Message
	err := m.db.
		Where("case_id = ?", caseID).
		Where("sent_at > ?", sinceMillis).
		Order("sent_at asc").
		Find(&msgs).Error
	return msgs, err
}

func (m *DefaultMessageRepository) Save(msg *entity.Message) error {
	return m.db.Save(msg).Error
}
