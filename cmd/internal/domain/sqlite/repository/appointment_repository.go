package repository

import (
	"errors"

	"github.com/chereanbot/legalaid-server/cmd/internal/domain/entity"
	"gorm.io/gorm"
)

type DefaultAppointmentRepository struct {
	db *gorm.DB
}

func NewAppointmentRepository(db *gorm.DB) *DefaultAppointmentRepository {
	return &DefaultAppointmentRepository{db: db}
}

func (a *DefaultAppointmentRepository) FindByID(id int) (*entity.Appointment, error) {
	var appt entity.Appointment
	err := a.db.First(&appt, id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	return &appt, err
}

// HasOverlap reports whether any non-terminal appointment of the coordinator
// intersects the half-open interval [begin, end). Cancelled and completed
// appointments no longer block the slot. excludeID, when non-zero, leaves a
// given appointment out of the check so it can be moved onto its own slot.
func (a *DefaultAppointmentRepository) HasOverlap(coordinatorID int, begin, end int64, excludeID int) (bool, error) {
	if begin >= end {
		return false, errors.New("start time must be before end time")
	}

	q := a.db.Model(&entity.Appointment{}).
		Where("coordinator_id = ?", coordinatorID).
		Where("status NOT IN ?", []entity.AppointmentStatus{entity.StatusCancelled, entity.StatusCompleted}).
		Where("begins_at < ?", end).
		Where("ends_at > ?", begin)

	if excludeID != 0 {
		q = q.Where("id != ?", excludeID)
	}

	var count int64
	if err := q.Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}

// FindByCoordinator lists a coordinator's appointments ordered by start time,
// then status. A zero-value filter field means "no constraint".
func (a *DefaultAppointmentRepository) FindByCoordinator(coordinatorID int, status entity.AppointmentStatus, from, to int64) ([]*entity.Appointment, error) {
	q := a.db.Where("coordinator_id = ?", coordinatorID)

	if status != "" {
		q = q.Where("status = ?", status)
	}
	if from != 0 {
		q = q.Where("begins_at >= ?", from)
	}
	if to != 0 {
		q = q.Where("begins_at < ?", to)
	}

	var appts []*entity.Appointment
	err := q.Order("begins_at asc").Order("status asc").Find(&appts).Error
	return appts, err
}

func (a *DefaultAppointmentRepository) Save(appointment *entity.Appointment) error {
	return a.db.Save(appointment).Error
}

func (a *DefaultAppointmentRepository) Delete(appointment *entity.Appointment) error {
	return a.db.Delete(appointment).Error
}
