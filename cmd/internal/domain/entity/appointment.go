package entity

type AppointmentStatus string

const (
	StatusScheduled   AppointmentStatus = "SCHEDULED"
	StatusConfirmed   AppointmentStatus = "CONFIRMED"
	StatusRescheduled AppointmentStatus = "RESCHEDULED"
	StatusCompleted   AppointmentStatus = "COMPLETED"
	StatusCancelled   AppointmentStatus = "CANCELLED"
	StatusNoShow      AppointmentStatus = "NO_SHOW"
)

type Priority string

const (
	PriorityLow    Priority = "LOW"
	PriorityNormal Priority = "NORMAL"
	PriorityHigh   Priority = "HIGH"
)

// Terminal reports whether the appointment no longer occupies calendar time.
func (s AppointmentStatus) Terminal() bool {
	return s == StatusCancelled || s == StatusCompleted
}

type Appointment struct {
	ID              int    `gorm:"primaryKey"`
	CoordinatorID   int    `gorm:"not null;index"` // References: users(id)
	ClientID        int    `gorm:"not null"`       // References: users(id)
	CaseID          *int   // References: cases(id)
	BeginsAt        int64  `gorm:"not null;index"`
	EndsAt          int64  `gorm:"not null"`
	DurationMinutes int    `gorm:"not null"`
	Purpose         string `gorm:"not null"`
	CaseType        string `gorm:"not null"`
	Venue           string
	Priority        Priority          `gorm:"size:10;not null"`
	Status          AppointmentStatus `gorm:"size:20;not null;index"`
	// JSON-encoded list of document names the client must bring.
	RequiredDocuments  string
	ReminderHoursAhead int
	ReminderSent       bool `gorm:"not null"`
	CancellationReason string
	CompletionNotes    string
	CreatedAt          int64 `gorm:"not null"`
	UpdatedAt          int64 `gorm:"not null"`

	// Relations
	Coordinator User `gorm:"foreignKey:CoordinatorID;references:ID"`
	Client      User `gorm:"foreignKey:ClientID;references:ID"`
}
