package entity

type CaseStatus string

const (
	CasePending    CaseStatus = "PENDING"
	CaseAssigned   CaseStatus = "ASSIGNED"
	CaseInProgress CaseStatus = "IN_PROGRESS"
	CaseClosed     CaseStatus = "CLOSED"
)

type Case struct {
	ID              int    `gorm:"primaryKey"`
	ReferenceNumber string `gorm:"uniqueIndex;not null"`
	ClientID        int    `gorm:"not null;index"` // References: users(id)
	OfficeID        int    `gorm:"not null;index"` // References: offices(id)
	Category        string `gorm:"not null"`
	Description     string
	Status          CaseStatus `gorm:"size:20;not null;index"`
	LawyerID        *int       `gorm:"index"` // References: users(id)
	CreatedAt       int64      `gorm:"not null"`
	UpdatedAt       int64      `gorm:"not null"`

	// Relations
	Client User   `gorm:"foreignKey:ClientID;references:ID"`
	Office Office `gorm:"foreignKey:OfficeID;references:ID"`
}
