package entity

type PaymentStatus string

const (
	PaymentPending   PaymentStatus = "PENDING"
	PaymentConfirmed PaymentStatus = "CONFIRMED"
	PaymentRejected  PaymentStatus = "REJECTED"
)

type Payment struct {
	ID          int    `gorm:"primaryKey"`
	CaseID      int    `gorm:"not null;index"` // References: cases(id)
	ClientID    int    `gorm:"not null"`       // References: users(id)
	AmountCents int64  `gorm:"not null"`
	Currency    string `gorm:"size:3;not null"`
	Purpose     string
	Status      PaymentStatus `gorm:"size:20;not null;index"`
	// Receipt or bank reference entered during manual reconciliation.
	ExternalRef string
	CreatedAt   int64 `gorm:"not null"`
	UpdatedAt   int64 `gorm:"not null"`

	// Relations
	Case Case `gorm:"foreignKey:CaseID;references:ID"`
}
