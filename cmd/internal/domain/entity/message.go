package entity

type Message struct {
	ID          int    `gorm:"primaryKey"`
	CaseID      int    `gorm:"not null;index"` // References: cases(id)
	SenderID    int    `gorm:"not null"`       // References: users(id)
	RecipientID int    `gorm:"not null;index"` // References: users(id)
	Body        string `gorm:"not null"`
	SentAt      int64  `gorm:"not null;index"`

	// Relations
	Case   Case `gorm:"foreignKey:CaseID;references:ID"`
	Sender User `gorm:"foreignKey:SenderID;references:ID"`
}
