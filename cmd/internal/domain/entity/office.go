package entity

type Office struct {
	ID        int    `gorm:"primaryKey"`
	Name      string `gorm:"uniqueIndex;not null"`
	City      string `gorm:"not null"`
	Phone     string
	CreatedAt int64 `gorm:"not null"`
	UpdatedAt int64 `gorm:"not null"`
}
