package entity

type Role string

const (
	RoleCoordinator Role = "COORDINATOR"
	RoleLawyer      Role = "LAWYER"
	RoleClient      Role = "CLIENT"
	RoleAdmin       Role = "ADMIN"
)

type User struct {
	ID       int    `gorm:"primaryKey"`
	Sub      string `gorm:"uniqueIndex;not null"` // token subject
	Name     string `gorm:"not null"`
	Email    string `gorm:"index"`
	Phone    string
	Role     Role `gorm:"size:20;not null;index"`
	OfficeID int  `gorm:"index"`
	// Comma-separated case categories a lawyer handles. Empty for
	// non-lawyer roles.
	Specializations string
	Active          bool  `gorm:"not null;default:true"`
	CreatedAt       int64 `gorm:"not null"`
	UpdatedAt       int64 `gorm:"not null"`

	// Relations
	Office Office `gorm:"foreignKey:OfficeID;references:ID"`
}
