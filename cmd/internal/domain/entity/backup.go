package entity

type BackupStatus string

const (
	BackupCompleted BackupStatus = "COMPLETED"
	BackupFailed    BackupStatus = "FAILED"
)

type Backup struct {
	ID          int    `gorm:"primaryKey"`
	ArchiveName string `gorm:"uniqueIndex;not null"`
	FilePath    string `gorm:"not null"`
	SizeBytes   int64
	TriggeredBy int          `gorm:"not null"` // References: users(id)
	Status      BackupStatus `gorm:"size:20;not null"`
	CreatedAt   int64        `gorm:"not null"`
}
