package service

import (
	"io"
	"os"
	"path/filepath"

	"github.com/chereanbot/legalaid-server/cmd/internal/domain/entity"
	"github.com/chereanbot/legalaid-server/cmd/internal/utils"
	"github.com/chereanbot/legalaid-server/cmd/internal/utils/apierror"
	"github.com/google/uuid"
	"github.com/labstack/gommon/log"
)

type BackupRepository interface {
	FindByID(id int) (*entity.Backup, error)
	FindAll() ([]*entity.Backup, error)
	Save(backup *entity.Backup) error
	Delete(backup *entity.Backup) error
}

type BackupResponse struct {
	ID          int    `json:"id"`
	ArchiveName string `json:"archive_name"`
	SizeBytes   int64  `json:"size_bytes"`
	Status      string `json:"status"`
	CreatedAt   string `json:"created_at"`
}

type DefaultBackupService struct {
	BackupRepo BackupRepository
	UserRepo   UserRepository
	// Live sqlite file and the directory archives are written into.
	DatabasePath string
	BackupDir    string
}

func NewBackupService(backupRepo BackupRepository, userRepo UserRepository, databasePath, backupDir string) *DefaultBackupService {
	return &DefaultBackupService{
		BackupRepo:   backupRepo,
		UserRepo:     userRepo,
		DatabasePath: databasePath,
		BackupDir:    backupDir,
	}
}

// CreateBackup copies the live database file into the backup directory and
// records the outcome. The live file is only ever read.
func (b *DefaultBackupService) CreateBackup(subId string) (*BackupResponse, apierror.ErrorResponse) {
	caller, apierr := b.fetchAdmin(subId)
	if apierr != nil {
		return nil, apierr
	}

	name := uuid.NewString() + ".db"
	dest := filepath.Join(b.BackupDir, name)

	backup := &entity.Backup{
		ArchiveName: name,
		FilePath:    dest,
		TriggeredBy: caller.ID,
		Status:      entity.BackupCompleted,
		CreatedAt:   utils.NowUTC(),
	}

	size, err := copyFile(b.DatabasePath, dest)
	if err != nil {
		log.Errorf("failed to write backup %s: %v", dest, err)
		backup.Status = entity.BackupFailed
		if serr := b.BackupRepo.Save(backup); serr != nil {
			log.Errorf("failed to record failed backup: %v", serr)
		}
		return nil, apierror.InternalServerError
	}
	backup.SizeBytes = size

	if err := b.BackupRepo.Save(backup); err != nil {
		log.Errorf("failed to record backup %s: %v", name, err)
		return nil, apierror.InternalServerError
	}
	return toBackupResponse(backup), nil
}

func (b *DefaultBackupService) GetBackups(subId string) ([]*BackupResponse, apierror.ErrorResponse) {
	if _, apierr := b.fetchAdmin(subId); apierr != nil {
		return nil, apierr
	}

	backups, err := b.BackupRepo.FindAll()
	if err != nil {
		log.Errorf("failed to list backups: %v", err)
		return nil, apierror.InternalServerError
	}

	resp := make([]*BackupResponse, len(backups))
	for i, backup := range backups {
		resp[i] = toBackupResponse(backup)
	}
	return resp, nil
}

func (b *DefaultBackupService) DeleteBackup(id int, subId string) apierror.ErrorResponse {
	if _, apierr := b.fetchAdmin(subId); apierr != nil {
		return apierr
	}

	backup, err := b.BackupRepo.FindByID(id)
	if err != nil {
		log.Errorf("failed to fetch backup %d: %v", id, err)
		return apierror.InternalServerError
	}
	if backup == nil {
		return apierror.NotFoundError
	}

	if err := os.Remove(backup.FilePath); err != nil && !os.IsNotExist(err) {
		log.Errorf("failed to remove archive %s: %v", backup.FilePath, err)
		return apierror.InternalServerError
	}

	if err := b.BackupRepo.Delete(backup); err != nil {
		log.Errorf("failed to delete backup %d: %v", id, err)
		return apierror.InternalServerError
	}
	return nil
}

func (b *DefaultBackupService) fetchAdmin(subId string) (*entity.User, apierror.ErrorResponse) {
	caller, err := b.UserRepo.FindBySub(subId)
	if err != nil {
		log.Errorf("failed to fetch user %s: %v", subId, err)
		return nil, apierror.InternalServerError
	}
	if caller == nil {
		return nil, apierror.NotFoundError
	}
	if caller.Role != entity.RoleAdmin {
		return nil, apierror.ForbiddenError
	}
	return caller, nil
}

func copyFile(src, dest string) (int64, error) {
	if err := os.MkdirAll(filepath.Dir(dest), 0o755); err != nil {
		return 0, err
	}

	in, err := os.Open(src)
	if err != nil {
		return 0, err
	}
	defer in.Close()

	out, err := os.Create(dest)
	if err != nil {
		return 0, err
	}

	size, err := io.Copy(out, in)
	if cerr := out.Close(); err == nil {
		err = cerr
	}
	return size, err
}

func toBackupResponse(backup *entity.Backup) *BackupResponse {
	return &BackupResponse{
		ID:          backup.ID,
		ArchiveName: backup.ArchiveName,
		SizeBytes:   backup.SizeBytes,
		Status:      string(backup.Status),
		CreatedAt:   utils.FormatEpoch(backup.CreatedAt),
	}
}
