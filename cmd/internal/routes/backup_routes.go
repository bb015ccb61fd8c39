package routes

import (
	"net/http"
	"strconv"

	"github.com/chereanbot/legalaid-server/cmd/internal/service"
	"github.com/chereanbot/legalaid-server/cmd/internal/utils/apierror"
	"github.com/labstack/echo/v4"
)

type BackupService interface {
	CreateBackup(subId string) (*service.BackupResponse, apierror.ErrorResponse)
	GetBackups(subId string) ([]*service.BackupResponse, apierror.ErrorResponse)
	DeleteBackup(id int, subId string) apierror.ErrorResponse
}

type DefaultBackupRoute struct {
	BackupService BackupService
}

func NewBackupDefault(backupService BackupService) *DefaultBackupRoute {
	return &DefaultBackupRoute{BackupService: backupService}
}

func (b *DefaultBackupRoute) CreateBackup(c echo.Context) error {
	data, found := tokenData(c)
	if !found {
		return c.JSON(401, apierror.InvalidAuthTokenError)
	}

	backup, apierr := b.BackupService.CreateBackup(data.Sub)
	if apierr != nil {
		return c.JSON(apierr.Code(), apierr)
	}
	return ok(c, http.StatusCreated, backup)
}

func (b *DefaultBackupRoute) GetBackups(c echo.Context) error {
	data, found := tokenData(c)
	if !found {
		return c.JSON(401, apierror.InvalidAuthTokenError)
	}

	backups, apierr := b.BackupService.GetBackups(data.Sub)
	if apierr != nil {
		return c.JSON(apierr.Code(), apierr)
	}
	return ok(c, http.StatusOK, echo.Map{"backups": backups})
}

func (b *DefaultBackupRoute) DeleteBackup(c echo.Context) error {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		errResp := apierror.NewInvalidParamTypeError("id", "int32")
		return c.JSON(errResp.Code(), errResp)
	}

	data, found := tokenData(c)
	if !found {
		return c.JSON(401, apierror.InvalidAuthTokenError)
	}

	if apierr := b.BackupService.DeleteBackup(id, data.Sub); apierr != nil {
		return c.JSON(apierr.Code(), apierr)
	}
	return c.NoContent(http.StatusOK)
}
