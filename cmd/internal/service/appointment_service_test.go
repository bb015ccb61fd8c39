package service_test

import (
	"net/http"
	"path/filepath"
	"testing"
	"time"

	"github.com/chereanbot/legalaid-server/cmd/internal/domain/entity"
	"github.com/chereanbot/legalaid-server/cmd/internal/domain/sqlite"
	"github.com/chereanbot/legalaid-server/cmd/internal/domain/sqlite/repository"
	"github.com/chereanbot/legalaid-server/cmd/internal/notify"
	"github.com/chereanbot/legalaid-server/cmd/internal/service"
	"github.com/chereanbot/legalaid-server/cmd/internal/utils/validators"
	"github.com/go-playground/validator/v10"
	"gorm.io/gorm"
)

type fakeNotifier struct {
	sms    []string
	emails []notify.Email
}

func (f *fakeNotifier) SendSMS(phone, message string) error {
	f.sms = append(f.sms, message)
	return nil
}

func (f *fakeNotifier) SendEmail(email notify.Email) error {
	f.emails = append(f.emails, email)
	return nil
}

type env struct {
	db       *gorm.DB
	dbPath   string
	users    *repository.DefaultUserRepository
	offices  *repository.DefaultOfficeRepository
	cases    *repository.DefaultCaseRepository
	appts    *repository.DefaultAppointmentRepository
	messages *repository.DefaultMessageRepository
	payments *repository.DefaultPaymentRepository
	backups  *repository.DefaultBackupRepository
	validate *validator.Validate
	notifier *fakeNotifier
}

func newEnv(t *testing.T) *env {
	t.Helper()
	path := filepath.Join(t.TempDir(), "test.db")
	db, err := sqlite.Init(path)
	if err != nil {
		t.Fatalf("init db: %v", err)
	}

	validate := validator.New()
	_ = validate.RegisterValidation("iso8601", validators.IsIso8601)
	_ = validate.RegisterValidation("e164", validators.IsE164)
	_ = validate.RegisterValidation("nospaces", validators.NoWhiteSpaces)

	return &env{
		db:       db,
		dbPath:   path,
		users:    repository.NewUserRepository(db),
		offices:  repository.NewOfficeRepository(db),
		cases:    repository.NewCaseRepository(db),
		appts:    repository.NewAppointmentRepository(db),
		messages: repository.NewMessageRepository(db),
		payments: repository.NewPaymentRepository(db),
		backups:  repository.NewBackupRepository(db),
		validate: validate,
		notifier: &fakeNotifier{},
	}
}

func (e *env) apptService() *service.DefaultAppointmentService {
	return service.NewAppointmentService(e.appts, e.users, e.validate, e.notifier)
}

func (e *env) seedUser(t *testing.T, sub string, role entity.Role, officeID int) *entity.User {
	t.Helper()
	user := &entity.User{
		Sub:      sub,
		Name:     "user " + sub,
		Email:    sub + "@test.local",
		Phone:    "+251911000000",
		Role:     role,
		OfficeID: officeID,
		Active:   true,
	}
	if err := e.users.Save(user); err != nil {
		t.Fatalf("seed user %s: %v", sub, err)
	}
	return user
}

func createReq(client *entity.User, start time.Time, minutes int) *service.CreateAppointmentRequest {
	return &service.CreateAppointmentRequest{
		ClientID:        client.ID,
		BeginsAt:        start.UTC().Format(time.RFC3339),
		DurationMinutes: minutes,
		Purpose:         "initial consultation",
		CaseType:        "family",
		Venue:           "office 3",
	}
}

func TestCreateAppointment(t *testing.T) {
	e := newEnv(t)
	svc := e.apptService()
	coord := e.seedUser(t, "coord-1", entity.RoleCoordinator, 1)
	client := e.seedUser(t, "client-1", entity.RoleClient, 1)

	start := time.Date(2024, 1, 10, 9, 0, 0, 0, time.UTC)
	appt, apierr := svc.CreateAppointment(createReq(client, start, 30), coord.Sub)
	if apierr != nil {
		t.Fatalf("create: %v", apierr.Message())
	}
	if appt.Status != "SCHEDULED" {
		t.Fatalf("expected SCHEDULED, got %s", appt.Status)
	}
	if appt.EndsAt != "2024-01-10T09:30:00Z" {
		t.Fatalf("wrong end time: %s", appt.EndsAt)
	}
	if len(e.notifier.sms) != 1 || len(e.notifier.emails) != 1 {
		t.Fatalf("expected one sms and one email, got %d/%d", len(e.notifier.sms), len(e.notifier.emails))
	}
}

func TestCreateAppointmentShortDuration(t *testing.T) {
	e := newEnv(t)
	svc := e.apptService()
	coord := e.seedUser(t, "coord-1", entity.RoleCoordinator, 1)
	client := e.seedUser(t, "client-1", entity.RoleClient, 1)

	start := time.Date(2024, 1, 10, 9, 0, 0, 0, time.UTC)
	_, apierr := svc.CreateAppointment(createReq(client, start, 14), coord.Sub)
	if apierr == nil {
		t.Fatal("expected validation failure for 14 minute appointment")
	}
	if apierr.Code() != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", apierr.Code())
	}
}

func TestCreateAppointmentConflict(t *testing.T) {
	e := newEnv(t)
	svc := e.apptService()
	coord := e.seedUser(t, "coord-1", entity.RoleCoordinator, 1)
	client := e.seedUser(t, "client-1", entity.RoleClient, 1)

	base := time.Date(2024, 1, 10, 9, 0, 0, 0, time.UTC)
	if _, apierr := svc.CreateAppointment(createReq(client, base, 30), coord.Sub); apierr != nil {
		t.Fatalf("first create: %v", apierr.Message())
	}

	// 09:15-09:45 overlaps 09:00-09:30
	_, apierr := svc.CreateAppointment(createReq(client, base.Add(15*time.Minute), 30), coord.Sub)
	if apierr == nil {
		t.Fatal("expected conflict for overlapping slot")
	}
	if apierr.Code() != http.StatusConflict {
		t.Fatalf("expected 409, got %d", apierr.Code())
	}

	// back-to-back is fine: intervals are half-open
	if _, apierr := svc.CreateAppointment(createReq(client, base.Add(30*time.Minute), 30), coord.Sub); apierr != nil {
		t.Fatalf("adjacent create: %v", apierr.Message())
	}
}

func TestConflictScopedToCoordinator(t *testing.T) {
	e := newEnv(t)
	svc := e.apptService()
	coordA := e.seedUser(t, "coord-a", entity.RoleCoordinator, 1)
	coordB := e.seedUser(t, "coord-b", entity.RoleCoordinator, 1)
	client := e.seedUser(t, "client-1", entity.RoleClient, 1)

	start := time.Date(2024, 1, 10, 9, 0, 0, 0, time.UTC)
	if _, apierr := svc.CreateAppointment(createReq(client, start, 30), coordA.Sub); apierr != nil {
		t.Fatalf("coordinator A create: %v", apierr.Message())
	}
	if _, apierr := svc.CreateAppointment(createReq(client, start, 30), coordB.Sub); apierr != nil {
		t.Fatalf("same slot for another coordinator should not conflict: %v", apierr.Message())
	}
}

func TestCancelledSlotCanBeRebooked(t *testing.T) {
	e := newEnv(t)
	svc := e.apptService()
	coord := e.seedUser(t, "coord-1", entity.RoleCoordinator, 1)
	client := e.seedUser(t, "client-1", entity.RoleClient, 1)

	start := time.Date(2024, 1, 10, 9, 0, 0, 0, time.UTC)
	appt, apierr := svc.CreateAppointment(createReq(client, start, 30), coord.Sub)
	if apierr != nil {
		t.Fatalf("create: %v", apierr.Message())
	}

	updated, apierr := svc.UpdateStatus(appt.ID, &service.UpdateAppointmentStatusRequest{
		Status:             "CANCELLED",
		CancellationReason: "client unavailable",
	}, coord.Sub)
	if apierr != nil {
		t.Fatalf("cancel: %v", apierr.Message())
	}
	if updated.Status != "CANCELLED" || updated.CancellationReason != "client unavailable" {
		t.Fatalf("cancellation not persisted: %+v", updated)
	}

	if _, apierr := svc.CreateAppointment(createReq(client, start, 30), coord.Sub); apierr != nil {
		t.Fatalf("rebooking a cancelled slot should succeed: %v", apierr.Message())
	}
}

func TestUpdateStatusTransitions(t *testing.T) {
	tests := []struct {
		name    string
		path    []string // statuses applied in order before the attempt
		attempt string
		wantErr bool
	}{
		{"scheduled to confirmed", nil, "CONFIRMED", false},
		{"scheduled to cancelled", nil, "CANCELLED", false},
		{"scheduled to completed", nil, "COMPLETED", true},
		{"scheduled to no-show", nil, "NO_SHOW", true},
		{"confirmed to completed", []string{"CONFIRMED"}, "COMPLETED", false},
		{"confirmed to no-show", []string{"CONFIRMED"}, "NO_SHOW", false},
		{"confirmed to cancelled", []string{"CONFIRMED"}, "CANCELLED", false},
		{"completed is terminal", []string{"CONFIRMED", "COMPLETED"}, "CANCELLED", true},
		{"cancelled is terminal", []string{"CANCELLED"}, "CONFIRMED", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			e := newEnv(t)
			svc := e.apptService()
			coord := e.seedUser(t, "coord-1", entity.RoleCoordinator, 1)
			client := e.seedUser(t, "client-1", entity.RoleClient, 1)

			start := time.Date(2024, 1, 10, 9, 0, 0, 0, time.UTC)
			appt, apierr := svc.CreateAppointment(createReq(client, start, 30), coord.Sub)
			if apierr != nil {
				t.Fatalf("create: %v", apierr.Message())
			}

			for _, status := range tt.path {
				if _, apierr := svc.UpdateStatus(appt.ID, &service.UpdateAppointmentStatusRequest{Status: status}, coord.Sub); apierr != nil {
					t.Fatalf("setup transition to %s: %v", status, apierr.Message())
				}
			}

			_, apierr = svc.UpdateStatus(appt.ID, &service.UpdateAppointmentStatusRequest{Status: tt.attempt}, coord.Sub)
			if tt.wantErr && apierr == nil {
				t.Fatalf("transition to %s should have been rejected", tt.attempt)
			}
			if !tt.wantErr && apierr != nil {
				t.Fatalf("transition to %s: %v", tt.attempt, apierr.Message())
			}
			if tt.wantErr && apierr.Code() != http.StatusConflict {
				t.Fatalf("expected 409, got %d", apierr.Code())
			}
		})
	}
}

func TestCompletionNotesPersisted(t *testing.T) {
	e := newEnv(t)
	svc := e.apptService()
	coord := e.seedUser(t, "coord-1", entity.RoleCoordinator, 1)
	client := e.seedUser(t, "client-1", entity.RoleClient, 1)

	start := time.Date(2024, 1, 10, 9, 0, 0, 0, time.UTC)
	appt, apierr := svc.CreateAppointment(createReq(client, start, 30), coord.Sub)
	if apierr != nil {
		t.Fatalf("create: %v", apierr.Message())
	}

	if _, apierr := svc.UpdateStatus(appt.ID, &service.UpdateAppointmentStatusRequest{Status: "CONFIRMED"}, coord.Sub); apierr != nil {
		t.Fatalf("confirm: %v", apierr.Message())
	}
	done, apierr := svc.UpdateStatus(appt.ID, &service.UpdateAppointmentStatusRequest{
		Status:          "COMPLETED",
		CompletionNotes: "advised on custody filing",
	}, coord.Sub)
	if apierr != nil {
		t.Fatalf("complete: %v", apierr.Message())
	}
	if done.CompletionNotes != "advised on custody filing" {
		t.Fatalf("completion notes not persisted: %q", done.CompletionNotes)
	}
}

func TestUpdateStatusOwnership(t *testing.T) {
	e := newEnv(t)
	svc := e.apptService()
	owner := e.seedUser(t, "coord-owner", entity.RoleCoordinator, 1)
	other := e.seedUser(t, "coord-other", entity.RoleCoordinator, 1)
	client := e.seedUser(t, "client-1", entity.RoleClient, 1)

	start := time.Date(2024, 1, 10, 9, 0, 0, 0, time.UTC)
	appt, apierr := svc.CreateAppointment(createReq(client, start, 30), owner.Sub)
	if apierr != nil {
		t.Fatalf("create: %v", apierr.Message())
	}

	_, apierr = svc.UpdateStatus(appt.ID, &service.UpdateAppointmentStatusRequest{Status: "CONFIRMED"}, other.Sub)
	if apierr == nil || apierr.Code() != http.StatusForbidden {
		t.Fatalf("expected 403 for non-owner, got %v", apierr)
	}
}

func TestDeleteAppointment(t *testing.T) {
	e := newEnv(t)
	svc := e.apptService()
	coord := e.seedUser(t, "coord-1", entity.RoleCoordinator, 1)
	client := e.seedUser(t, "client-1", entity.RoleClient, 1)

	past := time.Date(2024, 1, 10, 9, 0, 0, 0, time.UTC)
	elapsed, apierr := svc.CreateAppointment(createReq(client, past, 30), coord.Sub)
	if apierr != nil {
		t.Fatalf("create past: %v", apierr.Message())
	}
	if apierr := svc.DeleteAppointment(elapsed.ID, coord.Sub); apierr == nil || apierr.Code() != http.StatusBadRequest {
		t.Fatalf("deleting an elapsed appointment should fail with 400, got %v", apierr)
	}

	future := time.Now().UTC().Add(48 * time.Hour).Truncate(time.Second)
	upcoming, apierr := svc.CreateAppointment(createReq(client, future, 30), coord.Sub)
	if apierr != nil {
		t.Fatalf("create future: %v", apierr.Message())
	}
	if apierr := svc.DeleteAppointment(upcoming.ID, coord.Sub); apierr != nil {
		t.Fatalf("delete future appointment: %v", apierr.Message())
	}
	if gone, err := e.appts.FindByID(upcoming.ID); err != nil || gone != nil {
		t.Fatalf("appointment should be gone, got %v / %v", gone, err)
	}
}

func TestListOrdering(t *testing.T) {
	e := newEnv(t)
	svc := e.apptService()
	coord := e.seedUser(t, "coord-1", entity.RoleCoordinator, 1)
	client := e.seedUser(t, "client-1", entity.RoleClient, 1)

	base := time.Date(2024, 1, 10, 9, 0, 0, 0, time.UTC)
	for _, offset := range []time.Duration{2 * time.Hour, 0, time.Hour} {
		if _, apierr := svc.CreateAppointment(createReq(client, base.Add(offset), 30), coord.Sub); apierr != nil {
			t.Fatalf("create: %v", apierr.Message())
		}
	}

	appts, apierr := svc.GetAppointments(coord.Sub, service.AppointmentFilter{})
	if apierr != nil {
		t.Fatalf("list: %v", apierr.Message())
	}
	if len(appts) != 3 {
		t.Fatalf("expected 3 appointments, got %d", len(appts))
	}
	for i := 1; i < len(appts); i++ {
		if appts[i-1].BeginsAt > appts[i].BeginsAt {
			t.Fatalf("appointments out of order: %s before %s", appts[i-1].BeginsAt, appts[i].BeginsAt)
		}
	}

	filtered, apierr := svc.GetAppointments(coord.Sub, service.AppointmentFilter{
		From: base.Add(time.Hour).UnixMilli(),
	})
	if apierr != nil {
		t.Fatalf("filtered list: %v", apierr.Message())
	}
	if len(filtered) != 2 {
		t.Fatalf("expected 2 appointments from 10:00, got %d", len(filtered))
	}
}

func TestCreateRequiresCoordinatorRole(t *testing.T) {
	e := newEnv(t)
	svc := e.apptService()
	client := e.seedUser(t, "client-1", entity.RoleClient, 1)

	start := time.Date(2024, 1, 10, 9, 0, 0, 0, time.UTC)
	_, apierr := svc.CreateAppointment(createReq(client, start, 30), client.Sub)
	if apierr == nil || apierr.Code() != http.StatusForbidden {
		t.Fatalf("expected 403 for client caller, got %v", apierr)
	}
}
