package service

import (
	"encoding/json"
	"fmt"

	"github.com/chereanbot/legalaid-server/cmd/internal/domain/entity"
	"github.com/chereanbot/legalaid-server/cmd/internal/notify"
	"github.com/chereanbot/legalaid-server/cmd/internal/utils"
	"github.com/chereanbot/legalaid-server/cmd/internal/utils/apierror"
	"github.com/go-playground/validator/v10"
	"github.com/labstack/gommon/log"
)

type AppointmentRepository interface {
	Save(appointment *entity.Appointment) error
	FindByID(id int) (*entity.Appointment, error)
	FindByCoordinator(coordinatorID int, status entity.AppointmentStatus, from, to int64) ([]*entity.Appointment, error)
	HasOverlap(coordinatorID int, begin, end int64, excludeID int) (bool, error)
	Delete(appointment *entity.Appointment) error
}

// statusTransitions is the only legal set of appointment status changes.
// Anything not listed here is rejected.
var statusTransitions = map[entity.AppointmentStatus][]entity.AppointmentStatus{
	entity.StatusScheduled:   {entity.StatusConfirmed, entity.StatusCancelled},
	entity.StatusConfirmed:   {entity.StatusCompleted, entity.StatusNoShow, entity.StatusCancelled},
	entity.StatusRescheduled: {entity.StatusConfirmed, entity.StatusCancelled},
}

func canTransition(from, to entity.AppointmentStatus) bool {
	for _, next := range statusTransitions[from] {
		if next == to {
			return true
		}
	}
	return false
}

type CreateAppointmentRequest struct {
	ClientID           int      `json:"client_id" validate:"required"`
	CaseID             *int     `json:"case_id"`
	BeginsAt           string   `json:"begins_at" validate:"required,iso8601"`
	DurationMinutes    int      `json:"duration_minutes" validate:"required,min=15"`
	Purpose            string   `json:"purpose" validate:"required,max=255"`
	CaseType           string   `json:"case_type" validate:"required,max=64"`
	Venue              string   `json:"venue" validate:"max=128"`
	Priority           string   `json:"priority" validate:"omitempty,oneof=LOW NORMAL HIGH"`
	RequiredDocuments  []string `json:"required_documents" validate:"dive,max=128"`
	ReminderHoursAhead int      `json:"reminder_hours_ahead" validate:"omitempty,min=1,max=168"`
}

type UpdateAppointmentStatusRequest struct {
	Status             string `json:"status" validate:"required,oneof=SCHEDULED CONFIRMED RESCHEDULED COMPLETED CANCELLED NO_SHOW"`
	CancellationReason string `json:"cancellation_reason" validate:"max=255"`
	CompletionNotes    string `json:"completion_notes" validate:"max=2000"`
}

// AppointmentFilter narrows List results. Zero values mean "no constraint".
type AppointmentFilter struct {
	Status entity.AppointmentStatus
	From   int64
	To     int64
}

type AppointmentResponse struct {
	ID                 int      `json:"id"`
	CoordinatorID      int      `json:"coordinator_id"`
	ClientID           int      `json:"client_id"`
	CaseID             *int     `json:"case_id,omitempty"`
	BeginsAt           string   `json:"begins_at"`
	EndsAt             string   `json:"ends_at"`
	DurationMinutes    int      `json:"duration_minutes"`
	Purpose            string   `json:"purpose"`
	CaseType           string   `json:"case_type"`
	Venue              string   `json:"venue"`
	Priority           string   `json:"priority"`
	Status             string   `json:"status"`
	RequiredDocuments  []string `json:"required_documents"`
	ReminderHoursAhead int      `json:"reminder_hours_ahead"`
	CancellationReason string   `json:"cancellation_reason,omitempty"`
	CompletionNotes    string   `json:"completion_notes,omitempty"`
	CreatedAt          string   `json:"created_at"`
	UpdatedAt          string   `json:"updated_at"`
}

type DefaultAppointmentService struct {
	AppointmentRepo AppointmentRepository
	UserRepo        UserRepository
	Validate        *validator.Validate
	Notifier        notify.Notifier
}

func NewAppointmentService(apptRepo AppointmentRepository, userRepo UserRepository, validate *validator.Validate, notifier notify.Notifier) *DefaultAppointmentService {
	return &DefaultAppointmentService{
		AppointmentRepo: apptRepo,
		UserRepo:        userRepo,
		Validate:        validate,
		Notifier:        notifier,
	}
}

func (a *DefaultAppointmentService) CreateAppointment(req *CreateAppointmentRequest, subId string) (*AppointmentResponse, apierror.ErrorResponse) {
	caller, apierr := a.fetchCoordinator(subId)
	if apierr != nil {
		return nil, apierr
	}

	utils.Sanitize(req)
	if valerr := a.Validate.Struct(req); valerr != nil {
		return nil, apierror.FromValidationError(valerr)
	}

	client, err := a.UserRepo.FindByID(req.ClientID)
	if err != nil {
		log.Errorf("failed to fetch client %d: %v", req.ClientID, err)
		return nil, apierror.InternalServerError
	}
	if client == nil || client.Role != entity.RoleClient {
		return nil, apierror.NotFoundError
	}

	begin, err := utils.FromEpoch(req.BeginsAt)
	if err != nil {
		return nil, apierror.MalformedBodyError
	}
	end := begin + int64(req.DurationMinutes)*60_000

	taken, err := a.AppointmentRepo.HasOverlap(caller.ID, begin, end, 0)
	if err != nil {
		log.Errorf("failed to check slot [%d - %d] for coordinator %d: %v", begin, end, caller.ID, err)
		return nil, apierror.InternalServerError
	}
	if taken {
		return nil, apierror.SlotConflictError
	}

	docs, err := json.Marshal(req.RequiredDocuments)
	if err != nil {
		return nil, apierror.MalformedBodyError
	}

	priority := entity.Priority(req.Priority)
	if priority == "" {
		priority = entity.PriorityNormal
	}

	now := utils.NowUTC()
	appointment := &entity.Appointment{
		CoordinatorID:      caller.ID,
		ClientID:           client.ID,
		CaseID:             req.CaseID,
		BeginsAt:           begin,
		EndsAt:             end,
		DurationMinutes:    req.DurationMinutes,
		Purpose:            req.Purpose,
		CaseType:           req.CaseType,
		Venue:              req.Venue,
		Priority:           priority,
		Status:             entity.StatusScheduled,
		RequiredDocuments:  string(docs),
		ReminderHoursAhead: req.ReminderHoursAhead,
		CreatedAt:          now,
		UpdatedAt:          now,
	}

	if err := a.AppointmentRepo.Save(appointment); err != nil {
		log.Errorf("failed to save appointment: %v", err)
		return nil, apierror.InternalServerError
	}

	a.dispatch(client, "Appointment scheduled", fmt.Sprintf(
		"Your %s appointment with %s is scheduled for %s at %s. Purpose: %s.",
		appointment.CaseType, caller.Name, utils.FormatEpoch(appointment.BeginsAt), appointment.Venue, appointment.Purpose,
	))
	return toAppointmentResponse(appointment), nil
}

func (a *DefaultAppointmentService) GetAppointments(subId string, filter AppointmentFilter) ([]*AppointmentResponse, apierror.ErrorResponse) {
	caller, apierr := a.fetchCoordinator(subId)
	if apierr != nil {
		return nil, apierr
	}

	appts, err := a.AppointmentRepo.FindByCoordinator(caller.ID, filter.Status, filter.From, filter.To)
	if err != nil {
		log.Errorf("failed to find appointments for coordinator %d: %v", caller.ID, err)
		return nil, apierror.InternalServerError
	}

	response := make([]*AppointmentResponse, len(appts))
	for i, appt := range appts {
		response[i] = toAppointmentResponse(appt)
	}
	return response, nil
}

func (a *DefaultAppointmentService) UpdateStatus(id int, req *UpdateAppointmentStatusRequest, subId string) (*AppointmentResponse, apierror.ErrorResponse) {
	caller, apierr := a.fetchCoordinator(subId)
	if apierr != nil {
		return nil, apierr
	}

	utils.Sanitize(req)
	if valerr := a.Validate.Struct(req); valerr != nil {
		return nil, apierror.FromValidationError(valerr)
	}

	appointment, err := a.AppointmentRepo.FindByID(id)
	if err != nil {
		log.Errorf("failed to fetch appointment %d: %v", id, err)
		return nil, apierror.InternalServerError
	}
	if appointment == nil {
		return nil, apierror.NotFoundError
	}
	if appointment.CoordinatorID != caller.ID {
		return nil, apierror.ForbiddenError
	}

	target := entity.AppointmentStatus(req.Status)
	if !canTransition(appointment.Status, target) {
		return nil, apierror.InvalidTransitionError
	}

	appointment.Status = target
	switch target {
	case entity.StatusCancelled:
		appointment.CancellationReason = req.CancellationReason
	case entity.StatusCompleted:
		appointment.CompletionNotes = req.CompletionNotes
	}
	appointment.UpdatedAt = utils.NowUTC()

	if err := a.AppointmentRepo.Save(appointment); err != nil {
		log.Errorf("failed to update appointment %d: %v", id, err)
		return nil, apierror.InternalServerError
	}

	a.notifyStatusChange(appointment)
	return toAppointmentResponse(appointment), nil
}

func (a *DefaultAppointmentService) DeleteAppointment(id int, subId string) apierror.ErrorResponse {
	caller, apierr := a.fetchCoordinator(subId)
	if apierr != nil {
		return apierr
	}

	appointment, err := a.AppointmentRepo.FindByID(id)
	if err != nil {
		log.Errorf("failed to fetch appointment %d: %v", id, err)
		return apierror.InternalServerError
	}
	if appointment == nil {
		return apierror.NotFoundError
	}
	if appointment.CoordinatorID != caller.ID {
		return apierror.ForbiddenError
	}

	if appointment.Status.Terminal() {
		return apierror.InvalidTransitionError
	}
	if appointment.BeginsAt <= utils.NowUTC() {
		return apierror.PastAppointmentError
	}

	if err := a.AppointmentRepo.Delete(appointment); err != nil {
		log.Errorf("failed to delete appointment %d: %v", id, err)
		return apierror.InternalServerError
	}

	client, err := a.UserRepo.FindByID(appointment.ClientID)
	if err != nil || client == nil {
		log.Errorf("failed to fetch client %d for deletion notice: %v", appointment.ClientID, err)
		return nil
	}
	a.dispatch(client, "Appointment cancelled", fmt.Sprintf(
		"Your appointment on %s has been cancelled by the office.",
		utils.FormatEpoch(appointment.BeginsAt),
	))
	return nil
}

func (a *DefaultAppointmentService) fetchCoordinator(subId string) (*entity.User, apierror.ErrorResponse) {
	caller, err := a.UserRepo.FindBySub(subId)
	if err != nil {
		log.Errorf("failed to fetch user %s: %v", subId, err)
		return nil, apierror.InternalServerError
	}
	if caller == nil {
		return nil, apierror.NotFoundError
	}
	if caller.Role != entity.RoleCoordinator {
		return nil, apierror.ForbiddenError
	}
	return caller, nil
}

func (a *DefaultAppointmentService) notifyStatusChange(appointment *entity.Appointment) {
	client, err := a.UserRepo.FindByID(appointment.ClientID)
	if err != nil || client == nil {
		log.Errorf("failed to fetch client %d for status notice: %v", appointment.ClientID, err)
		return
	}

	var body string
	switch appointment.Status {
	case entity.StatusConfirmed:
		body = fmt.Sprintf("Your appointment on %s is confirmed.", utils.FormatEpoch(appointment.BeginsAt))
	case entity.StatusCancelled:
		body = fmt.Sprintf("Your appointment on %s has been cancelled. Reason: %s.",
			utils.FormatEpoch(appointment.BeginsAt), appointment.CancellationReason)
	case entity.StatusCompleted:
		body = fmt.Sprintf("Your appointment on %s is complete. Thank you for coming.", utils.FormatEpoch(appointment.BeginsAt))
	default:
		body = fmt.Sprintf("Your appointment on %s is now marked %s.",
			utils.FormatEpoch(appointment.BeginsAt), appointment.Status)
	}
	a.dispatch(client, "Appointment "+string(appointment.Status), body)
}

// dispatch sends the notice over every contact channel the client has. The
// appointment row is already committed at this point; delivery failures are
// logged and never fail the request.
func (a *DefaultAppointmentService) dispatch(client *entity.User, subject, body string) {
	if client.Phone != "" {
		if err := a.Notifier.SendSMS(client.Phone, body); err != nil {
			log.Errorf("failed to send sms to client %d: %v", client.ID, err)
		}
	}
	if client.Email != "" {
		email := notify.Email{To: client.Email, Subject: subject, HTML: "<p>" + body + "</p>"}
		if err := a.Notifier.SendEmail(email); err != nil {
			log.Errorf("failed to send email to client %d: %v", client.ID, err)
		}
	}
}

func toAppointmentResponse(appt *entity.Appointment) *AppointmentResponse {
	var docs []string
	if appt.RequiredDocuments != "" {
		_ = json.Unmarshal([]byte(appt.RequiredDocuments), &docs)
	}

	return &AppointmentResponse{
		ID:                 appt.ID,
		CoordinatorID:      appt.CoordinatorID,
		ClientID:           appt.ClientID,
		CaseID:             appt.CaseID,
		BeginsAt:           utils.FormatEpoch(appt.BeginsAt),
		EndsAt:             utils.FormatEpoch(appt.EndsAt),
		DurationMinutes:    appt.DurationMinutes,
		Purpose:            appt.Purpose,
		CaseType:           appt.CaseType,
		Venue:              appt.Venue,
		Priority:           string(appt.Priority),
		Status:             string(appt.Status),
		RequiredDocuments:  docs,
		ReminderHoursAhead: appt.ReminderHoursAhead,
		CancellationReason: appt.CancellationReason,
		CompletionNotes:    appt.CompletionNotes,
		CreatedAt:          utils.FormatEpoch(appt.CreatedAt),
		UpdatedAt:          utils.FormatEpoch(appt.UpdatedAt),
	}
}
