package scheduleController

import (
	"context"
	"errors"
	"time"

	"spotless/internal/events"
	. "spotless/internal/models"
	"spotless/internal/repositories"
	"spotless/internal/services"
	"spotless/internal/utils"

	logger "github.com/Bparsons0904/goLogger"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgconn"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

const (
	pgExclusionViolation = "23P01"
	pgUniqueViolation    = "23505"

	doubleBookingConstraint = "schedule_assignments_no_double_booking"
	uniqueSlotConstraint    = "idx_schedules_unique_slot"
)

type TransactionExecutor interface {
	Execute(ctx context.Context, fn func(context.Context, *gorm.DB) error) error
}

type EventPublisher interface {
	Publish(channel events.Channel, event events.Event) error
}

type ConflictChecker interface {
	Check(
		ctx context.Context,
		companyID uuid.UUID,
		jobDate datatypes.Date,
		startTime *time.Time,
		workerIDs []uuid.UUID,
	) (services.ConflictResult, error)
}

type ScheduleController struct {
	schedules   repositories.ScheduleRepository
	cleaners    repositories.CleanerRepository
	clients     repositories.ClientRepository
	conflicts   ConflictChecker
	transaction TransactionExecutor
	eventBus    EventPublisher
	log         logger.Logger
}

type ScheduleControllerInterface interface {
	CheckConflict(ctx context.Context, companyID uuid.UUID, req ConflictCheckRequest) (services.ConflictResult, error)
	CreateSchedule(ctx context.Context, companyID uuid.UUID, req CreateScheduleRequest) (*Schedule, error)
	GetSchedule(ctx context.Context, companyID, scheduleID uuid.UUID) (*Schedule, error)
	ListSchedules(ctx context.Context, companyID uuid.UUID, filter repositories.ScheduleListFilter) ([]Schedule, error)
	ListCleanerSchedules(ctx context.Context, companyID, cleanerID uuid.UUID) ([]Schedule, error)
	TransitionStatus(ctx context.Context, companyID, scheduleID uuid.UUID, next ScheduleStatus) (*Schedule, error)
	StartJob(ctx context.Context, companyID, scheduleID uuid.UUID) (*Schedule, error)
}

func New(
	repos repositories.Repository,
	conflicts ConflictChecker,
	transaction TransactionExecutor,
	eventBus EventPublisher,
) ScheduleControllerInterface {
	return &ScheduleController{
		schedules:   repos.Schedule,
		cleaners:    repos.Cleaner,
		clients:     repos.Client,
		conflicts:   conflicts,
		transaction: transaction,
		eventBus:    eventBus,
		log:         logger.New("scheduleController"),
	}
}

type ConflictCheckRequest struct {
	JobDate   datatypes.Date `json:"jobDate"`
	StartTime *time.Time     `json:"startTime,omitempty"`
	DriverID  uuid.UUID      `json:"driverId"`
	Helper1ID uuid.UUID      `json:"helper1Id"`
	Helper2ID *uuid.UUID     `json:"helper2Id,omitempty"`
}

func (req *ConflictCheckRequest) workerIDs() []uuid.UUID {
	schedule := Schedule{DriverID: req.DriverID, Helper1ID: req.Helper1ID, Helper2ID: req.Helper2ID}
	return schedule.WorkerIDs()
}

// CheckConflict is the advisory pre-check the scheduling UI calls before
// submitting. A clean answer here does not reserve anything.
func (sc *ScheduleController) CheckConflict(
	ctx context.Context,
	companyID uuid.UUID,
	req ConflictCheckRequest,
) (services.ConflictResult, error) {
	if time.Time(req.JobDate).IsZero() {
		return services.ConflictResult{}, &MissingFieldError{Field: "jobDate"}
	}

	return sc.conflicts.Check(ctx, companyID, req.JobDate, req.StartTime, req.workerIDs())
}

type CreateScheduleRequest struct {
	ClientID  uuid.UUID      `json:"clientId"`
	JobDate   datatypes.Date `json:"jobDate"`
	StartTime *time.Time     `json:"startTime,omitempty"`
	DriverID  uuid.UUID      `json:"driverId"`
	Helper1ID uuid.UUID      `json:"helper1Id"`
	Helper2ID *uuid.UUID     `json:"helper2Id,omitempty"`
	Notes     *string        `json:"notes,omitempty"`
}

func (req *CreateScheduleRequest) validate() error {
	switch {
	case req.ClientID == uuid.Nil:
		return &MissingFieldError{Field: "clientId"}
	case time.Time(req.JobDate).IsZero():
		return &MissingFieldError{Field: "jobDate"}
	case req.StartTime == nil:
		return &MissingFieldError{Field: "startTime"}
	case req.DriverID == uuid.Nil:
		return &MissingFieldError{Field: "driverId"}
	case req.Helper1ID == uuid.Nil:
		return &MissingFieldError{Field: "helper1Id"}
	}

	if req.DriverID == req.Helper1ID {
		return ErrDuplicateWorker
	}
	if req.Helper2ID != nil && (*req.Helper2ID == req.DriverID || *req.Helper2ID == req.Helper1ID) {
		return ErrDuplicateWorker
	}

	return nil
}

// CreateSchedule books a job. The conflict pre-check runs first so the
// caller gets the clashing schedule IDs back; the exclusion constraint on
// the assignment rows is what actually guarantees no double booking when
// two requests race.
func (sc *ScheduleController) CreateSchedule(
	ctx context.Context,
	companyID uuid.UUID,
	req CreateScheduleRequest,
) (*Schedule, error) {
	log := sc.log.Function("CreateSchedule")

	if err := req.validate(); err != nil {
		return nil, err
	}

	if _, err := sc.clients.GetByID(ctx, companyID, req.ClientID); err != nil {
		return nil, err
	}

	schedule := &Schedule{
		CompanyID: companyID,
		ClientID:  req.ClientID,
		JobDate:   req.JobDate,
		StartTime: req.StartTime,
		DriverID:  req.DriverID,
		Helper1ID: req.Helper1ID,
		Helper2ID: req.Helper2ID,
		Status:    ScheduleScheduled,
	}
	if req.Notes != nil {
		schedule.Notes = utils.NormalizeText(*req.Notes)
	}

	workerIDs := schedule.WorkerIDs()
	found, err := sc.cleaners.GetByIDs(ctx, companyID, workerIDs)
	if err != nil {
		return nil, err
	}
	for _, workerID := range workerIDs {
		if _, ok := found[workerID]; !ok {
			log.Warn("worker not in company", "cleanerID", workerID, "companyID", companyID)
			return nil, ErrNotFound
		}
	}

	result, err := sc.conflicts.Check(ctx, companyID, req.JobDate, req.StartTime, workerIDs)
	if err != nil {
		return nil, err
	}
	if result.Conflict {
		return nil, &ConflictError{ScheduleIDs: result.ScheduleIDs}
	}

	err = sc.transaction.Execute(ctx, func(ctx context.Context, tx *gorm.DB) error {
		return sc.schedules.Create(ctx, tx, schedule)
	})
	if err != nil {
		return nil, sc.translateCreateError(ctx, companyID, req, workerIDs, err)
	}

	sc.publishScheduleEvent(events.SCHEDULE_CREATED, schedule)

	log.Info("schedule created", "scheduleID", schedule.ID, "companyID", companyID)
	return schedule, nil
}

// translateCreateError maps storage constraint violations onto the domain
// errors the API reports. The exclusion constraint fires when a racing
// request won the slot after our advisory check passed.
func (sc *ScheduleController) translateCreateError(
	ctx context.Context,
	companyID uuid.UUID,
	req CreateScheduleRequest,
	workerIDs []uuid.UUID,
	err error,
) error {
	log := sc.log.Function("translateCreateError")

	var pgErr *pgconn.PgError
	if !errors.As(err, &pgErr) {
		return err
	}

	switch {
	case pgErr.Code == pgExclusionViolation && pgErr.ConstraintName == doubleBookingConstraint:
		conflictErr := &ConflictError{ScheduleIDs: []uuid.UUID{}}
		if result, checkErr := sc.conflicts.Check(ctx, companyID, req.JobDate, req.StartTime, workerIDs); checkErr == nil {
			conflictErr.ScheduleIDs = result.ScheduleIDs
		}
		log.Warn("double booking rejected by storage constraint", "companyID", companyID)
		return conflictErr

	case pgErr.Code == pgUniqueViolation && pgErr.ConstraintName == uniqueSlotConstraint:
		log.Warn("duplicate schedule slot", "companyID", companyID, "clientID", req.ClientID)
		return ErrDuplicateSchedule
	}

	return err
}

func (sc *ScheduleController) GetSchedule(
	ctx context.Context,
	companyID, scheduleID uuid.UUID,
) (*Schedule, error) {
	return sc.schedules.GetByID(ctx, companyID, scheduleID)
}

func (sc *ScheduleController) ListSchedules(
	ctx context.Context,
	companyID uuid.UUID,
	filter repositories.ScheduleListFilter,
) ([]Schedule, error) {
	return sc.schedules.ListByCompany(ctx, companyID, filter)
}

func (sc *ScheduleController) ListCleanerSchedules(
	ctx context.Context,
	companyID, cleanerID uuid.UUID,
) ([]Schedule, error) {
	return sc.schedules.ListByCleaner(ctx, companyID, cleanerID)
}

// TransitionStatus advances a schedule through its lifecycle. Completion
// is deliberately unreachable here: completing a job also writes its
// report, which is the report controller's transactional job.
func (sc *ScheduleController) TransitionStatus(
	ctx context.Context,
	companyID, scheduleID uuid.UUID,
	next ScheduleStatus,
) (*Schedule, error) {
	log := sc.log.Function("TransitionStatus")

	switch next {
	case ScheduleInProgress, ScheduleCancelled:
	default:
		// Includes completed: that path runs through job completion so
		// the report is written in the same transaction.
		return nil, ErrInvalidTransition
	}

	schedule, err := sc.schedules.GetByID(ctx, companyID, scheduleID)
	if err != nil {
		return nil, err
	}

	if !schedule.Status.CanTransitionTo(next) {
		log.Warn("invalid status transition",
			"scheduleID", scheduleID,
			"from", schedule.Status,
			"to", next,
		)
		return nil, ErrInvalidTransition
	}

	err = sc.transaction.Execute(ctx, func(ctx context.Context, tx *gorm.DB) error {
		if err := sc.schedules.UpdateStatus(ctx, tx, companyID, scheduleID, schedule.Status, next); err != nil {
			return err
		}
		if next == ScheduleCancelled {
			return sc.schedules.DeactivateAssignments(ctx, tx, scheduleID)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	schedule.Status = next
	sc.publishScheduleEvent(events.SCHEDULE_STATUS_CHANGED, schedule)

	return schedule, nil
}

// StartJob is the cleaner-facing transition to in_progress.
func (sc *ScheduleController) StartJob(
	ctx context.Context,
	companyID, scheduleID uuid.UUID,
) (*Schedule, error) {
	return sc.TransitionStatus(ctx, companyID, scheduleID, ScheduleInProgress)
}

func (sc *ScheduleController) publishScheduleEvent(eventType events.MessageType, schedule *Schedule) {
	log := sc.log.Function("publishScheduleEvent")

	companyID := schedule.CompanyID
	err := sc.eventBus.Publish(events.SCHEDULE_CHANNEL, events.Event{
		Type:      eventType,
		CompanyID: &companyID,
		Data: map[string]any{
			"scheduleId": schedule.ID.String(),
			"status":     string(schedule.Status),
		},
	})
	if err != nil {
		log.Er("failed to publish schedule event", err, "scheduleID", schedule.ID)
	}
}
