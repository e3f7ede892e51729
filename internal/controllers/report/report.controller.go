package reportController

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"spotless/internal/events"
	. "spotless/internal/models"
	"spotless/internal/repositories"
	"spotless/internal/utils"

	logger "github.com/Bparsons0904/goLogger"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgconn"
	"gorm.io/gorm"
)

const pgUniqueViolation = "23505"

type TransactionExecutor interface {
	Execute(ctx context.Context, fn func(context.Context, *gorm.DB) error) error
}

type EventPublisher interface {
	Publish(channel events.Channel, event events.Event) error
}

type ReportController struct {
	reports     repositories.ReportRepository
	schedules   repositories.ScheduleRepository
	cleaners    repositories.CleanerRepository
	transaction TransactionExecutor
	eventBus    EventPublisher
	log         logger.Logger
}

type ReportControllerInterface interface {
	CompleteJob(ctx context.Context, companyID, scheduleID uuid.UUID, req CompleteJobRequest) (*Report, error)
	GetReportForSchedule(ctx context.Context, companyID, scheduleID uuid.UUID) (*Report, error)
	ListReports(ctx context.Context, companyID uuid.UUID) ([]Report, error)
}

func New(
	repos repositories.Repository,
	transaction TransactionExecutor,
	eventBus EventPublisher,
) ReportControllerInterface {
	return &ReportController{
		reports:     repos.Report,
		schedules:   repos.Schedule,
		cleaners:    repos.Cleaner,
		transaction: transaction,
		eventBus:    eventBus,
		log:         logger.New("reportController"),
	}
}

type CompleteJobRequest struct {
	CleanerID  *uuid.UUID     `json:"cleanerId,omitempty"`
	Issues     *string        `json:"issues,omitempty"`
	ExtraTasks *string        `json:"extraTasks,omitempty"`
	Notes      *string        `json:"notes,omitempty"`
	Metadata   map[string]any `json:"metadata,omitempty"`
}

// CompleteJob finishes an in-progress schedule: the status flip and the
// completion report commit in one transaction, so there is never a
// completed schedule without its report. End time is the server clock;
// duration is measured from the schedule's start time when it has one.
func (rc *ReportController) CompleteJob(
	ctx context.Context,
	companyID, scheduleID uuid.UUID,
	req CompleteJobRequest,
) (*Report, error) {
	log := rc.log.Function("CompleteJob")

	schedule, err := rc.schedules.GetByID(ctx, companyID, scheduleID)
	if err != nil {
		return nil, err
	}

	if schedule.Status != ScheduleInProgress {
		log.Warn("completion rejected",
			"scheduleID", scheduleID,
			"status", schedule.Status,
		)
		return nil, ErrInvalidTransition
	}

	if req.CleanerID != nil {
		if _, err := rc.cleaners.GetByID(ctx, companyID, *req.CleanerID); err != nil {
			return nil, err
		}
	}

	endTime := time.Now()
	report := &Report{
		ScheduleID: scheduleID,
		CleanerID:  req.CleanerID,
		StartTime:  schedule.StartTime,
		EndTime:    &endTime,
	}
	if req.Issues != nil {
		report.Issues = utils.NormalizeText(*req.Issues)
	}
	if req.ExtraTasks != nil {
		report.ExtraTasks = utils.NormalizeText(*req.ExtraTasks)
	}
	if req.Notes != nil {
		report.Notes = utils.NormalizeText(*req.Notes)
	}
	if schedule.StartTime != nil {
		minutes := int(endTime.Sub(*schedule.StartTime).Minutes())
		if minutes >= 0 {
			report.DurationMinutes = &minutes
		}
	}
	if len(req.Metadata) > 0 {
		raw, err := json.Marshal(req.Metadata)
		if err != nil {
			return nil, log.Err("failed to encode report metadata", err, "scheduleID", scheduleID)
		}
		report.Metadata = raw
	}

	err = rc.transaction.Execute(ctx, func(ctx context.Context, tx *gorm.DB) error {
		if err := rc.schedules.UpdateStatus(ctx, tx, companyID, scheduleID, ScheduleInProgress, ScheduleCompleted); err != nil {
			return err
		}
		return rc.reports.Create(ctx, tx, report)
	})
	if err != nil {
		// A second completion racing past the status check trips the
		// unique index on schedule_id.
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == pgUniqueViolation {
			log.Warn("schedule already completed", "scheduleID", scheduleID)
			return nil, ErrInvalidTransition
		}
		return nil, err
	}

	rc.publishCompletion(schedule)

	log.Info("job completed", "scheduleID", scheduleID, "companyID", companyID)
	return report, nil
}

func (rc *ReportController) publishCompletion(schedule *Schedule) {
	log := rc.log.Function("publishCompletion")

	companyID := schedule.CompanyID
	err := rc.eventBus.Publish(events.SCHEDULE_CHANNEL, events.Event{
		Type:      events.SCHEDULE_STATUS_CHANGED,
		CompanyID: &companyID,
		Data: map[string]any{
			"scheduleId": schedule.ID.String(),
			"status":     string(ScheduleCompleted),
		},
	})
	if err != nil {
		log.Er("failed to publish completion event", err, "scheduleID", schedule.ID)
	}
}

func (rc *ReportController) GetReportForSchedule(
	ctx context.Context,
	companyID, scheduleID uuid.UUID,
) (*Report, error) {
	return rc.reports.GetByScheduleID(ctx, companyID, scheduleID)
}

func (rc *ReportController) ListReports(ctx context.Context, companyID uuid.UUID) ([]Report, error) {
	return rc.reports.ListByCompany(ctx, companyID)
}
