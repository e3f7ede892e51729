package repositories

import (
	"context"
	"errors"
	"time"

	"spotless/internal/database"
	. "spotless/internal/models"

	logger "github.com/Bparsons0904/goLogger"
	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

type ScheduleRepository interface {
	// Create persists the schedule and its per-worker assignment rows.
	// Must run inside the caller's transaction so an exclusion-constraint
	// violation on the assignments rolls the schedule back too.
	Create(ctx context.Context, tx *gorm.DB, schedule *Schedule) error
	GetByID(ctx context.Context, companyID, id uuid.UUID) (*Schedule, error)
	ListByCompany(ctx context.Context, companyID uuid.UUID, filter ScheduleListFilter) ([]Schedule, error)
	ListByCleaner(ctx context.Context, companyID, cleanerID uuid.UUID) ([]Schedule, error)
	FindByWorkersOnDate(ctx context.Context, companyID uuid.UUID, jobDate datatypes.Date, workerIDs []uuid.UUID) ([]Schedule, error)
	// UpdateStatus is a compare-and-swap: the row only moves when it is
	// still in the from status, so two racing transitions cannot both win.
	UpdateStatus(ctx context.Context, tx *gorm.DB, companyID, scheduleID uuid.UUID, from, to ScheduleStatus) error
	DeactivateAssignments(ctx context.Context, tx *gorm.DB, scheduleID uuid.UUID) error
	FindCompletedWithoutReports(ctx context.Context, limit int) ([]Schedule, error)
}

type scheduleRepository struct {
	db  database.DB
	log logger.Logger
}

func NewScheduleRepository(db database.DB) ScheduleRepository {
	return &scheduleRepository{
		db:  db,
		log: logger.New("scheduleRepository"),
	}
}

func (r *scheduleRepository) conn(ctx context.Context, tx *gorm.DB) *gorm.DB {
	if tx != nil {
		return tx.WithContext(ctx)
	}
	return r.db.SQLWithContext(ctx)
}

func (r *scheduleRepository) Create(ctx context.Context, tx *gorm.DB, schedule *Schedule) error {
	log := r.log.Function("Create")

	conn := r.conn(ctx, tx)

	if err := conn.Create(schedule).Error; err != nil {
		log.Er("failed to create schedule", err, "companyID", schedule.CompanyID)
		return err
	}

	assignments := schedule.BuildAssignments()
	if err := conn.Create(&assignments).Error; err != nil {
		log.Er("failed to create schedule assignments", err, "scheduleID", schedule.ID)
		return err
	}

	return nil
}

func (r *scheduleRepository) GetByID(ctx context.Context, companyID, id uuid.UUID) (*Schedule, error) {
	log := r.log.Function("GetByID")

	var schedule Schedule
	if err := r.db.SQLWithContext(ctx).
		First(&schedule, "id = ? AND company_id = ?", id, companyID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, log.Err("failed to get schedule by ID", err, "scheduleID", id, "companyID", companyID)
	}

	return &schedule, nil
}

// ScheduleListFilter narrows company listings to a date window. Nil
// bounds are open ended.
type ScheduleListFilter struct {
	From *time.Time
	To   *time.Time
}

func (r *scheduleRepository) ListByCompany(
	ctx context.Context,
	companyID uuid.UUID,
	filter ScheduleListFilter,
) ([]Schedule, error) {
	log := r.log.Function("ListByCompany")

	query := r.db.SQLWithContext(ctx).Preload("Client").Where("company_id = ?", companyID)
	if filter.From != nil {
		query = query.Where("job_date >= ?", datatypes.Date(*filter.From))
	}
	if filter.To != nil {
		query = query.Where("job_date <= ?", datatypes.Date(*filter.To))
	}

	schedules := make([]Schedule, 0)
	if err := query.
		Order("job_date ASC, start_time ASC").
		Find(&schedules).Error; err != nil {
		return nil, log.Err("failed to list schedules", err, "companyID", companyID)
	}

	return schedules, nil
}

func (r *scheduleRepository) ListByCleaner(
	ctx context.Context,
	companyID, cleanerID uuid.UUID,
) ([]Schedule, error) {
	log := r.log.Function("ListByCleaner")

	schedules := make([]Schedule, 0)
	if err := r.db.SQLWithContext(ctx).
		Preload("Client").
		Where("company_id = ?", companyID).
		Where("driver_id = ? OR helper1_id = ? OR helper2_id = ?", cleanerID, cleanerID, cleanerID).
		Order("job_date ASC, start_time ASC").
		Find(&schedules).Error; err != nil {
		return nil, log.Err("failed to list schedules for cleaner", err, "cleanerID", cleanerID)
	}

	return schedules, nil
}

// FindByWorkersOnDate returns the company's non-cancelled schedules on the
// given date that staff any of the workers in any role slot. This is the
// candidate set for the conflict pre-check.
func (r *scheduleRepository) FindByWorkersOnDate(
	ctx context.Context,
	companyID uuid.UUID,
	jobDate datatypes.Date,
	workerIDs []uuid.UUID,
) ([]Schedule, error) {
	log := r.log.Function("FindByWorkersOnDate")

	if len(workerIDs) == 0 {
		return []Schedule{}, nil
	}

	schedules := make([]Schedule, 0)
	if err := r.db.SQLWithContext(ctx).
		Where("company_id = ? AND job_date = ? AND status <> ?", companyID, jobDate, ScheduleCancelled).
		Where("driver_id IN ? OR helper1_id IN ? OR helper2_id IN ?", workerIDs, workerIDs, workerIDs).
		Find(&schedules).Error; err != nil {
		return nil, log.Err("failed to find schedules by workers", err, "companyID", companyID)
	}

	return schedules, nil
}

func (r *scheduleRepository) UpdateStatus(
	ctx context.Context,
	tx *gorm.DB,
	companyID, scheduleID uuid.UUID,
	from, to ScheduleStatus,
) error {
	log := r.log.Function("UpdateStatus")

	result := r.conn(ctx, tx).
		Model(&Schedule{}).
		Where("id = ? AND company_id = ? AND status = ?", scheduleID, companyID, from).
		Update("status", to)
	if result.Error != nil {
		return log.Err("failed to update schedule status", result.Error, "scheduleID", scheduleID)
	}
	if result.RowsAffected == 0 {
		// Either the schedule is gone or a concurrent transition moved it
		// out of the from status first. Callers re-read before retrying.
		log.Warn("schedule status swap lost",
			"scheduleID", scheduleID,
			"companyID", companyID,
			"from", from,
			"to", to,
		)
		return ErrInvalidTransition
	}

	return nil
}

// DeactivateAssignments releases a schedule's workers from the
// double-booking guard. Called when a schedule is cancelled; completed
// schedules keep their assignments active because they still count toward
// the invariant.
func (r *scheduleRepository) DeactivateAssignments(
	ctx context.Context,
	tx *gorm.DB,
	scheduleID uuid.UUID,
) error {
	log := r.log.Function("DeactivateAssignments")

	if err := r.conn(ctx, tx).
		Model(&ScheduleAssignment{}).
		Where("schedule_id = ?", scheduleID).
		Update("active", false).Error; err != nil {
		return log.Err("failed to deactivate assignments", err, "scheduleID", scheduleID)
	}

	return nil
}

// FindCompletedWithoutReports surfaces completed schedules that lack their
// 1:1 report. Completion writes both rows in one transaction, so anything
// found here predates that guarantee or was touched out of band.
func (r *scheduleRepository) FindCompletedWithoutReports(
	ctx context.Context,
	limit int,
) ([]Schedule, error) {
	log := r.log.Function("FindCompletedWithoutReports")

	schedules := make([]Schedule, 0)
	if err := r.db.SQLWithContext(ctx).
		Where("status = ?", ScheduleCompleted).
		Where("NOT EXISTS (SELECT 1 FROM reports WHERE reports.schedule_id = schedules.id AND reports.deleted_at IS NULL)").
		Limit(limit).
		Find(&schedules).Error; err != nil {
		return nil, log.Err("failed to find completed schedules without reports", err)
	}

	return schedules, nil
}
