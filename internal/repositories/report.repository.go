package repositories

import (
	"context"
	"errors"

	"spotless/internal/database"
	. "spotless/internal/models"

	logger "github.com/Bparsons0904/goLogger"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

type ReportRepository interface {
	// Create must run inside the completion transaction; the unique index
	// on schedule_id backstops a second completion racing past the status
	// check.
	Create(ctx context.Context, tx *gorm.DB, report *Report) error
	GetByScheduleID(ctx context.Context, companyID, scheduleID uuid.UUID) (*Report, error)
	ListByCompany(ctx context.Context, companyID uuid.UUID) ([]Report, error)
}

type reportRepository struct {
	db  database.DB
	log logger.Logger
}

func NewReportRepository(db database.DB) ReportRepository {
	return &reportRepository{
		db:  db,
		log: logger.New("reportRepository"),
	}
}

func (r *reportRepository) Create(ctx context.Context, tx *gorm.DB, report *Report) error {
	log := r.log.Function("Create")

	conn := r.db.SQLWithContext(ctx)
	if tx != nil {
		conn = tx.WithContext(ctx)
	}

	if err := conn.Create(report).Error; err != nil {
		log.Er("failed to create report", err, "scheduleID", report.ScheduleID)
		return err
	}

	return nil
}

// GetByScheduleID scopes through the owning schedule so a report is only
// visible to its schedule's tenant.
func (r *reportRepository) GetByScheduleID(
	ctx context.Context,
	companyID, scheduleID uuid.UUID,
) (*Report, error) {
	log := r.log.Function("GetByScheduleID")

	var report Report
	if err := r.db.SQLWithContext(ctx).
		Joins("JOIN schedules ON schedules.id = reports.schedule_id").
		Where("reports.schedule_id = ? AND schedules.company_id = ?", scheduleID, companyID).
		First(&report).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, log.Err("failed to get report by schedule ID", err, "scheduleID", scheduleID)
	}

	return &report, nil
}

func (r *reportRepository) ListByCompany(ctx context.Context, companyID uuid.UUID) ([]Report, error) {
	log := r.log.Function("ListByCompany")

	reports := make([]Report, 0)
	if err := r.db.SQLWithContext(ctx).
		Joins("JOIN schedules ON schedules.id = reports.schedule_id").
		Where("schedules.company_id = ?", companyID).
		Order("reports.created_at DESC").
		Find(&reports).Error; err != nil {
		return nil, log.Err("failed to list reports", err, "companyID", companyID)
	}

	return reports, nil
}
