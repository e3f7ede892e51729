package jobs

import (
	"context"

	"spotless/internal/events"
	"spotless/internal/models"
	"spotless/internal/services"

	logger "github.com/Bparsons0904/goLogger"
)

const repairBatchSize = 100

// CompletedScheduleSource is the slice of the schedule repository this
// job needs.
type CompletedScheduleSource interface {
	FindCompletedWithoutReports(ctx context.Context, limit int) ([]models.Schedule, error)
}

type EventPublisher interface {
	Publish(channel events.Channel, event events.Event) error
}

// ReportRepairJob flags completed schedules that are missing their
// completion report. Completion writes both rows in one transaction, so
// hits here mean data was touched out of band and an admin should look.
type ReportRepairJob struct {
	schedules CompletedScheduleSource
	eventBus  EventPublisher
	log       logger.Logger
}

func NewReportRepairJob(schedules CompletedScheduleSource, eventBus EventPublisher) *ReportRepairJob {
	return &ReportRepairJob{
		schedules: schedules,
		eventBus:  eventBus,
		log:       logger.New("reportRepairJob"),
	}
}

func (j *ReportRepairJob) Name() string {
	return "completion-report-sweep"
}

func (j *ReportRepairJob) Interval() services.Interval {
	return services.Hourly
}

func (j *ReportRepairJob) Execute(ctx context.Context) error {
	log := j.log.Function("Execute")

	schedules, err := j.schedules.FindCompletedWithoutReports(ctx, repairBatchSize)
	if err != nil {
		return log.Err("failed to find completed schedules without reports", err)
	}

	for _, schedule := range schedules {
		companyID := schedule.CompanyID
		log.Warn("completed schedule missing report",
			"scheduleID", schedule.ID,
			"companyID", companyID,
		)

		err := j.eventBus.Publish(events.SCHEDULE_CHANNEL, events.Event{
			Type:      events.SCHEDULE_REPORT_MISSING,
			CompanyID: &companyID,
			Data: map[string]any{
				"scheduleId": schedule.ID.String(),
			},
		})
		if err != nil {
			log.Er("failed to publish missing report event", err, "scheduleID", schedule.ID)
		}
	}

	return nil
}
