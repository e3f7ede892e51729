package jobs

import (
	"context"
	"time"

	"spotless/internal/events"
	"spotless/internal/services"

	logger "github.com/Bparsons0904/goLogger"
	"github.com/google/uuid"
)

// TrialExpirer is the slice of the company repository this job needs.
type TrialExpirer interface {
	ExpireTrials(ctx context.Context, now time.Time) ([]uuid.UUID, error)
}

// TrialExpiryJob sweeps companies whose trial window has lapsed and flips
// their subscription status to expired. Middleware blocks expired
// companies on their next request, so the sweep only needs to run daily.
type TrialExpiryJob struct {
	companies TrialExpirer
	eventBus  EventPublisher
	log       logger.Logger
}

func NewTrialExpiryJob(companies TrialExpirer, eventBus EventPublisher) *TrialExpiryJob {
	return &TrialExpiryJob{
		companies: companies,
		eventBus:  eventBus,
		log:       logger.New("trialExpiryJob"),
	}
}

func (j *TrialExpiryJob) Name() string {
	return "trial-expiry-sweep"
}

func (j *TrialExpiryJob) Interval() services.Interval {
	return services.Daily
}

func (j *TrialExpiryJob) Execute(ctx context.Context) error {
	log := j.log.Function("Execute")

	expired, err := j.companies.ExpireTrials(ctx, time.Now())
	if err != nil {
		return log.Err("failed to expire trials", err)
	}

	for _, companyID := range expired {
		err := j.eventBus.Publish(events.COMPANY_CHANNEL, events.Event{
			Type:      events.COMPANY_TRIAL_EXPIRED,
			CompanyID: &companyID,
			Data: map[string]any{
				"companyId": companyID.String(),
			},
		})
		if err != nil {
			log.Er("failed to publish trial expired event", err, "companyID", companyID)
		}
	}

	if len(expired) > 0 {
		log.Info("expired trial companies", "count", len(expired))
	}

	return nil
}
