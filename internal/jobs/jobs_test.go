package jobs

import (
	"context"
	"errors"
	"testing"
	"time"

	"spotless/internal/events"
	"spotless/internal/models"
	"spotless/internal/services"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeTrialExpirer struct {
	expired []uuid.UUID
	err     error
	gotNow  time.Time
}

func (f *fakeTrialExpirer) ExpireTrials(ctx context.Context, now time.Time) ([]uuid.UUID, error) {
	f.gotNow = now
	return f.expired, f.err
}

func TestTrialExpiryJob_Execute(t *testing.T) {
	first := uuid.New()
	second := uuid.New()
	expirer := &fakeTrialExpirer{expired: []uuid.UUID{first, second}}
	publisher := &fakePublisher{}
	job := NewTrialExpiryJob(expirer, publisher)

	assert.Equal(t, "trial-expiry-sweep", job.Name())
	assert.Equal(t, services.Daily, job.Interval())

	err := job.Execute(context.Background())
	require.NoError(t, err)
	assert.WithinDuration(t, time.Now(), expirer.gotNow, time.Minute)

	require.Len(t, publisher.published, 2)
	assert.Equal(t, events.COMPANY_TRIAL_EXPIRED, publisher.published[0].Type)
	require.NotNil(t, publisher.published[0].CompanyID)
	assert.Equal(t, first, *publisher.published[0].CompanyID)
	assert.Equal(t, second.String(), publisher.published[1].Data["companyId"])
}

func TestTrialExpiryJob_Execute_NothingExpired(t *testing.T) {
	publisher := &fakePublisher{}
	job := NewTrialExpiryJob(&fakeTrialExpirer{}, publisher)

	err := job.Execute(context.Background())
	require.NoError(t, err)
	assert.Empty(t, publisher.published)
}

func TestTrialExpiryJob_Execute_PropagatesError(t *testing.T) {
	expirer := &fakeTrialExpirer{err: errors.New("db down")}
	job := NewTrialExpiryJob(expirer, &fakePublisher{})

	err := job.Execute(context.Background())
	assert.Error(t, err)
}

type fakeCompletedSource struct {
	schedules []models.Schedule
	err       error
}

func (f *fakeCompletedSource) FindCompletedWithoutReports(
	ctx context.Context,
	limit int,
) ([]models.Schedule, error) {
	return f.schedules, f.err
}

type fakePublisher struct {
	published []events.Event
	err       error
}

func (f *fakePublisher) Publish(channel events.Channel, event events.Event) error {
	f.published = append(f.published, event)
	return f.err
}

func TestReportRepairJob_Execute_PublishesPerSchedule(t *testing.T) {
	first := models.Schedule{CompanyID: uuid.New()}
	first.ID = uuid.New()
	second := models.Schedule{CompanyID: uuid.New()}
	second.ID = uuid.New()

	source := &fakeCompletedSource{schedules: []models.Schedule{first, second}}
	publisher := &fakePublisher{}
	job := NewReportRepairJob(source, publisher)

	assert.Equal(t, "completion-report-sweep", job.Name())
	assert.Equal(t, services.Hourly, job.Interval())

	err := job.Execute(context.Background())
	require.NoError(t, err)

	require.Len(t, publisher.published, 2)
	assert.Equal(t, events.SCHEDULE_REPORT_MISSING, publisher.published[0].Type)
	assert.Equal(t, first.ID.String(), publisher.published[0].Data["scheduleId"])
	require.NotNil(t, publisher.published[0].CompanyID)
	assert.Equal(t, first.CompanyID, *publisher.published[0].CompanyID)
}

func TestReportRepairJob_Execute_NothingToRepair(t *testing.T) {
	job := NewReportRepairJob(&fakeCompletedSource{}, &fakePublisher{})

	err := job.Execute(context.Background())
	require.NoError(t, err)
}
