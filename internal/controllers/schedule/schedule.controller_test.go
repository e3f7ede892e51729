package scheduleController

import (
	"context"
	"errors"
	"testing"
	"time"

	"spotless/internal/events"
	. "spotless/internal/models"
	"spotless/internal/repositories"
	"spotless/internal/services"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

type fakeScheduleRepo struct {
	schedules map[uuid.UUID]*Schedule
	inactive  map[uuid.UUID]bool
	createErr error
}

func newFakeScheduleRepo() *fakeScheduleRepo {
	return &fakeScheduleRepo{
		schedules: make(map[uuid.UUID]*Schedule),
		inactive:  make(map[uuid.UUID]bool),
	}
}

func (f *fakeScheduleRepo) Create(ctx context.Context, tx *gorm.DB, schedule *Schedule) error {
	if f.createErr != nil {
		return f.createErr
	}
	if schedule.ID == uuid.Nil {
		schedule.ID = uuid.New()
	}
	stored := *schedule
	f.schedules[schedule.ID] = &stored
	return nil
}

func (f *fakeScheduleRepo) GetByID(ctx context.Context, companyID, id uuid.UUID) (*Schedule, error) {
	schedule, ok := f.schedules[id]
	if !ok || schedule.CompanyID != companyID {
		return nil, ErrNotFound
	}
	copied := *schedule
	return &copied, nil
}

func (f *fakeScheduleRepo) ListByCompany(ctx context.Context, companyID uuid.UUID, filter repositories.ScheduleListFilter) ([]Schedule, error) {
	out := make([]Schedule, 0)
	for _, schedule := range f.schedules {
		if schedule.CompanyID != companyID {
			continue
		}
		jobDate := time.Time(schedule.JobDate)
		if filter.From != nil && jobDate.Before(*filter.From) {
			continue
		}
		if filter.To != nil && jobDate.After(*filter.To) {
			continue
		}
		out = append(out, *schedule)
	}
	return out, nil
}

func (f *fakeScheduleRepo) ListByCleaner(ctx context.Context, companyID, cleanerID uuid.UUID) ([]Schedule, error) {
	out := make([]Schedule, 0)
	for _, schedule := range f.schedules {
		if schedule.CompanyID != companyID {
			continue
		}
		for _, workerID := range schedule.WorkerIDs() {
			if workerID == cleanerID {
				out = append(out, *schedule)
				break
			}
		}
	}
	return out, nil
}

func sameDate(a, b datatypes.Date) bool {
	return time.Time(a).Format("2006-01-02") == time.Time(b).Format("2006-01-02")
}

func (f *fakeScheduleRepo) FindByWorkersOnDate(
	ctx context.Context,
	companyID uuid.UUID,
	jobDate datatypes.Date,
	workerIDs []uuid.UUID,
) ([]Schedule, error) {
	wanted := make(map[uuid.UUID]bool, len(workerIDs))
	for _, id := range workerIDs {
		wanted[id] = true
	}

	out := make([]Schedule, 0)
	for _, schedule := range f.schedules {
		if schedule.CompanyID != companyID ||
			schedule.Status == ScheduleCancelled ||
			!sameDate(schedule.JobDate, jobDate) {
			continue
		}
		for _, workerID := range schedule.WorkerIDs() {
			if wanted[workerID] {
				out = append(out, *schedule)
				break
			}
		}
	}
	return out, nil
}

func (f *fakeScheduleRepo) UpdateStatus(
	ctx context.Context,
	tx *gorm.DB,
	companyID, scheduleID uuid.UUID,
	from, to ScheduleStatus,
) error {
	schedule, ok := f.schedules[scheduleID]
	if !ok || schedule.CompanyID != companyID || schedule.Status != from {
		return ErrInvalidTransition
	}
	schedule.Status = to
	return nil
}

func (f *fakeScheduleRepo) DeactivateAssignments(ctx context.Context, tx *gorm.DB, scheduleID uuid.UUID) error {
	f.inactive[scheduleID] = true
	return nil
}

func (f *fakeScheduleRepo) FindCompletedWithoutReports(ctx context.Context, limit int) ([]Schedule, error) {
	return nil, nil
}

type fakeCleanerRepo struct {
	cleaners map[uuid.UUID]*Cleaner
}

func (f *fakeCleanerRepo) ListByCompany(ctx context.Context, companyID uuid.UUID) ([]Cleaner, error) {
	return nil, nil
}

func (f *fakeCleanerRepo) GetByID(ctx context.Context, companyID, id uuid.UUID) (*Cleaner, error) {
	cleaner, ok := f.cleaners[id]
	if !ok || cleaner.CompanyID != companyID {
		return nil, ErrNotFound
	}
	return cleaner, nil
}

func (f *fakeCleanerRepo) GetByIDs(
	ctx context.Context,
	companyID uuid.UUID,
	ids []uuid.UUID,
) (map[uuid.UUID]*Cleaner, error) {
	out := make(map[uuid.UUID]*Cleaner)
	for _, id := range ids {
		if cleaner, ok := f.cleaners[id]; ok && cleaner.CompanyID == companyID {
			out[id] = cleaner
		}
	}
	return out, nil
}

func (f *fakeCleanerRepo) Create(ctx context.Context, cleaner *Cleaner) error { return nil }
func (f *fakeCleanerRepo) Update(ctx context.Context, cleaner *Cleaner) error { return nil }
func (f *fakeCleanerRepo) Delete(ctx context.Context, companyID, id uuid.UUID) error {
	return nil
}

type fakeClientRepo struct {
	clients map[uuid.UUID]*Client
}

func (f *fakeClientRepo) ListByCompany(ctx context.Context, companyID uuid.UUID) ([]Client, error) {
	return nil, nil
}

func (f *fakeClientRepo) GetByID(ctx context.Context, companyID, id uuid.UUID) (*Client, error) {
	client, ok := f.clients[id]
	if !ok || client.CompanyID != companyID {
		return nil, ErrNotFound
	}
	return client, nil
}

func (f *fakeClientRepo) Create(ctx context.Context, client *Client) error { return nil }
func (f *fakeClientRepo) Update(ctx context.Context, client *Client) error { return nil }
func (f *fakeClientRepo) Delete(ctx context.Context, companyID, id uuid.UUID) error {
	return nil
}

type fakeTx struct {
	// beforeCommit runs just before the transaction body, standing in for
	// a concurrent writer that got there first.
	beforeCommit func()
}

func (f *fakeTx) Execute(ctx context.Context, fn func(context.Context, *gorm.DB) error) error {
	if f.beforeCommit != nil {
		f.beforeCommit()
	}
	return fn(ctx, nil)
}

type fakePublisher struct {
	events []events.Event
}

func (f *fakePublisher) Publish(channel events.Channel, event events.Event) error {
	f.events = append(f.events, event)
	return nil
}

type fixture struct {
	controller ScheduleControllerInterface
	schedules  *fakeScheduleRepo
	publisher  *fakePublisher
	tx         *fakeTx
	companyID  uuid.UUID
	clientID   uuid.UUID
	alice      uuid.UUID
	bob        uuid.UUID
	carol      uuid.UUID
}

func newFixture(t *testing.T) *fixture {
	t.Helper()

	companyID := uuid.New()
	clientID := uuid.New()
	alice := uuid.New()
	bob := uuid.New()
	carol := uuid.New()

	scheduleRepo := newFakeScheduleRepo()
	cleanerRepo := &fakeCleanerRepo{cleaners: map[uuid.UUID]*Cleaner{
		alice: {CompanyID: companyID, Name: "Alice", Drives: true},
		bob:   {CompanyID: companyID, Name: "Bob"},
		carol: {CompanyID: companyID, Name: "Carol"},
	}}
	clientRepo := &fakeClientRepo{clients: map[uuid.UUID]*Client{
		clientID: {CompanyID: companyID, Name: "Downtown Office"},
	}}

	repos := repositories.Repository{
		Schedule: scheduleRepo,
		Cleaner:  cleanerRepo,
		Client:   clientRepo,
	}

	publisher := &fakePublisher{}
	tx := &fakeTx{}
	controller := New(repos, services.NewConflictService(scheduleRepo), tx, publisher)

	return &fixture{
		controller: controller,
		schedules:  scheduleRepo,
		publisher:  publisher,
		tx:         tx,
		companyID:  companyID,
		clientID:   clientID,
		alice:      alice,
		bob:        bob,
		carol:      carol,
	}
}

func jobDate(y int, m time.Month, d int) datatypes.Date {
	return datatypes.Date(time.Date(y, m, d, 0, 0, 0, 0, time.UTC))
}

func timePtr(t time.Time) *time.Time { return &t }

func TestCreateSchedule_RejectsOverlappingWorker(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	date := jobDate(2026, 3, 14)
	nineAM := time.Date(2026, 3, 14, 9, 0, 0, 0, time.UTC)

	first, err := f.controller.CreateSchedule(ctx, f.companyID, CreateScheduleRequest{
		ClientID:  f.clientID,
		JobDate:   date,
		StartTime: timePtr(nineAM),
		DriverID:  f.alice,
		Helper1ID: f.bob,
	})
	require.NoError(t, err)

	// Alice again 30 minutes later, this time as a helper.
	_, err = f.controller.CreateSchedule(ctx, f.companyID, CreateScheduleRequest{
		ClientID:  f.clientID,
		JobDate:   date,
		StartTime: timePtr(nineAM.Add(30 * time.Minute)),
		DriverID:  f.carol,
		Helper1ID: f.alice,
	})
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrConflict)

	var conflictErr *ConflictError
	require.ErrorAs(t, err, &conflictErr)
	assert.Equal(t, []uuid.UUID{first.ID}, conflictErr.ScheduleIDs)

	// A full hour later is fine.
	_, err = f.controller.CreateSchedule(ctx, f.companyID, CreateScheduleRequest{
		ClientID:  f.clientID,
		JobDate:   date,
		StartTime: timePtr(nineAM.Add(time.Hour)),
		DriverID:  f.carol,
		Helper1ID: f.alice,
	})
	assert.NoError(t, err)
}

func TestCreateSchedule_CancelledSchedulesDoNotConflict(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	date := jobDate(2026, 3, 14)
	nineAM := time.Date(2026, 3, 14, 9, 0, 0, 0, time.UTC)

	first, err := f.controller.CreateSchedule(ctx, f.companyID, CreateScheduleRequest{
		ClientID:  f.clientID,
		JobDate:   date,
		StartTime: timePtr(nineAM),
		DriverID:  f.alice,
		Helper1ID: f.bob,
	})
	require.NoError(t, err)

	_, err = f.controller.TransitionStatus(ctx, f.companyID, first.ID, ScheduleCancelled)
	require.NoError(t, err)

	_, err = f.controller.CreateSchedule(ctx, f.companyID, CreateScheduleRequest{
		ClientID:  f.clientID,
		JobDate:   date,
		StartTime: timePtr(nineAM),
		DriverID:  f.alice,
		Helper1ID: f.bob,
	})
	assert.NoError(t, err)
}

func TestCreateSchedule_Validation(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	date := jobDate(2026, 3, 14)
	nineAM := time.Date(2026, 3, 14, 9, 0, 0, 0, time.UTC)

	tests := []struct {
		name    string
		req     CreateScheduleRequest
		wantErr error
	}{
		{
			name: "missing client",
			req: CreateScheduleRequest{
				JobDate: date, DriverID: f.alice, Helper1ID: f.bob,
			},
			wantErr: ErrMissingField,
		},
		{
			name: "missing job date",
			req: CreateScheduleRequest{
				ClientID: f.clientID, DriverID: f.alice, Helper1ID: f.bob,
			},
			wantErr: ErrMissingField,
		},
		{
			name: "missing start time",
			req: CreateScheduleRequest{
				ClientID: f.clientID, JobDate: date, DriverID: f.alice, Helper1ID: f.bob,
			},
			wantErr: ErrMissingField,
		},
		{
			name: "missing driver",
			req: CreateScheduleRequest{
				ClientID: f.clientID, JobDate: date, StartTime: timePtr(nineAM), Helper1ID: f.bob,
			},
			wantErr: ErrMissingField,
		},
		{
			name: "driver doubling as helper",
			req: CreateScheduleRequest{
				ClientID: f.clientID, JobDate: date, StartTime: timePtr(nineAM),
				DriverID: f.alice, Helper1ID: f.alice,
			},
			wantErr: ErrDuplicateWorker,
		},
		{
			name: "second helper duplicates driver",
			req: CreateScheduleRequest{
				ClientID: f.clientID, JobDate: date, StartTime: timePtr(nineAM),
				DriverID: f.alice, Helper1ID: f.bob, Helper2ID: &f.alice,
			},
			wantErr: ErrDuplicateWorker,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := f.controller.CreateSchedule(ctx, f.companyID, tt.req)
			assert.ErrorIs(t, err, tt.wantErr)
		})
	}
}

func TestCreateSchedule_RejectsForeignTenantReferences(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	date := jobDate(2026, 3, 14)
	nineAM := time.Date(2026, 3, 14, 9, 0, 0, 0, time.UTC)

	_, err := f.controller.CreateSchedule(ctx, f.companyID, CreateScheduleRequest{
		ClientID:  uuid.New(),
		JobDate:   date,
		StartTime: timePtr(nineAM),
		DriverID:  f.alice,
		Helper1ID: f.bob,
	})
	assert.ErrorIs(t, err, ErrNotFound)

	_, err = f.controller.CreateSchedule(ctx, f.companyID, CreateScheduleRequest{
		ClientID:  f.clientID,
		JobDate:   date,
		StartTime: timePtr(nineAM),
		DriverID:  uuid.New(),
		Helper1ID: f.bob,
	})
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestCreateSchedule_RequiresStartTime(t *testing.T) {
	f := newFixture(t)

	_, err := f.controller.CreateSchedule(context.Background(), f.companyID, CreateScheduleRequest{
		ClientID:  f.clientID,
		JobDate:   jobDate(2026, 3, 14),
		DriverID:  f.alice,
		Helper1ID: f.bob,
	})
	require.Error(t, err)

	var missing *MissingFieldError
	require.ErrorAs(t, err, &missing)
	assert.Equal(t, "startTime", missing.Field)
	assert.Empty(t, f.schedules.schedules)
}

func TestCreateSchedule_HistoricalNullStartDoesNotConflict(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	date := jobDate(2026, 3, 14)

	// Legacy row without a start time, same workers on the same date.
	legacy := Schedule{
		CompanyID: f.companyID,
		ClientID:  f.clientID,
		JobDate:   date,
		DriverID:  f.alice,
		Helper1ID: f.bob,
		Status:    ScheduleScheduled,
	}
	legacy.ID = uuid.New()
	f.schedules.schedules[legacy.ID] = &legacy

	_, err := f.controller.CreateSchedule(ctx, f.companyID, CreateScheduleRequest{
		ClientID:  f.clientID,
		JobDate:   date,
		StartTime: timePtr(time.Date(2026, 3, 14, 9, 0, 0, 0, time.UTC)),
		DriverID:  f.alice,
		Helper1ID: f.bob,
	})
	assert.NoError(t, err)
}

func TestCheckConflict_ReportsWithoutReserving(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	date := jobDate(2026, 3, 14)
	nineAM := time.Date(2026, 3, 14, 9, 0, 0, 0, time.UTC)

	first, err := f.controller.CreateSchedule(ctx, f.companyID, CreateScheduleRequest{
		ClientID:  f.clientID,
		JobDate:   date,
		StartTime: timePtr(nineAM),
		DriverID:  f.alice,
		Helper1ID: f.bob,
	})
	require.NoError(t, err)

	result, err := f.controller.CheckConflict(ctx, f.companyID, ConflictCheckRequest{
		JobDate:   date,
		StartTime: timePtr(nineAM.Add(45 * time.Minute)),
		DriverID:  f.bob,
		Helper1ID: f.carol,
	})
	require.NoError(t, err)
	assert.True(t, result.Conflict)
	assert.Equal(t, []uuid.UUID{first.ID}, result.ScheduleIDs)

	result, err = f.controller.CheckConflict(ctx, f.companyID, ConflictCheckRequest{
		JobDate:   date,
		StartTime: timePtr(nineAM),
		DriverID:  f.carol,
		Helper1ID: f.carol,
	})
	require.NoError(t, err)
	assert.False(t, result.Conflict)
}

func TestTransitionStatus_Lifecycle(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	schedule, err := f.controller.CreateSchedule(ctx, f.companyID, CreateScheduleRequest{
		ClientID:  f.clientID,
		JobDate:   jobDate(2026, 3, 14),
		StartTime: timePtr(time.Date(2026, 3, 14, 9, 0, 0, 0, time.UTC)),
		DriverID:  f.alice,
		Helper1ID: f.bob,
	})
	require.NoError(t, err)

	// scheduled -> in_progress
	updated, err := f.controller.StartJob(ctx, f.companyID, schedule.ID)
	require.NoError(t, err)
	assert.Equal(t, ScheduleInProgress, updated.Status)

	// in_progress -> scheduled is not a thing
	_, err = f.controller.TransitionStatus(ctx, f.companyID, schedule.ID, ScheduleScheduled)
	assert.ErrorIs(t, err, ErrInvalidTransition)

	// completed is reserved for job completion
	_, err = f.controller.TransitionStatus(ctx, f.companyID, schedule.ID, ScheduleCompleted)
	assert.ErrorIs(t, err, ErrInvalidTransition)

	// in_progress -> cancelled releases the workers
	_, err = f.controller.TransitionStatus(ctx, f.companyID, schedule.ID, ScheduleCancelled)
	require.NoError(t, err)
	assert.True(t, f.schedules.inactive[schedule.ID])

	// cancelled is terminal
	_, err = f.controller.TransitionStatus(ctx, f.companyID, schedule.ID, ScheduleInProgress)
	assert.ErrorIs(t, err, ErrInvalidTransition)
}

func TestTransitionStatus_LosesRaceToConcurrentCompletion(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	schedule, err := f.controller.CreateSchedule(ctx, f.companyID, CreateScheduleRequest{
		ClientID:  f.clientID,
		JobDate:   jobDate(2026, 3, 14),
		StartTime: timePtr(time.Date(2026, 3, 14, 9, 0, 0, 0, time.UTC)),
		DriverID:  f.alice,
		Helper1ID: f.bob,
	})
	require.NoError(t, err)

	_, err = f.controller.StartJob(ctx, f.companyID, schedule.ID)
	require.NoError(t, err)

	// Another request completes the job between our state check and the
	// status write.
	f.tx.beforeCommit = func() {
		f.schedules.schedules[schedule.ID].Status = ScheduleCompleted
	}

	_, err = f.controller.TransitionStatus(ctx, f.companyID, schedule.ID, ScheduleCancelled)
	assert.ErrorIs(t, err, ErrInvalidTransition)
	assert.Equal(t, ScheduleCompleted, f.schedules.schedules[schedule.ID].Status)
	assert.False(t, f.schedules.inactive[schedule.ID])
}

func TestTransitionStatus_UnknownStatusRejected(t *testing.T) {
	f := newFixture(t)

	_, err := f.controller.TransitionStatus(
		context.Background(),
		f.companyID,
		uuid.New(),
		ScheduleStatus("archived"),
	)
	assert.ErrorIs(t, err, ErrInvalidTransition)
}

func TestCreateSchedule_PublishesEvent(t *testing.T) {
	f := newFixture(t)

	schedule, err := f.controller.CreateSchedule(context.Background(), f.companyID, CreateScheduleRequest{
		ClientID:  f.clientID,
		JobDate:   jobDate(2026, 3, 14),
		StartTime: timePtr(time.Date(2026, 3, 14, 9, 0, 0, 0, time.UTC)),
		DriverID:  f.alice,
		Helper1ID: f.bob,
	})
	require.NoError(t, err)

	require.Len(t, f.publisher.events, 1)
	event := f.publisher.events[0]
	assert.Equal(t, events.SCHEDULE_CREATED, event.Type)
	require.NotNil(t, event.CompanyID)
	assert.Equal(t, f.companyID, *event.CompanyID)
	assert.Equal(t, schedule.ID.String(), event.Data["scheduleId"])
}

func TestCreateSchedule_OtherTenantSchedulesIgnored(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	date := jobDate(2026, 3, 14)
	nineAM := time.Date(2026, 3, 14, 9, 0, 0, 0, time.UTC)

	// Same worker ID booked under a different company at the same time.
	other := Schedule{
		CompanyID: uuid.New(),
		JobDate:   date,
		StartTime: timePtr(nineAM),
		DriverID:  f.alice,
		Helper1ID: f.bob,
		Status:    ScheduleScheduled,
	}
	other.ID = uuid.New()
	f.schedules.schedules[other.ID] = &other

	_, err := f.controller.CreateSchedule(ctx, f.companyID, CreateScheduleRequest{
		ClientID:  f.clientID,
		JobDate:   date,
		StartTime: timePtr(nineAM),
		DriverID:  f.alice,
		Helper1ID: f.bob,
	})
	assert.NoError(t, err)
}

func TestCreateSchedule_PropagatesStorageErrors(t *testing.T) {
	f := newFixture(t)
	f.schedules.createErr = errors.New("connection reset")

	_, err := f.controller.CreateSchedule(context.Background(), f.companyID, CreateScheduleRequest{
		ClientID:  f.clientID,
		JobDate:   jobDate(2026, 3, 14),
		StartTime: timePtr(time.Date(2026, 3, 14, 9, 0, 0, 0, time.UTC)),
		DriverID:  f.alice,
		Helper1ID: f.bob,
	})
	assert.Error(t, err)
	assert.NotErrorIs(t, err, ErrConflict)
}
