package services

import (
	"context"
	"testing"
	"time"

	. "spotless/internal/models"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/datatypes"
)

type fakeScheduleFinder struct {
	schedules []Schedule
	err       error
}

func (f *fakeScheduleFinder) FindByWorkersOnDate(
	ctx context.Context,
	companyID uuid.UUID,
	jobDate datatypes.Date,
	workerIDs []uuid.UUID,
) ([]Schedule, error) {
	if f.err != nil {
		return nil, f.err
	}
	return f.schedules, nil
}

func scheduleAt(id uuid.UUID, start *time.Time) Schedule {
	schedule := Schedule{StartTime: start}
	schedule.ID = id
	return schedule
}

func timePtr(t time.Time) *time.Time { return &t }

func TestConflictService_Check_WindowBoundaries(t *testing.T) {
	companyID := uuid.New()
	workerID := uuid.New()
	jobDate := datatypes.Date(time.Date(2026, 3, 14, 0, 0, 0, 0, time.UTC))
	base := time.Date(2026, 3, 14, 9, 0, 0, 0, time.UTC)

	tests := []struct {
		name         string
		existing     *time.Time
		proposed     *time.Time
		wantConflict bool
	}{
		{
			name:         "same start time conflicts",
			existing:     timePtr(base),
			proposed:     timePtr(base),
			wantConflict: true,
		},
		{
			name:         "59 minutes after conflicts",
			existing:     timePtr(base),
			proposed:     timePtr(base.Add(59 * time.Minute)),
			wantConflict: true,
		},
		{
			name:         "59 minutes before conflicts",
			existing:     timePtr(base),
			proposed:     timePtr(base.Add(-59 * time.Minute)),
			wantConflict: true,
		},
		{
			name:         "exactly 60 minutes apart is allowed",
			existing:     timePtr(base),
			proposed:     timePtr(base.Add(60 * time.Minute)),
			wantConflict: false,
		},
		{
			name:         "61 minutes apart is allowed",
			existing:     timePtr(base),
			proposed:     timePtr(base.Add(61 * time.Minute)),
			wantConflict: false,
		},
		{
			name:         "existing schedule without start time never conflicts",
			existing:     nil,
			proposed:     timePtr(base),
			wantConflict: false,
		},
		{
			name:         "proposed schedule without start time never conflicts",
			existing:     timePtr(base),
			proposed:     nil,
			wantConflict: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			finder := &fakeScheduleFinder{
				schedules: []Schedule{scheduleAt(uuid.New(), tt.existing)},
			}
			service := NewConflictService(finder)

			result, err := service.Check(
				context.Background(),
				companyID,
				jobDate,
				tt.proposed,
				[]uuid.UUID{workerID},
			)

			require.NoError(t, err)
			assert.Equal(t, tt.wantConflict, result.Conflict)
			if tt.wantConflict {
				assert.Len(t, result.ScheduleIDs, 1)
			} else {
				assert.Empty(t, result.ScheduleIDs)
			}
		})
	}
}

func TestConflictService_Check_CollectsAllConflictingSchedules(t *testing.T) {
	base := time.Date(2026, 3, 14, 9, 0, 0, 0, time.UTC)
	firstID := uuid.New()
	secondID := uuid.New()

	finder := &fakeScheduleFinder{
		schedules: []Schedule{
			scheduleAt(firstID, timePtr(base.Add(-30*time.Minute))),
			scheduleAt(secondID, timePtr(base.Add(45*time.Minute))),
			scheduleAt(uuid.New(), timePtr(base.Add(2*time.Hour))),
		},
	}
	service := NewConflictService(finder)

	result, err := service.Check(
		context.Background(),
		uuid.New(),
		datatypes.Date(base),
		timePtr(base),
		[]uuid.UUID{uuid.New()},
	)

	require.NoError(t, err)
	assert.True(t, result.Conflict)
	assert.ElementsMatch(t, []uuid.UUID{firstID, secondID}, result.ScheduleIDs)
}

func TestConflictService_Check_NoWorkersShortCircuits(t *testing.T) {
	finder := &fakeScheduleFinder{err: assert.AnError}
	service := NewConflictService(finder)

	result, err := service.Check(
		context.Background(),
		uuid.New(),
		datatypes.Date(time.Now()),
		timePtr(time.Now()),
		nil,
	)

	require.NoError(t, err)
	assert.False(t, result.Conflict)
}
