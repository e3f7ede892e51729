package models

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/datatypes"
)

func TestScheduleStatusTransitions(t *testing.T) {
	tests := []struct {
		name    string
		from    ScheduleStatus
		to      ScheduleStatus
		allowed bool
	}{
		{"scheduled can start", ScheduleScheduled, ScheduleInProgress, true},
		{"scheduled can cancel", ScheduleScheduled, ScheduleCancelled, true},
		{"scheduled cannot complete directly", ScheduleScheduled, ScheduleCompleted, false},
		{"in progress can complete", ScheduleInProgress, ScheduleCompleted, true},
		{"in progress can cancel", ScheduleInProgress, ScheduleCancelled, true},
		{"in progress cannot revert", ScheduleInProgress, ScheduleScheduled, false},
		{"completed is terminal", ScheduleCompleted, ScheduleCancelled, false},
		{"cancelled is terminal", ScheduleCancelled, ScheduleScheduled, false},
		{"cancelled cannot restart", ScheduleCancelled, ScheduleInProgress, false},
		{"no self transition", ScheduleScheduled, ScheduleScheduled, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.allowed, tt.from.CanTransitionTo(tt.to))
		})
	}
}

func TestScheduleStatusIsTerminal(t *testing.T) {
	assert.False(t, ScheduleScheduled.IsTerminal())
	assert.False(t, ScheduleInProgress.IsTerminal())
	assert.True(t, ScheduleCompleted.IsTerminal())
	assert.True(t, ScheduleCancelled.IsTerminal())
}

func TestScheduleWorkerIDs(t *testing.T) {
	driver := uuid.New()
	helper1 := uuid.New()
	helper2 := uuid.New()

	t.Run("all three roles", func(t *testing.T) {
		s := Schedule{DriverID: driver, Helper1ID: helper1, Helper2ID: &helper2}
		assert.ElementsMatch(t, []uuid.UUID{driver, helper1, helper2}, s.WorkerIDs())
	})

	t.Run("no second helper", func(t *testing.T) {
		s := Schedule{DriverID: driver, Helper1ID: helper1}
		assert.ElementsMatch(t, []uuid.UUID{driver, helper1}, s.WorkerIDs())
	})

	t.Run("driver doubling as helper deduplicates", func(t *testing.T) {
		s := Schedule{DriverID: driver, Helper1ID: helper1, Helper2ID: &driver}
		assert.ElementsMatch(t, []uuid.UUID{driver, helper1}, s.WorkerIDs())
	})
}

func TestScheduleBuildAssignments(t *testing.T) {
	driver := uuid.New()
	helper1 := uuid.New()
	helper2 := uuid.New()
	start := time.Date(2026, 3, 5, 9, 0, 0, 0, time.UTC)

	s := Schedule{
		CompanyID: uuid.New(),
		DriverID:  driver,
		Helper1ID: helper1,
		Helper2ID: &helper2,
		StartTime: &start,
	}
	s.ID = uuid.New()

	assignments := s.BuildAssignments()
	assert.Len(t, assignments, 3)
	for _, a := range assignments {
		assert.Equal(t, s.ID, a.ScheduleID)
		assert.Equal(t, s.CompanyID, a.CompanyID)
		assert.True(t, a.Active)
		assert.Equal(t, &start, a.StartTime)
	}
	assert.Equal(t, RoleDriver, assignments[0].Role)
	assert.Equal(t, driver, assignments[0].CleanerID)
	assert.Equal(t, RoleHelper1, assignments[1].Role)
	assert.Equal(t, RoleHelper2, assignments[2].Role)

	t.Run("optional helper omitted", func(t *testing.T) {
		s.Helper2ID = nil
		assert.Len(t, s.BuildAssignments(), 2)
	})
}

func TestCompanyTrialExpired(t *testing.T) {
	now := time.Date(2026, 6, 1, 12, 0, 0, 0, time.UTC)
	past := now.Add(-time.Hour)
	future := now.Add(time.Hour)

	tests := []struct {
		name    string
		company Company
		expired bool
	}{
		{"trial past end date", Company{SubscriptionStatus: SubscriptionTrial, TrialEndsAt: &past}, true},
		{"trial still running", Company{SubscriptionStatus: SubscriptionTrial, TrialEndsAt: &future}, false},
		{"trial without end date", Company{SubscriptionStatus: SubscriptionTrial}, false},
		{"active never expires", Company{SubscriptionStatus: SubscriptionActive, TrialEndsAt: &past}, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expired, tt.company.TrialExpired(now))
		})
	}
}

func TestScheduleJSONRoundTrip(t *testing.T) {
	start := time.Date(2026, 3, 14, 9, 0, 0, 0, time.UTC)
	helper2 := uuid.New()
	notes := "bring the long ladder"

	original := Schedule{
		CompanyID: uuid.New(),
		ClientID:  uuid.New(),
		JobDate:   datatypes.Date(time.Date(2026, 3, 14, 0, 0, 0, 0, time.UTC)),
		StartTime: &start,
		DriverID:  uuid.New(),
		Helper1ID: uuid.New(),
		Helper2ID: &helper2,
		Status:    ScheduleInProgress,
		Notes:     &notes,
	}
	original.ID = uuid.New()

	payload, err := json.Marshal(original)
	require.NoError(t, err)

	var decoded Schedule
	require.NoError(t, json.Unmarshal(payload, &decoded))

	assert.Equal(t, original.ID, decoded.ID)
	assert.Equal(t, original.CompanyID, decoded.CompanyID)
	assert.Equal(t, original.ClientID, decoded.ClientID)
	assert.True(t, time.Time(decoded.JobDate).Equal(time.Time(original.JobDate)))
	require.NotNil(t, decoded.StartTime)
	assert.True(t, decoded.StartTime.Equal(start))
	assert.Equal(t, original.DriverID, decoded.DriverID)
	assert.Equal(t, original.Helper1ID, decoded.Helper1ID)
	require.NotNil(t, decoded.Helper2ID)
	assert.Equal(t, helper2, *decoded.Helper2ID)
	assert.Equal(t, ScheduleInProgress, decoded.Status)
	require.NotNil(t, decoded.Notes)
	assert.Equal(t, notes, *decoded.Notes)
}

func TestScheduleJSONOmitsEmptyOptionals(t *testing.T) {
	schedule := Schedule{
		CompanyID: uuid.New(),
		ClientID:  uuid.New(),
		JobDate:   datatypes.Date(time.Date(2026, 3, 14, 0, 0, 0, 0, time.UTC)),
		DriverID:  uuid.New(),
		Helper1ID: uuid.New(),
		Status:    ScheduleScheduled,
	}

	payload, err := json.Marshal(schedule)
	require.NoError(t, err)

	var fields map[string]json.RawMessage
	require.NoError(t, json.Unmarshal(payload, &fields))
	assert.NotContains(t, fields, "startTime")
	assert.NotContains(t, fields, "helper2Id")
	assert.NotContains(t, fields, "notes")
}
