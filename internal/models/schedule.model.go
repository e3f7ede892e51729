package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
)

type ScheduleStatus string

const (
	ScheduleScheduled  ScheduleStatus = "scheduled"
	ScheduleInProgress ScheduleStatus = "in_progress"
	ScheduleCompleted  ScheduleStatus = "completed"
	ScheduleCancelled  ScheduleStatus = "cancelled"
)

// statusTransitions encodes the monotonic job lifecycle. Terminal states
// have no outgoing edges.
var statusTransitions = map[ScheduleStatus][]ScheduleStatus{
	ScheduleScheduled:  {ScheduleInProgress, ScheduleCancelled},
	ScheduleInProgress: {ScheduleCompleted, ScheduleCancelled},
	ScheduleCompleted:  {},
	ScheduleCancelled:  {},
}

func (s ScheduleStatus) CanTransitionTo(next ScheduleStatus) bool {
	for _, allowed := range statusTransitions[s] {
		if allowed == next {
			return true
		}
	}
	return false
}

func (s ScheduleStatus) IsTerminal() bool {
	return len(statusTransitions[s]) == 0
}

type AssignmentRole string

const (
	RoleDriver  AssignmentRole = "driver"
	RoleHelper1 AssignmentRole = "helper1"
	RoleHelper2 AssignmentRole = "helper2"
)

// Schedule is a cleaning job: one client visit on a date, staffed by a
// driver, a first helper and an optional second helper. StartTime is
// nullable; historical imports without a time never block new scheduling.
type Schedule struct {
	BaseUUIDModel
	CompanyID   uuid.UUID            `gorm:"type:uuid;not null;index"           json:"companyId"`
	ClientID    uuid.UUID            `gorm:"type:uuid;not null"                 json:"clientId"`
	Client      *Client              `gorm:"foreignKey:ClientID"                json:"client,omitempty"`
	JobDate     datatypes.Date       `gorm:"type:date;not null"                 json:"jobDate"`
	StartTime   *time.Time           `gorm:"type:timestamptz"                   json:"startTime,omitempty"`
	DriverID    uuid.UUID            `gorm:"type:uuid;not null"                 json:"driverId"`
	Helper1ID   uuid.UUID            `gorm:"type:uuid;not null"                 json:"helper1Id"`
	Helper2ID   *uuid.UUID           `gorm:"type:uuid"                          json:"helper2Id,omitempty"`
	Status      ScheduleStatus       `gorm:"type:text;not null;default:'scheduled'" json:"status"`
	Notes       *string              `gorm:"type:text"                          json:"notes,omitempty"`
	Assignments []ScheduleAssignment `gorm:"foreignKey:ScheduleID"              json:"-"`
}

// WorkerIDs returns the distinct cleaners staffed on this schedule across
// all three role slots.
func (s *Schedule) WorkerIDs() []uuid.UUID {
	seen := make(map[uuid.UUID]bool, 3)
	ids := make([]uuid.UUID, 0, 3)
	for _, id := range []uuid.UUID{s.DriverID, s.Helper1ID} {
		if !seen[id] {
			seen[id] = true
			ids = append(ids, id)
		}
	}
	if s.Helper2ID != nil && !seen[*s.Helper2ID] {
		ids = append(ids, *s.Helper2ID)
	}
	return ids
}

// BuildAssignments projects the schedule into one row per staffed role.
// These rows carry the storage-level no-double-booking exclusion
// constraint; the conflict pre-check in the service layer is advisory.
func (s *Schedule) BuildAssignments() []ScheduleAssignment {
	assignments := []ScheduleAssignment{
		{ScheduleID: s.ID, CompanyID: s.CompanyID, CleanerID: s.DriverID, Role: RoleDriver, JobDate: s.JobDate, StartTime: s.StartTime, Active: true},
		{ScheduleID: s.ID, CompanyID: s.CompanyID, CleanerID: s.Helper1ID, Role: RoleHelper1, JobDate: s.JobDate, StartTime: s.StartTime, Active: true},
	}
	if s.Helper2ID != nil {
		assignments = append(assignments, ScheduleAssignment{
			ScheduleID: s.ID, CompanyID: s.CompanyID, CleanerID: *s.Helper2ID,
			Role: RoleHelper2, JobDate: s.JobDate, StartTime: s.StartTime, Active: true,
		})
	}
	return assignments
}

// ScheduleAssignment is the per-worker projection of a schedule. Rows stay
// active for every non-cancelled schedule so completed jobs still count
// toward the double-booking invariant.
type ScheduleAssignment struct {
	BaseUUIDModel
	ScheduleID uuid.UUID      `gorm:"type:uuid;not null;index"  json:"scheduleId"`
	CompanyID  uuid.UUID      `gorm:"type:uuid;not null"        json:"companyId"`
	CleanerID  uuid.UUID      `gorm:"type:uuid;not null;index"  json:"cleanerId"`
	Role       AssignmentRole `gorm:"type:text;not null"        json:"role"`
	JobDate    datatypes.Date `gorm:"type:date;not null"        json:"jobDate"`
	StartTime  *time.Time     `gorm:"type:timestamptz"          json:"startTime,omitempty"`
	Active     bool           `gorm:"type:bool;not null;default:true" json:"active"`
}
