package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
)

// Report is the completion record for a schedule, 1:1 with the completed
// job. Free-text fields store NULL rather than empty strings.
type Report struct {
	BaseUUIDModel
	ScheduleID      uuid.UUID      `gorm:"type:uuid;not null;uniqueIndex" json:"scheduleId"`
	CleanerID       *uuid.UUID     `gorm:"type:uuid"                      json:"cleanerId,omitempty"`
	StartTime       *time.Time     `gorm:"type:timestamptz"               json:"startTime,omitempty"`
	EndTime         *time.Time     `gorm:"type:timestamptz"               json:"endTime,omitempty"`
	DurationMinutes *int           `gorm:"type:int"                       json:"durationMinutes,omitempty"`
	Issues          *string        `gorm:"type:text"                      json:"issues,omitempty"`
	ExtraTasks      *string        `gorm:"type:text"                      json:"extraTasks,omitempty"`
	Notes           *string        `gorm:"type:text"                      json:"notes,omitempty"`
	Metadata        datatypes.JSON `gorm:"type:jsonb"                     json:"metadata,omitempty"`
}
