package services

import (
	"context"
	"time"

	. "spotless/internal/models"

	logger "github.com/Bparsons0904/goLogger"
	"github.com/google/uuid"
	"gorm.io/datatypes"
)

// ConflictWindowMinutes is the minimum spacing between two jobs staffing
// the same worker on the same date. Two start times clash when they are
// strictly closer than this, so exactly 60 minutes apart is allowed.
const ConflictWindowMinutes = 60

type ConflictResult struct {
	Conflict    bool        `json:"conflict"`
	ScheduleIDs []uuid.UUID `json:"conflictingScheduleIds"`
}

// ScheduleFinder is the slice of the schedule repository the conflict
// check needs.
type ScheduleFinder interface {
	FindByWorkersOnDate(
		ctx context.Context,
		companyID uuid.UUID,
		jobDate datatypes.Date,
		workerIDs []uuid.UUID,
	) ([]Schedule, error)
}

// ConflictService is the advisory half of the double-booking defense: it
// reports which existing schedules would clash so the API can return them
// by ID. The exclusion constraint on schedule_assignments remains the
// authority under concurrent writes.
type ConflictService struct {
	schedules ScheduleFinder
	log       logger.Logger
}

func NewConflictService(schedules ScheduleFinder) *ConflictService {
	return &ConflictService{
		schedules: schedules,
		log:       logger.New("ConflictService"),
	}
}

// Check scans the company's non-cancelled schedules on jobDate that share
// any of the given workers and flags those whose start time falls within
// the conflict window. Schedules without a start time never conflict.
func (s *ConflictService) Check(
	ctx context.Context,
	companyID uuid.UUID,
	jobDate datatypes.Date,
	startTime *time.Time,
	workerIDs []uuid.UUID,
) (ConflictResult, error) {
	log := s.log.Function("Check")

	result := ConflictResult{ScheduleIDs: make([]uuid.UUID, 0)}

	if startTime == nil || len(workerIDs) == 0 {
		return result, nil
	}

	candidates, err := s.schedules.FindByWorkersOnDate(ctx, companyID, jobDate, workerIDs)
	if err != nil {
		return result, log.Err("failed to load candidate schedules", err, "companyID", companyID)
	}

	for _, candidate := range candidates {
		if candidate.StartTime == nil {
			continue
		}

		diff := startTime.Sub(*candidate.StartTime)
		if diff < 0 {
			diff = -diff
		}
		if diff < ConflictWindowMinutes*time.Minute {
			result.Conflict = true
			result.ScheduleIDs = append(result.ScheduleIDs, candidate.ID)
		}
	}

	return result, nil
}
