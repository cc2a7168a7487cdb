package roster

import (
	"database/sql"
	"strings"
	"time"

	"github.com/hpungsan/studymatch/internal/db"
	"github.com/hpungsan/studymatch/internal/errors"
	"github.com/hpungsan/studymatch/internal/student"
)

// AddMode controls collision behavior.
type AddMode string

const (
	AddModeError   AddMode = "error"   // default: fail on EID collision
	AddModeReplace AddMode = "replace" // overwrite existing
)

// AddInput contains parameters for the Add operation. Multi-valued fields
// arrive in their raw CSV shapes: courses and topics comma-separated,
// availability semicolon-separated.
type AddInput struct {
	EID          string
	Name         string
	Courses      string
	Confidence   *int // default: student.DefaultConfidence
	Availability string
	Email        string
	TopicsNeed   string
	StudyStyle   string
	WorkHours    *int    // default: student.DefaultWorkHours
	Mode         AddMode // default: AddModeError
}

// AddOutput contains the result of the Add operation.
type AddOutput struct {
	EID     string `json:"eid"`
	Created bool   `json:"created"`
}

// Add stores or replaces one student.
func Add(database *sql.DB, input AddInput) (*AddOutput, error) {
	input.EID = strings.TrimSpace(input.EID)
	input.Name = strings.TrimSpace(input.Name)
	if input.EID == "" {
		return nil, errors.NewInvalidRequest("eid is required")
	}
	if input.Name == "" {
		return nil, errors.NewInvalidRequest("name is required")
	}
	if input.Mode == "" {
		input.Mode = AddModeError
	}
	if input.Mode != AddModeError && input.Mode != AddModeReplace {
		return nil, errors.NewInvalidRequest("mode must be one of: error, replace")
	}

	confidence := student.DefaultConfidence
	if input.Confidence != nil {
		confidence = *input.Confidence
	}
	workHours := student.DefaultWorkHours
	if input.WorkHours != nil {
		workHours = *input.WorkHours
	}
	if workHours < 0 {
		return nil, errors.NewInvalidRequest("work_hours must be >= 0")
	}

	s := student.New(input.EID, input.Name,
		student.SplitList(input.Courses, courseSep),
		confidence,
		student.SplitList(input.Availability, availabilitySep),
		strings.TrimSpace(input.Email),
		student.SplitList(input.TopicsNeed, topicSep),
		input.StudyStyle,
		workHours,
	)

	now := time.Now().Unix()
	if input.Mode == AddModeReplace {
		if err := db.UpsertStudent(database, s, now); err != nil {
			return nil, err
		}
		return &AddOutput{EID: s.EID, Created: true}, nil
	}

	if err := db.InsertStudent(database, s, now); err != nil {
		if err == db.ErrUniqueConstraint {
			return nil, errors.NewDuplicateEID(s.EID)
		}
		return nil, err
	}
	return &AddOutput{EID: s.EID, Created: true}, nil
}
