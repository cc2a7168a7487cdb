// Package roster is the operations layer over the student store: CSV import,
// single-record CRUD, persisted resources, and the match/report operations
// that load the roster into the in-memory matcher.
package roster

import "github.com/hpungsan/studymatch/internal/student"

// Pagination limits
const (
	DefaultListLimit  = 20
	MaxListLimit      = 100
	DefaultMatchLimit = 10
	MaxMatchLimit     = 100
)

// Field separators in the CSV roster format: courses and topics are
// comma-separated, availability slots semicolon-separated.
const (
	courseSep       = ","
	topicSep        = ","
	availabilitySep = ";"
)

// Pagination contains pagination metadata for list operations.
type Pagination struct {
	Limit   int  `json:"limit"`
	Offset  int  `json:"offset"`
	HasMore bool `json:"has_more"`
	Total   int  `json:"total"`
}

// StudentView is the JSON projection of a student record.
type StudentView struct {
	EID          string   `json:"eid"`
	Name         string   `json:"name"`
	Courses      []string `json:"courses"`
	Confidence   int      `json:"confidence"`
	Availability []string `json:"availability"`
	Email        string   `json:"email,omitempty"`
	TopicsNeed   []string `json:"topics_need"`
	StudyStyle   string   `json:"study_style"`
	WorkHours    int      `json:"work_hours"`
}

// viewOf projects a record into its JSON shape, sets sorted for stable output.
func viewOf(s *student.Student) StudentView {
	return StudentView{
		EID:          s.EID,
		Name:         s.Name,
		Courses:      s.Courses.Sorted(),
		Confidence:   s.Confidence,
		Availability: s.Availability.Sorted(),
		Email:        s.Email,
		TopicsNeed:   s.TopicsNeed.Sorted(),
		StudyStyle:   s.StudyStyle,
		WorkHours:    s.WorkHours,
	}
}

// clampLimit applies default and max bounds to a requested page size.
func clampLimit(limit, def, max int) int {
	if limit <= 0 {
		return def
	}
	if limit > max {
		return max
	}
	return limit
}
