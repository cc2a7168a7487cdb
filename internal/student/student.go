package student

// Defaults substituted by loaders when a numeric field is missing or unparsable.
// The scorer treats any in-range value as valid; only the loading side applies
// these.
const (
	DefaultConfidence = 1
	DefaultWorkHours  = 5
)

// StyleNone is the study-style sentinel meaning "no preference".
// Records with this style are excluded from style-match comparisons.
const StyleNone = "none"

// Student holds one person's attributes used in scoring. The record is
// immutable from the scorer's perspective: compatibility scores live in the
// match ranking, never on the record.
type Student struct {
	// EID is the externally assigned institutional identifier, unique
	// across a roster and stable once created.
	EID string

	// Name is free-text display name.
	Name string

	// Courses is the set of course codes.
	Courses Set

	// Confidence is a self-rated level, semantic range 1-5.
	Confidence int

	// Availability is the set of time-slot labels. Labels are opaque
	// tokens; no calendar semantics are imposed.
	Availability Set

	// Email is free text, not validated here.
	Email string

	// TopicsNeed is the set of topic labels the student wants help with.
	// May be empty.
	TopicsNeed Set

	// StudyStyle is a category token, case-normalized to lowercase.
	// StyleNone means unspecified.
	StudyStyle string

	// WorkHours is the weekly work-hour load, semantic range >= 0.
	WorkHours int

	// Resources is an ordered list of opaque resource strings attached to
	// the record. Independent of scoring.
	Resources []string
}

// New constructs a Student from raw multi-valued fields. Courses,
// availability, and topics are deduplicated into sets; the study style is
// normalized to lowercase with StyleNone substituted when empty.
func New(eid, name string, courses []string, confidence int, availability []string, email string, topics []string, style string, workHours int) *Student {
	styleNorm := Normalize(style)
	if styleNorm == "" {
		styleNorm = StyleNone
	}
	return &Student{
		EID:          eid,
		Name:         name,
		Courses:      NewSet(courses),
		Confidence:   confidence,
		Availability: NewSet(availability),
		Email:        email,
		TopicsNeed:   NewSet(topics),
		StudyStyle:   styleNorm,
		WorkHours:    workHours,
	}
}

// Summary is the listing view of a student: identity plus the fields that
// matter when scanning a roster, without resources.
type Summary struct {
	EID        string   `json:"eid"`
	Name       string   `json:"name"`
	Courses    []string `json:"courses"`
	Confidence int      `json:"confidence"`
	StudyStyle string   `json:"study_style"`
	WorkHours  int      `json:"work_hours"`
	UpdatedAt  int64    `json:"updated_at"`
}
