package roster

import (
	"database/sql"
	"strings"

	"github.com/hpungsan/studymatch/internal/db"
	"github.com/hpungsan/studymatch/internal/errors"
	"github.com/hpungsan/studymatch/internal/match"
)

// FindMatchesInput contains parameters for the FindMatches operation.
type FindMatchesInput struct {
	SeekerEID string
	Limit     int // default: 10, max: 100
}

// MatchEntry is one ranked candidate in the output.
type MatchEntry struct {
	EID                string   `json:"eid"`
	Name               string   `json:"name"`
	Email              string   `json:"email,omitempty"`
	Score              int      `json:"score"`
	SharedCourses      []string `json:"shared_courses"`
	SharedAvailability []string `json:"shared_availability"`
}

// FindMatchesOutput contains the result of the FindMatches operation.
type FindMatchesOutput struct {
	SeekerEID string       `json:"seeker_eid"`
	Matches   []MatchEntry `json:"matches"`
	Total     int          `json:"total"`
}

// FindMatches loads the roster, ranks every other student against the
// seeker, and returns the top entries best-first.
func FindMatches(database *sql.DB, input FindMatchesInput) (*FindMatchesOutput, error) {
	seekerEID := strings.TrimSpace(input.SeekerEID)
	if seekerEID == "" {
		return nil, errors.NewInvalidRequest("seeker eid is required")
	}
	limit := clampLimit(input.Limit, DefaultMatchLimit, MaxMatchLimit)

	ranking, _, err := rank(database, seekerEID)
	if err != nil {
		return nil, err
	}

	total := ranking.Len()
	entries := make([]MatchEntry, 0, min(total, limit))
	for len(entries) < limit {
		m, ok := ranking.Next()
		if !ok {
			break
		}
		entries = append(entries, toEntry(m))
	}

	return &FindMatchesOutput{
		SeekerEID: seekerEID,
		Matches:   entries,
		Total:     total,
	}, nil
}

// BestMatchInput contains parameters for the BestMatch operation.
type BestMatchInput struct {
	SeekerEID string
}

// BestMatchOutput contains the result of the BestMatch operation.
type BestMatchOutput struct {
	SeekerEID    string     `json:"seeker_eid"`
	SeekerEmail  string     `json:"seeker_email,omitempty"`
	Partner      MatchEntry `json:"partner"`
	PartnerTotal int        `json:"candidates_considered"`
}

// BestMatch returns the single highest-scoring partner for the seeker.
// NOT_FOUND when the seeker is unknown; NO_MATCH when the roster holds no
// other student to rank.
func BestMatch(database *sql.DB, input BestMatchInput) (*BestMatchOutput, error) {
	seekerEID := strings.TrimSpace(input.SeekerEID)
	if seekerEID == "" {
		return nil, errors.NewInvalidRequest("seeker eid is required")
	}

	ranking, matcher, err := rank(database, seekerEID)
	if err != nil {
		return nil, err
	}

	total := ranking.Len()
	best, ok := ranking.Next()
	if !ok {
		return nil, errors.NewNoMatch(seekerEID)
	}

	return &BestMatchOutput{
		SeekerEID:    seekerEID,
		SeekerEmail:  matcher.Get(seekerEID).Email,
		Partner:      toEntry(best),
		PartnerTotal: total,
	}, nil
}

// rank loads all students and computes the seeker's ranking.
func rank(database *sql.DB, seekerEID string) (*match.Ranking, *match.Matcher, error) {
	records, err := db.LoadAll(database)
	if err != nil {
		return nil, nil, err
	}
	matcher := match.NewMatcher(records)
	ranking, err := matcher.FindMatches(seekerEID)
	if err != nil {
		return nil, nil, err
	}
	return ranking, matcher, nil
}

func toEntry(m match.Match) MatchEntry {
	return MatchEntry{
		EID:                m.Student.EID,
		Name:               m.Student.Name,
		Email:              m.Student.Email,
		Score:              m.Score,
		SharedCourses:      m.SharedCourses,
		SharedAvailability: m.SharedAvailability,
	}
}
