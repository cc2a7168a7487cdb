package roster

import (
	"database/sql"
	"strings"

	"github.com/hpungsan/studymatch/internal/db"
	"github.com/hpungsan/studymatch/internal/errors"
)

// FetchInput contains parameters for the Fetch operation.
type FetchInput struct {
	EID string
}

// FetchOutput contains the result of the Fetch operation.
type FetchOutput struct {
	StudentView
	Resources []string `json:"resources"`
}

// Fetch retrieves one student with their resource list.
func Fetch(database *sql.DB, input FetchInput) (*FetchOutput, error) {
	eid := strings.TrimSpace(input.EID)
	if eid == "" {
		return nil, errors.NewInvalidRequest("eid is required")
	}

	s, err := db.GetStudent(database, eid)
	if err != nil {
		return nil, err
	}

	resources, err := db.ResourcesByEID(database, eid)
	if err != nil {
		return nil, err
	}

	return &FetchOutput{
		StudentView: viewOf(s),
		Resources:   resources,
	}, nil
}
