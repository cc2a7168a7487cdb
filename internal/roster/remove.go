package roster

import (
	"database/sql"
	"strings"

	"github.com/hpungsan/studymatch/internal/db"
	"github.com/hpungsan/studymatch/internal/errors"
)

// RemoveInput contains parameters for the Remove operation.
type RemoveInput struct {
	EID string
}

// RemoveOutput contains the result of the Remove operation.
type RemoveOutput struct {
	Removed bool   `json:"removed"`
	EID     string `json:"eid"`
}

// Remove deletes a student and, via the schema's cascade, their resources.
func Remove(database *sql.DB, input RemoveInput) (*RemoveOutput, error) {
	eid := strings.TrimSpace(input.EID)
	if eid == "" {
		return nil, errors.NewInvalidRequest("eid is required")
	}

	if err := db.DeleteStudent(database, eid); err != nil {
		return nil, err
	}

	return &RemoveOutput{Removed: true, EID: eid}, nil
}
