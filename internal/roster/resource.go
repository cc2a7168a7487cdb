package roster

import (
	"crypto/rand"
	"database/sql"
	"strings"
	"time"

	"github.com/oklog/ulid/v2"

	"github.com/hpungsan/studymatch/internal/db"
	"github.com/hpungsan/studymatch/internal/errors"
)

// AddResourceInput contains parameters for the AddResource operation.
type AddResourceInput struct {
	EID  string
	Text string
}

// AddResourceOutput contains the result of the AddResource operation.
// Added is false when the text was empty after trimming (the documented
// silent no-op), in which case ID is empty.
type AddResourceOutput struct {
	Added bool   `json:"added"`
	ID    string `json:"id,omitempty"`
	EID   string `json:"eid"`
}

// AddResource appends trimmed text to a student's resource list. Unknown EID
// fails with NOT_FOUND; empty or whitespace-only text is a no-op, not an error.
func AddResource(database *sql.DB, input AddResourceInput) (*AddResourceOutput, error) {
	eid := strings.TrimSpace(input.EID)
	if eid == "" {
		return nil, errors.NewInvalidRequest("eid is required")
	}

	exists, err := db.StudentExists(database, eid)
	if err != nil {
		return nil, err
	}
	if !exists {
		return nil, errors.NewNotFound(eid)
	}

	text := strings.TrimSpace(input.Text)
	if text == "" {
		return &AddResourceOutput{Added: false, EID: eid}, nil
	}

	id, err := generateULID()
	if err != nil {
		return nil, errors.NewInternal(err)
	}

	if err := db.InsertResource(database, id, eid, text, time.Now().Unix()); err != nil {
		return nil, err
	}

	return &AddResourceOutput{Added: true, ID: id, EID: eid}, nil
}

// ResourcesInput contains parameters for the Resources operation.
type ResourcesInput struct {
	EID string
}

// ResourcesOutput contains the result of the Resources operation.
type ResourcesOutput struct {
	EID       string   `json:"eid"`
	Resources []string `json:"resources"`
}

// Resources returns a student's resource list in insertion order. An unknown
// EID yields an empty list rather than an error.
func Resources(database *sql.DB, input ResourcesInput) (*ResourcesOutput, error) {
	eid := strings.TrimSpace(input.EID)
	if eid == "" {
		return nil, errors.NewInvalidRequest("eid is required")
	}

	resources, err := db.ResourcesByEID(database, eid)
	if err != nil {
		return nil, err
	}

	return &ResourcesOutput{EID: eid, Resources: resources}, nil
}

// generateULID generates a new ULID.
func generateULID() (string, error) {
	entropy := ulid.Monotonic(rand.Reader, 0)
	id, err := ulid.New(ulid.Timestamp(time.Now()), entropy)
	if err != nil {
		return "", err
	}
	return id.String(), nil
}
