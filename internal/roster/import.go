package roster

import (
	"database/sql"
	"encoding/csv"
	"fmt"
	"io"
	"strconv"
	"strings"
	"time"

	"github.com/hpungsan/studymatch/internal/config"
	"github.com/hpungsan/studymatch/internal/db"
	"github.com/hpungsan/studymatch/internal/errors"
	"github.com/hpungsan/studymatch/internal/student"
)

// ImportMode controls collision behavior during import.
type ImportMode string

const (
	ImportModeError   ImportMode = "error"   // fail on collision (atomic)
	ImportModeReplace ImportMode = "replace" // overwrite on collision
	ImportModeSkip    ImportMode = "skip"    // keep existing, count skipped
)

// ImportInput contains parameters for the Import operation.
type ImportInput struct {
	Path string     // required, CSV roster file
	Mode ImportMode // default: error
}

// ImportOutput contains the result of the Import operation.
type ImportOutput struct {
	Imported int           `json:"imported"`
	Skipped  int           `json:"skipped"`
	Errors   []ImportError `json:"errors"`
}

// ImportError represents an error that occurred during import.
type ImportError struct {
	Line    int    `json:"line"`
	EID     string `json:"eid,omitempty"`
	Code    string `json:"code"`
	Message string `json:"message"`
}

// Import loads students from a CSV roster file. Expected header columns:
// ut_eid, name, courses, confidence_level, availability, email, topics_need,
// study_life, work_hours. Only ut_eid and name are required per row;
// confidence_level and work_hours fall back to their defaults when missing or
// unparsable.
func Import(database *sql.DB, cfg *config.Config, input ImportInput) (*ImportOutput, error) {
	if input.Path == "" {
		return nil, errors.NewInvalidRequest("path is required")
	}
	if input.Mode == "" {
		input.Mode = ImportModeError
	}
	if input.Mode != ImportModeError && input.Mode != ImportModeReplace && input.Mode != ImportModeSkip {
		return nil, errors.NewInvalidRequest("mode must be one of: error, replace, skip")
	}

	if err := ValidatePath(input.Path, PathCheckRead, cfg); err != nil {
		return nil, err
	}

	file, err := openFileNoFollowRead(input.Path)
	if err != nil {
		if _, ok := err.(*errors.MatchError); ok {
			return nil, err
		}
		return nil, errors.NewInternal(fmt.Errorf("failed to open roster file: %w", err))
	}
	defer file.Close()

	records, parseErrors, err := parseRosterCSV(file)
	if err != nil {
		return nil, err
	}

	// For mode:error, any parse error fails the whole import.
	if input.Mode == ImportModeError && len(parseErrors) > 0 {
		return &ImportOutput{Errors: parseErrors}, nil
	}

	// Enforce the roster cap before writing anything.
	if cfg != nil && cfg.RosterMaxStudents > 0 {
		existing, err := db.CountStudents(database)
		if err != nil {
			return nil, err
		}
		if existing+len(records) > cfg.RosterMaxStudents {
			return nil, errors.NewRosterTooLarge(cfg.RosterMaxStudents, existing+len(records))
		}
	}

	switch input.Mode {
	case ImportModeError:
		return importModeError(database, records)
	case ImportModeReplace:
		return importModeReplace(database, records, parseErrors)
	default:
		return importModeSkip(database, records, parseErrors)
	}
}

// rosterRecord is one parsed CSV row plus its source line for error reporting.
type rosterRecord struct {
	line    int
	student *student.Student
}

// parseRosterCSV reads the header and rows, building student records with the
// documented field defaults. Rows missing ut_eid or name become per-line
// errors rather than aborting the parse.
func parseRosterCSV(r io.Reader) ([]rosterRecord, []ImportError, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1 // ragged rows reported per-line below

	header, err := reader.Read()
	if err == io.EOF {
		return nil, nil, errors.NewInvalidRequest("roster file is empty")
	}
	if err != nil {
		return nil, nil, errors.NewInvalidRequest(fmt.Sprintf("invalid CSV header: %v", err))
	}

	col := make(map[string]int, len(header))
	for i, name := range header {
		col[strings.TrimSpace(strings.ToLower(name))] = i
	}
	if _, ok := col["ut_eid"]; !ok {
		return nil, nil, errors.NewInvalidRequest("roster header missing required column: ut_eid")
	}
	if _, ok := col["name"]; !ok {
		return nil, nil, errors.NewInvalidRequest("roster header missing required column: name")
	}

	field := func(row []string, name string) string {
		i, ok := col[name]
		if !ok || i >= len(row) {
			return ""
		}
		return strings.TrimSpace(row[i])
	}

	var records []rosterRecord
	var parseErrors []ImportError
	seen := make(map[string]int) // eid -> first line, catches in-file duplicates

	line := 1 // header consumed
	for {
		row, err := reader.Read()
		if err == io.EOF {
			break
		}
		line++
		if err != nil {
			parseErrors = append(parseErrors, ImportError{
				Line:    line,
				Code:    "PARSE_ERROR",
				Message: fmt.Sprintf("invalid CSV row: %v", err),
			})
			continue
		}

		eid := field(row, "ut_eid")
		name := field(row, "name")
		if eid == "" || name == "" {
			parseErrors = append(parseErrors, ImportError{
				Line:    line,
				EID:     eid,
				Code:    "MISSING_FIELD",
				Message: "ut_eid and name are required",
			})
			continue
		}
		if first, dup := seen[eid]; dup {
			parseErrors = append(parseErrors, ImportError{
				Line:    line,
				EID:     eid,
				Code:    "DUPLICATE_EID",
				Message: fmt.Sprintf("eid already appears on line %d", first),
			})
			continue
		}
		seen[eid] = line

		confidence := parseIntDefault(field(row, "confidence_level"), student.DefaultConfidence)
		workHours := parseIntDefault(field(row, "work_hours"), student.DefaultWorkHours)

		s := student.New(eid, name,
			student.SplitList(field(row, "courses"), courseSep),
			confidence,
			student.SplitList(field(row, "availability"), availabilitySep),
			field(row, "email"),
			student.SplitList(field(row, "topics_need"), topicSep),
			field(row, "study_life"),
			workHours,
		)
		records = append(records, rosterRecord{line: line, student: s})
	}

	return records, parseErrors, nil
}

// parseIntDefault parses s, substituting def when s is empty or unparsable.
func parseIntDefault(s string, def int) int {
	if s == "" {
		return def
	}
	n, err := strconv.Atoi(s)
	if err != nil {
		return def
	}
	return n
}

// importModeError inserts everything inside one transaction; the first
// collision with a stored student aborts with nothing imported.
func importModeError(database *sql.DB, records []rosterRecord) (*ImportOutput, error) {
	tx, err := database.Begin()
	if err != nil {
		return nil, errors.NewInternal(err)
	}
	defer tx.Rollback() //nolint:errcheck

	now := time.Now().Unix()
	imported := 0
	for _, rec := range records {
		if err := db.InsertStudentTx(tx, rec.student, now); err != nil {
			if err == db.ErrUniqueConstraint {
				return &ImportOutput{
					Errors: []ImportError{{
						Line:    rec.line,
						EID:     rec.student.EID,
						Code:    "EID_COLLISION",
						Message: fmt.Sprintf("student with eid %q already exists", rec.student.EID),
					}},
				}, nil
			}
			return nil, err
		}
		imported++
	}

	if err := tx.Commit(); err != nil {
		return nil, errors.NewInternal(err)
	}
	return &ImportOutput{Imported: imported}, nil
}

// importModeReplace upserts every record; collisions overwrite.
func importModeReplace(database *sql.DB, records []rosterRecord, parseErrors []ImportError) (*ImportOutput, error) {
	now := time.Now().Unix()
	imported := 0
	for _, rec := range records {
		if err := db.UpsertStudent(database, rec.student, now); err != nil {
			return nil, err
		}
		imported++
	}
	return &ImportOutput{Imported: imported, Errors: parseErrors}, nil
}

// importModeSkip inserts new records and leaves existing ones untouched.
func importModeSkip(database *sql.DB, records []rosterRecord, parseErrors []ImportError) (*ImportOutput, error) {
	now := time.Now().Unix()
	imported, skipped := 0, 0
	for _, rec := range records {
		err := db.InsertStudent(database, rec.student, now)
		if err == db.ErrUniqueConstraint {
			skipped++
			continue
		}
		if err != nil {
			return nil, err
		}
		imported++
	}
	return &ImportOutput{Imported: imported, Skipped: skipped, Errors: parseErrors}, nil
}
