package db

import (
	"database/sql"
	"encoding/json"
	"strings"

	"github.com/hpungsan/studymatch/internal/errors"
	"github.com/hpungsan/studymatch/internal/student"
)

// ErrUniqueConstraint is returned when an insert violates a UNIQUE constraint.
var ErrUniqueConstraint = &errors.MatchError{
	Code:    "UNIQUE_CONSTRAINT",
	Status:  409,
	Message: "unique constraint violation",
}

// execer abstracts *sql.DB and *sql.Tx for statements shared between
// standalone and transactional paths.
type execer interface {
	Exec(query string, args ...any) (sql.Result, error)
}

const studentColumns = `eid, name, courses_json, confidence, availability_json,
	email, topics_json, study_style, work_hours, created_at, updated_at`

// InsertStudent stores a new student. Fails with ErrUniqueConstraint when the
// EID is already present.
func InsertStudent(db *sql.DB, s *student.Student, now int64) error {
	return insertStudent(db, s, now)
}

// InsertStudentTx is InsertStudent inside an open transaction.
func InsertStudentTx(tx *sql.Tx, s *student.Student, now int64) error {
	return insertStudent(tx, s, now)
}

func insertStudent(e execer, s *student.Student, now int64) error {
	coursesJSON, err := setToJSON(s.Courses)
	if err != nil {
		return errors.NewInternal(err)
	}
	availabilityJSON, err := setToJSON(s.Availability)
	if err != nil {
		return errors.NewInternal(err)
	}
	topicsJSON, err := setToJSON(s.TopicsNeed)
	if err != nil {
		return errors.NewInternal(err)
	}

	query := `
		INSERT INTO students (` + studentColumns + `)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`
	_, err = e.Exec(query,
		s.EID, s.Name, coursesJSON, s.Confidence, availabilityJSON,
		s.Email, topicsJSON, s.StudyStyle, s.WorkHours, now, now,
	)
	if err != nil {
		if isUniqueConstraintError(err) {
			return ErrUniqueConstraint
		}
		return errors.NewInternal(err)
	}
	return nil
}

// UpsertStudent inserts a student or replaces the existing record with the
// same EID, preserving the original created_at.
func UpsertStudent(db *sql.DB, s *student.Student, now int64) error {
	return upsertStudent(db, s, now)
}

// UpsertStudentTx is UpsertStudent inside an open transaction.
func UpsertStudentTx(tx *sql.Tx, s *student.Student, now int64) error {
	return upsertStudent(tx, s, now)
}

func upsertStudent(e execer, s *student.Student, now int64) error {
	coursesJSON, err := setToJSON(s.Courses)
	if err != nil {
		return errors.NewInternal(err)
	}
	availabilityJSON, err := setToJSON(s.Availability)
	if err != nil {
		return errors.NewInternal(err)
	}
	topicsJSON, err := setToJSON(s.TopicsNeed)
	if err != nil {
		return errors.NewInternal(err)
	}

	query := `
		INSERT INTO students (` + studentColumns + `)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(eid) DO UPDATE SET
			name = excluded.name,
			courses_json = excluded.courses_json,
			confidence = excluded.confidence,
			availability_json = excluded.availability_json,
			email = excluded.email,
			topics_json = excluded.topics_json,
			study_style = excluded.study_style,
			work_hours = excluded.work_hours,
			updated_at = excluded.updated_at
	`
	if _, err := e.Exec(query,
		s.EID, s.Name, coursesJSON, s.Confidence, availabilityJSON,
		s.Email, topicsJSON, s.StudyStyle, s.WorkHours, now, now,
	); err != nil {
		return errors.NewInternal(err)
	}
	return nil
}

// GetStudent retrieves a student by EID, without resources.
func GetStudent(db *sql.DB, eid string) (*student.Student, error) {
	query := `SELECT ` + studentColumns + ` FROM students WHERE eid = ?`
	s, _, err := scanStudent(db.QueryRow(query, eid))
	if err == sql.ErrNoRows {
		return nil, errors.NewNotFound(eid)
	}
	if err != nil {
		return nil, errors.NewInternal(err)
	}
	return s, nil
}

// StudentExists reports whether a student with the given EID is stored.
func StudentExists(db *sql.DB, eid string) (bool, error) {
	var one int
	err := db.QueryRow(`SELECT 1 FROM students WHERE eid = ?`, eid).Scan(&one)
	if err == sql.ErrNoRows {
		return false, nil
	}
	if err != nil {
		return false, errors.NewInternal(err)
	}
	return true, nil
}

// CountStudents returns the number of stored students.
func CountStudents(db *sql.DB) (int, error) {
	var n int
	if err := db.QueryRow(`SELECT COUNT(*) FROM students`).Scan(&n); err != nil {
		return 0, errors.NewInternal(err)
	}
	return n, nil
}

// ListStudents returns paginated summaries ordered by EID, plus the total count.
func ListStudents(db *sql.DB, limit, offset int) ([]student.Summary, int, error) {
	total, err := CountStudents(db)
	if err != nil {
		return nil, 0, err
	}

	query := `
		SELECT eid, name, courses_json, confidence, study_style, work_hours, updated_at
		FROM students
		ORDER BY eid
		LIMIT ? OFFSET ?
	`
	rows, err := db.Query(query, limit, offset)
	if err != nil {
		return nil, 0, errors.NewInternal(err)
	}
	defer rows.Close()

	var summaries []student.Summary
	for rows.Next() {
		var s student.Summary
		var coursesJSON sql.NullString
		if err := rows.Scan(&s.EID, &s.Name, &coursesJSON, &s.Confidence,
			&s.StudyStyle, &s.WorkHours, &s.UpdatedAt); err != nil {
			return nil, 0, errors.NewInternal(err)
		}
		courses, err := jsonToSet(coursesJSON)
		if err != nil {
			return nil, 0, errors.NewInternal(err)
		}
		s.Courses = courses.Sorted()
		summaries = append(summaries, s)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, errors.NewInternal(err)
	}

	return summaries, total, nil
}

// DeleteStudent removes a student. Their resources cascade via the foreign key.
func DeleteStudent(db *sql.DB, eid string) error {
	result, err := db.Exec(`DELETE FROM students WHERE eid = ?`, eid)
	if err != nil {
		return errors.NewInternal(err)
	}
	n, err := result.RowsAffected()
	if err != nil {
		return errors.NewInternal(err)
	}
	if n == 0 {
		return errors.NewNotFound(eid)
	}
	return nil
}

// LoadAll loads the full roster keyed by EID, resources included, ready for
// the matcher.
func LoadAll(db *sql.DB) (map[string]*student.Student, error) {
	query := `SELECT ` + studentColumns + ` FROM students`
	rows, err := db.Query(query)
	if err != nil {
		return nil, errors.NewInternal(err)
	}
	defer rows.Close()

	records := make(map[string]*student.Student)
	for rows.Next() {
		s, _, err := scanStudent(rows)
		if err != nil {
			return nil, errors.NewInternal(err)
		}
		records[s.EID] = s
	}
	if err := rows.Err(); err != nil {
		return nil, errors.NewInternal(err)
	}

	// Attach resources in insertion order.
	resRows, err := db.Query(`SELECT eid, text FROM resources ORDER BY created_at, id`)
	if err != nil {
		return nil, errors.NewInternal(err)
	}
	defer resRows.Close()

	for resRows.Next() {
		var eid, text string
		if err := resRows.Scan(&eid, &text); err != nil {
			return nil, errors.NewInternal(err)
		}
		if s, ok := records[eid]; ok {
			s.Resources = append(s.Resources, text)
		}
	}
	if err := resRows.Err(); err != nil {
		return nil, errors.NewInternal(err)
	}

	return records, nil
}

// InsertResource appends a resource row for a student.
func InsertResource(db *sql.DB, id, eid, text string, now int64) error {
	_, err := db.Exec(
		`INSERT INTO resources (id, eid, text, created_at) VALUES (?, ?, ?, ?)`,
		id, eid, text, now,
	)
	if err != nil {
		return errors.NewInternal(err)
	}
	return nil
}

// ResourcesByEID returns a student's resources in insertion order. An unknown
// EID yields an empty slice, not an error.
func ResourcesByEID(db *sql.DB, eid string) ([]string, error) {
	rows, err := db.Query(
		`SELECT text FROM resources WHERE eid = ? ORDER BY created_at, id`, eid)
	if err != nil {
		return nil, errors.NewInternal(err)
	}
	defer rows.Close()

	resources := []string{}
	for rows.Next() {
		var text string
		if err := rows.Scan(&text); err != nil {
			return nil, errors.NewInternal(err)
		}
		resources = append(resources, text)
	}
	if err := rows.Err(); err != nil {
		return nil, errors.NewInternal(err)
	}
	return resources, nil
}

// scanner matches both *sql.Row and *sql.Rows.
type scanner interface {
	Scan(dest ...any) error
}

// scanStudent reads one student row. Returns the updated_at timestamp
// alongside the record for callers that need it.
func scanStudent(row scanner) (*student.Student, int64, error) {
	var (
		s                student.Student
		coursesJSON      sql.NullString
		availabilityJSON sql.NullString
		topicsJSON       sql.NullString
		created, updated int64
	)
	if err := row.Scan(&s.EID, &s.Name, &coursesJSON, &s.Confidence,
		&availabilityJSON, &s.Email, &topicsJSON, &s.StudyStyle,
		&s.WorkHours, &created, &updated); err != nil {
		return nil, 0, err
	}

	var err error
	if s.Courses, err = jsonToSet(coursesJSON); err != nil {
		return nil, 0, err
	}
	if s.Availability, err = jsonToSet(availabilityJSON); err != nil {
		return nil, 0, err
	}
	if s.TopicsNeed, err = jsonToSet(topicsJSON); err != nil {
		return nil, 0, err
	}

	return &s, updated, nil
}

// setToJSON serializes a set as a sorted JSON array; empty sets become NULL.
func setToJSON(s student.Set) (sql.NullString, error) {
	if s.Len() == 0 {
		return sql.NullString{}, nil
	}
	data, err := json.Marshal(s.Sorted())
	if err != nil {
		return sql.NullString{}, err
	}
	return sql.NullString{String: string(data), Valid: true}, nil
}

// jsonToSet deserializes a JSON array column into a set; NULL becomes empty.
func jsonToSet(ns sql.NullString) (student.Set, error) {
	if !ns.Valid {
		return student.NewSet(nil), nil
	}
	var items []string
	if err := json.Unmarshal([]byte(ns.String), &items); err != nil {
		return nil, err
	}
	return student.NewSet(items), nil
}

// isUniqueConstraintError checks if the error is a SQLite UNIQUE constraint violation.
func isUniqueConstraintError(err error) bool {
	if err == nil {
		return false
	}
	// SQLite returns "UNIQUE constraint failed: ..." for unique violations
	return strings.Contains(err.Error(), "UNIQUE constraint failed")
}
