package attendance

import (
	"context"
	"database/sql"
	"fmt"

	"classtrack/internal/roster"
)

// PostgresSink persists records in Postgres via database/sql and the pgx
// driver.
type PostgresSink struct {
	db *sql.DB
}

// NewPostgresSink wraps an open connection and ensures the schema exists.
func NewPostgresSink(ctx context.Context, db *sql.DB) (*PostgresSink, error) {
	s := &PostgresSink{db: db}
	if err := s.migrate(ctx); err != nil {
		return nil, fmt.Errorf("migrate: %w", err)
	}
	return s, nil
}

func (s *PostgresSink) migrate(ctx context.Context) error {
	schema := `
	CREATE TABLE IF NOT EXISTS attendance_records (
		id            TEXT PRIMARY KEY,
		student_id    TEXT NOT NULL,
		subject_id    TEXT NOT NULL,
		subject_type  TEXT NOT NULL,
		class_id      TEXT NOT NULL,
		division_id   TEXT NOT NULL,
		slot_id       TEXT NOT NULL,
		session_key   TEXT NOT NULL,
		date          TEXT NOT NULL,
		period        TEXT NOT NULL,
		status        TEXT NOT NULL,
		remarks       TEXT NOT NULL DEFAULT '',
		marked_by     TEXT NOT NULL,
		marked_at     TIMESTAMPTZ NOT NULL,
		UNIQUE (session_key, student_id)
	);

	CREATE INDEX IF NOT EXISTS idx_attendance_records_student ON attendance_records(student_id);
	CREATE INDEX IF NOT EXISTS idx_attendance_records_session ON attendance_records(session_key);
	`
	_, err := s.db.ExecContext(ctx, schema)
	return err
}

// Submit writes the batch in one transaction.
func (s *PostgresSink) Submit(ctx context.Context, records []Record) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	for _, r := range records {
		if _, err := tx.ExecContext(ctx, `
			INSERT INTO attendance_records
				(id, student_id, subject_id, subject_type, class_id, division_id,
				 slot_id, session_key, date, period, status, remarks, marked_by, marked_at)
			VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12,$13,$14)
		`, r.ID, r.StudentID, r.SubjectID, string(r.SubjectType), r.ClassID, r.DivisionID,
			r.SlotID, r.SessionKey, r.Date, r.Period, string(r.Status), r.Remarks, r.MarkedBy, r.MarkedAt); err != nil {
			return err
		}
	}
	return tx.Commit()
}

// ListForStudent returns a student's records, newest first. An empty
// subjectID matches every subject.
func (s *PostgresSink) ListForStudent(ctx context.Context, studentID, subjectID string) ([]Record, error) {
	query := `
		SELECT id, student_id, subject_id, subject_type, class_id, division_id,
		       slot_id, session_key, date, period, status, remarks, marked_by, marked_at
		FROM attendance_records
		WHERE student_id = $1`
	args := []any{studentID}
	if subjectID != "" {
		query += ` AND subject_id = $2`
		args = append(args, subjectID)
	}
	query += ` ORDER BY marked_at DESC`

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanRecords(rows)
}

// ListForSession returns the records submitted under one session key.
func (s *PostgresSink) ListForSession(ctx context.Context, sessionKey string) ([]Record, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, student_id, subject_id, subject_type, class_id, division_id,
		       slot_id, session_key, date, period, status, remarks, marked_by, marked_at
		FROM attendance_records
		WHERE session_key = $1
		ORDER BY marked_at
	`, sessionKey)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanRecords(rows)
}

func scanRecords(rows *sql.Rows) ([]Record, error) {
	var out []Record
	for rows.Next() {
		var r Record
		var subjectType, status string
		if err := rows.Scan(&r.ID, &r.StudentID, &r.SubjectID, &subjectType, &r.ClassID, &r.DivisionID,
			&r.SlotID, &r.SessionKey, &r.Date, &r.Period, &status, &r.Remarks, &r.MarkedBy, &r.MarkedAt); err != nil {
			return nil, err
		}
		r.SubjectType = roster.SubjectType(subjectType)
		r.Status = Status(status)
		out = append(out, r)
	}
	return out, rows.Err()
}
