package repository

import (
	"context"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/campusworks/college-portal/internal/domain"
)

// AttendanceRepository persists attendance sheets.
type AttendanceRepository interface {
	UpsertMany(ctx context.Context, courseID int64, date time.Time, marks []domain.AttendanceMark) error
	ListForStudent(ctx context.Context, studentID, courseID int64) ([]*domain.Attendance, error)
}

type attendanceRepository struct {
	pool *pgxpool.Pool
}

// NewAttendanceRepository constructs repository.
func NewAttendanceRepository(pool *pgxpool.Pool) AttendanceRepository {
	return &attendanceRepository{pool: pool}
}

// UpsertMany writes the whole sheet in one transaction; a later submission
// for the same (course, student, date) overwrites the status.
func (r *attendanceRepository) UpsertMany(ctx context.Context, courseID int64, date time.Time, marks []domain.AttendanceMark) error {
	const query = `
        INSERT INTO attendance (course_id, student_id, date, status)
        VALUES ($1, $2, $3, $4)
        ON CONFLICT (course_id, student_id, date) DO UPDATE SET status = EXCLUDED.status`

	tx, err := r.pool.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return err
	}
	defer tx.Rollback(ctx) //nolint:errcheck

	for _, mark := range marks {
		if _, err := tx.Exec(ctx, query, courseID, mark.StudentID, date, mark.Status); err != nil {
			return translate(err)
		}
	}
	return tx.Commit(ctx)
}

func (r *attendanceRepository) ListForStudent(ctx context.Context, studentID, courseID int64) ([]*domain.Attendance, error) {
	const query = `
        SELECT id, course_id, student_id, date, status
        FROM attendance
        WHERE student_id=$1 AND course_id=$2
        ORDER BY date DESC`

	rows, err := r.pool.Query(ctx, query, studentID, courseID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var records []*domain.Attendance
	for rows.Next() {
		var rec domain.Attendance
		if err := rows.Scan(&rec.ID, &rec.CourseID, &rec.StudentID, &rec.Date, &rec.Status); err != nil {
			return nil, err
		}
		records = append(records, &rec)
	}
	return records, rows.Err()
}
