package repository

import (
	"context"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/campusworks/college-portal/internal/domain"
)

// GradeRepository persists assignment grades.
type GradeRepository interface {
	Upsert(ctx context.Context, grade *domain.Grade) error
	ListForStudent(ctx context.Context, studentID int64) ([]*domain.Grade, error)
}

type gradeRepository struct {
	pool *pgxpool.Pool
}

// NewGradeRepository constructs repository.
func NewGradeRepository(pool *pgxpool.Pool) GradeRepository {
	return &gradeRepository{pool: pool}
}

func (r *gradeRepository) Upsert(ctx context.Context, grade *domain.Grade) error {
	const query = `
        INSERT INTO grades (course_id, student_id, assignment_name, score, comments)
        VALUES ($1, $2, $3, $4, $5)
        ON CONFLICT (course_id, student_id, assignment_name)
        DO UPDATE SET score = EXCLUDED.score, comments = EXCLUDED.comments
        RETURNING id`

	err := r.pool.QueryRow(ctx, query,
		grade.CourseID,
		grade.StudentID,
		grade.AssignmentName,
		grade.Score,
		grade.Comments,
	).Scan(&grade.ID)
	return translate(err)
}

func (r *gradeRepository) ListForStudent(ctx context.Context, studentID int64) ([]*domain.Grade, error) {
	const query = `
        SELECT id, course_id, student_id, assignment_name, score, comments
        FROM grades WHERE student_id=$1
        ORDER BY course_id, assignment_name`

	rows, err := r.pool.Query(ctx, query, studentID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var grades []*domain.Grade
	for rows.Next() {
		var g domain.Grade
		if err := rows.Scan(&g.ID, &g.CourseID, &g.StudentID, &g.AssignmentName, &g.Score, &g.Comments); err != nil {
			return nil, err
		}
		grades = append(grades, &g)
	}
	return grades, rows.Err()
}
