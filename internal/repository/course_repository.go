package repository

import (
	"context"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/campusworks/college-portal/internal/domain"
)

// CourseRepository manages the course catalogue.
type CourseRepository interface {
	Create(ctx context.Context, course *domain.Course) error
	GetByID(ctx context.Context, id int64) (*domain.Course, error)
	List(ctx context.Context) ([]*domain.Course, error)
	Update(ctx context.Context, course *domain.Course) error
	Delete(ctx context.Context, id int64) error
}

type courseRepository struct {
	pool *pgxpool.Pool
}

// NewCourseRepository constructs repository.
func NewCourseRepository(pool *pgxpool.Pool) CourseRepository {
	return &courseRepository{pool: pool}
}

func (r *courseRepository) Create(ctx context.Context, course *domain.Course) error {
	const query = `
        INSERT INTO courses (name, code, description)
        VALUES ($1, $2, $3)
        RETURNING id`
	err := r.pool.QueryRow(ctx, query, course.Name, course.Code, course.Description).Scan(&course.ID)
	return translate(err)
}

func (r *courseRepository) GetByID(ctx context.Context, id int64) (*domain.Course, error) {
	const query = `SELECT id, name, code, description FROM courses WHERE id=$1`
	return scanCourse(r.pool.QueryRow(ctx, query, id))
}

func (r *courseRepository) List(ctx context.Context) ([]*domain.Course, error) {
	const query = `SELECT id, name, code, description FROM courses ORDER BY id`
	rows, err := r.pool.Query(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var courses []*domain.Course
	for rows.Next() {
		course, err := scanCourse(rows)
		if err != nil {
			return nil, err
		}
		courses = append(courses, course)
	}
	return courses, rows.Err()
}

func (r *courseRepository) Update(ctx context.Context, course *domain.Course) error {
	const query = `
        UPDATE courses SET name=$1, code=$2, description=$3
        WHERE id=$4`
	cmd, err := r.pool.Exec(ctx, query, course.Name, course.Code, course.Description, course.ID)
	if err != nil {
		return translate(err)
	}
	if cmd.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *courseRepository) Delete(ctx context.Context, id int64) error {
	cmd, err := r.pool.Exec(ctx, `DELETE FROM courses WHERE id=$1`, id)
	if err != nil {
		return translate(err)
	}
	if cmd.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func scanCourse(row pgx.Row) (*domain.Course, error) {
	var course domain.Course
	if err := row.Scan(&course.ID, &course.Name, &course.Code, &course.Description); err != nil {
		return nil, translate(err)
	}
	return &course, nil
}
