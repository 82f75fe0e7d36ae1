package repositories

import (
	"context"
	"errors"
	"fmt"

	"github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5"

	"github.com/yigit/coursehub/internal/app/models"
	"github.com/yigit/coursehub/internal/pkg/logger"
)

// courseColumns qualifies the course columns with alias.
func courseColumns(alias string) []string {
	cols := []string{"id", "title", "description", "instructor", "image", "created_at"}
	if alias == "" {
		return cols
	}
	for i, c := range cols {
		cols[i] = alias + "." + c
	}
	return cols
}

func scanCourse(row pgx.Row) (*models.Course, error) {
	c := &models.Course{}
	if err := row.Scan(&c.ID, &c.Title, &c.Description, &c.Instructor, &c.Image, &c.CreatedAt); err != nil {
		return nil, err
	}
	return c, nil
}

func queryCourses(ctx context.Context, db DBTX, q squirrel.SelectBuilder) ([]*models.Course, error) {
	sql, args, err := q.ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build course list query: %w", err)
	}

	rows, err := db.Query(ctx, sql, args...)
	if err != nil {
		return nil, fmt.Errorf("error querying courses: %w", err)
	}
	defer rows.Close()

	courses := []*models.Course{}
	for rows.Next() {
		c, err := scanCourse(rows)
		if err != nil {
			return nil, fmt.Errorf("error scanning course row: %w", err)
		}
		courses = append(courses, c)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating course rows: %w", err)
	}
	return courses, nil
}

// PgCourseRepository handles course database operations
type PgCourseRepository struct {
	db DBTX
}

// NewCourseRepository creates a new PgCourseRepository
func NewCourseRepository(db DBTX) *PgCourseRepository {
	return &PgCourseRepository{db: db}
}

// Create inserts course and fills in its ID and CreatedAt.
func (r *PgCourseRepository) Create(ctx context.Context, course *models.Course) error {
	sql, args, err := psql.Insert("courses").
		Columns("title", "description", "instructor", "image").
		Values(course.Title, course.Description, course.Instructor, course.Image).
		Suffix("RETURNING id, created_at").
		ToSql()
	if err != nil {
		return fmt.Errorf("failed to build create course query: %w", err)
	}

	if err := r.db.QueryRow(ctx, sql, args...).Scan(&course.ID, &course.CreatedAt); err != nil {
		logger.Error().Err(err).Str("instructor", course.Instructor).Msg("Error creating course")
		return wrapWriteError("creating course", err)
	}
	return nil
}

// GetByID returns the course or (nil, nil).
func (r *PgCourseRepository) GetByID(ctx context.Context, id int64) (*models.Course, error) {
	sql, args, err := psql.Select(courseColumns("")...).From("courses").Where(squirrel.Eq{"id": id}).Limit(1).ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build get course query: %w", err)
	}

	c, err := scanCourse(r.db.QueryRow(ctx, sql, args...))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("error getting course by ID: %w", err)
	}
	return c, nil
}

// ListByInstructor returns the instructor's courses, newest first.
func (r *PgCourseRepository) ListByInstructor(ctx context.Context, instructor string) ([]*models.Course, error) {
	return queryCourses(ctx, r.db, psql.Select(courseColumns("")...).
		From("courses").
		Where(squirrel.Eq{"instructor": instructor}).
		OrderBy("id DESC"))
}

// Delete removes the course row. Materials and enrollments must be gone first.
func (r *PgCourseRepository) Delete(ctx context.Context, id int64) error {
	sql, args, err := psql.Delete("courses").Where(squirrel.Eq{"id": id}).ToSql()
	if err != nil {
		return fmt.Errorf("failed to build delete course query: %w", err)
	}
	if _, err := r.db.Exec(ctx, sql, args...); err != nil {
		return wrapWriteError("deleting course", err)
	}
	return nil
}
