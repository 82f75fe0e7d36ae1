package repositories

import (
	"context"
	"fmt"

	"github.com/Masterminds/squirrel"

	"github.com/yigit/coursehub/internal/app/models"
)

// PgEnrollmentRepository handles user_courses operations
type PgEnrollmentRepository struct {
	db DBTX
}

// NewEnrollmentRepository creates a new PgEnrollmentRepository
func NewEnrollmentRepository(db DBTX) *PgEnrollmentRepository {
	return &PgEnrollmentRepository{db: db}
}

// Add relies on the unique pair constraint, so concurrent duplicate
// enrollments still leave a single row.
func (r *PgEnrollmentRepository) Add(ctx context.Context, userID, courseID int64) (bool, error) {
	sql, args, err := psql.Insert("user_courses").
		Columns("user_id", "course_id").
		Values(userID, courseID).
		Suffix("ON CONFLICT (user_id, course_id) DO NOTHING").
		ToSql()
	if err != nil {
		return false, fmt.Errorf("failed to build enrollment query: %w", err)
	}

	tag, err := r.db.Exec(ctx, sql, args...)
	if err != nil {
		return false, wrapWriteError("creating enrollment", err)
	}
	return tag.RowsAffected() == 1, nil
}

// ListCoursesForUser returns the courses userID is enrolled in, newest first.
func (r *PgEnrollmentRepository) ListCoursesForUser(ctx context.Context, userID int64) ([]*models.Course, error) {
	return queryCourses(ctx, r.db, psql.Select(courseColumns("c")...).
		From("courses c").
		Join("user_courses uc ON uc.course_id = c.id").
		Where(squirrel.Eq{"uc.user_id": userID}).
		OrderBy("c.id DESC"))
}

// ListCoursesNotForUser returns every course userID is not enrolled in, newest first.
func (r *PgEnrollmentRepository) ListCoursesNotForUser(ctx context.Context, userID int64) ([]*models.Course, error) {
	return queryCourses(ctx, r.db, psql.Select(courseColumns("c")...).
		From("courses c").
		Where("c.id NOT IN (SELECT course_id FROM user_courses WHERE user_id = ?)", userID).
		OrderBy("c.id DESC"))
}

// CountForInstructor counts enrollment rows across the instructor's courses.
// A student enrolled in two of them counts twice.
func (r *PgEnrollmentRepository) CountForInstructor(ctx context.Context, instructor string) (int64, error) {
	return r.count(ctx, "COUNT(*)", instructor)
}

// CountDistinctStudentsForInstructor counts unique users enrolled in any of
// the instructor's courses.
func (r *PgEnrollmentRepository) CountDistinctStudentsForInstructor(ctx context.Context, instructor string) (int64, error) {
	return r.count(ctx, "COUNT(DISTINCT uc.user_id)", instructor)
}

func (r *PgEnrollmentRepository) count(ctx context.Context, expr, instructor string) (int64, error) {
	sql, args, err := psql.Select(expr).
		From("user_courses uc").
		Join("courses c ON c.id = uc.course_id").
		Where(squirrel.Eq{"c.instructor": instructor}).
		ToSql()
	if err != nil {
		return 0, fmt.Errorf("failed to build enrollment count query: %w", err)
	}

	var n int64
	if err := r.db.QueryRow(ctx, sql, args...).Scan(&n); err != nil {
		return 0, fmt.Errorf("error counting enrollments: %w", err)
	}
	return n, nil
}

// DeleteByCourse removes every enrollment in the course.
func (r *PgEnrollmentRepository) DeleteByCourse(ctx context.Context, courseID int64) error {
	return r.deleteWhere(ctx, squirrel.Eq{"course_id": courseID})
}

// DeleteByUser removes every enrollment of the user.
func (r *PgEnrollmentRepository) DeleteByUser(ctx context.Context, userID int64) error {
	return r.deleteWhere(ctx, squirrel.Eq{"user_id": userID})
}

func (r *PgEnrollmentRepository) deleteWhere(ctx context.Context, where squirrel.Eq) error {
	sql, args, err := psql.Delete("user_courses").Where(where).ToSql()
	if err != nil {
		return fmt.Errorf("failed to build delete enrollments query: %w", err)
	}
	if _, err := r.db.Exec(ctx, sql, args...); err != nil {
		return wrapWriteError("deleting enrollments", err)
	}
	return nil
}
