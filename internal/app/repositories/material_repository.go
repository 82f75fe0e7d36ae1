package repositories

import (
	"context"
	"fmt"

	"github.com/Masterminds/squirrel"

	"github.com/yigit/coursehub/internal/app/models"
)

// PgMaterialRepository stores one material kind; videos and assignments
// share a table shape.
type PgMaterialRepository struct {
	db    DBTX
	kind  models.MaterialKind
	table string
}

// NewMaterialRepository creates a repository for kind.
func NewMaterialRepository(db DBTX, kind models.MaterialKind) *PgMaterialRepository {
	return &PgMaterialRepository{db: db, kind: kind, table: kind.Table()}
}

// Kind returns the material kind this repository stores.
func (r *PgMaterialRepository) Kind() models.MaterialKind {
	return r.kind
}

// Create inserts material and fills in its ID, Kind and CreatedAt.
func (r *PgMaterialRepository) Create(ctx context.Context, material *models.Material) error {
	sql, args, err := psql.Insert(r.table).
		Columns("course_id", "title", "filename").
		Values(material.CourseID, material.Title, material.Filename).
		Suffix("RETURNING id, created_at").
		ToSql()
	if err != nil {
		return fmt.Errorf("failed to build create %s query: %w", r.kind, err)
	}

	if err := r.db.QueryRow(ctx, sql, args...).Scan(&material.ID, &material.CreatedAt); err != nil {
		return wrapWriteError("creating "+string(r.kind), err)
	}
	material.Kind = r.kind
	return nil
}

// ListByCourse returns the course's materials, newest first.
func (r *PgMaterialRepository) ListByCourse(ctx context.Context, courseID int64) ([]*models.Material, error) {
	sql, args, err := psql.Select("id", "course_id", "title", "filename", "created_at").
		From(r.table).
		Where(squirrel.Eq{"course_id": courseID}).
		OrderBy("created_at DESC", "id DESC").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build list %s query: %w", r.table, err)
	}

	rows, err := r.db.Query(ctx, sql, args...)
	if err != nil {
		return nil, fmt.Errorf("error querying %s: %w", r.table, err)
	}
	defer rows.Close()

	materials := []*models.Material{}
	for rows.Next() {
		m := &models.Material{Kind: r.kind}
		if err := rows.Scan(&m.ID, &m.CourseID, &m.Title, &m.Filename, &m.CreatedAt); err != nil {
			return nil, fmt.Errorf("error scanning %s row: %w", r.kind, err)
		}
		materials = append(materials, m)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating %s rows: %w", r.table, err)
	}
	return materials, nil
}

// DeleteByCourse removes every material row of the course.
func (r *PgMaterialRepository) DeleteByCourse(ctx context.Context, courseID int64) error {
	sql, args, err := psql.Delete(r.table).Where(squirrel.Eq{"course_id": courseID}).ToSql()
	if err != nil {
		return fmt.Errorf("failed to build delete %s query: %w", r.table, err)
	}
	if _, err := r.db.Exec(ctx, sql, args...); err != nil {
		return wrapWriteError("deleting "+r.table, err)
	}
	return nil
}
