// Package repotest holds behaviour tests every repositories.Store must pass.
package repotest

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yigit/coursehub/internal/app/models"
	"github.com/yigit/coursehub/internal/app/repositories"
	"github.com/yigit/coursehub/internal/pkg/apperrors"
)

// RunStoreSuite runs the suite; newStore must return an empty store.
func RunStoreSuite(t *testing.T, newStore func(t *testing.T) repositories.Store) {
	t.Run("Users", func(t *testing.T) { testUsers(t, newStore(t)) })
	t.Run("CoursesAndMaterials", func(t *testing.T) { testCourses(t, newStore(t)) })
	t.Run("Enrollments", func(t *testing.T) { testEnrollments(t, newStore(t)) })
	t.Run("ForeignKeys", func(t *testing.T) { testForeignKeys(t, newStore(t)) })
	t.Run("TransactionRollback", func(t *testing.T) { testRollback(t, newStore(t)) })
}

func mustUser(t *testing.T, repos *repositories.Repositories, name string, role models.RoleType) *models.User {
	t.Helper()
	u := &models.User{Username: name, Password: "hash", RoleType: role}
	require.NoError(t, repos.Users.Create(context.Background(), u))
	return u
}

func mustCourse(t *testing.T, repos *repositories.Repositories, title, instructor string) *models.Course {
	t.Helper()
	c := &models.Course{Title: title, Description: title + " description", Instructor: instructor}
	require.NoError(t, repos.Courses.Create(context.Background(), c))
	return c
}

func testUsers(t *testing.T, store repositories.Store) {
	ctx := context.Background()
	repos := store.Repos()

	ana := mustUser(t, repos, "ana", models.RoleInstructor)
	assert.NotZero(t, ana.ID)
	assert.False(t, ana.CreatedAt.IsZero())

	err := repos.Users.Create(ctx, &models.User{Username: "ana", Password: "x", RoleType: models.RoleStudent})
	assert.ErrorIs(t, err, apperrors.ErrDuplicateUsername)

	got, err := repos.Users.GetByUsername(ctx, "ana")
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, ana.ID, got.ID)
	assert.Equal(t, models.RoleInstructor, got.RoleType)
	assert.Equal(t, "hash", got.Password)

	got, err = repos.Users.GetByID(ctx, ana.ID)
	require.NoError(t, err)
	assert.Equal(t, "ana", got.Username)

	missing, err := repos.Users.GetByUsername(ctx, "nobody")
	require.NoError(t, err)
	assert.Nil(t, missing)

	require.NoError(t, repos.Users.Delete(ctx, ana.ID))
	missing, err = repos.Users.GetByID(ctx, ana.ID)
	require.NoError(t, err)
	assert.Nil(t, missing)
}

func testCourses(t *testing.T, store repositories.Store) {
	ctx := context.Background()
	repos := store.Repos()
	mustUser(t, repos, "ana", models.RoleInstructor)
	mustUser(t, repos, "bob", models.RoleInstructor)

	img := "1_cover.png"
	go101 := &models.Course{Title: "Go 101", Instructor: "ana", Image: &img}
	require.NoError(t, repos.Courses.Create(ctx, go101))
	sql := mustCourse(t, repos, "SQL", "ana")
	mustCourse(t, repos, "Other", "bob")

	got, err := repos.Courses.GetByID(ctx, go101.ID)
	require.NoError(t, err)
	require.NotNil(t, got.Image)
	assert.Equal(t, img, *got.Image)

	none, err := repos.Courses.GetByID(ctx, 999999)
	require.NoError(t, err)
	assert.Nil(t, none)

	list, err := repos.Courses.ListByInstructor(ctx, "ana")
	require.NoError(t, err)
	require.Len(t, list, 2)
	assert.Equal(t, sql.ID, list[0].ID, "newest first")
	assert.Equal(t, go101.ID, list[1].ID)

	for _, title := range []string{"v1", "v2"} {
		require.NoError(t, repos.Videos.Create(ctx, &models.Material{CourseID: sql.ID, Title: title, Filename: title + ".mp4"}))
	}
	require.NoError(t, repos.Assignments.Create(ctx, &models.Material{CourseID: sql.ID, Title: "hw", Filename: "hw.pdf"}))

	videos, err := repos.Materials(models.MaterialVideo).ListByCourse(ctx, sql.ID)
	require.NoError(t, err)
	require.Len(t, videos, 2)
	assert.Equal(t, "v2", videos[0].Title)
	assert.Equal(t, models.MaterialVideo, videos[0].Kind)

	assignments, err := repos.Assignments.ListByCourse(ctx, sql.ID)
	require.NoError(t, err)
	require.Len(t, assignments, 1)
	assert.Equal(t, models.MaterialAssignment, assignments[0].Kind)

	require.NoError(t, repos.Videos.DeleteByCourse(ctx, sql.ID))
	videos, err = repos.Videos.ListByCourse(ctx, sql.ID)
	require.NoError(t, err)
	assert.Empty(t, videos)
}

func testEnrollments(t *testing.T, store repositories.Store) {
	ctx := context.Background()
	repos := store.Repos()
	mustUser(t, repos, "ana", models.RoleInstructor)
	sam := mustUser(t, repos, "sam", models.RoleStudent)
	kim := mustUser(t, repos, "kim", models.RoleStudent)
	c1 := mustCourse(t, repos, "C1", "ana")
	c2 := mustCourse(t, repos, "C2", "ana")
	c3 := mustCourse(t, repos, "C3", "ana")

	added, err := repos.Enrollments.Add(ctx, sam.ID, c1.ID)
	require.NoError(t, err)
	assert.True(t, added)

	added, err = repos.Enrollments.Add(ctx, sam.ID, c1.ID)
	require.NoError(t, err)
	assert.False(t, added, "second enrollment is a no-op")

	_, err = repos.Enrollments.Add(ctx, sam.ID, c3.ID)
	require.NoError(t, err)
	_, err = repos.Enrollments.Add(ctx, kim.ID, c1.ID)
	require.NoError(t, err)

	enrolled, err := repos.Enrollments.ListCoursesForUser(ctx, sam.ID)
	require.NoError(t, err)
	assert.Equal(t, []int64{c3.ID, c1.ID}, courseIDs(enrolled))

	recommended, err := repos.Enrollments.ListCoursesNotForUser(ctx, sam.ID)
	require.NoError(t, err)
	assert.Equal(t, []int64{c2.ID}, courseIDs(recommended))

	rows, err := repos.Enrollments.CountForInstructor(ctx, "ana")
	require.NoError(t, err)
	assert.EqualValues(t, 3, rows)

	distinct, err := repos.Enrollments.CountDistinctStudentsForInstructor(ctx, "ana")
	require.NoError(t, err)
	assert.EqualValues(t, 2, distinct)

	require.NoError(t, repos.Enrollments.DeleteByCourse(ctx, c1.ID))
	rows, err = repos.Enrollments.CountForInstructor(ctx, "ana")
	require.NoError(t, err)
	assert.EqualValues(t, 1, rows)

	require.NoError(t, repos.Enrollments.DeleteByUser(ctx, sam.ID))
	enrolled, err = repos.Enrollments.ListCoursesForUser(ctx, sam.ID)
	require.NoError(t, err)
	assert.Empty(t, enrolled)
}

func testForeignKeys(t *testing.T, store repositories.Store) {
	ctx := context.Background()
	repos := store.Repos()
	ana := mustUser(t, repos, "ana", models.RoleInstructor)

	err := repos.Courses.Create(ctx, &models.Course{Title: "Ghost", Instructor: "ghost"})
	assert.ErrorIs(t, err, repositories.ErrForeignKey)

	c := mustCourse(t, repos, "Go", "ana")
	require.NoError(t, repos.Videos.Create(ctx, &models.Material{CourseID: c.ID, Title: "v", Filename: "v.mp4"}))

	assert.ErrorIs(t, repos.Courses.Delete(ctx, c.ID), repositories.ErrForeignKey)
	assert.ErrorIs(t, repos.Users.Delete(ctx, ana.ID), repositories.ErrForeignKey)
}

func testRollback(t *testing.T, store repositories.Store) {
	ctx := context.Background()
	mustUser(t, store.Repos(), "ana", models.RoleInstructor)
	boom := errors.New("boom")

	err := store.WithTransaction(ctx, func(ctx context.Context, repos *repositories.Repositories) error {
		mustCourse(t, repos, "Go", "ana")
		mustUser(t, repos, "sam", models.RoleStudent)
		return boom
	})
	assert.ErrorIs(t, err, boom)

	sam, err := store.Repos().Users.GetByUsername(ctx, "sam")
	require.NoError(t, err)
	assert.Nil(t, sam)
	courses, err := store.Repos().Courses.ListByInstructor(ctx, "ana")
	require.NoError(t, err)
	assert.Empty(t, courses)

	err = store.WithTransaction(ctx, func(ctx context.Context, repos *repositories.Repositories) error {
		mustUser(t, repos, "sam", models.RoleStudent)
		return nil
	})
	require.NoError(t, err)
	sam, err = store.Repos().Users.GetByUsername(ctx, "sam")
	require.NoError(t, err)
	assert.NotNil(t, sam)
}

func courseIDs(courses []*models.Course) []int64 {
	ids := make([]int64, 0, len(courses))
	for _, c := range courses {
		ids = append(ids, c.ID)
	}
	return ids
}
