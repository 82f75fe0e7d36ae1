package memory

import (
	"context"
	"fmt"
	"sort"

	"github.com/yigit/coursehub/internal/app/models"
	"github.com/yigit/coursehub/internal/app/repositories"
	"github.com/yigit/coursehub/internal/pkg/apperrors"
)

type userRepo struct{ v *view }

func (r *userRepo) Create(_ context.Context, user *models.User) error {
	return r.v.do(func(st *state) error {
		if usernameTaken(st, user.Username) {
			return apperrors.ErrDuplicateUsername
		}
		user.ID = st.next("users")
		user.CreatedAt = r.v.now()
		st.users[user.ID] = *user
		return nil
	})
}

func (r *userRepo) GetByID(_ context.Context, id int64) (*models.User, error) {
	var out *models.User
	err := r.v.do(func(st *state) error {
		if u, ok := st.users[id]; ok {
			out = &u
		}
		return nil
	})
	return out, err
}

func (r *userRepo) GetByUsername(_ context.Context, username string) (*models.User, error) {
	var out *models.User
	err := r.v.do(func(st *state) error {
		for _, u := range st.users {
			if u.Username == username {
				out = &u
				return nil
			}
		}
		return nil
	})
	return out, err
}

func (r *userRepo) Delete(_ context.Context, id int64) error {
	return r.v.do(func(st *state) error {
		u, ok := st.users[id]
		if !ok {
			return nil
		}
		for _, c := range st.courses {
			if c.Instructor == u.Username {
				return fmt.Errorf("deleting user %d: %w: courses.instructor", id, repositories.ErrForeignKey)
			}
		}
		for _, e := range st.enrollments {
			if e.UserID == id {
				return fmt.Errorf("deleting user %d: %w: user_courses.user_id", id, repositories.ErrForeignKey)
			}
		}
		delete(st.users, id)
		return nil
	})
}

type courseRepo struct{ v *view }

func (r *courseRepo) Create(_ context.Context, course *models.Course) error {
	return r.v.do(func(st *state) error {
		if !usernameTaken(st, course.Instructor) {
			return fmt.Errorf("creating course: %w: courses.instructor", repositories.ErrForeignKey)
		}
		course.ID = st.next("courses")
		course.CreatedAt = r.v.now()
		st.courses[course.ID] = *copyCourse(*course)
		return nil
	})
}

func (r *courseRepo) GetByID(_ context.Context, id int64) (*models.Course, error) {
	var out *models.Course
	err := r.v.do(func(st *state) error {
		if c, ok := st.courses[id]; ok {
			out = copyCourse(c)
		}
		return nil
	})
	return out, err
}

func (r *courseRepo) ListByInstructor(_ context.Context, instructor string) ([]*models.Course, error) {
	out := []*models.Course{}
	err := r.v.do(func(st *state) error {
		for _, c := range st.courses {
			if c.Instructor == instructor {
				out = append(out, copyCourse(c))
			}
		}
		return nil
	})
	sortCoursesNewestFirst(out)
	return out, err
}

func (r *courseRepo) Delete(_ context.Context, id int64) error {
	return r.v.do(func(st *state) error {
		for kind, rows := range st.materials {
			for _, m := range rows {
				if m.CourseID == id {
					return fmt.Errorf("deleting course %d: %w: %s.course_id", id, repositories.ErrForeignKey, kind.Table())
				}
			}
		}
		for _, e := range st.enrollments {
			if e.CourseID == id {
				return fmt.Errorf("deleting course %d: %w: user_courses.course_id", id, repositories.ErrForeignKey)
			}
		}
		delete(st.courses, id)
		return nil
	})
}

type materialRepo struct {
	v    *view
	kind models.MaterialKind
}

func (r *materialRepo) Kind() models.MaterialKind { return r.kind }

func (r *materialRepo) Create(_ context.Context, material *models.Material) error {
	return r.v.do(func(st *state) error {
		if _, ok := st.courses[material.CourseID]; !ok {
			return fmt.Errorf("creating %s: %w: course_id", r.kind, repositories.ErrForeignKey)
		}
		material.ID = st.next(r.kind.Table())
		material.Kind = r.kind
		material.CreatedAt = r.v.now()
		st.materials[r.kind][material.ID] = *material
		return nil
	})
}

func (r *materialRepo) ListByCourse(_ context.Context, courseID int64) ([]*models.Material, error) {
	out := []*models.Material{}
	err := r.v.do(func(st *state) error {
		for _, m := range st.materials[r.kind] {
			if m.CourseID == courseID {
				out = append(out, &m)
			}
		}
		return nil
	})
	sort.Slice(out, func(i, j int) bool {
		if !out[i].CreatedAt.Equal(out[j].CreatedAt) {
			return out[i].CreatedAt.After(out[j].CreatedAt)
		}
		return out[i].ID > out[j].ID
	})
	return out, err
}

func (r *materialRepo) DeleteByCourse(_ context.Context, courseID int64) error {
	return r.v.do(func(st *state) error {
		for id, m := range st.materials[r.kind] {
			if m.CourseID == courseID {
				delete(st.materials[r.kind], id)
			}
		}
		return nil
	})
}

type enrollmentRepo struct{ v *view }

func (r *enrollmentRepo) Add(_ context.Context, userID, courseID int64) (bool, error) {
	added := false
	err := r.v.do(func(st *state) error {
		if _, ok := st.users[userID]; !ok {
			return fmt.Errorf("creating enrollment: %w: user_id", repositories.ErrForeignKey)
		}
		if _, ok := st.courses[courseID]; !ok {
			return fmt.Errorf("creating enrollment: %w: course_id", repositories.ErrForeignKey)
		}
		for _, e := range st.enrollments {
			if e.UserID == userID && e.CourseID == courseID {
				return nil
			}
		}
		id := st.next("user_courses")
		st.enrollments[id] = models.Enrollment{ID: id, UserID: userID, CourseID: courseID}
		added = true
		return nil
	})
	return added, err
}

func (r *enrollmentRepo) ListCoursesForUser(_ context.Context, userID int64) ([]*models.Course, error) {
	return r.filterCourses(userID, true)
}

func (r *enrollmentRepo) ListCoursesNotForUser(_ context.Context, userID int64) ([]*models.Course, error) {
	return r.filterCourses(userID, false)
}

func (r *enrollmentRepo) filterCourses(userID int64, enrolled bool) ([]*models.Course, error) {
	out := []*models.Course{}
	err := r.v.do(func(st *state) error {
		mine := map[int64]bool{}
		for _, e := range st.enrollments {
			if e.UserID == userID {
				mine[e.CourseID] = true
			}
		}
		for id, c := range st.courses {
			if mine[id] == enrolled {
				out = append(out, copyCourse(c))
			}
		}
		return nil
	})
	sortCoursesNewestFirst(out)
	return out, err
}

func (r *enrollmentRepo) CountForInstructor(_ context.Context, instructor string) (int64, error) {
	var n int64
	err := r.v.do(func(st *state) error {
		for _, e := range st.enrollments {
			if c, ok := st.courses[e.CourseID]; ok && c.Instructor == instructor {
				n++
			}
		}
		return nil
	})
	return n, err
}

func (r *enrollmentRepo) CountDistinctStudentsForInstructor(_ context.Context, instructor string) (int64, error) {
	seen := map[int64]struct{}{}
	err := r.v.do(func(st *state) error {
		for _, e := range st.enrollments {
			if c, ok := st.courses[e.CourseID]; ok && c.Instructor == instructor {
				seen[e.UserID] = struct{}{}
			}
		}
		return nil
	})
	return int64(len(seen)), err
}

func (r *enrollmentRepo) DeleteByCourse(_ context.Context, courseID int64) error {
	return r.deleteWhere(func(e models.Enrollment) bool { return e.CourseID == courseID })
}

func (r *enrollmentRepo) DeleteByUser(_ context.Context, userID int64) error {
	return r.deleteWhere(func(e models.Enrollment) bool { return e.UserID == userID })
}

func (r *enrollmentRepo) deleteWhere(match func(models.Enrollment) bool) error {
	return r.v.do(func(st *state) error {
		for id, e := range st.enrollments {
			if match(e) {
				delete(st.enrollments, id)
			}
		}
		return nil
	})
}
