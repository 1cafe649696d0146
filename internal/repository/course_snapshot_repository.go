package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"

	"github.com/noah-isme/minicanvas-api/internal/models"
)

const courseSnapshotSchema = `
CREATE TABLE IF NOT EXISTS courses (
    id INTEGER PRIMARY KEY,
    code TEXT NOT NULL,
    semester TEXT NOT NULL,
    teacher_ids INTEGER[] NOT NULL DEFAULT '{}',
    student_ids INTEGER[] NOT NULL DEFAULT '{}',
    assignment_counter INTEGER NOT NULL DEFAULT 0,
    synced_at TIMESTAMPTZ NOT NULL
);
CREATE TABLE IF NOT EXISTS course_assignments (
    course_id INTEGER NOT NULL REFERENCES courses(id) ON DELETE CASCADE,
    id INTEGER NOT NULL,
    due_date TEXT NOT NULL,
    PRIMARY KEY (course_id, id)
);
CREATE TABLE IF NOT EXISTS assignment_submissions (
    course_id INTEGER NOT NULL,
    assignment_id INTEGER NOT NULL,
    position INTEGER NOT NULL,
    student_id INTEGER NOT NULL,
    answer TEXT NOT NULL,
    submitted_at TIMESTAMPTZ NOT NULL,
    PRIMARY KEY (course_id, assignment_id, position),
    FOREIGN KEY (course_id, assignment_id) REFERENCES course_assignments(course_id, id) ON DELETE CASCADE
)`

const (
	upsertCourseQuery = `INSERT INTO courses (id, code, semester, teacher_ids, student_ids, assignment_counter, synced_at)
VALUES ($1, $2, $3, $4, $5, $6, $7)
ON CONFLICT (id)
DO UPDATE SET code = EXCLUDED.code, semester = EXCLUDED.semester, teacher_ids = EXCLUDED.teacher_ids,
              student_ids = EXCLUDED.student_ids, assignment_counter = EXCLUDED.assignment_counter,
              synced_at = EXCLUDED.synced_at`
	upsertAssignmentQuery = `INSERT INTO course_assignments (course_id, id, due_date)
VALUES ($1, $2, $3)
ON CONFLICT (course_id, id) DO UPDATE SET due_date = EXCLUDED.due_date`
	pruneCoursesQuery      = `DELETE FROM courses WHERE NOT (id = ANY($1))`
	pruneAssignmentsQuery  = `DELETE FROM course_assignments WHERE course_id = $1 AND NOT (id = ANY($2))`
	deleteSubmissionsQuery = `DELETE FROM assignment_submissions WHERE course_id = $1 AND assignment_id = $2`
	insertSubmissionQuery  = `INSERT INTO assignment_submissions (course_id, assignment_id, position, student_id, answer, submitted_at)
VALUES ($1, $2, $3, $4, $5, $6)`
)

// CourseSnapshotRepository mirrors the in-memory course collection into Postgres.
type CourseSnapshotRepository struct {
	db  *sqlx.DB
	now func() time.Time
}

// NewCourseSnapshotRepository constructs the repository.
func NewCourseSnapshotRepository(db *sqlx.DB) *CourseSnapshotRepository {
	return &CourseSnapshotRepository{db: db, now: func() time.Time { return time.Now().UTC() }}
}

// EnsureSchema creates the snapshot tables when missing.
func (r *CourseSnapshotRepository) EnsureSchema(ctx context.Context) error {
	if _, err := r.db.ExecContext(ctx, courseSnapshotSchema); err != nil {
		return fmt.Errorf("ensure course snapshot schema: %w", err)
	}
	return nil
}

// SaveCourses makes the tables match courses in one transaction. Rows missing
// from the snapshot are deleted, so ids reissued after a restart never inherit
// an older course's assignments or submissions.
func (r *CourseSnapshotRepository) SaveCourses(ctx context.Context, courses []models.Course) error {
	if len(courses) == 0 {
		return nil
	}
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin course snapshot tx: %w", err)
	}

	ids := make([]int64, len(courses))
	for i := range courses {
		ids[i] = int64(courses[i].ID)
	}
	if _, err := tx.ExecContext(ctx, pruneCoursesQuery, pq.Array(ids)); err != nil {
		_ = tx.Rollback()
		return fmt.Errorf("prune courses: %w", err)
	}

	syncedAt := r.now()
	for i := range courses {
		if err := r.saveCourse(ctx, tx, &courses[i], syncedAt); err != nil {
			_ = tx.Rollback()
			return err
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit course snapshot tx: %w", err)
	}
	return nil
}

func (r *CourseSnapshotRepository) saveCourse(ctx context.Context, tx *sqlx.Tx, course *models.Course, syncedAt time.Time) error {
	if _, err := tx.ExecContext(ctx, upsertCourseQuery,
		course.ID, course.Code, course.Semester,
		pq.Array(int64s(course.TeacherIDs)), pq.Array(int64s(course.StudentIDs)),
		course.AssignmentCounter, syncedAt,
	); err != nil {
		return fmt.Errorf("upsert course %d: %w", course.ID, err)
	}

	kept := make([]int64, len(course.Assignments))
	for i, assignment := range course.Assignments {
		kept[i] = int64(assignment.ID)
	}
	if _, err := tx.ExecContext(ctx, pruneAssignmentsQuery, course.ID, pq.Array(kept)); err != nil {
		return fmt.Errorf("prune assignments %d: %w", course.ID, err)
	}

	for _, assignment := range course.Assignments {
		if _, err := tx.ExecContext(ctx, upsertAssignmentQuery, course.ID, assignment.ID, assignment.DueDate); err != nil {
			return fmt.Errorf("upsert assignment %d/%d: %w", course.ID, assignment.ID, err)
		}
		if _, err := tx.ExecContext(ctx, deleteSubmissionsQuery, course.ID, assignment.ID); err != nil {
			return fmt.Errorf("clear submissions %d/%d: %w", course.ID, assignment.ID, err)
		}
		for pos, sub := range assignment.Submissions {
			if _, err := tx.ExecContext(ctx, insertSubmissionQuery,
				course.ID, assignment.ID, pos+1, sub.StudentID, sub.Answer, sub.SubmittedAt,
			); err != nil {
				return fmt.Errorf("insert submission %d/%d#%d: %w", course.ID, assignment.ID, pos+1, err)
			}
		}
	}
	return nil
}

func int64s(ids []int) []int64 {
	out := make([]int64, len(ids))
	for i, id := range ids {
		out[i] = int64(id)
	}
	return out
}
