package service

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/noah-isme/minicanvas-api/internal/dto"
	"github.com/noah-isme/minicanvas-api/internal/models"
	appErrors "github.com/noah-isme/minicanvas-api/pkg/errors"
	"github.com/noah-isme/minicanvas-api/pkg/sequence"
)

// courseSnapshotStore persists a point-in-time copy of every course.
type courseSnapshotStore interface {
	SaveCourses(ctx context.Context, courses []models.Course) error
}

// courseSnapshotLoader returns the last persisted copy of every course.
type courseSnapshotLoader interface {
	LoadCourses(ctx context.Context) ([]models.Course, error)
}

// CourseManager owns the course collection and issues course ids.
// Entities never leave the manager by pointer: callers get deep copies.
type CourseManager struct {
	mu        sync.RWMutex
	ids       sequence.Generator
	courses   []*models.Course
	store     courseSnapshotStore
	validator *validator.Validate
	logger    *zap.Logger
	now       func() time.Time
}

// NewCourseManager constructs a CourseManager. store may be nil, making SyncWithDatabase a no-op.
func NewCourseManager(ids sequence.Generator, store courseSnapshotStore, validate *validator.Validate, logger *zap.Logger) *CourseManager {
	if ids == nil {
		ids = sequence.NewCounter()
	}
	if validate == nil {
		validate = validator.New()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &CourseManager{
		ids:       ids,
		courses:   make([]*models.Course, 0),
		store:     store,
		validator: validate,
		logger:    logger,
		now:       func() time.Time { return time.Now().UTC() },
	}
}

// GenerateID issues the next course id.
func (m *CourseManager) GenerateID(ctx context.Context) (int, error) {
	id, err := m.ids.Next(ctx)
	if err != nil {
		return 0, appErrors.WrapAs(err, appErrors.ErrInternal, "failed to generate course id")
	}
	return id, nil
}

// CreateCourse registers a course with no students and returns a copy of it.
func (m *CourseManager) CreateCourse(ctx context.Context, req dto.CreateCourseRequest) (*models.Course, error) {
	if err := m.validator.Struct(req); err != nil {
		return nil, appErrors.WrapAs(err, appErrors.ErrValidation, "invalid course payload")
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	id, err := m.GenerateID(ctx)
	if err != nil {
		return nil, err
	}

	course := models.NewCourse(id, req.Code, req.Semester, req.TeacherIDs)
	m.courses = append(m.courses, course)
	m.logger.Sugar().Infow("course created", "course_id", course.ID, "code", course.Code, "semester", course.Semester)

	return course.Clone(), nil
}

// FindCourse returns a copy of the course with the given id or a not-found error.
func (m *CourseManager) FindCourse(_ context.Context, id int) (*models.Course, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	course, err := m.lookup(id)
	if err != nil {
		return nil, err
	}
	return course.Clone(), nil
}

// Courses lists every course in creation order.
func (m *CourseManager) Courses(_ context.Context) []models.Course {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.snapshot()
}

// Count returns the number of courses held.
func (m *CourseManager) Count() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.courses)
}

// ImportStudents replaces a course's student list.
func (m *CourseManager) ImportStudents(_ context.Context, courseID int, req dto.ImportStudentsRequest) error {
	if err := m.validator.Struct(req); err != nil {
		return appErrors.WrapAs(err, appErrors.ErrValidation, "invalid student list")
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	course, err := m.lookup(courseID)
	if err != nil {
		return err
	}
	course.ImportStudents(req.StudentIDs)
	m.logger.Sugar().Infow("students imported", "course_id", courseID, "count", len(req.StudentIDs))
	return nil
}

// CreateAssignment adds an assignment to a course.
func (m *CourseManager) CreateAssignment(_ context.Context, courseID int, req dto.CreateAssignmentRequest) (*models.Assignment, error) {
	if err := m.validator.Struct(req); err != nil {
		return nil, appErrors.WrapAs(err, appErrors.ErrValidation, "invalid assignment payload")
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	course, err := m.lookup(courseID)
	if err != nil {
		return nil, err
	}
	assignment := course.CreateAssignment(req.DueDate)
	m.logger.Sugar().Infow("assignment created", "course_id", courseID, "assignment_id", assignment.ID)
	return assignment.Clone(), nil
}

// Assignments lists a course's assignments.
func (m *CourseManager) Assignments(_ context.Context, courseID int) ([]models.Assignment, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	course, err := m.lookup(courseID)
	if err != nil {
		return nil, err
	}
	assignments := make([]models.Assignment, 0, len(course.Assignments))
	for _, a := range course.Assignments {
		assignments = append(assignments, *a.Clone())
	}
	return assignments, nil
}

// Submit records a submission. The student is not checked against the roster.
func (m *CourseManager) Submit(_ context.Context, courseID, assignmentID int, req dto.SubmitRequest) (*models.Submission, error) {
	if err := m.validator.Struct(req); err != nil {
		return nil, appErrors.WrapAs(err, appErrors.ErrValidation, "invalid submission payload")
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	assignment, err := m.lookupAssignment(courseID, assignmentID)
	if err != nil {
		return nil, err
	}
	submission := models.Submission{
		StudentID:   req.StudentID,
		Answer:      req.Answer,
		SubmittedAt: m.now(),
	}
	assignment.Submit(submission)
	m.logger.Sugar().Infow("submission recorded", "course_id", courseID, "assignment_id", assignmentID, "student_id", req.StudentID)
	return &submission, nil
}

// Submissions lists the submissions made to an assignment.
func (m *CourseManager) Submissions(_ context.Context, courseID, assignmentID int) ([]models.Submission, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	assignment, err := m.lookupAssignment(courseID, assignmentID)
	if err != nil {
		return nil, err
	}
	return assignment.Clone().Submissions, nil
}

// SyncWithDatabase hands a snapshot of all courses to the configured store.
// The store runs outside the manager lock; no transactional guarantee is assumed.
func (m *CourseManager) SyncWithDatabase(ctx context.Context) error {
	if m.store == nil {
		return nil
	}

	m.mu.RLock()
	courses := m.snapshot()
	m.mu.RUnlock()

	if err := m.store.SaveCourses(ctx, courses); err != nil {
		return appErrors.WrapAs(err, appErrors.ErrInternal, "failed to sync courses")
	}
	m.logger.Sugar().Infow("courses synced", "count", len(courses))
	return nil
}

// Restore seeds an empty manager from loader and advances the id sequence
// past every restored course. A missing snapshot restores nothing.
func (m *CourseManager) Restore(ctx context.Context, loader courseSnapshotLoader) (int, error) {
	courses, err := loader.LoadCourses(ctx)
	if errors.Is(err, appErrors.ErrCacheMiss) {
		return 0, nil
	}
	if err != nil {
		return 0, appErrors.WrapAs(err, appErrors.ErrInternal, "failed to load course snapshot")
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	if len(m.courses) > 0 {
		return 0, appErrors.Clone(appErrors.ErrConflict, "courses already present")
	}

	restored := make([]*models.Course, 0, len(courses))
	maxID := 0
	for i := range courses {
		restored = append(restored, courses[i].Clone())
		if courses[i].ID > maxID {
			maxID = courses[i].ID
		}
	}
	if err := sequence.AdvanceTo(ctx, m.ids, maxID); err != nil {
		return 0, appErrors.WrapAs(err, appErrors.ErrInternal, "failed to advance course ids")
	}
	m.courses = restored
	m.logger.Sugar().Infow("courses restored", "count", len(restored), "max_id", maxID)
	return len(restored), nil
}

func (m *CourseManager) lookup(id int) (*models.Course, error) {
	for _, c := range m.courses {
		if c.ID == id {
			return c, nil
		}
	}
	return nil, appErrors.Clone(appErrors.ErrNotFound, "course not found")
}

func (m *CourseManager) lookupAssignment(courseID, assignmentID int) (*models.Assignment, error) {
	course, err := m.lookup(courseID)
	if err != nil {
		return nil, err
	}
	assignment, ok := course.FindAssignment(assignmentID)
	if !ok {
		return nil, appErrors.Clone(appErrors.ErrNotFound, "assignment not found")
	}
	return assignment, nil
}

// snapshot must be called with the lock held.
func (m *CourseManager) snapshot() []models.Course {
	courses := make([]models.Course, 0, len(m.courses))
	for _, c := range m.courses {
		courses = append(courses, *c.Clone())
	}
	return courses
}
