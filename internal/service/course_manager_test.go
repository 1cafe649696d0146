package service

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/minicanvas-api/internal/dto"
	"github.com/noah-isme/minicanvas-api/internal/models"
	appErrors "github.com/noah-isme/minicanvas-api/pkg/errors"
	"github.com/noah-isme/minicanvas-api/pkg/sequence"
)

type snapshotStoreStub struct {
	saved [][]models.Course
	err   error
}

func (s *snapshotStoreStub) SaveCourses(ctx context.Context, courses []models.Course) error {
	if s.err != nil {
		return s.err
	}
	s.saved = append(s.saved, courses)
	return nil
}

type failingGenerator struct{}

func (failingGenerator) Next(context.Context) (int, error)    { return 0, errors.New("redis down") }
func (failingGenerator) Current(context.Context) (int, error) { return 0, errors.New("redis down") }

func newCourseManager(store courseSnapshotStore) *CourseManager {
	m := NewCourseManager(sequence.NewCounter(), store, nil, nil)
	m.now = func() time.Time { return time.Date(2024, 9, 2, 10, 0, 0, 0, time.UTC) }
	return m
}

func TestCourseManagerCreateCourseScenario(t *testing.T) {
	m := newCourseManager(nil)
	ctx := context.Background()

	first, err := m.CreateCourse(ctx, dto.CreateCourseRequest{Code: "CS101", Semester: "Fall 2024", TeacherIDs: []int{1, 2}})
	require.NoError(t, err)
	assert.Equal(t, 1, first.ID)

	found, err := m.FindCourse(ctx, 1)
	require.NoError(t, err)
	assert.Equal(t, "CS101", found.Code)
	assert.Equal(t, []int{1, 2}, found.TeacherIDs)
	assert.Empty(t, found.StudentIDs)

	second, err := m.CreateCourse(ctx, dto.CreateCourseRequest{Code: "CS102", Semester: "Spring 2025", TeacherIDs: []int{1}})
	require.NoError(t, err)
	assert.Equal(t, 2, second.ID)
	assert.Equal(t, 2, m.Count())
}

func TestCourseManagerIDsStrictlyIncrease(t *testing.T) {
	m := newCourseManager(nil)
	ctx := context.Background()

	prev := 0
	for i := 0; i < 20; i++ {
		course, err := m.CreateCourse(ctx, dto.CreateCourseRequest{Code: fmt.Sprintf("C%d", i), Semester: "Fall 2024"})
		require.NoError(t, err)
		assert.Greater(t, course.ID, prev)
		prev = course.ID
	}
	assert.Equal(t, 20, prev)
}

func TestCourseManagerConcurrentCreatesYieldUniqueIDs(t *testing.T) {
	m := newCourseManager(nil)
	ctx := context.Background()

	var wg sync.WaitGroup
	ids := make(chan int, 50)
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			course, err := m.CreateCourse(ctx, dto.CreateCourseRequest{Code: "CS", Semester: "Fall 2024"})
			if err == nil {
				ids <- course.ID
			}
		}()
	}
	wg.Wait()
	close(ids)

	seen := make(map[int]bool)
	for id := range ids {
		assert.False(t, seen[id], "duplicate id %d", id)
		seen[id] = true
	}
	assert.Len(t, seen, 50)
}

func TestCourseManagerFindCourseNotFound(t *testing.T) {
	m := newCourseManager(nil)
	_, err := m.FindCourse(context.Background(), 42)
	require.Error(t, err)
	assert.True(t, errors.Is(err, appErrors.ErrNotFound))
}

func TestCourseManagerReturnsCopies(t *testing.T) {
	m := newCourseManager(nil)
	ctx := context.Background()

	created, err := m.CreateCourse(ctx, dto.CreateCourseRequest{Code: "CS101", Semester: "Fall 2024", TeacherIDs: []int{1}})
	require.NoError(t, err)
	created.TeacherIDs[0] = 99
	created.Code = "changed"

	found, err := m.FindCourse(ctx, created.ID)
	require.NoError(t, err)
	assert.Equal(t, "CS101", found.Code)
	assert.Equal(t, []int{1}, found.TeacherIDs)
}

func TestCourseManagerCreateCourseValidation(t *testing.T) {
	m := newCourseManager(nil)
	ctx := context.Background()

	_, err := m.CreateCourse(ctx, dto.CreateCourseRequest{Code: ""})
	assert.True(t, errors.Is(err, appErrors.ErrValidation))

	_, err = m.CreateCourse(ctx, dto.CreateCourseRequest{Code: "CS101", Semester: "Fall 2024", TeacherIDs: []int{1, -3}})
	assert.True(t, errors.Is(err, appErrors.ErrValidation))

	_, err = m.CreateCourse(ctx, dto.CreateCourseRequest{Code: "CS101", TeacherIDs: []int{1}})
	assert.True(t, errors.Is(err, appErrors.ErrValidation))
	assert.Equal(t, 0, m.Count())
}

func TestCourseManagerGenerateIDFailure(t *testing.T) {
	m := NewCourseManager(failingGenerator{}, nil, nil, nil)
	_, err := m.CreateCourse(context.Background(), dto.CreateCourseRequest{Code: "CS101", Semester: "Fall 2024"})
	require.Error(t, err)
	assert.True(t, errors.Is(err, appErrors.ErrInternal))
	assert.Equal(t, 0, m.Count())
}

func TestCourseManagerImportStudents(t *testing.T) {
	m := newCourseManager(nil)
	ctx := context.Background()
	course, err := m.CreateCourse(ctx, dto.CreateCourseRequest{Code: "CS101", Semester: "Fall 2024", TeacherIDs: []int{1, 2}})
	require.NoError(t, err)

	req := dto.ImportStudentsRequest{StudentIDs: []int{3, 4}}
	require.NoError(t, m.ImportStudents(ctx, course.ID, req))
	require.NoError(t, m.ImportStudents(ctx, course.ID, req))

	found, err := m.FindCourse(ctx, course.ID)
	require.NoError(t, err)
	assert.Equal(t, []int{3, 4}, found.StudentIDs)

	require.NoError(t, m.ImportStudents(ctx, course.ID, dto.ImportStudentsRequest{StudentIDs: []int{5}}))
	found, err = m.FindCourse(ctx, course.ID)
	require.NoError(t, err)
	assert.Equal(t, []int{5}, found.StudentIDs)
}

func TestCourseManagerImportStudentsUnknownCourse(t *testing.T) {
	m := newCourseManager(nil)
	err := m.ImportStudents(context.Background(), 9, dto.ImportStudentsRequest{StudentIDs: []int{3}})
	assert.True(t, errors.Is(err, appErrors.ErrNotFound))
}

func TestCourseManagerAssignmentsAndSubmissions(t *testing.T) {
	m := newCourseManager(nil)
	ctx := context.Background()
	course, err := m.CreateCourse(ctx, dto.CreateCourseRequest{Code: "CS101", Semester: "Fall 2024"})
	require.NoError(t, err)

	assignment, err := m.CreateAssignment(ctx, course.ID, dto.CreateAssignmentRequest{DueDate: "2024-10-01"})
	require.NoError(t, err)
	assert.Equal(t, 1, assignment.ID)
	assert.Equal(t, course.ID, assignment.CourseID)

	found, err := m.FindCourse(ctx, course.ID)
	require.NoError(t, err)
	assert.Equal(t, 1, found.AssignmentCounter)
	require.Len(t, found.Assignments, 1)

	sub, err := m.Submit(ctx, course.ID, assignment.ID, dto.SubmitRequest{StudentID: 3, Answer: "42"})
	require.NoError(t, err)
	assert.Equal(t, time.Date(2024, 9, 2, 10, 0, 0, 0, time.UTC), sub.SubmittedAt)

	subs, err := m.Submissions(ctx, course.ID, assignment.ID)
	require.NoError(t, err)
	require.Len(t, subs, 1)
	assert.Equal(t, *sub, subs[0])

	assignments, err := m.Assignments(ctx, course.ID)
	require.NoError(t, err)
	require.Len(t, assignments, 1)
	assert.Len(t, assignments[0].Submissions, 1)
}

func TestCourseManagerSubmitNotFound(t *testing.T) {
	m := newCourseManager(nil)
	ctx := context.Background()
	course, err := m.CreateCourse(ctx, dto.CreateCourseRequest{Code: "CS101", Semester: "Fall 2024"})
	require.NoError(t, err)

	_, err = m.Submit(ctx, course.ID, 5, dto.SubmitRequest{StudentID: 3})
	assert.True(t, errors.Is(err, appErrors.ErrNotFound))

	_, err = m.Submit(ctx, 77, 1, dto.SubmitRequest{StudentID: 3})
	assert.True(t, errors.Is(err, appErrors.ErrNotFound))

	_, err = m.Submit(ctx, course.ID, 1, dto.SubmitRequest{StudentID: 0})
	assert.True(t, errors.Is(err, appErrors.ErrValidation))
}

func TestCourseManagerSyncWithDatabase(t *testing.T) {
	store := &snapshotStoreStub{}
	m := newCourseManager(store)
	ctx := context.Background()

	_, err := m.CreateCourse(ctx, dto.CreateCourseRequest{Code: "CS101", Semester: "Fall 2024"})
	require.NoError(t, err)
	require.NoError(t, m.SyncWithDatabase(ctx))
	require.Len(t, store.saved, 1)
	assert.Equal(t, "CS101", store.saved[0][0].Code)

	store.err = errors.New("disk full")
	err = m.SyncWithDatabase(ctx)
	require.Error(t, err)
	assert.True(t, errors.Is(err, appErrors.ErrInternal))
}

func TestCourseManagerSyncWithoutStoreIsNoop(t *testing.T) {
	m := newCourseManager(nil)
	assert.NoError(t, m.SyncWithDatabase(context.Background()))
}

type snapshotLoaderStub struct {
	courses []models.Course
	err     error
}

func (s snapshotLoaderStub) LoadCourses(context.Context) ([]models.Course, error) {
	return s.courses, s.err
}

func TestCourseManagerRestoreContinuesSequence(t *testing.T) {
	m := newCourseManager(nil)
	ctx := context.Background()

	first := models.NewCourse(1, "CS101", "Fall 2024", []int{1})
	first.CreateAssignment("2024-10-01")
	third := models.NewCourse(3, "CS103", "Fall 2024", nil)

	n, err := m.Restore(ctx, snapshotLoaderStub{courses: []models.Course{*first, *third}})
	require.NoError(t, err)
	assert.Equal(t, 2, n)
	assert.Equal(t, 2, m.Count())

	assignments, err := m.Assignments(ctx, 1)
	require.NoError(t, err)
	require.Len(t, assignments, 1)
	assert.Equal(t, "2024-10-01", assignments[0].DueDate)

	created, err := m.CreateCourse(ctx, dto.CreateCourseRequest{Code: "CS104", Semester: "Spring 2025"})
	require.NoError(t, err)
	assert.Equal(t, 4, created.ID)
}

func TestCourseManagerRestoreCacheMiss(t *testing.T) {
	m := newCourseManager(nil)
	n, err := m.Restore(context.Background(), snapshotLoaderStub{err: appErrors.Clone(appErrors.ErrCacheMiss, "")})
	require.NoError(t, err)
	assert.Equal(t, 0, n)
	assert.Equal(t, 0, m.Count())
}

func TestCourseManagerRestoreRejectsPopulatedManager(t *testing.T) {
	m := newCourseManager(nil)
	ctx := context.Background()
	_, err := m.CreateCourse(ctx, dto.CreateCourseRequest{Code: "CS101", Semester: "Fall 2024"})
	require.NoError(t, err)

	_, err = m.Restore(ctx, snapshotLoaderStub{courses: []models.Course{*models.NewCourse(7, "CS107", "Fall 2024", nil)}})
	assert.True(t, errors.Is(err, appErrors.ErrConflict))
	assert.Equal(t, 1, m.Count())
}

func TestCourseManagerRestoreLoaderFailure(t *testing.T) {
	m := newCourseManager(nil)
	cause := errors.New("connection refused")
	_, err := m.Restore(context.Background(), snapshotLoaderStub{err: cause})
	assert.True(t, errors.Is(err, appErrors.ErrInternal))
	assert.ErrorIs(t, err, cause)
}
