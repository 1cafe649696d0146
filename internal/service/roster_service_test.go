package service

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/noah-isme/minicanvas-api/internal/dto"
	appErrors "github.com/noah-isme/minicanvas-api/pkg/errors"
	"github.com/noah-isme/minicanvas-api/pkg/export"
)

type pdfRendererStub struct {
	title string
	data  export.Dataset
	err   error
}

func (p *pdfRendererStub) Render(data export.Dataset, title string) ([]byte, error) {
	p.title = title
	p.data = data
	return []byte("%PDF"), p.err
}

func seedRoster(t *testing.T) (*CourseManager, *UserManager, int) {
	t.Helper()
	ctx := context.Background()
	users := NewUserManager(nil, UserManagerConfig{BcryptCost: bcrypt.MinCost}, nil, nil)
	for _, req := range []dto.CreateUserRequest{
		{Name: "Alice", Type: "teacher"},
		{Name: "Bob", Type: "student"},
	} {
		_, err := users.CreateUser(ctx, req)
		require.NoError(t, err)
	}

	courses := newCourseManager(nil)
	course, err := courses.CreateCourse(ctx, dto.CreateCourseRequest{Code: "CS101", Semester: "Fall 2024", TeacherIDs: []int{1}})
	require.NoError(t, err)
	require.NoError(t, courses.ImportStudents(ctx, course.ID, dto.ImportStudentsRequest{StudentIDs: []int{2, 9}}))
	return courses, users, course.ID
}

func TestRosterServiceBuildDataset(t *testing.T) {
	courses, users, id := seedRoster(t)
	svc := NewRosterService(courses, users, nil, nil)

	course, err := courses.FindCourse(context.Background(), id)
	require.NoError(t, err)
	dataset := svc.BuildDataset(context.Background(), course)

	assert.Equal(t, []string{"role", "user_id", "name", "type"}, dataset.Headers)
	require.Len(t, dataset.Rows, 3)
	assert.Equal(t, map[string]string{"role": "teacher", "user_id": "1", "name": "Alice", "type": "teacher"}, dataset.Rows[0])
	assert.Equal(t, "Bob", dataset.Rows[1]["name"])
	assert.Equal(t, "9", dataset.Rows[2]["user_id"])
	assert.Empty(t, dataset.Rows[2]["name"])
}

func TestRosterServiceExportCSV(t *testing.T) {
	courses, users, id := seedRoster(t)
	svc := NewRosterService(courses, users, nil, nil)

	out, err := svc.Export(context.Background(), id, "")
	require.NoError(t, err)
	assert.Equal(t, "course-1-roster.csv", out.Filename)
	assert.Equal(t, "text/csv", out.ContentType)
	assert.Contains(t, string(out.Payload), "role,user_id,name,type")
	assert.Contains(t, string(out.Payload), "teacher,1,Alice,teacher")
}

func TestRosterServiceExportPDF(t *testing.T) {
	courses, users, id := seedRoster(t)
	pdf := &pdfRendererStub{}
	svc := NewRosterService(courses, users, nil, pdf)

	out, err := svc.Export(context.Background(), id, "PDF")
	require.NoError(t, err)
	assert.Equal(t, "course-1-roster.pdf", out.Filename)
	assert.Equal(t, "application/pdf", out.ContentType)
	assert.Equal(t, "CS101 Fall 2024 roster", pdf.title)
	assert.Len(t, pdf.data.Rows, 3)

	pdf.err = errors.New("font missing")
	_, err = svc.Export(context.Background(), id, "pdf")
	assert.True(t, errors.Is(err, appErrors.ErrInternal))
}

func TestRosterServiceExportErrors(t *testing.T) {
	courses, users, id := seedRoster(t)
	svc := NewRosterService(courses, users, nil, nil)

	_, err := svc.Export(context.Background(), id, "xlsx")
	assert.True(t, errors.Is(err, appErrors.ErrValidation))

	_, err = svc.Export(context.Background(), 404, "csv")
	assert.True(t, errors.Is(err, appErrors.ErrNotFound))
}
