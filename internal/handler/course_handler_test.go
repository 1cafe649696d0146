package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/minicanvas-api/internal/dto"
	"github.com/noah-isme/minicanvas-api/internal/models"
	"github.com/noah-isme/minicanvas-api/internal/service"
	appErrors "github.com/noah-isme/minicanvas-api/pkg/errors"
)

type courseServiceMock struct {
	created   dto.CreateCourseRequest
	imported  []int
	importErr error
	findErr   error
}

func (m *courseServiceMock) CreateCourse(ctx context.Context, req dto.CreateCourseRequest) (*models.Course, error) {
	m.created = req
	return models.NewCourse(7, req.Code, req.Semester, req.TeacherIDs), nil
}

func (m *courseServiceMock) FindCourse(ctx context.Context, id int) (*models.Course, error) {
	if m.findErr != nil {
		return nil, m.findErr
	}
	return models.NewCourse(id, "CS101", "Fall 2024", nil), nil
}

func (m *courseServiceMock) Courses(ctx context.Context) []models.Course {
	return []models.Course{*models.NewCourse(1, "CS101", "Fall 2024", nil)}
}

func (m *courseServiceMock) ImportStudents(ctx context.Context, courseID int, req dto.ImportStudentsRequest) error {
	if m.importErr != nil {
		return m.importErr
	}
	m.imported = req.StudentIDs
	return nil
}

type rosterExporterMock struct {
	format string
}

func (m *rosterExporterMock) Export(ctx context.Context, courseID int, format string) (*service.RosterExport, error) {
	m.format = format
	return &service.RosterExport{Filename: "course-1-roster.csv", ContentType: "text/csv", Payload: []byte("role,user_id,name,type\n")}, nil
}

func newTestContext(method, target string, body []byte) (*gin.Context, *httptest.ResponseRecorder) {
	gin.SetMode(gin.TestMode)
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	req, _ := http.NewRequest(method, target, bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	c.Request = req
	return c, w
}

func TestCourseHandlerCreateReturnsBareID(t *testing.T) {
	svc := &courseServiceMock{}
	handler := NewCourseHandler(svc, nil)
	c, w := newTestContext(http.MethodPost, "/courses/CS101?semester=Fall%202024", []byte(`{"teacher_id_list":[1,2]}`))
	c.Params = gin.Params{{Key: "course", Value: "CS101"}}

	handler.Create(c)

	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "7", w.Body.String())
	assert.Equal(t, dto.CreateCourseRequest{Code: "CS101", Semester: "Fall 2024", TeacherIDs: []int{1, 2}}, svc.created)
}

func TestCourseHandlerCreateInvalidBody(t *testing.T) {
	handler := NewCourseHandler(&courseServiceMock{}, nil)
	c, w := newTestContext(http.MethodPost, "/courses/CS101", []byte(`invalid`))
	c.Params = gin.Params{{Key: "course", Value: "CS101"}}

	handler.Create(c)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestCourseHandlerImportStudents(t *testing.T) {
	svc := &courseServiceMock{}
	handler := NewCourseHandler(svc, nil)
	c, w := newTestContext(http.MethodPut, "/courses/1/students", []byte(`{"student_id_list":[3,4]}`))
	c.Params = gin.Params{{Key: "course", Value: "1"}}

	handler.ImportStudents(c)

	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "null", w.Body.String())
	assert.Equal(t, []int{3, 4}, svc.imported)
}

func TestCourseHandlerImportStudentsNotFound(t *testing.T) {
	svc := &courseServiceMock{importErr: appErrors.Clone(appErrors.ErrNotFound, "course not found")}
	handler := NewCourseHandler(svc, nil)
	c, w := newTestContext(http.MethodPut, "/courses/9/students", []byte(`{"student_id_list":[3]}`))
	c.Params = gin.Params{{Key: "course", Value: "9"}}

	handler.ImportStudents(c)

	require.Equal(t, http.StatusNotFound, w.Code)
	var body map[string]map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.Equal(t, "NOT_FOUND", body["error"]["code"])
}

func TestCourseHandlerGetInvalidID(t *testing.T) {
	handler := NewCourseHandler(&courseServiceMock{}, nil)
	c, w := newTestContext(http.MethodGet, "/courses/abc", nil)
	c.Params = gin.Params{{Key: "course", Value: "abc"}}

	handler.Get(c)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestCourseHandlerRoster(t *testing.T) {
	roster := &rosterExporterMock{}
	handler := NewCourseHandler(&courseServiceMock{}, roster)
	c, w := newTestContext(http.MethodGet, "/courses/1/roster", nil)
	c.Params = gin.Params{{Key: "course", Value: "1"}}

	handler.Roster(c)

	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "csv", roster.format)
	assert.Equal(t, "text/csv", w.Header().Get("Content-Type"))
	assert.Contains(t, w.Header().Get("Content-Disposition"), "course-1-roster.csv")
}
