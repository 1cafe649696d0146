package handler

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/noah-isme/minicanvas-api/internal/dto"
	"github.com/noah-isme/minicanvas-api/internal/models"
	"github.com/noah-isme/minicanvas-api/internal/service"
	"github.com/noah-isme/minicanvas-api/pkg/response"
)

type courseService interface {
	CreateCourse(ctx context.Context, req dto.CreateCourseRequest) (*models.Course, error)
	FindCourse(ctx context.Context, id int) (*models.Course, error)
	Courses(ctx context.Context) []models.Course
	ImportStudents(ctx context.Context, courseID int, req dto.ImportStudentsRequest) error
}

type rosterExporter interface {
	Export(ctx context.Context, courseID int, format string) (*service.RosterExport, error)
}

// CourseHandler exposes course endpoints.
type CourseHandler struct {
	courses courseService
	roster  rosterExporter
}

// NewCourseHandler builds a new handler.
func NewCourseHandler(courses courseService, roster rosterExporter) *CourseHandler {
	return &CourseHandler{courses: courses, roster: roster}
}

// Create godoc
// @Summary Create a course
// @Description Returns the new course id as a bare integer.
// @Tags Courses
// @Accept json
// @Produce json
// @Param course path string true "Course code"
// @Param semester query string true "Semester"
// @Param payload body dto.TeacherListBody true "Teacher ids"
// @Success 200 {integer} int
// @Failure 400 {object} response.Envelope
// @Router /courses/{course} [post]
func (h *CourseHandler) Create(c *gin.Context) {
	var body dto.TeacherListBody
	if err := c.ShouldBindJSON(&body); err != nil {
		response.Error(c, bindError(err, "invalid teacher list"))
		return
	}
	course, err := h.courses.CreateCourse(c.Request.Context(), dto.CreateCourseRequest{
		Code:       c.Param("course"),
		Semester:   c.Query("semester"),
		TeacherIDs: body.TeacherIDs,
	})
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Raw(c, http.StatusOK, course.ID)
}

// List godoc
// @Summary List courses
// @Tags Courses
// @Produce json
// @Success 200 {object} response.Envelope
// @Router /courses [get]
func (h *CourseHandler) List(c *gin.Context) {
	courses := h.courses.Courses(c.Request.Context())
	response.JSON(c, http.StatusOK, courses, map[string]interface{}{"total": len(courses)})
}

// Get godoc
// @Summary Get a course
// @Tags Courses
// @Produce json
// @Param course path int true "Course id"
// @Success 200 {object} response.Envelope
// @Failure 404 {object} response.Envelope
// @Router /courses/{course} [get]
func (h *CourseHandler) Get(c *gin.Context) {
	id, err := intParam(c, "course")
	if err != nil {
		response.Error(c, err)
		return
	}
	course, err := h.courses.FindCourse(c.Request.Context(), id)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, course)
}

// ImportStudents godoc
// @Summary Replace a course's students
// @Tags Courses
// @Accept json
// @Produce json
// @Param course path int true "Course id"
// @Param payload body dto.ImportStudentsRequest true "Student ids"
// @Success 200
// @Failure 404 {object} response.Envelope
// @Router /courses/{course}/students [put]
func (h *CourseHandler) ImportStudents(c *gin.Context) {
	id, err := intParam(c, "course")
	if err != nil {
		response.Error(c, err)
		return
	}
	var req dto.ImportStudentsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, bindError(err, "invalid student list"))
		return
	}
	if err := h.courses.ImportStudents(c.Request.Context(), id, req); err != nil {
		response.Error(c, err)
		return
	}
	response.Raw(c, http.StatusOK, nil)
}

// Roster godoc
// @Summary Export a course roster
// @Tags Courses
// @Produce text/csv
// @Produce application/pdf
// @Param course path int true "Course id"
// @Param format query string false "csv or pdf"
// @Success 200 {file} file
// @Failure 400 {object} response.Envelope
// @Failure 404 {object} response.Envelope
// @Router /courses/{course}/roster [get]
func (h *CourseHandler) Roster(c *gin.Context) {
	id, err := intParam(c, "course")
	if err != nil {
		response.Error(c, err)
		return
	}
	out, err := h.roster.Export(c.Request.Context(), id, c.DefaultQuery("format", service.RosterFormatCSV))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.File(c, out.Filename, out.ContentType, out.Payload)
}
