package handler

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/noah-isme/minicanvas-api/internal/dto"
	"github.com/noah-isme/minicanvas-api/internal/models"
	"github.com/noah-isme/minicanvas-api/pkg/response"
)

type assignmentService interface {
	CreateAssignment(ctx context.Context, courseID int, req dto.CreateAssignmentRequest) (*models.Assignment, error)
	Assignments(ctx context.Context, courseID int) ([]models.Assignment, error)
	Submit(ctx context.Context, courseID, assignmentID int, req dto.SubmitRequest) (*models.Submission, error)
	Submissions(ctx context.Context, courseID, assignmentID int) ([]models.Submission, error)
}

// AssignmentHandler exposes assignment and submission endpoints.
type AssignmentHandler struct {
	service assignmentService
}

// NewAssignmentHandler builds a new handler.
func NewAssignmentHandler(service assignmentService) *AssignmentHandler {
	return &AssignmentHandler{service: service}
}

// Create godoc
// @Summary Create an assignment
// @Tags Assignments
// @Accept json
// @Produce json
// @Param course path int true "Course id"
// @Param payload body dto.CreateAssignmentRequest true "Assignment payload"
// @Success 201 {object} response.Envelope
// @Failure 404 {object} response.Envelope
// @Router /courses/{course}/assignments [post]
func (h *AssignmentHandler) Create(c *gin.Context) {
	courseID, err := intParam(c, "course")
	if err != nil {
		response.Error(c, err)
		return
	}
	var req dto.CreateAssignmentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, bindError(err, "invalid assignment payload"))
		return
	}
	assignment, err := h.service.CreateAssignment(c.Request.Context(), courseID, req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, assignment)
}

// List godoc
// @Summary List a course's assignments
// @Tags Assignments
// @Produce json
// @Param course path int true "Course id"
// @Success 200 {object} response.Envelope
// @Router /courses/{course}/assignments [get]
func (h *AssignmentHandler) List(c *gin.Context) {
	courseID, err := intParam(c, "course")
	if err != nil {
		response.Error(c, err)
		return
	}
	assignments, err := h.service.Assignments(c.Request.Context(), courseID)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, assignments)
}

// Submit godoc
// @Summary Submit an answer
// @Tags Assignments
// @Accept json
// @Produce json
// @Param course path int true "Course id"
// @Param assignment path int true "Assignment id"
// @Param payload body dto.SubmitRequest true "Submission"
// @Success 201 {object} response.Envelope
// @Router /courses/{course}/assignments/{assignment}/submissions [post]
func (h *AssignmentHandler) Submit(c *gin.Context) {
	courseID, assignmentID, ok := assignmentPath(c)
	if !ok {
		return
	}
	var req dto.SubmitRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, bindError(err, "invalid submission payload"))
		return
	}
	submission, err := h.service.Submit(c.Request.Context(), courseID, assignmentID, req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, submission)
}

// Submissions godoc
// @Summary List submissions
// @Tags Assignments
// @Produce json
// @Param course path int true "Course id"
// @Param assignment path int true "Assignment id"
// @Success 200 {object} response.Envelope
// @Router /courses/{course}/assignments/{assignment}/submissions [get]
func (h *AssignmentHandler) Submissions(c *gin.Context) {
	courseID, assignmentID, ok := assignmentPath(c)
	if !ok {
		return
	}
	submissions, err := h.service.Submissions(c.Request.Context(), courseID, assignmentID)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, submissions)
}

func assignmentPath(c *gin.Context) (int, int, bool) {
	courseID, err := intParam(c, "course")
	if err != nil {
		response.Error(c, err)
		return 0, 0, false
	}
	assignmentID, err := intParam(c, "assignment")
	if err != nil {
		response.Error(c, err)
		return 0, 0, false
	}
	return courseID, assignmentID, true
}
