package service

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/noah-isme/minicanvas-api/internal/models"
	appErrors "github.com/noah-isme/minicanvas-api/pkg/errors"
	"github.com/noah-isme/minicanvas-api/pkg/export"
)

// Roster export formats.
const (
	RosterFormatCSV = "csv"
	RosterFormatPDF = "pdf"
)

var rosterHeaders = []string{"role", "user_id", "name", "type"}

type courseLookup interface {
	FindCourse(ctx context.Context, id int) (*models.Course, error)
}

type userLookup interface {
	FindUsers(ctx context.Context, ids []int) []models.User
}

type csvRenderer interface {
	Render(data export.Dataset) ([]byte, error)
}

type pdfRenderer interface {
	Render(data export.Dataset, title string) ([]byte, error)
}

// RosterExport is a rendered roster document.
type RosterExport struct {
	Filename    string
	ContentType string
	Payload     []byte
}

// RosterService renders a course's teachers and students as CSV or PDF.
type RosterService struct {
	courses courseLookup
	users   userLookup
	csv     csvRenderer
	pdf     pdfRenderer
}

// NewRosterService constructs a RosterService; nil renderers fall back to the pkg/export defaults.
func NewRosterService(courses courseLookup, users userLookup, csv csvRenderer, pdf pdfRenderer) *RosterService {
	if csv == nil {
		csv = export.NewCSVExporter()
	}
	if pdf == nil {
		pdf = export.NewPDFExporter()
	}
	return &RosterService{courses: courses, users: users, csv: csv, pdf: pdf}
}

// Export renders the roster of courseID in format.
func (s *RosterService) Export(ctx context.Context, courseID int, format string) (*RosterExport, error) {
	format = strings.ToLower(strings.TrimSpace(format))
	if format == "" {
		format = RosterFormatCSV
	}
	if format != RosterFormatCSV && format != RosterFormatPDF {
		return nil, appErrors.Clone(appErrors.ErrValidation, fmt.Sprintf("unsupported roster format %q", format))
	}

	course, err := s.courses.FindCourse(ctx, courseID)
	if err != nil {
		return nil, err
	}

	dataset := s.BuildDataset(ctx, course)
	base := fmt.Sprintf("course-%d-roster", course.ID)

	switch format {
	case RosterFormatPDF:
		payload, err := s.pdf.Render(dataset, fmt.Sprintf("%s %s roster", course.Code, course.Semester))
		if err != nil {
			return nil, appErrors.WrapAs(err, appErrors.ErrInternal, "failed to render roster")
		}
		return &RosterExport{Filename: base + ".pdf", ContentType: export.PDFContentType, Payload: payload}, nil
	default:
		payload, err := s.csv.Render(dataset)
		if err != nil {
			return nil, appErrors.WrapAs(err, appErrors.ErrInternal, "failed to render roster")
		}
		return &RosterExport{Filename: base + ".csv", ContentType: export.CSVContentType, Payload: payload}, nil
	}
}

// BuildDataset lists teachers then students in roster order. Ids without a user keep empty name and type.
func (s *RosterService) BuildDataset(ctx context.Context, course *models.Course) export.Dataset {
	ids := make([]int, 0, len(course.TeacherIDs)+len(course.StudentIDs))
	ids = append(ids, course.TeacherIDs...)
	ids = append(ids, course.StudentIDs...)

	known := make(map[int]models.User, len(ids))
	for _, u := range s.users.FindUsers(ctx, ids) {
		known[u.ID] = u
	}

	rows := make([]map[string]string, 0, len(ids))
	appendRows := func(role string, memberIDs []int) {
		for _, id := range memberIDs {
			row := map[string]string{"role": role, "user_id": strconv.Itoa(id)}
			if u, ok := known[id]; ok {
				row["name"] = u.Name
				row["type"] = string(u.Type)
			}
			rows = append(rows, row)
		}
	}
	appendRows("teacher", course.TeacherIDs)
	appendRows("student", course.StudentIDs)

	return export.Dataset{Headers: rosterHeaders, Rows: rows}
}
