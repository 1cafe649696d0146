package models

import (
	"fmt"
	"strings"
)

// Course owns its assignments. Teachers and students are referenced by raw user id.
type Course struct {
	ID                int           `json:"id"`
	Code              string        `json:"code"`
	Semester          string        `json:"semester"`
	TeacherIDs        []int         `json:"teacher_id_list"`
	StudentIDs        []int         `json:"student_id_list"`
	Assignments       []*Assignment `json:"assignments"`
	AssignmentCounter int           `json:"assignment_counter"`
}

// NewCourse builds a course with an empty roster of students.
func NewCourse(id int, code, semester string, teacherIDs []int) *Course {
	return &Course{
		ID:          id,
		Code:        code,
		Semester:    semester,
		TeacherIDs:  copyIDs(teacherIDs),
		StudentIDs:  []int{},
		Assignments: []*Assignment{},
	}
}

// ImportStudents replaces the student list wholesale.
func (c *Course) ImportStudents(studentIDs []int) {
	c.StudentIDs = copyIDs(studentIDs)
}

// NextAssignmentID advances the per-course assignment counter.
func (c *Course) NextAssignmentID() int {
	c.AssignmentCounter++
	return c.AssignmentCounter
}

// CreateAssignment appends a new assignment due on dueDate and returns it.
func (c *Course) CreateAssignment(dueDate string) *Assignment {
	a := NewAssignment(c.NextAssignmentID(), dueDate, c.ID)
	c.Assignments = append(c.Assignments, a)
	return a
}

// FindAssignment looks an assignment up by its course-scoped id.
func (c *Course) FindAssignment(id int) (*Assignment, bool) {
	for _, a := range c.Assignments {
		if a.ID == id {
			return a, true
		}
	}
	return nil, false
}

// Clone returns a deep copy safe to hand out while the original keeps changing.
func (c *Course) Clone() *Course {
	if c == nil {
		return nil
	}
	out := *c
	out.TeacherIDs = copyIDs(c.TeacherIDs)
	out.StudentIDs = copyIDs(c.StudentIDs)
	out.Assignments = make([]*Assignment, 0, len(c.Assignments))
	for _, a := range c.Assignments {
		out.Assignments = append(out.Assignments, a.Clone())
	}
	return &out
}

func (c *Course) String() string {
	return fmt.Sprintf("ID: %d, code: %s, teachers: %s, students: %s",
		c.ID, c.Code, FormatList(c.TeacherIDs), FormatList(c.StudentIDs))
}

// FormatList renders values as a bracketed list literal: [1, 2] or ['Alice', 'Bob'].
func FormatList[T any](values []T) string {
	parts := make([]string, 0, len(values))
	for _, v := range values {
		switch tv := any(v).(type) {
		case string:
			parts = append(parts, "'"+tv+"'")
		default:
			parts = append(parts, fmt.Sprint(tv))
		}
	}
	return "[" + strings.Join(parts, ", ") + "]"
}

func copyIDs(ids []int) []int {
	return append(make([]int, 0, len(ids)), ids...)
}
