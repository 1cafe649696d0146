package models

import "time"

// Submission is a student's answer to an assignment.
type Submission struct {
	StudentID   int       `json:"student_id"`
	Answer      string    `json:"answer"`
	SubmittedAt time.Time `json:"submitted_at"`
}

// Assignment belongs to exactly one course. Ids are unique within that course only.
type Assignment struct {
	ID          int          `json:"id"`
	DueDate     string       `json:"due_date"`
	CourseID    int          `json:"course_id"`
	Submissions []Submission `json:"submissions"`
}

// NewAssignment builds an assignment with no submissions.
func NewAssignment(id int, dueDate string, courseID int) *Assignment {
	return &Assignment{
		ID:          id,
		DueDate:     dueDate,
		CourseID:    courseID,
		Submissions: []Submission{},
	}
}

// Submit appends s unconditionally: enrolment, duplicates and lateness are not checked.
func (a *Assignment) Submit(s Submission) {
	a.Submissions = append(a.Submissions, s)
}

// Clone returns a deep copy.
func (a *Assignment) Clone() *Assignment {
	if a == nil {
		return nil
	}
	out := *a
	out.Submissions = append(make([]Submission, 0, len(a.Submissions)), a.Submissions...)
	return &out
}
