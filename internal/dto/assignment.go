package dto

// CreateAssignmentRequest schedules a new assignment. DueDate is opaque text.
type CreateAssignmentRequest struct {
	DueDate string `json:"due_date" validate:"required"`
}

// SubmitRequest carries a student's answer.
type SubmitRequest struct {
	StudentID int    `json:"student_id" validate:"gt=0"`
	Answer    string `json:"answer"`
}
