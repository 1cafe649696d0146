package dto

// CreateCourseRequest captures course creation input. Code and Semester arrive via path and query.
type CreateCourseRequest struct {
	Code       string `json:"code" validate:"required"`
	Semester   string `json:"semester" validate:"required"`
	TeacherIDs []int  `json:"teacher_id_list" validate:"dive,gt=0"`
}

// ImportStudentsRequest replaces a course's student list.
type ImportStudentsRequest struct {
	StudentIDs []int `json:"student_id_list" validate:"dive,gt=0"`
}

// TeacherListBody is the JSON body of the course creation route.
type TeacherListBody struct {
	TeacherIDs []int `json:"teacher_id_list"`
}
