package domain

// Grade is the score of one student for one assignment in a course.
type Grade struct {
	ID             int64
	CourseID       int64
	StudentID      int64
	AssignmentName string
	Score          float64
	Comments       *string
}
