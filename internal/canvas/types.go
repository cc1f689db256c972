package canvas

import "time"

// Course is a Canvas course as returned by the favorites endpoint.
type Course struct {
	ID   int64  `json:"id"`
	Name string `json:"name"`
}

// Submission carries the submission state Canvas attaches to an assignment
// when the listing is requested with include[]=submission.
type Submission struct {
	SubmittedAt *time.Time `json:"submitted_at"`
}

// Assignment is a Canvas assignment. DueAt is nil for undated assignments.
// Description is raw HTML as stored in Canvas.
type Assignment struct {
	ID          int64       `json:"id"`
	Name        string      `json:"name"`
	Description string      `json:"description"`
	DueAt       *time.Time  `json:"due_at"`
	Submission  *Submission `json:"submission"`
}

// Submitted reports whether the assignment already has a submission.
func (a Assignment) Submitted() bool {
	return a.Submission != nil && a.Submission.SubmittedAt != nil
}
