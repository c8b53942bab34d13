package posting

import "time"

// Kind distinguishes the two structurally parallel posting types.
type Kind string

const (
	KindJob        Kind = "job"
	KindInternship Kind = "internship"
)

// Valid reports whether k names a known posting kind.
func (k Kind) Valid() bool {
	return k == KindJob || k == KindInternship
}

// Posting is a job or internship listing owned by one recruiter. Its
// applications live in the application store and are joined at roster time.
type Posting struct {
	ID           string    `json:"id" bson:"id"`
	Kind         Kind      `json:"kind" bson:"kind"`
	Title        string    `json:"title" bson:"title"`
	Location     string    `json:"location" bson:"location"`
	Description  string    `json:"description" bson:"description"`
	Salary       string    `json:"salary,omitempty" bson:"salary,omitempty"`
	RecruiterSub string    `json:"recruiterSub" bson:"recruiterSub"`
	CreatedAt    time.Time `json:"createdAt" bson:"createdAt"`
}
