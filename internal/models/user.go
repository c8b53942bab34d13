package models

import "time"

// User roles recognized by the portal.
const (
	RoleStudent   = "student"
	RoleRecruiter = "recruiter"
	RoleAdmin     = "admin"
)

// Profile holds the durable document references attached to a user account.
// URLs point at the blob store; they are opaque to this service.
type Profile struct {
	ResumeURL  string `bson:"resumeUrl,omitempty" json:"resumeUrl,omitempty"`
	ResumeName string `bson:"resumeName,omitempty" json:"resumeName,omitempty"`
	PhotoURL   string `bson:"photoUrl,omitempty" json:"photoUrl,omitempty"`
}

// User represents a portal account (student or recruiter), mapped from
// identity-provider claims.
type User struct {
	ID        string    `bson:"_id,omitempty" json:"id"`
	Sub       string    `bson:"sub" json:"sub"` // OIDC subject
	Email     string    `bson:"email" json:"email"`
	FullName  string    `bson:"fullName" json:"fullName"`
	Role      string    `bson:"role,omitempty" json:"role,omitempty"`
	Profile   Profile   `bson:"profile,omitempty" json:"profile"`
	CreatedAt time.Time `bson:"createdAt" json:"createdAt"`
	UpdatedAt time.Time `bson:"updatedAt" json:"updatedAt"`
}
