package domain

import "time"

// Kind discriminates the two identity variants. Every stored reference that may
// point at either collection carries a Kind tag alongside the id.
type Kind string

const (
	KindStudent Kind = "student"
	KindAlumni  Kind = "alumni"
)

// Valid reports whether k is one of the two known variants.
func (k Kind) Valid() bool {
	return k == KindStudent || k == KindAlumni
}

// Ref is a tagged reference into one of the two identity collections.
type Ref struct {
	ID   string `json:"id" bson:"id"`
	Kind Kind   `json:"kind" bson:"kind"`
}

// Identity is the sum type over students and alumni. Kind selects which of the
// variant payloads is meaningful; common fields are always populated.
type Identity struct {
	ID             string    `json:"id"`
	Kind           Kind      `json:"kind"`
	FullName       string    `json:"full_name"`
	CollegeEmail   string    `json:"college_email"`
	PasswordHash   string    `json:"-"`
	GraduationYear int       `json:"graduation_year"`
	LinkedIn       string    `json:"linkedin,omitempty"`
	CreatedAt      time.Time `json:"created_at"`
	UpdatedAt      time.Time `json:"updated_at"`

	// Student payload.
	Course       string `json:"course,omitempty"`
	USN          string `json:"usn,omitempty"`
	FieldOfStudy string `json:"field_of_study,omitempty"`
	GitHub       string `json:"github,omitempty"`

	// Alumni payload.
	Role              string `json:"role,omitempty"`
	DegreeCertificate string `json:"degree_certificate,omitempty"`
	Verified          bool   `json:"verified,omitempty"`

	// Social graph edges. Outgoing sets are split by target variant; the
	// followers set holds incoming edges regardless of the follower's variant.
	FollowingStudents []string `json:"following_students,omitempty"`
	FollowingAlumni   []string `json:"following_alumni,omitempty"`
	Followers         []string `json:"followers,omitempty"`
}

// Ref returns the tagged reference for this identity.
func (i *Identity) Ref() Ref {
	return Ref{ID: i.ID, Kind: i.Kind}
}

// Follows reports whether the identity already has an outgoing edge to
// targetID of the given kind.
func (i *Identity) Follows(targetID string, kind Kind) bool {
	set := i.FollowingStudents
	if kind == KindAlumni {
		set = i.FollowingAlumni
	}
	for _, id := range set {
		if id == targetID {
			return true
		}
	}
	return false
}

// IdentitySummary is the lightweight projection used for sidebar listings and
// display-field expansion on messages and posts.
type IdentitySummary struct {
	ID           string `json:"id"`
	Kind         Kind   `json:"kind"`
	FullName     string `json:"full_name"`
	CollegeEmail string `json:"college_email"`
}
