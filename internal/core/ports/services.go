package ports

import (
	"context"

	"github.com/campusconnect/alumni-api/internal/core/domain"
)

// StudentSignupInput carries the fields of a student registration.
type StudentSignupInput struct {
	FullName       string
	CollegeEmail   string
	Password       string
	GraduationYear int
	Course         string
	USN            string
	FieldOfStudy   string
	LinkedIn       string
	GitHub         string
}

// AlumniSignupInput carries the fields of an alumni registration.
type AlumniSignupInput struct {
	FullName          string
	CollegeEmail      string
	Password          string
	GraduationYear    int
	LinkedIn          string
	DegreeCertificate string
}

// AuthService implements registration for both variants and login over both.
type AuthService interface {
	SignupStudent(ctx context.Context, in StudentSignupInput) (*domain.Identity, error)
	SignupAlumni(ctx context.Context, in AlumniSignupInput) (*domain.Identity, error)
	Login(ctx context.Context, email, password string) (string, *domain.Identity, error)
}

// GraphService maintains directed follow edges between identities.
type GraphService interface {
	// Follow adds the edge follower→followee. followeeKind selects which
	// outgoing set the edge lands in and which collection the followee must
	// resolve to.
	Follow(ctx context.Context, followerID, followeeID string, followeeKind domain.Kind) error
	Unfollow(ctx context.Context, followerID, followeeID string, followeeKind domain.Kind) error
}

// MessageService sends messages and reads conversation history.
type MessageService interface {
	// Send persists a message from sender to receiverID and pushes it,
	// best-effort, to both participants' live sessions.
	Send(ctx context.Context, sender *domain.Identity, receiverID, body string) (*domain.MessageView, error)

	// History returns the ordered messages between self and otherID, or an
	// empty slice when the pair has never talked.
	History(ctx context.Context, self *domain.Identity, otherID string) ([]*domain.MessageView, error)
}

// PostService implements the forum operations.
type PostService interface {
	Create(ctx context.Context, author *domain.Identity, title, content string) (*domain.PostView, error)
	List(ctx context.Context) ([]*domain.PostView, error)
	AddComment(ctx context.Context, author *domain.Identity, postID, content string) (*domain.PostView, error)
	ToggleLike(ctx context.Context, actor *domain.Identity, postID string) (*domain.PostView, error)
}

// SidebarUser is a sidebar entry with live presence attached.
type SidebarUser struct {
	domain.IdentitySummary
	Online bool `json:"online"`
}

// NetworkNode is one identity in the network graph response.
type NetworkNode struct {
	ID             string      `json:"id"`
	Name           string      `json:"name"`
	Kind           domain.Kind `json:"kind"`
	GraduationYear int         `json:"graduation_year"`
	Field          string      `json:"field,omitempty"`
	Position       string      `json:"position,omitempty"`
	LinkedIn       string      `json:"linkedin,omitempty"`
	Followers      []string    `json:"followers"`
}

// NetworkGraph groups the nodes by variant, mirroring the two collections.
type NetworkGraph struct {
	Students []NetworkNode `json:"students"`
	Alumni   []NetworkNode `json:"alumni"`
}

// ProfileService serves profile reads/updates, the sidebar and the graph.
type ProfileService interface {
	Profile(ctx context.Context, id string) (*domain.Identity, error)
	UpdateProfile(ctx context.Context, id string, upd ProfileUpdate) (*domain.Identity, error)
	Sidebar(ctx context.Context, selfID string) ([]SidebarUser, error)
	Network(ctx context.Context) (*NetworkGraph, error)
}

// Notifier pushes an event to an identity's live session, if any. Returns
// whether the event was handed to a connection. Delivery is best-effort:
// a false return is not an error and is never retried.
type Notifier interface {
	Push(id string, event any) bool
}

// Presence tracks which identities currently hold a live session.
type Presence interface {
	MarkOnline(ctx context.Context, id string) error
	MarkOffline(ctx context.Context, id string) error
	// Online reports, for each id, whether it is currently marked online.
	Online(ctx context.Context, ids []string) (map[string]bool, error)
}
