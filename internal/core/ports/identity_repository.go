package ports

import (
	"context"

	"github.com/campusconnect/alumni-api/internal/core/domain"
)

// ProfileUpdate carries the mutable profile fields. Nil pointers mean
// "leave unchanged".
type ProfileUpdate struct {
	FullName       *string
	GraduationYear *int
	LinkedIn       *string
	Course         *string
	USN            *string
	FieldOfStudy   *string
	GitHub         *string
}

// IdentityRepository is the single gateway to both identity collections.
// Callers never probe the collections themselves: Resolve and FindByEmail
// answer "which variant holds this id/email" in one call.
type IdentityRepository interface {
	CreateStudent(ctx context.Context, id *domain.Identity) (*domain.Identity, error)
	CreateAlumni(ctx context.Context, id *domain.Identity) (*domain.Identity, error)

	// Resolve looks the id up in the student collection first, then alumni.
	// Returns domain.ErrIdentityNotFound when absent from both.
	Resolve(ctx context.Context, id string) (*domain.Identity, error)

	// FindByEmail probes both collections for a college email.
	FindByEmail(ctx context.Context, email string) (*domain.Identity, error)

	// EmailExists reports whether the email is registered in either collection.
	EmailExists(ctx context.Context, email string) (bool, error)

	UpdateProfile(ctx context.Context, id string, upd ProfileUpdate) (*domain.Identity, error)

	// ListSummaries returns every identity except excludeID, as summaries.
	ListSummaries(ctx context.Context, excludeID string) ([]domain.IdentitySummary, error)

	// Summaries resolves a batch of ids (either collection) to summaries.
	// Unknown ids are simply absent from the result map.
	Summaries(ctx context.Context, ids []string) (map[string]domain.IdentitySummary, error)

	// ListAll returns full identities of one variant, for the network graph.
	ListAll(ctx context.Context, kind domain.Kind) ([]*domain.Identity, error)

	// AddFollow and RemoveFollow update both sides of a follow edge as one
	// unit: the follower's outgoing set (chosen by the followee's kind) and
	// the followee's followers set. Implementations must guarantee that a
	// failure of either write leaves neither applied.
	AddFollow(ctx context.Context, follower, followee *domain.Identity) error
	RemoveFollow(ctx context.Context, follower, followee *domain.Identity) error
}
