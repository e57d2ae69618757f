package service

import (
	"context"

	"github.com/rs/zerolog"

	"github.com/campusconnect/alumni-api/internal/api/metrics"
	"github.com/campusconnect/alumni-api/internal/core/domain"
	"github.com/campusconnect/alumni-api/internal/core/ports"
)

// GraphService maintains directed follow edges. Each edge lives on two
// documents (the follower's outgoing set and the followee's followers set);
// the repository applies both writes as one unit, so a one-sided edge can
// never be observed.
type GraphService struct {
	ids    ports.IdentityRepository
	logger zerolog.Logger
}

func NewGraphService(ids ports.IdentityRepository, logger zerolog.Logger) *GraphService {
	return &GraphService{ids: ids, logger: logger}
}

// Follow adds the edge follower→followee.
func (s *GraphService) Follow(ctx context.Context, followerID, followeeID string, followeeKind domain.Kind) error {
	if followerID == followeeID {
		return domain.ErrSelfFollow
	}

	follower, followee, err := s.resolvePair(ctx, followerID, followeeID, followeeKind)
	if err != nil {
		return err
	}

	if follower.Follows(followeeID, followeeKind) {
		return domain.ErrAlreadyFollowing
	}

	if err := s.ids.AddFollow(ctx, follower, followee); err != nil {
		s.logger.Error().Err(err).Str("follower", followerID).Str("followee", followeeID).Msg("follow failed")
		return err
	}

	metrics.FollowsTotal.WithLabelValues(string(followeeKind)).Inc()
	s.logger.Info().Str("follower", followerID).Str("followee", followeeID).Str("kind", string(followeeKind)).Msg("follow added")
	return nil
}

// Unfollow removes the edge follower→followee. The edge must exist, judged by
// the follower's outgoing set.
func (s *GraphService) Unfollow(ctx context.Context, followerID, followeeID string, followeeKind domain.Kind) error {
	if followerID == followeeID {
		return domain.ErrSelfFollow
	}

	follower, followee, err := s.resolvePair(ctx, followerID, followeeID, followeeKind)
	if err != nil {
		return err
	}

	if !follower.Follows(followeeID, followeeKind) {
		return domain.ErrNotFollowing
	}

	if err := s.ids.RemoveFollow(ctx, follower, followee); err != nil {
		s.logger.Error().Err(err).Str("follower", followerID).Str("followee", followeeID).Msg("unfollow failed")
		return err
	}

	s.logger.Info().Str("follower", followerID).Str("followee", followeeID).Str("kind", string(followeeKind)).Msg("follow removed")
	return nil
}

// resolvePair resolves both endpoints and checks the followee's variant
// matches the requested edge kind.
func (s *GraphService) resolvePair(ctx context.Context, followerID, followeeID string, followeeKind domain.Kind) (*domain.Identity, *domain.Identity, error) {
	follower, err := s.ids.Resolve(ctx, followerID)
	if err != nil {
		return nil, nil, err
	}

	followee, err := s.ids.Resolve(ctx, followeeID)
	if err != nil {
		return nil, nil, err
	}
	if followee.Kind != followeeKind {
		return nil, nil, domain.ErrIdentityNotFound
	}

	return follower, followee, nil
}
