package service

import (
	"context"

	"github.com/rs/zerolog"

	"github.com/campusconnect/alumni-api/internal/core/domain"
	"github.com/campusconnect/alumni-api/internal/core/ports"
)

// ProfileService serves profile reads and updates, the sidebar listing with
// live presence, and the network graph.
type ProfileService struct {
	ids      ports.IdentityRepository
	presence ports.Presence
	logger   zerolog.Logger
}

func NewProfileService(ids ports.IdentityRepository, presence ports.Presence, logger zerolog.Logger) *ProfileService {
	return &ProfileService{ids: ids, presence: presence, logger: logger}
}

func (s *ProfileService) Profile(ctx context.Context, id string) (*domain.Identity, error) {
	return s.ids.Resolve(ctx, id)
}

func (s *ProfileService) UpdateProfile(ctx context.Context, id string, upd ports.ProfileUpdate) (*domain.Identity, error) {
	updated, err := s.ids.UpdateProfile(ctx, id, upd)
	if err != nil {
		return nil, err
	}
	s.logger.Info().Str("id", id).Msg("profile updated")
	return updated, nil
}

// Sidebar lists every identity except the caller, each flagged with whether a
// live session is currently registered for it.
func (s *ProfileService) Sidebar(ctx context.Context, selfID string) ([]ports.SidebarUser, error) {
	summaries, err := s.ids.ListSummaries(ctx, selfID)
	if err != nil {
		return nil, err
	}

	ids := make([]string, len(summaries))
	for i, sum := range summaries {
		ids[i] = sum.ID
	}

	online := map[string]bool{}
	if s.presence != nil && len(ids) > 0 {
		online, err = s.presence.Online(ctx, ids)
		if err != nil {
			// Presence is advisory; a cache failure degrades to all-offline.
			s.logger.Warn().Err(err).Msg("presence lookup failed")
			online = map[string]bool{}
		}
	}

	users := make([]ports.SidebarUser, len(summaries))
	for i, sum := range summaries {
		users[i] = ports.SidebarUser{IdentitySummary: sum, Online: online[sum.ID]}
	}
	return users, nil
}

// Network returns every identity of both variants with their follower id
// lists, grouped by variant.
func (s *ProfileService) Network(ctx context.Context) (*ports.NetworkGraph, error) {
	students, err := s.ids.ListAll(ctx, domain.KindStudent)
	if err != nil {
		return nil, err
	}
	alumni, err := s.ids.ListAll(ctx, domain.KindAlumni)
	if err != nil {
		return nil, err
	}

	graph := &ports.NetworkGraph{
		Students: make([]ports.NetworkNode, len(students)),
		Alumni:   make([]ports.NetworkNode, len(alumni)),
	}
	for i, st := range students {
		graph.Students[i] = ports.NetworkNode{
			ID:             st.ID,
			Name:           st.FullName,
			Kind:           domain.KindStudent,
			GraduationYear: st.GraduationYear,
			Field:          st.FieldOfStudy,
			LinkedIn:       st.LinkedIn,
			Followers:      followerIDs(st),
		}
	}
	for i, al := range alumni {
		graph.Alumni[i] = ports.NetworkNode{
			ID:             al.ID,
			Name:           al.FullName,
			Kind:           domain.KindAlumni,
			GraduationYear: al.GraduationYear,
			Position:       al.Role,
			LinkedIn:       al.LinkedIn,
			Followers:      followerIDs(al),
		}
	}
	return graph, nil
}

func followerIDs(id *domain.Identity) []string {
	if id.Followers == nil {
		return []string{}
	}
	return id.Followers
}
