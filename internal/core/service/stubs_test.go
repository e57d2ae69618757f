package service

import (
	"context"
	"fmt"
	"sync"

	"github.com/campusconnect/alumni-api/internal/core/domain"
	"github.com/campusconnect/alumni-api/internal/core/ports"
)

// stubIdentityRepo is an in-memory IdentityRepository covering both variants.
type stubIdentityRepo struct {
	mu   sync.Mutex
	seq  int
	byID map[string]*domain.Identity
}

func newStubIdentityRepo() *stubIdentityRepo {
	return &stubIdentityRepo{byID: make(map[string]*domain.Identity)}
}

func cloneIdentity(id *domain.Identity) *domain.Identity {
	if id == nil {
		return nil
	}
	clone := *id
	clone.FollowingStudents = append([]string(nil), id.FollowingStudents...)
	clone.FollowingAlumni = append([]string(nil), id.FollowingAlumni...)
	clone.Followers = append([]string(nil), id.Followers...)
	return &clone
}

func (r *stubIdentityRepo) create(id *domain.Identity) (*domain.Identity, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, existing := range r.byID {
		if existing.CollegeEmail == id.CollegeEmail {
			return nil, domain.ErrEmailTaken
		}
	}
	copy := cloneIdentity(id)
	if copy.ID == "" {
		r.seq++
		copy.ID = fmt.Sprintf("id_%d", r.seq)
	}
	r.byID[copy.ID] = copy
	return cloneIdentity(copy), nil
}

func (r *stubIdentityRepo) CreateStudent(_ context.Context, id *domain.Identity) (*domain.Identity, error) {
	return r.create(id)
}

func (r *stubIdentityRepo) CreateAlumni(_ context.Context, id *domain.Identity) (*domain.Identity, error) {
	return r.create(id)
}

func (r *stubIdentityRepo) Resolve(_ context.Context, id string) (*domain.Identity, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if found, ok := r.byID[id]; ok {
		return cloneIdentity(found), nil
	}
	return nil, domain.ErrIdentityNotFound
}

func (r *stubIdentityRepo) FindByEmail(_ context.Context, email string) (*domain.Identity, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, id := range r.byID {
		if id.CollegeEmail == email {
			return cloneIdentity(id), nil
		}
	}
	return nil, domain.ErrIdentityNotFound
}

func (r *stubIdentityRepo) EmailExists(ctx context.Context, email string) (bool, error) {
	if _, err := r.FindByEmail(ctx, email); err != nil {
		return false, nil
	}
	return true, nil
}

func (r *stubIdentityRepo) UpdateProfile(_ context.Context, id string, upd ports.ProfileUpdate) (*domain.Identity, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	found, ok := r.byID[id]
	if !ok {
		return nil, domain.ErrIdentityNotFound
	}
	if upd.FullName != nil {
		found.FullName = *upd.FullName
	}
	if upd.GraduationYear != nil {
		found.GraduationYear = *upd.GraduationYear
	}
	if upd.LinkedIn != nil {
		found.LinkedIn = *upd.LinkedIn
	}
	if upd.Course != nil {
		found.Course = *upd.Course
	}
	if upd.USN != nil {
		found.USN = *upd.USN
	}
	if upd.FieldOfStudy != nil {
		found.FieldOfStudy = *upd.FieldOfStudy
	}
	if upd.GitHub != nil {
		found.GitHub = *upd.GitHub
	}
	return cloneIdentity(found), nil
}

func (r *stubIdentityRepo) ListSummaries(_ context.Context, excludeID string) ([]domain.IdentitySummary, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []domain.IdentitySummary
	for _, id := range r.byID {
		if id.ID == excludeID {
			continue
		}
		out = append(out, domain.IdentitySummary{
			ID:           id.ID,
			Kind:         id.Kind,
			FullName:     id.FullName,
			CollegeEmail: id.CollegeEmail,
		})
	}
	return out, nil
}

func (r *stubIdentityRepo) Summaries(_ context.Context, ids []string) (map[string]domain.IdentitySummary, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make(map[string]domain.IdentitySummary, len(ids))
	for _, id := range ids {
		if found, ok := r.byID[id]; ok {
			out[id] = domain.IdentitySummary{
				ID:           found.ID,
				Kind:         found.Kind,
				FullName:     found.FullName,
				CollegeEmail: found.CollegeEmail,
			}
		}
	}
	return out, nil
}

func (r *stubIdentityRepo) ListAll(_ context.Context, kind domain.Kind) ([]*domain.Identity, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []*domain.Identity
	for _, id := range r.byID {
		if id.Kind == kind {
			out = append(out, cloneIdentity(id))
		}
	}
	return out, nil
}

func (r *stubIdentityRepo) AddFollow(_ context.Context, follower, followee *domain.Identity) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	fr, ok := r.byID[follower.ID]
	if !ok {
		return domain.ErrIdentityNotFound
	}
	fe, ok := r.byID[followee.ID]
	if !ok {
		return domain.ErrIdentityNotFound
	}
	if followee.Kind == domain.KindAlumni {
		fr.FollowingAlumni = append(fr.FollowingAlumni, followee.ID)
	} else {
		fr.FollowingStudents = append(fr.FollowingStudents, followee.ID)
	}
	fe.Followers = append(fe.Followers, follower.ID)
	return nil
}

func (r *stubIdentityRepo) RemoveFollow(_ context.Context, follower, followee *domain.Identity) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	fr, ok := r.byID[follower.ID]
	if !ok {
		return domain.ErrIdentityNotFound
	}
	fe, ok := r.byID[followee.ID]
	if !ok {
		return domain.ErrIdentityNotFound
	}
	if followee.Kind == domain.KindAlumni {
		fr.FollowingAlumni = removeID(fr.FollowingAlumni, followee.ID)
	} else {
		fr.FollowingStudents = removeID(fr.FollowingStudents, followee.ID)
	}
	fe.Followers = removeID(fe.Followers, follower.ID)
	return nil
}

func removeID(set []string, id string) []string {
	out := set[:0]
	for _, s := range set {
		if s != id {
			out = append(out, s)
		}
	}
	return out
}

// stubConversationRepo is an in-memory ConversationRepository. Ensure is
// serialized by the mutex, matching the uniqueness guarantee of the real
// implementation under concurrent first messages.
type stubConversationRepo struct {
	mu       sync.Mutex
	seq      int
	byKey    map[string]*domain.Conversation
	messages map[string][]*domain.Message
}

func newStubConversationRepo() *stubConversationRepo {
	return &stubConversationRepo{
		byKey:    make(map[string]*domain.Conversation),
		messages: make(map[string][]*domain.Message),
	}
}

func (r *stubConversationRepo) Ensure(_ context.Context, key string, participants [2]string) (*domain.Conversation, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if conv, ok := r.byKey[key]; ok {
		clone := *conv
		return &clone, nil
	}
	r.seq++
	conv := &domain.Conversation{
		ID:           fmt.Sprintf("conv_%d", r.seq),
		Key:          key,
		Participants: participants,
	}
	r.byKey[key] = conv
	clone := *conv
	return &clone, nil
}

func (r *stubConversationRepo) FindByKey(_ context.Context, key string) (*domain.Conversation, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if conv, ok := r.byKey[key]; ok {
		clone := *conv
		return &clone, nil
	}
	return nil, domain.ErrConversationNotFound
}

func (r *stubConversationRepo) AppendMessage(_ context.Context, conversationID string, msg *domain.Message) (*domain.Message, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.seq++
	clone := *msg
	clone.ID = fmt.Sprintf("msg_%d", r.seq)
	clone.ConversationID = conversationID
	r.messages[conversationID] = append(r.messages[conversationID], &clone)
	out := clone
	return &out, nil
}

func (r *stubConversationRepo) Messages(_ context.Context, conversationID string) ([]*domain.Message, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	stored := r.messages[conversationID]
	out := make([]*domain.Message, len(stored))
	for i, m := range stored {
		clone := *m
		out[i] = &clone
	}
	return out, nil
}

// stubPostRepo is an in-memory PostRepository. List returns newest-first.
type stubPostRepo struct {
	mu    sync.Mutex
	seq   int
	order []string
	byID  map[string]*domain.Post
}

func newStubPostRepo() *stubPostRepo {
	return &stubPostRepo{byID: make(map[string]*domain.Post)}
}

func clonePost(p *domain.Post) *domain.Post {
	clone := *p
	clone.Likes = make([]domain.Ref, len(p.Likes))
	copy(clone.Likes, p.Likes)
	clone.Comments = make([]domain.Comment, len(p.Comments))
	copy(clone.Comments, p.Comments)
	return &clone
}

func (r *stubPostRepo) Create(_ context.Context, post *domain.Post) (*domain.Post, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.seq++
	copy := clonePost(post)
	copy.ID = fmt.Sprintf("post_%d", r.seq)
	if copy.Likes == nil {
		copy.Likes = []domain.Ref{}
	}
	if copy.Comments == nil {
		copy.Comments = []domain.Comment{}
	}
	r.byID[copy.ID] = copy
	r.order = append(r.order, copy.ID)
	return clonePost(copy), nil
}

func (r *stubPostRepo) FindByID(_ context.Context, id string) (*domain.Post, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if p, ok := r.byID[id]; ok {
		return clonePost(p), nil
	}
	return nil, domain.ErrPostNotFound
}

func (r *stubPostRepo) List(_ context.Context) ([]*domain.Post, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]*domain.Post, 0, len(r.order))
	for i := len(r.order) - 1; i >= 0; i-- {
		out = append(out, clonePost(r.byID[r.order[i]]))
	}
	return out, nil
}

func (r *stubPostRepo) AddComment(_ context.Context, postID string, comment domain.Comment) (*domain.Post, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	p, ok := r.byID[postID]
	if !ok {
		return nil, domain.ErrPostNotFound
	}
	p.Comments = append(p.Comments, comment)
	return clonePost(p), nil
}

func (r *stubPostRepo) AddLike(_ context.Context, postID string, liker domain.Ref) (*domain.Post, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	p, ok := r.byID[postID]
	if !ok {
		return nil, domain.ErrPostNotFound
	}
	p.Likes = append(p.Likes, liker)
	return clonePost(p), nil
}

func (r *stubPostRepo) RemoveLike(_ context.Context, postID string, likerID string) (*domain.Post, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	p, ok := r.byID[postID]
	if !ok {
		return nil, domain.ErrPostNotFound
	}
	likes := p.Likes[:0]
	for _, l := range p.Likes {
		if l.ID != likerID {
			likes = append(likes, l)
		}
	}
	p.Likes = likes
	return clonePost(p), nil
}

// stubNotifier records pushes; ids in online report delivered.
type stubNotifier struct {
	mu     sync.Mutex
	online map[string]bool
	pushed []string
}

func newStubNotifier(onlineIDs ...string) *stubNotifier {
	online := make(map[string]bool, len(onlineIDs))
	for _, id := range onlineIDs {
		online[id] = true
	}
	return &stubNotifier{online: online}
}

func (n *stubNotifier) Push(id string, _ any) bool {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.pushed = append(n.pushed, id)
	return n.online[id]
}

func (n *stubNotifier) pushes() []string {
	n.mu.Lock()
	defer n.mu.Unlock()
	return append([]string(nil), n.pushed...)
}
