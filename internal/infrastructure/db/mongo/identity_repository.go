package mongo

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/campusconnect/alumni-api/internal/core/domain"
	"github.com/campusconnect/alumni-api/internal/core/ports"
)

const (
	studentCollection = "students"
	alumniCollection  = "alumni"
)

// IdentityRepository backs both identity collections. Identity ids are opaque
// to callers; resolution probes the student collection first, then alumni,
// matching the tagged-reference layout the rest of the store uses.
type IdentityRepository struct {
	students *mongo.Collection
	alumni   *mongo.Collection
}

func NewIdentityRepository(db *mongo.Database) *IdentityRepository {
	return &IdentityRepository{
		students: db.Collection(studentCollection),
		alumni:   db.Collection(alumniCollection),
	}
}

type identityDoc struct {
	ID             primitive.ObjectID `bson:"_id,omitempty"`
	FullName       string             `bson:"full_name"`
	CollegeEmail   string             `bson:"college_email"`
	PasswordHash   string             `bson:"password_hash"`
	GraduationYear int                `bson:"graduation_year"`
	LinkedIn       string             `bson:"linkedin,omitempty"`
	CreatedAt      time.Time          `bson:"created_at"`
	UpdatedAt      time.Time          `bson:"updated_at"`

	Course       string `bson:"course,omitempty"`
	USN          string `bson:"usn,omitempty"`
	FieldOfStudy string `bson:"field_of_study,omitempty"`
	GitHub       string `bson:"github,omitempty"`

	Role              string `bson:"role,omitempty"`
	DegreeCertificate string `bson:"degree_certificate,omitempty"`
	Verified          bool   `bson:"verified,omitempty"`

	FollowingStudents []string `bson:"following_students,omitempty"`
	FollowingAlumni   []string `bson:"following_alumni,omitempty"`
	Followers         []string `bson:"followers,omitempty"`
}

func toDoc(id *domain.Identity) identityDoc {
	return identityDoc{
		FullName:          id.FullName,
		CollegeEmail:      id.CollegeEmail,
		PasswordHash:      id.PasswordHash,
		GraduationYear:    id.GraduationYear,
		LinkedIn:          id.LinkedIn,
		CreatedAt:         id.CreatedAt,
		UpdatedAt:         id.UpdatedAt,
		Course:            id.Course,
		USN:               id.USN,
		FieldOfStudy:      id.FieldOfStudy,
		GitHub:            id.GitHub,
		Role:              id.Role,
		DegreeCertificate: id.DegreeCertificate,
		Verified:          id.Verified,
		FollowingStudents: id.FollowingStudents,
		FollowingAlumni:   id.FollowingAlumni,
		Followers:         id.Followers,
	}
}

func fromDoc(doc identityDoc, kind domain.Kind) *domain.Identity {
	return &domain.Identity{
		ID:                doc.ID.Hex(),
		Kind:              kind,
		FullName:          doc.FullName,
		CollegeEmail:      doc.CollegeEmail,
		PasswordHash:      doc.PasswordHash,
		GraduationYear:    doc.GraduationYear,
		LinkedIn:          doc.LinkedIn,
		CreatedAt:         doc.CreatedAt,
		UpdatedAt:         doc.UpdatedAt,
		Course:            doc.Course,
		USN:               doc.USN,
		FieldOfStudy:      doc.FieldOfStudy,
		GitHub:            doc.GitHub,
		Role:              doc.Role,
		DegreeCertificate: doc.DegreeCertificate,
		Verified:          doc.Verified,
		FollowingStudents: doc.FollowingStudents,
		FollowingAlumni:   doc.FollowingAlumni,
		Followers:         doc.Followers,
	}
}

func (r *IdentityRepository) collection(kind domain.Kind) *mongo.Collection {
	if kind == domain.KindAlumni {
		return r.alumni
	}
	return r.students
}

func (r *IdentityRepository) CreateStudent(ctx context.Context, id *domain.Identity) (*domain.Identity, error) {
	return r.create(ctx, id, domain.KindStudent)
}

func (r *IdentityRepository) CreateAlumni(ctx context.Context, id *domain.Identity) (*domain.Identity, error) {
	return r.create(ctx, id, domain.KindAlumni)
}

func (r *IdentityRepository) create(ctx context.Context, id *domain.Identity, kind domain.Kind) (*domain.Identity, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	res, err := r.collection(kind).InsertOne(ctx, toDoc(id))
	if err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return nil, domain.ErrEmailTaken
		}
		return nil, fmt.Errorf("insert identity: %w", err)
	}

	created := *id
	created.Kind = kind
	created.ID = res.InsertedID.(primitive.ObjectID).Hex()
	return &created, nil
}

// Resolve looks the id up in the student collection, then alumni; first hit
// wins and fixes the identity's kind.
func (r *IdentityRepository) Resolve(ctx context.Context, id string) (*domain.Identity, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, domain.ErrIdentityNotFound
	}

	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	var doc identityDoc
	err = r.students.FindOne(ctx, bson.M{"_id": oid}).Decode(&doc)
	if err == nil {
		return fromDoc(doc, domain.KindStudent), nil
	}
	if !errors.Is(err, mongo.ErrNoDocuments) {
		return nil, fmt.Errorf("resolve identity: %w", err)
	}

	err = r.alumni.FindOne(ctx, bson.M{"_id": oid}).Decode(&doc)
	if err == nil {
		return fromDoc(doc, domain.KindAlumni), nil
	}
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, domain.ErrIdentityNotFound
	}
	return nil, fmt.Errorf("resolve identity: %w", err)
}

func (r *IdentityRepository) FindByEmail(ctx context.Context, email string) (*domain.Identity, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	var doc identityDoc
	err := r.students.FindOne(ctx, bson.M{"college_email": email}).Decode(&doc)
	if err == nil {
		return fromDoc(doc, domain.KindStudent), nil
	}
	if !errors.Is(err, mongo.ErrNoDocuments) {
		return nil, fmt.Errorf("find by email: %w", err)
	}

	err = r.alumni.FindOne(ctx, bson.M{"college_email": email}).Decode(&doc)
	if err == nil {
		return fromDoc(doc, domain.KindAlumni), nil
	}
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, domain.ErrIdentityNotFound
	}
	return nil, fmt.Errorf("find by email: %w", err)
}

func (r *IdentityRepository) EmailExists(ctx context.Context, email string) (bool, error) {
	_, err := r.FindByEmail(ctx, email)
	if err == nil {
		return true, nil
	}
	if errors.Is(err, domain.ErrIdentityNotFound) {
		return false, nil
	}
	return false, err
}

func (r *IdentityRepository) UpdateProfile(ctx context.Context, id string, upd ports.ProfileUpdate) (*domain.Identity, error) {
	existing, err := r.Resolve(ctx, id)
	if err != nil {
		return nil, err
	}
	oid, _ := primitive.ObjectIDFromHex(existing.ID)

	set := bson.M{"updated_at": time.Now().UTC()}
	setIf := func(key string, v *string) {
		if v != nil {
			set[key] = *v
		}
	}
	setIf("full_name", upd.FullName)
	setIf("linkedin", upd.LinkedIn)
	setIf("course", upd.Course)
	setIf("usn", upd.USN)
	setIf("field_of_study", upd.FieldOfStudy)
	setIf("github", upd.GitHub)
	if upd.GraduationYear != nil {
		set["graduation_year"] = *upd.GraduationYear
	}

	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	after := options.After
	var doc identityDoc
	err = r.collection(existing.Kind).FindOneAndUpdate(
		ctx,
		bson.M{"_id": oid},
		bson.M{"$set": set},
		options.FindOneAndUpdate().SetReturnDocument(after),
	).Decode(&doc)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, domain.ErrIdentityNotFound
		}
		return nil, fmt.Errorf("update profile: %w", err)
	}
	return fromDoc(doc, existing.Kind), nil
}

func (r *IdentityRepository) ListSummaries(ctx context.Context, excludeID string) ([]domain.IdentitySummary, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	filter := bson.M{}
	if oid, err := primitive.ObjectIDFromHex(excludeID); err == nil {
		filter["_id"] = bson.M{"$ne": oid}
	}

	var out []domain.IdentitySummary
	for _, kind := range []domain.Kind{domain.KindStudent, domain.KindAlumni} {
		cur, err := r.collection(kind).Find(ctx, filter,
			options.Find().SetProjection(bson.M{"full_name": 1, "college_email": 1}))
		if err != nil {
			return nil, fmt.Errorf("list identities: %w", err)
		}
		var docs []identityDoc
		if err := cur.All(ctx, &docs); err != nil {
			return nil, fmt.Errorf("list identities: %w", err)
		}
		for _, doc := range docs {
			out = append(out, domain.IdentitySummary{
				ID:           doc.ID.Hex(),
				Kind:         kind,
				FullName:     doc.FullName,
				CollegeEmail: doc.CollegeEmail,
			})
		}
	}
	return out, nil
}

func (r *IdentityRepository) Summaries(ctx context.Context, ids []string) (map[string]domain.IdentitySummary, error) {
	oids := make([]primitive.ObjectID, 0, len(ids))
	for _, id := range ids {
		if oid, err := primitive.ObjectIDFromHex(id); err == nil {
			oids = append(oids, oid)
		}
	}
	out := make(map[string]domain.IdentitySummary, len(oids))
	if len(oids) == 0 {
		return out, nil
	}

	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	for _, kind := range []domain.Kind{domain.KindStudent, domain.KindAlumni} {
		cur, err := r.collection(kind).Find(ctx, bson.M{"_id": bson.M{"$in": oids}},
			options.Find().SetProjection(bson.M{"full_name": 1, "college_email": 1}))
		if err != nil {
			return nil, fmt.Errorf("batch summaries: %w", err)
		}
		var docs []identityDoc
		if err := cur.All(ctx, &docs); err != nil {
			return nil, fmt.Errorf("batch summaries: %w", err)
		}
		for _, doc := range docs {
			out[doc.ID.Hex()] = domain.IdentitySummary{
				ID:           doc.ID.Hex(),
				Kind:         kind,
				FullName:     doc.FullName,
				CollegeEmail: doc.CollegeEmail,
			}
		}
	}
	return out, nil
}

func (r *IdentityRepository) ListAll(ctx context.Context, kind domain.Kind) ([]*domain.Identity, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	cur, err := r.collection(kind).Find(ctx, bson.M{})
	if err != nil {
		return nil, fmt.Errorf("list %s: %w", kind, err)
	}
	var docs []identityDoc
	if err := cur.All(ctx, &docs); err != nil {
		return nil, fmt.Errorf("list %s: %w", kind, err)
	}

	out := make([]*domain.Identity, len(docs))
	for i, doc := range docs {
		out[i] = fromDoc(doc, kind)
	}
	return out, nil
}

// EnsureIndexes creates the unique per-collection email indexes.
func (r *IdentityRepository) EnsureIndexes(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()

	model := mongo.IndexModel{
		Keys:    bson.D{{Key: "college_email", Value: 1}},
		Options: options.Index().SetUnique(true),
	}
	if _, err := r.students.Indexes().CreateOne(ctx, model); err != nil {
		return fmt.Errorf("student email index: %w", err)
	}
	if _, err := r.alumni.Indexes().CreateOne(ctx, model); err != nil {
		return fmt.Errorf("alumni email index: %w", err)
	}
	return nil
}
