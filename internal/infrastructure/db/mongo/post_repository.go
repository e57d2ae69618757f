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
)

const postCollection = "posts"

type PostRepository struct {
	col *mongo.Collection
}

func NewPostRepository(db *mongo.Database) *PostRepository {
	return &PostRepository{col: db.Collection(postCollection)}
}

type commentDoc struct {
	Content   string    `bson:"content"`
	Author    refDoc    `bson:"author"`
	CreatedAt time.Time `bson:"created_at"`
}

type postDoc struct {
	ID        primitive.ObjectID `bson:"_id,omitempty"`
	Title     string             `bson:"title"`
	Content   string             `bson:"content"`
	Author    refDoc             `bson:"author"`
	Likes     []refDoc           `bson:"likes"`
	Comments  []commentDoc       `bson:"comments"`
	CreatedAt time.Time          `bson:"created_at"`
	UpdatedAt time.Time          `bson:"updated_at"`
}

func fromPostDoc(doc postDoc) *domain.Post {
	post := &domain.Post{
		ID:        doc.ID.Hex(),
		Title:     doc.Title,
		Content:   doc.Content,
		Author:    domain.Ref{ID: doc.Author.ID, Kind: domain.Kind(doc.Author.Kind)},
		Likes:     make([]domain.Ref, len(doc.Likes)),
		Comments:  make([]domain.Comment, len(doc.Comments)),
		CreatedAt: doc.CreatedAt,
		UpdatedAt: doc.UpdatedAt,
	}
	for i, l := range doc.Likes {
		post.Likes[i] = domain.Ref{ID: l.ID, Kind: domain.Kind(l.Kind)}
	}
	for i, c := range doc.Comments {
		post.Comments[i] = domain.Comment{
			Content:   c.Content,
			Author:    domain.Ref{ID: c.Author.ID, Kind: domain.Kind(c.Author.Kind)},
			CreatedAt: c.CreatedAt,
		}
	}
	return post
}

func (r *PostRepository) Create(ctx context.Context, post *domain.Post) (*domain.Post, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	doc := postDoc{
		Title:     post.Title,
		Content:   post.Content,
		Author:    refDoc{ID: post.Author.ID, Kind: string(post.Author.Kind)},
		Likes:     []refDoc{},
		Comments:  []commentDoc{},
		CreatedAt: post.CreatedAt,
		UpdatedAt: post.UpdatedAt,
	}
	res, err := r.col.InsertOne(ctx, doc)
	if err != nil {
		return nil, fmt.Errorf("insert post: %w", err)
	}

	created := *post
	created.ID = res.InsertedID.(primitive.ObjectID).Hex()
	if created.Likes == nil {
		created.Likes = []domain.Ref{}
	}
	if created.Comments == nil {
		created.Comments = []domain.Comment{}
	}
	return &created, nil
}

func (r *PostRepository) FindByID(ctx context.Context, id string) (*domain.Post, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, domain.ErrPostNotFound
	}

	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	var doc postDoc
	if err := r.col.FindOne(ctx, bson.M{"_id": oid}).Decode(&doc); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, domain.ErrPostNotFound
		}
		return nil, fmt.Errorf("find post: %w", err)
	}
	return fromPostDoc(doc), nil
}

func (r *PostRepository) List(ctx context.Context) ([]*domain.Post, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	cur, err := r.col.Find(ctx, bson.M{},
		options.Find().SetSort(bson.D{{Key: "created_at", Value: -1}}))
	if err != nil {
		return nil, fmt.Errorf("list posts: %w", err)
	}
	var docs []postDoc
	if err := cur.All(ctx, &docs); err != nil {
		return nil, fmt.Errorf("list posts: %w", err)
	}

	out := make([]*domain.Post, len(docs))
	for i, d := range docs {
		out[i] = fromPostDoc(d)
	}
	return out, nil
}

func (r *PostRepository) AddComment(ctx context.Context, postID string, comment domain.Comment) (*domain.Post, error) {
	return r.findAndUpdate(ctx, postID, bson.M{
		"$push": bson.M{"comments": commentDoc{
			Content:   comment.Content,
			Author:    refDoc{ID: comment.Author.ID, Kind: string(comment.Author.Kind)},
			CreatedAt: comment.CreatedAt,
		}},
		"$set": bson.M{"updated_at": time.Now().UTC()},
	})
}

func (r *PostRepository) AddLike(ctx context.Context, postID string, liker domain.Ref) (*domain.Post, error) {
	return r.findAndUpdate(ctx, postID, bson.M{
		"$addToSet": bson.M{"likes": refDoc{ID: liker.ID, Kind: string(liker.Kind)}},
		"$set":      bson.M{"updated_at": time.Now().UTC()},
	})
}

func (r *PostRepository) RemoveLike(ctx context.Context, postID string, likerID string) (*domain.Post, error) {
	return r.findAndUpdate(ctx, postID, bson.M{
		"$pull": bson.M{"likes": bson.M{"id": likerID}},
		"$set":  bson.M{"updated_at": time.Now().UTC()},
	})
}

func (r *PostRepository) findAndUpdate(ctx context.Context, postID string, update bson.M) (*domain.Post, error) {
	oid, err := primitive.ObjectIDFromHex(postID)
	if err != nil {
		return nil, domain.ErrPostNotFound
	}

	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	var doc postDoc
	err = r.col.FindOneAndUpdate(ctx, bson.M{"_id": oid}, update,
		options.FindOneAndUpdate().SetReturnDocument(options.After)).Decode(&doc)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, domain.ErrPostNotFound
		}
		return nil, fmt.Errorf("update post: %w", err)
	}
	return fromPostDoc(doc), nil
}

// EnsureIndexes creates the newest-first listing index.
func (r *PostRepository) EnsureIndexes(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()

	_, err := r.col.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys: bson.D{{Key: "created_at", Value: -1}},
	})
	if err != nil {
		return fmt.Errorf("post created_at index: %w", err)
	}
	return nil
}
