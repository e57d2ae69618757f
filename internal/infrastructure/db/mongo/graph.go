package mongo

import (
	"context"
	"fmt"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/campusconnect/alumni-api/internal/core/domain"
)

// Follow edges are stored redundantly: the follower document carries the
// followee id in one of its outgoing sets, and the followee document carries
// the follower id in its followers set. Both writes run inside one
// multi-document transaction so a crash or concurrent failure can never leave
// a one-sided edge.

func outgoingField(followeeKind domain.Kind) string {
	if followeeKind == domain.KindAlumni {
		return "following_alumni"
	}
	return "following_students"
}

func (r *IdentityRepository) AddFollow(ctx context.Context, follower, followee *domain.Identity) error {
	return r.updateEdge(ctx, follower, followee, "$addToSet")
}

func (r *IdentityRepository) RemoveFollow(ctx context.Context, follower, followee *domain.Identity) error {
	return r.updateEdge(ctx, follower, followee, "$pull")
}

func (r *IdentityRepository) updateEdge(ctx context.Context, follower, followee *domain.Identity, op string) error {
	followerOID, err := primitive.ObjectIDFromHex(follower.ID)
	if err != nil {
		return domain.ErrIdentityNotFound
	}
	followeeOID, err := primitive.ObjectIDFromHex(followee.ID)
	if err != nil {
		return domain.ErrIdentityNotFound
	}

	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	client := r.students.Database().Client()
	session, err := client.StartSession()
	if err != nil {
		return fmt.Errorf("start session: %w", err)
	}
	defer session.EndSession(ctx)

	_, err = session.WithTransaction(ctx, func(sc mongo.SessionContext) (any, error) {
		_, err := r.collection(follower.Kind).UpdateOne(sc,
			bson.M{"_id": followerOID},
			bson.M{op: bson.M{outgoingField(followee.Kind): followee.ID}},
		)
		if err != nil {
			return nil, err
		}

		_, err = r.collection(followee.Kind).UpdateOne(sc,
			bson.M{"_id": followeeOID},
			bson.M{op: bson.M{"followers": follower.ID}},
		)
		if err != nil {
			return nil, err
		}
		return nil, nil
	})
	if err != nil {
		return fmt.Errorf("update follow edge: %w", err)
	}
	return nil
}
