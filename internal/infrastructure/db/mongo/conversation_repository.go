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

const (
	conversationCollection = "conversations"
	messageCollection      = "messages"
)

// ConversationRepository persists conversations and messages. Conversations
// carry a unique index on the canonical pair key, which is what makes Ensure
// race-free under concurrent first messages.
type ConversationRepository struct {
	convs    *mongo.Collection
	messages *mongo.Collection
}

func NewConversationRepository(db *mongo.Database) *ConversationRepository {
	return &ConversationRepository{
		convs:    db.Collection(conversationCollection),
		messages: db.Collection(messageCollection),
	}
}

type conversationDoc struct {
	ID           primitive.ObjectID   `bson:"_id,omitempty"`
	Key          string               `bson:"key"`
	Participants []string             `bson:"participants"`
	MessageIDs   []primitive.ObjectID `bson:"message_ids"`
	CreatedAt    time.Time            `bson:"created_at"`
}

type messageDoc struct {
	ID             primitive.ObjectID `bson:"_id,omitempty"`
	ConversationID primitive.ObjectID `bson:"conversation_id"`
	Sender         refDoc             `bson:"sender"`
	Receiver       refDoc             `bson:"receiver"`
	Body           string             `bson:"message"`
	CreatedAt      time.Time          `bson:"created_at"`
}

type refDoc struct {
	ID   string `bson:"id"`
	Kind string `bson:"kind"`
}

func fromConversationDoc(doc conversationDoc) *domain.Conversation {
	conv := &domain.Conversation{
		ID:        doc.ID.Hex(),
		Key:       doc.Key,
		CreatedAt: doc.CreatedAt,
	}
	copy(conv.Participants[:], doc.Participants)
	conv.MessageIDs = make([]string, len(doc.MessageIDs))
	for i, id := range doc.MessageIDs {
		conv.MessageIDs[i] = id.Hex()
	}
	return conv
}

func fromMessageDoc(doc messageDoc) *domain.Message {
	return &domain.Message{
		ID:             doc.ID.Hex(),
		ConversationID: doc.ConversationID.Hex(),
		Sender:         domain.Ref{ID: doc.Sender.ID, Kind: domain.Kind(doc.Sender.Kind)},
		Receiver:       domain.Ref{ID: doc.Receiver.ID, Kind: domain.Kind(doc.Receiver.Kind)},
		Body:           doc.Body,
		CreatedAt:      doc.CreatedAt,
	}
}

// Ensure returns the conversation for key, creating it when absent. The
// upsert races harmlessly: the unique key index guarantees at most one
// document, and every contender gets that one back.
func (r *ConversationRepository) Ensure(ctx context.Context, key string, participants [2]string) (*domain.Conversation, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	var doc conversationDoc
	err := r.convs.FindOneAndUpdate(
		ctx,
		bson.M{"key": key},
		bson.M{"$setOnInsert": bson.M{
			"key":          key,
			"participants": participants[:],
			"message_ids":  []primitive.ObjectID{},
			"created_at":   time.Now().UTC(),
		}},
		options.FindOneAndUpdate().SetUpsert(true).SetReturnDocument(options.After),
	).Decode(&doc)
	if err != nil {
		return nil, fmt.Errorf("ensure conversation: %w", err)
	}
	return fromConversationDoc(doc), nil
}

func (r *ConversationRepository) FindByKey(ctx context.Context, key string) (*domain.Conversation, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	var doc conversationDoc
	err := r.convs.FindOne(ctx, bson.M{"key": key}).Decode(&doc)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, domain.ErrConversationNotFound
		}
		return nil, fmt.Errorf("find conversation: %w", err)
	}
	return fromConversationDoc(doc), nil
}

// AppendMessage inserts the message and links its id into the conversation's
// ordered sequence inside one transaction.
func (r *ConversationRepository) AppendMessage(ctx context.Context, conversationID string, msg *domain.Message) (*domain.Message, error) {
	convOID, err := primitive.ObjectIDFromHex(conversationID)
	if err != nil {
		return nil, domain.ErrConversationNotFound
	}

	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	doc := messageDoc{
		ConversationID: convOID,
		Sender:         refDoc{ID: msg.Sender.ID, Kind: string(msg.Sender.Kind)},
		Receiver:       refDoc{ID: msg.Receiver.ID, Kind: string(msg.Receiver.Kind)},
		Body:           msg.Body,
		CreatedAt:      msg.CreatedAt,
	}

	client := r.convs.Database().Client()
	session, err := client.StartSession()
	if err != nil {
		return nil, fmt.Errorf("start session: %w", err)
	}
	defer session.EndSession(ctx)

	var msgID primitive.ObjectID
	_, err = session.WithTransaction(ctx, func(sc mongo.SessionContext) (any, error) {
		res, err := r.messages.InsertOne(sc, doc)
		if err != nil {
			return nil, err
		}
		msgID = res.InsertedID.(primitive.ObjectID)

		_, err = r.convs.UpdateByID(sc, convOID, bson.M{"$push": bson.M{"message_ids": msgID}})
		return nil, err
	})
	if err != nil {
		return nil, fmt.Errorf("append message: %w", err)
	}

	stored := *msg
	stored.ID = msgID.Hex()
	stored.ConversationID = conversationID
	return &stored, nil
}

// Messages returns the conversation's messages in append order. ObjectIDs are
// monotone per process, and appends are serialized through the transaction
// above, so sorting by _id reproduces the MessageIDs sequence.
func (r *ConversationRepository) Messages(ctx context.Context, conversationID string) ([]*domain.Message, error) {
	convOID, err := primitive.ObjectIDFromHex(conversationID)
	if err != nil {
		return nil, domain.ErrConversationNotFound
	}

	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	cur, err := r.messages.Find(ctx, bson.M{"conversation_id": convOID},
		options.Find().SetSort(bson.D{{Key: "_id", Value: 1}}))
	if err != nil {
		return nil, fmt.Errorf("list messages: %w", err)
	}
	var docs []messageDoc
	if err := cur.All(ctx, &docs); err != nil {
		return nil, fmt.Errorf("list messages: %w", err)
	}

	out := make([]*domain.Message, len(docs))
	for i, d := range docs {
		out[i] = fromMessageDoc(d)
	}
	return out, nil
}

// EnsureIndexes creates the unique pair-key index and the message lookup index.
func (r *ConversationRepository) EnsureIndexes(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()

	_, err := r.convs.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys:    bson.D{{Key: "key", Value: 1}},
		Options: options.Index().SetUnique(true),
	})
	if err != nil {
		return fmt.Errorf("conversation key index: %w", err)
	}

	_, err = r.messages.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys: bson.D{{Key: "conversation_id", Value: 1}},
	})
	if err != nil {
		return fmt.Errorf("message conversation index: %w", err)
	}
	return nil
}
