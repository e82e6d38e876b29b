package mongo

import (
	"context"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/pawcare/auth-service/internal/core/domain"
)

// SessionRepository implements ports.SessionRepository on the sessions collection.
type SessionRepository struct {
	coll *mongo.Collection
}

func NewSessionRepository(db *mongo.Database) *SessionRepository {
	return &SessionRepository{coll: db.Collection(sessionsCollection)}
}

type mongoSession struct {
	Token     string    `bson:"token"`
	UserID    string    `bson:"user_id"`
	Expires   time.Time `bson:"expires"`
	UserAgent string    `bson:"user_agent"`
	IP        string    `bson:"ip"`
	CreatedAt time.Time `bson:"created_at"`

	// User is only populated by the $lookup in FindByToken.
	User []mongoUser `bson:"user,omitempty"`
}

func (r *SessionRepository) Create(ctx context.Context, s *domain.Session) error {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	doc := mongoSession{
		Token:     s.Token,
		UserID:    s.UserID,
		Expires:   s.Expires.UTC(),
		UserAgent: s.Device.UserAgent,
		IP:        s.Device.IP,
		CreatedAt: s.CreatedAt.UTC(),
	}

	if _, err := r.coll.InsertOne(ctx, doc); err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return domain.ErrSessionExists
		}
		return fmt.Errorf("insert session: %w", err)
	}
	return nil
}

// FindByToken loads a session and joins its owner from the users collection.
func (r *SessionRepository) FindByToken(ctx context.Context, token string) (*domain.Session, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	pipeline := mongo.Pipeline{
		{{Key: "$match", Value: bson.M{"token": token}}},
		{{Key: "$limit", Value: 1}},
		{{Key: "$lookup", Value: bson.M{
			"from":         usersCollection,
			"localField":   "user_id",
			"foreignField": "_id",
			"as":           "user",
		}}},
	}

	cur, err := r.coll.Aggregate(ctx, pipeline)
	if err != nil {
		return nil, fmt.Errorf("find session: %w", err)
	}
	defer cur.Close(ctx)

	if !cur.Next(ctx) {
		if err := cur.Err(); err != nil {
			return nil, fmt.Errorf("find session: %w", err)
		}
		return nil, domain.ErrSessionNotFound
	}

	var doc mongoSession
	if err := cur.Decode(&doc); err != nil {
		return nil, fmt.Errorf("decode session: %w", err)
	}

	s := &domain.Session{
		Token:     doc.Token,
		UserID:    doc.UserID,
		Expires:   doc.Expires.UTC(),
		Device:    domain.DeviceInfo{UserAgent: doc.UserAgent, IP: doc.IP},
		CreatedAt: doc.CreatedAt.UTC(),
	}
	if len(doc.User) > 0 {
		s.User = doc.User[0].toDomain()
	}
	return s, nil
}

func (r *SessionRepository) Delete(ctx context.Context, token string) error {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	res, err := r.coll.DeleteOne(ctx, bson.M{"token": token})
	if err != nil {
		return fmt.Errorf("delete session: %w", err)
	}
	if res.DeletedCount == 0 {
		return domain.ErrSessionNotFound
	}
	return nil
}

func (r *SessionRepository) DeleteByUser(ctx context.Context, userID string) (int64, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	res, err := r.coll.DeleteMany(ctx, bson.M{"user_id": userID})
	if err != nil {
		return 0, fmt.Errorf("delete user sessions: %w", err)
	}
	return res.DeletedCount, nil
}
