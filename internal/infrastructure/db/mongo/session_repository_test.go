package mongo

import (
	"context"
	"errors"
	"testing"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo/integration/mtest"

	"github.com/pawcare/auth-service/internal/core/domain"
)

func TestSessionRepository(t *testing.T) {
	mt := mtest.New(t, mtest.NewOptions().ClientType(mtest.Mock))
	ns := "pawcare_auth." + sessionsCollection
	at := time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)

	sessionDoc := func(user ...bson.D) bson.D {
		users := bson.A{}
		for _, u := range user {
			users = append(users, u)
		}
		return bson.D{
			{Key: "token", Value: "rt-1"},
			{Key: "user_id", Value: "u1"},
			{Key: "expires", Value: at.Add(7 * 24 * time.Hour)},
			{Key: "user_agent", Value: "curl/8"},
			{Key: "ip", Value: "10.0.0.1"},
			{Key: "created_at", Value: at},
			{Key: "user", Value: users},
		}
	}

	mt.Run("create duplicate token", func(mt *mtest.T) {
		repo := NewSessionRepository(mt.DB)
		mt.AddMockResponses(mtest.CreateWriteErrorsResponse(mtest.WriteError{
			Index:   0,
			Code:    11000,
			Message: "E11000 duplicate key error collection: sessions index: token_1",
		}))

		err := repo.Create(context.Background(), &domain.Session{Token: "rt-1", UserID: "u1", Expires: at})
		if !errors.Is(err, domain.ErrSessionExists) {
			mt.Fatalf("err = %v, want ErrSessionExists", err)
		}
	})

	mt.Run("find joins owner", func(mt *mtest.T) {
		repo := NewSessionRepository(mt.DB)
		mt.AddMockResponses(mtest.CreateCursorResponse(0, ns, mtest.FirstBatch,
			sessionDoc(userDoc("u1", "a@x.io", true, at))))

		s, err := repo.FindByToken(context.Background(), "rt-1")
		if err != nil {
			mt.Fatalf("FindByToken: %v", err)
		}
		if s.UserID != "u1" || s.Device.IP != "10.0.0.1" || !s.Expires.Equal(at.Add(7*24*time.Hour)) {
			mt.Fatalf("unexpected session %+v", s)
		}
		if s.User == nil || s.User.Email != "a@x.io" {
			mt.Fatalf("owner not joined: %+v", s.User)
		}
	})

	mt.Run("find with deleted owner", func(mt *mtest.T) {
		repo := NewSessionRepository(mt.DB)
		mt.AddMockResponses(mtest.CreateCursorResponse(0, ns, mtest.FirstBatch, sessionDoc()))

		s, err := repo.FindByToken(context.Background(), "rt-1")
		if err != nil {
			mt.Fatalf("FindByToken: %v", err)
		}
		if s.User != nil {
			mt.Fatalf("expected nil owner, got %+v", s.User)
		}
	})

	mt.Run("find missing", func(mt *mtest.T) {
		repo := NewSessionRepository(mt.DB)
		mt.AddMockResponses(mtest.CreateCursorResponse(0, ns, mtest.FirstBatch))

		_, err := repo.FindByToken(context.Background(), "nope")
		if !errors.Is(err, domain.ErrSessionNotFound) {
			mt.Fatalf("err = %v, want ErrSessionNotFound", err)
		}
	})

	mt.Run("delete nothing matched", func(mt *mtest.T) {
		repo := NewSessionRepository(mt.DB)
		mt.AddMockResponses(mtest.CreateSuccessResponse(bson.E{Key: "n", Value: 0}))

		err := repo.Delete(context.Background(), "nope")
		if !errors.Is(err, domain.ErrSessionNotFound) {
			mt.Fatalf("err = %v, want ErrSessionNotFound", err)
		}
	})

	mt.Run("delete by user", func(mt *mtest.T) {
		repo := NewSessionRepository(mt.DB)
		mt.AddMockResponses(mtest.CreateSuccessResponse(bson.E{Key: "n", Value: 3}))

		n, err := repo.DeleteByUser(context.Background(), "u1")
		if err != nil {
			mt.Fatalf("DeleteByUser: %v", err)
		}
		if n != 3 {
			mt.Fatalf("deleted = %d, want 3", n)
		}
	})
}

func TestAuditRepositoryInsert(t *testing.T) {
	mt := mtest.New(t, mtest.NewOptions().ClientType(mtest.Mock))

	mt.Run("insert", func(mt *mtest.T) {
		repo := NewAuditRepository(mt.DB)
		mt.AddMockResponses(mtest.CreateSuccessResponse())

		err := repo.Insert(context.Background(), &domain.AuditEvent{
			Type:       domain.AuditLoginFailed,
			Email:      "a@x.io",
			Reason:     "bad_password",
			OccurredAt: time.Now(),
		})
		if err != nil {
			mt.Fatalf("Insert: %v", err)
		}
	})

	mt.Run("insert failure is wrapped", func(mt *mtest.T) {
		repo := NewAuditRepository(mt.DB)
		mt.AddMockResponses(mtest.CreateCommandErrorResponse(mtest.CommandError{
			Code:    2,
			Name:    "BadValue",
			Message: "boom",
		}))

		if err := repo.Insert(context.Background(), &domain.AuditEvent{Type: domain.AuditLogout}); err == nil {
			mt.Fatal("expected error")
		}
	})
}
