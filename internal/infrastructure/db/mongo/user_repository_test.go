package mongo

import (
	"context"
	"testing"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo/integration/mtest"

	"github.com/dannykhan02/Lenny-media-backend/internal/core/domain"
)

func sampleUser() *domain.User {
	now := time.Date(2026, 2, 1, 9, 0, 0, 0, time.UTC)
	return &domain.User{
		ID:           "3f6c1e9a-0000-4000-8000-000000000001",
		Email:        "a@b.co",
		PasswordHash: "$2a$04$hash",
		FullName:     "A B",
		Role:         domain.RoleStaff,
		IsActive:     true,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
}

func userDoc(u *domain.User) bson.D {
	return bson.D{
		{Key: "_id", Value: u.ID},
		{Key: "email", Value: u.Email},
		{Key: "password_hash", Value: u.PasswordHash},
		{Key: "full_name", Value: u.FullName},
		{Key: "role", Value: u.Role.String()},
		{Key: "is_active", Value: u.IsActive},
		{Key: "created_at", Value: u.CreatedAt},
		{Key: "updated_at", Value: u.UpdatedAt},
	}
}

func TestUserRepository(t *testing.T) {
	mt := mtest.New(t, mtest.NewOptions().ClientType(mtest.Mock))

	mt.Run("find by email", func(mt *mtest.T) {
		repo := NewUserRepository(mt.DB)
		want := sampleUser()
		mt.AddMockResponses(mtest.CreateCursorResponse(0, "studio.users", mtest.FirstBatch, userDoc(want)))

		got, err := repo.FindByEmail(context.Background(), want.Email)
		if err != nil {
			t.Fatalf("FindByEmail: %v", err)
		}
		if got.ID != want.ID || got.Role != domain.RoleStaff || got.PasswordHash != want.PasswordHash {
			t.Fatalf("unexpected user: %+v", got)
		}
	})

	mt.Run("find by id miss", func(mt *mtest.T) {
		repo := NewUserRepository(mt.DB)
		mt.AddMockResponses(mtest.CreateCursorResponse(0, "studio.users", mtest.FirstBatch))

		if _, err := repo.FindByID(context.Background(), "missing"); err != domain.ErrUserNotFound {
			t.Fatalf("expected ErrUserNotFound, got %v", err)
		}
	})

	mt.Run("create duplicate email", func(mt *mtest.T) {
		repo := NewUserRepository(mt.DB)
		mt.AddMockResponses(mtest.CreateWriteErrorsResponse(mtest.WriteError{
			Index:   0,
			Code:    11000,
			Message: "E11000 duplicate key error collection: studio.users index: uniq_email",
		}))

		if _, err := repo.Create(context.Background(), sampleUser()); err != domain.ErrEmailAlreadyExists {
			t.Fatalf("expected ErrEmailAlreadyExists, got %v", err)
		}
	})

	mt.Run("update missing user", func(mt *mtest.T) {
		repo := NewUserRepository(mt.DB)
		mt.AddMockResponses(mtest.CreateSuccessResponse(
			bson.E{Key: "n", Value: 0},
			bson.E{Key: "nModified", Value: 0},
		))

		if _, err := repo.Update(context.Background(), sampleUser()); err != domain.ErrUserNotFound {
			t.Fatalf("expected ErrUserNotFound, got %v", err)
		}
	})

	mt.Run("exists with role", func(mt *mtest.T) {
		repo := NewUserRepository(mt.DB)
		mt.AddMockResponses(mtest.CreateCursorResponse(0, "studio.users", mtest.FirstBatch, bson.D{{Key: "n", Value: 1}}))

		ok, err := repo.ExistsWithRole(context.Background(), domain.RoleAdmin)
		if err != nil || !ok {
			t.Fatalf("expected admin to exist: %v %v", ok, err)
		}
	})

	mt.Run("first admin guard already claimed", func(mt *mtest.T) {
		repo := NewUserRepository(mt.DB)
		mt.AddMockResponses(mtest.CreateSuccessResponse(
			bson.E{Key: "n", Value: 1},
			bson.E{Key: "nModified", Value: 0},
		))

		if _, err := repo.CreateFirstAdmin(context.Background(), sampleUser()); err != domain.ErrAdminAlreadyExists {
			t.Fatalf("expected ErrAdminAlreadyExists, got %v", err)
		}
	})

	mt.Run("first admin guard claimed by this call", func(mt *mtest.T) {
		repo := NewUserRepository(mt.DB)
		admin := sampleUser()
		admin.Role = domain.RoleAdmin
		mt.AddMockResponses(
			mtest.CreateSuccessResponse(
				bson.E{Key: "n", Value: 1},
				bson.E{Key: "nModified", Value: 0},
				bson.E{Key: "upserted", Value: bson.A{bson.D{{Key: "index", Value: 0}, {Key: "_id", Value: firstAdminGuard}}}},
			),
			mtest.CreateSuccessResponse(bson.E{Key: "n", Value: 1}),
		)

		created, err := repo.CreateFirstAdmin(context.Background(), admin)
		if err != nil {
			t.Fatalf("CreateFirstAdmin: %v", err)
		}
		if created.Role != domain.RoleAdmin {
			t.Fatalf("expected admin role, got %s", created.Role)
		}
	})
}
