package mongo

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/dannykhan02/Lenny-media-backend/internal/core/domain"
)

const firstAdminGuard = "first_admin"

// UserRepository implements ports.UserRepository on the users collection.
type UserRepository struct {
	users  *mongo.Collection
	guards *mongo.Collection
}

func NewUserRepository(db *mongo.Database) *UserRepository {
	return &UserRepository{
		users:  db.Collection(collectionUsers),
		guards: db.Collection(collectionGuards),
	}
}

type mongoUser struct {
	ID           string     `bson:"_id"`
	Email        string     `bson:"email"`
	PasswordHash string     `bson:"password_hash"`
	FullName     string     `bson:"full_name"`
	Phone        string     `bson:"phone,omitempty"`
	AvatarURL    string     `bson:"avatar_url,omitempty"`
	Role         string     `bson:"role"`
	IsActive     bool       `bson:"is_active"`
	LastLogin    *time.Time `bson:"last_login,omitempty"`
	CreatedAt    time.Time  `bson:"created_at"`
	UpdatedAt    time.Time  `bson:"updated_at"`
}

func toMongoUser(u *domain.User) mongoUser {
	return mongoUser{
		ID:           u.ID,
		Email:        u.Email,
		PasswordHash: u.PasswordHash,
		FullName:     u.FullName,
		Phone:        u.Phone,
		AvatarURL:    u.AvatarURL,
		Role:         u.Role.String(),
		IsActive:     u.IsActive,
		LastLogin:    u.LastLogin,
		CreatedAt:    u.CreatedAt.UTC(),
		UpdatedAt:    u.UpdatedAt.UTC(),
	}
}

func (m mongoUser) toDomain() *domain.User {
	return &domain.User{
		ID:           m.ID,
		Email:        m.Email,
		PasswordHash: m.PasswordHash,
		FullName:     m.FullName,
		Phone:        m.Phone,
		AvatarURL:    m.AvatarURL,
		Role:         domain.Role(m.Role),
		IsActive:     m.IsActive,
		LastLogin:    m.LastLogin,
		CreatedAt:    m.CreatedAt,
		UpdatedAt:    m.UpdatedAt,
	}
}

func (r *UserRepository) Create(ctx context.Context, user *domain.User) (*domain.User, error) {
	doc := toMongoUser(user)
	if _, err := r.users.InsertOne(ctx, doc); err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return nil, domain.ErrEmailAlreadyExists
		}
		return nil, fmt.Errorf("insert user: %w", err)
	}
	return doc.toDomain(), nil
}

func (r *UserRepository) FindByEmail(ctx context.Context, email string) (*domain.User, error) {
	return r.findOne(ctx, bson.M{"email": email})
}

func (r *UserRepository) FindByID(ctx context.Context, id string) (*domain.User, error) {
	return r.findOne(ctx, bson.M{"_id": id})
}

func (r *UserRepository) findOne(ctx context.Context, filter bson.M) (*domain.User, error) {
	var mu mongoUser
	if err := r.users.FindOne(ctx, filter).Decode(&mu); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, domain.ErrUserNotFound
		}
		return nil, fmt.Errorf("find user: %w", err)
	}
	return mu.toDomain(), nil
}

// Update overwrites the mutable fields of an existing user.
func (r *UserRepository) Update(ctx context.Context, user *domain.User) (*domain.User, error) {
	doc := toMongoUser(user)
	update := bson.M{"$set": bson.M{
		"full_name":  doc.FullName,
		"phone":      doc.Phone,
		"avatar_url": doc.AvatarURL,
		"is_active":  doc.IsActive,
		"last_login": doc.LastLogin,
		"updated_at": doc.UpdatedAt,
	}}

	res, err := r.users.UpdateOne(ctx, bson.M{"_id": doc.ID}, update)
	if err != nil {
		return nil, fmt.Errorf("update user: %w", err)
	}
	if res.MatchedCount == 0 {
		return nil, domain.ErrUserNotFound
	}
	return doc.toDomain(), nil
}

func (r *UserRepository) ExistsWithRole(ctx context.Context, role domain.Role) (bool, error) {
	n, err := r.users.CountDocuments(ctx, bson.M{"role": role.String()}, options.Count().SetLimit(1))
	if err != nil {
		return false, fmt.Errorf("count users by role: %w", err)
	}
	return n > 0, nil
}

func (r *UserRepository) List(ctx context.Context) ([]*domain.User, error) {
	cur, err := r.users.Find(ctx, bson.M{}, options.Find().SetSort(bson.D{{Key: "created_at", Value: 1}}))
	if err != nil {
		return nil, fmt.Errorf("list users: %w", err)
	}
	defer cur.Close(ctx)

	var docs []mongoUser
	if err := cur.All(ctx, &docs); err != nil {
		return nil, fmt.Errorf("decode users: %w", err)
	}

	users := make([]*domain.User, 0, len(docs))
	for _, d := range docs {
		users = append(users, d.toDomain())
	}
	return users, nil
}

// CreateFirstAdmin claims the first_admin guard document with an upsert and
// only inserts the user when this call created the guard. Concurrent callers
// lose the upsert (or hit a duplicate key) and get ErrAdminAlreadyExists.
func (r *UserRepository) CreateFirstAdmin(ctx context.Context, user *domain.User) (*domain.User, error) {
	res, err := r.guards.UpdateOne(ctx,
		bson.M{"_id": firstAdminGuard},
		bson.M{"$setOnInsert": bson.M{"user_id": user.ID, "created_at": time.Now().UTC()}},
		options.Update().SetUpsert(true),
	)
	if err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return nil, domain.ErrAdminAlreadyExists
		}
		return nil, fmt.Errorf("claim first admin guard: %w", err)
	}
	if res.UpsertedCount == 0 {
		return nil, domain.ErrAdminAlreadyExists
	}

	created, err := r.Create(ctx, user)
	if err != nil {
		// Release the guard so a corrected request can retry.
		if _, delErr := r.guards.DeleteOne(ctx, bson.M{"_id": firstAdminGuard}); delErr != nil {
			return nil, errors.Join(err, fmt.Errorf("release first admin guard: %w", delErr))
		}
		return nil, err
	}
	return created, nil
}
