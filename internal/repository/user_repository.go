package repository

import (
	"context"
	"errors"
	"strings"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/devfolio/backend/internal/model"
)

// userDoc mirrors the 'users' collection. PasswordHash is nil for OAuth
// accounts without a password.
type userDoc struct {
	ID           primitive.ObjectID `bson:"_id,omitempty"`
	Email        string             `bson:"email"`
	PasswordHash *string            `bson:"password_hash"`
	FullName     string             `bson:"full_name,omitempty"`
	AvatarURL    string             `bson:"avatar_url,omitempty"`
	Provider     string             `bson:"provider"`
	GitHubID     string             `bson:"github_id,omitempty"`
	CreatedAt    time.Time          `bson:"created_at"`
	UpdatedAt    time.Time          `bson:"updated_at"`
}

func (d userDoc) model() model.User {
	return model.User{
		ID:        d.ID.Hex(),
		Email:     d.Email,
		FullName:  d.FullName,
		AvatarURL: d.AvatarURL,
		Provider:  d.Provider,
		CreatedAt: d.CreatedAt,
	}
}

// Credentials bundles what the login flow needs beyond the public user.
type Credentials struct {
	User         model.User
	PasswordHash string // empty when the account has no password
}

type UserRepo struct{ coll *mongo.Collection }

func NewUserRepo(coll *mongo.Collection) *UserRepo { return &UserRepo{coll: coll} }

// Create inserts an email/password user. The email is normalized to lower
// case and must be unique; a taken email reports ErrDuplicate.
func (r *UserRepo) Create(ctx context.Context, email, passwordHash, fullName string) (model.User, error) {
	email = strings.ToLower(strings.TrimSpace(email))

	if err := r.coll.FindOne(ctx, bson.M{"email": email}).Err(); err == nil {
		return model.User{}, ErrDuplicate
	} else if !errors.Is(err, mongo.ErrNoDocuments) {
		return model.User{}, err
	}

	now := time.Now().UTC()
	d := userDoc{
		Email:        email,
		PasswordHash: &passwordHash,
		FullName:     fullName,
		Provider:     model.ProviderEmail,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	res, err := r.coll.InsertOne(ctx, d)
	if err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return model.User{}, ErrDuplicate
		}
		return model.User{}, err
	}
	d.ID = res.InsertedID.(primitive.ObjectID)
	return d.model(), nil
}

// GetCredentialsByEmail fetches a user plus password hash for login.
func (r *UserRepo) GetCredentialsByEmail(ctx context.Context, email string) (Credentials, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	var d userDoc
	err := r.coll.FindOne(ctx, bson.M{"email": email}).Decode(&d)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return Credentials{}, ErrNotFound
	}
	if err != nil {
		return Credentials{}, err
	}
	c := Credentials{User: d.model()}
	if d.PasswordHash != nil {
		c.PasswordHash = *d.PasswordHash
	}
	return c, nil
}

// GetByID fetches a user by hex id.
func (r *UserRepo) GetByID(ctx context.Context, id string) (model.User, error) {
	o, err := oid(id)
	if err != nil {
		return model.User{}, err
	}
	var d userDoc
	err = r.coll.FindOne(ctx, bson.M{"_id": o}).Decode(&d)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return model.User{}, ErrNotFound
	}
	if err != nil {
		return model.User{}, err
	}
	return d.model(), nil
}

// UpsertGitHub links or creates an account from a GitHub OAuth profile.
// Matching prefers the GitHub id, then falls back to the verified email so
// an existing email account gets linked instead of duplicated.
func (r *UserRepo) UpsertGitHub(ctx context.Context, githubID, email, fullName, avatarURL string) (model.User, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	now := time.Now().UTC()

	var d userDoc
	err := r.coll.FindOne(ctx, bson.M{"github_id": githubID}).Decode(&d)
	if errors.Is(err, mongo.ErrNoDocuments) {
		err = r.coll.FindOne(ctx, bson.M{"email": email}).Decode(&d)
	}
	switch {
	case err == nil:
		set := bson.M{"github_id": githubID, "avatar_url": avatarURL, "updated_at": now}
		if fullName != "" {
			set["full_name"] = fullName
		}
		if _, err := r.coll.UpdateOne(ctx, bson.M{"_id": d.ID}, bson.M{"$set": set}); err != nil {
			return model.User{}, err
		}
		return r.GetByID(ctx, d.ID.Hex())
	case errors.Is(err, mongo.ErrNoDocuments):
		d = userDoc{
			Email:     email,
			FullName:  fullName,
			AvatarURL: avatarURL,
			Provider:  model.ProviderGitHub,
			GitHubID:  githubID,
			CreatedAt: now,
			UpdatedAt: now,
		}
		res, err := r.coll.InsertOne(ctx, d)
		if err != nil {
			return model.User{}, err
		}
		d.ID = res.InsertedID.(primitive.ObjectID)
		return d.model(), nil
	default:
		return model.User{}, err
	}
}
