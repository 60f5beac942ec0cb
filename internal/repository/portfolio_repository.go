package repository

import (
	"context"
	"errors"
	"strings"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/devfolio/backend/internal/model"
)

// portfolioDoc mirrors the 'portfolios' collection.
type portfolioDoc struct {
	ID           primitive.ObjectID `bson:"_id,omitempty"`
	UserID       primitive.ObjectID `bson:"user_id"`
	Title        string             `bson:"title"`
	Subdomain    string             `bson:"subdomain"`
	CustomDomain string             `bson:"custom_domain,omitempty"`
	Content      map[string]any     `bson:"content"`
	ThemeConfig  map[string]any     `bson:"theme_config"`
	IsPublished  bool               `bson:"is_published"`
	CreatedAt    time.Time          `bson:"created_at"`
	UpdatedAt    time.Time          `bson:"updated_at"`
}

func (d portfolioDoc) model() model.Portfolio {
	return model.Portfolio{
		ID:           d.ID.Hex(),
		UserID:       d.UserID.Hex(),
		Title:        d.Title,
		Subdomain:    d.Subdomain,
		CustomDomain: d.CustomDomain,
		Content:      d.Content,
		ThemeConfig:  d.ThemeConfig,
		IsPublished:  d.IsPublished,
		CreatedAt:    d.CreatedAt,
		UpdatedAt:    d.UpdatedAt,
	}
}

type PortfolioRepo struct{ coll *mongo.Collection }

func NewPortfolioRepo(coll *mongo.Collection) *PortfolioRepo { return &PortfolioRepo{coll: coll} }

// subdomainTaken reports whether another document already claims the
// subdomain. exclude may be NilObjectID for create-time checks.
func (r *PortfolioRepo) subdomainTaken(ctx context.Context, subdomain string, exclude primitive.ObjectID) (bool, error) {
	filter := bson.M{"subdomain": subdomain}
	if !exclude.IsZero() {
		filter["_id"] = bson.M{"$ne": exclude}
	}
	err := r.coll.FindOne(ctx, filter).Err()
	if err == nil {
		return true, nil
	}
	if errors.Is(err, mongo.ErrNoDocuments) {
		return false, nil
	}
	return false, err
}

// Create inserts a portfolio shell. The subdomain must be unique.
func (r *PortfolioRepo) Create(ctx context.Context, userID string, in model.PortfolioInput) (model.Portfolio, error) {
	uid, err := oid(userID)
	if err != nil {
		return model.Portfolio{}, err
	}
	sub := strings.ToLower(strings.TrimSpace(in.Subdomain))
	taken, err := r.subdomainTaken(ctx, sub, primitive.NilObjectID)
	if err != nil {
		return model.Portfolio{}, err
	}
	if taken {
		return model.Portfolio{}, ErrDuplicate
	}

	now := time.Now().UTC()
	d := portfolioDoc{
		UserID:    uid,
		Title:     in.Title,
		Subdomain: sub,
		Content: map[string]any{
			"projects": []any{},
			"about":    "",
			"contact":  map[string]any{},
		},
		ThemeConfig: map[string]any{},
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	res, err := r.coll.InsertOne(ctx, d)
	if err != nil {
		return model.Portfolio{}, err
	}
	d.ID = res.InsertedID.(primitive.ObjectID)
	return d.model(), nil
}

// ListByOwner returns the owner's portfolios, newest first.
func (r *PortfolioRepo) ListByOwner(ctx context.Context, userID string) ([]model.Portfolio, error) {
	uid, err := oid(userID)
	if err != nil {
		return nil, err
	}
	opts := options.Find().SetSort(bson.D{{Key: "created_at", Value: -1}})
	cur, err := r.coll.Find(ctx, bson.M{"user_id": uid}, opts)
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	out := []model.Portfolio{}
	for cur.Next(ctx) {
		var d portfolioDoc
		if err := cur.Decode(&d); err != nil {
			return nil, err
		}
		out = append(out, d.model())
	}
	return out, cur.Err()
}

func (r *PortfolioRepo) getOwnDoc(ctx context.Context, id, userID string) (portfolioDoc, error) {
	o, err := oid(id)
	if err != nil {
		return portfolioDoc{}, err
	}
	uid, err := oid(userID)
	if err != nil {
		return portfolioDoc{}, err
	}
	var d portfolioDoc
	err = r.coll.FindOne(ctx, bson.M{"_id": o, "user_id": uid}).Decode(&d)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return portfolioDoc{}, ErrNotFound
	}
	return d, err
}

// Get fetches one of the owner's portfolios.
func (r *PortfolioRepo) Get(ctx context.Context, id, userID string) (model.Portfolio, error) {
	d, err := r.getOwnDoc(ctx, id, userID)
	if err != nil {
		return model.Portfolio{}, err
	}
	return d.model(), nil
}

// Update applies the non-nil fields of the partial update. A non-nil
// subdomain must remain unique.
func (r *PortfolioRepo) Update(ctx context.Context, id, userID string, in model.PortfolioUpdate) (model.Portfolio, error) {
	d, err := r.getOwnDoc(ctx, id, userID)
	if err != nil {
		return model.Portfolio{}, err
	}

	set := bson.M{"updated_at": time.Now().UTC()}
	if in.Title != nil {
		set["title"] = *in.Title
	}
	if in.Content != nil {
		set["content"] = *in.Content
	}
	if in.ThemeConfig != nil {
		set["theme_config"] = *in.ThemeConfig
	}
	if in.IsPublished != nil {
		set["is_published"] = *in.IsPublished
	}
	if in.Subdomain != nil {
		sub := strings.ToLower(strings.TrimSpace(*in.Subdomain))
		taken, err := r.subdomainTaken(ctx, sub, d.ID)
		if err != nil {
			return model.Portfolio{}, err
		}
		if taken {
			return model.Portfolio{}, ErrDuplicate
		}
		set["subdomain"] = sub
	}

	if _, err := r.coll.UpdateOne(ctx, bson.M{"_id": d.ID}, bson.M{"$set": set}); err != nil {
		return model.Portfolio{}, err
	}
	return r.Get(ctx, id, userID)
}

// Delete removes the portfolio outright (no soft delete here).
func (r *PortfolioRepo) Delete(ctx context.Context, id, userID string) error {
	d, err := r.getOwnDoc(ctx, id, userID)
	if err != nil {
		return err
	}
	_, err = r.coll.DeleteOne(ctx, bson.M{"_id": d.ID})
	return err
}
