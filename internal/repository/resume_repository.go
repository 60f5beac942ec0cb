package repository

import (
	"context"
	"errors"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/devfolio/backend/internal/model"
)

// resumeDoc mirrors the 'resumes' collection. DeletedAt implements soft
// delete: deleted documents stay in place and every query filters them out.
type resumeDoc struct {
	ID           primitive.ObjectID `bson:"_id,omitempty"`
	UserID       primitive.ObjectID `bson:"user_id"`
	Title        string             `bson:"title"`
	Content      map[string]any     `bson:"content"`
	ThemeConfig  map[string]any     `bson:"theme_config"`
	ThumbnailURL string             `bson:"thumbnail_url,omitempty"`
	IsPublic     bool               `bson:"is_public"`
	Slug         string             `bson:"slug,omitempty"`
	CreatedAt    time.Time          `bson:"created_at"`
	UpdatedAt    time.Time          `bson:"updated_at"`
	DeletedAt    *time.Time         `bson:"deleted_at"`
}

func (d resumeDoc) model() model.Resume {
	return model.Resume{
		ID:           d.ID.Hex(),
		UserID:       d.UserID.Hex(),
		Title:        d.Title,
		Content:      d.Content,
		ThemeConfig:  d.ThemeConfig,
		ThumbnailURL: d.ThumbnailURL,
		IsPublic:     d.IsPublic,
		Slug:         d.Slug,
		CreatedAt:    d.CreatedAt,
		UpdatedAt:    d.UpdatedAt,
	}
}

type ResumeRepo struct{ coll *mongo.Collection }

func NewResumeRepo(coll *mongo.Collection) *ResumeRepo { return &ResumeRepo{coll: coll} }

// ownFilter scopes a lookup to the owner and excludes soft-deleted rows.
// Foreign documents are indistinguishable from absent ones (404, never 403).
func ownFilter(id, userID primitive.ObjectID) bson.M {
	return bson.M{"_id": id, "user_id": userID, "deleted_at": nil}
}

// Create inserts an empty resume shell for the owner.
func (r *ResumeRepo) Create(ctx context.Context, userID string, in model.ResumeInput) (model.Resume, error) {
	uid, err := oid(userID)
	if err != nil {
		return model.Resume{}, err
	}
	theme := map[string]any{}
	if in.TemplateID != "" {
		theme["template_id"] = in.TemplateID
	}
	now := time.Now().UTC()
	d := resumeDoc{
		UserID:      uid,
		Title:       in.Title,
		Content:     map[string]any{},
		ThemeConfig: theme,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	res, err := r.coll.InsertOne(ctx, d)
	if err != nil {
		return model.Resume{}, err
	}
	d.ID = res.InsertedID.(primitive.ObjectID)
	return d.model(), nil
}

// ListByOwner returns the owner's resumes, newest first.
func (r *ResumeRepo) ListByOwner(ctx context.Context, userID string, limit, offset int64) ([]model.Resume, error) {
	uid, err := oid(userID)
	if err != nil {
		return nil, err
	}
	if limit <= 0 {
		limit = 10
	}
	opts := options.Find().
		SetSort(bson.D{{Key: "created_at", Value: -1}}).
		SetLimit(limit).
		SetSkip(offset)
	cur, err := r.coll.Find(ctx, bson.M{"user_id": uid, "deleted_at": nil}, opts)
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	out := []model.Resume{}
	for cur.Next(ctx) {
		var d resumeDoc
		if err := cur.Decode(&d); err != nil {
			return nil, err
		}
		out = append(out, d.model())
	}
	return out, cur.Err()
}

func (r *ResumeRepo) getOwnDoc(ctx context.Context, id, userID string) (resumeDoc, error) {
	o, err := oid(id)
	if err != nil {
		return resumeDoc{}, err
	}
	uid, err := oid(userID)
	if err != nil {
		return resumeDoc{}, err
	}
	var d resumeDoc
	err = r.coll.FindOne(ctx, ownFilter(o, uid)).Decode(&d)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return resumeDoc{}, ErrNotFound
	}
	return d, err
}

// Get fetches one of the owner's resumes.
func (r *ResumeRepo) Get(ctx context.Context, id, userID string) (model.Resume, error) {
	d, err := r.getOwnDoc(ctx, id, userID)
	if err != nil {
		return model.Resume{}, err
	}
	return d.model(), nil
}

// Update applies the non-nil fields of the partial update. A non-nil slug
// must be unique across the collection.
func (r *ResumeRepo) Update(ctx context.Context, id, userID string, in model.ResumeUpdate) (model.Resume, error) {
	d, err := r.getOwnDoc(ctx, id, userID)
	if err != nil {
		return model.Resume{}, err
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
	if in.IsPublic != nil {
		set["is_public"] = *in.IsPublic
	}
	if in.Slug != nil {
		err := r.coll.FindOne(ctx, bson.M{"slug": *in.Slug, "_id": bson.M{"$ne": d.ID}}).Err()
		if err == nil {
			return model.Resume{}, ErrDuplicate
		}
		if !errors.Is(err, mongo.ErrNoDocuments) {
			return model.Resume{}, err
		}
		set["slug"] = *in.Slug
	}

	if _, err := r.coll.UpdateOne(ctx, bson.M{"_id": d.ID}, bson.M{"$set": set}); err != nil {
		return model.Resume{}, err
	}
	return r.Get(ctx, id, userID)
}

// SoftDelete stamps deleted_at; the document is kept.
func (r *ResumeRepo) SoftDelete(ctx context.Context, id, userID string) error {
	d, err := r.getOwnDoc(ctx, id, userID)
	if err != nil {
		return err
	}
	now := time.Now().UTC()
	_, err = r.coll.UpdateOne(ctx, bson.M{"_id": d.ID}, bson.M{"$set": bson.M{"deleted_at": now}})
	return err
}

// Duplicate clones a resume under a fresh id. The copy starts private and
// without a slug so it never collides with the original.
func (r *ResumeRepo) Duplicate(ctx context.Context, id, userID string) (model.Resume, error) {
	src, err := r.getOwnDoc(ctx, id, userID)
	if err != nil {
		return model.Resume{}, err
	}
	now := time.Now().UTC()
	cp := resumeDoc{
		UserID:      src.UserID,
		Title:       src.Title + " (copy)",
		Content:     src.Content,
		ThemeConfig: src.ThemeConfig,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	res, err := r.coll.InsertOne(ctx, cp)
	if err != nil {
		return model.Resume{}, err
	}
	cp.ID = res.InsertedID.(primitive.ObjectID)
	return cp.model(), nil
}
