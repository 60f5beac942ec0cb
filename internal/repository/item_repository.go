package repository

import (
	"context"
	"errors"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/devfolio/backend/internal/model"
)

// itemDoc mirrors the 'items' collection.
type itemDoc struct {
	ID          primitive.ObjectID `bson:"_id,omitempty"`
	Name        string             `bson:"name"`
	Description string             `bson:"description"`
	Price       float64            `bson:"price"`
}

func (d itemDoc) model() model.Item {
	return model.Item{
		ID:          d.ID.Hex(),
		Name:        d.Name,
		Description: d.Description,
		Price:       d.Price,
	}
}

type ItemRepo struct{ coll *mongo.Collection }

func NewItemRepo(coll *mongo.Collection) *ItemRepo { return &ItemRepo{coll: coll} }

// oid parses a hex identifier. Anything that is not a valid ObjectId maps
// to ErrNotFound: such an id cannot match any document.
func oid(id string) (primitive.ObjectID, error) {
	o, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return primitive.NilObjectID, ErrNotFound
	}
	return o, nil
}

// Insert stores a new item and returns it with the database-assigned id.
func (r *ItemRepo) Insert(ctx context.Context, in model.ItemInput) (model.Item, error) {
	d := itemDoc{
		Name:        in.Name,
		Description: in.DescriptionOrEmpty(),
		Price:       in.PriceValue(),
	}
	res, err := r.coll.InsertOne(ctx, d)
	if err != nil {
		return model.Item{}, err
	}
	d.ID = res.InsertedID.(primitive.ObjectID)
	return d.model(), nil
}

// List returns items in the database's natural order. A non-positive limit
// falls back to 50.
func (r *ItemRepo) List(ctx context.Context, limit, offset int64) ([]model.Item, error) {
	if limit <= 0 {
		limit = 50
	}
	opts := options.Find().SetLimit(limit).SetSkip(offset)
	cur, err := r.coll.Find(ctx, bson.M{}, opts)
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	items := []model.Item{}
	for cur.Next(ctx) {
		var d itemDoc
		if err := cur.Decode(&d); err != nil {
			return nil, err
		}
		items = append(items, d.model())
	}
	return items, cur.Err()
}

// Get fetches a single item by its hex id.
func (r *ItemRepo) Get(ctx context.Context, id string) (model.Item, error) {
	o, err := oid(id)
	if err != nil {
		return model.Item{}, err
	}
	var d itemDoc
	err = r.coll.FindOne(ctx, bson.M{"_id": o}).Decode(&d)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return model.Item{}, ErrNotFound
	}
	if err != nil {
		return model.Item{}, err
	}
	return d.model(), nil
}

// Replace overwrites the mutable fields of an item. The id itself is
// immutable; a miss reports ErrNotFound.
func (r *ItemRepo) Replace(ctx context.Context, id string, in model.ItemInput) (model.Item, error) {
	o, err := oid(id)
	if err != nil {
		return model.Item{}, err
	}
	set := bson.M{
		"name":        in.Name,
		"description": in.DescriptionOrEmpty(),
		"price":       in.PriceValue(),
	}
	res, err := r.coll.UpdateOne(ctx, bson.M{"_id": o}, bson.M{"$set": set})
	if err != nil {
		return model.Item{}, err
	}
	if res.MatchedCount == 0 {
		return model.Item{}, ErrNotFound
	}
	return r.Get(ctx, id)
}

// Delete removes an item. Deleting an absent id reports ErrNotFound, which
// keeps the operation idempotent from the client's perspective: the end
// state is "absent" either way.
func (r *ItemRepo) Delete(ctx context.Context, id string) error {
	o, err := oid(id)
	if err != nil {
		return err
	}
	res, err := r.coll.DeleteOne(ctx, bson.M{"_id": o})
	if err != nil {
		return err
	}
	if res.DeletedCount == 0 {
		return ErrNotFound
	}
	return nil
}
