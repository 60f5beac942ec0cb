package model

// Item is the example resource exposed by the public CRUD endpoints. The id
// is assigned by the database on insert and immutable afterwards.
// Mongo's ObjectId is exposed as its hex string; bson mapping lives in the
// repository layer.
type Item struct {
	ID          string  `json:"id"`
	Name        string  `json:"name"`
	Description string  `json:"description"`
	Price       float64 `json:"price"`
}

// ItemInput is the request body for create and for full-replace update.
// Validation is declarative: missing or malformed fields fail binding with a
// 422 before any database call happens.
type ItemInput struct {
	Name        string   `json:"name" validate:"required,min=1"`
	Description *string  `json:"description" validate:"omitempty"`
	Price       *float64 `json:"price" validate:"required,gte=0"`
}

// DescriptionOrEmpty defaults a missing description to the empty string so
// responses always carry a string, never null.
func (in ItemInput) DescriptionOrEmpty() string {
	if in.Description == nil {
		return ""
	}
	return *in.Description
}

// PriceValue is the validated price; zero only when the pointer is nil,
// which validation rules out.
func (in ItemInput) PriceValue() float64 {
	if in.Price == nil {
		return 0
	}
	return *in.Price
}
