package repository

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

func TestOID(t *testing.T) {
	valid := primitive.NewObjectID()
	got, err := oid(valid.Hex())
	require.NoError(t, err)
	assert.Equal(t, valid, got)

	// A malformed id can never match a document, so it reads as not-found
	// rather than as a client error.
	for _, bad := range []string{"", "xyz", "0123", "not-a-valid-object-id!!"} {
		_, err := oid(bad)
		assert.ErrorIs(t, err, ErrNotFound, "input %q", bad)
	}
}

func TestItemDocModel(t *testing.T) {
	id := primitive.NewObjectID()
	m := itemDoc{ID: id, Name: "Widget", Description: "d", Price: 2.5}.model()
	assert.Equal(t, id.Hex(), m.ID)
	assert.Equal(t, "Widget", m.Name)
	assert.Equal(t, 2.5, m.Price)
}
