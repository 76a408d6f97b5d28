package repository

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

func TestProductDocument_ToModel(t *testing.T) {
	oid := primitive.NewObjectID()
	created := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	p := productDocument{ID: oid, Name: "Widget", Slug: "widget", Price: 10, Quantity: 5, CreatedAt: created}.toModel()

	assert.Equal(t, oid.Hex(), p.ID)
	assert.Equal(t, "Widget", p.Name)
	assert.Equal(t, 10.0, p.Price)
	assert.Equal(t, created, p.CreatedAt)
}

func TestAccountDocument_ToModelNeverNilCart(t *testing.T) {
	a := accountDocument{UserID: "ID0A0B0C"}.toModel()
	assert.NotNil(t, a.Cart)
	assert.Empty(t, a.Cart)
}

func TestMongoProductRepository_MalformedIDsNeverHitTheServer(t *testing.T) {
	// A nil collection would panic if touched.
	r := &mongoProductRepository{}

	got, err := r.FindByIDs(context.Background(), []string{"widget", "123"})
	require.NoError(t, err)
	assert.Empty(t, got)

	assert.NoError(t, r.DeleteByID(context.Background(), "not-an-object-id"))
}

func TestMongoProductRepository_NormalizeID(t *testing.T) {
	r := &mongoProductRepository{}
	oid := primitive.NewObjectID()

	got, ok := r.NormalizeID(strings.ToUpper(oid.Hex()))
	assert.True(t, ok)
	assert.Equal(t, oid.Hex(), got)

	_, ok = r.NormalizeID("widget")
	assert.False(t, ok)
}
