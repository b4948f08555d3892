package mongodb

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"

	apperrors "rest-user-service/pkg/errors"
)

func TestNameFilter(t *testing.T) {
	t.Run("Empty Matches All", func(t *testing.T) {
		assert.Equal(t, bson.M{}, nameFilter(""))
	})

	t.Run("Case Insensitive Substring", func(t *testing.T) {
		filter := nameFilter("john")
		rx, ok := filter["name"].(primitive.Regex)
		require.True(t, ok)
		assert.Equal(t, "john", rx.Pattern)
		assert.Equal(t, "i", rx.Options)
	})

	t.Run("Regex Metacharacters Are Quoted", func(t *testing.T) {
		filter := nameFilter(".*")
		rx, ok := filter["name"].(primitive.Regex)
		require.True(t, ok)
		assert.Equal(t, `\.\*`, rx.Pattern)
	})
}

func TestObjectID(t *testing.T) {
	t.Run("Valid Hex", func(t *testing.T) {
		oid, err := objectID("63c9f3dffb7b8b43168c9123")
		require.NoError(t, err)
		assert.Equal(t, "63c9f3dffb7b8b43168c9123", oid.Hex())
	})

	t.Run("Malformed Id Is Not Found", func(t *testing.T) {
		_, err := objectID("not-a-hex-id")
		require.Error(t, err)

		var nf *apperrors.NotFoundError
		assert.ErrorAs(t, err, &nf)
	})
}

func TestUserDocToDomain(t *testing.T) {
	now := time.Now().UTC()
	oid := primitive.NewObjectID()
	doc := userDoc{
		ID:        oid,
		Name:      "John Doe",
		Email:     "john@example.com",
		Age:       30,
		Phone:     "1234567890",
		Address:   "1234 Main St",
		CreatedAt: now,
		UpdatedAt: now,
	}

	u := doc.toDomain()
	assert.Equal(t, oid.Hex(), u.ID)
	assert.Len(t, u.ID, 24)
	assert.Equal(t, "John Doe", u.Name)
	assert.Equal(t, "john@example.com", u.Email)
	assert.Equal(t, 30, u.Age)
	assert.Equal(t, now, u.CreatedAt)
}
