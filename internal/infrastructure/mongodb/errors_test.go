package mongodb

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/oksasatya/natours-auth/internal/domain/entity"
	"github.com/oksasatya/natours-auth/internal/domain/repository"
	"github.com/oksasatya/natours-auth/pkg/apperror"
)

func TestTranslate_DuplicateKey(t *testing.T) {
	we := mongo.WriteException{WriteErrors: mongo.WriteErrors{{
		Code:    11000,
		Message: `E11000 duplicate key error collection: natours.users index: email_1 dup key: { email: "test@example.com" }`,
	}}}

	var dup *apperror.DuplicateKeyError
	require.ErrorAs(t, translate(we), &dup)
	assert.Equal(t, "email", dup.Field)
	assert.Equal(t, "test@example.com", dup.Value)
}

func TestTranslate_Passthrough(t *testing.T) {
	other := errors.New("server selection timeout")
	assert.Same(t, other, translate(other))
	assert.NoError(t, translate(nil))
}

func TestObjectID(t *testing.T) {
	_, err := objectID("not-an-id")
	var cast *apperror.CastError
	require.ErrorAs(t, err, &cast)
	assert.Equal(t, "_id", cast.Path)
	assert.Equal(t, "not-an-id", cast.Value)

	id, err := objectID("5c8a1d5b0190b214360dc057")
	require.NoError(t, err)
	assert.Equal(t, "5c8a1d5b0190b214360dc057", id.Hex())
}

func TestDocRoundTrip(t *testing.T) {
	d := userDoc{Name: "Jonas", Email: "jonas@example.com", Role: "admin", Active: true}
	u := d.toEntity()
	assert.Equal(t, "admin", string(u.Role))
	assert.False(t, u.HasPendingReset())
	assert.True(t, u.Active)
}

func TestFromEntity_NormalizesEmail(t *testing.T) {
	u := entity.NewUser("Jonas", "jonas@example.com")
	u.Email = " Jonas@Example.COM "
	assert.Equal(t, "jonas@example.com", fromEntity(u).Email)
}

func TestActiveFilter(t *testing.T) {
	def := activeFilter(bson.M{"email": "a@b.com"}, repository.FindOptions{})
	assert.Equal(t, bson.M{"$ne": false}, def["active"])

	all := activeFilter(bson.M{"email": "a@b.com"}, repository.FindOptions{IncludeInactive: true})
	assert.NotContains(t, all, "active")
}
