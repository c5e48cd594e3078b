package store

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

func TestIDFilter(t *testing.T) {
	oid := primitive.NewObjectID()
	assert.Equal(t, bson.M{"_id": oid}, IDFilter(oid.Hex()))

	// Non-hex ids match as literal string keys.
	assert.Equal(t, bson.M{"_id": "printer-1"}, IDFilter("printer-1"))
}
