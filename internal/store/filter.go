package store

import (
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// IDFilter builds an _id filter from a path segment. Segments that parse as
// ObjectID hex are matched as ObjectIDs; anything else is matched as a literal
// string key, kept for compatibility with non-standard test identifiers.
func IDFilter(id string) bson.M {
	if oid, err := primitive.ObjectIDFromHex(id); err == nil {
		return bson.M{"_id": oid}
	}
	return bson.M{"_id": id}
}
