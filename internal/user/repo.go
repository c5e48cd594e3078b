package user

import (
	"context"
	"errors"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
)

// Repo persists accounts in the document store.
type Repo struct {
	users *mongo.Collection
}

// NewRepo creates a repo over the application database.
func NewRepo(db *mongo.Database) *Repo {
	return &Repo{users: db.Collection("users")}
}

// FindByEmail returns the account for an email, or nil when absent.
func (r *Repo) FindByEmail(ctx context.Context, email string) (*Account, error) {
	var a Account
	err := r.users.FindOne(ctx, bson.M{"email": email}).Decode(&a)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &a, nil
}

// FindByNetID returns the account for a netid, or nil when absent.
func (r *Repo) FindByNetID(ctx context.Context, netid string) (*Account, error) {
	var a Account
	err := r.users.FindOne(ctx, bson.M{"netid": netid}).Decode(&a)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &a, nil
}

// Insert writes a new account.
func (r *Repo) Insert(ctx context.Context, a Account) (Account, error) {
	if a.ID.IsZero() {
		a.ID = primitive.NewObjectID()
	}
	if a.CreatedAt.IsZero() {
		a.CreatedAt = time.Now().UTC()
	}
	_, err := r.users.InsertOne(ctx, a)
	return a, err
}

// Update applies a partial $set by netid and stamps updated_at.
func (r *Repo) Update(ctx context.Context, netid string, fields map[string]any) (bool, error) {
	fields["updated_at"] = time.Now().UTC()
	res, err := r.users.UpdateOne(ctx, bson.M{"netid": netid}, bson.M{"$set": fields})
	if err != nil {
		return false, err
	}
	return res.MatchedCount > 0, nil
}

// DisplayName resolves a netid to the user's current display name. Used by
// the board's read-time reviewer resolution; a lookup failure degrades to the
// stored attribution rather than failing the read.
func (r *Repo) DisplayName(ctx context.Context, netid string) (string, bool) {
	acct, err := r.FindByNetID(ctx, netid)
	if err != nil || acct == nil {
		return "", false
	}
	if acct.DisplayName != "" {
		return acct.DisplayName, true
	}
	return acct.NetID, true
}
