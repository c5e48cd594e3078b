package board

import (
	"context"
	"errors"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"statusboard/internal/store"
)

// newestFirst orders by timestamp descending. The _id tie-break makes ordering
// deterministic when two submissions share a timestamp: ObjectIDs embed
// insertion order, so the later insert wins.
var newestFirst = bson.D{{Key: "timestamp", Value: -1}, {Key: "_id", Value: -1}}

// Repo persists board data in the document store.
type Repo struct {
	printers *mongo.Collection
	reports  *mongo.Collection
	spaces   *mongo.Collection
	reviews  *mongo.Collection
	requests *mongo.Collection
	votes    *mongo.Collection
}

// NewRepo creates a repo over the application database.
func NewRepo(db *mongo.Database) *Repo {
	return &Repo{
		printers: db.Collection("printers"),
		reports:  db.Collection("reports"),
		spaces:   db.Collection("spaces"),
		reviews:  db.Collection("reviews"),
		requests: db.Collection("space_requests"),
		votes:    db.Collection("review_votes"),
	}
}

// ListPrinters returns every printer.
func (r *Repo) ListPrinters(ctx context.Context) ([]Printer, error) {
	cur, err := r.printers.Find(ctx, bson.M{})
	if err != nil {
		return nil, err
	}
	var out []Printer
	if err := cur.All(ctx, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// GetPrinter returns a printer by identifier, or nil when absent.
func (r *Repo) GetPrinter(ctx context.Context, id string) (*Printer, error) {
	var p Printer
	err := r.printers.FindOne(ctx, store.IDFilter(id)).Decode(&p)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &p, nil
}

// InsertPrinter writes a new printer and returns it with the assigned id.
func (r *Repo) InsertPrinter(ctx context.Context, p Printer) (Printer, error) {
	if p.ID.IsZero() {
		p.ID = primitive.NewObjectID()
	}
	if p.CreatedAt.IsZero() {
		p.CreatedAt = time.Now().UTC()
	}
	_, err := r.printers.InsertOne(ctx, p)
	return p, err
}

// UpdatePrinter applies a partial $set and stamps updated_at. The matched
// return distinguishes NotFound from success.
func (r *Repo) UpdatePrinter(ctx context.Context, id string, fields map[string]any) (bool, error) {
	fields["updated_at"] = time.Now().UTC()
	res, err := r.printers.UpdateOne(ctx, store.IDFilter(id), bson.M{"$set": fields})
	if err != nil {
		return false, err
	}
	return res.MatchedCount > 0, nil
}

// DeletePrinter removes a printer; reports whether anything was deleted.
func (r *Repo) DeletePrinter(ctx context.Context, id string) (bool, error) {
	res, err := r.printers.DeleteOne(ctx, store.IDFilter(id))
	if err != nil {
		return false, err
	}
	return res.DeletedCount > 0, nil
}

// LatestReport returns the most recent report for a printer, or nil.
func (r *Repo) LatestReport(ctx context.Context, printerID string) (*Report, error) {
	opts := options.FindOne().SetSort(newestFirst)
	var rep Report
	err := r.reports.FindOne(ctx, bson.M{"printer_id": printerID}, opts).Decode(&rep)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &rep, nil
}

// ListReports returns up to limit reports, newest first, optionally filtered
// by printer.
func (r *Repo) ListReports(ctx context.Context, printerID string, limit int64) ([]Report, error) {
	filter := bson.M{}
	if printerID != "" {
		filter["printer_id"] = printerID
	}
	opts := options.Find().SetSort(newestFirst).SetLimit(limit)
	cur, err := r.reports.Find(ctx, filter, opts)
	if err != nil {
		return nil, err
	}
	var out []Report
	if err := cur.All(ctx, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// InsertReport writes a new report.
func (r *Repo) InsertReport(ctx context.Context, rep Report) (Report, error) {
	if rep.ID.IsZero() {
		rep.ID = primitive.NewObjectID()
	}
	if rep.Timestamp.IsZero() {
		rep.Timestamp = time.Now().UTC()
	}
	_, err := r.reports.InsertOne(ctx, rep)
	return rep, err
}

// ListSpaces returns every study space.
func (r *Repo) ListSpaces(ctx context.Context) ([]Space, error) {
	cur, err := r.spaces.Find(ctx, bson.M{})
	if err != nil {
		return nil, err
	}
	var out []Space
	if err := cur.All(ctx, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// GetSpace returns a space by identifier, or nil when absent.
func (r *Repo) GetSpace(ctx context.Context, id string) (*Space, error) {
	var s Space
	err := r.spaces.FindOne(ctx, store.IDFilter(id)).Decode(&s)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &s, nil
}

// InsertSpace writes a new space.
func (r *Repo) InsertSpace(ctx context.Context, s Space) (Space, error) {
	if s.ID.IsZero() {
		s.ID = primitive.NewObjectID()
	}
	if s.CreatedAt.IsZero() {
		s.CreatedAt = time.Now().UTC()
	}
	_, err := r.spaces.InsertOne(ctx, s)
	return s, err
}

// UpdateSpace applies a partial $set and stamps updated_at.
func (r *Repo) UpdateSpace(ctx context.Context, id string, fields map[string]any) (bool, error) {
	fields["updated_at"] = time.Now().UTC()
	res, err := r.spaces.UpdateOne(ctx, store.IDFilter(id), bson.M{"$set": fields})
	if err != nil {
		return false, err
	}
	return res.MatchedCount > 0, nil
}

// DeleteSpace removes a space; reports whether anything was deleted.
func (r *Repo) DeleteSpace(ctx context.Context, id string) (bool, error) {
	res, err := r.spaces.DeleteOne(ctx, store.IDFilter(id))
	if err != nil {
		return false, err
	}
	return res.DeletedCount > 0, nil
}

// ListReviews returns up to limit reviews for a space, newest first.
func (r *Repo) ListReviews(ctx context.Context, spaceID string, limit int64) ([]Review, error) {
	filter := bson.M{}
	if spaceID != "" {
		filter["space_id"] = spaceID
	}
	opts := options.Find().SetSort(newestFirst).SetLimit(limit)
	cur, err := r.reviews.Find(ctx, filter, opts)
	if err != nil {
		return nil, err
	}
	var out []Review
	if err := cur.All(ctx, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// CountReviews counts the entire review history of a space, uncapped.
func (r *Repo) CountReviews(ctx context.Context, spaceID string) (int64, error) {
	return r.reviews.CountDocuments(ctx, bson.M{"space_id": spaceID})
}

// GetReview returns a review by identifier, or nil when absent.
func (r *Repo) GetReview(ctx context.Context, id string) (*Review, error) {
	var rev Review
	err := r.reviews.FindOne(ctx, store.IDFilter(id)).Decode(&rev)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &rev, nil
}

// InsertReview writes a new review.
func (r *Repo) InsertReview(ctx context.Context, rev Review) (Review, error) {
	if rev.ID.IsZero() {
		rev.ID = primitive.NewObjectID()
	}
	if rev.Timestamp.IsZero() {
		rev.Timestamp = time.Now().UTC()
	}
	_, err := r.reviews.InsertOne(ctx, rev)
	return rev, err
}

// InsertRequest writes a new pending space request.
func (r *Repo) InsertRequest(ctx context.Context, req SpaceRequest) (SpaceRequest, error) {
	if req.ID.IsZero() {
		req.ID = primitive.NewObjectID()
	}
	if req.CreatedAt.IsZero() {
		req.CreatedAt = time.Now().UTC()
	}
	req.Status = RequestPending
	_, err := r.requests.InsertOne(ctx, req)
	return req, err
}

// ListRequests returns requests, optionally filtered by status, newest first.
func (r *Repo) ListRequests(ctx context.Context, status string) ([]SpaceRequest, error) {
	filter := bson.M{}
	if status != "" {
		filter["status"] = status
	}
	opts := options.Find().SetSort(bson.D{{Key: "created_at", Value: -1}})
	cur, err := r.requests.Find(ctx, filter, opts)
	if err != nil {
		return nil, err
	}
	var out []SpaceRequest
	if err := cur.All(ctx, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// GetRequest returns a space request by identifier, or nil when absent.
func (r *Repo) GetRequest(ctx context.Context, id string) (*SpaceRequest, error) {
	var req SpaceRequest
	err := r.requests.FindOne(ctx, store.IDFilter(id)).Decode(&req)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &req, nil
}

// DecideRequest moves a pending request to a terminal status, stamping the
// acting admin. The pending filter makes the transition single-shot even
// under concurrent decisions: the second caller matches nothing and receives
// ErrConflict (or ErrNotFound when the id never existed).
func (r *Repo) DecideRequest(ctx context.Context, id, status, adminNetID string) (*SpaceRequest, error) {
	now := time.Now().UTC()
	filter := store.IDFilter(id)
	filter["status"] = RequestPending
	update := bson.M{"$set": bson.M{
		"status":     status,
		"decided_by": adminNetID,
		"decided_at": now,
	}}
	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)
	var req SpaceRequest
	err := r.requests.FindOneAndUpdate(ctx, filter, update, opts).Decode(&req)
	if errors.Is(err, mongo.ErrNoDocuments) {
		existing, gerr := r.GetRequest(ctx, id)
		if gerr != nil {
			return nil, gerr
		}
		if existing == nil {
			return nil, ErrNotFound
		}
		return nil, ErrConflict
	}
	if err != nil {
		return nil, err
	}
	return &req, nil
}

// UpsertVote records a helpful vote, overwriting the voter's previous vote on
// the same review.
func (r *Repo) UpsertVote(ctx context.Context, v ReviewVote) error {
	if v.Timestamp.IsZero() {
		v.Timestamp = time.Now().UTC()
	}
	filter := bson.M{"review_id": v.ReviewID, "netid": v.NetID}
	update := bson.M{"$set": bson.M{"helpful": v.Helpful, "timestamp": v.Timestamp}}
	_, err := r.votes.UpdateOne(ctx, filter, update, options.Update().SetUpsert(true))
	return err
}

// CountHelpfulVotes tallies helpful votes for a review.
func (r *Repo) CountHelpfulVotes(ctx context.Context, reviewID string) (int64, error) {
	return r.votes.CountDocuments(ctx, bson.M{"review_id": reviewID, "helpful": true})
}
