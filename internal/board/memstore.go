package board

import (
	"context"
	"sort"
	"sync"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// MemStore is a channel-free in-memory Store for development and tests. It
// mirrors the document store's ordering contract: newest first by timestamp,
// then by id (ObjectIDs embed insertion order).
type MemStore struct {
	mu       sync.Mutex
	printers []Printer
	reports  []Report
	spaces   []Space
	reviews  []Review
	requests []SpaceRequest
	votes    []ReviewVote
}

// NewMemStore creates an empty in-memory store.
func NewMemStore() *MemStore {
	return &MemStore{}
}

func sortReportsNewestFirst(reports []Report) {
	sort.Slice(reports, func(i, j int) bool {
		if !reports[i].Timestamp.Equal(reports[j].Timestamp) {
			return reports[i].Timestamp.After(reports[j].Timestamp)
		}
		return reports[i].ID.Hex() > reports[j].ID.Hex()
	})
}

func sortReviewsNewestFirst(reviews []Review) {
	sort.Slice(reviews, func(i, j int) bool {
		if !reviews[i].Timestamp.Equal(reviews[j].Timestamp) {
			return reviews[i].Timestamp.After(reviews[j].Timestamp)
		}
		return reviews[i].ID.Hex() > reviews[j].ID.Hex()
	})
}

func (m *MemStore) ListPrinters(ctx context.Context) ([]Printer, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]Printer(nil), m.printers...), nil
}

func (m *MemStore) GetPrinter(ctx context.Context, id string) (*Printer, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for i := range m.printers {
		if m.printers[i].ID.Hex() == id {
			p := m.printers[i]
			return &p, nil
		}
	}
	return nil, nil
}

func (m *MemStore) InsertPrinter(ctx context.Context, p Printer) (Printer, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if p.ID.IsZero() {
		p.ID = primitive.NewObjectID()
	}
	if p.CreatedAt.IsZero() {
		p.CreatedAt = time.Now().UTC()
	}
	m.printers = append(m.printers, p)
	return p, nil
}

func (m *MemStore) UpdatePrinter(ctx context.Context, id string, fields map[string]any) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for i := range m.printers {
		if m.printers[i].ID.Hex() != id {
			continue
		}
		if v, ok := fields["name"].(string); ok {
			m.printers[i].Name = v
		}
		if v, ok := fields["location"].(string); ok {
			m.printers[i].Location = v
		}
		if v, ok := fields["building"].(string); ok {
			m.printers[i].Building = v
		}
		if v, ok := fields["floor"].(string); ok {
			m.printers[i].Floor = v
		}
		now := time.Now().UTC()
		m.printers[i].UpdatedAt = &now
		return true, nil
	}
	return false, nil
}

func (m *MemStore) DeletePrinter(ctx context.Context, id string) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for i := range m.printers {
		if m.printers[i].ID.Hex() == id {
			m.printers = append(m.printers[:i], m.printers[i+1:]...)
			return true, nil
		}
	}
	return false, nil
}

func (m *MemStore) LatestReport(ctx context.Context, printerID string) (*Report, error) {
	reports, err := m.ListReports(ctx, printerID, 1)
	if err != nil || len(reports) == 0 {
		return nil, err
	}
	return &reports[0], nil
}

func (m *MemStore) ListReports(ctx context.Context, printerID string, limit int64) ([]Report, error) {
	m.mu.Lock()
	all := append([]Report(nil), m.reports...)
	m.mu.Unlock()

	sortReportsNewestFirst(all)
	var out []Report
	for _, rep := range all {
		if printerID != "" && rep.PrinterID != printerID {
			continue
		}
		out = append(out, rep)
		if limit > 0 && int64(len(out)) >= limit {
			break
		}
	}
	return out, nil
}

func (m *MemStore) InsertReport(ctx context.Context, r Report) (Report, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if r.ID.IsZero() {
		r.ID = primitive.NewObjectID()
	}
	if r.Timestamp.IsZero() {
		r.Timestamp = time.Now().UTC()
	}
	m.reports = append(m.reports, r)
	return r, nil
}

func (m *MemStore) ListSpaces(ctx context.Context) ([]Space, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]Space(nil), m.spaces...), nil
}

func (m *MemStore) GetSpace(ctx context.Context, id string) (*Space, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for i := range m.spaces {
		if m.spaces[i].ID.Hex() == id {
			s := m.spaces[i]
			return &s, nil
		}
	}
	return nil, nil
}

func (m *MemStore) InsertSpace(ctx context.Context, s Space) (Space, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if s.ID.IsZero() {
		s.ID = primitive.NewObjectID()
	}
	if s.CreatedAt.IsZero() {
		s.CreatedAt = time.Now().UTC()
	}
	m.spaces = append(m.spaces, s)
	return s, nil
}

func (m *MemStore) UpdateSpace(ctx context.Context, id string, fields map[string]any) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for i := range m.spaces {
		if m.spaces[i].ID.Hex() != id {
			continue
		}
		if v, ok := fields["name"].(string); ok {
			m.spaces[i].Name = v
		}
		if v, ok := fields["building"].(string); ok {
			m.spaces[i].Building = v
		}
		if v, ok := fields["floor"].(string); ok {
			m.spaces[i].Floor = v
		}
		if v, ok := fields["description"].(string); ok {
			m.spaces[i].Description = v
		}
		if v, ok := fields["capacity"].(int); ok {
			m.spaces[i].Capacity = v
		}
		now := time.Now().UTC()
		m.spaces[i].UpdatedAt = &now
		return true, nil
	}
	return false, nil
}

func (m *MemStore) DeleteSpace(ctx context.Context, id string) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for i := range m.spaces {
		if m.spaces[i].ID.Hex() == id {
			m.spaces = append(m.spaces[:i], m.spaces[i+1:]...)
			return true, nil
		}
	}
	return false, nil
}

func (m *MemStore) ListReviews(ctx context.Context, spaceID string, limit int64) ([]Review, error) {
	m.mu.Lock()
	all := append([]Review(nil), m.reviews...)
	m.mu.Unlock()

	sortReviewsNewestFirst(all)
	var out []Review
	for _, rev := range all {
		if spaceID != "" && rev.SpaceID != spaceID {
			continue
		}
		out = append(out, rev)
		if limit > 0 && int64(len(out)) >= limit {
			break
		}
	}
	return out, nil
}

func (m *MemStore) CountReviews(ctx context.Context, spaceID string) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var n int64
	for _, rev := range m.reviews {
		if rev.SpaceID == spaceID {
			n++
		}
	}
	return n, nil
}

func (m *MemStore) GetReview(ctx context.Context, id string) (*Review, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for i := range m.reviews {
		if m.reviews[i].ID.Hex() == id {
			r := m.reviews[i]
			return &r, nil
		}
	}
	return nil, nil
}

func (m *MemStore) InsertReview(ctx context.Context, r Review) (Review, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if r.ID.IsZero() {
		r.ID = primitive.NewObjectID()
	}
	if r.Timestamp.IsZero() {
		r.Timestamp = time.Now().UTC()
	}
	m.reviews = append(m.reviews, r)
	return r, nil
}

func (m *MemStore) InsertRequest(ctx context.Context, req SpaceRequest) (SpaceRequest, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if req.ID.IsZero() {
		req.ID = primitive.NewObjectID()
	}
	if req.CreatedAt.IsZero() {
		req.CreatedAt = time.Now().UTC()
	}
	req.Status = RequestPending
	m.requests = append(m.requests, req)
	return req, nil
}

func (m *MemStore) ListRequests(ctx context.Context, status string) ([]SpaceRequest, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []SpaceRequest
	for _, req := range m.requests {
		if status == "" || req.Status == status {
			out = append(out, req)
		}
	}
	return out, nil
}

func (m *MemStore) GetRequest(ctx context.Context, id string) (*SpaceRequest, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for i := range m.requests {
		if m.requests[i].ID.Hex() == id {
			r := m.requests[i]
			return &r, nil
		}
	}
	return nil, nil
}

func (m *MemStore) DecideRequest(ctx context.Context, id, status, adminNetID string) (*SpaceRequest, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for i := range m.requests {
		if m.requests[i].ID.Hex() != id {
			continue
		}
		if m.requests[i].Status != RequestPending {
			return nil, ErrConflict
		}
		now := time.Now().UTC()
		m.requests[i].Status = status
		m.requests[i].DecidedBy = adminNetID
		m.requests[i].DecidedAt = &now
		r := m.requests[i]
		return &r, nil
	}
	return nil, ErrNotFound
}

func (m *MemStore) UpsertVote(ctx context.Context, v ReviewVote) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if v.Timestamp.IsZero() {
		v.Timestamp = time.Now().UTC()
	}
	for i := range m.votes {
		if m.votes[i].ReviewID == v.ReviewID && m.votes[i].NetID == v.NetID {
			m.votes[i].Helpful = v.Helpful
			m.votes[i].Timestamp = v.Timestamp
			return nil
		}
	}
	if v.ID.IsZero() {
		v.ID = primitive.NewObjectID()
	}
	m.votes = append(m.votes, v)
	return nil
}

func (m *MemStore) CountHelpfulVotes(ctx context.Context, reviewID string) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var n int64
	for _, v := range m.votes {
		if v.ReviewID == reviewID && v.Helpful {
			n++
		}
	}
	return n, nil
}
