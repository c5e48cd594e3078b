package board

import (
	"context"
	"math"
)

// Aggregation windows. Averages are computed over the capped most-recent
// window; the review count is always taken over the full history. A space
// with 50 reviews and a 5-review summary window reports an average over 5 and
// a count of 50. That asymmetry is observed behavior and is kept on purpose.
const (
	SummaryWindow      = 5
	DetailWindow       = 20
	ReportHistoryLimit = 10
	DefaultReportLimit = 50
)

// Store is the persistence surface the service runs against.
type Store interface {
	ListPrinters(ctx context.Context) ([]Printer, error)
	GetPrinter(ctx context.Context, id string) (*Printer, error)
	InsertPrinter(ctx context.Context, p Printer) (Printer, error)
	UpdatePrinter(ctx context.Context, id string, fields map[string]any) (bool, error)
	DeletePrinter(ctx context.Context, id string) (bool, error)

	LatestReport(ctx context.Context, printerID string) (*Report, error)
	ListReports(ctx context.Context, printerID string, limit int64) ([]Report, error)
	InsertReport(ctx context.Context, r Report) (Report, error)

	ListSpaces(ctx context.Context) ([]Space, error)
	GetSpace(ctx context.Context, id string) (*Space, error)
	InsertSpace(ctx context.Context, s Space) (Space, error)
	UpdateSpace(ctx context.Context, id string, fields map[string]any) (bool, error)
	DeleteSpace(ctx context.Context, id string) (bool, error)

	ListReviews(ctx context.Context, spaceID string, limit int64) ([]Review, error)
	CountReviews(ctx context.Context, spaceID string) (int64, error)
	GetReview(ctx context.Context, id string) (*Review, error)
	InsertReview(ctx context.Context, r Review) (Review, error)

	InsertRequest(ctx context.Context, req SpaceRequest) (SpaceRequest, error)
	ListRequests(ctx context.Context, status string) ([]SpaceRequest, error)
	GetRequest(ctx context.Context, id string) (*SpaceRequest, error)
	DecideRequest(ctx context.Context, id, status, adminNetID string) (*SpaceRequest, error)

	UpsertVote(ctx context.Context, v ReviewVote) error
	CountHelpfulVotes(ctx context.Context, reviewID string) (int64, error)
}

// NameResolver maps a netid to the user's current display name. Resolution
// happens at read time, so an old review's displayed name follows later
// profile changes.
type NameResolver interface {
	DisplayName(ctx context.Context, netid string) (string, bool)
}

// Service derives current-state projections from report and review history
// and coordinates the write paths.
type Service struct {
	store Store
	names NameResolver
}

// NewService creates a service backed by a store. names may be nil; display
// resolution then falls back to the values stored at write time.
func NewService(store Store, names NameResolver) *Service {
	return &Service{store: store, names: names}
}

// LatestStatus projects a printer's current status from its most recent
// report. A printer with no reports projects as unknown with zeroed gauges.
// The result is a best-effort snapshot of whichever report was most recently
// durable at query time.
func (s *Service) LatestStatus(ctx context.Context, printerID string) (PrinterStatus, error) {
	rep, err := s.store.LatestReport(ctx, printerID)
	if err != nil {
		return PrinterStatus{}, err
	}
	if rep == nil {
		return PrinterStatus{Status: StatusUnknown}, nil
	}
	reporter := rep.ReportedBy
	if reporter == "" {
		reporter = "Anonymous"
	}
	ts := rep.Timestamp
	return PrinterStatus{
		Status:     rep.Status,
		PaperLevel: rep.PaperLevel,
		TonerLevel: rep.TonerLevel,
		LastUpdate: &ts,
		ReportedBy: &reporter,
	}, nil
}

// AggregateRatings projects a space's ratings: means over at most limit
// most-recent reviews, each rounded to one decimal (half away from zero),
// alongside the uncapped all-time count. An empty window yields integer-zero
// averages; callers must treat count==0, not the averages, as "no ratings".
func (s *Service) AggregateRatings(ctx context.Context, spaceID string, limit int64) (SpaceRatings, error) {
	reviews, err := s.store.ListReviews(ctx, spaceID, limit)
	if err != nil {
		return SpaceRatings{}, err
	}
	count, err := s.store.CountReviews(ctx, spaceID)
	if err != nil {
		return SpaceRatings{}, err
	}
	if len(reviews) == 0 {
		return SpaceRatings{ReviewCount: count}, nil
	}

	var rating, silence, crowded int
	for _, rev := range reviews {
		rating += rev.Rating
		silence += rev.Silence
		crowded += rev.Crowdedness
	}
	n := float64(len(reviews))
	newest := reviews[0]
	reporter := s.resolveName(ctx, newest.NetID)
	return SpaceRatings{
		AvgRating:      round1(float64(rating) / n),
		AvgSilence:     round1(float64(silence) / n),
		AvgCrowdedness: round1(float64(crowded) / n),
		ReviewCount:    count,
		LastReview:     newest.Comments,
		Reporter:       &reporter,
	}, nil
}

func round1(x float64) float64 {
	return math.Round(x*10) / 10
}

func (s *Service) resolveName(ctx context.Context, netid string) string {
	if s.names != nil {
		if name, ok := s.names.DisplayName(ctx, netid); ok && name != "" {
			return name
		}
	}
	return netid
}

// ListPrinters returns every printer with its derived status attached.
func (s *Service) ListPrinters(ctx context.Context) ([]PrinterView, error) {
	printers, err := s.store.ListPrinters(ctx)
	if err != nil {
		return nil, err
	}
	views := make([]PrinterView, 0, len(printers))
	for _, p := range printers {
		status, err := s.LatestStatus(ctx, p.ID.Hex())
		if err != nil {
			return nil, err
		}
		views = append(views, PrinterView{Printer: p, PrinterStatus: status})
	}
	return views, nil
}

// GetPrinter returns a single printer with its projection and recent history.
func (s *Service) GetPrinter(ctx context.Context, id string) (*PrinterView, error) {
	p, err := s.store.GetPrinter(ctx, id)
	if err != nil {
		return nil, err
	}
	if p == nil {
		return nil, ErrNotFound
	}
	status, err := s.LatestStatus(ctx, id)
	if err != nil {
		return nil, err
	}
	history, err := s.store.ListReports(ctx, id, ReportHistoryLimit)
	if err != nil {
		return nil, err
	}
	return &PrinterView{Printer: *p, PrinterStatus: status, RecentReports: history}, nil
}

// CreatePrinterInput is the accepted payload for a new printer.
type CreatePrinterInput struct {
	Name     string `json:"name"`
	Location string `json:"location"`
	Building string `json:"building"`
	Floor    string `json:"floor"`
}

// CreatePrinter validates mandatory fields before any store call.
func (s *Service) CreatePrinter(ctx context.Context, in CreatePrinterInput, ident Identity) (Printer, error) {
	if in.Name == "" || in.Location == "" {
		return Printer{}, Validationf("name and location are required")
	}
	return s.store.InsertPrinter(ctx, Printer{
		Name:      in.Name,
		Location:  in.Location,
		Building:  in.Building,
		Floor:     in.Floor,
		CreatedBy: ident.NetID,
	})
}

// UpdatePrinterInput carries the recognized mutable printer fields.
type UpdatePrinterInput struct {
	Name     *string `json:"name"`
	Location *string `json:"location"`
	Building *string `json:"building"`
	Floor    *string `json:"floor"`
}

// UpdatePrinter applies a partial update. A payload with no recognized field
// is a validation error, distinct from NotFound.
func (s *Service) UpdatePrinter(ctx context.Context, id string, in UpdatePrinterInput) error {
	fields := map[string]any{}
	if in.Name != nil {
		fields["name"] = *in.Name
	}
	if in.Location != nil {
		fields["location"] = *in.Location
	}
	if in.Building != nil {
		fields["building"] = *in.Building
	}
	if in.Floor != nil {
		fields["floor"] = *in.Floor
	}
	if len(fields) == 0 {
		return Validationf("no valid fields to update")
	}
	matched, err := s.store.UpdatePrinter(ctx, id, fields)
	if err != nil {
		return err
	}
	if !matched {
		return ErrNotFound
	}
	return nil
}

// DeletePrinter removes a printer. A second delete of the same id is NotFound.
func (s *Service) DeletePrinter(ctx context.Context, id string) error {
	deleted, err := s.store.DeletePrinter(ctx, id)
	if err != nil {
		return err
	}
	if !deleted {
		return ErrNotFound
	}
	return nil
}

// SubmitReportInput is the accepted payload for a status report. Reporter
// attribution is never part of it; it comes from the principal.
type SubmitReportInput struct {
	PrinterID  string `json:"printer_id"`
	Status     string `json:"status"`
	PaperLevel *int   `json:"paper_level"`
	TonerLevel *int   `json:"toner_level"`
	Comments   string `json:"comments"`
}

var validStatuses = map[string]bool{
	StatusAvailable:  true,
	StatusBusy:       true,
	StatusOffline:    true,
	StatusOutOfPaper: true,
	StatusOutOfToner: true,
}

// SubmitReport validates and stores a report. The target printer must exist
// before anything is written.
func (s *Service) SubmitReport(ctx context.Context, in SubmitReportInput, ident Identity) (Report, error) {
	if in.PrinterID == "" || in.Status == "" {
		return Report{}, Validationf("printer_id and status are required")
	}
	if !validStatuses[in.Status] {
		return Report{}, Validationf("status must be one of available, busy, offline, out_of_paper, out_of_toner")
	}
	if in.PaperLevel != nil && (*in.PaperLevel < 0 || *in.PaperLevel > 100) {
		return Report{}, Validationf("paper_level must be between 0 and 100")
	}
	if in.TonerLevel != nil && (*in.TonerLevel < 0 || *in.TonerLevel > 100) {
		return Report{}, Validationf("toner_level must be between 0 and 100")
	}
	printer, err := s.store.GetPrinter(ctx, in.PrinterID)
	if err != nil {
		return Report{}, err
	}
	if printer == nil {
		return Report{}, ErrNotFound
	}

	rep := Report{
		PrinterID:     in.PrinterID,
		Status:        in.Status,
		ReportedBy:    ident.Display(),
		ReporterEmail: ident.Email,
		Comments:      in.Comments,
	}
	if in.PaperLevel != nil {
		rep.PaperLevel = *in.PaperLevel
	}
	if in.TonerLevel != nil {
		rep.TonerLevel = *in.TonerLevel
	}
	return s.store.InsertReport(ctx, rep)
}

// ListReports returns reports newest first, default limit 50.
func (s *Service) ListReports(ctx context.Context, printerID string, limit int64) ([]Report, error) {
	if limit <= 0 {
		limit = DefaultReportLimit
	}
	return s.store.ListReports(ctx, printerID, limit)
}

// ListSpaces returns every space with its summary-window ratings projection.
func (s *Service) ListSpaces(ctx context.Context) ([]SpaceView, error) {
	spaces, err := s.store.ListSpaces(ctx)
	if err != nil {
		return nil, err
	}
	views := make([]SpaceView, 0, len(spaces))
	for _, sp := range spaces {
		ratings, err := s.AggregateRatings(ctx, sp.ID.Hex(), SummaryWindow)
		if err != nil {
			return nil, err
		}
		views = append(views, SpaceView{Space: sp, SpaceRatings: ratings})
	}
	return views, nil
}

// GetSpace returns a space with its detail-window projection and recent
// reviews, each enriched with the resolved display name and vote tally.
func (s *Service) GetSpace(ctx context.Context, id string) (*SpaceView, error) {
	sp, err := s.store.GetSpace(ctx, id)
	if err != nil {
		return nil, err
	}
	if sp == nil {
		return nil, ErrNotFound
	}
	ratings, err := s.AggregateRatings(ctx, id, DetailWindow)
	if err != nil {
		return nil, err
	}
	recent, err := s.ListReviews(ctx, id, DetailWindow)
	if err != nil {
		return nil, err
	}
	return &SpaceView{Space: *sp, SpaceRatings: ratings, RecentReviews: recent}, nil
}

// CreateSpaceInput is the accepted payload for a new space.
type CreateSpaceInput struct {
	Name        string `json:"name"`
	Building    string `json:"building"`
	Floor       string `json:"floor"`
	Description string `json:"description"`
	Capacity    int    `json:"capacity"`
}

// CreateSpace validates mandatory fields before any store call.
func (s *Service) CreateSpace(ctx context.Context, in CreateSpaceInput, ident Identity) (Space, error) {
	if in.Name == "" || in.Building == "" {
		return Space{}, Validationf("name and building are required")
	}
	return s.store.InsertSpace(ctx, Space{
		Name:        in.Name,
		Building:    in.Building,
		Floor:       in.Floor,
		Description: in.Description,
		Capacity:    in.Capacity,
		CreatedBy:   ident.NetID,
	})
}

// UpdateSpaceInput carries the recognized mutable space fields.
type UpdateSpaceInput struct {
	Name        *string `json:"name"`
	Building    *string `json:"building"`
	Floor       *string `json:"floor"`
	Description *string `json:"description"`
	Capacity    *int    `json:"capacity"`
}

// UpdateSpace applies a partial update.
func (s *Service) UpdateSpace(ctx context.Context, id string, in UpdateSpaceInput) error {
	fields := map[string]any{}
	if in.Name != nil {
		fields["name"] = *in.Name
	}
	if in.Building != nil {
		fields["building"] = *in.Building
	}
	if in.Floor != nil {
		fields["floor"] = *in.Floor
	}
	if in.Description != nil {
		fields["description"] = *in.Description
	}
	if in.Capacity != nil {
		fields["capacity"] = *in.Capacity
	}
	if len(fields) == 0 {
		return Validationf("no valid fields to update")
	}
	matched, err := s.store.UpdateSpace(ctx, id, fields)
	if err != nil {
		return err
	}
	if !matched {
		return ErrNotFound
	}
	return nil
}

// DeleteSpace removes a space.
func (s *Service) DeleteSpace(ctx context.Context, id string) error {
	deleted, err := s.store.DeleteSpace(ctx, id)
	if err != nil {
		return err
	}
	if !deleted {
		return ErrNotFound
	}
	return nil
}

// SubmitReviewInput is the accepted payload for a space review.
type SubmitReviewInput struct {
	SpaceID     string `json:"space_id"`
	Rating      int    `json:"rating"`
	Silence     int    `json:"silence"`
	Crowdedness int    `json:"crowdedness"`
	Comments    string `json:"comments"`
}

// SubmitReview validates and stores a review. All three ratings are required
// integers on the 1-5 scale; the target space must exist before the write.
func (s *Service) SubmitReview(ctx context.Context, in SubmitReviewInput, ident Identity) (Review, error) {
	if in.SpaceID == "" {
		return Review{}, Validationf("space_id is required")
	}
	for name, v := range map[string]int{"rating": in.Rating, "silence": in.Silence, "crowdedness": in.Crowdedness} {
		if v < 1 || v > 5 {
			return Review{}, Validationf("%s must be an integer between 1 and 5", name)
		}
	}
	sp, err := s.store.GetSpace(ctx, in.SpaceID)
	if err != nil {
		return Review{}, err
	}
	if sp == nil {
		return Review{}, ErrNotFound
	}
	return s.store.InsertReview(ctx, Review{
		SpaceID:     in.SpaceID,
		Rating:      in.Rating,
		Silence:     in.Silence,
		Crowdedness: in.Crowdedness,
		Comments:    in.Comments,
		NetID:       ident.NetID,
		Email:       ident.Email,
	})
}

// ListReviews returns reviews newest first, enriched at read time with the
// resolved reporter name and the helpful-vote tally.
func (s *Service) ListReviews(ctx context.Context, spaceID string, limit int64) ([]ReviewView, error) {
	if limit <= 0 {
		limit = DefaultReportLimit
	}
	reviews, err := s.store.ListReviews(ctx, spaceID, limit)
	if err != nil {
		return nil, err
	}
	views := make([]ReviewView, 0, len(reviews))
	for _, rev := range reviews {
		votes, err := s.store.CountHelpfulVotes(ctx, rev.ID.Hex())
		if err != nil {
			return nil, err
		}
		views = append(views, ReviewView{
			Review:          rev,
			ReporterDisplay: s.resolveName(ctx, rev.NetID),
			HelpfulVotes:    votes,
		})
	}
	return views, nil
}

// VoteReview records whether the voter found a review helpful. Voting twice
// replaces the earlier vote.
func (s *Service) VoteReview(ctx context.Context, reviewID string, helpful bool, ident Identity) error {
	rev, err := s.store.GetReview(ctx, reviewID)
	if err != nil {
		return err
	}
	if rev == nil {
		return ErrNotFound
	}
	return s.store.UpsertVote(ctx, ReviewVote{
		ReviewID: reviewID,
		NetID:    ident.NetID,
		Helpful:  helpful,
	})
}

// SubmitRequestInput is the accepted payload for a space request.
type SubmitRequestInput struct {
	Name        string `json:"name"`
	Building    string `json:"building"`
	Floor       string `json:"floor"`
	Description string `json:"description"`
}

// SubmitRequest stores a pending proposal for a new space.
func (s *Service) SubmitRequest(ctx context.Context, in SubmitRequestInput, ident Identity) (SpaceRequest, error) {
	if in.Name == "" || in.Building == "" {
		return SpaceRequest{}, Validationf("name and building are required")
	}
	return s.store.InsertRequest(ctx, SpaceRequest{
		Name:        in.Name,
		Building:    in.Building,
		Floor:       in.Floor,
		Description: in.Description,
		RequestedBy: ident.NetID,
	})
}

// ListRequests returns space requests, optionally filtered by status.
func (s *Service) ListRequests(ctx context.Context, status string) ([]SpaceRequest, error) {
	return s.store.ListRequests(ctx, status)
}

// ApproveRequest moves a pending request to approved and materializes the
// space. Re-deciding a terminal request yields ErrConflict; no rollback path
// exists once a state is terminal.
func (s *Service) ApproveRequest(ctx context.Context, id string, admin Identity) (Space, error) {
	req, err := s.store.DecideRequest(ctx, id, RequestApproved, admin.NetID)
	if err != nil {
		return Space{}, err
	}
	return s.store.InsertSpace(ctx, Space{
		Name:        req.Name,
		Building:    req.Building,
		Floor:       req.Floor,
		Description: req.Description,
		CreatedBy:   admin.NetID,
	})
}

// RejectRequest moves a pending request to rejected.
func (s *Service) RejectRequest(ctx context.Context, id string, admin Identity) (*SpaceRequest, error) {
	return s.store.DecideRequest(ctx, id, RequestRejected, admin.NetID)
}
