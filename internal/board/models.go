package board

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Report status values accepted at the write boundary.
const (
	StatusAvailable  = "available"
	StatusBusy       = "busy"
	StatusOffline    = "offline"
	StatusOutOfPaper = "out_of_paper"
	StatusOutOfToner = "out_of_toner"
	StatusUnknown    = "unknown"
)

// Printer is a tracked campus printer. Status is never stored here; it is
// derived from the report history on every read.
type Printer struct {
	ID        primitive.ObjectID `bson:"_id,omitempty" json:"_id"`
	Name      string             `bson:"name" json:"name"`
	Location  string             `bson:"location" json:"location"`
	Building  string             `bson:"building,omitempty" json:"building,omitempty"`
	Floor     string             `bson:"floor,omitempty" json:"floor,omitempty"`
	CreatedBy string             `bson:"created_by,omitempty" json:"created_by,omitempty"`
	CreatedAt time.Time          `bson:"created_at" json:"created_at"`
	UpdatedAt *time.Time         `bson:"updated_at,omitempty" json:"updated_at,omitempty"`
}

// Report is an immutable user submission about a printer's current state.
// PrinterID is a plain string reference; a dangling reference simply never
// matches a lookup.
type Report struct {
	ID            primitive.ObjectID `bson:"_id,omitempty" json:"_id"`
	PrinterID     string             `bson:"printer_id" json:"printer_id"`
	Status        string             `bson:"status" json:"status"`
	PaperLevel    int                `bson:"paper_level" json:"paper_level"`
	TonerLevel    int                `bson:"toner_level" json:"toner_level"`
	ReportedBy    string             `bson:"reported_by" json:"reported_by"`
	ReporterEmail string             `bson:"reporter_email,omitempty" json:"reporter_email,omitempty"`
	Comments      string             `bson:"comments" json:"comments"`
	Timestamp     time.Time          `bson:"timestamp" json:"timestamp"`
}

// Space is a tracked study space.
type Space struct {
	ID          primitive.ObjectID `bson:"_id,omitempty" json:"_id"`
	Name        string             `bson:"name" json:"name"`
	Building    string             `bson:"building" json:"building"`
	Floor       string             `bson:"floor,omitempty" json:"floor,omitempty"`
	Description string             `bson:"description,omitempty" json:"description,omitempty"`
	Capacity    int                `bson:"capacity,omitempty" json:"capacity,omitempty"`
	CreatedBy   string             `bson:"created_by,omitempty" json:"created_by,omitempty"`
	CreatedAt   time.Time          `bson:"created_at" json:"created_at"`
	UpdatedAt   *time.Time         `bson:"updated_at,omitempty" json:"updated_at,omitempty"`
}

// Review is an immutable rating of a study space. All three ratings are on a
// 1-5 scale, enforced at the write boundary, not by the store.
type Review struct {
	ID          primitive.ObjectID `bson:"_id,omitempty" json:"_id"`
	SpaceID     string             `bson:"space_id" json:"space_id"`
	Rating      int                `bson:"rating" json:"rating"`
	Silence     int                `bson:"silence" json:"silence"`
	Crowdedness int                `bson:"crowdedness" json:"crowdedness"`
	Comments    string             `bson:"comments" json:"comments"`
	NetID       string             `bson:"netid" json:"netid"`
	Email       string             `bson:"email,omitempty" json:"email,omitempty"`
	Timestamp   time.Time          `bson:"timestamp" json:"timestamp"`
}

// Space request lifecycle states. Transitions are pending -> approved or
// pending -> rejected, exactly once.
const (
	RequestPending  = "pending"
	RequestApproved = "approved"
	RequestRejected = "rejected"
)

// SpaceRequest is a non-admin proposal for a new Space.
type SpaceRequest struct {
	ID          primitive.ObjectID `bson:"_id,omitempty" json:"_id"`
	Name        string             `bson:"name" json:"name"`
	Building    string             `bson:"building" json:"building"`
	Floor       string             `bson:"floor,omitempty" json:"floor,omitempty"`
	Description string             `bson:"description,omitempty" json:"description,omitempty"`
	RequestedBy string             `bson:"requested_by" json:"requested_by"`
	Status      string             `bson:"status" json:"status"`
	DecidedBy   string             `bson:"decided_by,omitempty" json:"decided_by,omitempty"`
	DecidedAt   *time.Time         `bson:"decided_at,omitempty" json:"decided_at,omitempty"`
	CreatedAt   time.Time          `bson:"created_at" json:"created_at"`
}

// ReviewVote marks a review as helpful or not. One vote per (review, netid);
// a repeat vote overwrites the previous one.
type ReviewVote struct {
	ID        primitive.ObjectID `bson:"_id,omitempty" json:"_id"`
	ReviewID  string             `bson:"review_id" json:"review_id"`
	NetID     string             `bson:"netid" json:"netid"`
	Helpful   bool               `bson:"helpful" json:"helpful"`
	Timestamp time.Time          `bson:"timestamp" json:"timestamp"`
}

// Identity is the reporter attribution captured from the authenticated
// principal at write time. Client-supplied attribution is never used.
type Identity struct {
	NetID string
	Email string
	Name  string
}

// Display returns the value stored in a report's reported_by field.
func (i Identity) Display() string {
	if i.Name != "" {
		return i.Name
	}
	if i.NetID != "" {
		return i.NetID
	}
	return "Anonymous"
}

// PrinterStatus is the derived current-state projection of a printer.
type PrinterStatus struct {
	Status     string     `json:"status"`
	PaperLevel int        `json:"paper_level"`
	TonerLevel int        `json:"toner_level"`
	LastUpdate *time.Time `json:"last_updated"`
	ReportedBy *string    `json:"reported_by"`
}

// PrinterView is a printer with its projection attached, and on the detail
// view the raw recent history.
type PrinterView struct {
	Printer
	PrinterStatus
	RecentReports []Report `json:"recent_reports,omitempty"`
}

// SpaceRatings is the derived ratings projection of a study space. Averages
// are computed over the capped most-recent window while ReviewCount covers
// the entire history.
type SpaceRatings struct {
	AvgRating      float64 `json:"avg_rating"`
	AvgSilence     float64 `json:"avg_silence"`
	AvgCrowdedness float64 `json:"avg_crowdedness"`
	ReviewCount    int64   `json:"review_count"`
	LastReview     string  `json:"last_review"`
	Reporter       *string `json:"reporter"`
}

// SpaceView is a space with its ratings projection attached.
type SpaceView struct {
	Space
	SpaceRatings
	RecentReviews []ReviewView `json:"recent_reviews,omitempty"`
}

// ReviewView is a review enriched at read time: the reporter display name is
// re-resolved against the live user record and helpful votes are tallied.
type ReviewView struct {
	Review
	ReporterDisplay string `json:"reporter_display"`
	HelpfulVotes    int64  `json:"helpful_votes"`
}
