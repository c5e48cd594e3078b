package api

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"statusboard/internal/auth"
	"statusboard/internal/board"
)

// reviewPayload accepts ratings as raw JSON values so that a 4.5 or an "abc"
// is rejected with the range message instead of a bind error.
type reviewPayload struct {
	SpaceID     string `json:"space_id"`
	Rating      any    `json:"rating"`
	Silence     any    `json:"silence"`
	Crowdedness any    `json:"crowdedness"`
	Comments    string `json:"comments"`
}

// asRating coerces a decoded JSON value to an integer rating. Only whole
// numbers qualify; strings and fractions do not.
func asRating(v any) (int, bool) {
	f, ok := v.(float64)
	if !ok || f != float64(int(f)) {
		return 0, false
	}
	return int(f), true
}

func (s *Server) submitReview(c *gin.Context) {
	var payload reviewPayload
	if err := c.ShouldBindJSON(&payload); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	in := board.SubmitReviewInput{SpaceID: payload.SpaceID, Comments: payload.Comments}
	for name, raw := range map[string]any{"rating": payload.Rating, "silence": payload.Silence, "crowdedness": payload.Crowdedness} {
		v, ok := asRating(raw)
		if !ok {
			c.JSON(http.StatusBadRequest, gin.H{"error": name + " must be an integer between 1 and 5"})
			return
		}
		switch name {
		case "rating":
			in.Rating = v
		case "silence":
			in.Silence = v
		case "crowdedness":
			in.Crowdedness = v
		}
	}

	p, _ := auth.FromContext(c)
	review, err := s.board.SubmitReview(c.Request.Context(), in, identityOf(p))
	if err != nil {
		respondErr(c, err, "Space not found")
		return
	}
	c.JSON(http.StatusCreated, review)
}

func (s *Server) listReviews(c *gin.Context) {
	var limit int64
	if v := c.Query("limit"); v != "" {
		if parsed, err := strconv.ParseInt(v, 10, 64); err == nil {
			limit = parsed
		}
	}
	reviews, err := s.board.ListReviews(c.Request.Context(), c.Query("space_id"), limit)
	if err != nil {
		respondErr(c, err, "Space not found")
		return
	}
	if reviews == nil {
		reviews = []board.ReviewView{}
	}
	c.JSON(http.StatusOK, reviews)
}

func (s *Server) voteReview(c *gin.Context) {
	var in struct {
		Helpful *bool `json:"helpful"`
	}
	if err := c.ShouldBindJSON(&in); err != nil || in.Helpful == nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "helpful is required"})
		return
	}
	p, _ := auth.FromContext(c)
	if err := s.board.VoteReview(c.Request.Context(), c.Param("id"), *in.Helpful, identityOf(p)); err != nil {
		respondErr(c, err, "Review not found")
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Vote recorded"})
}
