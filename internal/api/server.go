package api

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"statusboard/internal/auth"
	"statusboard/internal/board"
	"statusboard/internal/config"
	"statusboard/internal/sso"
	"statusboard/internal/store"
	"statusboard/internal/user"
)

// Server bundles the dependencies every handler needs. It is constructed
// once at process start and passed in; handlers never reach for globals.
type Server struct {
	cfg      config.App
	board    *board.Service
	users    *user.Service
	sessions *auth.Sessions
	sso      *sso.Client
	mongo    *store.Mongo
	redis    *store.Redis
}

// New creates the API server. sso, mongo and redis may be nil in tests.
func New(cfg config.App, b *board.Service, u *user.Service, sessions *auth.Sessions, ssoClient *sso.Client, m *store.Mongo, r *store.Redis) *Server {
	return &Server{
		cfg:      cfg,
		board:    b,
		users:    u,
		sessions: sessions,
		sso:      ssoClient,
		mongo:    m,
		redis:    r,
	}
}

// Register wires all routes onto the engine. Middleware (recovery, logging,
// CORS, rate limiting, metrics, authentication) is attached by the caller.
func (s *Server) Register(r *gin.Engine) {
	r.GET("/health", s.health)
	r.GET("/healthz", s.healthz)
	if s.cfg.SSOEnabled {
		r.GET("/saml/metadata", s.samlMetadata)
	}

	api := r.Group("/api")

	api.GET("/printers", s.listPrinters)
	api.GET("/printers/:id", s.getPrinter)
	api.POST("/printers", auth.RequireAuth(), s.createPrinter)
	api.PUT("/printers/:id", auth.RequireAdmin(), s.updatePrinter)
	api.DELETE("/printers/:id", auth.RequireAdmin(), s.deletePrinter)

	api.GET("/reports", s.listReports)
	api.POST("/reports", auth.RequireAuth(), s.submitReport)

	api.GET("/spaces", s.listSpaces)
	api.GET("/spaces/:id", s.getSpace)
	api.POST("/spaces", auth.RequireAdmin(), s.createSpace)
	api.PUT("/spaces/:id", auth.RequireAdmin(), s.updateSpace)
	api.DELETE("/spaces/:id", auth.RequireAdmin(), s.deleteSpace)

	api.GET("/reviews", s.listReviews)
	api.POST("/reviews", auth.RequireAuth(), s.submitReview)
	api.POST("/reviews/:id/vote", auth.RequireAuth(), s.voteReview)

	api.POST("/requests", auth.RequireAuth(), s.submitRequest)
	api.GET("/requests", auth.RequireAdmin(), s.listRequests)
	api.POST("/requests/:id/approve", auth.RequireAdmin(), s.approveRequest)
	api.POST("/requests/:id/reject", auth.RequireAdmin(), s.rejectRequest)

	api.POST("/register", s.register)
	api.POST("/login", s.login)
	api.POST("/logout", s.logout)
	api.GET("/user", auth.RequireAuth(), s.currentUser)
	api.PUT("/user", auth.RequireAuth(), s.updateProfile)
}

// respondErr maps domain errors onto the wire taxonomy. Store errors are
// forwarded verbatim with 500; nothing is retried.
func respondErr(c *gin.Context, err error, notFoundMsg string) {
	switch {
	case board.IsValidation(err):
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	case errors.Is(err, board.ErrNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": notFoundMsg})
	case errors.Is(err, board.ErrConflict):
		c.JSON(http.StatusConflict, gin.H{"error": "request already decided"})
	case errors.Is(err, user.ErrInvalidCredentials):
		c.JSON(http.StatusUnauthorized, gin.H{"error": err.Error()})
	default:
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
	}
}

func identityOf(p auth.Principal) board.Identity {
	return board.Identity{NetID: p.NetID, Email: p.Email, Name: p.Name}
}
