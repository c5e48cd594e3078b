package api

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"statusboard/internal/auth"
	"statusboard/internal/user"
)

type credentials struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

func (s *Server) register(c *gin.Context) {
	var in credentials
	if err := c.ShouldBindJSON(&in); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	acct, err := s.users.Register(c.Request.Context(), in.Email, in.Password)
	if err != nil {
		respondErr(c, err, "User not found")
		return
	}
	c.JSON(http.StatusCreated, acct)
}

func (s *Server) login(c *gin.Context) {
	var in credentials
	if err := c.ShouldBindJSON(&in); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	acct, err := s.users.Login(c.Request.Context(), in.Email, in.Password)
	if err != nil {
		respondErr(c, err, "User not found")
		return
	}

	p := auth.Principal{
		ID:    acct.ID.Hex(),
		Email: acct.Email,
		NetID: acct.NetID,
		Name:  acct.DisplayName,
		Admin: acct.Admin,
	}
	sessionID, err := s.sessions.Create(c.Request.Context(), p)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.SetCookie(auth.CookieName, sessionID, int(s.cfg.SessionTTL.Seconds()), "/", "", s.cfg.CookieSecure, true)

	// A bearer token is issued alongside the cookie for non-browser clients.
	token, exp, err := auth.Issue(p, s.cfg.JWTIssuer, s.cfg.JWTSigningKey, s.cfg.TokenTTL)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "token issue failed"})
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"message":    "Logged in",
		"token":      token,
		"expires_at": exp.Unix(),
		"user":       p,
	})
}

func (s *Server) logout(c *gin.Context) {
	if id, err := c.Cookie(auth.CookieName); err == nil && id != "" {
		_ = s.sessions.Delete(c.Request.Context(), id)
	}
	c.SetCookie(auth.CookieName, "", -1, "/", "", s.cfg.CookieSecure, true)

	// Federated sessions additionally round-trip through the IdP's single
	// logout endpoint; local sessions just clear.
	if p, ok := auth.FromContext(c); ok && p.SSO && s.sso != nil {
		if slo := s.sso.SingleLogoutURL("/"); slo != "" {
			c.JSON(http.StatusOK, gin.H{"message": "Logged out", "slo_url": slo})
			return
		}
	}
	c.JSON(http.StatusOK, gin.H{"message": "Logged out"})
}

func (s *Server) currentUser(c *gin.Context) {
	p, _ := auth.FromContext(c)
	c.JSON(http.StatusOK, p)
}

func (s *Server) updateProfile(c *gin.Context) {
	var in user.UpdateProfileInput
	if err := c.ShouldBindJSON(&in); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	p, _ := auth.FromContext(c)
	if err := s.users.UpdateProfile(c.Request.Context(), p.NetID, in); err != nil {
		respondErr(c, err, "User not found")
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Profile updated"})
}
