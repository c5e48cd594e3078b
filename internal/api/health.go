package api

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"statusboard/internal/sso"
)

// health is the external health contract: healthy iff the document store
// answers a ping.
func (s *Server) health(c *gin.Context) {
	if s.mongo == nil || !s.mongo.Healthy(c.Request.Context()) {
		c.JSON(http.StatusInternalServerError, gin.H{"status": "unhealthy", "error": "database unreachable"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "healthy", "database": "connected"})
}

// healthz is the liveness probe covering both backing stores.
func (s *Server) healthz(c *gin.Context) {
	dbHealthy := s.mongo != nil && s.mongo.Healthy(c.Request.Context())
	redisHealthy := s.redis != nil && s.redis.Healthy(c.Request.Context())
	status := http.StatusOK
	if !dbHealthy || !redisHealthy {
		status = http.StatusServiceUnavailable
	}
	c.JSON(status, gin.H{"status": "ok", "db": dbHealthy, "redis": redisHealthy})
}

func (s *Server) samlMetadata(c *gin.Context) {
	entityID := "statusboard"
	acs := "http://" + c.Request.Host + "/saml/acs"
	doc, err := sso.SPMetadata(entityID, acs)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.Data(http.StatusOK, "application/xml", doc)
}
