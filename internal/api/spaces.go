package api

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"statusboard/internal/auth"
	"statusboard/internal/board"
)

func (s *Server) listSpaces(c *gin.Context) {
	views, err := s.board.ListSpaces(c.Request.Context())
	if err != nil {
		respondErr(c, err, "Space not found")
		return
	}
	if views == nil {
		views = []board.SpaceView{}
	}
	c.JSON(http.StatusOK, views)
}

func (s *Server) getSpace(c *gin.Context) {
	view, err := s.board.GetSpace(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondErr(c, err, "Space not found")
		return
	}
	c.JSON(http.StatusOK, view)
}

func (s *Server) createSpace(c *gin.Context) {
	var in board.CreateSpaceInput
	if err := c.ShouldBindJSON(&in); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	p, _ := auth.FromContext(c)
	space, err := s.board.CreateSpace(c.Request.Context(), in, identityOf(p))
	if err != nil {
		respondErr(c, err, "Space not found")
		return
	}
	c.JSON(http.StatusCreated, space)
}

func (s *Server) updateSpace(c *gin.Context) {
	var in board.UpdateSpaceInput
	if err := c.ShouldBindJSON(&in); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if err := s.board.UpdateSpace(c.Request.Context(), c.Param("id"), in); err != nil {
		respondErr(c, err, "Space not found")
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Space updated successfully"})
}

func (s *Server) deleteSpace(c *gin.Context) {
	if err := s.board.DeleteSpace(c.Request.Context(), c.Param("id")); err != nil {
		respondErr(c, err, "Space not found")
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Space deleted successfully"})
}
