package api

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"statusboard/internal/auth"
	"statusboard/internal/board"
)

func (s *Server) submitRequest(c *gin.Context) {
	var in board.SubmitRequestInput
	if err := c.ShouldBindJSON(&in); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	p, _ := auth.FromContext(c)
	req, err := s.board.SubmitRequest(c.Request.Context(), in, identityOf(p))
	if err != nil {
		respondErr(c, err, "Request not found")
		return
	}
	c.JSON(http.StatusCreated, req)
}

func (s *Server) listRequests(c *gin.Context) {
	reqs, err := s.board.ListRequests(c.Request.Context(), c.Query("status"))
	if err != nil {
		respondErr(c, err, "Request not found")
		return
	}
	if reqs == nil {
		reqs = []board.SpaceRequest{}
	}
	c.JSON(http.StatusOK, reqs)
}

func (s *Server) approveRequest(c *gin.Context) {
	p, _ := auth.FromContext(c)
	space, err := s.board.ApproveRequest(c.Request.Context(), c.Param("id"), identityOf(p))
	if err != nil {
		respondErr(c, err, "Request not found")
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Request approved", "space": space})
}

func (s *Server) rejectRequest(c *gin.Context) {
	p, _ := auth.FromContext(c)
	req, err := s.board.RejectRequest(c.Request.Context(), c.Param("id"), identityOf(p))
	if err != nil {
		respondErr(c, err, "Request not found")
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Request rejected", "request": req})
}
