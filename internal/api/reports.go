package api

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"statusboard/internal/auth"
	"statusboard/internal/board"
)

func (s *Server) submitReport(c *gin.Context) {
	var in board.SubmitReportInput
	if err := c.ShouldBindJSON(&in); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	p, _ := auth.FromContext(c)
	report, err := s.board.SubmitReport(c.Request.Context(), in, identityOf(p))
	if err != nil {
		respondErr(c, err, "Printer not found")
		return
	}
	c.JSON(http.StatusCreated, report)
}

func (s *Server) listReports(c *gin.Context) {
	var limit int64
	if v := c.Query("limit"); v != "" {
		if parsed, err := strconv.ParseInt(v, 10, 64); err == nil {
			limit = parsed
		}
	}
	reports, err := s.board.ListReports(c.Request.Context(), c.Query("printer_id"), limit)
	if err != nil {
		respondErr(c, err, "Printer not found")
		return
	}
	if reports == nil {
		reports = []board.Report{}
	}
	c.JSON(http.StatusOK, reports)
}
