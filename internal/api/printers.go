package api

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"statusboard/internal/auth"
	"statusboard/internal/board"
)

func (s *Server) listPrinters(c *gin.Context) {
	views, err := s.board.ListPrinters(c.Request.Context())
	if err != nil {
		respondErr(c, err, "Printer not found")
		return
	}
	if views == nil {
		views = []board.PrinterView{}
	}
	c.JSON(http.StatusOK, views)
}

func (s *Server) getPrinter(c *gin.Context) {
	view, err := s.board.GetPrinter(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondErr(c, err, "Printer not found")
		return
	}
	c.JSON(http.StatusOK, view)
}

func (s *Server) createPrinter(c *gin.Context) {
	var in board.CreatePrinterInput
	if err := c.ShouldBindJSON(&in); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	p, _ := auth.FromContext(c)
	printer, err := s.board.CreatePrinter(c.Request.Context(), in, identityOf(p))
	if err != nil {
		respondErr(c, err, "Printer not found")
		return
	}
	c.JSON(http.StatusCreated, printer)
}

func (s *Server) updatePrinter(c *gin.Context) {
	var in board.UpdatePrinterInput
	if err := c.ShouldBindJSON(&in); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if err := s.board.UpdatePrinter(c.Request.Context(), c.Param("id"), in); err != nil {
		respondErr(c, err, "Printer not found")
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Printer updated successfully"})
}

func (s *Server) deletePrinter(c *gin.Context) {
	if err := s.board.DeletePrinter(c.Request.Context(), c.Param("id")); err != nil {
		respondErr(c, err, "Printer not found")
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Printer deleted successfully"})
}
