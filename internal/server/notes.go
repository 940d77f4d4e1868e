package server

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/agenthands/notify/internal/core/model"
)

type noteRequest struct {
	Content string   `json:"content"`
	Status  string   `json:"status"`
	Tags    []string `json:"tags"`
}

func (s *Server) CreateNote(c *gin.Context) {
	var req noteRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "invalid request")
		return
	}
	n, err := s.Notebook.Store.CreateNote(c.Request.Context(), c.Param("id"), req.Content, req.Tags)
	if err != nil {
		s.fail(c, err)
		return
	}
	c.JSON(http.StatusCreated, n)
}

func (s *Server) ListNotes(c *gin.Context) {
	notes, err := s.Notebook.Store.ListNotes(c.Request.Context(), c.Param("id"))
	if err != nil {
		s.fail(c, err)
		return
	}
	if notes == nil {
		notes = []model.Note{}
	}
	c.JSON(http.StatusOK, gin.H{"notes": notes})
}

func (s *Server) UpdateNote(c *gin.Context) {
	var req noteRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "invalid request")
		return
	}
	n, err := s.Notebook.Store.UpdateNote(c.Request.Context(), c.Param("id"), req.Content, req.Status, req.Tags)
	if err != nil {
		s.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, n)
}

func (s *Server) DeleteNote(c *gin.Context) {
	if err := s.Notebook.Store.DeleteNote(c.Request.Context(), c.Param("id")); err != nil {
		s.fail(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

func (s *Server) ListPDFs(c *gin.Context) {
	pdfs, err := s.Notebook.Store.ListPDFs(c.Request.Context(), c.Param("id"))
	if err != nil {
		s.fail(c, err)
		return
	}
	if pdfs == nil {
		pdfs = []model.PDF{}
	}
	c.JSON(http.StatusOK, gin.H{"pdfs": pdfs})
}

func (s *Server) DeletePDF(c *gin.Context) {
	if err := s.Notebook.Store.DeletePDF(c.Request.Context(), c.Param("id")); err != nil {
		s.fail(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}
