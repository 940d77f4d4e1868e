package server

import (
	"fmt"
	"io"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/agenthands/notify/internal/core/model"
)

type createSubjectRequest struct {
	WorkspaceID string `json:"workspace_id"`
	Name        string `json:"name" binding:"required"`
}

func (s *Server) CreateSubject(c *gin.Context) {
	var req createSubjectRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "name is required")
		return
	}
	sub, err := s.Notebook.Store.CreateSubject(c.Request.Context(), req.WorkspaceID, req.Name)
	if err != nil {
		s.fail(c, err)
		return
	}
	c.JSON(http.StatusCreated, sub)
}

// ListSubjects lists a workspace, or searches it when q is given.
func (s *Server) ListSubjects(c *gin.Context) {
	ctx := c.Request.Context()
	workspaceID := c.Query("workspace_id")

	if q := c.Query("q"); q != "" {
		limit, _ := strconv.Atoi(c.DefaultQuery("limit", "20"))
		results, err := s.Notebook.SearchSubjects(ctx, workspaceID, q, limit)
		if err != nil {
			s.fail(c, err)
			return
		}
		c.JSON(http.StatusOK, gin.H{"results": results})
		return
	}

	subjects, err := s.Notebook.Store.ListSubjects(ctx, workspaceID)
	if err != nil {
		s.fail(c, err)
		return
	}
	if subjects == nil {
		subjects = []model.Subject{}
	}
	c.JSON(http.StatusOK, gin.H{"subjects": subjects})
}

func (s *Server) GetSubject(c *gin.Context) {
	sub, err := s.Notebook.Store.GetSubject(c.Request.Context(), c.Param("id"))
	if err != nil {
		s.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, sub)
}

type renameRequest struct {
	Name string `json:"name" binding:"required"`
}

func (s *Server) RenameSubject(c *gin.Context) {
	var req renameRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "name is required")
		return
	}
	ctx := c.Request.Context()
	if err := s.Notebook.Store.RenameSubject(ctx, c.Param("id"), req.Name); err != nil {
		s.fail(c, err)
		return
	}
	s.GetSubject(c)
}

func (s *Server) DeleteSubject(c *gin.Context) {
	if err := s.Notebook.DeleteSubject(c.Request.Context(), c.Param("id")); err != nil {
		s.fail(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

type transcriptRequest struct {
	Transcript string `json:"transcript"`
}

func (s *Server) SaveTranscript(c *gin.Context) {
	var req transcriptRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "invalid request")
		return
	}
	if err := s.Notebook.Store.SaveTranscript(c.Request.Context(), c.Param("id"), req.Transcript); err != nil {
		s.fail(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

func (s *Server) SaveGraphState(c *gin.Context) {
	var state model.GraphState
	if err := c.ShouldBindJSON(&state); err != nil {
		badRequest(c, "invalid graph state")
		return
	}
	if err := s.Notebook.Store.SaveGraphState(c.Request.Context(), c.Param("id"), &state); err != nil {
		s.fail(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

func (s *Server) ExportSubject(c *gin.Context) {
	exp, err := s.Notebook.Store.ExportSubject(c.Request.Context(), c.Param("id"))
	if err != nil {
		s.fail(c, err)
		return
	}
	c.Header("Content-Disposition", fmt.Sprintf(`attachment; filename="subject-%s.json"`, exp.Subject.ID))
	c.IndentedJSON(http.StatusOK, exp)
}

func (s *Server) ImportSubject(c *gin.Context) {
	data, err := io.ReadAll(c.Request.Body)
	if err != nil {
		badRequest(c, "unreadable body")
		return
	}
	sub, err := s.Notebook.Store.ImportSubject(c.Request.Context(), c.Query("workspace_id"), data)
	if err != nil {
		s.fail(c, err)
		return
	}
	c.JSON(http.StatusCreated, sub)
}
