package server

import (
	"fmt"
	"io"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/agenthands/notify/internal/core/model"
)

type createWorkspaceRequest struct {
	Name        string `json:"name" binding:"required"`
	Description string `json:"description"`
}

func (s *Server) CreateWorkspace(c *gin.Context) {
	var req createWorkspaceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "name is required")
		return
	}
	w, err := s.Notebook.Store.CreateWorkspace(c.Request.Context(), req.Name, req.Description)
	if err != nil {
		s.fail(c, err)
		return
	}
	c.JSON(http.StatusCreated, w)
}

func (s *Server) ListWorkspaces(c *gin.Context) {
	list, err := s.Notebook.Store.ListWorkspaces(c.Request.Context())
	if err != nil {
		s.fail(c, err)
		return
	}
	if list == nil {
		list = []model.Workspace{}
	}
	c.JSON(http.StatusOK, gin.H{"workspaces": list})
}

func (s *Server) ExportWorkspace(c *gin.Context) {
	exp, err := s.Notebook.Store.ExportWorkspace(c.Request.Context(), c.Param("id"))
	if err != nil {
		s.fail(c, err)
		return
	}
	c.Header("Content-Disposition", fmt.Sprintf(`attachment; filename="workspace-%s.json"`, exp.Workspace.ID))
	c.IndentedJSON(http.StatusOK, exp)
}

func (s *Server) ImportWorkspace(c *gin.Context) {
	data, err := io.ReadAll(c.Request.Body)
	if err != nil {
		badRequest(c, "unreadable body")
		return
	}
	w, err := s.Notebook.Store.ImportWorkspace(c.Request.Context(), data)
	if err != nil {
		s.fail(c, err)
		return
	}
	c.JSON(http.StatusCreated, w)
}
