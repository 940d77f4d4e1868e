// Package server exposes the Notebook over a local HTTP API.
package server

import (
	"errors"
	"log/slog"
	"net/http"
	"os"

	"github.com/gin-gonic/gin"

	"github.com/agenthands/notify/internal/core"
	"github.com/agenthands/notify/internal/core/audio"
	"github.com/agenthands/notify/internal/core/graphgen"
	"github.com/agenthands/notify/internal/core/pdf"
	"github.com/agenthands/notify/internal/core/transcription"
	"github.com/agenthands/notify/internal/core/youtube"
	"github.com/agenthands/notify/internal/store"
)

type Server struct {
	Notebook *core.Notebook
	Logger   *slog.Logger
	// TempDir receives uploaded audio while it is transcribed.
	TempDir string
}

func NewServer(nb *core.Notebook, logger *slog.Logger) *Server {
	if logger == nil {
		logger = slog.Default()
	}
	return &Server{Notebook: nb, Logger: logger, TempDir: os.TempDir()}
}

func (s *Server) SetupRouter() *gin.Engine {
	r := gin.New()
	r.Use(gin.Logger(), gin.Recovery())

	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	r.POST("/workspaces", s.CreateWorkspace)
	r.GET("/workspaces", s.ListWorkspaces)
	r.GET("/workspaces/:id/export", s.ExportWorkspace)
	r.POST("/workspaces/import", s.ImportWorkspace)

	r.POST("/subjects", s.CreateSubject)
	r.GET("/subjects", s.ListSubjects)
	r.POST("/subjects/import", s.ImportSubject)
	r.GET("/subjects/:id", s.GetSubject)
	r.PATCH("/subjects/:id", s.RenameSubject)
	r.DELETE("/subjects/:id", s.DeleteSubject)
	r.PUT("/subjects/:id/transcript", s.SaveTranscript)
	r.PUT("/subjects/:id/graph-state", s.SaveGraphState)
	r.GET("/subjects/:id/export", s.ExportSubject)

	r.POST("/subjects/:id/audio", s.UploadAudio)
	r.POST("/subjects/:id/youtube", s.ImportYouTube)
	r.POST("/subjects/:id/graph", s.GenerateGraph)
	r.POST("/subjects/:id/markdown", s.GenerateMarkdown)
	r.GET("/subjects/:id/clusters", s.Clusters)

	r.POST("/subjects/:id/pdfs", s.UploadPDF)
	r.GET("/subjects/:id/pdfs", s.ListPDFs)
	r.DELETE("/pdfs/:id", s.DeletePDF)

	r.POST("/subjects/:id/notes", s.CreateNote)
	r.GET("/subjects/:id/notes", s.ListNotes)
	r.PATCH("/notes/:id", s.UpdateNote)
	r.DELETE("/notes/:id", s.DeleteNote)

	return r
}

// statusOf maps domain errors onto HTTP status codes.
func statusOf(err error) int {
	switch {
	case errors.Is(err, store.ErrNotFound),
		errors.Is(err, youtube.ErrNoTranscript):
		return http.StatusNotFound
	case errors.Is(err, store.ErrInvalidExport),
		errors.Is(err, youtube.ErrInvalidVideoID),
		errors.Is(err, pdf.ErrNoText),
		errors.Is(err, audio.ErrUnexpectedFormat),
		errors.Is(err, transcription.ErrNoAudio):
		return http.StatusBadRequest
	case errors.Is(err, core.ErrEmptyTranscript),
		errors.Is(err, core.ErrNoGraph):
		return http.StatusConflict
	case errors.Is(err, graphgen.ErrUnparseable):
		return http.StatusBadGateway
	case errors.Is(err, core.ErrNotConfigured),
		errors.Is(err, audio.ErrFFmpegNotFound):
		return http.StatusServiceUnavailable
	default:
		return http.StatusInternalServerError
	}
}

func (s *Server) fail(c *gin.Context, err error) {
	status := statusOf(err)
	if status >= http.StatusInternalServerError {
		s.Logger.Error("request failed", "method", c.Request.Method, "path", c.FullPath(), "error", err)
	}
	c.JSON(status, gin.H{"error": err.Error()})
}

func badRequest(c *gin.Context, msg string) {
	c.JSON(http.StatusBadRequest, gin.H{"error": msg})
}
