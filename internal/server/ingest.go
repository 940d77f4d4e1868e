package server

import (
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"strings"

	"github.com/gabriel-vasile/mimetype"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/agenthands/notify/internal/core/graphgen"
)

// isAudio accepts audio and video containers; ffmpeg extracts the audio track.
func isAudio(m *mimetype.MIME) bool {
	for ; m != nil; m = m.Parent() {
		t := m.String()
		if strings.HasPrefix(t, "audio/") || strings.HasPrefix(t, "video/") || t == "application/ogg" {
			return true
		}
	}
	return false
}

func (s *Server) UploadAudio(c *gin.Context) {
	fh, err := c.FormFile("file")
	if err != nil {
		badRequest(c, "multipart field 'file' is required")
		return
	}

	path := filepath.Join(s.TempDir, fmt.Sprintf("upload_%s%s", uuid.NewString(), filepath.Ext(fh.Filename)))
	if err := c.SaveUploadedFile(fh, path); err != nil {
		s.fail(c, fmt.Errorf("save upload: %w", err))
		return
	}
	defer func() {
		if err := os.Remove(path); err != nil && !os.IsNotExist(err) {
			s.Logger.Warn("failed to remove upload", "path", path, "error", err)
		}
	}()

	mt, err := mimetype.DetectFile(path)
	if err != nil {
		s.fail(c, fmt.Errorf("detect upload type: %w", err))
		return
	}
	if !isAudio(mt) {
		c.JSON(http.StatusUnsupportedMediaType, gin.H{"error": fmt.Sprintf("expected audio, got %s", mt.String())})
		return
	}

	sub, err := s.Notebook.TranscribeAudio(c.Request.Context(), c.Param("id"), path, func(done, total int) {
		s.Logger.Info("transcription progress", "subject", c.Param("id"), "done", done, "total", total)
	})
	if err != nil {
		s.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, sub)
}

type youtubeRequest struct {
	URL string `json:"url" binding:"required"`
}

func (s *Server) ImportYouTube(c *gin.Context) {
	var req youtubeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "url is required")
		return
	}
	t, err := s.Notebook.ImportYouTube(c.Request.Context(), c.Param("id"), req.URL)
	if err != nil {
		s.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, t)
}

type graphResponse struct {
	Status   string   `json:"status"`
	Graph    any      `json:"graph"`
	Warnings []string `json:"warnings"`
	Raw      string   `json:"raw,omitempty"`
	Error    string   `json:"error,omitempty"`
}

func newGraphResponse(res *graphgen.Result, err error) graphResponse {
	out := graphResponse{Warnings: []string{}}
	if res != nil {
		out.Status = res.Status.String()
		out.Graph = res.Graph
		if res.Warnings != nil {
			out.Warnings = res.Warnings
		}
		if res.Status == graphgen.StatusUnparseable {
			out.Raw = res.Raw
		}
	}
	if err != nil {
		out.Error = err.Error()
	}
	return out
}

// GenerateGraph answers with JSON, or with a server-sent event stream of
// "progress" events followed by one "result" event when the client accepts
// text/event-stream.
func (s *Server) GenerateGraph(c *gin.Context) {
	ctx := c.Request.Context()
	id := c.Param("id")

	if !strings.Contains(c.GetHeader("Accept"), "text/event-stream") {
		res, err := s.Notebook.GenerateGraph(ctx, id, nil)
		if err != nil {
			if res != nil {
				c.JSON(statusOf(err), newGraphResponse(res, err))
				return
			}
			s.fail(c, err)
			return
		}
		c.JSON(http.StatusOK, newGraphResponse(res, nil))
		return
	}

	c.Header("Cache-Control", "no-cache")
	c.Header("Connection", "keep-alive")
	res, err := s.Notebook.GenerateGraph(ctx, id, func(p graphgen.Progress) {
		c.SSEvent("progress", p)
		c.Writer.Flush()
	})
	if err != nil && res == nil {
		s.Logger.Warn("graph generation failed", "subject", id, "error", err)
	}
	c.SSEvent("result", newGraphResponse(res, err))
	c.Writer.Flush()
}

func (s *Server) GenerateMarkdown(c *gin.Context) {
	md, err := s.Notebook.GenerateMarkdown(c.Request.Context(), c.Param("id"), nil)
	if err != nil {
		s.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"markdown": md})
}

func (s *Server) Clusters(c *gin.Context) {
	clusters, err := s.Notebook.Clusters(c.Request.Context(), c.Param("id"))
	if err != nil {
		s.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"clusters": clusters})
}

// UploadPDF stores the PDF even when the markdown or graph step fails; the
// failure is then reported as a warning next to the stored record.
func (s *Server) UploadPDF(c *gin.Context) {
	fh, err := c.FormFile("file")
	if err != nil {
		badRequest(c, "multipart field 'file' is required")
		return
	}
	f, err := fh.Open()
	if err != nil {
		s.fail(c, fmt.Errorf("open upload: %w", err))
		return
	}
	data, err := io.ReadAll(f)
	f.Close()
	if err != nil {
		s.fail(c, fmt.Errorf("read upload: %w", err))
		return
	}
	if mt := mimetype.Detect(data); !mt.Is("application/pdf") {
		c.JSON(http.StatusUnsupportedMediaType, gin.H{"error": fmt.Sprintf("expected application/pdf, got %s", mt.String())})
		return
	}

	out, err := s.Notebook.IngestPDF(c.Request.Context(), c.Param("id"), fh.Filename, data, nil)
	if err != nil {
		if out == nil || out.PDF == nil {
			s.fail(c, err)
			return
		}
		c.JSON(http.StatusCreated, gin.H{"pdf": out.PDF, "warning": err.Error()})
		return
	}
	resp := gin.H{"pdf": out.PDF}
	if out.Graph != nil {
		resp["graph"] = newGraphResponse(out.Graph, nil)
	}
	c.JSON(http.StatusCreated, resp)
}
