// Package mcpserver exposes subjects, transcripts and graphs as MCP tools.
package mcpserver

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	"github.com/agenthands/notify/internal/core"
	"github.com/agenthands/notify/internal/core/youtube"
	"github.com/agenthands/notify/internal/driver"
)

const version = "0.1.0"

// ConceptFinder is implemented by graph mirrors that can search concepts.
type ConceptFinder interface {
	FindConcept(ctx context.Context, label string, limit int) ([]driver.ConceptRef, error)
}

type Tools struct {
	Notebook *core.Notebook
}

// New registers the tools on a fresh MCP server. find_concept is only
// offered when the notebook mirrors graphs into a searchable database.
func New(nb *core.Notebook) *server.MCPServer {
	t := &Tools{Notebook: nb}
	s := server.NewMCPServer("notify", version, server.WithToolCapabilities(false))

	s.AddTool(mcp.NewTool("list_subjects",
		mcp.WithDescription("List subjects, or search them by keyword when query is given"),
		mcp.WithString("workspace_id", mcp.Description("Only subjects of this workspace")),
		mcp.WithString("query", mcp.Description("Keyword matched against names and transcripts")),
	), t.ListSubjects)

	s.AddTool(mcp.NewTool("get_transcript",
		mcp.WithDescription("Return the transcript of a subject"),
		mcp.WithString("subject_id", mcp.Required(), mcp.Description("Subject id")),
		mcp.WithString("format", mcp.Description("plain (default) or markdown"), mcp.Enum("plain", "markdown")),
	), t.GetTranscript)

	s.AddTool(mcp.NewTool("get_graph",
		mcp.WithDescription("Return the knowledge graph of a subject as JSON"),
		mcp.WithString("subject_id", mcp.Required(), mcp.Description("Subject id")),
	), t.GetGraph)

	s.AddTool(mcp.NewTool("fetch_youtube_transcript",
		mcp.WithDescription("Fetch the transcript of a YouTube video, optionally saving it on a subject"),
		mcp.WithString("url", mcp.Required(), mcp.Description("Video URL or id")),
		mcp.WithString("subject_id", mcp.Description("Subject that receives the transcript")),
	), t.FetchYouTubeTranscript)

	if _, ok := nb.Mirror.(ConceptFinder); ok {
		s.AddTool(mcp.NewTool("find_concept",
			mcp.WithDescription("Find concepts by label across all subject graphs"),
			mcp.WithString("label", mcp.Required(), mcp.Description("Part of the concept label")),
		), t.FindConcept)
	}
	return s
}

// Serve runs the server on stdin and stdout until the input closes.
func Serve(nb *core.Notebook) error {
	return server.ServeStdio(New(nb))
}

type subjectSummary struct {
	ID            string `json:"id"`
	Name          string `json:"name"`
	WorkspaceID   string `json:"workspaceId"`
	HasTranscript bool   `json:"hasTranscript"`
	HasGraph      bool   `json:"hasGraph"`
}

func (t *Tools) ListSubjects(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	workspaceID := req.GetString("workspace_id", "")
	if query := req.GetString("query", ""); query != "" {
		results, err := t.Notebook.SearchSubjects(ctx, workspaceID, query, 20)
		if err != nil {
			return mcp.NewToolResultError(err.Error()), nil
		}
		return jsonResult(results)
	}

	subjects, err := t.Notebook.Store.ListSubjects(ctx, workspaceID)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	out := make([]subjectSummary, 0, len(subjects))
	for _, s := range subjects {
		out = append(out, subjectSummary{
			ID:            s.ID,
			Name:          s.Name,
			WorkspaceID:   s.WorkspaceID,
			HasTranscript: s.Transcript != "",
			HasGraph:      s.Graph != nil && len(s.Graph.Nodes) > 0,
		})
	}
	return jsonResult(out)
}

func (t *Tools) GetTranscript(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	id, err := req.RequireString("subject_id")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	sub, err := t.Notebook.Store.GetSubject(ctx, id)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	text := sub.Transcript
	if req.GetString("format", "plain") == "markdown" {
		text = sub.MarkdownTranscript
	}
	if text == "" {
		return mcp.NewToolResultError(fmt.Sprintf("subject %s has no transcript in that format", id)), nil
	}
	return mcp.NewToolResultText(text), nil
}

func (t *Tools) GetGraph(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	id, err := req.RequireString("subject_id")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	sub, err := t.Notebook.Store.GetSubject(ctx, id)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	if sub.Graph == nil {
		return mcp.NewToolResultError(fmt.Sprintf("subject %s has no graph", id)), nil
	}
	return jsonResult(sub.Graph)
}

func (t *Tools) FetchYouTubeTranscript(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	url, err := req.RequireString("url")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	if subjectID := req.GetString("subject_id", ""); subjectID != "" {
		tr, err := t.Notebook.ImportYouTube(ctx, subjectID, url)
		if err != nil {
			return mcp.NewToolResultError(err.Error()), nil
		}
		return mcp.NewToolResultText(tr.Text), nil
	}

	if t.Notebook.YouTube == nil {
		return mcp.NewToolResultError(core.ErrNotConfigured.Error()), nil
	}
	videoID, err := youtube.ExtractVideoID(url)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	tr, err := t.Notebook.YouTube.Fetch(ctx, videoID)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	return mcp.NewToolResultText(tr.Text), nil
}

func (t *Tools) FindConcept(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	label, err := req.RequireString("label")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	finder, ok := t.Notebook.Mirror.(ConceptFinder)
	if !ok {
		return mcp.NewToolResultError(errors.New("graph mirror is not configured").Error()), nil
	}
	refs, err := finder.FindConcept(ctx, label, 10)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	return jsonResult(refs)
}

func jsonResult(v any) (*mcp.CallToolResult, error) {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("encode result: %w", err)
	}
	return mcp.NewToolResultText(string(data)), nil
}
