// Package graphgen asks a language model for a knowledge graph of a transcript
// and turns its possibly malformed output into a model.Graph.
package graphgen

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"math"
	"strings"
	"time"

	"github.com/agenthands/notify/internal/config"
	"github.com/agenthands/notify/internal/core/common"
	"github.com/agenthands/notify/internal/core/model"
	"github.com/agenthands/notify/internal/llm"
)

const progressInterval = 100 * time.Millisecond

type Status int

const (
	StatusValidated Status = iota
	StatusPartiallyValid
	StatusUnparseable
)

func (s Status) String() string {
	switch s {
	case StatusValidated:
		return "validated"
	case StatusPartiallyValid:
		return "partially_valid"
	default:
		return "unparseable"
	}
}

// Progress is reported at 0, at most every 100ms at 0.5 while streaming,
// at 0.75 before parsing and at 1 when done.
type Progress struct {
	Content  string  `json:"content"`
	Progress float64 `json:"progress"`
	Complete bool    `json:"isComplete"`
}

type ProgressFunc func(Progress)

type Result struct {
	Status   Status
	Graph    *model.Graph
	Warnings []string
	// Raw is the unprocessed model output.
	Raw string
}

var ErrUnparseable = errors.New("model output is not parseable as a graph")

// Err returns ErrUnparseable for unparseable results and nil otherwise.
func (r *Result) Err() error {
	if r.Status == StatusUnparseable {
		return ErrUnparseable
	}
	return nil
}

type Generator struct {
	LLM    llm.ChatClient
	Config config.GraphConfig
	Logger *slog.Logger
	Now    func() time.Time
}

func NewGenerator(client llm.ChatClient, cfg config.GraphConfig, logger *slog.Logger) *Generator {
	if cfg.SystemPrompt == "" {
		cfg.SystemPrompt = DefaultSystemPrompt
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Generator{
		LLM:    client,
		Config: cfg,
		Logger: logger,
		Now:    time.Now,
	}
}

// Generate returns an error only when the model call itself fails. Malformed
// output is reported through Result.Status.
func (g *Generator) Generate(ctx context.Context, transcript string, onProgress ProgressFunc) (*Result, error) {
	report := func(p Progress) {
		if onProgress != nil {
			onProgress(p)
		}
	}
	report(Progress{Progress: 0})

	req := llm.ChatRequest{
		Model:       g.Config.Model,
		System:      g.systemPrompt(transcript),
		User:        userInstruction,
		Temperature: g.Config.Temperature,
		MaxTokens:   g.Config.MaxTokens,
		Schema:      Schema,
		SchemaName:  SchemaName,
	}

	var (
		raw string
		err error
	)
	if streamer, ok := g.LLM.(llm.StreamingClient); ok {
		last := g.Now()
		raw, err = streamer.Stream(ctx, req, func(delta string) {
			if now := g.Now(); now.Sub(last) >= progressInterval {
				last = now
				report(Progress{Content: delta, Progress: 0.5})
			}
		})
	} else {
		raw, err = g.LLM.Chat(ctx, req)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to generate graph: %w", err)
	}
	g.Logger.Info("graph generation finished", "chars", len(raw))

	report(Progress{Content: raw, Progress: 0.75})
	res := Parse(raw)
	for _, w := range res.Warnings {
		g.Logger.Warn("graph output issue", "warning", w)
	}
	if res.Status == StatusUnparseable {
		return res, nil
	}

	report(Progress{Content: raw, Progress: 1, Complete: true})
	return res, nil
}

func (g *Generator) systemPrompt(transcript string) string {
	if strings.Contains(g.Config.SystemPrompt, "%s") {
		return fmt.Sprintf(g.Config.SystemPrompt, transcript)
	}
	return g.Config.SystemPrompt + "\n\n" + transcript
}

// Parse turns raw model output into a graph. It strips code fences and
// extracts the outermost object. When that does not parse, the text from the
// first '{' to the end is treated as truncated and repaired. The result is
// validated against Schema, and nodes or links that cannot be decoded are
// skipped with a warning.
func Parse(raw string) *Result {
	res := &Result{Raw: raw}
	cleaned := common.CleanJSON(raw)

	var doc any
	if err := json.Unmarshal([]byte(cleaned), &doc); err != nil {
		tail := common.TrailingJSON(raw)
		repaired := common.RepairJSON(tail)
		if repaired == tail {
			res.Status = StatusUnparseable
			res.Warnings = append(res.Warnings, "invalid JSON: "+err.Error())
			return res
		}
		if err2 := json.Unmarshal([]byte(repaired), &doc); err2 != nil {
			res.Status = StatusUnparseable
			res.Warnings = append(res.Warnings, "invalid JSON: "+err2.Error())
			return res
		}
		cleaned = repaired
		res.Warnings = append(res.Warnings, "repaired truncated JSON")
	}

	obj, ok := doc.(map[string]any)
	if !ok {
		res.Status = StatusUnparseable
		res.Warnings = append(res.Warnings, "top-level JSON value is not an object")
		return res
	}

	res.Warnings = append(res.Warnings, Validate(obj)...)
	graph, decodeWarnings := decode(cleaned)
	res.Warnings = append(res.Warnings, decodeWarnings...)
	res.Graph = graph

	if len(res.Warnings) == 0 {
		res.Status = StatusValidated
	} else {
		res.Status = StatusPartiallyValid
	}
	return res
}

// wireNode accepts level and importance as any JSON number, e.g. 0.0 or 7.5.
type wireNode struct {
	model.GraphNode
	Level      json.Number `json:"level"`
	Importance json.Number `json:"importance"`
}

// wholeNumber truncates n toward zero. exact is false when a fraction was lost.
// A missing value is 0.
func wholeNumber(n json.Number) (v int, exact bool) {
	if n == "" {
		return 0, true
	}
	f, err := n.Float64()
	if err != nil {
		return 0, false
	}
	return int(f), f == math.Trunc(f)
}

func decode(cleaned string) (*model.Graph, []string) {
	var parts struct {
		Nodes []json.RawMessage `json:"nodes"`
		Links []json.RawMessage `json:"links"`
	}
	var warnings []string
	if err := json.Unmarshal([]byte(cleaned), &parts); err != nil {
		warnings = append(warnings, "nodes or links are not arrays: "+err.Error())
	}

	graph := &model.Graph{}
	for i, rawNode := range parts.Nodes {
		var w wireNode
		if err := json.Unmarshal(rawNode, &w); err != nil {
			warnings = append(warnings, fmt.Sprintf("skipped node %d: %v", i, err))
			continue
		}
		n := w.GraphNode
		var exact bool
		if n.Level, exact = wholeNumber(w.Level); !exact {
			warnings = append(warnings, fmt.Sprintf("node %d: level %s truncated to %d", i, w.Level, n.Level))
		}
		if n.Importance, exact = wholeNumber(w.Importance); !exact {
			warnings = append(warnings, fmt.Sprintf("node %d: importance %s truncated to %d", i, w.Importance, n.Importance))
		}
		graph.Nodes = append(graph.Nodes, n)
	}
	for i, rawLink := range parts.Links {
		var l model.GraphLink
		if err := json.Unmarshal(rawLink, &l); err != nil {
			warnings = append(warnings, fmt.Sprintf("skipped link %d: %v", i, err))
			continue
		}
		graph.Links = append(graph.Links, l)
	}
	graph.Normalize()
	return graph, warnings
}
