package driver

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/agenthands/notify/internal/core/model"
)

// Mirror copies subject graphs into the graph database as :Concept nodes with
// RELATES_TO and CHILD_OF edges. Every node carries its subject id.
type Mirror struct {
	Driver GraphDriver
	Logger *slog.Logger
}

func NewMirror(d GraphDriver, logger *slog.Logger) *Mirror {
	return &Mirror{Driver: d, Logger: logger}
}

// ConceptRef locates a concept inside a subject.
type ConceptRef struct {
	SubjectID string `json:"subjectId"`
	NodeID    string `json:"nodeId"`
	Label     string `json:"label"`
}

// SyncSubject replaces the mirrored graph of a subject. Links and children
// that point at unknown nodes are skipped by the MATCH clauses.
func (m *Mirror) SyncSubject(ctx context.Context, subjectID string, g *model.Graph) error {
	if err := m.DeleteSubject(ctx, subjectID); err != nil {
		return err
	}
	if g == nil || len(g.Nodes) == 0 {
		return nil
	}

	nodes := make([]map[string]any, 0, len(g.Nodes))
	var children []map[string]any
	for _, n := range g.Nodes {
		nodes = append(nodes, map[string]any{
			"id":                n.ID,
			"label":             n.Label,
			"level":             int64(n.Level),
			"description":       n.Description,
			"general_knowledge": n.GeneralKnowledge,
			"importance":        int64(n.Importance),
		})
		for _, c := range n.Children {
			children = append(children, map[string]any{"parent": n.ID, "child": c})
		}
	}
	links := make([]map[string]any, 0, len(g.Links))
	for _, l := range g.Links {
		links = append(links, map[string]any{
			"source":       l.Source,
			"target":       l.Target,
			"relationship": l.Relationship,
		})
	}

	params := map[string]any{"subject_id": subjectID, "nodes": nodes}
	if _, err := m.Driver.ExecuteQuery(ctx, SaveConceptsQuery, params); err != nil {
		return fmt.Errorf("save concepts: %w", err)
	}
	if len(links) > 0 {
		params := map[string]any{"subject_id": subjectID, "links": links}
		if _, err := m.Driver.ExecuteQuery(ctx, SaveRelationsQuery, params); err != nil {
			return fmt.Errorf("save relations: %w", err)
		}
	}
	if len(children) > 0 {
		params := map[string]any{"subject_id": subjectID, "children": children}
		if _, err := m.Driver.ExecuteQuery(ctx, SaveChildrenQuery, params); err != nil {
			return fmt.Errorf("save children: %w", err)
		}
	}

	m.Logger.Debug("mirrored graph", "subject", subjectID, "nodes", len(nodes), "links", len(links))
	return nil
}

func (m *Mirror) DeleteSubject(ctx context.Context, subjectID string) error {
	_, err := m.Driver.ExecuteQuery(ctx, DeleteSubjectGraphQuery, map[string]any{"subject_id": subjectID})
	if err != nil {
		return fmt.Errorf("delete mirrored graph: %w", err)
	}
	return nil
}

// FindConcept searches concept labels across all subjects, most important first.
func (m *Mirror) FindConcept(ctx context.Context, label string, limit int) ([]ConceptRef, error) {
	if limit <= 0 {
		limit = 10
	}
	res, err := m.Driver.ExecuteQuery(ctx, FindConceptQuery, map[string]any{"label": label, "limit": int64(limit)})
	if err != nil {
		return nil, fmt.Errorf("find concept: %w", err)
	}

	refs := make([]ConceptRef, 0, len(res.Records))
	for _, rec := range res.Records {
		subjectID, _ := rec.Get("subject_id")
		id, _ := rec.Get("id")
		lbl, _ := rec.Get("label")
		ref := ConceptRef{}
		ref.SubjectID, _ = subjectID.(string)
		ref.NodeID, _ = id.(string)
		ref.Label, _ = lbl.(string)
		refs = append(refs, ref)
	}
	return refs, nil
}
