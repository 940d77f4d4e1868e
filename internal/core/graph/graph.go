// Package graph holds operations on generated knowledge graphs that do not
// involve a model: structural checks, import cleanup and clustering.
package graph

import (
	"encoding/json"
	"fmt"
	"sort"

	"github.com/agenthands/notify/internal/core/model"
)

const (
	defaultLevel      = 1
	defaultImportance = 5
)

// Roots returns the level-0 nodes. A well formed graph has exactly one.
func Roots(g *model.Graph) []model.GraphNode {
	var roots []model.GraphNode
	for _, n := range g.Nodes {
		if n.Level == 0 {
			roots = append(roots, n)
		}
	}
	return roots
}

// DanglingRefs lists, sorted and without duplicates, every id referenced by a
// link, connection or child that matches no node.
func DanglingRefs(g *model.Graph) []string {
	idx := g.NodeIndex()
	missing := make(map[string]struct{})
	check := func(id string) {
		if _, ok := idx[id]; !ok {
			missing[id] = struct{}{}
		}
	}
	for _, l := range g.Links {
		check(l.Source)
		check(l.Target)
	}
	for _, n := range g.Nodes {
		for _, c := range n.Relationships.Connections {
			check(c)
		}
		for _, c := range n.Children {
			check(c)
		}
	}

	out := make([]string, 0, len(missing))
	for id := range missing {
		out = append(out, id)
	}
	sort.Strings(out)
	return out
}

// importedNode accepts graphs written by older exports and by graph views
// that decorate nodes with layout fields.
type importedNode struct {
	ID               string               `json:"id"`
	Label            string               `json:"label"`
	Name             string               `json:"name"`
	Level            *int                 `json:"level"`
	Description      string               `json:"description"`
	Relationships    *model.Relationships `json:"relationships"`
	GeneralKnowledge string               `json:"generalKnowledge"`
	Importance       int                  `json:"importance"`
	Children         []string             `json:"children"`
}

type importedLink struct {
	Source       json.RawMessage `json:"source"`
	Target       json.RawMessage `json:"target"`
	Relationship string          `json:"relationship"`
}

type importedGraph struct {
	Nodes []importedNode `json:"nodes"`
	Links []importedLink `json:"links"`
}

// CleanImported normalizes a graph read from an export file. Labels fall back
// to the node name, a missing level becomes 1, a zero importance becomes 5,
// missing lists become empty, link endpoints given as node objects are reduced
// to their id and links to unknown nodes are dropped. A null graph yields nil.
func CleanImported(raw json.RawMessage) (*model.Graph, error) {
	if len(raw) == 0 || string(raw) == "null" {
		return nil, nil
	}
	var in importedGraph
	if err := json.Unmarshal(raw, &in); err != nil {
		return nil, fmt.Errorf("decode graph: %w", err)
	}

	g := &model.Graph{Nodes: make([]model.GraphNode, 0, len(in.Nodes))}
	for _, n := range in.Nodes {
		node := model.GraphNode{
			ID:               n.ID,
			Label:            n.Label,
			Level:            defaultLevel,
			Description:      n.Description,
			GeneralKnowledge: n.GeneralKnowledge,
			Importance:       n.Importance,
			Children:         n.Children,
		}
		if node.Label == "" {
			node.Label = n.Name
		}
		if n.Level != nil {
			node.Level = *n.Level
		}
		if node.Importance == 0 {
			node.Importance = defaultImportance
		}
		if n.Relationships != nil {
			node.Relationships = *n.Relationships
		}
		g.Nodes = append(g.Nodes, node)
	}

	idx := g.NodeIndex()
	g.Links = make([]model.GraphLink, 0, len(in.Links))
	for _, l := range in.Links {
		src, tgt := endpointID(l.Source), endpointID(l.Target)
		if _, ok := idx[src]; !ok {
			continue
		}
		if _, ok := idx[tgt]; !ok {
			continue
		}
		g.Links = append(g.Links, model.GraphLink{Source: src, Target: tgt, Relationship: l.Relationship})
	}

	g.Normalize()
	return g, nil
}

// endpointID accepts "id" or {"id": "..."}.
func endpointID(raw json.RawMessage) string {
	var s string
	if err := json.Unmarshal(raw, &s); err == nil {
		return s
	}
	var obj struct {
		ID string `json:"id"`
	}
	if err := json.Unmarshal(raw, &obj); err == nil {
		return obj.ID
	}
	return ""
}
