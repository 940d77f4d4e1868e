package graph

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/agenthands/notify/internal/core/model"
)

func TestRootsAndDanglingRefs(t *testing.T) {
	g := &model.Graph{
		Nodes: []model.GraphNode{
			{ID: "root", Level: 0, Relationships: model.Relationships{Connections: []string{"a", "ghost"}}, Children: []string{"a"}},
			{ID: "a", Level: 1, Children: []string{"phantom"}},
		},
		Links: []model.GraphLink{{Source: "root", Target: "a"}, {Source: "a", Target: "ghost"}},
	}

	roots := Roots(g)
	require.Len(t, roots, 1)
	assert.Equal(t, "root", roots[0].ID)
	assert.Equal(t, []string{"ghost", "phantom"}, DanglingRefs(g))
}

func TestCleanImported(t *testing.T) {
	raw := json.RawMessage(`{
		"nodes": [
			{"id": "root", "label": "Root", "level": 0, "importance": 9, "x": 12.5, "vx": 0.1},
			{"id": "legacy", "name": "Old Name"},
			{"id": "c", "label": "C", "relationships": {"connections": ["root"]}, "children": ["legacy"]}
		],
		"links": [
			{"source": "root", "target": "legacy", "relationship": "has"},
			{"source": {"id": "c", "x": 1}, "target": {"id": "root"}, "relationship": "refers"},
			{"source": "c", "target": "missing", "relationship": "dangling"}
		]
	}`)

	g, err := CleanImported(raw)
	require.NoError(t, err)
	require.Len(t, g.Nodes, 3)

	root, legacy, c := g.Nodes[0], g.Nodes[1], g.Nodes[2]
	assert.Equal(t, 0, root.Level, "explicit root level is kept")
	assert.Equal(t, 9, root.Importance)
	assert.Equal(t, []string{}, root.Relationships.Connections)

	assert.Equal(t, "Old Name", legacy.Label)
	assert.Equal(t, 1, legacy.Level)
	assert.Equal(t, 5, legacy.Importance)
	assert.Equal(t, []string{}, legacy.Children)

	assert.Equal(t, []string{"root"}, c.Relationships.Connections)

	assert.Equal(t, []model.GraphLink{
		{Source: "root", Target: "legacy", Relationship: "has"},
		{Source: "c", Target: "root", Relationship: "refers"},
	}, g.Links)
}

func TestCleanImported_Null(t *testing.T) {
	g, err := CleanImported(json.RawMessage("null"))
	assert.NoError(t, err)
	assert.Nil(t, g)

	_, err = CleanImported(json.RawMessage(`{"nodes": 5}`))
	assert.Error(t, err)
}
