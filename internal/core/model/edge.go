package model

type GraphLink struct {
	Source       string `json:"source"`
	Target       string `json:"target"`
	Relationship string `json:"relationship"`
}

// Graph is the generator output persisted on a subject.
type Graph struct {
	Nodes []GraphNode `json:"nodes"`
	Links []GraphLink `json:"links"`
}

// Normalize replaces nil slices with empty ones so the graph always
// serializes with arrays.
func (g *Graph) Normalize() {
	if g.Nodes == nil {
		g.Nodes = []GraphNode{}
	}
	if g.Links == nil {
		g.Links = []GraphLink{}
	}
	for i := range g.Nodes {
		if g.Nodes[i].Relationships.Connections == nil {
			g.Nodes[i].Relationships.Connections = []string{}
		}
		if g.Nodes[i].Children == nil {
			g.Nodes[i].Children = []string{}
		}
	}
}

// NodeIndex maps node ids to their position in Nodes.
func (g *Graph) NodeIndex() map[string]int {
	idx := make(map[string]int, len(g.Nodes))
	for i, n := range g.Nodes {
		idx[n.ID] = i
	}
	return idx
}
