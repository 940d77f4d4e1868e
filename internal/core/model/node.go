package model

// GraphNode is a concept in a subject's knowledge graph.
// Level 0 marks the root topic; connections and children hold ids of other nodes
// and may reference nodes that do not exist.
type GraphNode struct {
	ID               string        `json:"id"`
	Label            string        `json:"label"`
	Level            int           `json:"level"`
	Description      string        `json:"description"`
	Relationships    Relationships `json:"relationships"`
	GeneralKnowledge string        `json:"generalKnowledge"`
	Importance       int           `json:"importance"`
	Children         []string      `json:"children"`
}

type Relationships struct {
	Connections []string `json:"connections"`
}
