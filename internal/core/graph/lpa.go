package graph

import (
	"sort"

	"github.com/agenthands/notify/internal/core/model"
)

// Cluster is a group of densely connected concepts.
type Cluster struct {
	// Label is the label of the most important member.
	Label string            `json:"label"`
	Nodes []model.GraphNode `json:"nodes"`
}

// LabelPropagationDetector groups graph nodes with the Label Propagation
// Algorithm. Links, connections and children all count as undirected edges;
// references to unknown nodes are ignored.
type LabelPropagationDetector struct {
	MaxIterations int
}

func NewLabelPropagationDetector() *LabelPropagationDetector {
	return &LabelPropagationDetector{
		MaxIterations: 20,
	}
}

func (d *LabelPropagationDetector) Detect(g *model.Graph) []Cluster {
	if g == nil || len(g.Nodes) == 0 {
		return nil
	}

	// node -> neighbor -> weight; parallel references strengthen the tie
	adj := make(map[string]map[string]int, len(g.Nodes))
	nodeMap := make(map[string]model.GraphNode, len(g.Nodes))
	ids := make([]string, 0, len(g.Nodes))
	for _, n := range g.Nodes {
		if _, dup := nodeMap[n.ID]; dup {
			continue
		}
		nodeMap[n.ID] = n
		adj[n.ID] = make(map[string]int)
		ids = append(ids, n.ID)
	}

	connect := func(a, b string) {
		if a == b {
			return
		}
		if _, ok := nodeMap[a]; !ok {
			return
		}
		if _, ok := nodeMap[b]; !ok {
			return
		}
		adj[a][b]++
		adj[b][a]++
	}
	for _, l := range g.Links {
		connect(l.Source, l.Target)
	}
	for _, n := range g.Nodes {
		for _, c := range n.Relationships.Connections {
			connect(n.ID, c)
		}
		for _, c := range n.Children {
			connect(n.ID, c)
		}
	}

	labels := make(map[string]string, len(ids))
	for _, id := range ids {
		labels[id] = id
	}

	for iter := 0; iter < d.MaxIterations; iter++ {
		changeCount := 0

		for _, u := range ids {
			neighbors := adj[u]
			if len(neighbors) == 0 {
				continue
			}

			labelCounts := make(map[string]int)
			maxCount := 0
			for v, weight := range neighbors {
				label := labels[v]
				labelCounts[label] += weight
				if labelCounts[label] > maxCount {
					maxCount = labelCounts[label]
				}
			}

			var candidates []string
			for label, count := range labelCounts {
				if count == maxCount {
					candidates = append(candidates, label)
				}
			}

			// Keep the current label on ties, otherwise the lexicographically
			// largest for determinism.
			bestLabel := labels[u]
			if labelCounts[bestLabel] != maxCount {
				sort.Strings(candidates)
				bestLabel = candidates[len(candidates)-1]
			}

			if labels[u] != bestLabel {
				labels[u] = bestLabel
				changeCount++
			}
		}

		if changeCount == 0 {
			break
		}
	}

	groups := make(map[string][]model.GraphNode)
	for _, id := range ids {
		groups[labels[id]] = append(groups[labels[id]], nodeMap[id])
	}

	var clusters []Cluster
	for _, members := range groups {
		if len(members) < 2 {
			continue
		}
		sort.SliceStable(members, func(i, j int) bool {
			if members[i].Importance != members[j].Importance {
				return members[i].Importance > members[j].Importance
			}
			return members[i].ID < members[j].ID
		})
		clusters = append(clusters, Cluster{Label: members[0].Label, Nodes: members})
	}
	sort.Slice(clusters, func(i, j int) bool {
		if len(clusters[i].Nodes) != len(clusters[j].Nodes) {
			return len(clusters[i].Nodes) > len(clusters[j].Nodes)
		}
		return clusters[i].Nodes[0].ID < clusters[j].Nodes[0].ID
	})
	return clusters
}
