package model

import "time"

type Subject struct {
	ID                 string      `json:"id"`
	WorkspaceID        string      `json:"workspaceId"`
	Name               string      `json:"name"`
	CreatedAt          time.Time   `json:"createdAt"`
	Graph              *Graph      `json:"graph"`
	GraphState         *GraphState `json:"graphState"`
	Transcript         string      `json:"transcript"`
	MarkdownTranscript string      `json:"markdownTranscript"`
	YouTubeURL         string      `json:"youtubeUrl,omitempty"`
}

// GraphState is the layout state of the graph view. It is stored verbatim.
type GraphState struct {
	Transform      Transform           `json:"transform"`
	OpenPanels     []string            `json:"openPanels"`
	SelectedNodeID *string             `json:"selectedNodeId"`
	NodePositions  map[string]Position `json:"nodePositions"`
	Controls       GraphControls       `json:"controls"`
}

type Transform struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
	K float64 `json:"k"`
}

type Position struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

type GraphControls struct {
	LinkDistance   float64 `json:"linkDistance"`
	ChargeStrength float64 `json:"chargeStrength"`
	EdgeCurvature  float64 `json:"edgeCurvature"`
	CollideRadius  float64 `json:"collideRadius"`
}

func DefaultGraphState() *GraphState {
	return &GraphState{
		Transform:     Transform{X: 0, Y: 0, K: 1},
		OpenPanels:    []string{},
		NodePositions: map[string]Position{},
		Controls: GraphControls{
			LinkDistance:   300,
			ChargeStrength: 0,
			EdgeCurvature:  0,
			CollideRadius:  60,
		},
	}
}
