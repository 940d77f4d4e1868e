package model

import "time"

type Workspace struct {
	ID          string    `json:"id"`
	Name        string    `json:"name"`
	Description string    `json:"description,omitempty"`
	Status      string    `json:"status"`
	CreatedAt   time.Time `json:"createdAt"`
}

type Note struct {
	ID          string    `json:"id"`
	SubjectID   string    `json:"subjectId"`
	WorkspaceID string    `json:"workspaceId,omitempty"`
	Content     string    `json:"content"`
	Status      string    `json:"status"`
	Tags        []string  `json:"tags"`
	CreatedAt   time.Time `json:"createdAt"`
	UpdatedAt   time.Time `json:"updatedAt"`
}

type PDF struct {
	ID              string    `json:"id"`
	SubjectID       string    `json:"subjectId"`
	Name            string    `json:"name"`
	Content         string    `json:"content"`
	MarkdownContent string    `json:"markdownContent"`
	CreatedAt       time.Time `json:"createdAt"`
}

// SearchResult is a subject matched by a keyword search, in ranked order.
type SearchResult struct {
	SubjectID string `json:"subjectId"`
	Name      string `json:"name"`
	Snippet   string `json:"snippet"`
	Rank      int    `json:"rank"`
}
