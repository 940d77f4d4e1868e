package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/agenthands/notify/internal/core/graph"
	"github.com/agenthands/notify/internal/core/model"
)

const ExportVersion = "1.0"

var ErrInvalidExport = errors.New("invalid export file")

type ExportMetadata struct {
	ExportDate time.Time `json:"exportDate"`
	Version    string    `json:"version"`
}

type SubjectExport struct {
	Subject  model.Subject   `json:"subject"`
	Notes    []model.Note    `json:"notes"`
	PDFs     []model.PDF     `json:"pdfs"`
	Metadata *ExportMetadata `json:"metadata,omitempty"`
}

type WorkspaceExport struct {
	Workspace model.Workspace `json:"workspace"`
	Subjects  []SubjectExport `json:"subjects"`
	Metadata  ExportMetadata  `json:"metadata"`
}

// importedSubject keeps the graph raw so it can go through graph.CleanImported.
type importedSubject struct {
	Name               string            `json:"name"`
	Graph              json.RawMessage   `json:"graph"`
	GraphState         *model.GraphState `json:"graphState"`
	Transcript         string            `json:"transcript"`
	MarkdownTranscript string            `json:"markdownTranscript"`
	YouTubeURL         string            `json:"youtubeUrl"`
}

type importedBundle struct {
	Subject *importedSubject `json:"subject"`
	Notes   []model.Note     `json:"notes"`
	PDFs    []model.PDF      `json:"pdfs"`
}

type importedWorkspace struct {
	Workspace *model.Workspace `json:"workspace"`
	Subjects  []importedBundle `json:"subjects"`
}

func (s *Store) ExportSubject(ctx context.Context, id string) (*SubjectExport, error) {
	exp, err := s.bundle(ctx, id)
	if err != nil {
		return nil, err
	}
	exp.Metadata = &ExportMetadata{ExportDate: s.now(), Version: ExportVersion}
	return exp, nil
}

func (s *Store) bundle(ctx context.Context, id string) (*SubjectExport, error) {
	sub, err := s.GetSubject(ctx, id)
	if err != nil {
		return nil, err
	}
	notes, err := s.ListNotes(ctx, id)
	if err != nil {
		return nil, err
	}
	pdfs, err := s.ListPDFs(ctx, id)
	if err != nil {
		return nil, err
	}
	if notes == nil {
		notes = []model.Note{}
	}
	if pdfs == nil {
		pdfs = []model.PDF{}
	}
	return &SubjectExport{Subject: *sub, Notes: notes, PDFs: pdfs}, nil
}

func (s *Store) ExportWorkspace(ctx context.Context, id string) (*WorkspaceExport, error) {
	w, err := s.GetWorkspace(ctx, id)
	if err != nil {
		return nil, err
	}
	subjects, err := s.ListSubjects(ctx, id)
	if err != nil {
		return nil, err
	}
	exp := &WorkspaceExport{
		Workspace: *w,
		Subjects:  make([]SubjectExport, 0, len(subjects)),
		Metadata:  ExportMetadata{ExportDate: s.now(), Version: ExportVersion},
	}
	for _, sub := range subjects {
		b, err := s.bundle(ctx, sub.ID)
		if err != nil {
			return nil, err
		}
		exp.Subjects = append(exp.Subjects, *b)
	}
	return exp, nil
}

// ImportSubject adds the subject in data to workspaceID under fresh ids. The
// subject, its notes and its PDFs are written in one transaction.
func (s *Store) ImportSubject(ctx context.Context, workspaceID string, data []byte) (*model.Subject, error) {
	var in importedBundle
	if err := json.Unmarshal(data, &in); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidExport, err)
	}
	if in.Subject == nil {
		return nil, fmt.Errorf("%w: missing subject", ErrInvalidExport)
	}

	var sub *model.Subject
	err := s.withTx(ctx, func(tx *sql.Tx) error {
		var err error
		sub, err = s.importBundle(ctx, tx, workspaceID, in)
		return err
	})
	if err != nil {
		return nil, err
	}
	return sub, nil
}

// ImportWorkspace recreates an exported workspace with all of its subjects.
func (s *Store) ImportWorkspace(ctx context.Context, data []byte) (*model.Workspace, error) {
	var in importedWorkspace
	if err := json.Unmarshal(data, &in); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidExport, err)
	}
	if in.Workspace == nil {
		return nil, fmt.Errorf("%w: missing workspace", ErrInvalidExport)
	}

	w := &model.Workspace{
		ID:          uuid.NewString(),
		Name:        in.Workspace.Name,
		Description: in.Workspace.Description,
		Status:      in.Workspace.Status,
		CreatedAt:   s.now(),
	}
	if w.Status == "" {
		w.Status = "active"
	}

	err := s.withTx(ctx, func(tx *sql.Tx) error {
		if err := insertWorkspace(ctx, tx, w); err != nil {
			return err
		}
		for i, b := range in.Subjects {
			if b.Subject == nil {
				return fmt.Errorf("%w: subject %d missing", ErrInvalidExport, i)
			}
			if _, err := s.importBundle(ctx, tx, w.ID, b); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return w, nil
}

func (s *Store) importBundle(ctx context.Context, tx *sql.Tx, workspaceID string, in importedBundle) (*model.Subject, error) {
	g, err := graph.CleanImported(in.Subject.Graph)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidExport, err)
	}
	now := s.now()
	sub := &model.Subject{
		ID:                 uuid.NewString(),
		WorkspaceID:        workspaceID,
		Name:               in.Subject.Name,
		CreatedAt:          now,
		Graph:              g,
		GraphState:         in.Subject.GraphState,
		Transcript:         in.Subject.Transcript,
		MarkdownTranscript: in.Subject.MarkdownTranscript,
		YouTubeURL:         in.Subject.YouTubeURL,
	}
	if sub.Name == "" {
		sub.Name = "Imported subject"
	}
	if sub.GraphState == nil {
		sub.GraphState = model.DefaultGraphState()
	}
	if err := insertSubject(ctx, tx, sub); err != nil {
		return nil, err
	}

	for _, n := range in.Notes {
		n.ID = uuid.NewString()
		n.SubjectID = sub.ID
		n.WorkspaceID = workspaceID
		if n.Status == "" {
			n.Status = "active"
		}
		if n.CreatedAt.IsZero() {
			n.CreatedAt = now
		}
		if n.UpdatedAt.IsZero() {
			n.UpdatedAt = n.CreatedAt
		}
		if err := insertNote(ctx, tx, &n); err != nil {
			return nil, err
		}
	}
	for _, p := range in.PDFs {
		p.ID = uuid.NewString()
		p.SubjectID = sub.ID
		if p.CreatedAt.IsZero() {
			p.CreatedAt = now
		}
		if err := insertPDF(ctx, tx, &p); err != nil {
			return nil, err
		}
	}
	return sub, nil
}
