package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/google/uuid"

	"github.com/agenthands/notify/internal/core/model"
)

const subjectColumns = `id, workspace_id, name, created_at, graph, graph_state, transcript, markdown_transcript, youtube_url`

type rowScanner interface {
	Scan(dest ...any) error
}

func scanSubject(r rowScanner) (*model.Subject, error) {
	var (
		sub        model.Subject
		createdAt  string
		graph      sql.NullString
		graphState sql.NullString
	)
	if err := r.Scan(&sub.ID, &sub.WorkspaceID, &sub.Name, &createdAt, &graph, &graphState,
		&sub.Transcript, &sub.MarkdownTranscript, &sub.YouTubeURL); err != nil {
		return nil, err
	}
	sub.CreatedAt = parseTime(createdAt)
	if graph.Valid {
		sub.Graph = &model.Graph{}
		if err := json.Unmarshal([]byte(graph.String), sub.Graph); err != nil {
			return nil, fmt.Errorf("decode graph of subject %s: %w", sub.ID, err)
		}
	}
	if graphState.Valid {
		sub.GraphState = &model.GraphState{}
		if err := json.Unmarshal([]byte(graphState.String), sub.GraphState); err != nil {
			return nil, fmt.Errorf("decode graph state of subject %s: %w", sub.ID, err)
		}
	}
	return &sub, nil
}

// CreateSubject adds an empty subject with the default graph layout.
func (s *Store) CreateSubject(ctx context.Context, workspaceID, name string) (*model.Subject, error) {
	sub := &model.Subject{
		ID:          uuid.NewString(),
		WorkspaceID: workspaceID,
		Name:        name,
		CreatedAt:   s.now(),
		GraphState:  model.DefaultGraphState(),
	}
	if err := insertSubject(ctx, s.db, sub); err != nil {
		return nil, err
	}
	return sub, nil
}

func insertSubject(ctx context.Context, db execer, sub *model.Subject) error {
	graph, err := nullJSON(sub.Graph)
	if err != nil {
		return fmt.Errorf("encode graph: %w", err)
	}
	state, err := nullJSON(sub.GraphState)
	if err != nil {
		return fmt.Errorf("encode graph state: %w", err)
	}
	_, err = db.ExecContext(ctx, `
		INSERT INTO subjects (`+subjectColumns+`)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
	`, sub.ID, sub.WorkspaceID, sub.Name, formatTime(sub.CreatedAt), graph, state,
		sub.Transcript, sub.MarkdownTranscript, sub.YouTubeURL)
	if err != nil {
		return fmt.Errorf("insert subject: %w", err)
	}
	return nil
}

func (s *Store) GetSubject(ctx context.Context, id string) (*model.Subject, error) {
	row := s.db.QueryRowContext(ctx, `SELECT `+subjectColumns+` FROM subjects WHERE id = ?`, id)
	sub, err := scanSubject(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("subject %s: %w", id, ErrNotFound)
		}
		return nil, fmt.Errorf("scan subject: %w", err)
	}
	return sub, nil
}

// ListSubjects returns the subjects of a workspace, oldest first. An empty
// workspaceID lists every subject.
func (s *Store) ListSubjects(ctx context.Context, workspaceID string) ([]model.Subject, error) {
	query := `SELECT ` + subjectColumns + ` FROM subjects`
	var args []any
	if workspaceID != "" {
		query += ` WHERE workspace_id = ?`
		args = append(args, workspaceID)
	}
	query += ` ORDER BY created_at ASC, name ASC`
	return s.querySubjects(ctx, query, args...)
}

// SearchSubjects matches query case-insensitively against subject names,
// transcripts and markdown transcripts.
func (s *Store) SearchSubjects(ctx context.Context, workspaceID, query string, limit int) ([]model.Subject, error) {
	if limit <= 0 {
		limit = 20
	}
	pattern := likePattern(query)
	q := `SELECT ` + subjectColumns + ` FROM subjects
		WHERE (lower(name) LIKE ? ESCAPE '\' OR lower(transcript) LIKE ? ESCAPE '\' OR lower(markdown_transcript) LIKE ? ESCAPE '\')`
	args := []any{pattern, pattern, pattern}
	if workspaceID != "" {
		q += ` AND workspace_id = ?`
		args = append(args, workspaceID)
	}
	q += ` ORDER BY created_at DESC LIMIT ?`
	args = append(args, limit)
	return s.querySubjects(ctx, q, args...)
}

func (s *Store) querySubjects(ctx context.Context, query string, args ...any) ([]model.Subject, error) {
	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query subjects: %w", err)
	}
	defer rows.Close()

	var out []model.Subject
	for rows.Next() {
		sub, err := scanSubject(rows)
		if err != nil {
			return nil, fmt.Errorf("scan subject: %w", err)
		}
		out = append(out, *sub)
	}
	return out, rows.Err()
}

func (s *Store) RenameSubject(ctx context.Context, id, name string) error {
	res, err := s.db.ExecContext(ctx, `UPDATE subjects SET name = ? WHERE id = ?`, name, id)
	return requireRow(res, err, "rename subject "+id)
}

func (s *Store) SaveTranscript(ctx context.Context, id, transcript string) error {
	res, err := s.db.ExecContext(ctx, `UPDATE subjects SET transcript = ? WHERE id = ?`, transcript, id)
	return requireRow(res, err, "save transcript of "+id)
}

// SaveYouTubeTranscript stores a fetched transcript together with its source URL.
func (s *Store) SaveYouTubeTranscript(ctx context.Context, id, transcript, url string) error {
	res, err := s.db.ExecContext(ctx, `UPDATE subjects SET transcript = ?, youtube_url = ? WHERE id = ?`, transcript, url, id)
	return requireRow(res, err, "save youtube transcript of "+id)
}

func (s *Store) SaveMarkdown(ctx context.Context, id, markdown string) error {
	res, err := s.db.ExecContext(ctx, `UPDATE subjects SET markdown_transcript = ? WHERE id = ?`, markdown, id)
	return requireRow(res, err, "save markdown of "+id)
}

func (s *Store) SaveGraph(ctx context.Context, id string, g *model.Graph) error {
	graph, err := nullJSON(g)
	if err != nil {
		return fmt.Errorf("encode graph: %w", err)
	}
	res, err := s.db.ExecContext(ctx, `UPDATE subjects SET graph = ? WHERE id = ?`, graph, id)
	return requireRow(res, err, "save graph of "+id)
}

func (s *Store) SaveGraphState(ctx context.Context, id string, state *model.GraphState) error {
	encoded, err := nullJSON(state)
	if err != nil {
		return fmt.Errorf("encode graph state: %w", err)
	}
	res, err := s.db.ExecContext(ctx, `UPDATE subjects SET graph_state = ? WHERE id = ?`, encoded, id)
	return requireRow(res, err, "save graph state of "+id)
}

// DeleteSubject removes the subject with its notes and PDFs.
func (s *Store) DeleteSubject(ctx context.Context, id string) error {
	return s.withTx(ctx, func(tx *sql.Tx) error {
		if _, err := tx.ExecContext(ctx, `DELETE FROM notes WHERE subject_id = ?`, id); err != nil {
			return fmt.Errorf("delete notes: %w", err)
		}
		if _, err := tx.ExecContext(ctx, `DELETE FROM pdfs WHERE subject_id = ?`, id); err != nil {
			return fmt.Errorf("delete pdfs: %w", err)
		}
		res, err := tx.ExecContext(ctx, `DELETE FROM subjects WHERE id = ?`, id)
		return requireRow(res, err, "delete subject "+id)
	})
}
