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

const noteColumns = `id, subject_id, workspace_id, content, status, tags, created_at, updated_at`

func scanNote(r rowScanner) (*model.Note, error) {
	var (
		n                    model.Note
		tags                 string
		createdAt, updatedAt string
	)
	if err := r.Scan(&n.ID, &n.SubjectID, &n.WorkspaceID, &n.Content, &n.Status, &tags, &createdAt, &updatedAt); err != nil {
		return nil, err
	}
	if err := json.Unmarshal([]byte(tags), &n.Tags); err != nil {
		return nil, fmt.Errorf("decode tags of note %s: %w", n.ID, err)
	}
	if n.Tags == nil {
		n.Tags = []string{}
	}
	n.CreatedAt = parseTime(createdAt)
	n.UpdatedAt = parseTime(updatedAt)
	return &n, nil
}

// CreateNote attaches a note to an existing subject.
func (s *Store) CreateNote(ctx context.Context, subjectID, content string, tags []string) (*model.Note, error) {
	sub, err := s.GetSubject(ctx, subjectID)
	if err != nil {
		return nil, err
	}
	now := s.now()
	n := &model.Note{
		ID:          uuid.NewString(),
		SubjectID:   subjectID,
		WorkspaceID: sub.WorkspaceID,
		Content:     content,
		Status:      "active",
		Tags:        tags,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	if n.Tags == nil {
		n.Tags = []string{}
	}
	if err := insertNote(ctx, s.db, n); err != nil {
		return nil, err
	}
	return n, nil
}

func insertNote(ctx context.Context, db execer, n *model.Note) error {
	tags, err := json.Marshal(n.Tags)
	if err != nil {
		return fmt.Errorf("encode tags: %w", err)
	}
	if n.Tags == nil {
		tags = []byte("[]")
	}
	_, err = db.ExecContext(ctx, `
		INSERT INTO notes (`+noteColumns+`)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)
	`, n.ID, n.SubjectID, n.WorkspaceID, n.Content, n.Status, string(tags),
		formatTime(n.CreatedAt), formatTime(n.UpdatedAt))
	if err != nil {
		return fmt.Errorf("insert note: %w", err)
	}
	return nil
}

func (s *Store) GetNote(ctx context.Context, id string) (*model.Note, error) {
	row := s.db.QueryRowContext(ctx, `SELECT `+noteColumns+` FROM notes WHERE id = ?`, id)
	n, err := scanNote(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("note %s: %w", id, ErrNotFound)
		}
		return nil, fmt.Errorf("scan note: %w", err)
	}
	return n, nil
}

func (s *Store) ListNotes(ctx context.Context, subjectID string) ([]model.Note, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT `+noteColumns+` FROM notes
		WHERE subject_id = ?
		ORDER BY created_at ASC
	`, subjectID)
	if err != nil {
		return nil, fmt.Errorf("query notes: %w", err)
	}
	defer rows.Close()

	var out []model.Note
	for rows.Next() {
		n, err := scanNote(rows)
		if err != nil {
			return nil, fmt.Errorf("scan note: %w", err)
		}
		out = append(out, *n)
	}
	return out, rows.Err()
}

// UpdateNote replaces content, status and tags. Empty status keeps the old one.
func (s *Store) UpdateNote(ctx context.Context, id, content, status string, tags []string) (*model.Note, error) {
	n, err := s.GetNote(ctx, id)
	if err != nil {
		return nil, err
	}
	n.Content = content
	if status != "" {
		n.Status = status
	}
	if tags != nil {
		n.Tags = tags
	}
	n.UpdatedAt = s.now()

	encoded, err := json.Marshal(n.Tags)
	if err != nil {
		return nil, fmt.Errorf("encode tags: %w", err)
	}
	res, err := s.db.ExecContext(ctx, `
		UPDATE notes SET content = ?, status = ?, tags = ?, updated_at = ? WHERE id = ?
	`, n.Content, n.Status, string(encoded), formatTime(n.UpdatedAt), id)
	if err := requireRow(res, err, "update note "+id); err != nil {
		return nil, err
	}
	return n, nil
}

func (s *Store) DeleteNote(ctx context.Context, id string) error {
	res, err := s.db.ExecContext(ctx, `DELETE FROM notes WHERE id = ?`, id)
	return requireRow(res, err, "delete note "+id)
}
