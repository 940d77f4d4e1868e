package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/google/uuid"

	"github.com/agenthands/notify/internal/core/model"
)

func (s *Store) CreateWorkspace(ctx context.Context, name, description string) (*model.Workspace, error) {
	w := &model.Workspace{
		ID:          uuid.NewString(),
		Name:        name,
		Description: description,
		Status:      "active",
		CreatedAt:   s.now(),
	}
	if err := insertWorkspace(ctx, s.db, w); err != nil {
		return nil, err
	}
	return w, nil
}

func insertWorkspace(ctx context.Context, db execer, w *model.Workspace) error {
	_, err := db.ExecContext(ctx, `
		INSERT INTO workspaces (id, name, description, status, created_at)
		VALUES (?, ?, ?, ?, ?)
	`, w.ID, w.Name, w.Description, w.Status, formatTime(w.CreatedAt))
	if err != nil {
		return fmt.Errorf("insert workspace: %w", err)
	}
	return nil
}

func (s *Store) GetWorkspace(ctx context.Context, id string) (*model.Workspace, error) {
	row := s.db.QueryRowContext(ctx, `
		SELECT id, name, description, status, created_at
		FROM workspaces WHERE id = ?
	`, id)

	var w model.Workspace
	var createdAt string
	if err := row.Scan(&w.ID, &w.Name, &w.Description, &w.Status, &createdAt); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("workspace %s: %w", id, ErrNotFound)
		}
		return nil, fmt.Errorf("scan workspace: %w", err)
	}
	w.CreatedAt = parseTime(createdAt)
	return &w, nil
}

func (s *Store) ListWorkspaces(ctx context.Context) ([]model.Workspace, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, name, description, status, created_at
		FROM workspaces
		ORDER BY created_at ASC
	`)
	if err != nil {
		return nil, fmt.Errorf("query workspaces: %w", err)
	}
	defer rows.Close()

	var out []model.Workspace
	for rows.Next() {
		var w model.Workspace
		var createdAt string
		if err := rows.Scan(&w.ID, &w.Name, &w.Description, &w.Status, &createdAt); err != nil {
			return nil, fmt.Errorf("scan workspace: %w", err)
		}
		w.CreatedAt = parseTime(createdAt)
		out = append(out, w)
	}
	return out, rows.Err()
}
