package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/google/uuid"

	"github.com/agenthands/notify/internal/core/model"
)

const pdfColumns = `id, subject_id, name, content, markdown_content, created_at`

func scanPDF(r rowScanner) (*model.PDF, error) {
	var p model.PDF
	var createdAt string
	if err := r.Scan(&p.ID, &p.SubjectID, &p.Name, &p.Content, &p.MarkdownContent, &createdAt); err != nil {
		return nil, err
	}
	p.CreatedAt = parseTime(createdAt)
	return &p, nil
}

func (s *Store) CreatePDF(ctx context.Context, subjectID, name, content, markdown string) (*model.PDF, error) {
	if _, err := s.GetSubject(ctx, subjectID); err != nil {
		return nil, err
	}
	p := &model.PDF{
		ID:              uuid.NewString(),
		SubjectID:       subjectID,
		Name:            name,
		Content:         content,
		MarkdownContent: markdown,
		CreatedAt:       s.now(),
	}
	if err := insertPDF(ctx, s.db, p); err != nil {
		return nil, err
	}
	return p, nil
}

func insertPDF(ctx context.Context, db execer, p *model.PDF) error {
	_, err := db.ExecContext(ctx, `
		INSERT INTO pdfs (`+pdfColumns+`)
		VALUES (?, ?, ?, ?, ?, ?)
	`, p.ID, p.SubjectID, p.Name, p.Content, p.MarkdownContent, formatTime(p.CreatedAt))
	if err != nil {
		return fmt.Errorf("insert pdf: %w", err)
	}
	return nil
}

func (s *Store) GetPDF(ctx context.Context, id string) (*model.PDF, error) {
	row := s.db.QueryRowContext(ctx, `SELECT `+pdfColumns+` FROM pdfs WHERE id = ?`, id)
	p, err := scanPDF(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("pdf %s: %w", id, ErrNotFound)
		}
		return nil, fmt.Errorf("scan pdf: %w", err)
	}
	return p, nil
}

func (s *Store) ListPDFs(ctx context.Context, subjectID string) ([]model.PDF, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT `+pdfColumns+` FROM pdfs
		WHERE subject_id = ?
		ORDER BY created_at ASC
	`, subjectID)
	if err != nil {
		return nil, fmt.Errorf("query pdfs: %w", err)
	}
	defer rows.Close()

	var out []model.PDF
	for rows.Next() {
		p, err := scanPDF(rows)
		if err != nil {
			return nil, fmt.Errorf("scan pdf: %w", err)
		}
		out = append(out, *p)
	}
	return out, rows.Err()
}

func (s *Store) SavePDFMarkdown(ctx context.Context, id, markdown string) error {
	res, err := s.db.ExecContext(ctx, `UPDATE pdfs SET markdown_content = ? WHERE id = ?`, markdown, id)
	return requireRow(res, err, "save markdown of pdf "+id)
}

func (s *Store) DeletePDF(ctx context.Context, id string) error {
	res, err := s.db.ExecContext(ctx, `DELETE FROM pdfs WHERE id = ?`, id)
	return requireRow(res, err, "delete pdf "+id)
}
