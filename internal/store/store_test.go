package store

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/agenthands/notify/internal/core/model"
)

func newTestStore(t *testing.T) *Store {
	t.Helper()
	s, err := Open(":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { s.Close() })

	clock := time.Date(2024, 3, 1, 9, 0, 0, 0, time.UTC)
	s.now = func() time.Time {
		clock = clock.Add(time.Second)
		return clock
	}
	return s
}

func TestSubjectLifecycle(t *testing.T) {
	ctx := context.Background()
	s := newTestStore(t)

	w, err := s.CreateWorkspace(ctx, "Biology", "")
	require.NoError(t, err)

	sub, err := s.CreateSubject(ctx, w.ID, "Cells")
	require.NoError(t, err)
	assert.Equal(t, model.DefaultGraphState(), sub.GraphState)

	require.NoError(t, s.SaveTranscript(ctx, sub.ID, "the cell membrane"))
	require.NoError(t, s.SaveMarkdown(ctx, sub.ID, "# Cells"))
	require.NoError(t, s.RenameSubject(ctx, sub.ID, "Cell biology"))

	g := &model.Graph{
		Nodes: []model.GraphNode{{ID: "root", Label: "Cell", Level: 0, Importance: 10}},
		Links: []model.GraphLink{},
	}
	g.Normalize()
	require.NoError(t, s.SaveGraph(ctx, sub.ID, g))

	got, err := s.GetSubject(ctx, sub.ID)
	require.NoError(t, err)
	assert.Equal(t, "Cell biology", got.Name)
	assert.Equal(t, "the cell membrane", got.Transcript)
	assert.Equal(t, "# Cells", got.MarkdownTranscript)
	require.NotNil(t, got.Graph)
	assert.Equal(t, g, got.Graph)
	assert.Equal(t, sub.CreatedAt, got.CreatedAt)

	list, err := s.ListSubjects(ctx, w.ID)
	require.NoError(t, err)
	require.Len(t, list, 1)

	require.NoError(t, s.DeleteSubject(ctx, sub.ID))
	_, err = s.GetSubject(ctx, sub.ID)
	assert.ErrorIs(t, err, ErrNotFound)
	assert.ErrorIs(t, s.DeleteSubject(ctx, sub.ID), ErrNotFound)
}

func TestUpdatesOnMissingSubject(t *testing.T) {
	ctx := context.Background()
	s := newTestStore(t)

	assert.ErrorIs(t, s.SaveTranscript(ctx, "nope", "x"), ErrNotFound)
	assert.ErrorIs(t, s.SaveGraphState(ctx, "nope", model.DefaultGraphState()), ErrNotFound)
	_, err := s.CreateNote(ctx, "nope", "text", nil)
	assert.ErrorIs(t, err, ErrNotFound)
	_, err = s.CreatePDF(ctx, "nope", "a.pdf", "", "")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestDeleteSubjectCascades(t *testing.T) {
	ctx := context.Background()
	s := newTestStore(t)

	sub, err := s.CreateSubject(ctx, "w", "Physics")
	require.NoError(t, err)
	_, err = s.CreateNote(ctx, sub.ID, "remember", []string{"exam"})
	require.NoError(t, err)
	p, err := s.CreatePDF(ctx, sub.ID, "slides.pdf", "raw", "md")
	require.NoError(t, err)

	require.NoError(t, s.DeleteSubject(ctx, sub.ID))

	notes, err := s.ListNotes(ctx, sub.ID)
	require.NoError(t, err)
	assert.Empty(t, notes)
	_, err = s.GetPDF(ctx, p.ID)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestNotes(t *testing.T) {
	ctx := context.Background()
	s := newTestStore(t)

	sub, err := s.CreateSubject(ctx, "w1", "History")
	require.NoError(t, err)

	n, err := s.CreateNote(ctx, sub.ID, "first", nil)
	require.NoError(t, err)
	assert.Equal(t, "w1", n.WorkspaceID)
	assert.Equal(t, []string{}, n.Tags)
	assert.Equal(t, "active", n.Status)

	updated, err := s.UpdateNote(ctx, n.ID, "first, revised", "", []string{"rome"})
	require.NoError(t, err)
	assert.Equal(t, "active", updated.Status)
	assert.True(t, updated.UpdatedAt.After(n.UpdatedAt))

	got, err := s.GetNote(ctx, n.ID)
	require.NoError(t, err)
	assert.Equal(t, "first, revised", got.Content)
	assert.Equal(t, []string{"rome"}, got.Tags)

	require.NoError(t, s.DeleteNote(ctx, n.ID))
	assert.ErrorIs(t, s.DeleteNote(ctx, n.ID), ErrNotFound)
}

func TestSearchSubjects(t *testing.T) {
	ctx := context.Background()
	s := newTestStore(t)

	a, err := s.CreateSubject(ctx, "w", "Photosynthesis")
	require.NoError(t, err)
	b, err := s.CreateSubject(ctx, "w", "Respiration")
	require.NoError(t, err)
	require.NoError(t, s.SaveTranscript(ctx, b.ID, "mitochondria convert 100% of glucose"))
	_, err = s.CreateSubject(ctx, "other", "Photons")
	require.NoError(t, err)

	res, err := s.SearchSubjects(ctx, "w", "PHOTO", 10)
	require.NoError(t, err)
	require.Len(t, res, 1)
	assert.Equal(t, a.ID, res[0].ID)

	res, err = s.SearchSubjects(ctx, "", "photo", 10)
	require.NoError(t, err)
	assert.Len(t, res, 2)

	// % is matched literally.
	res, err = s.SearchSubjects(ctx, "w", "100%", 10)
	require.NoError(t, err)
	require.Len(t, res, 1)
	assert.Equal(t, b.ID, res[0].ID)

	res, err = s.SearchSubjects(ctx, "w", "1%0", 10)
	require.NoError(t, err)
	assert.Empty(t, res)
}

func TestExportImportSubject(t *testing.T) {
	ctx := context.Background()
	s := newTestStore(t)

	sub, err := s.CreateSubject(ctx, "w", "Chemistry")
	require.NoError(t, err)
	require.NoError(t, s.SaveTranscript(ctx, sub.ID, "atoms and bonds"))
	require.NoError(t, s.SaveGraph(ctx, sub.ID, &model.Graph{
		Nodes: []model.GraphNode{
			{ID: "root", Label: "Chemistry", Level: 0, Importance: 10},
			{ID: "atom", Label: "Atom", Level: 1, Importance: 8},
		},
		Links: []model.GraphLink{{Source: "root", Target: "atom", Relationship: "studies"}},
	}))
	_, err = s.CreateNote(ctx, sub.ID, "valence", []string{"bonds"})
	require.NoError(t, err)
	_, err = s.CreatePDF(ctx, sub.ID, "table.pdf", "H He", "# H He")
	require.NoError(t, err)

	exp, err := s.ExportSubject(ctx, sub.ID)
	require.NoError(t, err)
	require.NotNil(t, exp.Metadata)
	assert.Equal(t, ExportVersion, exp.Metadata.Version)

	data, err := json.Marshal(exp)
	require.NoError(t, err)

	imported, err := s.ImportSubject(ctx, "w2", data)
	require.NoError(t, err)
	assert.NotEqual(t, sub.ID, imported.ID)
	assert.Equal(t, "w2", imported.WorkspaceID)
	assert.Equal(t, "Chemistry", imported.Name)

	got, err := s.GetSubject(ctx, imported.ID)
	require.NoError(t, err)
	assert.Equal(t, "atoms and bonds", got.Transcript)
	require.NotNil(t, got.Graph)
	assert.Len(t, got.Graph.Nodes, 2)
	assert.Len(t, got.Graph.Links, 1)

	notes, err := s.ListNotes(ctx, imported.ID)
	require.NoError(t, err)
	require.Len(t, notes, 1)
	assert.Equal(t, []string{"bonds"}, notes[0].Tags)
	assert.Equal(t, "w2", notes[0].WorkspaceID)

	pdfs, err := s.ListPDFs(ctx, imported.ID)
	require.NoError(t, err)
	require.Len(t, pdfs, 1)
	assert.Equal(t, "# H He", pdfs[0].MarkdownContent)
}

func TestImportSubjectCleansLegacyGraph(t *testing.T) {
	ctx := context.Background()
	s := newTestStore(t)

	data := []byte(`{
		"subject": {
			"name": "Legacy",
			"graph": {
				"nodes": [{"id": "a", "name": "A", "level": 0}, {"id": "b", "label": "B"}],
				"links": [{"source": {"id": "a"}, "target": "b"}, {"source": "a", "target": "gone"}]
			}
		},
		"notes": [{"content": "kept"}]
	}`)

	sub, err := s.ImportSubject(ctx, "w", data)
	require.NoError(t, err)
	require.NotNil(t, sub.Graph)
	assert.Equal(t, "A", sub.Graph.Nodes[0].Label)
	assert.Equal(t, 0, sub.Graph.Nodes[0].Level)
	assert.Equal(t, 1, sub.Graph.Nodes[1].Level)
	assert.Equal(t, 5, sub.Graph.Nodes[1].Importance)
	assert.Equal(t, []model.GraphLink{{Source: "a", Target: "b"}}, sub.Graph.Links)
	assert.Equal(t, model.DefaultGraphState(), sub.GraphState)

	notes, err := s.ListNotes(ctx, sub.ID)
	require.NoError(t, err)
	require.Len(t, notes, 1)
	assert.Equal(t, "active", notes[0].Status)
}

func TestImportSubjectRejectsMalformed(t *testing.T) {
	ctx := context.Background()
	s := newTestStore(t)

	_, err := s.ImportSubject(ctx, "w", []byte(`{"notes": []}`))
	assert.ErrorIs(t, err, ErrInvalidExport)

	_, err = s.ImportSubject(ctx, "w", []byte(`not json`))
	assert.ErrorIs(t, err, ErrInvalidExport)

	_, err = s.ImportSubject(ctx, "w", []byte(`{"subject": {"name": "x", "graph": {"nodes": "bad"}}}`))
	assert.ErrorIs(t, err, ErrInvalidExport)

	list, err := s.ListSubjects(ctx, "")
	require.NoError(t, err)
	assert.Empty(t, list)
}

func TestExportImportWorkspace(t *testing.T) {
	ctx := context.Background()
	s := newTestStore(t)

	w, err := s.CreateWorkspace(ctx, "Semester", "spring")
	require.NoError(t, err)
	for _, name := range []string{"Algebra", "Geometry"} {
		sub, err := s.CreateSubject(ctx, w.ID, name)
		require.NoError(t, err)
		_, err = s.CreateNote(ctx, sub.ID, name+" note", nil)
		require.NoError(t, err)
	}

	exp, err := s.ExportWorkspace(ctx, w.ID)
	require.NoError(t, err)
	require.Len(t, exp.Subjects, 2)
	assert.Equal(t, ExportVersion, exp.Metadata.Version)

	data, err := json.Marshal(exp)
	require.NoError(t, err)

	imported, err := s.ImportWorkspace(ctx, data)
	require.NoError(t, err)
	assert.NotEqual(t, w.ID, imported.ID)
	assert.Equal(t, "Semester", imported.Name)

	subjects, err := s.ListSubjects(ctx, imported.ID)
	require.NoError(t, err)
	require.Len(t, subjects, 2)
	assert.Equal(t, "Algebra", subjects[0].Name)
	assert.Equal(t, "Geometry", subjects[1].Name)

	notes, err := s.ListNotes(ctx, subjects[1].ID)
	require.NoError(t, err)
	require.Len(t, notes, 1)
	assert.Equal(t, "Geometry note", notes[0].Content)

	workspaces, err := s.ListWorkspaces(ctx)
	require.NoError(t, err)
	assert.Len(t, workspaces, 2)
}
