//go:build integration

package integration

import (
	"context"
	"log/slog"
	"os"
	"path/filepath"
	"testing"

	"github.com/joho/godotenv"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/agenthands/notify/internal/app"
	"github.com/agenthands/notify/internal/config"
	"github.com/agenthands/notify/internal/platform/logger"
)

const lecture = `Photosynthesis converts light energy into chemical energy. It takes place
in the chloroplasts of plant cells. The light dependent reactions happen in the
thylakoid membranes and produce ATP and NADPH. The Calvin cycle uses ATP and
NADPH in the stroma to fix carbon dioxide into glucose.`

func newApp(t *testing.T) *app.App {
	t.Helper()
	_ = godotenv.Load("../../.env")

	cfg, err := config.LoadOrDefault("../../config/config.toml")
	require.NoError(t, err)
	cfg.ApplyEnv()
	cfg.Store.Path = filepath.Join(t.TempDir(), "notify.db")

	log := logger.New(logger.Config{Level: slog.LevelDebug, Format: "text"})
	a, err := app.New(context.Background(), cfg, log)
	require.NoError(t, err)
	t.Cleanup(func() { _ = a.Close(context.Background()) })
	return a
}

func TestFullFlow(t *testing.T) {
	if os.Getenv("LLM_API_KEY") == "" && os.Getenv("OPENAI_API_KEY") == "" {
		t.Skip("Skipping integration test: LLM_API_KEY not set")
	}
	a := newApp(t)
	ctx := context.Background()

	sub, err := a.Store.CreateSubject(ctx, "", "Biology")
	require.NoError(t, err)
	require.NoError(t, a.Store.SaveTranscript(ctx, sub.ID, lecture))

	res, err := a.Notebook.GenerateGraph(ctx, sub.ID, nil)
	require.NoError(t, err)
	require.NotNil(t, res.Graph)
	assert.NotEmpty(t, res.Graph.Nodes)
	t.Logf("Graph: %d nodes, %d links, warnings %v", len(res.Graph.Nodes), len(res.Graph.Links), res.Warnings)

	md, err := a.Notebook.GenerateMarkdown(ctx, sub.ID, nil)
	require.NoError(t, err)
	assert.NotEmpty(t, md)

	results, err := a.Notebook.SearchSubjects(ctx, "", "chloroplast", 5)
	require.NoError(t, err)
	require.NotEmpty(t, results)
	assert.Equal(t, sub.ID, results[0].SubjectID)

	stored, err := a.Store.GetSubject(ctx, sub.ID)
	require.NoError(t, err)
	assert.Equal(t, len(res.Graph.Nodes), len(stored.Graph.Nodes))
}
