package commands

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tidwall/gjson"
	"github.com/urfave/cli/v3"
)

func testRoot(dir string) *cli.Command {
	return &cli.Command{
		Name: "notify",
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "config", Value: filepath.Join(dir, "missing.toml")},
			&cli.StringFlag{Name: "env", Value: filepath.Join(dir, "missing.env")},
		},
		Commands: []*cli.Command{
			{
				Name: "create",
				Flags: []cli.Flag{
					&cli.StringFlag{Name: "workspace"},
					&cli.StringFlag{Name: "name", Required: true},
				},
				Action: SubjectCreateAction,
			},
			{
				Name: "list",
				Flags: []cli.Flag{
					&cli.StringFlag{Name: "workspace"},
					&cli.StringFlag{Name: "query"},
				},
				Action: SubjectListAction,
			},
			{
				Name: "export",
				Flags: []cli.Flag{
					&cli.StringFlag{Name: "subject"},
					&cli.StringFlag{Name: "workspace"},
					&cli.StringFlag{Name: "out"},
				},
				Action: ExportAction,
			},
			{
				Name: "import",
				Flags: []cli.Flag{
					&cli.StringFlag{Name: "file", Required: true},
					&cli.StringFlag{Name: "workspace"},
				},
				Action: ImportAction,
			},
		},
	}
}

func run(t *testing.T, dir string, args ...string) []byte {
	t.Helper()
	var buf bytes.Buffer
	prev := out
	out = &buf
	defer func() { out = prev }()

	require.NoError(t, testRoot(dir).Run(context.Background(), append([]string{"notify"}, args...)))
	return buf.Bytes()
}

func setupEnv(t *testing.T) string {
	dir := t.TempDir()
	t.Setenv("NOTIFY_DB", filepath.Join(dir, "notify.db"))
	t.Setenv("LLM_API_KEY", "")
	t.Setenv("OPENAI_API_KEY", "")
	t.Setenv("MEMGRAPH_URI", "")
	return dir
}

func TestExportImportRoundTrip(t *testing.T) {
	dir := setupEnv(t)

	created := run(t, dir, "create", "--name", "Biology")
	id := gjson.GetBytes(created, "id").String()
	require.NotEmpty(t, id)

	exportPath := filepath.Join(dir, "biology.json")
	run(t, dir, "export", "--subject", id, "--out", exportPath)

	data, err := os.ReadFile(exportPath)
	require.NoError(t, err)
	assert.Equal(t, "Biology", gjson.GetBytes(data, "subject.name").String())
	assert.Equal(t, "1.0", gjson.GetBytes(data, "metadata.version").String())

	imported := run(t, dir, "import", "--file", exportPath)
	assert.Equal(t, "Biology", gjson.GetBytes(imported, "name").String())
	assert.NotEqual(t, id, gjson.GetBytes(imported, "id").String())

	listed := run(t, dir, "list")
	assert.Equal(t, int64(2), gjson.GetBytes(listed, "#").Int())
}

func TestExportRequiresExactlyOneTarget(t *testing.T) {
	dir := setupEnv(t)

	err := testRoot(dir).Run(context.Background(), []string{"notify", "export"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "exactly one of")

	err = testRoot(dir).Run(context.Background(), []string{"notify", "export", "--subject", "a", "--workspace", "b"})
	require.Error(t, err)
}
