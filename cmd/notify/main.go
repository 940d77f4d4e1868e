package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/urfave/cli/v3"

	"github.com/agenthands/notify/cmd/notify/commands"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	app := &cli.Command{
		Name:  "notify",
		Usage: "turn recordings, videos and PDFs into transcripts, notes and knowledge graphs",
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "config", Usage: "config file path", Value: "config/config.toml", Sources: cli.EnvVars("CONFIG_PATH")},
			&cli.StringFlag{Name: "env", Usage: "env file path", Value: ".env"},
		},
		Commands: []*cli.Command{
			{
				Name:  "subjects",
				Usage: "manage subjects",
				Commands: []*cli.Command{
					{
						Name:  "list",
						Usage: "list subjects",
						Flags: []cli.Flag{
							&cli.StringFlag{Name: "workspace", Usage: "workspace id"},
							&cli.StringFlag{Name: "query", Usage: "keyword search"},
						},
						Action: commands.SubjectListAction,
					},
					{
						Name:  "create",
						Usage: "create a subject",
						Flags: []cli.Flag{
							&cli.StringFlag{Name: "workspace", Usage: "workspace id"},
							&cli.StringFlag{Name: "name", Usage: "subject name", Required: true},
						},
						Action: commands.SubjectCreateAction,
					},
				},
			},
			{
				Name:   "transcribe",
				Usage:  "transcribe an audio or video file into a subject",
				Flags:  []cli.Flag{subjectFlag(), &cli.StringFlag{Name: "file", Usage: "audio file", Required: true}},
				Action: commands.TranscribeAction,
			},
			{
				Name:   "youtube",
				Usage:  "fetch a YouTube transcript into a subject",
				Flags:  []cli.Flag{subjectFlag(), &cli.StringFlag{Name: "url", Usage: "video URL or id", Required: true}},
				Action: commands.YouTubeAction,
			},
			{
				Name:   "graph",
				Usage:  "generate the knowledge graph of a subject",
				Flags:  []cli.Flag{subjectFlag()},
				Action: commands.GraphAction,
			},
			{
				Name:   "markdown",
				Usage:  "generate the markdown document of a subject",
				Flags:  []cli.Flag{subjectFlag()},
				Action: commands.MarkdownAction,
			},
			{
				Name:   "pdf",
				Usage:  "ingest a PDF into a subject",
				Flags:  []cli.Flag{subjectFlag(), &cli.StringFlag{Name: "file", Usage: "PDF file", Required: true}},
				Action: commands.PDFAction,
			},
			{
				Name:  "export",
				Usage: "export a subject or a workspace as JSON",
				Flags: []cli.Flag{
					&cli.StringFlag{Name: "subject", Usage: "subject id"},
					&cli.StringFlag{Name: "workspace", Usage: "workspace id"},
					&cli.StringFlag{Name: "out", Usage: "output file, stdout when empty"},
				},
				Action: commands.ExportAction,
			},
			{
				Name:  "import",
				Usage: "import a subject or workspace export",
				Flags: []cli.Flag{
					&cli.StringFlag{Name: "file", Usage: "export file", Required: true},
					&cli.StringFlag{Name: "workspace", Usage: "target workspace for a subject export"},
				},
				Action: commands.ImportAction,
			},
			{
				Name:   "serve",
				Usage:  "run the HTTP API",
				Flags:  []cli.Flag{&cli.StringFlag{Name: "port", Usage: "listen port, overrides config"}},
				Action: commands.ServeAction,
			},
			{
				Name:   "mcp",
				Usage:  "serve MCP tools over stdio",
				Action: commands.MCPAction,
			},
		},
	}

	if err := app.Run(ctx, os.Args); err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(1)
	}
}

func subjectFlag() *cli.StringFlag {
	return &cli.StringFlag{Name: "subject", Usage: "subject id", Required: true}
}
