package commands

import (
	"context"

	"github.com/urfave/cli/v3"

	"github.com/agenthands/notify/internal/mcpserver"
	"github.com/agenthands/notify/internal/server"
)

func ServeAction(ctx context.Context, cmd *cli.Command) error {
	a, err := NewAppContext(ctx, cmd)
	if err != nil {
		return err
	}
	defer a.Close(context.Background())

	port := a.Config.Server.Port
	if p := cmd.String("port"); p != "" {
		port = p
	}
	srv := server.NewServer(a.Notebook, a.Logger)
	if a.Config.Transcription.TempDir != "" {
		srv.TempDir = a.Config.Transcription.TempDir
	}
	return srv.ListenAndServe(ctx, ":"+port)
}

// MCPAction serves over stdio, so nothing else may write to stdout.
func MCPAction(ctx context.Context, cmd *cli.Command) error {
	a, err := NewAppContext(ctx, cmd)
	if err != nil {
		return err
	}
	defer a.Close(context.Background())

	a.Logger.Info("serving mcp over stdio")
	return mcpserver.Serve(a.Notebook)
}
