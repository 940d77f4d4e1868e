package commands

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/joho/godotenv"
	"github.com/urfave/cli/v3"

	"github.com/agenthands/notify/internal/app"
	"github.com/agenthands/notify/internal/config"
	"github.com/agenthands/notify/internal/platform/logger"
)

// NewAppContext loads the env file and config named by the global flags and
// builds the application.
func NewAppContext(ctx context.Context, cmd *cli.Command) (*app.App, error) {
	if err := godotenv.Load(cmd.String("env")); err != nil {
		slog.Debug("env file not loaded", "path", cmd.String("env"), "error", err)
	}

	cfg, err := config.LoadOrDefault(cmd.String("config"))
	if err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}
	cfg.ApplyEnv()

	log := logger.New(logger.FromConfig(cfg.Log))
	a, err := app.New(ctx, cfg, log)
	if err != nil {
		return nil, fmt.Errorf("init app: %w", err)
	}
	return a, nil
}

func printJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

// out receives command results; logs go to stderr.
var out io.Writer = os.Stdout

func stdout() io.Writer {
	return out
}
