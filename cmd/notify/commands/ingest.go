package commands

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/urfave/cli/v3"
)

func TranscribeAction(ctx context.Context, cmd *cli.Command) error {
	a, err := NewAppContext(ctx, cmd)
	if err != nil {
		return err
	}
	defer a.Close(ctx)

	sub, err := a.Notebook.TranscribeAudio(ctx, cmd.String("subject"), cmd.String("file"), func(done, total int) {
		fmt.Fprintf(os.Stderr, "transcribed chunk %d/%d\n", done, total)
	})
	if err != nil {
		return err
	}
	fmt.Fprintln(stdout(), sub.Transcript)
	return nil
}

func YouTubeAction(ctx context.Context, cmd *cli.Command) error {
	a, err := NewAppContext(ctx, cmd)
	if err != nil {
		return err
	}
	defer a.Close(ctx)

	t, err := a.Notebook.ImportYouTube(ctx, cmd.String("subject"), cmd.String("url"))
	if err != nil {
		return err
	}
	a.Logger.Info("fetched transcript", "method", t.Method, "segments", len(t.Segments))
	fmt.Fprintln(stdout(), t.Text)
	return nil
}

func PDFAction(ctx context.Context, cmd *cli.Command) error {
	a, err := NewAppContext(ctx, cmd)
	if err != nil {
		return err
	}
	defer a.Close(ctx)

	path := cmd.String("file")
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read pdf: %w", err)
	}
	out, err := a.Notebook.IngestPDF(ctx, cmd.String("subject"), filepath.Base(path), data, nil)
	if err != nil {
		if out != nil && out.PDF != nil {
			a.Logger.Warn("pdf stored, follow-up step failed", "pdf", out.PDF.ID, "error", err)
			return printJSON(stdout(), out.PDF)
		}
		return err
	}
	return printJSON(stdout(), out.PDF)
}
