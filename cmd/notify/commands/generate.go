package commands

import (
	"context"
	"fmt"
	"os"

	"github.com/urfave/cli/v3"

	"github.com/agenthands/notify/internal/core/graphgen"
)

func GraphAction(ctx context.Context, cmd *cli.Command) error {
	a, err := NewAppContext(ctx, cmd)
	if err != nil {
		return err
	}
	defer a.Close(ctx)

	res, err := a.Notebook.GenerateGraph(ctx, cmd.String("subject"), func(p graphgen.Progress) {
		fmt.Fprintf(os.Stderr, "graph generation %.0f%%\n", p.Progress*100)
	})
	if err != nil {
		return err
	}
	for _, w := range res.Warnings {
		a.Logger.Warn("graph warning", "warning", w)
	}
	return printJSON(stdout(), res.Graph)
}

func MarkdownAction(ctx context.Context, cmd *cli.Command) error {
	a, err := NewAppContext(ctx, cmd)
	if err != nil {
		return err
	}
	defer a.Close(ctx)

	md, err := a.Notebook.GenerateMarkdown(ctx, cmd.String("subject"), func(done, total int) {
		fmt.Fprintf(os.Stderr, "markdown chunk %d/%d\n", done, total)
	})
	if err != nil {
		return err
	}
	fmt.Fprintln(stdout(), md)
	return nil
}
