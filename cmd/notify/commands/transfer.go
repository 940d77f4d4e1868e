package commands

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/tidwall/gjson"
	"github.com/urfave/cli/v3"
)

func ExportAction(ctx context.Context, cmd *cli.Command) error {
	subjectID, workspaceID := cmd.String("subject"), cmd.String("workspace")
	if (subjectID == "") == (workspaceID == "") {
		return errors.New("exactly one of --subject and --workspace is required")
	}

	a, err := NewAppContext(ctx, cmd)
	if err != nil {
		return err
	}
	defer a.Close(ctx)

	var v any
	if subjectID != "" {
		v, err = a.Store.ExportSubject(ctx, subjectID)
	} else {
		v, err = a.Store.ExportWorkspace(ctx, workspaceID)
	}
	if err != nil {
		return err
	}

	var w io.Writer = stdout()
	if path := cmd.String("out"); path != "" {
		f, err := os.Create(path)
		if err != nil {
			return fmt.Errorf("create export file: %w", err)
		}
		defer f.Close()
		w = f
	}
	return printJSON(w, v)
}

// ImportAction accepts both export kinds; workspace exports carry a
// top-level "workspace" object.
func ImportAction(ctx context.Context, cmd *cli.Command) error {
	data, err := os.ReadFile(cmd.String("file"))
	if err != nil {
		return fmt.Errorf("read export file: %w", err)
	}

	a, err := NewAppContext(ctx, cmd)
	if err != nil {
		return err
	}
	defer a.Close(ctx)

	if gjson.GetBytes(data, "workspace").IsObject() {
		w, err := a.Store.ImportWorkspace(ctx, data)
		if err != nil {
			return err
		}
		return printJSON(stdout(), w)
	}
	sub, err := a.Store.ImportSubject(ctx, cmd.String("workspace"), data)
	if err != nil {
		return err
	}
	return printJSON(stdout(), sub)
}
