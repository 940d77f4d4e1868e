package commands

import (
	"context"

	"github.com/urfave/cli/v3"
)

func SubjectListAction(ctx context.Context, cmd *cli.Command) error {
	a, err := NewAppContext(ctx, cmd)
	if err != nil {
		return err
	}
	defer a.Close(ctx)

	if q := cmd.String("query"); q != "" {
		results, err := a.Notebook.SearchSubjects(ctx, cmd.String("workspace"), q, 20)
		if err != nil {
			return err
		}
		return printJSON(stdout(), results)
	}

	subjects, err := a.Store.ListSubjects(ctx, cmd.String("workspace"))
	if err != nil {
		return err
	}
	type row struct {
		ID   string `json:"id"`
		Name string `json:"name"`
	}
	rows := make([]row, 0, len(subjects))
	for _, s := range subjects {
		rows = append(rows, row{ID: s.ID, Name: s.Name})
	}
	return printJSON(stdout(), rows)
}

func SubjectCreateAction(ctx context.Context, cmd *cli.Command) error {
	a, err := NewAppContext(ctx, cmd)
	if err != nil {
		return err
	}
	defer a.Close(ctx)

	sub, err := a.Store.CreateSubject(ctx, cmd.String("workspace"), cmd.String("name"))
	if err != nil {
		return err
	}
	return printJSON(stdout(), sub)
}
