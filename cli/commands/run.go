package commands

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/satishbabariya/querykit/cli/internal/ui"
	"github.com/satishbabariya/querykit/query"
	"github.com/satishbabariya/querykit/query/paging"
)

// pageOutput is the JSON shape of one fetched page.
type pageOutput struct {
	Rows       []query.Row `json:"rows"`
	Page       int         `json:"page"`
	Count      *int64      `json:"count,omitempty"`
	PageCount  *int        `json:"pageCount,omitempty"`
	HasNext    bool        `json:"hasNext"`
	HasPrev    bool        `json:"hasPrevious"`
	NextOffset *int        `json:"nextFirstResult,omitempty"`
}

func newRunCommand(a *app) *cobra.Command {
	var (
		qf     queryFlags
		output string
	)

	cmd := &cobra.Command{
		Use:   "run",
		Short: "Run a query and print one page of rows",
		Example: `  querykit run -f accounts.yaml -p 2
  querykit run -q "select * from users u" -w "name lk 'ann'" -m 10 -o json`,
		RunE: func(cmd *cobra.Command, args []string) error {
			if output != "table" && output != "json" {
				return fmt.Errorf("unknown output format %q: use table or json", output)
			}
			s, err := qf.definition(cmd, a.cfg)
			if err != nil {
				return err
			}
			cl, err := a.connect()
			if err != nil {
				return err
			}
			defer cl.Close()

			ctx := cmd.Context()
			sess := cl.NewSession()
			if err := s.Apply(sess.Controller); err != nil {
				return err
			}
			if _, err := sess.Execute(ctx); err != nil {
				return err
			}
			page, err := sess.Page(ctx)
			if err != nil {
				return err
			}

			if output == "json" {
				enc := json.NewEncoder(cmd.OutOrStdout())
				enc.SetIndent("", "  ")
				return enc.Encode(newPageOutput(sess.TruncResultList(), page))
			}
			ui.PrintRows(sess.TruncResultList())
			ui.PrintPage(page)
			return nil
		},
	}

	qf.register(cmd)
	cmd.Flags().StringVarP(&output, "output", "o", "table", "output format: table or json")
	return cmd
}

func newPageOutput(rows []query.Row, p paging.Page) pageOutput {
	if rows == nil {
		rows = []query.Row{}
	}
	out := pageOutput{
		Rows:    rows,
		Page:    p.Number,
		Count:   p.Count,
		HasNext: p.IsNextExists(),
		HasPrev: p.IsPreviousExists(),
	}
	if pc, ok := p.PageCount(); ok {
		out.PageCount = &pc
	}
	if out.HasNext {
		next := p.NextFirstResult()
		out.NextOffset = &next
	}
	return out
}
