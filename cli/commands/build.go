package commands

import (
	"context"
	"fmt"
	"io"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/satishbabariya/querykit/cli/internal/ui"
	"github.com/satishbabariya/querykit/cli/internal/watch"
	"github.com/satishbabariya/querykit/query"
)

func newBuildCommand(a *app) *cobra.Command {
	var (
		qf        queryFlags
		count     bool
		raw       bool
		watchFile bool
	)

	cmd := &cobra.Command{
		Use:   "build",
		Short: "Print the SQL for a query",
		Long:  "Assemble the SQL and bound arguments for a query without touching the database.",
		Example: `  querykit build -q "select f.* from foo f" -w "status = 'A'" -s name,desc -m 20 -p 1
  querykit build -f accounts.yaml --count
  querykit build -f accounts.yaml --watch`,
		RunE: func(cmd *cobra.Command, args []string) error {
			render := func() error {
				q, err := a.buildQuery(cmd, &qf, count)
				if err != nil {
					return err
				}
				if raw {
					return writeRaw(cmd.OutOrStdout(), q)
				}
				title := "Query"
				if count {
					title = "Count query"
				}
				ui.PrintQuery(fmt.Sprintf("%s (%s)", title, a.cfg.Dialect), q)
				return nil
			}

			if !watchFile {
				return render()
			}
			if qf.file == "" {
				return fmt.Errorf("--watch requires --file")
			}
			return runWatch(cmd.Context(), qf.file, render)
		},
	}

	qf.register(cmd)
	cmd.Flags().BoolVar(&count, "count", false, "print the count query instead")
	cmd.Flags().BoolVar(&raw, "raw", false, "print plain SQL followed by one argument per line")
	cmd.Flags().BoolVar(&watchFile, "watch", false, "rebuild whenever the query file changes")
	return cmd
}

func (a *app) buildQuery(cmd *cobra.Command, qf *queryFlags, count bool) (query.Query, error) {
	s, err := qf.definition(cmd, a.cfg)
	if err != nil {
		return query.Query{}, err
	}
	c, err := a.controller()
	if err != nil {
		return query.Query{}, err
	}
	if err := s.Apply(c); err != nil {
		return query.Query{}, err
	}
	if count {
		return c.BuildCount()
	}
	return c.Build()
}

func writeRaw(w io.Writer, q query.Query) error {
	if _, err := fmt.Fprintln(w, q.SQL); err != nil {
		return err
	}
	for _, row := range ui.ArgRows(q.Args) {
		if _, err := fmt.Fprintf(w, "%s %s %s\n", row[0], row[1], row[2]); err != nil {
			return err
		}
	}
	return nil
}

func runWatch(ctx context.Context, file string, render func() error) error {
	if ctx == nil {
		ctx = context.Background()
	}
	ctx, stop := signal.NotifyContext(ctx, syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	w, err := watch.NewWatcher(file, render, watch.WithErrorHandler(func(err error) {
		ui.PrintError("%v", err)
	}))
	if err != nil {
		return err
	}
	ui.PrintWarning("watching %s, press Ctrl+C to stop", file)
	return w.Run(ctx)
}
