package commands

import (
	"github.com/spf13/cobra"

	"github.com/satishbabariya/querykit/cli/internal/ui"
)

func newExplainCommand(a *app) *cobra.Command {
	var qf queryFlags

	cmd := &cobra.Command{
		Use:   "explain",
		Short: "Render a query and its count query as markdown",
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := qf.definition(cmd, a.cfg)
			if err != nil {
				return err
			}
			c, err := a.controller()
			if err != nil {
				return err
			}
			if err := s.Apply(c); err != nil {
				return err
			}
			q, err := c.Build()
			if err != nil {
				return err
			}
			count, err := c.BuildCount()
			if err != nil {
				return err
			}
			return ui.PrintMarkdown(ui.QueryMarkdown(c.Dialect().String(), q, count))
		},
	}

	qf.register(cmd)
	return cmd
}
