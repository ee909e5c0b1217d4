package commands

import (
	"fmt"

	"github.com/spf13/cobra"
)

func newCountCommand(a *app) *cobra.Command {
	var qf queryFlags

	cmd := &cobra.Command{
		Use:   "count",
		Short: "Count the rows a query matches",
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := qf.definition(cmd, a.cfg)
			if err != nil {
				return err
			}
			cl, err := a.connect()
			if err != nil {
				return err
			}
			defer cl.Close()

			sess := cl.NewSession()
			if err := s.Apply(sess.Controller); err != nil {
				return err
			}
			n, err := sess.ResultCount(cmd.Context())
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), n)
			return nil
		},
	}

	qf.register(cmd)
	return cmd
}
