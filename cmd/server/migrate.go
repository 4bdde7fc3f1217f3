package main

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"prooflayer/internal/platform/postgres"
	"prooflayer/internal/platform/postgres/migrations"
)

func newMigrateCmd(root *rootOptions) *cobra.Command {
	var list bool
	cmd := &cobra.Command{
		Use:   "migrate",
		Short: "Apply pending database migrations",
		RunE: func(cmd *cobra.Command, _ []string) error {
			out := cmd.OutOrStdout()
			if list {
				all, err := migrations.List()
				if err != nil {
					return err
				}
				for _, m := range all {
					fmt.Fprintln(out, m.Version)
				}
				return nil
			}

			cfg, err := root.load()
			if err != nil {
				return err
			}
			if cfg.Database.URL == "" {
				return errors.New("DATABASE_URL is required to migrate")
			}
			db, err := postgres.Open(cmd.Context(), cfg.Database)
			if err != nil {
				return err
			}
			defer db.Close()

			applied, err := migrations.Apply(cmd.Context(), db)
			for _, v := range applied {
				fmt.Fprintf(out, "applied %s\n", v)
			}
			if err != nil {
				return err
			}
			if len(applied) == 0 {
				fmt.Fprintln(out, "schema is up to date")
			}
			return nil
		},
	}
	cmd.Flags().BoolVar(&list, "list", false, "print embedded migration versions and exit")
	return cmd
}
