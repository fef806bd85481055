package main

import (
	"fmt"

	"campus-gig-workers/internal/common/database"
	"campus-gig-workers/internal/store/postgres"

	"github.com/spf13/cobra"
)

func newSchemaCmd() *cobra.Command {
	var (
		configPath string
		apply      bool
	)

	cmd := &cobra.Command{
		Use:   "schema",
		Short: "Print the ledger schema, or apply it with --apply",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if !apply {
				fmt.Fprint(cmd.OutOrStdout(), postgres.Schema())
				return nil
			}

			cfg, err := loadConfig(configPath)
			if err != nil {
				return err
			}
			pg, err := database.NewPostgres(cmd.Context(), cfg.Database.Postgres)
			if err != nil {
				return fmt.Errorf("connect to postgres: %w", err)
			}
			defer pg.Close()

			if err := postgres.EnsureSchema(cmd.Context(), pg.DB); err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), titleStyle.Render("Schema applied to "+cfg.Database.Postgres.Database))
			return nil
		},
	}

	cmd.Flags().StringVarP(&configPath, "config", "c", "", "config file (defaults to configs/config.yaml discovery)")
	cmd.Flags().BoolVar(&apply, "apply", false, "apply the schema to the configured database")
	return cmd
}
