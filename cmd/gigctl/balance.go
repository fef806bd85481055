package main

import (
	"encoding/json"
	"fmt"
	"time"

	"campus-gig-workers/internal/common/config"
	"campus-gig-workers/internal/common/database"
	"campus-gig-workers/internal/common/logger"
	"campus-gig-workers/internal/ledger"
	"campus-gig-workers/internal/lock"
	"campus-gig-workers/internal/store/postgres"

	"github.com/spf13/cobra"
)

func newBalanceCmd() *cobra.Command {
	var (
		configPath string
		asJSON     bool
	)

	cmd := &cobra.Command{
		Use:   "balance <userId>",
		Short: "Derive a user's wallet balance from the ledger database",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(configPath)
			if err != nil {
				return err
			}

			pg, err := database.NewPostgres(cmd.Context(), cfg.Database.Postgres)
			if err != nil {
				return fmt.Errorf("connect to postgres: %w", err)
			}
			defer pg.Close()

			// Reads take no lock, so an in-process locker is enough here.
			l := ledger.New(postgres.NewLedgerStore(pg.DB), lock.NewLocal(time.Second),
				logger.NewStructured(cfg.Logging.Level, "console"))

			summary, err := l.Balance(cmd.Context(), args[0])
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			if asJSON {
				enc := json.NewEncoder(out)
				enc.SetIndent("", "  ")
				return enc.Encode(summary)
			}

			fmt.Fprintln(out, titleStyle.Render("Wallet of "+summary.UserID))
			fmt.Fprintln(out, field("credits", summary.Credits.StringFixed(2)))
			fmt.Fprintln(out, field("debits", summary.Debits.StringFixed(2)))
			fmt.Fprintln(out, field("available", summary.Available.StringFixed(2)))
			fmt.Fprintln(out, field("locked in escrow", summary.LockedInEscrow.StringFixed(2)))
			return nil
		},
	}

	cmd.Flags().StringVarP(&configPath, "config", "c", "", "config file (defaults to configs/config.yaml discovery)")
	cmd.Flags().BoolVar(&asJSON, "json", false, "print JSON")
	return cmd
}

func loadConfig(path string) (*config.Config, error) {
	if path != "" {
		return config.LoadFromFile(path)
	}
	return config.Load()
}
