package main

import (
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"
	"github.com/tifye/shopsim/report"
	"github.com/tifye/shopsim/storage"
)

func newHistoryCommand(c *cli) *cobra.Command {
	var limit int
	cmd := &cobra.Command{
		Use:   "history [run-id]",
		Short: "List recorded runs, or the days of one run",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := c.load()
			if err != nil {
				return err
			}
			if cfg.DBDriver == "" {
				return fmt.Errorf("history needs a ledger, set --db-driver")
			}

			db, err := storage.Open(cfg.DBDriver, cfg.DBDSN)
			if err != nil {
				return fmt.Errorf("open ledger: %s", err)
			}
			defer db.Close()
			ledger := storage.NewLedger(db)

			tw := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
			defer tw.Flush()

			if len(args) == 1 {
				days, err := ledger.Days(cmd.Context(), args[0])
				if err != nil {
					return fmt.Errorf("list days: %s", err)
				}
				fmt.Fprintln(tw, "DAY\tACCOUNT\tWHOLESALE\tSHOP\tSOLD\tINCOME\tEXPENSE")
				for _, d := range days {
					expense := d.TransferCost + d.DailySpending + d.OfferCost
					fmt.Fprintf(tw, "%d\t%s\t%s\t%s\t%s\t%s\t%s\n",
						d.Day,
						report.Money(d.Account),
						report.Units(d.BasicStore),
						report.Units(d.ShopStore),
						report.Units(d.Sold),
						report.Money(d.Income),
						report.Money(expense),
					)
				}
				return nil
			}

			runs, err := ledger.Runs(cmd.Context(), limit)
			if err != nil {
				return fmt.Errorf("list runs: %s", err)
			}
			fmt.Fprintln(tw, "ID\tRNG\tDAYS\tFINAL\tDEPLETED")
			for _, r := range runs {
				final := "-"
				if r.FinalAccount.Valid {
					final = report.Money(r.FinalAccount.Float64)
				}
				fmt.Fprintf(tw, "%s\t%s\t%d\t%s\t%t\n", r.ID, r.Source, r.Days, final, r.Depleted)
			}
			return nil
		},
	}
	cmd.Flags().IntVar(&limit, "limit", 20, "number of runs to list")
	return cmd
}
