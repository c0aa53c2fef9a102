package main

import (
	"context"
	"fmt"
	"io"

	"github.com/spf13/cobra"
	"github.com/tifye/shopsim/config"
	"github.com/tifye/shopsim/decision"
	"github.com/tifye/shopsim/report"
	"github.com/tifye/shopsim/shop"
	"github.com/tifye/shopsim/storage"
)

func newPlayCommand(c *cli) *cobra.Command {
	return &cobra.Command{
		Use:   "play",
		Short: "Play the shop interactively",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := c.load()
			if err != nil {
				return err
			}
			console := decision.NewConsole(cmd.InOrStdin(), cmd.OutOrStdout())
			return simulate(cmd.Context(), c, cfg, console, report.NewText(cmd.OutOrStdout()), cmd.OutOrStdout())
		},
	}
}

func newScriptCommand(c *cli) *cobra.Command {
	return &cobra.Command{
		Use:   "script <file>",
		Short: "Run the shop with decisions from a yaml scenario",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := c.load()
			if err != nil {
				return err
			}
			script, err := decision.LoadScript(args[0])
			if err != nil {
				return err
			}
			return simulate(cmd.Context(), c, cfg, script, report.NewLog(c.logger.WithPrefix("report")), cmd.OutOrStdout())
		},
	}
}

// simulate runs one game to its end, recording it to the ledger when
// a database is configured.
func simulate(
	ctx context.Context,
	c *cli,
	cfg config.Config,
	provider shop.Provider,
	reporter shop.Reporter,
	out io.Writer,
) error {
	src, err := cfg.NewSource()
	if err != nil {
		return fmt.Errorf("new rng source: %s", err)
	}

	engine := shop.NewEngine(c.logger.WithPrefix("engine"), cfg.Params, src, provider)
	reporters := report.Multi{reporter}

	var (
		ledger *storage.Ledger
		runID  string
	)
	if cfg.DBDriver != "" {
		db, err := storage.Open(cfg.DBDriver, cfg.DBDSN)
		if err != nil {
			return fmt.Errorf("open ledger: %s", err)
		}
		defer db.Close()

		seed1, seed2 := src.Seeds()
		r := storage.NewRun(cfg.RNG, seed1, seed2)
		ledger = storage.NewLedger(db)
		if err := ledger.StartRun(ctx, r); err != nil {
			return fmt.Errorf("start run: %s", err)
		}
		runID = r.ID
		reporters = append(reporters, storage.NewRecorder(c.logger.WithPrefix("ledger"), ledger, runID))
	}
	engine.SetReporter(reporters)

	sum, err := shop.Run(ctx, c.logger.WithPrefix("run"), engine, shop.RunOptions{
		MaxDays: cfg.MaxDays,
	})
	if ledger != nil {
		if ferr := ledger.FinishRun(context.Background(), runID, sum); ferr != nil {
			c.logger.Error("finish run", "run", runID, "err", ferr)
		}
	}
	if err != nil {
		return err
	}

	fmt.Fprintf(out, "\nDays played: %d\n", sum.Days)
	fmt.Fprintf(out, "Final account: %s\n", report.Money(sum.Final.Account))
	if sum.Rejected > 0 {
		fmt.Fprintf(out, "Rejected decisions: %d\n", sum.Rejected)
	}
	if runID != "" {
		fmt.Fprintf(out, "Run: %s\n", runID)
	}
	return nil
}
