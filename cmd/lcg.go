package main

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"
	"github.com/tifye/shopsim/rng"
)

func newLCGCommand(c *cli) *cobra.Command {
	var (
		count      int
		normalized bool
	)
	cmd := &cobra.Command{
		Use:   "lcg",
		Short: "Print numbers from the linear congruential generator",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := c.load()
			if err != nil {
				return err
			}
			if count <= 0 {
				return fmt.Errorf("count must be positive")
			}

			g, err := rng.NewLCGGenerator(cfg.LCGMultiplier, cfg.LCGIncrement, cfg.LCGModulus, cfg.Seed1)
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			if normalized {
				for _, n := range g.NormalizedNumbers(count) {
					fmt.Fprintln(out, strconv.FormatFloat(n, 'f', -1, 64))
				}
				return nil
			}
			for _, n := range g.Numbers(count) {
				fmt.Fprintln(out, n)
			}
			return nil
		},
	}
	cmd.Flags().IntVarP(&count, "count", "n", 10, "how many numbers to print")
	cmd.Flags().BoolVar(&normalized, "normalized", false, "print values scaled to [0, 1)")
	cmd.Flags().Uint64("multiplier", 1103515245, "lcg multiplier")
	cmd.Flags().Uint64("increment", 12345, "lcg increment")
	cmd.Flags().Uint64("modulus", 1<<31, "lcg modulus")
	c.v.BindPFlag("lcg_multiplier", cmd.Flags().Lookup("multiplier"))
	c.v.BindPFlag("lcg_increment", cmd.Flags().Lookup("increment"))
	c.v.BindPFlag("lcg_modulus", cmd.Flags().Lookup("modulus"))
	return cmd
}
