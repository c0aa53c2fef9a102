package main

import (
	"context"
	"os"
	"os/signal"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"github.com/tifye/shopsim/config"
)

func main() {
	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt)
	defer cancel()

	Execute(ctx)
}

type cli struct {
	v          *viper.Viper
	logger     *log.Logger
	configPath string
	verbose    bool
}

// load resolves the configuration from .env, the config file, flags
// and the environment.
func (c *cli) load() (config.Config, error) {
	if err := config.LoadEnvFile(); err != nil {
		c.logger.Warn("could not load .env file", "err", err)
	}
	if err := config.ReadFile(c.v, c.configPath); err != nil {
		return config.Config{}, err
	}
	if c.verbose {
		c.logger.SetLevel(log.DebugLevel)
	}
	return config.Load(c.v)
}

func newRootCommand() *cobra.Command {
	c := &cli{
		v: config.New(),
		logger: log.NewWithOptions(os.Stderr, log.Options{
			Level: log.InfoLevel,
		}),
	}

	cmd := &cobra.Command{
		Use:   "shopsim",
		Short: "Run the shop simulation from the terminal",
		Run: func(cmd *cobra.Command, args []string) {
			cmd.Help()
		},
	}

	flags := cmd.PersistentFlags()
	flags.StringVar(&c.configPath, "config", "", "path to a yaml, toml or json config file")
	flags.BoolVarP(&c.verbose, "verbose", "v", false, "log engine steps")
	flags.Uint64("seed1", 0, "first rng seed, 0 picks a random one")
	flags.Uint64("seed2", 0, "second rng seed")
	flags.String("rng", config.RNGPCG, "random source, pcg or lcg")
	flags.Int("max-days", 0, "stop after this many days, 0 for no limit")
	flags.String("db-driver", "", "ledger database driver, duckdb or sqlite")
	flags.String("db-dsn", "", "ledger database dsn")
	c.v.BindPFlag("seed1", flags.Lookup("seed1"))
	c.v.BindPFlag("seed2", flags.Lookup("seed2"))
	c.v.BindPFlag("rng", flags.Lookup("rng"))
	c.v.BindPFlag("max_days", flags.Lookup("max-days"))
	c.v.BindPFlag("db_driver", flags.Lookup("db-driver"))
	c.v.BindPFlag("db_dsn", flags.Lookup("db-dsn"))

	cmd.AddCommand(
		newPlayCommand(c),
		newScriptCommand(c),
		newHistoryCommand(c),
		newLCGCommand(c),
	)

	return cmd
}

func Execute(ctx context.Context) {
	root := newRootCommand()
	if err := root.ExecuteContext(ctx); err != nil {
		os.Exit(1)
	}
}
