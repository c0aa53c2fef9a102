package main

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"os"
	"os/signal"
	"time"

	"github.com/charmbracelet/log"
	"github.com/spf13/viper"
	"github.com/tifye/shopsim/api"
	"github.com/tifye/shopsim/config"
	"github.com/tifye/shopsim/decision"
	"github.com/tifye/shopsim/report"
	"github.com/tifye/shopsim/shop"
	"github.com/tifye/shopsim/storage"
	"github.com/tifye/shopsim/stream"
)

func main() {
	v := config.New()

	err := config.LoadEnvFile()
	if err != nil {
		log.Warn("could not load .env file", "err", err)
	}

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt)
	defer cancel()

	logger := log.NewWithOptions(os.Stdout, log.Options{
		Level:           log.DebugLevel,
		ReportTimestamp: true,
	})

	err = run(ctx, logger, v)
	if err != nil {
		logger.Error(err)
	}
}

type simulation struct {
	engine    *shop.Engine
	remote    *decision.Remote
	snapshots *api.Snapshots
	ledger    *storage.Ledger
	runID     string
	maxDays   int
}

func run(ctx context.Context, logger *log.Logger, v *viper.Viper) error {
	cfg, err := config.Load(v)
	if err != nil {
		return fmt.Errorf("load config: %s", err)
	}

	ln, err := net.Listen("tcp", fmt.Sprintf(":%d", cfg.Port))
	if err != nil {
		return fmt.Errorf("net listen: %s", err)
	}

	deps, sim, cfs, err := initDependencies(ctx, logger, cfg)
	if err != nil {
		return fmt.Errorf("init deps: %s", err)
	}
	defer func() {
		if err := cfs.Cleanup(); err != nil {
			logger.Error("cleanup funcs", "err", err)
		}
	}()

	simDone := make(chan struct{})
	go func() {
		defer close(simDone)
		simulate(ctx, logger, sim)
	}()

	s := api.NewServer(logger.WithPrefix("api"), v, deps)
	go func() {
		logger.Printf("serving on %s", ln.Addr())
		err := s.Serve(ln)
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal(err)
		}
	}()

	<-ctx.Done()
	sim.remote.Close()
	<-simDone

	closeCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	err = s.Shutdown(closeCtx)
	if err != nil {
		return fmt.Errorf("server shutdown: %s", err)
	}

	return nil
}

// simulate drives the engine until the shop is depleted, the day
// limit is reached or the server shuts down.
func simulate(ctx context.Context, logger *log.Logger, sim *simulation) {
	// Late submissions get decision.ErrClosed instead of waiting on an
	// engine that will never ask again.
	defer sim.remote.Close()

	sum, err := shop.Run(ctx, logger.WithPrefix("run"), sim.engine, shop.RunOptions{
		MaxDays: sim.maxDays,
	})
	if err != nil && !errors.Is(err, context.Canceled) {
		logger.Error("simulation stopped", "err", err)
	}
	sim.snapshots.Finish(sum)

	if sim.ledger == nil {
		return
	}
	finishCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := sim.ledger.FinishRun(finishCtx, sim.runID, sum); err != nil {
		logger.Error("finish run", "run", sim.runID, "err", err)
	}
}

func initDependencies(
	ctx context.Context,
	logger *log.Logger,
	cfg config.Config,
) (deps *api.ServerDependencies, sim *simulation, cfs CleanupFuncs, err error) {
	defer func() {
		if err == nil {
			return
		}

		if ferr := cfs.Cleanup(); ferr != nil {
			err = errors.Join(err, ferr)
		}
	}()

	src, err := cfg.NewSource()
	if err != nil {
		return nil, nil, cfs, fmt.Errorf("new rng source: %s", err)
	}

	remote := decision.NewRemote(logger.WithPrefix("decisions"), cfg.DecisionTimeout)
	cfs.Defer(func() error {
		remote.Close()
		return nil
	})

	feed := stream.NewFeed(logger.WithPrefix("feed"))
	engine := shop.NewEngine(logger.WithPrefix("engine"), cfg.Params, src, remote)
	snapshots := api.NewSnapshots(engine.State())
	reporters := report.Multi{snapshots, feed}

	sim = &simulation{
		engine:    engine,
		remote:    remote,
		snapshots: snapshots,
		maxDays:   cfg.MaxDays,
	}

	if cfg.DBDriver != "" {
		db, err := storage.Open(cfg.DBDriver, cfg.DBDSN)
		if err != nil {
			return nil, nil, cfs, fmt.Errorf("open ledger: %s", err)
		}
		cfs.Defer(func() error {
			if err := db.Close(); err != nil {
				return fmt.Errorf("close ledger: %s", err)
			}
			return nil
		})

		seed1, seed2 := src.Seeds()
		r := storage.NewRun(cfg.RNG, seed1, seed2)
		ledger := storage.NewLedger(db)
		if err := ledger.StartRun(ctx, r); err != nil {
			return nil, nil, cfs, fmt.Errorf("start run: %s", err)
		}

		sim.ledger = ledger
		sim.runID = r.ID
		reporters = append(reporters, storage.NewRecorder(logger.WithPrefix("ledger"), ledger, r.ID))
	}

	engine.SetReporter(reporters)

	return &api.ServerDependencies{
		Decisions: remote,
		Snapshots: snapshots,
		Feed:      feed,
		Ledger:    sim.ledger,
		RunID:     sim.runID,
	}, sim, cfs, nil
}
