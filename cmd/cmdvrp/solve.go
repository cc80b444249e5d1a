package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"math/rand"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/urfave/cli"

	"depot-router/internal/config"
	"depot-router/internal/database"
	"depot-router/internal/instance"
	"depot-router/internal/models"
	"depot-router/internal/report"
	"depot-router/internal/runner"
	"depot-router/internal/sqlite"
)

var problemFlags = []cli.Flag{
	cli.IntFlag{Name: "depots", Usage: "number of depots"},
	cli.IntFlag{Name: "customers", Usage: "number of customers"},
	cli.IntFlag{Name: "vehicles", Usage: "vehicles per depot"},
	cli.IntFlag{Name: "demand", Usage: "demand of every generated customer"},
	cli.Int64Flag{Name: "seed", Usage: "random seed (0 picks one from the clock)"},
}

func solveCommand() cli.Command {
	flags := append([]cli.Flag{
		cli.StringFlag{Name: "instance, i", Usage: "JSON instance file; a random instance is generated when empty"},
		cli.IntFlag{Name: "population", Usage: "population size"},
		cli.IntFlag{Name: "generations, g", Usage: "number of generations"},
		cli.Float64Flag{Name: "mutation-rate", Usage: "probability of mutating a child"},
		cli.IntFlag{Name: "workers", Usage: "concurrent 2-opt workers"},
		cli.BoolFlag{Name: "report-discarded-fitness", Usage: "report the fitness of discarded infeasible candidates"},
		cli.StringFlag{Name: "geojson", Usage: "write the best solution as GeoJSON"},
		cli.StringFlag{Name: "routes-plot", Usage: "write a PNG of the best routes"},
		cli.StringFlag{Name: "fitness-plot", Usage: "write a PNG of the fitness history"},
		cli.BoolFlag{Name: "no-store", Usage: "do not persist the run"},
		cli.BoolFlag{Name: "quiet, q", Usage: "do not print the solution"},
	}, problemFlags...)

	return cli.Command{
		Name:   "solve",
		Usage:  "evolve a solution and print, render and store it",
		Flags:  flags,
		Action: solve,
	}
}

func generateCommand() cli.Command {
	return cli.Command{
		Name:  "generate",
		Usage: "write a random instance as JSON",
		Flags: append([]cli.Flag{
			cli.StringFlag{Name: "out, o", Value: "instance.json", Usage: "output file"},
		}, problemFlags...),
		Action: generate,
	}
}

// loadConfig reads the global config and applies command flags over it
func loadConfig(c *cli.Context) (*config.Config, error) {
	cfg, err := config.Load(c.GlobalString("config"))
	if err != nil {
		return nil, err
	}
	if db := c.GlobalString("db"); db != "" {
		cfg.Server.Database = db
	}
	applyFlags(c, cfg)
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func applyFlags(c *cli.Context, cfg *config.Config) {
	if c.IsSet("depots") {
		cfg.Problem.Depots = c.Int("depots")
	}
	if c.IsSet("customers") {
		cfg.Problem.Customers = c.Int("customers")
	}
	if c.IsSet("vehicles") {
		cfg.Problem.Vehicles = c.Int("vehicles")
	}
	if c.IsSet("demand") {
		cfg.Problem.CustomerDemand = c.Int("demand")
	}
	if c.IsSet("seed") {
		cfg.Engine.Seed = c.Int64("seed")
	}
	if c.IsSet("instance") {
		cfg.Problem.InstanceFile = c.String("instance")
	}
	if c.IsSet("population") {
		cfg.Engine.PopulationSize = c.Int("population")
	}
	if c.IsSet("generations") {
		cfg.Engine.Generations = c.Int("generations")
	}
	if c.IsSet("mutation-rate") {
		cfg.Engine.MutationRate = c.Float64("mutation-rate")
	}
	if c.IsSet("workers") {
		cfg.Engine.Workers = c.Int("workers")
	}
	if c.Bool("report-discarded-fitness") {
		cfg.Engine.ReportDiscardedFitness = true
	}
	if c.IsSet("geojson") {
		cfg.Output.GeoJSON = c.String("geojson")
	}
	if c.IsSet("routes-plot") {
		cfg.Output.RoutesPlot = c.String("routes-plot")
	}
	if c.IsSet("fitness-plot") {
		cfg.Output.FitnessPlot = c.String("fitness-plot")
	}
	if c.Bool("quiet") {
		cfg.Output.Quiet = true
	}
}

func seedOf(cfg *config.Config) int64 {
	if cfg.Engine.Seed != 0 {
		return cfg.Engine.Seed
	}
	return time.Now().UnixNano()
}

// resolveInstance loads the configured instance file or generates one from seed
func resolveInstance(cfg *config.Config, seed int64) (*models.Instance, error) {
	if cfg.Problem.InstanceFile != "" {
		return instance.Load(cfg.Problem.InstanceFile)
	}
	return instance.Generate(rand.New(rand.NewSource(seed)), cfg.GenerateOptions())
}

func solve(c *cli.Context) error {
	cfg, err := loadConfig(c)
	if err != nil {
		return err
	}
	seed := seedOf(cfg)
	in, err := resolveInstance(cfg, seed)
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	run, err := runner.Execute(ctx, runner.Request{Instance: in, Params: cfg.Params(), Seed: seed})
	if err != nil && !errors.Is(err, context.Canceled) {
		return err
	}
	if run == nil {
		return err
	}
	if err != nil {
		log.Printf("Interrupted, keeping best solution after %d generations", len(run.History))
	}

	if !cfg.Output.Quiet {
		if err := report.Text(os.Stdout, run); err != nil {
			return err
		}
	}
	if err := writeArtifacts(cfg.Output, run); err != nil {
		return err
	}
	if c.Bool("no-store") {
		return nil
	}
	return storeRun(cfg, run)
}

func writeArtifacts(out config.OutputConfig, run *models.Run) error {
	if out.GeoJSON != "" {
		data, err := report.MarshalGeoJSON(&run.Instance, run.Best)
		if err != nil {
			return err
		}
		if err := os.WriteFile(out.GeoJSON, data, 0644); err != nil {
			return fmt.Errorf("failed to write geojson: %w", err)
		}
		log.Printf("Wrote %s", out.GeoJSON)
	}
	if out.RoutesPlot != "" {
		p, err := report.RoutesPlot(&run.Instance, run.Best, fmt.Sprintf("best fitness %.2f", run.BestFitness))
		if err != nil {
			return err
		}
		if err := report.SavePNG(p, out.RoutesPlot); err != nil {
			return err
		}
		log.Printf("Wrote %s", out.RoutesPlot)
	}
	if out.FitnessPlot != "" {
		p, err := report.FitnessPlot(run.History, "population best per generation")
		if err != nil {
			return err
		}
		if err := report.SavePNG(p, out.FitnessPlot); err != nil {
			return err
		}
		log.Printf("Wrote %s", out.FitnessPlot)
	}
	return nil
}

func openStore(cfg *config.Config) (database.DataStore, error) {
	path, err := database.ResolveDBPath(cfg.Server.Database)
	if err != nil {
		return nil, err
	}
	return sqlite.Open(path)
}

func storeRun(cfg *config.Config, run *models.Run) error {
	db, err := openStore(cfg)
	if err != nil {
		return err
	}
	defer db.Close()

	if _, err := db.Runs().Create(context.Background(), run); err != nil {
		return fmt.Errorf("failed to store run: %w", err)
	}
	log.Printf("Stored run %s", run.ID)
	return nil
}

func generate(c *cli.Context) error {
	cfg, err := loadConfig(c)
	if err != nil {
		return err
	}
	seed := seedOf(cfg)
	in, err := instance.Generate(rand.New(rand.NewSource(seed)), cfg.GenerateOptions())
	if err != nil {
		return err
	}
	in.Name = fmt.Sprintf("random-%d", seed)

	out := c.String("out")
	if err := instance.Save(out, in); err != nil {
		return err
	}
	fmt.Printf("Wrote %s (seed %d)\n", out, seed)
	return nil
}
