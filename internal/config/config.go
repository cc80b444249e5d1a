package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"depot-router/internal/instance"
	"depot-router/internal/routing"
)

// Config is the file-backed configuration shared by the CLI and the server
type Config struct {
	Problem ProblemConfig `yaml:"problem"`
	Engine  EngineConfig  `yaml:"engine"`
	Output  OutputConfig  `yaml:"output"`
	Server  ServerConfig  `yaml:"server"`
}

// ProblemConfig describes the random instance to generate when no instance file is given
type ProblemConfig struct {
	Depots         int     `yaml:"depots"`
	Customers      int     `yaml:"customers"`
	Vehicles       int     `yaml:"vehicles"`
	CustomerDemand int     `yaml:"customer_demand"`
	Area           float64 `yaml:"area"`
	InstanceFile   string  `yaml:"instance_file"`
}

type EngineConfig struct {
	PopulationSize          int     `yaml:"population_size"`
	ThresholdPopulationSize int     `yaml:"threshold_population_size"`
	Generations             int     `yaml:"generations"`
	MutationRate            float64 `yaml:"mutation_rate"`
	MaxConstructionAttempts int     `yaml:"max_construction_attempts"`
	Workers                 int     `yaml:"workers"`
	ReportDiscardedFitness  bool    `yaml:"report_discarded_fitness"`
	LogEvery                int     `yaml:"log_every"`
	Seed                    int64   `yaml:"seed"` // 0 means time-based
}

// OutputConfig selects the artifacts written after a solve. Empty paths are skipped.
type OutputConfig struct {
	GeoJSON     string `yaml:"geojson"`
	RoutesPlot  string `yaml:"routes_plot"`
	FitnessPlot string `yaml:"fitness_plot"`
	Quiet       bool   `yaml:"quiet"`
}

type ServerConfig struct {
	Addr     string `yaml:"addr"`
	Database string `yaml:"database"` // empty means the default path under the app data dir
}

// Default is a small problem: 2 depots, 15 customers and 4 vehicles,
// 10 individuals evolved for 200 generations.
func Default() *Config {
	params := routing.DefaultParams()
	return &Config{
		Problem: ProblemConfig{
			Depots:         2,
			Customers:      15,
			Vehicles:       4,
			CustomerDemand: 10,
			Area:           instance.DefaultArea,
		},
		Engine: EngineConfig{
			PopulationSize:          params.PopulationSize,
			ThresholdPopulationSize: params.ThresholdPopulationSize,
			Generations:             params.Generations,
			MutationRate:            params.MutationRate,
			MaxConstructionAttempts: params.MaxConstructionAttempts,
			Workers:                 params.Workers,
			LogEvery:                params.LogEvery,
		},
		Server: ServerConfig{
			Addr: "127.0.0.1:8080",
		},
	}
}

// Load reads a YAML file over the defaults, then applies environment overrides.
// An empty path yields the defaults.
func Load(path string) (*Config, error) {
	cfg := Default()
	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("failed to read config: %w", err)
		}
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("failed to parse config: %w", err)
		}
	}
	cfg.applyEnv()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) applyEnv() {
	c.Server.Addr = getEnv("SERVER_ADDR", c.Server.Addr)
	c.Server.Database = getEnv("CMDVRP_DB", c.Server.Database)
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

// Validate checks the problem section unless an instance file replaces it,
// and the engine parameters always.
func (c *Config) Validate() error {
	if c.Problem.InstanceFile == "" {
		if err := c.GenerateOptions().Validate(); err != nil {
			return err
		}
	}
	if _, err := c.Params().Normalized(); err != nil {
		return fmt.Errorf("invalid engine config: %w", err)
	}
	return nil
}

// GenerateOptions converts the problem section for instance.Generate
func (c *Config) GenerateOptions() instance.GenerateOptions {
	return instance.GenerateOptions{
		Depots:         c.Problem.Depots,
		Customers:      c.Problem.Customers,
		Vehicles:       c.Problem.Vehicles,
		CustomerDemand: c.Problem.CustomerDemand,
		Area:           c.Problem.Area,
	}
}

// Params converts the engine section for routing.NewEngine
func (c *Config) Params() routing.Params {
	return routing.Params{
		PopulationSize:          c.Engine.PopulationSize,
		ThresholdPopulationSize: c.Engine.ThresholdPopulationSize,
		Generations:             c.Engine.Generations,
		MutationRate:            c.Engine.MutationRate,
		MaxConstructionAttempts: c.Engine.MaxConstructionAttempts,
		Workers:                 c.Engine.Workers,
		ReportDiscardedFitness:  c.Engine.ReportDiscardedFitness,
		LogEvery:                c.Engine.LogEvery,
	}
}
