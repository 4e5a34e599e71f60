package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"time"

	"github.com/goccy/go-json"

	"github.com/vanshika/agegraph/internal/generator"
)

func main() {
	cfg := generator.DefaultConfig()
	var (
		people      = flag.Int("people", cfg.NumPeople, "number of :Person vertices to generate")
		friendships = flag.Int("friendships", cfg.NumFriendships, "number of :KNOWS edges to generate")
		sharedCity  = flag.Float64("shared-city-chance", cfg.SharedCityChance, "probability of reusing an existing city")
		seed        = flag.Int64("seed", cfg.Seed, "random seed for deterministic generation")
		outputDir   = flag.String("output-dir", "seed-data", "directory to write the cypher seed scripts")
		writeStdout = flag.Bool("stdout", false, "write the dataset as JSON to stdout instead of cypher files")
	)
	flag.Parse()

	genCfg := generator.Config{
		NumPeople:        *people,
		NumFriendships:   *friendships,
		SharedCityChance: clampProbability(*sharedCity),
		Seed:             *seed,
	}

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
	defer cancel()

	gen := generator.New(genCfg)
	dataset, err := gen.Generate(ctx)
	if err != nil {
		fmt.Fprintf(os.Stderr, "generation failed: %v\n", err)
		os.Exit(1)
	}

	if *writeStdout {
		if err := json.NewEncoder(os.Stdout).Encode(dataset); err != nil {
			fmt.Fprintf(os.Stderr, "failed to write dataset to stdout: %v\n", err)
			os.Exit(1)
		}
		return
	}

	paths, err := generator.WriteDataset(dataset, *outputDir, *seed)
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to write dataset: %v\n", err)
		os.Exit(1)
	}

	fmt.Fprintf(os.Stdout, "Generated %d people and %d friendships into %v\n", len(dataset.People), len(dataset.Friendships), paths)
}

func clampProbability(value float64) float64 {
	if value < 0 {
		return 0
	}
	if value > 1 {
		return 1
	}
	return value
}
