package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"time"

	"github.com/joho/godotenv"

	"github.com/anika/trustpath/backend/internal/config"
	"github.com/anika/trustpath/backend/internal/generator"
	"github.com/anika/trustpath/backend/internal/graph"
	"github.com/anika/trustpath/backend/internal/repository"
)

func main() {
	cfg := generator.DefaultConfig()
	var (
		members     = flag.Int("members", cfg.NumMembers, "number of members to generate")
		orgs        = flag.Int("organizations", cfg.NumOrganizations, "number of organizations to generate")
		connections = flag.Int("connections-per-member", cfg.ConnectionsPerMember, "connections attempted per member")
		ratings     = flag.Int("ratings-per-member", cfg.RatingsPerMember, "organization ratings per member")
		reviews     = flag.Int("reviews-per-member", cfg.ReviewsPerMember, "peer reviews per member")
		hubExtra    = flag.Int("hub-extra-connections", cfg.HubExtraConnections, "additional connections given to the hub member")
		active      = flag.Float64("active-chance", cfg.ActiveChance, "probability that a generated connection is ACTIVE")
		seed        = flag.Int64("seed", cfg.Seed, "random seed for deterministic generation")
		outputDir   = flag.String("output-dir", "data", "directory to write JSON dataset files")
		seedGraph   = flag.Bool("seed-graph", false, "write the dataset into the graph database instead of JSON files")
	)
	flag.Parse()

	genCfg := generator.Config{
		NumMembers:           *members,
		NumOrganizations:     *orgs,
		ConnectionsPerMember: *connections,
		RatingsPerMember:     *ratings,
		ReviewsPerMember:     *reviews,
		HubExtraConnections:  *hubExtra,
		ActiveChance:         clampProbability(*active),
		Seed:                 *seed,
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Minute)
	defer cancel()

	dataset, err := generator.New(genCfg).Generate(ctx)
	if err != nil {
		fmt.Fprintf(os.Stderr, "generation failed: %v\n", err)
		os.Exit(1)
	}

	if !*seedGraph {
		if err := generator.WriteDataset(dataset, *outputDir); err != nil {
			fmt.Fprintf(os.Stderr, "failed to write dataset: %v\n", err)
			os.Exit(1)
		}
		fmt.Fprintf(os.Stdout, "Generated %d members, %d connections, %d ratings, %d reviews into %s (hub: %s)\n",
			len(dataset.Members), len(dataset.Connections), len(dataset.Ratings), len(dataset.Reviews), *outputDir, dataset.HubMemberID)
		return
	}

	if err := seedIntoGraph(ctx, dataset); err != nil {
		fmt.Fprintf(os.Stderr, "seeding failed: %v\n", err)
		os.Exit(1)
	}
	fmt.Fprintf(os.Stdout, "Seeded %d members, %d connections, %d ratings, %d reviews (hub: %s)\n",
		len(dataset.Members), len(dataset.Connections), len(dataset.Ratings), len(dataset.Reviews), dataset.HubMemberID)
	fmt.Fprintf(os.Stdout, "Set HUB_MEMBER_ID=%s or HUB_EMAIL=%s for the server\n", dataset.HubMemberID, generator.HubEmail)
}

func seedIntoGraph(ctx context.Context, dataset generator.Dataset) error {
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}
	if cfg.Graph.URI == "" {
		return graph.ErrMissingURI
	}

	client, err := graph.NewNeo4jClient(ctx, graph.Options{
		URI:            cfg.Graph.URI,
		Database:       cfg.Graph.Database,
		Username:       cfg.Graph.Username,
		Password:       cfg.Graph.Password,
		MaxConnections: cfg.Graph.MaxConnections,
	})
	if err != nil {
		return err
	}
	defer client.Close(context.Background())

	repo := repository.New(client)
	for _, member := range dataset.Members {
		if err := repo.UpsertMember(ctx, member); err != nil {
			return err
		}
	}
	for _, conn := range dataset.Connections {
		if err := repo.UpsertConnection(ctx, conn); err != nil {
			return err
		}
	}
	for _, rating := range dataset.Ratings {
		if err := repo.UpsertRating(ctx, rating); err != nil {
			return err
		}
	}
	for _, review := range dataset.Reviews {
		if err := repo.UpsertReview(ctx, review); err != nil {
			return err
		}
	}
	return nil
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
