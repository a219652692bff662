package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/joho/godotenv"

	"github.com/anika/trustpath/backend/internal/config"
	"github.com/anika/trustpath/backend/internal/graph"
	"github.com/anika/trustpath/backend/internal/logging"
	"github.com/anika/trustpath/backend/internal/repository"
	"github.com/anika/trustpath/backend/internal/server"
	"github.com/anika/trustpath/backend/internal/service"
)

func main() {
	ctx := context.Background()

	// Optional .env for local development; real deployments set env vars.
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to load config: %v\n", err)
		os.Exit(1)
	}

	logger := logging.New(cfg.Logging)

	if cfg.Graph.URI == "" {
		logger.Error("GRAPH_URI is required")
		os.Exit(1)
	}

	graphClient, err := graph.NewNeo4jClient(ctx, graph.Options{
		URI:            cfg.Graph.URI,
		Database:       cfg.Graph.Database,
		Username:       cfg.Graph.Username,
		Password:       cfg.Graph.Password,
		MaxConnections: cfg.Graph.MaxConnections,
	})
	if err != nil {
		logger.Error("failed to create graph client", "error", err)
		os.Exit(1)
	}
	defer func() {
		if err := graphClient.Close(context.Background()); err != nil {
			logger.Warn("closing graph client failed", "error", err)
		}
	}()

	repo := repository.New(graphClient)
	hubResolver := service.NewConfiguredHubResolver(repo, cfg.Hub.MemberID, cfg.Hub.Email, logger)
	routeService := service.NewRouteService(repo, repo, hubResolver, logger)
	apiHandlers := server.NewAPIHandlers(logger, routeService)

	router := server.NewRouter(logger, server.RouterDependencies{
		Health:           server.GraphHealthService{Client: graphClient},
		API:              apiHandlers,
		AllowedOrigins:   parseAllowedOrigins(cfg.HTTP.AllowedOriginsCSV),
		AllowCredentials: true,
	})

	runCtx, stop := signal.NotifyContext(ctx, syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := server.New(logger, cfg.HTTP, router).Run(runCtx); err != nil {
		logger.Error("server stopped unexpectedly", "error", err)
	}
}

func parseAllowedOrigins(csv string) []string {
	if csv == "" {
		return nil
	}
	var origins []string
	for _, part := range strings.Split(csv, ",") {
		origin := strings.TrimSpace(part)
		if origin == "" {
			continue
		}
		origins = append(origins, origin)
	}
	return origins
}
